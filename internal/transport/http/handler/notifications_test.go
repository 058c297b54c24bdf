package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-notify-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"
)

// --- mock ---

type mockNotificationSvc struct{ mock.Mock }

func (m *mockNotificationSvc) Notify(ctx context.Context, req domain.NotificationRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockNotificationSvc) NotifyRole(ctx context.Context, req domain.RoleNotificationRequest) (int, error) {
	args := m.Called(ctx, req)
	return args.Int(0), args.Error(1)
}

// --- helpers ---

func newNotificationHandler(t *testing.T, svc *mockNotificationSvc) *NotificationHandler {
	t.Helper()
	return NewNotificationHandler(svc, zaptest.NewLogger(t))
}

func strPtr(s string) *string { return &s }

func post(target, body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
}

// --- Notify tests ---

func TestNotify_HappyPath(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("Notify", mock.Anything, domain.NotificationRequest{Token: strPtr("tok"), Title: strPtr("Hola"), Body: strPtr("Pedido listo")}).
		Return("projects/comanda/messages/42", nil).Once()

	rr := httptest.NewRecorder()
	newNotificationHandler(t, svc).Notify(rr, post("/notify", `{"token":"tok","title":"Hola","body":"Pedido listo"}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Mensaje enviado correctamente: projects/comanda/messages/42", rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
	svc.AssertExpectations(t)
}

func TestNotify_ProviderError(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("Notify", mock.Anything, mock.Anything).Return("", errors.New("invalid registration token"))

	rr := httptest.NewRecorder()
	newNotificationHandler(t, svc).Notify(rr, post("/notify", `{"token":"bad","title":"t","body":"b"}`))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Error al enviar el mensaje: invalid registration token", rr.Body.String())
}

func TestNotify_InvalidBody(t *testing.T) {
	svc := &mockNotificationSvc{}
	rr := httptest.NewRecorder()
	newNotificationHandler(t, svc).Notify(rr, post("/notify", "not-json"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestNotify_ValidationFailure(t *testing.T) {
	svc := &mockNotificationSvc{}
	rr := httptest.NewRecorder()
	newNotificationHandler(t, svc).Notify(rr, post("/notify", `{"title":"t","body":"b"}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "field 'token' failed 'required'")
	svc.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestNotify_BodyTooLarge(t *testing.T) {
	svc := &mockNotificationSvc{}
	body := fmt.Sprintf(`{"token":"tok","title":"t","body":"%s"}`, bytes.Repeat([]byte("x"), 64))
	r := post("/notify", body)
	rr := httptest.NewRecorder()
	r.Body = http.MaxBytesReader(rr, r.Body, 16)

	newNotificationHandler(t, svc).Notify(rr, r)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	svc.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestNotify_EmptyBodyIsPresent(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("Notify", mock.Anything, domain.NotificationRequest{Token: strPtr("t1"), Title: strPtr("Pedido listo"), Body: strPtr("")}).
		Return("m1", nil).Once()

	rr := httptest.NewRecorder()
	newNotificationHandler(t, svc).Notify(rr, post("/notify", `{"token":"t1","title":"Pedido listo","body":""}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Mensaje enviado correctamente: m1", rr.Body.String())
	svc.AssertExpectations(t)
}

func TestNotify_MissingBody(t *testing.T) {
	svc := &mockNotificationSvc{}
	rr := httptest.NewRecorder()
	newNotificationHandler(t, svc).Notify(rr, post("/notify", `{"token":"t1","title":"Pedido listo"}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "field 'body' failed 'required'", rr.Body.String())
	svc.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestNotify_NullBody(t *testing.T) {
	svc := &mockNotificationSvc{}
	rr := httptest.NewRecorder()
	newNotificationHandler(t, svc).Notify(rr, post("/notify", `{"token":"t1","title":"Pedido listo","body":null}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	svc.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

// --- NotifyRole tests ---

func TestNotifyRole_HappyPath(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("NotifyRole", mock.Anything, domain.RoleNotificationRequest{Title: strPtr("Nuevo pedido"), Body: strPtr("Mesa 3"), Role: strPtr("cocinero")}).
		Return(3, nil).Once()

	rr := httptest.NewRecorder()
	newNotificationHandler(t, svc).NotifyRole(rr, post("/notify-role", `{"title":"Nuevo pedido","body":"Mesa 3","role":"cocinero"}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Mensajes enviados: 3", rr.Body.String())
	svc.AssertExpectations(t)
}

func TestNotifyRole_NoRecipients(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("NotifyRole", mock.Anything, mock.Anything).Return(0, fmt.Errorf("role %q: %w", "bartender", domain.ErrNoRecipients))

	rr := httptest.NewRecorder()
	newNotificationHandler(t, svc).NotifyRole(rr, post("/notify-role", `{"title":"t","body":"b","role":"bartender"}`))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "No hay usuarios a los que enviar un mensaje", rr.Body.String())
}

func TestNotifyRole_Failure(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("NotifyRole", mock.Anything, mock.Anything).Return(0, errors.New("deadline exceeded"))

	rr := httptest.NewRecorder()
	newNotificationHandler(t, svc).NotifyRole(rr, post("/notify-role", `{"title":"t","body":"b","role":"mozo"}`))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Error al enviar mensaje: deadline exceeded", rr.Body.String())
}

func TestNotifyRole_ValidationFailure(t *testing.T) {
	svc := &mockNotificationSvc{}
	rr := httptest.NewRecorder()
	newNotificationHandler(t, svc).NotifyRole(rr, post("/notify-role", `{"title":"t","body":"b"}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "field 'role' failed 'required'")
	svc.AssertNotCalled(t, "NotifyRole", mock.Anything, mock.Anything)
}

func TestNotifyRole_EmptyBodyIsPresent(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("NotifyRole", mock.Anything, domain.RoleNotificationRequest{Title: strPtr("Pedido listo"), Body: strPtr(""), Role: strPtr("mozo")}).
		Return(1, nil).Once()

	rr := httptest.NewRecorder()
	newNotificationHandler(t, svc).NotifyRole(rr, post("/notify-role", `{"title":"Pedido listo","body":"","role":"mozo"}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Mensajes enviados: 1", rr.Body.String())
	svc.AssertExpectations(t)
}

func TestNotifyRole_MissingBody(t *testing.T) {
	svc := &mockNotificationSvc{}
	rr := httptest.NewRecorder()
	newNotificationHandler(t, svc).NotifyRole(rr, post("/notify-role", `{"title":"Pedido listo","role":"mozo"}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "field 'body' failed 'required'", rr.Body.String())
	svc.AssertNotCalled(t, "NotifyRole", mock.Anything, mock.Anything)
}
