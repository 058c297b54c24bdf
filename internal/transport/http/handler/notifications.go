package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-notify-gateway/internal/application/notification"
	"github.com/go-notify-gateway/internal/domain"
	"go.uber.org/zap"
)

const noRecipientsMessage = "No hay usuarios a los que enviar un mensaje"

// NotificationHandler handles the push notification endpoints. Responses are
// plain text.
type NotificationHandler struct {
	svc notification.Service
	log *zap.Logger
}

func NewNotificationHandler(svc notification.Service, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, log: log}
}

func (h *NotificationHandler) Notify(w http.ResponseWriter, r *http.Request) {
	var req domain.NotificationRequest
	if status, err := decodeBody(r, &req); err != nil {
		writeText(w, status, err.Error())
		return
	}
	messageID, err := h.svc.Notify(r.Context(), req)
	if err != nil {
		h.log.Error("notify failed", zap.Error(err))
		writeText(w, http.StatusInternalServerError, fmt.Sprintf("Error al enviar el mensaje: %v", err))
		return
	}
	writeText(w, http.StatusOK, fmt.Sprintf("Mensaje enviado correctamente: %s", messageID))
}

func (h *NotificationHandler) NotifyRole(w http.ResponseWriter, r *http.Request) {
	var req domain.RoleNotificationRequest
	if status, err := decodeBody(r, &req); err != nil {
		writeText(w, status, err.Error())
		return
	}
	sent, err := h.svc.NotifyRole(r.Context(), req)
	switch {
	case errors.Is(err, domain.ErrNoRecipients):
		writeText(w, http.StatusNotFound, noRecipientsMessage)
	case err != nil:
		h.log.Error("notify role failed", zap.Stringp("role", req.Role), zap.Error(err))
		writeText(w, http.StatusInternalServerError, fmt.Sprintf("Error al enviar mensaje: %v", err))
	default:
		writeText(w, http.StatusOK, fmt.Sprintf("Mensajes enviados: %d", sent))
	}
}
