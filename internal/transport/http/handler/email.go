package handler

import (
	"net/http"

	"github.com/go-notify-gateway/internal/application/email"
	"github.com/go-notify-gateway/internal/domain"
	"go.uber.org/zap"
)

const emailFailedMessage = "No se pudo enviar el mail"

// EmailHandler handles account decision emails.
type EmailHandler struct {
	svc          email.Service
	log          *zap.Logger
	strictStatus bool
}

// NewEmailHandler builds the handler. With strictStatus a relay failure is
// answered with 502 instead of 200.
func NewEmailHandler(svc email.Service, log *zap.Logger, strictStatus bool) *EmailHandler {
	return &EmailHandler{svc: svc, log: log, strictStatus: strictStatus}
}

func (h *EmailHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req domain.EmailRequest
	if status, err := decodeBody(r, &req); err != nil {
		writeJSON(w, status, EmailFailedEnvelope{Message: emailFailedMessage, Error: err.Error()})
		return
	}
	res, err := h.svc.Send(r.Context(), req)
	if err != nil {
		h.log.Error("send email failed", zap.String("to", req.Mail), zap.Error(err))
		status := http.StatusOK
		if h.strictStatus {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, EmailFailedEnvelope{Message: emailFailedMessage, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, EmailSentEnvelope{MailResult: res, Sent: true})
}
