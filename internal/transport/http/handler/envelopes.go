package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-notify-gateway/internal/domain"
	"github.com/go-notify-gateway/internal/pkg/validate"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// EmailSentEnvelope is the relay result plus the delivery flag.
type EmailSentEnvelope struct {
	*domain.MailResult
	Sent bool `json:"seEnvio"`
}

// EmailFailedEnvelope reports a mail that was not handed to the relay.
type EmailFailedEnvelope struct {
	Message string `json:"mensaje"`
	Sent    bool   `json:"seEnvio"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

// decodeBody decodes and validates a JSON request body. On failure it returns
// the status to answer with: 413 for an oversized body, 400 for malformed
// JSON, 422 for a body that fails validation.
func decodeBody(r *http.Request, v interface{}) (int, error) {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return http.StatusRequestEntityTooLarge, errors.New("request body too large")
		}
		return http.StatusBadRequest, errors.New("invalid request body")
	}
	if err := validate.Struct(v); err != nil {
		return http.StatusUnprocessableEntity, err
	}
	return http.StatusOK, nil
}
