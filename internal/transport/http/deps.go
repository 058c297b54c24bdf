package http

import (
	"github.com/go-notify-gateway/internal/application/email"
	"github.com/go-notify-gateway/internal/application/notification"
	"go.uber.org/zap"
)

// Deps holds the process-scoped collaborators the router needs. Providers are
// initialised once in main and shared by every request.
type Deps struct {
	Pusher   notification.Pusher
	Resolver notification.Resolver
	Mailer   email.Mailer
	Logger   *zap.Logger
}
