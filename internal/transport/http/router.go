package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-notify-gateway/internal/application/email"
	"github.com/go-notify-gateway/internal/application/notification"
	"github.com/go-notify-gateway/internal/config"
	"github.com/go-notify-gateway/internal/transport/http/handler"
	appmiddleware "github.com/go-notify-gateway/internal/transport/http/middleware"
)

// maxBodyBytes bounds request bodies at 100 KiB.
const maxBodyBytes = 100 << 10

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(chimiddleware.RequestSize(maxBodyBytes))

	notifSvc := notification.NewService(deps.Pusher, deps.Resolver)
	emailSvc := email.NewService(deps.Mailer)

	healthH := handler.NewHealthHandler()
	notifH := handler.NewNotificationHandler(notifSvc, deps.Logger)
	emailH := handler.NewEmailHandler(emailSvc, deps.Logger, cfg.MailStrictStatus)

	r.Get("/health-check/{action}", healthH.Ping)
	r.Post("/notify", notifH.Notify)
	r.Post("/notify-role", notifH.NotifyRole)
	r.Post("/send-email", emailH.Send)

	return r
}
