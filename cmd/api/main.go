package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/go-notify-gateway/internal/application/email"
	"github.com/go-notify-gateway/internal/application/notification"
	"github.com/go-notify-gateway/internal/application/recipient"
	"github.com/go-notify-gateway/internal/config"
	"github.com/go-notify-gateway/internal/infrastructure/awscfg"
	"github.com/go-notify-gateway/internal/infrastructure/dynamo"
	"github.com/go-notify-gateway/internal/infrastructure/fcm"
	firebaseinfra "github.com/go-notify-gateway/internal/infrastructure/firebase"
	firestoreinfra "github.com/go-notify-gateway/internal/infrastructure/firestore"
	sesinfra "github.com/go-notify-gateway/internal/infrastructure/ses"
	"github.com/go-notify-gateway/internal/infrastructure/smtp"
	snsinfra "github.com/go-notify-gateway/internal/infrastructure/sns"
	"github.com/go-notify-gateway/internal/pkg/logger"
	transporthttp "github.com/go-notify-gateway/internal/transport/http"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// mailCloser is a mail relay holding a connection that must be released on shutdown.
type mailCloser interface {
	email.Mailer
	io.Closer
}

// providers are the process-scoped clients shared by every request.
type providers struct {
	pusher   notification.Pusher
	resolver notification.Resolver
	mailer   mailCloser
	closers  []io.Closer
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	p, err := initProviders(context.Background(), cfg, zl)
	if err != nil {
		zl.Fatal("provider initialisation failed", zap.Error(err))
	}

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		Pusher:   p.pusher,
		Resolver: p.resolver,
		Mailer:   p.mailer,
		Logger:   zl,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zl.Info("server starting",
			zap.String("port", cfg.AppPort),
			zap.String("env", cfg.AppEnv),
			zap.String("push", cfg.PushProvider),
			zap.String("recipients", cfg.RecipientStore),
			zap.String("mail", cfg.MailProvider),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("forced shutdown", zap.Error(err))
	}
	for _, c := range p.closers {
		if err := c.Close(); err != nil {
			zl.Warn("provider close failed", zap.Error(err))
		}
	}
	zl.Info("server stopped")
}

// initProviders builds every configured provider eagerly so credential and
// connectivity problems surface at startup.
func initProviders(ctx context.Context, cfg *config.Config, zl *zap.Logger) (*providers, error) {
	p := &providers{}

	var app *firebase.App
	if cfg.UsesFirebase() {
		a, err := firebaseinfra.NewApp(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app = a
	}

	var awsCfg aws.Config
	if cfg.UsesAWS() {
		c, err := awscfg.Load(ctx, cfg)
		if err != nil {
			return nil, err
		}
		awsCfg = c
	}

	switch cfg.PushProvider {
	case config.PushProviderSNS:
		p.pusher = snsinfra.NewSender(snsinfra.NewClient(awsCfg, cfg))
	default:
		mc, err := app.Messaging(ctx)
		if err != nil {
			return nil, fmt.Errorf("init firebase messaging: %w", err)
		}
		p.pusher = fcm.NewSender(mc)
	}

	switch cfg.RecipientStore {
	case config.RecipientStoreDynamo:
		client := dynamo.NewClient(awsCfg, cfg)
		if cfg.DynamoBootstrap {
			dynamo.Bootstrap(ctx, client, cfg.Recipients, zl)
		}
		p.resolver = recipient.NewResolver(dynamo.NewRecipientRepo(client, cfg.Recipients))
	default:
		fc, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("init firestore: %w", err)
		}
		p.closers = append(p.closers, fc)
		p.resolver = recipient.NewResolver(firestoreinfra.NewRecipientRepo(fc, cfg.Recipients))
	}

	switch cfg.MailProvider {
	case config.MailProviderSES:
		p.mailer = sesinfra.NewMailer(sesinfra.NewClient(awsCfg, cfg), cfg)
	default:
		p.mailer = smtp.NewRelay(cfg, zl.Named("smtp"))
	}
	p.closers = append(p.closers, p.mailer)

	return p, nil
}
