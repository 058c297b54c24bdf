package firebaseinfra

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"github.com/go-notify-gateway/internal/config"
	"google.golang.org/api/option"
)

// NewApp initialises the Firebase Admin app from the service-account JSON
// bundle in cfg.FirebaseConfig. The project id is taken from the credentials.
func NewApp(ctx context.Context, cfg *config.Config) (*firebase.App, error) {
	app, err := firebase.NewApp(ctx,
		&firebase.Config{DatabaseURL: cfg.DatabaseURL},
		option.WithCredentialsJSON([]byte(cfg.FirebaseConfig)),
	)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	return app, nil
}
