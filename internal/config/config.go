package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	PushProviderFCM = "fcm"
	PushProviderSNS = "sns"

	RecipientStoreFirestore = "firestore"
	RecipientStoreDynamo    = "dynamo"

	MailProviderSMTP = "smtp"
	MailProviderSES  = "ses"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort         string
	AppEnv          string
	LogLevel        string
	AllowedOrigins  []string // CORS allowed origins
	ShutdownTimeout time.Duration

	PushProvider   string
	RecipientStore string
	MailProvider   string

	FirebaseConfig string // service-account JSON
	DatabaseURL    string

	Recipients RecipientSchema

	AWSRegion       string
	AWSEndpointURL  string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID  string
	AWSSecretKey    string
	DynamoBootstrap bool

	SMTPHost         string
	SMTPPort         string
	MailUsername     string
	MailPassword     string
	MailFromName     string
	MailFrom         string
	MailStrictStatus bool
}

// RecipientSchema names the collection and attributes holding recipient records.
type RecipientSchema struct {
	Collection string
	RoleField  string
	TokenField string
}

// Load reads all configuration from environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		AppPort:         v.GetString("PORT"),
		AppEnv:          v.GetString("APP_ENV"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		AllowedOrigins:  splitList(v.GetString("ALLOWED_ORIGINS")),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		PushProvider:    strings.ToLower(v.GetString("PUSH_PROVIDER")),
		RecipientStore:  strings.ToLower(v.GetString("RECIPIENT_STORE")),
		MailProvider:    strings.ToLower(v.GetString("MAIL_PROVIDER")),
		FirebaseConfig:  v.GetString("FIREBASE_CONFIG"),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		Recipients: RecipientSchema{
			Collection: v.GetString("RECIPIENTS_COLLECTION"),
			RoleField:  v.GetString("RECIPIENT_ROLE_FIELD"),
			TokenField: v.GetString("RECIPIENT_TOKEN_FIELD"),
		},
		AWSRegion:        v.GetString("AWS_REGION"),
		AWSEndpointURL:   v.GetString("AWS_ENDPOINT_URL"),
		AWSAccessKeyID:   v.GetString("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:     v.GetString("AWS_SECRET_ACCESS_KEY"),
		DynamoBootstrap:  v.GetBool("DYNAMO_BOOTSTRAP"),
		SMTPHost:         v.GetString("SMTP_HOST"),
		SMTPPort:         v.GetString("SMTP_PORT"),
		MailUsername:     v.GetString("MAIL"),
		MailPassword:     v.GetString("PASSWORD"),
		MailFromName:     v.GetString("MAIL_FROM_NAME"),
		MailFrom:         v.GetString("MAIL_FROM"),
		MailStrictStatus: v.GetBool("MAIL_STRICT_STATUS"),
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// UsesFirebase reports whether any configured backend needs the Firebase app.
func (c *Config) UsesFirebase() bool {
	return c.PushProvider == PushProviderFCM || c.RecipientStore == RecipientStoreFirestore
}

// UsesAWS reports whether any configured backend needs AWS credentials.
func (c *Config) UsesAWS() bool {
	return c.PushProvider == PushProviderSNS || c.RecipientStore == RecipientStoreDynamo || c.MailProvider == MailProviderSES
}

// IsProduction selects JSON logs.
func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

func (c *Config) validate() error {
	switch c.PushProvider {
	case PushProviderFCM, PushProviderSNS:
	default:
		return fmt.Errorf("unknown PUSH_PROVIDER %q", c.PushProvider)
	}
	switch c.RecipientStore {
	case RecipientStoreFirestore, RecipientStoreDynamo:
	default:
		return fmt.Errorf("unknown RECIPIENT_STORE %q", c.RecipientStore)
	}
	switch c.MailProvider {
	case MailProviderSMTP, MailProviderSES:
	default:
		return fmt.Errorf("unknown MAIL_PROVIDER %q", c.MailProvider)
	}
	if c.UsesFirebase() && c.FirebaseConfig == "" {
		return fmt.Errorf("FIREBASE_CONFIG is required for %s/%s", c.PushProvider, c.RecipientStore)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("PUSH_PROVIDER", PushProviderFCM)
	v.SetDefault("RECIPIENT_STORE", RecipientStoreFirestore)
	v.SetDefault("MAIL_PROVIDER", MailProviderSMTP)
	v.SetDefault("RECIPIENTS_COLLECTION", "usuarios")
	v.SetDefault("RECIPIENT_ROLE_FIELD", "perfil")
	v.SetDefault("RECIPIENT_TOKEN_FIELD", "token")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("DYNAMO_BOOTSTRAP", false)
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", "465")
	v.SetDefault("MAIL_FROM_NAME", "Comanda CEN")
	v.SetDefault("MAIL_FROM", "comandacen@gmail.com")
	v.SetDefault("MAIL_STRICT_STATUS", false)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
