package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log" // Use global logger
)

// Config holds all configuration fields for the application.
type Config struct {
	// HTTP server
	Port        string
	WebhookPath string

	// Channel (the WhatsApp Cloud number this service ingests for)
	InboxID            int
	PhoneNumber        string // the channel's own routing number, e.g. "+5511999999999"
	WhatsAppAPIKey     string
	WhatsAppMediaBase  string // e.g. "https://graph.facebook.com"
	WhatsAppAPIVersion string
	WhatsAppProvider   string // "whatsapp_cloud" or "whatsapp_web"
	DefaultLocale      string

	// Persistence
	DatabaseURL string

	// Event publishing (optional)
	RabbitMQURL   string
	RabbitMQQueue string

	// Attachment blob storage (optional)
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
	S3PathStyle bool

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables.
// It attempts to load a .env file if present; environment variables take precedence.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Port:               os.Getenv("PORT"),
		WebhookPath:        os.Getenv("WEBHOOK_PATH"),
		PhoneNumber:        os.Getenv("WHATSAPP_PHONE_NUMBER"),
		WhatsAppAPIKey:     os.Getenv("WHATSAPP_API_KEY"),
		WhatsAppMediaBase:  os.Getenv("WHATSAPP_MEDIA_BASE_URL"),
		WhatsAppAPIVersion: os.Getenv("WHATSAPP_API_VERSION"),
		WhatsAppProvider:   os.Getenv("WHATSAPP_PROVIDER"),
		DefaultLocale:      os.Getenv("DEFAULT_LOCALE"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RabbitMQURL:        os.Getenv("RABBITMQ_URL"),
		RabbitMQQueue:      os.Getenv("RABBITMQ_QUEUE"),
		S3Bucket:           os.Getenv("S3_BUCKET"),
		S3Region:           os.Getenv("S3_REGION"),
		S3Endpoint:         os.Getenv("S3_ENDPOINT"),
		S3AccessKey:        os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:        os.Getenv("S3_SECRET_KEY"),
		S3PublicURL:        os.Getenv("S3_PUBLIC_URL"),
		S3PathStyle:        os.Getenv("S3_PATH_STYLE") == "true",
		LogLevel:           os.Getenv("LOG_LEVEL"),
		LogFormat:          os.Getenv("LOG_FORMAT"),
	}

	if inboxIDStr := os.Getenv("INBOX_ID"); inboxIDStr != "" {
		inboxID, err := strconv.Atoi(inboxIDStr)
		if err != nil {
			log.Error().Err(err).Str("inboxID", inboxIDStr).Msg("INBOX_ID must be an integer")
			return nil, err
		}
		cfg.InboxID = inboxID
	} else {
		cfg.InboxID = 1
		log.Info().Int("inboxID", cfg.InboxID).Msg("INBOX_ID not set, using default")
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.WebhookPath == "" {
		cfg.WebhookPath = "/webhooks/whatsapp" // Default path
		log.Info().Str("path", cfg.WebhookPath).Msg("WEBHOOK_PATH not set, using default")
	}
	if cfg.WhatsAppMediaBase == "" {
		cfg.WhatsAppMediaBase = "https://graph.facebook.com"
	}
	if cfg.WhatsAppAPIVersion == "" {
		cfg.WhatsAppAPIVersion = "v19.0"
	}
	if cfg.WhatsAppProvider == "" {
		cfg.WhatsAppProvider = "whatsapp_cloud"
	}
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = "en"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "wacloud.db"
		log.Info().Str("databaseURL", cfg.DatabaseURL).Msg("DATABASE_URL not set, using local sqlite file")
	}

	return cfg, nil
}
