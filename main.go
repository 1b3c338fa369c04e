package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/rs/zerolog/log"

	"wacloud-ingest/config"
	"wacloud-ingest/internal/channel"
	"wacloud-ingest/internal/db"
	"wacloud-ingest/internal/events"
	"wacloud-ingest/internal/handlers"
	"wacloud-ingest/internal/services"
	"wacloud-ingest/internal/storage"
	"wacloud-ingest/internal/store"
	"wacloud-ingest/internal/whatsapp"
	"wacloud-ingest/pkg/logger"
)

func main() {
	logger.InitLogger() // Configures the global log.Logger

	log.Info().Msg("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log.Info().Msg("Configuration loaded successfully.")

	log.Info().Str("database_url", cfg.DatabaseURL).Msg("Initializing database...")
	if err := db.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	log.Info().Msg("Running database migrations...")
	if err := db.MigrateDB(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	ch := channel.New(
		cfg.InboxID,
		cfg.PhoneNumber,
		cfg.WhatsAppAPIKey,
		cfg.WhatsAppMediaBase,
		cfg.WhatsAppAPIVersion,
		cfg.WhatsAppProvider,
		cfg.DefaultLocale,
	)

	mediaClient := whatsapp.NewMediaClient()

	blobStore := storage.NewS3Store(storage.S3Options{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
		PathStyle: cfg.S3PathStyle,
	})

	publisher := events.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQQueue)
	defer publisher.Close()

	ingestService := services.NewIngestService(store.New(db.DB), ch, mediaClient, blobStore, publisher)
	log.Info().Int("inboxID", cfg.InboxID).Msg("Ingestion pipeline initialized successfully")

	webhookHandler := handlers.NewWebhookHandler(ingestService)

	router := mux.NewRouter()
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "WhatsApp Cloud ingestion service is running.")
	}).Methods(http.MethodGet)
	router.Handle(cfg.WebhookPath, alice.New(requestLogger).ThenFunc(webhookHandler.Handle)).Methods(http.MethodPost)
	log.Info().Str("path", cfg.WebhookPath).Msg("Registered WhatsApp webhook handler")

	log.Info().Str("port", cfg.Port).Msgf("Server starting on port %s...", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

// requestLogger logs one line per webhook delivery.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Handled webhook request")
	})
}
