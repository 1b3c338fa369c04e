package db

import (
	"fmt"
	stlog "log"
	"time"

	"github.com/rs/zerolog/log" // Use zerolog's global logger
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"wacloud-ingest/internal/models"
)

// DB is the global database connection instance.
var DB *gorm.DB

// InitDB initializes the database connection using the provided DSN.
func InitDB(dsn string) error {
	if dsn == "" {
		return fmt.Errorf("database DSN cannot be empty")
	}

	// Route GORM's logging through zerolog's global logger and keep its
	// verbosity aligned with the configured zerolog level.
	var gormLogLevel gormlogger.LogLevel
	switch log.Logger.GetLevel().String() {
	case "debug", "trace":
		gormLogLevel = gormlogger.Info
	case "warn":
		gormLogLevel = gormlogger.Warn
	case "error", "fatal", "panic":
		gormLogLevel = gormlogger.Error
	default:
		gormLogLevel = gormlogger.Warn
	}

	newLogger := gormlogger.New(
		stlog.New(log.Logger, "", 0),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var err error
	DB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info().Msg("Database connection established successfully.")
	return nil
}

// MigrateDB runs GORM's AutoMigrate for the ingestion entities.
// It should be called after InitDB.
func MigrateDB() error {
	if DB == nil {
		return fmt.Errorf("database not initialized, call InitDB first")
	}

	err := DB.AutoMigrate(
		&models.Contact{},
		&models.ContactInbox{},
		&models.Conversation{},
		&models.Message{},
		&models.Attachment{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	log.Info().Msg("Database migration completed successfully.")
	return nil
}
