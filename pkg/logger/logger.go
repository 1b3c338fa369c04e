package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log" // zerolog's global logger
)

// InitLogger initializes zerolog's global logger instance.
// It allows for console or JSON output based on the LOG_FORMAT environment variable.
// Log level is also configured via LOG_LEVEL environment variable.
func InitLogger() {
	logFormat := os.Getenv("LOG_FORMAT")
	logLevelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))

	var level zerolog.Level
	switch logLevelStr {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	case "fatal":
		level = zerolog.FatalLevel
	case "panic":
		level = zerolog.PanicLevel
	default:
		level = zerolog.InfoLevel // Default to info level
	}

	zerolog.SetGlobalLevel(level)

	if logFormat != "json" { // Default to console if not "json"
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	// If logFormat is "json", zerolog's default JSON output to os.Stderr is kept as-is.

	log.Info().Str("logFormat", logFormat).Str("logLevel", level.String()).Msg("Logger initialized")
}

// GetLogger returns the configured global zerolog logger.
func GetLogger() zerolog.Logger {
	return log.Logger
}
