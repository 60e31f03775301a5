// Package logger configures the application-wide structured logger.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the shared application logger. It writes to stdout until Init is
// called with the loaded configuration.
var Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
	With().Timestamp().Logger()

// Init sets the global log level and, when filePath is non-empty, adds a
// rotated file writer next to the console writer.
func Init(level, filePath string) {
	zerolog.SetGlobalLevel(parseLevel(level))

	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339},
	}

	if filePath != "" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   filePath,
				MaxSize:    50, // megabytes
				MaxBackups: 5,
				MaxAge:     30, // days
				Compress:   true,
			})
		}
	}

	var w io.Writer = writers[0]
	if len(writers) > 1 {
		w = zerolog.MultiLevelWriter(writers...)
	}

	Log = zerolog.New(w).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithSymbol returns a child logger tagged with a ticker symbol.
func WithSymbol(symbol string) zerolog.Logger {
	return Log.With().Str("symbol", symbol).Logger()
}
