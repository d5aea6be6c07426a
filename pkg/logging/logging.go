package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	// KeyError is the key for an error attribute.
	KeyError = "err"

	// KeyDal is the key for the data access layer name.
	KeyDal = "dal"

	// KeyChannel is the key for a channel ID.
	KeyChannel = "channel_id"

	// KeyUser is the key for a user ID.
	KeyUser = "user_id"

	// KeyTicket is the key for a ticket ID.
	KeyTicket = "ticket_id"

	// EnvLogLevel is the environment variable for the log level.
	EnvLogLevel = `LOG_LEVEL`
)

// Name is the name of the application, attached to every record.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// appName is the name of the application.
	appName Name

	// level is the minimum level that is logged.
	level slog.Level

	// w is where records are written.
	w io.Writer
}

// NewConfig creates a logger configuration for the application, reading the level from the environment.
func NewConfig(appName Name) *Config {
	return &Config{
		appName: appName,
		level:   ParseLevel(os.Getenv(EnvLogLevel)),
		w:       os.Stdout,
	}
}

// WithWriter sets the output of the logger.
func (c *Config) WithWriter(w io.Writer) *Config {
	c.w = w
	return c
}

// ParseLevel converts a level name into a slog.Level. Unknown names default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// CommonLogger creates the JSON logger used across the application and sets it as the default.
func CommonLogger(c *Config) (*slog.Logger, error) {
	if c == nil {
		return nil, fmt.Errorf("logging config is nil")
	} else if c.appName == "" {
		return nil, fmt.Errorf("app name is required")
	}

	w := c.w
	if w == nil {
		w = os.Stdout
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: c.level == slog.LevelDebug,
		Level:     c.level,
	})

	l := slog.New(h).With(slog.String("app", string(c.appName)))
	slog.SetDefault(l)
	return l, nil
}
