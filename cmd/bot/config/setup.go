package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// ErrMissingToken is returned when no bot token is configured.
var ErrMissingToken = errors.New("bot token is required")

// LoadEnvFiles loads the given .env files, or .env when none are given, into the environment. Missing files are
// ignored and variables already set are not overridden.
func LoadEnvFiles(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading env file: %w", err)
	}
	return nil
}

// Parse reads the configuration from the environment.
func Parse(l *slog.Logger) (*Values, error) {
	v := &Values{
		SettingsFile:   DefaultSettingsFile,
		MonitoringPort: DefaultMonitoringPort,
	}

	if envBT := os.Getenv(EnvBotToken); envBT != "" {
		l.Debug("Found bot token in environment", slog.String("key", EnvBotToken))
		v.BotToken = envBT
	} else {
		return nil, fmt.Errorf("%w: set %s", ErrMissingToken, EnvBotToken)
	}

	if envAppId := os.Getenv(EnvApplicationId); envAppId != "" {
		l.Debug("Found application ID in environment", slog.String("key", EnvApplicationId))
		v.ApplicationId = envAppId
	}

	if envSettings := os.Getenv(EnvSettingsFile); envSettings != "" {
		l.Debug("Found settings file in environment", slog.String("key", EnvSettingsFile))
		v.SettingsFile = envSettings
	}

	if envMongoUri := os.Getenv(EnvMongoUri); envMongoUri != "" {
		l.Debug("Found MongoDB URI in environment", slog.String("key", EnvMongoUri))
		v.MongoUri = envMongoUri
	} else {
		l.Info("No MongoDB URI provided in environment, audit archive disabled", slog.String("key", EnvMongoUri))
	}

	if envMonitoringPort := os.Getenv(EnvMonitoringPort); envMonitoringPort != "" {
		l.Debug("Found monitoring port in environment", slog.String("key", EnvMonitoringPort))
		v.MonitoringPort = envMonitoringPort
	} else {
		l.Info("No monitoring port provided in environment, defaulting to "+DefaultMonitoringPort,
			slog.String("key", EnvMonitoringPort))
	}

	return v, nil
}
