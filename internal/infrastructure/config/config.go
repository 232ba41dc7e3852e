package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/emiliopalmerini/orpheus/internal/domain"
)

const envPrefix = "ORPHEUS"

// Store backends for the feedback log.
const (
	StoreCSV    = "csv"
	StoreLibSQL = "libsql"
)

// Settings holds process configuration read from ORPHEUS_* variables.
type Settings struct {
	DataDir     string `envconfig:"DATA_DIR"`
	Store       string `envconfig:"STORE" default:"csv"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	AuthToken   string `envconfig:"AUTH_TOKEN"`
	Profile     string `envconfig:"PROFILE"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON  bool   `envconfig:"LOG_JSON"`

	OTelEnabled  bool   `envconfig:"OTEL_ENABLED"`
	OTelEndpoint string `envconfig:"OTEL_ENDPOINT"`
	OTelInsecure bool   `envconfig:"OTEL_INSECURE"`
	MetricsFile  string `envconfig:"METRICS_FILE"`

	ServeAddr string `envconfig:"SERVE_ADDR" default:"127.0.0.1:8080"`
}

// LoadSettings loads settings from environment variables.
func LoadSettings() (*Settings, error) {
	var s Settings
	if err := envconfig.Process(envPrefix, &s); err != nil {
		return nil, err
	}
	if s.Store == "" {
		s.Store = StoreCSV
	}
	if s.Store != StoreCSV && s.Store != StoreLibSQL {
		return nil, fmt.Errorf("%w: %s_STORE must be %q or %q, got %q", domain.ErrValidation, envPrefix, StoreCSV, StoreLibSQL, s.Store)
	}
	return &s, nil
}
