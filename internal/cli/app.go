package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/emiliopalmerini/orpheus/internal/adapters/csvlog"
	"github.com/emiliopalmerini/orpheus/internal/adapters/otel"
	"github.com/emiliopalmerini/orpheus/internal/adapters/prometheus"
	"github.com/emiliopalmerini/orpheus/internal/adapters/storage"
	"github.com/emiliopalmerini/orpheus/internal/adapters/turso"
	"github.com/emiliopalmerini/orpheus/internal/infrastructure/config"
	"github.com/emiliopalmerini/orpheus/internal/infrastructure/database"
	"github.com/emiliopalmerini/orpheus/internal/migrate"
	"github.com/emiliopalmerini/orpheus/internal/pipeline"
	"github.com/emiliopalmerini/orpheus/internal/ports"
	"github.com/emiliopalmerini/orpheus/internal/util"
)

const (
	profileFile  = "profile.yaml"
	databaseFile = "orpheus.db"
	closeTimeout = 5 * time.Second
)

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	Settings  *config.Settings
	Profile   *config.Profile
	Logger    *slog.Logger
	DataDir   string
	DB        *database.Client
	Store     ports.FeedbackStore
	Artifacts *storage.ArtifactStorage
	Metrics   ports.MetricsExporter
}

// NewAppContext creates an AppContext with all dependencies initialized.
// Command-line flags take precedence over ORPHEUS_* variables.
func NewAppContext(ctx context.Context) (*AppContext, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if dataDir != "" {
		settings.DataDir = dataDir
	}
	if profilePath != "" {
		settings.Profile = profilePath
	}

	level := settings.LogLevel
	if verbose {
		level = "debug"
	}
	logger := util.NewLogger(level, settings.LogJSON)

	dir, err := util.ResolveDataDir(settings.DataDir)
	if err != nil {
		return nil, err
	}

	profile, err := config.LoadProfile(resolveProfilePath(settings.Profile, dir))
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	app := &AppContext{
		Settings: settings,
		Profile:  profile,
		Logger:   logger,
		DataDir:  dir,
	}

	if err := app.openStore(ctx); err != nil {
		return nil, err
	}

	artifacts, err := storage.NewArtifactStorage(dir)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to initialize artifact storage: %w", err)
	}
	app.Artifacts = artifacts
	app.Metrics = newMetricsExporter(ctx, settings, logger)

	logger.Debug("app initialized", "data_dir", dir, "store", settings.Store)
	return app, nil
}

// resolveProfilePath falls back to <dataDir>/profile.yaml when it exists.
func resolveProfilePath(path, dataDir string) string {
	if path != "" {
		return path
	}
	candidate := filepath.Join(dataDir, profileFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

func (a *AppContext) openStore(ctx context.Context) error {
	switch a.Settings.Store {
	case config.StoreLibSQL:
		db, err := openDatabase(a.Settings, a.DataDir)
		if err != nil {
			return err
		}
		if err := migrate.RunAll(ctx, db.DB); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		a.DB = db
		a.Store = turso.NewFeedbackRepository(db.DB)
	default:
		a.Store = csvlog.New(a.DataDir)
	}
	return nil
}

func openDatabase(settings *config.Settings, dataDir string) (*database.Client, error) {
	url := settings.DatabaseURL
	if url == "" {
		url = "file:" + filepath.Join(dataDir, databaseFile)
	}
	db, err := database.New(url, settings.AuthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// newMetricsExporter wires every configured exporter. Exporters that fail to
// start are logged and skipped.
func newMetricsExporter(ctx context.Context, settings *config.Settings, logger *slog.Logger) ports.MetricsExporter {
	var exporters fanout

	if settings.OTelEnabled {
		exp, err := otel.NewExporter(ctx, otel.Config{
			Endpoint: settings.OTelEndpoint,
			Enabled:  settings.OTelEnabled,
			Insecure: settings.OTelInsecure,
		})
		if err != nil {
			logger.Warn("OTEL exporter disabled", "error", err)
		} else {
			exporters = append(exporters, exp)
		}
	}

	if settings.MetricsFile != "" {
		exp, err := prometheus.NewTextfileExporter(settings.MetricsFile)
		if err != nil {
			logger.Warn("Prometheus textfile exporter disabled", "error", err)
		} else {
			exporters = append(exporters, exp)
		}
	}

	switch len(exporters) {
	case 0:
		return otel.NewNoOpExporter()
	case 1:
		return exporters[0]
	default:
		return exporters
	}
}

// NewService builds the listen pipeline over the app's store and exporters.
func (a *AppContext) NewService(prompter ports.Prompter, player ports.TonePlayer) (*pipeline.Service, error) {
	return pipeline.New(*a.Profile, pipeline.Deps{
		Store:     a.Store,
		Prompter:  prompter,
		Player:    player,
		Artifacts: a.Artifacts,
		Metrics:   a.Metrics,
	}, a.Logger)
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close() error {
	var errs []error
	if a.Metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := a.Metrics.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
