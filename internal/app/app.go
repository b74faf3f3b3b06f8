package app

import (
	"os"
	"strings"
	"time"

	"transcript-analysis-service/internal/config"
	"transcript-analysis-service/internal/observability/logging"

	"github.com/rs/zerolog"
)

// Application holds process-wide state for the service.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Config
}

// New constructs a new Application from the provided configuration.
func New(cfg *config.Config) *Application {
	a := &Application{
		Cfg: cfg,
	}
	a.setupLogger()

	appLogger := a.Logger.With().
		Str("component", "application").
		Str("method", "New").
		Logger()

	appLogger.Info().Msg("Transcript analysis service application created")
	return a
}

// setupLogger configures the global zerolog logger for the service.
func (a *Application) setupLogger() {
	cfg := logging.DefaultConfig()
	if envLevel := os.Getenv("ZEROLOG_LOG_LEVEL"); envLevel != "" {
		cfg.Level = strings.ToLower(envLevel)
	}
	if os.Getenv("ENV") == "dev" {
		cfg.Format = "console"
	}
	logging.Init(cfg)

	a.Logger = logging.Logger().With().
		Str("service", "transcript-analysis-service").
		Str("component", "application").
		Logger()

	a.Logger.Info().
		Str("logLevel", cfg.Level).
		Str("environment", os.Getenv("ENV")).
		Msg("Logger setup completed")
}

// Start performs any startup work required before serving traffic.
func (a *Application) Start() error {
	startLogger := a.Logger.With().
		Str("method", "Start").
		Logger()

	a.StartupTime = time.Now().UTC()
	startLogger.Info().
		Time("startupTime", a.StartupTime).
		Msg("Transcript analysis service starting")

	return nil
}

// Shutdown performs a best-effort cleanup before process exit.
func (a *Application) Shutdown() {
	shutdownLogger := a.Logger.With().
		Str("method", "Shutdown").
		Logger()

	shutdownLogger.Info().Msg("Transcript analysis service shutting down")
}
