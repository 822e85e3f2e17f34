package app

import (
	"time"

	"medical-conversation-processor/internal/config"
	"medical-conversation-processor/internal/observability/logging"

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

	appLogger.Info().Msg("Medical conversation processor application created")
	return a
}

// setupLogger configures the global zerolog logger for the service.
func (a *Application) setupLogger() {
	logCfg := logging.DefaultConfig()
	if a.Cfg != nil {
		if a.Cfg.Observability.LogLevel != "" {
			logCfg.Level = a.Cfg.Observability.LogLevel
		}
		if a.Cfg.Observability.LogFormat != "" {
			logCfg.Format = a.Cfg.Observability.LogFormat
		}
	}
	logging.Init(logCfg)

	a.Logger = logging.Logger().With().
		Str("service", "medical-conversation-processor").
		Logger()

	a.Logger.Info().
		Str("logLevel", logCfg.Level).
		Str("logFormat", logCfg.Format).
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
		Msg("Medical conversation processor starting")

	return nil
}

// Shutdown performs a best-effort cleanup before process exit.
func (a *Application) Shutdown() {
	shutdownLogger := a.Logger.With().
		Str("method", "Shutdown").
		Logger()

	shutdownLogger.Info().Msg("Medical conversation processor shutting down")
}
