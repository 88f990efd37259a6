// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/artpar/docgate/adapters/auth"
	"github.com/artpar/docgate/adapters/clock"
	"github.com/artpar/docgate/adapters/idgen"
	"github.com/artpar/docgate/adapters/memory"
	"github.com/artpar/docgate/adapters/metrics"
	"github.com/artpar/docgate/adapters/registry"
	"github.com/artpar/docgate/adapters/sqlite"
	"github.com/artpar/docgate/client"
	"github.com/artpar/docgate/config"
	"github.com/artpar/docgate/core/openapi"
	"github.com/artpar/docgate/ports"
	"github.com/artpar/docgate/web"
)

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	DB         *sqlite.DB
	HTTPServer *http.Server
	Metrics    *metrics.Collector
	Registry   *registry.Static
	Service    *openapi.Service
	Client     *client.Client

	settings ports.SettingsStore
	holder   *config.Holder
}

// New wires the application from a loaded configuration.
func New(cfg *config.Config) (*App, error) {
	a := &App{Logger: setupLogger(cfg.Logging)}
	if err := a.init(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// NewWithHotReload wires the application from a config file and watches it
// for changes. Endpoint declarations and document settings apply without a
// restart.
func NewWithHotReload(path string) (*App, error) {
	bootLogger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	holder, err := config.NewHolder(path, bootLogger)
	if err != nil {
		return nil, err
	}

	cfg := holder.Get()
	a := &App{Logger: setupLogger(cfg.Logging), holder: holder}
	if err := a.init(cfg); err != nil {
		holder.Stop()
		return nil, err
	}

	holder.OnChange(a.applyConfig)
	if err := holder.WatchFile(); err != nil {
		a.Logger.Warn().Err(err).Msg("config file watch unavailable")
	}
	holder.WatchSignals()

	return a, nil
}

func (a *App) init(cfg *config.Config) error {
	a.Metrics = nil
	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
	}

	if err := a.initSettings(cfg); err != nil {
		return err
	}

	endpoints, err := registry.FromConfig(cfg.Endpoints)
	if err != nil {
		return fmt.Errorf("build routes: %w", err)
	}
	a.Registry = registry.NewStatic(endpoints)

	generator := openapi.NewGenerator(openapi.GeneratorConfig{
		Routes:   a.Registry,
		Perms:    auth.NewChecker(),
		Settings: a.settings,
		MountURL: cfg.Docs.MountURL,
		Logger:   a.Logger,
	})
	a.Service = openapi.NewService(generator, a.Logger)
	if a.Metrics != nil {
		a.Service.OnCacheHit(a.Metrics.DocCacheHits.Inc)
	}

	if cfg.Upstream.URL != "" {
		if err := a.initClient(cfg); err != nil {
			return err
		}
	}

	verifier := auth.NewBasicVerifier(cfg.Docs.AdminUser, cfg.Docs.AdminPasswordHash)
	docs := web.NewDocsHandler(web.DocsDeps{
		Service:  a.Service,
		Verifier: verifier,
		Public:   cfg.Docs.Public,
		Metrics:  a.Metrics,
		Logger:   a.Logger,
	})

	router := web.NewRouter(web.RouterConfig{
		Docs:           docs,
		Metrics:        a.Metrics,
		MetricsEnabled: cfg.Metrics.Enabled,
		IDs:            idgen.UUID{},
		Logger:         a.Logger,
	})

	a.HTTPServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return nil
}

func (a *App) initSettings(cfg *config.Config) error {
	if cfg.Database.DSN == "" {
		a.settings = memory.NewSettingsStore()
	} else {
		db, err := sqlite.Open(cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return fmt.Errorf("migrate database: %w", err)
		}
		a.DB = db
		a.settings = sqlite.NewSettingsStore(db, clock.Real{})
	}

	return a.seedSettings(cfg)
}

// seedSettings pushes the configured document metadata into the store.
func (a *App) seedSettings(cfg *config.Config) error {
	err := a.settings.Put(context.Background(), ports.Settings{
		Title:       cfg.Docs.Title,
		Description: cfg.Docs.Description,
		LogoURL:     cfg.Docs.LogoURL,
		Versions:    cfg.Docs.Components,
	})
	if err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	return nil
}

func (a *App) initClient(cfg *config.Config) error {
	var observe func(resource string, status int)
	if a.Metrics != nil {
		m := a.Metrics
		observe = func(resource string, status int) {
			m.ClientRequests.WithLabelValues(resource, fmt.Sprintf("%d", status)).Inc()
		}
	}

	c, err := client.New(client.Config{
		BaseURL:  cfg.Upstream.URL,
		Username: cfg.Upstream.Username,
		Password: cfg.Upstream.Password,
		CertFile: cfg.Upstream.CertFile,
		KeyFile:  cfg.Upstream.KeyFile,
		Timeout:  cfg.Upstream.Timeout,
		Logger:   a.Logger,
		Observe:  observe,
	})
	if err != nil {
		return fmt.Errorf("build upstream client: %w", err)
	}
	a.Client = c
	return nil
}

// applyConfig applies a reloaded configuration to the running app.
func (a *App) applyConfig(cfg *config.Config) {
	endpoints, err := registry.FromConfig(cfg.Endpoints)
	if err != nil {
		a.Logger.Error().Err(err).Msg("reloaded endpoints rejected")
		if a.Metrics != nil {
			a.Metrics.ConfigReloadErrors.Inc()
		}
		return
	}

	a.Registry.Replace(endpoints)
	if err := a.seedSettings(cfg); err != nil {
		a.Logger.Error().Err(err).Msg("reloaded settings rejected")
		if a.Metrics != nil {
			a.Metrics.ConfigReloadErrors.Inc()
		}
		return
	}
	a.Service.Invalidate()

	if a.Metrics != nil {
		a.Metrics.ConfigReloads.Inc()
	}
	a.Logger.Info().Int("endpoints", len(endpoints)).Msg("configuration applied")
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.holder != nil {
		a.holder.Stop()
	}

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("database close error")
		}
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
