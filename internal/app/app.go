package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/metropolia-apps/faq-core/internal/config"
	"github.com/metropolia-apps/faq-core/internal/middleware"
	"github.com/metropolia-apps/faq-core/internal/pkg/configwatcher"
	"github.com/metropolia-apps/faq-core/internal/pkg/monitoring"
	"github.com/metropolia-apps/faq-core/internal/upstream"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.Store
	router *gin.Engine
	logger *zap.Logger
	cancel context.CancelFunc
}

// New initializes the application: credential check → router →
// middleware → routes. The upstream credential is resolved exactly once
// here; a missing credential aborts startup.
func New(logger *zap.Logger, cfg *config.AppConfig, configPath string) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	apiKey := cfg.Upstream.ResolveAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("upstream api key is not set: add upstream.api_key to the config or export %s", cfg.Upstream.CredentialEnvVar())
	}
	resolved := *cfg
	resolved.Upstream.APIKey = apiKey
	store := config.NewStore(&resolved)

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			return originAllowed(patterns, origin)
		}
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	router.Use(cors.New(corsConfig))

	monitoring.Init()
	router.Use(monitoring.Middleware())

	if resolved.RateLimit.Enable {
		router.Use(middleware.RateLimit(resolved.RateLimit.Requests, resolved.RateLimit.Window))
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		err := configwatcher.Watch(ctx, logger, configPath, func(next *config.AppConfig) {
			store.ApplyReload(next)
			cur := store.Current()
			logger.Info("config reloaded",
				zap.String("model", cur.Upstream.Model),
				zap.Bool("custom_system_prompt", cur.Prompt.System != ""),
			)
		})
		if err != nil {
			logger.Warn("config watcher unavailable", zap.Error(err))
		}
	}()

	app := &App{cfg: store, router: router, logger: logger, cancel: cancel}
	app.registerRoutes()

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Current().Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background goroutines.
func (a *App) Shutdown() { a.cancel() }

// ProbeUpstream verifies that the configured provider is reachable and
// accepts the credential.
func (a *App) ProbeUpstream(ctx context.Context) error {
	cfg := a.cfg.Current()
	return upstream.Probe(ctx, upstream.Provider{
		Type:     cfg.Upstream.Type,
		APIKey:   cfg.Upstream.APIKey,
		Endpoint: cfg.Upstream.Endpoint,
		Model:    cfg.Upstream.Model,
	})
}

var processStart = time.Now()
