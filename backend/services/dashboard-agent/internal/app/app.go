package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"aquavigil/backend/libs/db"
	libredis "aquavigil/backend/libs/redis"
	"aquavigil/backend/services/dashboard-agent/internal/clients"
	"aquavigil/backend/services/dashboard-agent/internal/config"
	"aquavigil/backend/services/dashboard-agent/internal/history"
	httpserver "aquavigil/backend/services/dashboard-agent/internal/http"
	"aquavigil/backend/services/dashboard-agent/internal/http/handlers"
	"aquavigil/backend/services/dashboard-agent/internal/metrics"
	"aquavigil/backend/services/dashboard-agent/internal/repository"
	"aquavigil/backend/services/dashboard-agent/internal/service"
	"aquavigil/backend/services/dashboard-agent/internal/ws"
)

// App wires dashboard agent dependencies.
type App struct {
	server    *httpserver.Server
	dashboard *service.DashboardService
	hub       *ws.Hub
	redis     *goredis.Client
	db        *sql.DB
	logger    *zap.Logger
}

// New constructs application components.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	metrics.Init()

	app := &App{logger: logger}

	// History blob lives in redis when an address is configured, otherwise in
	// a local JSON file.
	var store history.Store
	if cfg.Redis.Addr != "" {
		redisClient, err := libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		app.redis = redisClient
		store = history.NewRedisStore(redisClient)
	} else {
		store = history.NewFileStore(cfg.History.FilePath)
	}
	historyCache := history.NewCache(store, logger.Named("history"))

	// The reading archive is optional.
	var archive *repository.ReadingArchive
	if cfg.Database.DSN != "" {
		pool, err := db.NewPostgres(cfg.Database.DSN)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.db = pool
		archive = repository.NewReadingArchive(pool)
	}

	httpClient := clients.NewDefaultHTTPClient(cfg.Remote.RequestTimeout)
	monitoring := clients.NewMonitoringClient(cfg.Remote.BaseURL, httpClient, logger.Named("clients"))

	app.hub = ws.NewHub(5*time.Second, logger.Named("ws"))
	app.dashboard = service.NewDashboardService(monitoring, historyCache, archive, app.hub, logger.Named("dashboard"))

	routes := httpserver.Routes{
		Health:        handlers.NewHealthHandler(),
		Metrics:       promhttp.Handler(),
		Modules:       handlers.NewModulesViewHandler(app.dashboard),
		ModuleDetail:  handlers.NewModuleDetailHandler(app.dashboard),
		ModuleHistory: handlers.NewModuleHistoryHandler(app.dashboard),
		Statistics:    handlers.NewStatisticsViewHandler(app.dashboard),
		HistoryList:   handlers.NewHistoryListHandler(app.dashboard),
		HistoryClear:  handlers.NewHistoryClearHandler(app.dashboard),
		WS:            app.hub.Handler,
	}

	router := httpserver.NewRouter(routes)
	app.server = httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return app, nil
}

// Run starts the pollers and serves HTTP until ctx ends.
func (a *App) Run(ctx context.Context) error {
	a.dashboard.Start(ctx)
	defer a.dashboard.Stop()
	defer a.hub.Close()
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
