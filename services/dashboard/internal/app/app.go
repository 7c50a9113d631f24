package app

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	libdb "evcharge/libs/db"
	libredis "evcharge/libs/redis"
	"evcharge/services/dashboard/internal/config"
	httpserver "evcharge/services/dashboard/internal/http"
	"evcharge/services/dashboard/internal/http/handlers"
	"evcharge/services/dashboard/internal/redisstore"
	"evcharge/services/dashboard/internal/repository"
)

// App wires dashboard API dependencies.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	logger *zap.Logger
}

// New constructs application components.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := libdb.NewPostgresDB(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	statsRepo := repository.NewStatsRepository(sqlDB)

	var cache handlers.RecentCache
	if cfg.Redis.Addr != "" {
		redisClient, err := libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		cache = redisstore.NewRecentReader(redisClient)
	} else {
		logger.Info("redis not configured, recent sessions served from the store")
	}

	routes := httpserver.Routes{
		Stats:  handlers.NewStatsHandlers(statsRepo, logger),
		Recent: handlers.NewRecentHandler(cache, statsRepo, logger),
		Health: handlers.NewHealthHandler(),
	}
	server := httpserver.NewServer(cfg.HTTPAddress(), httpserver.NewRouter(routes), logger)

	return &App{
		server: server,
		db:     sqlDB,
		logger: logger,
	}, nil
}

// Run starts serving HTTP requests.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
