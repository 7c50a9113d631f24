package app

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	libdb "evcharge/libs/db"
	libredis "evcharge/libs/redis"
	"evcharge/services/ingest/internal/backoff"
	"evcharge/services/ingest/internal/config"
	httpserver "evcharge/services/ingest/internal/http"
	"evcharge/services/ingest/internal/http/handlers"
	"evcharge/services/ingest/internal/mqtt"
	"evcharge/services/ingest/internal/redisstore"
	"evcharge/services/ingest/internal/repository"
	"evcharge/services/ingest/internal/service"
	"evcharge/services/ingest/internal/worker"
)

const (
	recentSessionsKept = 100
	drainBudget        = 30 * time.Second
)

// App wires ingest service dependencies.
type App struct {
	server     *httpserver.Server
	subscriber *mqtt.Subscriber
	pool       *worker.Pool
	poolCancel context.CancelFunc
	db         *sql.DB
	logger     *zap.Logger
}

// New constructs application components.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := libdb.NewPostgresDB(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	var cache service.RecentCache
	if cfg.Redis.Addr != "" {
		redisClient, err := libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		cache = redisstore.NewRecentStore(redisClient, recentSessionsKept)
	} else {
		logger.Info("redis not configured, recent session cache disabled")
	}

	repo := repository.NewSessionRepository(sqlDB)
	ingestService := service.NewIngestService(repo, cache, service.Options{
		WriteTimeout: cfg.Write.Timeout,
		MaxAttempts:  cfg.Write.MaxAttempts,
		Retry: backoff.Policy{
			Initial: cfg.Write.InitialBackoff,
			Max:     cfg.Write.MaxBackoff,
		},
	}, logger)

	// The pool outlives the subscription context so accepted records are
	// finished during drain.
	poolCtx, poolCancel := context.WithCancel(context.Background())
	pool := worker.NewPool(poolCtx, cfg.Workers, cfg.QueueSize, ingestService.HandleMessage, logger)

	subscriber := mqtt.NewSubscriber(mqtt.Config{
		BrokerURL: cfg.BrokerURL(),
		Topic:     cfg.MQTT.Topic,
		ClientID:  cfg.MQTT.ClientID,
		Reconnect: backoff.Policy{
			Initial: cfg.Reconnect.InitialBackoff,
			Max:     cfg.Reconnect.MaxBackoff,
		},
	}, pool, logger)

	routes := httpserver.Routes{
		Stats:  handlers.NewStatsHandler(ingestService, subscriber),
		Health: handlers.NewHealthHandler(),
	}
	server := httpserver.NewServer(cfg.HTTPAddress(), httpserver.NewRouter(routes), logger)

	return &App{
		server:     server,
		subscriber: subscriber,
		pool:       pool,
		poolCancel: poolCancel,
		db:         sqlDB,
		logger:     logger,
	}, nil
}

// Run drives the subscription and the health endpoint until ctx is cancelled,
// then drains in-flight writes before returning.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() { serverErr <- a.server.Run(ctx) }()

	subErr := a.subscriber.Run(ctx)

	// Workers finish the records they already accepted; if the drain blows
	// its budget the retry sleeps are cut short and the records dropped.
	timer := time.AfterFunc(drainBudget, a.poolCancel)
	a.pool.Drain()
	timer.Stop()
	a.poolCancel()

	if err := <-serverErr; err != nil {
		return err
	}
	if subErr != nil && !errors.Is(subErr, context.Canceled) {
		return subErr
	}
	return nil
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
