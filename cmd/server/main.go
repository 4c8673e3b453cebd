package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/trogers1052/scenario-risk-service/internal/api"
	"github.com/trogers1052/scenario-risk-service/internal/backtest"
	"github.com/trogers1052/scenario-risk-service/internal/config"
	"github.com/trogers1052/scenario-risk-service/internal/database"
	"github.com/trogers1052/scenario-risk-service/internal/engine"
	"github.com/trogers1052/scenario-risk-service/internal/history"
	"github.com/trogers1052/scenario-risk-service/internal/kafka"
	"github.com/trogers1052/scenario-risk-service/internal/override"
	"github.com/trogers1052/scenario-risk-service/internal/portfolio"
	"github.com/trogers1052/scenario-risk-service/internal/refdata"
	"github.com/trogers1052/scenario-risk-service/internal/scenario"
	"github.com/trogers1052/scenario-risk-service/internal/simulator"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// History storage: Postgres when configured, in-memory otherwise.
	var historyStore history.Store
	if cfg.Database.Host != "" {
		db, err := database.New(cfg.Database.ConnectionString())
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		historyStore = db
		logger.Info("history persistence enabled", zap.String("host", cfg.Database.Host))
	} else {
		historyStore = history.NewMemoryStore()
		logger.Info("no database configured, history is in-memory only")
	}

	ledger := history.NewLedger(historyStore, logger)
	ledger.Load(ctx)

	// Override slot: Redis when configured, in-memory otherwise.
	var overrides override.Store
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		overrides = override.NewRedisStore(rdb, cfg.Redis.OverrideTTL)
		logger.Info("override slot backed by redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		overrides = override.NewMemoryStore()
	}

	ref := refdata.Load()
	eng := engine.New(ref, rand.New(rand.NewSource(time.Now().UnixNano())))
	runner := backtest.NewRunner(eng, ref, logger)
	positions := portfolio.NewSeededStore()
	catalog := scenario.NewCatalog()

	var publisher simulator.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.RunsTopic)
		defer producer.Close()
		publisher = producer

		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.PositionsTopic, cfg.Kafka.GroupID, positions, logger)
		go func() {
			if err := consumer.Start(ctx); err != nil {
				logger.Error("kafka consumer stopped", zap.Error(err))
			}
		}()
		logger.Info("kafka enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("runs_topic", cfg.Kafka.RunsTopic),
			zap.String("positions_topic", cfg.Kafka.PositionsTopic))
	}

	sim := simulator.New(positions, catalog, overrides, eng, ledger, runner, publisher, logger)
	handler := api.NewHandler(sim, positions, catalog, ledger, overrides)

	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      api.SetupRoutes(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
