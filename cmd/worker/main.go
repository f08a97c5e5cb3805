package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/school-georesolver/internal/app"
	"github.com/school-georesolver/internal/config"
	"github.com/school-georesolver/internal/pkg/logger"
	"github.com/school-georesolver/internal/repository/cache"
	redisRepo "github.com/school-georesolver/internal/repository/redis"
	"github.com/school-georesolver/internal/worker"
	"github.com/school-georesolver/internal/worker/resolution"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if !cfg.Worker.Enabled {
		fmt.Println("worker disabled, set WORKER_ENABLED=true to run it")
		return
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Worker exited with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	rt, err := app.Bootstrap(cfg, log)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer func() {
		if err := rt.Close(); err != nil {
			log.Warn("Failed to release resources", zap.Error(err))
		}
	}()

	// очередь запросов живёт в Redis при любом backend выбора
	redisConn, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		return err
	}
	rt.AddCloser(redisConn.Close)

	manager := worker.NewManager(log, worker.DefaultShutdownTimeout,
		resolution.NewSchoolResolveWorker(
			redisRepo.NewStreamRepository(redisConn.Client(), log),
			rt.Resolver,
			cfg.Worker.ConsumerGroup,
			cfg.Worker.BatchSize,
			log,
		),
	)

	if err := manager.Start(ctx); err != nil {
		return err
	}
	log.Info("Resolve worker running",
		zap.String("redis", redisConn.Addr()),
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("batch_size", cfg.Worker.BatchSize))

	<-ctx.Done()
	log.Info("Stopping resolve worker")
	return manager.Stop()
}
