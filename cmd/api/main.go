package main

// @title School Georesolver API
// @version 1.0.0
// @description Определение учебного заведения по точке на карте: OpenStreetMap (Overpass), Nominatim, Wikidata, Wikimedia Commons и опциональный прокси Places API.
// @description
// @description Основные возможности:
// @description - Определение учреждения, адреса, сектора и фото по координатам
// @description - Пакетное определение для списка точек
// @description - Закрепление выбранного объекта OSM за точкой

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/school-georesolver/docs"
	"github.com/school-georesolver/internal/app"
	"github.com/school-georesolver/internal/config"
	httpDelivery "github.com/school-georesolver/internal/delivery/http"
	"github.com/school-georesolver/internal/delivery/http/handler"
	"github.com/school-georesolver/internal/pkg/logger"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("API exited with error", zap.Error(err))
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

	schools := handler.NewSchoolHandler(rt.Resolver, cfg.Resolver.MaxBatchSize, cfg.Selection.Backend, log)
	server := httpDelivery.NewServer(cfg, log, schools)

	listenErr := make(chan error, 1)
	go func() { listenErr <- server.Start() }()

	log.Info("School Georesolver API started",
		zap.String("env", cfg.Server.Env),
		zap.String("selection_backend", cfg.Selection.Backend))

	select {
	case err := <-listenErr:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
