package app

import (
	"context"
	"fmt"
	"time"

	"github.com/school-georesolver/internal/config"
	"github.com/school-georesolver/internal/domain/repository"
	"github.com/school-georesolver/internal/infrastructure/nominatim"
	"github.com/school-georesolver/internal/infrastructure/overpass"
	"github.com/school-georesolver/internal/infrastructure/placesproxy"
	"github.com/school-georesolver/internal/infrastructure/wikimedia"
	"github.com/school-georesolver/internal/repository/cache"
	"github.com/school-georesolver/internal/repository/memory"
	"github.com/school-georesolver/internal/repository/postgres"
	"github.com/school-georesolver/internal/repository/sqlite"
	"github.com/school-georesolver/internal/usecase"
	"go.uber.org/zap"
)

// Backends хранилища выбора
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// OpenSelectionStore открывает хранилище выбора для backend.
// Возвращаемая функция закрывает ресурсы хранилища.
func OpenSelectionStore(backend string, cfg *config.Config, log *zap.Logger) (repository.SelectionRepository, func() error, error) {
	noop := func() error { return nil }

	switch backend {
	case BackendMemory:
		return memory.NewSelectionRepository(), noop, nil

	case BackendRedis:
		redisClient, err := cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			return nil, noop, err
		}
		return cache.NewSelectionRepository(redisClient), redisClient.Close, nil

	case BackendSQLite:
		store, err := sqlite.NewSelectionRepository(cfg.Selection.SQLitePath, log)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil

	case BackendPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := postgres.Open(ctx, cfg, log)
		if err != nil {
			return nil, noop, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, noop, err
		}
		return postgres.NewSelectionRepository(db), db.Close, nil
	}

	return nil, noop, fmt.Errorf("unknown selection backend %q", backend)
}

// NewResolver собирает внешние клиенты, реестр результатов и ResolverUseCase
func NewResolver(cfg *config.Config, selection repository.SelectionRepository, log *zap.Logger) (*usecase.ResolverUseCase, error) {
	registry, err := cache.NewResultRegistry(cfg.Resolver.CacheSize, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create result registry: %w", err)
	}

	overpassRepo := overpass.NewOverpassClient(&cfg.Sources, log)
	geocoderRepo := nominatim.NewNominatimClient(&cfg.Sources, log)
	mediaRepo := wikimedia.NewWikimediaClient(&cfg.Sources, cfg.Vocabulary.WikipediaDefaultLng, log)
	proxyRepo := placesproxy.NewPlacesProxyClient(&cfg.Sources, log)

	if proxyRepo.Enabled() {
		log.Info("Places proxy enabled", zap.String("url", cfg.Sources.PlacesProxyURL))
	}

	return usecase.NewResolverUseCase(
		overpassRepo,
		geocoderRepo,
		mediaRepo,
		proxyRepo,
		selection,
		registry,
		usecase.ResolverOptions{
			Radii:            cfg.Resolver.Radii,
			MaxCandidates:    cfg.Resolver.MaxCandidates,
			BatchConcurrency: cfg.Resolver.BatchConcurrency,
			Vocabulary:       cfg.Vocabulary,
		},
		log,
	), nil
}
