package app

import (
	"errors"
	"fmt"

	"github.com/school-georesolver/internal/config"
	"github.com/school-georesolver/internal/usecase"
	"go.uber.org/zap"
)

// Runtime - зависимости, общие для API, воркера и CLI
type Runtime struct {
	Config   *config.Config
	Log      *zap.Logger
	Resolver *usecase.ResolverUseCase

	closers []func() error
}

// Bootstrap открывает хранилище выбора из конфигурации и собирает резолвер
func Bootstrap(cfg *config.Config, log *zap.Logger) (*Runtime, error) {
	selection, closeSelection, err := OpenSelectionStore(cfg.Selection.Backend, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open selection store: %w", err)
	}

	rt := &Runtime{Config: cfg, Log: log}
	rt.AddCloser(closeSelection)

	resolver, err := NewResolver(cfg, selection, log)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.Resolver = resolver

	log.Info("Runtime ready",
		zap.String("selection_backend", cfg.Selection.Backend),
		zap.Strings("overpass_endpoints", cfg.Sources.OverpassEndpoints))

	return rt, nil
}

// AddCloser регистрирует освобождение ресурса; Close вызывает их в обратном порядке
func (r *Runtime) AddCloser(fn func() error) {
	r.closers = append(r.closers, fn)
}

func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}
