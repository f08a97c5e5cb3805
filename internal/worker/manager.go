package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultShutdownTimeout - время ожидания завершения воркеров по умолчанию
const DefaultShutdownTimeout = 30 * time.Second

// Manager запускает воркеры и останавливает их с ограничением по времени
type Manager struct {
	workers         []Worker
	logger          *zap.Logger
	shutdownTimeout time.Duration
	group           *errgroup.Group
}

func NewManager(logger *zap.Logger, shutdownTimeout time.Duration, workers ...Worker) *Manager {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	return &Manager{
		workers:         workers,
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}
}

// Start запускает каждый воркер в своей горутине и сразу возвращает управление
func (m *Manager) Start(ctx context.Context) error {
	if len(m.workers) == 0 {
		return fmt.Errorf("no workers registered")
	}
	if m.group != nil {
		return fmt.Errorf("workers already started")
	}

	m.group = &errgroup.Group{}
	for _, w := range m.workers {
		w := w
		m.logger.Info("Starting worker", zap.String("name", w.Name()))
		m.group.Go(func() error {
			err := w.Start(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				m.logger.Error("Worker failed", zap.String("name", w.Name()), zap.Error(err))
				return fmt.Errorf("%s: %w", w.Name(), err)
			}
			return nil
		})
	}

	return nil
}

// Stop останавливает воркеры и ждёт их не дольше shutdownTimeout.
// Возвращает первую ошибку воркера, если она была.
func (m *Manager) Stop() error {
	for _, w := range m.workers {
		if err := w.Stop(); err != nil {
			m.logger.Error("Failed to stop worker", zap.String("name", w.Name()), zap.Error(err))
		}
	}
	if m.group == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- m.group.Wait() }()

	select {
	case err := <-done:
		m.logger.Info("All workers stopped")
		return err
	case <-time.After(m.shutdownTimeout):
		m.logger.Warn("Workers shutdown timed out", zap.Duration("timeout", m.shutdownTimeout))
		return fmt.Errorf("workers shutdown timed out after %v", m.shutdownTimeout)
	}
}
