package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BaseWorker - имя, consumer group, сигнал остановки и цикл опроса
type BaseWorker struct {
	name          string
	consumerGroup string
	logger        *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

func NewBaseWorker(name, consumerGroup string, logger *zap.Logger) *BaseWorker {
	return &BaseWorker{
		name:          name,
		consumerGroup: consumerGroup,
		logger:        logger.With(zap.String("worker", name)),
		stop:          make(chan struct{}),
	}
}

func (w *BaseWorker) Name() string {
	return w.name
}

func (w *BaseWorker) ConsumerGroup() string {
	return w.consumerGroup
}

// Logger - логгер с полем worker
func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}

// Stop сигнализирует циклу опроса завершиться; повторные вызовы игнорируются
func (w *BaseWorker) Stop() error {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping worker")
		close(w.stop)
	})
	return nil
}

func (w *BaseWorker) IsStopped() bool {
	select {
	case <-w.stop:
		return true
	default:
		return false
	}
}

// Pause ждёт d; false, если за это время воркер остановлен или контекст отменён
func (w *BaseWorker) Pause(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-w.stop:
		return false
	case <-ctx.Done():
		return false
	}
}

// Poll вызывает process до остановки воркера (nil) или отмены контекста (ctx.Err()).
// Ошибка пачки логируется и не прерывает цикл.
func (w *BaseWorker) Poll(ctx context.Context, process BatchFunc, backoff Backoff) error {
	for {
		if w.IsStopped() {
			w.logger.Info("Worker stopped")
			return nil
		}
		if err := ctx.Err(); err != nil {
			w.logger.Info("Context cancelled")
			return err
		}

		delay := time.Duration(0)
		processed, err := process(ctx)
		switch {
		case err != nil:
			w.logger.Error("Failed to process batch", zap.Error(err))
			delay = backoff.Error
		case processed == 0:
			delay = backoff.Idle
		}

		if delay > 0 {
			w.Pause(ctx, delay)
		}
	}
}
