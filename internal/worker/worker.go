package worker

import (
	"context"
	"time"
)

// Worker - фоновый потребитель стрима под управлением Manager
type Worker interface {
	Name() string
	Start(ctx context.Context) error
	Stop() error
}

// BatchFunc обрабатывает одну пачку и возвращает число прочитанных сообщений
type BatchFunc func(ctx context.Context) (int, error)

// Backoff - паузы цикла опроса
type Backoff struct {
	Idle  time.Duration // очередь пуста
	Error time.Duration // после ошибки пачки
}

// DefaultBackoff - паузы по умолчанию для потребителей стримов
var DefaultBackoff = Backoff{
	Idle:  100 * time.Millisecond,
	Error: time.Second,
}
