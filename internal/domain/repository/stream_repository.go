package repository

import (
	"context"
	"time"

	"github.com/school-georesolver/internal/domain"
)

// StreamRepository - очередь запросов определения поверх Redis Streams
type StreamRepository interface {
	// ConsumeBatch не блокируется: пустой стрим даёт пустой срез
	ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error)
	// ClaimStale забирает себе сообщения, висящие в pending дольше minIdle
	ClaimStale(ctx context.Context, stream, group, consumer string, minIdle time.Duration, maxCount int) ([]domain.StreamMessage, error)
	AckMessages(ctx context.Context, stream, group string, messageIDs []string) error
	// CreateConsumerGroup идемпотентен
	CreateConsumerGroup(ctx context.Context, stream, group string) error
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}
