package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/school-georesolver/internal/domain"
	"github.com/school-georesolver/internal/domain/repository"
	"go.uber.org/zap"
)

const (
	payloadField = "data"
	// streamMaxLen - приблизительный предел длины стрима (XADD MAXLEN ~)
	streamMaxLen = 100_000
)

type streamRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewStreamRepository(client *redis.Client, logger *zap.Logger) repository.StreamRepository {
	return &streamRepository{client: client, logger: logger}
}

// CreateConsumerGroup создаёт группу с позиции "$" и сам стрим при отсутствии.
// Существующая группа ошибкой не считается
func (r *streamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	err := r.client.XGroupCreateMkStream(ctx, stream, group, "$").Err()
	switch {
	case err == nil:
		r.logger.Info("Consumer group created", zap.String("stream", stream), zap.String("group", group))
		return nil
	case strings.HasPrefix(err.Error(), "BUSYGROUP"):
		return nil
	default:
		return fmt.Errorf("create consumer group %s/%s: %w", stream, group, err)
	}
}

func (r *streamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	streams, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, ">"},
		Count:    int64(maxCount),
		Block:    -1,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read stream %s: %w", stream, err)
	}

	return r.keepDecoded(ctx, stream, group, streams), nil
}

// ClaimStale переназначает зависшие в pending сообщения (XAUTOCLAIM), например после
// падения обработки пачки или остановки другого потребителя
func (r *streamRepository) ClaimStale(ctx context.Context, stream, group, consumer string, minIdle time.Duration, maxCount int) ([]domain.StreamMessage, error) {
	claimed, _, err := r.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   stream,
		Group:    group,
		Consumer: consumer,
		MinIdle:  minIdle,
		Start:    "0-0",
		Count:    int64(maxCount),
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("claim pending in %s: %w", stream, err)
	}
	if len(claimed) == 0 {
		return nil, nil
	}

	r.logger.Info("Claimed stale stream messages",
		zap.String("stream", stream),
		zap.Int("count", len(claimed)))

	return r.keepDecoded(ctx, stream, group, []redis.XStream{{Stream: stream, Messages: claimed}}), nil
}

// keepDecoded возвращает сообщения с полем data, остальные подтверждаются и отбрасываются
func (r *streamRepository) keepDecoded(ctx context.Context, stream, group string, streams []redis.XStream) []domain.StreamMessage {
	messages, broken := decodeMessages(streams)
	if len(broken) > 0 {
		r.logger.Warn("Dropping stream messages without payload",
			zap.String("stream", stream),
			zap.Strings("ids", broken))
		if err := r.client.XAck(ctx, stream, group, broken...).Err(); err != nil {
			r.logger.Warn("Failed to ack dropped messages", zap.Error(err))
		}
	}
	return messages
}

func decodeMessages(streams []redis.XStream) (messages []domain.StreamMessage, broken []string) {
	for _, s := range streams {
		for _, msg := range s.Messages {
			data, ok := msg.Values[payloadField].(string)
			if !ok {
				broken = append(broken, msg.ID)
				continue
			}
			messages = append(messages, domain.StreamMessage{ID: msg.ID, Data: data})
		}
	}
	return messages, broken
}

func (r *streamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	if len(messageIDs) == 0 {
		return nil
	}
	if err := r.client.XAck(ctx, stream, group, messageIDs...).Err(); err != nil {
		return fmt.Errorf("ack %d messages in %s: %w", len(messageIDs), stream, err)
	}
	return nil
}

// PublishToStream кладёт JSON события в поле data
func (r *streamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", stream, err)
	}

	id, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{payloadField: string(payload)},
	}).Result()
	if err != nil {
		return fmt.Errorf("publish to %s: %w", stream, err)
	}

	r.logger.Debug("Event published", zap.String("stream", stream), zap.String("id", id))
	return nil
}
