package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/school-georesolver/internal/domain"
	"github.com/school-georesolver/internal/domain/repository"
	"go.uber.org/zap"
)

type selectionRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewSelectionRepository - хранилище выбора в Redis, записи без TTL
func NewSelectionRepository(r *Redis) repository.SelectionRepository {
	return &selectionRepository{
		client: r.Client(),
		logger: r.logger,
	}
}

func (r *selectionRepository) Load(ctx context.Context, point domain.Point) (*domain.SelectionOverride, error) {
	key := domain.SelectionKey(point)

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to load selection", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("selection load error: %w", err)
	}

	var sel domain.SelectionOverride
	if err := json.Unmarshal(val, &sel); err != nil || !sel.Valid() {
		// Повреждённая запись трактуется как отсутствие выбора
		r.logger.Warn("Ignoring malformed selection", zap.String("key", key), zap.Error(err))
		return nil, nil
	}

	return &sel, nil
}

func (r *selectionRepository) Save(ctx context.Context, point domain.Point, sel domain.SelectionOverride) error {
	key := domain.SelectionKey(point)

	data, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		r.logger.Error("Failed to save selection", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("selection save error: %w", err)
	}

	r.logger.Debug("Selection saved", zap.String("key", key), zap.String("selection", sel.Identity()))
	return nil
}

func (r *selectionRepository) Delete(ctx context.Context, point domain.Point) error {
	key := domain.SelectionKey(point)

	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete selection", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("selection delete error: %w", err)
	}

	r.logger.Debug("Selection deleted", zap.String("key", key))
	return nil
}
