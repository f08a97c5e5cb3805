package cache

import (
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/school-georesolver/internal/domain"
	"github.com/school-georesolver/internal/domain/repository"
	"github.com/school-georesolver/internal/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type resultRegistry struct {
	mu     sync.Mutex
	done   *lru.Cache[string, *domain.ResolutionResult]
	group  singleflight.Group
	tokens map[string]uint64
	gen    uint64
	logger *zap.Logger
}

// NewResultRegistry - LRU готовых результатов плюс singleflight по составному ключу.
// Вычисление, ключ которого инвалидирован, не записывает результат в кеш.
func NewResultRegistry(size int, logger *zap.Logger) (repository.ResultRegistry, error) {
	done, err := lru.New[string, *domain.ResolutionResult](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}

	return &resultRegistry{
		done:   done,
		tokens: make(map[string]uint64),
		logger: logger,
	}, nil
}

func (r *resultRegistry) Join(key string, compute func() *domain.ResolutionResult) <-chan *domain.ResolutionResult {
	out := make(chan *domain.ResolutionResult, 1)

	r.mu.Lock()
	defer r.mu.Unlock()

	if res, ok := r.done.Get(key); ok {
		metrics.RegistryHitsTotal.Inc()
		out <- res
		close(out)
		return out
	}

	token, inflight := r.tokens[key]
	if inflight {
		metrics.RegistryJoinsTotal.Inc()
	} else {
		metrics.RegistryMissesTotal.Inc()
		r.gen++
		token = r.gen
		r.tokens[key] = token
	}

	ch := r.group.DoChan(key, func() (interface{}, error) {
		return r.run(key, token, compute)
	})

	go func() {
		res := <-ch
		if v, ok := res.Val.(*domain.ResolutionResult); ok && res.Err == nil {
			out <- v
		} else {
			out <- nil
		}
		close(out)
	}()

	return out
}

func (r *resultRegistry) run(key string, token uint64, compute func() *domain.ResolutionResult) (res interface{}, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Resolution panicked", zap.String("key", key), zap.Any("panic", rec))
			r.release(key, token)
			res, err = nil, fmt.Errorf("resolution panicked: %v", rec)
		}
	}()

	result := compute()

	r.mu.Lock()
	if r.tokens[key] == token {
		delete(r.tokens, key)
		if result != nil {
			r.done.Add(key, result)
		}
	}
	r.mu.Unlock()

	return result, nil
}

func (r *resultRegistry) release(key string, token uint64) {
	r.mu.Lock()
	if r.tokens[key] == token {
		delete(r.tokens, key)
	}
	r.mu.Unlock()
}

// Invalidate удаляет готовые и выполняющиеся записи с префиксом
func (r *resultRegistry) Invalidate(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, key := range r.done.Keys() {
		if strings.HasPrefix(key, prefix) {
			r.done.Remove(key)
			removed++
		}
	}

	for key := range r.tokens {
		if strings.HasPrefix(key, prefix) {
			delete(r.tokens, key)
			r.group.Forget(key)
			removed++
		}
	}

	metrics.RegistryInvalidationsTotal.Add(float64(removed))
	r.logger.Debug("Registry invalidated",
		zap.String("prefix", prefix),
		zap.Int("removed", removed))

	return removed
}

func (r *resultRegistry) Len() int {
	return r.done.Len()
}
