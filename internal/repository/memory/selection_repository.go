package memory

import (
	"context"
	"sync"

	"github.com/school-georesolver/internal/domain"
	"github.com/school-georesolver/internal/domain/repository"
)

type selectionRepository struct {
	mu    sync.RWMutex
	items map[string]domain.SelectionOverride
}

// NewSelectionRepository - хранилище выбора в памяти процесса
func NewSelectionRepository() repository.SelectionRepository {
	return &selectionRepository{
		items: make(map[string]domain.SelectionOverride),
	}
}

func (r *selectionRepository) Load(_ context.Context, point domain.Point) (*domain.SelectionOverride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sel, ok := r.items[domain.SelectionKey(point)]
	if !ok {
		return nil, nil
	}
	return &sel, nil
}

func (r *selectionRepository) Save(_ context.Context, point domain.Point, sel domain.SelectionOverride) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[domain.SelectionKey(point)] = sel
	return nil
}

func (r *selectionRepository) Delete(_ context.Context, point domain.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, domain.SelectionKey(point))
	return nil
}
