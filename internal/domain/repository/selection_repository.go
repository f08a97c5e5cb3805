package repository

import (
	"context"

	"github.com/school-georesolver/internal/domain"
)

// SelectionRepository хранит ручной выбор кандидата для точки.
// Записи не истекают.
type SelectionRepository interface {
	// Load возвращает выбор для точки или nil, если его нет
	Load(ctx context.Context, point domain.Point) (*domain.SelectionOverride, error)

	// Save создаёт или перезаписывает выбор
	Save(ctx context.Context, point domain.Point, sel domain.SelectionOverride) error

	// Delete удаляет выбор для точки
	Delete(ctx context.Context, point domain.Point) error
}
