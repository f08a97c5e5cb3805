package repository

import (
	"context"

	"github.com/school-georesolver/internal/domain"
)

// OverpassRepository - запросы к Overpass API
type OverpassRepository interface {
	// CandidatesAround возвращает учебные учреждения в радиусе (метры) от точки.
	// Расстояния считаются от точки запроса.
	CandidatesAround(ctx context.Context, point domain.Point, radiusMeters int) ([]domain.Candidate, error)

	// CandidateByID загружает конкретный объект; nil, если не найден
	CandidateByID(ctx context.Context, point domain.Point, originType domain.OriginType, originID string) (*domain.Candidate, error)
}
