package repository

import (
	"context"

	"github.com/school-georesolver/internal/domain"
)

// GeocoderRepository - геокодирование (Nominatim)
type GeocoderRepository interface {
	// Reverse возвращает адрес точки; nil, если ничего не найдено
	Reverse(ctx context.Context, point domain.Point) (*domain.NominatimPlace, error)

	// SearchBounded ищет текст внутри квадрата с полустороной radiusMeters
	SearchBounded(ctx context.Context, point domain.Point, query string, radiusMeters int) ([]domain.NominatimPlace, error)
}
