package repository

import (
	"context"

	"github.com/school-georesolver/internal/domain"
)

// MediaRepository - Wikipedia, Wikidata и Wikimedia Commons.
// Пустая строка без ошибки означает "изображение не найдено".
type MediaRepository interface {
	// WikipediaThumbnail - миниатюра статьи по тегу вида "pt:Título"
	WikipediaThumbnail(ctx context.Context, wikipediaTag string) (string, error)

	// WikidataImage - миниатюра изображения P18 сущности
	WikidataImage(ctx context.Context, qid string) (string, error)

	// NearbyEducation - учебные учреждения Wikidata рядом с точкой, ближайшие первыми
	NearbyEducation(ctx context.Context, point domain.Point, radiusKm float64, requireImage bool) ([]domain.WikidataItem, error)

	// CommonsNearbyImage - ближайший файл Commons с миниатюрой
	CommonsNearbyImage(ctx context.Context, point domain.Point, radiusMeters int) (string, error)
}
