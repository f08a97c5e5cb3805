package repository

import (
	"context"

	"github.com/school-georesolver/internal/domain"
)

// PlacesProxyRepository - опциональный прокси коммерческого Places API
type PlacesProxyRepository interface {
	// Enabled сообщает, настроен ли прокси
	Enabled() bool

	// Lookup ищет учреждение рядом с точкой; nil, если прокси ничего не вернул
	Lookup(ctx context.Context, point domain.Point) (*domain.ProxyPlace, error)
}
