package dto

import "github.com/school-georesolver/internal/domain"

// ResolveResponse - результат определения с готовой ссылкой на карту
type ResolveResponse struct {
	*domain.ResolutionResult
	MapsURL string `json:"maps_url"`
}

// NewResolveResponse - обёртка результата для API
func NewResolveResponse(r *domain.ResolutionResult) ResolveResponse {
	return ResolveResponse{ResolutionResult: r, MapsURL: r.MapsURL()}
}

// BatchResolveResponse - ответ пакетного запроса, порядок совпадает с запросом
type BatchResolveResponse struct {
	Results []ResolveResponse `json:"results"`
	Total   int               `json:"total"`
}

// CacheClearResponse - число удалённых записей кеша
type CacheClearResponse struct {
	Cleared int `json:"cleared"`
}

// HealthResponse - состояние сервиса
type HealthResponse struct {
	Status        string `json:"status"`
	CachedResults int    `json:"cached_results"`
	Selection     string `json:"selection_backend"`
}
