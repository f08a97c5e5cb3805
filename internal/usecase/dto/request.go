package dto

import "github.com/school-georesolver/internal/domain"

// PointInput - координаты точки; указатели отличают 0 от отсутствующего значения
type PointInput struct {
	Lat *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lon *float64 `json:"lon" validate:"required,min=-180,max=180"`
}

// Point - точка домена; вызывать после валидации
func (p PointInput) Point() domain.Point {
	return domain.Point{Lat: *p.Lat, Lon: *p.Lon}
}

// ResolveRequest - запрос на определение учреждения для точки
type ResolveRequest struct {
	PointInput
}

// BatchResolveRequest - пакетный запрос; верхняя граница размера задаётся конфигурацией
type BatchResolveRequest struct {
	Points []PointInput `json:"points" validate:"required,min=1,dive"`
}

// SelectionRequest - ручной выбор кандидата для точки
type SelectionRequest struct {
	PointInput
	OriginType string `json:"origin_type" validate:"required"`
	OriginID   string `json:"origin_id" validate:"required"`
}
