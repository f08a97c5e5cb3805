package domain

import (
	"fmt"
	"strings"
)

// Point - географическая точка (градусы WGS84)
type Point struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// Key возвращает ключ точки, округлённый до 6 знаков (~0.11 м).
// Точки с одинаковым ключом считаются одной и той же точкой.
func (p Point) Key() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lon)
}

// Valid проверяет диапазон координат
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// MapsURL - ссылка на точку в Google Maps
func (p Point) MapsURL() string {
	return fmt.Sprintf("https://www.google.com/maps?q=%v,%v", p.Lat, p.Lon)
}

// OriginType - тип геометрии в OSM
type OriginType string

const (
	OriginNode     OriginType = "node"
	OriginWay      OriginType = "way"
	OriginRelation OriginType = "relation"
)

// ParseOriginType нормализует тип геометрии. Второе значение false,
// если строка не является известным типом.
func ParseOriginType(s string) (OriginType, bool) {
	switch OriginType(strings.ToLower(strings.TrimSpace(s))) {
	case OriginNode:
		return OriginNode, true
	case OriginWay:
		return OriginWay, true
	case OriginRelation:
		return OriginRelation, true
	}
	return OriginNode, false
}

// Rank задаёт порядок типов при детерминированной сортировке кандидатов
func (t OriginType) Rank() int {
	switch t {
	case OriginWay:
		return 1
	case OriginRelation:
		return 2
	}
	return 0
}

// OSMURL - ссылка на объект в openstreetmap.org; неизвестные типы трактуются как node
func OSMURL(t OriginType, id string) string {
	normalized, _ := ParseOriginType(string(t))
	return fmt.Sprintf("https://www.openstreetmap.org/%s/%s", normalized, id)
}
