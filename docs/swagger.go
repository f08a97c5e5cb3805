// Package docs School Georesolver API.
//
// Сервис определения учебного заведения по точке на карте.
// Объединяет OpenStreetMap (Overpass), Nominatim, Wikidata, Wikimedia Commons
// и опциональный прокси Places API; поддерживает ручной выбор кандидата.
//
// Основные возможности:
// - Определение учреждения, адреса, сектора и фото по координатам
// - Пакетное определение для списка точек
// - Закрепление выбранного объекта OSM за точкой
// - Сброс кеша результатов точки
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
