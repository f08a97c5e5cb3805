package domain

import (
	"strconv"
	"strings"
	"time"
)

// Candidate - реальный объект, который может соответствовать точке запроса
type Candidate struct {
	OriginType OriginType        `json:"osm_type"`
	OriginID   string            `json:"osm_id"`
	Point      Point             `json:"point"`
	Name       string            `json:"name,omitempty"`
	Kind       string            `json:"kind"`
	Tags       map[string]string `json:"tags,omitempty"`
	// DistMeters всегда считается от точки запроса, не от других кандидатов
	DistMeters float64 `json:"dist_meters"`
}

// HasName сообщает, есть ли у кандидата непустое имя
func (c *Candidate) HasName() bool {
	return strings.TrimSpace(c.Name) != ""
}

// CandidateSummary - элемент списка альтернатив для UI
type CandidateSummary struct {
	OriginType OriginType `json:"osm_type"`
	OriginID   string     `json:"osm_id"`
	Name       string     `json:"name"`
	DistMeters float64    `json:"dist_meters"`
}

// SelectionOverride - ручной выбор пользователя для точки
type SelectionOverride struct {
	OriginType OriginType `json:"osmType"`
	OriginID   string     `json:"osmId"`
	SavedAt    time.Time  `json:"savedAt,omitempty"`
}

// Identity - идентичность выбора, входит в составной ключ кеша
func (s *SelectionOverride) Identity() string {
	return string(s.OriginType) + ":" + s.OriginID
}

// NominatimPlace - результат поиска/обратного геокодирования Nominatim
type NominatimPlace struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// ShortName - имя объекта или первый сегмент display_name
func (p *NominatimPlace) ShortName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.DisplayName == "" {
		return ""
	}
	return strings.TrimSpace(strings.SplitN(p.DisplayName, ",", 2)[0])
}

// WikidataItem - элемент Wikidata рядом с точкой
type WikidataItem struct {
	QID        string   `json:"qid"`
	Label      string   `json:"label"`
	DistMeters *float64 `json:"dist_meters,omitempty"`
}

// ProxyPlace - ответ опционального прокси коммерческого Places API
type ProxyPlace struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	PhotoURL string `json:"photoUrl"`
	Sector   string `json:"sector"`
	PlaceURL string `json:"placeUrl"`
}

// selectionKeyPrefix - префикс ключей выбора в хранилищах
const selectionKeyPrefix = "q2w_sel_ensino_"

// SelectionKey - ключ хранения выбора для точки
func SelectionKey(p Point) string {
	return selectionKeyPrefix + p.Key()
}

// Valid проверяет тип и идентификатор выбора
func (s *SelectionOverride) Valid() bool {
	if _, ok := ParseOriginType(string(s.OriginType)); !ok {
		return false
	}
	id, err := strconv.ParseInt(s.OriginID, 10, 64)
	return err == nil && id > 0
}
