package domain

// Sector - классификация учреждения (публичное/частное) и способ вывода
type Sector struct {
	Label  string `json:"label"`
	Method string `json:"method"`
}

// ResolutionLinks - внешние ссылки результата
type ResolutionLinks struct {
	OSMURL    string `json:"osm_url,omitempty"`
	Wikidata  string `json:"wikidata,omitempty"`
	Wikipedia string `json:"wikipedia,omitempty"`
	PlaceURL  string `json:"place_url,omitempty"`
}

// ResolutionResult - результат определения учреждения для точки.
// После помещения в кеш не изменяется.
type ResolutionResult struct {
	Point       Point              `json:"point"`
	Name        string             `json:"name"`
	Kind        string             `json:"kind"`
	Address     string             `json:"address"`
	Sector      Sector             `json:"sector"`
	Source      string             `json:"source,omitempty"`
	Links       ResolutionLinks    `json:"links"`
	ImageURL    string             `json:"image_url,omitempty"`
	DistMeters  *float64           `json:"dist_meters,omitempty"`
	FoundRadius *int               `json:"found_radius,omitempty"`
	Candidates  []CandidateSummary `json:"candidates"`
}

// MapsURL возвращает ссылку на место: из прокси, если есть, иначе на точку
func (r *ResolutionResult) MapsURL() string {
	if r.Links.PlaceURL != "" {
		return r.Links.PlaceURL
	}
	return r.Point.MapsURL()
}

// CompositeKey - ключ кеша результата: ключ точки + идентичность выбора.
// Все ключи одной точки имеют общий префикс Point.Key().
func CompositeKey(p Point, sel *SelectionOverride) string {
	if sel == nil {
		return p.Key() + "|sel=none"
	}
	return p.Key() + "|sel=" + sel.Identity()
}
