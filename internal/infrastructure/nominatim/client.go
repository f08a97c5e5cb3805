package nominatim

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/school-georesolver/internal/config"
	"github.com/school-georesolver/internal/domain"
	"github.com/school-georesolver/internal/domain/repository"
	"github.com/school-georesolver/internal/infrastructure/httpjson"
	"go.uber.org/zap"
)

const searchLimit = 8

// place - элемент ответа jsonv2; координаты приходят строками
type place struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Error       string `json:"error"`
}

func (p *place) toDomain() domain.NominatimPlace {
	lat, _ := strconv.ParseFloat(p.Lat, 64)
	lon, _ := strconv.ParseFloat(p.Lon, 64)
	return domain.NominatimPlace{
		Name:        p.Name,
		DisplayName: p.DisplayName,
		Category:    p.Category,
		Type:        p.Type,
		Lat:         lat,
		Lon:         lon,
	}
}

type client struct {
	http     *httpjson.Client
	baseURL  string
	language string
	logger   *zap.Logger
}

// NewNominatimClient создает клиент Nominatim (reverse и ограниченный поиск)
func NewNominatimClient(cfg *config.SourcesConfig, logger *zap.Logger) repository.GeocoderRepository {
	return &client{
		http:     httpjson.New("nominatim", cfg.RequestTimeout, cfg.NominatimUserAgent, logger),
		baseURL:  strings.TrimRight(cfg.NominatimBaseURL, "/"),
		language: cfg.NominatimLanguage,
		logger:   logger,
	}
}

// Reverse - обратное геокодирование точки; nil, если адрес не найден
func (c *client) Reverse(ctx context.Context, point domain.Point) (*domain.NominatimPlace, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", strconv.FormatFloat(point.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(point.Lon, 'f', -1, 64))
	params.Set("zoom", "18")
	params.Set("addressdetails", "1")
	params.Set("accept-language", c.language)

	var resp place
	if err := c.http.Get(ctx, c.baseURL+"/reverse?"+params.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("nominatim reverse: %w", err)
	}

	if resp.Error != "" || resp.DisplayName == "" {
		c.logger.Debug("Nominatim reverse found nothing",
			zap.String("point", point.Key()),
			zap.String("error", resp.Error))
		return nil, nil
	}

	result := resp.toDomain()
	return &result, nil
}

// SearchBounded - текстовый поиск в квадрате со стороной 2*radiusMeters вокруг точки
func (c *client) SearchBounded(ctx context.Context, point domain.Point, query string, radiusMeters int) ([]domain.NominatimPlace, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(searchLimit))
	params.Set("addressdetails", "1")
	params.Set("accept-language", c.language)
	params.Set("q", query)
	params.Set("bounded", "1")
	params.Set("viewbox", viewbox(point, radiusMeters))

	var resp []place
	if err := c.http.Get(ctx, c.baseURL+"/search?"+params.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("nominatim search: %w", err)
	}

	places := make([]domain.NominatimPlace, 0, len(resp))
	for i := range resp {
		places = append(places, resp[i].toDomain())
	}

	return places, nil
}

// viewbox в формате Nominatim: left,top,right,bottom
func viewbox(point domain.Point, radiusMeters int) string {
	bound := geo.NewBoundAroundPoint(orb.Point{point.Lon, point.Lat}, float64(radiusMeters))
	return fmt.Sprintf("%f,%f,%f,%f", bound.Left(), bound.Top(), bound.Right(), bound.Bottom())
}
