package placesproxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/school-georesolver/internal/config"
	"github.com/school-georesolver/internal/domain"
	"github.com/school-georesolver/internal/domain/repository"
	"github.com/school-georesolver/internal/infrastructure/httpjson"
	"go.uber.org/zap"
)

type client struct {
	http    *httpjson.Client
	baseURL string
	logger  *zap.Logger
}

// NewPlacesProxyClient создает клиент прокси Places API; пустой URL отключает источник
func NewPlacesProxyClient(cfg *config.SourcesConfig, logger *zap.Logger) repository.PlacesProxyRepository {
	return &client{
		http:    httpjson.New("places_proxy", cfg.RequestTimeout, "", logger),
		baseURL: strings.TrimSpace(cfg.PlacesProxyURL),
		logger:  logger,
	}
}

func (c *client) Enabled() bool {
	return c.baseURL != ""
}

// envelope - прокси может вернуть {ok, result:{...}} или плоский объект
type envelope struct {
	OK     *bool              `json:"ok"`
	Result *domain.ProxyPlace `json:"result"`
	Error  string             `json:"error"`
	domain.ProxyPlace
}

// Lookup запрашивает ближайшее учебное заведение; nil, если прокси ничего не нашёл
func (c *client) Lookup(ctx context.Context, point domain.Point) (*domain.ProxyPlace, error) {
	if !c.Enabled() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(point.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(point.Lon, 'f', -1, 64))
	params.Set("type", "school")

	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}

	var raw json.RawMessage
	if err := c.http.Get(ctx, c.baseURL+sep+params.Encode(), nil, &raw); err != nil {
		var statusErr *httpjson.StatusError
		if errors.As(err, &statusErr) {
			return nil, nil
		}
		return nil, fmt.Errorf("places proxy: %w", err)
	}

	place, err := decodePlace(raw)
	if err != nil {
		return nil, fmt.Errorf("places proxy: %w", err)
	}
	if place == nil {
		c.logger.Debug("Places proxy returned no result", zap.String("point", point.Key()))
	}

	return place, nil
}

func decodePlace(raw json.RawMessage) (*domain.ProxyPlace, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if env.OK != nil && !*env.OK {
		return nil, nil
	}

	place := env.ProxyPlace
	if env.Result != nil {
		place = *env.Result
	}

	if place.Name == "" && place.Address == "" && place.Sector == "" && place.PhotoURL == "" && place.PlaceURL == "" {
		return nil, nil
	}

	return &place, nil
}
