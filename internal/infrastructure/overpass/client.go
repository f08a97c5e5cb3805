package overpass

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/MeKo-Christian/go-overpass"
	"github.com/paulmach/orb"
	"github.com/school-georesolver/internal/config"
	"github.com/school-georesolver/internal/domain"
	"github.com/school-georesolver/internal/domain/repository"
	"github.com/school-georesolver/internal/pkg/metrics"
	"github.com/school-georesolver/internal/pkg/utils"
	"go.uber.org/zap"
)

const educationAmenities = "^(school|college|university|kindergarten)$"

// один повтор на зеркало при 429/5xx, дальше перебор зеркал
var mirrorRetry = overpass.RetryConfig{
	MaxRetries:        1,
	InitialBackoff:    500 * time.Millisecond,
	MaxBackoff:        2 * time.Second,
	BackoffMultiplier: 2,
	Jitter:            true,
}

type endpoint struct {
	url    string
	client *overpass.Client
}

type client struct {
	endpoints []endpoint
	logger    *zap.Logger
}

// NewOverpassClient создает клиент Overpass API с перебором зеркал по порядку
func NewOverpassClient(cfg *config.SourcesConfig, logger *zap.Logger) repository.OverpassRepository {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	endpoints := make([]endpoint, 0, len(cfg.OverpassEndpoints))
	for _, url := range cfg.OverpassEndpoints {
		// 1 параллельный запрос на зеркало
		oc := overpass.NewWithRetry(url, 1, httpClient, mirrorRetry)
		endpoints = append(endpoints, endpoint{url: url, client: &oc})
	}

	return &client{
		endpoints: endpoints,
		logger:    logger,
	}
}

// CandidatesAround возвращает образовательные объекты в радиусе от точки
func (c *client) CandidatesAround(ctx context.Context, point domain.Point, radiusMeters int) ([]domain.Candidate, error) {
	query := buildAroundQuery(point, radiusMeters)

	result, err := c.query(ctx, query)
	if err != nil {
		return nil, err
	}

	candidates := extractCandidates(result, point)

	c.logger.Debug("Overpass candidates fetched",
		zap.String("point", point.Key()),
		zap.Int("radius", radiusMeters),
		zap.Int("count", len(candidates)))

	return candidates, nil
}

// CandidateByID возвращает объект по типу и id; nil, если объект не найден
func (c *client) CandidateByID(ctx context.Context, point domain.Point, originType domain.OriginType, originID string) (*domain.Candidate, error) {
	id, err := strconv.ParseInt(originID, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid osm id %q", originID)
	}

	t, _ := domain.ParseOriginType(string(originType))
	query := fmt.Sprintf("[out:json][timeout:25];%s(%d);out tags geom;", t, id)

	result, err := c.query(ctx, query)
	if err != nil {
		return nil, err
	}

	for _, cand := range extractCandidates(result, point) {
		if cand.OriginType == t && cand.OriginID == originID {
			found := cand
			return &found, nil
		}
	}

	return nil, nil
}

// query выполняет запрос на зеркалах по очереди до первого успешного ответа
func (c *client) query(ctx context.Context, query string) (*overpass.Result, error) {
	if len(c.endpoints) == 0 {
		return nil, fmt.Errorf("no overpass endpoints configured")
	}

	var lastErr error
	for _, ep := range c.endpoints {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		result, err := ep.client.QueryContext(ctx, query)
		metrics.ObserveUpstream("overpass", float64(time.Since(start).Milliseconds()), err)
		if err == nil {
			return &result, nil
		}

		c.logger.Warn("Overpass endpoint failed",
			zap.String("endpoint", ep.url),
			zap.Error(err))
		lastErr = err
	}

	return nil, fmt.Errorf("overpass query failed: %w", lastErr)
}

func buildAroundQuery(point domain.Point, radiusMeters int) string {
	around := fmt.Sprintf("around:%d,%.6f,%.6f", radiusMeters, point.Lat, point.Lon)
	return fmt.Sprintf(`[out:json][timeout:25];
(
  node(%[1]s)["amenity"~"%[2]s"];
  way(%[1]s)["amenity"~"%[2]s"];
  relation(%[1]s)["amenity"~"%[2]s"];
  node(%[1]s)["building"="school"];
  way(%[1]s)["building"="school"];
);
out tags geom;`, around, educationAmenities)
}

// extractCandidates переводит ответ Overpass в кандидатов.
// Порядок детерминирован: node, way, relation, затем по возрастанию id.
func extractCandidates(result *overpass.Result, origin domain.Point) []domain.Candidate {
	if result == nil {
		return nil
	}

	var candidates []domain.Candidate

	for _, node := range result.Nodes {
		// Узлы-ссылки из геометрии путей приходят без тегов и координат
		if node == nil || len(node.Tags) == 0 || (node.Lat == 0 && node.Lon == 0) {
			continue
		}
		candidates = append(candidates, newCandidate(domain.OriginNode, node.ID, domain.Point{Lat: node.Lat, Lon: node.Lon}, node.Tags, origin))
	}

	for _, way := range result.Ways {
		if way == nil || len(way.Tags) == 0 {
			continue
		}
		center, ok := elementCenter(way.Bounds, way.Geometry)
		if !ok {
			continue
		}
		candidates = append(candidates, newCandidate(domain.OriginWay, way.ID, center, way.Tags, origin))
	}

	for _, rel := range result.Relations {
		if rel == nil || len(rel.Tags) == 0 {
			continue
		}
		// геометрия членов отношения не разбирается клиентом, центр берётся из bounds
		var points []overpass.Point
		for _, member := range rel.Members {
			if member.Way != nil {
				points = append(points, member.Way.Geometry...)
			}
		}
		center, ok := elementCenter(rel.Bounds, points)
		if !ok {
			continue
		}
		candidates = append(candidates, newCandidate(domain.OriginRelation, rel.ID, center, rel.Tags, origin))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ri, rj := candidates[i].OriginType.Rank(), candidates[j].OriginType.Rank()
		if ri != rj {
			return ri < rj
		}
		idi, _ := strconv.ParseInt(candidates[i].OriginID, 10, 64)
		idj, _ := strconv.ParseInt(candidates[j].OriginID, 10, 64)
		return idi < idj
	})

	return candidates
}

func newCandidate(t domain.OriginType, id int64, p domain.Point, tags map[string]string, origin domain.Point) domain.Candidate {
	copied := make(map[string]string, len(tags))
	for k, v := range tags {
		copied[k] = v
	}

	return domain.Candidate{
		OriginType: t,
		OriginID:   strconv.FormatInt(id, 10),
		Point:      p,
		Tags:       copied,
		DistMeters: utils.DistanceMeters(origin.Lat, origin.Lon, p.Lat, p.Lon),
	}
}

// elementCenter - центр bounds из ответа, иначе центр прямоугольника геометрии
func elementCenter(bounds *overpass.Box, points []overpass.Point) (domain.Point, bool) {
	var bound orb.Bound
	switch {
	case bounds != nil:
		bound = orb.Bound{
			Min: orb.Point{bounds.Min.Lon, bounds.Min.Lat},
			Max: orb.Point{bounds.Max.Lon, bounds.Max.Lat},
		}
	case len(points) > 0:
		ls := make(orb.LineString, 0, len(points))
		for _, p := range points {
			ls = append(ls, orb.Point{p.Lon, p.Lat})
		}
		bound = ls.Bound()
	default:
		return domain.Point{}, false
	}

	center := bound.Center()
	return domain.Point{Lat: center.Lat(), Lon: center.Lon()}, true
}
