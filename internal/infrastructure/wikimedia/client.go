package wikimedia

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/school-georesolver/internal/config"
	"github.com/school-georesolver/internal/domain"
	"github.com/school-georesolver/internal/domain/repository"
	"github.com/school-georesolver/internal/infrastructure/httpjson"
	"github.com/school-georesolver/internal/pkg/utils"
	"go.uber.org/zap"
)

const (
	thumbWidth        = "640"
	geosearchLimit    = "6"
	sparqlResultLimit = 10
)

// Классы Wikidata: школа, учебное заведение, университет, колледж и т.п.
var educationClasses = []string{"wd:Q3914", "wd:Q2385804", "wd:Q875538", "wd:Q9842"}

type client struct {
	wikipedia    *httpjson.Client
	wikidata     *httpjson.Client
	sparql       *httpjson.Client
	commons      *httpjson.Client
	wikipediaURL string
	wikidataURL  string
	sparqlURL    string
	commonsURL   string
	defaultLang  string
	logger       *zap.Logger
}

// NewWikimediaClient создает клиент Wikipedia, Wikidata (REST и SPARQL) и Commons
func NewWikimediaClient(cfg *config.SourcesConfig, defaultLang string, logger *zap.Logger) repository.MediaRepository {
	ua := cfg.NominatimUserAgent
	return &client{
		wikipedia:    httpjson.New("wikipedia", cfg.RequestTimeout, ua, logger),
		wikidata:     httpjson.New("wikidata", cfg.RequestTimeout, ua, logger),
		sparql:       httpjson.New("wikidata_sparql", cfg.RequestTimeout, ua, logger),
		commons:      httpjson.New("commons", cfg.RequestTimeout, ua, logger),
		wikipediaURL: strings.TrimRight(cfg.WikipediaBaseURL, "/"),
		wikidataURL:  strings.TrimRight(cfg.WikidataBaseURL, "/"),
		sparqlURL:    cfg.WikidataSPARQLURL,
		commonsURL:   strings.TrimRight(cfg.CommonsBaseURL, "/"),
		defaultLang:  defaultLang,
		logger:       logger,
	}
}

type imageInfo struct {
	URL      string `json:"url"`
	ThumbURL string `json:"thumburl"`
}

type page struct {
	PageID    int64       `json:"pageid"`
	Thumbnail *struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	ImageInfo []imageInfo `json:"imageinfo"`
}

type queryResponse struct {
	Query struct {
		Pages     map[string]page `json:"pages"`
		Geosearch []struct {
			PageID int64 `json:"pageid"`
		} `json:"geosearch"`
	} `json:"query"`
}

func (p *page) imageURL() string {
	if len(p.ImageInfo) == 0 {
		return ""
	}
	if p.ImageInfo[0].ThumbURL != "" {
		return p.ImageInfo[0].ThumbURL
	}
	return p.ImageInfo[0].URL
}

// firstPage - страница с наименьшим ключом; при одном заголовке она единственная
func (r *queryResponse) firstPage() *page {
	if len(r.Query.Pages) == 0 {
		return nil
	}
	keys := make([]string, 0, len(r.Query.Pages))
	for k := range r.Query.Pages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	p := r.Query.Pages[keys[0]]
	return &p
}

// SplitWikipediaTag разбирает тег вида "lang:Title"; префикс длиннее 3 символов считается частью заголовка
func SplitWikipediaTag(tag, defaultLang string) (lang, title string) {
	parts := strings.Split(tag, ":")
	if len(parts) >= 2 && len(parts[0]) <= 3 {
		return parts[0], strings.Join(parts[1:], ":")
	}
	return defaultLang, tag
}

// WikipediaThumbnail возвращает миниатюру статьи; пустая строка, если её нет
func (c *client) WikipediaThumbnail(ctx context.Context, tag string) (string, error) {
	if strings.TrimSpace(tag) == "" {
		return "", nil
	}

	lang, title := SplitWikipediaTag(tag, c.defaultLang)

	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "pageimages")
	params.Set("format", "json")
	params.Set("origin", "*")
	params.Set("pithumbsize", thumbWidth)
	params.Set("titles", title)

	base := c.wikipediaURL
	if strings.Contains(base, "%s") {
		base = fmt.Sprintf(base, lang)
	}

	var resp queryResponse
	if err := c.wikipedia.Get(ctx, base+"/w/api.php?"+params.Encode(), nil, &resp); err != nil {
		return "", softError(err)
	}

	p := resp.firstPage()
	if p == nil || p.Thumbnail == nil {
		return "", nil
	}
	return p.Thumbnail.Source, nil
}

type entityResponse struct {
	Entities map[string]struct {
		Claims map[string][]struct {
			Mainsnak struct {
				Datavalue struct {
					Value interface{} `json:"value"`
				} `json:"datavalue"`
			} `json:"mainsnak"`
		} `json:"claims"`
	} `json:"entities"`
}

// WikidataImage возвращает изображение P18 элемента через Commons
func (c *client) WikidataImage(ctx context.Context, qid string) (string, error) {
	qid = strings.TrimSpace(qid)
	if qid == "" {
		return "", nil
	}

	var entity entityResponse
	entityURL := c.wikidataURL + "/wiki/Special:EntityData/" + url.PathEscape(qid) + ".json"
	if err := c.wikidata.Get(ctx, entityURL, nil, &entity); err != nil {
		return "", softError(err)
	}

	ent, ok := entity.Entities[qid]
	if !ok || len(ent.Claims["P18"]) == 0 {
		return "", nil
	}
	fileName, _ := ent.Claims["P18"][0].Mainsnak.Datavalue.Value.(string)
	if fileName == "" {
		return "", nil
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", "File:"+fileName)
	params.Set("prop", "imageinfo")
	params.Set("iiprop", "url")
	params.Set("iiurlwidth", thumbWidth)
	params.Set("format", "json")
	params.Set("origin", "*")

	var resp queryResponse
	if err := c.commons.Get(ctx, c.commonsURL+"/w/api.php?"+params.Encode(), nil, &resp); err != nil {
		return "", softError(err)
	}

	p := resp.firstPage()
	if p == nil {
		return "", nil
	}
	return p.imageURL(), nil
}

type sparqlResponse struct {
	Results struct {
		Bindings []map[string]struct {
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

func buildNearbyQuery(point domain.Point, radiusKm float64, requireImage bool) string {
	imgClause := ""
	if requireImage {
		imgClause = "?item wdt:P18 ?img . "
	}

	return "SELECT ?item ?itemLabel ?coord WHERE { " +
		"SERVICE wikibase:around { " +
		"?item wdt:P625 ?coord . " +
		fmt.Sprintf("bd:serviceParam wikibase:center \"Point(%s %s)\"^^geo:wktLiteral . ",
			strconv.FormatFloat(point.Lon, 'f', -1, 64), strconv.FormatFloat(point.Lat, 'f', -1, 64)) +
		fmt.Sprintf("bd:serviceParam wikibase:radius \"%s\" . ", strconv.FormatFloat(radiusKm, 'f', -1, 64)) +
		"} " +
		"?item wdt:P31/wdt:P279* ?class . " +
		"VALUES ?class { " + strings.Join(educationClasses, " ") + " } . " +
		imgClause +
		"SERVICE wikibase:label { bd:serviceParam wikibase:language \"pt-BR,pt,en\". } " +
		fmt.Sprintf("} LIMIT %d", sparqlResultLimit)
}

// NearbyEducation ищет учебные заведения Wikidata рядом с точкой, ближайшие первыми
func (c *client) NearbyEducation(ctx context.Context, point domain.Point, radiusKm float64, requireImage bool) ([]domain.WikidataItem, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("query", buildNearbyQuery(point, radiusKm, requireImage))

	var resp sparqlResponse
	headers := map[string]string{"Accept": "application/sparql-results+json"}
	if err := c.sparql.Get(ctx, c.sparqlURL+"?"+params.Encode(), headers, &resp); err != nil {
		return nil, softError(err)
	}

	items := make([]domain.WikidataItem, 0, len(resp.Results.Bindings))
	for _, b := range resp.Results.Bindings {
		itemURI := b["item"].Value
		if itemURI == "" {
			continue
		}
		qid := itemURI[strings.LastIndex(itemURI, "/")+1:]

		label := b["itemLabel"].Value
		if label == "" {
			label = qid
		}

		item := domain.WikidataItem{QID: qid, Label: label}
		if coord, err := wkt.UnmarshalPoint(strings.ToUpper(b["coord"].Value)); err == nil {
			d := utils.DistanceMeters(point.Lat, point.Lon, coord.Lat(), coord.Lon())
			item.DistMeters = &d
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return distOrMax(items[i].DistMeters) < distOrMax(items[j].DistMeters)
	})

	return items, nil
}

func distOrMax(d *float64) float64 {
	if d == nil {
		return 1e9
	}
	return *d
}

// CommonsNearbyImage возвращает первое файловое изображение Commons с геометкой рядом с точкой
func (c *client) CommonsNearbyImage(ctx context.Context, point domain.Point, radiusMeters int) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "geosearch")
	params.Set("gscoord", fmt.Sprintf("%s|%s",
		strconv.FormatFloat(point.Lat, 'f', -1, 64), strconv.FormatFloat(point.Lon, 'f', -1, 64)))
	params.Set("gsradius", strconv.Itoa(radiusMeters))
	params.Set("gslimit", geosearchLimit)
	params.Set("gsnamespace", "6")
	params.Set("format", "json")
	params.Set("origin", "*")

	var search queryResponse
	if err := c.commons.Get(ctx, c.commonsURL+"/w/api.php?"+params.Encode(), nil, &search); err != nil {
		return "", softError(err)
	}
	if len(search.Query.Geosearch) == 0 {
		return "", nil
	}

	ids := make([]string, 0, len(search.Query.Geosearch))
	for _, g := range search.Query.Geosearch {
		ids = append(ids, strconv.FormatInt(g.PageID, 10))
	}

	params = url.Values{}
	params.Set("action", "query")
	params.Set("pageids", strings.Join(ids, "|"))
	params.Set("prop", "imageinfo")
	params.Set("iiprop", "url")
	params.Set("iiurlwidth", thumbWidth)
	params.Set("format", "json")
	params.Set("origin", "*")

	var info queryResponse
	if err := c.commons.Get(ctx, c.commonsURL+"/w/api.php?"+params.Encode(), nil, &info); err != nil {
		return "", softError(err)
	}

	// Порядок результатов geosearch (ближайшие первыми)
	for _, id := range ids {
		p, ok := info.Query.Pages[id]
		if !ok {
			continue
		}
		if u := p.imageURL(); u != "" {
			return u, nil
		}
	}

	return "", nil
}

// softError - ответ с кодом, отличным от 200, означает отсутствие медиа, а не сбой
func softError(err error) error {
	var statusErr *httpjson.StatusError
	if errors.As(err, &statusErr) {
		return nil
	}
	return err
}
