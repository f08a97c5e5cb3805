package wikimedia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/school-georesolver/internal/config"
	"github.com/school-georesolver/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var origin = domain.Point{Lat: -9.39, Lon: -38.23}

func newTestClient(baseURL string) *client {
	cfg := &config.SourcesConfig{
		WikipediaBaseURL:  baseURL,
		WikidataBaseURL:   baseURL,
		WikidataSPARQLURL: baseURL + "/sparql",
		CommonsBaseURL:    baseURL,
		RequestTimeout:    5 * time.Second,
	}
	return NewWikimediaClient(cfg, "pt", zap.NewNop()).(*client)
}

func TestSplitWikipediaTag(t *testing.T) {
	tests := []struct {
		tag   string
		lang  string
		title string
	}{
		{"pt:Escola Estadual X", "pt", "Escola Estadual X"},
		{"en:Title: With Colon", "en", "Title: With Colon"},
		{"Escola Sem Prefixo", "pt", "Escola Sem Prefixo"},
		{"Longprefix:Title", "pt", "Longprefix:Title"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			lang, title := SplitWikipediaTag(tt.tag, "pt")
			assert.Equal(t, tt.lang, lang)
			assert.Equal(t, tt.title, title)
		})
	}
}

func TestWikipediaThumbnail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/w/api.php", r.URL.Path)
		assert.Equal(t, "pageimages", r.URL.Query().Get("prop"))
		assert.Equal(t, "Escola X", r.URL.Query().Get("titles"))
		_, _ = w.Write([]byte(`{"query":{"pages":{"123":{"pageid":123,"thumbnail":{"source":"https://upload.example/thumb.jpg"}}}}}`))
	}))
	defer server.Close()

	u, err := newTestClient(server.URL).WikipediaThumbnail(context.Background(), "pt:Escola X")

	require.NoError(t, err)
	assert.Equal(t, "https://upload.example/thumb.jpg", u)
}

func TestWikipediaThumbnail_NoImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"query":{"pages":{"-1":{"missing":""}}}}`))
	}))
	defer server.Close()

	u, err := newTestClient(server.URL).WikipediaThumbnail(context.Background(), "Escola Y")

	require.NoError(t, err)
	assert.Empty(t, u)
}

func TestWikidataImage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wiki/Special:EntityData/Q42.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"entities":{"Q42":{"claims":{"P18":[{"mainsnak":{"datavalue":{"value":"Fachada.jpg"}}}]}}}}`))
	})
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "File:Fachada.jpg", r.URL.Query().Get("titles"))
		assert.Equal(t, "640", r.URL.Query().Get("iiurlwidth"))
		_, _ = w.Write([]byte(`{"query":{"pages":{"-1":{"imageinfo":[{"url":"https://commons.example/full.jpg","thumburl":"https://commons.example/640.jpg"}]}}}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	u, err := newTestClient(server.URL).WikidataImage(context.Background(), "Q42")

	require.NoError(t, err)
	assert.Equal(t, "https://commons.example/640.jpg", u)
}

func TestWikidataImage_NoP18(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"entities":{"Q7":{"claims":{}}}}`))
	}))
	defer server.Close()

	u, err := newTestClient(server.URL).WikidataImage(context.Background(), "Q7")

	require.NoError(t, err)
	assert.Empty(t, u)
}

func TestWikidataImage_StatusErrorIsSoft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	u, err := newTestClient(server.URL).WikidataImage(context.Background(), "Q404")

	assert.NoError(t, err)
	assert.Empty(t, u)
}

func TestNearbyEducation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sparql", r.URL.Path)
		assert.Equal(t, "application/sparql-results+json", r.Header.Get("Accept"))
		query := r.URL.Query().Get("query")
		assert.Contains(t, query, `wikibase:center "Point(-38.23 -9.39)"^^geo:wktLiteral`)
		assert.Contains(t, query, `wikibase:radius "0.08"`)
		assert.Contains(t, query, "?item wdt:P18 ?img .")
		assert.Contains(t, query, "wd:Q3914 wd:Q2385804 wd:Q875538 wd:Q9842")

		_, _ = w.Write([]byte(`{"results":{"bindings":[
			{"item":{"value":"http://www.wikidata.org/entity/Q2"},"itemLabel":{"value":"Escola Longe"},"coord":{"value":"Point(-38.23 -9.3905)"}},
			{"item":{"value":"http://www.wikidata.org/entity/Q3"},"coord":{"value":"bad"}},
			{"item":{"value":"http://www.wikidata.org/entity/Q1"},"itemLabel":{"value":"Escola Perto"},"coord":{"value":"Point(-38.23 -9.3901)"}}
		]}}`))
	}))
	defer server.Close()

	items, err := newTestClient(server.URL).NearbyEducation(context.Background(), origin, 0.08, true)

	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Q1", items[0].QID)
	assert.Equal(t, "Escola Perto", items[0].Label)
	require.NotNil(t, items[0].DistMeters)
	assert.InDelta(t, 11.1, *items[0].DistMeters, 0.2)
	assert.Equal(t, "Q2", items[1].QID)
	// Без координат - в конце, метка по умолчанию равна QID
	assert.Equal(t, "Q3", items[2].QID)
	assert.Equal(t, "Q3", items[2].Label)
	assert.Nil(t, items[2].DistMeters)
}

func TestCommonsNearbyImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("list") == "geosearch" {
			assert.Equal(t, "-9.39|-38.23", q.Get("gscoord"))
			assert.Equal(t, "80", q.Get("gsradius"))
			assert.Equal(t, "6", q.Get("gsnamespace"))
			_, _ = w.Write([]byte(`{"query":{"geosearch":[{"pageid":30},{"pageid":10},{"pageid":20}]}}`))
			return
		}
		assert.Equal(t, "30|10|20", q.Get("pageids"))
		_, _ = w.Write([]byte(`{"query":{"pages":{
			"10":{"pageid":10,"imageinfo":[{"url":"https://commons.example/10.jpg"}]},
			"20":{"pageid":20,"imageinfo":[{"url":"https://commons.example/20.jpg"}]},
			"30":{"pageid":30}
		}}}`))
	}))
	defer server.Close()

	u, err := newTestClient(server.URL).CommonsNearbyImage(context.Background(), origin, 80)

	require.NoError(t, err)
	assert.Equal(t, "https://commons.example/10.jpg", u)
}

func TestCommonsNearbyImage_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.Contains(r.URL.RawQuery, "geosearch"))
		_, _ = w.Write([]byte(`{"query":{"geosearch":[]}}`))
	}))
	defer server.Close()

	u, err := newTestClient(server.URL).CommonsNearbyImage(context.Background(), origin, 80)

	require.NoError(t, err)
	assert.Empty(t, u)
}
