package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
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
		NominatimBaseURL:   baseURL,
		NominatimUserAgent: "test-agent",
		NominatimLanguage:  "pt-BR",
		RequestTimeout:     5 * time.Second,
	}
	return NewNominatimClient(cfg, zap.NewNop()).(*client)
}

func TestReverse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "jsonv2", q.Get("format"))
		assert.Equal(t, "18", q.Get("zoom"))
		assert.Equal(t, "pt-BR", q.Get("accept-language"))
		assert.Equal(t, "-9.39", q.Get("lat"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

		_, _ = w.Write([]byte(`{"name":"","display_name":"Rua A, Centro, Paulo Afonso","category":"highway","type":"residential","lat":"-9.3901","lon":"-38.2301"}`))
	}))
	defer server.Close()

	p, err := newTestClient(server.URL).Reverse(context.Background(), origin)

	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Rua A, Centro, Paulo Afonso", p.DisplayName)
	assert.Equal(t, "highway", p.Category)
	assert.InDelta(t, -9.3901, p.Lat, 1e-9)
}

func TestReverse_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
	}))
	defer server.Close()

	p, err := newTestClient(server.URL).Reverse(context.Background(), origin)

	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestReverse_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Reverse(context.Background(), origin)
	assert.Error(t, err)
}

func TestSearchBounded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "colégio", q.Get("q"))
		assert.Equal(t, "1", q.Get("bounded"))
		assert.Equal(t, "8", q.Get("limit"))

		parts := strings.Split(q.Get("viewbox"), ",")
		require.Len(t, parts, 4)
		left, _ := strconv.ParseFloat(parts[0], 64)
		top, _ := strconv.ParseFloat(parts[1], 64)
		right, _ := strconv.ParseFloat(parts[2], 64)
		bottom, _ := strconv.ParseFloat(parts[3], 64)
		assert.Less(t, left, origin.Lon)
		assert.Greater(t, right, origin.Lon)
		assert.Greater(t, top, origin.Lat)
		assert.Less(t, bottom, origin.Lat)
		assert.InDelta(t, 120.0/111195.0, top-origin.Lat, 1e-5)

		_, _ = w.Write([]byte(`[
			{"name":"Colégio Sete","display_name":"Colégio Sete, Rua B, Paulo Afonso","category":"amenity","type":"school","lat":"-9.3905","lon":"-38.2302"},
			{"name":"","display_name":"Rua Colégio, Paulo Afonso","category":"highway","type":"residential","lat":"-9.391","lon":"-38.23"}
		]`))
	}))
	defer server.Close()

	places, err := newTestClient(server.URL).SearchBounded(context.Background(), origin, "colégio", 120)

	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, "Colégio Sete", places[0].Name)
	assert.Equal(t, "amenity", places[0].Category)
	assert.Equal(t, "Rua Colégio", places[1].ShortName())
}
