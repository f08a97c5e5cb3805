package http

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/school-georesolver/internal/config"
	"github.com/school-georesolver/internal/delivery/http/handler"
	"github.com/school-georesolver/internal/delivery/http/middleware"
	"github.com/school-georesolver/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubResolver struct{}

func (stubResolver) Resolve(_ context.Context, p domain.Point) (*domain.ResolutionResult, error) {
	return &domain.ResolutionResult{Point: p, Name: "Escola"}, nil
}

func (stubResolver) ResolveBatch(_ context.Context, _ []domain.Point) ([]*domain.ResolutionResult, error) {
	return nil, nil
}

func (stubResolver) SaveOverride(_ context.Context, _ domain.Point, _, _ string) error { return nil }

func (stubResolver) RemoveOverride(_ context.Context, _ domain.Point) error { return nil }

func (stubResolver) ClearCache(_ domain.Point) int { return 0 }

func (stubResolver) CachedCount() int { return 0 }

func newTestServer() *Server {
	h := handler.NewSchoolHandler(stubResolver{}, 50, "memory", zap.NewNop())
	return NewServer(&config.Config{}, zap.NewNop(), h)
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer()

	resp, err := s.App().Test(httptest.NewRequest("GET", "/api/v1/schools/resolve?lat=-9.39&lon=-38.23", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}

func TestServer_RequestIDPropagated(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "req-42", resp.Header.Get(middleware.RequestIDHeader))
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer()

	resp, err := s.App().Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestServer_NotFound(t *testing.T) {
	s := newTestServer()

	resp, err := s.App().Test(httptest.NewRequest("GET", "/nope", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Contains(t, string(body), "NOT_FOUND")
}

func TestServer_PanicRecovered(t *testing.T) {
	s := newTestServer()
	s.App().Get("/boom", func(c *fiber.Ctx) error { panic("boom") })

	resp, err := s.App().Test(httptest.NewRequest("GET", "/boom", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Contains(t, string(body), "INTERNAL_SERVER_ERROR")
}

func TestServer_CORSPreflight(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest("OPTIONS", "/api/v1/schools/resolve", nil)
	req.Header.Set("Origin", "https://map.example")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", statusCode(404))
	assert.Equal(t, "METHOD_NOT_ALLOWED", statusCode(405))
	assert.Equal(t, "HTTP_ERROR", statusCode(599))
}
