package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/school-georesolver/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"app error", errors.ErrInvalidCoordinates, http.StatusBadRequest, "INVALID_COORDINATES"},
		{"wrapped timeout", fmt.Errorf("resolve: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "RESOLVE_TIMEOUT"},
		{"unknown", io.ErrUnexpectedEOF, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return SendError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)

			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(3, time.Now().Add(-20*time.Millisecond))

	assert.Equal(t, 3, meta.Total)
	assert.GreaterOrEqual(t, meta.TimeMSec, 20.0)
}
