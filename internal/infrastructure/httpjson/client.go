package httpjson

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/school-georesolver/internal/pkg/metrics"
	"go.uber.org/zap"
)

// StatusError - внешний API ответил кодом, отличным от 200
type StatusError struct {
	Source     string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error: status %d, body: %s", e.Source, e.StatusCode, e.Body)
}

// Client - GET-клиент JSON API с логированием и метриками
type Client struct {
	httpClient *http.Client
	source     string
	userAgent  string
	logger     *zap.Logger
}

func New(source string, timeout time.Duration, userAgent string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		source:     source,
		userAgent:  userAgent,
		logger:     logger,
	}
}

// Get выполняет GET и декодирует тело ответа в out
func (c *Client) Get(ctx context.Context, url string, headers map[string]string, out interface{}) error {
	start := time.Now()
	err := c.get(ctx, url, headers, out)
	metrics.ObserveUpstream(c.source, float64(time.Since(start).Milliseconds()), err)
	return err
}

func (c *Client) get(ctx context.Context, url string, headers map[string]string, out interface{}) error {
	c.logger.Debug("Calling external API",
		zap.String("source", c.source),
		zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Failed to execute request",
			zap.String("source", c.source),
			zap.Error(err))
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("External API returned error",
			zap.String("source", c.source),
			zap.Int("status_code", resp.StatusCode))
		return &StatusError{Source: c.source, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Warn("Failed to decode response",
			zap.String("source", c.source),
			zap.Error(err))
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
