package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"askRoomWeb/internal/modules/rooms/application/port"
)

const defaultBackendURL = "http://localhost:8001"

// RESTClient wraps http.Client with base URL handling and status classification shared
// by the backend adapters.
type RESTClient struct {
	baseURL string
	client  *http.Client
}

func NewRESTClient(baseURL string, timeout time.Duration, client *http.Client) *RESTClient {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = defaultBackendURL
	}
	trimmed = strings.TrimRight(trimmed, "/")
	if client == nil {
		client = &http.Client{Timeout: timeoutOrDefault(timeout)}
	} else if timeout > 0 {
		client.Timeout = timeout
	}
	return &RESTClient{baseURL: trimmed, client: client}
}

// BaseURL returns the normalized backend root.
func (c *RESTClient) BaseURL() string { return c.baseURL }

func (c *RESTClient) NewRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	url := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	return http.NewRequestWithContext(ctx, method, url, body)
}

// Do sends req. Transport failures are wrapped in port.ErrBackendUnavailable unless
// the context expired, and non-2xx replies become a *port.StatusError after the body
// excerpt is read and the body closed.
func (c *RESTClient) Do(req *http.Request) (*http.Response, error) {
	slog.Debug("backend request", slog.String("method", req.Method), slog.String("url", req.URL.String()))
	res, err := c.client.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ctxErr)
		}
		return nil, fmt.Errorf("%w: %s %s: %v", port.ErrBackendUnavailable, req.Method, req.URL.Path, err)
	}
	slog.Debug("backend response", slog.Int("status", res.StatusCode), slog.String("url", req.URL.String()))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		defer res.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		excerpt := strings.TrimSpace(string(body))
		slog.Error("backend unexpected status", slog.Int("status", res.StatusCode), slog.String("url", req.URL.String()), slog.String("body", excerpt))
		return nil, &port.StatusError{Status: res.StatusCode, Body: excerpt}
	}
	return res, nil
}

func timeoutOrDefault(value time.Duration) time.Duration {
	if value <= 0 {
		return 10 * time.Second
	}
	return value
}
