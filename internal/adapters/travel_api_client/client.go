package travel_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"travel-web/internal/contextkeys"
	"travel-web/internal/core/port"
)

// ErrMalformedResponse - ответ 2xx, но тело не соответствует ожидаемой форме.
var ErrMalformedResponse = errors.New("malformed travel api response")

// StatusError - travel API ответил не-2xx.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("travel api returned non-success status code %d: %s", e.StatusCode, e.Body)
}

// maxErrorBody ограничивает, сколько тела ошибки попадает в лог.
const maxErrorBody = 1 << 10

// Client - HTTP-клиент travel API. Все пути относительно <baseURL>/api.
type Client struct {
	baseURL    string
	httpClient *http.Client
	schemas    responseSchemas
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("travel api base url is required")
	}
	schemas, err := compileResponseSchemas()
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		schemas:    schemas,
	}, nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + "/api" + path
}

// doRequest выставляет общие заголовки и пробрасывает trace_id.
func (c *Client) doRequest(ctx context.Context, method, url string, body io.Reader, cookies []*http.Cookie) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	return c.httpClient.Do(req)
}

// doJSON выполняет запрос с JSON-телом (payload может быть nil) и проверяет статус.
// Тело успешного ответа возвращается прочитанным целиком.
func (c *Client) doJSON(ctx context.Context, method, path string, payload interface{}, cookies []*http.Cookie, clientLogger port.LoggerPort) ([]byte, *http.Response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	url := c.endpoint(path)
	clientLogger.Debug("Sending request to travel api", port.Fields{"url": url, "http_method": method})

	resp, err := c.doRequest(ctx, method, url, body, cookies)
	if err != nil {
		clientLogger.Error("Failed to perform request to travel api", err, nil)
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		clientLogger.Error("Failed to read response body", err, nil)
		return nil, resp, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := respBody
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		err := &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
		clientLogger.Warn("Received error response from travel api", port.Fields{
			"status_code": resp.StatusCode,
			"error":       err.Error(),
		})
		return nil, resp, err
	}

	return respBody, resp, nil
}

// getList - GET спискового эндпоинта: проверка по схеме, затем декодирование.
func getList[D any](ctx context.Context, c *Client, path, schemaKey string, clientLogger port.LoggerPort) ([]D, error) {
	body, _, err := c.doJSON(ctx, http.MethodGet, path, nil, nil, clientLogger)
	if err != nil {
		return nil, err
	}

	if err := c.schemas.validate(schemaKey, body); err != nil {
		clientLogger.Error("Travel api response failed schema validation", err, nil)
		return nil, err
	}

	var items []D
	if err := json.Unmarshal(body, &items); err != nil {
		clientLogger.Error("Failed to decode response from travel api", err, nil)
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return items, nil
}

func (c *Client) logger(ctx context.Context, method string) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "TravelApiClient",
		"method":    method,
	})
}
