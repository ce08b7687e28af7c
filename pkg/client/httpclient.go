package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "scoutnet/pkg/errors"
)

const (
	DefaultTimeout  = 30 * time.Second
	HeaderRequestID = "X-Request-ID"
)

type HttpClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Username   string
	Password   string
}

func NewHttpClient(baseURL string, timeout time.Duration) *HttpClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HttpClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithBasicAuth returns a copy of the client that authenticates every request.
func (c *HttpClient) WithBasicAuth(username, password string) *HttpClient {
	cp := *c
	cp.Username = username
	cp.Password = password
	return &cp
}

type Response struct {
	*http.Response
	Body      []byte
	RequestID string
}

// GET fetches a path relative to BaseURL, or an absolute http(s) URL as is.
func (c *HttpClient) GET(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, c.resolve(path))
}

func (c *HttpClient) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.BaseURL + path
}

func (c *HttpClient) do(ctx context.Context, method, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, apperrors.Transport(url, 0, fmt.Errorf("failed to create request: %w", err))
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if c.Username != "" || c.Password != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, apperrors.Transport(url, 0, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Transport(url, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.Transport(url, resp.StatusCode, nil).WithDetails(map[string]any{
			"request_id": requestID,
			"body":       truncate(string(respBody), 256),
		})
	}

	return &Response{
		Response:  resp,
		Body:      respBody,
		RequestID: requestID,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
