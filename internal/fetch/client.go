package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"lagardere/internal/config"
)

// Fetcher retrieves a linked document. Implementations return the raw body
// and the Content-Type header; transport failures and non-2xx statuses are
// errors for the caller to degrade on.
type Fetcher interface {
	Fetch(ctx context.Context, link string) (body []byte, contentType string, err error)
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	cookie     string
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: time.Duration(cfg.FetchTimeoutMs) * time.Millisecond},
		userAgent:  cfg.FetchUserAgent,
		cookie:     cfg.FetchCookie,
	}
}

func (c *Client) Fetch(ctx context.Context, link string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("fetch status %d for %s", resp.StatusCode, link)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return body, resp.Header.Get("Content-Type"), nil
}
