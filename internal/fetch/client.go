// Package fetch retrieves the target page. The HTTP profile rides a
// cloudflare-bypass transport; the browser profile drives headless
// Chrome for pages that only render the product data after
// JavaScript runs.
package fetch

import (
	"context"
	"fmt"
	"net/http"

	"robux-monitor/internal/extract"
	"robux-monitor/internal/types"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

// Fetcher retrieves raw markup for a URL. One blocking request, no
// retry; a blocked response surfaces as extract.ErrBlocked.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Client is the plain-HTTP fetch profile.
type Client struct {
	http   *resty.Client
	logger types.Logger
}

// NewClient builds the HTTP profile with the anti-bot transport and a
// browser user agent.
func NewClient(cfg *types.Config, logger types.Logger) *Client {
	c := resty.New()
	c.SetTimeout(cfg.Timeout)
	c.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(c.GetClient().Transport)
	c.SetHeader("User-Agent", cfg.UserAgent)
	c.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	c.SetHeader("Accept-Language", "id-ID,id;q=0.9,en-US;q=0.8,en;q=0.7")

	return &Client{http: c, logger: logger}
}

// Fetch performs the single GET. 403/503 and challenge bodies are
// surfaced as blocked, distinct from transport errors, so the caller
// can log them for operator visibility without retrying.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	res, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch failed: %w", err)
	}

	body := string(res.Body())
	if blockedStatus(res.StatusCode()) || extract.IsChallenge(body) {
		return "", fmt.Errorf("status %d: %w", res.StatusCode(), extract.ErrBlocked)
	}
	if res.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", res.StatusCode())
	}

	c.logger.Debugf("retrieved %d bytes from %s", len(body), url)
	return body, nil
}

// blockedStatus reports whether a status code is the signature of a
// bot challenge rather than an ordinary failure.
func blockedStatus(code int) bool {
	return code == http.StatusForbidden || code == http.StatusServiceUnavailable
}
