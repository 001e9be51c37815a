package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"robux-monitor/internal/extract"
	"robux-monitor/internal/types"

	"github.com/chromedp/chromedp"
)

// Browser is the headless-browser fetch profile, for revisions of the
// storefront that hide the product data behind client-side rendering
// or a JavaScript challenge the plain transport cannot pass.
type Browser struct {
	timeout time.Duration
	logger  types.Logger
}

// NewBrowser creates the browser profile.
func NewBrowser(cfg *types.Config, logger types.Logger) *Browser {
	// Suppress chromedp debug logging
	log.SetOutput(io.Discard)

	return &Browser{
		// Rendering needs headroom the single-request timeout does
		// not allow for.
		timeout: 3 * cfg.Timeout,
		logger:  logger,
	}
}

// Fetch navigates to the page, lets dynamic content settle and
// returns the rendered markup.
func (b *Browser) Fetch(ctx context.Context, url string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, b.timeout)
	defer cancel()

	var markup string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.OuterHTML("html", &markup),
	)
	if err != nil {
		return "", fmt.Errorf("failed to get page content: %w", err)
	}

	if extract.IsChallenge(markup) {
		return "", fmt.Errorf("challenge page after render: %w", extract.ErrBlocked)
	}

	b.logger.Debugf("retrieved %d rendered bytes from %s", len(markup), url)
	return markup, nil
}
