package extract

import (
	"errors"
	"fmt"
	"strings"

	"robux-monitor/internal/types"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	// ErrBlocked means the markup is an anti-bot challenge page, not
	// the product page. Non-retryable within the run.
	ErrBlocked = errors.New("markup is an anti-bot challenge page")
	// ErrNoData means no tracked item could be located at all; the
	// caller must not advance state.
	ErrNoData = errors.New("no tracked item could be located")
)

// challengeMarkers are phrases an interstitial challenge page shows
// instead of the product markup.
var challengeMarkers = []string{
	"Just a moment",
	"Checking your browser",
	"Enable JavaScript and cookies",
}

// IsChallenge reports whether the markup looks like a bot-challenge
// interstitial rather than the product page.
func IsChallenge(markup string) bool {
	for _, marker := range challengeMarkers {
		if strings.Contains(markup, marker) {
			return true
		}
	}
	return false
}

// Extractor turns raw storefront markup into a structured snapshot of
// the tracked items.
type Extractor struct {
	items  []types.TrackedItem
	logger types.Logger
}

// New creates an extractor for the given tracked items.
func New(items []types.TrackedItem, logger types.Logger) *Extractor {
	return &Extractor{items: items, logger: logger}
}

// Extract locates price and availability for every tracked item. A
// partial result (at least one item located) is a success; a page
// where nothing can be located yields ErrNoData so the caller leaves
// the stored snapshot untouched.
func (e *Extractor) Extract(markup string) (types.Snapshot, error) {
	if IsChallenge(markup) {
		return nil, ErrBlocked
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	snap := types.Snapshot{}
	for _, item := range e.items {
		rec, located := e.extractItem(doc, item)
		if !located {
			e.logger.Warnf("item %s: label not found on page", item.ID)
			continue
		}
		snap[item.ID] = rec
	}

	if len(snap) == 0 {
		return nil, ErrNoData
	}
	return snap, nil
}

// extractItem runs the ordered locate strategies for one item. The
// second return is false when the item's label does not appear on the
// page at all; a located label without a price token means the item
// is listed but not purchasable.
func (e *Extractor) extractItem(doc *goquery.Document, item types.TrackedItem) (types.PriceRecord, bool) {
	label := strings.ToLower(item.Label)
	nodes := findTextNodes(doc, func(text string) bool {
		return strings.Contains(strings.ToLower(text), label)
	})
	if len(nodes) == 0 {
		return types.PriceRecord{}, false
	}

	for _, node := range nodes {
		for _, locate := range strategies {
			if price, ok := locate(node); ok {
				e.logger.Debugf("item %s: located price %d", item.ID, price)
				return types.PriceRecord{Price: price, Status: types.StatusAvailable}, true
			}
		}
	}

	e.logger.Debugf("item %s: label found but no price token, treating as out of stock", item.ID)
	return types.PriceRecord{Status: types.StatusOutOfStock}, true
}

// findTextNodes walks the document tree and collects text nodes whose
// content satisfies match. Script and style subtrees are skipped.
func findTextNodes(doc *goquery.Document, match func(string) bool) []*html.Node {
	var out []*html.Node
	for _, root := range doc.Selection.Nodes {
		collectTextNodes(root, match, &out)
	}
	return out
}

func collectTextNodes(n *html.Node, match func(string) bool, out *[]*html.Node) {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	if n.Type == html.TextNode && match(n.Data) {
		*out = append(*out, n)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectTextNodes(c, match, out)
	}
}

// nodeText returns the concatenated text of a subtree, skipping
// script and style contents.
func nodeText(n *html.Node) string {
	var b strings.Builder
	appendText(n, &b)
	return b.String()
}

func appendText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendText(c, b)
	}
}
