package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"robux-monitor/internal/types"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Single-item pages advertise one price per 100 Robux and an explicit
// stock marker instead of per-bundle rows.
var (
	singlePriceRe   = regexp.MustCompile(`Rp\s*(\d{1,3}(?:\.\d{3})+|\d+)\s*/\s*100\s*Robux`)
	stockMarkerRe   = regexp.MustCompile(`Stok\s*Tersedia`)
	restockAnchorRe = regexp.MustCompile(`Stok\s*selanjutnya\s*dalam`)
)

// ExtractSingle reads the single-item page variant. The price element
// is mandatory; its absence is a global extraction failure.
// Availability is driven by the in-stock marker, falling back to the
// restock countdown, with a bold-styled sibling number folded into
// the stock count when present.
func (e *Extractor) ExtractSingle(markup string) (types.Snapshot, error) {
	if IsChallenge(markup) {
		return nil, ErrBlocked
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	price, ok := findSinglePrice(doc)
	if !ok {
		return nil, ErrNoData
	}
	rec := types.PriceRecord{Price: price}

	if marker := findSpanByOwnText(doc, stockMarkerRe); marker != nil {
		rec.Status = types.StatusAvailable
		if count, ok := findStockCount(marker); ok {
			if count == 0 {
				// Explicit zero: the marker lies, the shelf is empty.
				rec.Status = types.StatusOutOfStock
				rec.Qualifier = "0 available"
			} else {
				rec.StockCount = count
				rec.Qualifier = types.GroupDigits(count) + " available"
			}
		}
		e.logger.Debugf("single item: price %d, %s", price, rec.Status)
		return types.Snapshot{types.SingleItemID: rec}, nil
	}

	rec.Status = types.StatusOutOfStock
	if anchor := findSpanByOwnText(doc, restockAnchorRe); anchor != nil {
		if timer := findRestockTimer(anchor); timer != "" {
			rec.Qualifier = "restock in " + timer
		} else {
			rec.Qualifier = "restock timer unknown"
		}
	}
	e.logger.Debugf("single item: price %d, out of stock (%s)", price, rec.Qualifier)
	return types.Snapshot{types.SingleItemID: rec}, nil
}

// findSinglePrice scans text nodes for the "Rp<n>/100 Robux" token.
func findSinglePrice(doc *goquery.Document) (int, bool) {
	nodes := findTextNodes(doc, singlePriceRe.MatchString)
	for _, n := range nodes {
		m := singlePriceRe.FindStringSubmatch(n.Data)
		if m == nil {
			continue
		}
		price, err := strconv.Atoi(strings.ReplaceAll(m[1], ".", ""))
		if err == nil && price > 0 {
			return price, true
		}
	}
	return 0, false
}

// findStockCount reads the bold-styled number inside the marker's
// parent div. The second return is false when no parsable count is
// present, which is distinct from an explicit zero.
func findStockCount(marker *goquery.Selection) (int, bool) {
	parent := marker.ParentsFiltered("div").First()
	if parent.Length() == 0 {
		return 0, false
	}
	raw := strings.TrimSpace(parent.Find("span.font-bold").First().Text())
	raw = strings.ReplaceAll(raw, ".", "")
	if raw == "" {
		return 0, false
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count < 0 {
		return 0, false
	}
	return count, true
}

// findRestockTimer reads the countdown text next to the restock
// anchor.
func findRestockTimer(anchor *goquery.Selection) string {
	parent := anchor.ParentsFiltered("span").First()
	if parent.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(parent.Find("span.font-bold").First().Text())
}

// findSpanByOwnText returns the first span whose direct text content
// matches re, ignoring text contributed by nested elements.
func findSpanByOwnText(doc *goquery.Document, re *regexp.Regexp) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if re.MatchString(ownText(s)) {
			found = s
			return false
		}
		return true
	})
	return found
}

// ownText concatenates the direct text-node children of a selection.
func ownText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
	}
	return b.String()
}
