package extract

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// currencyMarker prefixes every price token on the page.
const currencyMarker = "Rp"

// maxAscentLevels bounds the upward walk of the ascent strategy.
const maxAscentLevels = 6

// locateFunc is one price-location heuristic: given the text node
// that matched an item label, it searches nearby structure for a
// currency-prefixed price and reports whether it found one.
type locateFunc func(n *html.Node) (int, bool)

// strategies are tried in order per label node; the first success
// wins. Markup structure drifts between site revisions, so a new
// heuristic is a pure addition to this list.
var strategies = []locateFunc{
	locateByContainer,
	locateByAscent,
}

// locateByContainer walks up to the nearest ancestor whose full text
// carries the currency marker and extracts the first price token from
// that ancestor's text. The walk is bounded so a label in one listing
// card never resolves against a price that belongs to a sibling card.
func locateByContainer(n *html.Node) (int, bool) {
	cur := n.Parent
	for level := 0; level < maxAscentLevels && cur != nil; level++ {
		text := nodeText(cur)
		if strings.Contains(text, currencyMarker) {
			return parsePriceToken(text)
		}
		cur = cur.Parent
	}
	return 0, false
}

// locateByAscent tests each ancestor level's text for a full price
// token, giving up after maxAscentLevels or at the tree root.
func locateByAscent(n *html.Node) (int, bool) {
	cur := n.Parent
	for level := 0; level < maxAscentLevels && cur != nil; level++ {
		if price, ok := parsePriceToken(nodeText(cur)); ok {
			return price, true
		}
		cur = cur.Parent
	}
	return 0, false
}

// priceTokenRe matches "Rp" followed by a dot-grouped integer. The
// grouping alternative only accepts well-formed thousands groups so a
// decimal fraction or a trailing sentence period is never swallowed.
var priceTokenRe = regexp.MustCompile(`Rp\s*(\d{1,3}(?:\.\d{3})+|\d+)`)

// parsePriceToken extracts the first currency-prefixed number from
// text, strips the grouping dots and parses it as an integer.
func parsePriceToken(text string) (int, bool) {
	m := priceTokenRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ".", ""))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
