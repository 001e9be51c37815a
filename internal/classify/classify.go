// Package classify diffs two snapshots into typed events. Everything
// here is a pure function of its inputs so a (old, new) pair always
// classifies the same way.
package classify

import (
	"strings"

	"robux-monitor/internal/types"
)

// Options carries the per-run classification policy.
type Options struct {
	// LowStockThreshold is the count boundary for LowStockCrossed.
	LowStockThreshold int
	// PingOnStockOut preserves the mode asymmetry: the single-item
	// variant pings on a stock-out, the multi-item variant does not.
	PingOnStockOut bool
	// Items fixes the declaration order used for iteration and
	// best-value tie-breaking.
	Items []types.TrackedItem
}

// Result is the aggregate outcome of one classification run.
type Result struct {
	Events []types.Event
	Ping   bool
	Title  string
	Best   *types.BestValue
}

// severityOrder fixes the title/color precedence across event kinds.
var severityOrder = []types.EventKind{
	types.TargetReached,
	types.OutOfStock,
	types.TargetExceeded,
	types.LowStockCrossed,
	types.Restocked,
	types.PriceChanged,
}

// Classify diffs new against old per tracked item. Per item the rules
// are evaluated in strict priority order and the first match wins;
// NoChange transitions are excluded from the event set.
func Classify(old, new types.Snapshot, targets map[string]int, opts Options) Result {
	if opts.LowStockThreshold <= 0 {
		opts.LowStockThreshold = types.DefaultLowStockThreshold
	}

	var events []types.Event
	ping := false
	for _, item := range opts.Items {
		newRec, ok := new[item.ID]
		if !ok {
			// Nothing observed for this item this run.
			continue
		}
		oldRec := old[item.ID]
		kind, p := classifyItem(oldRec, newRec, targets[item.ID], opts)
		if kind == types.NoChange {
			continue
		}
		events = append(events, types.Event{
			Kind:   kind,
			ItemID: item.ID,
			Old:    oldRec,
			New:    newRec,
			Ping:   p,
		})
		ping = ping || p
	}

	res := Result{
		Events: events,
		Ping:   ping,
		Title:  buildTitle(events),
	}
	if len(opts.Items) > 1 {
		res.Best = BestValueOf(new, opts.Items)
	}
	return res
}

// classifyItem applies the priority rules to one item's transition.
func classifyItem(old, new types.PriceRecord, target int, opts Options) (types.EventKind, bool) {
	switch {
	case new.Price > 0 && target > 0 && new.Price <= target && old.Price > target:
		return types.TargetReached, true

	// old.Price != 0 guards the first-ever run: a zero old price must
	// never count as "previously within target".
	case target > 0 && new.Price > target && old.Price <= target && old.Price != 0:
		return types.TargetExceeded, true

	case new.Status == types.StatusAvailable && old.Status == types.StatusOutOfStock:
		return types.Restocked, true

	case new.Status == types.StatusOutOfStock && old.Status == types.StatusAvailable:
		return types.OutOfStock, opts.PingOnStockOut

	case old.StockCount > opts.LowStockThreshold &&
		new.StockCount > 0 && new.StockCount <= opts.LowStockThreshold:
		return types.LowStockCrossed, true

	case new.Price != old.Price && new.Price > 0 && old.Price > 0:
		return types.PriceChanged, false

	default:
		return types.NoChange, false
	}
}

// buildTitle joins the distinct event kinds present, most severe
// first.
func buildTitle(events []types.Event) string {
	if len(events) == 0 {
		return ""
	}
	present := make(map[types.EventKind]bool, len(events))
	for _, ev := range events {
		present[ev.Kind] = true
	}
	var parts []string
	for _, kind := range severityOrder {
		if present[kind] {
			parts = append(parts, kind.String())
		}
	}
	return strings.Join(parts, " / ")
}

// LeadKind returns the most severe kind present in the event set, or
// NoChange when the set is empty. Used for color coding.
func LeadKind(events []types.Event) types.EventKind {
	present := make(map[types.EventKind]bool, len(events))
	for _, ev := range events {
		present[ev.Kind] = true
	}
	for _, kind := range severityOrder {
		if present[kind] {
			return kind
		}
	}
	return types.NoChange
}

// BestValueOf selects the available item minimizing price per unit in
// the snapshot. Ties keep the first item in declaration order. Returns
// nil when nothing is available.
func BestValueOf(snap types.Snapshot, items []types.TrackedItem) *types.BestValue {
	var best *types.BestValue
	for _, item := range items {
		rec, ok := snap[item.ID]
		if !ok || rec.Status != types.StatusAvailable || rec.Price <= 0 || item.Amount <= 0 {
			continue
		}
		perUnit := float64(rec.Price) / float64(item.Amount)
		if best == nil || perUnit < best.PerUnit {
			best = &types.BestValue{Item: item, Record: rec, PerUnit: perUnit}
		}
	}
	return best
}
