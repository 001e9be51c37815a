package notify

import (
	"fmt"
	"time"

	"robux-monitor/internal/classify"
	"robux-monitor/internal/types"
)

// Discord embed colors, decimal.
const (
	colorDefault     = 3066993  // green
	colorTarget      = 3447003  // blue, target reached / restock
	colorUrgent      = 15158332 // red, stock-out / price above target
	colorLowStock    = 16776960 // yellow
	colorPriceChange = 15844367 // gold
)

// BuildAlert turns a classification result into an alert. Pure, so
// the rendering is testable without a webhook.
func BuildAlert(res classify.Result, old, new types.Snapshot, items []types.TrackedItem, single bool, targetURL, authName string, now time.Time) Alert {
	lead := classify.LeadKind(res.Events)

	a := Alert{
		Title:       res.Title,
		Description: descriptionFor(lead),
		URL:         targetURL,
		Color:       colorFor(lead),
		Mention:     res.Ping,
		Footer:      "Created by " + authName,
		Timestamp:   now.UTC(),
	}

	if single {
		a.Fields = singleFields(old, new, targetURL)
	} else {
		a.Fields = multiFields(old, new, items, res.Best, targetURL)
	}
	return a
}

func colorFor(kind types.EventKind) int {
	switch kind {
	case types.TargetReached, types.Restocked:
		return colorTarget
	case types.OutOfStock, types.TargetExceeded:
		return colorUrgent
	case types.LowStockCrossed:
		return colorLowStock
	case types.PriceChanged:
		return colorPriceChange
	default:
		return colorDefault
	}
}

func descriptionFor(kind types.EventKind) string {
	switch kind {
	case types.TargetReached:
		return "The price has reached or dropped below the target!"
	case types.OutOfStock:
		return "The item is currently out of stock."
	case types.TargetExceeded:
		return "The price climbed back above the target."
	case types.LowStockCrossed:
		return "Stock is running low, buy soon!"
	case types.Restocked:
		return "Stock is available again."
	default:
		return "A new price has been detected."
	}
}

func singleFields(old, new types.Snapshot, targetURL string) []Field {
	oldRec := old[types.SingleItemID]
	newRec := new[types.SingleItemID]
	return []Field{
		{Name: "Current Price (per 100 Robux)", Value: rupiah(newRec.Price), Inline: true},
		{Name: "Previous Price", Value: rupiah(oldRec.Price), Inline: true},
		{Name: "Current Stock", Value: displayStatus(newRec), Inline: false},
		{Name: "Shop Link", Value: shopLink(targetURL), Inline: false},
	}
}

func multiFields(old, new types.Snapshot, items []types.TrackedItem, best *types.BestValue, targetURL string) []Field {
	var fields []Field
	for _, item := range items {
		rec, ok := new[item.ID]
		if !ok {
			continue
		}
		value := rupiah(rec.Price)
		if prev, ok := old[item.ID]; ok && prev.Price > 0 && prev.Price != rec.Price {
			value += fmt.Sprintf(" (was %s)", rupiah(prev.Price))
		}
		value += " - " + displayStatus(rec)
		fields = append(fields, Field{Name: item.Label, Value: value, Inline: true})
	}
	if best != nil {
		fields = append(fields, Field{
			Name:   "Best Value",
			Value:  fmt.Sprintf("%s (Rp %.2f per Robux)", best.Item.Label, best.PerUnit),
			Inline: false,
		})
	}
	fields = append(fields, Field{Name: "Shop Link", Value: shopLink(targetURL), Inline: false})
	return fields
}

// displayStatus renders availability for humans. The qualifier is
// display-only detail and never feeds back into classification.
func displayStatus(rec types.PriceRecord) string {
	switch rec.Status {
	case types.StatusAvailable:
		if rec.Qualifier != "" {
			return rec.Qualifier
		}
		return "Available"
	case types.StatusOutOfStock:
		if rec.Qualifier != "" {
			return "Out of stock (" + rec.Qualifier + ")"
		}
		return "Out of stock"
	default:
		return "Unknown"
	}
}

func rupiah(n int) string {
	return "Rp " + types.GroupDigits(n)
}

func shopLink(url string) string {
	return fmt.Sprintf("[Open the shop](%s)", url)
}
