package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Status is the availability state of a tracked item.
// The wire words mirror the storefront vocabulary so the persisted
// snapshot stays readable next to the page it was scraped from.
type Status int

const (
	// StatusUnknown is the zero value. It only appears in the
	// bootstrap snapshot before the first successful run; the
	// classifier treats it as neither available nor out of stock.
	StatusUnknown Status = iota
	StatusAvailable
	StatusOutOfStock
)

// String returns the wire representation of the status.
func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "Tersedia"
	case StatusOutOfStock:
		return "Habis"
	default:
		return "Unknown"
	}
}

// ParseStatus maps a wire word back to a Status. Anything
// unrecognized decodes as StatusUnknown.
func ParseStatus(s string) Status {
	switch s {
	case "Tersedia":
		return StatusAvailable
	case "Habis":
		return StatusOutOfStock
	default:
		return StatusUnknown
	}
}

// MarshalJSON encodes the status as its wire word.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a wire word into a Status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseStatus(raw)
	return nil
}

// TrackedItem is a static descriptor for one unit-size variant of the
// monitored good. Descriptors come from configuration and are
// immutable for the run.
type TrackedItem struct {
	ID     string
	Label  string
	Amount int
}

// SingleItemID is the implicit item id used in single-item mode,
// where the page advertises one price per 100 Robux.
const SingleItemID = "robux"

// SingleItem returns the implicit descriptor for single-item mode.
func SingleItem() TrackedItem {
	return TrackedItem{ID: SingleItemID, Label: "Robux", Amount: 100}
}

// NewTrackedItem builds a descriptor for a bundle of the given unit
// amount, e.g. 500 -> {ID:"500", Label:"500 Robux", Amount:500}.
func NewTrackedItem(amount int) TrackedItem {
	id := strconv.Itoa(amount)
	return TrackedItem{ID: id, Label: id + " Robux", Amount: amount}
}

// PriceRecord is the observed state of one tracked item at one fetch
// instant. Price is meaningful only when Status is StatusAvailable;
// 0 means unknown/unavailable. Qualifier is display-only detail
// (restock countdown, remaining-unit text) and never participates in
// comparisons. StockCount is the extracted unit count when the page
// exposes one, 0 when unknown.
type PriceRecord struct {
	Price      int    `json:"price"`
	Status     Status `json:"status"`
	Qualifier  string `json:"qualifier,omitempty"`
	StockCount int    `json:"stock_count,omitempty"`
}

// Snapshot maps tracked-item ids to their observed records. Snapshots
// are immutable once produced; the pipeline only creates new ones and
// compares them.
type Snapshot map[string]PriceRecord

// EncodeSnapshot serializes a snapshot for persistence. Multi-item
// mode writes the id -> record mapping; single-item mode writes the
// one record as a flat object.
func EncodeSnapshot(s Snapshot, single bool) ([]byte, error) {
	if single {
		rec, ok := s[SingleItemID]
		if !ok {
			return nil, fmt.Errorf("snapshot has no %q record", SingleItemID)
		}
		return json.MarshalIndent(rec, "", "  ")
	}
	return json.MarshalIndent(s, "", "  ")
}

// DecodeSnapshot deserializes a persisted snapshot. The codec is the
// inverse of EncodeSnapshot; records holding only price and status
// (older writers) decode fine, the optional fields stay zero.
func DecodeSnapshot(data []byte, single bool) (Snapshot, error) {
	if single {
		var rec PriceRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
		return Snapshot{SingleItemID: rec}, nil
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return s, nil
}

// EventKind classifies the transition between two records of the same
// item.
type EventKind int

const (
	NoChange EventKind = iota
	TargetReached
	TargetExceeded
	Restocked
	OutOfStock
	LowStockCrossed
	PriceChanged
)

// String returns the display name used in alert titles.
func (k EventKind) String() string {
	switch k {
	case TargetReached:
		return "Target Reached"
	case TargetExceeded:
		return "Price Above Target"
	case Restocked:
		return "Restocked"
	case OutOfStock:
		return "Out of Stock"
	case LowStockCrossed:
		return "Low Stock"
	case PriceChanged:
		return "Price Changed"
	default:
		return "No Change"
	}
}

// Event is one classified transition. Ping marks the event urgent
// enough to mention everyone in the alert.
type Event struct {
	Kind   EventKind
	ItemID string
	Old    PriceRecord
	New    PriceRecord
	Ping   bool
}

// BestValue is the tracked item with the lowest price per unit among
// currently available items. Derived fresh every run, never persisted.
type BestValue struct {
	Item    TrackedItem
	Record  PriceRecord
	PerUnit float64
}

// GroupDigits renders n with dot thousands separators ("12.000"),
// the grouping style the storefront uses.
func GroupDigits(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return "-" + GroupDigits(-n)
	}
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Logger defines the logging interface so components can be tested
// without a concrete logrus instance.
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
