// Package notify renders classified events into an alert and
// delivers it. Delivery is best-effort: a failed send is logged by
// the caller and never aborts the run.
package notify

import (
	"context"
	"time"
)

// Field is one named value on the alert, one per tracked item or a
// single summary entry.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Alert is the backend-neutral notification payload.
type Alert struct {
	Title       string
	Description string
	URL         string
	Color       int
	Mention     bool
	Fields      []Field
	Footer      string
	Timestamp   time.Time
}

// Notifier delivers an alert.
type Notifier interface {
	Send(ctx context.Context, alert Alert) error
}
