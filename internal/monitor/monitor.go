// Package monitor runs the pipeline: fetch, extract, read the old
// snapshot, classify, notify, persist. One sequential pass per
// invocation; the external scheduler guarantees runs do not overlap
// (the read-then-write is not transactional, last writer wins).
package monitor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"robux-monitor/internal/classify"
	"robux-monitor/internal/extract"
	"robux-monitor/internal/fetch"
	"robux-monitor/internal/notify"
	"robux-monitor/internal/store"
	"robux-monitor/internal/types"
)

// Monitor wires the pipeline components for one run.
type Monitor struct {
	cfg       *types.Config
	fetcher   fetch.Fetcher
	store     store.Store
	notifier  notify.Notifier
	extractor *extract.Extractor
	logger    types.Logger
	now       func() time.Time
}

// New assembles a monitor from already-constructed boundary adapters.
func New(cfg *types.Config, fetcher fetch.Fetcher, st store.Store, notifier notify.Notifier, logger types.Logger) *Monitor {
	return &Monitor{
		cfg:       cfg,
		fetcher:   fetcher,
		store:     st,
		notifier:  notifier,
		extractor: extract.New(cfg.TrackedItems(), logger),
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes one pipeline pass. Any failure before classification
// aborts without touching persisted state; a notification failure is
// logged and never blocks persistence. The returned error is for
// logging only, the process still exits 0.
func (m *Monitor) Run(ctx context.Context) error {
	markup, err := m.fetcher.Fetch(ctx, m.cfg.TargetURL)
	if err != nil {
		if errors.Is(err, extract.ErrBlocked) {
			m.logger.Errorf("blocked by anti-bot challenge: %v", err)
		} else {
			m.logger.Errorf("fetch failed: %v", err)
		}
		return err
	}

	newSnap, err := m.extract(markup)
	if err != nil {
		if errors.Is(err, extract.ErrBlocked) {
			m.logger.Errorf("page is an anti-bot challenge, skipping this run: %v", err)
		} else {
			m.logger.Errorf("extraction failed, skipping this run: %v", err)
		}
		m.dumpMarkup(markup)
		return err
	}

	old, bootstrap, trusted := m.readOldSnapshot(ctx)

	res := classify.Classify(old, newSnap, m.cfg.Targets, classify.Options{
		LowStockThreshold: m.cfg.LowStockThreshold,
		PingOnStockOut:    m.cfg.SingleItem,
		Items:             m.cfg.TrackedItems(),
	})

	if len(res.Events) == 0 && !bootstrap {
		if !trusted || !hasUnseeded(old, newSnap) {
			m.logger.Infof("no significant changes")
			return nil
		}
		m.logger.Infof("seeding records for newly observed items")
	}

	if len(res.Events) > 0 {
		for _, ev := range res.Events {
			m.logger.Infof("item %s: %s (price %d -> %d)", ev.ItemID, ev.Kind, ev.Old.Price, ev.New.Price)
		}
		alert := notify.BuildAlert(res, old, newSnap, m.cfg.TrackedItems(), m.cfg.SingleItem,
			m.cfg.TargetURL, m.cfg.AuthName, m.now())
		if err := m.notifier.Send(ctx, alert); err != nil {
			// Best-effort: state persistence still proceeds.
			m.logger.Errorf("notification failed: %v", err)
		}
	}

	data, err := types.EncodeSnapshot(newSnap, m.cfg.SingleItem)
	if err != nil {
		m.logger.Errorf("failed to encode snapshot: %v", err)
		return err
	}
	if err := m.store.Write(ctx, m.cfg.GistFile, data); err != nil {
		// The notification is already out; log and move on.
		m.logger.Errorf("failed to persist snapshot: %v", err)
		return nil
	}
	m.logger.Infof("snapshot persisted")
	return nil
}

func (m *Monitor) extract(markup string) (types.Snapshot, error) {
	if m.cfg.SingleItem {
		return m.extractor.ExtractSingle(markup)
	}
	return m.extractor.Extract(markup)
}

// hasUnseeded reports whether the new snapshot observed an item the
// stored one has no usable record for. Such items match no classifier
// rule (their old record is all zero), so without a write here they
// would stay unseeded forever and a later target crossing could never
// fire. A stored record that decoded to the zero value (foreign or
// legacy JSON shapes) counts as unseeded too.
func hasUnseeded(old, new types.Snapshot) bool {
	for id := range new {
		rec, ok := old[id]
		if !ok || (rec.Price == 0 && rec.Status == types.StatusUnknown) {
			return true
		}
	}
	return false
}

// readOldSnapshot degrades every read problem to an empty snapshot so
// a brand-new deployment can bootstrap. bootstrap reports whether the
// new snapshot must be persisted even without events, otherwise the
// first run would never seed state. trusted is false only on a
// transient read failure, where the empty snapshot does not reflect
// what is actually stored and must never be seed-written over it.
func (m *Monitor) readOldSnapshot(ctx context.Context) (old types.Snapshot, bootstrap, trusted bool) {
	data, err := m.store.Read(ctx, m.cfg.GistFile)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			m.logger.Infof("no stored snapshot yet, bootstrapping")
			return types.Snapshot{}, true, true
		}
		m.logger.Warnf("snapshot read failed, comparing against empty state: %v", err)
		return types.Snapshot{}, false, false
	}

	old, err = types.DecodeSnapshot(data, m.cfg.SingleItem)
	if err != nil {
		m.logger.Warnf("stored snapshot is unreadable, rewriting: %v", err)
		return types.Snapshot{}, true, true
	}
	return old, false, true
}

// dumpMarkup keeps the raw page around for offline inspection when
// extraction failed. Off unless DEBUG_DIR is set.
func (m *Monitor) dumpMarkup(markup string) {
	if m.cfg.DebugDir == "" {
		return
	}
	if err := os.MkdirAll(m.cfg.DebugDir, 0o755); err != nil {
		m.logger.Warnf("failed to create debug dir: %v", err)
		return
	}
	name := filepath.Join(m.cfg.DebugDir,
		fmt.Sprintf("markup-%s.html", m.now().UTC().Format("20060102-150405")))
	if err := os.WriteFile(name, []byte(markup), 0o644); err != nil {
		m.logger.Warnf("failed to dump markup: %v", err)
		return
	}
	m.logger.Infof("raw markup saved to %s", name)
}
