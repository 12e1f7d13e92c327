// Package tracker keeps the set of live alerts and groups revisions of the
// same event into threads.
//
// An Update or Cancel joins the thread of the earlier message it matches (by
// incident or P-VTEC event). Both revisions are kept; a thread disappears
// once every alert in it has expired and been swept.
package tracker

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/cap-alert-etl/internal/domain"
	"github.com/couchcryptid/cap-alert-etl/internal/ugc"
)

// Thread is a snapshot of related alerts, oldest first.
type Thread struct {
	ID     string          `json:"id"`
	Alerts []*domain.Alert `json:"alerts"`
}

// Latest returns the most recently added alert of the thread.
func (t Thread) Latest() *domain.Alert {
	if len(t.Alerts) == 0 {
		return nil
	}
	return t.Alerts[len(t.Alerts)-1]
}

type thread struct {
	id     string
	alerts []*domain.Alert
}

// Tracker is safe for concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	byKey   map[string]string // alert key -> thread ID
	threads map[string]*thread
	order   []string // thread IDs in creation order

	clock  clockwork.Clock
	logger *slog.Logger
	newID  func() string
}

// New creates an empty Tracker. A nil clock uses real time.
func New(clock clockwork.Clock, logger *slog.Logger) *Tracker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Tracker{
		byKey:   make(map[string]string),
		threads: make(map[string]*thread),
		clock:   clock,
		logger:  logger,
		newID:   uuid.NewString,
	}
}

// Add tracks alert and returns its thread ID. isNew is false when an alert
// with the same sender, identifier and sent time is already tracked; the
// duplicate is ignored.
func (t *Tracker) Add(alert *domain.Alert) (threadID string, isNew bool) {
	key := alert.Key()

	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.byKey[key]; ok {
		return id, false
	}

	for _, id := range t.order {
		th := t.threads[id]
		for _, existing := range th.alerts {
			if domain.Match(alert, existing) {
				th.alerts = append(th.alerts, alert)
				t.byKey[key] = id
				t.logger.Debug("alert joined thread", "alert_id", alert.ID, "thread_id", id, "thread_size", len(th.alerts))
				return id, true
			}
		}
	}

	id := t.newID()
	t.threads[id] = &thread{id: id, alerts: []*domain.Alert{alert}}
	t.order = append(t.order, id)
	t.byKey[key] = id
	return id, true
}

// Sweep drops alerts expired at now and threads left empty. It returns the
// number of alerts removed.
func (t *Tracker) Sweep(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for _, id := range t.order {
		th := t.threads[id]
		th.alerts = slices.DeleteFunc(th.alerts, func(a *domain.Alert) bool {
			if !a.IsExpired(now) {
				return false
			}
			delete(t.byKey, a.Key())
			removed++
			return true
		})
		if len(th.alerts) == 0 {
			delete(t.threads, id)
		}
	}
	t.order = slices.DeleteFunc(t.order, func(id string) bool {
		_, ok := t.threads[id]
		return !ok
	})
	return removed
}

// Run sweeps expired alerts every interval until ctx is cancelled. onSweep,
// if not nil, is called after each sweep.
func (t *Tracker) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) error {
	ticker := t.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			removed := t.Sweep(t.clock.Now())
			if removed > 0 {
				alerts, threads := t.Len()
				t.logger.Info("swept expired alerts", "removed", removed, "alerts", alerts, "threads", threads)
			}
			if onSweep != nil {
				onSweep(removed)
			}
		}
	}
}

// Active returns a snapshot of every thread, oldest first.
func (t *Tracker) Active() []Thread {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Thread, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, snapshot(t.threads[id]))
	}
	return out
}

// Relevant returns the threads with at least one alert relevant to w.
func (t *Tracker) Relevant(w domain.Watch, m *ugc.Matcher) []Thread {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []Thread
	for _, id := range t.order {
		th := t.threads[id]
		for _, a := range th.alerts {
			if a.Relevant(w, m) {
				out = append(out, snapshot(th))
				break
			}
		}
	}
	return out
}

// Len returns the number of tracked alerts and threads.
func (t *Tracker) Len() (alerts, threads int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byKey), len(t.threads)
}

func snapshot(th *thread) Thread {
	return Thread{ID: th.id, Alerts: slices.Clone(th.alerts)}
}
