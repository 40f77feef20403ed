package orchestrator

import (
	"sync"
	"time"

	"github.com/sentinel-health/sentinel-core/schema"
)

// eventBuffer bounds how far a slow subscriber may lag before events are
// dropped for it.
const eventBuffer = 64

// ProgressHub fans stage events out to per-case subscribers. Publishing to
// a case nobody subscribed to is a no-op; there is no backfill, a
// subscriber only sees events published after Subscribe returns.
type ProgressHub struct {
	mu   sync.RWMutex
	subs map[string]chan schema.StageEvent
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{
		subs: make(map[string]chan schema.StageEvent),
	}
}

// Subscribe registers interest in a case and returns its event channel.
// A second Subscribe for the same case replaces the first; the old channel
// is closed.
func (h *ProgressHub) Subscribe(caseID string) <-chan schema.StageEvent {
	ch := make(chan schema.StageEvent, eventBuffer)

	h.mu.Lock()
	if old, ok := h.subs[caseID]; ok {
		close(old)
	}
	h.subs[caseID] = ch
	h.mu.Unlock()

	return ch
}

// Unsubscribe closes and removes the case's channel. Safe to call for a
// case that was never subscribed.
func (h *ProgressHub) Unsubscribe(caseID string) {
	h.mu.Lock()
	if ch, ok := h.subs[caseID]; ok {
		close(ch)
		delete(h.subs, caseID)
	}
	h.mu.Unlock()
}

// Publish delivers an event to the case's subscriber if one exists. The
// send never blocks: a full buffer drops the event rather than stalling
// the workflow.
func (h *ProgressHub) Publish(caseID string, event schema.StageEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// the send happens under the read lock so Unsubscribe cannot close
	// the channel mid-send.
	h.mu.RLock()
	defer h.mu.RUnlock()

	ch, ok := h.subs[caseID]
	if !ok {
		return
	}

	select {
	case ch <- event:
	default:
	}
}
