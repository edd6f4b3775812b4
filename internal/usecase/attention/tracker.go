package attention

import (
	"sync"
	"time"

	"github.com/ai-interviewer-team/ai-interviewer/internal/domain/entities"
)

// Tracker computes attention-state ratios over a sliding time window.
// The buffer is per-process mutable state, so every operation takes the
// mutex; eviction runs lazily on each record/read rather than on a timer.
type Tracker struct {
	mu     sync.Mutex
	window time.Duration
	events []entities.AttentionEvent
	now    func() time.Time
}

// NewTracker creates a tracker with the given window
func NewTracker(window time.Duration) *Tracker {
	return &Tracker{
		window: window,
		now:    time.Now,
	}
}

// NewTrackerWithClock creates a tracker with an injected clock
func NewTrackerWithClock(window time.Duration, now func() time.Time) *Tracker {
	return &Tracker{
		window: window,
		now:    now,
	}
}

// Record appends an event and evicts everything older than the window
func (t *Tracker) Record(state string, timestamp ...time.Time) {
	ts := t.now()
	if len(timestamp) > 0 {
		ts = timestamp[0]
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, entities.AttentionEvent{Timestamp: ts, State: state})
	t.trim()
}

// RatioOf returns the fraction of in-window events with the given state.
// An empty window yields 0.0, not an error.
func (t *Tracker) RatioOf(state string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trim()

	if len(t.events) == 0 {
		return 0.0
	}
	matches := 0
	for _, event := range t.events {
		if event.State == state {
			matches++
		}
	}
	return float64(matches) / float64(len(t.events))
}

// Summary returns the ratios for the two canonical states
func (t *Tracker) Summary() entities.AttentionSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trim()

	total := len(t.events)
	if total == 0 {
		return entities.AttentionSummary{}
	}

	focused := 0
	distracted := 0
	for _, event := range t.events {
		switch event.State {
		case entities.AttentionStateFocused:
			focused++
		case entities.AttentionStateDistracted:
			distracted++
		}
	}
	return entities.AttentionSummary{
		FocusedRatio:    float64(focused) / float64(total),
		DistractedRatio: float64(distracted) / float64(total),
	}
}

// trim evicts events older than the window. Caller must hold the mutex.
func (t *Tracker) trim() {
	cutoff := t.now().Add(-t.window)
	idx := 0
	for idx < len(t.events) && t.events[idx].Timestamp.Before(cutoff) {
		idx++
	}
	if idx > 0 {
		t.events = t.events[idx:]
	}
}
