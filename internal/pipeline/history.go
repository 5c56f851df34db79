package pipeline

import (
	"sync"

	"github.com/couchcryptid/seaice-etl/internal/domain"
)

// History keeps the summaries of the most recently decoded record sets.
type History struct {
	mu    sync.Mutex
	max   int
	items []domain.RecordSetSummary
}

// NewHistory creates a history holding at most size summaries.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{max: size, items: make([]domain.RecordSetSummary, 0, size)}
}

// Add records a summary, dropping the oldest when full.
func (h *History) Add(s domain.RecordSetSummary) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.items) == h.max {
		copy(h.items, h.items[1:])
		h.items = h.items[:len(h.items)-1]
	}
	h.items = append(h.items, s)
}

// Recent returns the stored summaries, newest first.
func (h *History) Recent() []domain.RecordSetSummary {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]domain.RecordSetSummary, len(h.items))
	for i, s := range h.items {
		out[len(h.items)-1-i] = s
	}
	return out
}
