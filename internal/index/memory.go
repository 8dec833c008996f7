package index

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexander-kolodka/crestic-docs/internal/domain"
	"github.com/alexander-kolodka/crestic-docs/internal/theme"
)

// MemoryIndex holds the current theme provider and the feedback counters.
// It acts as a fallback when Redis is unavailable
type MemoryIndex struct {
	provider   atomic.Pointer[theme.Provider]
	lastReload atomic.Int64 // unix nanos of the last provider swap

	mu       sync.RWMutex
	feedback map[string]*domain.Feedback // Page -> Feedback
}

// NewMemoryIndex creates a new memory index serving the given provider
func NewMemoryIndex(p *theme.Provider) *MemoryIndex {
	idx := &MemoryIndex{
		feedback: make(map[string]*domain.Feedback),
	}
	idx.provider.Store(p)
	return idx
}

// ─────────────────────────────────────────────────────────────────
// Theme provider
// ─────────────────────────────────────────────────────────────────

// Provider returns the provider currently serving the theme
func (idx *MemoryIndex) Provider() *theme.Provider {
	return idx.provider.Load()
}

// SetProvider swaps the current provider and returns the previous one
func (idx *MemoryIndex) SetProvider(p *theme.Provider) *theme.Provider {
	prev := idx.provider.Swap(p)
	idx.lastReload.Store(time.Now().UnixNano())
	return prev
}

// GetLastReload returns the timestamp of the last provider swap
func (idx *MemoryIndex) GetLastReload() time.Time {
	ns := idx.lastReload.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// ─────────────────────────────────────────────────────────────────
// Feedback methods
// ─────────────────────────────────────────────────────────────────

// RecordFeedback counts one click for page and returns a copy of the record
func (idx *MemoryIndex) RecordFeedback(page, title string, at time.Time) domain.Feedback {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	f, ok := idx.feedback[page]
	if !ok {
		f = &domain.Feedback{Page: page, FirstSeen: at}
		idx.feedback[page] = f
	}
	f.Count++
	if title != "" {
		f.Title = title
	}
	if at.After(f.LastSeen) {
		f.LastSeen = at
	}
	return *f
}

// UpdateFeedback replaces all feedback records in the index
func (idx *MemoryIndex) UpdateFeedback(records []*domain.Feedback) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	// Clear and rebuild
	idx.feedback = make(map[string]*domain.Feedback, len(records))
	for _, r := range records {
		cp := *r
		idx.feedback[r.Page] = &cp
	}
}

// GetFeedback returns a copy of the record for page
func (idx *MemoryIndex) GetFeedback(page string) (domain.Feedback, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	f, ok := idx.feedback[page]
	if !ok {
		return domain.Feedback{}, false
	}
	return *f, true
}

// GetAllFeedback returns copies of all records, sorted by count
func (idx *MemoryIndex) GetAllFeedback() []*domain.Feedback {
	idx.mu.RLock()
	records := make([]*domain.Feedback, 0, len(idx.feedback))
	for _, f := range idx.feedback {
		cp := *f
		records = append(records, &cp)
	}
	idx.mu.RUnlock()

	domain.SortFeedback(records)
	return records
}

// DeleteFeedback removes a record from the index
func (idx *MemoryIndex) DeleteFeedback(page string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.feedback, page)
}

// FeedbackCount returns the number of pages with feedback
func (idx *MemoryIndex) FeedbackCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.feedback)
}
