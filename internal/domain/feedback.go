package domain

import (
	"errors"
	"path"
	"sort"
	"strings"
	"time"
)

// MaxPageLength bounds the page paths accepted from feedback links.
const MaxPageLength = 512

var (
	ErrEmptyPage   = errors.New("empty page path")
	ErrPageTooLong = errors.New("page path too long")
)

// Feedback represents the feedback clicks recorded for one documentation page.
//
// A Feedback is uniquely identified by its Page.
type Feedback struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// Page is the normalized page path.
	// Example: /getting-started/installation
	Page string

	// ─────────────────────────────
	// Description
	// (overwritten on every click)
	// ─────────────────────────────

	// Title is the page title sent along with the last click.
	Title string

	// ─────────────────────────────
	// Counters & observation
	// ─────────────────────────────

	// Count is the number of feedback clicks.
	Count int64

	// FirstSeen is the time of the first click.
	FirstSeen time.Time

	// LastSeen is updated on every click and drives pruning.
	LastSeen time.Time
}

// NormalizePage turns a raw page path into its canonical form:
// rooted, slash-separated, cleaned, without trailing slash.
func NormalizePage(raw string) (string, error) {
	p := strings.TrimSpace(raw)
	p = strings.ReplaceAll(p, "\\", "/")
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "", ErrEmptyPage
	}

	p = path.Clean("/" + p)
	if len(p) > MaxPageLength {
		return "", ErrPageTooLong
	}
	return p, nil
}

// Stale reports whether the record was last seen before cutoff.
func (f *Feedback) Stale(cutoff time.Time) bool {
	return f.LastSeen.Before(cutoff)
}

// SortFeedback orders records by count (desc), then page (asc).
func SortFeedback(records []*Feedback) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Count != records[j].Count {
			return records[i].Count > records[j].Count
		}
		return records[i].Page < records[j].Page
	})
}
