package client

import (
	"strings"
	"sync"

	"github.com/hyunsol/techtalk/internal/models"
)

// Slot is a single-value handoff between two screens: one side writes,
// the other reads exactly once. Take empties the slot so a stale value
// can never leak into a later visit.
type Slot[T any] struct {
	mu sync.Mutex
	v  *T
}

// Put stores a value, replacing any previous one.
func (s *Slot[T]) Put(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v = &v
}

// Take returns the stored value and clears the slot.
func (s *Slot[T]) Take() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.v == nil {
		var zero T
		return zero, false
	}
	v := *s.v
	s.v = nil
	return v, true
}

// Clear drops any stored value without reading it.
func (s *Slot[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v = nil
}

// Drafts holds the handoff slots between screens: a post being carried
// into the write form for editing, and an AI analysis carried into the
// write form as a prefill.
type Drafts struct {
	Edit     Slot[models.Post]
	Analysis Slot[models.URLAnalysis]
}

// ComposeDraft turns a URL analysis into write-form prefill values.
// The summary lines are joined with newlines and the source link is
// appended after a blank line.
func ComposeDraft(a models.URLAnalysis) PostDraft {
	d := PostDraft{
		Title: a.Title,
		Tags:  append([]string(nil), a.Tags...),
		URL:   a.URL,
	}
	var b strings.Builder
	b.WriteString(strings.Join(a.Summary, "\n"))
	if a.URL != "" {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("원문: " + a.URL)
	}
	d.Content = b.String()
	return d
}
