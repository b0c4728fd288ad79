// Package scrollspy tracks which section of a long page is in view.
package scrollspy

import (
	"errors"
	"fmt"
	"sort"
)

const (
	// DefaultLookahead is how far below the scroll position a section top
	// may sit and still count as active.
	DefaultLookahead = 300
	// HashOffset keeps a jumped-to section clear of the fixed navbar.
	HashOffset = 100
)

var (
	ErrEmptySectionID   = errors.New("section id is empty")
	ErrDuplicateSection = errors.New("duplicate section id")
	ErrUnorderedLayout  = errors.New("section offsets are not in document order")
	ErrUnknownSection   = errors.New("unknown section")
)

// Section is a page section and its top offset in document coordinates.
type Section struct {
	ID  string `json:"id"`
	Top int    `json:"top"`
}

// LookaheadForViewport returns a third of the viewport height, which is
// what the browser-side tracker uses.
func LookaheadForViewport(height int) int {
	if height <= 0 {
		return DefaultLookahead
	}
	return height / 3
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLookahead overrides DefaultLookahead. Negative values are ignored.
func WithLookahead(px int) Option {
	return func(t *Tracker) {
		if px >= 0 {
			t.lookahead = px
		}
	}
}

// WithObserver is called with the new active id whenever it changes. An
// empty id means there is no layout.
func WithObserver(fn func(active string)) Option {
	return func(t *Tracker) {
		t.observe = fn
	}
}

// Tracker is single-threaded; a session serializes calls into it.
type Tracker struct {
	lookahead int
	observe   func(string)

	sections []Section
	active   string
	lastY    int
	sampled  bool
}

func New(opts ...Option) *Tracker {
	t := &Tracker{lookahead: DefaultLookahead}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetLayout replaces the cached section offsets. Offsets are measured once
// per layout change so samples never touch the layout again. Before the
// first sample the first section is active; afterwards the active section
// is recomputed against the new layout.
func (t *Tracker) SetLayout(sections []Section) error {
	seen := make(map[string]struct{}, len(sections))
	for i, s := range sections {
		if s.ID == "" {
			return fmt.Errorf("%w: index %d", ErrEmptySectionID, i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateSection, s.ID)
		}
		seen[s.ID] = struct{}{}
		if i > 0 && s.Top < sections[i-1].Top {
			return fmt.Errorf("%w: %q at %d precedes %q at %d",
				ErrUnorderedLayout, s.ID, s.Top, sections[i-1].ID, sections[i-1].Top)
		}
	}

	t.sections = append(t.sections[:0:0], sections...)
	if t.sampled {
		t.setActive(t.locate(t.lastY))
	} else {
		t.setActive(t.fallback())
	}
	return nil
}

// SetLookahead changes the lookahead, typically to a third of a resized
// viewport, and recomputes the active section. Negative values are ignored.
func (t *Tracker) SetLookahead(px int) {
	if px < 0 {
		return
	}
	t.lookahead = px
	if t.sampled {
		t.setActive(t.locate(t.lastY))
	}
}

// Sample records a scroll position and returns the active section id: the
// last section whose top is at or above y plus the lookahead. Ties go to the
// later section. Above the first section the previous active id is kept.
func (t *Tracker) Sample(y int) string {
	t.lastY = y
	t.sampled = true
	t.setActive(t.locate(y))
	return t.active
}

// Active returns the id from the most recent sample.
func (t *Tracker) Active() string {
	return t.active
}

// Sections returns a copy of the cached layout.
func (t *Tracker) Sections() []Section {
	return append([]Section(nil), t.sections...)
}

// Invalidate drops the cached layout, e.g. after the page content changed.
// Nothing is active until a new layout arrives, which starts over at its
// first section.
func (t *Tracker) Invalidate() {
	t.sections = nil
	t.sampled = false
	t.setActive("")
}

// ScrollTarget is the scroll offset for a jump to section id.
func (t *Tracker) ScrollTarget(id string) (int, error) {
	for _, s := range t.sections {
		if s.ID == id {
			return max(s.Top-HashOffset, 0), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSection, id)
}

func (t *Tracker) locate(y int) string {
	edge := y + t.lookahead
	// first index whose top lies below the edge
	i := sort.Search(len(t.sections), func(i int) bool {
		return t.sections[i].Top > edge
	})
	if i == 0 {
		return t.fallback()
	}
	return t.sections[i-1].ID
}

// fallback is the current id while it still names a section, else the
// first section.
func (t *Tracker) fallback() string {
	if len(t.sections) == 0 {
		return ""
	}
	for _, s := range t.sections {
		if s.ID == t.active {
			return s.ID
		}
	}
	return t.sections[0].ID
}

func (t *Tracker) setActive(id string) {
	if id == t.active {
		return
	}
	t.active = id
	if t.observe != nil {
		t.observe(id)
	}
}
