// Package reveal tracks which page sections have scrolled into view.
//
// A section starts hidden and is revealed the first time the browser reports
// it intersecting the viewport. Once revealed it stays revealed for the rest
// of that page view.
package reveal

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Section names a block of the page.
type Section string

const (
	Hero     Section = "hero"
	About    Section = "about"
	Skills   Section = "skills"
	Projects Section = "projects"
	Contact  Section = "contact"
	Profile  Section = "profile"
)

// Sections lists every section in page order.
var Sections = []Section{Hero, About, Skills, Projects, Contact, Profile}

// ParseSection validates a section name from a URL.
func ParseSection(name string) (Section, error) {
	for _, s := range Sections {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", name)
}

// Latch is a one-way flag. The zero value is hidden.
type Latch struct {
	visible atomic.Bool
}

// Trip marks the latch visible and reports whether this call flipped it.
func (l *Latch) Trip() bool {
	return l.visible.CompareAndSwap(false, true)
}

// Visible reports whether the latch has been tripped.
func (l *Latch) Visible() bool {
	return l.visible.Load()
}

// Tracker records reveals per page view.
type Tracker interface {
	// MarkRevealed trips the latch for section in view and reports whether
	// this was the first reveal.
	MarkRevealed(ctx context.Context, viewID string, section Section) (first bool, err error)
}

// MemoryTracker keeps latches for the most recent views in memory. When the
// capacity is exceeded the oldest view is forgotten. An optional next tracker
// is consulted on first reveals only, so durable storage sees each latch once.
type MemoryTracker struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	views    map[string]*list.Element
	next     Tracker
}

type viewLatches struct {
	id      string
	latches map[Section]*Latch
}

// NewMemoryTracker builds a tracker that remembers up to capacity views.
func NewMemoryTracker(capacity int, next Tracker) *MemoryTracker {
	if capacity <= 0 {
		capacity = 1
	}
	return &MemoryTracker{
		capacity: capacity,
		order:    list.New(),
		views:    make(map[string]*list.Element),
		next:     next,
	}
}

// MarkRevealed implements Tracker.
func (m *MemoryTracker) MarkRevealed(ctx context.Context, viewID string, section Section) (bool, error) {
	if viewID == "" {
		return false, fmt.Errorf("view id is required")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	latch := m.latch(viewID, section)
	if !latch.Trip() {
		return false, nil
	}
	if m.next == nil {
		return true, nil
	}
	first, err := m.next.MarkRevealed(ctx, viewID, section)
	if err != nil {
		// Unrecorded reveals must be retried by the next call.
		m.forget(viewID, section, latch)
		return false, err
	}
	return first, nil
}

// Visible reports whether section has been revealed in view.
func (m *MemoryTracker) Visible(viewID string, section Section) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	el, ok := m.views[viewID]
	if !ok {
		return false
	}
	l, ok := el.Value.(*viewLatches).latches[section]
	return ok && l.Visible()
}

// Len reports how many views are remembered.
func (m *MemoryTracker) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *MemoryTracker) latch(viewID string, section Section) *Latch {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.views[viewID]
	if ok {
		m.order.MoveToFront(el)
	} else {
		el = m.order.PushFront(&viewLatches{id: viewID, latches: make(map[Section]*Latch)})
		m.views[viewID] = el
		for m.order.Len() > m.capacity {
			oldest := m.order.Back()
			m.order.Remove(oldest)
			delete(m.views, oldest.Value.(*viewLatches).id)
		}
	}

	v := el.Value.(*viewLatches)
	l, ok := v.latches[section]
	if !ok {
		l = &Latch{}
		v.latches[section] = l
	}
	return l
}

func (m *MemoryTracker) forget(viewID string, section Section, l *Latch) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.views[viewID]
	if !ok {
		return
	}
	v := el.Value.(*viewLatches)
	if v.latches[section] == l {
		delete(v.latches, section)
	}
}
