// Copyright 2026 The goslide Authors
// SPDX-License-Identifier: MIT

package slidecache

import (
	"sort"
	"sync"

	"github.com/goslide/slidecache/internal/lru"
)

// unsetDim is the sentinel for a slot whose widget has not been allocated
// screen space yet. A slot at unset size is never rendered into.
const unsetDim = -1

// slot is one registered consumer of rendered pages: a widget showing the
// current slide, a preview, a deck tile.
//
// A single mutex guards both the slot's configuration (size, page part) and
// its page store. That pairing is the point: an entry can only be inserted
// or read under the same lock that a resize takes to invalidate, so the
// invariant "every cached pixmap matches the slot's current size" holds at
// every lock boundary.
type slot struct {
	name string

	mu        sync.Mutex
	part      PagePart
	width     int
	height    int
	prerender bool

	// epoch counts configuration changes (resize, page-part switch).
	// Render jobs snapshot it before rendering and commit only if it is
	// unchanged, which catches A->B->A size flips that a plain size
	// comparison would wrongly admit.
	epoch uint64

	entries map[int]*pageEntry
	order   *lru.List[int]
}

// pageEntry holds a cached pixmap with its recency-list node.
type pageEntry struct {
	pix  *Pixmap
	node *lru.Node[int]
}

func newSlot(name string, part PagePart, prerender bool) *slot {
	return &slot{
		name:      name,
		part:      part,
		width:     unsetDim,
		height:    unsetDim,
		prerender: prerender,
		entries:   make(map[int]*pageEntry),
		order:     lru.New[int](),
	}
}

// resize updates the slot's pixel size, reporting whether it changed.
// On change all cached entries are dropped: they were rendered for the old
// size. A non-positive dimension means "not yet drawable" and is stored as
// the unset sentinel.
func (s *slot) resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		width, height = unsetDim, unsetDim
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if width == s.width && height == s.height {
		return false
	}
	s.width = width
	s.height = height
	s.epoch++
	s.clearLocked()
	return true
}

// setPart updates the slot's page part, reporting whether it changed.
// On change all cached entries are dropped: the same page number now
// produces different pixels.
func (s *slot) setPart(part PagePart) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if part == s.part {
		return false
	}
	s.part = part
	s.epoch++
	s.clearLocked()
	return true
}

// setPrerender toggles inclusion in prerender sweeps. Cached entries stay:
// a hidden deck tile keeps its pages and simply stops being warmed up.
func (s *slot) setPrerender(on bool) {
	s.mu.Lock()
	s.prerender = on
	s.mu.Unlock()
}

func (s *slot) prerenderEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prerender
}

func (s *slot) pagePart() PagePart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.part
}

func (s *slot) size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// renderPlan snapshots everything a render job needs in one critical
// section: whether the page is already cached, the current size and part,
// and the epoch to verify at commit time.
func (s *slot) renderPlan(pageNb int) (cached bool, width, height int, part PagePart, epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, cached = s.entries[pageNb]
	return cached, s.width, s.height, s.part, s.epoch
}

// slotTable tracks all registered slots. Slots are created at window
// construction and live until shutdown, so the table is read-mostly.
type slotTable struct {
	mu    sync.RWMutex
	slots map[string]*slot
}

func newSlotTable() *slotTable {
	return &slotTable{slots: make(map[string]*slot)}
}

// register creates a slot. Registering the same name again with the same
// page part is a no-op; with a different part it returns DuplicateSlotError
// rather than silently resetting the slot out from under its first owner.
func (t *slotTable) register(name string, part PagePart, prerender bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.slots[name]; ok {
		if existing.pagePart() == part {
			return nil
		}
		return &DuplicateSlotError{Name: name, Existing: existing.pagePart(), Requested: part}
	}
	t.slots[name] = newSlot(name, part, prerender)
	return nil
}

// lookup returns the named slot, or nil if it was never registered.
func (t *slotTable) lookup(name string) *slot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.slots[name]
}

// all returns every slot, sorted by name for deterministic sweep order.
func (t *slotTable) all() []*slot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*slot, 0, len(t.slots))
	for _, s := range t.slots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
