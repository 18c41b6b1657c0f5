// Copyright 2026 The goslide Authors
// SPDX-License-Identifier: MIT

package slidecache

import "sync/atomic"

// Page store operations on a slot. All run in O(1) plus eviction work and
// never render; the paint path can call them from a draw handler without
// missing a frame.

// get returns the cached pixmap for a page and marks it most recently used.
func (s *slot) get(pageNb int) (*Pixmap, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[pageNb]
	if !ok {
		return nil, false
	}
	s.order.Touch(entry.node)
	return entry.pix, true
}

// contains reports whether a page is cached without touching recency.
func (s *slot) contains(pageNb int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[pageNb]
	return ok
}

// put inserts a pixmap, overwriting any entry for the same page, marks it
// most recently used, then evicts least-recently-used entries while the
// slot holds more than maxPages. Returns the number of evictions.
func (s *slot) put(pageNb int, pix *Pixmap, maxPages int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putLocked(pageNb, pix, maxPages)
}

// putIfCurrent is the guarded commit used by every render path. The insert
// happens only if the slot's epoch and the cache-wide invalidation
// generation still match the snapshot taken before rendering, and only if
// no other render satisfied the page in the meantime. A false return means
// the result was stale and dropped; whoever still wants the page will ask
// again at the current configuration.
func (s *slot) putIfCurrent(pageNb int, pix *Pixmap, epoch uint64, gen *atomic.Uint64, wantGen uint64, maxPages int) (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The generation read must happen under s.mu: an invalidation bumps the
	// generation first and then clears each slot under its lock, so either
	// we observe the bump here, or our insert lands before the clear and is
	// wiped by it.
	if s.epoch != epoch || gen.Load() != wantGen {
		return false, 0
	}
	if _, ok := s.entries[pageNb]; ok {
		return false, 0
	}
	return true, s.putLocked(pageNb, pix, maxPages)
}

func (s *slot) putLocked(pageNb int, pix *Pixmap, maxPages int) int {
	if existing, ok := s.entries[pageNb]; ok {
		existing.pix = pix
		s.order.Touch(existing.node)
		return 0
	}

	evicted := 0
	for s.order.Len() >= maxPages {
		oldest, ok := s.order.PopBack()
		if !ok {
			break
		}
		delete(s.entries, oldest)
		evicted++
	}

	node := s.order.PushFront(pageNb)
	s.entries[pageNb] = &pageEntry{pix: pix, node: node}
	return evicted
}

// clear drops every entry for the slot.
func (s *slot) clear() {
	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()
}

func (s *slot) clearLocked() {
	s.entries = make(map[int]*pageEntry)
	s.order.Clear()
}

// len returns the number of cached pages.
func (s *slot) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// pages returns cached page numbers from most to least recently used.
func (s *slot) pages() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Keys()
}

// Stats is a snapshot of cache activity counters.
type Stats struct {
	// Slots is the number of registered slots.
	Slots int

	// Entries is the total number of cached pages across all slots.
	Entries int

	// MaxPages is the per-slot entry bound.
	MaxPages int

	// Hits and Misses count Get and GetOrRender lookups.
	Hits   uint64
	Misses uint64

	// HitRate is Hits / (Hits + Misses), 0 if no lookups yet.
	HitRate float64

	// Rendered counts completed backend renders (paint path and prerender).
	Rendered uint64

	// Discarded counts renders dropped at commit time because the slot or
	// document changed mid-flight.
	Discarded uint64

	// Evictions counts entries dropped by LRU pressure.
	Evictions uint64
}
