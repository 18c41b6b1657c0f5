// Copyright 2026 The goslide Authors
// SPDX-License-Identifier: MIT

package slidecache

import (
	"errors"
	"image/color"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// SurfaceCache is the shared page cache of a presentation viewer.
//
// One instance is owned by the top-level controller and handed to every
// widget that displays pages. Widgets register themselves as named slots;
// the paint path calls GetOrRender, navigation calls PrerenderAround, and
// resize handlers call Resize.
//
// SurfaceCache is safe for concurrent use. Per-slot locking keeps a slow
// render on one slot from blocking another slot's lookups, and no lock is
// ever held across a backend render call.
type SurfaceCache struct {
	slots   *slotTable
	backend Backend // wrapped in serialBackend
	sched   *scheduler

	maxPages int
	ahead    int
	behind   int

	// docMu guards doc; gen is bumped under docMu on swap so readers of
	// (doc, gen) get a consistent pair.
	docMu sync.RWMutex
	doc   Document

	// gen is the cache-wide invalidation generation. Bumped on document
	// swap and on ClearAll; render commits verify it so a bitmap of the old
	// document never lands in the cache of the new one.
	gen atomic.Uint64

	// paint collapses concurrent paint-path renders of the same
	// (slot, page) into a single backend call.
	paint singleflight.Group

	closed atomic.Bool

	hits      atomic.Uint64
	misses    atomic.Uint64
	rendered  atomic.Uint64
	discarded atomic.Uint64
	evictions atomic.Uint64
}

// New creates a SurfaceCache. Without options it uses the highest-priority
// available render backend, a 200-page-per-slot bound, a 4-ahead/2-behind
// prerender window, and two prerender workers.
//
// The cache starts with an EmptyDocument; call SetDocument once a document
// is open.
func New(opts ...Option) (*SurfaceCache, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	backend := cfg.backend
	if backend == nil {
		var err error
		if cfg.backendName != "" {
			backend, err = NewBackend(cfg.backendName)
		} else {
			backend, err = NewBestBackend()
		}
		if err != nil {
			return nil, err
		}
	}
	propagateLogger(backend)

	c := &SurfaceCache{
		slots:    newSlotTable(),
		backend:  &serialBackend{b: backend},
		sched:    newScheduler(cfg.workers),
		maxPages: cfg.maxPages,
		ahead:    cfg.ahead,
		behind:   cfg.behind,
		doc:      EmptyDocument{},
	}

	Logger().Info("surface cache ready",
		"max_pages", cfg.maxPages, "workers", cfg.workers,
		"window_ahead", cfg.ahead, "window_behind", cfg.behind)
	return c, nil
}

// Close stops the prerender workers, running any already-queued jobs to
// completion. After Close, mutating operations return ErrClosed and lookups
// miss.
func (c *SurfaceCache) Close() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	c.sched.close()
}

func (c *SurfaceCache) checkOpen() error {
	if c.closed.Load() {
		return ErrClosed
	}
	return nil
}

// SetDocument swaps the current document and drops every cached page:
// content at the same page number is different in the new document.
// Pass nil to close the document (reverts to an EmptyDocument).
func (c *SurfaceCache) SetDocument(doc Document) {
	if doc == nil {
		doc = EmptyDocument{}
	}

	c.docMu.Lock()
	c.doc = doc
	c.gen.Add(1)
	c.docMu.Unlock()

	for _, s := range c.slots.all() {
		s.clear()
	}

	Logger().Info("document swapped", "doc", doc.Label(), "pages", doc.PageCount())
}

// Document returns the current document.
func (c *SurfaceCache) Document() Document {
	doc, _ := c.currentDocument()
	return doc
}

// currentDocument returns the document together with the invalidation
// generation it was read under.
func (c *SurfaceCache) currentDocument() (Document, uint64) {
	c.docMu.RLock()
	defer c.docMu.RUnlock()
	return c.doc, c.gen.Load()
}

// RegisterSlot adds a named display slot. Each widget that shows pages
// registers exactly once, at construction, before its first paint.
// Re-registering with the same page part is a no-op; with a different part
// it returns a DuplicateSlotError.
//
// The slot starts at unset size and is not prerendered into until the
// first Resize with positive dimensions.
func (c *SurfaceCache) RegisterSlot(name string, part PagePart, prerender bool) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	return c.slots.register(name, part, prerender)
}

// Resize updates a slot's pixel size, reporting whether it changed. On
// change, all of the slot's cached pages are dropped. Non-positive
// dimensions mark the slot "not yet drawable" and suspend prerendering
// into it.
func (c *SurfaceCache) Resize(name string, width, height int) (bool, error) {
	if err := c.checkOpen(); err != nil {
		return false, err
	}
	s := c.slots.lookup(name)
	if s == nil {
		return false, &SlotNotRegisteredError{Name: name}
	}
	changed := s.resize(width, height)
	if changed {
		Logger().Debug("slot resized", "slot", name, "width", width, "height", height)
	}
	return changed, nil
}

// SetPagePart switches which page region a slot displays (e.g. toggling
// notes mode), reporting whether it changed. On change, all of the slot's
// cached pages are dropped.
func (c *SurfaceCache) SetPagePart(name string, part PagePart) (bool, error) {
	if err := c.checkOpen(); err != nil {
		return false, err
	}
	s := c.slots.lookup(name)
	if s == nil {
		return false, &SlotNotRegisteredError{Name: name}
	}
	changed := s.setPart(part)
	if changed {
		Logger().Debug("slot page part changed", "slot", name, "part", part.String())
	}
	return changed, nil
}

// SlotPagePart returns the page part a slot currently displays.
func (c *SurfaceCache) SlotPagePart(name string) (PagePart, error) {
	s := c.slots.lookup(name)
	if s == nil {
		return PartFull, &SlotNotRegisteredError{Name: name}
	}
	return s.pagePart(), nil
}

// EnablePrerender includes a slot in prerender sweeps.
func (c *SurfaceCache) EnablePrerender(name string) error {
	return c.setPrerender(name, true)
}

// DisablePrerender excludes a slot from prerender sweeps; used when its
// widget is hidden. Cached pages are kept and the paint path still works.
func (c *SurfaceCache) DisablePrerender(name string) error {
	return c.setPrerender(name, false)
}

func (c *SurfaceCache) setPrerender(name string, on bool) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	s := c.slots.lookup(name)
	if s == nil {
		return &SlotNotRegisteredError{Name: name}
	}
	s.setPrerender(on)
	return nil
}

// Get returns the cached pixmap for a page, or nil on a miss. It never
// renders. An unregistered slot is treated as a miss.
func (c *SurfaceCache) Get(name string, pageNb int) *Pixmap {
	s := c.slots.lookup(name)
	if s == nil {
		Logger().Debug("lookup on unregistered slot", "slot", name)
		return nil
	}
	pix, ok := s.get(pageNb)
	if !ok {
		c.misses.Add(1)
		return nil
	}
	c.hits.Add(1)
	return pix
}

// GetOrRender is the synchronous paint path. On a cache hit it returns
// immediately; on a miss it renders exactly the requested page inline at
// the slot's current size and part, stores it, and returns it. It never
// prerenders neighbors.
//
// It returns nil when there is nothing to paint (unregistered slot, page
// out of range, slot not drawable yet); callers paint a blank. A backend
// failure degrades to a blank pixmap at the slot's size rather than
// propagating into the paint handler.
func (c *SurfaceCache) GetOrRender(name string, pageNb int) *Pixmap {
	s := c.slots.lookup(name)
	if s == nil {
		Logger().Warn("paint for unregistered slot", "slot", name)
		return nil
	}

	if pix, ok := s.get(pageNb); ok {
		c.hits.Add(1)
		return pix
	}
	c.misses.Add(1)

	// Collapse concurrent paints of the same page into one render.
	v, _, _ := c.paint.Do(paintKey(name, pageNb), func() (any, error) {
		return c.renderInline(s, pageNb), nil
	})
	pix, _ := v.(*Pixmap)
	return pix
}

func paintKey(name string, pageNb int) string {
	return name + "\x00" + strconv.Itoa(pageNb)
}

// renderInline renders one page synchronously for the paint path.
func (c *SurfaceCache) renderInline(s *slot, pageNb int) *Pixmap {
	log := Logger()

	// A prerender job or an earlier singleflight waiter may have landed the
	// page while we queued.
	cached, width, height, part, epoch := s.renderPlan(pageNb)
	if cached {
		if pix, ok := s.get(pageNb); ok {
			return pix
		}
	}
	if width <= 0 || height <= 0 {
		log.Debug("paint before slot allocation", "slot", s.name, "page", pageNb)
		return nil
	}

	doc, gen := c.currentDocument()
	if pageNb < 0 || pageNb >= doc.PageCount() {
		log.Debug("paint out of range",
			"slot", s.name, "page", pageNb, "pages", doc.PageCount())
		return nil
	}

	pix, err := c.backend.Render(doc, pageNb, part, width, height)
	if err != nil {
		var oor *PageOutOfRangeError
		if errors.As(err, &oor) {
			return nil
		}
		log.Warn("paint render failed, degrading to blank",
			"slot", s.name, "page", pageNb, "err", err)
		blank := NewPixmap(width, height)
		blank.Fill(color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
		return blank
	}
	c.rendered.Add(1)

	committed, evicted := s.putIfCurrent(pageNb, pix, epoch, &c.gen, gen, c.maxPages)
	c.evictions.Add(uint64(evicted))
	if !committed {
		// The slot or document moved mid-render. The result is still what
		// this paint asked for, so return it for the current frame; it just
		// must not land in the cache under the new configuration.
		c.discarded.Add(1)
	}
	return pix
}

// ClearSlot drops every cached page for one slot.
func (c *SurfaceCache) ClearSlot(name string) error {
	s := c.slots.lookup(name)
	if s == nil {
		return &SlotNotRegisteredError{Name: name}
	}
	s.clear()
	return nil
}

// ClearAll drops every cached page for every slot and invalidates in-flight
// renders. SetDocument calls this implicitly.
func (c *SurfaceCache) ClearAll() {
	c.docMu.Lock()
	c.gen.Add(1)
	c.docMu.Unlock()

	for _, s := range c.slots.all() {
		s.clear()
	}
}

// SlotLen returns the number of cached pages for a slot, 0 if unknown.
func (c *SurfaceCache) SlotLen(name string) int {
	s := c.slots.lookup(name)
	if s == nil {
		return 0
	}
	return s.len()
}

// SlotPages returns a slot's cached page numbers from most to least
// recently used. Diagnostic surface, also handy in tests.
func (c *SurfaceCache) SlotPages(name string) []int {
	s := c.slots.lookup(name)
	if s == nil {
		return nil
	}
	return s.pages()
}

// Stats returns a snapshot of cache activity counters.
func (c *SurfaceCache) Stats() Stats {
	slots := c.slots.all()
	entries := 0
	for _, s := range slots {
		entries += s.len()
	}

	hits := c.hits.Load()
	misses := c.misses.Load()
	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Slots:     len(slots),
		Entries:   entries,
		MaxPages:  c.maxPages,
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate,
		Rendered:  c.rendered.Load(),
		Discarded: c.discarded.Load(),
		Evictions: c.evictions.Load(),
	}
}
