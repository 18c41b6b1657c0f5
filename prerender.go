// Copyright 2026 The goslide Authors
// SPDX-License-Identifier: MIT

package slidecache

import (
	"errors"
	"sync"

	"github.com/goslide/slidecache/internal/renderpool"
)

// jobKey identifies one prerender job. At most one job per key is queued or
// running at any time.
type jobKey struct {
	slot   string
	pageNb int
}

// scheduler owns the prerender worker pool and the in-flight job set.
type scheduler struct {
	mu       sync.Mutex
	inflight map[jobKey]struct{}
	pool     *renderpool.Pool
}

func newScheduler(workers int) *scheduler {
	return &scheduler{
		inflight: make(map[jobKey]struct{}),
		pool:     renderpool.New(workers),
	}
}

// trySubmit queues a job unless one for the same key is already queued or
// running. Returns whether the job was accepted.
func (d *scheduler) trySubmit(key jobKey, run func()) bool {
	d.mu.Lock()
	if _, dup := d.inflight[key]; dup {
		d.mu.Unlock()
		return false
	}
	d.inflight[key] = struct{}{}
	d.mu.Unlock()

	ok := d.pool.Submit(func() {
		defer d.release(key)
		run()
	})
	if !ok {
		d.release(key)
	}
	return ok
}

func (d *scheduler) release(key jobKey) {
	d.mu.Lock()
	delete(d.inflight, key)
	d.mu.Unlock()
}

// pending returns the number of jobs queued or running.
func (d *scheduler) pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.inflight)
}

func (d *scheduler) close() {
	d.pool.Close()
}

// prerenderWindow returns the candidate pages around the current page, in
// submission order: ahead pages first (the reader's direction of travel),
// then a few behind, nearest first. The current page itself closes the
// backward window so a slot that missed it gets it warmed too.
func prerenderWindow(current, pageCount, ahead, behind int) []int {
	if pageCount <= 0 {
		return nil
	}

	pages := make([]int, 0, ahead+behind+1)

	hi := current + 1 + ahead
	if hi > pageCount {
		hi = pageCount
	}
	for p := current + 1; p < hi; p++ {
		if p >= 0 {
			pages = append(pages, p)
		}
	}

	lo := current - behind
	if lo < 0 {
		lo = 0
	}
	for p := current; p > lo; p-- {
		if p < pageCount {
			pages = append(pages, p)
		}
	}

	return pages
}

// PrerenderAround schedules background renders of the pages around the
// current page for every prerender-enabled slot. Call it after each
// committed navigation. It never blocks on rendering and duplicate requests
// for pages already cached or already in flight are no-ops.
func (c *SurfaceCache) PrerenderAround(current int) {
	if c.closed.Load() {
		return
	}

	doc, _ := c.currentDocument()
	pages := prerenderWindow(current, doc.PageCount(), c.ahead, c.behind)
	if len(pages) == 0 {
		return
	}

	for _, s := range c.slots.all() {
		if !s.prerenderEnabled() {
			continue
		}
		for _, p := range pages {
			s := s
			p := p
			c.sched.trySubmit(jobKey{slot: s.name, pageNb: p}, func() {
				c.runJob(s, p)
			})
		}
	}
}

// runJob renders one page for one slot on a pool worker and commits the
// result under the consistency guard. Every failure is swallowed: a
// background prerender must never disturb the presentation.
func (c *SurfaceCache) runJob(s *slot, pageNb int) {
	log := Logger()

	cached, width, height, part, epoch := s.renderPlan(pageNb)
	if cached {
		return
	}
	if width <= 0 || height <= 0 {
		// Widget not drawable yet; the post-allocation resize will trigger
		// a fresh sweep.
		return
	}

	doc, gen := c.currentDocument()
	if pageNb < 0 || pageNb >= doc.PageCount() {
		return
	}

	pix, err := c.backend.Render(doc, pageNb, part, width, height)
	if err != nil {
		var oor *PageOutOfRangeError
		if errors.As(err, &oor) {
			return
		}
		log.Warn("prerender failed",
			"slot", s.name, "page", pageNb, "err", err)
		return
	}
	c.rendered.Add(1)

	committed, evicted := s.putIfCurrent(pageNb, pix, epoch, &c.gen, gen, c.maxPages)
	c.evictions.Add(uint64(evicted))
	if !committed {
		c.discarded.Add(1)
		log.Debug("stale prerender discarded",
			"slot", s.name, "page", pageNb, "width", width, "height", height)
		return
	}

	log.Debug("prerendered",
		"slot", s.name, "page", pageNb, "width", width, "height", height, "part", part.String())
}

// PendingJobs returns the number of prerender jobs queued or running.
// Mainly useful for tests and the demo tooling to wait for quiescence.
func (c *SurfaceCache) PendingJobs() int {
	return c.sched.pending()
}
