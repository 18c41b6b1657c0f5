package slidecache

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// solidBackend renders instantly: a pixmap of the requested size with no
// content. The fake of choice when only cache behavior is under test.
type solidBackend struct{}

func (solidBackend) Render(doc Document, pageNb int, part PagePart, width, height int) (*Pixmap, error) {
	if n := doc.PageCount(); pageNb < 0 || pageNb >= n {
		return nil, &PageOutOfRangeError{PageNb: pageNb, PageCount: n}
	}
	return NewPixmap(width, height), nil
}

// countingBackend counts render calls.
type countingBackend struct {
	calls atomic.Int64
	inner Backend
}

func newCountingBackend() *countingBackend {
	return &countingBackend{inner: solidBackend{}}
}

func (b *countingBackend) Render(doc Document, pageNb int, part PagePart, width, height int) (*Pixmap, error) {
	b.calls.Add(1)
	return b.inner.Render(doc, pageNb, part, width, height)
}

// gatedBackend blocks each render until released, so tests can mutate slot
// or document state while a render is in flight. Open it to switch to
// pass-through behavior.
type gatedBackend struct {
	entered chan struct{} // one send per render start
	gate    chan struct{} // one receive unblocks one render
	open    atomic.Bool
	inner   Backend
}

func newGatedBackend() *gatedBackend {
	return &gatedBackend{
		entered: make(chan struct{}, 16),
		gate:    make(chan struct{}),
		inner:   solidBackend{},
	}
}

func (b *gatedBackend) Render(doc Document, pageNb int, part PagePart, width, height int) (*Pixmap, error) {
	if !b.open.Load() {
		b.entered <- struct{}{}
		<-b.gate
	}
	return b.inner.Render(doc, pageNb, part, width, height)
}

// failingBackend fails every render that is in range.
type failingBackend struct{}

func (failingBackend) Render(doc Document, pageNb int, part PagePart, width, height int) (*Pixmap, error) {
	if n := doc.PageCount(); pageNb < 0 || pageNb >= n {
		return nil, &PageOutOfRangeError{PageNb: pageNb, PageCount: n}
	}
	return nil, errors.New("renderer exploded")
}

// waitIdle blocks until no prerender jobs are queued or running.
func waitIdle(t *testing.T, c *SurfaceCache) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for c.PendingJobs() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("prerender jobs did not drain")
		}
		time.Sleep(time.Millisecond)
	}
}

// newTestCache builds a cache over a 20-page document with the given
// options applied after the test defaults.
func newTestCache(t *testing.T, opts ...Option) *SurfaceCache {
	t.Helper()
	all := append([]Option{WithBackend(solidBackend{}), WithWorkers(1)}, opts...)
	c, err := New(all...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	c.SetDocument(&SolidDocument{Pages: 20})
	return c
}
