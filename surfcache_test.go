package slidecache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelectsBackend(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	c.Close()

	_, err = New(WithBackendName("no-such-renderer"))
	var notFound *BackendNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestGetOrRenderCachesResult(t *testing.T) {
	backend := newCountingBackend()
	c := newTestCache(t, WithBackend(backend))

	require.NoError(t, c.RegisterSlot("audience", PartFull, false))
	_, err := c.Resize("audience", 320, 240)
	require.NoError(t, err)

	first := c.GetOrRender("audience", 3)
	require.NotNil(t, first)
	assert.Equal(t, 320, first.Width())
	assert.Equal(t, 240, first.Height())

	second := c.GetOrRender("audience", 3)
	assert.Same(t, first, second, "second paint must be a cache hit")
	assert.EqualValues(t, 1, backend.calls.Load())

	stats := c.Stats()
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
}

func TestResizeInvalidation(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.RegisterSlot("audience", PartFull, false))
	_, err := c.Resize("audience", 100, 100)
	require.NoError(t, err)

	require.NotNil(t, c.GetOrRender("audience", 5))
	require.NotNil(t, c.Get("audience", 5))

	changed, err := c.Resize("audience", 200, 150)
	require.NoError(t, err)
	require.True(t, changed)

	assert.Nil(t, c.Get("audience", 5), "resize must invalidate cached pages")

	pix := c.GetOrRender("audience", 5)
	require.NotNil(t, pix)
	assert.Equal(t, 200, pix.Width())
	assert.Equal(t, 150, pix.Height())
}

func TestPagePartSwitchInvalidation(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.RegisterSlot("presenter", PartContent, false))
	_, err := c.Resize("presenter", 100, 100)
	require.NoError(t, err)

	require.NotNil(t, c.GetOrRender("presenter", 2))

	changed, err := c.SetPagePart("presenter", PartNotes)
	require.NoError(t, err)
	require.True(t, changed)
	assert.Nil(t, c.Get("presenter", 2))

	part, err := c.SlotPagePart("presenter")
	require.NoError(t, err)
	assert.Equal(t, PartNotes, part)
}

func TestDocumentSwapInvalidation(t *testing.T) {
	c := newTestCache(t)

	for _, name := range []string{"audience", "presenter.current", "presenter.next"} {
		require.NoError(t, c.RegisterSlot(name, PartFull, false))
		_, err := c.Resize(name, 100, 100)
		require.NoError(t, err)
		for page := 0; page < 4; page++ {
			require.NotNil(t, c.GetOrRender(name, page))
		}
	}

	c.SetDocument(&SolidDocument{Pages: 8, Name: "other"})

	for _, name := range []string{"audience", "presenter.current", "presenter.next"} {
		for page := 0; page < 4; page++ {
			assert.Nil(t, c.Get(name, page), "slot %s page %d must be gone after swap", name, page)
		}
	}
	assert.Equal(t, 8, c.Document().PageCount())
}

func TestOutOfRangeIsSafe(t *testing.T) {
	c := newTestCache(t) // 20 pages

	require.NoError(t, c.RegisterSlot("audience", PartFull, false))
	_, err := c.Resize("audience", 100, 100)
	require.NoError(t, err)

	assert.Nil(t, c.GetOrRender("audience", 20), "one past the end")
	assert.Nil(t, c.GetOrRender("audience", -1))
	assert.Zero(t, c.SlotLen("audience"))
}

func TestUnregisteredSlot(t *testing.T) {
	c := newTestCache(t)

	assert.Nil(t, c.Get("ghost", 0))
	assert.Nil(t, c.GetOrRender("ghost", 0))

	var notRegistered *SlotNotRegisteredError
	_, err := c.Resize("ghost", 100, 100)
	assert.ErrorAs(t, err, &notRegistered)
	_, err = c.SetPagePart("ghost", PartNotes)
	assert.ErrorAs(t, err, &notRegistered)
	assert.ErrorAs(t, c.EnablePrerender("ghost"), &notRegistered)
	assert.ErrorAs(t, c.ClearSlot("ghost"), &notRegistered)
}

func TestBackendFailureDegradesToBlank(t *testing.T) {
	c := newTestCache(t, WithBackend(failingBackend{}))

	require.NoError(t, c.RegisterSlot("audience", PartFull, false))
	_, err := c.Resize("audience", 64, 48)
	require.NoError(t, err)

	pix := c.GetOrRender("audience", 3)
	require.NotNil(t, pix, "paint path must degrade, not fail")
	assert.Equal(t, 64, pix.Width())
	assert.Equal(t, 48, pix.Height())

	// A failed render is not cached; the next paint retries.
	assert.Nil(t, c.Get("audience", 3))
}

func TestPaintBeforeAllocation(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.RegisterSlot("audience", PartFull, false))

	assert.Nil(t, c.GetOrRender("audience", 0), "slot without a size has nothing to render into")
}

func TestConcurrentPaintsCollapse(t *testing.T) {
	gated := newGatedBackend()
	backend := &countingBackend{inner: gated}
	c := newTestCache(t, WithBackend(backend))

	require.NoError(t, c.RegisterSlot("audience", PartFull, false))
	_, err := c.Resize("audience", 100, 100)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Pixmap, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0] = c.GetOrRender("audience", 9)
	}()
	<-gated.entered // first paint is inside the backend

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1] = c.GetOrRender("audience", 9)
	}()
	time.Sleep(50 * time.Millisecond) // let the second paint join the flight

	gated.gate <- struct{}{}
	wg.Wait()

	require.NotNil(t, results[0])
	require.NotNil(t, results[1])
	assert.EqualValues(t, 1, backend.calls.Load(), "concurrent paints of one page must share one render")
}

func TestLRUThroughFacade(t *testing.T) {
	c := newTestCache(t, WithMaxPages(3))

	require.NoError(t, c.RegisterSlot("audience", PartFull, false))
	_, err := c.Resize("audience", 50, 50)
	require.NoError(t, err)

	for _, page := range []int{1, 2, 3, 4} {
		require.NotNil(t, c.GetOrRender("audience", page))
	}

	assert.Equal(t, []int{4, 3, 2}, c.SlotPages("audience"))
	assert.EqualValues(t, 1, c.Stats().Evictions)
}

func TestMaxPagesOneThroughFacade(t *testing.T) {
	c := newTestCache(t, WithMaxPages(1))

	require.NoError(t, c.RegisterSlot("audience", PartFull, false))
	_, err := c.Resize("audience", 50, 50)
	require.NoError(t, err)

	for page := 0; page < 6; page++ {
		require.NotNil(t, c.GetOrRender("audience", page))
		assert.Equal(t, 1, c.SlotLen("audience"))
	}
}

func TestClearSlotLeavesOthers(t *testing.T) {
	c := newTestCache(t)

	for _, name := range []string{"a", "b"} {
		require.NoError(t, c.RegisterSlot(name, PartFull, false))
		_, err := c.Resize(name, 50, 50)
		require.NoError(t, err)
		require.NotNil(t, c.GetOrRender(name, 0))
	}

	require.NoError(t, c.ClearSlot("a"))
	assert.Zero(t, c.SlotLen("a"))
	assert.Equal(t, 1, c.SlotLen("b"))

	c.ClearAll()
	assert.Zero(t, c.SlotLen("b"))
}

func TestStatsSnapshot(t *testing.T) {
	c := newTestCache(t, WithMaxPages(10))

	require.NoError(t, c.RegisterSlot("audience", PartFull, false))
	_, err := c.Resize("audience", 50, 50)
	require.NoError(t, err)

	c.GetOrRender("audience", 0) // miss + render
	c.GetOrRender("audience", 0) // hit

	stats := c.Stats()
	assert.Equal(t, 1, stats.Slots)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, 10, stats.MaxPages)
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
	assert.EqualValues(t, 1, stats.Rendered)
	assert.InDelta(t, 0.5, stats.HitRate, 1e-9)
}

func TestOperationsAfterClose(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.RegisterSlot("audience", PartFull, false))
	c.Close()

	assert.ErrorIs(t, c.RegisterSlot("late", PartFull, false), ErrClosed)
	_, err := c.Resize("audience", 100, 100)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = c.SetPagePart("audience", PartNotes)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, c.EnablePrerender("audience"), ErrClosed)
}

func TestSetDocumentNil(t *testing.T) {
	c := newTestCache(t)
	c.SetDocument(nil)

	if _, ok := c.Document().(EmptyDocument); !ok {
		t.Fatalf("expected EmptyDocument, got %T", c.Document())
	}
	assert.Zero(t, c.Document().PageCount())
}
