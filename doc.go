// Package slidecache provides the page cache and prerendering scheduler for
// a dual-screen presentation viewer.
//
// # Overview
//
// A presentation viewer shows the same document in several places at once:
// the audience screen, the presenter's current and next previews, and the
// tiles of a deck overview. Each of those consumers is registered with the
// cache as a named slot. The cache keeps one bounded LRU store of rendered
// page bitmaps per slot and fills it two ways:
//
//   - synchronously, on the paint path: a cache miss renders exactly the
//     requested page inline and stores it
//   - asynchronously, after navigation: a scheduler prerenders a window of
//     nearby pages for every prerender-enabled slot on background workers
//
// # Quick Start
//
//	import "github.com/goslide/slidecache"
//
//	cache, err := slidecache.New(slidecache.WithMaxPages(200))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cache.Close()
//
//	cache.SetDocument(doc)
//	cache.RegisterSlot("audience", slidecache.PartFull, true)
//	cache.Resize("audience", 1920, 1080)
//
//	// Paint path: always returns promptly with something to blit.
//	pix := cache.GetOrRender("audience", 0)
//
//	// After a slide change, warm up the neighborhood.
//	cache.PrerenderAround(0)
//
// # Consistency
//
// Slots are resized and documents swapped while renders are in flight. Every
// writer into the cache follows the same commit protocol: a render result is
// stored only if the slot's size and page part and the current document are
// still the ones it was rendered under. Stale results are silently dropped
// and the next paint or prerender sweep re-requests the page.
//
// # Rendering
//
// Actual page rasterization is delegated to a Backend. Backends register
// themselves by name with a priority; the built-in "placeholder" backend is
// always available and draws synthetic page images. Backends are assumed
// non-reentrant and every call into one is serialized by the cache.
package slidecache
