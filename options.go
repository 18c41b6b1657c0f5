package slidecache

// Option configures a SurfaceCache during creation.
//
// Example:
//
//	// Defaults: best available backend, 200 pages per slot.
//	cache, err := slidecache.New()
//
//	// Small cache with a custom renderer (dependency injection):
//	cache, err := slidecache.New(
//	    slidecache.WithMaxPages(20),
//	    slidecache.WithBackend(popplerBackend),
//	)
type Option func(*config)

// config holds optional configuration for SurfaceCache creation.
type config struct {
	maxPages    int
	ahead       int
	behind      int
	workers     int
	backend     Backend
	backendName string
}

// defaultConfig returns the default cache configuration.
func defaultConfig() config {
	return config{
		maxPages: 200,
		ahead:    4,
		behind:   2,
		workers:  2,
	}
}

// WithMaxPages bounds the number of cached pages per slot. Values below 1
// are ignored. A bound of 1 disables useful caching but still works: every
// lookup beyond the single cached page re-renders.
func WithMaxPages(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.maxPages = n
		}
	}
}

// WithPrerenderWindow sets how many pages ahead of and behind the current
// page a prerender sweep covers. The defaults (4 ahead, 2 behind) favor the
// reader's direction of travel; the backward window includes the current
// page itself, so slots that missed it get it warmed. Negative values clamp
// to 0, and a 0/0 window disables prerendering entirely.
func WithPrerenderWindow(ahead, behind int) Option {
	return func(c *config) {
		if ahead < 0 {
			ahead = 0
		}
		if behind < 0 {
			behind = 0
		}
		c.ahead = ahead
		c.behind = behind
	}
}

// WithWorkers sets the number of prerender worker goroutines. Values below
// 1 keep the default of 2. Renders serialize on the backend regardless, so
// more workers only help hide queueing latency.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.workers = n
		}
	}
}

// WithBackend sets a specific render backend instance, bypassing the
// registry. The cache still serializes calls into it.
func WithBackend(b Backend) Option {
	return func(c *config) {
		c.backend = b
	}
}

// WithBackendName selects a registered backend by name instead of taking
// the highest-priority available one.
func WithBackendName(name string) Option {
	return func(c *config) {
		c.backendName = name
	}
}
