// Copyright 2026 The goslide Authors
// SPDX-License-Identifier: MIT

package slidecache

import (
	"sort"
	"sync"
)

// Backend renders document pages to pixmaps.
//
// A backend is typically a thin wrapper around an external PDF renderer.
// Rendering a page may take tens of milliseconds; the cache never calls a
// backend while holding a cache lock.
//
// Thread Safety: backends are assumed NOT reentrant. The cache serializes
// every call into its backend with a single mutex, so implementations may
// keep per-call scratch state without their own locking.
type Backend interface {
	// Render rasterizes one page region at the given pixel size.
	//
	// Returns *PageOutOfRangeError if pageNb is not in [0, doc.PageCount()).
	// Any other error is a backend failure; the cache logs it and treats the
	// page as a miss.
	Render(doc Document, pageNb int, part PagePart, width, height int) (*Pixmap, error)
}

// serialBackend wraps a Backend with a mutex so concurrent paint-path and
// prerender renders never overlap inside the external renderer.
type serialBackend struct {
	mu sync.Mutex
	b  Backend
}

func (s *serialBackend) Render(doc Document, pageNb int, part PagePart, width, height int) (*Pixmap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Render(doc, pageNb, part, width, height)
}

// BackendFactory creates a new Backend instance.
type BackendFactory func() (Backend, error)

// BackendEntry represents a registered render backend.
type BackendEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	// Standard priorities:
	//   - 100: native document renderers (poppler, mupdf bindings)
	//   - 10: the built-in placeholder backend
	Priority int

	// Factory creates backend instances.
	Factory BackendFactory

	// Available reports if the backend is usable on this system.
	Available func() bool
}

// backendRegistry manages registered render backends.
//
// The registry lets renderer bindings register themselves from their own
// packages without changes to the core library.
type backendRegistry struct {
	mu      sync.RWMutex
	entries map[string]*BackendEntry
}

// globalBackends is the default registry.
var globalBackends = &backendRegistry{}

// RegisterBackend adds a render backend to the global registry.
//
// If available is nil, the backend is assumed always available.
// Registering a name that already exists replaces the previous entry.
func RegisterBackend(name string, priority int, factory BackendFactory, available func() bool) {
	globalBackends.register(name, priority, factory, available)
}

// Backends returns all registered backend names sorted by priority
// (highest first).
func Backends() []string {
	return globalBackends.sortedNames(false)
}

// AvailableBackends returns names of all available backends sorted by
// priority (highest first).
func AvailableBackends() []string {
	return globalBackends.sortedNames(true)
}

// NewBackend creates an instance of a specific named backend.
func NewBackend(name string) (Backend, error) {
	return globalBackends.newByName(name)
}

// NewBestBackend creates an instance of the highest-priority available
// backend. Returns ErrNoBackendAvailable if nothing is registered.
func NewBestBackend() (Backend, error) {
	return globalBackends.newBest()
}

func (r *backendRegistry) register(name string, priority int, factory BackendFactory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*BackendEntry)
	}
	if available == nil {
		available = func() bool { return true }
	}

	r.entries[name] = &BackendEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

func (r *backendRegistry) newByName(name string) (Backend, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	if !entry.Available() {
		return nil, &BackendUnavailableError{Name: name}
	}
	return entry.Factory()
}

func (r *backendRegistry) newBest() (Backend, error) {
	available := r.sortedNames(true)
	if len(available) == 0 {
		return nil, ErrNoBackendAvailable
	}

	var lastErr error
	for _, name := range available {
		b, err := r.newByName(name)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoBackendAvailable
}

// sortedNames returns backend names sorted by priority (highest first).
// If onlyAvailable is true, filters to available backends only.
func (r *backendRegistry) sortedNames(onlyAvailable bool) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.entries) == 0 {
		return nil
	}

	type candidate struct {
		name     string
		priority int
	}

	candidates := make([]candidate, 0, len(r.entries))
	for name, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		candidates = append(candidates, candidate{name: name, priority: e.Priority})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].priority != candidates[j].priority {
			return candidates[i].priority > candidates[j].priority
		}
		return candidates[i].name < candidates[j].name
	})

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.name
	}
	return names
}
