package slidecache

import (
	"errors"
	"fmt"
)

// Errors.
var (
	// ErrNoBackendAvailable is returned when no render backends are
	// registered or available on the current system.
	ErrNoBackendAvailable = errors.New("slidecache: no render backend available")

	// ErrClosed is returned when an operation is attempted on a closed cache.
	ErrClosed = errors.New("slidecache: cache is closed")
)

// PageOutOfRangeError indicates a page number outside [0, PageCount).
// Backends return it for invalid pages; the cache recovers by treating the
// request as "no such page" rather than surfacing a failure.
type PageOutOfRangeError struct {
	PageNb    int
	PageCount int
}

func (e *PageOutOfRangeError) Error() string {
	return fmt.Sprintf("slidecache: page %d out of range [0, %d)", e.PageNb, e.PageCount)
}

// SlotNotRegisteredError indicates an operation referenced an unknown slot.
// This is a caller bug; read paths treat it as a miss and log it, mutating
// paths return it.
type SlotNotRegisteredError struct {
	Name string
}

func (e *SlotNotRegisteredError) Error() string {
	return "slidecache: slot not registered: " + e.Name
}

// DuplicateSlotError indicates a slot was registered twice with a different
// page part. Re-registering a slot with the same page part is a no-op.
type DuplicateSlotError struct {
	Name      string
	Existing  PagePart
	Requested PagePart
}

func (e *DuplicateSlotError) Error() string {
	return fmt.Sprintf("slidecache: slot %q already registered with part %s (requested %s)",
		e.Name, e.Existing, e.Requested)
}

// BackendNotFoundError indicates a named render backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "slidecache: render backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but is not available
// on the current system.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "slidecache: render backend unavailable: " + e.Name
}
