package slidecache

import "fmt"

// Document is the cache's view of an open presentation document.
//
// The actual document (PDF parsing, page trees, links) lives behind the
// render backend; the cache only needs the page count for range checks and
// prerender windows, and the page geometry for aspect-ratio decisions.
//
// Implementations must be safe for concurrent reads: the paint path and the
// prerender workers query the same document from different goroutines.
type Document interface {
	// PageCount returns the number of pages. Valid page numbers are
	// [0, PageCount()).
	PageCount() int

	// PageSize returns the natural size of a page region in document units
	// (points). For PartContent and PartNotes on a notes-augmented page this
	// is half the full page width.
	PageSize(pageNb int, part PagePart) (width, height float64)

	// Label returns a short human-readable identifier for log output,
	// typically the file name.
	Label() string
}

// EmptyDocument is the document a cache holds before anything is opened.
// It has no pages, so every page request is out of range and prerender
// sweeps are no-ops.
type EmptyDocument struct{}

// PageCount returns 0.
func (EmptyDocument) PageCount() int { return 0 }

// PageSize returns a standard 4:3 slide size so layout code asking for an
// aspect ratio before a document is open gets something sane.
func (EmptyDocument) PageSize(int, PagePart) (float64, float64) { return 768, 576 }

// Label returns "empty".
func (EmptyDocument) Label() string { return "empty" }

// SolidDocument is a synthetic fixed-geometry deck. Every page has the same
// size; notes variants report half-width content and notes regions.
//
// It exists for tests and for cmd/slidedemo, which exercise the cache
// without a real document renderer.
type SolidDocument struct {
	// Pages is the page count.
	Pages int

	// Width and Height are the full page size in points.
	// Zero values default to 1024x768.
	Width, Height float64

	// Name is returned by Label. Empty defaults to "solid".
	Name string
}

// PageCount returns the configured page count.
func (d *SolidDocument) PageCount() int { return d.Pages }

// PageSize returns the page geometry for the requested part.
func (d *SolidDocument) PageSize(_ int, part PagePart) (float64, float64) {
	w, h := d.Width, d.Height
	if w <= 0 || h <= 0 {
		w, h = 1024, 768
	}
	if part == PartContent || part == PartNotes {
		return w / 2, h
	}
	return w, h
}

// Label returns the document name.
func (d *SolidDocument) Label() string {
	if d.Name == "" {
		return "solid"
	}
	return fmt.Sprintf("solid(%s)", d.Name)
}
