package slidecache

import "fmt"

// PagePart selects which region of a page a slot displays.
//
// Documents exported with presenter notes carry pages twice as wide as the
// projected slide: the left half is the slide content, the right half the
// speaker notes. A slot renders either the whole page or one of the halves.
// Two slots showing the same page number with different parts produce
// different pixels, so the part is half of what identifies a slot's cache
// contents.
type PagePart int

const (
	// PartFull renders the entire page as laid out in the document.
	PartFull PagePart = iota

	// PartContent renders only the slide-content half of a notes page.
	PartContent

	// PartNotes renders only the speaker-notes half of a notes page.
	PartNotes
)

// String returns the page part name.
func (p PagePart) String() string {
	switch p {
	case PartFull:
		return "full"
	case PartContent:
		return "content"
	case PartNotes:
		return "notes"
	default:
		return "unknown"
	}
}

// ParsePagePart converts a page part name ("full", "content", "notes")
// to a PagePart. Used by the cmd/ tooling.
func ParsePagePart(s string) (PagePart, error) {
	switch s {
	case "full":
		return PartFull, nil
	case "content":
		return PartContent, nil
	case "notes":
		return PartNotes, nil
	default:
		return PartFull, fmt.Errorf("slidecache: unknown page part %q", s)
	}
}
