// Copyright 2026 The goslide Authors
// SPDX-License-Identifier: MIT

package slidecache

import (
	"image/color"
	"log/slog"
)

// placeholderBackend is the built-in software backend. It draws synthetic
// page images: a tinted background, a margin frame, and a progress bar
// marking the page's position in the deck. Good enough for tests, demos,
// and painting something sensible when no real renderer is linked in.
type placeholderBackend struct {
	logger *slog.Logger
}

// NewPlaceholderBackend creates the built-in placeholder backend.
// Most callers get one implicitly via NewBestBackend when no real renderer
// is registered.
func NewPlaceholderBackend() Backend {
	return &placeholderBackend{logger: Logger()}
}

// SetLogger implements the optional loggerSetter interface.
func (b *placeholderBackend) SetLogger(l *slog.Logger) {
	b.logger = l
}

// partTint returns the background tint per page part, so a misrouted part
// is visible at a glance.
func partTint(part PagePart) color.RGBA {
	switch part {
	case PartContent:
		return color.RGBA{R: 0xE8, G: 0xF0, B: 0xFA, A: 0xFF}
	case PartNotes:
		return color.RGBA{R: 0xFA, G: 0xF3, B: 0xE0, A: 0xFF}
	default:
		return color.RGBA{R: 0xF4, G: 0xF4, B: 0xF4, A: 0xFF}
	}
}

// Render implements Backend.
func (b *placeholderBackend) Render(doc Document, pageNb int, part PagePart, width, height int) (*Pixmap, error) {
	n := doc.PageCount()
	if pageNb < 0 || pageNb >= n {
		return nil, &PageOutOfRangeError{PageNb: pageNb, PageCount: n}
	}

	pix := NewPixmap(width, height)
	if width <= 0 || height <= 0 {
		return pix, nil
	}

	pix.Fill(partTint(part))

	// Margin frame.
	frame := color.RGBA{R: 0x40, G: 0x40, B: 0x48, A: 0xFF}
	m := width / 40
	if hm := height / 40; hm < m {
		m = hm
	}
	if m < 1 {
		m = 1
	}
	pix.FillRect(m, m, width-m, m+1, frame)
	pix.FillRect(m, height-m-1, width-m, height-m, frame)
	pix.FillRect(m, m, m+1, height-m, frame)
	pix.FillRect(width-m-1, m, width-m, height-m, frame)

	// Progress bar: filled fraction marks the page's position in the deck.
	// A shade derived from the page number makes adjacent pages
	// distinguishable in cache dumps.
	barTop := height - 3*m
	if barTop < m+1 {
		barTop = m + 1
	}
	filled := ((pageNb + 1) * (width - 2*m)) / n
	shade := color.RGBA{
		R: uint8(0x30 + (pageNb*37)%0x60),
		G: uint8(0x50 + (pageNb*53)%0x60),
		B: 0xA0,
		A: 0xFF,
	}
	pix.FillRect(m, barTop, m+filled, height-2*m, shade)

	if b.logger != nil {
		b.logger.Debug("placeholder render",
			"doc", doc.Label(), "page", pageNb, "part", part.String(),
			"width", width, "height", height)
	}
	return pix, nil
}

// init registers the built-in placeholder backend at low priority, so a
// real renderer binding registered at priority 100 wins automatically.
func init() {
	RegisterBackend("placeholder", 10, func() (Backend, error) {
		return NewPlaceholderBackend(), nil
	}, nil)
}
