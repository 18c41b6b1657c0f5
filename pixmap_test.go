package slidecache

import (
	"image/color"
	"path/filepath"
	"testing"
)

func TestNewPixmap(t *testing.T) {
	p := NewPixmap(100, 50)

	if p.Width() != 100 || p.Height() != 50 {
		t.Errorf("expected 100x50, got %dx%d", p.Width(), p.Height())
	}
	if len(p.Data()) != 100*50*4 {
		t.Errorf("expected %d bytes, got %d", 100*50*4, len(p.Data()))
	}

	// Negative dimensions clamp to zero rather than panicking.
	z := NewPixmap(-3, -3)
	if z.Width() != 0 || z.Height() != 0 {
		t.Errorf("expected 0x0, got %dx%d", z.Width(), z.Height())
	}
}

func TestPixmapSetGetPixel(t *testing.T) {
	p := NewPixmap(10, 10)
	red := color.RGBA{R: 0xFF, A: 0xFF}

	p.SetPixel(3, 4, red)
	if got := p.GetPixel(3, 4); got != red {
		t.Errorf("expected %v, got %v", red, got)
	}

	// Out of bounds: writes ignored, reads transparent.
	p.SetPixel(-1, 0, red)
	p.SetPixel(10, 0, red)
	if got := p.GetPixel(-1, 0); got != (color.RGBA{}) {
		t.Errorf("expected transparent, got %v", got)
	}
}

func TestPixmapFill(t *testing.T) {
	p := NewPixmap(8, 8)
	grey := color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}

	p.Fill(grey)

	if got := p.GetPixel(0, 0); got != grey {
		t.Errorf("expected %v at origin, got %v", grey, got)
	}
	if got := p.GetPixel(7, 7); got != grey {
		t.Errorf("expected %v at corner, got %v", grey, got)
	}
}

func TestPixmapFillRect(t *testing.T) {
	p := NewPixmap(10, 10)
	blue := color.RGBA{B: 0xFF, A: 0xFF}

	// Clips to bounds.
	p.FillRect(-5, -5, 3, 3, blue)

	if got := p.GetPixel(2, 2); got != blue {
		t.Errorf("expected %v inside rect, got %v", blue, got)
	}
	if got := p.GetPixel(3, 3); got == blue {
		t.Error("expected pixel outside rect untouched")
	}
}

func TestPixmapScaled(t *testing.T) {
	p := NewPixmap(100, 100)
	white := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	p.Fill(white)

	thumb := p.Scaled(25, 20)
	if thumb.Width() != 25 || thumb.Height() != 20 {
		t.Fatalf("expected 25x20, got %dx%d", thumb.Width(), thumb.Height())
	}
	if got := thumb.GetPixel(12, 10); got != white {
		t.Errorf("expected solid white to survive scaling, got %v", got)
	}

	// Degenerate sizes produce empty pixmaps, not panics.
	if z := p.Scaled(0, 10); z.Width() != 0 {
		t.Errorf("expected zero width, got %d", z.Width())
	}
}

func TestPixmapImageRoundTrip(t *testing.T) {
	p := NewPixmap(4, 4)
	red := color.RGBA{R: 0xFF, A: 0xFF}
	p.SetPixel(1, 2, red)

	back := FromImage(p.ToImage())
	if got := back.GetPixel(1, 2); got != red {
		t.Errorf("expected %v after round trip, got %v", red, got)
	}
	if back.Width() != 4 || back.Height() != 4 {
		t.Errorf("expected 4x4, got %dx%d", back.Width(), back.Height())
	}
}

func TestPixmapSavePNG(t *testing.T) {
	p := NewPixmap(16, 16)
	p.Fill(color.RGBA{G: 0xFF, A: 0xFF})

	path := filepath.Join(t.TempDir(), "page.png")
	if err := p.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
}
