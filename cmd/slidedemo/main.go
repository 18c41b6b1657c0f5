// Command slidedemo exercises the slidecache page cache against a synthetic
// document: list backends, render single pages to PNG, or simulate a
// presentation run and print cache statistics.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/goslide/slidecache"
)

var (
	flagVerbose bool
	flagPages   int
	flagWidth   int
	flagHeight  int
	flagBackend string
)

func main() {
	root := &cobra.Command{
		Use:   "slidedemo",
		Short: "Exercise the slidecache page cache against a synthetic deck",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				slidecache.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
		},
	}
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().IntVar(&flagPages, "pages", 30, "page count of the synthetic deck")
	root.PersistentFlags().IntVar(&flagWidth, "width", 800, "slot width in pixels")
	root.PersistentFlags().IntVar(&flagHeight, "height", 600, "slot height in pixels")
	root.PersistentFlags().StringVar(&flagBackend, "backend", "", "render backend name (default: best available)")

	root.AddCommand(infoCmd(), renderCmd(), sweepCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCache(opts ...slidecache.Option) (*slidecache.SurfaceCache, error) {
	if flagBackend != "" {
		opts = append(opts, slidecache.WithBackendName(flagBackend))
	}
	cache, err := slidecache.New(opts...)
	if err != nil {
		return nil, err
	}
	cache.SetDocument(&slidecache.SolidDocument{Pages: flagPages, Name: "demo"})
	return cache, nil
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "List registered render backends",
		RunE: func(cmd *cobra.Command, args []string) error {
			available := map[string]bool{}
			for _, name := range slidecache.AvailableBackends() {
				available[name] = true
			}
			for _, name := range slidecache.Backends() {
				status := "unavailable"
				if available[name] {
					status = "available"
				}
				fmt.Printf("%-16s %s\n", name, status)
			}
			return nil
		},
	}
}

func renderCmd() *cobra.Command {
	var (
		page   int
		part   string
		output string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one page of the synthetic deck to PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			pagePart, err := slidecache.ParsePagePart(part)
			if err != nil {
				return err
			}

			cache, err := newCache()
			if err != nil {
				return err
			}
			defer cache.Close()

			if err := cache.RegisterSlot("render", pagePart, false); err != nil {
				return err
			}
			if _, err := cache.Resize("render", flagWidth, flagHeight); err != nil {
				return err
			}

			pix := cache.GetOrRender("render", page)
			if pix == nil {
				return fmt.Errorf("page %d not renderable (deck has %d pages)", page, flagPages)
			}
			if err := pix.SavePNG(output); err != nil {
				return err
			}
			fmt.Printf("rendered page %d (%s) to %s (%dx%d)\n",
				page, pagePart, output, pix.Width(), pix.Height())
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "page number to render")
	cmd.Flags().StringVar(&part, "part", "full", "page part: full, content, notes")
	cmd.Flags().StringVarP(&output, "output", "o", "page.png", "output PNG file")
	return cmd
}

func sweepCmd() *cobra.Command {
	var (
		maxPages int
		tiles    int
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Simulate navigating the whole deck with prerendering and print stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := newCache(slidecache.WithMaxPages(maxPages))
			if err != nil {
				return err
			}
			defer cache.Close()

			// The usual dual-screen slot set: audience view, presenter
			// current and next, plus deck-overview tiles at thumbnail size.
			type slotSpec struct {
				name string
				part slidecache.PagePart
				w, h int
			}
			slots := []slotSpec{
				{"audience", slidecache.PartContent, flagWidth, flagHeight},
				{"presenter.current", slidecache.PartContent, flagWidth / 2, flagHeight / 2},
				{"presenter.next", slidecache.PartContent, flagWidth / 2, flagHeight / 2},
				{"presenter.notes", slidecache.PartNotes, flagWidth / 2, flagHeight},
			}
			for i := 0; i < tiles; i++ {
				slots = append(slots, slotSpec{fmt.Sprintf("deck.tile%d", i), slidecache.PartContent, 160, 120})
			}
			for _, s := range slots {
				if err := cache.RegisterSlot(s.name, s.part, true); err != nil {
					return err
				}
				if _, err := cache.Resize(s.name, s.w, s.h); err != nil {
					return err
				}
			}

			start := time.Now()
			for p := 0; p < flagPages; p++ {
				if cache.GetOrRender("audience", p) == nil {
					return fmt.Errorf("page %d failed to render", p)
				}
				cache.GetOrRender("presenter.current", p)
				if p+1 < flagPages {
					cache.GetOrRender("presenter.next", p+1)
				}
				cache.PrerenderAround(p)
			}

			// Let the background sweeps drain before reading stats.
			for cache.PendingJobs() > 0 {
				time.Sleep(10 * time.Millisecond)
			}
			elapsed := time.Since(start)

			stats := cache.Stats()
			fmt.Printf("navigated %d pages across %d slots in %v\n", flagPages, stats.Slots, elapsed.Round(time.Millisecond))
			fmt.Printf("entries:   %d (max %d per slot)\n", stats.Entries, stats.MaxPages)
			fmt.Printf("lookups:   %d hits, %d misses (%.0f%% hit rate)\n", stats.Hits, stats.Misses, stats.HitRate*100)
			fmt.Printf("renders:   %d completed, %d discarded stale\n", stats.Rendered, stats.Discarded)
			fmt.Printf("evictions: %d\n", stats.Evictions)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxPages, "max-pages", 200, "cached pages per slot")
	cmd.Flags().IntVar(&tiles, "tiles", 4, "number of deck-overview tiles")
	return cmd
}
