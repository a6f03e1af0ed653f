package main

import (
	"context"
	"os"
	"time"

	"go-microplastic-inspector/internal/render"

	"golang.org/x/term"
)

// cellPixels approximates one terminal column as a CSS pixel so the same
// breakpoints apply to both front ends.
const cellPixels = 10

func terminalWidth(fallback int) int {
	cols, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 {
		return fallback
	}
	return cols * cellPixels
}

// watchResize calls redraw once resizes have settled for delay, until ctx ends
func watchResize(ctx context.Context, delay time.Duration, redraw func()) {
	resized, stop := resizeSignals()
	defer stop()

	d := render.NewDebouncer(delay, redraw)
	defer d.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-resized:
			d.Trigger()
		}
	}
}
