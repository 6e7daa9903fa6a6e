// Package display provides the preview surface the capture and playback
// loops draw to. The display is an explicit context object owned by the
// loop and released on every exit path, rather than a global window
// registry.
package display

import (
	"context"
	"image"
	"sync"
)

// Display shows a stream of images. Implementations must be safe to Show
// from the loop goroutine while being served elsewhere, and must release
// their resources on Close.
type Display interface {
	Show(ctx context.Context, img image.Image) error
	Close() error
}

// NullDisplay discards everything shown to it.
type NullDisplay struct{}

// Show implements Display.
func (NullDisplay) Show(context.Context, image.Image) error {
	return nil
}

// Close implements Display.
func (NullDisplay) Close() error {
	return nil
}

// CaptureDisplay records every image shown to it, for tests.
type CaptureDisplay struct {
	mu     sync.Mutex
	shown  []image.Image
	closed bool
}

// Show implements Display.
func (d *CaptureDisplay) Show(_ context.Context, img image.Image) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shown = append(d.shown, img)
	return nil
}

// Close implements Display.
func (d *CaptureDisplay) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Shown returns the images shown so far.
func (d *CaptureDisplay) Shown() []image.Image {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]image.Image, len(d.shown))
	copy(out, d.shown)
	return out
}

// Closed reports whether Close was called.
func (d *CaptureDisplay) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}
