// Package camera is the boundary to the stereo depth camera. The vendor SDK
// is modeled as a FrameSource: a blocking "get next frame set" collaborator
// returning aligned left/right/depth data. A live driver, a recording
// replay, and a network stream all sit behind the same interface.
package camera

import (
	"context"
	"image"

	"github.com/pkg/errors"

	"github.com/zedview/zedview/depthmap"
	"github.com/zedview/zedview/transform"
)

// ErrFrameSkipped reports a transient grab failure. The capture loop logs
// it and retries on the next pass instead of terminating the session.
var ErrFrameSkipped = errors.New("frame grab failed, skipping")

// Frame is one aligned left/right/depth triple from the device.
type Frame struct {
	Left  image.Image
	Right image.Image
	Depth *depthmap.DepthMap
}

// FrameSource produces a sequence of aligned frames. Grab blocks until the
// next frame set is available and returns io.EOF when the source is
// exhausted (replays and streams; a live camera never is).
type FrameSource interface {
	// Grab returns the next frame set. A return of ErrFrameSkipped (or an
	// error wrapping it) is transient and the caller should try again.
	Grab(ctx context.Context) (*Frame, error)

	// Intrinsics returns the source's calibration, or nil if it has none.
	Intrinsics() *transform.CameraParameters

	// Close releases the device handle.
	Close() error
}
