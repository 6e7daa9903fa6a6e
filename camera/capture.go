package camera

import (
	"context"
	"io"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/zedview/zedview/depthmap"
	"github.com/zedview/zedview/dimage"
	"github.com/zedview/zedview/display"
	"github.com/zedview/zedview/session"
)

// Capture runs the capture loop: grab a frame set, write it to the session,
// and push a side-by-side live preview (left image next to jet colorized
// depth) to the display. Transient grab failures skip the iteration;
// exhaustion of the source or context cancellation ends the loop cleanly.
func Capture(
	ctx context.Context,
	src FrameSource,
	writer *session.Writer,
	disp display.Display,
	logger golog.Logger,
) error {
	for {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		frame, err := src.Grab(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				logger.Infow("input exhausted", "frames", writer.NextIndex())
				return nil
			case errors.Is(err, context.Canceled):
				return nil
			case errors.Is(err, ErrFrameSkipped):
				logger.Debugw("skipping frame", "error", err)
				continue
			default:
				return errors.Wrap(err, "grabbing frame")
			}
		}

		if err := writer.WriteFrame(frame.Left, frame.Right, frame.Depth); err != nil {
			return errors.Wrap(err, "writing frame")
		}

		// preview failures never stop a capture
		preview, err := frame.Depth.Colorize(depthmap.PaletteJet, nil, nil)
		if err != nil {
			logger.Debugw("no preview for frame", "error", err)
			continue
		}
		left := dimage.ConvertToRGBA(frame.Left)
		if left.Bounds() != preview.Bounds() {
			logger.Debugw("left and depth preview differ in size, not composing",
				"left", left.Bounds(), "depth", preview.Bounds())
			continue
		}
		if err := disp.Show(ctx, dimage.SideBySide(left, preview)); err != nil {
			logger.Debugw("preview display failed", "error", err)
		}
	}
}
