// Package view implements offline playback of a capture session: a 2D
// false-color side-by-side view and a 3D point cloud reconstruction view.
package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/zedview/zedview/depthmap"
	"github.com/zedview/zedview/dimage"
	"github.com/zedview/zedview/display"
	"github.com/zedview/zedview/pointcloud"
	"github.com/zedview/zedview/render"
	"github.com/zedview/zedview/session"
	"github.com/zedview/zedview/transform"
)

// Options control playback pacing and depth presentation.
type Options struct {
	// Wait is the pause between frames.
	Wait time.Duration
	// VMin and VMax bound the displayed depth in millimeters; nil bounds
	// come from each frame's finite range.
	VMin, VMax *float64
	// Palette selects the false-color mapping.
	Palette depthmap.Palette
	// PCDOutDir, when set, also writes each reconstructed cloud as a .pcd
	// file there (3D view only).
	PCDOutDir string
	// Clock paces the playback; nil uses the wall clock.
	Clock clock.Clock
}

func (o *Options) clock() clock.Clock {
	if o.Clock != nil {
		return o.Clock
	}
	return clock.New()
}

func (o *Options) wait(ctx context.Context) bool {
	if o.Wait <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-o.clock().After(o.Wait):
		return true
	}
}

// Colormap plays the session back as a horizontal concatenation of each
// left image with its false-colored depth map. Left image and colorized
// depth must agree in dimensions; a mismatch is a broken capture and
// panics.
func Colormap(
	ctx context.Context,
	reader *session.Reader,
	disp display.Display,
	opts Options,
	logger golog.Logger,
) error {
	for i := 0; i < reader.Len(); i++ {
		frame, err := reader.Frame(i)
		if err != nil {
			return errors.Wrapf(err, "loading frame %d", i)
		}
		logger.Debugw("viewing", "left", frame.LeftPath, "depth", frame.DepthPath)

		colored, err := frame.Depth.Colorize(opts.Palette, opts.VMin, opts.VMax)
		if err != nil {
			return errors.Wrapf(err, "colorizing frame %d", i)
		}

		both := dimage.SideBySide(dimage.ConvertToRGBA(frame.Left), colored)
		if err := disp.Show(ctx, both); err != nil {
			return errors.Wrapf(err, "showing frame %d", i)
		}

		if !opts.wait(ctx) {
			return nil
		}
	}
	return nil
}

// PointCloud3D plays the session back as reconstructed 3D point clouds
// rendered through the camera model. Intrinsics come from the session's
// camera parameter record when present, falling back to the fixed HD
// calibration constants.
func PointCloud3D(
	ctx context.Context,
	reader *session.Reader,
	disp display.Display,
	opts Options,
	logger golog.Logger,
) error {
	intrinsics := sessionIntrinsics(reader, logger)

	if opts.PCDOutDir != "" {
		if err := os.MkdirAll(opts.PCDOutDir, 0o755); err != nil {
			return err
		}
	}

	for i := 0; i < reader.Len(); i++ {
		frame, err := reader.Frame(i)
		if err != nil {
			return errors.Wrapf(err, "loading frame %d", i)
		}

		// the record's dimensions may disagree with what is on disk;
		// project with the actual frame dimensions
		params := *intrinsics
		params.Width = frame.Depth.Width()
		params.Height = frame.Depth.Height()

		cloud, err := params.RGBDToPointCloud(frame.Left, frame.Depth)
		if err != nil {
			return errors.Wrapf(err, "reconstructing frame %d", i)
		}
		logger.Debugw("reconstructed", "frame", i, "points", cloud.Size())

		if opts.PCDOutDir != "" {
			fn := filepath.Join(opts.PCDOutDir, fmt.Sprintf("cloud_%05d.pcd", i))
			if err := pointcloud.WriteToPCDFile(cloud, fn, pointcloud.PCDBinary); err != nil {
				return errors.Wrapf(err, "writing %s", fn)
			}
		}

		img, err := render.ProjectPointCloud(cloud, &params)
		if err != nil {
			return errors.Wrapf(err, "rendering frame %d", i)
		}
		if err := disp.Show(ctx, img); err != nil {
			return errors.Wrapf(err, "showing frame %d", i)
		}

		if !opts.wait(ctx) {
			return nil
		}
	}
	return nil
}

func sessionIntrinsics(reader *session.Reader, logger golog.Logger) *transform.PinholeCameraIntrinsics {
	if params, err := reader.Params(); err == nil {
		logger.Debugw("using session calibration")
		return &params.Left
	}
	logger.Infow("session has no camera parameter record, using default calibration")
	intrinsics := transform.DefaultZedHDIntrinsics
	return &intrinsics
}
