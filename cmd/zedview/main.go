// Package main is the zedview command: capture stereo depth sessions and
// view them back as false-color depth maps or 3D point clouds.
package main

import (
	"context"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/zedview/zedview/camera"
	"github.com/zedview/zedview/config"
	"github.com/zedview/zedview/depthmap"
	"github.com/zedview/zedview/display"
	"github.com/zedview/zedview/session"
	"github.com/zedview/zedview/view"
)

const (
	// Global flags.
	flagConfig = "config"
	flagDebug  = "debug"

	// Capture flags.
	captureFlagSVO        = "svo"
	captureFlagStream     = "stream"
	captureFlagResolution = "resolution"
	captureFlagConfidence = "confidence"
	captureFlagOutDir     = "outdir"

	// View flags.
	viewFlagSec     = "sec"
	viewFlagVMin    = "vmin"
	viewFlagVMax    = "vmax"
	viewFlagDisp3D  = "disp3d"
	viewFlagGray    = "gray"
	viewFlagJet     = "jet"
	viewFlagInferno = "inferno"
	viewFlagPCDOut  = "pcd-out"

	flagPreviewAddr = "addr"
	flagNoPreview   = "no-preview"
)

var logger = golog.NewDevelopmentLogger("zedview")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

func mainWithArgs(ctx context.Context, args []string, _ golog.Logger) error {
	app := &cli.App{
		Name:  "zedview",
		Usage: "capture and view stereo depth sessions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load defaults from `FILE` (default zedview.yml if present)",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				logger = golog.NewDebugLogger("zedview")
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "capture",
				Usage: "capture stereo pairs plus depth into a session directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  captureFlagSVO,
						Usage: "path to a recorded session to replay instead of a live device",
					},
					&cli.StringFlag{
						Name:  captureFlagStream,
						Usage: "stream address a.b.c.d:port or a.b.c.d for a network streaming setup",
					},
					&cli.StringFlag{
						Name:  captureFlagResolution,
						Usage: "capture resolution: HD2K, HD1200, HD1080, HD720, SVGA or VGA",
					},
					&cli.Float64Flag{
						Name:  captureFlagConfidence,
						Usage: "depth confidence threshold (0-100)",
						Value: camera.DefaultConfidenceThreshold,
					},
					&cli.StringFlag{
						Name:  captureFlagOutDir,
						Usage: "session output directory",
					},
					&cli.StringFlag{
						Name:  flagPreviewAddr,
						Usage: "bind address for the live preview",
					},
					&cli.BoolFlag{
						Name:  flagNoPreview,
						Usage: "disable the live preview",
					},
				},
				Action: captureAction,
			},
			{
				Name:      "view",
				Usage:     "view a captured session",
				ArgsUsage: "CAPTURED_DIR",
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:  viewFlagSec,
						Usage: "wait seconds between frames",
						Value: 1,
					},
					&cli.Float64Flag{
						Name:  viewFlagVMin,
						Usage: "min displayed depth [mm]",
						Value: 0,
					},
					&cli.Float64Flag{
						Name:  viewFlagVMax,
						Usage: "max displayed depth [mm]",
						Value: 5000,
					},
					&cli.BoolFlag{
						Name:  viewFlagDisp3D,
						Usage: "display a 3D point cloud instead of the 2D colormap",
					},
					&cli.BoolFlag{
						Name:  viewFlagGray,
						Usage: "gray colormap",
					},
					&cli.BoolFlag{
						Name:  viewFlagJet,
						Usage: "jet colormap",
					},
					&cli.BoolFlag{
						Name:  viewFlagInferno,
						Usage: "inferno colormap",
					},
					&cli.StringFlag{
						Name:  viewFlagPCDOut,
						Usage: "also write reconstructed clouds as .pcd files to `DIR` (3D only)",
					},
					&cli.StringFlag{
						Name:  flagPreviewAddr,
						Usage: "bind address for the preview",
					},
					&cli.BoolFlag{
						Name:  flagNoPreview,
						Usage: "disable the preview (still writes .pcd files)",
					},
				},
				Action: viewAction,
			},
		},
	}
	return app.RunContext(ctx, args)
}

func openDisplay(c *cli.Context, fileDefault string) (display.Display, error) {
	if c.Bool(flagNoPreview) {
		return display.NullDisplay{}, nil
	}
	addr := c.String(flagPreviewAddr)
	if addr == "" {
		addr = fileDefault
	}
	return display.NewHTTPDisplay(addr, logger)
}

func captureAction(c *cli.Context) (err error) {
	cfg, err := config.Load(c.String(flagConfig))
	if err != nil {
		return err
	}

	resolution := c.String(captureFlagResolution)
	if resolution == "" {
		resolution = cfg.Capture.Resolution
	}
	confidence := c.Float64(captureFlagConfidence)
	if !c.IsSet(captureFlagConfidence) {
		confidence = cfg.Capture.ConfidenceThreshold
	}
	outDir := c.String(captureFlagOutDir)
	if outDir == "" {
		outDir = cfg.Capture.OutDir
	}

	camCfg := camera.Config{
		SVOFile:             c.String(captureFlagSVO),
		StreamAddr:          c.String(captureFlagStream),
		Resolution:          camera.Resolution(resolution),
		ConfidenceThreshold: confidence,
	}
	// usage errors must surface before any device handle is opened
	if err := camCfg.Validate(); err != nil {
		return err
	}

	src, err := camera.OpenSource(camCfg, logger)
	if err != nil {
		return errors.Wrap(err, "opening camera")
	}
	defer func() {
		err = multierr.Combine(err, src.Close())
	}()

	writer, err := session.NewWriter(outDir, src.Intrinsics(), logger)
	if err != nil {
		return errors.Wrapf(err, "opening session %s", outDir)
	}

	disp, err := openDisplay(c, cfg.Capture.PreviewAddr)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, disp.Close())
	}()

	logger.Infow("capturing", "outdir", outDir, "confidence", confidence)
	return camera.Capture(c.Context, src, writer, disp, logger)
}

func viewAction(c *cli.Context) (err error) {
	if c.NArg() != 1 {
		return errors.New("need exactly one argument: the captured session directory")
	}

	cfg, err := config.Load(c.String(flagConfig))
	if err != nil {
		return err
	}

	reader, err := session.NewReader(c.Args().First())
	if err != nil {
		return err
	}

	palette, err := pickPalette(c, cfg.View.Palette)
	if err != nil {
		return err
	}

	waitSec := c.Float64(viewFlagSec)
	if !c.IsSet(viewFlagSec) {
		waitSec = cfg.View.WaitSec
	}
	vmin := c.Float64(viewFlagVMin)
	if !c.IsSet(viewFlagVMin) {
		vmin = cfg.View.VMin
	}
	vmax := c.Float64(viewFlagVMax)
	if !c.IsSet(viewFlagVMax) {
		vmax = cfg.View.VMax
	}

	disp, err := openDisplay(c, cfg.View.PreviewAddr)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, disp.Close())
	}()

	opts := view.Options{
		Wait:      time.Duration(waitSec * float64(time.Second)),
		VMin:      &vmin,
		VMax:      &vmax,
		Palette:   palette,
		PCDOutDir: c.String(viewFlagPCDOut),
	}

	if c.Bool(viewFlagDisp3D) {
		return view.PointCloud3D(c.Context, reader, disp, opts, logger)
	}
	return view.Colormap(c.Context, reader, disp, opts, logger)
}

func pickPalette(c *cli.Context, fileDefault string) (depthmap.Palette, error) {
	switch {
	case c.Bool(viewFlagGray):
		return depthmap.PaletteGray, nil
	case c.Bool(viewFlagJet):
		return depthmap.PaletteJet, nil
	case c.Bool(viewFlagInferno):
		return depthmap.PaletteInferno, nil
	}
	if fileDefault == "" {
		return depthmap.PaletteJet, nil
	}
	return depthmap.ParsePalette(fileDefault)
}
