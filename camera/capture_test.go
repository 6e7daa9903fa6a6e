package camera

import (
	"context"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/zedview/zedview/depthmap"
	"github.com/zedview/zedview/display"
	"github.com/zedview/zedview/session"
	"github.com/zedview/zedview/transform"
)

func testFrame(w, h int) *Frame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(10 * x), uint8(10 * y), 0, 255})
		}
	}
	dm := depthmap.NewEmptyDepthMap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dm.Set(x, y, float32(500+x+y))
		}
	}
	return &Frame{Left: img, Right: img, Depth: dm}
}

// scriptedSource plays back a fixed script of frames and errors.
type scriptedSource struct {
	script []interface{}
	pos    int
	closed bool
}

func (s *scriptedSource) Grab(context.Context) (*Frame, error) {
	if s.pos >= len(s.script) {
		return nil, io.EOF
	}
	item := s.script[s.pos]
	s.pos++
	switch v := item.(type) {
	case *Frame:
		return v, nil
	case error:
		return nil, v
	}
	panic("bad script")
}

func (s *scriptedSource) Intrinsics() *transform.CameraParameters {
	return nil
}

func (s *scriptedSource) Close() error {
	s.closed = true
	return nil
}

func TestCaptureWritesAndPreviews(t *testing.T) {
	logger := golog.NewTestLogger(t)
	dir := t.TempDir()

	writer, err := session.NewWriter(dir, nil, logger)
	test.That(t, err, test.ShouldBeNil)

	src := &scriptedSource{script: []interface{}{
		testFrame(4, 3),
		errors.Wrap(ErrFrameSkipped, "transient glitch"),
		testFrame(4, 3),
	}}
	disp := &display.CaptureDisplay{}

	err = Capture(context.Background(), src, writer, disp, logger)
	test.That(t, err, test.ShouldBeNil)

	// both real frames written, the transient failure skipped
	test.That(t, writer.NextIndex(), test.ShouldEqual, 2)
	test.That(t, disp.Shown(), test.ShouldHaveLength, 2)

	// preview is left and depth side by side
	shown := disp.Shown()[0]
	test.That(t, shown.Bounds().Dx(), test.ShouldEqual, 8)
	test.That(t, shown.Bounds().Dy(), test.ShouldEqual, 3)

	_, err = os.Stat(filepath.Join(dir, "zed-depth", "zeddepth_00001.npy"))
	test.That(t, err, test.ShouldBeNil)
}

func TestCaptureFatalOnOtherErrors(t *testing.T) {
	logger := golog.NewTestLogger(t)
	writer, err := session.NewWriter(t.TempDir(), nil, logger)
	test.That(t, err, test.ShouldBeNil)

	src := &scriptedSource{script: []interface{}{
		errors.New("device unplugged"),
	}}

	err = Capture(context.Background(), src, writer, display.NullDisplay{}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "device unplugged")
}

func TestCaptureStopsOnCancel(t *testing.T) {
	logger := golog.NewTestLogger(t)
	writer, err := session.NewWriter(t.TempDir(), nil, logger)
	test.That(t, err, test.ShouldBeNil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &scriptedSource{script: []interface{}{testFrame(2, 2)}}
	err = Capture(ctx, src, writer, display.NullDisplay{}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, writer.NextIndex(), test.ShouldEqual, 0)
}

func TestReplaySource(t *testing.T) {
	logger := golog.NewTestLogger(t)
	dir := t.TempDir()

	writer, err := session.NewWriter(dir, nil, logger)
	test.That(t, err, test.ShouldBeNil)
	f := testFrame(3, 2)
	test.That(t, writer.WriteFrame(f.Left, f.Right, f.Depth), test.ShouldBeNil)
	test.That(t, writer.WriteFrame(f.Left, f.Right, f.Depth), test.ShouldBeNil)

	src, err := NewReplaySource(dir)
	test.That(t, err, test.ShouldBeNil)

	ctx := context.Background()
	got, err := src.Grab(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Depth.Width(), test.ShouldEqual, 3)

	_, err = src.Grab(ctx)
	test.That(t, err, test.ShouldBeNil)

	_, err = src.Grab(ctx)
	test.That(t, err, test.ShouldBeError, io.EOF)

	test.That(t, src.Close(), test.ShouldBeNil)
	_, err = src.Grab(ctx)
	test.That(t, err, test.ShouldBeError, io.EOF)
}

func TestOpenSource(t *testing.T) {
	logger := golog.NewTestLogger(t)

	// a config error surfaces before any device IO
	_, err := OpenSource(Config{SVOFile: "a", StreamAddr: "b", ConfidenceThreshold: 100}, logger)
	test.That(t, err, test.ShouldNotBeNil)

	// live capture needs a registered driver
	_, err = OpenSource(Config{ConfidenceThreshold: 100}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "no camera driver")

	// replay works without one
	dir := t.TempDir()
	writer, err := session.NewWriter(dir, nil, logger)
	test.That(t, err, test.ShouldBeNil)
	f := testFrame(2, 2)
	test.That(t, writer.WriteFrame(f.Left, f.Right, f.Depth), test.ShouldBeNil)

	src, err := OpenSource(Config{SVOFile: dir, ConfidenceThreshold: 100}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, src.Close(), test.ShouldBeNil)
}
