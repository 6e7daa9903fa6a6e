package camera

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/zedview/zedview/session"
	"github.com/zedview/zedview/transform"
)

// replaySource plays a previously captured session directory back through
// the FrameSource interface. It stands in for the vendor SDK's recording
// replay; a live device driver implements the same interface.
type replaySource struct {
	reader *session.Reader
	params *transform.CameraParameters
	next   int
	closed bool
}

// NewReplaySource opens a capture directory as a frame source.
func NewReplaySource(dir string) (FrameSource, error) {
	reader, err := session.NewReader(dir)
	if err != nil {
		return nil, err
	}
	// calibration is optional for replays
	params, err := reader.Params()
	if err != nil {
		params = nil
	}
	return &replaySource{reader: reader, params: params}, nil
}

func (r *replaySource) Grab(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.closed || r.next >= r.reader.Len() {
		return nil, io.EOF
	}
	f, err := r.reader.Frame(r.next)
	if err != nil {
		// a corrupt frame on disk is transient from the loop's point of
		// view; move past it
		r.next++
		return nil, errors.Wrapf(ErrFrameSkipped, "frame %d: %s", r.next-1, err)
	}
	r.next++
	return &Frame{Left: f.Left, Right: f.Right, Depth: f.Depth}, nil
}

func (r *replaySource) Intrinsics() *transform.CameraParameters {
	return r.params
}

func (r *replaySource) Close() error {
	r.closed = true
	return nil
}
