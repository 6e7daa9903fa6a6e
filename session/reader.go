package session

import (
	"image"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/zedview/zedview/depthmap"
	"github.com/zedview/zedview/dimage"
	"github.com/zedview/zedview/transform"
)

// Frame is one aligned left/right/depth triple read back from a session.
// Right is nil for sessions captured without a right image collection.
type Frame struct {
	Left  image.Image
	Right image.Image
	Depth *depthmap.DepthMap

	LeftPath  string
	RightPath string
	DepthPath string
}

// Reader reads the aligned collections of a session directory back in
// sorted filename order. The collections are zipped positionally: iteration
// stops at the shortest, so stray extra images at the tail are ignored.
type Reader struct {
	dir string

	leftNames  []string
	rightNames []string
	depthNames []string
	length     int
}

// NewReader opens a session directory for playback.
func NewReader(dir string) (*Reader, error) {
	if _, err := depthDirStat(dir); err != nil {
		return nil, err
	}

	left, err := sortedGlob(filepath.Join(dir, leftDirName), "*.png")
	if err != nil {
		return nil, err
	}
	right, err := sortedGlob(filepath.Join(dir, rightDirName), "*.png")
	if err != nil {
		return nil, err
	}
	depth, err := sortedGlob(filepath.Join(dir, depthDirName), "*.npy")
	if err != nil {
		return nil, err
	}

	length := len(left)
	if len(depth) < length {
		length = len(depth)
	}
	// the right collection only constrains the zip when it exists at all
	if len(right) > 0 && len(right) < length {
		length = len(right)
	}

	return &Reader{
		dir:        dir,
		leftNames:  left,
		rightNames: right,
		depthNames: depth,
		length:     length,
	}, nil
}

func depthDirStat(dir string) (string, error) {
	d := filepath.Join(dir, depthDirName)
	if !dirExists(filepath.Join(dir, leftDirName)) && !dirExists(d) {
		return "", errors.Errorf("%s does not look like a capture directory", dir)
	}
	return d, nil
}

// Len returns the number of aligned triples available.
func (r *Reader) Len() int {
	return r.length
}

// Params loads the session's camera parameter record, or an error if the
// session has none.
func (r *Reader) Params() (*transform.CameraParameters, error) {
	return LoadParams(r.dir)
}

// Frame loads the aligned triple at index i.
func (r *Reader) Frame(i int) (*Frame, error) {
	if i < 0 || i >= r.length {
		return nil, errors.Errorf("frame index %d out of range [0, %d)", i, r.length)
	}

	f := &Frame{
		LeftPath:  r.leftNames[i],
		DepthPath: r.depthNames[i],
	}

	var err error
	f.Left, err = dimage.ReadImageFromFile(f.LeftPath)
	if err != nil {
		return nil, err
	}
	f.Depth, err = depthmap.ReadNPYFile(f.DepthPath)
	if err != nil {
		return nil, err
	}
	if i < len(r.rightNames) {
		f.RightPath = r.rightNames[i]
		f.Right, err = dimage.ReadImageFromFile(f.RightPath)
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}
