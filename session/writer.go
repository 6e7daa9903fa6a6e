package session

import (
	"image"
	"path/filepath"

	"github.com/edaniels/golog"

	"github.com/zedview/zedview/depthmap"
	"github.com/zedview/zedview/dimage"
	"github.com/zedview/zedview/transform"
)

// Writer appends aligned frame triples to a session directory. Each frame
// writes the left image, right image, raw depth array, and a jet colorized
// depth preview, all under one zero-padded monotonically increasing index.
type Writer struct {
	dir     string
	counter int
	logger  golog.Logger
}

// NewWriter creates the session layout under dir and persists the camera
// parameter record once. A nil params skips the record, e.g. when replaying
// a source that carries no calibration. If the directory already holds
// frames, the writer continues after the highest existing index.
func NewWriter(dir string, params *transform.CameraParameters, logger golog.Logger) (*Writer, error) {
	for _, sub := range []string{leftDirName, rightDirName, depthDirName} {
		if err := ensureDir(filepath.Join(dir, sub)); err != nil {
			return nil, err
		}
	}
	if params != nil {
		if err := params.Save(ParamsPath(dir)); err != nil {
			return nil, err
		}
	}

	existing, err := sortedGlob(filepath.Join(dir, depthDirName), "*.npy")
	if err != nil {
		return nil, err
	}

	return &Writer{dir: dir, counter: len(existing), logger: logger}, nil
}

// NextIndex returns the index the next frame will be written under.
func (w *Writer) NextIndex() int {
	return w.counter
}

// WriteFrame writes one aligned triple plus its colorized preview and
// advances the frame index.
func (w *Writer) WriteFrame(left, right image.Image, depth *depthmap.DepthMap) error {
	leftName := filepath.Join(w.dir, leftDirName, LeftImageName(w.counter))
	rightName := filepath.Join(w.dir, rightDirName, RightImageName(w.counter))
	depthName := filepath.Join(w.dir, depthDirName, DepthName(w.counter))
	previewName := filepath.Join(w.dir, depthDirName, DepthPreviewName(w.counter))

	if err := dimage.WriteImageToFile(leftName, left); err != nil {
		return err
	}
	if right != nil {
		if err := dimage.WriteImageToFile(rightName, right); err != nil {
			return err
		}
	}
	if err := depth.WriteNPYFile(depthName); err != nil {
		return err
	}

	// the preview is best effort; a frame with no finite depth still counts
	if preview, err := depth.Colorize(depthmap.PaletteJet, nil, nil); err == nil {
		if err := dimage.WriteImageToFile(previewName, preview); err != nil {
			return err
		}
	} else {
		w.logger.Debugw("skipping depth preview", "frame", w.counter, "error", err)
	}

	w.logger.Infow("saved", "left", leftName, "right", rightName, "depth", depthName)
	w.counter++
	return nil
}
