// Package session implements the on-disk contract of a capture session: a
// directory with three parallel, filename-ordered collections (left images,
// right images, raw depth arrays) plus a camera parameter record.
//
// Layout:
//
//	left/left_{NNNNN}.png
//	right/right_{NNNNN}.png
//	zed-depth/zeddepth_{NNNNN}.npy
//	zed-depth/zeddepth_{NNNNN}.png   (colorized preview, never read back)
//	camera_param.json
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/zedview/zedview/transform"
)

const (
	leftDirName  = "left"
	rightDirName = "right"
	depthDirName = "zed-depth"

	// CameraParamFile is the name of the per-session camera parameter record.
	CameraParamFile = "camera_param.json"
)

// LeftImageName returns the left image filename for a frame index.
func LeftImageName(index int) string {
	return fmt.Sprintf("left_%05d.png", index)
}

// RightImageName returns the right image filename for a frame index.
func RightImageName(index int) string {
	return fmt.Sprintf("right_%05d.png", index)
}

// DepthName returns the raw depth array filename for a frame index.
func DepthName(index int) string {
	return fmt.Sprintf("zeddepth_%05d.npy", index)
}

// DepthPreviewName returns the colorized depth preview filename for a frame
// index.
func DepthPreviewName(index int) string {
	return fmt.Sprintf("zeddepth_%05d.png", index)
}

func sortedGlob(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	return nil
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// ParamsPath returns the camera parameter record path for a session dir.
func ParamsPath(dir string) string {
	return filepath.Join(dir, CameraParamFile)
}

// LoadParams loads the session's camera parameter record.
func LoadParams(dir string) (*transform.CameraParameters, error) {
	return transform.LoadCameraParameters(ParamsPath(dir))
}
