// Package transform holds the pinhole camera model used to reconstruct 3D
// point clouds from aligned color and depth frames, and the camera
// parameter record persisted with every capture session.
package transform

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/mat"
)

// ErrNoIntrinsics is returned when a camera's intrinsic parameters are not
// available.
var ErrNoIntrinsics = errors.New("camera intrinsic parameters are not available")

// PinholeCameraIntrinsics holds the parameters necessary to do a perspective
// projection of a 3D scene to the 2D plane.
type PinholeCameraIntrinsics struct {
	Width  int     `json:"width_px"`
	Height int     `json:"height_px"`
	Fx     float64 `json:"fx"`
	Fy     float64 `json:"fy"`
	Ppx    float64 `json:"ppx"`
	Ppy    float64 `json:"ppy"`
}

// DefaultZedHDIntrinsics are the left-eye HD calibration constants for the
// stereo camera this tooling was written against. Playback falls back to
// these when a session has no camera parameter record.
var DefaultZedHDIntrinsics = PinholeCameraIntrinsics{
	Width:  1280,
	Height: 720,
	Fx:     532.41,
	Fy:     532.535,
	Ppx:    636.025,
	Ppy:    362.4065,
}

// CheckValid checks if the fields for PinholeCameraIntrinsics have valid
// inputs.
func (params *PinholeCameraIntrinsics) CheckValid() error {
	if params == nil {
		return errors.Wrap(ErrNoIntrinsics, "intrinsics do not exist")
	}
	if params.Width <= 0 || params.Height <= 0 {
		return errors.Wrapf(ErrNoIntrinsics, "invalid size (%d, %d)", params.Width, params.Height)
	}
	if params.Fx <= 0 {
		return errors.Wrapf(ErrNoIntrinsics, "invalid focal length Fx = %f", params.Fx)
	}
	if params.Fy <= 0 {
		return errors.Wrapf(ErrNoIntrinsics, "invalid focal length Fy = %f", params.Fy)
	}
	if params.Ppx < 0 {
		return errors.Wrapf(ErrNoIntrinsics, "invalid principal point Ppx = %f", params.Ppx)
	}
	if params.Ppy < 0 {
		return errors.Wrapf(ErrNoIntrinsics, "invalid principal point Ppy = %f", params.Ppy)
	}
	return nil
}

// PixelToPoint transforms a pixel with depth to a 3D point.
func (params *PinholeCameraIntrinsics) PixelToPoint(x, y, z float64) (float64, float64, float64) {
	xOverZ := (x - params.Ppx) / params.Fx
	yOverZ := (y - params.Ppy) / params.Fy
	return xOverZ * z, yOverZ * z, z
}

// PointToPixel projects a 3D point to a pixel in the image plane. If depth
// is zero the returned coordinates are negative so bounds checks filter the
// point out.
func (params *PinholeCameraIntrinsics) PointToPixel(x, y, z float64) (float64, float64) {
	if z != 0. {
		xPx := math.Round((x/z)*params.Fx + params.Ppx)
		yPx := math.Round((y/z)*params.Fy + params.Ppy)
		return xPx, yPx
	}
	return -1.0, -1.0
}

// GetCameraMatrix creates the 3x3 camera matrix from the intrinsics.
// Camera matrix:
// [[fx 0 ppx],
//
//	[0 fy ppy],
//	[0 0  1]]
func (params *PinholeCameraIntrinsics) GetCameraMatrix() *mat.Dense {
	if params == nil {
		return nil
	}
	cameraMatrix := mat.NewDense(3, 3, nil)
	cameraMatrix.Set(0, 0, params.Fx)
	cameraMatrix.Set(1, 1, params.Fy)
	cameraMatrix.Set(0, 2, params.Ppx)
	cameraMatrix.Set(1, 2, params.Ppy)
	cameraMatrix.Set(2, 2, 1)
	return cameraMatrix
}

// CameraParameters is the camera_param.json record written once at session
// open: the calibration of both eyes plus the stereo baseline.
type CameraParameters struct {
	Left       PinholeCameraIntrinsics `json:"left"`
	Right      PinholeCameraIntrinsics `json:"right"`
	BaselineMM float64                 `json:"baseline_mm"`
}

// Save writes the record as JSON to the given path.
func (cp *CameraParameters) Save(path string) (err error) {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(cp)
}

// LoadCameraParameters reads a camera parameter record from the given path.
func LoadCameraParameters(path string) (*CameraParameters, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening camera parameter file")
	}
	defer utils.UncheckedErrorFunc(f.Close)

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(err, "error reading camera parameter file")
	}
	cp := &CameraParameters{}
	if err := json.Unmarshal(data, cp); err != nil {
		return nil, errors.Wrap(err, "error parsing camera parameter file")
	}
	if err := cp.Left.CheckValid(); err != nil {
		return nil, fmt.Errorf("left camera: %w", err)
	}
	return cp, nil
}
