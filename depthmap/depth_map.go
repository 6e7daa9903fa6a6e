// Package depthmap defines a floating point depth map and the normalization
// and false-color routines used to make one viewable.
//
// Depth values are distances in millimeters as reported by the stereo
// matcher. Pixels the matcher could not resolve carry NaN or +/-Inf
// sentinels and every routine in this package treats them as "no data".
package depthmap

import (
	"image"
	"math"

	"github.com/pkg/errors"
)

// ErrEmptyDepthRange is returned when a depth map has no finite values to
// compute a range over, e.g. a frame where stereo matching failed everywhere.
var ErrEmptyDepthRange = errors.New("depth map contains no finite values")

// DepthMap is a dense 2D grid of depth measurements in row-major order.
type DepthMap struct {
	width  int
	height int

	data []float32
}

// NewEmptyDepthMap returns a zeroed depth map of the given dimensions.
func NewEmptyDepthMap(width, height int) *DepthMap {
	return &DepthMap{
		width:  width,
		height: height,
		data:   make([]float32, width*height),
	}
}

// NewDepthMapFromData wraps existing row-major data. The slice is used
// directly, not copied.
func NewDepthMapFromData(width, height int, data []float32) (*DepthMap, error) {
	if len(data) != width*height {
		return nil, errors.Errorf("depth data length %d does not match %dx%d", len(data), width, height)
	}
	return &DepthMap{width: width, height: height, data: data}, nil
}

// Width returns the width in pixels.
func (dm *DepthMap) Width() int {
	return dm.width
}

// Height returns the height in pixels.
func (dm *DepthMap) Height() int {
	return dm.height
}

// Bounds returns the pixel bounds of the map.
func (dm *DepthMap) Bounds() image.Rectangle {
	return image.Rect(0, 0, dm.width, dm.height)
}

func (dm *DepthMap) kxy(x, y int) int {
	return y*dm.width + x
}

// GetDepth returns the depth at (x, y).
func (dm *DepthMap) GetDepth(x, y int) float32 {
	return dm.data[dm.kxy(x, y)]
}

// Set sets the depth at (x, y).
func (dm *DepthMap) Set(x, y int, val float32) {
	dm.data[dm.kxy(x, y)] = val
}

// Data returns the underlying row-major slice.
func (dm *DepthMap) Data() []float32 {
	return dm.data
}

// Clone returns a deep copy.
func (dm *DepthMap) Clone() *DepthMap {
	out := NewEmptyDepthMap(dm.width, dm.height)
	copy(out.data, dm.data)
	return out
}

func isFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FiniteMinMax returns the minimum and maximum over only the finite entries
// of the map. It returns ErrEmptyDepthRange if there are none.
func (dm *DepthMap) FiniteMinMax() (float64, float64, error) {
	min := math.Inf(1)
	max := math.Inf(-1)
	found := false
	for _, v := range dm.data {
		if !isFinite(v) {
			continue
		}
		found = true
		f := float64(v)
		if f < min {
			min = f
		}
		if f > max {
			max = f
		}
	}
	if !found {
		return 0, 0, ErrEmptyDepthRange
	}
	return min, max, nil
}

// FiniteMin returns the minimum over the finite entries of the map.
func (dm *DepthMap) FiniteMin() (float64, error) {
	min, _, err := dm.FiniteMinMax()
	return min, err
}

// FiniteMax returns the maximum over the finite entries of the map.
func (dm *DepthMap) FiniteMax() (float64, error) {
	_, max, err := dm.FiniteMinMax()
	return max, err
}
