package transform

import (
	"image"
	"image/color"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/zedview/zedview/depthmap"
	"github.com/zedview/zedview/pointcloud"
)

// RGBDToPointCloud projects an aligned color image and depth map through
// the pinhole model to a colored point cloud. Pixels whose depth is
// non-finite or non-positive are skipped.
func (params *PinholeCameraIntrinsics) RGBDToPointCloud(
	img image.Image,
	dm *depthmap.DepthMap,
) (*pointcloud.PointCloud, error) {
	if err := params.CheckValid(); err != nil {
		return nil, err
	}
	if img == nil || dm == nil {
		return nil, errors.New("need both a color image and a depth map")
	}
	bounds := img.Bounds()
	if bounds.Dx() != dm.Width() || bounds.Dy() != dm.Height() {
		return nil, errors.Errorf("color and depth dimensions don't match: %dx%d vs %dx%d",
			bounds.Dx(), bounds.Dy(), dm.Width(), dm.Height())
	}

	cloud := pointcloud.NewWithPrealloc(dm.Width() * dm.Height())
	for y := 0; y < dm.Height(); y++ {
		for x := 0; x < dm.Width(); x++ {
			z := float64(dm.GetDepth(x, y))
			if math.IsNaN(z) || math.IsInf(z, 0) || z <= 0 {
				continue
			}
			px, py, pz := params.PixelToPoint(float64(x), float64(y), z)
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			cloud.SetColored(
				r3.Vector{X: px, Y: py, Z: pz},
				color.NRGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 255},
			)
		}
	}
	return cloud, nil
}
