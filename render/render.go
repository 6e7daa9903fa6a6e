// Package render draws reconstructed point clouds back onto a 2D canvas so
// the 3D playback path has something to show on an image display.
package render

import (
	"image"
	"image/color"
	"sort"

	"github.com/fogleman/gg"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/zedview/zedview/pointcloud"
	"github.com/zedview/zedview/transform"
)

type projectedPoint struct {
	x, y int
	z    float64
	c    color.NRGBA
}

// ProjectPointCloud renders the cloud through the pinhole model onto a
// canvas of the model's dimensions. Points are drawn far to near so closer
// geometry wins overlapping pixels.
func ProjectPointCloud(
	cloud *pointcloud.PointCloud,
	params *transform.PinholeCameraIntrinsics,
) (image.Image, error) {
	if err := params.CheckValid(); err != nil {
		return nil, err
	}
	if cloud == nil {
		return nil, errors.New("no point cloud to render")
	}

	width, height := params.Width, params.Height
	projected := make([]projectedPoint, 0, cloud.Size())
	cloud.Iterate(func(pos r3.Vector, c color.NRGBA, hasColor bool) bool {
		px, py := params.PointToPixel(pos.X, pos.Y, pos.Z)
		x, y := int(px), int(py)
		if x < 0 || x >= width || y < 0 || y >= height {
			return true
		}
		if !hasColor {
			c = color.NRGBA{255, 255, 255, 255}
		}
		projected = append(projected, projectedPoint{x: x, y: y, z: pos.Z, c: c})
		return true
	})

	sort.Slice(projected, func(i, j int) bool {
		return projected[i].z > projected[j].z
	})

	dc := gg.NewContext(width, height)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	for _, p := range projected {
		dc.SetColor(p.c)
		dc.SetPixel(p.x, p.y)
	}
	return dc.Image(), nil
}
