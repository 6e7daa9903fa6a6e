package depthmap

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// resolveRange fills in missing bounds from the finite range of the map.
func (dm *DepthMap) resolveRange(vmin, vmax *float64) (float64, float64, error) {
	if vmin != nil && vmax != nil {
		if *vmax < *vmin {
			return 0, 0, errors.Errorf("invalid depth range [%f, %f]", *vmin, *vmax)
		}
		// still reject maps with nothing to show
		if _, _, err := dm.FiniteMinMax(); err != nil {
			return 0, 0, err
		}
		return *vmin, *vmax, nil
	}
	min, max, err := dm.FiniteMinMax()
	if err != nil {
		return 0, 0, err
	}
	if vmin != nil {
		min = *vmin
	}
	if vmax != nil {
		max = *vmax
	}
	if max < min {
		return 0, 0, errors.Errorf("invalid depth range [%f, %f]", min, max)
	}
	return min, max, nil
}

// Normalize maps the depth values into an 8-bit grayscale image. A nil vmin
// or vmax defaults to the finite minimum or maximum of the map.
//
// Scaled values are saturated to [0, 255] rather than truncated; with
// externally supplied bounds the data routinely exceeds them and a wrapping
// cast would alias far pixels onto near ones. Non-finite input pixels map
// to 0.
func (dm *DepthMap) Normalize(vmin, vmax *float64) (*image.Gray, error) {
	min, max, err := dm.resolveRange(vmin, vmax)
	if err != nil {
		return nil, err
	}

	img := image.NewGray(dm.Bounds())
	span := max - min
	for y := 0; y < dm.height; y++ {
		for x := 0; x < dm.width; x++ {
			v := dm.data[dm.kxy(x, y)]
			if !isFinite(v) {
				continue
			}
			var scaled float64
			if span > 0 {
				scaled = (float64(v) - min) / span * 255.0
			}
			if scaled < 0 {
				scaled = 0
			} else if scaled > 255 {
				scaled = 255
			}
			img.SetGray(x, y, color.Gray{Y: uint8(scaled)})
		}
	}
	return img, nil
}

// Colorize normalizes the depth map and applies the palette, producing a
// 3-channel image of the same dimensions.
func (dm *DepthMap) Colorize(p Palette, vmin, vmax *float64) (*image.RGBA, error) {
	gray, err := dm.Normalize(vmin, vmax)
	if err != nil {
		return nil, err
	}
	return p.Apply(gray), nil
}
