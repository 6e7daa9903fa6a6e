package depthmap

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// Palette is a deterministic mapping from a normalized 8-bit depth value to
// a 3-channel color.
type Palette int

const (
	// PaletteGray replicates the normalized value across all three channels.
	PaletteGray Palette = iota
	// PaletteJet is the classic blue-cyan-yellow-red false color ramp.
	PaletteJet
	// PaletteInferno is a perceptually uniform black-purple-orange-yellow ramp.
	PaletteInferno
)

// ParsePalette maps a palette name to a Palette.
func ParsePalette(name string) (Palette, error) {
	switch name {
	case "gray", "grey":
		return PaletteGray, nil
	case "jet":
		return PaletteJet, nil
	case "inferno":
		return PaletteInferno, nil
	}
	return 0, errors.Errorf("unknown palette %q", name)
}

func (p Palette) String() string {
	switch p {
	case PaletteGray:
		return "gray"
	case PaletteJet:
		return "jet"
	case PaletteInferno:
		return "inferno"
	}
	return "unknown"
}

type paletteAnchor struct {
	pos float64
	c   colorful.Color
}

// buildLUT interpolates the anchor colors into a full 256 entry table.
func buildLUT(anchors []paletteAnchor) [256]color.RGBA {
	var lut [256]color.RGBA
	for i := 0; i < 256; i++ {
		pos := float64(i) / 255.0
		seg := 0
		for seg < len(anchors)-2 && pos > anchors[seg+1].pos {
			seg++
		}
		lo, hi := anchors[seg], anchors[seg+1]
		t := 0.0
		if hi.pos > lo.pos {
			t = (pos - lo.pos) / (hi.pos - lo.pos)
		}
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
		c := lo.c.BlendRgb(hi.c, t)
		r, g, b := c.RGB255()
		lut[i] = color.RGBA{r, g, b, 255}
	}
	return lut
}

var (
	jetLUT = buildLUT([]paletteAnchor{
		{0.0, colorful.Color{R: 0, G: 0, B: 0.5}},
		{0.125, colorful.Color{R: 0, G: 0, B: 1}},
		{0.375, colorful.Color{R: 0, G: 1, B: 1}},
		{0.625, colorful.Color{R: 1, G: 1, B: 0}},
		{0.875, colorful.Color{R: 1, G: 0, B: 0}},
		{1.0, colorful.Color{R: 0.5, G: 0, B: 0}},
	})

	// anchor points sampled from matplotlib's inferno table
	infernoLUT = buildLUT([]paletteAnchor{
		{0.0, colorful.Color{R: 0.001462, G: 0.000466, B: 0.013866}},
		{0.143, colorful.Color{R: 0.159018, G: 0.044559, B: 0.328722}},
		{0.286, colorful.Color{R: 0.387481, G: 0.084246, B: 0.502126}},
		{0.429, colorful.Color{R: 0.610667, G: 0.158508, B: 0.470805}},
		{0.571, colorful.Color{R: 0.812239, G: 0.266786, B: 0.335201}},
		{0.714, colorful.Color{R: 0.944006, G: 0.454210, B: 0.152563}},
		{0.857, colorful.Color{R: 0.981173, G: 0.693147, B: 0.165419}},
		{1.0, colorful.Color{R: 0.988362, G: 0.998364, B: 0.644924}},
	})
)

// Lookup returns the palette color for a normalized 8-bit value.
func (p Palette) Lookup(v uint8) color.RGBA {
	switch p {
	case PaletteJet:
		return jetLUT[v]
	case PaletteInferno:
		return infernoLUT[v]
	default:
		return color.RGBA{v, v, v, 255}
	}
}

// Apply maps every pixel of a grayscale image through the palette.
func (p Palette) Apply(gray *image.Gray) *image.RGBA {
	bounds := gray.Bounds()
	out := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.SetRGBA(x, y, p.Lookup(gray.GrayAt(x, y).Y))
		}
	}
	return out
}
