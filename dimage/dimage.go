// Package dimage has helpers for reading, writing, and composing the images
// that flow through a capture session: left/right camera frames and
// colorized depth previews.
package dimage

import (
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// ReadImageFromFile reads an image from the given file, decoding by content.
func ReadImageFromFile(fn string) (image.Image, error) {
	//nolint:gosec
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", fn)
	}
	return img, nil
}

// WriteImageToFile writes an image to the given file, encoding based on the
// file extension.
func WriteImageToFile(fn string, img image.Image) (err error) {
	//nolint:gosec
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	switch filepath.Ext(fn) {
	case ".png":
		return png.Encode(f, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, nil)
	default:
		return errors.Errorf("dimage.WriteImageToFile unsupported format %q", filepath.Ext(fn))
	}
}

// Resize returns a copy of the image scaled by rate in both dimensions.
// Output dimensions truncate, so Resize(100x200, 0.33) is 33x66.
func Resize(img image.Image, rate float64) (image.Image, error) {
	if rate <= 0 {
		return nil, errors.Errorf("resize rate must be positive, got %f", rate)
	}
	bounds := img.Bounds()
	w := int(float64(bounds.Dx()) * rate)
	h := int(float64(bounds.Dy()) * rate)
	if w == 0 || h == 0 {
		return nil, errors.Errorf("resize rate %f of %dx%d leaves nothing", rate, bounds.Dx(), bounds.Dy())
	}
	return imaging.Resize(img, w, h, imaging.Lanczos), nil
}

// SideBySide concatenates left and right horizontally into one image.
// Dimension mismatch is a contract violation by the caller and panics.
func SideBySide(left, right image.Image) *image.RGBA {
	lb, rb := left.Bounds(), right.Bounds()
	if lb.Dx() != rb.Dx() || lb.Dy() != rb.Dy() {
		panic(errors.Errorf("dimage.SideBySide dimension mismatch %dx%d vs %dx%d",
			lb.Dx(), lb.Dy(), rb.Dx(), rb.Dy()))
	}

	out := image.NewRGBA(image.Rect(0, 0, lb.Dx()*2, lb.Dy()))
	draw.Draw(out, image.Rect(0, 0, lb.Dx(), lb.Dy()), left, lb.Min, draw.Src)
	draw.Draw(out, image.Rect(lb.Dx(), 0, lb.Dx()*2, lb.Dy()), right, rb.Min, draw.Src)
	return out
}

// ConvertToRGBA returns the image as an *image.RGBA, copying only if needed.
func ConvertToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
