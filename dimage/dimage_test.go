package dimage

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func makeImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestReadWriteImageFile(t *testing.T) {
	dir := t.TempDir()
	img := makeImage(8, 6, color.RGBA{200, 10, 10, 255})

	fn := filepath.Join(dir, "left_00000.png")
	test.That(t, WriteImageToFile(fn, img), test.ShouldBeNil)

	got, err := ReadImageFromFile(fn)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Bounds().Dx(), test.ShouldEqual, 8)
	test.That(t, got.Bounds().Dy(), test.ShouldEqual, 6)

	test.That(t, WriteImageToFile(filepath.Join(dir, "x.bmp"), img), test.ShouldNotBeNil)

	_, err = ReadImageFromFile(filepath.Join(dir, "missing.png"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestResize(t *testing.T) {
	img := makeImage(100, 200, color.RGBA{0, 128, 0, 255})

	half, err := Resize(img, 0.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, half.Bounds().Dx(), test.ShouldEqual, 50)
	test.That(t, half.Bounds().Dy(), test.ShouldEqual, 100)

	// non-exact fractions truncate
	small, err := Resize(makeImage(10, 10, color.RGBA{}), 0.33)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, small.Bounds().Dx(), test.ShouldEqual, 3)
	test.That(t, small.Bounds().Dy(), test.ShouldEqual, 3)

	_, err = Resize(img, 0)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = Resize(makeImage(2, 2, color.RGBA{}), 0.1)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSideBySide(t *testing.T) {
	left := makeImage(4, 3, color.RGBA{255, 0, 0, 255})
	right := makeImage(4, 3, color.RGBA{0, 0, 255, 255})

	both := SideBySide(left, right)
	test.That(t, both.Bounds().Dx(), test.ShouldEqual, 8)
	test.That(t, both.Bounds().Dy(), test.ShouldEqual, 3)
	test.That(t, both.RGBAAt(0, 0), test.ShouldResemble, color.RGBA{255, 0, 0, 255})
	test.That(t, both.RGBAAt(4, 0), test.ShouldResemble, color.RGBA{0, 0, 255, 255})
}

func TestSideBySideMismatchPanics(t *testing.T) {
	left := makeImage(4, 3, color.RGBA{})
	right := makeImage(5, 3, color.RGBA{})
	test.That(t, func() { SideBySide(left, right) }, test.ShouldPanic)
}

func TestConvertToRGBA(t *testing.T) {
	rgba := makeImage(2, 2, color.RGBA{1, 2, 3, 255})
	test.That(t, ConvertToRGBA(rgba), test.ShouldEqual, rgba)

	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(1, 1, color.Gray{Y: 99})
	conv := ConvertToRGBA(gray)
	test.That(t, conv.RGBAAt(1, 1).R, test.ShouldEqual, uint8(99))
}
