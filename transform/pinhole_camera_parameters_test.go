package transform

import (
	"image"
	"image/color"
	"math"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/zedview/zedview/depthmap"
)

func testIntrinsics() *PinholeCameraIntrinsics {
	return &PinholeCameraIntrinsics{
		Width:  4,
		Height: 3,
		Fx:     100,
		Fy:     100,
		Ppx:    2,
		Ppy:    1.5,
	}
}

func TestCheckValid(t *testing.T) {
	good := testIntrinsics()
	test.That(t, good.CheckValid(), test.ShouldBeNil)

	var nilParams *PinholeCameraIntrinsics
	err := nilParams.CheckValid()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, ErrNoIntrinsics), test.ShouldBeTrue)

	bad := testIntrinsics()
	bad.Fx = 0
	test.That(t, bad.CheckValid(), test.ShouldNotBeNil)

	bad = testIntrinsics()
	bad.Width = 0
	test.That(t, bad.CheckValid(), test.ShouldNotBeNil)
}

func TestPixelPointRoundTrip(t *testing.T) {
	params := testIntrinsics()

	x, y, z := params.PixelToPoint(3, 2, 1000)
	px, py := params.PointToPixel(x, y, z)
	test.That(t, px, test.ShouldEqual, 3.0)
	test.That(t, py, test.ShouldEqual, 2.0)

	// zero depth projects off-image
	px, py = params.PointToPixel(1, 1, 0)
	test.That(t, px, test.ShouldBeLessThan, 0.0)
	test.That(t, py, test.ShouldBeLessThan, 0.0)
}

func TestGetCameraMatrix(t *testing.T) {
	params := testIntrinsics()
	m := params.GetCameraMatrix()
	test.That(t, m.At(0, 0), test.ShouldEqual, params.Fx)
	test.That(t, m.At(1, 1), test.ShouldEqual, params.Fy)
	test.That(t, m.At(0, 2), test.ShouldEqual, params.Ppx)
	test.That(t, m.At(1, 2), test.ShouldEqual, params.Ppy)
	test.That(t, m.At(2, 2), test.ShouldEqual, 1.0)
}

func TestCameraParametersSaveLoad(t *testing.T) {
	cp := &CameraParameters{
		Left:       *testIntrinsics(),
		Right:      *testIntrinsics(),
		BaselineMM: 120,
	}
	fn := filepath.Join(t.TempDir(), "camera_param.json")
	test.That(t, cp.Save(fn), test.ShouldBeNil)

	got, err := LoadCameraParameters(fn)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldResemble, cp)

	_, err = LoadCameraParameters(filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLoadCameraParametersRejectsInvalid(t *testing.T) {
	cp := &CameraParameters{Left: PinholeCameraIntrinsics{}}
	fn := filepath.Join(t.TempDir(), "camera_param.json")
	test.That(t, cp.Save(fn), test.ShouldBeNil)

	_, err := LoadCameraParameters(fn)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, ErrNoIntrinsics), test.ShouldBeTrue)
}

func TestRGBDToPointCloud(t *testing.T) {
	params := testIntrinsics()

	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(40 * x), uint8(40 * y), 0, 255})
		}
	}
	dm := depthmap.NewEmptyDepthMap(4, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			dm.Set(x, y, 1000)
		}
	}
	// invalid pixels are skipped
	dm.Set(0, 0, float32(math.NaN()))
	dm.Set(1, 0, float32(math.Inf(1)))
	dm.Set(2, 0, 0)

	cloud, err := params.RGBDToPointCloud(img, dm)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cloud.Size(), test.ShouldEqual, 4*3-3)
	test.That(t, cloud.MetaData().HasColor, test.ShouldBeTrue)

	// the principal point pixel projects straight ahead
	x, y, z := params.PixelToPoint(2, 1.5, 1000)
	test.That(t, x, test.ShouldEqual, 0.0)
	test.That(t, y, test.ShouldEqual, 0.0)
	test.That(t, z, test.ShouldEqual, 1000.0)
}

func TestRGBDToPointCloudMismatch(t *testing.T) {
	params := testIntrinsics()
	img := image.NewRGBA(image.Rect(0, 0, 5, 3))
	dm := depthmap.NewEmptyDepthMap(4, 3)

	_, err := params.RGBDToPointCloud(img, dm)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "don't match")
}
