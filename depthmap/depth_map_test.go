package depthmap

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func nan() float32 {
	return float32(math.NaN())
}

func inf(sign int) float32 {
	return float32(math.Inf(sign))
}

func TestNewDepthMapFromData(t *testing.T) {
	dm, err := NewDepthMapFromData(2, 3, make([]float32, 6))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dm.Width(), test.ShouldEqual, 2)
	test.That(t, dm.Height(), test.ShouldEqual, 3)

	_, err = NewDepthMapFromData(2, 3, make([]float32, 5))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGetSet(t *testing.T) {
	dm := NewEmptyDepthMap(4, 2)
	dm.Set(3, 1, 1500)
	test.That(t, dm.GetDepth(3, 1), test.ShouldEqual, float32(1500))
	test.That(t, dm.GetDepth(0, 0), test.ShouldEqual, float32(0))
}

func TestFiniteMinMax(t *testing.T) {
	dm, err := NewDepthMapFromData(3, 2, []float32{
		100, nan(), 2500,
		inf(1), 740, inf(-1),
	})
	test.That(t, err, test.ShouldBeNil)

	min, max, err := dm.FiniteMinMax()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, min, test.ShouldEqual, 100.0)
	test.That(t, max, test.ShouldEqual, 2500.0)

	min, err = dm.FiniteMin()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, min, test.ShouldEqual, 100.0)

	max, err = dm.FiniteMax()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, max, test.ShouldEqual, 2500.0)
}

func TestFiniteMinMaxAllInvalid(t *testing.T) {
	dm, err := NewDepthMapFromData(2, 2, []float32{nan(), nan(), inf(1), inf(-1)})
	test.That(t, err, test.ShouldBeNil)

	_, _, err = dm.FiniteMinMax()
	test.That(t, err, test.ShouldBeError, ErrEmptyDepthRange)
}

func TestFiniteMinMaxEmpty(t *testing.T) {
	dm := NewEmptyDepthMap(0, 0)
	_, _, err := dm.FiniteMinMax()
	test.That(t, err, test.ShouldBeError, ErrEmptyDepthRange)
}

func TestClone(t *testing.T) {
	dm := NewEmptyDepthMap(2, 2)
	dm.Set(1, 1, 42)
	dm2 := dm.Clone()
	dm2.Set(1, 1, 43)
	test.That(t, dm.GetDepth(1, 1), test.ShouldEqual, float32(42))
	test.That(t, dm2.GetDepth(1, 1), test.ShouldEqual, float32(43))
}
