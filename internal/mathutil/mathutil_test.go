package mathutil

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestUnitQuat(t *testing.T) {
	cases := []struct {
		x, y, z float32
	}{
		{0, 0, 0},
		{-0.022398, 0.133633, 0.852234},
		{0.307041, -0.578615, 0.354181},
		{0.001203, -0.000819, 0.001678},
		{1, 0, 0},
		{-0.5, 0.5, -0.5},
	}
	for _, c := range cases {
		q := UnitQuat(c.x, c.y, c.z)
		if q.V != (mgl32.Vec3{c.x, c.y, c.z}) {
			t.Fatalf("UnitQuat(%v, %v, %v).V\nhave %v\nwant [%v %v %v]", c.x, c.y, c.z, q.V, c.x, c.y, c.z)
		}
		if q.W > 0 {
			t.Fatalf("UnitQuat(%v, %v, %v).W\nhave %v\nwant <= 0", c.x, c.y, c.z, q.W)
		}
		if n := q.Len(); math.Abs(float64(n)-1) > 1e-5 {
			t.Fatalf("UnitQuat(%v, %v, %v).Len\nhave %v\nwant 1", c.x, c.y, c.z, n)
		}
	}
}

func TestUnitQuatGolden(t *testing.T) {
	q := UnitQuat(-0.022398, 0.133633, 0.852234)
	// 1 - x² - y² - z² = 0.25533772
	want := -math.Sqrt(0.25533772)
	if math.Abs(float64(q.W)-want) > 1e-5 {
		t.Fatalf("UnitQuat.W\nhave %v\nwant %v", q.W, want)
	}
}

func TestUnitQuatClampsOverlongVector(t *testing.T) {
	q := UnitQuat(-0.707107, -0.000242, -0.707107)
	if q.W != 0 {
		t.Fatalf("UnitQuat.W\nhave %v\nwant 0", q.W)
	}
	if math.IsNaN(float64(q.W)) {
		t.Fatal("UnitQuat.W is NaN")
	}
}

func TestOrbitViewFlipsZUp(t *testing.T) {
	up := OrbitView(0, 0).MulVec3(Vec3{0, 0, 1})
	if up.Sub(Vec3{0, 1, 0}).Len() > 1e-12 {
		t.Fatalf("OrbitView(0, 0) × +Z\nhave %v\nwant [0 1 0]", up)
	}
}

func TestVec3Normalize(t *testing.T) {
	if n := (Vec3{0, 0, -2}).Normalize(); n != (Vec3{0, 0, -1}) {
		t.Fatalf("Vec3.Normalize\nhave %v\nwant [0 0 -1]", n)
	}
	if n := (Vec3{}).Normalize(); n != (Vec3{}) {
		t.Fatalf("Vec3.Normalize(zero)\nhave %v\nwant [0 0 0]", n)
	}
	if c := (Vec3{0, 0, -1}).Cross(Vec3{0, 1, 0}); c != (Vec3{1, 0, 0}) {
		t.Fatalf("Vec3.Cross\nhave %v\nwant [1 0 0]", c)
	}
}
