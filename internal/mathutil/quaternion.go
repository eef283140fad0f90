package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// UnitQuat rebuilds a unit quaternion from its stored vector part.
// MD5 files keep only (x, y, z); the scalar part is always the negative root
// w = -sqrt(1 - x² - y² - z²), clamped to 0 when the stored vector is
// slightly longer than 1 from rounding.
func UnitQuat(x, y, z float32) mgl32.Quat {
	t := 1 - x*x - y*y - z*z
	if t < 0 {
		t = 0
	}
	w := -float32(math.Sqrt(float64(t)))
	return mgl32.Quat{W: w, V: mgl32.Vec3{x, y, z}}
}
