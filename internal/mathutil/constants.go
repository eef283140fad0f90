package mathutil

import "math"

// ModelFlip converts the Z-up MD5 model space to the Y-up view space: Rx(-90°).
var ModelFlip = RotX(math.Pi / -2)

// OrbitView returns the preview camera rotation for an orbit around the model:
// Rx(pitch) @ Ry(yaw) @ ModelFlip. Angles are in degrees.
func OrbitView(yawDeg, pitchDeg float64) Mat3 {
	return Mat3Mul(Mat3Mul(RotX(Deg2Rad(pitchDeg)), RotY(Deg2Rad(yawDeg))), ModelFlip)
}
