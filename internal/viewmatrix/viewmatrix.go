package viewmatrix

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"md5-bind-renderer/internal/mathutil"
)

// Projection maps view-space points to screen pixels orthographically.
type Projection struct {
	R          mathutil.Mat3
	Center     mathutil.Vec3
	Scale      float64
	RenderSize int
}

// Fit builds an orthographic projection of positions under the view
// rotation R that fits the larger XY span into renderSize minus margin
// on each side.
func Fit(positions []mgl32.Vec3, R mathutil.Mat3, renderSize, margin int) Projection {
	p := Projection{R: R, Scale: 1, RenderSize: renderSize}
	if len(positions) == 0 {
		return p
	}

	allMin := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	allMax := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range positions {
		t := R.MulVec3(mathutil.FromMgl(v))
		for k := 0; k < 3; k++ {
			allMin[k] = math.Min(allMin[k], t[k])
			allMax[k] = math.Max(allMax[k], t[k])
		}
	}

	p.Center = allMin.Add(allMax).Scale(0.5)
	span := math.Max(allMax[0]-allMin[0], allMax[1]-allMin[1])
	if span < 0.001 {
		span = 0.001
	}
	avail := renderSize - 2*margin
	if avail < 1 {
		avail = renderSize
	}
	p.Scale = float64(avail) / span
	return p
}

// ProjectVertices transforms positions to screen coordinates.
// Returns px, py, pz slices (screen X, screen Y, depth toward the viewer).
func (p Projection) ProjectVertices(positions []mgl32.Vec3) ([]float64, []float64, []float64) {
	n := len(positions)
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)

	half := float64(p.RenderSize) / 2
	for i, v := range positions {
		t := p.R.MulVec3(mathutil.FromMgl(v))
		px[i] = (t[0]-p.Center[0])*p.Scale + half
		py[i] = -(t[1]-p.Center[1])*p.Scale + half
		pz[i] = t[2]
	}
	return px, py, pz
}

// RotateNormals brings model-space normals into view space. Zero normals
// stay zero.
func (p Projection) RotateNormals(normals []mgl32.Vec3) []mathutil.Vec3 {
	out := make([]mathutil.Vec3, len(normals))
	for i, n := range normals {
		out[i] = p.R.MulVec3(mathutil.FromMgl(n))
	}
	return out
}
