package viewmatrix

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"md5-bind-renderer/internal/mathutil"
)

func TestFitCentersAndScales(t *testing.T) {
	pos := []mgl32.Vec3{{-2, -1, 0}, {2, 1, 5}}
	p := Fit(pos, mathutil.Mat3Identity(), 100, 10)
	if p.Scale != 20 {
		t.Fatalf("Scale\nhave %v\nwant 20", p.Scale)
	}
	px, py, pz := p.ProjectVertices(pos)
	want := [][3]float64{{10, 70, 0}, {90, 30, 5}}
	for i := range pos {
		if math.Abs(px[i]-want[i][0]) > 1e-9 || math.Abs(py[i]-want[i][1]) > 1e-9 || pz[i] != want[i][2] {
			t.Fatalf("vertex %d\nhave (%v, %v, %v)\nwant %v", i, px[i], py[i], pz[i], want[i])
		}
	}
}

func TestFitDegenerate(t *testing.T) {
	p := Fit(nil, mathutil.Mat3Identity(), 64, 4)
	if p.Scale != 1 {
		t.Fatalf("empty Scale\nhave %v\nwant 1", p.Scale)
	}
	p = Fit([]mgl32.Vec3{{1, 1, 1}}, mathutil.Mat3Identity(), 64, 4)
	if math.IsInf(p.Scale, 0) || math.IsNaN(p.Scale) {
		t.Fatalf("single point Scale %v", p.Scale)
	}
}

func TestRotateNormals(t *testing.T) {
	p := Projection{R: mathutil.ModelFlip}
	have := p.RotateNormals([]mgl32.Vec3{{0, 0, 1}, {}})
	if math.Abs(have[0][1]-1) > 1e-9 {
		t.Fatalf("up normal\nhave %v\nwant (0, 1, 0)", have[0])
	}
	if have[1] != (mathutil.Vec3{}) {
		t.Fatalf("zero normal\nhave %v", have[1])
	}
}
