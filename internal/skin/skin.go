package skin

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"md5-bind-renderer/internal/md5"
)

// Options tunes Build and Normals.
type Options struct {
	// StrictNormals fails with ErrDegenerateNormal when a vertex is used by
	// no triangle. Otherwise such a vertex keeps the zero normal.
	StrictNormals bool

	// Keep selects submeshes by shader name. Nil keeps every submesh.
	Keep func(shader string) bool
}

// Positions blends every vertex of m over its weight run:
//
//	pos = Σ bias · (joint.Position + joint.Orientation ⊗ weight.Position)
//
// Biases are used as stored; they are not re-normalized. A vertex with no
// weights lands on the origin.
func Positions(m *md5.Mesh, pose []JointPose) ([]mgl32.Vec3, error) {
	out := make([]mgl32.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		end := uint64(v.StartWeight) + uint64(v.WeightCount)
		if end > uint64(len(m.Weights)) {
			return nil, fmt.Errorf("%w: vertex %d weights [%d:%d] of %d",
				ErrBounds, v.Index, v.StartWeight, end, len(m.Weights))
		}
		var p mgl32.Vec3
		for _, w := range m.Weights[v.StartWeight:end] {
			if uint64(w.Joint) >= uint64(len(pose)) {
				return nil, fmt.Errorf("%w: weight %d joint %d of %d", ErrBounds, w.Index, w.Joint, len(pose))
			}
			p = p.Add(pose[w.Joint].Transform(w.Position).Mul(w.Bias))
		}
		out[i] = p
	}
	return out, nil
}

// Normals computes smoothed vertex normals. Each triangle adds its
// unnormalized face cross product (v2-v0)×(v1-v0) to its three corners, so
// larger faces weigh more; the sums are normalized at the end.
func Normals(m *md5.Mesh, positions []mgl32.Vec3, opts Options) ([]mgl32.Vec3, error) {
	acc := make([]mgl32.Vec3, len(positions))
	n := uint64(len(positions))
	for _, tri := range m.Triangles {
		i0, i1, i2 := tri.Verts[0], tri.Verts[1], tri.Verts[2]
		if uint64(i0) >= n || uint64(i1) >= n || uint64(i2) >= n {
			return nil, fmt.Errorf("%w: triangle %d vertices %v of %d", ErrBounds, tri.Index, tri.Verts, n)
		}
		v0 := positions[i0]
		c := positions[i2].Sub(v0).Cross(positions[i1].Sub(v0))
		acc[i0] = acc[i0].Add(c)
		acc[i1] = acc[i1].Add(c)
		acc[i2] = acc[i2].Add(c)
	}
	for i, a := range acc {
		l := a.Len()
		if l == 0 {
			if opts.StrictNormals {
				return nil, fmt.Errorf("%w: vertex %d", ErrDegenerateNormal, i)
			}
			continue
		}
		acc[i] = a.Mul(1 / l)
	}
	return acc, nil
}

// Indices flattens the triangles into (v0, v1, v2) order.
func Indices(m *md5.Mesh) []uint32 {
	out := make([]uint32, 0, 3*len(m.Triangles))
	for _, t := range m.Triangles {
		out = append(out, t.Verts[0], t.Verts[1], t.Verts[2])
	}
	return out
}

// TexCoords returns the per-vertex texture coordinates in vertex order.
func TexCoords(m *md5.Mesh) []mgl32.Vec2 {
	out := make([]mgl32.Vec2, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = v.TexCoords
	}
	return out
}
