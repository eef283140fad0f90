// Package report summarizes parsed MD5 documents and flags data that
// parses cleanly but will not skin or animate as intended.
package report

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"md5-bind-renderer/internal/md5"
	"md5-bind-renderer/internal/skin"
)

// BiasTolerance is how far a vertex's bias sum may stray from 1.
const BiasTolerance = 0.01

// Submesh describes one mesh block.
type Submesh struct {
	Shader string

	Vertices, Triangles, Weights int
	DeclaredVerts                uint32
	DeclaredTris                 uint32
	DeclaredWeights              uint32

	// BiasMin and BiasMax bound the per-vertex bias sums.
	BiasMin, BiasMax float64
	// BiasOff lists vertices whose bias sum is outside 1±BiasTolerance.
	BiasOff []uint32
	// Unreferenced lists vertices no triangle uses; their normals are zero.
	Unreferenced []uint32

	// Bounds is set when skinned buffers were supplied.
	Bounds    r3.Box
	HasBounds bool
}

// CountMismatch reports whether the declared counts disagree with the
// records actually present.
func (s *Submesh) CountMismatch() bool {
	return int(s.DeclaredVerts) != s.Vertices ||
		int(s.DeclaredTris) != s.Triangles ||
		int(s.DeclaredWeights) != s.Weights
}

// MeshReport summarizes a .md5mesh document.
type MeshReport struct {
	Version        int32
	CommandLine    string
	Joints         int
	DeclaredJoints uint32
	DeclaredMeshes uint32
	Roots          int
	BadParents     []string
	Submeshes      []Submesh
	Vertices       int
	Triangles      int
	Bounds         r3.Box
	HasBounds      bool
	IndexFits16    bool
	IndexFitsSet   bool
}

// Mesh inspects model. b may be nil; when given it must have been built
// from every submesh of model so its ranges line up with model.Meshes.
func Mesh(model *md5.Model, b *skin.Buffers) *MeshReport {
	r := &MeshReport{
		Version:        model.Version,
		CommandLine:    model.CommandLine,
		Joints:         len(model.Joints),
		DeclaredJoints: model.NumJoints,
		DeclaredMeshes: model.NumMeshes,
	}
	for i, j := range model.Joints {
		switch {
		case j.Parent < 0:
			r.Roots++
		case int(j.Parent) >= i:
			// Parents precede children in a well-formed hierarchy.
			r.BadParents = append(r.BadParents, j.Name)
		}
	}

	for i := range model.Meshes {
		m := &model.Meshes[i]
		s := submesh(m)
		r.Vertices += s.Vertices
		r.Triangles += s.Triangles
		r.Submeshes = append(r.Submeshes, s)
	}

	if b != nil {
		if box, ok := bounds(b.Positions); ok {
			r.Bounds, r.HasBounds = box, true
		}
		r.IndexFits16, r.IndexFitsSet = b.Fits16(), true
		if len(b.Ranges) == len(r.Submeshes) {
			for i, rg := range b.Ranges {
				if box, ok := bounds(b.Positions[rg.BaseVertex : rg.BaseVertex+rg.VertexCount]); ok {
					r.Submeshes[i].Bounds, r.Submeshes[i].HasBounds = box, true
				}
			}
		}
	}
	return r
}

func submesh(m *md5.Mesh) Submesh {
	s := Submesh{
		Shader:          m.Shader,
		Vertices:        len(m.Vertices),
		Triangles:       len(m.Triangles),
		Weights:         len(m.Weights),
		DeclaredVerts:   m.NumVerts,
		DeclaredTris:    m.NumTris,
		DeclaredWeights: m.NumWeights,
	}

	sums := make([]float64, len(m.Vertices))
	for i, v := range m.Vertices {
		end := min(uint64(v.StartWeight)+uint64(v.WeightCount), uint64(len(m.Weights)))
		for k := uint64(v.StartWeight); k < end; k++ {
			sums[i] += float64(m.Weights[k].Bias)
		}
		if math.Abs(sums[i]-1) > BiasTolerance {
			s.BiasOff = append(s.BiasOff, v.Index)
		}
	}
	if len(sums) > 0 {
		s.BiasMin, s.BiasMax = floats.Min(sums), floats.Max(sums)
	}

	used := make([]bool, len(m.Vertices))
	for _, t := range m.Triangles {
		for _, vi := range t.Verts {
			if int(vi) < len(used) {
				used[vi] = true
			}
		}
	}
	for i, u := range used {
		if !u {
			s.Unreferenced = append(s.Unreferenced, m.Vertices[i].Index)
		}
	}
	return s
}

func bounds[V ~[3]float32](pts []V) (r3.Box, bool) {
	if len(pts) == 0 {
		return r3.Box{}, false
	}
	inf := math.Inf(1)
	box := r3.Box{Min: r3.Vec{X: inf, Y: inf, Z: inf}, Max: r3.Vec{X: -inf, Y: -inf, Z: -inf}}
	for _, p := range pts {
		v := r3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
		box.Min = r3.Vec{X: math.Min(box.Min.X, v.X), Y: math.Min(box.Min.Y, v.Y), Z: math.Min(box.Min.Z, v.Z)}
		box.Max = r3.Vec{X: math.Max(box.Max.X, v.X), Y: math.Max(box.Max.Y, v.Y), Z: math.Max(box.Max.Z, v.Z)}
	}
	return box, true
}

// Size returns the box extent along each axis.
func Size(b r3.Box) r3.Vec {
	return r3.Sub(b.Max, b.Min)
}
