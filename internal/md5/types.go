// Package md5 parses the Doom 3 MD5 skeletal formats: .md5mesh models and
// .md5anim animations.
package md5

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Joint is one bind-pose joint of a model. Position and Orientation are
// already in model space, not relative to the parent.
type Joint struct {
	Name        string
	Parent      int32 // -1 for a root joint
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// Vertex references the run Weights[StartWeight : StartWeight+WeightCount].
type Vertex struct {
	Index       uint32
	TexCoords   mgl32.Vec2
	StartWeight uint32
	WeightCount uint32
}

// Triangle references vertices by their Index field.
type Triangle struct {
	Index uint32
	Verts [3]uint32
}

// Weight places a vertex contribution in the space of one joint.
type Weight struct {
	Index    uint32
	Joint    uint32
	Bias     float32 // within [-1, 1]
	Position mgl32.Vec3
}

// Mesh is one submesh block. Vertices, Triangles and Weights are sorted by
// Index regardless of their order in the file. The Num* fields hold the
// counts the file declared; they are not checked against the lists.
type Mesh struct {
	Shader     string
	NumVerts   uint32
	NumTris    uint32
	NumWeights uint32
	Vertices   []Vertex
	Triangles  []Triangle
	Weights    []Weight
}

// Model is a parsed .md5mesh document.
type Model struct {
	Version     int32
	CommandLine string
	NumJoints   uint32
	NumMeshes   uint32
	Joints      []Joint
	Meshes      []Mesh
}

// Records are materialized in Index order; the sort key is the explicit
// Index field, never the position in the file.

func sortVerticesByIndex(v []Vertex) {
	sort.SliceStable(v, func(i, j int) bool { return v[i].Index < v[j].Index })
}

func sortTrianglesByIndex(t []Triangle) {
	sort.SliceStable(t, func(i, j int) bool { return t[i].Index < t[j].Index })
}

func sortWeightsByIndex(w []Weight) {
	sort.SliceStable(w, func(i, j int) bool { return w[i].Index < w[j].Index })
}
