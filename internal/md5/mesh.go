package md5

import (
	"fmt"
	"os"
)

// LoadMesh reads and parses a .md5mesh file.
func LoadMesh(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("md5: read %s: %w", path, err)
	}
	m, err := ParseMesh(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseMesh parses a complete .md5mesh document. The grammar is positional:
// every tag must appear in order and nothing is inferred when one is missing.
func ParseMesh(data []byte) (*Model, error) {
	r := &reader{data: data}
	m := &Model{}
	var err error

	if err = r.keyword("MD5Version"); err != nil {
		return nil, err
	}
	if m.Version, err = r.integer(); err != nil {
		return nil, err
	}
	if err = r.keyword("commandline"); err != nil {
		return nil, err
	}
	if m.CommandLine, err = r.quoted(); err != nil {
		return nil, err
	}
	if m.NumJoints, err = r.count("numJoints"); err != nil {
		return nil, err
	}
	if m.NumMeshes, err = r.count("numMeshes"); err != nil {
		return nil, err
	}
	if m.Joints, err = r.joints(); err != nil {
		return nil, err
	}
	for r.peekWord("mesh") {
		mesh, err := r.mesh()
		if err != nil {
			return nil, err
		}
		m.Meshes = append(m.Meshes, mesh)
	}
	if !r.atEOF() {
		return nil, r.fail(r.off, `"mesh"`, ErrTagMismatch)
	}
	return m, nil
}

// count reads `<name> <uint>`.
func (r *reader) count(name string) (uint32, error) {
	if err := r.keyword(name); err != nil {
		return 0, err
	}
	return r.uinteger()
}

func (r *reader) joints() ([]Joint, error) {
	if err := r.keyword("joints"); err != nil {
		return nil, err
	}
	if err := r.tag("{"); err != nil {
		return nil, err
	}
	var joints []Joint
	for !r.atEOF() && !r.peek("}") {
		j, err := r.joint()
		if err != nil {
			return nil, err
		}
		joints = append(joints, j)
	}
	if err := r.tag("}"); err != nil {
		return nil, err
	}
	return joints, nil
}

// joint reads `"name" parent ( px py pz ) ( qx qy qz ) [// comment]`.
func (r *reader) joint() (Joint, error) {
	var j Joint
	var err error
	if j.Name, err = r.quoted(); err != nil {
		return j, err
	}
	if j.Parent, err = r.integer(); err != nil {
		return j, err
	}
	if j.Position, err = r.vec3(); err != nil {
		return j, err
	}
	if j.Orientation, err = r.quat(); err != nil {
		return j, err
	}
	r.comment()
	return j, nil
}

func (r *reader) mesh() (Mesh, error) {
	var m Mesh
	var err error
	if err = r.keyword("mesh"); err != nil {
		return m, err
	}
	if err = r.tag("{"); err != nil {
		return m, err
	}
	if err = r.keyword("shader"); err != nil {
		return m, err
	}
	if m.Shader, err = r.quoted(); err != nil {
		return m, err
	}

	if m.NumVerts, err = r.count("numverts"); err != nil {
		return m, err
	}
	for r.peekWord("vert") {
		v, err := r.vertex()
		if err != nil {
			return m, err
		}
		m.Vertices = append(m.Vertices, v)
	}
	sortVerticesByIndex(m.Vertices)

	if m.NumTris, err = r.count("numtris"); err != nil {
		return m, err
	}
	for r.peekWord("tri") {
		t, err := r.triangle()
		if err != nil {
			return m, err
		}
		m.Triangles = append(m.Triangles, t)
	}
	sortTrianglesByIndex(m.Triangles)

	if m.NumWeights, err = r.count("numweights"); err != nil {
		return m, err
	}
	for r.peekWord("weight") {
		w, err := r.weight()
		if err != nil {
			return m, err
		}
		m.Weights = append(m.Weights, w)
	}
	sortWeightsByIndex(m.Weights)

	if err = r.tag("}"); err != nil {
		return m, err
	}
	return m, nil
}

// vertex reads `vert <index> ( s t ) <startWeight> <weightCount>`.
func (r *reader) vertex() (Vertex, error) {
	var v Vertex
	var err error
	if err = r.keyword("vert"); err != nil {
		return v, err
	}
	if v.Index, err = r.uinteger(); err != nil {
		return v, err
	}
	if v.TexCoords, err = r.vec2(); err != nil {
		return v, err
	}
	if v.StartWeight, err = r.uinteger(); err != nil {
		return v, err
	}
	if v.WeightCount, err = r.uinteger(); err != nil {
		return v, err
	}
	r.comment()
	return v, nil
}

// triangle reads `tri <index> <v0> <v1> <v2>`.
func (r *reader) triangle() (Triangle, error) {
	var t Triangle
	var err error
	if err = r.keyword("tri"); err != nil {
		return t, err
	}
	if t.Index, err = r.uinteger(); err != nil {
		return t, err
	}
	for i := range t.Verts {
		if t.Verts[i], err = r.uinteger(); err != nil {
			return t, err
		}
	}
	r.comment()
	return t, nil
}

// weight reads `weight <index> <joint> <bias> ( x y z )`.
func (r *reader) weight() (Weight, error) {
	var w Weight
	var err error
	if err = r.keyword("weight"); err != nil {
		return w, err
	}
	if w.Index, err = r.uinteger(); err != nil {
		return w, err
	}
	if w.Joint, err = r.uinteger(); err != nil {
		return w, err
	}
	if w.Bias, err = r.bias(); err != nil {
		return w, err
	}
	if w.Position, err = r.vec3(); err != nil {
		return w, err
	}
	r.comment()
	return w, nil
}

func (r *reader) bias() (float32, error) {
	r.skipSpace()
	start := r.off
	b, err := r.float()
	if err != nil {
		return 0, err
	}
	if b < -1 || b > 1 {
		return 0, r.fail(start, "bias in [-1, 1]", ErrInvalidBias)
	}
	return b, nil
}
