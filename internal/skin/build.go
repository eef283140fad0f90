package skin

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"md5-bind-renderer/internal/md5"
)

// Range locates one submesh inside the merged buffers.
type Range struct {
	Shader      string
	BaseVertex  int
	VertexCount int
	FirstIndex  int
	IndexCount  int
}

// Buffers is a merged, render-ready model. Indices are absolute into
// Positions/Normals/TexCoords.
type Buffers struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Indices   []uint32
	Ranges    []Range
}

// VertexCount returns the merged vertex total.
func (b *Buffers) VertexCount() int { return len(b.Positions) }

// TriangleCount returns the merged triangle total.
func (b *Buffers) TriangleCount() int { return len(b.Indices) / 3 }

type submesh struct {
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	texCoords []mgl32.Vec2
	indices   []uint32
	err       error
}

func buildSubmesh(m *md5.Mesh, pose []JointPose, opts Options) submesh {
	pos, err := Positions(m, pose)
	if err != nil {
		return submesh{err: err}
	}
	nrm, err := Normals(m, pos, opts)
	if err != nil {
		return submesh{err: err}
	}
	return submesh{positions: pos, normals: nrm, texCoords: TexCoords(m), indices: Indices(m)}
}

// Build skins every selected submesh of model with pose and merges them in
// document order. Each submesh's indices are offset by the number of
// vertices merged before it. Submeshes are evaluated concurrently; the
// first failing submesh in document order decides the returned error.
func Build(model *md5.Model, pose []JointPose, opts Options) (*Buffers, error) {
	var meshes []*md5.Mesh
	for i := range model.Meshes {
		m := &model.Meshes[i]
		if opts.Keep != nil && !opts.Keep(m.Shader) {
			continue
		}
		meshes = append(meshes, m)
	}

	results := make([]submesh, len(meshes))
	var wg sync.WaitGroup
	for i, m := range meshes {
		wg.Add(1)
		go func(i int, m *md5.Mesh) {
			defer wg.Done()
			results[i] = buildSubmesh(m, pose, opts)
		}(i, m)
	}
	wg.Wait()

	var nv, ni int
	for i, r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("mesh %d (%s): %w", i, meshes[i].Shader, r.err)
		}
		nv += len(r.positions)
		ni += len(r.indices)
	}

	b := &Buffers{
		Positions: make([]mgl32.Vec3, 0, nv),
		Normals:   make([]mgl32.Vec3, 0, nv),
		TexCoords: make([]mgl32.Vec2, 0, nv),
		Indices:   make([]uint32, 0, ni),
		Ranges:    make([]Range, 0, len(results)),
	}
	for i, r := range results {
		base := len(b.Positions)
		if uint64(base)+uint64(len(r.positions)) > 1<<32 {
			return nil, fmt.Errorf("skin: mesh %d: vertex offset %d: %w", i, base, ErrIndexOverflow)
		}
		b.Ranges = append(b.Ranges, Range{
			Shader:      meshes[i].Shader,
			BaseVertex:  base,
			VertexCount: len(r.positions),
			FirstIndex:  len(b.Indices),
			IndexCount:  len(r.indices),
		})
		b.Positions = append(b.Positions, r.positions...)
		b.Normals = append(b.Normals, r.normals...)
		b.TexCoords = append(b.TexCoords, r.texCoords...)
		for _, idx := range r.indices {
			b.Indices = append(b.Indices, idx+uint32(base))
		}
	}
	return b, nil
}

// BuildBind is Build with the model's own bind pose.
func BuildBind(model *md5.Model, opts Options) (*Buffers, error) {
	return Build(model, BindPose(model.Joints), opts)
}
