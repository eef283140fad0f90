// Package export writes skinned buffers as glTF 2.0.
package export

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"md5-bind-renderer/internal/skin"
)

// Document builds a glTF document holding one mesh named name with one
// triangle primitive per submesh range. Each primitive carries its own
// POSITION, NORMAL and TEXCOORD_0 accessors and range-local indices,
// stored as 16-bit when they fit and 32-bit otherwise. The root node
// rotates the Z-up model into glTF's Y-up space.
func Document(b *skin.Buffers, name string) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	mesh := &gltf.Mesh{Name: name}

	for i, r := range b.Ranges {
		if r.BaseVertex+r.VertexCount > len(b.Positions) || r.FirstIndex+r.IndexCount > len(b.Indices) {
			return nil, fmt.Errorf("export: range %d (%s) outside buffers: %w", i, r.Shader, skin.ErrBounds)
		}
		lo, hi := r.BaseVertex, r.BaseVertex+r.VertexCount

		local := make([]uint32, r.IndexCount)
		for k, idx := range b.Indices[r.FirstIndex : r.FirstIndex+r.IndexCount] {
			if int(idx) < lo || int(idx) >= hi {
				return nil, fmt.Errorf("export: range %d (%s) index %d outside [%d, %d): %w",
					i, r.Shader, idx, lo, hi, skin.ErrBounds)
			}
			local[k] = idx - uint32(lo)
		}

		attrs := map[string]int{
			gltf.POSITION: modeler.WritePosition(doc, vec3s(b.Positions[lo:hi])),
		}
		if len(b.Normals) >= hi {
			attrs[gltf.NORMAL] = modeler.WriteNormal(doc, unitNormals(b.Normals[lo:hi]))
		}
		if len(b.TexCoords) >= hi {
			attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, vec2s(b.TexCoords[lo:hi]))
		}

		var indices int
		if narrow, err := skin.Narrow[uint16](local); err == nil {
			indices = modeler.WriteIndices(doc, narrow)
		} else {
			indices = modeler.WriteIndices(doc, local)
		}

		doc.Materials = append(doc.Materials, &gltf.Material{Name: r.Shader, DoubleSided: true})
		mesh.Primitives = append(mesh.Primitives, &gltf.Primitive{
			Attributes: attrs,
			Indices:    gltf.Index(indices),
			Material:   gltf.Index(len(doc.Materials) - 1),
			Mode:       gltf.PrimitiveTriangles,
		})
	}

	doc.Meshes = append(doc.Meshes, mesh)
	node := &gltf.Node{Name: name, Mesh: gltf.Index(len(doc.Meshes) - 1)}
	// Rx(-90°) as (x, y, z, w)
	node.Rotation[0] = -math.Sqrt2 / 2
	node.Rotation[1] = 0
	node.Rotation[2] = 0
	node.Rotation[3] = math.Sqrt2 / 2
	doc.Nodes = append(doc.Nodes, node)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	return doc, nil
}

// Save writes doc to path: binary glTF for ".glb", JSON with an embedded
// buffer otherwise.
func Save(doc *gltf.Document, path string) error {
	var err error
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		err = gltf.SaveBinary(doc, path)
	} else {
		err = gltf.Save(doc, path)
	}
	if err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	return nil
}

func vec3s(v []mgl32.Vec3) [][3]float32 {
	out := make([][3]float32, len(v))
	for i := range v {
		out[i] = v[i]
	}
	return out
}

func vec2s(v []mgl32.Vec2) [][2]float32 {
	out := make([][2]float32, len(v))
	for i := range v {
		out[i] = v[i]
	}
	return out
}

// unitNormals replaces zero normals with +Z; glTF requires NORMAL to be
// unit length.
func unitNormals(v []mgl32.Vec3) [][3]float32 {
	out := vec3s(v)
	for i, n := range out {
		if n == ([3]float32{}) {
			out[i] = [3]float32{0, 0, 1}
		}
	}
	return out
}
