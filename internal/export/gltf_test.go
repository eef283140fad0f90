package export

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"md5-bind-renderer/internal/skin"
)

func twoQuads() *skin.Buffers {
	b := &skin.Buffers{}
	for q, shader := range []string{"body", "head"} {
		base := len(b.Positions)
		z := float32(q)
		b.Positions = append(b.Positions, mgl32.Vec3{0, 0, z}, mgl32.Vec3{1, 0, z}, mgl32.Vec3{1, 1, z}, mgl32.Vec3{0, 1, z})
		b.Normals = append(b.Normals, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{})
		b.TexCoords = append(b.TexCoords, mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, mgl32.Vec2{1, 1}, mgl32.Vec2{0, 1})
		first := len(b.Indices)
		for _, i := range []uint32{0, 1, 2, 0, 2, 3} {
			b.Indices = append(b.Indices, i+uint32(base))
		}
		b.Ranges = append(b.Ranges, skin.Range{
			Shader: shader, BaseVertex: base, VertexCount: 4, FirstIndex: first, IndexCount: 6,
		})
	}
	return b
}

func TestDocumentRoundTrip(t *testing.T) {
	const ext = ".glb"
	doc, err := Document(twoQuads(), "bob")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	path := filepath.Join(t.TempDir(), "bob"+ext)
	if err := Save(doc, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := gltf.Open(path)
	if err != nil {
		t.Fatalf("Open %s: %v", ext, err)
	}
	if len(got.Meshes) != 1 || len(got.Meshes[0].Primitives) != 2 {
		t.Fatalf("%s meshes\nhave %d meshes", ext, len(got.Meshes))
	}
	if got.Meshes[0].Name != "bob" || len(got.Nodes) != 1 {
		t.Fatalf("%s mesh name %q, %d nodes", ext, got.Meshes[0].Name, len(got.Nodes))
	}
	for p, prim := range got.Meshes[0].Primitives {
		acc := got.Accessors[*prim.Indices]
		if acc.ComponentType == gltf.ComponentUint {
			t.Fatalf("%s primitive %d small indices stored as uint32", ext, p)
		}
		idx, err := modeler.ReadIndices(got, acc, nil)
		if err != nil {
			t.Fatalf("ReadIndices: %v", err)
		}
		if want := []uint32{0, 1, 2, 0, 2, 3}; !reflect.DeepEqual(idx, want) {
			t.Fatalf("%s primitive %d indices\nhave %v\nwant %v", ext, p, idx, want)
		}
		pos, err := modeler.ReadPosition(got, got.Accessors[prim.Attributes[gltf.POSITION]], nil)
		if err != nil {
			t.Fatalf("ReadPosition: %v", err)
		}
		if len(pos) != 4 || pos[0][2] != float32(p) {
			t.Fatalf("%s primitive %d positions\nhave %v", ext, p, pos)
		}
		nrm, err := modeler.ReadNormal(got, got.Accessors[prim.Attributes[gltf.NORMAL]], nil)
		if err != nil {
			t.Fatalf("ReadNormal: %v", err)
		}
		if nrm[3] != ([3]float32{0, 0, 1}) {
			t.Fatalf("zero normal exported as %v", nrm[3])
		}
		if name := got.Materials[*prim.Material].Name; name != []string{"body", "head"}[p] {
			t.Fatalf("material\nhave %q", name)
		}
	}
}

func TestSaveJSON(t *testing.T) {
	doc, err := Document(twoQuads(), "bob")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	path := filepath.Join(t.TempDir(), "bob.gltf")
	if err := Save(doc, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Fatalf("gltf not written: %v", err)
	}
}

func TestDocumentWideIndices(t *testing.T) {
	const n = 70000
	b := &skin.Buffers{
		Positions: make([]mgl32.Vec3, n),
		Indices:   []uint32{0, 1, n - 1},
		Ranges:    []skin.Range{{Shader: "big", VertexCount: n, IndexCount: 3}},
	}
	doc, err := Document(b, "big")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	prim := doc.Meshes[0].Primitives[0]
	if ct := doc.Accessors[*prim.Indices].ComponentType; ct != gltf.ComponentUint {
		t.Fatalf("index type\nhave %v\nwant uint32", ct)
	}
	if _, ok := prim.Attributes[gltf.NORMAL]; ok {
		t.Fatal("NORMAL written without normals")
	}
}

func TestDocumentBadRange(t *testing.T) {
	b := twoQuads()
	b.Indices[7] = 0 // head range pointing into body
	if _, err := Document(b, "bad"); !errors.Is(err, skin.ErrBounds) {
		t.Fatalf("cross-range index\nhave %v\nwant %v", err, skin.ErrBounds)
	}
	b = twoQuads()
	b.Ranges[1].VertexCount = 10
	if _, err := Document(b, "bad"); !errors.Is(err, skin.ErrBounds) {
		t.Fatalf("range past buffers\nhave %v\nwant %v", err, skin.ErrBounds)
	}
}
