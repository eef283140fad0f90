package md5

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const frameBody = `
	000000.001643 -0.000604 -0.707107 -0.000242 -0.707107
	3.122890 0.625194 0.923663 0.022398 -0.133633 -0.852234
	0.000386 -1.102681 0.010090 -0.001203 0.000819 -0.001678
	2.600285 -0.203020 0.001408 0.750740
`

var frameData = []float32{
	0.001643, -0.000604, -0.707107, -0.000242, -0.707107,
	3.12289, 0.625194, 0.923663, 0.022398, -0.133633, -0.852234,
	0.000386, -1.102681, 0.01009, -0.001203, 0.000819, -0.001678,
	2.600285, -0.20302, 0.001408, 0.75074,
}

const bobAnim = `MD5Version 10
commandline "Exported from Blender by io_export_md5.py by Paul Zirkle"

numFrames 141
numJoints 33
frameRate 24
numAnimatedComponents 198

hierarchy {
	"origin"	-1 63 0	//
	"sheath"	0 63 6	// origin
	"sword"	1 63 12	// sheath
}

bounds {
	( -1.634066 -1.634066 -1.634066 ) ( -1.634066 6.444685 5.410537 )
	( -1.634381 -1.634381 -1.634381 ) ( -1.634381 6.444589 5.410597 )
	( -1.634190 -1.634190 -1.634190 ) ( -1.634190 6.444603 5.410734 )
}

baseframe {
	( 3.122890 0.625194 0.923663 ) ( -0.022398 0.133633 0.852234 )
	( 0.000386 -1.102681 0.010090 ) ( 0.001203 -0.000819 0.001678 )
}

frame 0 {` + frameBody + `}

frame 1 {` + frameBody + `}

frame 2 {` + frameBody + `}
`

func TestParseHierarchyJoint(t *testing.T) {
	r := &reader{data: []byte("\"origin\"\t-1 63 0\t//\n")}
	j, err := r.hierarchyJoint()
	if err != nil {
		t.Fatalf("hierarchyJoint: %v", err)
	}
	want := HierarchyJoint{Name: "origin", Parent: -1, Flags: 63, StartIndex: 0}
	if j != want {
		t.Fatalf("hierarchyJoint\nhave %+v\nwant %+v", j, want)
	}
	if !r.atEOF() {
		t.Fatalf("hierarchyJoint left %q", r.data[r.off:])
	}
}

func TestParseAnim(t *testing.T) {
	a, err := ParseAnim([]byte(bobAnim))
	if err != nil {
		t.Fatalf("ParseAnim: %v", err)
	}
	header := []int32{a.Version, a.NumFrames, a.NumJoints, a.FrameRate, a.NumAnimatedComponents}
	if !reflect.DeepEqual(header, []int32{10, 141, 33, 24, 198}) {
		t.Fatalf("header\nhave %v\nwant [10 141 33 24 198]", header)
	}
	if a.CommandLine != "Exported from Blender by io_export_md5.py by Paul Zirkle" {
		t.Fatalf("CommandLine\nhave %q", a.CommandLine)
	}

	wantHierarchy := []HierarchyJoint{
		{Name: "origin", Parent: -1, Flags: 63, StartIndex: 0},
		{Name: "sheath", Parent: 0, Flags: 63, StartIndex: 6},
		{Name: "sword", Parent: 1, Flags: 63, StartIndex: 12},
	}
	if !reflect.DeepEqual(a.Hierarchy, wantHierarchy) {
		t.Fatalf("Hierarchy\nhave %+v\nwant %+v", a.Hierarchy, wantHierarchy)
	}

	wantBounds := []Bound{
		{Min: mgl32.Vec3{-1.634066, -1.634066, -1.634066}, Max: mgl32.Vec3{-1.634066, 6.444685, 5.410537}},
		{Min: mgl32.Vec3{-1.634381, -1.634381, -1.634381}, Max: mgl32.Vec3{-1.634381, 6.444589, 5.410597}},
		{Min: mgl32.Vec3{-1.63419, -1.63419, -1.63419}, Max: mgl32.Vec3{-1.63419, 6.444603, 5.410734}},
	}
	if !reflect.DeepEqual(a.Bounds, wantBounds) {
		t.Fatalf("Bounds\nhave %+v\nwant %+v", a.Bounds, wantBounds)
	}

	wantPos := []mgl32.Vec3{{3.12289, 0.625194, 0.923663}, {0.000386, -1.102681, 0.01009}}
	if !reflect.DeepEqual(a.BaseFrame.Positions, wantPos) {
		t.Fatalf("BaseFrame.Positions\nhave %v\nwant %v", a.BaseFrame.Positions, wantPos)
	}
	wantW := []float64{-math.Sqrt(0.25533772), -math.Sqrt(0.9999951)}
	for i, q := range a.BaseFrame.Orientations {
		if math.Abs(float64(q.W)-wantW[i]) > 1e-5 {
			t.Fatalf("BaseFrame.Orientations[%d].W\nhave %v\nwant %v", i, q.W, wantW[i])
		}
	}
	if v := a.BaseFrame.Orientations[0].V; v != (mgl32.Vec3{-0.022398, 0.133633, 0.852234}) {
		t.Fatalf("BaseFrame.Orientations[0].V\nhave %v", v)
	}

	if len(a.Frames) != 3 {
		t.Fatalf("len(Frames)\nhave %d\nwant 3", len(a.Frames))
	}
	for i, f := range a.Frames {
		if f.Number != uint32(i) {
			t.Fatalf("Frames[%d].Number\nhave %d", i, f.Number)
		}
		if !reflect.DeepEqual(f.Data, frameData) {
			t.Fatalf("Frames[%d].Data\nhave %v\nwant %v", i, f.Data, frameData)
		}
	}
}

func TestParseAnimToleratesHeaderCommentary(t *testing.T) {
	doc := strings.Replace(bobAnim, "numFrames 141", "// frames follow\nnumFrames 141", 1)
	a, err := ParseAnim([]byte(doc))
	if err != nil {
		t.Fatalf("ParseAnim: %v", err)
	}
	if a.NumFrames != 141 {
		t.Fatalf("NumFrames\nhave %d\nwant 141", a.NumFrames)
	}
}

func TestParseAnimErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		err  error
	}{
		{"no frames", bobAnim[:strings.Index(bobAnim, "frame 0")], ErrUnexpectedEOF},
		{"empty hierarchy", emptyHierarchy(), ErrTagMismatch},
		{"missing header field", strings.Replace(bobAnim, "frameRate 24", "", 1), ErrUnexpectedEOF},
		{"bad frame value", strings.Replace(bobAnim, "2.600285", "2.6x", 1), ErrInvalidFloat},
		{"missing bounds", strings.Replace(bobAnim, "bounds", "bnds", 1), ErrTagMismatch},
	}
	for _, c := range cases {
		_, err := ParseAnim([]byte(c.doc))
		if !errors.Is(err, c.err) {
			t.Fatalf("%s\nhave %v\nwant %v", c.name, err, c.err)
		}
	}
}

func emptyHierarchy() string {
	open := strings.Index(bobAnim, "hierarchy {") + len("hierarchy {")
	end := open + strings.Index(bobAnim[open:], "}")
	return bobAnim[:open] + "\n" + bobAnim[end:]
}

func TestComponents(t *testing.T) {
	a := &Anim{
		Hierarchy: []HierarchyJoint{
			{Name: "origin", Parent: -1, Flags: 63, StartIndex: 0},
			{Name: "hand", Parent: 0, Flags: 8 | 16 | 32, StartIndex: 6},
			{Name: "still", Parent: 1, Flags: 0, StartIndex: 9},
			{Name: "broken", Parent: 1, Flags: 7, StartIndex: 8},
		},
		Frames: []Frame{{Number: 0, Data: []float32{0, 1, 2, 3, 4, 5, 6, 7, 8}}},
	}
	c, err := a.Components(0, 1)
	if err != nil || !reflect.DeepEqual(c, []float32{6, 7, 8}) {
		t.Fatalf("Components(0, 1)\nhave %v, %v\nwant [6 7 8]", c, err)
	}
	if c, err := a.Components(0, 2); err != nil || len(c) != 0 {
		t.Fatalf("Components(0, 2)\nhave %v, %v\nwant []", c, err)
	}
	for _, fj := range [][2]int{{0, 3}, {1, 0}, {0, 4}, {-1, 0}} {
		if _, err := a.Components(fj[0], fj[1]); !errors.Is(err, ErrComponentRange) {
			t.Fatalf("Components(%d, %d)\nhave %v\nwant %v", fj[0], fj[1], err, ErrComponentRange)
		}
	}
}
