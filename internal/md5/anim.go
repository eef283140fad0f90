package md5

import (
	"fmt"
	"math/bits"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

// channelMask covers the six animated channels a hierarchy flag can select
// (Tx Ty Tz Qx Qy Qz).
const channelMask = 63

// HierarchyJoint is one entry of an animation's hierarchy block.
type HierarchyJoint struct {
	Name       string
	Parent     int32 // -1 for a root joint
	Flags      int32
	StartIndex int32 // offset of this joint's components in Frame.Data
}

// ComponentCount is the number of animated components the joint's flags select.
func (j HierarchyJoint) ComponentCount() int {
	return bits.OnesCount32(uint32(j.Flags) & channelMask)
}

// Bound is the axis-aligned box of one frame.
type Bound struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// BaseFrame holds one position/orientation pair per joint.
type BaseFrame struct {
	Positions    []mgl32.Vec3
	Orientations []mgl32.Quat
}

// Frame is the raw animated-component stream of one frame. Its layout is
// given by the hierarchy flags; it is kept undecoded.
type Frame struct {
	Number uint32
	Data   []float32
}

// Anim is a parsed .md5anim document.
type Anim struct {
	Version               int32
	CommandLine           string
	NumFrames             int32
	NumJoints             int32
	FrameRate             int32
	NumAnimatedComponents int32
	Hierarchy             []HierarchyJoint
	Bounds                []Bound
	BaseFrame             BaseFrame
	Frames                []Frame
}

// Components returns the part of frame's raw stream owned by joint, in
// file order. The slice aliases Frame.Data. No channel meaning is assigned:
// decoding into joint transforms belongs to an animation consumer.
func (a *Anim) Components(frame, joint int) ([]float32, error) {
	if frame < 0 || frame >= len(a.Frames) {
		return nil, fmt.Errorf("%w: frame %d of %d", ErrComponentRange, frame, len(a.Frames))
	}
	if joint < 0 || joint >= len(a.Hierarchy) {
		return nil, fmt.Errorf("%w: joint %d of %d", ErrComponentRange, joint, len(a.Hierarchy))
	}
	j := a.Hierarchy[joint]
	data := a.Frames[frame].Data
	start, n := int(j.StartIndex), j.ComponentCount()
	if start < 0 || start+n > len(data) {
		return nil, fmt.Errorf("%w: joint %q wants [%d:%d] of %d components in frame %d",
			ErrComponentRange, j.Name, start, start+n, len(data), frame)
	}
	return data[start : start+n : start+n], nil
}

// LoadAnim reads and parses a .md5anim file.
func LoadAnim(path string) (*Anim, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("md5: read %s: %w", path, err)
	}
	a, err := ParseAnim(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// ParseAnim parses a complete .md5anim document. After the version tag the
// header fields are located by scanning forward to their names, so
// commentary between them is tolerated.
func ParseAnim(data []byte) (*Anim, error) {
	r := &reader{data: data}
	a := &Anim{}
	var err error

	if err = r.keyword("MD5Version"); err != nil {
		return nil, err
	}
	if a.Version, err = r.integer(); err != nil {
		return nil, err
	}
	if err = r.scanTo("commandline"); err != nil {
		return nil, err
	}
	if a.CommandLine, err = r.quoted(); err != nil {
		return nil, err
	}
	for _, h := range []struct {
		name string
		dst  *int32
	}{
		{"numFrames", &a.NumFrames},
		{"numJoints", &a.NumJoints},
		{"frameRate", &a.FrameRate},
		{"numAnimatedComponents", &a.NumAnimatedComponents},
	} {
		if err = r.scanTo(h.name); err != nil {
			return nil, err
		}
		if *h.dst, err = r.integer(); err != nil {
			return nil, err
		}
	}

	if a.Hierarchy, err = r.hierarchy(); err != nil {
		return nil, err
	}
	if a.Bounds, err = r.bounds(); err != nil {
		return nil, err
	}
	if a.BaseFrame, err = r.baseFrame(); err != nil {
		return nil, err
	}
	for first := true; first || r.peekWord("frame"); first = false {
		f, err := r.frame()
		if err != nil {
			return nil, err
		}
		a.Frames = append(a.Frames, f)
	}
	if !r.atEOF() {
		return nil, r.fail(r.off, `"frame"`, ErrTagMismatch)
	}
	return a, nil
}

// block reads `<name> { item+ }`, calling item until the closing brace.
func (r *reader) block(name string, item func() error) error {
	if err := r.keyword(name); err != nil {
		return err
	}
	if err := r.tag("{"); err != nil {
		return err
	}
	for first := true; first || (!r.atEOF() && !r.peek("}")); first = false {
		if err := item(); err != nil {
			return err
		}
	}
	return r.tag("}")
}

func (r *reader) hierarchy() ([]HierarchyJoint, error) {
	var joints []HierarchyJoint
	err := r.block("hierarchy", func() error {
		j, err := r.hierarchyJoint()
		if err != nil {
			return err
		}
		joints = append(joints, j)
		return nil
	})
	return joints, err
}

// hierarchyJoint reads `"name" parent flags startIndex [// comment]`.
func (r *reader) hierarchyJoint() (HierarchyJoint, error) {
	var j HierarchyJoint
	var err error
	if j.Name, err = r.quoted(); err != nil {
		return j, err
	}
	if j.Parent, err = r.integer(); err != nil {
		return j, err
	}
	if j.Flags, err = r.integer(); err != nil {
		return j, err
	}
	if j.StartIndex, err = r.integer(); err != nil {
		return j, err
	}
	r.comment()
	return j, nil
}

func (r *reader) bounds() ([]Bound, error) {
	var bounds []Bound
	err := r.block("bounds", func() error {
		var b Bound
		var err error
		if b.Min, err = r.vec3(); err != nil {
			return err
		}
		if b.Max, err = r.vec3(); err != nil {
			return err
		}
		bounds = append(bounds, b)
		return nil
	})
	return bounds, err
}

func (r *reader) baseFrame() (BaseFrame, error) {
	var bf BaseFrame
	err := r.block("baseframe", func() error {
		p, err := r.vec3()
		if err != nil {
			return err
		}
		q, err := r.quat()
		if err != nil {
			return err
		}
		bf.Positions = append(bf.Positions, p)
		bf.Orientations = append(bf.Orientations, q)
		return nil
	})
	return bf, err
}

// frame reads `frame <n> { float* }`.
func (r *reader) frame() (Frame, error) {
	var f Frame
	var err error
	if err = r.keyword("frame"); err != nil {
		return f, err
	}
	if f.Number, err = r.uinteger(); err != nil {
		return f, err
	}
	if err = r.tag("{"); err != nil {
		return f, err
	}
	for !r.atEOF() && !r.peek("}") {
		v, err := r.float()
		if err != nil {
			return f, err
		}
		f.Data = append(f.Data, v)
	}
	if err = r.tag("}"); err != nil {
		return f, err
	}
	return f, nil
}
