package report

import (
	"fmt"

	"md5-bind-renderer/internal/md5"
)

// AnimReport summarizes a .md5anim document. Issues lists every place
// the declared header disagrees with the data.
type AnimReport struct {
	Version            int32
	CommandLine        string
	FrameRate          int32
	Frames             int
	Joints             int
	ComponentsPerFrame int
	Duration           float64 // seconds
	Issues             []string
}

// Anim inspects a.
func Anim(a *md5.Anim) *AnimReport {
	r := &AnimReport{
		Version:     a.Version,
		CommandLine: a.CommandLine,
		FrameRate:   a.FrameRate,
		Frames:      len(a.Frames),
		Joints:      len(a.Hierarchy),
	}
	if a.FrameRate > 0 {
		r.Duration = float64(len(a.Frames)) / float64(a.FrameRate)
	}
	issue := func(format string, args ...any) {
		r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
	}

	for _, h := range a.Hierarchy {
		n := h.ComponentCount()
		r.ComponentsPerFrame += n
		if n > 0 && (h.StartIndex < 0 || int(h.StartIndex)+n > int(a.NumAnimatedComponents)) {
			issue("joint %q components [%d:%d] exceed numAnimatedComponents %d",
				h.Name, h.StartIndex, int(h.StartIndex)+n, a.NumAnimatedComponents)
		}
	}

	if int(a.NumFrames) != len(a.Frames) {
		issue("numFrames %d, have %d frames", a.NumFrames, len(a.Frames))
	}
	if int(a.NumJoints) != len(a.Hierarchy) {
		issue("numJoints %d, have %d hierarchy joints", a.NumJoints, len(a.Hierarchy))
	}
	if len(a.Bounds) != len(a.Frames) {
		issue("have %d bounds for %d frames", len(a.Bounds), len(a.Frames))
	}
	if len(a.BaseFrame.Positions) != len(a.Hierarchy) {
		issue("baseframe has %d joints, hierarchy %d", len(a.BaseFrame.Positions), len(a.Hierarchy))
	}
	if int(a.NumAnimatedComponents) != r.ComponentsPerFrame {
		issue("numAnimatedComponents %d, flags select %d", a.NumAnimatedComponents, r.ComponentsPerFrame)
	}
	for i, f := range a.Frames {
		if int(f.Number) != i {
			issue("frame %d numbered %d", i, f.Number)
		}
		if len(f.Data) != int(a.NumAnimatedComponents) {
			issue("frame %d has %d components, want %d", f.Number, len(f.Data), a.NumAnimatedComponents)
		}
	}
	for _, b := range a.Bounds {
		if b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2] {
			issue("inverted bounds %v %v", b.Min, b.Max)
			break
		}
	}
	return r
}

// Compatible lists the differences that stop anim from driving model:
// joint count, names and parents must match in order.
func Compatible(model *md5.Model, a *md5.Anim) []string {
	var diffs []string
	if len(model.Joints) != len(a.Hierarchy) {
		diffs = append(diffs, fmt.Sprintf("model has %d joints, anim %d", len(model.Joints), len(a.Hierarchy)))
	}
	for i := 0; i < min(len(model.Joints), len(a.Hierarchy)); i++ {
		mj, aj := model.Joints[i], a.Hierarchy[i]
		if mj.Name != aj.Name {
			diffs = append(diffs, fmt.Sprintf("joint %d: model %q, anim %q", i, mj.Name, aj.Name))
			continue
		}
		if mj.Parent != aj.Parent {
			diffs = append(diffs, fmt.Sprintf("joint %q: model parent %d, anim parent %d", mj.Name, mj.Parent, aj.Parent))
		}
	}
	return diffs
}
