package report

import (
	"fmt"
	"io"
)

// Print writes r as indented text.
func (r *MeshReport) Print(w io.Writer) {
	fmt.Fprintf(w, "MD5Version %d  commandline %q\n", r.Version, r.CommandLine)
	fmt.Fprintf(w, "  joints: %d (declared %d, roots %d)\n", r.Joints, r.DeclaredJoints, r.Roots)
	for _, name := range r.BadParents {
		fmt.Fprintf(w, "  ! joint %q has a parent that does not precede it\n", name)
	}
	fmt.Fprintf(w, "  meshes: %d (declared %d)  vertices: %d  triangles: %d\n",
		len(r.Submeshes), r.DeclaredMeshes, r.Vertices, r.Triangles)
	if r.HasBounds {
		s := Size(r.Bounds)
		fmt.Fprintf(w, "  bounds: (%.3f %.3f %.3f) .. (%.3f %.3f %.3f)  size %.3f x %.3f x %.3f\n",
			r.Bounds.Min.X, r.Bounds.Min.Y, r.Bounds.Min.Z,
			r.Bounds.Max.X, r.Bounds.Max.Y, r.Bounds.Max.Z, s.X, s.Y, s.Z)
	}
	if r.IndexFitsSet {
		fmt.Fprintf(w, "  16-bit indices: %v\n", r.IndexFits16)
	}

	for i := range r.Submeshes {
		s := &r.Submeshes[i]
		fmt.Fprintf(w, "  [%d] %s\n", i, s.Shader)
		fmt.Fprintf(w, "      verts %d  tris %d  weights %d  bias sum %.4f..%.4f\n",
			s.Vertices, s.Triangles, s.Weights, s.BiasMin, s.BiasMax)
		if s.CountMismatch() {
			fmt.Fprintf(w, "      ! declared %d/%d/%d\n", s.DeclaredVerts, s.DeclaredTris, s.DeclaredWeights)
		}
		if n := len(s.BiasOff); n > 0 {
			fmt.Fprintf(w, "      ! %d vertices with bias sum off 1 (first %d)\n", n, s.BiasOff[0])
		}
		if n := len(s.Unreferenced); n > 0 {
			fmt.Fprintf(w, "      ! %d vertices in no triangle (first %d)\n", n, s.Unreferenced[0])
		}
	}
}

// Print writes r as indented text.
func (r *AnimReport) Print(w io.Writer) {
	fmt.Fprintf(w, "MD5Version %d  commandline %q\n", r.Version, r.CommandLine)
	fmt.Fprintf(w, "  frames: %d @ %d fps (%.2fs)  joints: %d  components/frame: %d\n",
		r.Frames, r.FrameRate, r.Duration, r.Joints, r.ComponentsPerFrame)
	for _, is := range r.Issues {
		fmt.Fprintf(w, "  ! %s\n", is)
	}
}
