package skin

import "errors"

var (
	// ErrBounds reports a weight run, joint or vertex reference outside the
	// data it indexes.
	ErrBounds = errors.New("skin: reference out of range")

	// ErrIndexOverflow reports an index too large for the narrowed width.
	ErrIndexOverflow = errors.New("skin: index overflow")

	// ErrDegenerateNormal reports a vertex no triangle touches, when
	// Options.StrictNormals is set.
	ErrDegenerateNormal = errors.New("skin: degenerate normal")
)
