// Package skin evaluates linear-blend skinning for MD5 models and merges
// submeshes into one vertex/index buffer.
package skin

import (
	"github.com/go-gl/mathgl/mgl32"

	"md5-bind-renderer/internal/md5"
)

// JointPose is one joint's model-space transform.
type JointPose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// BindPose returns the pose stored in the model's joint list. It is the
// default pose; an animation consumer supplies its own []JointPose in the
// same joint order.
func BindPose(joints []md5.Joint) []JointPose {
	pose := make([]JointPose, len(joints))
	for i, j := range joints {
		pose[i] = JointPose{Position: j.Position, Orientation: j.Orientation}
	}
	return pose
}

// Transform maps a point from joint space to model space.
func (p JointPose) Transform(v mgl32.Vec3) mgl32.Vec3 {
	return p.Position.Add(p.Orientation.Rotate(v))
}
