package scene

import "github.com/achilleasa/go-raytrace/types"

// An immutable model-to-world transformation. Rotations are specified as
// euler angles in radians.
type Transform struct {
	position types.Vec3
	rotation types.Quat
	scale    types.Vec3

	matrix    types.Mat4
	invMatrix types.Mat4
}

// Create a new transform. The model matrix is built as T * R * S and its
// inverse is assembled from the inverted components.
func NewTransform(position, rotation, scale types.Vec3) Transform {
	q := types.QuatFromEuler(rotation)
	t := Transform{
		position: position,
		rotation: q,
		scale:    scale,
	}

	t.matrix = types.Translate3D(position[0], position[1], position[2]).
		Mul4(q.Mat4()).
		Mul4(types.Scale3D(scale[0], scale[1], scale[2]))

	t.invMatrix = types.Scale3D(safeInv(scale[0]), safeInv(scale[1]), safeInv(scale[2])).
		Mul4(q.Inverse().Mat4()).
		Mul4(types.Translate3D(-position[0], -position[1], -position[2]))

	return t
}

// Create a transform that only translates.
func Translation(position types.Vec3) Transform {
	return NewTransform(position, types.Vec3{}, types.Vec3{1, 1, 1})
}

// Get the world position.
func (t Transform) Position() types.Vec3 {
	return t.position
}

// Get the rotation quaternion.
func (t Transform) Rotation() types.Quat {
	return t.rotation
}

// Get the scale factors.
func (t Transform) Scale() types.Vec3 {
	return t.scale
}

// Get the model to world matrix.
func (t Transform) Matrix() types.Mat4 {
	return t.matrix
}

// Get the world to model matrix.
func (t Transform) InverseMatrix() types.Mat4 {
	return t.invMatrix
}

// Transform a world-space ray into model space. The returned direction is
// not normalized so that hit distances can be converted back via the
// model-space parameter.
func (t Transform) ToModel(ray types.Ray) (origin, dir types.Vec3) {
	return t.invMatrix.TransformPoint(ray.Origin()), t.invMatrix.TransformDirection(ray.Dir())
}

func safeInv(v float32) float32 {
	if v == 0 {
		return 0
	}
	return 1.0 / v
}
