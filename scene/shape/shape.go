// Package shape provides the scene primitives. Every shape is defined in its
// own model space and placed in the world by a scene.Transform.
package shape

import (
	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/types"
)

// Thickness assigned to the bounding boxes of flat shapes.
const flatBBoxHalfThickness float32 = 1e-4

// Shared state for transformed shapes.
type base struct {
	name      string
	transform scene.Transform
	material  *scene.Material

	// Inverse transpose of the model matrix for mapping normals.
	normalMatrix types.Mat4
}

func newBase(name string, transform scene.Transform, material *scene.Material) base {
	return base{
		name:         name,
		transform:    transform,
		material:     material,
		normalMatrix: transform.InverseMatrix().Transpose(),
	}
}

func (b *base) Name() string {
	return b.name
}

func (b *base) Material() *scene.Material {
	return b.material
}

func (b *base) Center() types.Vec3 {
	return b.transform.Position()
}

func (b *base) IsBoundable() bool {
	return true
}

// Get the shape transform.
func (b *base) Transform() scene.Transform {
	return b.transform
}

// Map a model-space hit back to world space.
func (b *base) toWorld(prim scene.Primitive, modelPos, modelNormal types.Vec3, uv types.Vec2) scene.Intersection {
	return scene.NewIntersection(
		prim,
		b.transform.Matrix().TransformPoint(modelPos),
		b.normalMatrix.TransformDirection(modelNormal),
		uv,
	)
}

// Intersect a model-space ray with a planar shape lying in the XY plane and
// facing +Z. Only front-facing hits are reported.
func intersectXYPlane(origin, dir types.Vec3) (types.Vec3, bool) {
	denom := dir[2]
	if -denom <= types.Epsilon {
		return types.Vec3{}, false
	}

	t := origin[2] / -denom
	if t < 0 {
		return types.Vec3{}, false
	}
	return origin.Add(dir.Mul(t)), true
}

// Intersect a ray with a triangle using the Moller-Trumbore algorithm. Both
// sides of the triangle are considered. On a hit it returns the ray
// parameter and the barycentric coordinates of v1 and v2.
func intersectTriangle(origin, dir, v0, v1, v2 types.Vec3) (t, beta, gamma float32, ok bool) {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if det > -types.Epsilon && det < types.Epsilon {
		return 0, 0, 0, false
	}

	invDet := 1.0 / det
	s := origin.Sub(v0)
	beta = s.Dot(p) * invDet
	if beta < 0 || beta > 1 {
		return 0, 0, 0, false
	}

	q := s.Cross(e1)
	gamma = dir.Dot(q) * invDet
	if gamma < 0 || beta+gamma > 1 {
		return 0, 0, 0, false
	}

	t = e2.Dot(q) * invDet
	if t < 0 {
		return 0, 0, 0, false
	}
	return t, beta, gamma, true
}
