package shape

import (
	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/types"
)

// Model space vertices of the canonical triangle.
var triangleVertices = [3]types.Vec3{
	{0, 0.5, 0},
	{0.5, -0.5, 0},
	{-0.5, -0.5, 0},
}

// A triangle in the model XY plane. Both sides of the triangle are hit; the
// reported normal always points towards +Z in model space.
type Triangle struct {
	base
}

// Create a new triangle.
func NewTriangle(name string, transform scene.Transform, material *scene.Material) *Triangle {
	return &Triangle{
		base: newBase(name, transform, material),
	}
}

func (tri *Triangle) Intersects(ray types.Ray) (scene.Intersection, bool) {
	origin, dir := tri.transform.ToModel(ray)

	t, _, _, ok := intersectTriangle(origin, dir, triangleVertices[0], triangleVertices[1], triangleVertices[2])
	if !ok {
		return scene.Intersection{}, false
	}

	pos := origin.Add(dir.Mul(t))
	uv := types.Vec2{pos[0] + 0.5, pos[1] + 0.5}
	return tri.toWorld(tri, pos, types.Vec3{0, 0, 1}, uv), true
}

func (tri *Triangle) BBox() types.BBox {
	m := tri.transform.Matrix()
	box := types.BBoxFromPoints(
		m.TransformPoint(triangleVertices[0]),
		m.TransformPoint(triangleVertices[1]),
		m.TransformPoint(triangleVertices[2]),
	)
	box.HalfExtents = types.MaxVec3(box.HalfExtents, types.Vec3{flatBBoxHalfThickness, flatBBoxHalfThickness, flatBBoxHalfThickness})
	return box
}
