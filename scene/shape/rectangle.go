package shape

import (
	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/types"
)

// A unit square in the model XY plane facing +Z.
type Rectangle struct {
	base
}

// Create a new rectangle.
func NewRectangle(name string, transform scene.Transform, material *scene.Material) *Rectangle {
	return &Rectangle{
		base: newBase(name, transform, material),
	}
}

func (r *Rectangle) Intersects(ray types.Ray) (scene.Intersection, bool) {
	origin, dir := r.transform.ToModel(ray)

	pos, ok := intersectXYPlane(origin, dir)
	if !ok || pos[0] <= -0.5 || pos[0] >= 0.5 || pos[1] <= -0.5 || pos[1] >= 0.5 {
		return scene.Intersection{}, false
	}

	uv := types.Vec2{pos[0] + 0.5, pos[1] + 0.5}
	return r.toWorld(r, pos, types.Vec3{0, 0, 1}, uv).WithTangent(r.transform.Matrix().TransformDirection(types.Vec3{1, 0, 0})), true
}

func (r *Rectangle) BBox() types.BBox {
	return types.BBox{
		HalfExtents: types.Vec3{0.5, 0.5, flatBBoxHalfThickness},
	}.Transform(r.transform.Matrix())
}
