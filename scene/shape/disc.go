package shape

import (
	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/types"
)

// A unit radius disc in the model XY plane facing +Z.
type Disc struct {
	base
}

// Create a new disc.
func NewDisc(name string, transform scene.Transform, material *scene.Material) *Disc {
	return &Disc{
		base: newBase(name, transform, material),
	}
}

func (d *Disc) Intersects(ray types.Ray) (scene.Intersection, bool) {
	origin, dir := d.transform.ToModel(ray)

	pos, ok := intersectXYPlane(origin, dir)
	if !ok || pos.LenSq() > 1 {
		return scene.Intersection{}, false
	}
	return d.toWorld(d, pos, types.Vec3{0, 0, 1}, types.Vec2{pos[0], pos[1]}), true
}

func (d *Disc) BBox() types.BBox {
	return types.BBox{
		HalfExtents: types.Vec3{1, 1, flatBBoxHalfThickness},
	}.Transform(d.transform.Matrix())
}
