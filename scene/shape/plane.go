package shape

import (
	"math"

	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/types"
)

// An infinite plane through the model origin with a +Y normal. Planes are
// only hit from their front side and are never stored in a BVH.
type Plane struct {
	base
}

// Create a new plane.
func NewPlane(name string, transform scene.Transform, material *scene.Material) *Plane {
	return &Plane{
		base: newBase(name, transform, material),
	}
}

func (p *Plane) Intersects(ray types.Ray) (scene.Intersection, bool) {
	origin, dir := p.transform.ToModel(ray)

	denom := dir[1]
	if -denom <= types.Epsilon {
		return scene.Intersection{}, false
	}

	t := origin[1] / -denom
	if t < 0 {
		return scene.Intersection{}, false
	}

	pos := origin.Add(dir.Mul(t))
	uv := types.Vec2{
		float32(math.Mod(float64(pos[0]/10), 100)),
		-float32(math.Mod(float64(pos[2]/10), 100)),
	}
	return p.toWorld(p, pos, types.Vec3{0, 1, 0}, uv), true
}

// Planes have no finite bounds; an empty box is returned.
func (p *Plane) BBox() types.BBox {
	return types.BBox{Center: p.transform.Position()}
}

func (p *Plane) IsBoundable() bool {
	return false
}
