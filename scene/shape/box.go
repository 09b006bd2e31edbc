package shape

import (
	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/types"
)

// An axis aligned unit cube centered at the model origin.
type Box struct {
	base
}

// Create a new box. The transform scale controls the box dimensions.
func NewBox(name string, transform scene.Transform, material *scene.Material) *Box {
	return &Box{
		base: newBase(name, transform, material),
	}
}

func (b *Box) Intersects(ray types.Ray) (scene.Intersection, bool) {
	origin, dir := b.transform.ToModel(ray)
	if dir.LenSq() == 0 {
		return scene.Intersection{}, false
	}

	tNear, tFar := float32(-1e30), float32(1e30)
	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < -0.5 || origin[axis] > 0.5 {
				return scene.Intersection{}, false
			}
			continue
		}

		t0 := (-0.5 - origin[axis]) / dir[axis]
		t1 := (0.5 - origin[axis]) / dir[axis]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tNear = max(tNear, t0)
		tFar = min(tFar, t1)
	}

	if tFar < tNear {
		return scene.Intersection{}, false
	}

	t := tNear
	if t < 0 {
		t = tFar
		if t < 0 {
			return scene.Intersection{}, false
		}
	}

	pos := origin.Add(dir.Mul(t))
	normal := boxNormal(pos)
	return b.toWorld(b, pos, normal, boxUV(pos, normal)), true
}

func (b *Box) BBox() types.BBox {
	return types.BBox{HalfExtents: types.Vec3{0.5, 0.5, 0.5}}.Transform(b.transform.Matrix())
}

// Pick the face normal from the dominant component of a point on the cube.
func boxNormal(p types.Vec3) types.Vec3 {
	abs := p.Abs()
	switch {
	case abs[0] >= abs[1] && abs[0] >= abs[2]:
		return types.Vec3{types.Sign(p[0]), 0, 0}
	case abs[1] >= abs[2]:
		return types.Vec3{0, types.Sign(p[1]), 0}
	}
	return types.Vec3{0, 0, types.Sign(p[2])}
}

func boxUV(p, normal types.Vec3) types.Vec2 {
	switch {
	case normal[0] != 0:
		return types.Vec2{-p[2] + 0.5, -p[1] + 0.5}
	case normal[1] != 0:
		return types.Vec2{p[0] + 0.5, p[2] + 0.5}
	}
	return types.Vec2{p[0] + 0.5, -p[1] + 0.5}
}
