package shape

import (
	"math"

	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/types"
)

// A unit sphere centered at the model origin.
type Sphere struct {
	base
}

// Create a new sphere. The transform scale controls the sphere radii.
func NewSphere(name string, transform scene.Transform, material *scene.Material) *Sphere {
	return &Sphere{
		base: newBase(name, transform, material),
	}
}

func (s *Sphere) Intersects(ray types.Ray) (scene.Intersection, bool) {
	origin, dir := s.transform.ToModel(ray)

	// |o + t*d|^2 - 1 = 0
	a := dir.LenSq()
	b := 2 * dir.Dot(origin)
	c := origin.LenSq() - 1
	count, t0, t1 := types.SolveQuadratic(a, b, c)
	if count == 0 {
		return scene.Intersection{}, false
	}

	if t0 > t1 {
		t0, t1 = t1, t0
	}
	if t0 < 0 {
		t0 = t1
		if t0 < 0 {
			return scene.Intersection{}, false
		}
	}

	pos := origin.Add(dir.Mul(t0))
	return s.toWorld(s, pos, pos, sphereUV(pos.Normalize())), true
}

func (s *Sphere) BBox() types.BBox {
	return types.BBox{HalfExtents: types.Vec3{1, 1, 1}}.Transform(s.transform.Matrix())
}

func sphereUV(n types.Vec3) types.Vec2 {
	phi := math.Atan2(float64(n[2]), float64(n[0]))
	theta := math.Asin(float64(types.Clamp(-n[1], -1, 1)))
	return types.Vec2{
		float32(1 - (phi+math.Pi)/(2*math.Pi)),
		float32((theta + math.Pi/2) / math.Pi),
	}
}
