package types

import "fmt"

// A ray with an origin and a unit length direction. Rays are immutable.
type Ray struct {
	origin Vec3
	dir    Vec3
}

// Create a new ray. The direction vector is normalized.
func NewRay(origin, dir Vec3) Ray {
	return Ray{
		origin: origin,
		dir:    dir.Normalize(),
	}
}

// Get the ray origin.
func (r Ray) Origin() Vec3 {
	return r.origin
}

// Get the normalized ray direction.
func (r Ray) Dir() Vec3 {
	return r.dir
}

// Get the point at distance t along the ray.
func (r Ray) At(t float32) Vec3 {
	return r.origin.Add(r.dir.Mul(t))
}

func (r Ray) String() string {
	return fmt.Sprintf(
		"origin: (%3.3f, %3.3f, %3.3f), dir: (%3.3f, %3.3f, %3.3f)",
		r.origin[0], r.origin[1], r.origin[2],
		r.dir[0], r.dir[1], r.dir[2],
	)
}
