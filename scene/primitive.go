package scene

import "github.com/achilleasa/go-raytrace/types"

// The Primitive interface is implemented by all renderable shapes.
type Primitive interface {
	// Get the primitive name. Names are used for diagnostics only.
	Name() string

	// Intersect a world-space ray with the primitive. It returns false if
	// the ray misses the primitive or the intersection lies behind the ray
	// origin.
	Intersects(ray types.Ray) (Intersection, bool)

	// Calculate the world-space bounding box for the primitive.
	BBox() types.BBox

	// Get the point used for sorting the primitive while building a BVH.
	Center() types.Vec3

	// Returns false for primitives without a finite bounding box (e.g.
	// infinite planes). Such primitives are excluded from the BVH and are
	// tested linearly.
	IsBoundable() bool

	// Get the primitive material.
	Material() *Material
}

// Describes a ray-primitive intersection.
type Intersection struct {
	// The primitive that was hit.
	Primitive Primitive

	// World-space hit position.
	Position types.Vec3

	// Unit length surface normal at the hit point.
	Normal types.Vec3

	// Surface tangent; only valid when HasTangent is set.
	Tangent    types.Vec3
	HasTangent bool

	// Texture coordinates at the hit point.
	UV types.Vec2
}

// Create a new intersection. The supplied normal is normalized.
func NewIntersection(prim Primitive, position, normal types.Vec3, uv types.Vec2) Intersection {
	return Intersection{
		Primitive: prim,
		Position:  position,
		Normal:    normal.Normalize(),
		UV:        uv,
	}
}

// Return a copy of the intersection with the supplied (normalized) tangent.
func (isect Intersection) WithTangent(tangent types.Vec3) Intersection {
	isect.Tangent = tangent.Normalize()
	isect.HasTangent = true
	return isect
}

// Test the ray against each primitive in the list and return the
// intersection closest to the ray origin.
func NearestHit(primitives []Primitive, ray types.Ray) (Intersection, bool) {
	var (
		nearest     Intersection
		nearestDist float32
		found       bool
	)

	origin := ray.Origin()
	for _, prim := range primitives {
		isect, hit := prim.Intersects(ray)
		if !hit {
			continue
		}

		dist := isect.DistSq(origin)
		if !found || dist < nearestDist {
			nearest, nearestDist, found = isect, dist, true
		}
	}
	return nearest, found
}

// Get the squared distance from the intersection to point p.
func (isect Intersection) DistSq(p types.Vec3) float32 {
	return isect.Position.Sub(p).LenSq()
}
