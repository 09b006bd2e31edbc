package types

import "math"

// An axis aligned bounding box stored as a center point and the half
// extents along each axis.
type BBox struct {
	Center      Vec3
	HalfExtents Vec3
}

// Create a bounding box from its min and max corners.
func BBoxFromMinMax(min, max Vec3) BBox {
	return BBox{
		Center:      min.Add(max).Mul(0.5),
		HalfExtents: max.Sub(min).Mul(0.5).Abs(),
	}
}

// Create a bounding box that encloses a set of points.
func BBoxFromPoints(points ...Vec3) BBox {
	if len(points) == 0 {
		return BBox{}
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min = MinVec3(min, p)
		max = MaxVec3(max, p)
	}
	return BBoxFromMinMax(min, max)
}

// Get the min corner.
func (b BBox) Min() Vec3 {
	return b.Center.Sub(b.HalfExtents)
}

// Get the max corner.
func (b BBox) Max() Vec3 {
	return b.Center.Add(b.HalfExtents)
}

// Get the bbox enclosing both b and other.
func (b BBox) Union(other BBox) BBox {
	return BBoxFromMinMax(MinVec3(b.Min(), other.Min()), MaxVec3(b.Max(), other.Max()))
}

// Get the 8 corners of the box.
func (b BBox) Corners() [8]Vec3 {
	min, max := b.Min(), b.Max()
	return [8]Vec3{
		{min[0], min[1], min[2]},
		{max[0], min[1], min[2]},
		{min[0], max[1], min[2]},
		{max[0], max[1], min[2]},
		{min[0], min[1], max[2]},
		{max[0], min[1], max[2]},
		{min[0], max[1], max[2]},
		{max[0], max[1], max[2]},
	}
}

// Transform the box by m and return the axis aligned box that encloses the
// transformed corners.
func (b BBox) Transform(m Mat4) BBox {
	corners := b.Corners()
	for i := range corners {
		corners[i] = m.TransformPoint(corners[i])
	}
	return BBoxFromPoints(corners[:]...)
}

// Returns true if b fully encloses other. A small tolerance is applied to
// absorb float rounding from the center/extent representation.
func (b BBox) Contains(other BBox) bool {
	bMin, bMax := b.Min(), b.Max()
	oMin, oMax := other.Min(), other.Max()
	for axis := 0; axis < 3; axis++ {
		tol := 1e-4 * max(1, abs32(bMin[axis]), abs32(bMax[axis]))
		if oMin[axis] < bMin[axis]-tol || oMax[axis] > bMax[axis]+tol {
			return false
		}
	}
	return true
}

// Run a slab test against the ray and return the distance along the ray
// where it enters the box. If the ray origin is inside the box the entry
// distance is 0. A negative value indicates a miss.
func (b BBox) Intersect(r Ray) float32 {
	min, max := b.Min(), b.Max()
	origin, dir := r.Origin(), r.Dir()

	tNear := float32(math.Inf(-1))
	tFar := float32(math.Inf(1))
	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			// Parallel to the slab; miss unless the origin lies between the planes
			if origin[axis] < min[axis] || origin[axis] > max[axis] {
				return -1
			}
			continue
		}

		invDir := 1.0 / dir[axis]
		t0 := (min[axis] - origin[axis]) * invDir
		t1 := (max[axis] - origin[axis]) * invDir
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tNear {
			tNear = t0
		}
		if t1 < tFar {
			tFar = t1
		}
		if tNear > tFar {
			return -1
		}
	}

	if tFar < 0 {
		return -1
	}
	if tNear < 0 {
		return 0
	}
	return tNear
}
