package tracer

import (
	"math"

	"github.com/achilleasa/go-raytrace/types"
)

// Offset applied to secondary ray origins to avoid self-intersection.
const bias float32 = 0.005

// Mirror ray about normal. The reflected ray starts at origin offset along
// normal.
func ReflectRay(ray types.Ray, origin, normal types.Vec3) types.Ray {
	view := ray.Dir().Neg()
	proj := normal.Mul(view.Dot(normal))
	reflected := view.Add(proj.Sub(view).Mul(2))
	return types.NewRay(origin.Add(normal.Mul(bias)), reflected)
}

// Calculate the transmission direction for incidence through a surface with
// the given normal using Snell's law. ratio is the ratio of the refractive
// indices on the incident side over the transmitted side. It returns false
// on total internal reflection.
func Refract(incidence, normal types.Vec3, ratio float32) (types.Vec3, bool) {
	cosTheta := incidence.Dot(normal)
	k := 1 - ratio*ratio*(1-cosTheta*cosTheta)
	if k < 0 {
		return types.Vec3{}, false
	}
	sqrtK := float32(math.Sqrt(float64(k)))
	return incidence.Mul(ratio).Sub(normal.Mul(ratio*cosTheta + sqrtK)), true
}

// Evaluate the dielectric Fresnel equations and return the fraction of the
// incident light that is reflected. iorA is the refractive index on the
// incident side and iorB the index on the transmitted side.
func FresnelFactor(cosTheta, iorA, iorB float32) float32 {
	cosI := types.Clamp(cosTheta, -1, 1)
	sinT := iorA / iorB * sqrt32(max(0, 1-cosI*cosI))
	if sinT >= 1 {
		return 1
	}

	cosT := sqrt32(max(0, 1-sinT*sinT))
	cosI = float32(math.Abs(float64(cosI)))

	parallel := (iorB*cosI - iorA*cosT) / (iorB*cosI + iorA*cosT)
	perpendicular := (iorA*cosI - iorB*cosT) / (iorA*cosI + iorB*cosT)
	return (parallel*parallel + perpendicular*perpendicular) / 2
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
