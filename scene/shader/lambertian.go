package shader

import (
	"math"

	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/types"
)

// A diffuse shader with inverse-square light falloff. The surface color is
// read from the "diffuse" texture or color property.
type Lambertian struct{}

func (Lambertian) Run(isect scene.Intersection, _ types.Vec3, _ types.Ray, lights []*scene.Light, ambient types.Vec3, ambientIntensity float32) types.Vec3 {
	diffuse := sample(materialOf(isect), "diffuse", isect.UV)

	result := ambientTerm(ambient, ambientIntensity)
	for _, light := range lights {
		dir, intensity := lightContribution(light, isect.Position)
		cosTheta := max(isect.Normal.Dot(dir), 0)
		result = result.Add(light.Color.MulVec(diffuse).Mul(cosTheta * intensity))
	}
	return result
}

// A Blinn-Phong shader. The diffuse term matches Lambertian; the specular
// term uses the "specular" property and the "phong exponent" float.
type BlinnPhong struct{}

func (BlinnPhong) Run(isect scene.Intersection, view types.Vec3, _ types.Ray, lights []*scene.Light, ambient types.Vec3, ambientIntensity float32) types.Vec3 {
	return blinnPhong(isect, isect.Normal, view, lights, ambient, ambientIntensity)
}

// A Blinn-Phong shader that perturbs the surface normal using the
// "bump map" texture.
type BlinnPhongBump struct{}

func (BlinnPhongBump) Run(isect scene.Intersection, view types.Vec3, _ types.Ray, lights []*scene.Light, ambient types.Vec3, ambientIntensity float32) types.Vec3 {
	normal := bumpNormal(isect, materialOf(isect), 1)
	return blinnPhong(isect, normal, view, lights, ambient, ambientIntensity)
}

func blinnPhong(isect scene.Intersection, normal, view types.Vec3, lights []*scene.Light, ambient types.Vec3, ambientIntensity float32) types.Vec3 {
	mat := materialOf(isect)
	diffuse := sample(mat, "diffuse", isect.UV)
	specular := sample(mat, "specular", isect.UV)
	exponent := floatProperty(mat, "phong exponent", 1)

	result := ambientTerm(ambient, ambientIntensity)
	for _, light := range lights {
		dir, intensity := lightContribution(light, isect.Position)
		cosTheta := max(normal.Dot(dir), 0)
		halfway := view.Add(dir).Normalize()
		cosAlpha := max(normal.Dot(halfway), 0)

		lambert := light.Color.MulVec(diffuse).Mul(cosTheta * intensity)
		phong := light.Color.MulVec(specular).Mul(intensity * float32(math.Pow(float64(cosAlpha), float64(exponent))))
		result = result.Add(lambert).Add(phong)
	}
	return result
}

// Perturb the intersection normal using the differences between
// neighboring texels of the "bump map" texture along the tangent frame. The
// unperturbed normal is scaled by strength before the offsets are applied.
func bumpNormal(isect scene.Intersection, mat *scene.Material, strength float32) types.Vec3 {
	if mat == nil || !isect.HasTangent {
		return isect.Normal
	}
	bumpMap, ok := mat.Texture("bump map")
	if !ok || bumpMap.Width == 0 || bumpMap.Height == 0 {
		return isect.Normal
	}

	u, v := isect.UV[0], isect.UV[1]
	du := 1 / float32(max(bumpMap.Width-1, 1))
	dv := 1 / float32(max(bumpMap.Height-1, 1))
	h := height(bumpMap.Sample(u, v))
	hu := height(bumpMap.Sample(u-du, v))
	hv := height(bumpMap.Sample(u, v-dv))

	bitangent := isect.Normal.Cross(isect.Tangent)
	normal := isect.Normal.Mul(strength).
		Add(isect.Tangent.Mul(h - hu)).
		Add(bitangent.Mul(h - hv)).
		Normalize()
	if normal.LenSq() == 0 {
		return isect.Normal
	}
	return normal
}

func height(c types.Vec3) float32 {
	return (c[0] + c[1] + c[2]) / 3
}
