package shader

import (
	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/types"
)

// Returns the material "color" property, ignoring all lights.
type ColorOnly struct{}

func (ColorOnly) Run(isect scene.Intersection, _ types.Vec3, _ types.Ray, _ []*scene.Light, _ types.Vec3, _ float32) types.Vec3 {
	if mat := materialOf(isect); mat != nil {
		c, _ := mat.Color("color")
		return c
	}
	return types.Vec3{}
}

// Maps the surface normal to a color.
type NormalViz struct{}

func (NormalViz) Run(isect scene.Intersection, _ types.Vec3, _ types.Ray, _ []*scene.Light, _ types.Vec3, _ float32) types.Vec3 {
	return normalColor(isect.Normal)
}

// Maps the bump mapped surface normal to a color. The unperturbed normal is
// weighted by the "bump strength" float.
type NormalVizBump struct{}

func (NormalVizBump) Run(isect scene.Intersection, _ types.Vec3, _ types.Ray, _ []*scene.Light, _ types.Vec3, _ float32) types.Vec3 {
	mat := materialOf(isect)
	return normalColor(bumpNormal(isect, mat, floatProperty(mat, "bump strength", 1)))
}

// Returns the "diffuse" texture sampled at the intersection uv. Used for sky
// spheres.
type EnvironmentMapping struct{}

func (EnvironmentMapping) Run(isect scene.Intersection, _ types.Vec3, _ types.Ray, _ []*scene.Light, _ types.Vec3, _ float32) types.Vec3 {
	return sample(materialOf(isect), "diffuse", isect.UV)
}

func normalColor(n types.Vec3) types.Vec3 {
	return n.Mul(0.5).Add(types.Vec3{0.5, 0.5, 0.5})
}
