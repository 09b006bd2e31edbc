package scene

import "github.com/achilleasa/go-raytrace/types"

// A point light. Falloff is applied by the shaders.
type Light struct {
	Position  types.Vec3
	Color     types.Vec3
	Intensity float32
}
