// Package shader provides the shading strategies that can be assigned to
// scene materials.
package shader

import (
	"fmt"
	"sort"
	"sync"

	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/types"
)

// A registry of shaders indexed by name. It is safe for concurrent use.
type Registry struct {
	sync.RWMutex
	shaders map[string]scene.Shader
}

// Create an empty shader registry.
func NewRegistry() *Registry {
	return &Registry{
		shaders: make(map[string]scene.Shader),
	}
}

// Create a registry populated with the built-in shaders.
func Default() *Registry {
	r := NewRegistry()
	for name, s := range map[string]scene.Shader{
		"lambertian":          Lambertian{},
		"blinn-phong":         BlinnPhong{},
		"blinn-phong-bump":    BlinnPhongBump{},
		"color-only":          ColorOnly{},
		"normal-viz":          NormalViz{},
		"normal-viz-bump":     NormalVizBump{},
		"environment-mapping": EnvironmentMapping{},
	} {
		r.shaders[name] = s
	}
	return r
}

// Register a shader under name.
func (r *Registry) Register(name string, s scene.Shader) error {
	if name == "" {
		return fmt.Errorf("shader registry: empty shader name")
	}
	if s == nil {
		return fmt.Errorf("shader registry: nil shader %q", name)
	}

	r.Lock()
	defer r.Unlock()
	if _, exists := r.shaders[name]; exists {
		return fmt.Errorf("shader registry: shader %q already registered", name)
	}
	r.shaders[name] = s
	return nil
}

// Lookup a shader by name.
func (r *Registry) Lookup(name string) (scene.Shader, error) {
	r.RLock()
	defer r.RUnlock()
	s, exists := r.shaders[name]
	if !exists {
		return nil, fmt.Errorf("shader registry: unknown shader %q", name)
	}
	return s, nil
}

// Get the sorted list of registered shader names.
func (r *Registry) Names() []string {
	r.RLock()
	defer r.RUnlock()
	names := make([]string, 0, len(r.shaders))
	for name := range r.shaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get the direction and the inverse-square attenuated intensity of a light
// as seen from pos.
func lightContribution(light *scene.Light, pos types.Vec3) (dir types.Vec3, intensity float32) {
	toLight := light.Position.Sub(pos)
	distSq := toLight.LenSq()
	if distSq == 0 {
		return types.Vec3{}, 0
	}
	return toLight.Normalize(), light.Intensity / distSq
}

func ambientTerm(ambient types.Vec3, ambientIntensity float32) types.Vec3 {
	return ambient.Mul(ambientIntensity)
}

func materialOf(isect scene.Intersection) *scene.Material {
	if isect.Primitive == nil {
		return nil
	}
	return isect.Primitive.Material()
}

// Sample a texture or color property; missing properties sample as black.
func sample(mat *scene.Material, name string, uv types.Vec2) types.Vec3 {
	if mat == nil {
		return types.Vec3{}
	}
	c, _ := mat.Sample(name, uv)
	return c
}

func floatProperty(mat *scene.Material, name string, fallback float32) float32 {
	if mat == nil {
		return fallback
	}
	if v, ok := mat.Float(name); ok {
		return v
	}
	return fallback
}
