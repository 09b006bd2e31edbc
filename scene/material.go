package scene

import (
	"fmt"

	"github.com/achilleasa/go-raytrace/types"
)

// The Shader interface is implemented by all shading strategies. A shader
// computes the direct lighting contribution at an intersection given the
// lights that are visible from it.
type Shader interface {
	Run(isect Intersection, view types.Vec3, ray types.Ray, lights []*Light, ambient types.Vec3, ambientIntensity float32) types.Vec3
}

// Defines a scene material.
type Material struct {
	Name string

	// The shading strategy for this material.
	Shader Shader

	// Fraction of light that gets mirror-reflected. Always in [0, 1].
	Reflectiveness float32

	// Refractive indices for the inside and outside of the surface. An
	// inside index of 0 marks the material as opaque.
	IORInside  float32
	IOROutside float32

	floats   map[string]float32
	colors   map[string]types.Vec3
	textures map[string]*Texture
}

// Create a new opaque, non-reflective material.
func NewMaterial(name string, shader Shader) *Material {
	return &Material{
		Name:       name,
		Shader:     shader,
		IOROutside: 1.0,
		floats:     make(map[string]float32),
		colors:     make(map[string]types.Vec3),
		textures:   make(map[string]*Texture),
	}
}

// Set the reflectiveness; values are clamped to [0, 1].
func (m *Material) SetReflectiveness(r float32) *Material {
	m.Reflectiveness = types.Clamp(r, 0, 1)
	return m
}

// Set the refractive indices.
func (m *Material) SetIOR(inside, outside float32) *Material {
	m.IORInside = inside
	m.IOROutside = outside
	return m
}

// Set a named float property.
func (m *Material) SetFloat(name string, v float32) *Material {
	m.floats[name] = v
	return m
}

// Set a named color property.
func (m *Material) SetColor(name string, c types.Vec3) *Material {
	m.colors[name] = c
	return m
}

// Set a named texture property.
func (m *Material) SetTexture(name string, tex *Texture) *Material {
	m.textures[name] = tex
	return m
}

// Lookup a float property.
func (m *Material) Float(name string) (float32, bool) {
	v, ok := m.floats[name]
	return v, ok
}

// Lookup a color property.
func (m *Material) Color(name string) (types.Vec3, bool) {
	c, ok := m.colors[name]
	return c, ok
}

// Lookup a texture property.
func (m *Material) Texture(name string) (*Texture, bool) {
	tex, ok := m.textures[name]
	return tex, ok
}

// Sample texture property name at uv. If the material does not define the
// texture, the color property with the same name is returned instead. The
// second return value is false if neither is defined.
func (m *Material) Sample(name string, uv types.Vec2) (types.Vec3, bool) {
	if tex, ok := m.textures[name]; ok {
		return tex.Sample(uv[0], uv[1]), true
	}
	return m.Color(name)
}

// Returns true if the material refracts light.
func (m *Material) IsRefractive() bool {
	return m.IORInside > 0
}

// A registry of materials indexed by name.
type MaterialStore struct {
	materials []*Material
	byName    map[string]int
}

// Create a new material store.
func NewMaterialStore() *MaterialStore {
	return &MaterialStore{
		materials: make([]*Material, 0),
		byName:    make(map[string]int),
	}
}

// Add a material to the store. Material names must be unique.
func (s *MaterialStore) Add(material *Material) error {
	if material == nil {
		return fmt.Errorf("material store: nil material")
	}
	if material.Shader == nil {
		return fmt.Errorf("material store: material %q has no shader", material.Name)
	}
	if _, exists := s.byName[material.Name]; exists {
		return fmt.Errorf("material store: material %q already defined", material.Name)
	}

	s.byName[material.Name] = len(s.materials)
	s.materials = append(s.materials, material)
	return nil
}

// Lookup a material by name.
func (s *MaterialStore) Lookup(name string) (*Material, error) {
	index, exists := s.byName[name]
	if !exists {
		return nil, fmt.Errorf("material store: unknown material %q", name)
	}
	return s.materials[index], nil
}

// Returns true if the store holds this exact material instance.
func (s *MaterialStore) Has(material *Material) bool {
	index, exists := s.byName[material.Name]
	return exists && s.materials[index] == material
}

// Get the number of stored materials.
func (s *MaterialStore) Len() int {
	return len(s.materials)
}

// Get the stored materials in insertion order.
func (s *MaterialStore) Materials() []*Material {
	return s.materials
}
