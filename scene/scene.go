package scene

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/go-raytrace/types"
	"github.com/olekukonko/tablewriter"
)

// The Accelerator interface is implemented by spatial indices that answer
// nearest-hit queries over the boundable scene primitives.
type Accelerator interface {
	Traverse(ray types.Ray) (Intersection, bool)
}

// Builds an accelerator from a list of boundable primitives.
type AcceleratorBuilder func(primitives []Primitive) Accelerator

type Scene struct {
	Camera *Camera

	Materials *MaterialStore
	Lights    []*Light

	// Ambient light color and intensity.
	Ambient          types.Vec3
	AmbientIntensity float32

	// All primitives in the order they were added.
	Primitives []Primitive

	// Populated by Compile.
	Boundable   []Primitive
	Unbounded   []Primitive
	Accelerator Accelerator
}

// Create a new scene.
func NewScene(camera *Camera, ambient types.Vec3, ambientIntensity float32) *Scene {
	return &Scene{
		Camera:           camera,
		Materials:        NewMaterialStore(),
		Lights:           make([]*Light, 0),
		Ambient:          ambient,
		AmbientIntensity: ambientIntensity,
		Primitives:       make([]Primitive, 0),
	}
}

// Add a material to the scene.
func (s *Scene) AddMaterial(material *Material) error {
	if err := s.Materials.Add(material); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	return nil
}

// Add a primitive to the scene.
func (s *Scene) AddPrimitive(primitive Primitive) error {
	material := primitive.Material()
	if material == nil {
		return fmt.Errorf("scene: no material assigned to primitive %q", primitive.Name())
	}
	if !s.Materials.Has(material) {
		return fmt.Errorf("scene: primitive %q references unknown material %q; ensure that the material is added to the scene before adding the primitive", primitive.Name(), material.Name)
	}

	s.Primitives = append(s.Primitives, primitive)
	return nil
}

// Add a light to the scene.
func (s *Scene) AddLight(light *Light) {
	s.Lights = append(s.Lights, light)
}

// Split primitives into boundable and unbounded lists and build the
// accelerator for the boundable ones. The scene must not be modified once
// compiled.
func (s *Scene) Compile(build AcceleratorBuilder) {
	s.Boundable = make([]Primitive, 0, len(s.Primitives))
	s.Unbounded = make([]Primitive, 0)
	for _, prim := range s.Primitives {
		if prim.IsBoundable() {
			s.Boundable = append(s.Boundable, prim)
		} else {
			s.Unbounded = append(s.Unbounded, prim)
		}
	}

	s.Accelerator = build(s.Boundable)
}

// Build a tabular representation of scene statistics.
func (s *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Count"})
	table.Append([]string{"Geometry", "---", fmt.Sprint(len(s.Primitives))})
	table.Append([]string{"", "Boundable", fmt.Sprint(len(s.Boundable))})
	table.Append([]string{"", "Unbounded", fmt.Sprint(len(s.Unbounded))})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Lighting", "---", fmt.Sprint(len(s.Lights))})
	table.Append([]string{"", "Ambient", fmt.Sprintf("(%.2f, %.2f, %.2f) x %.3f", s.Ambient[0], s.Ambient[1], s.Ambient[2], s.AmbientIntensity)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Materials", "---", fmt.Sprint(s.Materials.Len())})
	for _, mat := range s.Materials.Materials() {
		table.Append([]string{"", mat.Name, fmt.Sprintf("%T", mat.Shader)})
	}

	table.Render()
	return buf.String()
}
