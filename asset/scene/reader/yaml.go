package reader

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/achilleasa/go-raytrace/asset"
	"github.com/achilleasa/go-raytrace/log"
	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/scene/shader"
	"github.com/achilleasa/go-raytrace/scene/shape"
	"github.com/achilleasa/go-raytrace/types"
	"gopkg.in/yaml.v3"
)

type cameraDef struct {
	Position []float32 `yaml:"position"`

	// Euler angles in degrees. Ignored if LookAt is set.
	Rotation []float32 `yaml:"rotation"`
	LookAt   []float32 `yaml:"look_at"`

	// Vertical field of view in degrees.
	Fov  float32 `yaml:"fov"`
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

type ambientDef struct {
	Color     []float32 `yaml:"color"`
	Intensity float32   `yaml:"intensity"`
}

type lightDef struct {
	Position  []float32 `yaml:"position"`
	Color     []float32 `yaml:"color"`
	Intensity float32   `yaml:"intensity"`
}

type textureDef struct {
	File  string `yaml:"file"`
	WrapU string `yaml:"wrap_u"`
	WrapV string `yaml:"wrap_v"`
}

type materialDef struct {
	Name           string                `yaml:"name"`
	Shader         string                `yaml:"shader"`
	Reflectiveness float32               `yaml:"reflectiveness"`
	IORInside      float32               `yaml:"ior_inside"`
	IOROutside     *float32              `yaml:"ior_outside"`
	Floats         map[string]float32    `yaml:"floats"`
	Colors         map[string][]float32  `yaml:"colors"`
	Textures       map[string]textureDef `yaml:"textures"`
}

type shapeDef struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Material string `yaml:"material"`

	// Model to world transformation. Rotations are specified in degrees.
	Position []float32 `yaml:"position"`
	Rotation []float32 `yaml:"rotation"`
	Scale    []float32 `yaml:"scale"`

	// Wavefront object file with the faces of a mesh shape.
	Mesh string `yaml:"mesh"`
}

type sceneDef struct {
	Camera    cameraDef     `yaml:"camera"`
	Ambient   ambientDef    `yaml:"ambient"`
	Lights    []lightDef    `yaml:"lights"`
	Materials []materialDef `yaml:"materials"`
	Shapes    []shapeDef    `yaml:"shapes"`
}

// Reads scenes from YAML files. Texture and mesh paths are resolved
// relative to the scene file.
type yamlSceneReader struct {
	logger  log.Logger
	shaders *shader.Registry
}

// Create a new YAML scene reader.
func newYamlReader(shaders *shader.Registry) *yamlSceneReader {
	return &yamlSceneReader{
		logger:  log.New("scene reader"),
		shaders: shaders,
	}
}

// Read scene definition.
func (r *yamlSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	r.logger.Noticef(`parsing scene from "%s"`, sceneRes.Path())
	start := time.Now()

	var def sceneDef
	dec := yaml.NewDecoder(sceneRes)
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("scene reader: %s: %w", sceneRes.Path(), err)
	}

	cam, err := r.buildCamera(def.Camera)
	if err != nil {
		return nil, fmt.Errorf("scene reader: camera: %w", err)
	}

	ambient, err := toVec3("ambient color", def.Ambient.Color, types.Vec3{1, 1, 1})
	if err != nil {
		return nil, fmt.Errorf("scene reader: %w", err)
	}
	sc := scene.NewScene(cam, ambient, def.Ambient.Intensity)

	for index, ld := range def.Lights {
		light, err := buildLight(ld)
		if err != nil {
			return nil, fmt.Errorf("scene reader: light %d: %w", index, err)
		}
		sc.AddLight(light)
	}
	if len(def.Lights) == 0 {
		r.logger.Warning("scene does not define any lights")
	}

	for _, md := range def.Materials {
		mat, err := r.buildMaterial(md, sceneRes)
		if err != nil {
			return nil, fmt.Errorf("scene reader: %w", err)
		}
		if err = sc.AddMaterial(mat); err != nil {
			return nil, fmt.Errorf("scene reader: %w", err)
		}
	}

	for index, sd := range def.Shapes {
		if sd.Name == "" {
			sd.Name = fmt.Sprintf("%s-%d", sd.Type, index)
		}
		prim, err := r.buildShape(sc, sd, sceneRes)
		if err != nil {
			return nil, fmt.Errorf("scene reader: shape %q: %w", sd.Name, err)
		}
		if err = sc.AddPrimitive(prim); err != nil {
			return nil, fmt.Errorf("scene reader: %w", err)
		}
	}

	r.logger.Noticef("parsed scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}

func (r *yamlSceneReader) buildCamera(cd cameraDef) (*scene.Camera, error) {
	pos, err := toVec3("position", cd.Position, types.Vec3{})
	if err != nil {
		return nil, err
	}

	var rotation types.Vec3
	if cd.LookAt != nil {
		target, err := toVec3("look_at", cd.LookAt, types.Vec3{})
		if err != nil {
			return nil, err
		}
		rotation = lookAtRotation(pos, target)
	} else {
		rotation, err = toRadians("rotation", cd.Rotation)
		if err != nil {
			return nil, err
		}
	}

	fov, near, far := cd.Fov, cd.Near, cd.Far
	if fov == 0 {
		fov = defaultFovDegrees
	}
	if near == 0 {
		near = defaultNear
	}
	if far == 0 {
		far = defaultFar
	}

	switch {
	case fov <= 0 || fov >= 180:
		return nil, fmt.Errorf("fov must be in the (0, 180) range; got %v", fov)
	case near <= 0:
		return nil, fmt.Errorf("near plane distance must be positive; got %v", near)
	case far <= near:
		return nil, fmt.Errorf("far plane distance (%v) must exceed the near plane distance (%v)", far, near)
	}

	transform := scene.NewTransform(pos, rotation, types.Vec3{1, 1, 1})
	return scene.NewCamera(transform, 0, 0, types.Radians(fov), near, far), nil
}

func buildLight(ld lightDef) (*scene.Light, error) {
	pos, err := toVec3("position", ld.Position, types.Vec3{})
	if err != nil {
		return nil, err
	}
	color, err := toVec3("color", ld.Color, types.Vec3{1, 1, 1})
	if err != nil {
		return nil, err
	}
	return &scene.Light{Position: pos, Color: color, Intensity: ld.Intensity}, nil
}

func (r *yamlSceneReader) buildMaterial(md materialDef, relTo *asset.Resource) (*scene.Material, error) {
	if md.Name == "" {
		return nil, errors.New("material without a name")
	}
	if md.Shader == "" {
		md.Shader = "lambertian"
	}

	s, err := r.shaders.Lookup(md.Shader)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", md.Name, err)
	}

	iorOutside := float32(1.0)
	if md.IOROutside != nil {
		iorOutside = *md.IOROutside
	}
	if md.IORInside < 0 {
		return nil, fmt.Errorf("material %q: ior_inside must not be negative; got %v", md.Name, md.IORInside)
	}
	if iorOutside <= 0 {
		return nil, fmt.Errorf("material %q: ior_outside must be positive; got %v", md.Name, iorOutside)
	}

	mat := scene.NewMaterial(md.Name, s).SetReflectiveness(md.Reflectiveness)
	mat.SetIOR(md.IORInside, iorOutside)

	for name, v := range md.Floats {
		mat.SetFloat(name, v)
	}
	for name, c := range md.Colors {
		color, err := toVec3(name, c, types.Vec3{})
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", md.Name, err)
		}
		mat.SetColor(name, color)
	}
	for name, td := range md.Textures {
		wrapU, err := scene.ParseWrapMode(td.WrapU)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", md.Name, err)
		}
		wrapV, err := scene.ParseWrapMode(td.WrapV)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", md.Name, err)
		}

		tex, err := loadTexture(td.File, relTo, wrapU, wrapV)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", md.Name, err)
		}
		mat.SetTexture(name, tex)
	}

	return mat, nil
}

func (r *yamlSceneReader) buildShape(sc *scene.Scene, sd shapeDef, relTo *asset.Resource) (scene.Primitive, error) {
	mat, err := sc.Materials.Lookup(sd.Material)
	if err != nil {
		return nil, err
	}

	pos, err := toVec3("position", sd.Position, types.Vec3{})
	if err != nil {
		return nil, err
	}
	rotation, err := toRadians("rotation", sd.Rotation)
	if err != nil {
		return nil, err
	}
	scale, err := toVec3("scale", sd.Scale, types.Vec3{1, 1, 1})
	if err != nil {
		return nil, err
	}
	transform := scene.NewTransform(pos, rotation, scale)

	switch sd.Type {
	case "sphere":
		return shape.NewSphere(sd.Name, transform, mat), nil
	case "plane":
		return shape.NewPlane(sd.Name, transform, mat), nil
	case "disc":
		return shape.NewDisc(sd.Name, transform, mat), nil
	case "rectangle":
		return shape.NewRectangle(sd.Name, transform, mat), nil
	case "box":
		return shape.NewBox(sd.Name, transform, mat), nil
	case "triangle":
		return shape.NewTriangle(sd.Name, transform, mat), nil
	case "mesh":
		if sd.Mesh == "" {
			return nil, errors.New("mesh shapes require a mesh file")
		}
		meshRes, err := asset.NewResource(sd.Mesh, relTo)
		if err != nil {
			return nil, err
		}
		defer meshRes.Close()

		triangles, err := readWavefrontTriangles(meshRes)
		if err != nil {
			return nil, err
		}
		m, err := shape.NewMesh(sd.Name, transform, mat, triangles)
		if err != nil {
			return nil, err
		}
		r.logger.Infof("loaded mesh %q with %d triangles", sd.Name, m.TriangleCount())
		return m, nil
	}
	return nil, fmt.Errorf("unknown shape type %q", sd.Type)
}

// Convert a component list into a vector. A nil list selects def.
func toVec3(field string, v []float32, def types.Vec3) (types.Vec3, error) {
	if v == nil {
		return def, nil
	}
	if len(v) != 3 {
		return types.Vec3{}, fmt.Errorf("%s: expected 3 components; got %d", field, len(v))
	}
	return types.Vec3{v[0], v[1], v[2]}, nil
}

// Convert a list of euler angles in degrees into radians.
func toRadians(field string, v []float32) (types.Vec3, error) {
	deg, err := toVec3(field, v, types.Vec3{})
	if err != nil {
		return types.Vec3{}, err
	}
	return types.Vec3{types.Radians(deg[0]), types.Radians(deg[1]), types.Radians(deg[2])}, nil
}
