package reader

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/scene/shader"
	"github.com/achilleasa/go-raytrace/scene/shape"
	"github.com/achilleasa/go-raytrace/types"
)

func writeFiles(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func writeTexture(t *testing.T, path string) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err = png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func vecApproxEq(a, b types.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(float64(a[i]-b[i])) > 1e-5 {
			return false
		}
	}
	return true
}

func mustMaterial(t *testing.T, sc *scene.Scene, name string) *scene.Material {
	mat, err := sc.Materials.Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	return mat
}

const yamlScene = `
camera:
  position: [0, 0, 5]
  look_at: [0, 0, 0]
  fov: 60
ambient:
  color: [1, 1, 1]
  intensity: 0.1
lights:
  - position: [0, 5, 5]
    intensity: 50
materials:
  - name: red
    shader: blinn-phong
    reflectiveness: 0.25
    floats:
      phong exponent: 32
    colors:
      diffuse: [1, 0, 0]
  - name: glass
    ior_inside: 1.5
  - name: textured
    textures:
      diffuse:
        file: tex.png
        wrap_u: clamp
shapes:
  - name: ball
    type: sphere
    material: red
    position: [0, 1, 0]
  - type: plane
    material: glass
  - name: quad
    type: mesh
    material: textured
    mesh: model.obj
    scale: [2, 2, 2]
`

const quadModel = `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`

func TestReadYamlScene(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"scene.yaml": yamlScene,
		"model.obj":  quadModel,
	})
	writeTexture(t, filepath.Join(dir, "tex.png"))

	sc, err := ReadScene(filepath.Join(dir, "scene.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	// Camera
	if pos := sc.Camera.Position(); pos != (types.Vec3{0, 0, 5}) {
		t.Fatalf("expected camera position (0, 0, 5); got %v", pos)
	}
	if dir := sc.Camera.CameraToWorld().TransformDirection(types.Vec3{0, 0, -1}); !vecApproxEq(dir, types.Vec3{0, 0, -1}) {
		t.Fatalf("expected camera to look down -Z; got %v", dir)
	}
	if expFov := types.Radians(60); sc.Camera.FovY != expFov || sc.Camera.Near != defaultNear || sc.Camera.Far != defaultFar {
		t.Fatalf("unexpected camera settings: %+v", sc.Camera)
	}

	// Lighting
	if sc.AmbientIntensity != 0.1 || sc.Ambient != (types.Vec3{1, 1, 1}) {
		t.Fatalf("unexpected ambient settings: %v x %f", sc.Ambient, sc.AmbientIntensity)
	}
	if len(sc.Lights) != 1 || sc.Lights[0].Color != (types.Vec3{1, 1, 1}) || sc.Lights[0].Intensity != 50 {
		t.Fatalf("unexpected lights: %+v", sc.Lights)
	}

	// Materials
	red := mustMaterial(t, sc, "red")
	if _, ok := red.Shader.(shader.BlinnPhong); !ok {
		t.Fatalf("expected red material to use the blinn-phong shader; got %T", red.Shader)
	}
	if exp, _ := red.Float("phong exponent"); red.Reflectiveness != 0.25 || exp != 32 {
		t.Fatalf("unexpected red material properties: %+v", red)
	}
	if c, _ := red.Color("diffuse"); c != (types.Vec3{1, 0, 0}) {
		t.Fatalf("expected red diffuse color; got %v", c)
	}

	glass := mustMaterial(t, sc, "glass")
	if _, ok := glass.Shader.(shader.Lambertian); !ok || !glass.IsRefractive() || glass.IORInside != 1.5 || glass.IOROutside != 1 {
		t.Fatalf("unexpected glass material: %+v", glass)
	}

	tex, ok := mustMaterial(t, sc, "textured").Texture("diffuse")
	if !ok {
		t.Fatal("expected textured material to define a diffuse texture")
	}
	if tex.Width != 2 || tex.WrapU != scene.WrapClamp || tex.WrapV != scene.WrapRepeat || tex.Texels[0] != (types.Vec3{1, 0, 0}) {
		t.Fatalf("unexpected texture: %dx%d wrap (%d, %d)", tex.Width, tex.Height, tex.WrapU, tex.WrapV)
	}

	// Shapes
	expNames := []string{"ball", "plane-1", "quad"}
	if len(sc.Primitives) != len(expNames) {
		t.Fatalf("expected %d primitives; got %d", len(expNames), len(sc.Primitives))
	}
	for index, exp := range expNames {
		if got := sc.Primitives[index].Name(); got != exp {
			t.Fatalf("expected primitive %d to be named %q; got %q", index, exp, got)
		}
	}
	mesh, ok := sc.Primitives[2].(*shape.Mesh)
	if !ok || mesh.TriangleCount() != 2 {
		t.Fatalf("expected quad to be a mesh with 2 triangles; got %T", sc.Primitives[2])
	}
	if box := mesh.BBox(); !vecApproxEq(box.Max(), types.Vec3{2, 2, box.Max()[2]}) {
		t.Fatalf("expected mesh scale to be applied; got bbox max %v", box.Max())
	}
}

func TestReadYamlSceneErrors(t *testing.T) {
	type spec struct {
		yaml   string
		expErr string
	}
	specs := []spec{
		{
			"materials:\n  - name: m\n    shader: toon\n",
			`scene reader: material "m": shader registry: unknown shader "toon"`,
		},
		{
			"materials:\n  - name: m\nshapes:\n  - type: sphere\n    material: nope\n",
			`scene reader: shape "sphere-0": material store: unknown material "nope"`,
		},
		{
			"materials:\n  - name: m\nshapes:\n  - name: c\n    type: cone\n    material: m\n",
			`scene reader: shape "c": unknown shape type "cone"`,
		},
		{
			"materials:\n  - name: m\nshapes:\n  - name: s\n    type: sphere\n    material: m\n    position: [1, 2]\n",
			`scene reader: shape "s": position: expected 3 components; got 2`,
		},
		{
			"materials:\n  - name: m\n  - name: m\n",
			`scene reader: scene: material store: material "m" already defined`,
		},
		{
			"camera:\n  near: 10\n  far: 1\n",
			`scene reader: camera: far plane distance (1) must exceed the near plane distance (10)`,
		},
		{
			"materials:\n  - name: m\n    textures:\n      diffuse:\n        file: tex.png\n        wrap_u: mirror\n",
			`scene reader: material "m": texture: unknown wrap mode "mirror"`,
		},
		{
			"cameras: {}\n",
			"field cameras not found",
		},
		{
			"materials:\n  - name: glass\n    ior_inside: 1.5\n    ior_outside: 0\n",
			`scene reader: material "glass": ior_outside must be positive; got 0`,
		},
		{
			"materials:\n  - name: glass\n    ior_inside: -1.5\n",
			`scene reader: material "glass": ior_inside must not be negative; got -1.5`,
		},
	}

	for specIndex, s := range specs {
		dir := writeFiles(t, map[string]string{"scene.yaml": s.yaml})
		_, err := ReadScene(filepath.Join(dir, "scene.yaml"))
		if err == nil || !strings.Contains(err.Error(), s.expErr) {
			t.Fatalf("[spec %d] expected error containing %q; got %v", specIndex, s.expErr, err)
		}
	}
}

const wavefrontScene = `
# test scene
mtllib scene.mtl
camera_eye 0 2 10
camera_look 0 0 0
camera_fov 50
light 0 10 0 1 1 1 80
ambient 1 1 1 0.05

v -1 0 -1
v 1 0 -1
v 1 0 1
v -1 0 1
vn 0 1 0

o floor
usemtl mirror
f 1//1 2//1 3//1 4//1

o tri
usemtl matte
f 1 2 3
usemtl glass
f -4 -2 -1

o lamp
usemtl glow
f 1 3 4

o empty
`

const wavefrontMaterials = `
newmtl mirror
Kd 0.1 0.1 0.1
Ks 0.8 0.8 0.8

newmtl matte
Kd 0.5 0.5 0.5

newmtl glass
Ks 1 1 1
Ni 1.5

newmtl glow
include matte
Ke 1 1 0
KeScaler 2

newmtl unused
Kd 1 1 1
`

func TestReadWavefrontScene(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"scene.obj": wavefrontScene,
		"scene.mtl": wavefrontMaterials,
	})

	sc, err := ReadScene(filepath.Join(dir, "scene.obj"))
	if err != nil {
		t.Fatal(err)
	}

	if pos := sc.Camera.Position(); pos != (types.Vec3{0, 2, 10}) {
		t.Fatalf("expected camera position (0, 2, 10); got %v", pos)
	}
	if sc.Camera.FovY != types.Radians(50) {
		t.Fatalf("expected camera fov to be %f; got %f", types.Radians(50), sc.Camera.FovY)
	}
	if len(sc.Lights) != 1 || sc.Lights[0].Intensity != 80 || sc.AmbientIntensity != 0.05 {
		t.Fatalf("unexpected lighting setup: %+v, ambient %f", sc.Lights, sc.AmbientIntensity)
	}

	// The unused material is pruned
	if sc.Materials.Len() != 4 {
		t.Fatalf("expected 4 materials; got %d", sc.Materials.Len())
	}

	mirror := mustMaterial(t, sc, "mirror")
	if _, ok := mirror.Shader.(shader.BlinnPhong); !ok || mirror.Reflectiveness != 0.8 || mirror.IsRefractive() {
		t.Fatalf("unexpected mirror material: %+v", mirror)
	}
	if _, ok := mustMaterial(t, sc, "matte").Shader.(shader.Lambertian); !ok {
		t.Fatal("expected matte material to use the lambertian shader")
	}
	if glass := mustMaterial(t, sc, "glass"); !glass.IsRefractive() || glass.IORInside != 1.5 || glass.Reflectiveness != 0 {
		t.Fatalf("unexpected glass material: %+v", glass)
	}
	glow := mustMaterial(t, sc, "glow")
	if _, ok := glow.Shader.(shader.ColorOnly); !ok {
		t.Fatalf("expected glow material to use the color-only shader; got %T", glow.Shader)
	}
	if c, _ := glow.Color("color"); c != (types.Vec3{2, 2, 0}) {
		t.Fatalf("expected glow color (2, 2, 0); got %v", c)
	}
	if c, _ := glow.Color("diffuse"); c != (types.Vec3{0.5, 0.5, 0.5}) {
		t.Fatalf("expected glow to include the matte diffuse color; got %v", c)
	}

	expNames := []string{"floor", "tri/matte", "tri/glass", "lamp"}
	expTriangles := []int{2, 1, 1, 1}
	if len(sc.Primitives) != len(expNames) {
		t.Fatalf("expected %d primitives; got %d", len(expNames), len(sc.Primitives))
	}
	for index, prim := range sc.Primitives {
		mesh, ok := prim.(*shape.Mesh)
		if !ok {
			t.Fatalf("expected primitive %d to be a mesh; got %T", index, prim)
		}
		if mesh.Name() != expNames[index] || mesh.TriangleCount() != expTriangles[index] {
			t.Fatalf("expected primitive %d to be %q with %d triangles; got %q with %d triangles", index, expNames[index], expTriangles[index], mesh.Name(), mesh.TriangleCount())
		}
	}
}

func TestReadWavefrontInstances(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"scene.obj": `
o tri
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
instance tri 0 0 0 0 0 0 1 1 1
instance tri 5 0 0 0 90 0 2 2 2
`,
	})

	sc, err := ReadScene(filepath.Join(dir, "scene.obj"))
	if err != nil {
		t.Fatal(err)
	}

	if len(sc.Primitives) != 2 || sc.Primitives[0].Name() != "tri#0" || sc.Primitives[1].Name() != "tri#1" {
		t.Fatalf("expected two mesh instances; got %d primitives", len(sc.Primitives))
	}
	if c := sc.Primitives[1].BBox().Center; c[0] < 4.5 {
		t.Fatalf("expected second instance to be translated; got bbox center %v", c)
	}

	mat := mustMaterial(t, sc, defaultMaterialName)
	if c, _ := mat.Color("diffuse"); c != (types.Vec3{0.7, 0.7, 0.7}) {
		t.Fatalf("expected default material diffuse color (0.7, 0.7, 0.7); got %v", c)
	}
}

func TestReadWavefrontErrors(t *testing.T) {
	type spec struct {
		obj    string
		expErr string
	}
	specs := []spec{
		{"v 0 0 0\nf 1 1\n", `: 2] error: unsupported syntax for "f"`},
		{"usemtl foo\n", `: 1] error: undefined material with name "foo"`},
		{"v 0 0 0\nv 1 0 0\nf 1 2 9\n", "index out of bounds"},
		{"v 0 zero 0\n", `: 1] error: strconv.ParseFloat`},
		{"mtllib missing.mtl\n", "referenced from"},
		{"instance foo 0 0 0 0 0 0 1 1 1\n", `unknown mesh with name "foo"`},
	}

	for specIndex, s := range specs {
		dir := writeFiles(t, map[string]string{"scene.obj": s.obj})
		_, err := ReadScene(filepath.Join(dir, "scene.obj"))
		if err == nil || !strings.Contains(err.Error(), s.expErr) {
			t.Fatalf("[spec %d] expected error containing %q; got %v", specIndex, s.expErr, err)
		}
	}
}

func TestReadWavefrontNegativeIOR(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"scene.obj": "mtllib glass.mtl\n",
		"glass.mtl": "newmtl glass\nKs 1 1 1\nNi -1.5\n",
	})

	expErr := `glass.mtl: 3] error: index of refraction must not be negative; got -1.5`
	_, err := ReadScene(filepath.Join(dir, "scene.obj"))
	if err == nil || !strings.Contains(err.Error(), expErr) {
		t.Fatalf("expected error containing %q; got %v", expErr, err)
	}
}

func TestUnsupportedSceneFormat(t *testing.T) {
	expError := `readScene: unsupported file format ".txt"`
	if _, err := ReadScene("scene.txt"); err == nil || err.Error() != expError {
		t.Fatalf("expected error %q; got %v", expError, err)
	}
}

func TestLookAtRotation(t *testing.T) {
	type spec struct {
		eye, target types.Vec3
	}
	specs := []spec{
		{types.Vec3{0, 0, 5}, types.Vec3{}},
		{types.Vec3{5, 0, 0}, types.Vec3{}},
		{types.Vec3{0, 5, 5}, types.Vec3{}},
		{types.Vec3{-3, 2, -4}, types.Vec3{1, 0, 2}},
	}

	for specIndex, s := range specs {
		rot := types.QuatFromEuler(lookAtRotation(s.eye, s.target))
		got := rot.Rotate(types.Vec3{0, 0, -1})
		if exp := s.target.Sub(s.eye).Normalize(); !vecApproxEq(got, exp) {
			t.Fatalf("[spec %d] expected view direction %v; got %v", specIndex, exp, got)
		}
	}
}
