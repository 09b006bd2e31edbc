package tracer

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/achilleasa/go-raytrace/bvh"
	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/scene/shader"
	"github.com/achilleasa/go-raytrace/scene/shape"
	"github.com/achilleasa/go-raytrace/types"
)

// Returns a fixed color regardless of the lighting conditions.
type constShader types.Vec3

func (s constShader) Run(scene.Intersection, types.Vec3, types.Ray, []*scene.Light, types.Vec3, float32) types.Vec3 {
	return types.Vec3(s)
}

// Returns the number of visible lights in the red channel.
type lightCountShader struct{}

func (lightCountShader) Run(_ scene.Intersection, _ types.Vec3, _ types.Ray, lights []*scene.Light, _ types.Vec3, _ float32) types.Vec3 {
	return types.Vec3{float32(len(lights)), 0, 0}
}

func approxEq(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func vecApproxEq(a, b types.Vec3, tol float32) bool {
	return approxEq(a[0], b[0], tol) && approxEq(a[1], b[1], tol) && approxEq(a[2], b[2], tol)
}

func mustAdd(t *testing.T, sc *scene.Scene, prims ...scene.Primitive) {
	for _, prim := range prims {
		if err := sc.AddPrimitive(prim); err != nil {
			t.Fatal(err)
		}
	}
}

func mustMaterial(t *testing.T, sc *scene.Scene, mat *scene.Material) *scene.Material {
	if err := sc.AddMaterial(mat); err != nil {
		t.Fatal(err)
	}
	return mat
}

func newTestScene() *scene.Scene {
	cam := scene.NewCamera(scene.Translation(types.Vec3{0, 0, 5}), 64, 48, types.Radians(60), 0.1, 1000)
	return scene.NewScene(cam, types.Vec3{}, 0)
}

func mustTracer(t *testing.T, sc *scene.Scene, cfg Config) *RayTracer {
	sc.Compile(bvh.Builder)
	rt, err := New(sc, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return rt
}

// Build a scene with a floor at y=0, a ceiling facing down at y=10 and a
// bottom plane at y=-5.
func corridorScene(t *testing.T, floor *scene.Material) *scene.Scene {
	sc := newTestScene()
	mustMaterial(t, sc, floor)
	ceiling := mustMaterial(t, sc, scene.NewMaterial("ceiling", constShader{1, 1, 1}))
	bottom := mustMaterial(t, sc, scene.NewMaterial("bottom", constShader{0, 1, 0}))

	mustAdd(t, sc,
		shape.NewPlane("floor", scene.Translation(types.Vec3{}), floor),
		shape.NewPlane("ceiling", scene.NewTransform(types.Vec3{0, 10, 0}, types.Vec3{math.Pi, 0, 0}, types.Vec3{1, 1, 1}), ceiling),
		shape.NewPlane("bottom", scene.Translation(types.Vec3{0, -5, 0}), bottom),
	)
	return sc
}

func TestConfigValidation(t *testing.T) {
	type spec struct {
		cfg    Config
		expErr bool
	}
	specs := []spec{
		{Config{MaxBounces: 4, Threads: 1, AntiAliasing: AA1}, false},
		{Config{MaxBounces: 0, Threads: 8, AntiAliasing: AA16}, false},
		{Config{Threads: 1, AntiAliasing: 3}, true},
		{Config{Threads: 1, AntiAliasing: 0}, true},
		{Config{Threads: 0, AntiAliasing: AA2}, true},
	}

	for specIndex, s := range specs {
		err := s.cfg.Validate()
		if (err != nil) != s.expErr {
			t.Fatalf("[spec %d] expected error to be %t; got %v", specIndex, s.expErr, err)
		}
	}

	if err := (Config{Threads: 1, AntiAliasing: 5}).Validate(); !errors.Is(err, ErrInvalidAAMode) {
		t.Fatalf("expected error to wrap %v; got %v", ErrInvalidAAMode, err)
	}
}

func TestSampleOffsets(t *testing.T) {
	for _, mode := range []AAMode{AA1, AA2, AA4, AA8, AA16} {
		offsets := mode.Offsets()
		if len(offsets) != int(mode) {
			t.Fatalf("expected %s to define %d offsets; got %d", mode, mode, len(offsets))
		}

		seen := make(map[types.Vec2]bool)
		for _, off := range offsets {
			if off[0] <= 0 || off[0] >= 1 || off[1] <= 0 || off[1] >= 1 {
				t.Fatalf("%s: offset %v lies outside the pixel", mode, off)
			}
			if seen[off] {
				t.Fatalf("%s: duplicate offset %v", mode, off)
			}
			seen[off] = true
		}
	}
}

func TestNewErrors(t *testing.T) {
	cfg := Config{Threads: 1, AntiAliasing: AA1}
	if _, err := New(nil, cfg); err != ErrNoScene {
		t.Fatalf("expected error %v; got %v", ErrNoScene, err)
	}
	if _, err := New(scene.NewScene(nil, types.Vec3{}, 0), cfg); err != ErrNoCamera {
		t.Fatalf("expected error %v; got %v", ErrNoCamera, err)
	}
	if _, err := New(newTestScene(), cfg); err != ErrSceneNotCompiled {
		t.Fatalf("expected error %v; got %v", ErrSceneNotCompiled, err)
	}
}

func TestOptics(t *testing.T) {
	// Mirror reflection
	ray := types.NewRay(types.Vec3{-1, 1, 0}, types.Vec3{1, -1, 0})
	refl := ReflectRay(ray, types.Vec3{}, types.Vec3{0, 1, 0})
	if !vecApproxEq(refl.Dir(), types.Vec3{1, 1, 0}.Normalize(), 1e-6) {
		t.Fatalf("expected reflected direction %v; got %v", types.Vec3{1, 1, 0}.Normalize(), refl.Dir())
	}
	if !vecApproxEq(refl.Origin(), types.Vec3{0, bias, 0}, 1e-7) {
		t.Fatalf("expected reflected ray origin to be biased along the normal; got %v", refl.Origin())
	}

	// Normal incidence passes straight through
	dir, ok := Refract(types.Vec3{0, -1, 0}, types.Vec3{0, 1, 0}, 1/1.5)
	if !ok || !vecApproxEq(dir, types.Vec3{0, -1, 0}, 1e-6) {
		t.Fatalf("expected undeviated refraction; got %v (%t)", dir, ok)
	}

	// Snell's law: sin(t) = sin(i) / 1.5
	incidence := types.Vec3{1, -1, 0}.Normalize()
	dir, ok = Refract(incidence, types.Vec3{0, 1, 0}, 1/1.5)
	if !ok {
		t.Fatal("expected refraction to succeed")
	}
	if expSin := float32(math.Sqrt(0.5) / 1.5); !approxEq(dir[0], expSin, 1e-5) || !approxEq(dir.Len(), 1, 1e-5) {
		t.Fatalf("expected unit transmission direction with sin %f; got %v", expSin, dir)
	}

	// Normal incidence reflectance for air to glass
	if f := FresnelFactor(-1, 1, 1.5); !approxEq(f, 0.04, 1e-5) {
		t.Fatalf("expected fresnel factor 0.04; got %f", f)
	}

	// Grazing incidence reflects almost everything
	if f := FresnelFactor(-0.001, 1, 1.5); f < 0.99 {
		t.Fatalf("expected fresnel factor close to 1 at grazing incidence; got %f", f)
	}
}

func TestTotalInternalReflection(t *testing.T) {
	// Glass to air at 60 degrees exceeds the critical angle (~41.8 degrees)
	incidence := types.Vec3{float32(math.Sin(math.Pi / 3)), float32(math.Cos(math.Pi / 3)), 0}
	normal := types.Vec3{0, -1, 0}

	if f := FresnelFactor(incidence.Dot(types.Vec3{0, 1, 0}), 1.5, 1); f != 1 {
		t.Fatalf("expected fresnel factor 1; got %f", f)
	}

	dir, ok := Refract(incidence, normal, 1.5)
	if ok || dir != (types.Vec3{}) {
		t.Fatalf("expected total internal reflection; got %v (%t)", dir, ok)
	}
}

func TestReflectionEnergySplit(t *testing.T) {
	type spec struct {
		maxBounces uint8
		k          float32
	}
	specs := []spec{
		{1, 0.25},
		{1, 1},
		{3, 0.6},
	}

	floorColor := types.Vec3{0.2, 0.4, 0.6}
	ceilingColor := types.Vec3{1, 1, 1}
	for specIndex, s := range specs {
		floor := scene.NewMaterial("floor", constShader(floorColor)).SetReflectiveness(s.k)
		rt := mustTracer(t, corridorScene(t, floor), Config{MaxBounces: s.maxBounces, Threads: 1, AntiAliasing: AA1})

		got := rt.TraceRay(types.NewRay(types.Vec3{0, 5, 0}, types.Vec3{1, -1, 0}), RayState{}, 1e6)
		exp := floorColor.Mul(1 - s.k).Add(ceilingColor.Mul(s.k))
		if got != exp {
			t.Fatalf("[spec %d] expected color %v; got %v", specIndex, exp, got)
		}
	}
}

func TestDepthBudgetTermination(t *testing.T) {
	floorColor := types.Vec3{0.2, 0.4, 0.6}
	materials := []*scene.Material{
		scene.NewMaterial("floor", constShader(floorColor)).SetReflectiveness(1),
		scene.NewMaterial("floor", constShader(floorColor)).SetIOR(1.5, 1),
	}

	for specIndex, mat := range materials {
		rt := mustTracer(t, corridorScene(t, mat), Config{MaxBounces: 0, Threads: 1, AntiAliasing: AA1})
		got := rt.TraceRay(types.NewRay(types.Vec3{0, 5, 0}, types.Vec3{1, -1, 0}), RayState{}, 1e6)
		if got != floorColor {
			t.Fatalf("[spec %d] expected direct shading %v; got %v", specIndex, floorColor, got)
		}
		if rt.reflectedRays != 0 || rt.refractedRays != 0 {
			t.Fatalf("[spec %d] expected no secondary rays; got %d reflected, %d refracted", specIndex, rt.reflectedRays, rt.refractedRays)
		}
	}
}

func TestRefractionSplit(t *testing.T) {
	glass := scene.NewMaterial("floor", constShader{0, 0, 0}).SetIOR(1.5, 1)
	rt := mustTracer(t, corridorScene(t, glass), Config{MaxBounces: 2, Threads: 1, AntiAliasing: AA1})

	ray := types.NewRay(types.Vec3{0, 5, 0}, types.Vec3{1, -1, 0})
	got := rt.TraceRay(ray, RayState{}, 1e6)

	// Reflection hits the ceiling, transmission hits the bottom plane
	fresnel := FresnelFactor(ray.Dir().Dot(types.Vec3{0, 1, 0}), 1, 1.5)
	exp := types.Vec3{1, 1, 1}.Mul(fresnel).Add(types.Vec3{0, 1, 0}.Mul(1 - fresnel))
	if !vecApproxEq(got, exp, 1e-6) {
		t.Fatalf("expected color %v; got %v", exp, got)
	}
	if fresnel <= 0 || fresnel >= 1 {
		t.Fatalf("expected partial reflectance; got %f", fresnel)
	}
}

func TestLightsAtIntersection(t *testing.T) {
	type spec struct {
		occluderIOR float32
		lightY      float32
		expVisible  int
	}
	specs := []spec{
		// Opaque occluder between floor and light
		{0, 10, 0},
		// Refractive occluders do not cast shadows
		{1.5, 10, 1},
		// Light between floor and occluder
		{0, 1, 1},
	}

	for specIndex, s := range specs {
		sc := newTestScene()
		floor := mustMaterial(t, sc, scene.NewMaterial("floor", lightCountShader{}))
		occluderMat := mustMaterial(t, sc, scene.NewMaterial("occluder", constShader{}).SetIOR(s.occluderIOR, 1))
		mustAdd(t, sc,
			shape.NewPlane("floor", scene.Translation(types.Vec3{}), floor),
			shape.NewSphere("occluder", scene.Translation(types.Vec3{0, 3, 0}), occluderMat),
		)
		sc.AddLight(&scene.Light{Position: types.Vec3{0, s.lightY, 0}, Color: types.Vec3{1, 1, 1}, Intensity: 1})
		rt := mustTracer(t, sc, Config{MaxBounces: 0, Threads: 1, AntiAliasing: AA1})

		isect, hit := rt.ShootRay(types.NewRay(types.Vec3{0, 0.5, 0}, types.Vec3{0, -1, 0}))
		if !hit || isect.Primitive.Name() != "floor" {
			t.Fatalf("[spec %d] expected ray to hit the floor", specIndex)
		}
		if got := len(rt.LightsAtIntersection(isect)); got != s.expVisible {
			t.Fatalf("[spec %d] expected %d visible lights; got %d", specIndex, s.expVisible, got)
		}
	}
}

func TestShootRayPicksNearestAcrossLists(t *testing.T) {
	sc := newTestScene()
	mat := mustMaterial(t, sc, scene.NewMaterial("m", constShader{}))
	mustAdd(t, sc,
		shape.NewPlane("floor", scene.Translation(types.Vec3{0, -3, 0}), mat),
		shape.NewSphere("sphere", scene.Translation(types.Vec3{}), mat),
	)
	rt := mustTracer(t, sc, Config{Threads: 1, AntiAliasing: AA1})

	type spec struct {
		origin  types.Vec3
		expName string
	}
	specs := []spec{
		{types.Vec3{0, 5, 0}, "sphere"},
		{types.Vec3{3, 5, 0}, "floor"},
		{types.Vec3{0, -2, 0}, "floor"},
	}
	for specIndex, s := range specs {
		isect, hit := rt.ShootRay(types.NewRay(s.origin, types.Vec3{0, -1, 0}))
		if !hit || isect.Primitive.Name() != s.expName {
			t.Fatalf("[spec %d] expected to hit %q; got %v (%t)", specIndex, s.expName, isect.Primitive, hit)
		}
	}
}

func litSphereScene(t *testing.T) *scene.Scene {
	sc := newTestScene()
	mat := mustMaterial(t, sc, scene.NewMaterial("diffuse", shader.Lambertian{}).SetColor("diffuse", types.Vec3{1, 1, 1}))
	mustAdd(t, sc, shape.NewSphere("sphere", scene.Translation(types.Vec3{}), mat))
	sc.AddLight(&scene.Light{Position: types.Vec3{0, 0, 10}, Color: types.Vec3{1, 1, 1}, Intensity: 100})
	return sc
}

func TestTraceLitSphere(t *testing.T) {
	for _, mode := range []AAMode{AA1, AA4, AA16} {
		rt := mustTracer(t, litSphereScene(t), Config{MaxBounces: 0, Threads: 4, AntiAliasing: mode})
		img, err := rt.Trace()
		if err != nil {
			t.Fatal(err)
		}

		if img.Width != 64 || img.Height != 48 || len(img.Pixels) != 64*48 {
			t.Fatalf("%s: unexpected image dims %dx%d (%d pixels)", mode, img.Width, img.Height, len(img.Pixels))
		}
		if center := img.At(32, 24); center[0] < 0.5 {
			t.Fatalf("%s: expected a bright center pixel; got %v", mode, center)
		}
		for _, corner := range [][2]int{{0, 0}, {63, 0}, {0, 47}, {63, 47}} {
			if c := img.At(corner[0], corner[1]); c != (types.Vec3{}) {
				t.Fatalf("%s: expected black corner pixel at %v; got %v", mode, corner, c)
			}
		}

		stats := rt.Stats()
		if stats.Tiles != 1 {
			t.Fatalf("%s: expected 1 tile; got %d", mode, stats.Tiles)
		}
		if exp := uint64(64 * 48 * int(mode)); stats.Rays.Primary != exp {
			t.Fatalf("%s: expected %d primary rays; got %d", mode, exp, stats.Rays.Primary)
		}
	}
}

func TestTraceCancelled(t *testing.T) {
	rt := mustTracer(t, litSphereScene(t), Config{Threads: 2, AntiAliasing: AA1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img, err := rt.TraceContext(ctx)
	if err != context.Canceled {
		t.Fatalf("expected error %v; got %v", context.Canceled, err)
	}
	if img != nil {
		t.Fatal("expected no image for an interrupted frame")
	}
}

func TestMakeMouseRay(t *testing.T) {
	sc := litSphereScene(t)
	sc.Camera.SetScreenSize(65, 49)
	rt := mustTracer(t, sc, Config{Threads: 1, AntiAliasing: AA1})

	ray := rt.MakeMouseRay(32, 24)
	if ray.Origin() != (types.Vec3{0, 0, 5}) {
		t.Fatalf("expected mouse ray to start at the camera eye; got %v", ray.Origin())
	}
	if !vecApproxEq(ray.Dir(), types.Vec3{0, 0, -1}, 1e-6) {
		t.Fatalf("expected center mouse ray to point down -Z; got %v", ray.Dir())
	}

	// The top-left pixel points up and to the left
	ray = rt.MakeMouseRay(0, 0)
	if dir := ray.Dir(); dir[0] >= 0 || dir[1] <= 0 || dir[2] >= 0 {
		t.Fatalf("expected top-left mouse ray to point to (-x, +y, -z); got %v", dir)
	}
}

func TestPick(t *testing.T) {
	sc := litSphereScene(t)
	sc.Camera.SetScreenSize(65, 49)
	rt := mustTracer(t, sc, Config{Threads: 1, AntiAliasing: AA1})

	res, err := rt.Pick(32, 24)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Hit || res.Primitive != "sphere" {
		t.Fatalf("expected pick to hit the sphere; got %+v", res)
	}
	if !vecApproxEq(res.Position, types.Vec3{0, 0, 1}, 1e-4) {
		t.Fatalf("expected hit at (0, 0, 1); got %v", res.Position)
	}
	if res.Color[0] <= 0 {
		t.Fatalf("expected a lit pick color; got %v", res.Color)
	}
	if len(res.Steps) == 0 {
		t.Fatal("expected pick to record trace steps")
	}

	res, err = rt.Pick(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Hit || res.Color != (types.Vec3{}) {
		t.Fatalf("expected corner pick to miss; got %+v", res)
	}

	expError := "tracer: pick coordinates (65, 0) outside the 65x49 frame"
	if _, err = rt.Pick(65, 0); err == nil || err.Error() != expError {
		t.Fatalf("expected error %q; got %v", expError, err)
	}
}

func TestFarPlaneClip(t *testing.T) {
	type spec struct {
		far        float32
		expVisible bool
	}
	specs := []spec{
		{3, false},
		{10, true},
	}

	for specIndex, s := range specs {
		cam := scene.NewCamera(scene.Translation(types.Vec3{0, 0, 5}), 64, 48, types.Radians(60), 0.1, s.far)
		sc := scene.NewScene(cam, types.Vec3{}, 0)
		mat := mustMaterial(t, sc, scene.NewMaterial("white", constShader{1, 1, 1}))
		mustAdd(t, sc, shape.NewSphere("sphere", scene.Translation(types.Vec3{}), mat))
		rt := mustTracer(t, sc, Config{Threads: 2, AntiAliasing: AA1})

		img, err := rt.Trace()
		if err != nil {
			t.Fatal(err)
		}
		center := img.At(32, 24)
		if visible := center != (types.Vec3{}); visible != s.expVisible {
			t.Fatalf("[spec %d] expected sphere visibility %t with far plane %v; got center pixel %v", specIndex, s.expVisible, s.far, center)
		}

		res, err := rt.Pick(32, 24)
		if err != nil {
			t.Fatal(err)
		}
		if res.Hit != s.expVisible {
			t.Fatalf("[spec %d] expected pick hit %t with far plane %v; got %+v", specIndex, s.expVisible, s.far, res)
		}
		if !s.expVisible && res.Color != (types.Vec3{}) {
			t.Fatalf("[spec %d] expected black pick color for clipped hit; got %v", specIndex, res.Color)
		}
	}
}

func TestRayStateIsolation(t *testing.T) {
	root := RayState{}.enter(1.5)
	a := root.descend().enter(1.3)
	b := root.descend().enter(2.4)

	if media := a.Media(); len(media) != 2 || media[1] != 1.3 {
		t.Fatalf("expected media [1.5 1.3]; got %v", media)
	}
	if media := b.Media(); len(media) != 2 || media[1] != 2.4 {
		t.Fatalf("expected media [1.5 2.4]; got %v", media)
	}
	if root.Bounces != 0 || len(root.media) != 1 {
		t.Fatalf("expected parent state to remain unchanged; got %+v", root)
	}
	if exited := a.exit().exit().exit(); len(exited.media) != 0 || exited.Bounces != 1 {
		t.Fatalf("expected exit to stop at an empty stack; got %+v", exited)
	}
}
