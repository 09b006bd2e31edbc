package scene

import (
	"math"
	"strings"
	"testing"

	"github.com/achilleasa/go-raytrace/types"
)

type nopShader struct{}

func (nopShader) Run(Intersection, types.Vec3, types.Ray, []*Light, types.Vec3, float32) types.Vec3 {
	return types.Vec3{}
}

type mockPrimitive struct {
	name      string
	boundable bool
	material  *Material
}

func (p *mockPrimitive) Name() string                             { return p.name }
func (p *mockPrimitive) Intersects(types.Ray) (Intersection, bool) { return Intersection{}, false }
func (p *mockPrimitive) BBox() types.BBox                         { return types.BBox{} }
func (p *mockPrimitive) Center() types.Vec3                       { return types.Vec3{} }
func (p *mockPrimitive) IsBoundable() bool                        { return p.boundable }
func (p *mockPrimitive) Material() *Material                      { return p.material }

type countingAccelerator struct {
	prims []Primitive
}

func (a *countingAccelerator) Traverse(types.Ray) (Intersection, bool) {
	return Intersection{}, false
}

func TestMaterialStore(t *testing.T) {
	store := NewMaterialStore()
	mat := NewMaterial("glass", nopShader{})
	if err := store.Add(mat); err != nil {
		t.Fatal(err)
	}

	expError := `material store: material "glass" already defined`
	if err := store.Add(NewMaterial("glass", nopShader{})); err == nil || err.Error() != expError {
		t.Fatalf("expected error %q; got %v", expError, err)
	}

	got, err := store.Lookup("glass")
	if err != nil {
		t.Fatal(err)
	}
	if got != mat {
		t.Fatal("expected lookup to return the stored material")
	}

	expError = `material store: unknown material "steel"`
	if _, err = store.Lookup("steel"); err == nil || err.Error() != expError {
		t.Fatalf("expected error %q; got %v", expError, err)
	}

	expError = `material store: material "bare" has no shader`
	if err = store.Add(NewMaterial("bare", nil)); err == nil || err.Error() != expError {
		t.Fatalf("expected error %q; got %v", expError, err)
	}
}

func TestMaterialProperties(t *testing.T) {
	mat := NewMaterial("m", nopShader{}).
		SetReflectiveness(1.5).
		SetFloat("phong exponent", 32).
		SetColor("specular", types.Vec3{1, 1, 1}).
		SetTexture("diffuse", SolidTexture(types.Vec3{0.5, 0, 0}))

	if mat.Reflectiveness != 1 {
		t.Fatalf("expected reflectiveness to be clamped to 1; got %f", mat.Reflectiveness)
	}
	if v, ok := mat.Float("phong exponent"); !ok || v != 32 {
		t.Fatalf("expected float property 32; got %f (%t)", v, ok)
	}
	if _, ok := mat.Float("missing"); ok {
		t.Fatal("expected missing float property lookup to fail")
	}
	if c, ok := mat.Sample("diffuse", types.Vec2{0.3, 0.3}); !ok || c != (types.Vec3{0.5, 0, 0}) {
		t.Fatalf("expected diffuse texture sample; got %v (%t)", c, ok)
	}
	if c, ok := mat.Sample("specular", types.Vec2{}); !ok || c != (types.Vec3{1, 1, 1}) {
		t.Fatalf("expected sample to fall back to color property; got %v (%t)", c, ok)
	}
	if _, ok := mat.Sample("emissive", types.Vec2{}); ok {
		t.Fatal("expected sample of undefined property to fail")
	}
	if mat.IsRefractive() {
		t.Fatal("expected material without inside IOR to be opaque")
	}
}

func TestTextureSampling(t *testing.T) {
	tex := &Texture{
		Width:  2,
		Height: 2,
		Texels: []types.Vec3{
			{1, 0, 0}, {0, 1, 0},
			{0, 0, 1}, {1, 1, 1},
		},
	}

	type spec struct {
		u, v  float32
		wrapU WrapMode
		exp   types.Vec3
	}
	specs := []spec{
		{0, 0, WrapRepeat, types.Vec3{1, 0, 0}},
		{1, 0, WrapClamp, types.Vec3{0, 1, 0}},
		{0, 0.9, WrapRepeat, types.Vec3{0, 0, 1}},
		{0.9, 0.9, WrapRepeat, types.Vec3{1, 1, 1}},
		{1.9, 0, WrapRepeat, types.Vec3{0, 1, 0}},
		{-0.9, 0, WrapRepeat, types.Vec3{0, 1, 0}},
		{5, 0, WrapClamp, types.Vec3{0, 1, 0}},
		{float32(math.NaN()), 0, WrapRepeat, types.Vec3{1, 0, 0}},
	}

	for index, s := range specs {
		tex.WrapU = s.wrapU
		if got := tex.Sample(s.u, s.v); got != s.exp {
			t.Fatalf("[spec %d] expected sample %v; got %v", index, s.exp, got)
		}
	}
}

func TestSceneAddPrimitive(t *testing.T) {
	sc := NewScene(nil, types.Vec3{1, 1, 1}, 0.1)

	orphan := NewMaterial("orphan", nopShader{})
	err := sc.AddPrimitive(&mockPrimitive{name: "p0", material: orphan})
	if err == nil || !strings.Contains(err.Error(), "unknown material") {
		t.Fatalf("expected unknown material error; got %v", err)
	}

	err = sc.AddPrimitive(&mockPrimitive{name: "p1"})
	if err == nil || !strings.Contains(err.Error(), "no material assigned") {
		t.Fatalf("expected missing material error; got %v", err)
	}

	mat := NewMaterial("mat", nopShader{})
	if err = sc.AddMaterial(mat); err != nil {
		t.Fatal(err)
	}
	for _, prim := range []*mockPrimitive{
		{name: "sphere", boundable: true, material: mat},
		{name: "plane", boundable: false, material: mat},
		{name: "box", boundable: true, material: mat},
	} {
		if err = sc.AddPrimitive(prim); err != nil {
			t.Fatal(err)
		}
	}

	var accel *countingAccelerator
	sc.Compile(func(prims []Primitive) Accelerator {
		accel = &countingAccelerator{prims: prims}
		return accel
	})

	if len(sc.Boundable) != 2 || len(sc.Unbounded) != 1 {
		t.Fatalf("expected 2 boundable and 1 unbounded primitives; got %d and %d", len(sc.Boundable), len(sc.Unbounded))
	}
	if len(accel.prims) != 2 || sc.Accelerator != accel {
		t.Fatal("expected accelerator to be built from the boundable primitives")
	}
	if stats := sc.Stats(); !strings.Contains(stats, "Boundable") || !strings.Contains(stats, "mat") {
		t.Fatalf("unexpected scene stats output:\n%s", stats)
	}
}

func TestCameraFrustum(t *testing.T) {
	cam := NewCamera(Translation(types.Vec3{0, 0, 5}), 200, 100, math.Pi/2, 1, 100)
	fr := cam.Frustum()

	if fr.Aspect != 2 {
		t.Fatalf("expected aspect 2; got %f", fr.Aspect)
	}
	if math.Abs(float64(fr.NearHeight)-2) > 1e-5 {
		t.Fatalf("expected near plane height 2; got %f", fr.NearHeight)
	}
	if math.Abs(float64(fr.NearWidth)-4) > 1e-5 {
		t.Fatalf("expected near plane width 4; got %f", fr.NearWidth)
	}
	if cam.Position() != (types.Vec3{0, 0, 5}) {
		t.Fatalf("expected camera position (0, 0, 5); got %v", cam.Position())
	}
}

func TestTransformInverse(t *testing.T) {
	tr := NewTransform(types.Vec3{1, -2, 3}, types.Vec3{0.3, 1.1, -0.7}, types.Vec3{2, 3, 0.5})
	p := types.Vec3{0.25, -4, 7}

	got := tr.InverseMatrix().TransformPoint(tr.Matrix().TransformPoint(p))
	for axis := 0; axis < 3; axis++ {
		if math.Abs(float64(got[axis]-p[axis])) > 1e-4 {
			t.Fatalf("expected round-tripped point %v; got %v", p, got)
		}
	}
}
