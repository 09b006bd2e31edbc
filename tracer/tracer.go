package tracer

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/achilleasa/go-raytrace/log"
	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/types"
)

// Ray counters for a rendered frame.
type RayStats struct {
	Primary   uint64
	Reflected uint64
	Refracted uint64
	Shadow    uint64
}

// Get the total number of traced rays.
func (rs RayStats) Total() uint64 {
	return rs.Primary + rs.Reflected + rs.Refracted + rs.Shadow
}

// Statistics for the last rendered frame.
type FrameStats struct {
	// Per-worker statistics.
	Workers []WorkerStat

	// Number of tiles the frame was split into.
	Tiles int

	Rays RayStats

	// Total render time.
	RenderTime time.Duration
}

// A Whitted-style recursive ray tracer. A RayTracer renders one frame at a
// time; the scene must not be modified while a frame is rendering.
type RayTracer struct {
	logger log.Logger

	scene  *scene.Scene
	camera *scene.Camera
	cfg    Config

	// Ray counters for the frame being rendered.
	primaryRays   uint64
	reflectedRays uint64
	refractedRays uint64
	shadowRays    uint64

	stats FrameStats
}

// Screen to world mapping for the current camera state.
type viewPlane struct {
	halfW, halfH float32
	stepX, stepY float32
	near         float32

	camPos     types.Vec3
	camToWorld types.Mat4

	// Squared far plane distance.
	farSq float32
}

// Create a new ray tracer for a compiled scene.
func New(sc *scene.Scene, cfg Config) (*RayTracer, error) {
	if sc == nil {
		return nil, ErrNoScene
	}
	if sc.Camera == nil {
		return nil, ErrNoCamera
	}
	if sc.Accelerator == nil {
		return nil, ErrSceneNotCompiled
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &RayTracer{
		logger: log.New("tracer"),
		scene:  sc,
		camera: sc.Camera,
		cfg:    cfg,
	}, nil
}

// Get the tracer configuration.
func (rt *RayTracer) Config() Config {
	return rt.cfg
}

// Get the statistics for the last rendered frame.
func (rt *RayTracer) Stats() FrameStats {
	return rt.stats
}

func (rt *RayTracer) viewPlane() viewPlane {
	fr := rt.camera.Frustum()
	vp := viewPlane{
		halfW:      0.5 * fr.NearWidth,
		halfH:      0.5 * fr.NearHeight,
		near:       fr.NearDistance,
		camPos:     rt.camera.Position(),
		camToWorld: rt.camera.CameraToWorld(),
		farSq:      fr.FarDistance * fr.FarDistance,
	}
	if rt.camera.Width > 0 && rt.camera.Height > 0 {
		vp.stepX = fr.NearWidth / float32(rt.camera.Width)
		vp.stepY = fr.NearHeight / float32(rt.camera.Height)
	}
	return vp
}

// Get the world space direction through the sample at offset off inside
// pixel (x, y).
func (vp *viewPlane) dir(x, y int, off types.Vec2) types.Vec3 {
	u := -vp.halfW + (float32(x)+off[0])*vp.stepX
	v := vp.halfH - (float32(y)+off[1])*vp.stepY
	return vp.camToWorld.TransformDirection(types.Vec3{u, v, -vp.near}).Normalize()
}

// Get the primary ray for a pixel sample. Primary rays start at the near
// plane.
func (vp *viewPlane) primaryRay(x, y int, off types.Vec2) types.Ray {
	dir := vp.dir(x, y, off)
	return types.NewRay(vp.camPos.Add(dir.Mul(vp.near)), dir)
}

// Render a frame.
func (rt *RayTracer) Trace() (*Image, error) {
	return rt.TraceContext(context.Background())
}

// Render a frame. If ctx is cancelled before every tile has been traced the
// partial frame is discarded and ctx.Err() is returned.
func (rt *RayTracer) TraceContext(ctx context.Context) (*Image, error) {
	start := time.Now()
	atomic.StoreUint64(&rt.primaryRays, 0)
	atomic.StoreUint64(&rt.reflectedRays, 0)
	atomic.StoreUint64(&rt.refractedRays, 0)
	atomic.StoreUint64(&rt.shadowRays, 0)

	width, height := rt.camera.Width, rt.camera.Height
	img := NewImage(max(width, 0), max(height, 0))
	vp := rt.viewPlane()

	tiles := Tiles(width, height, TileSize)
	sch := NewTaskScheduler(rt.cfg.Threads)
	for _, tile := range tiles {
		tile := tile
		sch.Submit(func() {
			rt.traceTile(img, tile, &vp)
		})
	}
	err := sch.RunContext(ctx)

	rt.stats = FrameStats{
		Workers: sch.Stats(),
		Tiles:   len(tiles),
		Rays: RayStats{
			Primary:   atomic.LoadUint64(&rt.primaryRays),
			Reflected: atomic.LoadUint64(&rt.reflectedRays),
			Refracted: atomic.LoadUint64(&rt.refractedRays),
			Shadow:    atomic.LoadUint64(&rt.shadowRays),
		},
		RenderTime: time.Since(start),
	}

	if err != nil {
		rt.logger.Warningf("frame interrupted after %d ms", rt.stats.RenderTime.Nanoseconds()/1e6)
		return nil, err
	}

	rt.logger.Debugf("frame %dx%d traced in %d ms (%d tiles, %d rays)", width, height, rt.stats.RenderTime.Nanoseconds()/1e6, len(tiles), rt.stats.Rays.Total())
	return img, nil
}

func (rt *RayTracer) traceTile(img *Image, tile image.Rectangle, vp *viewPlane) {
	offsets := rt.cfg.AntiAliasing.Offsets()
	scale := 1 / float32(len(offsets))
	for y := tile.Min.Y; y < tile.Max.Y; y++ {
		for x := tile.Min.X; x < tile.Max.X; x++ {
			var pixel types.Vec3
			for _, off := range offsets {
				pixel = pixel.Add(rt.TraceRay(vp.primaryRay(x, y, off), RayState{}, vp.farSq))
			}
			img.Set(x, y, pixel.Mul(scale))
		}
	}
	atomic.AddUint64(&rt.primaryRays, uint64(tile.Dx()*tile.Dy()*len(offsets)))
}

// Trace a ray through the scene and return its color. Hits whose squared
// distance from the camera exceeds farPlaneDistSq are ignored. Refractive
// and reflective materials spawn recursive rays until state.Bounces
// reaches the configured max bounce count; after that only direct lighting
// is evaluated.
func (rt *RayTracer) TraceRay(ray types.Ray, state RayState, farPlaneDistSq float32) types.Vec3 {
	isect, hit := rt.ShootRay(ray)
	if !hit {
		state.logf("No intersections")
		return types.Vec3{}
	}

	if isect.DistSq(rt.camera.Position()) > farPlaneDistSq {
		state.logf("Intersection at %v lies beyond the far plane", isect.Position)
		return types.Vec3{}
	}

	state.logf("Intersection with %q: pos %v, normal %v, uv %v, media %v", isect.Primitive.Name(), isect.Position, isect.Normal, isect.UV, state.media)

	mat := isect.Primitive.Material()
	canBounce := state.Bounces < rt.cfg.MaxBounces
	switch {
	case mat.IsRefractive() && canBounce:
		return rt.doRefraction(isect, ray, state, farPlaneDistSq)
	case mat.Reflectiveness > 0 && canBounce:
		return rt.doReflection(isect, ray, state, farPlaneDistSq)
	}

	color := rt.shade(ray, isect, state)
	state.logf("Final color: %v", color)
	return color
}

// Find the intersection nearest to the ray origin across the accelerator
// and the unbounded primitives.
func (rt *RayTracer) ShootRay(ray types.Ray) (scene.Intersection, bool) {
	nearest, found := rt.scene.Accelerator.Traverse(ray)
	if len(rt.scene.Unbounded) == 0 {
		return nearest, found
	}

	isect, hit := scene.NearestHit(rt.scene.Unbounded, ray)
	if !hit {
		return nearest, found
	}
	if !found || isect.DistSq(ray.Origin()) < nearest.DistSq(ray.Origin()) {
		return isect, true
	}
	return nearest, found
}

func (rt *RayTracer) doReflection(isect scene.Intersection, ray types.Ray, state RayState, farPlaneDistSq float32) types.Vec3 {
	normal := isect.Normal
	if normal.Dot(ray.Dir()) > 0 {
		normal = normal.Neg()
	}

	reflectedRay := ReflectRay(ray, isect.Position, normal)
	state.logf("Reflecting: ray %v, reflection ray %v", ray, reflectedRay)

	atomic.AddUint64(&rt.reflectedRays, 1)
	reflected := rt.TraceRay(reflectedRay, state.descend(), farPlaneDistSq)

	k := isect.Primitive.Material().Reflectiveness
	color := rt.shade(ray, isect, state).Mul(1 - k).Add(reflected.Mul(k))
	state.logf("Final color: %v", color)
	return color
}

func (rt *RayTracer) doRefraction(isect scene.Intersection, ray types.Ray, state RayState, farPlaneDistSq float32) types.Vec3 {
	mat := isect.Primitive.Material()
	iorInside, iorOutside := mat.IORInside, mat.IOROutside

	incidence := ray.Dir()
	cosTheta := incidence.Dot(isect.Normal)
	normal := isect.Normal
	exiting := cosTheta >= 0
	if exiting {
		normal = normal.Neg()
		iorInside, iorOutside = iorOutside, iorInside
	}

	fresnel := FresnelFactor(cosTheta, iorOutside, iorInside)
	state.logf("Refracting: ray %v, cos theta %.4f, fresnel %.4f, exiting %t", ray, cosTheta, fresnel, exiting)

	var refracted types.Vec3
	if fresnel < 1 {
		if dir, ok := Refract(incidence, normal, iorOutside/iorInside); ok {
			refractedRay := types.NewRay(isect.Position.Sub(normal.Mul(bias)), dir)
			next := state.descend()
			if exiting {
				next = next.exit()
			} else {
				next = next.enter(mat.IORInside)
			}
			state.logf("Refraction ray %v", refractedRay)

			atomic.AddUint64(&rt.refractedRays, 1)
			refracted = rt.TraceRay(refractedRay, next, farPlaneDistSq)
		} else {
			state.logf("Total internal reflection")
		}
	}

	reflectedRay := ReflectRay(ray, isect.Position, isect.Normal)
	state.logf("Reflection ray %v", reflectedRay)

	atomic.AddUint64(&rt.reflectedRays, 1)
	reflected := rt.TraceRay(reflectedRay, state.descend(), farPlaneDistSq)

	color := reflected.Mul(fresnel).Add(refracted.Mul(1 - fresnel))
	state.logf("Refracted color %v, reflected color %v, final color: %v", refracted, reflected, color)
	return color
}

// Evaluate direct lighting at the intersection using the material shader.
func (rt *RayTracer) shade(ray types.Ray, isect scene.Intersection, state RayState) types.Vec3 {
	view := rt.camera.Position().Sub(isect.Position).Normalize()
	lights := rt.LightsAtIntersection(isect)
	state.logf("Visible lights: %d", len(lights))

	return isect.Primitive.Material().Shader.Run(isect, view, ray, lights, rt.scene.Ambient, rt.scene.AmbientIntensity)
}

// Get the scene lights that are visible from the intersection. Occluders
// with refractive materials do not cast shadows.
func (rt *RayTracer) LightsAtIntersection(isect scene.Intersection) []*scene.Light {
	origin := isect.Position.Add(isect.Normal.Mul(bias))
	visible := make([]*scene.Light, 0, len(rt.scene.Lights))
	for _, light := range rt.scene.Lights {
		shadowRay := types.NewRay(origin, light.Position.Sub(isect.Position))
		atomic.AddUint64(&rt.shadowRays, 1)

		occluder, hit := rt.ShootRay(shadowRay)
		switch {
		case !hit,
			occluder.DistSq(origin) > light.Position.Sub(origin).LenSq(),
			occluder.Primitive.Material().IsRefractive():
			visible = append(visible, light)
		}
	}
	return visible
}

// Get the world space ray from the camera eye through the center of pixel
// (x, y).
func (rt *RayTracer) MakeMouseRay(x, y int) types.Ray {
	vp := rt.viewPlane()
	return types.NewRay(vp.camPos, vp.dir(x, y, types.Vec2{0.5, 0.5}))
}

// The result of a pick query.
type PickResult struct {
	// Set if the pick ray hit a primitive.
	Hit bool

	Primitive string
	Position  types.Vec3
	Normal    types.Vec3
	UV        types.Vec2

	// The traced color for the pick ray.
	Color types.Vec3

	// The recorded trace steps.
	Steps []string
}

// Trace the ray through pixel (x, y) recording every step of the trace.
// Hits beyond the far plane are reported as misses.
func (rt *RayTracer) Pick(x, y int) (PickResult, error) {
	if x < 0 || y < 0 || x >= rt.camera.Width || y >= rt.camera.Height {
		return PickResult{}, fmt.Errorf("tracer: pick coordinates (%d, %d) outside the %dx%d frame", x, y, rt.camera.Width, rt.camera.Height)
	}

	ray := rt.MakeMouseRay(x, y)
	trace := &traceLog{}
	vp := rt.viewPlane()

	res := PickResult{
		Color: rt.TraceRay(ray, RayState{trace: trace}, vp.farSq),
		Steps: trace.steps,
	}
	if isect, hit := rt.ShootRay(ray); hit && isect.DistSq(vp.camPos) <= vp.farSq {
		res.Hit = true
		res.Primitive = isect.Primitive.Name()
		res.Position = isect.Position
		res.Normal = isect.Normal
		res.UV = isect.UV
	}

	for _, step := range res.Steps {
		rt.logger.Debug(step)
	}
	return res, nil
}
