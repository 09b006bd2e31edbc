package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/achilleasa/go-raytrace/bvh"
	"github.com/achilleasa/go-raytrace/log"
	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/tracer"
)

type Renderer interface {
	// Render frame.
	Render(ctx context.Context) (*tracer.Image, error)

	// Trace the ray through a frame pixel recording each trace step.
	Pick(x, y int) (tracer.PickResult, error)

	// Shutdown renderer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}

// A renderer that traces frames on the CPU.
type defaultRenderer struct {
	logger log.Logger

	scene   *scene.Scene
	tracer  *tracer.RayTracer
	options Options

	stats FrameStats
}

// Create a new renderer for the supplied scene. If the scene has not been
// compiled yet, a BVH is built for its boundable primitives.
func NewDefault(sc *scene.Scene, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrInvalidFrameSize
	}

	r := &defaultRenderer{
		logger:  log.New("renderer"),
		scene:   sc,
		options: opts,
	}

	sc.Camera.SetScreenSize(int(opts.FrameW), int(opts.FrameH))
	if sc.Accelerator == nil {
		start := time.Now()
		sc.Compile(bvh.Builder)
		r.logger.Infof("compiled scene with %d boundable and %d unbounded primitives in %d ms", len(sc.Boundable), len(sc.Unbounded), time.Since(start).Nanoseconds()/1e6)
	}

	var err error
	r.tracer, err = tracer.New(sc, opts.tracerConfig())
	if err != nil {
		return nil, err
	}

	return r, nil
}

func (r *defaultRenderer) Render(ctx context.Context) (*tracer.Image, error) {
	if r.tracer == nil {
		return nil, ErrClosed
	}

	r.logger.Noticef("rendering %dx%d frame using %d threads (%d spp, %d bounces)", r.options.FrameW, r.options.FrameH, r.options.Threads, r.options.SamplesPerPixel, r.options.NumBounces)

	img, err := r.tracer.TraceContext(ctx)
	r.stats = makeFrameStats(r.tracer.Stats())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrInterrupted, err)
		}
		return nil, err
	}

	r.logger.Noticef("rendered frame in %d ms", r.stats.RenderTime.Nanoseconds()/1e6)
	return img, nil
}

func (r *defaultRenderer) Pick(x, y int) (tracer.PickResult, error) {
	if r.tracer == nil {
		return tracer.PickResult{}, ErrClosed
	}
	return r.tracer.Pick(x, y)
}

func (r *defaultRenderer) Close() {
	r.tracer = nil
	r.scene = nil
}

func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}
