package renderer

import "github.com/achilleasa/go-raytrace/tracer"

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Max number of reflection and refraction bounces.
	NumBounces uint8

	// Number of samples per pixel. Must be one of the supported
	// anti-aliasing modes (1, 2, 4, 8 or 16).
	SamplesPerPixel uint32

	// Number of worker goroutines.
	Threads int
}

// Get the tracer configuration for these options.
func (opts Options) tracerConfig() tracer.Config {
	return tracer.Config{
		MaxBounces:   opts.NumBounces,
		Threads:      opts.Threads,
		AntiAliasing: tracer.AAMode(opts.SamplesPerPixel),
	}
}
