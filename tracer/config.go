package tracer

import (
	"errors"
	"fmt"

	"github.com/achilleasa/go-raytrace/types"
)

var (
	ErrInvalidAAMode    = errors.New("tracer: unsupported anti-aliasing mode")
	ErrNoScene          = errors.New("tracer: no scene defined")
	ErrNoCamera         = errors.New("tracer: no camera defined")
	ErrSceneNotCompiled = errors.New("tracer: scene has not been compiled")
)

// The number of samples traced per pixel.
type AAMode uint8

const (
	AA1  AAMode = 1
	AA2  AAMode = 2
	AA4  AAMode = 4
	AA8  AAMode = 8
	AA16 AAMode = 16
)

// Sample offsets within a pixel for each anti-aliasing mode.
var sampleOffsets = map[AAMode][]types.Vec2{
	AA1: {{0.5, 0.5}},
	AA2: {{0.25, 0.5}, {0.75, 0.5}},
	AA4: {
		{0.25, 0.25}, {0.75, 0.25},
		{0.25, 0.75}, {0.75, 0.75},
	},
	AA8: {
		{0.2, 0.25}, {0.4, 0.25}, {0.6, 0.25}, {0.8, 0.25},
		{0.2, 0.75}, {0.4, 0.75}, {0.6, 0.75}, {0.8, 0.75},
	},
	AA16: {
		{0.2, 0.2}, {0.4, 0.2}, {0.6, 0.2}, {0.8, 0.2},
		{0.2, 0.4}, {0.4, 0.4}, {0.6, 0.4}, {0.8, 0.4},
		{0.2, 0.6}, {0.4, 0.6}, {0.6, 0.6}, {0.8, 0.6},
		{0.2, 0.8}, {0.4, 0.8}, {0.6, 0.8}, {0.8, 0.8},
	},
}

// Get the pixel sample offsets for this mode.
func (m AAMode) Offsets() []types.Vec2 {
	return sampleOffsets[m]
}

func (m AAMode) String() string {
	return fmt.Sprintf("AA%d", uint8(m))
}

// Ray tracer configuration.
type Config struct {
	// Max recursion depth for reflected and refracted rays.
	MaxBounces uint8

	// Number of worker goroutines.
	Threads int

	AntiAliasing AAMode
}

// Check the configuration for errors.
func (cfg Config) Validate() error {
	if _, ok := sampleOffsets[cfg.AntiAliasing]; !ok {
		return fmt.Errorf("%w: %d", ErrInvalidAAMode, cfg.AntiAliasing)
	}
	if cfg.Threads < 1 {
		return fmt.Errorf("tracer: thread count must be at least 1; got %d", cfg.Threads)
	}
	return nil
}
