package tracer

import (
	"fmt"
	"strings"
)

// Per-path bookkeeping for a primary ray. A RayState is passed by value to
// each recursive trace call so changes made by a callee never leak back to
// its caller.
type RayState struct {
	// The current recursion depth.
	Bounces uint8

	// Refractive indices of the dielectric media the path is inside of.
	media []float32

	// Collects trace steps when non-nil.
	trace *traceLog
}

// Get the state for a recursive call.
func (s RayState) descend() RayState {
	s.Bounces++
	return s
}

// Get the state after entering a medium with the given refractive index.
func (s RayState) enter(ior float32) RayState {
	// Force a copy so sibling branches never share the backing array
	s.media = append(s.media[:len(s.media):len(s.media)], ior)
	return s
}

// Get the state after leaving the innermost medium.
func (s RayState) exit() RayState {
	if len(s.media) != 0 {
		s.media = s.media[:len(s.media)-1]
	}
	return s
}

// Get a copy of the active media stack.
func (s RayState) Media() []float32 {
	out := make([]float32, len(s.media))
	copy(out, s.media)
	return out
}

// Record a trace step. Steps are indented by recursion depth.
func (s RayState) logf(format string, args ...interface{}) {
	if s.trace == nil {
		return
	}
	s.trace.steps = append(s.trace.steps, strings.Repeat("  ", int(s.Bounces))+fmt.Sprintf(format, args...))
}

type traceLog struct {
	steps []string
}
