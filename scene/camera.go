package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/go-raytrace/types"
)

// Describes the camera view volume. Plane sizes are measured in camera space.
type Frustum struct {
	// Vertical field of view (radians) and screen aspect ratio.
	FovY   float32
	Aspect float32

	// Near plane dimensions and distance.
	NearWidth    float32
	NearHeight   float32
	NearDistance float32

	// Far plane distance.
	FarDistance float32
}

func (fr Frustum) String() string {
	return fmt.Sprintf(
		"Frustum:\nfovY   : %3.3f rad\naspect : %3.3f\nnear   : %3.3f (%3.3f x %3.3f)\nfar    : %3.3f",
		fr.FovY, fr.Aspect,
		fr.NearDistance, fr.NearWidth, fr.NearHeight,
		fr.FarDistance,
	)
}

// The camera type controls the scene camera. In camera space the camera
// looks down the -Z axis with +Y pointing up.
type Camera struct {
	Transform Transform

	// Screen dimensions in pixels.
	Width  int
	Height int

	// Vertical field of view in radians.
	FovY float32

	// Near and far clip plane distances.
	Near float32
	Far  float32
}

// Create a new camera.
func NewCamera(transform Transform, width, height int, fovY, near, far float32) *Camera {
	return &Camera{
		Transform: transform,
		Width:     width,
		Height:    height,
		FovY:      fovY,
		Near:      near,
		Far:       far,
	}
}

// Set the screen dimensions. Must not be called while a frame is rendering.
func (c *Camera) SetScreenSize(width, height int) {
	c.Width = width
	c.Height = height
}

// Get the camera eye position.
func (c *Camera) Position() types.Vec3 {
	return c.Transform.Position()
}

// Get the camera to world matrix.
func (c *Camera) CameraToWorld() types.Mat4 {
	return c.Transform.Matrix()
}

// Calculate the camera frustum for the current screen size.
func (c *Camera) Frustum() Frustum {
	aspect := float32(1)
	if c.Height > 0 {
		aspect = float32(c.Width) / float32(c.Height)
	}

	nearScale := float32(math.Tan(float64(c.FovY)*0.5)) * 2
	nearHeight := nearScale * c.Near
	return Frustum{
		FovY:         c.FovY,
		Aspect:       aspect,
		NearWidth:    nearHeight * aspect,
		NearHeight:   nearHeight,
		NearDistance: c.Near,
		FarDistance:  c.Far,
	}
}
