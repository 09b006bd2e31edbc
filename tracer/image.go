package tracer

import "github.com/achilleasa/go-raytrace/types"

// A rendered frame with linear RGB pixels stored in row-major order
// starting at the top-left corner.
type Image struct {
	Width  int
	Height int
	Pixels []types.Vec3
}

// Create a black image.
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pixels: make([]types.Vec3, width*height),
	}
}

// Get the pixel at (x, y).
func (img *Image) At(x, y int) types.Vec3 {
	return img.Pixels[y*img.Width+x]
}

// Set the pixel at (x, y).
func (img *Image) Set(x, y int, c types.Vec3) {
	img.Pixels[y*img.Width+x] = c
}

// Get a copy of the image with all components clamped to [0, 1].
func (img *Image) Clamped() *Image {
	out := NewImage(img.Width, img.Height)
	for i, c := range img.Pixels {
		out.Pixels[i] = c.Clamp(0, 1)
	}
	return out
}
