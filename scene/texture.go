package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/go-raytrace/types"
)

// Controls how texture coordinates outside [0, 1] are handled.
type WrapMode uint8

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

// Parse a wrap mode name ("repeat" or "clamp"). An empty name selects repeat.
func ParseWrapMode(name string) (WrapMode, error) {
	switch name {
	case "", "repeat":
		return WrapRepeat, nil
	case "clamp":
		return WrapClamp, nil
	}
	return WrapRepeat, fmt.Errorf("texture: unknown wrap mode %q", name)
}

// An RGB texture with float components in [0, 1].
type Texture struct {
	Width  int
	Height int

	// Row-major texel data starting at the top-left corner.
	Texels []types.Vec3

	WrapU WrapMode
	WrapV WrapMode
}

// Create a 1x1 texture with a solid color.
func SolidTexture(c types.Vec3) *Texture {
	return &Texture{
		Width:  1,
		Height: 1,
		Texels: []types.Vec3{c},
		WrapU:  WrapClamp,
		WrapV:  WrapClamp,
	}
}

// Sample the texel nearest to uv.
func (t *Texture) Sample(u, v float32) types.Vec3 {
	if len(t.Texels) == 0 {
		return types.Vec3{}
	}

	u = wrap(u, t.WrapU)
	v = wrap(v, t.WrapV)
	if u != u || v != v {
		u, v = 0, 0
	}

	x := int(math.Round(float64(u * float32(t.Width-1))))
	y := int(math.Round(float64(v * float32(t.Height-1))))
	return t.Texels[x+y*t.Width]
}

func wrap(c float32, mode WrapMode) float32 {
	if mode == WrapClamp {
		return types.Clamp(c, 0, 1)
	}

	c = float32(math.Abs(float64(c)))
	c -= float32(math.Floor(float64(c)))

	// NaN and Inf coordinates collapse to the first texel
	if !(c >= 0 && c <= 1) {
		return 0
	}
	return c
}
