package texture

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/achilleasa/go-raytrace/asset"
	"github.com/achilleasa/go-raytrace/log"
	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/types"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var logger = log.New("texture")

// Create a new texture from a Resource. Any format understood by the
// registered image decoders (png, jpeg, gif, bmp, tiff and webp) can be
// loaded. The alpha channel is discarded.
func New(res *asset.Resource, wrapU, wrapV scene.WrapMode) (*scene.Texture, error) {
	img, format, err := image.Decode(res)
	if err != nil {
		return nil, fmt.Errorf("texture: could not decode %s: %w", res.Path(), err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("texture: image %s has no pixels", res.Path())
	}

	tex := &scene.Texture{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Texels: make([]types.Vec3, bounds.Dx()*bounds.Dy()),
		WrapU:  wrapU,
		WrapV:  wrapV,
	}

	wOffset := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			tex.Texels[wOffset] = types.Vec3{
				float32(r) / 0xffff,
				float32(g) / 0xffff,
				float32(b) / 0xffff,
			}
			wOffset++
		}
	}

	logger.Debugf("loaded %s texture %q (%dx%d)", format, res.Path(), tex.Width, tex.Height)
	return tex, nil
}
