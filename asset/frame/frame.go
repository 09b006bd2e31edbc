package frame

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/achilleasa/go-raytrace/tracer"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Supported output formats.
type Format uint8

const (
	PNG Format = iota
	JPEG
	BMP
	TIFF
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// Detect the output format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	default:
		return PNG, fmt.Errorf("frame: unsupported image format %q", ext)
	}
}

// Generate the default output filename for a frame rendered at t.
func DefaultFilename(t time.Time) string {
	return t.Format("Rendered-2006-01-02-15-04-05") + ".png"
}

// Convert a traced frame into an 8-bit RGBA image. Channel values are
// clamped to [0, 1] first.
func ToRGBA(img *tracer.Image) *image.RGBA {
	clamped := img.Clamped()
	out := image.NewRGBA(image.Rect(0, 0, clamped.Width, clamped.Height))
	for y := 0; y < clamped.Height; y++ {
		for x := 0; x < clamped.Width; x++ {
			c := clamped.At(x, y)
			out.SetRGBA(x, y, color.RGBA{
				R: uint8(c[0]*255 + 0.5),
				G: uint8(c[1]*255 + 0.5),
				B: uint8(c[2]*255 + 0.5),
				A: 255,
			})
		}
	}
	return out
}

// Encode frame using the requested format.
func Encode(w io.Writer, img *tracer.Image, format Format) error {
	rgba := ToRGBA(img)
	switch format {
	case PNG:
		return png.Encode(w, rgba)
	case JPEG:
		return jpeg.Encode(w, rgba, &jpeg.Options{Quality: 95})
	case BMP:
		return bmp.Encode(w, rgba)
	case TIFF:
		return tiff.Encode(w, rgba, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("frame: unsupported image format %s", format)
}

// Write frame to a file. The image format is selected based on the file
// extension.
func Write(path string, img *tracer.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("frame: %w", err)
	}

	if err = Encode(f, img, format); err != nil {
		f.Close()
		return fmt.Errorf("frame: could not encode %s: %w", path, err)
	}
	return f.Close()
}
