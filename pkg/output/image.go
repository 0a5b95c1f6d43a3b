// Package output turns rendered films into images and ships them to disk
// or object storage.
package output

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/renderer"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// ToneMap maps linear radiance to display values
type ToneMap struct {
	Exposure float64 // stops, 0 leaves radiance unchanged
	Reinhard bool    // compress highlights instead of clipping them
}

// Apply maps one linear color to [0,1] sRGB
func (tm ToneMap) Apply(c core.Vec3) core.Vec3 {
	scale := math.Exp2(tm.Exposure)
	return core.NewVec3(tm.channel(c.X*scale), tm.channel(c.Y*scale), tm.channel(c.Z*scale))
}

func (tm ToneMap) channel(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if tm.Reinhard {
		v = v / (1 + v)
	}
	return linearToSRGB(min(1, v))
}

func linearToSRGB(v float64) float64 {
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

// ToImage converts a film to an 8 bit image
func ToImage(film *renderer.Film, tm ToneMap) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, film.Width, film.Height))
	for y := 0; y < film.Height; y++ {
		for x := 0; x < film.Width; x++ {
			c := tm.Apply(film.At(x, y))
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(math.Round(c.X * 255)),
				G: uint8(math.Round(c.Y * 255)),
				B: uint8(math.Round(c.Z * 255)),
				A: 255,
			})
		}
	}
	return img
}

// Save writes img to filename, choosing the encoder from the extension
func Save(img image.Image, filename string) error {
	if _, err := imaging.FormatFromFilename(filename); err != nil {
		return fmt.Errorf("output %s: %w", filename, err)
	}
	if err := imaging.Save(img, filename); err != nil {
		return fmt.Errorf("failed to save %s: %w", filename, err)
	}
	return nil
}

// Encode encodes img in the format named by ext (".png", ".jpg", ...)
func Encode(img image.Image, ext string) ([]byte, string, error) {
	format, err := imaging.FormatFromExtension(strings.TrimPrefix(ext, "."))
	if err != nil {
		return nil, "", fmt.Errorf("output format %q: %w", ext, err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return nil, "", fmt.Errorf("failed to encode %s: %w", ext, err)
	}
	return buf.Bytes(), contentType(format), nil
}

func contentType(format imaging.Format) string {
	switch format {
	case imaging.JPEG:
		return "image/jpeg"
	case imaging.GIF:
		return "image/gif"
	case imaging.TIFF:
		return "image/tiff"
	case imaging.BMP:
		return "image/bmp"
	}
	return "image/png"
}

// Thumbnail scales img down to fit in a size x size box, keeping the
// aspect ratio. Images that already fit are returned unchanged.
func Thumbnail(img image.Image, size int) image.Image {
	bounds := img.Bounds()
	if size <= 0 || (bounds.Dx() <= size && bounds.Dy() <= size) {
		return img
	}
	return resize.Thumbnail(uint(size), uint(size), img, resize.Lanczos3)
}

// ThumbnailPath returns the file name a thumbnail of filename is saved as
func ThumbnailPath(filename string) string {
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext) + ".thumb" + ext
}
