package material

import (
	"image"
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// Filter selects how texels are combined
type Filter int

const (
	FilterNearest Filter = iota
	FilterBilinear
)

// Border selects how UVs outside [0,1] are handled
type Border int

const (
	BorderRepeat Border = iota
	BorderClamp
)

// ImageTexture provides color from a 2D image
type ImageTexture struct {
	Width    int
	Height   int
	Pixels   []core.Vec3 // Row-major: Pixels[y*Width + x]
	Filter   Filter
	Border   Border
	Exposure float64 // multiplier applied to every lookup
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{
		Width:    width,
		Height:   height,
		Pixels:   pixels,
		Filter:   FilterBilinear,
		Border:   BorderRepeat,
		Exposure: 1,
	}
}

// NewImageTextureFromImage converts an image to linear RGB texels.
// sRGB encoded images are linearized when linearize is set.
func NewImageTextureFromImage(img image.Image, linearize bool) *ImageTexture {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]core.Vec3, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			c := core.NewVec3(float64(r)/65535, float64(g)/65535, float64(b)/65535)
			if linearize {
				c = core.NewVec3(srgbToLinear(c.X), srgbToLinear(c.Y), srgbToLinear(c.Z))
			}
			pixels[y*width+x] = c
		}
	}
	return NewImageTexture(width, height, pixels)
}

func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// Evaluate samples the texture at given UV coordinates. V=0 is the bottom
// row of the image.
func (t *ImageTexture) Evaluate(uv core.Vec2) core.Vec3 {
	if t.Width == 0 || t.Height == 0 {
		return core.Vec3{}
	}
	x := uv.X * float64(t.Width)
	y := (1 - uv.Y) * float64(t.Height)

	var c core.Vec3
	switch t.Filter {
	case FilterNearest:
		c = t.texel(int(math.Floor(x)), int(math.Floor(y)))
	default:
		// Texel centers sit at half-integer coordinates
		x -= 0.5
		y -= 0.5
		x0, y0 := math.Floor(x), math.Floor(y)
		fx, fy := x-x0, y-y0
		ix, iy := int(x0), int(y0)
		top := t.texel(ix, iy).Multiply(1 - fx).Add(t.texel(ix+1, iy).Multiply(fx))
		bottom := t.texel(ix, iy+1).Multiply(1 - fx).Add(t.texel(ix+1, iy+1).Multiply(fx))
		c = top.Multiply(1 - fy).Add(bottom.Multiply(fy))
	}
	return c.Multiply(t.Exposure)
}

// Scalar returns the average of the channels
func (t *ImageTexture) Scalar(uv core.Vec2) float64 {
	c := t.Evaluate(uv)
	return (c.X + c.Y + c.Z) / 3
}

func (t *ImageTexture) texel(x, y int) core.Vec3 {
	switch t.Border {
	case BorderClamp:
		x = max(0, min(t.Width-1, x))
		y = max(0, min(t.Height-1, y))
	default:
		x = ((x % t.Width) + t.Width) % t.Width
		y = ((y % t.Height) + t.Height) % t.Height
	}
	return t.Pixels[y*t.Width+x]
}
