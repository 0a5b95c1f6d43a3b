package renderer

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator for variance
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics. Non-finite
// samples are dropped; they are counted so that Film can report them.
func (ps *PixelStats) AddSample(color core.Vec3) bool {
	ps.SampleCount++
	if !color.IsFinite() {
		return false
	}
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	return true
}

// Color returns the current average color for this pixel
func (ps *PixelStats) Color() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Divide(float64(ps.SampleCount))
}

// RelativeError is the standard error of the mean luminance divided by the
// mean, 0 for black pixels
func (ps *PixelStats) RelativeError() float64 {
	if ps.SampleCount < 2 {
		return 0
	}
	n := float64(ps.SampleCount)
	mean := ps.LuminanceAccum / n
	if mean <= 1e-8 {
		return 0
	}
	variance := math.Max(0, ps.LuminanceSqAccum/n-mean*mean)
	return math.Sqrt(variance/n) / mean
}

// Film is the linear radiance image being rendered, row 0 at the top
type Film struct {
	Width, Height int
	pixels        []PixelStats
}

// NewFilm creates a black film
func NewFilm(width, height int) *Film {
	return &Film{Width: width, Height: height, pixels: make([]PixelStats, width*height)}
}

// Pixel returns the statistics of pixel (x, y) for writing. Callers must
// own the pixel; tiles give each worker a disjoint set.
func (f *Film) Pixel(x, y int) *PixelStats {
	return &f.pixels[y*f.Width+x]
}

// At returns the average color of pixel (x, y)
func (f *Film) At(x, y int) core.Vec3 {
	return f.pixels[y*f.Width+x].Color()
}

// Samples returns the total number of samples taken over all pixels
func (f *Film) Samples() int {
	total := 0
	for i := range f.pixels {
		total += f.pixels[i].SampleCount
	}
	return total
}

// MeanRelativeError averages RelativeError over all pixels
func (f *Film) MeanRelativeError() float64 {
	if len(f.pixels) == 0 {
		return 0
	}
	sum := 0.0
	for i := range f.pixels {
		sum += f.pixels[i].RelativeError()
	}
	return sum / float64(len(f.pixels))
}
