package lights

import (
	"sort"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// distribution1D is a piecewise constant density on [0,1)
type distribution1D struct {
	function []float64
	cdf      []float64 // len(function)+1 entries
	integral float64
}

func newDistribution1D(function []float64) *distribution1D {
	n := len(function)
	d := &distribution1D{function: function, cdf: make([]float64, n+1)}
	for i := 1; i <= n; i++ {
		d.cdf[i] = d.cdf[i-1] + max(0, function[i-1])/float64(n)
	}
	d.integral = d.cdf[n]
	for i := 1; i <= n; i++ {
		if d.integral == 0 {
			d.cdf[i] = float64(i) / float64(n)
		} else {
			d.cdf[i] /= d.integral
		}
	}
	return d
}

// sample returns a continuous value in [0,1), its density and the segment
func (d *distribution1D) sample(u float64) (float64, float64, int) {
	n := len(d.function)
	offset := sort.SearchFloat64s(d.cdf, u) - 1
	offset = max(0, min(n-1, offset))
	du := u - d.cdf[offset]
	if width := d.cdf[offset+1] - d.cdf[offset]; width > 0 {
		du /= width
	}
	pdf := 0.0
	if d.integral > 0 {
		pdf = d.function[offset] / d.integral
	}
	return (float64(offset) + du) / float64(n), pdf, offset
}

// distribution2D samples rows by their integral, then a column within the row
type distribution2D struct {
	conditional []*distribution1D
	marginal    *distribution1D
}

func newDistribution2D(values []float64, width, height int) *distribution2D {
	d := &distribution2D{conditional: make([]*distribution1D, height)}
	marginal := make([]float64, height)
	for y := 0; y < height; y++ {
		d.conditional[y] = newDistribution1D(values[y*width : (y+1)*width])
		marginal[y] = d.conditional[y].integral
	}
	d.marginal = newDistribution1D(marginal)
	return d
}

func (d *distribution2D) sample(u core.Vec2) (core.Vec2, float64) {
	v, pdfV, row := d.marginal.sample(u.Y)
	x, pdfU, _ := d.conditional[row].sample(u.X)
	return core.NewVec2(x, v), pdfU * pdfV
}

func (d *distribution2D) pdf(uv core.Vec2) float64 {
	width := len(d.conditional[0].function)
	height := len(d.conditional)
	x := max(0, min(width-1, int(uv.X*float64(width))))
	y := max(0, min(height-1, int(uv.Y*float64(height))))
	if d.marginal.integral == 0 {
		return 0
	}
	return d.conditional[y].function[x] / d.marginal.integral
}
