package lights

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// Directional is a light at infinity arriving from a single direction, like
// the sun
type Directional struct {
	Direction core.Vec3 // unit vector pointing towards the light
	Intensity core.Vec3
	Weight    float64
}

// NewDirectional creates a directional light; direction points towards the
// light
func NewDirectional(direction, intensity core.Vec3) *Directional {
	return &Directional{Direction: direction.Normalize(), Intensity: intensity, Weight: 1}
}

// SampleDirect always returns the light direction
func (d *Directional) SampleDirect(origin core.Vec3, sampler core.Sampler) core.DirectLightSample {
	return core.DirectLightSample{
		Wi:       d.Direction,
		Weight:   d.Intensity,
		Distance: math.Inf(1),
		Pdf:      math.Inf(1),
	}
}

func (d *Directional) CanBeIntersected() bool  { return false }
func (d *Directional) SamplingWeight() float64 { return d.Weight }
