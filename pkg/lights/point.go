// Package lights implements the light sources that can be sampled for
// direct illumination.
package lights

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// Point is an isotropic point light
type Point struct {
	Position  core.Vec3
	Intensity core.Vec3 // radiant intensity, power / 4pi
	Weight    float64   // sampling weight
}

// NewPoint creates a point light from its total power
func NewPoint(position, power core.Vec3) *Point {
	return &Point{Position: position, Intensity: power.Multiply(core.Inv4Pi), Weight: 1}
}

// SampleDirect returns the single direction towards the light with inverse
// square falloff
func (p *Point) SampleDirect(origin core.Vec3, sampler core.Sampler) core.DirectLightSample {
	toLight := p.Position.Subtract(origin)
	distanceSquared := toLight.LengthSquared()
	if distanceSquared == 0 {
		return core.InvalidDirectLightSample()
	}
	distance := math.Sqrt(distanceSquared)
	return core.DirectLightSample{
		Wi:       toLight.Divide(distance),
		Weight:   p.Intensity.Divide(distanceSquared),
		Distance: distance,
		Pdf:      math.Inf(1),
	}
}

func (p *Point) CanBeIntersected() bool  { return false }
func (p *Point) SamplingWeight() float64 { return p.Weight }
