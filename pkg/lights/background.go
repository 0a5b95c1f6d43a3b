package lights

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// ConstantBackground emits the same radiance from every direction
type ConstantBackground struct {
	Radiance core.Vec3
	Weight   float64
}

// NewConstantBackground creates a uniform background
func NewConstantBackground(radiance core.Vec3) *ConstantBackground {
	return &ConstantBackground{Radiance: radiance, Weight: 1}
}

func (c *ConstantBackground) Evaluate(direction core.Vec3) core.EmissionEval {
	return core.EmissionEval{Value: c.Radiance, Pdf: core.Inv4Pi}
}

// SampleDirect samples the sphere of directions uniformly
func (c *ConstantBackground) SampleDirect(origin core.Vec3, sampler core.Sampler) core.DirectLightSample {
	return core.DirectLightSample{
		Wi:       core.SquareToUniformSphere(sampler.Get2D()),
		Weight:   c.Radiance.Divide(core.Inv4Pi),
		Distance: math.Inf(1),
		Pdf:      core.Inv4Pi,
	}
}

func (c *ConstantBackground) CanBeIntersected() bool  { return true }
func (c *ConstantBackground) SamplingWeight() float64 { return c.Weight }
