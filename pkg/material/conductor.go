package material

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// Conductor is a perfect mirror
type Conductor struct {
	Reflectance core.Texture
}

// NewConductor creates a mirror BSDF
func NewConductor(reflectance core.Texture) *Conductor {
	return &Conductor{Reflectance: reflectance}
}

// Evaluate is always zero: a delta lobe cannot be hit by an explicit direction
func (c *Conductor) Evaluate(uv core.Vec2, wo, wi core.Vec3) core.BsdfEval {
	return core.InvalidBsdfEval()
}

// Sample returns the mirror direction with an infinite pdf
func (c *Conductor) Sample(uv core.Vec2, wo core.Vec3, sampler core.Sampler) core.BsdfSample {
	wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
	if wo.Z == 0 {
		return core.InvalidBsdfSample()
	}
	return core.BsdfSample{
		Wi:     wi,
		Weight: c.Reflectance.Evaluate(uv),
		Pdf:    math.Inf(1),
		Eta:    1,
	}
}

// Albedo returns the reflectance
func (c *Conductor) Albedo(uv core.Vec2, wo core.Vec3) core.Vec3 {
	return c.Reflectance.Evaluate(uv)
}
