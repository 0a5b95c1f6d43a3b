package material

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// Diffuse is a Lambertian reflector
type Diffuse struct {
	Color core.Texture
}

// NewDiffuse creates a diffuse BSDF
func NewDiffuse(albedo core.Texture) *Diffuse {
	return &Diffuse{Color: albedo}
}

// Evaluate returns albedo/pi times the cosine term, zero for directions on
// opposite sides of the surface
func (d *Diffuse) Evaluate(uv core.Vec2, wo, wi core.Vec3) core.BsdfEval {
	if wo.Z*wi.Z < 0 {
		return core.InvalidBsdfEval()
	}
	cos := core.AbsCosTheta(wi)
	return core.BsdfEval{
		Value: d.Color.Evaluate(uv).Multiply(core.InvPi * cos),
		Pdf:   cos * core.InvPi,
	}
}

// Sample draws a cosine-weighted direction on the side of wo
func (d *Diffuse) Sample(uv core.Vec2, wo core.Vec3, sampler core.Sampler) core.BsdfSample {
	wi := core.SquareToCosineHemisphere(sampler.Get2D())
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	pdf := core.AbsCosTheta(wi) * core.InvPi
	if pdf <= 0 || math.IsNaN(pdf) {
		return core.InvalidBsdfSample()
	}
	return core.BsdfSample{
		Wi:     wi,
		Weight: d.Color.Evaluate(uv),
		Pdf:    pdf,
		Eta:    1,
	}
}

// Albedo returns the albedo texture value
func (d *Diffuse) Albedo(uv core.Vec2, wo core.Vec3) core.Vec3 {
	return d.Color.Evaluate(uv)
}
