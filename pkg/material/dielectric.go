package material

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// Dielectric is a smooth glass-like interface that reflects or refracts
// according to the Fresnel equations
type Dielectric struct {
	IOR           core.Texture // Index of refraction (e.g., 1.5 for glass)
	Reflectance   core.Texture
	Transmittance core.Texture
}

// NewDielectric creates a clear dielectric with the given index of refraction
func NewDielectric(ior float64) *Dielectric {
	white := NewScalar(1)
	return &Dielectric{IOR: NewScalar(ior), Reflectance: white, Transmittance: white}
}

// Evaluate is always zero: both lobes are deltas
func (d *Dielectric) Evaluate(uv core.Vec2, wo, wi core.Vec3) core.BsdfEval {
	return core.InvalidBsdfEval()
}

// Sample chooses reflection with probability F and refraction otherwise.
// Total internal reflection has F = 1 and always reflects.
func (d *Dielectric) Sample(uv core.Vec2, wo core.Vec3, sampler core.Sampler) core.BsdfSample {
	if wo.Z == 0 {
		return core.InvalidBsdfSample()
	}
	ior := d.IOR.Scalar(uv)
	eta := ior
	normal := core.NewVec3(0, 0, 1)
	if wo.Z < 0 {
		eta = 1 / ior
		normal = normal.Negate()
	}

	f := fresnelDielectric(core.AbsCosTheta(wo), eta)
	if sampler.Get1D() < f {
		return core.BsdfSample{
			Wi:     core.Reflect(wo, normal),
			Weight: d.Reflectance.Evaluate(uv),
			Pdf:    math.Inf(1),
			Eta:    1,
		}
	}

	wi := core.Refract(wo, normal, eta)
	if wi.IsZero() {
		// Numerically at the critical angle; fall back to reflection
		return core.BsdfSample{
			Wi:     core.Reflect(wo, normal),
			Weight: d.Reflectance.Evaluate(uv),
			Pdf:    math.Inf(1),
			Eta:    1,
		}
	}
	return core.BsdfSample{
		Wi:     wi.Normalize(),
		Weight: d.Transmittance.Evaluate(uv).Divide(eta * eta),
		Pdf:    math.Inf(1),
		Eta:    eta,
	}
}

// Albedo returns the Fresnel-weighted mix of reflectance and transmittance
func (d *Dielectric) Albedo(uv core.Vec2, wo core.Vec3) core.Vec3 {
	ior := d.IOR.Scalar(uv)
	eta := ior
	if wo.Z < 0 {
		eta = 1 / ior
	}
	f := fresnelDielectric(core.AbsCosTheta(wo), eta)
	return d.Reflectance.Evaluate(uv).Multiply(f).
		Add(d.Transmittance.Evaluate(uv).Multiply((1 - f) / (eta * eta)))
}

// fresnelDielectric returns the unpolarized Fresnel reflectance for light
// arriving with cosine cosI at an interface of relative index eta
func fresnelDielectric(cosI, eta float64) float64 {
	sin2T := (1 - cosI*cosI) / (eta * eta)
	if sin2T >= 1 {
		return 1
	}
	cosT := math.Sqrt(1 - sin2T)
	rs := (cosI - eta*cosT) / (cosI + eta*cosT)
	rp := (eta*cosI - cosT) / (eta*cosI + cosT)
	return (rs*rs + rp*rp) / 2
}
