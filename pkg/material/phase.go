package material

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// HenyeyGreenstein is a phase function for volume scattering. G = 0 is
// isotropic, G > 0 scatters forward.
type HenyeyGreenstein struct {
	Color core.Texture
	G      float64
}

// NewHenyeyGreenstein creates a phase function BSDF
func NewHenyeyGreenstein(albedo core.Texture, g float64) *HenyeyGreenstein {
	return &HenyeyGreenstein{Color: albedo, G: max(-0.99, min(0.99, g))}
}

// phase evaluates the normalized phase function for the cosine between the
// propagation direction and the scattered direction
func (h *HenyeyGreenstein) phase(cosTheta float64) float64 {
	g := h.G
	denom := 1 + g*g - 2*g*cosTheta
	return core.Inv4Pi * (1 - g*g) / (denom * math.Sqrt(denom))
}

// Evaluate returns albedo times the phase function; there is no cosine term
func (h *HenyeyGreenstein) Evaluate(uv core.Vec2, wo, wi core.Vec3) core.BsdfEval {
	p := h.phase(wo.Negate().Dot(wi))
	return core.BsdfEval{Value: h.Color.Evaluate(uv).Multiply(p), Pdf: p}
}

// Sample draws a direction proportionally to the phase function
func (h *HenyeyGreenstein) Sample(uv core.Vec2, wo core.Vec3, sampler core.Sampler) core.BsdfSample {
	u := sampler.Get2D()
	g := h.G

	var cosTheta float64
	if math.Abs(g) < 1e-3 {
		cosTheta = 1 - 2*u.X
	} else {
		s := (1 - g*g) / (1 - g + 2*g*u.X)
		cosTheta = (1 + g*g - s*s) / (2 * g)
	}
	cosTheta = max(-1, min(1, cosTheta))
	sinTheta := math.Sqrt(max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y

	// Around the propagation direction -wo
	local := core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
	wi := core.BuildFrame(wo.Negate().Normalize()).ToWorld(local)

	return core.BsdfSample{
		Wi:     wi,
		Weight: h.Color.Evaluate(uv),
		Pdf:    h.phase(cosTheta),
		Eta:    1,
	}
}

// Albedo returns the single scattering albedo
func (h *HenyeyGreenstein) Albedo(uv core.Vec2, wo core.Vec3) core.Vec3 {
	return h.Color.Evaluate(uv)
}

// NewIsotropic creates a phase function that scatters uniformly
func NewIsotropic(albedo core.Texture) *HenyeyGreenstein {
	return NewHenyeyGreenstein(albedo, 0)
}
