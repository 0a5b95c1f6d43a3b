package lights

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// EnvironmentMap is a background lit by an equirectangular texture. +Y is
// up; u runs clockwise around Y starting at -X.
type EnvironmentMap struct {
	Texture   core.Texture
	Transform *core.Transform // optional rotation of the map
	Weight    float64

	distribution *distribution2D // nil: uniform sphere sampling
}

// NewEnvironmentMap creates an environment map with uniform sampling
func NewEnvironmentMap(texture core.Texture, transform *core.Transform) *EnvironmentMap {
	return &EnvironmentMap{Texture: texture, Transform: transform, Weight: 1}
}

// NewImportanceSampledEnvironmentMap tabulates the map luminance at
// width x height and samples directions proportionally to it
func NewImportanceSampledEnvironmentMap(texture core.Texture, transform *core.Transform, width, height int) *EnvironmentMap {
	e := NewEnvironmentMap(texture, transform)
	if width <= 0 || height <= 0 {
		return e
	}
	values := make([]float64, width*height)
	for y := 0; y < height; y++ {
		sinTheta := math.Sin(math.Pi * (float64(y) + 0.5) / float64(height))
		for x := 0; x < width; x++ {
			uv := core.NewVec2((float64(x)+0.5)/float64(width), (float64(y)+0.5)/float64(height))
			values[y*width+x] = texture.Evaluate(uv).Luminance() * sinTheta
		}
	}
	e.distribution = newDistribution2D(values, width, height)
	return e
}

func (e *EnvironmentMap) uv(direction core.Vec3) (core.Vec2, float64) {
	local := direction
	if e.Transform != nil {
		local = e.Transform.InverseApplyVector(local)
	}
	local = local.Normalize()
	phi := math.Atan2(local.Z, local.X)
	theta := math.Acos(max(-1, min(1, local.Y)))
	return core.NewVec2(0.5-phi/(2*math.Pi), theta/math.Pi), theta
}

// Evaluate returns the radiance arriving from direction and the density
// with which SampleDirect produces it
func (e *EnvironmentMap) Evaluate(direction core.Vec3) core.EmissionEval {
	uv, theta := e.uv(direction)
	pdf := core.Inv4Pi
	if e.distribution != nil {
		pdf = 0
		if sinTheta := math.Sin(theta); sinTheta > 0 {
			pdf = e.distribution.pdf(uv) / (2 * math.Pi * math.Pi * sinTheta)
		}
	}
	return core.EmissionEval{Value: e.Texture.Evaluate(uv), Pdf: pdf}
}

// SampleDirect samples a direction towards the map
func (e *EnvironmentMap) SampleDirect(origin core.Vec3, sampler core.Sampler) core.DirectLightSample {
	if e.distribution == nil {
		direction := core.SquareToUniformSphere(sampler.Get2D())
		return core.DirectLightSample{
			Wi:       direction,
			Weight:   e.Evaluate(direction).Value.Divide(core.Inv4Pi),
			Distance: math.Inf(1),
			Pdf:      core.Inv4Pi,
		}
	}

	uv, mapPdf := e.distribution.sample(sampler.Get2D())
	theta := uv.Y * math.Pi
	phi := (1 - 2*uv.X) * math.Pi
	sinTheta := math.Sin(theta)
	if mapPdf == 0 || sinTheta == 0 {
		return core.InvalidDirectLightSample()
	}
	wi := core.NewVec3(math.Cos(phi)*sinTheta, math.Cos(theta), math.Sin(phi)*sinTheta)
	if e.Transform != nil {
		wi = e.Transform.ApplyVector(wi).Normalize()
	}
	pdf := mapPdf / (2 * math.Pi * math.Pi * sinTheta)
	return core.DirectLightSample{
		Wi:       wi,
		Weight:   e.Texture.Evaluate(uv).Divide(pdf),
		Distance: math.Inf(1),
		Pdf:      pdf,
	}
}

func (e *EnvironmentMap) CanBeIntersected() bool  { return true }
func (e *EnvironmentMap) SamplingWeight() float64 { return e.Weight }
