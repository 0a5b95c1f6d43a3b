package lights

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/scene"
)

// Area turns an emissive instance into a light that can be sampled. The
// instance must carry an emission.
type Area struct {
	Instance *scene.Instance
	Weight   float64

	parents []*scene.Instance // instances wrapping the light's group, innermost first
}

// NewArea creates an area light and attaches it to instance. The instance is
// sampled in world space unless it sits in a Group wrapped by another
// instance; declare those with Within.
func NewArea(instance *scene.Instance) *Area {
	light := &Area{Instance: instance, Weight: 1}
	instance.SetLight(light)
	return light
}

// Within records that the light's instance lies in a Group wrapped by
// parent. Call it once per level of nesting, innermost first.
func (a *Area) Within(parent *scene.Instance) *Area {
	a.parents = append(a.parents, parent)
	return a
}

// sample draws a world space point on the instance as seen from origin
func (a *Area) sample(origin core.Vec3, sampler core.Sampler) core.AreaSample {
	for k := len(a.parents) - 1; k >= 0; k-- {
		origin = a.parents[k].ToLocal(origin)
	}
	sample := a.Instance.ImprovedSampleArea(origin, sampler)
	for _, parent := range a.parents {
		parent.ToWorld(&sample)
	}
	return sample
}

// SampleDirect samples a point on the instance as seen from origin
func (a *Area) SampleDirect(origin core.Vec3, sampler core.Sampler) core.DirectLightSample {
	emission := a.Instance.Emission()
	if emission == nil {
		return core.InvalidDirectLightSample()
	}
	sample := a.sample(origin, sampler)
	toLight := sample.Position.Subtract(origin)
	distance := toLight.Length()
	if sample.Pdf == 0 || distance == 0 {
		return core.InvalidDirectLightSample()
	}
	wi := toLight.Divide(distance)

	localWi := sample.Frame.ToLocal(wi).Normalize()
	cosLight := core.AbsCosTheta(localWi)
	radiance := emission.Evaluate(sample.UV, localWi.Negate())
	if radiance.IsInvalid() || cosLight == 0 {
		return core.InvalidDirectLightSample()
	}

	distanceSquared := distance * distance
	return core.DirectLightSample{
		Wi:       wi,
		Weight:   radiance.Value.Multiply(cosLight / (distanceSquared * sample.Pdf)),
		Distance: distance,
		Pdf:      core.SurfaceAreaToSolidAnglePdf(sample.Pdf, distanceSquared, cosLight),
	}
}

// CanBeIntersected reports whether BSDF rays can reach the emitter
func (a *Area) CanBeIntersected() bool  { return a.Instance.Visible() }
func (a *Area) SamplingWeight() float64 { return a.Weight }
