// Package integrator estimates the radiance arriving along camera rays.
package integrator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/scene"
	"github.com/df07/go-mis-raytracer/pkg/stats"
)

// ErrUnknownIntegrator is returned by New for an unregistered name
var ErrUnknownIntegrator = errors.New("unknown integrator")

// Integrator defines the interface for light transport algorithms.
// Implementations are bound to one scene and must be safe for concurrent
// use; all per-ray state lives on the stack or in the sampler.
type Integrator interface {
	// Li returns the radiance arriving along ray. rec may be nil.
	Li(ray core.Ray, sampler core.Sampler, rec *stats.Recorder) core.Vec3
}

// Options configures the integrators built by New
type Options struct {
	Depth           int
	RussianRoulette RussianRoulette
	AOV             Variable
	AOVScale        float64
}

// Names lists the integrators New understands
var Names = []string{"mis", "pathtracer", "direct", "aov"}

// New builds the integrator registered under name
func New(name string, s *scene.Scene, opts Options) (Integrator, error) {
	switch strings.ToLower(name) {
	case "mis", "":
		mis := NewMISPathTracer(s, opts.Depth)
		mis.RussianRoulette = opts.RussianRoulette
		return mis, nil
	case "pathtracer":
		return NewPathTracer(s, opts.Depth), nil
	case "direct":
		return NewDirectIntegrator(s), nil
	case "aov":
		return NewAOVIntegrator(s, opts.AOV, opts.AOVScale), nil
	}
	return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownIntegrator, name, strings.Join(Names, ", "))
}

// trace intersects the scene and records the query
func trace(s *scene.Scene, ray core.Ray, sampler core.Sampler, rec *stats.Recorder) core.Intersection {
	if ray.Depth == 0 {
		rec.Add(stats.CameraRays, 1)
	} else {
		rec.Add(stats.BounceRays, 1)
	}
	its := s.Intersect(ray, sampler)
	rec.AddIntersection(its.Stats)
	return its
}

// lightSample is one unoccluded next event estimate before MIS weighting
type lightSample struct {
	light  core.LightSample
	direct core.DirectLightSample
	bsdf   core.BsdfEval
}

// sampleLight picks a light, samples it from the hit and casts the shadow
// ray. ok is false when there is nothing to add.
func sampleLight(s *scene.Scene, its *core.Intersection, sampler core.Sampler, rec *stats.Recorder) (lightSample, bool) {
	if !s.HasLights() {
		return lightSample{}, false
	}
	chosen := s.SampleLight(sampler)
	if chosen.IsInvalid() {
		return lightSample{}, false
	}
	rec.Add(stats.LightSamples, 1)
	direct := chosen.Light.SampleDirect(its.Position, sampler)
	if direct.IsInvalid() {
		return lightSample{}, false
	}
	rec.Add(stats.ShadowRays, 1)
	shadow := its.SpawnRay(direct.Wi.Normalize(), 1)
	if s.Occluded(shadow, direct.Distance, sampler) {
		return lightSample{}, false
	}
	eval := its.EvaluateBsdf(shadow.Direction)
	if eval.IsInvalid() {
		return lightSample{}, false
	}
	return lightSample{light: chosen, direct: direct, bsdf: eval}, true
}

// contribution is the unweighted estimate fr·cos·Le/(pdf·selection)
func (l lightSample) contribution() core.Vec3 {
	return l.bsdf.Value.MultiplyVec(l.direct.Weight).Divide(l.light.Probability)
}

// weight is the MIS weight of the light sample against BSDF sampling.
// Lights a BSDF-sampled ray can never hit get the full weight.
func (l lightSample) weight() float64 {
	if !l.light.Light.CanBeIntersected() {
		return 1
	}
	return core.PowerHeuristic(l.direct.Pdf*l.light.Probability, l.bsdf.Pdf)
}

// emissionWeight is the MIS weight of emission found by a BSDF-sampled ray
// with density prevBsdfPdf. Emitters that are never sampled explicitly and
// delta BSDF lobes take the full contribution.
func emissionWeight(s *scene.Scene, its *core.Intersection, emission core.EmissionEval, prevBsdfPdf float64) float64 {
	if core.IsDelta(prevBsdfPdf) {
		return 1
	}
	if !its.Hit() {
		background := its.Background
		if background == nil || !background.CanBeIntersected() {
			return 1
		}
		selection := s.LightProbability(background)
		if selection == 0 {
			return 1
		}
		return core.PowerHeuristic(prevBsdfPdf, emission.Pdf*selection)
	}

	light := its.Light()
	if light == nil {
		return 1
	}
	cos := its.Frame.Normal.AbsDot(its.Wo)
	if cos <= 0 {
		return 1
	}
	lightPdf := its.Pdf * its.T * its.T / cos
	return core.PowerHeuristic(prevBsdfPdf, lightPdf*s.LightProbability(light))
}
