package integrator

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/scene"
	"github.com/df07/go-mis-raytracer/pkg/stats"
)

// DirectIntegrator computes emission plus single-bounce direct lighting. It
// takes one light sample and one BSDF sample per hit and combines them with
// the power heuristic, so it draws the same random numbers in the same
// order as a depth 2 MISPathTracer.
type DirectIntegrator struct {
	Scene *scene.Scene
}

// NewDirectIntegrator creates a direct lighting integrator
func NewDirectIntegrator(s *scene.Scene) *DirectIntegrator {
	return &DirectIntegrator{Scene: s}
}

// Li implements Integrator
func (d *DirectIntegrator) Li(ray core.Ray, sampler core.Sampler, rec *stats.Recorder) core.Vec3 {
	ray = ray.Normalized()
	ray.Depth = 0
	its := trace(d.Scene, ray, sampler, rec)
	radiance := its.EvaluateEmission().Value
	if !its.Hit() {
		return radiance
	}

	if sample, ok := sampleLight(d.Scene, &its, sampler, rec); ok {
		radiance = radiance.Add(sample.contribution().Multiply(sample.weight()))
	}

	rec.Add(stats.BsdfSamples, 1)
	bsdfSample := its.SampleBsdf(sampler)
	if bsdfSample.IsInvalid() {
		return radiance
	}
	next := trace(d.Scene, its.SpawnRay(bsdfSample.Wi, 1), sampler, rec)
	emission := next.EvaluateEmission()
	if emission.IsInvalid() {
		return radiance
	}
	weight := emissionWeight(d.Scene, &next, emission, bsdfSample.Pdf)
	return radiance.Add(emission.Value.MultiplyVec(bsdfSample.Weight).Multiply(weight))
}
