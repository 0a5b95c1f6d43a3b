package integrator

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/scene"
	"github.com/df07/go-mis-raytracer/pkg/stats"
)

// PathTracer follows BSDF samples only and adds whatever emission each
// vertex sees. It converges to the same image as MISPathTracer, with much
// more noise around small lights, and cannot see delta lights at all.
type PathTracer struct {
	Scene *scene.Scene
	Depth int
}

// NewPathTracer creates a path tracer; depth <= 0 selects DefaultDepth
func NewPathTracer(s *scene.Scene, depth int) *PathTracer {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &PathTracer{Scene: s, Depth: depth}
}

// Li implements Integrator
func (pt *PathTracer) Li(ray core.Ray, sampler core.Sampler, rec *stats.Recorder) core.Vec3 {
	radiance := core.Vec3{}
	throughput := core.NewVec3(1, 1, 1)
	ray = ray.Normalized()

	for bounce := 0; bounce < pt.Depth; bounce++ {
		ray.Depth = bounce
		its := trace(pt.Scene, ray, sampler, rec)
		radiance = radiance.Add(its.EvaluateEmission().Value.MultiplyVec(throughput))
		if !its.Hit() || bounce == pt.Depth-1 {
			break
		}

		rec.Add(stats.BsdfSamples, 1)
		sample := its.SampleBsdf(sampler)
		if sample.IsInvalid() {
			break
		}
		throughput = throughput.MultiplyVec(sample.Weight)
		ray = its.SpawnRay(sample.Wi, bounce+1)
	}
	return radiance
}
