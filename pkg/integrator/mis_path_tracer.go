package integrator

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/scene"
	"github.com/df07/go-mis-raytracer/pkg/stats"
)

// DefaultDepth is the number of path vertices traced when none is given
const DefaultDepth = 2

// RussianRoulette terminates low-throughput paths early. It is disabled
// while MinBounces is 0, in which case paths run to the fixed depth.
type RussianRoulette struct {
	MinBounces     int     // first bounce that may be terminated
	MaxProbability float64 // survival probability cap, 0.95 if unset
}

// Enabled reports whether roulette is applied at all
func (rr RussianRoulette) Enabled() bool { return rr.MinBounces > 0 }

// survive rolls for one path. The compensation factor is 0 on termination.
func (rr RussianRoulette) survive(bounce int, throughput core.Vec3, etaScale float64, sampler core.Sampler) float64 {
	if !rr.Enabled() || bounce < rr.MinBounces {
		return 1
	}
	maxProbability := rr.MaxProbability
	if maxProbability <= 0 || maxProbability > 1 {
		maxProbability = 0.95
	}
	// Radiance scaled by eta² on refraction would otherwise bias the test
	p := math.Min(maxProbability, throughput.MaxComponent()*etaScale)
	if p <= 0 || sampler.Get1D() >= p {
		return 0
	}
	return 1 / p
}

// MISPathTracer combines next event estimation and BSDF sampling with the
// power heuristic. Depth counts intersections: a depth of 1 sees emitters
// only, 2 adds direct lighting.
type MISPathTracer struct {
	Scene           *scene.Scene
	Depth           int
	RussianRoulette RussianRoulette
}

// NewMISPathTracer creates an MIS path tracer; depth <= 0 selects DefaultDepth
func NewMISPathTracer(s *scene.Scene, depth int) *MISPathTracer {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &MISPathTracer{Scene: s, Depth: depth}
}

// Li implements Integrator
func (pt *MISPathTracer) Li(ray core.Ray, sampler core.Sampler, rec *stats.Recorder) core.Vec3 {
	radiance := core.Vec3{}
	throughput := core.NewVec3(1, 1, 1)
	etaScale := 1.0
	prevBsdfPdf := 1.0
	ray = ray.Normalized()

	for bounce := 0; bounce < pt.Depth; bounce++ {
		ray.Depth = bounce
		its := trace(pt.Scene, ray, sampler, rec)
		emission := its.EvaluateEmission()

		if !emission.IsInvalid() {
			weight := 1.0
			if bounce > 0 {
				weight = emissionWeight(pt.Scene, &its, emission, prevBsdfPdf)
			}
			radiance = radiance.Add(emission.Value.MultiplyVec(throughput).Multiply(weight))
		}

		if !its.Hit() || bounce == pt.Depth-1 {
			return radiance
		}

		if sample, ok := sampleLight(pt.Scene, &its, sampler, rec); ok {
			radiance = radiance.Add(sample.contribution().MultiplyVec(throughput).Multiply(sample.weight()))
		}

		rec.Add(stats.BsdfSamples, 1)
		bsdfSample := its.SampleBsdf(sampler)
		if bsdfSample.IsInvalid() {
			return radiance
		}
		throughput = throughput.MultiplyVec(bsdfSample.Weight)
		prevBsdfPdf = bsdfSample.Pdf
		if bsdfSample.Eta > 0 {
			etaScale *= bsdfSample.Eta * bsdfSample.Eta
		}

		q := pt.RussianRoulette.survive(bounce+1, throughput, etaScale, sampler)
		if q == 0 {
			return radiance
		}
		throughput = throughput.Multiply(q)

		ray = its.SpawnRay(bsdfSample.Wi, bounce+1)
	}
	return radiance
}
