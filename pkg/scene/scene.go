// Package scene wires instances, their hierarchy and the lights into the
// queries the integrators use.
package scene

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
)

// Scene is immutable after New and safe for concurrent queries
type Scene struct {
	root         *Group
	lights       []core.Light
	background   core.BackgroundLight
	distribution *LightDistribution
}

// New creates a scene. Every instance reachable from root becomes visible.
// A background with a nonzero sampling weight is also sampled as a light.
func New(root *Group, lights []core.Light, background core.BackgroundLight, logger core.Logger) *Scene {
	if logger == nil {
		logger = core.NopLogger{}
	}
	if root == nil {
		root = NewGroup(nil, logger)
	}
	root.markVisible()

	all := append([]core.Light(nil), lights...)
	if background != nil && background.SamplingWeight() > 0 {
		all = append(all, background)
	}

	s := &Scene{
		root:         root,
		lights:       all,
		background:   background,
		distribution: NewLightDistribution(all, logger),
	}
	logger.Printf("scene has %d instances and %d lights (%d sampled)",
		len(root.Instances()), len(all), s.distribution.Len())
	return s
}

// Intersect finds the closest hit along ray. On a miss the background is
// attached to the intersection.
func (s *Scene) Intersect(ray core.Ray, sampler core.Sampler) core.Intersection {
	its := core.NewIntersection(ray.Direction.Negate().Normalize(), core.Infinity)
	if !s.root.Intersect(ray, &its, sampler) {
		its.Background = s.background
	}
	return its
}

// Occluded reports whether anything blocks ray before maxDistance. The
// budget is shortened slightly so the light's own surface does not count.
func (s *Scene) Occluded(ray core.Ray, maxDistance float64, sampler core.Sampler) bool {
	return s.root.Occluded(ray, maxDistance*(1-core.Epsilon), sampler)
}

// SampleLight picks a light from the distribution
func (s *Scene) SampleLight(sampler core.Sampler) core.LightSample {
	return s.distribution.Sample(sampler.Get1D())
}

// LightProbability returns the chance that SampleLight picks light
func (s *Scene) LightProbability(light core.Light) float64 {
	return s.distribution.Probability(light)
}

// HasLights reports whether any light was registered
func (s *Scene) HasLights() bool { return len(s.lights) > 0 }

// Lights returns the registered lights, background included if sampled
func (s *Scene) Lights() []core.Light { return s.lights }

func (s *Scene) Background() core.BackgroundLight { return s.background }
func (s *Scene) Root() *Group                     { return s.root }
func (s *Scene) BoundingBox() core.Bounds         { return s.root.BoundingBox() }
