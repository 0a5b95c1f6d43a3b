package scene

import (
	"github.com/df07/go-mis-raytracer/pkg/accel"
	"github.com/df07/go-mis-raytracer/pkg/core"
)

// Group is a set of instances behind a BVH. It is itself a shape, so groups
// can be instanced and nested.
type Group struct {
	instances []*Instance
	bvh       *accel.BVH
}

// NewGroup builds the hierarchy over instances
func NewGroup(instances []*Instance, logger core.Logger) *Group {
	g := &Group{instances: instances}
	g.bvh = accel.Build(g, logger)
	return g
}

// Instances returns the grouped instances
func (g *Group) Instances() []*Instance { return g.instances }

func (g *Group) NumberOfPrimitives() int { return len(g.instances) }

func (g *Group) IntersectPrimitive(index int, ray core.Ray, its *core.Intersection, sampler core.Sampler) bool {
	return g.instances[index].Intersect(ray, its, sampler)
}

func (g *Group) PrimitiveBounds(index int) core.Bounds {
	return g.instances[index].BoundingBox()
}

func (g *Group) PrimitiveCentroid(index int) core.Vec3 {
	return g.instances[index].Centroid()
}

// Intersect finds the closest instance hit
func (g *Group) Intersect(ray core.Ray, its *core.Intersection, sampler core.Sampler) bool {
	return g.bvh.Intersect(ray, its, sampler)
}

// Occluded reports whether any instance is hit closer than tMax
func (g *Group) Occluded(ray core.Ray, tMax float64, sampler core.Sampler) bool {
	return g.bvh.Occluded(ray, tMax, sampler)
}

func (g *Group) BoundingBox() core.Bounds { return g.bvh.BoundingBox() }
func (g *Group) Centroid() core.Vec3      { return g.bvh.Centroid() }

// BVH exposes the hierarchy for statistics
func (g *Group) BVH() *accel.BVH { return g.bvh }

// SampleArea picks an instance uniformly and samples it
func (g *Group) SampleArea(sampler core.Sampler) core.AreaSample {
	instance, ok := g.pick(sampler)
	if !ok {
		return core.AreaSample{}
	}
	sample := instance.SampleArea(sampler)
	sample.Pdf /= float64(len(g.instances))
	return sample
}

// ImprovedSampleArea picks an instance uniformly and samples it from origin
func (g *Group) ImprovedSampleArea(origin core.Vec3, sampler core.Sampler) core.AreaSample {
	instance, ok := g.pick(sampler)
	if !ok {
		return core.AreaSample{}
	}
	sample := instance.ImprovedSampleArea(origin, sampler)
	sample.Pdf /= float64(len(g.instances))
	return sample
}

func (g *Group) pick(sampler core.Sampler) (*Instance, bool) {
	if len(g.instances) == 0 {
		return nil, false
	}
	index := min(int(sampler.Get1D()*float64(len(g.instances))), len(g.instances)-1)
	return g.instances[index], true
}

func (g *Group) markVisible() {
	for _, instance := range g.instances {
		instance.markVisible()
	}
}
