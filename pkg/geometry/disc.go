package geometry

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// Disc is the unit disc in the z=0 plane with its normal along +Z
type Disc struct{}

// NewDisc creates a disc
func NewDisc() *Disc {
	return &Disc{}
}

func (d *Disc) populate(surf *core.SurfaceEvent, position core.Vec3) {
	surf.Position = core.NewVec3(position.X, position.Y, 0)
	surf.UV = core.NewVec2(
		0.5+math.Atan2(position.Y, position.X)/(2*math.Pi),
		math.Sqrt(position.X*position.X+position.Y*position.Y),
	)
	surf.GeometryNormal = core.NewVec3(0, 0, 1)
	surf.Frame = core.Frame{
		Tangent:   core.NewVec3(1, 0, 0),
		Bitangent: core.NewVec3(0, 1, 0),
		Normal:    core.NewVec3(0, 0, 1),
	}
	surf.Pdf = core.InvPi
}

// Intersect tests the ray against the z=0 plane and the unit circle
func (d *Disc) Intersect(ray core.Ray, its *core.Intersection, sampler core.Sampler) bool {
	if ray.Direction.Z == 0 {
		return false
	}
	t := -ray.Origin.Z / ray.Direction.Z
	if t < core.Epsilon || t > its.T {
		return false
	}
	position := ray.At(t)
	if position.X*position.X+position.Y*position.Y > 1 {
		return false
	}
	its.T = t
	d.populate(&its.SurfaceEvent, position)
	return true
}

// BoundingBox returns the flat box around the disc
func (d *Disc) BoundingBox() core.Bounds {
	return core.NewBounds(core.NewVec3(-1, -1, 0), core.NewVec3(1, 1, 0))
}

// Centroid returns the origin
func (d *Disc) Centroid() core.Vec3 {
	return core.Vec3{}
}

// SampleArea samples the disc uniformly (pdf 1/pi)
func (d *Disc) SampleArea(sampler core.Sampler) core.AreaSample {
	p := core.SquareToUniformDiskConcentric(sampler.Get2D())
	var sample core.AreaSample
	d.populate(&sample, core.NewVec3(p.X, p.Y, 0))
	return sample
}

// ImprovedSampleArea falls back to uniform area sampling
func (d *Disc) ImprovedSampleArea(origin core.Vec3, sampler core.Sampler) core.AreaSample {
	return d.SampleArea(sampler)
}
