package scene

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/volume"
)

// Instance places a shape in the scene together with its material and
// optional modifiers. Without a Transform the shape is used in world space.
type Instance struct {
	Shape     core.Shape
	Transform *core.Transform // nil or identity: no transform
	Alpha     core.Texture    // optional alpha mask, 1 is opaque
	Volume    core.Volume     // optional medium filling the shape
	NormalMap core.Texture    // optional tangent space normal map
	Checker   *core.Checker   // optional invariant checks, nil is off

	bsdf     core.Bsdf
	emission core.Emission
	light    core.Light
	visible  bool
}

// NewInstance creates an untransformed instance of shape
func NewInstance(shape core.Shape, bsdf core.Bsdf, emission core.Emission) *Instance {
	return &Instance{Shape: shape, bsdf: bsdf, emission: emission}
}

// WithTransform sets the object to world transform and returns the instance
func (i *Instance) WithTransform(transform *core.Transform) *Instance {
	if transform != nil && transform.IsIdentity() {
		transform = nil
	}
	i.Transform = transform
	return i
}

// Bsdf returns the scattering function, nil for pure emitters
func (i *Instance) Bsdf() core.Bsdf { return i.bsdf }

// Emission returns the emission model, or nil
func (i *Instance) Emission() core.Emission { return i.emission }

// Light returns the area light attached to this instance, or nil
func (i *Instance) Light() core.Light { return i.light }

// SetLight attaches the light that samples this instance
func (i *Instance) SetLight(light core.Light) { i.light = light }

// Visible reports whether the instance is part of a scene's shape tree, so
// that camera and BSDF rays can hit it
func (i *Instance) Visible() bool { return i.visible }

func (i *Instance) markVisible() {
	i.visible = true
	if group, ok := i.Shape.(*Group); ok {
		group.markVisible()
	}
}

// Intersect converts the world ray to local space, intersects the shape and
// converts the hit back. its.T is kept in world units.
func (i *Instance) Intersect(ray core.Ray, its *core.Intersection, sampler core.Sampler) bool {
	if i.Transform == nil {
		return i.intersectLocal(ray, ray, 1, its, sampler)
	}

	localRay := i.Transform.InverseRay(ray)
	scale := localRay.Direction.Length()
	if scale == 0 {
		return false
	}
	localRay.Direction = localRay.Direction.Divide(scale)
	return i.intersectLocal(ray, localRay, scale, its, sampler)
}

func (i *Instance) intersectLocal(worldRay, localRay core.Ray, scale float64, its *core.Intersection, sampler core.Sampler) bool {
	previous := *its
	its.T = previous.T * scale

	if !i.Shape.Intersect(localRay, its, sampler) {
		its.T = previous.T
		return false
	}

	if i.transparent(its, sampler) {
		restore(its, previous)
		return false
	}

	if i.Volume != nil {
		return i.intersectVolume(worldRay, localRay, scale, previous, its, sampler)
	}

	// Nested groups have already pointed the hit at their own instance
	if _, nested := i.Shape.(*Group); !nested {
		its.Instance = i
	}
	if i.Transform != nil {
		its.T /= scale
	}
	i.transformFrame(&its.SurfaceEvent)
	i.Checker.CheckIntersection(its)
	return true
}

// transparent draws the stochastic alpha test for the current hit
func (i *Instance) transparent(its *core.Intersection, sampler core.Sampler) bool {
	if i.Alpha == nil {
		return false
	}
	return sampler.Get1D() > i.Alpha.Scalar(its.UV)
}

// intersectVolume samples a scattering distance between the entry hit and
// the exit of the shape. An origin inside the shape samples from the
// origin up to the first hit. Rays that fly through pass the shape as if it
// had no surface.
func (i *Instance) intersectVolume(worldRay, localRay core.Ray, scale float64, previous core.Intersection, its *core.Intersection, sampler core.Sampler) bool {
	entry := its.T
	exitRay := core.NewRay(localRay.At(entry+core.Epsilon*scale), localRay.Direction)
	exit := core.NewIntersection(previous.Wo, core.Infinity)

	tMin, length := 0.0, entry
	if i.Shape.Intersect(exitRay, &exit, sampler) {
		tMin = entry
		length = exit.T + core.Epsilon*scale
	}
	its.Stats.BVHNodes += exit.Stats.BVHNodes
	its.Stats.Primitives += exit.Stats.Primitives

	distance, ok := volume.SampleDistance(i.Volume, localRay, tMin, length, scale, sampler)
	if !ok || distance >= previous.T {
		restore(its, previous)
		return false
	}

	normal := core.SquareToUniformSphere(sampler.Get2D())
	its.Instance = i
	its.T = distance
	its.Position = worldRay.At(distance)
	its.GeometryNormal = normal
	its.Frame = core.BuildFrame(normal)
	its.Pdf = 0
	return true
}

// restore rolls a rejected hit back, keeping the work counters
func restore(its *core.Intersection, previous core.Intersection) {
	stats := its.Stats
	*its = previous
	its.Stats = stats
}

// transformFrame maps a local surface event to world space. The area pdf is
// divided by the area scale of the transform at the point.
func (i *Instance) transformFrame(surf *core.SurfaceEvent) {
	if i.Transform != nil {
		t := i.Transform
		tangent := t.ApplyVector(surf.Frame.Tangent)
		bitangent := t.ApplyVector(surf.Frame.Bitangent)
		if jacobian := tangent.Cross(bitangent).Length(); jacobian > 0 {
			surf.Pdf /= jacobian
		}
		surf.Position = t.Apply(surf.Position)
		surf.GeometryNormal = t.ApplyNormal(surf.GeometryNormal)
		surf.Frame = core.NewFrame(t.ApplyNormal(surf.Frame.Normal), tangent)
	}

	if i.NormalMap != nil {
		mapped := i.NormalMap.Evaluate(surf.UV).Multiply(2).Subtract(core.Splat(1))
		normal := surf.Frame.ToWorld(mapped).Normalize()
		if !normal.IsZero() {
			surf.Frame = core.NewFrame(normal, surf.Frame.Tangent)
		}
	}
}

// ToLocal maps a point of the instance's parent space into object space
func (i *Instance) ToLocal(p core.Vec3) core.Vec3 {
	if i.Transform == nil {
		return p
	}
	return i.Transform.InverseApply(p)
}

// ToWorld moves a surface event from object space into the parent space,
// rescaling its area pdf
func (i *Instance) ToWorld(surf *core.SurfaceEvent) {
	i.transformFrame(surf)
}

// BoundingBox returns the world bounds of the eight transformed corners
func (i *Instance) BoundingBox() core.Bounds {
	local := i.Shape.BoundingBox()
	if i.Transform == nil || local.IsEmpty() {
		return local
	}
	if local.IsUnbounded() {
		return core.FullBounds()
	}
	bounds := core.EmptyBounds()
	for corner := 0; corner < 8; corner++ {
		bounds = bounds.Extend(i.Transform.Apply(local.Corner(corner)))
	}
	return bounds
}

// Centroid returns the transformed centroid of the shape
func (i *Instance) Centroid() core.Vec3 {
	if i.Transform == nil {
		return i.Shape.Centroid()
	}
	return i.Transform.Apply(i.Shape.Centroid())
}

// SampleArea samples the shape surface in world space
func (i *Instance) SampleArea(sampler core.Sampler) core.AreaSample {
	sample := i.Shape.SampleArea(sampler)
	i.transformFrame(&sample)
	return sample
}

// ImprovedSampleArea samples the shape surface as seen from a world origin
func (i *Instance) ImprovedSampleArea(origin core.Vec3, sampler core.Sampler) core.AreaSample {
	sample := i.Shape.ImprovedSampleArea(i.ToLocal(origin), sampler)
	i.transformFrame(&sample)
	return sample
}
