package core

import "math"

// SurfaceEvent describes a point on a surface: its position, texture
// coordinates, shading frame and the area density with which it was found
type SurfaceEvent struct {
	Position       Vec3
	UV             Vec2
	GeometryNormal Vec3
	Frame          Frame // shading frame, Normal is the shading normal
	Pdf            float64
}

// ShadingNormal returns the shading normal
func (s *SurfaceEvent) ShadingNormal() Vec3 { return s.Frame.Normal }

// AreaSample is a point sampled on a shape surface with its area density
type AreaSample = SurfaceEvent

// IntersectionStats counts work done by a single query
type IntersectionStats struct {
	BVHNodes   int // bounding boxes tested
	Primitives int // primitives tested
}

// Intersection accumulates the closest hit of a single ray query.
// T is the current best distance and must only decrease while the query
// runs; callers initialize it with their distance budget through
// NewIntersection. Instance is nil while nothing has been hit.
type Intersection struct {
	SurfaceEvent

	Wo         Vec3 // direction towards the ray origin
	T          float64
	Instance   Instance
	Background BackgroundLight // set by the scene on a miss
	Stats      IntersectionStats
}

// NewIntersection starts a query with the given distance budget
func NewIntersection(wo Vec3, tMax float64) Intersection {
	return Intersection{Wo: wo, T: tMax}
}

// Hit reports whether the query found a surface
func (its *Intersection) Hit() bool {
	return its.Instance != nil
}

// Light returns the light attached to the hit instance, or nil
func (its *Intersection) Light() Light {
	if its.Instance == nil {
		return nil
	}
	return its.Instance.Light()
}

// EvaluateEmission returns the emitted radiance towards Wo at the hit, or
// the background radiance along -Wo on a miss
func (its *Intersection) EvaluateEmission() EmissionEval {
	if its.Instance == nil {
		if its.Background == nil {
			return InvalidEmissionEval()
		}
		return its.Background.Evaluate(its.Wo.Negate())
	}
	emission := its.Instance.Emission()
	if emission == nil {
		return InvalidEmissionEval()
	}
	return emission.Evaluate(its.UV, its.Frame.ToLocal(its.Wo))
}

// EvaluateBsdf evaluates the hit's BSDF for a world direction wi
func (its *Intersection) EvaluateBsdf(wi Vec3) BsdfEval {
	bsdf := its.bsdf()
	if bsdf == nil {
		return InvalidBsdfEval()
	}
	return bsdf.Evaluate(its.UV, its.Frame.ToLocal(its.Wo), its.Frame.ToLocal(wi))
}

// SampleBsdf samples the hit's BSDF and returns the direction in world space
func (its *Intersection) SampleBsdf(sampler Sampler) BsdfSample {
	bsdf := its.bsdf()
	if bsdf == nil {
		return InvalidBsdfSample()
	}
	sample := bsdf.Sample(its.UV, its.Frame.ToLocal(its.Wo), sampler)
	if sample.IsInvalid() {
		return sample
	}
	sample.Wi = its.Frame.ToWorld(sample.Wi).Normalize()
	return sample
}

// Albedo returns the hit's BSDF albedo, black if there is no BSDF
func (its *Intersection) Albedo() Vec3 {
	bsdf := its.bsdf()
	if bsdf == nil {
		return Vec3{}
	}
	return bsdf.Albedo(its.UV, its.Frame.ToLocal(its.Wo))
}

// SpawnRay returns a ray leaving the hit point in direction wi
func (its *Intersection) SpawnRay(wi Vec3, depth int) Ray {
	return Ray{Origin: its.Position, Direction: wi, Depth: depth}
}

func (its *Intersection) bsdf() Bsdf {
	if its.Instance == nil {
		return nil
	}
	return its.Instance.Bsdf()
}

// BsdfEval is the value of a BSDF (cosine included) and its sampling density
type BsdfEval struct {
	Value Vec3
	Pdf   float64
}

// InvalidBsdfEval returns the "no contribution" evaluation
func InvalidBsdfEval() BsdfEval { return BsdfEval{} }

// IsInvalid reports a zero contribution
func (e BsdfEval) IsInvalid() bool { return e.Value.IsZero() }

// BsdfSample is a sampled incident direction. Weight is already divided by
// Pdf; Pdf is kept only for MIS. Eta is the relative index of refraction
// crossed, 1 for reflection.
type BsdfSample struct {
	Wi     Vec3
	Weight Vec3
	Pdf    float64
	Eta    float64
}

// InvalidBsdfSample returns the sentinel that terminates a path
func InvalidBsdfSample() BsdfSample { return BsdfSample{Eta: 1} }

// IsInvalid reports a zero weight
func (s BsdfSample) IsInvalid() bool { return s.Weight.IsZero() }

// EmissionEval is emitted radiance and the density of having sampled it
type EmissionEval struct {
	Value Vec3
	Pdf   float64
}

// InvalidEmissionEval returns zero emission
func InvalidEmissionEval() EmissionEval { return EmissionEval{} }

// IsInvalid reports zero emission
func (e EmissionEval) IsInvalid() bool { return e.Value.IsZero() }

// DirectLightSample is a direction towards a light as seen from a shading
// point. Weight includes the radiance divided by the solid angle density.
type DirectLightSample struct {
	Wi       Vec3
	Weight   Vec3
	Distance float64
	Pdf      float64
}

// InvalidDirectLightSample returns the "no contribution" sample
func InvalidDirectLightSample() DirectLightSample { return DirectLightSample{} }

// IsInvalid reports zero weight
func (s DirectLightSample) IsInvalid() bool { return s.Weight.IsZero() }

// LightSample is a light chosen by the scene's light distribution
type LightSample struct {
	Light       Light
	Probability float64
}

// InvalidLightSample returns the sentinel used when there is no light
func InvalidLightSample() LightSample { return LightSample{} }

// IsInvalid reports whether no light was chosen
func (s LightSample) IsInvalid() bool { return s.Light == nil || s.Probability == 0 }

// IsDelta reports a density that cannot be hit by chance
func IsDelta(pdf float64) bool { return math.IsInf(pdf, 1) }
