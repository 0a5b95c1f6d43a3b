package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// NopLogger discards everything
type NopLogger struct{}

// Printf implements Logger
func (NopLogger) Printf(string, ...interface{}) {}

// Shape is a surface that can be intersected in its own local space.
// Intersect reports a hit only if it is closer than its.T, and on a hit it
// lowers its.T and fills the surface event. Misses leave its untouched apart
// from Stats.
type Shape interface {
	Intersect(ray Ray, its *Intersection, sampler Sampler) bool
	BoundingBox() Bounds
	Centroid() Vec3
	SampleArea(sampler Sampler) AreaSample
	ImprovedSampleArea(origin Vec3, sampler Sampler) AreaSample
}

// Bsdf is a scattering function in the z-up local shading frame
type Bsdf interface {
	Evaluate(uv Vec2, wo, wi Vec3) BsdfEval
	Sample(uv Vec2, wo Vec3, sampler Sampler) BsdfSample
	Albedo(uv Vec2, wo Vec3) Vec3
}

// Emission is the radiance an emitter sends towards a local direction wo
type Emission interface {
	Evaluate(uv Vec2, wo Vec3) EmissionEval
}

// Light can be sampled explicitly from a shading point
type Light interface {
	SampleDirect(origin Vec3, sampler Sampler) DirectLightSample
	// CanBeIntersected reports whether a BSDF-sampled ray may hit the light
	CanBeIntersected() bool
	// SamplingWeight is the static importance used by the light distribution
	SamplingWeight() float64
}

// BackgroundLight is a light at infinity that rays escaping the scene see
type BackgroundLight interface {
	Light
	Evaluate(direction Vec3) EmissionEval
}

// Texture is a spatially varying property
type Texture interface {
	Evaluate(uv Vec2) Vec3
	Scalar(uv Vec2) float64
}

// Volume is a participating medium density field in local coordinates.
// MaxDensity must bound Density everywhere.
type Volume interface {
	Density(p Vec3) float64
	MaxDensity() float64
}

// Instance is what an intersection points back to
type Instance interface {
	Bsdf() Bsdf
	Emission() Emission
	Light() Light
}
