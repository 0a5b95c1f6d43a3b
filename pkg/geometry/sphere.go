package geometry

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// Sphere represents a sphere shape. Normals always point outwards.
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

// NewUnitSphere creates a sphere of radius 1 at the origin, meant to be
// placed with an instance transform
func NewUnitSphere() *Sphere {
	return NewSphere(core.Vec3{}, 1)
}

// Intersect tests if a ray intersects with the sphere
func (s *Sphere) Intersect(ray core.Ray, its *core.Intersection, sampler core.Sampler) bool {
	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	t := (-halfB - sqrtD) / a
	if t < core.Epsilon {
		t = (-halfB + sqrtD) / a
	}
	if t < core.Epsilon || t > its.T {
		return false
	}

	its.T = t
	s.populate(&its.SurfaceEvent, ray.At(t))
	its.Pdf = s.areaPdf(ray.Origin, its.Position)
	return true
}

func (s *Sphere) populate(surf *core.SurfaceEvent, position core.Vec3) {
	normal := position.Subtract(s.Center).Normalize()
	surf.Position = position
	surf.GeometryNormal = normal
	surf.Frame = core.NewFrame(normal, core.NewVec3(0, normal.Z, -normal.Y))
	surf.UV = core.NewVec2(
		0.5+math.Atan2(normal.Z, normal.X)/(2*math.Pi),
		0.5+math.Asin(max(-1, min(1, normal.Y)))/math.Pi,
	)
	surf.Pdf = core.Inv4Pi / (s.Radius * s.Radius)
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.Bounds {
	radius := core.Splat(s.Radius)
	return core.NewBounds(s.Center.Subtract(radius), s.Center.Add(radius))
}

// Centroid returns the sphere center
func (s *Sphere) Centroid() core.Vec3 {
	return s.Center
}

// SampleArea samples the surface uniformly
func (s *Sphere) SampleArea(sampler core.Sampler) core.AreaSample {
	var sample core.AreaSample
	s.populate(&sample, s.Center.Add(core.SquareToUniformSphere(sampler.Get2D()).Multiply(s.Radius)))
	return sample
}

// ImprovedSampleArea samples the cap visible from origin, weighted by the
// cosine to the axis towards origin. Points inside the sphere fall back to
// uniform sampling.
func (s *Sphere) ImprovedSampleArea(origin core.Vec3, sampler core.Sampler) core.AreaSample {
	toOrigin := origin.Subtract(s.Center)
	distance := toOrigin.Length()
	if distance <= s.Radius+core.Epsilon {
		return s.SampleArea(sampler)
	}

	cosThetaMax := s.Radius / distance
	sin2ThetaMax := 1 - cosThetaMax*cosThetaMax

	u := sampler.Get2D()
	z := math.Sqrt(1 - u.X*sin2ThetaMax)
	phi := 2 * math.Pi * u.Y
	r := math.Sqrt(max(0, 1-z*z))
	local := core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
	direction := core.BuildFrame(toOrigin.Divide(distance)).ToWorld(local)

	var sample core.AreaSample
	s.populate(&sample, s.Center.Add(direction.Multiply(s.Radius)))
	sample.Pdf = s.areaPdf(origin, sample.Position)
	return sample
}

// areaPdf is the density of ImprovedSampleArea from origin at position
func (s *Sphere) areaPdf(origin, position core.Vec3) float64 {
	toOrigin := origin.Subtract(s.Center)
	distance := toOrigin.Length()
	if distance <= s.Radius+core.Epsilon {
		return core.Inv4Pi / (s.Radius * s.Radius)
	}
	cosThetaMax := s.Radius / distance
	sin2ThetaMax := 1 - cosThetaMax*cosThetaMax
	cos := position.Subtract(s.Center).Normalize().Dot(toOrigin.Divide(distance))
	if cos <= 0 {
		return 0
	}
	return cos * core.InvPi / (sin2ThetaMax * s.Radius * s.Radius)
}
