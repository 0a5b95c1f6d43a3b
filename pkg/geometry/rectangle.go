package geometry

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// Rectangle is the square [-1,1]² in the z=0 plane with its normal along +Z.
// Size and placement come from an instance transform.
type Rectangle struct{}

// NewRectangle creates a rectangle
func NewRectangle() *Rectangle {
	return &Rectangle{}
}

func (r *Rectangle) populate(surf *core.SurfaceEvent, position core.Vec3) {
	surf.Position = core.NewVec3(position.X, position.Y, 0)
	surf.UV = core.NewVec2((position.X+1)/2, (position.Y+1)/2)
	surf.GeometryNormal = core.NewVec3(0, 0, 1)
	surf.Frame = core.Frame{
		Tangent:   core.NewVec3(1, 0, 0),
		Bitangent: core.NewVec3(0, 1, 0),
		Normal:    core.NewVec3(0, 0, 1),
	}
	surf.Pdf = 0.25
}

// Intersect tests the ray against the z=0 plane and the square bounds
func (r *Rectangle) Intersect(ray core.Ray, its *core.Intersection, sampler core.Sampler) bool {
	if ray.Direction.Z == 0 {
		return false
	}
	t := -ray.Origin.Z / ray.Direction.Z
	if t < core.Epsilon || t > its.T {
		return false
	}
	position := ray.At(t)
	if math.Abs(position.X) > 1 || math.Abs(position.Y) > 1 {
		return false
	}

	its.T = t
	r.populate(&its.SurfaceEvent, position)
	if quad, ok := newSphericalRectangle(ray.Origin); ok {
		its.Pdf = quad.areaPdf(position)
	}
	return true
}

// BoundingBox returns the flat box of the square
func (r *Rectangle) BoundingBox() core.Bounds {
	return core.NewBounds(core.NewVec3(-1, -1, 0), core.NewVec3(1, 1, 0))
}

// Centroid returns the origin
func (r *Rectangle) Centroid() core.Vec3 {
	return core.Vec3{}
}

// SampleArea samples the square uniformly (pdf 1/4)
func (r *Rectangle) SampleArea(sampler core.Sampler) core.AreaSample {
	u := sampler.Get2D()
	var sample core.AreaSample
	r.populate(&sample, core.NewVec3(2*u.X-1, 2*u.Y-1, 0))
	return sample
}

// ImprovedSampleArea samples the square uniformly in solid angle as seen
// from origin. Origins in the plane of the square get an invalid (zero pdf)
// sample.
func (r *Rectangle) ImprovedSampleArea(origin core.Vec3, sampler core.Sampler) core.AreaSample {
	quad, ok := newSphericalRectangle(origin)
	if !ok {
		return core.AreaSample{}
	}
	var sample core.AreaSample
	position := quad.sample(sampler.Get2D())
	r.populate(&sample, position)
	sample.Pdf = quad.areaPdf(sample.Position)
	return sample
}

// sphericalRectangle is the projection of the square onto the unit sphere
// around an origin (Ureña et al. 2013)
type sphericalRectangle struct {
	origin     core.Vec3
	x0, y0, z0 float64
	x1, y1     float64
	b0, b1     float64
	k, sa      float64 // sa is the solid angle
}

func newSphericalRectangle(origin core.Vec3) (sphericalRectangle, bool) {
	if math.Abs(origin.Z) <= core.Epsilon {
		return sphericalRectangle{}, false
	}
	// Mirror origins below the plane; the square is symmetric about z=0
	q := sphericalRectangle{origin: origin}
	q.z0 = -math.Abs(origin.Z)
	q.x0 = -1 - origin.X
	q.y0 = -1 - origin.Y
	q.x1 = q.x0 + 2
	q.y1 = q.y0 + 2

	v00 := core.NewVec3(q.x0, q.y0, q.z0)
	v01 := core.NewVec3(q.x0, q.y1, q.z0)
	v10 := core.NewVec3(q.x1, q.y0, q.z0)
	v11 := core.NewVec3(q.x1, q.y1, q.z0)

	n0 := v00.Cross(v10).Normalize()
	n1 := v10.Cross(v11).Normalize()
	n2 := v11.Cross(v01).Normalize()
	n3 := v01.Cross(v00).Normalize()

	g0 := safeAcos(-n0.Dot(n1))
	g1 := safeAcos(-n1.Dot(n2))
	g2 := safeAcos(-n2.Dot(n3))
	g3 := safeAcos(-n3.Dot(n0))

	q.b0 = n0.Z
	q.b1 = n2.Z
	q.k = 2*math.Pi - g2 - g3
	q.sa = g0 + g1 - q.k
	if !(q.sa >= core.Epsilon) {
		return sphericalRectangle{}, false
	}
	return q, true
}

func (q sphericalRectangle) sample(u core.Vec2) core.Vec3 {
	au := u.X*q.sa + q.k
	fu := (math.Cos(au)*q.b0 - q.b1) / math.Sin(au)
	cu := math.Copysign(1, fu) / math.Sqrt(fu*fu+q.b0*q.b0)
	cu = max(-1, min(1, cu))

	xu := -(cu * q.z0) / math.Sqrt(max(1e-12, 1-cu*cu))
	xu = max(q.x0, min(q.x1, xu))

	d := math.Sqrt(xu*xu + q.z0*q.z0)
	h0 := q.y0 / math.Sqrt(d*d+q.y0*q.y0)
	h1 := q.y1 / math.Sqrt(d*d+q.y1*q.y1)
	hv := h0 + u.Y*(h1-h0)
	hv2 := hv * hv
	yv := q.y1
	if hv2 < 1-core.Epsilon {
		yv = hv * d / math.Sqrt(1-hv2)
	}
	return core.NewVec3(
		max(-1, min(1, q.origin.X+xu)),
		max(-1, min(1, q.origin.Y+yv)),
		0,
	)
}

// areaPdf converts the uniform solid angle density 1/S to area measure
func (q sphericalRectangle) areaPdf(position core.Vec3) float64 {
	toPoint := position.Subtract(q.origin)
	distanceSquared := toPoint.LengthSquared()
	cos := math.Abs(toPoint.Z) / math.Sqrt(distanceSquared)
	return cos / (q.sa * distanceSquared)
}

func safeAcos(x float64) float64 {
	return math.Acos(max(-1, min(1, x)))
}
