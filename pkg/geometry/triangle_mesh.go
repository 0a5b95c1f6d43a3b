package geometry

import (
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-mis-raytracer/pkg/accel"
	"github.com/df07/go-mis-raytracer/pkg/core"
)

// Vertex is a mesh vertex. Normal may be zero when the source has none.
type Vertex struct {
	Position core.Vec3
	Normal   core.Vec3
	UV       core.Vec2
}

// TriangleMesh is a collection of triangles sharing a vertex buffer,
// intersected through its own BVH
type TriangleMesh struct {
	vertices  []Vertex
	triangles [][3]int
	smooth    bool

	bvh       *accel.BVH
	areaCdf   []float64 // cumulative triangle areas
	totalArea float64
}

// NewTriangleMesh creates a mesh from vertices and triangle indices and
// builds its BVH. Smooth interpolates vertex normals when they are present.
func NewTriangleMesh(vertices []Vertex, triangles [][3]int, smooth bool, logger core.Logger) (*TriangleMesh, error) {
	for i, tri := range triangles {
		for _, index := range tri {
			if index < 0 || index >= len(vertices) {
				return nil, fmt.Errorf("triangle %d: vertex index %d out of range [0,%d)", i, index, len(vertices))
			}
		}
	}

	m := &TriangleMesh{
		vertices:  vertices,
		triangles: triangles,
		smooth:    smooth,
		areaCdf:   make([]float64, len(triangles)),
	}
	for i := range triangles {
		m.totalArea += m.triangleArea(i)
		m.areaCdf[i] = m.totalArea
	}
	m.bvh = accel.Build(m, logger)
	return m, nil
}

// TriangleCount returns the number of triangles in this mesh
func (m *TriangleMesh) TriangleCount() int { return len(m.triangles) }

// VertexCount returns the number of vertices in this mesh
func (m *TriangleMesh) VertexCount() int { return len(m.vertices) }

// Area returns the total surface area
func (m *TriangleMesh) Area() float64 { return m.totalArea }

func (m *TriangleMesh) corners(i int) (a, b, c Vertex) {
	tri := m.triangles[i]
	return m.vertices[tri[0]], m.vertices[tri[1]], m.vertices[tri[2]]
}

func (m *TriangleMesh) triangleArea(i int) float64 {
	a, b, c := m.corners(i)
	return 0.5 * b.Position.Subtract(a.Position).Cross(c.Position.Subtract(a.Position)).Length()
}

// NumberOfPrimitives implements accel.Primitives
func (m *TriangleMesh) NumberOfPrimitives() int { return len(m.triangles) }

// PrimitiveBounds implements accel.Primitives
func (m *TriangleMesh) PrimitiveBounds(i int) core.Bounds {
	a, b, c := m.corners(i)
	return core.NewBoundsFromPoints(a.Position, b.Position, c.Position)
}

// PrimitiveCentroid implements accel.Primitives
func (m *TriangleMesh) PrimitiveCentroid(i int) core.Vec3 {
	a, b, c := m.corners(i)
	return a.Position.Add(b.Position).Add(c.Position).Multiply(1.0 / 3.0)
}

// IntersectPrimitive tests one triangle using the Möller-Trumbore algorithm
func (m *TriangleMesh) IntersectPrimitive(i int, ray core.Ray, its *core.Intersection, sampler core.Sampler) bool {
	a, b, c := m.corners(i)
	edge1 := b.Position.Subtract(a.Position)
	edge2 := c.Position.Subtract(a.Position)

	h := ray.Direction.Cross(edge2)
	det := edge1.Dot(h)
	// Parallel or degenerate triangle
	if math.Abs(det) < 1e-12 {
		return false
	}
	inv := 1 / det
	s := ray.Origin.Subtract(a.Position)
	u := s.Dot(h) * inv
	if u < 0 || u > 1 {
		return false
	}
	q := s.Cross(edge1)
	v := ray.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return false
	}
	t := edge2.Dot(q) * inv
	if t < core.Epsilon || t > its.T {
		return false
	}

	its.T = t
	m.populate(&its.SurfaceEvent, ray.At(t), i, u, v)
	return true
}

func (m *TriangleMesh) populate(surf *core.SurfaceEvent, position core.Vec3, i int, u, v float64) {
	a, b, c := m.corners(i)
	w := 1 - u - v
	geometryNormal := b.Position.Subtract(a.Position).Cross(c.Position.Subtract(a.Position)).Normalize()

	shadingNormal := geometryNormal
	if m.smooth {
		interpolated := a.Normal.Multiply(w).Add(b.Normal.Multiply(u)).Add(c.Normal.Multiply(v))
		if interpolated.LengthSquared() > 0 {
			shadingNormal = interpolated.Normalize()
		}
	}

	surf.Position = position
	surf.GeometryNormal = geometryNormal
	surf.UV = core.NewVec2(
		a.UV.X*w+b.UV.X*u+c.UV.X*v,
		a.UV.Y*w+b.UV.Y*u+c.UV.Y*v,
	)
	surf.Frame = core.NewFrame(shadingNormal, b.Position.Subtract(a.Position))
	if m.totalArea > 0 {
		surf.Pdf = 1 / m.totalArea
	}
}

// Intersect finds the closest triangle through the BVH
func (m *TriangleMesh) Intersect(ray core.Ray, its *core.Intersection, sampler core.Sampler) bool {
	return m.bvh.Intersect(ray, its, sampler)
}

// BoundingBox returns the bounds of all triangles
func (m *TriangleMesh) BoundingBox() core.Bounds {
	return m.bvh.BoundingBox()
}

// Centroid returns the bounding box center
func (m *TriangleMesh) Centroid() core.Vec3 {
	return m.bvh.Centroid()
}

// SampleArea picks a triangle proportionally to its area, then a uniform
// point on it (pdf 1/area)
func (m *TriangleMesh) SampleArea(sampler core.Sampler) core.AreaSample {
	if m.totalArea <= 0 {
		return core.AreaSample{}
	}
	target := sampler.Get1D() * m.totalArea
	i := sort.SearchFloat64s(m.areaCdf, target)
	if i >= len(m.areaCdf) {
		i = len(m.areaCdf) - 1
	}

	// Uniform barycentrics via the square root warp
	r := sampler.Get2D()
	su := math.Sqrt(r.X)
	u := 1 - su
	v := r.Y * su

	a, b, c := m.corners(i)
	w := 1 - u - v
	position := a.Position.Multiply(w).Add(b.Position.Multiply(u)).Add(c.Position.Multiply(v))

	var sample core.AreaSample
	m.populate(&sample, position, i, u, v)
	return sample
}

// ImprovedSampleArea falls back to area sampling
func (m *TriangleMesh) ImprovedSampleArea(origin core.Vec3, sampler core.Sampler) core.AreaSample {
	return m.SampleArea(sampler)
}
