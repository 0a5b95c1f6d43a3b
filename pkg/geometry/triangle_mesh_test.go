package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// unitQuadMesh is two triangles covering [0,1]² at z=0
func unitQuadMesh(t *testing.T, smooth bool) *TriangleMesh {
	t.Helper()
	n := core.NewVec3(0, 0, 1)
	vertices := []Vertex{
		{Position: core.NewVec3(0, 0, 0), Normal: n, UV: core.NewVec2(0, 0)},
		{Position: core.NewVec3(1, 0, 0), Normal: n, UV: core.NewVec2(1, 0)},
		{Position: core.NewVec3(1, 1, 0), Normal: n, UV: core.NewVec2(1, 1)},
		{Position: core.NewVec3(0, 1, 0), Normal: n, UV: core.NewVec2(0, 1)},
	}
	mesh, err := NewTriangleMesh(vertices, [][3]int{{0, 1, 2}, {0, 2, 3}}, smooth, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return mesh
}

func TestTriangleMesh_InvalidIndex(t *testing.T) {
	_, err := NewTriangleMesh([]Vertex{{}, {}}, [][3]int{{0, 1, 2}}, false, nil)
	if err == nil {
		t.Error("Expected error for out of range vertex index")
	}
}

func TestTriangleMesh_Intersect(t *testing.T) {
	mesh := unitQuadMesh(t, true)
	if mesh.TriangleCount() != 2 || math.Abs(mesh.Area()-1) > 1e-12 {
		t.Fatalf("Unexpected mesh: %d triangles, area %f", mesh.TriangleCount(), mesh.Area())
	}

	ray := core.NewRay(core.NewVec3(0.25, 0.75, 1), core.NewVec3(0, 0, -1))
	its := core.NewIntersection(ray.Direction.Negate(), math.Inf(1))
	if !mesh.Intersect(ray, &its, newTestSampler()) {
		t.Fatal("Expected hit")
	}
	if math.Abs(its.T-1) > 1e-12 {
		t.Errorf("Expected t=1, got %f", its.T)
	}
	if math.Abs(its.UV.X-0.25) > 1e-12 || math.Abs(its.UV.Y-0.75) > 1e-12 {
		t.Errorf("Expected uv (0.25, 0.75), got %v", its.UV)
	}
	if its.Frame.Normal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-12 {
		t.Errorf("Expected +Z normal, got %v", its.Frame.Normal)
	}
	if math.Abs(its.Pdf-1) > 1e-12 {
		t.Errorf("Expected area pdf 1, got %f", its.Pdf)
	}

	miss := core.NewRay(core.NewVec3(1.5, 0.5, 1), core.NewVec3(0, 0, -1))
	its = core.NewIntersection(miss.Direction.Negate(), math.Inf(1))
	if mesh.Intersect(miss, &its, newTestSampler()) {
		t.Error("Expected miss outside the quad")
	}
}

func TestTriangleMesh_SampleArea(t *testing.T) {
	mesh := unitQuadMesh(t, false)
	sampler := newTestSampler()
	for i := 0; i < 1000; i++ {
		sample := mesh.SampleArea(sampler)
		p := sample.Position
		if p.X < -1e-12 || p.X > 1+1e-12 || p.Y < -1e-12 || p.Y > 1+1e-12 || p.Z != 0 {
			t.Fatalf("Expected sample inside the quad, got %v", p)
		}
		if math.Abs(sample.Pdf-1) > 1e-12 {
			t.Fatalf("Expected pdf 1, got %f", sample.Pdf)
		}
	}
}
