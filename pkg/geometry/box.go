package geometry

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
)

// boxFaces lists the outward normal of each face with two tangents whose
// cross product is that normal, so the triangles wind counter-clockwise
// seen from outside
var boxFaces = [6][3]core.Vec3{
	{{X: 1}, {Y: 1}, {Z: 1}},
	{{X: -1}, {Z: 1}, {Y: 1}},
	{{Y: 1}, {Z: 1}, {X: 1}},
	{{Y: -1}, {X: 1}, {Z: 1}},
	{{Z: 1}, {X: 1}, {Y: 1}},
	{{Z: -1}, {Y: 1}, {X: 1}},
}

// NewBox returns the cube [-1,1]³ as a mesh of 12 triangles with flat
// outward normals and a full [0,1]² uv square on every face. Size,
// rotation and position come from an instance transform.
func NewBox(logger core.Logger) (*TriangleMesh, error) {
	vertices := make([]Vertex, 0, 24)
	triangles := make([][3]int, 0, 12)
	for _, face := range boxFaces {
		n, t1, t2 := face[0], face[1], face[2]
		base := len(vertices)
		corners := [4]struct {
			s1, s2 float64
			uv     core.Vec2
		}{
			{-1, -1, core.NewVec2(0, 0)},
			{1, -1, core.NewVec2(1, 0)},
			{1, 1, core.NewVec2(1, 1)},
			{-1, 1, core.NewVec2(0, 1)},
		}
		for _, c := range corners {
			vertices = append(vertices, Vertex{
				Position: n.Add(t1.Multiply(c.s1)).Add(t2.Multiply(c.s2)),
				Normal:   n,
				UV:       c.uv,
			})
		}
		triangles = append(triangles, [3]int{base, base + 1, base + 2}, [3]int{base, base + 2, base + 3})
	}
	return NewTriangleMesh(vertices, triangles, false, logger)
}
