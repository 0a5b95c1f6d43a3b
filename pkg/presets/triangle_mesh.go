package presets

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/geometry"
	"github.com/df07/go-mis-raytracer/pkg/lights"
	"github.com/df07/go-mis-raytracer/pkg/material"
	"github.com/df07/go-mis-raytracer/pkg/renderer"
)

func init() {
	register(Info{
		ID:          "triangle-mesh-sphere",
		Name:        "Triangle Mesh Sphere",
		Description: "Smooth and faceted icospheres, a pyramid and a box built from triangle meshes",
	}, buildTriangleMeshes)
}

// icosphere subdivides an icosahedron and projects it onto the unit
// sphere. Vertex normals equal positions, so smooth shading is exact.
func icosphere(subdivisions int, smooth bool, logger core.Logger) (*geometry.TriangleMesh, error) {
	phi := (1 + math.Sqrt(5)) / 2
	positions := []core.Vec3{
		{X: -1, Y: phi}, {X: 1, Y: phi}, {X: -1, Y: -phi}, {X: 1, Y: -phi},
		{Y: -1, Z: phi}, {Y: 1, Z: phi}, {Y: -1, Z: -phi}, {Y: 1, Z: -phi},
		{X: phi, Z: -1}, {X: phi, Z: 1}, {X: -phi, Z: -1}, {X: -phi, Z: 1},
	}
	for i := range positions {
		positions[i] = positions[i].Normalize()
	}
	triangles := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	for s := 0; s < subdivisions; s++ {
		midpoints := map[[2]int]int{}
		midpoint := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if index, ok := midpoints[key]; ok {
				return index
			}
			positions = append(positions, positions[a].Add(positions[b]).Normalize())
			midpoints[key] = len(positions) - 1
			return len(positions) - 1
		}
		next := make([][3]int, 0, 4*len(triangles))
		for _, tri := range triangles {
			ab := midpoint(tri[0], tri[1])
			bc := midpoint(tri[1], tri[2])
			ca := midpoint(tri[2], tri[0])
			next = append(next,
				[3]int{tri[0], ab, ca},
				[3]int{tri[1], bc, ab},
				[3]int{tri[2], ca, bc},
				[3]int{ab, bc, ca},
			)
		}
		triangles = next
	}

	vertices := make([]geometry.Vertex, len(positions))
	for i, p := range positions {
		vertices[i] = geometry.Vertex{
			Position: p,
			Normal:   p,
			UV:       core.NewVec2(0.5+math.Atan2(p.Z, p.X)/(2*math.Pi), 0.5+math.Asin(p.Y)/math.Pi),
		}
	}
	return geometry.NewTriangleMesh(vertices, triangles, smooth, logger)
}

// pyramid has a square base [-1,1]² at y=0 and its apex at y=1
func pyramid(logger core.Logger) (*geometry.TriangleMesh, error) {
	vertices := []geometry.Vertex{
		{Position: core.NewVec3(-1, 0, -1)},
		{Position: core.NewVec3(1, 0, -1)},
		{Position: core.NewVec3(1, 0, 1)},
		{Position: core.NewVec3(-1, 0, 1)},
		{Position: core.NewVec3(0, 1, 0)},
	}
	triangles := [][3]int{
		{0, 1, 2}, {0, 2, 3}, // base
		{0, 4, 1}, {1, 4, 2}, {2, 4, 3}, {3, 4, 0},
	}
	return geometry.NewTriangleMesh(vertices, triangles, false, logger)
}

func buildTriangleMeshes(b *builder) (*Built, error) {
	logger := b.opts.Logger
	smooth, err := icosphere(3, true, logger)
	if err != nil {
		return nil, err
	}
	faceted, err := icosphere(1, false, logger)
	if err != nil {
		return nil, err
	}
	pyr, err := pyramid(logger)
	if err != nil {
		return nil, err
	}
	box, err := geometry.NewBox(logger)
	if err != nil {
		return nil, err
	}

	b.add(geometry.NewRectangle(), material.NewDiffuse(gray(0.5)), floor(0, 40))
	b.add(smooth, material.NewDiffuse(color(0.8, 0.3, 0.3)), sphere(core.NewVec3(-2.2, 1, 0), 1)...)
	b.add(faceted, material.NewConductor(color(0.9, 0.9, 0.9)), sphere(core.NewVec3(0, 1, 0.5), 1)...)
	b.add(pyr, material.NewDiffuse(color(0.3, 0.8, 0.3)),
		core.ScaleMatrix(core.NewVec3(0.9, 1.6, 0.9)),
		core.RotateMatrix(30, core.NewVec3(0, 1, 0)),
		core.TranslateMatrix(core.NewVec3(2.2, 0, 0)),
	)
	b.add(box, material.NewDielectric(1.5),
		core.ScaleMatrix(core.NewVec3(0.4, 0.4, 0.4)),
		core.RotateMatrix(45, core.NewVec3(1, 1, 0)),
		core.TranslateMatrix(core.NewVec3(0.8, 0.6, -1.6)),
	)

	// Facing down
	b.addEmitter(geometry.NewRectangle(), core.Splat(8), quad(
		core.NewVec3(-1.5, 6, -1.5), core.NewVec3(3, 0, 0), core.NewVec3(0, 0, 3)))

	return b.finish(lights.NewConstantBackground(core.Splat(0.15)), view{
		width:  640,
		height: 360,
		fov:    40,
		axis:   renderer.FovAxisY,
		eye:    core.NewVec3(0, 3, -8),
		target: core.NewVec3(0, 0.8, 0),
	})
}
