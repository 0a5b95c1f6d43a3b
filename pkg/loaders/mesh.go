package loaders

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/geometry"
	"github.com/fogleman/fauxgl"
)

// MeshOptions controls how a mesh file becomes a TriangleMesh
type MeshOptions struct {
	// Smooth interpolates vertex normals; it has no effect on files
	// without normals
	Smooth bool
	// FlipV turns OBJ style texture coordinates (V=0 at the top) the
	// other way up
	FlipV bool
}

// LoadMesh loads an OBJ, STL or PLY file
func LoadMesh(filename string, opts MeshOptions, logger core.Logger) (*geometry.TriangleMesh, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	start := time.Now()

	var mesh *fauxgl.Mesh
	var err error
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".obj":
		mesh, err = fauxgl.LoadOBJ(filename)
	case ".stl":
		mesh, err = fauxgl.LoadSTL(filename)
	case ".ply":
		mesh, err = fauxgl.LoadPLY(filename)
	default:
		return nil, fmt.Errorf("mesh %s: %w %q", filename, ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load mesh %s: %w", filename, err)
	}

	result, err := MeshFromFauxgl(mesh, opts, logger)
	if err != nil {
		return nil, fmt.Errorf("mesh %s: %w", filename, err)
	}
	logger.Printf("loaded %s: %d vertices, %d triangles in %v",
		filepath.Base(filename), result.VertexCount(), result.TriangleCount(), time.Since(start).Round(time.Millisecond))
	return result, nil
}

// MeshFromFauxgl converts fauxgl's triangle soup into an indexed mesh.
// Vertices that agree in position, normal and uv are shared.
func MeshFromFauxgl(mesh *fauxgl.Mesh, opts MeshOptions, logger core.Logger) (*geometry.TriangleMesh, error) {
	index := make(map[geometry.Vertex]int)
	var vertices []geometry.Vertex
	triangles := make([][3]int, 0, len(mesh.Triangles))
	hasNormals := false

	add := func(v fauxgl.Vertex) int {
		vertex := geometry.Vertex{
			Position: core.NewVec3(v.Position.X, v.Position.Y, v.Position.Z),
			Normal:   core.NewVec3(v.Normal.X, v.Normal.Y, v.Normal.Z),
			UV:       core.NewVec2(v.Texture.X, v.Texture.Y),
		}
		if opts.FlipV {
			vertex.UV.Y = 1 - vertex.UV.Y
		}
		if !vertex.Normal.IsZero() {
			hasNormals = true
		}
		if i, ok := index[vertex]; ok {
			return i
		}
		index[vertex] = len(vertices)
		vertices = append(vertices, vertex)
		return len(vertices) - 1
	}

	for _, t := range mesh.Triangles {
		if t == nil {
			continue
		}
		triangles = append(triangles, [3]int{add(t.V1), add(t.V2), add(t.V3)})
	}
	if len(triangles) == 0 {
		return nil, fmt.Errorf("mesh has no triangles")
	}
	return geometry.NewTriangleMesh(vertices, triangles, opts.Smooth && hasNormals, logger)
}
