package loaders

import (
	"errors"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/disintegration/imaging"
)

const quadOBJ = `# unit quad in the z=0 plane
v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
f 1/1/1 3/3/1 4/4/1
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadMesh_OBJ(t *testing.T) {
	path := writeFile(t, "quad.obj", quadOBJ)
	mesh, err := LoadMesh(path, MeshOptions{Smooth: true}, nil)
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}
	if mesh.TriangleCount() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.TriangleCount())
	}
	// The two triangles share the diagonal
	if mesh.VertexCount() != 4 {
		t.Errorf("Expected 4 shared vertices, got %d", mesh.VertexCount())
	}

	ray := core.NewRay(core.NewVec3(0.5, -0.25, 3), core.NewVec3(0, 0, -1))
	its := core.NewIntersection(ray.Direction.Negate(), math.Inf(1))
	if !mesh.Intersect(ray, &its, nil) {
		t.Fatal("Expected ray to hit the quad")
	}
	if math.Abs(its.T-3) > 1e-9 {
		t.Errorf("Expected t=3, got %f", its.T)
	}
	if math.Abs(its.UV.X-0.75) > 1e-9 || math.Abs(its.UV.Y-0.375) > 1e-9 {
		t.Errorf("Expected uv (0.75, 0.375), got %v", its.UV)
	}
}

func TestLoadMesh_Errors(t *testing.T) {
	if _, err := LoadMesh("model.fbx", MeshOptions{}, nil); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := LoadMesh(filepath.Join(t.TempDir(), "missing.obj"), MeshOptions{}, nil); err == nil {
		t.Error("Expected error for a missing file")
	}
	empty := writeFile(t, "empty.obj", "# nothing here\n")
	if _, err := LoadMesh(empty, MeshOptions{}, nil); err == nil {
		t.Error("Expected error for a mesh without triangles")
	}
}

func TestLoadTexture(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.NRGBA{R: 255, A: 255})
	img.Set(0, 1, color.NRGBA{G: 255, A: 255})
	img.Set(1, 1, color.NRGBA{B: 128, A: 255})
	path := filepath.Join(t.TempDir(), "test.png")
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("Failed to save test image: %v", err)
	}

	tests := []struct {
		name      string
		linearize bool
		wantBlue  float64
	}{
		{"raw", false, 128.0 / 255},
		{"linearized", true, math.Pow((128.0/255+0.055)/1.055, 2.4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			texture, err := LoadTexture(path, tt.linearize)
			if err != nil {
				t.Fatalf("LoadTexture failed: %v", err)
			}
			if texture.Width != 2 || texture.Height != 2 {
				t.Fatalf("Expected 2x2 texture, got %dx%d", texture.Width, texture.Height)
			}
			if texture.Pixels[1] != core.NewVec3(1, 0, 0) {
				t.Errorf("Expected red top-right texel, got %v", texture.Pixels[1])
			}
			if got := texture.Pixels[3].Z; math.Abs(got-tt.wantBlue) > 1e-3 {
				t.Errorf("Expected blue %f, got %f", tt.wantBlue, got)
			}
		})
	}

	if _, err := LoadTexture("texture.exr", false); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := LoadTexture(filepath.Join(t.TempDir(), "missing.png"), false); err == nil {
		t.Error("Expected error for a missing file")
	}
}
