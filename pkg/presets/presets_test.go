package presets

import (
	"context"
	"errors"
	"io/fs"
	"math"
	"testing"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/integrator"
	"github.com/df07/go-mis-raytracer/pkg/renderer"
)

func TestBuild_EveryPresetRenders(t *testing.T) {
	for _, info := range List() {
		if info.ID == "dragon" {
			continue
		}
		t.Run(info.ID, func(t *testing.T) {
			built, err := Build(info.ID, Options{Width: 8, Height: 6, AssetDir: t.TempDir()})
			if err != nil {
				t.Fatalf("Expected preset to build, got %v", err)
			}
			if w, h := built.Camera.Resolution(); w != 8 || h != 6 {
				t.Errorf("Expected the requested 8x6 resolution, got %dx%d", w, h)
			}
			if !built.Scene.HasLights() {
				t.Error("Expected every preset to be lit")
			}

			mis, err := integrator.New("mis", built.Scene, integrator.Options{Depth: 4})
			if err != nil {
				t.Fatal(err)
			}
			config := renderer.Config{SamplesPerPixel: 1, TileSize: 4, NumWorkers: 2, Seed: 42}
			film, _, err := renderer.NewRenderer(built.Camera, mis, config, nil).Render(context.Background())
			if err != nil {
				t.Fatalf("Expected render to succeed, got %v", err)
			}
			lit := 0
			for y := 0; y < film.Height; y++ {
				for x := 0; x < film.Width; x++ {
					c := film.At(x, y)
					if !c.IsFinite() {
						t.Fatalf("Expected finite radiance at (%d,%d), got %v", x, y, c)
					}
					if c.MaxComponent() > 0 {
						lit++
					}
				}
			}
			if lit == 0 {
				t.Error("Expected at least one lit pixel")
			}
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	if _, err := Build("teapot", Options{}); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("Expected ErrUnknownPreset, got %v", err)
	}
	if _, err := Build("dragon", Options{AssetDir: t.TempDir()}); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected a missing dragon asset to be reported, got %v", err)
	}
}

func TestBuild_MeshPreset(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tile.obj", quadOBJ)
	built, err := Build(MeshPrefix+path, Options{})
	if err != nil {
		t.Fatalf("Expected mesh preset to build, got %v", err)
	}
	// mesh, floor and light
	if n := len(built.Scene.Root().Instances()); n != 3 {
		t.Errorf("Expected 3 instances, got %d", n)
	}
	if w, h := built.Camera.Resolution(); w != 640 || h != 480 {
		t.Errorf("Expected the preset resolution 640x480, got %dx%d", w, h)
	}
}

func TestBuild_AttachesChecker(t *testing.T) {
	checker := core.NewChecker(nil, 10)
	built, err := Build("cornell-empty", Options{Width: 4, Height: 4, Checker: checker})
	if err != nil {
		t.Fatal(err)
	}
	for i, instance := range built.Scene.Root().Instances() {
		if instance.Checker != checker {
			t.Errorf("Expected instance %d to carry the checker", i)
		}
	}
}

func TestQuad_MapsRectangle(t *testing.T) {
	corner := core.NewVec3(1, 2, 3)
	u := core.NewVec3(4, 0, 0)
	v := core.NewVec3(0, 0, 2)
	transform, err := core.NewTransform(quad(corner, u, v))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		local    core.Vec3
		expected core.Vec3
	}{
		{core.NewVec3(-1, -1, 0), corner},
		{core.NewVec3(1, -1, 0), corner.Add(u)},
		{core.NewVec3(-1, 1, 0), corner.Add(v)},
		{core.NewVec3(1, 1, 0), corner.Add(u).Add(v)},
	}
	for _, tt := range tests {
		if got := transform.Apply(tt.local); got.Subtract(tt.expected).Length() > 1e-9 {
			t.Errorf("Expected %v to map to %v, got %v", tt.local, tt.expected, got)
		}
	}
	normal := transform.ApplyNormal(core.NewVec3(0, 0, 1)).Normalize()
	expected := u.Cross(v).Normalize()
	if normal.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected normal %v, got %v", expected, normal)
	}
}

func TestOklch(t *testing.T) {
	white := oklch(1, 0, 0)
	if white.Subtract(core.Splat(1)).Length() > 1e-6 {
		t.Errorf("Expected white, got %v", white)
	}
	if black := oklch(0, 0, 0); !black.IsZero() {
		t.Errorf("Expected black, got %v", black)
	}
	red := oklch(0.63, 0.26, 29)
	if red.X < 0.9 || red.Y > 0.2 || red.Z > 0.2 {
		t.Errorf("Expected a saturated red, got %v", red)
	}
}

func TestIcosphere(t *testing.T) {
	tests := []struct {
		subdivisions int
		triangles    int
		vertices     int
	}{
		{0, 20, 12},
		{1, 80, 42},
		{2, 320, 162},
	}
	for _, tt := range tests {
		mesh, err := icosphere(tt.subdivisions, true, nil)
		if err != nil {
			t.Fatal(err)
		}
		if mesh.TriangleCount() != tt.triangles || mesh.VertexCount() != tt.vertices {
			t.Errorf("subdivisions %d: expected %d triangles and %d vertices, got %d and %d",
				tt.subdivisions, tt.triangles, tt.vertices, mesh.TriangleCount(), mesh.VertexCount())
		}
	}

	// The subdivided surface approaches the sphere's area from below
	mesh, _ := icosphere(3, true, nil)
	if area := mesh.Area(); area > 4*math.Pi || area < 0.98*4*math.Pi {
		t.Errorf("Expected an area just below 4pi, got %f", area)
	}
}

func TestSkyGradient(t *testing.T) {
	sky := skyGradient{top: core.NewVec3(0, 0, 1), bottom: core.NewVec3(1, 0, 0)}
	if got := sky.Evaluate(core.NewVec2(0.3, 0)); got.Subtract(sky.top).Length() > 1e-12 {
		t.Errorf("Expected the zenith to be top, got %v", got)
	}
	if got := sky.Evaluate(core.NewVec2(0.3, 1)); got.Subtract(sky.bottom).Length() > 1e-12 {
		t.Errorf("Expected the nadir to be bottom, got %v", got)
	}
}
