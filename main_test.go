package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/df07/go-mis-raytracer/pkg/presets"
)

func runApp(t *testing.T, args ...string) error {
	t.Helper()
	env := filepath.Join(t.TempDir(), "missing.env")
	return newApp().Run(append([]string{"raytracer", "--env", env}, args...))
}

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		width  int
		height int
	}{
		{"mis", []string{"--width", "16", "--height", "12", "--spp", "2"}, 16, 12},
		{"pathtracer", []string{"-i", "pathtracer", "--width", "8", "--height", "8", "--spp", "1", "--depth", "3"}, 8, 8},
		{"aov", []string{"-i", "aov", "--aov", "distance", "--width", "8", "--height", "4", "--spp", "1"}, 8, 4},
		{"roulette", []string{"--roulette", "2", "--width", "8", "--height", "8", "--spp", "1", "--workers", "2"}, 8, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "render.png")
			args := append([]string{"render", "--out", out}, tt.args...)
			if err := runApp(t, append(args, "cornell-empty")...); err != nil {
				t.Fatalf("Expected render to succeed, got %v", err)
			}
			img, err := imaging.Open(out)
			if err != nil {
				t.Fatalf("Expected image at %s, got %v", out, err)
			}
			bounds := img.Bounds()
			if bounds.Dx() != tt.width || bounds.Dy() != tt.height {
				t.Errorf("Expected %dx%d image, got %dx%d", tt.width, tt.height, bounds.Dx(), bounds.Dy())
			}
		})
	}
}

func TestRender_Thumbnail(t *testing.T) {
	out := filepath.Join(t.TempDir(), "render.jpg")
	err := runApp(t, "--check", "render", "--out", out, "--width", "32", "--height", "16",
		"--spp", "1", "--thumbnail", "8", "--exposure", "1", "--reinhard", "cornell-empty")
	if err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}
	thumb, err := imaging.Open(filepath.Join(filepath.Dir(out), "render.thumb.jpg"))
	if err != nil {
		t.Fatalf("Expected thumbnail, got %v", err)
	}
	if thumb.Bounds().Dx() != 8 || thumb.Bounds().Dy() != 4 {
		t.Errorf("Expected 8x4 thumbnail, got %v", thumb.Bounds())
	}
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown preset", []string{"render", "--out", filepath.Join(dir, "a.png"), "no-such-scene"}, presets.ErrUnknownPreset},
		{"missing mesh", []string{"render", "--out", filepath.Join(dir, "b.png"), "mesh:" + filepath.Join(dir, "missing.obj")}, os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runApp(t, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	invalid := [][]string{
		{"render", "-i", "bdpt", "cornell-empty"},
		{"render", "--spp", "0", "cornell-empty"},
		{"render", "--out", filepath.Join(dir, "c.exr"), "cornell-empty"},
		{"--log-level", "loud", "render", "--out", filepath.Join(dir, "d.png"), "--width", "4", "--height", "4", "cornell-empty"},
	}
	for _, args := range invalid {
		if err := runApp(t, args...); err == nil {
			t.Errorf("Expected %v to fail", args)
		}
	}
}

func TestPresetsAndInfo(t *testing.T) {
	assets := t.TempDir()
	mesh := "# Name: Tri\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	if err := os.WriteFile(filepath.Join(assets, "tri.obj"), []byte(mesh), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := runApp(t, "presets", "--assets", assets); err != nil {
		t.Errorf("Expected presets to list, got %v", err)
	}
	if err := runApp(t, "info"); err != nil {
		t.Errorf("Expected info to succeed, got %v", err)
	}
}

func TestDefaultOutput(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
	tests := []struct {
		preset   string
		expected string
	}{
		{"cornell", filepath.Join("output", "cornell", "render_20240309_140506.png")},
		{"mesh:assets/bunny.obj", filepath.Join("output", "mesh_assets_bunny.obj", "render_20240309_140506.png")},
	}
	for _, tt := range tests {
		if got := defaultOutput(tt.preset, now); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
}
