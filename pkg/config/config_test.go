package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var keys = []string{
	"RAYTRACER_PRESET", "RAYTRACER_WIDTH", "RAYTRACER_HEIGHT", "RAYTRACER_SPP",
	"RAYTRACER_DEPTH", "RAYTRACER_INTEGRATOR", "RAYTRACER_AOV", "RAYTRACER_ROULETTE",
	"RAYTRACER_SEED", "RAYTRACER_WORKERS", "RAYTRACER_TILE_SIZE", "RAYTRACER_OUTPUT",
	"RAYTRACER_THUMBNAIL", "RAYTRACER_EXPOSURE", "LOG_LEVEL",
	"RAYTRACER_S3_BUCKET", "RAYTRACER_S3_PREFIX", "RAYTRACER_S3_PUBLIC_URL",
	"AWS_ENDPOINT", "AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
}

// clearEnv unsets every key Load reads for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeEnv(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Expected missing files to be skipped, got %v", err)
	}
	expected := Default()
	if cfg != expected {
		t.Errorf("Expected defaults %+v, got %+v", expected, cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
	if cfg.Publishing() {
		t.Error("Expected publishing to be off without a bucket")
	}
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	local := writeEnv(t, "local.env", "RAYTRACER_WIDTH=640\nRAYTRACER_SPP=16\n")
	shared := writeEnv(t, "shared.env", "RAYTRACER_WIDTH=320\nRAYTRACER_HEIGHT=240\nRAYTRACER_SPP=4\nRAYTRACER_S3_BUCKET=renders\n")
	t.Setenv("RAYTRACER_SPP", "128")
	t.Setenv("AWS_REGION", "eu-west-1")

	cfg, err := Load(local, shared)
	if err != nil {
		t.Fatalf("Expected load to succeed, got %v", err)
	}
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"earlier file wins", cfg.Width, 640},
		{"later file fills gaps", cfg.Height, 240},
		{"environment wins over files", cfg.SamplesPerPixel, 128},
		{"default survives", cfg.Preset, "cornell"},
		{"bucket from file", cfg.S3.Bucket, "renders"},
		{"region from environment", cfg.S3.Region, "eu-west-1"},
	}
	for _, tt := range tests {
		if tt.got != tt.expected {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, tt.got)
		}
	}
	if !cfg.Publishing() {
		t.Error("Expected publishing with a bucket set")
	}
	if _, ok := os.LookupEnv("RAYTRACER_HEIGHT"); ok {
		t.Error("Expected .env values to stay out of the process environment")
	}
}

func TestLoad_ParseErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAYTRACER_WIDTH", "wide")
	t.Setenv("RAYTRACER_SEED", "-1")
	t.Setenv("RAYTRACER_EXPOSURE", "bright")

	_, err := Load()
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Expected ErrInvalid, got %v", err)
	}
	for _, key := range []string{"RAYTRACER_WIDTH", "RAYTRACER_SEED", "RAYTRACER_EXPOSURE"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("Expected error to name %s, got %v", key, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"preset width", func(c *Config) { c.Width = 0 }, false},
		{"negative height", func(c *Config) { c.Height = -1 }, true},
		{"no samples", func(c *Config) { c.SamplesPerPixel = 0 }, true},
		{"negative depth", func(c *Config) { c.Depth = -1 }, true},
		{"negative workers", func(c *Config) { c.Workers = -2 }, true},
		{"negative roulette", func(c *Config) { c.RouletteBounces = -1 }, true},
		{"integrator case", func(c *Config) { c.Integrator = "PathTracer" }, false},
		{"unknown integrator", func(c *Config) { c.Integrator = "bdpt" }, true},
		{"aov variable", func(c *Config) { c.Integrator = "aov"; c.AOV = "distance" }, false},
		{"unknown aov variable", func(c *Config) { c.Integrator = "aov"; c.AOV = "depth" }, true},
		{"jpeg output", func(c *Config) { c.Output = "out.jpg" }, false},
		{"unknown output", func(c *Config) { c.Output = "out.exr" }, true},
		{"no output", func(c *Config) { c.Output = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("Expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestConfig_Conversions(t *testing.T) {
	cfg := Default()
	cfg.SamplesPerPixel = 9
	cfg.Workers = 3
	cfg.Seed = 7
	cfg.Depth = 5
	cfg.RouletteBounces = 3
	cfg.AOV = "uv"

	render := cfg.RenderConfig()
	if render.SamplesPerPixel != 9 || render.NumWorkers != 3 || render.Seed != 7 || render.TileSize != cfg.TileSize {
		t.Errorf("Expected render settings to be copied, got %+v", render)
	}
	opts := cfg.IntegratorOptions()
	if opts.Depth != 5 || opts.RussianRoulette.MinBounces != 3 || opts.AOV.String() != "uv" {
		t.Errorf("Expected integrator options to be copied, got %+v", opts)
	}
}
