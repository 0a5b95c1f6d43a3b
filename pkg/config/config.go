// Package config gathers render settings from .env files and the
// environment. Command line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-mis-raytracer/pkg/integrator"
	"github.com/df07/go-mis-raytracer/pkg/output"
	"github.com/df07/go-mis-raytracer/pkg/renderer"
	"github.com/df07/go-mis-raytracer/pkg/sysinfo"
	"github.com/disintegration/imaging"
	"github.com/joho/godotenv"
)

// ErrInvalid wraps every validation and parse failure
var ErrInvalid = errors.New("invalid config")

// Prefix of the renderer's environment variables
const Prefix = "RAYTRACER_"

// DefaultDepth is the path length of command line renders
const DefaultDepth = 8

// Config holds everything a render run needs
type Config struct {
	Preset          string
	Width           int // 0 keeps the preset's resolution
	Height          int
	SamplesPerPixel int
	Depth           int
	Integrator      string
	AOV             string // variable shown by the aov integrator
	RouletteBounces int    // first bounce Russian roulette may end, 0 disables it
	Seed            uint64
	Workers         int
	TileSize        int
	Output          string
	Thumbnail       int // longest side of the preview, 0 disables it
	Exposure        float64
	LogLevel        string
	S3              output.PublisherConfig
}

// Default returns the settings used when nothing else is given
func Default() Config {
	render := renderer.DefaultConfig()
	return Config{
		Preset:          "cornell",
		SamplesPerPixel: render.SamplesPerPixel,
		Depth:           DefaultDepth,
		Integrator:      integrator.Names[0],
		AOV:             integrator.AOVNormals.String(),
		Seed:            render.Seed,
		Workers:         sysinfo.LogicalCores(),
		TileSize:        render.TileSize,
		Output:          "", // output/<preset>/render_<timestamp>.png
		LogLevel:        "notice",
	}
}

// source looks keys up in the environment first, then in .env values
type source struct {
	dotenv map[string]string
}

func (s source) lookup(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	v, ok := s.dotenv[key]
	return v, ok
}

// Load starts from Default and applies the given .env files, then the
// environment. Missing files are skipped; the environment wins over files
// and earlier files win over later ones.
func Load(paths ...string) (Config, error) {
	src := source{dotenv: map[string]string{}}
	for i := len(paths) - 1; i >= 0; i-- {
		if _, err := os.Stat(paths[i]); errors.Is(err, os.ErrNotExist) {
			continue
		}
		values, err := godotenv.Read(paths[i])
		if err != nil {
			return Config{}, fmt.Errorf("failed to read %s: %w", paths[i], err)
		}
		for k, v := range values {
			src.dotenv[k] = v
		}
	}

	cfg := Default()
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := src.lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	integer := func(key string, dst *int) {
		v, ok := src.lookup(key)
		if !ok {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, key, v))
			return
		}
		*dst = n
	}

	str(Prefix+"PRESET", &cfg.Preset)
	integer(Prefix+"WIDTH", &cfg.Width)
	integer(Prefix+"HEIGHT", &cfg.Height)
	integer(Prefix+"SPP", &cfg.SamplesPerPixel)
	integer(Prefix+"DEPTH", &cfg.Depth)
	str(Prefix+"INTEGRATOR", &cfg.Integrator)
	str(Prefix+"AOV", &cfg.AOV)
	integer(Prefix+"ROULETTE", &cfg.RouletteBounces)
	integer(Prefix+"WORKERS", &cfg.Workers)
	integer(Prefix+"TILE_SIZE", &cfg.TileSize)
	str(Prefix+"OUTPUT", &cfg.Output)
	integer(Prefix+"THUMBNAIL", &cfg.Thumbnail)
	str("LOG_LEVEL", &cfg.LogLevel)

	if v, ok := src.lookup(Prefix + "SEED"); ok {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %sSEED=%q is not an unsigned integer", ErrInvalid, Prefix, v))
		} else {
			cfg.Seed = seed
		}
	}
	if v, ok := src.lookup(Prefix + "EXPOSURE"); ok {
		exposure, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %sEXPOSURE=%q is not a number", ErrInvalid, Prefix, v))
		} else {
			cfg.Exposure = exposure
		}
	}

	str(Prefix+"S3_BUCKET", &cfg.S3.Bucket)
	str(Prefix+"S3_PREFIX", &cfg.S3.Prefix)
	str(Prefix+"S3_PUBLIC_URL", &cfg.S3.PublicURL)
	str("AWS_ENDPOINT", &cfg.S3.Endpoint)
	str("AWS_REGION", &cfg.S3.Region)
	str("AWS_ACCESS_KEY_ID", &cfg.S3.AccessKey)
	str("AWS_SECRET_ACCESS_KEY", &cfg.S3.SecretKey)

	if len(errs) > 0 {
		return cfg, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate checks ranges and names
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, args...)...))
		}
	}
	check(c.Width >= 0 && c.Height >= 0, "resolution %dx%d must not be negative", c.Width, c.Height)
	check(c.SamplesPerPixel > 0, "samples per pixel %d must be positive", c.SamplesPerPixel)
	check(c.Depth >= 0, "depth %d must not be negative", c.Depth)
	check(c.RouletteBounces >= 0, "roulette bounce %d must not be negative", c.RouletteBounces)
	check(c.Workers >= 0, "workers %d must not be negative", c.Workers)
	check(c.TileSize >= 0, "tile size %d must not be negative", c.TileSize)
	check(c.Thumbnail >= 0, "thumbnail size %d must not be negative", c.Thumbnail)

	known := false
	for _, name := range integrator.Names {
		if strings.EqualFold(name, c.Integrator) {
			known = true
		}
	}
	check(known || c.Integrator == "", "unknown integrator %q (known: %s)", c.Integrator, strings.Join(integrator.Names, ", "))

	if strings.EqualFold(c.Integrator, "aov") {
		_, err := integrator.ParseVariable(c.AOV)
		check(err == nil, "unknown AOV variable %q", c.AOV)
	}

	if c.Output != "" {
		_, err := imaging.FormatFromFilename(c.Output)
		check(err == nil, "output %q has no supported image extension", c.Output)
	}
	return errors.Join(errs...)
}

// RenderConfig returns the renderer settings
func (c Config) RenderConfig() renderer.Config {
	return renderer.Config{
		SamplesPerPixel: c.SamplesPerPixel,
		TileSize:        c.TileSize,
		NumWorkers:      c.Workers,
		Seed:            c.Seed,
	}
}

// IntegratorOptions returns the options passed to integrator.New. Call
// Validate first; an unknown AOV variable falls back to normals.
func (c Config) IntegratorOptions() integrator.Options {
	aov, _ := integrator.ParseVariable(c.AOV)
	return integrator.Options{
		Depth:           c.Depth,
		RussianRoulette: integrator.RussianRoulette{MinBounces: c.RouletteBounces},
		AOV:             aov,
	}
}

// Publishing reports whether renders should be uploaded
func (c Config) Publishing() bool {
	return c.S3.Bucket != ""
}
