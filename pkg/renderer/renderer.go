// Package renderer drives an integrator over the pixels of a camera image
// with a pool of tile workers.
package renderer

import (
	"context"
	"fmt"
	"runtime"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/integrator"
	"github.com/df07/go-mis-raytracer/pkg/stats"
)

// Config contains configuration for a render
type Config struct {
	SamplesPerPixel int
	TileSize        int    // Size of each tile (32x32 recommended)
	NumWorkers      int    // Number of parallel workers (0 = use CPU count)
	Seed            uint64 // Base seed of every pixel sample stream
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		SamplesPerPixel: 64,
		TileSize:        32,
		NumWorkers:      0,
		Seed:            42,
	}
}

// Progress is reported after each finished tile
type Progress struct {
	TileNumber int // tiles finished so far, 1-based
	TotalTiles int
	Tile       Tile
}

// Renderer renders one image. The scene behind the integrator is read
// only, so a Renderer can be reused for several renders.
type Renderer struct {
	camera     *Camera
	integrator integrator.Integrator
	config     Config
	logger     core.Logger
	onTile     func(Progress)
}

// NewRenderer creates a renderer
func NewRenderer(camera *Camera, integrator integrator.Integrator, config Config, logger core.Logger) *Renderer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	if config.SamplesPerPixel <= 0 {
		config.SamplesPerPixel = 1
	}
	if config.TileSize <= 0 {
		config.TileSize = DefaultConfig().TileSize
	}
	if config.NumWorkers <= 0 {
		config.NumWorkers = runtime.NumCPU()
	}
	return &Renderer{camera: camera, integrator: integrator, config: config, logger: logger}
}

// OnTile registers a callback run on the caller's goroutine after each tile
func (r *Renderer) OnTile(fn func(Progress)) {
	r.onTile = fn
}

// Render renders the image. Cancellation is checked between tiles: on
// cancel the partially rendered film is returned with ctx's error.
func (r *Renderer) Render(ctx context.Context) (*Film, stats.Report, error) {
	width, height := r.camera.Resolution()
	film := NewFilm(width, height)
	tiles := NewTileGrid(width, height, r.config.TileSize)
	collector := stats.NewCollector()

	workers := min(r.config.NumWorkers, max(1, len(tiles)))
	pool := NewWorkerPool(func(tile Tile, sampler *core.RandomSampler, rec *stats.Recorder) {
		r.renderTile(film, tile, sampler, rec)
	}, workers, len(tiles), r.config.Seed, collector)

	r.logger.Printf("rendering %dx%d at %d spp: %d tiles on %d workers",
		width, height, r.config.SamplesPerPixel, len(tiles), pool.NumWorkers())

	pool.Start(ctx)
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i})
	}

	var renderErr error
	for i := range tiles {
		result := <-pool.Results()
		if result.Error != nil {
			if renderErr == nil {
				renderErr = result.Error
			}
			continue
		}
		if r.onTile != nil {
			r.onTile(Progress{TileNumber: i + 1, TotalTiles: len(tiles), Tile: tiles[result.TaskID]})
		}
	}
	pool.Stop()

	report := collector.Report()
	report.RelativeError = film.MeanRelativeError()
	if renderErr != nil {
		return film, report, fmt.Errorf("render cancelled: %w", renderErr)
	}
	if n := report.Count(stats.NonFiniteSamples); n > 0 {
		r.logger.Printf("dropped %d non-finite samples", n)
	}
	r.logger.Printf("render finished in %v, mean relative error %.4f", report.Elapsed, report.RelativeError)
	return film, report, nil
}

// renderTile takes every sample of the tile's pixels. The sampler is
// reseeded per (pixel, sample) so the image does not depend on the tile
// schedule.
func (r *Renderer) renderTile(film *Film, tile Tile, sampler *core.RandomSampler, rec *stats.Recorder) {
	width := film.Width
	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			pixel := film.Pixel(x, y)
			index := uint64(y*width + x)
			for s := 0; s < r.config.SamplesPerPixel; s++ {
				sampler.Seed(index, uint64(s))
				ray := r.camera.PixelRay(x, y, sampler.Get2D())
				if !pixel.AddSample(r.integrator.Li(ray, sampler, rec)) {
					rec.Add(stats.NonFiniteSamples, 1)
				}
			}
			rec.Add(stats.Samples, r.config.SamplesPerPixel)
		}
	}
}
