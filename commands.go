package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-mis-raytracer/pkg/config"
	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/integrator"
	"github.com/df07/go-mis-raytracer/pkg/log"
	"github.com/df07/go-mis-raytracer/pkg/output"
	"github.com/df07/go-mis-raytracer/pkg/presets"
	"github.com/df07/go-mis-raytracer/pkg/renderer"
	"github.com/df07/go-mis-raytracer/pkg/sysinfo"
)

// checkerLimit caps the invariant warnings printed per render
const checkerLimit = 20

var logger = log.New("raytracer")

// setupLogging applies, in increasing priority, LOG_LEVEL, --log-level,
// and the -v/-vv switches
func setupLogging(ctx *cli.Context, configured string) error {
	name := configured
	if ctx.GlobalIsSet("log-level") {
		name = ctx.GlobalString("log-level")
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return err
	}
	switch {
	case ctx.GlobalBool("debug"):
		level = log.Debug
	case ctx.GlobalBool("verbose"):
		level = log.Info
	}
	log.SetLevel(level)
	return nil
}

// loadConfig reads the dotenv file and environment, then applies the flags
// the user set explicitly
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg, err := config.Load(ctx.GlobalString("env"))
	if err != nil {
		return cfg, err
	}
	if ctx.NArg() > 0 {
		cfg.Preset = ctx.Args().First()
	}
	if ctx.IsSet("width") {
		cfg.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		cfg.Height = ctx.Int("height")
	}
	if ctx.IsSet("spp") {
		cfg.SamplesPerPixel = ctx.Int("spp")
	}
	if ctx.IsSet("depth") {
		cfg.Depth = ctx.Int("depth")
	}
	if ctx.IsSet("integrator") {
		cfg.Integrator = ctx.String("integrator")
	}
	if ctx.IsSet("aov") {
		cfg.AOV = ctx.String("aov")
	}
	if ctx.IsSet("roulette") {
		cfg.RouletteBounces = ctx.Int("roulette")
	}
	if ctx.IsSet("seed") {
		cfg.Seed = ctx.Uint64("seed")
	}
	if ctx.IsSet("workers") {
		cfg.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("tile-size") {
		cfg.TileSize = ctx.Int("tile-size")
	}
	if ctx.IsSet("out") {
		cfg.Output = ctx.String("out")
	}
	if ctx.IsSet("thumbnail") {
		cfg.Thumbnail = ctx.Int("thumbnail")
	}
	if ctx.IsSet("exposure") {
		cfg.Exposure = ctx.Float64("exposure")
	}
	if cfg.Workers == 0 {
		cfg.Workers = sysinfo.LogicalCores()
	}
	return cfg, cfg.Validate()
}

// defaultOutput is output/<preset>/render_<timestamp>.png
func defaultOutput(preset string, now time.Time) string {
	name := strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(preset)
	return filepath.Join("output", name, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

func renderAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := setupLogging(ctx, cfg.LogLevel); err != nil {
		return err
	}
	if cfg.Output == "" {
		cfg.Output = defaultOutput(cfg.Preset, time.Now())
	}

	opts := presets.Options{
		Width:    cfg.Width,
		Height:   cfg.Height,
		AssetDir: ctx.String("assets"),
		Logger:   log.Printer(logger),
	}
	var checker *core.Checker
	if ctx.GlobalBool("check") {
		checker = core.NewChecker(log.Warner(logger), checkerLimit)
		opts.Checker = checker
	}

	built, err := presets.Build(cfg.Preset, opts)
	if err != nil {
		return err
	}
	integ, err := integrator.New(cfg.Integrator, built.Scene, cfg.IntegratorOptions())
	if err != nil {
		return err
	}
	logger.Noticef("rendering %s with the %s integrator", cfg.Preset, cfg.Integrator)

	r := renderer.NewRenderer(built.Camera, integ, cfg.RenderConfig(), log.Printer(logger))
	r.OnTile(func(p renderer.Progress) {
		logger.Debugf("tile %d/%d done", p.TileNumber, p.TotalTiles)
	})

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	film, report, renderErr := r.Render(signalCtx)
	if renderErr != nil && film == nil {
		return renderErr
	}
	if renderErr != nil {
		logger.Warningf("render interrupted, saving the partial image")
	} else {
		fmt.Print(report.Table())
	}

	if err := writeOutputs(cfg, film, ctx.Bool("reinhard")); err != nil {
		return err
	}
	if checker != nil {
		if n := checker.Violations(); n > 0 {
			logger.Warningf("%d invariant violations during render", n)
		} else {
			logger.Noticef("no invariant violations")
		}
	}
	return renderErr
}

// writeOutputs saves the image and thumbnail and publishes them when a
// bucket is configured
func writeOutputs(cfg config.Config, film *renderer.Film, reinhard bool) error {
	img := output.ToImage(film, output.ToneMap{Exposure: cfg.Exposure, Reinhard: reinhard})
	if dir := filepath.Dir(cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := output.Save(img, cfg.Output); err != nil {
		return err
	}
	logger.Noticef("saved %s", cfg.Output)

	images := map[string]image.Image{cfg.Output: img}
	if cfg.Thumbnail > 0 {
		path := output.ThumbnailPath(cfg.Output)
		thumb := output.Thumbnail(img, cfg.Thumbnail)
		if err := output.Save(thumb, path); err != nil {
			return err
		}
		logger.Infof("saved thumbnail %s", path)
		images[path] = thumb
	}

	if !cfg.Publishing() {
		return nil
	}
	publisher, err := output.NewPublisher(cfg.S3, log.Printer(logger))
	if err != nil {
		return err
	}
	for path, img := range images {
		data, contentType, err := output.Encode(img, filepath.Ext(path))
		if err != nil {
			return err
		}
		url, err := publisher.Publish(context.Background(), filepath.Base(path), data, contentType)
		if err != nil {
			return err
		}
		logger.Noticef("published %s", url)
	}
	return nil
}

func presetsAction(ctx *cli.Context) error {
	groups, err := presets.ListAll(ctx.String("assets"))
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Group", "Preset", "Description"})
	table.SetAutoWrapText(false)
	for _, group := range groups {
		for _, info := range group.Presets {
			table.Append([]string{group.Name, info.ID, info.Description})
		}
	}
	table.Render()
	return nil
}

func infoAction(ctx *cli.Context) error {
	info, err := sysinfo.Collect()
	if err != nil {
		// the runtime fields are still filled in
		logger.Warningf("%v", err)
	}
	fmt.Print(info.Table())
	return nil
}
