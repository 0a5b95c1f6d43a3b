package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "raytracer"
	app.Usage = "render scenes with a multiple importance sampling path tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "debug, vv",
			Usage: "enable debug logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "log level (debug, info, notice, warning, error); overrides LOG_LEVEL",
		},
		cli.StringFlag{
			Name:  "env",
			Value: ".env",
			Usage: "dotenv file with RAYTRACER_* and AWS_* settings",
		},
		cli.BoolFlag{
			Name:  "check",
			Usage: "log violated geometric invariants while rendering",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a preset to an image",
			Description: `Render a built-in preset, or a mesh file given as mesh:<path>, and save
the result. Settings come from the dotenv file and the environment and can be
overridden with flags. When RAYTRACER_S3_BUCKET is set the image and its
thumbnail are uploaded after rendering.`,
			ArgsUsage: "[preset]",
			Flags:     renderFlags(),
			Action:    renderAction,
		},
		{
			Name:  "presets",
			Usage: "list the presets that can be rendered",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "assets",
					Value: "assets",
					Usage: "directory scanned for mesh files",
				},
			},
			Action: presetsAction,
		},
		{
			Name:   "info",
			Usage:  "show the host's CPU and memory",
			Action: infoAction,
		},
	}
	return app
}

func renderFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{Name: "width", Usage: "image width, 0 keeps the preset's"},
		cli.IntFlag{Name: "height", Usage: "image height, 0 keeps the preset's"},
		cli.IntFlag{Name: "spp", Usage: "samples per pixel"},
		cli.IntFlag{Name: "depth", Usage: "maximum number of path vertices"},
		cli.StringFlag{Name: "integrator, i", Usage: "mis, pathtracer, direct or aov"},
		cli.StringFlag{Name: "aov", Usage: "variable shown by the aov integrator (normals, distance, bvh, uv, albedo)"},
		cli.IntFlag{Name: "roulette", Usage: "first bounce Russian roulette may end a path, 0 disables it"},
		cli.Uint64Flag{Name: "seed", Usage: "base random seed"},
		cli.IntFlag{Name: "workers, w", Usage: "render goroutines, 0 uses every logical core"},
		cli.IntFlag{Name: "tile-size", Usage: "tile edge length in pixels"},
		cli.StringFlag{Name: "out, o", Usage: "output image; the extension picks the format"},
		cli.IntFlag{Name: "thumbnail", Usage: "also save a thumbnail this many pixels across"},
		cli.Float64Flag{Name: "exposure", Usage: "exposure adjustment in stops"},
		cli.BoolFlag{Name: "reinhard", Usage: "compress highlights instead of clipping them"},
		cli.StringFlag{Name: "assets", Value: "assets", Usage: "directory with mesh and texture assets"},
	}
}
