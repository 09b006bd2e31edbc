package main

import (
	"os"

	"github.com/achilleasa/go-raytrace/cmd"
	"github.com/achilleasa/go-raytrace/log"
	"github.com/urfave/cli"
)

var logger = log.New("raytrace")

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	frameFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: 640,
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 480,
			Usage: "frame height",
		},
		cli.IntFlag{
			Name:  "bounces",
			Value: 4,
			Usage: "max number of reflection and refraction bounces",
		},
		cli.IntFlag{
			Name:  "threads",
			Usage: "number of render threads (defaults to the number of CPUs)",
		},
		cli.IntFlag{
			Name:  "aa",
			Value: 1,
			Usage: "samples per pixel (1, 2, 4, 8 or 16)",
		},
	}

	app := cli.NewApp()
	app.Name = "go-raytrace"
	app.Usage = "render scenes using BVH-accelerated ray tracing"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load settings from a YAML config file",
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "mirror log output to a rotating log file",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Load a scene from a wavefront obj or YAML file, build a BVH for its
primitives and render a single frame.

Flags override the values loaded from the config file. The render can be
aborted with ctrl+c.`,
			ArgsUsage: "scene_file",
			Flags: append(frameFlags,
				cli.StringFlag{
					Name:  "out, o",
					Usage: "image filename for the rendered frame (png, jpg, bmp or tiff); defaults to a timestamped png file",
				},
			),
			Action: cmd.RenderFrame,
		},
		{
			Name:      "pick",
			Usage:     "trace the ray passing through a frame pixel and display the trace steps",
			ArgsUsage: "scene_file",
			Flags: append(frameFlags,
				cli.IntFlag{
					Name:  "x",
					Usage: "pixel x coordinate",
				},
				cli.IntFlag{
					Name:  "y",
					Usage: "pixel y coordinate",
				},
			),
			Action: cmd.PickPixel,
		},
		{
			Name:      "scene",
			Usage:     "display scene and BVH statistics",
			ArgsUsage: "scene_file",
			Action:    cmd.ShowSceneInfo,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error(err.Error())
		log.Close()
		os.Exit(1)
	}
}
