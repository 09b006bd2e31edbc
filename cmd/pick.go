package cmd

import (
	"fmt"
	"strings"

	"github.com/achilleasa/go-raytrace/log"
	"github.com/urfave/cli"
)

// Trace the ray passing through a frame pixel and display each step of the
// trace.
func PickPixel(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	defer log.Close()

	if err = applyRenderFlags(ctx, &cfg); err != nil {
		return err
	}

	r, err := setupRenderer(ctx, cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	x, y := ctx.Int("x"), ctx.Int("y")
	res, err := r.Pick(x, y)
	if err != nil {
		return err
	}

	var buf strings.Builder
	for index, step := range res.Steps {
		fmt.Fprintf(&buf, "  %3d: %s\n", index, step)
	}
	logger.Noticef("trace steps for pixel (%d, %d)\n%s", x, y, buf.String())

	if !res.Hit {
		logger.Noticef("pixel (%d, %d) does not hit any primitive; color (%.3f, %.3f, %.3f)", x, y, res.Color[0], res.Color[1], res.Color[2])
		return nil
	}

	logger.Noticef(
		"pixel (%d, %d) hits %q at (%.3f, %.3f, %.3f); normal (%.3f, %.3f, %.3f); uv (%.3f, %.3f); color (%.3f, %.3f, %.3f)",
		x, y, res.Primitive,
		res.Position[0], res.Position[1], res.Position[2],
		res.Normal[0], res.Normal[1], res.Normal[2],
		res.UV[0], res.UV[1],
		res.Color[0], res.Color[1], res.Color[2],
	)
	return nil
}
