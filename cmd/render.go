package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/achilleasa/go-raytrace/asset/frame"
	"github.com/achilleasa/go-raytrace/asset/scene/reader"
	"github.com/achilleasa/go-raytrace/config"
	"github.com/achilleasa/go-raytrace/log"
	"github.com/achilleasa/go-raytrace/renderer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formats counters with digit grouping.
var printer = message.NewPrinter(language.English)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
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

	// Abort the render on SIGINT/SIGTERM
	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Noticef("rendering %dx%d frame (AA%d, %d bounces, %d threads)", cfg.Render.Width, cfg.Render.Height, cfg.Render.AntiAliasing, cfg.Render.MaxBounces, cfg.Render.Threads)
	img, err := r.Render(renderCtx)
	if err != nil {
		return err
	}

	imgFile := cfg.Render.Output
	if imgFile == "" {
		imgFile = frame.DefaultFilename(time.Now())
	}

	start := time.Now()
	if err = frame.Write(imgFile, img); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1e6)

	displayFrameStats(r.Stats())
	return nil
}

// Override configured render settings with any explicitly set flags.
func applyRenderFlags(ctx *cli.Context, cfg *config.Config) error {
	if ctx.IsSet("width") {
		cfg.Render.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		cfg.Render.Height = ctx.Int("height")
	}
	if ctx.IsSet("bounces") {
		bounces := ctx.Int("bounces")
		if bounces < 0 || bounces > 255 {
			return fmt.Errorf("bounce count must be in the [0, 255] range; got %d", bounces)
		}
		cfg.Render.MaxBounces = uint8(bounces)
	}
	if ctx.IsSet("threads") {
		cfg.Render.Threads = ctx.Int("threads")
	}
	if ctx.IsSet("aa") {
		cfg.Render.AntiAliasing = ctx.Int("aa")
	}
	if ctx.IsSet("out") {
		cfg.Render.Output = ctx.String("out")
	}

	return cfg.Validate()
}

// Load the scene passed as the command argument and create a renderer for it.
func setupRenderer(ctx *cli.Context, cfg config.Config) (renderer.Renderer, error) {
	if ctx.NArg() != 1 {
		return nil, errors.New("missing scene file argument")
	}

	start := time.Now()
	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return nil, err
	}
	logger.Infof("loaded scene in %d ms", time.Since(start).Nanoseconds()/1e6)

	return renderer.NewDefault(sc, renderer.Options{
		FrameW:          uint32(cfg.Render.Width),
		FrameH:          uint32(cfg.Render.Height),
		NumBounces:      cfg.Render.MaxBounces,
		SamplesPerPixel: uint32(cfg.Render.AntiAliasing),
		Threads:         cfg.Render.Threads,
	})
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Tiles", "% of frame", "Render time"})
	for _, stat := range stats.Workers {
		table.Append([]string{
			stat.Id,
			printer.Sprintf("%d", stat.Tiles),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", printer.Sprintf("%d", stats.Tiles), "TOTAL", stats.RenderTime.String()})
	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())

	buf.Reset()
	table = tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetHeader([]string{"Ray type", "Count"})
	table.Append([]string{"Primary", printer.Sprintf("%d", stats.Rays.Primary)})
	table.Append([]string{"Reflected", printer.Sprintf("%d", stats.Rays.Reflected)})
	table.Append([]string{"Refracted", printer.Sprintf("%d", stats.Rays.Refracted)})
	table.Append([]string{"Shadow", printer.Sprintf("%d", stats.Rays.Shadow)})
	table.SetFooter([]string{"TOTAL", printer.Sprintf("%d", stats.Rays.Total())})
	table.Render()
	logger.Noticef("ray statistics\n%s", buf.String())
}
