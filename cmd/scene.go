package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/achilleasa/go-raytrace/asset/scene/reader"
	"github.com/achilleasa/go-raytrace/bvh"
	"github.com/achilleasa/go-raytrace/log"
	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/scene/shape"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Display scene info together with the BVH statistics for the scene and
// any meshes it contains.
func ShowSceneInfo(ctx *cli.Context) error {
	if _, err := setup(ctx); err != nil {
		return err
	}
	defer log.Close()

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	var tree *bvh.Tree
	sc.Compile(func(items []scene.Primitive) scene.Accelerator {
		tree = bvh.Build(items)
		return tree
	})
	logger.Noticef("scene information:\n%s", sc.Stats())

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetHeader([]string{"BVH", "Items", "Nodes", "Leafs", "Max depth", "Build time"})
	table.Append(treeStatsRow("scene", tree.Stats()))
	for _, prim := range sc.Primitives {
		if mesh, isMesh := prim.(*shape.Mesh); isMesh {
			table.Append(treeStatsRow(mesh.Name(), mesh.TreeStats()))
		}
	}
	table.Render()
	logger.Noticef("BVH statistics:\n%s", buf.String())

	return nil
}

func treeStatsRow(name string, stats bvh.Stats) []string {
	return []string{
		name,
		printer.Sprintf("%d", stats.Items),
		printer.Sprintf("%d", stats.Nodes),
		printer.Sprintf("%d", stats.Leafs),
		fmt.Sprint(stats.MaxDepth),
		stats.BuildTime.Round(time.Microsecond).String(),
	}
}
