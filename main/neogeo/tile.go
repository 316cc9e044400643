package main

import (
	"github.com/machbase/neo-geo/mods/geo"
	"github.com/machbase/neo-geo/mods/geo/crs"
	"github.com/machbase/neo-geo/mods/geo/tiles"
	"github.com/spf13/cobra"
)

func newTileCmd() *cobra.Command {
	tileCmd := &cobra.Command{
		Use:   "tile [command]",
		Short: "Web mercator tile pyramid",
	}
	coverCmd := &cobra.Command{
		Use:   "cover [flags] <west> <east> <south> <north>",
		Short: "List the tiles intersecting an extent",
		Args:  cobra.ExactArgs(4),
		RunE:  doTileCover,
	}
	coverCmd.Flags().String("crs", crs.WGS84, "`<code>` of the extent")
	coverCmd.Flags().IntP("zoom", "z", 0, "zoom level")

	extentCmd := &cobra.Command{
		Use:   "extent <z/x/y>",
		Short: "Show the extent of a tile",
		Args:  cobra.ExactArgs(1),
		RunE:  doTileExtent,
	}
	extentCmd.Flags().String("parent", "", "`<z/x/y>` of an ancestor to compute texture offsets for")
	tileCmd.AddCommand(coverCmd, extentCmd)
	return tileCmd
}

func doTileCover(cmd *cobra.Command, args []string) error {
	v, err := parseFloats(args)
	if err != nil {
		return err
	}
	code, _ := cmd.Flags().GetString("crs")
	zoom, _ := cmd.Flags().GetInt("zoom")
	ext, err := geo.NewExtent(code, v[0], v[1], v[2], v[3])
	if err != nil {
		return err
	}
	list, err := tiles.Cover(ext, zoom)
	if err != nil {
		return err
	}
	box := newBox(cmd, "TILE", "Z", "X", "Y", "QUADKEY")
	for _, t := range list {
		box.AppendRow(t.String(), t.Z, t.X, t.Y, t.Quadkey())
	}
	return box.Render()
}

func doTileExtent(cmd *cobra.Command, args []string) error {
	t, err := tiles.ParseTile(args[0])
	if err != nil {
		return err
	}
	ext := t.Extent()
	wgs, err := ext.ReprojectTo(crs.WGS84, nil)
	if err != nil {
		return err
	}
	box := newBox(cmd, "CRS", "WEST", "EAST", "SOUTH", "NORTH")
	appendExtentRow(box, ext)
	appendExtentRow(box, wgs)
	if err := box.Render(); err != nil {
		return err
	}

	parent, _ := cmd.Flags().GetString("parent")
	if parent == "" {
		return nil
	}
	p, err := tiles.ParseTile(parent)
	if err != nil {
		return err
	}
	uv, err := t.UV(p)
	if err != nil {
		return err
	}
	box = newBox(cmd, "PARENT", "ORIGIN_X", "ORIGIN_Y", "SCALE_X", "SCALE_Y")
	box.AppendRow(p.String(), uv.OriginX, uv.OriginY, uv.ScaleX, uv.ScaleY)
	return box.Render()
}
