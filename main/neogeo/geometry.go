package main

import (
	"encoding/json"

	"github.com/machbase/neo-geo/mods/geo"
	"github.com/machbase/neo-geo/mods/geo/crs"
	"github.com/machbase/neo-geo/mods/geo/tiles"
	"github.com/spf13/cobra"
)

func newReprojectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reproject [flags] <x> <y> [z]",
		Short: "Reproject a point",
		Args:  cobra.RangeArgs(2, 3),
		RunE:  doReproject,
	}
	cmd.Flags().String("from", crs.WGS84, "`<code>` of the input CRS")
	cmd.Flags().StringSlice("to", []string{crs.Mercator}, "`<code>`s of the output CRS")
	return cmd
}

func doReproject(cmd *cobra.Command, args []string) error {
	v, err := parseFloats(args)
	if err != nil {
		return err
	}
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetStringSlice("to")
	src := new(geo.Coordinates).SetCRS(from).SetFromArray(v)

	box := newBox(cmd, "CRS", "X", "Y", "Z")
	var dst geo.Coordinates
	for _, code := range to {
		if _, err := src.ReprojectTo(code, &dst); err != nil {
			return err
		}
		box.AppendRow(dst.CRS, dst.X, dst.Y, dst.Z)
	}
	return box.Render()
}

func newDistanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "distance [flags] <x1> <y1> <x2> <y2>",
		Short: "Distances between two points",
		Args:  cobra.ExactArgs(4),
		RunE:  doDistance,
	}
	cmd.Flags().String("crs", crs.WGS84, "`<code>` of the input points")
	return cmd
}

func doDistance(cmd *cobra.Command, args []string) error {
	v, err := parseFloats(args)
	if err != nil {
		return err
	}
	code, _ := cmd.Flags().GetString("crs")
	a := geo.NewCoordinates(code, v[0], v[1], 0)
	b := geo.NewCoordinates(code, v[2], v[3], 0)

	geodetic, err := a.GeodeticDistanceTo(b)
	if err != nil {
		return err
	}
	euclidean, err := a.SpatialEuclideanDistanceTo(b)
	if err != nil {
		return err
	}
	box := newBox(cmd, "METHOD", "DISTANCE")
	box.AppendRow("planar", a.PlanarDistanceTo(b))
	box.AppendRow("geodetic", geodetic)
	box.AppendRow("euclidean", euclidean)
	return box.Render()
}

func newExtentCmd() *cobra.Command {
	extentCmd := &cobra.Command{
		Use:   "extent [command]",
		Short: "Extent operations, bounds are given as <west> <east> <south> <north>",
	}
	extentCmd.PersistentFlags().String("crs", crs.WGS84, "`<code>` of the extent")

	reprojectCmd := &cobra.Command{
		Use:   "reproject [flags] <west> <east> <south> <north>",
		Short: "Reproject an extent",
		Args:  cobra.ExactArgs(4),
		RunE:  doExtentReproject,
	}
	reprojectCmd.Flags().String("to", crs.Mercator, "`<code>` of the output CRS")

	subdivideCmd := &cobra.Command{
		Use:   "subdivide [flags] <west> <east> <south> <north>",
		Short: "Split an extent into a grid",
		Args:  cobra.ExactArgs(4),
		RunE:  doExtentSubdivide,
	}
	subdivideCmd.Flags().Int("sx", 2, "number of columns")
	subdivideCmd.Flags().Int("sy", 2, "number of rows")

	geojsonCmd := &cobra.Command{
		Use:   "geojson [flags] <west> <east> <south> <north>",
		Short: "Print an extent and its quadtree split as a GeoJSON feature collection",
		Args:  cobra.ExactArgs(4),
		RunE:  doExtentGeoJSON,
	}
	geojsonCmd.Flags().Int("depth", 0, "quadtree depth")

	containsCmd := &cobra.Command{
		Use:   "contains [flags] <west> <east> <south> <north> <x> <y>",
		Short: "Test whether a point lies inside an extent",
		Args:  cobra.ExactArgs(6),
		RunE:  doExtentContains,
	}
	containsCmd.Flags().String("point-crs", "", "`<code>` of the point, defaults to the extent CRS")
	containsCmd.Flags().Float64("epsilon", 0, "tolerance in the units of the extent CRS")

	extentCmd.AddCommand(reprojectCmd, subdivideCmd, geojsonCmd, containsCmd)
	return extentCmd
}

func parseExtent(cmd *cobra.Command, args []string) (*geo.Extent, []float64, error) {
	v, err := parseFloats(args)
	if err != nil {
		return nil, nil, err
	}
	code, _ := cmd.Flags().GetString("crs")
	ext, err := geo.NewExtent(code, v[0], v[1], v[2], v[3])
	if err != nil {
		return nil, nil, err
	}
	return ext, v[4:], nil
}

func appendExtentRow(box Box, e *geo.Extent) {
	box.AppendRow(e.CRS, e.West, e.East, e.South, e.North)
}

func doExtentReproject(cmd *cobra.Command, args []string) error {
	ext, _, err := parseExtent(cmd, args)
	if err != nil {
		return err
	}
	to, _ := cmd.Flags().GetString("to")
	ret, err := ext.ReprojectTo(to, nil)
	if err != nil {
		return err
	}
	box := newBox(cmd, "CRS", "WEST", "EAST", "SOUTH", "NORTH")
	appendExtentRow(box, ret)
	return box.Render()
}

func doExtentSubdivide(cmd *cobra.Command, args []string) error {
	ext, _, err := parseExtent(cmd, args)
	if err != nil {
		return err
	}
	sx, _ := cmd.Flags().GetInt("sx")
	sy, _ := cmd.Flags().GetInt("sy")
	box := newBox(cmd, "CRS", "WEST", "EAST", "SOUTH", "NORTH")
	for _, e := range ext.SubdivisionByScheme(sx, sy) {
		appendExtentRow(box, e)
	}
	return box.Render()
}

func doExtentGeoJSON(cmd *cobra.Command, args []string) error {
	ext, _, err := parseExtent(cmd, args)
	if err != nil {
		return err
	}
	depth, _ := cmd.Flags().GetInt("depth")
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(geo.FeatureCollection(tiles.Split(ext, depth)))
}

func doExtentContains(cmd *cobra.Command, args []string) error {
	ext, rest, err := parseExtent(cmd, args)
	if err != nil {
		return err
	}
	pointCRS, _ := cmd.Flags().GetString("point-crs")
	if pointCRS == "" {
		pointCRS = ext.CRS
	}
	eps, _ := cmd.Flags().GetFloat64("epsilon")
	inside, err := ext.IsPointInside(geo.NewCoordinates(pointCRS, rest[0], rest[1], 0), eps)
	if err != nil {
		return err
	}
	box := newBox(cmd, "CRS", "X", "Y", "INSIDE")
	box.AppendRow(pointCRS, rest[0], rest[1], inside)
	return box.Render()
}
