package main

import (
	"math"
	"time"

	"github.com/machbase/neo-geo/mods/geo/sun"
	"github.com/spf13/cobra"
)

func newSunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sun [flags]",
		Short: "Sun position and direction",
		Args:  cobra.NoArgs,
		RunE:  doSun,
	}
	cmd.Flags().String("time", "", "`<RFC3339>` time, defaults to now")
	cmd.Flags().Float64("lat", 0, "observer latitude in degrees")
	cmd.Flags().Float64("lon", 0, "observer longitude in degrees")
	return cmd
}

func doSun(cmd *cobra.Command, args []string) error {
	ts := time.Now()
	if s, _ := cmd.Flags().GetString("time"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
		ts = t
	}
	lat, _ := cmd.Flags().GetFloat64("lat")
	lon, _ := cmd.Flags().GetFloat64("lon")

	pos := sun.Position(ts, lat, lon)
	sub := sun.Subsolar(ts)
	dir, err := sun.Direction(ts)
	if err != nil {
		return err
	}
	deg := func(r float64) float64 { return r * 180 / math.Pi }

	box := newBox(cmd, "NAME", "VALUE")
	box.AppendRow("time", ts.UTC().Format(time.RFC3339))
	box.AppendRow("altitude", deg(pos.Altitude))
	box.AppendRow("azimuth", deg(pos.Azimuth))
	box.AppendRow("declination", deg(pos.Declination))
	box.AppendRow("right_ascension", deg(pos.RightAscension))
	box.AppendRow("subsolar_lat", sub.Latitude())
	box.AppendRow("subsolar_lon", sub.Longitude())
	box.AppendRow("direction_x", dir.X)
	box.AppendRow("direction_y", dir.Y)
	box.AppendRow("direction_z", dir.Z)
	return box.Render()
}
