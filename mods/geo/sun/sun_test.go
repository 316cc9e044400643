package sun

import (
	"math"
	"testing"
	"time"

	"github.com/machbase/neo-geo/mods/geo/crs"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestPosition(t *testing.T) {
	ts := time.Date(2013, 3, 5, 0, 0, 0, 0, time.UTC)
	pos := Position(ts, 50.5, 30.5)
	require.InDelta(t, -2.5003175907168385, pos.Azimuth, 1e-12)
	require.InDelta(t, -0.7000406838781611, pos.Altitude, 1e-12)
	require.InDelta(t, -0.10749006348638547, pos.Declination, 1e-12)
	require.InDelta(t, -0.2515264928774119, pos.RightAscension, 1e-12)
	require.InDelta(t, pos.SiderealTime-pos.RightAscension, pos.HourAngle, 1e-9)
}

func TestSubsolar(t *testing.T) {
	tests := []struct {
		ts       time.Time
		lat, lon float64
	}{
		{time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), -0.015344224524318396, 1.9647513860836625},
		{time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC), 23.43748683547209, 0.4891727459616959},
		{time.Date(2013, 3, 5, 0, 0, 0, 0, time.UTC), -6.1587269773631625, -176.89887672732584},
	}
	for _, tt := range tests {
		c := Subsolar(tt.ts)
		require.Equal(t, crs.WGS84, c.CRS)
		require.InDelta(t, tt.lat, c.Latitude(), 1e-6, tt.ts.String())
		require.InDelta(t, tt.lon, c.Longitude(), 1e-6, tt.ts.String())

		// the sun is at the zenith above the subsolar point
		pos := Position(tt.ts, c.Latitude(), c.Longitude())
		require.InDelta(t, math.Pi/2, pos.Altitude, 1e-5)
	}
}

func TestDirection(t *testing.T) {
	dir, err := Direction(time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.InDelta(t, 1, r3.Norm(dir), 1e-12)
	require.Greater(t, dir.X, 0.99)
	require.InDelta(t, 0, dir.Z, 1e-3)

	dir, err = Direction(time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Less(t, dir.X, -0.9)
	require.Greater(t, dir.Z, 0.39)
}
