package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/machbase/neo-geo/mods/geo/crs"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewCmd()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func runJSON(t *testing.T, args ...string) []map[string]any {
	t.Helper()
	withFormat := []string{}
	for i, a := range args {
		if a == "--" {
			withFormat = append(withFormat, "--format", "json")
			withFormat = append(withFormat, args[i:]...)
			break
		}
		withFormat = append(withFormat, a)
	}
	if len(withFormat) == len(args) {
		withFormat = append(withFormat, "--format", "json")
	}
	out, err := run(t, withFormat...)
	require.NoError(t, err, out)
	var recs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &recs), out)
	return recs
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestCrsCommands(t *testing.T) {
	out, err := run(t, "crs", "list", "--format", "csv")
	require.NoError(t, err)
	require.Equal(t, "CODE,KIND,UNIT,AXIS,PROJ", lines(out)[0])
	require.Contains(t, out, "EPSG:4326,wgs84,degree,enu,")
	require.Contains(t, out, "EPSG:4978,geocentric,meter,enu,")

	out, err = run(t, "crs", "show", crs.Mercator)
	require.NoError(t, err)
	require.Contains(t, out, "merc")
	require.Contains(t, out, "meter")

	_, err = run(t, "crs", "show", "EPSG:0")
	require.ErrorIs(t, err, crs.ErrUnknownCRS)

	out, err = run(t, "crs", "define", "LOCAL:UTM52", "+proj=utm +zone=52 +datum=WGS84 +units=m +no_defs")
	require.NoError(t, err)
	require.Contains(t, out, "utm")
	require.True(t, crs.IsValid("LOCAL:UTM52"))

	_, err = run(t, "crs", "define", "LOCAL:BAD", "+units=m")
	require.ErrorIs(t, err, crs.ErrInvalidDefinition)
}

func TestReprojectCommand(t *testing.T) {
	out, err := run(t, "reproject", "--format", "csv", "116.3902", "39.9016")
	require.NoError(t, err)
	rows := lines(out)
	require.Equal(t, "CRS,X,Y,Z", rows[0])
	require.True(t, strings.HasPrefix(rows[1], "EPSG:3857,12956497.797"), rows[1])

	recs := runJSON(t, "reproject", "--from", crs.Mercator, "--to", crs.WGS84, "--to", crs.Geocentric, "12956497.797327269", "4851653.345876037")
	require.Len(t, recs, 2)
	require.Equal(t, crs.WGS84, recs[0]["CRS"])
	require.InDelta(t, 116.3902, recs[0]["X"], 1e-6)
	require.InDelta(t, 39.9016, recs[0]["Y"], 1e-6)
	require.InDelta(t, -2177838.67, recs[1]["X"], 0.1)

	_, err = run(t, "reproject", "a", "b")
	require.Error(t, err)
	_, err = run(t, "reproject", "--to", "EPSG:0", "1", "2")
	require.ErrorIs(t, err, crs.ErrUnknownCRS)
	_, err = run(t, "reproject", "--format", "xml", "1", "2")
	require.Error(t, err)
}

func TestDistanceCommand(t *testing.T) {
	recs := runJSON(t, "distance", "0", "0", "1", "0")
	require.Len(t, recs, 3)
	require.Equal(t, "planar", recs[0]["METHOD"])
	require.InDelta(t, 1, recs[0]["DISTANCE"], 1e-12)
	require.InDelta(t, 110946.25761733655, recs[1]["DISTANCE"], 1e-3)
	require.InDelta(t, 111318.07788798446, recs[2]["DISTANCE"], 1e-2)
}

func TestExtentCommands(t *testing.T) {
	out, err := run(t, "extent", "subdivide", "--format", "csv", "--", "-10", "10", "-5", "5")
	require.NoError(t, err)
	rows := lines(out)
	require.Len(t, rows, 5)
	require.Equal(t, "EPSG:4326,0,10,0,5", rows[1])
	require.Equal(t, "EPSG:4326,-10,0,-5,0", rows[4])

	recs := runJSON(t, "extent", "reproject", "--to", crs.Mercator, "--", "-170", "170", "-60", "60")
	require.Len(t, recs, 1)
	require.InDelta(t, 18924313.434856508, recs[0]["EAST"], 1e-3)
	require.InDelta(t, -8399737.889818355, recs[0]["SOUTH"], 1e-3)

	recs = runJSON(t, "extent", "contains", "--point-crs", crs.Mercator, "--", "-10", "10", "-5", "5", "111319.49", "0")
	require.Equal(t, true, recs[0]["INSIDE"])
	recs = runJSON(t, "extent", "contains", "--", "-10", "10", "-5", "5", "11", "0")
	require.Equal(t, false, recs[0]["INSIDE"])

	out, err = run(t, "extent", "geojson", "--depth", "1", "--", "-10", "10", "-5", "5")
	require.NoError(t, err)
	require.True(t, gjson.Valid(out), out)
	require.Equal(t, "FeatureCollection", gjson.Get(out, "type").String())
	require.Equal(t, int64(4), gjson.Get(out, "features.#").Int())
	require.Equal(t, "Polygon", gjson.Get(out, "features.0.geometry.type").String())
	require.Equal(t, crs.WGS84, gjson.Get(out, "features.0.properties.crs").String())

	_, err = run(t, "extent", "reproject", "--crs", crs.Geocentric, "0", "1", "0", "1")
	require.Error(t, err)
}

func TestTileCommands(t *testing.T) {
	recs := runJSON(t, "tile", "cover", "--zoom", "2", "--", "-10", "10", "-10", "10")
	require.Len(t, recs, 4)
	require.Equal(t, "2/1/1", recs[0]["TILE"])
	require.Equal(t, "2/2/2", recs[3]["TILE"])
	require.Equal(t, float64(12), recs[3]["QUADKEY"])

	out, err := run(t, "tile", "extent", "--format", "csv", "--parent", "0/0/0", "1/1/1")
	require.NoError(t, err)
	require.Contains(t, out, "EPSG:3857,0,20037508.342789244,-20037508.342789244,0")
	require.Contains(t, out, "0/0/0,0.5,0.5,0.5,0.5")

	_, err = run(t, "tile", "extent", "--parent", "1/0/0", "1/1/1")
	require.Error(t, err)
	_, err = run(t, "tile", "extent", "9/9")
	require.Error(t, err)
}

func TestSunCommand(t *testing.T) {
	recs := runJSON(t, "sun", "--time", "2024-06-20T12:00:00Z")
	values := map[string]any{}
	for _, r := range recs {
		values[r["NAME"].(string)] = r["VALUE"]
	}
	require.Equal(t, "2024-06-20T12:00:00Z", values["time"])
	require.InDelta(t, 23.43748683547209, values["subsolar_lat"], 1e-6)
	require.InDelta(t, 0.4891727459616959, values["subsolar_lon"], 1e-6)

	_, err := run(t, "sun", "--time", "yesterday")
	require.Error(t, err)
}

func TestConfigFlag(t *testing.T) {
	out, err := run(t, "crs", "list", "--format", "csv", "--config", "../../booter/testdata/neogeo.hcl")
	require.NoError(t, err)
	require.Contains(t, out, "EPSG:5186,other,meter,enu,")
	require.Contains(t, out, "EPSG:32652,other,meter,enu,")

	_, err = run(t, "crs", "list", "--config", "./testdata/missing.hcl")
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	recs := runJSON(t, "version")
	require.Len(t, recs, 4)
	require.Equal(t, "version", recs[0]["NAME"])
	require.Equal(t, "v0.0.0", recs[0]["VALUE"])
}
