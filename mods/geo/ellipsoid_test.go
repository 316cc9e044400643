package geo

import (
	"math"
	"testing"

	"github.com/machbase/neo-geo/mods/geo/crs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestEllipsoidSetSize(t *testing.T) {
	e := WGS84Ellipsoid()
	require.Equal(t, WGS84Size, e.Size())
	require.InDelta(t, 0.08181919084262149, e.Eccentricity(), 1e-12)
	require.InDelta(t, 1/(6378137.0*6378137.0), e.InvRadiiSquared().X, 1e-30)

	e.SetSize(r3.Vec{X: 10, Y: 0, Z: 5})
	inv := e.InvRadiiSquared()
	require.Equal(t, 0.01, inv.X)
	require.Equal(t, 0.0, inv.Y)
	require.Equal(t, 0.04, inv.Z)
	require.False(t, math.IsInf(inv.Y, 0))
	require.Equal(t, r3.Vec{X: 100, Y: 0, Z: 25}, e.RadiiSquared())

	// resizing a copy leaves the package default untouched
	require.Equal(t, WGS84Size, WGS84Ellipsoid().Size())
}

func TestEllipsoidCartographicToCartesian(t *testing.T) {
	e := WGS84Ellipsoid()
	tests := []struct {
		name     string
		lon, lat float64
		alt      float64
		expect   r3.Vec
	}{
		{"origin", 0, 0, 0, r3.Vec{X: 6378137}},
		{"east", 90, 0, 0, r3.Vec{Y: 6378137}},
		{"north pole", 0, 90, 0, r3.Vec{Z: 6356752.3142451793}},
		{"altitude", 0, 0, 1000, r3.Vec{X: 6379137}},
		{"paris", 2.35, 48.85, 100, r3.Vec{X: 4201539.397559319, Y: 172423.83342075828, Z: 4779673.699511019}},
	}
	for _, tt := range tests {
		p := e.CartographicToCartesian(NewCoordinates(crs.WGS84, tt.lon, tt.lat, tt.alt))
		require.InDelta(t, tt.expect.X, p.X, 1e-6, tt.name)
		require.InDelta(t, tt.expect.Y, p.Y, 1e-6, tt.name)
		require.InDelta(t, tt.expect.Z, p.Z, 1e-6, tt.name)
	}
}

func TestEllipsoidCartesianToCartographic(t *testing.T) {
	e := WGS84Ellipsoid()
	for _, c := range []*Coordinates{
		NewCoordinates(crs.WGS84, 2.35, 48.85, 100),
		NewCoordinates(crs.WGS84, -70, -33, 3000),
		NewCoordinates(crs.WGS84, 135, 10, 0),
	} {
		p := e.CartographicToCartesian(c)
		ret := e.CartesianToCartographic(p, nil)
		require.Equal(t, crs.WGS84, ret.CRS)
		require.InDelta(t, c.X, ret.X, 1e-9)
		require.InDelta(t, c.Y, ret.Y, 1e-9)
		require.InDelta(t, c.Z, ret.Z, 1e-3)
	}

	target := NewCoordinates(crs.Mercator, 1, 2, 3)
	ret := e.CartesianToCartographic(r3.Vec{X: 6378137}, target)
	require.Same(t, target, ret)
	require.Equal(t, crs.WGS84, target.CRS)
	require.InDelta(t, 0, target.X, 1e-12)
	require.InDelta(t, 0, target.Y, 1e-12)
	require.InDelta(t, 0, target.Z, 1e-6)
}

func TestEllipsoidSurfaceNormal(t *testing.T) {
	e := WGS84Ellipsoid()
	n := e.GeodeticSurfaceNormal(r3.Vec{X: 0, Y: 0, Z: 6356752.3142451793})
	require.InDelta(t, 1, n.Z, 1e-12)
	require.InDelta(t, 1, r3.Norm(e.GeodeticSurfaceNormal(r3.Vec{X: 1, Y: 2, Z: 3})), 1e-12)

	n = e.GeodeticSurfaceNormalCartographic(NewCoordinates(crs.WGS84, 90, 0, 0))
	require.InDelta(t, 0, n.X, 1e-12)
	require.InDelta(t, 1, n.Y, 1e-12)
	require.InDelta(t, 0, n.Z, 1e-12)
}

func TestEllipsoidIntersection(t *testing.T) {
	e := WGS84Ellipsoid()

	// from outside, towards the center
	p, ok := e.Intersection(Ray{Origin: r3.Vec{X: 2 * 6378137}, Direction: r3.Vec{X: -1}})
	require.True(t, ok)
	require.InDelta(t, 6378137, p.X, 1e-6)
	require.InDelta(t, 0, p.Y, 1e-9)

	// from inside, pointing outward
	p, ok = e.Intersection(Ray{Origin: r3.Vec{X: 1000}, Direction: r3.Vec{X: 1}})
	require.True(t, ok)
	require.InDelta(t, 6378137, p.X, 1e-6)

	// pointing away
	_, ok = e.Intersection(Ray{Origin: r3.Vec{X: 2 * 6378137}, Direction: r3.Vec{X: 1}})
	require.False(t, ok)

	// missing
	_, ok = e.Intersection(Ray{Origin: r3.Vec{X: 2 * 6378137, Z: 7e6}, Direction: r3.Vec{X: -1}})
	require.False(t, ok)
}

func TestRayAt(t *testing.T) {
	r := Ray{Origin: r3.Vec{X: 1, Y: 2, Z: 3}, Direction: r3.Vec{X: 0, Y: 0, Z: 2}}
	assert.Equal(t, r3.Vec{X: 1, Y: 2, Z: 7}, r.At(2))
}

func TestEllipsoidGeodesicDistance(t *testing.T) {
	e := WGS84Ellipsoid()
	tests := []struct {
		a, b   *Coordinates
		expect float64
	}{
		{NewCoordinates(crs.WGS84, 0, 0, 0), NewCoordinates(crs.WGS84, 1, 0, 0), 110946.25761733655},
		{NewCoordinates(crs.WGS84, 0, 0, 0), NewCoordinates(crs.WGS84, 0, 1, 0), 110946.3141770185},
		{NewCoordinates(crs.WGS84, 2.3522, 48.8566, 0), NewCoordinates(crs.WGS84, -0.1276, 51.5072, 0), 344120.66798441263},
	}
	for _, tt := range tests {
		require.InDelta(t, tt.expect, e.GeodesicDistance(tt.a, tt.b), 1e-3)
		require.InDelta(t, tt.expect, e.GeodesicDistance(tt.b, tt.a), 1e-3)
	}
}
