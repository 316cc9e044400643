package tiles

import (
	"testing"

	"github.com/machbase/neo-geo/mods/geo"
	"github.com/machbase/neo-geo/mods/geo/crs"
	"github.com/paulmach/orb/maptile"
	"github.com/stretchr/testify/require"
)

func TestParseTile(t *testing.T) {
	tile, err := ParseTile("17/111812/50783")
	require.NoError(t, err)
	require.Equal(t, Tile{Z: 17, X: 111812, Y: 50783}, tile)
	require.Equal(t, "17/111812/50783", tile.String())

	for _, s := range []string{"", "1/2", "a/b/c", "1/2/0", "-1/0/0", "31/0/0"} {
		_, err := ParseTile(s)
		require.ErrorIs(t, err, ErrInvalidTile, s)
	}
}

func TestTileLatLon(t *testing.T) {
	// https://tile.openstreetmap.org/17/111812/50783.png
	lat, lon := TileToLatLon(111812, 50783, 17)
	require.InDelta(t, 37.51190453731694, lat, 1e-9)
	require.InDelta(t, 127.100830078125, lon, 1e-9)

	require.Equal(t, Tile{Z: 17, X: 111775, Y: 50788}, LatLonToTile(37.5, 127.0, 17))
	require.Equal(t, Tile{Z: 15, X: 17667, Y: 9081}, LatLonToTile(62.3, 14.1, 15))
	require.Equal(t, Tile{Z: 2, X: 3, Y: 0}, LatLonToTile(90, 180, 2))
	require.Equal(t, Tile{Z: 2, X: 0, Y: 3}, LatLonToTile(-89, -180, 2))
}

func TestTileExtent(t *testing.T) {
	tile := Tile{Z: 17, X: 111812, Y: 50783}
	ext := tile.Extent()
	require.Equal(t, crs.Mercator, ext.CRS)
	require.InDelta(t, 14148799.683699269, ext.West, 1e-6)
	require.InDelta(t, 4510701.9131648205, ext.North, 1e-6)
	require.InDelta(t, 4510396.16505168, ext.South, 1e-6)
	require.InDelta(t, Resolution(17)*TileSize, ext.East-ext.West, 1e-9)

	nw, err := geo.NewCoordinates(crs.Mercator, ext.West, ext.North, 0).ToWGS84(nil)
	require.NoError(t, err)
	lat, lon := TileToLatLon(tile.X, tile.Y, tile.Z)
	require.InDelta(t, lon, nw.X, 1e-7)
	require.InDelta(t, lat, nw.Y, 1e-7)

	world := Tile{}.Extent()
	require.InDelta(t, -20037508.342789244, world.West, 1e-6)
	require.InDelta(t, 20037508.342789244, world.North, 1e-6)
	require.Equal(t, 0, Tile{}.TMSY())
	require.Equal(t, 3, Tile{Z: 2, X: 1, Y: 0}.TMSY())
}

func TestTileHierarchy(t *testing.T) {
	root := Tile{}
	_, ok := root.Parent()
	require.False(t, ok)

	children := Tile{Z: 1}.Children()
	require.Equal(t, [4]Tile{{2, 0, 0}, {2, 1, 0}, {2, 0, 1}, {2, 1, 1}}, children)

	union := geo.EmptyExtent(crs.Mercator)
	for _, c := range children {
		p, ok := c.Parent()
		require.True(t, ok)
		require.Equal(t, Tile{Z: 1}, p)
		require.True(t, c.IsDescendantOf(root))
		require.NoError(t, union.Union(c.Extent()))
	}
	parent := Tile{Z: 1}.Extent()
	require.InDelta(t, parent.West, union.West, 1e-6)
	require.InDelta(t, parent.East, union.East, 1e-6)
	require.InDelta(t, parent.South, union.South, 1e-6)
	require.InDelta(t, parent.North, union.North, 1e-6)

	uv, err := Tile{Z: 2, X: 1, Y: 1}.UV(Tile{Z: 1})
	require.NoError(t, err)
	require.InDelta(t, 0.5, uv.OriginX, 1e-12)
	require.InDelta(t, 0.5, uv.OriginY, 1e-12)
	require.InDelta(t, 0.5, uv.ScaleX, 1e-12)
	require.InDelta(t, 0.5, uv.ScaleY, 1e-12)

	uv, err = Tile{Z: 3, X: 0, Y: 0}.UV(root)
	require.NoError(t, err)
	require.InDelta(t, 0, uv.OriginX, 1e-12)
	require.InDelta(t, 0, uv.OriginY, 1e-12)
	require.InDelta(t, 0.125, uv.ScaleX, 1e-12)

	_, err = Tile{Z: 2, X: 3, Y: 3}.UV(Tile{Z: 1})
	require.ErrorIs(t, err, ErrNotAncestor)
}

func TestMapTile(t *testing.T) {
	tile := Tile{Z: 1, X: 1, Y: 1}
	b := tile.Bound()
	require.InDelta(t, 0, b.Min.Lon(), 1e-9)
	require.InDelta(t, 180, b.Max.Lon(), 1e-9)
	require.InDelta(t, -85.0511287798, b.Min.Lat(), 1e-9)
	require.InDelta(t, 0, b.Max.Lat(), 1e-9)

	ext, err := tile.Extent().ReprojectTo(crs.WGS84, nil)
	require.NoError(t, err)
	require.InDelta(t, ext.West, b.Min.Lon(), 1e-6)
	require.InDelta(t, ext.South, b.Min.Lat(), 1e-6)

	require.Equal(t, uint64(9), Tile{Z: 2, X: 1, Y: 2}.Quadkey())

	seoul := Tile{Z: 17, X: 111812, Y: 50783}
	require.Equal(t, seoul, FromMapTile(seoul.MapTile()))
	center := seoul.Bound().Center()
	require.Equal(t, seoul, FromMapTile(maptile.At(center, 17)))
	require.Equal(t, seoul, LatLonToTile(center.Lat(), center.Lon(), 17))
}

func TestCover(t *testing.T) {
	ext, err := geo.NewExtent(crs.WGS84, -10, 10, -10, 10)
	require.NoError(t, err)
	ret, err := Cover(ext, 2)
	require.NoError(t, err)
	require.Equal(t, []Tile{{2, 1, 1}, {2, 2, 1}, {2, 1, 2}, {2, 2, 2}}, ret)

	small, err := geo.NewExtent(crs.WGS84, 1, 9, 1, 9)
	require.NoError(t, err)
	ret, err = Cover(small, 2)
	require.NoError(t, err)
	require.Equal(t, []Tile{{2, 2, 1}}, ret)

	ret, err = Cover(Tile{}.Extent(), 1)
	require.NoError(t, err)
	require.Len(t, ret, 4)

	// neighbours sharing only an edge are left out
	ret, err = Cover(Tile{Z: 3, X: 2, Y: 5}.Extent(), 3)
	require.NoError(t, err)
	require.Equal(t, []Tile{{3, 2, 5}}, ret)

	ret, err = Cover(geo.EmptyExtent(crs.WGS84), 3)
	require.NoError(t, err)
	require.Empty(t, ret)

	_, err = Cover(ext, 31)
	require.ErrorIs(t, err, ErrInvalidTile)
	_, err = Cover(Tile{}.Extent(), 10)
	require.ErrorIs(t, err, ErrTooManyTiles)
}

func TestSplit(t *testing.T) {
	ext := Tile{}.Extent()
	require.Len(t, Split(ext, 0), 1)
	parts := Split(ext, 2)
	require.Len(t, parts, 16)
	for _, p := range parts {
		require.InDelta(t, (ext.East-ext.West)/4, p.East-p.West, 1e-6)
	}
}
