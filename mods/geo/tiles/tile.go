package tiles

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/machbase/neo-geo/mods/geo"
	"github.com/machbase/neo-geo/mods/geo/crs"
	"github.com/machbase/neo-geo/mods/logging"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

const MaxZoom = 30

// MaxCoverTiles bounds the number of tiles Cover may return.
const MaxCoverTiles = 1 << 16

var (
	ErrInvalidTile  = errors.New("invalid tile")
	ErrNotAncestor  = errors.New("tile is not an ancestor")
	ErrTooManyTiles = errors.New("too many tiles")
)

// Tile addresses a web mercator tile in the XYZ scheme, Y grows southward.
type Tile struct {
	Z int
	X int
	Y int
}

// ParseTile parses "z/x/y".
func ParseTile(s string) (Tile, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Tile{}, fmt.Errorf("%w: %q", ErrInvalidTile, s)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Tile{}, fmt.Errorf("%w: %q", ErrInvalidTile, s)
		}
		v[i] = n
	}
	t := Tile{Z: v[0], X: v[1], Y: v[2]}
	if !t.Valid() {
		return Tile{}, fmt.Errorf("%w: %q", ErrInvalidTile, s)
	}
	return t, nil
}

func (t Tile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

func (t Tile) Valid() bool {
	if t.Z < 0 || t.Z > MaxZoom {
		return false
	}
	n := 1 << t.Z
	return t.X >= 0 && t.X < n && t.Y >= 0 && t.Y < n
}

// TMSY returns the row of the tile in the TMS scheme.
func (t Tile) TMSY() int {
	return (1 << t.Z) - 1 - t.Y
}

func tileSpan(zoom int) float64 {
	return 2 * originShift / math.Exp2(float64(zoom))
}

// Extent returns the bounds of the tile in EPSG:3857 meters.
// Adjacent tiles share bit-identical edges.
func (t Tile) Extent() *geo.Extent {
	span := tileSpan(t.Z)
	return &geo.Extent{
		CRS:   crs.Mercator,
		West:  float64(t.X)*span - originShift,
		East:  float64(t.X+1)*span - originShift,
		South: originShift - float64(t.Y+1)*span,
		North: originShift - float64(t.Y)*span,
	}
}

// MapTile converts t into the orb maptile representation.
func (t Tile) MapTile() maptile.Tile {
	return maptile.New(uint32(t.X), uint32(t.Y), maptile.Zoom(t.Z))
}

func FromMapTile(mt maptile.Tile) Tile {
	return Tile{Z: int(mt.Z), X: int(mt.X), Y: int(mt.Y)}
}

// Bound returns the longitude/latitude bounds of the tile.
func (t Tile) Bound() orb.Bound {
	return t.MapTile().Bound()
}

// Quadkey interleaves the x and y bits of the tile, two bits per zoom level.
func (t Tile) Quadkey() uint64 {
	return t.MapTile().Quadkey()
}

// Children returns the four tiles of the next zoom level, NW, NE, SW, SE.
func (t Tile) Children() [4]Tile {
	z, x, y := t.Z+1, t.X*2, t.Y*2
	return [4]Tile{{z, x, y}, {z, x + 1, y}, {z, x, y + 1}, {z, x + 1, y + 1}}
}

// Parent returns false for the root tile.
func (t Tile) Parent() (Tile, bool) {
	if t.Z == 0 {
		return t, false
	}
	return Tile{Z: t.Z - 1, X: t.X >> 1, Y: t.Y >> 1}, true
}

func (t Tile) IsDescendantOf(a Tile) bool {
	dz := t.Z - a.Z
	return dz >= 0 && t.X>>dz == a.X && t.Y>>dz == a.Y
}

// UV returns the texture offset of t inside the extent of ancestor.
func (t Tile) UV(ancestor Tile) (geo.Offset, error) {
	if !t.IsDescendantOf(ancestor) {
		return geo.Offset{}, fmt.Errorf("%w: %s of %s", ErrNotAncestor, ancestor, t)
	}
	return t.Extent().OffsetToParent(ancestor.Extent())
}

// TileToLatLon returns the north-west corner of the tile.
func TileToLatLon(x, y, zoom int) (lat float64, lon float64) {
	n := math.Pi - 2.0*math.Pi*float64(y)/math.Exp2(float64(zoom))
	lat = 180.0 / math.Pi * math.Atan(math.Sinh(n))
	lon = float64(x)/math.Exp2(float64(zoom))*360.0 - 180.0
	return lat, lon
}

// LatLonToTile returns the XYZ tile containing the point, clamped to the world.
func LatLonToTile(lat, lon float64, zoom int) Tile {
	n := math.Exp2(float64(zoom))
	latRad := lat * math.Pi / 180.0
	x := math.Floor((lon + 180.0) / 360.0 * n)
	y := math.Floor((1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n)
	return Tile{Z: zoom, X: clampIndex(x, n), Y: clampIndex(y, n)}
}

func clampIndex(v, n float64) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v >= n {
		return int(n - 1)
	}
	return int(v)
}

// Cover returns the tiles of the zoom level whose extents intersect ext,
// sorted by row then column.
func Cover(ext *geo.Extent, zoom int) ([]Tile, error) {
	if zoom < 0 || zoom > MaxZoom {
		return nil, fmt.Errorf("%w: zoom %d", ErrInvalidTile, zoom)
	}
	m, err := ext.ReprojectTo(crs.Mercator, nil)
	if err != nil {
		return nil, err
	}
	if m.IsEmpty() {
		return nil, nil
	}
	n := math.Exp2(float64(zoom))
	span := tileSpan(zoom)
	x0 := clampIndex(math.Floor((m.West+originShift)/span), n)
	x1 := clampIndex(math.Floor((m.East+originShift)/span), n)
	y0 := clampIndex(math.Floor((originShift-m.North)/span), n)
	y1 := clampIndex(math.Floor((originShift-m.South)/span), n)
	if count := (x1 - x0 + 1) * (y1 - y0 + 1); count > MaxCoverTiles {
		return nil, fmt.Errorf("%w: %d tiles at zoom %d", ErrTooManyTiles, count, zoom)
	}

	var ret []Tile
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			t := Tile{Z: zoom, X: x, Y: y}
			ok, err := geo.IntersectsExtent(m, t.Extent())
			if err != nil {
				return nil, err
			}
			if ok {
				ret = append(ret, t)
			}
		}
	}
	logging.GetLog("tiles").Debugf("cover %s zoom %d: %d tiles", ext.CRS, zoom, len(ret))
	return ret, nil
}

// Split subdivides ext as a quadtree, depth levels deep.
func Split(ext *geo.Extent, depth int) []*geo.Extent {
	ret := []*geo.Extent{ext.Clone()}
	for i := 0; i < depth; i++ {
		next := make([]*geo.Extent, 0, len(ret)*4)
		for _, e := range ret {
			next = append(next, e.Subdivision()...)
		}
		ret = next
	}
	return ret
}
