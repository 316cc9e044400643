package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/machbase/neo-geo/mods/geo/crs"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrCRSMismatch      = errors.New("extents have different crs")
	ErrGeocentricExtent = errors.New("extent cannot be expressed in a geocentric crs")
)

// Extent is an axis aligned rectangle in the X/Y plane of a non geocentric CRS.
// West/East bound X and South/North bound Y.
type Extent struct {
	CRS   string
	West  float64
	East  float64
	South float64
	North float64
}

func NewExtent(code string, west, east, south, north float64) (*Extent, error) {
	if crs.IsGeocentric(code) {
		return nil, fmt.Errorf("%w: %s", ErrGeocentricExtent, code)
	}
	return &Extent{CRS: code, West: west, East: east, South: south, North: north}, nil
}

// EmptyExtent returns the extent that contains nothing and is absorbed by Union.
func EmptyExtent(code string) *Extent {
	return &Extent{CRS: code, West: math.Inf(1), East: math.Inf(-1), South: math.Inf(1), North: math.Inf(-1)}
}

func (e *Extent) IsEmpty() bool {
	return e.West > e.East || e.South > e.North
}

func (e *Extent) Set(west, east, south, north float64) *Extent {
	e.West, e.East, e.South, e.North = west, east, south, north
	return e
}

func (e *Extent) Copy(src *Extent) *Extent {
	*e = *src
	return e
}

func (e *Extent) Clone() *Extent {
	ret := *e
	return &ret
}

func (e *Extent) String() string {
	return fmt.Sprintf("Extent(%s west=%v east=%v south=%v north=%v)", e.CRS, e.West, e.East, e.South, e.North)
}

// Join concatenates the bounds in east, north, west, south order.
func (e *Extent) Join(sep string) string {
	return fmt.Sprintf("%v%s%v%s%v%s%v", e.East, sep, e.North, sep, e.West, sep, e.South)
}

// ReprojectTo writes the extent expressed in code into target.
// The corners and edge midpoints are reprojected and their bounding
// rectangle is kept, so curved edges may be slightly under-covered.
func (e *Extent) ReprojectTo(code string, target *Extent) (*Extent, error) {
	if target == nil {
		target = &Extent{}
	}
	if e.CRS == code {
		return target.Copy(e), nil
	}
	if crs.IsGeocentric(code) {
		return nil, fmt.Errorf("%w: %s", ErrGeocentricExtent, code)
	}
	if e.IsEmpty() {
		return target.Copy(EmptyExtent(code)), nil
	}

	cx := e.West + (e.East-e.West)/2
	cy := e.South + (e.North-e.South)/2
	samples := [8][2]float64{
		{e.West, e.North}, {cx, e.North}, {e.East, e.North}, {e.East, cy},
		{e.East, e.South}, {cx, e.South}, {e.West, e.South}, {e.West, cy},
	}
	ret := EmptyExtent(code)
	var src, dst Coordinates
	for _, s := range samples {
		src = Coordinates{CRS: e.CRS, X: s[0], Y: s[1]}
		if _, err := src.ReprojectTo(code, &dst); err != nil {
			return nil, err
		}
		ret.expand(dst.X, dst.Y)
	}
	return target.Copy(ret), nil
}

// Center writes the midpoint of the extent, with zero altitude, into target.
func (e *Extent) Center(target *Coordinates) *Coordinates {
	if target == nil {
		target = &Coordinates{}
	}
	target.CRS = e.CRS
	dim := e.PlanarDimensions()
	return target.SetFromValues(e.West+dim.X*0.5, e.South+dim.Y*0.5, 0)
}

// PlanarDimensions returns width and height in the units of the extent CRS.
func (e *Extent) PlanarDimensions() r2.Vec {
	return r2.Vec{X: math.Abs(e.East - e.West), Y: math.Abs(e.North - e.South)}
}

func (e *Extent) corners() (nw, ne, sw *Coordinates) {
	nw = NewCoordinates(e.CRS, e.West, e.North, 0)
	ne = NewCoordinates(e.CRS, e.East, e.North, 0)
	sw = NewCoordinates(e.CRS, e.West, e.South, 0)
	return
}

// GeodeticDimensions returns the surface lengths of the north and west edges in meters.
func (e *Extent) GeodeticDimensions() (r2.Vec, error) {
	nw, ne, sw := e.corners()
	w, err := nw.GeodeticDistanceTo(ne)
	if err != nil {
		return r2.Vec{}, err
	}
	h, err := nw.GeodeticDistanceTo(sw)
	if err != nil {
		return r2.Vec{}, err
	}
	return r2.Vec{X: w, Y: h}, nil
}

// SpatialEuclideanDimensions returns the chord lengths of the north and west edges in meters.
func (e *Extent) SpatialEuclideanDimensions() (r2.Vec, error) {
	nw, ne, sw := e.corners()
	w, err := nw.SpatialEuclideanDistanceTo(ne)
	if err != nil {
		return r2.Vec{}, err
	}
	h, err := nw.SpatialEuclideanDistanceTo(sw)
	if err != nil {
		return r2.Vec{}, err
	}
	return r2.Vec{X: w, Y: h}, nil
}

// IsPointInside reports whether c, reprojected to the extent CRS, lies within the
// bounds grown by epsilon.
func (e *Extent) IsPointInside(c *Coordinates, epsilon float64) (bool, error) {
	var p Coordinates
	if _, err := c.ReprojectTo(e.CRS, &p); err != nil {
		return false, err
	}
	return p.X <= e.East+epsilon &&
		p.X >= e.West-epsilon &&
		p.Y <= e.North+epsilon &&
		p.Y >= e.South-epsilon, nil
}

// IsInside reports whether e lies within other. The optional epsilon
// defaults to the reasonable epsilon of the extent CRS.
func (e *Extent) IsInside(other *Extent, epsilon ...float64) (bool, error) {
	eps := crs.ReasonableEpsilon(e.CRS)
	if len(epsilon) > 0 {
		eps = epsilon[0]
	}
	var o Extent
	if _, err := other.ReprojectTo(e.CRS, &o); err != nil {
		return false, err
	}
	return e.East-o.East <= eps &&
		o.West-e.West <= eps &&
		e.North-o.North <= eps &&
		o.South-e.South <= eps, nil
}

// Offset locates a child extent in the normalized frame of its parent.
// OriginY is measured from the parent north edge.
type Offset struct {
	OriginX float64
	OriginY float64
	ScaleX  float64
	ScaleY  float64
}

func (e *Extent) OffsetToParent(parent *Extent) (Offset, error) {
	if e.CRS != parent.CRS {
		return Offset{}, fmt.Errorf("%w: %s and %s", ErrCRSMismatch, e.CRS, parent.CRS)
	}
	dim := e.PlanarDimensions()
	pdim := parent.PlanarDimensions()
	return Offset{
		OriginX: (e.West - parent.West) / pdim.X,
		OriginY: (parent.North - e.North) / pdim.Y,
		ScaleX:  dim.X / pdim.X,
		ScaleY:  dim.Y / pdim.Y,
	}, nil
}

// IntersectsExtent reports whether the interiors of a and b overlap once b is
// reprojected to the CRS of a. Extents sharing only an edge do not intersect.
func IntersectsExtent(a, b *Extent) (bool, error) {
	var o Extent
	if _, err := b.ReprojectTo(a.CRS, &o); err != nil {
		return false, err
	}
	return !(a.West >= o.East ||
		a.East <= o.West ||
		a.South >= o.North ||
		a.North <= o.South), nil
}

func (e *Extent) IntersectsExtent(other *Extent) (bool, error) {
	return IntersectsExtent(e, other)
}

// Intersect returns the overlap of e and other in the CRS of e,
// or an empty extent when they do not intersect.
func (e *Extent) Intersect(other *Extent) (*Extent, error) {
	ok, err := e.IntersectsExtent(other)
	if err != nil {
		return nil, err
	}
	if !ok {
		return EmptyExtent(e.CRS), nil
	}
	var o Extent
	if _, err := other.ReprojectTo(e.CRS, &o); err != nil {
		return nil, err
	}
	return &Extent{
		CRS:   e.CRS,
		West:  math.Max(e.West, o.West),
		East:  math.Min(e.East, o.East),
		South: math.Max(e.South, o.South),
		North: math.Min(e.North, o.North),
	}, nil
}

// Union grows e to contain other. Both must share the same CRS.
func (e *Extent) Union(other *Extent) error {
	if e.CRS != other.CRS {
		return fmt.Errorf("%w: %s and %s", ErrCRSMismatch, e.CRS, other.CRS)
	}
	if math.IsInf(e.West, 1) {
		e.Copy(other)
		return nil
	}
	e.West = math.Min(e.West, other.West)
	e.East = math.Max(e.East, other.East)
	e.South = math.Min(e.South, other.South)
	e.North = math.Max(e.North, other.North)
	return nil
}

// ExpandByCoordinates grows e to contain c reprojected to the extent CRS.
func (e *Extent) ExpandByCoordinates(c *Coordinates) error {
	var p Coordinates
	if _, err := c.ReprojectTo(e.CRS, &p); err != nil {
		return err
	}
	e.ExpandByValuesCoordinates(p.X, p.Y)
	return nil
}

// ExpandByValuesCoordinates grows e to contain (x, y) given in the extent CRS.
func (e *Extent) ExpandByValuesCoordinates(x, y float64) *Extent {
	e.expand(x, y)
	return e
}

func (e *Extent) expand(x, y float64) {
	e.West = math.Min(e.West, x)
	e.East = math.Max(e.East, x)
	e.South = math.Min(e.South, y)
	e.North = math.Max(e.North, y)
}

// SubdivisionByScheme splits e into sx by sy equal cells, ordered by
// column from east to west and, within a column, from north to south.
func (e *Extent) SubdivisionByScheme(sx, sy int) []*Extent {
	if sx < 1 || sy < 1 {
		return nil
	}
	dim := e.PlanarDimensions()
	w := dim.X / float64(sx)
	h := dim.Y / float64(sy)
	ret := make([]*Extent, 0, sx*sy)
	for x := sx - 1; x >= 0; x-- {
		for y := sy - 1; y >= 0; y-- {
			west := e.West + float64(x)*w
			south := e.South + float64(y)*h
			ret = append(ret, &Extent{
				CRS:   e.CRS,
				West:  west,
				East:  west + w,
				South: south,
				North: south + h,
			})
		}
	}
	return ret
}

// Subdivision is the 2x2 quadtree split.
func (e *Extent) Subdivision() []*Extent {
	return e.SubdivisionByScheme(2, 2)
}

// ApplyMatrix4 transforms the south-west and north-east corners by m and
// keeps their sorted bounds. m must be 4x4.
func (e *Extent) ApplyMatrix4(m mat.Matrix) *Extent {
	sw := transformPoint(m, r3.Vec{X: e.West, Y: e.South})
	ne := transformPoint(m, r3.Vec{X: e.East, Y: e.North})
	return e.Set(
		math.Min(sw.X, ne.X), math.Max(sw.X, ne.X),
		math.Min(sw.Y, ne.Y), math.Max(sw.Y, ne.Y),
	)
}

func (e *Extent) ClampSouthNorth(south, north float64) *Extent {
	e.South = math.Max(e.South, south)
	e.North = math.Min(e.North, north)
	return e
}

func (e *Extent) ClampWestEast(west, east float64) *Extent {
	e.West = math.Max(e.West, west)
	e.East = math.Min(e.East, east)
	return e
}

// ClampByExtent clamps e to the bounds of other, ignoring its CRS.
func (e *Extent) ClampByExtent(other *Extent) *Extent {
	e.ClampSouthNorth(other.South, other.North)
	return e.ClampWestEast(other.West, other.East)
}

// ExtentFromBox3 builds the extent covering the X/Y range of box.
// Boxes in a geocentric CRS have their corners converted to WGS84 first.
func ExtentFromBox3(code string, box r3.Box) (*Extent, error) {
	min, max := box.Min, box.Max
	if crs.IsGeocentric(code) {
		var a, b Coordinates
		if _, err := NewCoordinates(code, min.X, min.Y, min.Z).ToWGS84(&a); err != nil {
			return nil, err
		}
		if _, err := NewCoordinates(code, max.X, max.Y, max.Z).ToWGS84(&b); err != nil {
			return nil, err
		}
		code, min, max = crs.WGS84, a.Vec(), b.Vec()
	}
	return NewExtent(code,
		math.Min(min.X, max.X), math.Max(min.X, max.X),
		math.Min(min.Y, max.Y), math.Max(min.Y, max.Y),
	)
}

// ExtentFromBound converts an orb bound whose points are expressed in code.
func ExtentFromBound(code string, b orb.Bound) (*Extent, error) {
	return NewExtent(code, b.Min.X(), b.Max.X(), b.Min.Y(), b.Max.Y())
}

func (e *Extent) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{e.West, e.South}, Max: orb.Point{e.East, e.North}}
}

// Feature returns the extent as a GeoJSON polygon feature carrying its CRS and bounds.
func (e *Extent) Feature() *geojson.Feature {
	f := geojson.NewFeature(e.Bound().ToPolygon())
	f.Properties["crs"] = e.CRS
	f.Properties["west"] = e.West
	f.Properties["east"] = e.East
	f.Properties["south"] = e.South
	f.Properties["north"] = e.North
	return f
}

func FeatureCollection(extents []*Extent) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, e := range extents {
		fc.Append(e.Feature())
	}
	return fc
}
