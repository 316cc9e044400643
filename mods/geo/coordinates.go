package geo

import (
	"fmt"
	"math"

	"github.com/machbase/neo-geo/mods/geo/crs"
	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const defaultGeographic = crs.WGS84

// mercatorLatLimit keeps the web mercator northing finite at the poles.
const mercatorLatLimit = 89.999999

// Coordinates is a point in three dimensions tagged with the code of the CRS it is expressed in.
// For geographic systems X is the longitude and Y the latitude, in degrees, and Z the altitude.
type Coordinates struct {
	CRS string
	X   float64
	Y   float64
	Z   float64
}

func NewCoordinates(code string, x, y, z float64) *Coordinates {
	return &Coordinates{CRS: code, X: x, Y: y, Z: z}
}

// CoordinatesFromPoint converts a planar orb point into coordinates with zero altitude.
func CoordinatesFromPoint(code string, p orb.Point) *Coordinates {
	return NewCoordinates(code, p.X(), p.Y(), 0)
}

func (c *Coordinates) SetCRS(code string) *Coordinates {
	c.CRS = code
	return c
}

func (c *Coordinates) SetFromValues(x, y, z float64) *Coordinates {
	c.X, c.Y, c.Z = x, y, z
	return c
}

// SetFromArray reads x, y and z from arr. Missing components are set to 0.
func (c *Coordinates) SetFromArray(arr []float64) *Coordinates {
	var v [3]float64
	copy(v[:], arr)
	return c.SetFromValues(v[0], v[1], v[2])
}

func (c *Coordinates) SetFromVec(v r3.Vec) *Coordinates {
	return c.SetFromValues(v.X, v.Y, v.Z)
}

// Copy sets c to the values and CRS of src.
func (c *Coordinates) Copy(src *Coordinates) *Coordinates {
	*c = *src
	return c
}

func (c *Coordinates) Clone() *Coordinates {
	ret := *c
	return &ret
}

func (c *Coordinates) Vec() r3.Vec {
	return r3.Vec{X: c.X, Y: c.Y, Z: c.Z}
}

func (c *Coordinates) Array() []float64 {
	return []float64{c.X, c.Y, c.Z}
}

// Point drops the altitude.
func (c *Coordinates) Point() orb.Point {
	return orb.Point{c.X, c.Y}
}

func (c *Coordinates) Longitude() float64 { return c.X }
func (c *Coordinates) Latitude() float64  { return c.Y }
func (c *Coordinates) Altitude() float64  { return c.Z }

func (c *Coordinates) SetAltitude(alt float64) *Coordinates {
	c.Z = alt
	return c
}

// Equals reports whether o has the same CRS and every component within epsilon.
func (c *Coordinates) Equals(o *Coordinates, epsilon float64) bool {
	return c.CRS == o.CRS &&
		math.Abs(c.X-o.X) <= epsilon &&
		math.Abs(c.Y-o.Y) <= epsilon &&
		math.Abs(c.Z-o.Z) <= epsilon
}

func (c *Coordinates) String() string {
	return fmt.Sprintf("Coordinates(%s x=%v y=%v z=%v)", c.CRS, c.X, c.Y, c.Z)
}

// ApplyMatrix4 transforms the point by a 4x4 matrix with perspective divide.
func (c *Coordinates) ApplyMatrix4(m mat.Matrix) *Coordinates {
	return c.SetFromVec(transformPoint(m, c.Vec()))
}

// GeodesicNormal returns the up vector of the coordinates:
// the ellipsoid normal for geocentric points, the spherical normal for WGS84,
// and +Z for every other CRS.
func (c *Coordinates) GeodesicNormal() r3.Vec {
	switch crs.KindOf(c.CRS) {
	case crs.KindGeocentric:
		return wgs84Ellipsoid.GeodeticSurfaceNormal(c.Vec())
	case crs.KindWGS84:
		return wgs84Ellipsoid.GeodeticSurfaceNormalCartographic(c)
	default:
		return r3.Vec{Z: 1}
	}
}

// ReprojectTo writes c expressed in code into target and returns it.
// A nil target allocates a new Coordinates. The receiver is never modified,
// unless it is also the target.
func (c *Coordinates) ReprojectTo(code string, target *Coordinates) (*Coordinates, error) {
	x, y, z := c.X, c.Y, c.Z
	if c.CRS != code {
		if crs.IsWGS84(c.CRS) && code == crs.Mercator {
			y = math.Max(-mercatorLatLimit, math.Min(mercatorLatLimit, y))
		}
		conv, err := crs.GetConverter(c.CRS, code)
		if err != nil {
			return nil, fmt.Errorf("reproject %s to %s: %w", c.CRS, code, err)
		}
		x, y, z = conv(x, y, z)
	}
	if target == nil {
		target = &Coordinates{}
	}
	target.CRS = code
	return target.SetFromValues(x, y, z), nil
}

func (c *Coordinates) ToMercator(target *Coordinates) (*Coordinates, error) {
	return c.ReprojectTo(crs.Mercator, target)
}

func (c *Coordinates) ToWGS84(target *Coordinates) (*Coordinates, error) {
	return c.ReprojectTo(crs.WGS84, target)
}

func (c *Coordinates) ToGeodesic(target *Coordinates) (*Coordinates, error) {
	return c.ReprojectTo(crs.Geocentric, target)
}

// PlanarDistanceTo is the distance in the XY plane, ignoring Z and both CRS.
func (c *Coordinates) PlanarDistanceTo(o *Coordinates) float64 {
	return math.Hypot(c.X-o.X, c.Y-o.Y)
}

// GeodeticDistanceTo is the approximate surface distance in meters.
func (c *Coordinates) GeodeticDistanceTo(o *Coordinates) (float64, error) {
	var a, b Coordinates
	if _, err := c.ToWGS84(&a); err != nil {
		return 0, err
	}
	if _, err := o.ToWGS84(&b); err != nil {
		return 0, err
	}
	return wgs84Ellipsoid.GeodesicDistance(&a, &b), nil
}

// SpatialEuclideanDistanceTo is the straight line distance in geocentric space.
func (c *Coordinates) SpatialEuclideanDistanceTo(o *Coordinates) (float64, error) {
	var a, b Coordinates
	if _, err := c.ToGeodesic(&a); err != nil {
		return 0, err
	}
	if _, err := o.ToGeodesic(&b); err != nil {
		return 0, err
	}
	return r3.Norm(r3.Sub(a.Vec(), b.Vec())), nil
}

// transformPoint applies m to v as a homogeneous point. m must be 4x4.
func transformPoint(m mat.Matrix, v r3.Vec) r3.Vec {
	if r, c := m.Dims(); r != 4 || c != 4 {
		panic(mat.ErrShape)
	}
	w := m.At(3, 0)*v.X + m.At(3, 1)*v.Y + m.At(3, 2)*v.Z + m.At(3, 3)
	w = 1 / w
	return r3.Vec{
		X: (m.At(0, 0)*v.X + m.At(0, 1)*v.Y + m.At(0, 2)*v.Z + m.At(0, 3)) * w,
		Y: (m.At(1, 0)*v.X + m.At(1, 1)*v.Y + m.At(1, 2)*v.Z + m.At(1, 3)) * w,
		Z: (m.At(2, 0)*v.X + m.At(2, 1)*v.Y + m.At(2, 2)*v.Z + m.At(2, 3)) * w,
	}
}
