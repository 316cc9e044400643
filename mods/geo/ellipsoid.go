package geo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// WGS84Size holds the semi-axes of the WGS84 reference ellipsoid in meters.
var WGS84Size = r3.Vec{X: 6378137, Y: 6378137, Z: 6356752.3142451793}

// Ellipsoid is an ellipsoid of revolution centered at the origin.
// The derived fields are only ever changed together by SetSize.
type Ellipsoid struct {
	size            r3.Vec
	radiiSquared    r3.Vec
	invRadiiSquared r3.Vec
	eccentricity    float64
}

var wgs84Ellipsoid = *NewEllipsoid(WGS84Size)

func NewEllipsoid(size r3.Vec) *Ellipsoid {
	return new(Ellipsoid).SetSize(size)
}

// WGS84Ellipsoid returns a new ellipsoid sized to WGS84.
func WGS84Ellipsoid() *Ellipsoid {
	e := wgs84Ellipsoid
	return &e
}

func inverse(v float64) float64 {
	if v == 0 {
		return 0
	}
	return 1 / v
}

// SetSize sets the three semi-axes. A zero axis yields a zero inverse radius.
func (e *Ellipsoid) SetSize(size r3.Vec) *Ellipsoid {
	e.size = size
	e.radiiSquared = mulElem(size, size)
	e.invRadiiSquared = r3.Vec{
		X: inverse(e.radiiSquared.X),
		Y: inverse(e.radiiSquared.Y),
		Z: inverse(e.radiiSquared.Z),
	}
	e.eccentricity = math.Sqrt(e.radiiSquared.X-e.radiiSquared.Z) / size.X
	return e
}

func (e *Ellipsoid) Size() r3.Vec            { return e.size }
func (e *Ellipsoid) RadiiSquared() r3.Vec    { return e.radiiSquared }
func (e *Ellipsoid) InvRadiiSquared() r3.Vec { return e.invRadiiSquared }
func (e *Ellipsoid) Eccentricity() float64   { return e.eccentricity }

// GeodeticSurfaceNormal returns the surface normal at a cartesian point
// expressed in the ellipsoid centered frame.
func (e *Ellipsoid) GeodeticSurfaceNormal(p r3.Vec) r3.Vec {
	return r3.Unit(mulElem(p, e.invRadiiSquared))
}

// GeodeticSurfaceNormalCartographic returns the geographic normal at the
// longitude/latitude of c, in degrees. The flattening is ignored.
func (e *Ellipsoid) GeodeticSurfaceNormalCartographic(c *Coordinates) r3.Vec {
	lon := degToRad(c.Longitude())
	lat := degToRad(c.Latitude())
	cosLat := math.Cos(lat)
	return r3.Vec{
		X: cosLat * math.Cos(lon),
		Y: cosLat * math.Sin(lon),
		Z: math.Sin(lat),
	}
}

// CartographicToCartesian places a longitude, latitude, altitude coordinate
// on (or above) the ellipsoid.
func (e *Ellipsoid) CartographicToCartesian(c *Coordinates) r3.Vec {
	normal := c.GeodesicNormal()
	k := mulElem(e.radiiSquared, normal)
	gamma := math.Sqrt(r3.Dot(normal, k))
	surface := r3.Scale(1/gamma, k)
	return r3.Add(surface, r3.Scale(c.Altitude(), normal))
}

// CartesianToCartographic converts a point of the ellipsoid frame to
// longitude/latitude in degrees and height in meters, with Bowring's closed
// form. Only valid for an oblate ellipsoid of revolution.
// A nil target allocates a new WGS84 coordinate.
func (e *Ellipsoid) CartesianToCartographic(p r3.Vec, target *Coordinates) *Coordinates {
	if target == nil {
		target = &Coordinates{}
	}
	R := r3.Norm(p)
	a := e.size.X
	b := e.size.Z
	ee := math.Abs((a*a - b*b) / (a * a))
	f := 1 - math.Sqrt(1-ee)
	rsqXY := math.Hypot(p.X, p.Y)

	theta := math.Atan2(p.Y, p.X)
	nu := math.Atan(p.Z / rsqXY * ((1 - f) + ee*a/R))
	sinu, cosu := math.Sin(nu), math.Cos(nu)

	phi := math.Atan((p.Z*(1-f) + ee*a*sinu*sinu*sinu) / ((1 - f) * (rsqXY - ee*a*cosu*cosu*cosu)))
	sinPhi := math.Sin(phi)
	h := rsqXY*math.Cos(phi) + p.Z*sinPhi - a*math.Sqrt(1-ee*sinPhi*sinPhi)

	target.CRS = defaultGeographic
	return target.SetFromValues(radToDeg(theta), radToDeg(phi), h)
}

// Ray is a half line starting at Origin.
type Ray struct {
	Origin    r3.Vec
	Direction r3.Vec
}

func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Direction))
}

const intersectionEpsilon = 0.0001

// Intersection returns the nearest point in front of the ray origin where the
// ray meets the ellipsoid surface.
func (e *Ellipsoid) Intersection(ray Ray) (r3.Vec, bool) {
	o, dir, inv := ray.Origin, ray.Direction, e.invRadiiSquared

	a := dir.X*dir.X*inv.X + dir.Y*dir.Y*inv.Y + dir.Z*dir.Z*inv.Z
	b := 2*o.X*dir.X*inv.X + 2*o.Y*dir.Y*inv.Y + 2*o.Z*dir.Z*inv.Z
	c := o.X*o.X*inv.X + o.Y*o.Y*inv.Y + o.Z*o.Z*inv.Z - 1

	d := b*b - 4*a*c
	if d < 0 || a == 0 || b == 0 || c == 0 {
		return r3.Vec{}, false
	}
	d = math.Sqrt(d)
	t1 := (-b + d) / (2 * a)
	t2 := (-b - d) / (2 * a)
	if t1 <= intersectionEpsilon && t2 <= intersectionEpsilon {
		// both behind the origin
		return r3.Vec{}, false
	}
	var t float64
	switch {
	case t1 <= intersectionEpsilon:
		t = t2
	case t2 <= intersectionEpsilon:
		// origin inside the ellipsoid
		t = t1
	default:
		t = math.Min(t1, t2)
	}
	if t < intersectionEpsilon {
		return r3.Vec{}, false
	}
	return ray.At(t), true
}

// GeodesicDistance approximates the distance along the surface between two
// longitude/latitude coordinates: the spherical central angle scaled by the
// mean local radius of curvature sqrt(rho*N) at the mean latitude.
// It is not an exact geodesic (e.g. Vincenty).
func (e *Ellipsoid) GeodesicDistance(a, b *Coordinates) float64 {
	lon1, lat1 := degToRad(a.Longitude()), degToRad(a.Latitude())
	lon2, lat2 := degToRad(b.Longitude()), degToRad(b.Latitude())

	distRad := math.Acos(math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(lon2-lon1))

	ecc := e.eccentricity
	latMean := (lat1 + lat2) * 0.5
	es := math.Pow(ecc*math.Sin(latMean), 2)
	rho := e.size.X * (1 - ecc*ecc) / math.Pow(1-es, 1.5)
	n := e.size.X / math.Sqrt(1-es)
	return distRad * math.Sqrt(rho*n)
}

func mulElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

func degToRad(d float64) float64 {
	return d * math.Pi / 180.0
}

func radToDeg(r float64) float64 {
	return r * 180.0 / math.Pi
}
