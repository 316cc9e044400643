// Package sun computes the apparent position of the sun with the low
// precision formulas of the Astronomical Almanac, good to about one
// hundredth of a degree for the current century.
package sun

import (
	"math"
	"time"

	"github.com/machbase/neo-geo/mods/geo"
	"github.com/machbase/neo-geo/mods/geo/crs"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	rad      = math.Pi / 180
	dayMs    = 1000 * 60 * 60 * 24
	j1970    = 2440588
	j2000    = 2451545
	obliquity = rad * 23.4397
)

// Ephemeris holds the sun position. Angles are in radians.
// Azimuth is measured from south, positive westward.
type Ephemeris struct {
	EclipticLongitude float64
	Declination       float64
	RightAscension    float64
	SiderealTime      float64
	HourAngle         float64
	Altitude          float64
	Azimuth           float64
}

func toDays(t time.Time) float64 {
	return float64(t.UnixMilli())/dayMs - 0.5 + j1970 - j2000
}

func solarMeanAnomaly(d float64) float64 {
	return rad * (357.5291 + 0.98560028*d)
}

func eclipticLongitude(m float64) float64 {
	c := rad * (1.9148*math.Sin(m) + 0.02*math.Sin(2*m) + 0.0003*math.Sin(3*m))
	perihelion := rad * 102.9372
	return m + c + perihelion + math.Pi
}

func rightAscension(l, b float64) float64 {
	return math.Atan2(math.Sin(l)*math.Cos(obliquity)-math.Tan(b)*math.Sin(obliquity), math.Cos(l))
}

func declination(l, b float64) float64 {
	return math.Asin(math.Sin(b)*math.Cos(obliquity) + math.Cos(b)*math.Sin(obliquity)*math.Sin(l))
}

func siderealTime(d, lw float64) float64 {
	return rad*(280.16+360.9856235*d) - lw
}

// Position returns the sun position seen from lat/lon, in degrees, at t.
func Position(t time.Time, lat, lon float64) Ephemeris {
	lw := rad * -lon
	phi := rad * lat
	d := toDays(t)

	l := eclipticLongitude(solarMeanAnomaly(d))
	dec := declination(l, 0)
	ra := rightAscension(l, 0)
	st := siderealTime(d, lw)
	h := st - ra

	return Ephemeris{
		EclipticLongitude: l,
		Declination:       dec,
		RightAscension:    ra,
		SiderealTime:      st,
		HourAngle:         h,
		Altitude:          math.Asin(math.Sin(phi)*math.Sin(dec) + math.Cos(phi)*math.Cos(dec)*math.Cos(h)),
		Azimuth:           math.Atan2(math.Sin(h), math.Cos(h)*math.Sin(phi)-math.Tan(dec)*math.Cos(phi)),
	}
}

// Subsolar returns the WGS84 point where the sun is at the zenith at t.
func Subsolar(t time.Time) *geo.Coordinates {
	d := toDays(t)
	l := eclipticLongitude(solarMeanAnomaly(d))
	lon := (rightAscension(l, 0) - siderealTime(d, 0)) / rad
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return geo.NewCoordinates(crs.WGS84, lon-180, declination(l, 0)/rad, 0)
}

// Direction returns the unit vector pointing from the earth center to the sun
// in the geocentric frame.
func Direction(t time.Time) (r3.Vec, error) {
	var p geo.Coordinates
	if _, err := Subsolar(t).ToGeodesic(&p); err != nil {
		return r3.Vec{}, err
	}
	return r3.Unit(p.Vec()), nil
}
