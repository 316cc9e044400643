package crs

import (
	"fmt"
	"math"

	"github.com/wroge/wgs84"
)

type spheroid struct {
	a, fi float64
}

func (s spheroid) A() float64 {
	return s.a
}
func (s spheroid) Fi() float64 {
	return s.fi
}

var anywhere = wgs84.AreaFunc(func(lon, lat float64) bool {
	return true
})

func (def *Definition) datum() wgs84.Datum {
	a, rf := def.Spheroid()
	return wgs84.Datum{
		Spheroid: spheroid{a: a, fi: rf},
		Area:     anywhere,
	}
}

// system maps the definition onto a wgs84 coordinate reference system.
// Easting/northing of the returned system are always meters, see scale().
func (def *Definition) system() (wgs84.CoordinateReferenceSystem, error) {
	switch {
	case def.IsGeographic():
		return def.datum().LonLat(), nil
	case def.IsGeocentric():
		return def.datum().XYZ(), nil
	}
	switch def.ProjName {
	case "merc":
		// only the spherical web mercator, e.g.
		// +proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +nadgrids=@null
		a, rf := def.Spheroid()
		if a != 6378137 || !math.IsInf(rf, 1) || def.Lon0 != 0 || def.X0 != 0 || def.Y0 != 0 || def.K0 != 1 {
			return nil, fmt.Errorf("%w: ellipsoidal mercator", ErrUnsupportedProjection)
		}
		return wgs84.WebMercator(), nil
	case "tmerc":
		return def.datum().TransverseMercator(def.Lon0, def.Lat0, def.K0, def.X0, def.Y0), nil
	case "utm":
		northf := 0.0
		if def.South {
			northf = 10000000
		}
		lonf := float64(def.Zone)*6 - 183
		return def.datum().TransverseMercator(lonf, 0, 0.9996, 500000, northf), nil
	}
	return nil, fmt.Errorf("%w: +proj=%s", ErrUnsupportedProjection, def.ProjName)
}

// newConverter composes the wgs84 transform with the unit scaling of both ends.
func newConverter(from, to *Definition) (Converter, error) {
	src, err := from.system()
	if err != nil {
		return nil, err
	}
	dst, err := to.system()
	if err != nil {
		return nil, err
	}
	transform := wgs84.Transform(src, dst)
	srcScale, dstScale := from.scale(), to.scale()
	if srcScale == 1 && dstScale == 1 {
		return Converter(transform), nil
	}
	return func(x, y, z float64) (float64, float64, float64) {
		a, b, c := transform(x*srcScale, y*srcScale, z)
		return a / dstScale, b / dstScale, c
	}, nil
}
