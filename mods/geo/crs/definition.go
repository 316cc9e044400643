package crs

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Definition is a parsed proj string.
type Definition struct {
	Source   string
	ProjName string
	Units    string
	ToMeter  float64 // zero when the definition has no +to_meter
	Axis     string
	Ellps    string
	Datum    string
	A        float64
	B        float64
	Rf       float64
	Lon0     float64
	Lat0     float64
	K0       float64
	X0       float64
	Y0       float64
	Zone     int
	South    bool
	Params   map[string]string
}

type ellipsoid struct {
	a, rf float64
}

var ellipsoids = map[string]ellipsoid{
	"wgs84":  {a: 6378137, rf: 298.257223563},
	"grs80":  {a: 6378137, rf: 298.257222101},
	"intl":   {a: 6378388, rf: 297},
	"bessel": {a: 6377397.155, rf: 299.1528128},
	"clrk66": {a: 6378206.4, rf: 294.9786982},
	"krass":  {a: 6378245, rf: 298.3},
	"airy":   {a: 6377563.396, rf: 299.3249646},
	"sphere": {a: 6370997, rf: math.Inf(1)},
}

var datums = map[string]string{
	"wgs84":   "wgs84",
	"nad83":   "grs80",
	"nad27":   "clrk66",
	"potsdam": "bessel",
	"osgb36":  "airy",
	"ggrs87":  "grs80",
}

// ParseDefinition parses a proj string such as
// "+proj=tmerc +lat_0=38 +lon_0=127 +k=1 +x_0=200000 +y_0=500000 +ellps=GRS80 +units=m +no_defs".
func ParseDefinition(proj string) (*Definition, error) {
	def := &Definition{Source: proj, K0: 1, Params: map[string]string{}}
	for _, tok := range strings.Fields(proj) {
		tok = strings.TrimPrefix(tok, "+")
		if tok == "" {
			continue
		}
		key, value, _ := strings.Cut(tok, "=")
		def.Params[strings.ToLower(key)] = value
	}
	def.ProjName = def.Params["proj"]
	if def.ProjName == "" {
		return nil, fmt.Errorf("%w: missing +proj in %q", ErrInvalidDefinition, proj)
	}
	def.Units = def.Params["units"]
	def.Axis = def.Params["axis"]
	def.Ellps = strings.ToLower(def.Params["ellps"])
	def.Datum = strings.ToLower(def.Params["datum"])
	if _, ok := def.Params["south"]; ok {
		def.South = true
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"to_meter", &def.ToMeter},
		{"a", &def.A},
		{"b", &def.B},
		{"rf", &def.Rf},
		{"lon_0", &def.Lon0},
		{"lat_0", &def.Lat0},
		{"k", &def.K0},
		{"k_0", &def.K0},
		{"x_0", &def.X0},
		{"y_0", &def.Y0},
	}
	for _, f := range floats {
		str, ok := def.Params[f.key]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: +%s=%s", ErrInvalidDefinition, f.key, str)
		}
		*f.dst = v
	}
	if str, ok := def.Params["zone"]; ok {
		zone, err := strconv.Atoi(str)
		if err != nil || zone < 1 || zone > 60 {
			return nil, fmt.Errorf("%w: +zone=%s", ErrInvalidDefinition, str)
		}
		def.Zone = zone
	}
	if def.ProjName == "utm" && def.Zone == 0 {
		return nil, fmt.Errorf("%w: utm requires +zone", ErrInvalidDefinition)
	}
	return def, nil
}

// IsGeographic reports whether the projection is a plain longitude/latitude system.
func (def *Definition) IsGeographic() bool {
	switch def.ProjName {
	case "longlat", "latlong", "lonlat", "latlon":
		return true
	}
	return false
}

func (def *Definition) IsGeocentric() bool {
	return def.ProjName == "geocent"
}

// Unit resolves +units and +to_meter. With neither present the proj
// convention applies: projected coordinates are meters.
func (def *Definition) Unit() Unit {
	_, hasToMeter := def.Params["to_meter"]
	switch strings.ToLower(def.Units) {
	case "degrees", "degree", "deg":
		return UnitDegree
	case "m", "meter", "metre":
		return UnitMeter
	case "ft", "foot", "us-ft":
		return UnitFoot
	case "":
		if def.IsGeographic() {
			return UnitDegree
		}
		if !hasToMeter {
			return UnitMeter
		}
		switch {
		case def.ToMeter == 1:
			return UnitMeter
		case math.Abs(def.ToMeter-0.3048) < 1e-6, math.Abs(def.ToMeter-0.3048006096) < 1e-9:
			return UnitFoot
		}
	}
	return UnitUndefined
}

// Spheroid returns the semi-major axis and inverse flattening, WGS84 unless
// the definition says otherwise. A sphere has an infinite inverse flattening.
func (def *Definition) Spheroid() (a, rf float64) {
	base := ellipsoids["wgs84"]
	if e, ok := ellipsoids[def.Ellps]; ok {
		base = e
	} else if name, ok := datums[def.Datum]; ok {
		base = ellipsoids[name]
	}
	a, rf = base.a, base.rf
	if def.A > 0 {
		a = def.A
		switch {
		case def.B > 0 && def.B == def.A:
			rf = math.Inf(1)
		case def.B > 0:
			rf = a / (a - def.B)
		case def.Rf > 0:
			rf = def.Rf
		}
	} else if def.Rf > 0 {
		rf = def.Rf
	}
	return
}

// scale is the factor that turns projected units into meters.
func (def *Definition) scale() float64 {
	if def.IsGeographic() || def.IsGeocentric() {
		return 1
	}
	if def.ToMeter > 0 {
		return def.ToMeter
	}
	switch strings.ToLower(def.Units) {
	case "ft", "foot":
		return 0.3048
	case "us-ft":
		return 1200.0 / 3937.0
	}
	return 1
}

func (def *Definition) String() string {
	keys := make([]string, 0, len(def.Params))
	for k := range def.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	toks := make([]string, 0, len(keys))
	for _, k := range keys {
		if v := def.Params[k]; v != "" {
			toks = append(toks, "+"+k+"="+v)
		} else {
			toks = append(toks, "+"+k)
		}
	}
	return strings.Join(toks, " ")
}
