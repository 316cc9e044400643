package crs

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/machbase/neo-geo/mods/logging"
	cmap "github.com/orcaman/concurrent-map/v2"
	gometrics "github.com/rcrowley/go-metrics"
)

var (
	converterHits   = gometrics.NewRegisteredCounter("geo.crs.converter.hits", gometrics.DefaultRegistry)
	converterMisses = gometrics.NewRegisteredCounter("geo.crs.converter.misses", gometrics.DefaultRegistry)
	converterErrors = gometrics.NewRegisteredCounter("geo.crs.converter.errors", gometrics.DefaultRegistry)
)

var builtins = map[string]string{
	WGS84:      "+proj=longlat +ellps=WGS84 +datum=WGS84 +units=degrees +no_defs",
	Mercator:   "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +nadgrids=@null +wktext +no_defs",
	Geocentric: "+proj=geocent +datum=WGS84 +units=m +no_defs",
}

type entry struct {
	source string
	once   sync.Once
	def    *Definition
	err    error
}

func (e *entry) parse() (*Definition, error) {
	e.once.Do(func() {
		e.def, e.err = ParseDefinition(e.source)
	})
	return e.def, e.err
}

// Registry is a concurrency safe table of CRS definitions and the
// converters derived from them. Definitions are never removed.
type Registry struct {
	defs       cmap.ConcurrentMap[string, *entry]
	converters cmap.ConcurrentMap[string, Converter]
}

// NewRegistry returns a registry holding the built-in WGS84, Mercator and Geocentric systems.
func NewRegistry() *Registry {
	r := &Registry{
		defs:       cmap.New[*entry](),
		converters: cmap.New[Converter](),
	}
	for code, proj := range builtins {
		r.defs.Set(code, &entry{source: proj})
	}
	return r
}

func (r *Registry) log() logging.Log {
	return logging.GetLog("crs")
}

// Define registers or overwrites a CRS. The proj string is not validated here,
// a malformed definition fails on first use.
func (r *Registry) Define(code, proj string) {
	prev, existed := r.defs.Get(code)
	r.defs.Set(code, &entry{source: proj})
	if existed {
		if prev.source == proj {
			return
		}
		// cached converters were built from the previous definition
		for _, key := range r.converters.Keys() {
			src, dst := splitPair(key)
			if src == code || dst == code {
				r.converters.Remove(key)
			}
		}
		r.log().Debugf("redefine %s %s", code, proj)
		return
	}
	r.log().Debugf("define %s %s", code, proj)
}

// Lookup returns the parsed definition of a registered code.
func (r *Registry) Lookup(code string) (*Definition, bool) {
	e, ok := r.defs.Get(code)
	if !ok {
		return nil, false
	}
	def, err := e.parse()
	if err != nil {
		return nil, false
	}
	return def, true
}

func (r *Registry) Codes() []string {
	keys := r.defs.Keys()
	sort.Strings(keys)
	return keys
}

func (r *Registry) definition(code string) (*Definition, error) {
	e, ok := r.defs.Get(code)
	if !ok {
		return nil, unknown(code)
	}
	def, err := e.parse()
	if err != nil {
		return nil, fmt.Errorf("crs %q: %w", code, err)
	}
	return def, nil
}

func (r *Registry) KindOf(code string) Kind {
	if IsWGS84(code) {
		return KindWGS84
	}
	if r.IsGeocentric(code) {
		return KindGeocentric
	}
	return KindOther
}

func (r *Registry) IsGeocentric(code string) bool {
	def, ok := r.Lookup(code)
	return ok && def.IsGeocentric()
}

// UnitOf returns UnitUndefined for unknown codes as well as unresolvable units.
func (r *Registry) UnitOf(code string) Unit {
	def, ok := r.Lookup(code)
	if !ok {
		return UnitUndefined
	}
	return def.Unit()
}

func (r *Registry) IsMetric(code string) bool {
	return r.UnitOf(code) == UnitMeter
}

func (r *Registry) IsGeographic(code string) bool {
	return r.UnitOf(code) == UnitDegree
}

func (r *Registry) AssertValid(code string) error {
	def, err := r.definition(code)
	if err != nil {
		return err
	}
	if def.Unit() == UnitUndefined {
		return fmt.Errorf("%w: %q", ErrUndefinedUnit, code)
	}
	return nil
}

// AxisOrder returns the +axis parameter, "enu" when it is absent.
func (r *Registry) AxisOrder(code string) (string, bool) {
	def, ok := r.Lookup(code)
	if !ok {
		return "", false
	}
	if def.Axis == "" {
		return "enu", true
	}
	return def.Axis, true
}

// Converter returns the converter from src to dst, building and caching it on
// the first request for the ordered pair.
func (r *Registry) Converter(src, dst string) (Converter, error) {
	key := pairKey(src, dst)
	if c, ok := r.converters.Get(key); ok {
		converterHits.Inc(1)
		return c, nil
	}
	converterMisses.Inc(1)

	from, err := r.definition(src)
	if err != nil {
		converterErrors.Inc(1)
		return nil, err
	}
	to, err := r.definition(dst)
	if err != nil {
		converterErrors.Inc(1)
		return nil, err
	}
	var conv Converter
	if src == dst {
		conv = identity
	} else if conv, err = newConverter(from, to); err != nil {
		converterErrors.Inc(1)
		r.log().Warnf("converter %s -> %s %s", src, dst, err.Error())
		return nil, fmt.Errorf("converter %s -> %s: %w", src, dst, err)
	}
	r.converters.SetIfAbsent(key, conv)
	if c, ok := r.converters.Get(key); ok {
		return c, nil
	}
	return conv, nil
}

const pairSep = "\x1f"

func pairKey(src, dst string) string {
	return src + pairSep + dst
}

func splitPair(key string) (string, string) {
	src, dst, _ := strings.Cut(key, pairSep)
	return src, dst
}
