// Package crs keeps the process wide table of coordinate reference systems.
//
// A CRS is identified by an opaque code such as "EPSG:4326" and described by a
// proj string. Definitions may be added at any time; converters between two
// codes are built on first use and cached for the life of the process.
package crs

import (
	"errors"
	"fmt"
)

const (
	// WGS84 is geographic longitude/latitude in degrees.
	WGS84 = "EPSG:4326"
	// Mercator is spherical web mercator in meters.
	Mercator = "EPSG:3857"
	// Geocentric is earth centered, earth fixed cartesian meters.
	Geocentric = "EPSG:4978"
)

var (
	ErrUnknownCRS            = errors.New("crs is not registered")
	ErrUndefinedUnit         = errors.New("crs unit is undefined")
	ErrInvalidDefinition     = errors.New("invalid proj definition")
	ErrUnsupportedProjection = errors.New("unsupported projection")
)

type Unit int

const (
	UnitUndefined Unit = iota
	UnitDegree
	UnitMeter
	UnitFoot
)

func (u Unit) String() string {
	switch u {
	case UnitDegree:
		return "degree"
	case UnitMeter:
		return "meter"
	case UnitFoot:
		return "foot"
	default:
		return "undefined"
	}
}

// Kind is the closed set of coordinate systems that geometry code treats specially.
type Kind int

const (
	KindOther Kind = iota
	KindWGS84
	KindGeocentric
)

func (k Kind) String() string {
	switch k {
	case KindWGS84:
		return "wgs84"
	case KindGeocentric:
		return "geocentric"
	default:
		return "other"
	}
}

// Converter transforms a point from one CRS to another.
type Converter func(x, y, z float64) (float64, float64, float64)

func identity(x, y, z float64) (float64, float64, float64) { return x, y, z }

func unknown(code string) error {
	return fmt.Errorf("%w: %q", ErrUnknownCRS, code)
}

var defaultRegistry = NewRegistry()

// Default returns the process wide registry used by the package level functions.
func Default() *Registry { return defaultRegistry }

func Define(code, proj string)               { defaultRegistry.Define(code, proj) }
func Lookup(code string) (*Definition, bool) { return defaultRegistry.Lookup(code) }
func Codes() []string                        { return defaultRegistry.Codes() }
func KindOf(code string) Kind                { return defaultRegistry.KindOf(code) }
func IsWGS84(code string) bool               { return code == WGS84 }
func IsGeocentric(code string) bool          { return defaultRegistry.IsGeocentric(code) }
func UnitOf(code string) Unit                { return defaultRegistry.UnitOf(code) }
func IsMetric(code string) bool              { return defaultRegistry.IsMetric(code) }
func IsGeographic(code string) bool          { return defaultRegistry.IsGeographic(code) }
func AssertValid(code string) error          { return defaultRegistry.AssertValid(code) }
func IsValid(code string) bool               { return defaultRegistry.AssertValid(code) == nil }
func AxisOrder(code string) (string, bool)   { return defaultRegistry.AxisOrder(code) }

// ReasonableEpsilon is a comparison tolerance sized to the unit of the CRS.
func ReasonableEpsilon(code string) float64 {
	if IsWGS84(code) {
		return 0.01
	}
	return 0.001
}

// GetConverter returns the cached converter from src to dst.
func GetConverter(src, dst string) (Converter, error) {
	return defaultRegistry.Converter(src, dst)
}
