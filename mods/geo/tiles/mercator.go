package tiles

import "math"

// Spherical Mercator pyramid in TMS pixel space: pixel and tile rows grow
// from the south edge of the world.
// See http://www.maptiler.org/google-maps-coordinates-tile-bounds-projection/

const (
	TileSize          = 256.0
	initialResolution = 2 * math.Pi * 6378137 / TileSize
	originShift       = 2 * math.Pi * 6378137 / 2
)

// Resolution calculates the resolution (meters/pixel) for given zoom level (measured at Equator)
func Resolution(zoom int) float64 {
	return initialResolution / math.Exp2(float64(zoom))
}

// Zoom gives the zoom level for given resolution (measured at Equator)
func Zoom(resolution float64) int {
	return int(math.Round(math.Log2(initialResolution / resolution)))
}

// LatLonToMeters converts given lat/lon in WGS84 Datum to XY in Spherical Mercator EPSG:3857
func LatLonToMeters(lat, lon float64) (float64, float64) {
	x := lon * originShift / 180
	y := math.Log(math.Tan((90+lat)*math.Pi/360)) / (math.Pi / 180)
	y = y * originShift / 180
	return x, y
}

// MetersToLatLon converts XY point from Spherical Mercator EPSG:3857 to lat/lon in WGS84 Datum
func MetersToLatLon(x, y float64) (float64, float64) {
	lon := (x / originShift) * 180
	lat := (y / originShift) * 180
	lat = 180 / math.Pi * (2*math.Atan(math.Exp(lat*math.Pi/180)) - math.Pi/2)
	return lat, lon
}

// PixelsToMeters converts pixel coordinates in given zoom level of pyramid to EPSG:3857
func PixelsToMeters(px, py float64, zoom int) (float64, float64) {
	res := Resolution(zoom)
	return px*res - originShift, py*res - originShift
}

// MetersToPixels converts EPSG:3857 to pixel coordinates in given zoom level
func MetersToPixels(x, y float64, zoom int) (float64, float64) {
	res := Resolution(zoom)
	return (x + originShift) / res, (y + originShift) / res
}

func LatLonToPixels(lat, lon float64, zoom int) (float64, float64) {
	x, y := LatLonToMeters(lat, lon)
	return MetersToPixels(x, y, zoom)
}

func PixelsToLatLon(px, py float64, zoom int) (float64, float64) {
	x, y := PixelsToMeters(px, py, zoom)
	return MetersToLatLon(x, y)
}

// PixelsToTile returns the TMS tile covering the pixel.
func PixelsToTile(px, py float64) (int, int) {
	return int(math.Floor(px / TileSize)), int(math.Floor(py / TileSize))
}

// MetersToTile returns the TMS tile covering the mercator point.
func MetersToTile(x, y float64, zoom int) (int, int) {
	px, py := MetersToPixels(x, y, zoom)
	return PixelsToTile(px, py)
}
