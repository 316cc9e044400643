package tiles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolution(t *testing.T) {
	require.InDelta(t, 152.8740565703525, Resolution(10), 1e-9)
	require.Equal(t, 10, Zoom(152.8740565703525))
	require.Equal(t, 0, Zoom(Resolution(0)))
}

func TestLatLonToMeters(t *testing.T) {
	x, y := LatLonToMeters(62.3, 14.1)
	require.InDelta(t, 1569604.8201851572, x, 1e-6)
	require.InDelta(t, 8930630.669201756, y, 1e-6)

	lat, lon := MetersToLatLon(x, y)
	require.InDelta(t, 62.3, lat, 1e-9)
	require.InDelta(t, 14.1, lon, 1e-9)
}

func TestPixels(t *testing.T) {
	x, y := PixelsToMeters(123456789, 123456789, 15)
	require.InDelta(t, 569754371.206588, x, 1e-5)
	require.InDelta(t, 569754371.206588, y, 1e-5)

	px, py := MetersToPixels(x, y, 15)
	require.InDelta(t, 123456789.0, px, 1e-5)
	require.InDelta(t, 123456789.0, py, 1e-5)

	px, py = LatLonToPixels(62.3, 14.1, 15)
	require.InDelta(t, 4522857.8133333335, px, 1e-6)
	require.InDelta(t, 6063687.123767246, py, 1e-6)

	lat, lon := PixelsToLatLon(px, py, 15)
	require.InDelta(t, 62.3, lat, 1e-9)
	require.InDelta(t, 14.1, lon, 1e-9)

	tx, ty := PixelsToTile(123456789, 123456789)
	require.Equal(t, 482253, tx)
	require.Equal(t, 482253, ty)

	tx, ty = MetersToTile(x, y, 15)
	require.Equal(t, 482253, tx)
	require.Equal(t, 482253, ty)
}
