package geo_test

import (
	"fmt"

	"github.com/machbase/neo-geo/mods/geo"
	"github.com/machbase/neo-geo/mods/geo/crs"
)

func ExampleExtent_SubdivisionByScheme() {
	ext, _ := geo.NewExtent(crs.WGS84, -10, 10, -5, 5)
	for _, e := range ext.SubdivisionByScheme(2, 2) {
		fmt.Println(e.Join(" "))
	}
	// Output:
	// 10 5 0 0
	// 10 0 0 -5
	// 0 5 -10 0
	// 0 0 -10 -5
}

func ExampleCoordinates_ToMercator() {
	c := geo.NewCoordinates(crs.WGS84, 116.3902, 39.9016, 0)
	m, err := c.ToMercator(nil)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%s %.2f %.2f\n", m.CRS, m.X, m.Y)
	// Output:
	// EPSG:3857 12956497.80 4851653.35
}
