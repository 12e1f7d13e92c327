// Package geo implements the great-circle and polygon predicates used to test
// whether a point of interest falls inside a CAP alert area.
//
// Points use the orb convention: X is longitude, Y is latitude. CAP encodes
// coordinates as "lat,lon" text, so the decoder swaps them when building
// points (see [NewPoint]).
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusKm is the mean Earth radius used by [Distance].
const EarthRadiusKm = 6371.0

// NewPoint builds an orb point from a latitude/longitude pair.
func NewPoint(lat, lon float64) orb.Point {
	return orb.Point{lon, lat}
}

// Distance returns the haversine great-circle distance between two points in kilometers.
func Distance(p1, p2 orb.Point) float64 {
	lat1, lon1 := p1.Lat(), p1.Lon()
	lat2, lon2 := p2.Lat(), p2.Lon()

	dLat := deg2rad(lat2 - lat1)
	dLon := deg2rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// PointInPolygon reports whether (x, y) lies inside ring using ray casting.
// The ring is treated as closed whether or not its last point repeats the first.
// x and y must use the same axis order as the ring's points.
func PointInPolygon(x, y float64, ring orb.Ring) bool {
	n := len(ring)
	if n == 0 {
		return false
	}

	inside := false
	p1x, p1y := ring[0][0], ring[0][1]
	for i := 0; i <= n; i++ {
		p2x, p2y := ring[i%n][0], ring[i%n][1]
		if y > math.Min(p1y, p2y) && y <= math.Max(p1y, p2y) && x <= math.Max(p1x, p2x) {
			var xinters float64
			if p1y != p2y {
				xinters = (y-p1y)*(p2x-p1x)/(p2y-p1y) + p1x
			}
			if p1x == p2x || x <= xinters {
				inside = !inside
			}
		}
		p1x, p1y = p2x, p2y
	}
	return inside
}

// Contains is PointInPolygon for an orb point.
func Contains(ring orb.Ring, p orb.Point) bool {
	return PointInPolygon(p[0], p[1], ring)
}

func deg2rad(d float64) float64 {
	return d * math.Pi / 180
}
