package geo

import "math"

// Bounds is a latitude/longitude rectangle in decimal degrees.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// BoundsAround returns a rectangle enclosing every point within radius
// meters of centre. Longitude spans the whole globe when the circle reaches
// a pole or crosses the antimeridian.
func BoundsAround(centre Point, radius float64) Bounds {
	r := radius / EarthRadiusMeters
	lat := toRadians(centre.Lat)
	minLat, maxLat := lat-r, lat+r

	b := Bounds{
		MinLat: toDegrees(math.Max(minLat, -math.Pi/2)),
		MaxLat: toDegrees(math.Min(maxLat, math.Pi/2)),
		MinLng: -180,
		MaxLng: 180,
	}
	if minLat <= -math.Pi/2 || maxLat >= math.Pi/2 {
		return b
	}

	dLng := math.Asin(math.Sin(r) / math.Cos(lat))
	minLng, maxLng := toRadians(centre.Lng)-dLng, toRadians(centre.Lng)+dLng
	if minLng >= -math.Pi && maxLng <= math.Pi {
		b.MinLng, b.MaxLng = toDegrees(minLng), toDegrees(maxLng)
	}
	return b
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
