// Package geo provides the two distance models used by restaurant search:
// a rectangular bounding-box approximation for cheap candidate filtering,
// and exact haversine great-circle distance for proximity scoring.
// The two are intentionally separate; unifying them changes which
// restaurants are returned at all, not just their order.
package geo

import (
	"math"
	"strings"
)

// EarthRadiusKm is the mean radius of the Earth in kilometers.
const EarthRadiusKm = 6371.0

// KmPerDegreeLat is the approximate number of kilometers per degree of
// latitude. Longitude degrees shrink with latitude by cos(lat).
const KmPerDegreeLat = 111.32

// BBox is a rectangular latitude/longitude admission region.
type BBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// BoundingBox returns the rectangle that approximates a circle of
// radiusKm around (lat, lng). Candidates near the rectangle's corners
// may sit farther than radiusKm true distance; that over-admission is
// accepted by the filter and corrected by haversine scoring.
//
// latDelta = R / 111.32
// lngDelta = R / (111.32 * cos(lat))
func BoundingBox(lat, lng, radiusKm float64) BBox {
	latDelta := radiusKm / KmPerDegreeLat
	lngDelta := radiusKm / (KmPerDegreeLat * math.Cos(lat*math.Pi/180))
	return BBox{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLng: lng - lngDelta,
		MaxLng: lng + lngDelta,
	}
}

// Contains reports whether the point (lat, lng) falls inside the box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// Haversine returns the great-circle distance in kilometers between
// two latitude/longitude points.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// DefaultGeohashPrecision is the geohash length attached to search
// results for client-side map clustering. Six characters is roughly
// ±0.61 km, coarse enough to group nearby markers into one cell.
const DefaultGeohashPrecision = 6

// geohashBase32 is the geohash base32 alphabet (excludes a, i, l, o).
const geohashBase32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// EncodeGeohash encodes latitude and longitude into a geohash string of
// the given precision using the standard interleaved-bit algorithm.
// A precision below 1 falls back to DefaultGeohashPrecision.
func EncodeGeohash(lat, lng float64, precision int) string {
	if precision < 1 {
		precision = DefaultGeohashPrecision
	}

	latRange := [2]float64{-90.0, 90.0}
	lngRange := [2]float64{-180.0, 180.0}

	var hash strings.Builder
	hash.Grow(precision)

	bits := 0
	var ch uint

	even := true
	for hash.Len() < precision {
		if even {
			// Longitude bit
			mid := (lngRange[0] + lngRange[1]) / 2
			if lng > mid {
				ch |= (1 << (4 - bits))
				lngRange[0] = mid
			} else {
				lngRange[1] = mid
			}
		} else {
			// Latitude bit
			mid := (latRange[0] + latRange[1]) / 2
			if lat > mid {
				ch |= (1 << (4 - bits))
				latRange[0] = mid
			} else {
				latRange[1] = mid
			}
		}

		even = !even
		bits++

		if bits == 5 {
			hash.WriteByte(geohashBase32[ch])
			bits = 0
			ch = 0
		}
	}

	return hash.String()
}
