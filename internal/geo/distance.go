package geo

import "math"

const earthRadiusKm = 6371

// Haversine returns the great-circle distance in kilometers between two lat/lon points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// RoundKm rounds a distance in kilometers to two decimal places.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
