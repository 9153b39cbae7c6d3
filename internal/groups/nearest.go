package groups

import (
	"math"

	"buspredictor/internal/geo"
)

// Nearest returns the group whose reference point is closest to the caller,
// with the great-circle distance in kilometers rounded to two decimals.
// Groups with absent or malformed coordinates are skipped; ok is false when
// no group had a usable reference point.
func Nearest(userGroups UserGroups, lat, lon float64) (name string, distanceKm float64, ok bool) {
	best := math.Inf(1)
	for groupName, g := range userGroups {
		if g.Coords == "" {
			continue
		}
		gLat, gLon, err := parseCoords(g.Coords)
		if err != nil {
			continue
		}
		d := geo.Haversine(lat, lon, gLat, gLon)
		if d < best {
			best = d
			name = groupName
			ok = true
		}
	}
	if !ok {
		return "", 0, false
	}
	return name, geo.RoundKm(best), true
}
