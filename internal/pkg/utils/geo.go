package utils

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// EarthRadiusMeters - средний радиус Земли; orb считает по экваториальному (6378137 м)
const EarthRadiusMeters = 6371000.0

// DistanceMeters - расстояние по большому кругу между двумя точками (lat, lon) в метрах
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	d := geo.DistanceHaversine(orb.Point{lon1, lat1}, orb.Point{lon2, lat2})
	return d * EarthRadiusMeters / orb.EarthRadius
}
