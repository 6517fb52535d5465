package facing

import "math"

func toRad(deg float64) float64 { return deg * math.Pi / 180 }

// bearingDeg is the great-circle initial bearing from point 1 to point 2,
// normalized to [0, 360) degrees clockwise from true north.
func bearingDeg(lat1, lon1, lat2, lon2 float64) float64 {
	dLon := toRad(lon2 - lon1)
	y := math.Sin(dLon) * math.Cos(toRad(lat2))
	x := math.Cos(toRad(lat1))*math.Sin(toRad(lat2)) -
		math.Sin(toRad(lat1))*math.Cos(toRad(lat2))*math.Cos(dLon)
	brng := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(brng+360, 360)
}
