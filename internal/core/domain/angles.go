package domain

import "math"

// AngularSeparation returns the great-circle distance in degrees between two
// points given in degrees, using the haversine form.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	r1, d1 := ra1*math.Pi/180, dec1*math.Pi/180
	r2, d2 := ra2*math.Pi/180, dec2*math.Pi/180

	sinDDec := math.Sin((d2 - d1) / 2)
	sinDRA := math.Sin((r2 - r1) / 2)
	h := sinDDec*sinDDec + math.Cos(d1)*math.Cos(d2)*sinDRA*sinDRA
	if h > 1 {
		h = 1
	}
	return 2 * math.Asin(math.Sqrt(h)) * 180 / math.Pi
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }
