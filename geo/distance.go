package geo

import (
	"errors"
	"fmt"
	"math"
)

const (
	// EarthRadiusKM is the mean Earth radius used for all great-circle math.
	EarthRadiusKM = 6371.0

	// degPerKM converts kilometers to an approximate degree span
	// (1 degree of latitude ~ 111 km). Longitude uses the same factor
	// uniformly, which ignores compression at high latitude; acceptable at
	// local scales, inaccurate near the poles and across the antimeridian.
	kmPerDegree = 111.0
)

var (
	// ErrInvalidInput covers structurally bad input: coordinates outside
	// [-90,90]/[-180,180], non-positive radii, mismatched slice lengths.
	ErrInvalidInput = errors.New("geo: invalid input")

	// ErrInvalidWeights is returned when a weighted operation receives
	// negative weights or weights summing to zero.
	ErrInvalidWeights = errors.New("geo: invalid weights")
)

// Point is an immutable lat/lon pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Valid reports whether the point lies inside the legal coordinate ranges.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Haversine returns the great-circle distance in kilometers between two
// points given in decimal degrees. Symmetric, and exactly zero for identical
// points. NaN inputs propagate to a NaN result; they are not trapped here.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	radLat1 := lat1 * math.Pi / 180
	radLat2 := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(radLat1)*math.Cos(radLat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKM * c
}

// HaversineBatch computes distances over coordinate slices. Either side may
// have length one, in which case it is broadcast against the other; otherwise
// all four slices must share one length. The result has the broadcast length
// and agrees with the scalar form for every pair.
func HaversineBatch(lat1, lon1, lat2, lon2 []float64) ([]float64, error) {
	if len(lat1) != len(lon1) || len(lat2) != len(lon2) {
		return nil, fmt.Errorf("%w: lat/lon slices must have equal length", ErrInvalidInput)
	}
	n1, n2 := len(lat1), len(lat2)
	if n1 == 0 || n2 == 0 {
		return nil, fmt.Errorf("%w: empty coordinate slice", ErrInvalidInput)
	}
	if n1 != n2 && n1 != 1 && n2 != 1 {
		return nil, fmt.Errorf("%w: cannot broadcast lengths %d and %d", ErrInvalidInput, n1, n2)
	}

	n := n1
	if n2 > n {
		n = n2
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		a, b := i, i
		if n1 == 1 {
			a = 0
		}
		if n2 == 1 {
			b = 0
		}
		out[i] = Haversine(lat1[a], lon1[a], lat2[b], lon2[b])
	}
	return out, nil
}

// Bearing returns the initial compass bearing in degrees [0,360) from the
// first point to the second. NaN inputs propagate.
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	radLat1 := lat1 * math.Pi / 180
	radLat2 := lat2 * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(deltaLon) * math.Cos(radLat2)
	x := math.Cos(radLat1)*math.Sin(radLat2) -
		math.Sin(radLat1)*math.Cos(radLat2)*math.Cos(deltaLon)

	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

func validatePoints(pts []Point) error {
	for i, p := range pts {
		if !p.Valid() {
			return fmt.Errorf("%w: point %d (%.4f, %.4f) out of range", ErrInvalidInput, i, p.Lat, p.Lon)
		}
	}
	return nil
}
