package geo

import (
	"errors"
	"math"
	"testing"
)

func TestHaversineIdenticalPoints(t *testing.T) {
	d := Haversine(19.0760, 72.8777, 19.0760, 72.8777)
	if d != 0 {
		t.Errorf("expected exactly 0 for identical points, got %v", d)
	}
}

func TestHaversineSymmetry(t *testing.T) {
	d1 := Haversine(19.0760, 72.8777, 28.6448, 77.2167)
	d2 := Haversine(28.6448, 77.2167, 19.0760, 72.8777)
	if d1 != d2 {
		t.Errorf("haversine not symmetric: %v vs %v", d1, d2)
	}
}

func TestHaversineKnownDistances(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want, tolerance        float64
	}{
		{"Mumbai-Delhi", 19.0760, 72.8777, 28.6448, 77.2167, 1151, 10},
		{"NewYork-London", 40.7128, -74.0060, 51.5074, -0.1278, 5570, 50},
		{"one degree longitude at equator", 0, 0, 0, 1, 111.19, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("got %.2f km, want %.2f +/- %.2f", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestHaversineNaNPropagates(t *testing.T) {
	d := Haversine(math.NaN(), 72.8777, 19.0760, 72.8777)
	if !math.IsNaN(d) {
		t.Errorf("expected NaN result for NaN input, got %v", d)
	}
}

func TestHaversineBatchMatchesScalar(t *testing.T) {
	lat1 := []float64{19.0760, 40.7128, 0}
	lon1 := []float64{72.8777, -74.0060, 0}
	lat2 := []float64{28.6448, 51.5074, 0}
	lon2 := []float64{77.2167, -0.1278, 1}

	got, err := HaversineBatch(lat1, lon1, lat2, lon2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	for i := range got {
		want := Haversine(lat1[i], lon1[i], lat2[i], lon2[i])
		if math.Abs(got[i]-want) > 1e-9 {
			t.Errorf("batch[%d] = %v, scalar = %v", i, got[i], want)
		}
	}
}

func TestHaversineBatchBroadcast(t *testing.T) {
	center := Point{Lat: 19.0760, Lon: 72.8777}
	lats := []float64{19.1, 19.2, 19.3, 19.4}
	lons := []float64{72.9, 73.0, 73.1, 73.2}

	got, err := HaversineBatch([]float64{center.Lat}, []float64{center.Lon}, lats, lons)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(lats) {
		t.Fatalf("expected %d results, got %d", len(lats), len(got))
	}
	for i := range got {
		want := Haversine(center.Lat, center.Lon, lats[i], lons[i])
		if math.Abs(got[i]-want) > 1e-9 {
			t.Errorf("broadcast[%d] = %v, scalar = %v", i, got[i], want)
		}
	}
}

func TestHaversineBatchErrors(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 []float64
	}{
		{"mismatched pair", []float64{1, 2}, []float64{1}, []float64{1}, []float64{1}},
		{"empty side", []float64{}, []float64{}, []float64{1}, []float64{1}},
		{"non-broadcastable", []float64{1, 2}, []float64{1, 2}, []float64{1, 2, 3}, []float64{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HaversineBatch(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestBearingRange(t *testing.T) {
	pts := []Point{
		{19.0760, 72.8777},
		{28.6448, 77.2167},
		{-33.8688, 151.2093},
		{51.5074, -0.1278},
	}
	for _, a := range pts {
		for _, b := range pts {
			got := Bearing(a.Lat, a.Lon, b.Lat, b.Lon)
			if got < 0 || got >= 360 {
				t.Errorf("bearing(%v, %v) = %v, want [0, 360)", a, b, got)
			}
		}
	}
}

func TestBearingDueEast(t *testing.T) {
	got := Bearing(0, 0, 0, 1)
	if math.Abs(got-90) > 1e-9 {
		t.Errorf("due east along the equator should be 90, got %v", got)
	}
}

func TestBearingDueNorth(t *testing.T) {
	got := Bearing(10, 72, 20, 72)
	if math.Abs(got) > 1e-9 {
		t.Errorf("due north should be 0, got %v", got)
	}
}
