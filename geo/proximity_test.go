package geo

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// scatter builds a reproducible point cloud over the Indian coastline's
// rough bounding box.
func scatter(n int, seed int64) []Point {
	rng := rand.New(rand.NewSource(seed))
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{
			Lat: 8 + rng.Float64()*20,
			Lon: 68 + rng.Float64()*29,
		}
	}
	return pts
}

func TestFindWithinRadiusStrategiesAgree(t *testing.T) {
	pts := scatter(500, 1)
	center := Point{Lat: 19.0760, Lon: 72.8777}
	a := NewAnalyzer()

	direct, err := a.FindWithinRadius(pts, center, 200, StrategyDirect)
	if err != nil {
		t.Fatalf("direct: %v", err)
	}
	indexed, err := a.FindWithinRadius(pts, center, 200, StrategyIndexed)
	if err != nil {
		t.Fatalf("indexed: %v", err)
	}

	if len(direct) != len(indexed) {
		t.Fatalf("strategy mismatch: direct found %d, indexed found %d", len(direct), len(indexed))
	}
	for i := range direct {
		if direct[i].Index != indexed[i].Index {
			t.Errorf("result %d: direct index %d, indexed index %d", i, direct[i].Index, indexed[i].Index)
		}
	}
}

func TestFindWithinRadiusSortedAscending(t *testing.T) {
	pts := scatter(200, 2)
	a := NewAnalyzer()

	nearby, err := a.FindWithinRadius(pts, Point{Lat: 13.0475, Lon: 80.2824}, 500, StrategyAuto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(nearby); i++ {
		if nearby[i].DistanceKM < nearby[i-1].DistanceKM {
			t.Fatalf("results not sorted at %d: %v then %v", i, nearby[i-1].DistanceKM, nearby[i].DistanceKM)
		}
	}
	for _, n := range nearby {
		if n.DistanceKM > 500 {
			t.Errorf("point %d at %.2f km exceeds the radius", n.Index, n.DistanceKM)
		}
	}
}

func TestFindWithinRadiusErrors(t *testing.T) {
	a := NewAnalyzer()
	pts := scatter(10, 3)

	if _, err := a.FindWithinRadius(pts, Point{Lat: 19, Lon: 72}, -5, StrategyAuto); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative radius: expected ErrInvalidInput, got %v", err)
	}
	if _, err := a.FindWithinRadius(pts, Point{Lat: 95, Lon: 72}, 10, StrategyAuto); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad center: expected ErrInvalidInput, got %v", err)
	}

	nearby, err := a.FindWithinRadius(nil, Point{Lat: 19, Lon: 72}, 10, StrategyAuto)
	if err != nil {
		t.Fatalf("empty set should not error: %v", err)
	}
	if len(nearby) != 0 {
		t.Errorf("empty set should yield no neighbors, got %d", len(nearby))
	}
}

func TestLocalDensityStrategiesAgree(t *testing.T) {
	pts := scatter(500, 4)
	a := NewAnalyzer()

	direct, err := a.LocalDensity(pts, 50, StrategyDirect)
	if err != nil {
		t.Fatalf("direct: %v", err)
	}
	indexed, err := a.LocalDensity(pts, 50, StrategyIndexed)
	if err != nil {
		t.Fatalf("indexed: %v", err)
	}
	if len(direct) != len(indexed) {
		t.Fatalf("length mismatch: %d vs %d", len(direct), len(indexed))
	}

	exact := 0
	for i := range direct {
		diff := direct[i] - indexed[i]
		if diff < 0 {
			diff = -diff
		}
		if diff == 0 {
			exact++
		} else if diff > 1 {
			t.Errorf("point %d: direct %d, indexed %d", i, direct[i], indexed[i])
		}
	}
	if float64(exact) < 0.9*float64(len(direct)) {
		t.Errorf("only %d of %d densities agree exactly", exact, len(direct))
	}
}

func TestLocalDensityExcludesSelf(t *testing.T) {
	pts := []Point{{19.0, 72.8}, {19.001, 72.801}, {25.0, 80.0}}
	a := NewAnalyzer()

	counts, err := a.LocalDensity(pts, 5, StrategyDirect)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{1, 1, 0}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("counts[%d] = %d, want %d", i, counts[i], want[i])
		}
	}
}

func TestSpatialJoinStrategiesAgree(t *testing.T) {
	setA := scatter(50, 5)
	setB := scatter(50, 6)
	a := NewAnalyzer()

	direct, err := a.SpatialJoin(setA, setB, 100, StrategyDirect)
	if err != nil {
		t.Fatalf("direct: %v", err)
	}
	indexed, err := a.SpatialJoin(setA, setB, 100, StrategyIndexed)
	if err != nil {
		t.Fatalf("indexed: %v", err)
	}

	if len(direct) != len(indexed) {
		t.Fatalf("pair count mismatch: direct %d, indexed %d", len(direct), len(indexed))
	}
	pairs := make(map[[2]int]bool, len(direct))
	for _, row := range direct {
		pairs[[2]int{row.IndexA, row.IndexB}] = true
	}
	for _, row := range indexed {
		if !pairs[[2]int{row.IndexA, row.IndexB}] {
			t.Errorf("indexed pair (%d,%d) missing from direct results", row.IndexA, row.IndexB)
		}
	}
}

func TestSpatialJoinEmptyResult(t *testing.T) {
	setA := []Point{{19.0, 72.8}}
	setB := []Point{{-33.8688, 151.2093}}
	a := NewAnalyzer()

	rows, err := a.SpatialJoin(setA, setB, 10, StrategyAuto)
	if err != nil {
		t.Fatalf("empty join should not error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no pairs, got %d", len(rows))
	}
}

func TestBoundingBox(t *testing.T) {
	pts := []Point{{10, 70}, {20, 80}, {15, 75}}

	b, err := BoundingBox(pts, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.MinLat != 10 || b.MaxLat != 20 || b.MinLon != 70 || b.MaxLon != 80 {
		t.Errorf("unexpected bounds: %+v", b)
	}
	if b.CenterLat != 15 || b.CenterLon != 75 {
		t.Errorf("unexpected center: %+v", b)
	}

	padded, err := BoundingBox(pts, 111)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(padded.MinLat-9) > 1e-9 || math.Abs(padded.MaxLat-21) > 1e-9 {
		t.Errorf("111km padding should widen lat bounds by ~1 degree: %+v", padded)
	}

	if _, err := BoundingBox(nil, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty set: expected ErrInvalidInput, got %v", err)
	}
}

func TestWeightedCentroid(t *testing.T) {
	pts := []Point{{10, 70}, {20, 80}}

	mean, err := WeightedCentroid(pts, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mean.Lat != 15 || mean.Lon != 75 {
		t.Errorf("unweighted centroid = %+v, want (15, 75)", mean)
	}

	weighted, err := WeightedCentroid(pts, []float64{3, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(weighted.Lat-12.5) > 1e-9 || math.Abs(weighted.Lon-72.5) > 1e-9 {
		t.Errorf("weighted centroid = %+v, want (12.5, 72.5)", weighted)
	}
}

func TestWeightedCentroidErrors(t *testing.T) {
	pts := []Point{{10, 70}, {20, 80}}

	if _, err := WeightedCentroid(nil, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty set: expected ErrInvalidInput, got %v", err)
	}
	if _, err := WeightedCentroid(pts, []float64{1}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("length mismatch: expected ErrInvalidInput, got %v", err)
	}
	if _, err := WeightedCentroid(pts, []float64{1, -1}); !errors.Is(err, ErrInvalidWeights) {
		t.Errorf("negative weight: expected ErrInvalidWeights, got %v", err)
	}
	if _, err := WeightedCentroid(pts, []float64{0, 0}); !errors.Is(err, ErrInvalidWeights) {
		t.Errorf("zero-sum weights: expected ErrInvalidWeights, got %v", err)
	}
}
