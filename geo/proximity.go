package geo

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// Strategy selects between the direct O(n^2) implementation and the
// R-tree-accelerated one for proximity queries. Both must produce equivalent
// results; the direct form is kept both for small inputs, where index
// construction overhead dominates, and for cross-validation in tests.
type Strategy int

const (
	// StrategyAuto picks by point-set size against Analyzer.Crossover.
	StrategyAuto Strategy = iota
	StrategyDirect
	StrategyIndexed
)

// DefaultCrossover is the point-set size above which StrategyAuto switches
// to the indexed implementations.
const DefaultCrossover = 100

// Analyzer bundles the proximity operations behind one stateless service
// object. Construct once and share; every call works on its own input
// snapshot and keeps no cross-call state.
type Analyzer struct {
	// Crossover is the size threshold for StrategyAuto. Spatial joins use
	// their own smaller threshold (both sides > 10) since the join builds
	// its index over only one side.
	Crossover int
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{Crossover: DefaultCrossover}
}

// Neighbor is a point index with its distance to a query center attached.
type Neighbor struct {
	Index      int
	DistanceKM float64
}

// FindWithinRadius returns the points within radiusKM of center, sorted by
// distance ascending. Callers map indices back onto their report records.
func (a *Analyzer) FindWithinRadius(pts []Point, center Point, radiusKM float64, s Strategy) ([]Neighbor, error) {
	if radiusKM <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive, got %f", ErrInvalidInput, radiusKM)
	}
	if !center.Valid() {
		return nil, fmt.Errorf("%w: center (%.4f, %.4f) out of range", ErrInvalidInput, center.Lat, center.Lon)
	}
	if err := validatePoints(pts); err != nil {
		return nil, err
	}
	if len(pts) == 0 {
		return []Neighbor{}, nil
	}

	var (
		nearby []Neighbor
		err    error
	)
	if a.useIndex(len(pts), s) {
		nearby, err = findWithinRadiusIndexed(pts, center, radiusKM)
	} else {
		nearby = findWithinRadiusDirect(pts, center, radiusKM)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKM < nearby[j].DistanceKM
	})
	logrus.Debugf("found %d points within %.1fkm", len(nearby), radiusKM)
	return nearby, nil
}

func findWithinRadiusDirect(pts []Point, center Point, radiusKM float64) []Neighbor {
	nearby := []Neighbor{}
	for i, p := range pts {
		d := Haversine(center.Lat, center.Lon, p.Lat, p.Lon)
		if d <= radiusKM {
			nearby = append(nearby, Neighbor{Index: i, DistanceKM: d})
		}
	}
	return nearby
}

func findWithinRadiusIndexed(pts []Point, center Point, radiusKM float64) ([]Neighbor, error) {
	ix, err := NewIndex(pts)
	if err != nil {
		return nil, err
	}
	hits, err := ix.Within(center, radiusKM)
	if err != nil {
		return nil, err
	}
	nearby := make([]Neighbor, 0, len(hits))
	for _, i := range hits {
		nearby = append(nearby, Neighbor{
			Index:      i,
			DistanceKM: Haversine(center.Lat, center.Lon, pts[i].Lat, pts[i].Lon),
		})
	}
	return nearby, nil
}

// LocalDensity returns, per point, the number of other points within radiusKM
// (self excluded). The direct and indexed strategies may disagree by at most
// one for points sitting exactly at the radius boundary, where floating-point
// rounding can flip inclusion; this tolerance is deliberate, not a bug to
// paper over.
func (a *Analyzer) LocalDensity(pts []Point, radiusKM float64, s Strategy) ([]int, error) {
	if radiusKM <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive, got %f", ErrInvalidInput, radiusKM)
	}
	if err := validatePoints(pts); err != nil {
		return nil, err
	}
	if len(pts) == 0 {
		return []int{}, nil
	}

	if a.useIndex(len(pts), s) {
		ix, err := NewIndex(pts)
		if err != nil {
			return nil, err
		}
		return ix.NeighborCounts(radiusKM)
	}
	return localDensityDirect(pts, radiusKM), nil
}

// densityChunk bounds how many query rows are in flight at once so the
// all-pairs computation never materializes a full N x N distance matrix.
const densityChunk = 1000

func localDensityDirect(pts []Point, radiusKM float64) []int {
	n := len(pts)
	counts := make([]int, n)
	row := make([]float64, n)
	for start := 0; start < n; start += densityChunk {
		end := start + densityChunk
		if end > n {
			end = n
		}
		for i := start; i < end; i++ {
			for j := 0; j < n; j++ {
				row[j] = Haversine(pts[i].Lat, pts[i].Lon, pts[j].Lat, pts[j].Lon)
			}
			c := 0
			for j := 0; j < n; j++ {
				if row[j] <= radiusKM {
					c++
				}
			}
			counts[i] = c - 1 // drop self
		}
	}
	return counts
}

// JoinRow is one matched pair from a spatial join. Indices reference the
// input slices; callers attach the pair's record attributes themselves.
type JoinRow struct {
	IndexA     int
	IndexB     int
	DistanceKM float64
}

// SpatialJoin returns every (a, b) pair at most maxDistanceKM apart. An empty
// result is not an error. With StrategyAuto the indexed path engages when
// both sides exceed 10 points.
func (a *Analyzer) SpatialJoin(setA, setB []Point, maxDistanceKM float64, s Strategy) ([]JoinRow, error) {
	if maxDistanceKM <= 0 {
		return nil, fmt.Errorf("%w: max distance must be positive, got %f", ErrInvalidInput, maxDistanceKM)
	}
	if err := validatePoints(setA); err != nil {
		return nil, err
	}
	if err := validatePoints(setB); err != nil {
		return nil, err
	}

	rows := []JoinRow{}
	if len(setA) == 0 || len(setB) == 0 {
		return rows, nil
	}

	indexed := s == StrategyIndexed || (s == StrategyAuto && len(setA) > 10 && len(setB) > 10)
	if indexed {
		ix, err := NewIndex(setB)
		if err != nil {
			return nil, err
		}
		for i, p := range setA {
			hits, err := ix.Within(p, maxDistanceKM)
			if err != nil {
				return nil, err
			}
			for _, j := range hits {
				rows = append(rows, JoinRow{
					IndexA:     i,
					IndexB:     j,
					DistanceKM: Haversine(p.Lat, p.Lon, setB[j].Lat, setB[j].Lon),
				})
			}
		}
	} else {
		for i, p := range setA {
			for j, q := range setB {
				d := Haversine(p.Lat, p.Lon, q.Lat, q.Lon)
				if d <= maxDistanceKM {
					rows = append(rows, JoinRow{IndexA: i, IndexB: j, DistanceKM: d})
				}
			}
		}
	}

	if len(rows) == 0 {
		logrus.Debug("spatial join found no matches")
	}
	return rows, nil
}

// Box is an axis-aligned bounding box with its center point.
type Box struct {
	MinLat    float64 `json:"min_lat"`
	MaxLat    float64 `json:"max_lat"`
	MinLon    float64 `json:"min_lon"`
	MaxLon    float64 `json:"max_lon"`
	CenterLat float64 `json:"center_lat"`
	CenterLon float64 `json:"center_lon"`
}

// BoundingBox computes the bounds of a point set, optionally padded.
// Padding converts via padding_km/111 degrees on both axes uniformly; no
// cos(latitude) correction is applied, an accepted simplification that
// degrades near the poles.
func BoundingBox(pts []Point, paddingKM float64) (Box, error) {
	if len(pts) == 0 {
		return Box{}, fmt.Errorf("%w: empty point set", ErrInvalidInput)
	}
	if err := validatePoints(pts); err != nil {
		return Box{}, err
	}

	b := Box{MinLat: pts[0].Lat, MaxLat: pts[0].Lat, MinLon: pts[0].Lon, MaxLon: pts[0].Lon}
	for _, p := range pts[1:] {
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
		if p.Lon < b.MinLon {
			b.MinLon = p.Lon
		}
		if p.Lon > b.MaxLon {
			b.MaxLon = p.Lon
		}
	}

	if paddingKM > 0 {
		pad := paddingKM / kmPerDegree
		b.MinLat -= pad
		b.MaxLat += pad
		b.MinLon -= pad
		b.MaxLon += pad
	}

	b.CenterLat = (b.MinLat + b.MaxLat) / 2
	b.CenterLon = (b.MinLon + b.MaxLon) / 2
	return b, nil
}

// WeightedCentroid returns the arithmetic mean position, or the weighted mean
// when weights are supplied. Weights must be non-negative and sum to a
// positive value. The centroid is computed in one pass over the full
// membership, never as an incremental running update.
func WeightedCentroid(pts []Point, weights []float64) (Point, error) {
	if len(pts) == 0 {
		return Point{}, fmt.Errorf("%w: empty point set", ErrInvalidInput)
	}
	if err := validatePoints(pts); err != nil {
		return Point{}, err
	}

	if weights == nil {
		var sumLat, sumLon float64
		for _, p := range pts {
			sumLat += p.Lat
			sumLon += p.Lon
		}
		n := float64(len(pts))
		return Point{Lat: sumLat / n, Lon: sumLon / n}, nil
	}

	if len(weights) != len(pts) {
		return Point{}, fmt.Errorf("%w: %d weights for %d points", ErrInvalidInput, len(weights), len(pts))
	}
	var sumW, sumLat, sumLon float64
	for i, w := range weights {
		if w < 0 {
			return Point{}, fmt.Errorf("%w: negative weight at %d", ErrInvalidWeights, i)
		}
		sumW += w
		sumLat += pts[i].Lat * w
		sumLon += pts[i].Lon * w
	}
	if sumW <= 0 {
		return Point{}, fmt.Errorf("%w: weights sum to zero", ErrInvalidWeights)
	}
	return Point{Lat: sumLat / sumW, Lon: sumLon / sumW}, nil
}

func (a *Analyzer) useIndex(n int, s Strategy) bool {
	switch s {
	case StrategyDirect:
		return false
	case StrategyIndexed:
		return true
	}
	crossover := a.Crossover
	if crossover <= 0 {
		crossover = DefaultCrossover
	}
	return n > crossover
}
