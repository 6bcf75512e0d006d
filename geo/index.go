package geo

import (
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
)

// pointTol is the half-width of the degenerate rects points are stored
// under; rtreego requires strictly positive side lengths.
const pointTol = 1e-9

type indexEntry struct {
	rect rtreego.Rect
	idx  int
}

func (e *indexEntry) Bounds() rtreego.Rect {
	return e.rect
}

// Index is an R-tree over one immutable point set, in radian space, for
// radius queries and neighbor counts. Kilometer radii are converted to the
// tree's angular unit via radius_km / EarthRadiusKM. If the backing point set
// changes, build a new Index; there is no incremental update. An Index is
// safe for concurrent readers but must not be rebuilt while shared.
type Index struct {
	tree *rtreego.Rtree
	pts  []Point
}

// NewIndex builds an index over a snapshot of points. The slice is retained;
// callers must not mutate it afterwards.
func NewIndex(pts []Point) (*Index, error) {
	if len(pts) == 0 {
		return nil, fmt.Errorf("%w: empty point set", ErrInvalidInput)
	}
	if err := validatePoints(pts); err != nil {
		return nil, err
	}

	tree := rtreego.NewTree(2, 25, 50)
	for i, p := range pts {
		rect := rtreego.Point{p.Lat * math.Pi / 180, p.Lon * math.Pi / 180}.ToRect(pointTol)
		tree.Insert(&indexEntry{rect: rect, idx: i})
	}
	return &Index{tree: tree, pts: pts}, nil
}

// Size returns the number of indexed points.
func (ix *Index) Size() int {
	return len(ix.pts)
}

// Within returns the indices of all points whose haversine distance to the
// center is at most radiusKM. The R-tree search rect is only a candidate
// pre-filter; every candidate is re-checked with the exact distance, so the
// result matches a direct pairwise scan up to floating-point boundary cases
// at the radius edge.
func (ix *Index) Within(center Point, radiusKM float64) ([]int, error) {
	if radiusKM <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive, got %f", ErrInvalidInput, radiusKM)
	}
	if !center.Valid() {
		return nil, fmt.Errorf("%w: center (%.4f, %.4f) out of range", ErrInvalidInput, center.Lat, center.Lon)
	}

	radiusRad := radiusKM / EarthRadiusKM
	latRad := center.Lat * math.Pi / 180
	lonRad := center.Lon * math.Pi / 180

	// A great-circle ball of angular radius r spans at most r in latitude,
	// but up to r/cos(lat +/- r) in longitude. Widen the rect accordingly so
	// no true neighbor is missed; near the poles fall back to the full range.
	latHalf := radiusRad
	lonHalf := math.Pi
	if edge := math.Abs(latRad) + radiusRad; edge < math.Pi/2 {
		lonHalf = radiusRad / math.Cos(edge)
		if lonHalf > math.Pi {
			lonHalf = math.Pi
		}
	}

	rect, err := rtreego.NewRect(
		rtreego.Point{latRad - latHalf, lonRad - lonHalf},
		[]float64{2 * latHalf, 2 * lonHalf},
	)
	if err != nil {
		return nil, fmt.Errorf("geo: building search rect: %w", err)
	}

	var hits []int
	for _, obj := range ix.tree.SearchIntersect(rect) {
		entry := obj.(*indexEntry)
		p := ix.pts[entry.idx]
		if Haversine(center.Lat, center.Lon, p.Lat, p.Lon) <= radiusKM {
			hits = append(hits, entry.idx)
		}
	}
	return hits, nil
}

// NeighborCounts returns, for every indexed point, how many other points lie
// within radiusKM (self excluded).
func (ix *Index) NeighborCounts(radiusKM float64) ([]int, error) {
	counts := make([]int, len(ix.pts))
	for i, p := range ix.pts {
		hits, err := ix.Within(p, radiusKM)
		if err != nil {
			return nil, err
		}
		counts[i] = len(hits) - 1 // a point always finds itself
	}
	return counts, nil
}
