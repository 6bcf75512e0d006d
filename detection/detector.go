package detection

import (
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/sirupsen/logrus"

	"oceanwatch/geo"
	"oceanwatch/types"
)

// Noise is the cluster id of reports not dense enough to join any cluster.
const Noise = -1

// kmPerDegree converts the clustering radius to degrees (1 degree latitude
// ~ 111 km). Clustering runs in raw degree space, not great-circle space: a
// known approximation that holds at local scales and degrades near the poles
// and across the antimeridian. Kept as-is deliberately.
const kmPerDegree = 111.0

type clusterEntry struct {
	rect rtreego.Rect
	idx  int
}

func (e *clusterEntry) Bounds() rtreego.Rect {
	return e.rect
}

// DetectClusters assigns a cluster id to every report using density-based
// clustering: a report is a core point when at least minReports reports
// (itself included) lie within radiusKM/111 degrees; clusters grow by
// connecting core points through shared neighborhoods, border points join the
// cluster that reaches them, and everything else is labeled Noise. Cluster
// ids are non-negative integers in discovery order with no implied ranking.
//
// The input is echoed back as an annotated copy; the caller's slice is never
// mutated. Fewer than minReports records short-circuits to all-noise rather
// than failing.
func DetectClusters(reports []types.Report, radiusKM float64, minReports int) ([]types.Report, error) {
	if radiusKM <= 0 {
		return nil, fmt.Errorf("%w: clustering radius must be positive, got %f", geo.ErrInvalidInput, radiusKM)
	}
	if minReports < 1 {
		return nil, fmt.Errorf("%w: min reports must be at least 1, got %d", geo.ErrInvalidInput, minReports)
	}

	out := make([]types.Report, len(reports))
	copy(out, reports)
	for i := range out {
		out[i].ClusterID = Noise
	}

	if len(out) < minReports {
		logrus.Warnf("not enough reports (%d) for clustering, min is %d", len(out), minReports)
		return out, nil
	}

	eps := radiusKM / kmPerDegree

	tree := rtreego.NewTree(2, 25, 50)
	for i, r := range out {
		tree.Insert(&clusterEntry{
			rect: rtreego.Point{r.Latitude, r.Longitude}.ToRect(eps),
			idx:  i,
		})
	}

	regionQuery := func(i int) []int {
		rect := rtreego.Point{out[i].Latitude, out[i].Longitude}.ToRect(eps)
		var neighbors []int
		for _, obj := range tree.SearchIntersect(rect) {
			entry := obj.(*clusterEntry)
			dLat := out[i].Latitude - out[entry.idx].Latitude
			dLon := out[i].Longitude - out[entry.idx].Longitude
			if math.Hypot(dLat, dLon) <= eps {
				neighbors = append(neighbors, entry.idx)
			}
		}
		return neighbors
	}

	visited := make([]bool, len(out))
	clusterID := 0
	for i := range out {
		if visited[i] {
			continue
		}
		visited[i] = true

		neighbors := regionQuery(i)
		if len(neighbors) < minReports {
			continue // stays noise unless a later cluster reaches it
		}

		out[i].ClusterID = clusterID
		for q := 0; q < len(neighbors); q++ {
			j := neighbors[q]
			if !visited[j] {
				visited[j] = true
				more := regionQuery(j)
				if len(more) >= minReports {
					neighbors = append(neighbors, more...)
				}
			}
			if out[j].ClusterID == Noise {
				out[j].ClusterID = clusterID
			}
		}
		clusterID++
	}

	noise := 0
	for i := range out {
		if out[i].ClusterID == Noise {
			noise++
		}
	}
	logrus.Infof("found %d clusters, %d noise points", clusterID, noise)

	return out, nil
}
