package detection

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"oceanwatch/geo"
	"oceanwatch/types"
)

// MergeNearbyHotspots folds hotspots whose centers are within
// mergeDistanceKM of each other into single records. The merge is a plain
// pairwise scan (hotspot counts are small, tens not thousands) and runs in a
// single pass: a freshly merged hotspot is NOT re-checked against the
// remaining unmerged ones in the same call. That is a deliberate scope limit
// carried over from the original behavior, not an oversight; iterating to a
// fixed point would change output counts.
//
// Hotspots with no neighbor in range pass through unmodified. Merged records
// get a report-count-weighted centroid, summed report counts, the group's
// max threat level re-categorized, and the union of hazard distributions.
func MergeNearbyHotspots(hotspots []types.Hotspot, mergeDistanceKM float64) []types.Hotspot {
	if len(hotspots) < 2 {
		return hotspots
	}

	merged := make([]bool, len(hotspots))
	result := []types.Hotspot{}

	for i := range hotspots {
		if merged[i] {
			continue
		}

		var nearby []int
		for j := range hotspots {
			if j == i || merged[j] {
				continue
			}
			d := geo.Haversine(
				hotspots[i].Latitude, hotspots[i].Longitude,
				hotspots[j].Latitude, hotspots[j].Longitude,
			)
			if d <= mergeDistanceKM {
				nearby = append(nearby, j)
			}
		}

		if len(nearby) == 0 {
			result = append(result, hotspots[i])
			merged[i] = true
			continue
		}

		group := append([]int{i}, nearby...)
		result = append(result, mergeGroup(hotspots, group, i, mergeDistanceKM))
		for _, j := range group {
			merged[j] = true
		}
	}

	logrus.Infof("merged %d hotspots into %d", len(hotspots), len(result))
	return result
}

func mergeGroup(hotspots []types.Hotspot, group []int, anchor int, mergeDistanceKM float64) types.Hotspot {
	pts := make([]geo.Point, len(group))
	weights := make([]float64, len(group))
	totalReports := 0
	maxThreat := 0.0
	var earliest, latest time.Time
	haveTimes := false
	for k, j := range group {
		h := hotspots[j]
		pts[k] = geo.Point{Lat: h.Latitude, Lon: h.Longitude}
		weights[k] = float64(h.ReportCount)
		totalReports += h.ReportCount
		if h.ThreatLevel > maxThreat {
			maxThreat = h.ThreatLevel
		}
		if t, ok := parseReportTime(h.EarliestReport); ok && (!haveTimes || t.Before(earliest)) {
			earliest = t
		}
		if t, ok := parseReportTime(h.LatestReport); ok {
			if !haveTimes || t.After(latest) {
				latest = t
			}
			haveTimes = true
		}
	}
	centroid, err := geo.WeightedCentroid(pts, weights)
	if err != nil {
		// Degenerate group with zero total report count; fall back to the
		// unweighted mean rather than dropping the group.
		centroid, _ = geo.WeightedCentroid(pts, nil)
	}

	// Union the hazard distributions in group order so the argmax tie-break
	// is deterministic.
	distribution := map[string]int{}
	var order []string
	var reportIDs []string
	for _, j := range group {
		for hazard, count := range hotspots[j].HazardDistribution {
			if _, seen := distribution[hazard]; !seen {
				order = append(order, hazard)
			}
			distribution[hazard] += count
		}
		reportIDs = append(reportIDs, hotspots[j].ReportIDs...)
	}
	dominant := types.UnknownHazard
	for _, hazard := range order {
		if dominant == types.UnknownHazard || distribution[hazard] > distribution[string(dominant)] {
			dominant = types.HazardType(hazard)
		}
	}

	out := types.Hotspot{
		ID:                 uuid.NewString(),
		HotspotID:          fmt.Sprintf("HS_MERGED_%04d", anchor),
		ClusterID:          Noise,
		Latitude:           centroid.Lat,
		Longitude:          centroid.Lon,
		RadiusKM:           mergeDistanceKM,
		HazardType:         dominant,
		HazardDistribution: distribution,
		Severity:           CategorizeSeverity(maxThreat),
		ThreatLevel:        maxThreat,
		ReportCount:        totalReports,
		ReportIDs:          reportIDs,
		MergedCount:        len(group),
		Active:             true,
		CreatedAt:          time.Now().UTC().Format(time.RFC3339),
	}
	if haveTimes {
		out.EarliestReport = earliest.UTC().Format(time.RFC3339)
		out.LatestReport = latest.UTC().Format(time.RFC3339)
	}
	return out
}
