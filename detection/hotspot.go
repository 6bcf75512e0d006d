package detection

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"oceanwatch/geo"
	"oceanwatch/types"
)

// Threat component caps: diminishing-returns report volume up to 4 points,
// severity up to 3, panic up to 2, recency up to 1, totalling exactly 10.
const (
	reportScoreWeight   = 4.0
	severityScoreWeight = 3.0
	panicScoreWeight    = 2.0
	recencyScoreWeight  = 1.0

	reportCountSaturation = 100.0
	recencyDecayHours     = 48.0
	recencyFloor          = 0.5
)

// CalculateThreatLevel combines the four aggregate signals into a bounded
// [0,10] threat estimate. The clamp is a safety net against floating-point
// overshoot; with the weights above the unclamped sum cannot exceed 10.
func CalculateThreatLevel(reportCount int, avgSeverity, avgPanic, timeRecency float64) float64 {
	reportScore := math.Log1p(float64(reportCount)) / math.Log1p(reportCountSaturation)
	if reportScore > 1.0 {
		reportScore = 1.0
	}

	threat := reportScore*reportScoreWeight +
		avgSeverity*severityScoreWeight +
		avgPanic*panicScoreWeight +
		timeRecency*recencyScoreWeight

	return math.Min(threat, 10.0)
}

// CategorizeSeverity maps a threat level onto a severity label.
func CategorizeSeverity(threatLevel float64) types.Severity {
	switch {
	case threatLevel >= 8:
		return types.Critical
	case threatLevel >= 6:
		return types.High
	case threatLevel >= 4:
		return types.Medium
	default:
		return types.Low
	}
}

// parseReportTime handles the timestamp formats reports arrive with.
func parseReportTime(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		return t, true
	}
	// without fractional seconds
	if t, err := time.Parse("2006-01-02T15:04:05Z", ts); err == nil {
		return t, true
	}
	logrus.Warnf("could not parse report timestamp %q", ts)
	return time.Time{}, false
}

// GenerateHotspots clusters the reports and builds one hotspot per non-noise
// cluster, sorted by threat level descending (stable: equal threat levels
// keep cluster-discovery order). Clusters with missing hazard, severity,
// panic, or timestamp data degrade to the documented defaults; this never
// fails on partially-populated records.
func GenerateHotspots(reports []types.Report, radiusKM float64, minReports int) ([]types.Hotspot, error) {
	clustered, err := DetectClusters(reports, radiusKM, minReports)
	if err != nil {
		return nil, err
	}

	maxCluster := Noise
	for _, r := range clustered {
		if r.ClusterID > maxCluster {
			maxCluster = r.ClusterID
		}
	}

	hotspots := []types.Hotspot{}
	for cid := 0; cid <= maxCluster; cid++ {
		var members []types.Report
		for _, r := range clustered {
			if r.ClusterID == cid {
				members = append(members, r)
			}
		}
		if len(members) == 0 {
			continue
		}
		hotspots = append(hotspots, buildHotspot(cid, members))
	}

	sort.SliceStable(hotspots, func(i, j int) bool {
		return hotspots[i].ThreatLevel > hotspots[j].ThreatLevel
	})

	logrus.Infof("generated %d hotspots from %d reports", len(hotspots), len(reports))
	return hotspots, nil
}

func buildHotspot(clusterID int, members []types.Report) types.Hotspot {
	pts := make([]geo.Point, len(members))
	reportIDs := make([]string, 0, len(members))
	for i, m := range members {
		pts[i] = geo.Point{Lat: m.Latitude, Lon: m.Longitude}
		if m.ID != "" {
			reportIDs = append(reportIDs, m.ID)
		}
	}
	// Members were validated upstream; equal weights cannot fail here.
	centroid, _ := geo.WeightedCentroid(pts, nil)

	dominant, distribution := dominantHazard(members)
	avgSeverity := averageSeverity(members)
	avgPanic := averagePanic(members)

	var earliest, latest time.Time
	haveTimes := false
	for _, m := range members {
		t, ok := parseReportTime(m.Timestamp)
		if !ok {
			continue
		}
		if !haveTimes {
			earliest, latest = t, t
			haveTimes = true
			continue
		}
		if t.Before(earliest) {
			earliest = t
		}
		if t.After(latest) {
			latest = t
		}
	}

	// Full recency weight when timestamps are unknown; unknown is not stale.
	recency := 1.0
	if haveTimes {
		hoursOld := time.Since(latest).Hours()
		recency = math.Max(recencyFloor, 1.0-hoursOld/recencyDecayHours)
	}

	threat := CalculateThreatLevel(len(members), avgSeverity, avgPanic, recency)

	var radius float64
	for _, p := range pts {
		if d := geo.Haversine(centroid.Lat, centroid.Lon, p.Lat, p.Lon); d > radius {
			radius = d
		}
	}

	h := types.Hotspot{
		ID:                 uuid.NewString(),
		HotspotID:          fmt.Sprintf("HS_%04d", clusterID),
		ClusterID:          clusterID,
		Latitude:           centroid.Lat,
		Longitude:          centroid.Lon,
		RadiusKM:           radius,
		HazardType:         dominant,
		HazardDistribution: distribution,
		Severity:           CategorizeSeverity(threat),
		ThreatLevel:        threat,
		ReportCount:        len(members),
		AvgSeverityScore:   avgSeverity,
		AvgPanicScore:      avgPanic,
		TimeRecencyScore:   recency,
		ReportIDs:          reportIDs,
		Active:             true,
		CreatedAt:          time.Now().UTC().Format(time.RFC3339),
	}
	if haveTimes {
		h.EarliestReport = earliest.UTC().Format(time.RFC3339)
		h.LatestReport = latest.UTC().Format(time.RFC3339)
	}
	return h
}

// dominantHazard returns the most frequent hazard type among the members and
// the full count distribution. Ties break toward the hazard encountered
// first in the original record order.
func dominantHazard(members []types.Report) (types.HazardType, map[string]int) {
	distribution := map[string]int{}
	var order []types.HazardType
	for _, m := range members {
		if m.HazardType == "" {
			continue
		}
		if _, seen := distribution[string(m.HazardType)]; !seen {
			order = append(order, m.HazardType)
		}
		distribution[string(m.HazardType)]++
	}
	if len(order) == 0 {
		return types.UnknownHazard, distribution
	}

	dominant := order[0]
	for _, h := range order[1:] {
		if distribution[string(h)] > distribution[string(dominant)] {
			dominant = h
		}
	}
	return dominant, distribution
}

func averageSeverity(members []types.Report) float64 {
	var sum float64
	n := 0
	for _, m := range members {
		if m.Severity == "" {
			continue
		}
		sum += m.Severity.Score()
		n++
	}
	if n == 0 {
		return 0.5
	}
	return sum / float64(n)
}

// averagePanic prefers the observed panic level and falls back to the
// classifier's prediction; 0.5 when neither is present on any member.
func averagePanic(members []types.Report) float64 {
	var sum float64
	n := 0
	for _, m := range members {
		if m.PanicLevel != "" {
			sum += m.PanicLevel.Score()
			n++
		}
	}
	if n == 0 {
		for _, m := range members {
			if m.PredictedPanicLevel != "" {
				sum += m.PredictedPanicLevel.Score()
				n++
			}
		}
	}
	if n == 0 {
		return 0.5
	}
	return sum / float64(n)
}

// FilterActiveHotspots drops hotspots whose latest member report is older
// than maxAgeHours. Hotspots without a latest-report timestamp are dropped
// too, since their freshness cannot be established.
func FilterActiveHotspots(hotspots []types.Hotspot, maxAgeHours int) []types.Hotspot {
	cutoff := time.Now().Add(-time.Duration(maxAgeHours) * time.Hour)

	active := []types.Hotspot{}
	for _, h := range hotspots {
		t, ok := parseReportTime(h.LatestReport)
		if ok && t.After(cutoff) {
			active = append(active, h)
		}
	}
	logrus.Infof("filtered to %d active hotspots (within %dh)", len(active), maxAgeHours)
	return active
}
