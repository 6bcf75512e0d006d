package detection

import (
	"math"
	"testing"
	"time"

	"oceanwatch/types"
)

func TestMergeNearbyHotspotsDisjointUnchanged(t *testing.T) {
	hotspots := []types.Hotspot{
		{HotspotID: "HS_0000", Latitude: 19.0760, Longitude: 72.8777, ReportCount: 5, ThreatLevel: 6},
		{HotspotID: "HS_0001", Latitude: 13.0475, Longitude: 80.2824, ReportCount: 3, ThreatLevel: 4},
	}

	merged := MergeNearbyHotspots(hotspots, 10)
	if len(merged) != 2 {
		t.Fatalf("distant hotspots must not merge, got %d", len(merged))
	}
	for i := range merged {
		if merged[i].HotspotID != hotspots[i].HotspotID {
			t.Errorf("hotspot %d modified: %s", i, merged[i].HotspotID)
		}
		if merged[i].MergedCount != 0 {
			t.Errorf("unmerged hotspot %d has MergedCount %d", i, merged[i].MergedCount)
		}
	}
}

func TestMergeNearbyHotspotsSingleAndEmptyPassThrough(t *testing.T) {
	if got := MergeNearbyHotspots(nil, 10); len(got) != 0 {
		t.Errorf("nil input should pass through, got %d", len(got))
	}
	one := []types.Hotspot{{HotspotID: "HS_0000"}}
	if got := MergeNearbyHotspots(one, 10); len(got) != 1 || got[0].HotspotID != "HS_0000" {
		t.Errorf("single hotspot should pass through unchanged")
	}
}

func TestMergeNearbyHotspotsGroupMerge(t *testing.T) {
	now := time.Now().UTC()
	hotspots := []types.Hotspot{
		{
			HotspotID: "HS_0000", Latitude: 19.00, Longitude: 72.80,
			ReportCount: 6, ThreatLevel: 7.2,
			HazardDistribution: map[string]int{"high_waves": 6},
			ReportIDs:          []string{"a", "b", "c", "d", "e", "f"},
			EarliestReport:     now.Add(-10 * time.Hour).Format(time.RFC3339),
			LatestReport:       now.Add(-1 * time.Hour).Format(time.RFC3339),
		},
		{
			HotspotID: "HS_0001", Latitude: 19.02, Longitude: 72.82,
			ReportCount: 2, ThreatLevel: 4.1,
			HazardDistribution: map[string]int{"storm_surge": 2},
			ReportIDs:          []string{"g", "h"},
			EarliestReport:     now.Add(-20 * time.Hour).Format(time.RFC3339),
			LatestReport:       now.Add(-5 * time.Hour).Format(time.RFC3339),
		},
		{HotspotID: "HS_0002", Latitude: 13.0475, Longitude: 80.2824, ReportCount: 3, ThreatLevel: 5},
	}

	merged := MergeNearbyHotspots(hotspots, 10)
	if len(merged) != 2 {
		t.Fatalf("expected 2 hotspots after merging, got %d", len(merged))
	}

	m := merged[0]
	if m.MergedCount != 2 {
		t.Fatalf("first result should merge 2 hotspots, got MergedCount %d", m.MergedCount)
	}
	if m.ReportCount != 8 {
		t.Errorf("report count = %d, want 8", m.ReportCount)
	}
	if m.ThreatLevel != 7.2 {
		t.Errorf("threat = %v, want the group max 7.2", m.ThreatLevel)
	}
	if m.Severity != types.High {
		t.Errorf("severity = %v, want high for threat 7.2", m.Severity)
	}
	if m.HazardType != types.HighWaves {
		t.Errorf("dominant hazard = %v, want high_waves", m.HazardType)
	}
	if m.HazardDistribution["high_waves"] != 6 || m.HazardDistribution["storm_surge"] != 2 {
		t.Errorf("unexpected distribution: %v", m.HazardDistribution)
	}
	if len(m.ReportIDs) != 8 {
		t.Errorf("report ids = %d, want 8", len(m.ReportIDs))
	}
	if m.ClusterID != Noise {
		t.Errorf("merged hotspot cluster id = %d, want %d", m.ClusterID, Noise)
	}

	// Centroid is weighted by report count, so it sits closer to HS_0000.
	wantLat := (19.00*6 + 19.02*2) / 8
	wantLon := (72.80*6 + 72.82*2) / 8
	if math.Abs(m.Latitude-wantLat) > 1e-9 || math.Abs(m.Longitude-wantLon) > 1e-9 {
		t.Errorf("centroid = (%v, %v), want (%v, %v)", m.Latitude, m.Longitude, wantLat, wantLon)
	}

	// Time range spans the whole group.
	if m.EarliestReport != now.Add(-20*time.Hour).Format(time.RFC3339) {
		t.Errorf("earliest = %s", m.EarliestReport)
	}
	if m.LatestReport != now.Add(-1*time.Hour).Format(time.RFC3339) {
		t.Errorf("latest = %s", m.LatestReport)
	}

	if merged[1].HotspotID != "HS_0002" {
		t.Errorf("distant hotspot should pass through, got %s", merged[1].HotspotID)
	}
}

func TestMergeNearbyHotspotsSinglePassNotTransitive(t *testing.T) {
	// A chain spaced ~9km apart: B is within range of A and C, but A and C
	// are ~18km apart. The single pass anchored at A merges A and B; C is
	// left alone rather than chained in.
	hotspots := []types.Hotspot{
		{HotspotID: "HS_0000", Latitude: 19.00, Longitude: 72.80, ReportCount: 3, ThreatLevel: 5},
		{HotspotID: "HS_0001", Latitude: 19.08, Longitude: 72.80, ReportCount: 3, ThreatLevel: 5},
		{HotspotID: "HS_0002", Latitude: 19.16, Longitude: 72.80, ReportCount: 3, ThreatLevel: 5},
	}

	merged := MergeNearbyHotspots(hotspots, 10)
	if len(merged) != 2 {
		t.Fatalf("expected 2 hotspots (A+B merged, C alone), got %d", len(merged))
	}
	if merged[0].MergedCount != 2 {
		t.Errorf("first result should merge A and B, MergedCount = %d", merged[0].MergedCount)
	}
	if merged[1].HotspotID != "HS_0002" {
		t.Errorf("C should pass through unmodified, got %s", merged[1].HotspotID)
	}
}

func TestMergeNearbyHotspotsZeroReportCounts(t *testing.T) {
	// Zero total weight falls back to the unweighted mean instead of failing.
	hotspots := []types.Hotspot{
		{HotspotID: "HS_0000", Latitude: 19.00, Longitude: 72.80, ThreatLevel: 3},
		{HotspotID: "HS_0001", Latitude: 19.02, Longitude: 72.82, ThreatLevel: 2},
	}

	merged := MergeNearbyHotspots(hotspots, 10)
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged hotspot, got %d", len(merged))
	}
	if math.Abs(merged[0].Latitude-19.01) > 1e-9 || math.Abs(merged[0].Longitude-72.81) > 1e-9 {
		t.Errorf("centroid = (%v, %v), want the unweighted mean (19.01, 72.81)", merged[0].Latitude, merged[0].Longitude)
	}
}
