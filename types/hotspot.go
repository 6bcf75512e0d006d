package types

// Hotspot is one spatial cluster of hazard reports summarized into a single
// aggregate record with a bounded [0,10] threat level.
type Hotspot struct {
	// ID is the Firestore document ID.
	ID        string `firestore:"-" json:"-"`
	HotspotID string `firestore:"hotspotId" json:"hotspot_id"`
	ClusterID int    `firestore:"clusterId" json:"cluster_id"`

	// Weighted centroid of the member reports.
	Latitude  float64 `firestore:"lat" json:"latitude"`
	Longitude float64 `firestore:"long" json:"longitude"`
	// RadiusKM is the max distance from the centroid to any member, the
	// actual spatial extent rather than the clustering radius parameter.
	RadiusKM float64 `firestore:"radiusKm" json:"radius_km"`

	HazardType         HazardType     `firestore:"hazardType" json:"hazard_type"`
	HazardDistribution map[string]int `firestore:"hazardDistribution" json:"hazard_distribution"`

	Severity    Severity `firestore:"severity" json:"severity"`
	ThreatLevel float64  `firestore:"threatLevel" json:"threat_level"`

	ReportCount      int     `firestore:"reportCount" json:"report_count"`
	AvgSeverityScore float64 `firestore:"avgSeverityScore" json:"avg_severity_score"`
	AvgPanicScore    float64 `firestore:"avgPanicScore" json:"avg_panic_score"`
	TimeRecencyScore float64 `firestore:"timeRecencyScore" json:"time_recency_score"`

	// RFC3339; empty when no member carried a parseable timestamp.
	EarliestReport string `firestore:"earliestReport,omitempty" json:"earliest_report,omitempty"`
	LatestReport   string `firestore:"latestReport,omitempty" json:"latest_report,omitempty"`

	// ReportIDs of the members, used to pull texts for summarization.
	ReportIDs []string `firestore:"reportIds" json:"report_ids,omitempty"`
	Summary   string   `firestore:"summary,omitempty" json:"summary,omitempty"`

	// MergedCount is set on records produced by the merger (number of
	// hotspots folded into this one, the record itself included).
	MergedCount int `firestore:"mergedCount,omitempty" json:"merged_count,omitempty"`

	Active    bool   `firestore:"active" json:"active"`
	CreatedAt string `firestore:"createdAt" json:"created_at"`
}
