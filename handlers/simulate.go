package handlers

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"oceanwatch/config"
	"oceanwatch/credibility"
	"oceanwatch/detection"
	"oceanwatch/types"
)

// SimulateHandler runs the analysis core over synthetic reports without
// touching Firestore. Handy for demos and for eyeballing threshold changes.
func SimulateHandler(c *gin.Context, cfg config.Config) {
	rng := rand.New(rand.NewSource(42))
	now := time.Now().UTC()

	sites := []struct {
		name   string
		lat    float64
		lon    float64
		hazard types.HazardType
		count  int
	}{
		{"Mumbai", 19.0760, 72.8770, types.HighWaves, 8},
		{"Chennai", 13.0475, 80.2824, types.Cyclone, 6},
	}

	var reports []types.Report
	for _, site := range sites {
		for i := 0; i < site.count; i++ {
			reports = append(reports, types.Report{
				ID:         fmt.Sprintf("sim-%s-%d", site.name, i),
				Source:     types.ReportSourceCitizen,
				Latitude:   site.lat + (rng.Float64()-0.5)*0.05,
				Longitude:  site.lon + (rng.Float64()-0.5)*0.05,
				Text:       fmt.Sprintf("Simulated %s report near %s, water levels rising fast along the shore", site.hazard, site.name),
				HazardType: site.hazard,
				Severity:   types.High,
				PanicLevel: types.Medium,
				Timestamp:  now.Add(-time.Duration(rng.Intn(12)) * time.Hour).Format(time.RFC3339),
				IsHazard:   true,
				Confidence: 0.9,
			})
		}
	}
	// A couple of isolated reports that should stay noise.
	reports = append(reports,
		types.Report{ID: "sim-isolated-1", Source: types.ReportSourceCitizen, Latitude: 8.0883, Longitude: 77.5385, HazardType: types.Tsunami, Timestamp: now.Format(time.RFC3339), IsHazard: true},
		types.Report{ID: "sim-isolated-2", Source: types.ReportSourceCitizen, Latitude: 21.6417, Longitude: 87.5064, HazardType: types.StormSurge, Timestamp: now.Format(time.RFC3339), IsHazard: true},
	)

	scorer := credibility.NewScorer()
	scored := scorer.ScoreBatch(reports)

	hotspots, err := detection.GenerateHotspots(scored, cfg.HotspotRadiusKM, cfg.HotspotMinReports)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	hotspots = detection.MergeNearbyHotspots(hotspots, cfg.MergeDistanceKM)

	c.JSON(http.StatusOK, gin.H{
		"report_count":  len(reports),
		"hotspot_count": len(hotspots),
		"hotspots":      hotspots,
	})
}
