package handlers

import (
	"context"
	"net/http"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"oceanwatch/config"
	"oceanwatch/credibility"
	"oceanwatch/db"
	"oceanwatch/detection"
	"oceanwatch/geo"
	"oceanwatch/summarization"
	"oceanwatch/types"
)

// RunAnalysis executes the full hotspot pipeline against recent reports:
// credibility scoring, filtering, cluster detection, hotspot merging,
// optional summarization, and persistence. The cron scheduler and the manual
// trigger endpoint both call this.
func RunAnalysis(ctx context.Context, firestoreClient *firestore.Client, cfg config.Config) ([]types.Hotspot, error) {
	reports, err := db.GetReportsForAnalysis(firestoreClient, cfg.MaxHotspotAgeHours)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Analysis run: %d reports fetched", len(reports))

	scorer := credibility.NewScorer()
	scored := scorer.ScoreBatch(reports)

	var usable []types.Report
	highPanic := 0
	for _, r := range scored {
		if !r.HasCoordinates() {
			continue
		}
		if r.PanicScore >= cfg.PanicThreshold {
			highPanic++
		}
		// Citizen reports are trusted as-is; social posts must pass the
		// classifier and clear the credibility bar.
		if r.Source == types.ReportSourceCitizen {
			usable = append(usable, r)
			continue
		}
		if r.IsHazard && r.Confidence >= cfg.ConfidenceThreshold && r.CredibilityScore >= cfg.CredibilityThreshold {
			usable = append(usable, r)
		}
	}
	logrus.Infof("Analysis run: %d of %d reports usable, %d high panic", len(usable), len(scored), highPanic)

	logDensity(usable, cfg.DensityRadiusKM)

	hotspots, err := detection.GenerateHotspots(usable, cfg.HotspotRadiusKM, cfg.HotspotMinReports)
	if err != nil {
		return nil, err
	}
	hotspots = detection.MergeNearbyHotspots(hotspots, cfg.MergeDistanceKM)
	logrus.Infof("Analysis run: %d hotspots after merging", len(hotspots))

	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" && len(hotspots) > 0 {
		openaiClient := openai.NewClient(apiKey)
		if err := summarization.GenerateSummaries(ctx, hotspots, firestoreClient, openaiClient); err != nil {
			logrus.Warnf("Summary generation failed: %v", err)
		}
	}

	if len(hotspots) > 0 {
		if err := db.SaveHotspots(firestoreClient, hotspots); err != nil {
			return nil, err
		}
	}
	return hotspots, nil
}

// logDensity reports the densest neighborhood among the usable reports, a
// quick signal of how concentrated the incoming picture is before clustering.
func logDensity(reports []types.Report, radiusKM float64) {
	if len(reports) == 0 {
		return
	}
	pts := make([]geo.Point, len(reports))
	for i, r := range reports {
		pts[i] = geo.Point{Lat: r.Latitude, Lon: r.Longitude}
	}
	analyzer := geo.NewAnalyzer()
	counts, err := analyzer.LocalDensity(pts, radiusKM, geo.StrategyAuto)
	if err != nil {
		logrus.Warnf("Density check failed: %v", err)
		return
	}
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	logrus.Infof("Densest neighborhood has %d reports within %.0fkm", max+1, radiusKM)
}

// TriggerAnalysisHandler runs the pipeline on demand.
func TriggerAnalysisHandler(c *gin.Context, firestoreClient *firestore.Client, cfg config.Config) {
	hotspots, err := RunAnalysis(c.Request.Context(), firestoreClient, cfg)
	if err != nil {
		logrus.Errorf("Analysis run failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"hotspot_count": len(hotspots),
		"hotspots":      hotspots,
	})
}
