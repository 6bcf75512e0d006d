package handlers

import (
	"net/http"
	"strconv"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"oceanwatch/db"
	"oceanwatch/geo"
	"oceanwatch/types"
)

// GetNearbyReportsHandler returns stored reports within radius_km of the
// given point, nearest first, with distances attached.
func GetNearbyReportsHandler(c *gin.Context, firestoreClient *firestore.Client) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon query parameters are required"})
		return
	}

	radiusKM := 50.0
	if v := c.Query("radius_km"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "radius_km must be a positive number"})
			return
		}
		radiusKM = r
	}

	reports, err := db.GetAllReports(firestoreClient)
	if err != nil {
		logrus.Errorf("Fetching reports failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var candidates []types.Report
	var pts []geo.Point
	for _, r := range reports {
		if !r.HasCoordinates() {
			continue
		}
		candidates = append(candidates, r)
		pts = append(pts, geo.Point{Lat: r.Latitude, Lon: r.Longitude})
	}

	analyzer := geo.NewAnalyzer()
	neighbors, err := analyzer.FindWithinRadius(pts, geo.Point{Lat: lat, Lon: lon}, radiusKM, geo.StrategyAuto)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Neighbors come back sorted nearest first already.
	nearby := make([]types.Report, 0, len(neighbors))
	for _, n := range neighbors {
		r := candidates[n.Index]
		r.DistanceKM = n.DistanceKM
		nearby = append(nearby, r)
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(nearby),
		"reports": nearby,
	})
}
