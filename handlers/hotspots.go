package handlers

import (
	"net/http"
	"sort"
	"strconv"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"oceanwatch/config"
	"oceanwatch/db"
	"oceanwatch/detection"
)

// GetHotspotsHandler lists stored hotspots, most threatening first. Pass
// active=true to drop hotspots whose latest report is older than the
// configured age window.
func GetHotspotsHandler(c *gin.Context, firestoreClient *firestore.Client, cfg config.Config) {
	hotspots, err := db.GetAllHotspots(firestoreClient)
	if err != nil {
		logrus.Errorf("Fetching hotspots failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if c.Query("active") == "true" {
		maxAge := cfg.MaxHotspotAgeHours
		if v := c.Query("max_age_hours"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				maxAge = n
			}
		}
		hotspots = detection.FilterActiveHotspots(hotspots, maxAge)
	}

	sort.SliceStable(hotspots, func(i, j int) bool {
		return hotspots[i].ThreatLevel > hotspots[j].ThreatLevel
	})

	c.JSON(http.StatusOK, gin.H{
		"count":    len(hotspots),
		"hotspots": hotspots,
	})
}

// GetHotspotHandler returns one hotspot by its document ID.
func GetHotspotHandler(c *gin.Context, firestoreClient *firestore.Client) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing hotspot id"})
		return
	}

	hotspot, err := db.GetHotspotByID(firestoreClient, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "hotspot not found"})
		return
	}
	c.JSON(http.StatusOK, hotspot)
}
