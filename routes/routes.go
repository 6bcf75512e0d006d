package routes

import (
	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"

	"oceanwatch/config"
	"oceanwatch/handlers"
)

func SetupRouter(firestoreClient *firestore.Client, cfg config.Config) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Hello, welcome to OceanWatch!",
		})
	})

	// Inject the Firestore client and config into handlers
	api := r.Group("/api/oceanwatch")
	{
		api.GET("/reports/nearby", func(c *gin.Context) {
			handlers.GetNearbyReportsHandler(c, firestoreClient)
		})
		api.GET("/hotspots", func(c *gin.Context) {
			handlers.GetHotspotsHandler(c, firestoreClient, cfg)
		})
		api.GET("/hotspots/:id", func(c *gin.Context) {
			handlers.GetHotspotHandler(c, firestoreClient)
		})
		api.POST("/credibility", handlers.ScoreCredibilityHandler)
		api.POST("/analyze", func(c *gin.Context) {
			handlers.TriggerAnalysisHandler(c, firestoreClient, cfg)
		})
		api.GET("/social/fetch", func(c *gin.Context) {
			handlers.FetchFeedHandler(c, firestoreClient)
		})
		api.GET("/simulate", func(c *gin.Context) {
			handlers.SimulateHandler(c, cfg)
		})
	}

	return r
}
