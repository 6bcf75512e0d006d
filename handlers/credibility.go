package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oceanwatch/credibility"
	"oceanwatch/types"
)

// ScoreCredibilityHandler scores a single report posted as JSON and returns
// the score, its category, and the per-group breakdown. Useful for tuning and
// for clients that want to preview how a report would be weighed.
func ScoreCredibilityHandler(c *gin.Context) {
	var report types.Report
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report payload: " + err.Error()})
		return
	}

	scorer := credibility.NewScorer()
	breakdown := scorer.ScoreBreakdown(report)

	c.JSON(http.StatusOK, gin.H{
		"credibility_score":    breakdown.Total,
		"credibility_category": scorer.Categorize(breakdown.Total),
		"breakdown":            breakdown,
	})
}
