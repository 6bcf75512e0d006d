package handlers

import (
	"context"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/bluesky-social/indigo/xrpc"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"oceanwatch/processor"
	"oceanwatch/types"
)

const feedMethod = "app.bsky.feed.getFeed"

// FetchFeed pulls one hydrated Bluesky feed from the public endpoint and runs
// the harvest pipeline over it. The cron scheduler and the manual endpoint
// both call this.
func FetchFeed(ctx context.Context, firestoreClient *firestore.Client, feedURI string, limit int) ([]processor.Result, error) {
	client := &xrpc.Client{
		Client: &http.Client{Timeout: 10 * time.Second},
		Host:   "https://public.api.bsky.app",
	}

	if limit <= 0 {
		limit = 25
	}
	params := map[string]interface{}{
		"feed":  feedURI,
		"limit": limit,
	}

	var out types.FeedResponse
	if err := client.Do(ctx, xrpc.Query, "json", feedMethod, params, nil, &out); err != nil {
		return nil, err
	}
	logrus.Infof("Fetched %d posts from feed %s", len(out.Feed), feedURI)

	return processor.ProcessFeed(out, firestoreClient), nil
}

// FetchFeedHandler triggers a harvest of the feed given in the feed query
// parameter.
func FetchFeedHandler(c *gin.Context, firestoreClient *firestore.Client) {
	feedURI := c.Query("feed")
	if feedURI == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing feed query parameter"})
		return
	}

	results, err := FetchFeed(c.Request.Context(), firestoreClient, feedURI, 25)
	if err != nil {
		logrus.Errorf("Feed fetch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	saved := 0
	for _, r := range results {
		if r.Saved {
			saved++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"processed": len(results),
		"saved":     saved,
		"results":   results,
	})
}
