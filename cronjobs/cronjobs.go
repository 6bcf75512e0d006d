package cronjobs

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"oceanwatch/config"
	"oceanwatch/handlers"
)

// Curated Bluesky feeds per hazard topic. Harvests are staggered so the
// classifier service never sees three batches at once.
const (
	tsunamiFeedURI = "at://did:plc:qiknc4t5rq7yngvz7g4aezq7/app.bsky.feed.generator/aaaejsyozb6iq"
	cycloneFeedURI = "at://did:plc:qiknc4t5rq7yngvz7g4aezq7/app.bsky.feed.generator/aaaejwgffwqky"
	floodFeedURI   = "at://did:plc:qiknc4t5rq7yngvz7g4aezq7/app.bsky.feed.generator/aaaejxlobe474"
)

func harvestFeed(firestoreClient *firestore.Client, name, uri string) {
	logrus.Infof("CronJob: %s feed harvest running", name)
	results, err := handlers.FetchFeed(context.Background(), firestoreClient, uri, 25)
	if err != nil {
		logrus.Errorf("CronJob: %s feed harvest failed: %v", name, err)
		return
	}
	saved := 0
	for _, r := range results {
		if r.Saved {
			saved++
		}
	}
	logrus.Infof("CronJob: %s feed harvest processed %d posts, saved %d", name, len(results), saved)
}

func InitCronJobs(firestoreClient *firestore.Client, cfg config.Config) {
	logrus.Info("Starting cron jobs")
	c := cron.New()

	// Tsunami feed: every 10 minutes on the hour mark
	_, err := c.AddFunc("*/10 * * * *", func() {
		harvestFeed(firestoreClient, "tsunami", tsunamiFeedURI)
	})
	if err != nil {
		logrus.Error("Error scheduling tsunami feed: ", err)
	}

	// Cyclone feed: every 10 minutes at the 2 minute mark
	_, err = c.AddFunc("2-59/10 * * * *", func() {
		harvestFeed(firestoreClient, "cyclone", cycloneFeedURI)
	})
	if err != nil {
		logrus.Error("Error scheduling cyclone feed: ", err)
	}

	// Flood feed: every 10 minutes at the 4 minute mark
	_, err = c.AddFunc("4-59/10 * * * *", func() {
		harvestFeed(firestoreClient, "flood", floodFeedURI)
	})
	if err != nil {
		logrus.Error("Error scheduling flood feed: ", err)
	}

	// Hotspot analysis: hourly, after the harvests have landed
	_, err = c.AddFunc("7 * * * *", func() {
		logrus.Info("CronJob: hotspot analysis running")
		hotspots, err := handlers.RunAnalysis(context.Background(), firestoreClient, cfg)
		if err != nil {
			logrus.Errorf("CronJob: hotspot analysis failed: %v", err)
			return
		}
		logrus.Infof("CronJob: hotspot analysis produced %d hotspots", len(hotspots))
	})
	if err != nil {
		logrus.Error("Error scheduling hotspot analysis: ", err)
	}

	c.Start()
}
