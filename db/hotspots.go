package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"

	"oceanwatch/types"
)

const hotspotsCollection = "hotspots"

// SaveHotspots writes detected hotspots with BulkWriter, keyed by each
// hotspot's pre-generated ID.
func SaveHotspots(client *firestore.Client, hotspots []types.Hotspot) error {
	if len(hotspots) == 0 {
		logrus.Info("no hotspots to save")
		return nil
	}

	ctx := context.Background()
	bw := client.BulkWriter(ctx)
	collection := client.Collection(hotspotsCollection)

	enqueued := 0
	for i := range hotspots {
		hotspot := hotspots[i]
		if hotspot.ID == "" {
			logrus.Warnf("skipping hotspot with empty ID: %s", hotspot.HotspotID)
			continue
		}
		if _, err := bw.Set(collection.Doc(hotspot.ID), hotspot); err != nil {
			logrus.Errorf("error enqueueing hotspot %s: %v", hotspot.ID, err)
			continue
		}
		enqueued++
	}

	if enqueued == 0 {
		logrus.Warn("no valid hotspots were enqueued for saving")
		return nil
	}

	bw.Flush()
	logrus.Infof("saved %d hotspots", enqueued)
	return nil
}

// GetAllHotspots retrieves every stored hotspot.
func GetAllHotspots(client *firestore.Client) ([]types.Hotspot, error) {
	ctx := context.Background()
	var hotspots []types.Hotspot

	iter := client.Collection(hotspotsCollection).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating hotspots collection: %w", err)
		}

		var hotspot types.Hotspot
		if err := doc.DataTo(&hotspot); err != nil {
			logrus.Warnf("error converting document %s to Hotspot: %v, skipping", doc.Ref.ID, err)
			continue
		}
		hotspot.ID = doc.Ref.ID
		hotspots = append(hotspots, hotspot)
	}

	logrus.Infof("retrieved %d hotspots", len(hotspots))
	return hotspots, nil
}

// GetHotspotByID retrieves a single hotspot document.
func GetHotspotByID(client *firestore.Client, id string) (types.Hotspot, error) {
	ctx := context.Background()
	var hotspot types.Hotspot

	docSnap, err := client.Collection(hotspotsCollection).Doc(id).Get(ctx)
	if err != nil {
		return hotspot, fmt.Errorf("error getting hotspot %s: %w", id, err)
	}

	if err := docSnap.DataTo(&hotspot); err != nil {
		return hotspot, fmt.Errorf("error converting document %s to Hotspot: %w", id, err)
	}
	hotspot.ID = docSnap.Ref.ID
	return hotspot, nil
}
