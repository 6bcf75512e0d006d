package db

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"

	"oceanwatch/types"
)

const reportsCollection = "reports"

// SaveReports writes a batch of reports with BulkWriter for efficient
// non-transactional writes. A report's document ID is its pre-set ID, or the
// hash of its source URI when the ID is empty.
func SaveReports(client *firestore.Client, reports []types.Report) error {
	if len(reports) == 0 {
		logrus.Info("no reports to save")
		return nil
	}

	ctx := context.Background()
	bw := client.BulkWriter(ctx)
	collection := client.Collection(reportsCollection)

	enqueued := 0
	for i := range reports {
		report := reports[i]
		if report.ID == "" {
			logrus.Warnf("skipping report with empty ID at index %d", i)
			continue
		}
		if _, err := bw.Set(collection.Doc(report.ID), report); err != nil {
			logrus.Errorf("error enqueueing report %s: %v", report.ID, err)
			continue
		}
		enqueued++
	}

	if enqueued == 0 {
		logrus.Warn("no valid reports were enqueued for saving")
		return nil
	}

	// Flush sends remaining writes and blocks until they complete.
	bw.Flush()
	logrus.Infof("saved %d reports", enqueued)
	return nil
}

// GetReportsForAnalysis retrieves reports whose timestamps fall within the
// last withinHours hours. Timestamps are RFC3339 UTC strings, so the range
// filter works lexically.
func GetReportsForAnalysis(client *firestore.Client, withinHours int) ([]types.Report, error) {
	ctx := context.Background()
	cutoff := time.Now().UTC().Add(-time.Duration(withinHours) * time.Hour).Format(time.RFC3339)

	var reports []types.Report
	iter := client.Collection(reportsCollection).
		Where("timestamp", ">=", cutoff).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating reports collection: %w", err)
		}

		var report types.Report
		if err := doc.DataTo(&report); err != nil {
			logrus.Warnf("error converting document %s to Report: %v, skipping", doc.Ref.ID, err)
			continue
		}
		report.ID = doc.Ref.ID
		reports = append(reports, report)
	}

	logrus.Infof("retrieved %d reports from the last %dh", len(reports), withinHours)
	return reports, nil
}

// GetAllReports retrieves every stored report.
func GetAllReports(client *firestore.Client) ([]types.Report, error) {
	ctx := context.Background()
	var reports []types.Report

	iter := client.Collection(reportsCollection).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating reports collection: %w", err)
		}

		var report types.Report
		if err := doc.DataTo(&report); err != nil {
			logrus.Warnf("error converting document %s to Report: %v, skipping", doc.Ref.ID, err)
			continue
		}
		report.ID = doc.Ref.ID
		reports = append(reports, report)
	}

	return reports, nil
}

// GetReportsByIDs fetches specific reports; missing documents are skipped
// rather than failing the whole batch.
func GetReportsByIDs(client *firestore.Client, ids []string) ([]types.Report, error) {
	ctx := context.Background()
	collection := client.Collection(reportsCollection)

	var refs []*firestore.DocumentRef
	for _, id := range ids {
		refs = append(refs, collection.Doc(id))
	}

	docs, err := client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("error fetching reports by id: %w", err)
	}

	var reports []types.Report
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		var report types.Report
		if err := doc.DataTo(&report); err != nil {
			logrus.Warnf("error converting document %s to Report: %v, skipping", doc.Ref.ID, err)
			continue
		}
		report.ID = doc.Ref.ID
		reports = append(reports, report)
	}
	return reports, nil
}
