// Package processor turns harvested social posts into hazard report records:
// engagement and media features from the post itself, text features computed
// locally, hazard attributes from the classifier service, and coordinates
// from geocoding the places the classifier extracted.
package processor

import (
	"regexp"
	"strings"
	"sync"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"

	"oceanwatch/db"
	"oceanwatch/geocode"
	"oceanwatch/mlmodel"
	"oceanwatch/types"
)

var urgencyWords = []string{
	"urgent", "emergency", "help", "evacuate", "evacuation", "immediately",
	"warning", "alert", "danger", "rescue", "sos", "now", "asap",
}

var (
	numberPattern = regexp.MustCompile(`\d`)
	datePattern   = regexp.MustCompile(`(?i)\b(\d{1,2}[/-]\d{1,2}([/-]\d{2,4})?|january|february|march|april|may|june|july|august|september|october|november|december|monday|tuesday|wednesday|thursday|friday|saturday|sunday|today|yesterday|tomorrow)\b`)
	timePattern   = regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2}|\d{1,2}\s?(am|pm)|morning|afternoon|evening|tonight|midnight|noon)\b`)
)

// Result reports the outcome for one harvested post.
type Result struct {
	ReportID string `json:"report_id"`
	Content  string `json:"content"`
	Saved    bool   `json:"saved"`
	Skipped  bool   `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

// BuildReport maps one Bluesky post onto a report record with its engagement
// and text features populated. Classifier attributes and coordinates are
// attached later.
func BuildReport(post types.Post) types.Report {
	text := post.Record.Text
	words := strings.Fields(text)
	lower := strings.ToLower(text)

	hasUrgency := false
	for _, w := range urgencyWords {
		if strings.Contains(lower, w) {
			hasUrgency = true
			break
		}
	}

	mediaCount := 0
	if post.Embed != nil {
		mediaCount = len(post.Embed.Images)
	}

	return types.Report{
		ID:              db.HashString(post.URI),
		Source:          types.ReportSourceSocial,
		Text:            text,
		Timestamp:       post.Record.CreatedAt,
		Likes:           post.LikeCount,
		Shares:          post.RepostCount + post.QuoteCount,
		Comments:        post.ReplyCount,
		HasMedia:        mediaCount > 0,
		MediaCount:      mediaCount,
		WordCount:       len(words),
		HasUrgencyWords: hasUrgency,
		DateCount:       len(datePattern.FindAllString(text, -1)),
		TimeCount:       len(timePattern.FindAllString(text, -1)),
		HasNumbers:      numberPattern.MatchString(text),
	}
}

// ProcessFeed runs the full post-to-report pipeline for one harvested feed:
// build records, classify the batch, geocode extracted places concurrently,
// and save whatever came out usable. Posts the classifier rejects as
// non-hazard are skipped, not errors.
func ProcessFeed(feed types.FeedResponse, firestoreClient *firestore.Client) []Result {
	var reports []types.Report
	for _, entry := range feed.Feed {
		if entry.Post.URI == "" || entry.Post.Record.Text == "" {
			continue
		}
		reports = append(reports, BuildReport(entry.Post))
	}
	if len(reports) == 0 {
		return []Result{}
	}

	classifyReq := mlmodel.ClassifyRequest{}
	for _, r := range reports {
		classifyReq[r.ID] = r.Text
	}
	predictions, err := mlmodel.Classify(classifyReq)
	if err != nil {
		logrus.Errorf("classifier call failed for %d posts: %v", len(reports), err)
		results := make([]Result, len(reports))
		for i, r := range reports {
			results[i] = Result{ReportID: r.ID, Content: r.Text, Error: err.Error()}
		}
		return results
	}

	resultsChan := make(chan Result, len(reports))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var usable []types.Report

	for i := range reports {
		wg.Add(1)
		report := reports[i] // capture for goroutine
		go func() {
			defer wg.Done()
			resultsChan <- finalizeReport(report, predictions, &mu, &usable)
		}()
	}
	wg.Wait()
	close(resultsChan)

	if len(usable) > 0 {
		if err := db.SaveReports(firestoreClient, usable); err != nil {
			logrus.Errorf("saving %d reports failed: %v", len(usable), err)
		}
	}

	var results []Result
	for res := range resultsChan {
		results = append(results, res)
	}
	return results
}

func finalizeReport(report types.Report, predictions mlmodel.ClassifyResponse, mu *sync.Mutex, usable *[]types.Report) Result {
	pred, found := predictions[report.ID]
	if !found {
		return Result{ReportID: report.ID, Content: report.Text, Skipped: true}
	}

	report.IsHazard = pred.IsHazard
	report.Confidence = pred.Confidence
	report.HazardType = types.HazardType(pred.HazardType)
	report.Sentiment = types.SentimentLabel(pred.Sentiment)
	report.PredictedPanicLevel = types.Severity(pred.PanicLevel)
	report.HasLocationEntity = len(pred.Locations) > 0
	report.LocationCount = len(pred.Locations)

	if !pred.IsHazard {
		return Result{ReportID: report.ID, Content: report.Text, Skipped: true}
	}

	// Social posts carry no coordinates; resolve the first extracted place
	// mention. Posts with no resolvable location cannot be clustered and are
	// dropped here.
	if !report.HasCoordinates() {
		resolved := false
		for _, place := range pred.Locations {
			if lat, lon, formatted, ok := geocode.GeocodePlace(place); ok {
				report.Latitude = lat
				report.Longitude = lon
				report.Location = formatted
				resolved = true
				break
			}
		}
		if !resolved {
			return Result{ReportID: report.ID, Content: report.Text, Skipped: true}
		}
	}

	mu.Lock()
	*usable = append(*usable, report)
	mu.Unlock()

	return Result{ReportID: report.ID, Content: report.Text, Saved: true}
}
