// Package credibility scores how trustworthy a single hazard report is, on
// [0,1], from weighted signals: location specificity, media, engagement,
// author reputation, text quality, and hazard/sentiment consistency.
package credibility

import (
	"math"

	"github.com/sirupsen/logrus"

	"oceanwatch/types"
)

// Component weights. They sum to exactly 1.0, so the clamp in Score is a
// safety net rather than a working part of the formula.
const (
	weightHasLocation         = 0.15
	weightLocationSpecificity = 0.10
	weightHasMedia            = 0.15
	weightMediaCount          = 0.05
	weightEngagement          = 0.10
	weightShareRatio          = 0.05
	weightAuthorFollowers     = 0.10
	weightVerifiedAccount     = 0.05
	weightTextQuality         = 0.10
	weightHasDetails          = 0.05
	weightHazardSentiment     = 0.05
	weightUrgencyConsistency  = 0.05
)

const (
	engagementSaturation = 1000.0
	followerSaturation   = 10000.0
)

const (
	CategoryHigh   = "high"
	CategoryMedium = "medium"
	CategoryLow    = "low"
)

// Scorer is a stateless credibility scorer. Construct once at process start
// and share; it is safe for concurrent use.
type Scorer struct {
	HighThreshold   float64
	MediumThreshold float64
}

func NewScorer() *Scorer {
	return &Scorer{HighThreshold: 0.7, MediumThreshold: 0.5}
}

// Breakdown groups the component contributions. Each entry is already
// weighted; Total is their clamped sum, equal to Score for the same report.
type Breakdown struct {
	Location    float64 `json:"location"`
	Media       float64 `json:"media"`
	Engagement  float64 `json:"engagement"`
	Author      float64 `json:"author"`
	TextQuality float64 `json:"text_quality"`
	Consistency float64 `json:"consistency"`
	Total       float64 `json:"total"`
}

// Score computes the credibility of a single report. Missing optional fields
// contribute zero to their component; nothing here ever fails, since reports
// from heterogeneous sources are only ever partially populated.
func (s *Scorer) Score(r types.Report) float64 {
	b := s.ScoreBreakdown(r)
	return b.Total
}

func (s *Scorer) ScoreBreakdown(r types.Report) Breakdown {
	b := Breakdown{
		Location:    scoreLocation(r),
		Media:       scoreMedia(r),
		Engagement:  scoreEngagement(r),
		Author:      scoreAuthor(r),
		TextQuality: scoreTextQuality(r),
		Consistency: scoreConsistency(r),
	}
	total := b.Location + b.Media + b.Engagement + b.Author + b.TextQuality + b.Consistency
	b.Total = math.Max(0.0, math.Min(1.0, total))
	return b
}

// Categorize maps a score onto low/medium/high.
func (s *Scorer) Categorize(score float64) string {
	switch {
	case score >= s.HighThreshold:
		return CategoryHigh
	case score >= s.MediumThreshold:
		return CategoryMedium
	default:
		return CategoryLow
	}
}

// ScoreBatch returns a copy of the reports with credibility score and
// category attached.
func (s *Scorer) ScoreBatch(reports []types.Report) []types.Report {
	out := make([]types.Report, len(reports))
	copy(out, reports)
	for i := range out {
		out[i].CredibilityScore = s.Score(out[i])
		out[i].CredibilityCategory = s.Categorize(out[i].CredibilityScore)
	}
	logrus.Infof("scored credibility for %d reports", len(out))
	return out
}

func scoreLocation(r types.Report) float64 {
	score := 0.0
	if r.HasLocationEntity || r.HasCoordinates() {
		score += weightHasLocation
	}
	if r.LocationCount > 0 {
		score += weightLocationSpecificity
	}
	return score
}

func scoreMedia(r types.Report) float64 {
	score := 0.0
	if r.HasMedia {
		score += weightHasMedia
	}
	if r.MediaCount > 0 {
		score += weightMediaCount * math.Min(float64(r.MediaCount)/3.0, 1.0)
	}
	return score
}

func scoreEngagement(r types.Report) float64 {
	score := 0.0
	engagement := r.TotalEngagement()
	if engagement > 0 {
		score += weightEngagement * math.Min(math.Log1p(float64(engagement))/math.Log1p(engagementSaturation), 1.0)
		score += weightShareRatio * (float64(r.Shares) / float64(engagement))
	}
	return score
}

func scoreAuthor(r types.Report) float64 {
	score := 0.0
	if r.AuthorFollowers > 0 {
		score += weightAuthorFollowers * math.Min(math.Log1p(float64(r.AuthorFollowers))/math.Log1p(followerSaturation), 1.0)
	}
	if r.IsVerifiedAccount {
		score += weightVerifiedAccount
	}
	return score
}

// scoreTextQuality rewards texts in the 10-100 word sweet spot: a linear
// ramp below 10 words, decay above 100 at one point per 200 extra words with
// a 0.5 floor.
func scoreTextQuality(r types.Report) float64 {
	score := 0.0
	if r.WordCount > 0 {
		wc := float64(r.WordCount)
		var textScore float64
		switch {
		case wc >= 10 && wc <= 100:
			textScore = 1.0
		case wc < 10:
			textScore = wc / 10
		default:
			textScore = math.Max(0.5, 1.0-(wc-100)/200)
		}
		score += weightTextQuality * textScore
	}

	detail := 0.0
	if r.DateCount > 0 {
		detail += 0.33
	}
	if r.TimeCount > 0 {
		detail += 0.33
	}
	if r.HasNumbers {
		detail += 0.34
	}
	score += weightHasDetails * detail

	return score
}

// scoreConsistency checks that the classifier's hazard call agrees with the
// sentiment, and that urgency wording agrees with the panic level. Both
// checks are skipped entirely when the relevant classifier outputs are
// absent.
func scoreConsistency(r types.Report) float64 {
	score := 0.0

	if r.Sentiment != "" {
		if r.IsHazard && r.Sentiment == types.SentimentNegative {
			score += weightHazardSentiment
		} else if !r.IsHazard && r.Sentiment != types.SentimentNegative {
			score += weightHazardSentiment * 0.5
		}
	}

	if r.PredictedPanicLevel != "" {
		high := r.PredictedPanicLevel == types.High || r.PredictedPanicLevel == types.Critical
		if r.HasUrgencyWords && high {
			score += weightUrgencyConsistency
		} else if !r.HasUrgencyWords && !high {
			score += weightUrgencyConsistency * 0.5
		}
	} else if r.UrgencyScore != 0 || r.PanicScore != 0 {
		if math.Abs(r.UrgencyScore-r.PanicScore) < 0.3 {
			score += weightUrgencyConsistency
		}
	}

	return score
}
