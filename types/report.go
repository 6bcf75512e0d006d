package types

// HazardType is the classified ocean hazard category for a report.
type HazardType string

const (
	Tsunami        HazardType = "tsunami"
	StormSurge     HazardType = "storm_surge"
	HighWaves      HazardType = "high_waves"
	CoastalErosion HazardType = "coastal_erosion"
	Cyclone        HazardType = "cyclone"
	OtherHazard    HazardType = "other"

	// UnknownHazard marks clusters where no member carried a hazard type.
	UnknownHazard HazardType = "unknown"
)

type Severity string

const (
	Low      Severity = "low"
	Medium   Severity = "medium"
	High     Severity = "high"
	Critical Severity = "critical"
)

// Score maps a severity label onto [0,1]. Unrecognized or empty labels fall
// back to 0.5, the neutral default used whenever severity is unavailable.
func (s Severity) Score() float64 {
	switch s {
	case Low:
		return 0.25
	case Medium:
		return 0.5
	case High:
		return 0.75
	case Critical:
		return 1.0
	}
	return 0.5
}

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// ReportSourceCitizen and ReportSourceSocial distinguish direct citizen
// submissions from harvested social posts. The two populate different subsets
// of the optional fields below.
const (
	ReportSourceCitizen = "citizen"
	ReportSourceSocial  = "social"
)

// Report is one hazard observation, either a citizen report or a social post.
// Optional fields keep their zero value when the upstream source did not
// provide them; every consumer treats the zero value as "absent" and degrades
// to its documented default instead of failing.
type Report struct {
	ID        string     `firestore:"-" json:"id"`
	Source    string     `firestore:"source" json:"source"`
	Latitude  float64    `firestore:"lat" json:"latitude"`
	Longitude float64    `firestore:"long" json:"longitude"`
	Text      string     `firestore:"text" json:"text"`
	Location  string     `firestore:"location,omitempty" json:"location,omitempty"`
	HazardType HazardType `firestore:"hazardType" json:"hazard_type"`
	Severity  Severity   `firestore:"severity,omitempty" json:"severity,omitempty"`
	Timestamp string     `firestore:"timestamp" json:"timestamp"` // RFC3339

	// Social engagement signals (social posts only).
	Likes             int  `firestore:"likes" json:"likes"`
	Shares            int  `firestore:"shares" json:"shares"`
	Comments          int  `firestore:"comments" json:"comments"`
	AuthorFollowers   int  `firestore:"authorFollowers" json:"author_followers"`
	IsVerifiedAccount bool `firestore:"isVerifiedAccount" json:"is_verified_account"`
	HasMedia          bool `firestore:"hasMedia" json:"has_media"`
	MediaCount        int  `firestore:"mediaCount" json:"media_count"`

	// Text features computed at ingest time.
	WordCount       int  `firestore:"wordCount" json:"word_count"`
	HasUrgencyWords bool `firestore:"hasUrgencyWords" json:"has_urgency_words"`
	DateCount       int  `firestore:"dateCount" json:"date_count"`
	TimeCount       int  `firestore:"timeCount" json:"time_count"`
	HasNumbers      bool `firestore:"hasNumbers" json:"has_numbers"`

	// Attributes produced by the external classifier service, consumed as
	// opaque inputs here.
	IsHazard            bool           `firestore:"isHazard" json:"is_hazard"`
	Confidence          float64        `firestore:"confidence" json:"confidence"`
	Sentiment           SentimentLabel `firestore:"sentiment,omitempty" json:"sentiment,omitempty"`
	PanicLevel          Severity       `firestore:"panicLevel,omitempty" json:"panic_level,omitempty"`
	PredictedPanicLevel Severity       `firestore:"predictedPanicLevel,omitempty" json:"predicted_panic_level,omitempty"`
	UrgencyScore        float64        `firestore:"urgencyScore" json:"urgency_score"`
	PanicScore          float64        `firestore:"panicScore" json:"panic_score"`
	HasLocationEntity   bool           `firestore:"hasLocationEntity" json:"has_location_entity"`
	LocationCount       int            `firestore:"locationCount" json:"location_count"`

	// Derived columns attached by the analysis core. Never written back to
	// the source of truth; they live on in-memory copies only.
	ClusterID           int     `firestore:"-" json:"cluster_id"`
	DistanceKM          float64 `firestore:"-" json:"distance_km,omitempty"`
	CredibilityScore    float64 `firestore:"-" json:"credibility_score,omitempty"`
	CredibilityCategory string  `firestore:"-" json:"credibility_category,omitempty"`
}

// TotalEngagement sums the engagement counters.
func (r Report) TotalEngagement() int {
	return r.Likes + r.Shares + r.Comments
}

// HasCoordinates reports whether the record carries a usable position.
// (0,0) is treated as the "no coordinates" sentinel.
func (r Report) HasCoordinates() bool {
	return r.Latitude != 0 || r.Longitude != 0
}
