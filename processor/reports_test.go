package processor

import (
	"testing"

	"oceanwatch/types"
)

func samplePost(text string) types.Post {
	return types.Post{
		URI: "at://did:plc:abc/app.bsky.feed.post/xyz",
		Record: types.Record{
			Type:      "app.bsky.feed.post",
			CreatedAt: "2026-08-29T10:00:00Z",
			Text:      text,
		},
		LikeCount:   12,
		RepostCount: 3,
		QuoteCount:  1,
		ReplyCount:  5,
	}
}

func TestBuildReportEngagement(t *testing.T) {
	r := BuildReport(samplePost("Huge waves hitting the Marine Drive seawall right now"))

	if r.Likes != 12 {
		t.Errorf("likes = %d, want 12", r.Likes)
	}
	if r.Shares != 4 {
		t.Errorf("shares should sum reposts and quotes, got %d", r.Shares)
	}
	if r.Comments != 5 {
		t.Errorf("comments = %d, want 5", r.Comments)
	}
	if r.TotalEngagement() != 21 {
		t.Errorf("total engagement = %d, want 21", r.TotalEngagement())
	}
	if r.Source != types.ReportSourceSocial {
		t.Errorf("source = %s, want social", r.Source)
	}
	if r.ID == "" {
		t.Error("report id should be derived from the post URI")
	}
}

func TestBuildReportTextFeatures(t *testing.T) {
	r := BuildReport(samplePost("URGENT: evacuate the beach now! Water rose 3 meters since 9:30 am on Monday"))

	if !r.HasUrgencyWords {
		t.Error("expected urgency words to be detected")
	}
	if !r.HasNumbers {
		t.Error("expected numbers to be detected")
	}
	if r.DateCount == 0 {
		t.Error("expected a date mention (Monday)")
	}
	if r.TimeCount == 0 {
		t.Error("expected a time mention (9:30 am)")
	}
	if r.WordCount != 14 {
		t.Errorf("word count = %d, want 14", r.WordCount)
	}
}

func TestBuildReportCalmText(t *testing.T) {
	r := BuildReport(samplePost("Lovely calm evening by the sea"))

	if r.HasUrgencyWords {
		t.Error("no urgency words expected")
	}
	if r.HasNumbers {
		t.Error("no numbers expected")
	}
	if r.HasMedia || r.MediaCount != 0 {
		t.Error("post without embeds should have no media")
	}
	if r.HasCoordinates() {
		t.Error("fresh social report should carry no coordinates")
	}
}

func TestBuildReportMedia(t *testing.T) {
	post := samplePost("Flooding near the harbour, see photos")
	post.Embed = &types.Embed{
		Type: "app.bsky.embed.images#view",
		Images: []types.ImageEmbed{
			{Alt: "flooded street"},
			{Alt: "overtopped seawall"},
		},
	}

	r := BuildReport(post)
	if !r.HasMedia {
		t.Error("expected media flag")
	}
	if r.MediaCount != 2 {
		t.Errorf("media count = %d, want 2", r.MediaCount)
	}
}

func TestBuildReportStableID(t *testing.T) {
	a := BuildReport(samplePost("same post"))
	b := BuildReport(samplePost("same post"))
	if a.ID != b.ID {
		t.Errorf("same URI must hash to the same id: %s vs %s", a.ID, b.ID)
	}
}
