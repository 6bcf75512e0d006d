// Package summarization attaches natural-language situation summaries to
// hotspots by feeding each hotspot's member report texts through OpenAI.
package summarization

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"oceanwatch/db"
	"oceanwatch/types"
)

const maxReportsForSummary = 50
const maxPromptLength = 15000 // rough character limit for the prompt
const summaryTimeout = 2 * time.Minute

// GenerateSummaries fetches the member reports for each hotspot and asks
// OpenAI for a short situation summary. It modifies the input slice directly;
// hotspots whose summary fails are left untouched rather than failing the
// whole batch.
func GenerateSummaries(
	ctx context.Context,
	hotspots []types.Hotspot,
	firestoreClient *firestore.Client,
	openaiClient *openai.Client,
) error {
	logrus.Infof("Starting summary generation for %d hotspots", len(hotspots))

	ctx, cancel := context.WithTimeout(ctx, summaryTimeout)
	defer cancel()

	var wg sync.WaitGroup

	for i := range hotspots {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hotspot := &hotspots[idx]

			combined, err := fetchReportTexts(ctx, hotspot, firestoreClient)
			if err != nil {
				logrus.Warnf("Fetching reports for hotspot %s failed: %v. Skipping summary.", hotspot.HotspotID, err)
				return
			}
			if combined == "" {
				logrus.Warnf("No report text found for hotspot %s. Skipping summary.", hotspot.HotspotID)
				return
			}

			summary, err := requestSummary(ctx, combined, hotspot.HazardType, openaiClient)
			if err != nil {
				logrus.Warnf("OpenAI summary for hotspot %s failed: %v. Skipping summary.", hotspot.HotspotID, err)
				return
			}
			hotspot.Summary = summary
		}(i)
	}

	wg.Wait()
	logrus.Info("Summary generation finished")
	return nil
}

func fetchReportTexts(ctx context.Context, hotspot *types.Hotspot, firestoreClient *firestore.Client) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	ids := hotspot.ReportIDs
	if len(ids) > maxReportsForSummary {
		ids = ids[:maxReportsForSummary]
	}
	if len(ids) == 0 {
		return "", nil
	}

	reports, err := db.GetReportsByIDs(firestoreClient, ids)
	if err != nil {
		return "", err
	}

	var texts []string
	for _, r := range reports {
		if r.Text != "" {
			texts = append(texts, r.Text)
		}
	}
	if len(texts) == 0 {
		return "", nil
	}

	combined := strings.Join(texts, "\n---\n")
	if len(combined) > maxPromptLength {
		combined = combined[:maxPromptLength]
	}
	return combined, nil
}

func requestSummary(ctx context.Context, reportText string, hazardType types.HazardType, client *openai.Client) (string, error) {
	prompt := fmt.Sprintf("Summarize the following collection of hazard reports related to a potential %s event along the coast. Focus on the key impacts, locations mentioned, and overall situation described. Disregard reports that feel incongruent with the hazard type. Provide a concise summary (2-3 sentences maximum):\n\n---\n%s\n---\n\nSummary:", hazardType, reportText)

	resp, err := client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4oMini,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are an assistant that summarizes citizen hazard reports and social media posts about ocean hazard events concisely.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   150,
			N:           1,
			Temperature: 0.5,
		},
	)
	if err != nil {
		return "", fmt.Errorf("openai chat completion error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai returned empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
