// Package mlmodel is the client for the external hazard classifier service.
// The models behind it (text/image classifiers, NER, sentiment) are opaque
// here; this package only ships texts out and predictions back.
package mlmodel

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
)

// ClassifyRequest maps report IDs to their raw text.
type ClassifyRequest map[string]string

// Prediction carries the per-report attributes the classifier service
// derives. Locations are place-name mentions extracted by the service's NER
// model; they still need geocoding before a report can be clustered.
type Prediction struct {
	HazardType string   `json:"hazard_type"`
	IsHazard   bool     `json:"is_hazard"`
	Confidence float64  `json:"confidence"`
	Sentiment  string   `json:"sentiment"`
	PanicLevel string   `json:"panic_level"`
	Locations  []string `json:"locations"`
}

// ClassifyResponse maps report IDs back to their predictions.
type ClassifyResponse map[string]Prediction

const defaultModelURL = "http://localhost:8000/api/v1/predict/batch"

func modelURL() string {
	if url := os.Getenv("MODEL_SERVICE_URL"); url != "" {
		return url
	}
	return defaultModelURL
}

// Classify sends a batch of texts to the model service.
func Classify(inputs ClassifyRequest) (ClassifyResponse, error) {
	payloadBytes, err := json.Marshal(inputs)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, modelURL(), bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("model service returned status: " + resp.Status)
	}

	var predictions ClassifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&predictions); err != nil {
		return nil, err
	}

	return predictions, nil
}
