package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jeyphieee/Sentivents-Backend/internal/domain"
)

// ClassifierClient calls the sentiment-analysis API, which returns ranked
// predictions for English text.
type ClassifierClient struct {
	httpClient *http.Client
	baseURL    string
	host       string
	apiKey     string
}

// NewClassifierClient creates a classifier client. baseURL is the scheme+host
// of the vendor; timeout bounds each call.
func NewClassifierClient(baseURL, apiKey string, timeout time.Duration) *ClassifierClient {
	return &ClassifierClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		host:       rapidAPIHost(baseURL),
		apiKey:     apiKey,
	}
}

type classifyRequestItem struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Text     string `json:"text"`
}

type classifyResponseItem struct {
	Predictions []struct {
		Prediction string `json:"prediction"`
	} `json:"predictions"`
}

// Classify submits English text and returns the vendor's predictions in rank
// order (best first).
func (c *ClassifierClient) Classify(ctx context.Context, text string) ([]domain.Prediction, error) {
	body, err := json.Marshal([]classifyRequestItem{{ID: "1", Language: "en", Text: text}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sentiment", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classify request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classify returned unexpected status %d", resp.StatusCode)
	}

	var result []classifyResponseItem
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode classify response: %w", err)
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("classify returned no results")
	}

	predictions := make([]domain.Prediction, 0, len(result[0].Predictions))
	for i, p := range result[0].Predictions {
		predictions = append(predictions, domain.Prediction{Label: p.Prediction, Rank: i})
	}

	return predictions, nil
}
