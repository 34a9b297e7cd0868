package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// TranslatorClient calls the deep-translate API to translate text to English.
// The source language is auto-detected by the vendor.
type TranslatorClient struct {
	httpClient *http.Client
	baseURL    string
	host       string
	apiKey     string
}

// NewTranslatorClient creates a translator client. baseURL is the scheme+host
// of the vendor (e.g. "https://deep-translate1.p.rapidapi.com"); timeout
// bounds each call.
func NewTranslatorClient(baseURL, apiKey string, timeout time.Duration) *TranslatorClient {
	return &TranslatorClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		host:       rapidAPIHost(baseURL),
		apiKey:     apiKey,
	}
}

// rapidAPIHost extracts the bare host for the x-rapidapi-host header the
// vendors expect alongside the key.
func rapidAPIHost(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return u.Host
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type translateResponse struct {
	Data struct {
		Translations struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// Translate submits text with source auto-detection and target English.
func (c *TranslatorClient) Translate(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(translateRequest{Q: text, Source: "auto", Target: "en"})
	if err != nil {
		return "", fmt.Errorf("failed to marshal translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/language/translate/v2", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate returned unexpected status %d", resp.StatusCode)
	}

	var result translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode translate response: %w", err)
	}

	if result.Data.Translations.TranslatedText == "" {
		return "", fmt.Errorf("translate returned empty text")
	}

	return result.Data.Translations.TranslatedText, nil
}
