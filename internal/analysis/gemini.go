package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaultGeminiBaseURL is the Google Generative Language API endpoint.
const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// providerCallTimeout bounds a single completion call.
const providerCallTimeout = 120 * time.Second

// GeminiClient calls the Google Generative Language API over plain HTTP.
type GeminiClient struct {
	apiKey  string
	models  []string
	baseURL string
	client  *http.Client
}

// NewGeminiClient creates a Gemini client for the given model variants.
func NewGeminiClient(apiKey string, models []string) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		models:  models,
		baseURL: defaultGeminiBaseURL,
		client:  &http.Client{Timeout: providerCallTimeout},
	}
}

// WithBaseURL overrides the API endpoint. Used in tests.
func (g *GeminiClient) WithBaseURL(baseURL string) *GeminiClient {
	g.baseURL = baseURL
	return g
}

// Name identifies the provider in logs.
func (g *GeminiClient) Name() string { return "gemini" }

// Models lists the model variants to try, in preference order.
func (g *GeminiClient) Models() []string { return g.models }

// geminiRequest is the generateContent request payload.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse is the subset of the generateContent response we read.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate runs one completion. The system instructions and user content are
// concatenated into a single text part, matching the API's plain-text mode.
func (g *GeminiClient) Generate(ctx context.Context, model, system, user string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: system + "\n\n" + user}}},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, model, g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model %s", model)
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
