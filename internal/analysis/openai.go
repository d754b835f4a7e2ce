package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// defaultOpenAIBaseURL is the OpenAI API endpoint.
const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIClient calls the OpenAI chat completions API over plain HTTP.
type OpenAIClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAIClient creates an OpenAI client for a single model.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultOpenAIBaseURL,
		client:  &http.Client{Timeout: providerCallTimeout},
	}
}

// WithBaseURL overrides the API endpoint. Used in tests.
func (o *OpenAIClient) WithBaseURL(baseURL string) *OpenAIClient {
	o.baseURL = baseURL
	return o
}

// Name identifies the provider in logs.
func (o *OpenAIClient) Name() string { return "openai" }

// Models lists the single configured model.
func (o *OpenAIClient) Models() []string { return []string{o.model} }

// chatMessage is one entry of the chat completions conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the chat completions request payload. response_format asks
// the API to emit a bare JSON object.
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

// chatResponse is the subset of the chat completions response we read.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate runs one chat completion with a system and a user message.
func (o *OpenAIClient) Generate(ctx context.Context, model, system, user string) (string, error) {
	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	reqBody.ResponseFormat.Type = "json_object"

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
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

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty response from model %s", model)
	}

	return parsed.Choices[0].Message.Content, nil
}
