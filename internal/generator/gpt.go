package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ajrudell/engagekit/internal/config"
)

const defaultGPTBaseURL = "https://api.openai.com/v1"

// GPT generates comments through a chat-completion API.
type GPT struct {
	// BaseURL may be overridden for tests.
	BaseURL string

	apiKey   string
	model    string
	prompt   string
	client   *http.Client
	recorder ExchangeRecorder
}

// NewGPT creates a chat-completion backed generator.
func NewGPT(cfg config.GPTConfig, recorder ExchangeRecorder) *GPT {
	return &GPT{
		BaseURL:  defaultGPTBaseURL,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		prompt:   cfg.StaticPrompt,
		recorder: recorder,
		client: &http.Client{
			Timeout: 120 * time.Second, // LLM calls can be slow
		},
	}
}

type gptRequest struct {
	Model    string       `json:"model"`
	Messages []gptMessage `json:"messages"`
}

type gptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type gptResponse struct {
	Choices []gptChoice `json:"choices"`
	Error   *gptError   `json:"error,omitempty"`
}

type gptChoice struct {
	Message gptMessage `json:"message"`
}

type gptError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Generate produces a comment for the given post description using the
// static prompt and configured model.
func (g *GPT) Generate(ctx context.Context, description string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("gpt api key not configured")
	}

	prompt := fmt.Sprintf("%s\n%s\n", g.prompt, description)

	reqBody := gptRequest{
		Model: g.model,
		Messages: []gptMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.BaseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call chat-completion API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat-completion API returned status %d: %s", resp.StatusCode, string(body))
	}

	var gptResp gptResponse
	if err := json.Unmarshal(body, &gptResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if gptResp.Error != nil {
		return "", fmt.Errorf("chat-completion API error: %s - %s", gptResp.Error.Type, gptResp.Error.Message)
	}

	if len(gptResp.Choices) == 0 {
		return "", fmt.Errorf("chat-completion API returned no choices")
	}

	comment := gptResp.Choices[0].Message.Content
	if g.recorder != nil {
		g.recorder.RecordExchange(string(SourceGPT), g.model, prompt, comment, "")
	}
	return comment, nil
}
