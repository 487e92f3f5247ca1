package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ajrudell/engagekit/internal/config"
)

const defaultGoogleBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Google generates comments through the Gemini generateContent API.
type Google struct {
	// BaseURL may be overridden for tests.
	BaseURL string

	apiKey   string
	model    string
	prompt   string
	client   *http.Client
	recorder ExchangeRecorder
}

// NewGoogle creates a Gemini-backed generator, or nil when no API key is
// configured so the router falls back to gpt.
func NewGoogle(cfg config.GoogleConfig, recorder ExchangeRecorder) *Google {
	if cfg.APIKey == "" {
		return nil
	}
	// Model listings return fully qualified names like "models/gemini-1.5-pro".
	model := cfg.SelectedModel
	if i := strings.LastIndex(model, "/"); i >= 0 {
		model = model[i+1:]
	}
	return &Google{
		BaseURL:  defaultGoogleBaseURL,
		apiKey:   cfg.APIKey,
		model:    model,
		prompt:   cfg.StaticPrompt,
		recorder: recorder,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Generate produces a comment for the given post description.
func (g *Google) Generate(ctx context.Context, description string) (string, error) {
	prompt := description
	if g.prompt != "" {
		prompt = fmt.Sprintf("%s\n%s", g.prompt, description)
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.BaseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Gemini API returned status %d: %s", resp.StatusCode, string(body))
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if geminiResp.Error != nil {
		return "", fmt.Errorf("Gemini API error %d: %s", geminiResp.Error.Code, geminiResp.Error.Message)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("Gemini API returned no candidates")
	}

	comment := geminiResp.Candidates[0].Content.Parts[0].Text
	if g.recorder != nil {
		g.recorder.RecordExchange(string(SourceGoogle), g.model, prompt, comment, "")
	}
	return comment, nil
}
