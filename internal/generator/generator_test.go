package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ajrudell/engagekit/internal/config"
)

type stubGenerator struct {
	reply string
}

func (s stubGenerator) Generate(context.Context, string) (string, error) {
	return s.reply, nil
}

func TestRouter_PrefersGoogleWhenConfigured(t *testing.T) {
	r := NewRouter(
		func() Source { return SourceGoogle },
		stubGenerator{reply: "from gpt"},
		stubGenerator{reply: "from google"},
	)

	got, err := r.Generate(context.Background(), "a post")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from google" {
		t.Fatalf("unexpected backend: got %q", got)
	}
}

func TestRouter_FallsBackToGPTWhenGoogleMissing(t *testing.T) {
	r := NewRouter(
		func() Source { return SourceGoogle },
		stubGenerator{reply: "from gpt"},
		nil,
	)

	got, err := r.Generate(context.Background(), "a post")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from gpt" {
		t.Fatalf("expected gpt fallback, got %q", got)
	}
}

func TestRouter_UnknownSourceUsesGPT(t *testing.T) {
	for _, source := range []Source{"", "unset", "claude"} {
		r := NewRouter(
			func() Source { return source },
			stubGenerator{reply: "from gpt"},
			stubGenerator{reply: "from google"},
		)

		got, err := r.Generate(context.Background(), "a post")
		if err != nil {
			t.Fatalf("source %q: unexpected error: %v", source, err)
		}
		if got != "from gpt" {
			t.Fatalf("source %q: expected gpt, got %q", source, got)
		}
	}
}

type recordedExchange struct {
	provider, model, prompt, response string
}

type memRecorder struct {
	exchanges []recordedExchange
}

func (m *memRecorder) RecordExchange(provider, model, prompt, response, _ string) {
	m.exchanges = append(m.exchanges, recordedExchange{provider, model, prompt, response})
}

func TestGPT_GenerateParsesChoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected auth header %q", got)
		}
		var req gptRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "gpt-4" {
			t.Fatalf("unexpected model %q", req.Model)
		}
		json.NewEncoder(w).Encode(gptResponse{
			Choices: []gptChoice{{Message: gptMessage{Role: "assistant", Content: "Great insight!"}}},
		})
	}))
	defer srv.Close()

	rec := &memRecorder{}
	g := NewGPT(config.GPTConfig{APIKey: "test-key", Model: "gpt-4", StaticPrompt: "Comment on:"}, rec)
	g.BaseURL = srv.URL

	got, err := g.Generate(context.Background(), "some post text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Great insight!" {
		t.Fatalf("unexpected comment %q", got)
	}
	if len(rec.exchanges) != 1 || rec.exchanges[0].provider != "gpt" {
		t.Fatalf("expected one recorded gpt exchange, got %+v", rec.exchanges)
	}
}

func TestGPT_GenerateSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(gptResponse{
			Error: &gptError{Type: "invalid_request_error", Message: "bad model"},
		})
	}))
	defer srv.Close()

	g := NewGPT(config.GPTConfig{APIKey: "test-key", Model: "nope"}, nil)
	g.BaseURL = srv.URL

	if _, err := g.Generate(context.Background(), "text"); err == nil {
		t.Fatal("expected error from API error payload")
	}
}

func TestGoogle_GenerateParsesCandidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-1.5-flash:generateContent" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != "g-key" {
			t.Fatalf("unexpected key %q", got)
		}
		json.NewEncoder(w).Encode(geminiResponse{
			Candidates: []geminiCandidate{
				{Content: geminiContent{Parts: []geminiPart{{Text: "Nice post."}}}},
			},
		})
	}))
	defer srv.Close()

	// The fully qualified model name is reduced to the bare id.
	g := NewGoogle(config.GoogleConfig{APIKey: "g-key", SelectedModel: "models/gemini-1.5-flash"}, nil)
	g.BaseURL = srv.URL

	got, err := g.Generate(context.Background(), "some post text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Nice post." {
		t.Fatalf("unexpected comment %q", got)
	}
}

func TestNewGoogle_NilWithoutAPIKey(t *testing.T) {
	if g := NewGoogle(config.GoogleConfig{}, nil); g != nil {
		t.Fatal("expected nil generator without api key")
	}
}
