// Package generator produces comment text for post descriptions via
// pluggable text-generation backends.
package generator

import "context"

// Generator turns a post description into a comment string.
type Generator interface {
	Generate(ctx context.Context, description string) (string, error)
}

// Source identifies a comment generation backend.
type Source string

const (
	SourceGPT    Source = "gpt"
	SourceGoogle Source = "google"
)

// SourceFunc returns the currently preferred source. It is consulted once
// per engagement decision, so a mid-run preference change takes effect on
// the next post.
type SourceFunc func() Source

// ExchangeRecorder persists prompt/response pairs for later inspection.
type ExchangeRecorder interface {
	RecordExchange(provider, model, prompt, response, errMsg string)
}

// Router dispatches generation requests to the preferred backend. The
// google backend is optional; when the preference names it but it is not
// configured, or the preference is unrecognized, requests fall back to gpt.
type Router struct {
	source SourceFunc
	gpt    Generator
	google Generator
}

// NewRouter creates a router. gpt must be non-nil; google may be nil.
func NewRouter(source SourceFunc, gpt, google Generator) *Router {
	return &Router{source: source, gpt: gpt, google: google}
}

func (r *Router) Generate(ctx context.Context, description string) (string, error) {
	if r.source != nil && r.source() == SourceGoogle && r.google != nil {
		return r.google.Generate(ctx, description)
	}
	return r.gpt.Generate(ctx, description)
}
