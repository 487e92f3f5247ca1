package bulkgen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type stubGenerator struct {
	responses map[string]string
	err       map[string]error
}

func (g *stubGenerator) Generate(_ context.Context, topic string) (string, error) {
	if err := g.err[topic]; err != nil {
		return "", err
	}
	return g.responses[topic], nil
}

func writeTopics(t *testing.T, topics ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "topics.csv")
	content := "Topics\n" + strings.Join(topics, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestRun_GeneratesOnePostPerTopic(t *testing.T) {
	in := writeTopics(t, "go generics", "code review")
	out := filepath.Join(t.TempDir(), "posts.csv")

	gen := &stubGenerator{responses: map[string]string{
		"go generics": "Generics changed how I write Go.",
		"code review": "Review the tests first.",
	}}
	if err := NewRunner(gen).Run(context.Background(), in, out); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "Generics changed how I write Go.") ||
		!strings.Contains(content, "Review the tests first.") {
		t.Fatalf("missing generated posts: %q", content)
	}
}

func TestRun_SkipsFailedTopics(t *testing.T) {
	in := writeTopics(t, "good topic", "bad topic")
	out := filepath.Join(t.TempDir(), "posts.csv")

	gen := &stubGenerator{
		responses: map[string]string{"good topic": "A solid draft."},
		err:       map[string]error{"bad topic": errors.New("backend down")},
	}
	if err := NewRunner(gen).Run(context.Background(), in, out); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "A solid draft.") {
		t.Fatalf("good topic missing from output: %q", data)
	}
	if strings.Contains(string(data), "bad topic") {
		t.Fatalf("failed topic leaked into output: %q", data)
	}
}

func TestRun_MissingTopicsColumnFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.csv")
	if err := os.WriteFile(path, []byte("Subjects\nfoo\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	err := NewRunner(&stubGenerator{}).Run(context.Background(), path, filepath.Join(t.TempDir(), "posts.csv"))
	if err == nil || !strings.Contains(err.Error(), "Topics") {
		t.Fatalf("expected missing-column error, got %v", err)
	}
}
