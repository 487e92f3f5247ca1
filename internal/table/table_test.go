package table

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ajrudell/engagekit/internal/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadProfiles(t *testing.T) {
	path := writeFile(t, "targets.csv",
		"Name,Profile Link,Headline\n"+
			"Jane Doe,https://www.linkedin.com/in/jane-doe/,Staff Engineer\n"+
			",https://www.linkedin.com/in/anon/,\n")

	records, err := ReadProfiles(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Name != "Jane Doe" || records[0].Headline != "Staff Engineer" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].Name != "" || records[1].ProfileLink != "https://www.linkedin.com/in/anon/" {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
	// Columns absent from the file come back empty, not as errors.
	if records[0].Location != "" || records[0].CurrentPosition != "" {
		t.Fatalf("absent columns should be empty: %+v", records[0])
	}
}

func TestReadProfiles_StripsBOM(t *testing.T) {
	path := writeFile(t, "targets.csv",
		"﻿Profile Link\nhttps://www.linkedin.com/in/jane-doe/\n")

	records, err := ReadProfiles(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
}

func TestReadProfiles_MissingRequiredColumn(t *testing.T) {
	path := writeFile(t, "targets.csv", "Name,Headline\nJane,CTO\n")

	_, err := ReadProfiles(path)
	if err == nil || !strings.Contains(err.Error(), "Profile Link") {
		t.Fatalf("expected missing-column error, got %v", err)
	}
}

func TestProfilesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	in := []types.ProfileRecord{
		{Name: "Jane Doe", ProfileLink: "https://www.linkedin.com/in/jane-doe/", Headline: "CTO", Location: "Berlin", CurrentPosition: "CTO at Acme"},
		{Name: "John Roe", ProfileLink: "https://www.linkedin.com/in/john-roe/"},
	}
	if err := WriteProfiles(path, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := ReadProfiles(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d records, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("record %d: got %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestReadTopics(t *testing.T) {
	path := writeFile(t, "topics.csv", "Topics\nplatform engineering\n\nhiring\n")

	topics, err := ReadTopics(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"platform engineering", "hiring"}
	if len(topics) != len(want) {
		t.Fatalf("got %v, want %v", topics, want)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Fatalf("got %v, want %v", topics, want)
		}
	}
}

func TestReadTopics_MissingColumn(t *testing.T) {
	path := writeFile(t, "topics.csv", "Subjects\nplatform engineering\n")

	_, err := ReadTopics(path)
	if err == nil || !strings.Contains(err.Error(), "Topics") {
		t.Fatalf("expected missing-column error, got %v", err)
	}
}

func TestWritePosts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.csv")
	if err := WritePosts(path, []string{"first draft", "second, with comma"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "Post Data\n") {
		t.Fatalf("missing header: %q", content)
	}
	if !strings.Contains(content, `"second, with comma"`) {
		t.Fatalf("comma field not quoted: %q", content)
	}
}
