package hunt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ajrudell/engagekit/internal/browser/browsertest"
	"github.com/ajrudell/engagekit/internal/table"
	"github.com/ajrudell/engagekit/internal/types"
)

func TestTotalPages(t *testing.T) {
	cases := []struct {
		name   string
		labels []string
		want   int
	}{
		{"numbers with ellipsis and next", []string{"1", "...", "Next", "2", "3"}, 3},
		{"no numeric labels", []string{"Previous", "Next"}, 1},
		{"no indicators at all", nil, 1},
		{"whitespace tolerated", []string{" 7 ", "…"}, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TotalPages(tc.labels); got != tc.want {
				t.Fatalf("TotalPages(%v) = %d, want %d", tc.labels, got, tc.want)
			}
		})
	}
}

func TestPageTemplate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.linkedin.com/search/results/people/", "https://www.linkedin.com/search/results/people/?page=%d"},
		{"https://www.linkedin.com/search/results/people/?keywords=golang", "https://www.linkedin.com/search/results/people/?keywords=golang&page=%d"},
		{"https://www.linkedin.com/search/results/people/?keywords=golang&page=4", "https://www.linkedin.com/search/results/people/?keywords=golang&page=%d"},
		{"https://www.linkedin.com/search/results/people/?page=4", "https://www.linkedin.com/search/results/people/?page=%d"},
		{"https://www.linkedin.com/search/results/people/?page=4&keywords=golang", "https://www.linkedin.com/search/results/people/?keywords=golang&page=%d"},
	}
	for _, tc := range cases {
		if got := PageTemplate(tc.in); got != tc.want {
			t.Fatalf("PageTemplate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func card(name, link, headline, location, position string) *browsertest.Element {
	el := &browsertest.Element{Children: map[string][]*browsertest.Element{}}
	if link != "" {
		el.Children[profileLinkQuery] = []*browsertest.Element{{
			Attrs: map[string]string{"href": link},
			Children: map[string][]*browsertest.Element{
				visibleNameQuery: {{Text: name}},
			},
		}}
	}
	if headline != "" {
		el.Children[headlineQuery] = []*browsertest.Element{{Text: headline}}
	}
	if location != "" {
		el.Children[locationQuery] = []*browsertest.Element{{Text: "mutual connections"}, {Text: location}}
	}
	if position != "" {
		el.Children[currentPositionQuery] = []*browsertest.Element{{Text: "Current: " + position}}
	}
	return el
}

func newTestCoordinator(drv *browsertest.Driver) *Coordinator {
	c := NewCoordinator(drv)
	c.PageLoadDelay = 0
	c.ScrollDelay = 0
	// Heights stabilize immediately.
	drv.EvalFn = func(script string, out any) error {
		if p, ok := out.(*int); ok {
			*p = 1000
		}
		return nil
	}
	return c
}

func TestRun_ScrapesAllPages(t *testing.T) {
	drv := browsertest.New()
	drv.Doc[paginationIndicatorQuery] = []*browsertest.Element{
		{Text: "1"}, {Text: "2"}, {Text: "…"},
	}
	drv.Doc[cardStrategies[0].Query] = []*browsertest.Element{
		card("Jane Doe", "https://www.linkedin.com/in/jane-doe/", "CTO", "Berlin", "CTO at Acme"),
		card("", "", "", "", ""),
	}

	out := filepath.Join(t.TempDir(), "results.csv")
	c := newTestCoordinator(drv)
	if err := c.Run(context.Background(), "https://www.linkedin.com/search/results/people/?keywords=golang", out, 1); err != nil {
		t.Fatalf("run: %v", err)
	}

	// Initial load plus one navigation per page.
	if len(drv.Navigations) != 3 {
		t.Fatalf("unexpected navigations: %v", drv.Navigations)
	}
	if drv.Navigations[1] != "https://www.linkedin.com/search/results/people/?keywords=golang&page=1" {
		t.Fatalf("unexpected first page URL: %s", drv.Navigations[1])
	}

	records, err := table.ReadProfiles(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	// Two cards per page, two pages.
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}
	if records[0].Name != "Jane Doe" || records[0].Location != "Berlin" || records[0].CurrentPosition != "CTO at Acme" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	// A card with no extractable sub-elements still yields an empty record.
	if records[1] != (types.ProfileRecord{}) {
		t.Fatalf("expected empty record, got %+v", records[1])
	}
}

func TestRun_ResumesFromExistingOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "results.csv")
	seed := []types.ProfileRecord{{Name: "Earlier Run", ProfileLink: "https://www.linkedin.com/in/earlier/"}}
	if err := table.WriteProfiles(out, seed); err != nil {
		t.Fatalf("seed output: %v", err)
	}

	drv := browsertest.New()
	drv.Doc[paginationIndicatorQuery] = []*browsertest.Element{{Text: "1"}, {Text: "2"}}
	drv.Doc[cardStrategies[0].Query] = []*browsertest.Element{
		card("Jane Doe", "https://www.linkedin.com/in/jane-doe/", "", "", ""),
	}

	c := newTestCoordinator(drv)
	if err := c.Run(context.Background(), "https://www.linkedin.com/search/results/people/", out, 2); err != nil {
		t.Fatalf("run: %v", err)
	}

	// Start page 2 of 2: initial load plus a single page navigation.
	if len(drv.Navigations) != 2 {
		t.Fatalf("unexpected navigations: %v", drv.Navigations)
	}
	if drv.Navigations[1] != "https://www.linkedin.com/search/results/people/?page=2" {
		t.Fatalf("unexpected page URL: %s", drv.Navigations[1])
	}

	records, err := table.ReadProfiles(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Name != "Earlier Run" || records[1].Name != "Jane Doe" {
		t.Fatalf("resume did not preserve prior records: %+v", records)
	}
}

func TestRun_FallsBackToSecondaryCardSelector(t *testing.T) {
	drv := browsertest.New()
	drv.Doc[cardStrategies[1].Query] = []*browsertest.Element{
		card("John Roe", "https://www.linkedin.com/in/john-roe/", "", "", ""),
	}

	out := filepath.Join(t.TempDir(), "results.csv")
	c := newTestCoordinator(drv)
	if err := c.Run(context.Background(), "https://www.linkedin.com/search/results/people/", out, 1); err != nil {
		t.Fatalf("run: %v", err)
	}

	records, err := table.ReadProfiles(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(records) != 1 || records[0].Name != "John Roe" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestRun_ClampsStartPage(t *testing.T) {
	drv := browsertest.New()
	// No indicators: single page.
	out := filepath.Join(t.TempDir(), "results.csv")
	c := newTestCoordinator(drv)
	if err := c.Run(context.Background(), "https://www.linkedin.com/search/results/people/", out, 9); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(drv.Navigations) != 2 {
		t.Fatalf("unexpected navigations: %v", drv.Navigations)
	}
	if drv.Navigations[1] != "https://www.linkedin.com/search/results/people/?page=1" {
		t.Fatalf("start page not clamped: %s", drv.Navigations[1])
	}
}
