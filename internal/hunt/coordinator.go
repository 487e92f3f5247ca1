// Package hunt walks paginated search results and scrapes profile cards
// into tabular records.
package hunt

import (
	"context"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ajrudell/engagekit/internal/browser"
	"github.com/ajrudell/engagekit/internal/table"
	"github.com/ajrudell/engagekit/internal/types"
)

var pageParamRe = regexp.MustCompile(`[?&]page=\d+`)

// TotalPages derives the page count from pagination indicator labels by
// taking the maximum purely-numeric label. Ellipsis and prev/next entries
// are interleaved with the numbers and are ignored; with no numeric label
// at all the listing is treated as a single page.
func TotalPages(labels []string) int {
	total := 1
	for _, label := range labels {
		n, err := strconv.Atoi(strings.TrimSpace(label))
		if err != nil {
			continue
		}
		if n > total {
			total = n
		}
	}
	return total
}

// PageTemplate strips any existing page parameter from endpoint and returns
// a format string with a %d page slot, using ? or & as appropriate.
func PageTemplate(endpoint string) string {
	base := pageParamRe.ReplaceAllString(endpoint, "")
	base = strings.TrimRight(base, "?&")
	if !strings.Contains(base, "?") {
		// Stripping a leading page parameter can orphan the rest of the
		// query behind a &.
		if i := strings.Index(base, "&"); i >= 0 {
			base = base[:i] + "?" + base[i+1:]
		}
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "page=%d"
}

// Coordinator pages through a search-result listing, scraping every card
// and rewriting the output table after each page so a crash loses at most
// one page of work.
type Coordinator struct {
	// PageLoadDelay is the wait after navigating to a results page.
	PageLoadDelay time.Duration
	// ScrollDelay is the wait between scroll-to-bottom steps while content
	// lazy-loads.
	ScrollDelay time.Duration
	// MaxScrolls bounds the scroll steps per page when the height never
	// stabilizes.
	MaxScrolls int

	drv browser.Driver
}

func NewCoordinator(drv browser.Driver) *Coordinator {
	return &Coordinator{
		PageLoadDelay: 5 * time.Second,
		ScrollDelay:   2 * time.Second,
		MaxScrolls:    5,
		drv:           drv,
	}
}

// Run scrapes endpoint from startPage (clamped to [1, totalPages]) through
// the last page into outputPath. A pre-existing output table seeds the
// accumulated records so an interrupted run can resume without losing
// prior pages.
func (c *Coordinator) Run(ctx context.Context, endpoint, outputPath string, startPage int) error {
	if err := c.drv.Navigate(ctx, endpoint); err != nil {
		return fmt.Errorf("failed to open search results: %w", err)
	}
	if err := browser.Sleep(ctx, c.PageLoadDelay); err != nil {
		return err
	}

	total := TotalPages(c.indicatorLabels(ctx))
	template := PageTemplate(endpoint)
	log.Printf("Search spans %d page(s)", total)

	var records []types.ProfileRecord
	if _, err := os.Stat(outputPath); err == nil {
		records, err = table.ReadProfiles(outputPath)
		if err != nil {
			return fmt.Errorf("failed to reload previous results: %w", err)
		}
		log.Printf("Resuming with %d previously scraped record(s)", len(records))
	}

	if startPage < 1 {
		startPage = 1
	}
	if startPage > total {
		startPage = total
	}

	for page := startPage; page <= total; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		url := fmt.Sprintf(template, page)
		if err := c.drv.Navigate(ctx, url); err != nil {
			log.Printf("Failed to open page %d: %v", page, err)
			continue
		}
		if err := browser.Sleep(ctx, c.PageLoadDelay); err != nil {
			return err
		}
		if err := c.scrollUntilStable(ctx); err != nil {
			return err
		}

		pageRecords := c.scrapePage(ctx)
		records = append(records, pageRecords...)
		log.Printf("Page %d/%d: scraped %d profile(s), %d total", page, total, len(pageRecords), len(records))

		if err := table.WriteProfiles(outputPath, records); err != nil {
			return fmt.Errorf("failed to persist results after page %d: %w", page, err)
		}
	}
	return nil
}

func (c *Coordinator) indicatorLabels(ctx context.Context) []string {
	handles, err := c.drv.FindAll(ctx, paginationIndicatorQuery)
	if err != nil {
		return nil
	}
	labels := make([]string, 0, len(handles))
	for _, h := range handles {
		if text, ok := c.drv.Text(ctx, h); ok {
			labels = append(labels, text)
		}
	}
	return labels
}

// scrollUntilStable scrolls to the bottom until two consecutive height
// readings agree or the attempt budget runs out. Result cards render
// lazily, so scraping before the height settles misses the tail of the
// page.
func (c *Coordinator) scrollUntilStable(ctx context.Context) error {
	last := -1
	for i := 0; i < c.MaxScrolls; i++ {
		var height int
		if err := c.drv.Eval(ctx, `document.body.scrollHeight`, &height); err != nil {
			return err
		}
		if height == last {
			return nil
		}
		last = height
		if err := c.drv.Eval(ctx, `window.scrollTo(0, document.body.scrollHeight)`, nil); err != nil {
			return err
		}
		if err := browser.Sleep(ctx, c.ScrollDelay); err != nil {
			return err
		}
	}
	return nil
}

func (c *Coordinator) scrapePage(ctx context.Context) []types.ProfileRecord {
	var cards []browser.Handle
	for _, s := range cardStrategies {
		handles, err := c.drv.FindAll(ctx, s.Query)
		if err != nil || len(handles) == 0 {
			continue
		}
		log.Printf("Matched %d card(s) via %s", len(handles), s.Name)
		cards = handles
		break
	}

	records := make([]types.ProfileRecord, 0, len(cards))
	for _, card := range cards {
		records = append(records, c.scrapeCard(ctx, card))
	}
	return records
}

// scrapeCard extracts one ProfileRecord. Every sub-selector miss degrades
// to an empty field rather than discarding the card.
func (c *Coordinator) scrapeCard(ctx context.Context, card browser.Handle) types.ProfileRecord {
	var rec types.ProfileRecord

	if link, ok := c.drv.FindWithin(ctx, card, profileLinkQuery); ok {
		rec.ProfileLink, _ = c.drv.Attr(ctx, link, "href")
		if name, ok := c.drv.FindWithin(ctx, link, visibleNameQuery); ok {
			if text, ok := c.drv.Text(ctx, name); ok {
				rec.Name = strings.TrimSpace(text)
			}
		}
	}

	if h, ok := c.drv.FindWithin(ctx, card, headlineQuery); ok {
		if text, ok := c.drv.Text(ctx, h); ok {
			rec.Headline = strings.TrimSpace(text)
		}
	}

	// The card renders two t-14 normal blocks; the second is the location.
	// Single-block cards put the location first.
	if locs, err := c.drv.FindAllWithin(ctx, card, locationQuery); err == nil && len(locs) > 0 {
		h := locs[0]
		if len(locs) > 1 {
			h = locs[1]
		}
		if text, ok := c.drv.Text(ctx, h); ok {
			rec.Location = strings.TrimSpace(text)
		}
	}

	if h, ok := c.drv.FindWithin(ctx, card, currentPositionQuery); ok {
		if text, ok := c.drv.Text(ctx, h); ok {
			text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "Current:"))
			rec.CurrentPosition = text
		}
	}

	return rec
}
