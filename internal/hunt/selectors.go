package hunt

import "github.com/ajrudell/engagekit/internal/browser"

const paginationIndicatorQuery = `li.artdeco-pagination__indicator`

// cardStrategies locate one search-result profile card. The obfuscated
// class is what the platform currently ships; the reusable-search container
// is the older markup still seen on some result types.
var cardStrategies = []browser.Strategy{
	{Name: "obfuscated-card", Query: `div.EWKNtlaOOYwGboxrLECAryApIuqhVXpZuIFdE`},
	{Name: "reusable-search", Query: `li.reusable-search__result-container`},
}

// Per-field sub-selectors within a card. Each field tolerates a miss
// independently and falls back to the empty string.
const (
	profileLinkQuery     = `a[href*="/in/"]`
	visibleNameQuery     = `span[aria-hidden="true"]`
	headlineQuery        = `div.t-14.t-black.t-normal`
	locationQuery        = `div.t-14.t-normal`
	currentPositionQuery = `p.entity-result__summary--2-lines`
)
