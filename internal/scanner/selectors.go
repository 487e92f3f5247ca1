package scanner

// Platform DOM selectors for surfacing feed and activity posts. These are
// isolated here because the platform reworks its DOM frequently; update
// these when scanning breaks.
const (
	// FeedURL is the continuously refreshed home feed.
	FeedURL = "https://www.linkedin.com/feed/"

	// postContainer matches one rendered post in a feed or activity stream.
	postContainer = `div.feed-shared-update-v2, div.feed-shared-update`
)

// Attributes probed for a stable post identifier, in preference order.
var idAttributes = []string{"data-urn", "data-id"}
