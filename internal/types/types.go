package types

import "time"

// ProfileRecord is one scraped search-result profile card. Fields that could
// not be extracted are empty strings rather than errors.
type ProfileRecord struct {
	Name            string `json:"name"`
	ProfileLink     string `json:"profile_link"`
	Headline        string `json:"headline"`
	Location        string `json:"location"`
	CurrentPosition string `json:"current_position"`
}

// Outcome is the result of engaging with a single feed or activity item.
// It is produced once per item and never mutated afterwards.
type Outcome struct {
	ItemID    string    `json:"item_id"`
	Liked     bool      `json:"liked"`
	Commented bool      `json:"commented"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
