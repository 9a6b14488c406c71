package job

import "time"

// Listing is one job from the upstream feed after filtering and mapping.
// It is read-only input to the matching engine.
type Listing struct {
	ID          string
	Company     string
	Role        string
	Location    string
	URL         string
	Category    string
	DatePosted  *time.Time
	DateUpdated *time.Time
}
