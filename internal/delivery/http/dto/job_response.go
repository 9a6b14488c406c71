package dto

import (
	"time"

	"referral-radar/internal/matching"
	"referral-radar/internal/usecase"
)

type JobResponse struct {
	ID              string           `json:"id"`
	Company         string           `json:"company"`
	Role            string           `json:"role"`
	Location        string           `json:"location"`
	URL             string           `json:"url"`
	Category        string           `json:"category"`
	DatePosted      *string          `json:"date_posted"`
	DateUpdated     *string          `json:"date_updated"`
	ConnectionCount int              `json:"connection_count"`
	Matches         []matching.Match `json:"matches,omitempty"`
}

func NewJobResponse(item usecase.JobItem) JobResponse {
	return JobResponse{
		ID:              item.Listing.ID,
		Company:         item.Listing.Company,
		Role:            item.Listing.Role,
		Location:        item.Listing.Location,
		URL:             item.Listing.URL,
		Category:        item.Listing.Category,
		DatePosted:      formatTime(item.Listing.DatePosted),
		DateUpdated:     formatTime(item.Listing.DateUpdated),
		ConnectionCount: item.ConnectionCount,
		Matches:         item.Matches,
	}
}

func formatTime(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
