package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"referral-radar/internal/cache"
	"referral-radar/internal/domain/job"

	"go.uber.org/zap"
)

const listingsCacheKey = "feed:listings"

// Service fetches the upstream listings feed and maps it to Listing values.
// The decoded feed is cached in redis for the configured TTL so repeated
// category queries don't hammer the upstream.
type Service struct {
	client   *Client
	cache    *cache.Redis
	feedURL  string
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewService(client *Client, c *cache.Redis, feedURL string, cacheTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{client: client, cache: c, feedURL: feedURL, cacheTTL: cacheTTL, logger: logger}
}

// Listings returns active, visible listings matching the requested
// categories. An empty category list means no category filter.
func (s *Service) Listings(ctx context.Context, categories []string) ([]job.Listing, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]job.Listing, 0, len(records))
	for _, r := range records {
		if !r.Active || !r.IsVisible {
			continue
		}
		if !matchesCategory(r.Category, categories) {
			continue
		}

		posted := r.DatePosted.t
		if posted == nil {
			posted = r.DateUpdated.t
		}

		out = append(out, job.Listing{
			ID:          slugJobID(r.CompanyName, r.Title, r.Locations),
			Company:     r.CompanyName,
			Role:        r.Title,
			Location:    r.Locations.join(),
			URL:         r.URL,
			Category:    r.Category,
			DatePosted:  posted,
			DateUpdated: r.DateUpdated.t,
		})
	}
	return out, nil
}

func (s *Service) records(ctx context.Context) ([]listingRecord, error) {
	var raw json.RawMessage
	if ok, err := s.cache.GetJSON(ctx, listingsCacheKey, &raw); err == nil && ok {
		var records []listingRecord
		if err := json.Unmarshal(raw, &records); err == nil {
			return records, nil
		}
	}

	body, err := s.client.FetchWithRetry(ctx, s.feedURL)
	if err != nil {
		return nil, err
	}

	var records []listingRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode listings feed: %w", err)
	}

	if err := s.cache.SetJSON(ctx, listingsCacheKey, json.RawMessage(body), s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache listings feed", zap.Error(err))
	}

	return records, nil
}
