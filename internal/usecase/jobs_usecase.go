package usecase

import (
	"context"

	"referral-radar/internal/domain/job"
	"referral-radar/internal/feed"
	"referral-radar/internal/matching"
	"referral-radar/internal/store"

	"go.uber.org/zap"
)

// Jobs fetches the upstream listings feed and annotates each listing with the
// caller's connection matches.
type Jobs struct {
	feed   *feed.Service
	engine *matching.Engine
	store  store.Store
	logger *zap.Logger
}

func NewJobs(f *feed.Service, e *matching.Engine, s store.Store, logger *zap.Logger) *Jobs {
	return &Jobs{feed: f, engine: e, store: s, logger: logger}
}

type JobItem struct {
	Listing         job.Listing
	ConnectionCount int
	Matches         []matching.Match
}

// List returns the filtered feed. When the store holds connections each job
// carries its ranked matches; otherwise match data stays empty.
func (u *Jobs) List(ctx context.Context, categories []string) ([]JobItem, error) {
	listings, err := u.feed.Listings(ctx, categories)
	if err != nil {
		return nil, err
	}

	hasConns, err := u.store.HasConnections(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]JobItem, 0, len(listings))
	for _, l := range listings {
		item := JobItem{Listing: l}
		if hasConns {
			matches, err := u.engine.MatchJobToConnections(ctx, l)
			if err != nil {
				return nil, err
			}
			item.ConnectionCount = len(matches)
			item.Matches = matches
		}
		items = append(items, item)
	}

	u.logger.Debug("listed jobs",
		zap.Int("count", len(items)),
		zap.Strings("categories", categories))

	return items, nil
}

// CompanyCount reports how many stored connections work at the given company,
// matched on the normalized name.
func (u *Jobs) CompanyCount(ctx context.Context, companyName string) (int, error) {
	return u.engine.ConnectionCountForCompany(ctx, companyName)
}
