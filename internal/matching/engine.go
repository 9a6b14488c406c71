package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"referral-radar/internal/domain/connection"
	"referral-radar/internal/domain/job"
	"referral-radar/internal/normalize"
	"referral-radar/internal/store"
)

// Match links a contact to a job listing with a relevance score. Matches are
// transient: they are computed per call and cached, never persisted.
type Match struct {
	Connection  connection.Connection `json:"connection"`
	MatchScore  float64               `json:"match_score"`
	MatchReason string                `json:"match_reason"`
}

// Engine ranks a user's contacts against job listings. It owns two derived
// projections of the store's contact set: a company lookup index and a
// per-(company, role) match cache. Both are disposable; ClearCache must be
// called after any contact-set mutation or matches will silently go stale.
//
// Index invalidation keys on the contact count only. An out-of-band edit that
// replaces one contact with another without changing the count is not
// detected; mutation paths that go through ClearCache are.
type Engine struct {
	store store.Store

	mu            sync.Mutex
	matchCache    map[string][]Match
	companyLookup map[string][]connection.Connection
	cachedCount   int
	indexBuilt    bool
}

func NewEngine(s store.Store) *Engine {
	return &Engine{
		store:      s,
		matchCache: make(map[string][]Match),
	}
}

// MatchJobToConnections returns the contacts working at the listing's
// company, scored and sorted by relevance (stable, so equal scores keep store
// order). The index lookup is exact on the normalized company name; fuzzy
// company matching is not used here.
func (e *Engine) MatchJobToConnections(ctx context.Context, j job.Listing) ([]Match, error) {
	cacheKey := j.Company + "|" + j.Role

	e.mu.Lock()
	defer e.mu.Unlock()

	if cached, ok := e.matchCache[cacheKey]; ok {
		return cached, nil
	}

	lookup, err := e.companyLookupLocked(ctx)
	if err != nil {
		return nil, err
	}

	companyConns := lookup[normalize.CompanyName(j.Company)]
	if len(companyConns) == 0 {
		e.matchCache[cacheKey] = []Match{}
		return []Match{}, nil
	}

	jobRole := normalize.JobTitle(j.Role)

	matches := make([]Match, 0, len(companyConns))
	for _, c := range companyConns {
		score := 1.0
		reason := fmt.Sprintf("Works at %s", c.CompanyNameRaw)

		if jobRole != "" && c.JobTitleNormalized != "" {
			if rolesSimilar(jobRole, c.JobTitleNormalized) {
				score += 0.5
				reason = fmt.Sprintf("%s at %s", c.JobTitleRaw, c.CompanyNameRaw)
			}
			if isRelevantPosition(c.JobTitleNormalized) {
				score += 0.3
				reason += " (Hiring/Recruiting)"
			}
		}

		matches = append(matches, Match{Connection: c, MatchScore: score, MatchReason: reason})
	}

	sort.SliceStable(matches, func(i, k int) bool {
		return matches[i].MatchScore > matches[k].MatchScore
	})

	e.matchCache[cacheKey] = matches
	return matches, nil
}

// ConnectionCountForCompany returns how many contacts work at the company,
// by exact normalized-name lookup.
func (e *Engine) ConnectionCountForCompany(ctx context.Context, companyName string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	lookup, err := e.companyLookupLocked(ctx)
	if err != nil {
		return 0, err
	}
	return len(lookup[normalize.CompanyName(companyName)]), nil
}

// ConnectionsByCompany groups the store's contacts by raw company name, in
// store order. This reads the store directly, not the index.
func (e *Engine) ConnectionsByCompany(ctx context.Context) (map[string][]connection.Connection, error) {
	conns, err := e.store.GetConnections(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]connection.Connection)
	for _, c := range conns {
		grouped[c.CompanyNameRaw] = append(grouped[c.CompanyNameRaw], c)
	}
	return grouped, nil
}

// ClearCache drops the match cache and the company lookup index. Callers must
// invoke it after any import or delete.
func (e *Engine) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.matchCache = make(map[string][]Match)
	e.companyLookup = nil
	e.cachedCount = 0
	e.indexBuilt = false
}

// companyLookupLocked returns the index, rebuilding it when the store's
// contact count changed since the last build. Callers hold e.mu.
func (e *Engine) companyLookupLocked(ctx context.Context) (map[string][]connection.Connection, error) {
	conns, err := e.store.GetConnections(ctx)
	if err != nil {
		return nil, err
	}

	if e.indexBuilt && len(conns) == e.cachedCount {
		return e.companyLookup, nil
	}

	lookup := make(map[string][]connection.Connection)
	for _, c := range conns {
		lookup[c.CompanyNameNormalized] = append(lookup[c.CompanyNameNormalized], c)
	}

	e.companyLookup = lookup
	e.cachedCount = len(conns)
	e.indexBuilt = true
	return lookup, nil
}

// rolesSimilar holds when one normalized title contains the other, or when
// the two share at least half of the smaller side's vocabulary keywords.
func rolesSimilar(role1, role2 string) bool {
	if strings.Contains(role1, role2) || strings.Contains(role2, role1) {
		return true
	}

	kw1 := extractRoleKeywords(role1)
	kw2 := extractRoleKeywords(role2)

	common := 0
	set2 := make(map[string]bool, len(kw2))
	for _, k := range kw2 {
		set2[k] = true
	}
	for _, k := range kw1 {
		if set2[k] {
			common++
		}
	}

	smaller := len(kw1)
	if len(kw2) < smaller {
		smaller = len(kw2)
	}
	return float64(common) >= float64(smaller)/2
}

func extractRoleKeywords(role string) []string {
	var keywords []string
	for _, kw := range roleKeywordVocabulary() {
		if strings.Contains(role, kw) {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

func isRelevantPosition(title string) bool {
	for _, term := range relevantPositionTerms {
		if strings.Contains(title, term) {
			return true
		}
	}
	return false
}
