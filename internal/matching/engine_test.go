package matching

import (
	"context"
	"testing"
	"time"

	"referral-radar/internal/domain/connection"
	"referral-radar/internal/domain/job"
)

type countingStore struct {
	conns []connection.Connection
	reads int
}

func (s *countingStore) GetConnections(context.Context) ([]connection.Connection, error) {
	s.reads++
	out := make([]connection.Connection, len(s.conns))
	copy(out, s.conns)
	return out, nil
}

func (s *countingStore) SaveConnections(context.Context, []connection.Connection) error { return nil }
func (s *countingStore) HasConnections(context.Context) (bool, error) {
	return len(s.conns) > 0, nil
}
func (s *countingStore) GetMetadata(context.Context) (*connection.ImportMetadata, error) {
	return nil, nil
}
func (s *countingStore) SaveMetadata(context.Context, connection.ImportMetadata) error { return nil }
func (s *countingStore) CacheCSV(context.Context, string) error                        { return nil }
func (s *countingStore) GetCachedCSV(context.Context) (string, error)                  { return "", nil }
func (s *countingStore) HasCachedCSV(context.Context) (bool, error)                    { return false, nil }
func (s *countingStore) DeleteAll(context.Context) error                               { return nil }

func testConnections() []connection.Connection {
	now := time.Now().UTC()
	return []connection.Connection{
		{
			ID: "1", UserID: "test", ConnectionName: "John Doe",
			CompanyNameRaw: "Google", CompanyNameNormalized: "google",
			JobTitleRaw: "Software Engineer", JobTitleNormalized: "software engineer",
			Source: connection.SourceLinkedInCSV, LastUpdatedAt: now,
		},
		{
			ID: "2", UserID: "test", ConnectionName: "Jane Smith",
			CompanyNameRaw: "Google LLC", CompanyNameNormalized: "google",
			JobTitleRaw: "Senior Recruiter", JobTitleNormalized: "senior recruiter",
			Source: connection.SourceLinkedInCSV, LastUpdatedAt: now,
		},
		{
			ID: "3", UserID: "test", ConnectionName: "Bob Johnson",
			CompanyNameRaw: "Microsoft", CompanyNameNormalized: "microsoft",
			JobTitleRaw: "Product Manager", JobTitleNormalized: "product manager",
			Source: connection.SourceLinkedInCSV, LastUpdatedAt: now,
		},
	}
}

func internListing() job.Listing {
	return job.Listing{Company: "Google", Role: "Software Engineer Intern", Location: "Mountain View, CA"}
}

func TestMatchJobToConnections_ExactCompanyMatch(t *testing.T) {
	st := &countingStore{conns: testConnections()}
	e := NewEngine(st)

	matches, err := e.MatchJobToConnections(context.Background(), internListing())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	for _, m := range matches {
		if m.Connection.CompanyNameNormalized != "google" {
			t.Fatalf("unexpected company: %q", m.Connection.CompanyNameNormalized)
		}
	}
}

func TestMatchJobToConnections_Scoring(t *testing.T) {
	st := &countingStore{conns: testConnections()}
	e := NewEngine(st)

	matches, err := e.MatchJobToConnections(context.Background(), internListing())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	byName := map[string]Match{}
	for _, m := range matches {
		byName[m.Connection.ConnectionName] = m
	}

	john := byName["John Doe"]
	// Title containment ("software engineer" in "software engineer intern").
	if john.MatchScore != 1.5 {
		t.Fatalf("John score = %v, want 1.5", john.MatchScore)
	}
	if john.MatchReason != "Software Engineer at Google" {
		t.Fatalf("John reason = %q", john.MatchReason)
	}

	jane := byName["Jane Smith"]
	// Recruiter boost only: no containment, no shared role keywords.
	if jane.MatchScore <= 1.0 {
		t.Fatalf("Jane score = %v, want > 1.0", jane.MatchScore)
	}
	if jane.MatchScore != 1.3 {
		t.Fatalf("Jane score = %v, want 1.3", jane.MatchScore)
	}
	if jane.MatchReason != "Works at Google LLC (Hiring/Recruiting)" {
		t.Fatalf("Jane reason = %q", jane.MatchReason)
	}

	// Sorted by score descending.
	if matches[0].Connection.ConnectionName != "John Doe" {
		t.Fatalf("expected John first, got %s", matches[0].Connection.ConnectionName)
	}
}

func TestMatchJobToConnections_UnknownCompany(t *testing.T) {
	st := &countingStore{conns: testConnections()}
	e := NewEngine(st)

	matches, err := e.MatchJobToConnections(context.Background(), job.Listing{Company: "Unknown Company", Role: "Engineer"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(matches))
	}
}

func TestMatchJobToConnections_StableOrderOnTies(t *testing.T) {
	now := time.Now().UTC()
	st := &countingStore{conns: []connection.Connection{
		{ID: "a", ConnectionName: "First Person", CompanyNameRaw: "Acme", CompanyNameNormalized: "acme",
			JobTitleRaw: "Accountant", JobTitleNormalized: "accountant", LastUpdatedAt: now},
		{ID: "b", ConnectionName: "Second Person", CompanyNameRaw: "Acme", CompanyNameNormalized: "acme",
			JobTitleRaw: "Auditor", JobTitleNormalized: "auditor", LastUpdatedAt: now},
	}}
	e := NewEngine(st)

	matches, err := e.MatchJobToConnections(context.Background(), job.Listing{Company: "Acme"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Connection.ID != "a" || matches[1].Connection.ID != "b" {
		t.Fatalf("tie order not stable: %s, %s", matches[0].Connection.ID, matches[1].Connection.ID)
	}
}

func TestMatchJobToConnections_CachesResults(t *testing.T) {
	st := &countingStore{conns: testConnections()}
	e := NewEngine(st)
	j := job.Listing{Company: "Google", Role: "Engineer"}

	if _, err := e.MatchJobToConnections(context.Background(), j); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st.reads != 1 {
		t.Fatalf("expected 1 store read, got %d", st.reads)
	}

	if _, err := e.MatchJobToConnections(context.Background(), j); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st.reads != 1 {
		t.Fatalf("cache hit should not read the store, got %d reads", st.reads)
	}
}

func TestClearCache_ForcesReread(t *testing.T) {
	st := &countingStore{conns: testConnections()}
	e := NewEngine(st)
	j := job.Listing{Company: "Google", Role: "Engineer"}

	if _, err := e.MatchJobToConnections(context.Background(), j); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	e.ClearCache()
	if _, err := e.MatchJobToConnections(context.Background(), j); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st.reads != 2 {
		t.Fatalf("expected 2 store reads after cache clear, got %d", st.reads)
	}
}

func TestConnectionCountForCompany(t *testing.T) {
	st := &countingStore{conns: testConnections()}
	e := NewEngine(st)

	n, err := e.ConnectionCountForCompany(context.Background(), "Google")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2, got %d", n)
	}

	n, err = e.ConnectionCountForCompany(context.Background(), "Unknown Company")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
}

func TestConnectionsByCompany_GroupsByRawName(t *testing.T) {
	st := &countingStore{conns: testConnections()}
	e := NewEngine(st)

	grouped, err := e.ConnectionsByCompany(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// Raw names, not normalized: "Google" and "Google LLC" stay separate.
	if len(grouped) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(grouped))
	}
	if len(grouped["Google"]) != 1 || len(grouped["Google LLC"]) != 1 || len(grouped["Microsoft"]) != 1 {
		t.Fatalf("unexpected grouping: %v", grouped)
	}
}

func TestIndexRebuild_OnCountChange(t *testing.T) {
	st := &countingStore{conns: testConnections()}
	e := NewEngine(st)

	n, err := e.ConnectionCountForCompany(context.Background(), "Microsoft")
	if err != nil || n != 1 {
		t.Fatalf("expected 1, got %d (err %v)", n, err)
	}

	// Count change triggers a rebuild even without ClearCache.
	st.conns = st.conns[:2]
	n, err = e.ConnectionCountForCompany(context.Background(), "Microsoft")
	if err != nil || n != 0 {
		t.Fatalf("expected 0 after shrink, got %d (err %v)", n, err)
	}
}
