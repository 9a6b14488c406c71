package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestFlexTime_Formats(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`1704067200`, "2024-01-01T00:00:00Z"},       // epoch seconds
		{`1704067200000`, "2024-01-01T00:00:00Z"},    // epoch milliseconds
		{`"2024-01-01T00:00:00Z"`, "2024-01-01T00:00:00Z"},
		{`"2024-01-01"`, "2024-01-01T00:00:00Z"},
	}
	for _, c := range cases {
		var ft flexTime
		if err := json.Unmarshal([]byte(c.raw), &ft); err != nil {
			t.Fatalf("unmarshal %q: %v", c.raw, err)
		}
		if ft.t == nil {
			t.Fatalf("expected time for %q", c.raw)
		}
		if got := ft.t.Format(time.RFC3339); got != c.want {
			t.Fatalf("flexTime(%q) = %s, want %s", c.raw, got, c.want)
		}
	}
}

func TestFlexTime_InvalidIsNil(t *testing.T) {
	for _, raw := range []string{`null`, `"not a date"`, `0`} {
		var ft flexTime
		if err := json.Unmarshal([]byte(raw), &ft); err != nil {
			t.Fatalf("unmarshal %q: %v", raw, err)
		}
		if ft.t != nil {
			t.Fatalf("expected nil time for %q, got %v", raw, ft.t)
		}
	}
}

func TestLocationList_StringOrArray(t *testing.T) {
	var l locationList
	if err := json.Unmarshal([]byte(`"Remote"`), &l); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if l.join() != "Remote" {
		t.Fatalf("join = %q", l.join())
	}

	if err := json.Unmarshal([]byte(`["NYC","SF"]`), &l); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if l.join() != "NYC, SF" {
		t.Fatalf("join = %q", l.join())
	}
}

func TestMatchesCategory(t *testing.T) {
	if !matchesCategory("Software Engineering", []string{"software"}) {
		t.Fatalf("expected software match")
	}
	if matchesCategory("Hardware", []string{"software"}) {
		t.Fatalf("unexpected match")
	}
	if !matchesCategory("Data Science", []string{"ai-ml"}) {
		t.Fatalf("expected ai-ml match")
	}
	// Empty selection means no filter.
	if !matchesCategory("Anything", nil) {
		t.Fatalf("expected pass-through with no categories")
	}
	// Unknown category falls back to a literal substring match.
	if !matchesCategory("Legal Internship", []string{"legal"}) {
		t.Fatalf("expected literal fallback match")
	}
}

const feedBody = `[
  {"active": true, "is_visible": true, "category": "Software Engineering",
   "company_name": "Google", "title": "Software Engineer Intern",
   "locations": ["Mountain View, CA", "NYC"], "url": "https://example.com/1",
   "date_posted": 1704067200},
  {"active": false, "is_visible": true, "category": "Software Engineering",
   "company_name": "Closed Co", "title": "SWE", "locations": "Remote",
   "url": "https://example.com/2"},
  {"active": true, "is_visible": false, "category": "Software Engineering",
   "company_name": "Hidden Co", "title": "SWE", "locations": "Remote",
   "url": "https://example.com/3"},
  {"active": true, "is_visible": true, "category": "Hardware",
   "company_name": "Chips Inc", "title": "Hardware Intern", "locations": "Austin, TX",
   "url": "https://example.com/4", "date_updated": "2024-02-01"}
]`

func TestService_Listings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feedBody))
	}))
	defer srv.Close()

	client := testClient(srv.Client())
	svc := NewService(client, nil, srv.URL, time.Minute, zap.NewNop())

	listings, err := svc.Listings(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// Inactive and invisible listings are dropped.
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}

	first := listings[0]
	if first.Company != "Google" || first.Role != "Software Engineer Intern" {
		t.Fatalf("unexpected listing: %+v", first)
	}
	if first.Location != "Mountain View, CA, NYC" {
		t.Fatalf("location = %q", first.Location)
	}
	if first.ID != "google-software-engineer-intern-mountain-view-ca" {
		t.Fatalf("id = %q", first.ID)
	}
	if first.DatePosted == nil || first.DatePosted.Format(time.RFC3339) != "2024-01-01T00:00:00Z" {
		t.Fatalf("date = %v", first.DatePosted)
	}

	// date_updated backfills a missing date_posted.
	second := listings[1]
	if second.DatePosted == nil || second.DatePosted.Format(time.RFC3339) != "2024-02-01T00:00:00Z" {
		t.Fatalf("backfilled date = %v", second.DatePosted)
	}
}

func TestService_Listings_CategoryFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feedBody))
	}))
	defer srv.Close()

	svc := NewService(testClient(srv.Client()), nil, srv.URL, time.Minute, zap.NewNop())

	listings, err := svc.Listings(context.Background(), []string{"hardware"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(listings) != 1 || listings[0].Company != "Chips Inc" {
		t.Fatalf("unexpected listings: %+v", listings)
	}
}
