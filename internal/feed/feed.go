package feed

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

// listingRecord is the wire shape of one upstream feed entry.
type listingRecord struct {
	Active      bool         `json:"active"`
	IsVisible   bool         `json:"is_visible"`
	Category    string       `json:"category"`
	CompanyName string       `json:"company_name"`
	Title       string       `json:"title"`
	Locations   locationList `json:"locations"`
	URL         string       `json:"url"`
	DatePosted  flexTime     `json:"date_posted"`
	DateUpdated flexTime     `json:"date_updated"`
}

// locationList accepts either a single string or an array of strings.
type locationList []string

func (l *locationList) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*l = locationList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*l = locationList(many)
	return nil
}

func (l locationList) join() string {
	return strings.Join([]string(l), ", ")
}

// flexTime accepts epoch seconds, epoch milliseconds, or an ISO date string.
// Unparseable or absent values decode to nil rather than failing the feed.
type flexTime struct {
	t *time.Time
}

func (f *flexTime) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return nil
	}

	var epoch float64
	if err := json.Unmarshal(b, &epoch); err == nil {
		if epoch == 0 {
			return nil
		}
		ms := int64(epoch)
		// Values below ten billion are seconds, not milliseconds.
		if epoch < 1e10 {
			ms = int64(epoch * 1000)
		}
		t := time.UnixMilli(ms).UTC()
		f.t = &t
		return nil
	}

	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, str); err == nil {
			t = t.UTC()
			f.t = &t
			return nil
		}
	}
	return nil
}

// categoryKeywords maps the API's category filters to the upstream feed's
// category labels, matched as case-insensitive substrings.
var categoryKeywords = map[string][]string{
	"software": {"Software Engineering", "Software", "SWE", "Backend", "Frontend", "Full Stack", "Full-Stack"},
	"ai-ml":    {"Data Science", "AI/ML/Data", "Data Analyst", "Data Engineer", "Machine Learning", "Data"},
	"hardware": {"Hardware", "Electrical", "Embedded"},
	"pm":       {"Product Management", "Product", "PM"},
	"design":   {"Design", "UX", "UI"},
	"quant":    {"Quant", "Quantitative"},
}

func matchesCategory(listingCategory string, categories []string) bool {
	if len(categories) == 0 {
		return true
	}
	lc := strings.ToLower(listingCategory)
	for _, cat := range categories {
		keywords, ok := categoryKeywords[strings.ToLower(cat)]
		if !ok {
			keywords = []string{cat}
		}
		for _, kw := range keywords {
			if strings.Contains(lc, strings.ToLower(kw)) {
				return true
			}
		}
	}
	return false
}

var jobIDStrip = regexp.MustCompile(`[^a-z0-9-]`)

func slugJobID(company, title string, locations locationList) string {
	first := ""
	if len(locations) > 0 {
		first = locations[0]
	}
	id := strings.ToLower(company + "-" + title + "-" + first)
	id = strings.Join(strings.Fields(id), "-")
	return jobIDStrip.ReplaceAllString(id, "")
}
