package csvimport

import (
	"fmt"
	"strings"
	"time"

	"referral-radar/internal/domain/connection"
	"referral-radar/internal/normalize"
)

// MaxFileSize is the upload cap for a CSV export.
const MaxFileSize = 10 * 1024 * 1024

// ValidateFile is the pre-flight check run before a full parse.
func ValidateFile(name string, size int64) error {
	if !strings.HasSuffix(name, ".csv") {
		return &ValidationError{Reason: "please upload a valid CSV file"}
	}
	if size > MaxFileSize {
		return &ValidationError{Reason: "file size exceeds 10MB limit"}
	}
	if size == 0 {
		return &ValidationError{Reason: "file is empty"}
	}
	return nil
}

// ParseText turns a raw CSV export into Connection records. The header row is
// resolved through the candidate lists in columns.go; malformed or incomplete
// rows are dropped silently; duplicates (same name at the same normalized
// company, titles ignored) keep the first occurrence.
func ParseText(text, userID string) ([]connection.Connection, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, &ValidationError{Reason: "CSV file is empty"}
	}

	headers := splitLine(lines[0])
	cols, missing := resolveColumns(headers)
	if len(missing) > 0 {
		return nil, &ParseError{MissingColumns: missing, FoundHeaders: headers}
	}

	now := time.Now().UTC()
	field := func(values []string, fi int) string {
		idx := cols[fi]
		if idx < 0 || idx >= len(values) {
			return ""
		}
		return values[idx]
	}

	var conns []connection.Connection
	for _, line := range lines[1:] {
		values := splitLine(line)
		if len(values) < len(headers) {
			continue
		}

		firstName := field(values, fieldFirstName)
		lastName := field(values, fieldLastName)
		company := strings.TrimSpace(field(values, fieldCompany))
		if firstName == "" || lastName == "" || company == "" {
			continue
		}

		name := strings.TrimSpace(firstName + " " + lastName)
		title := strings.TrimSpace(field(values, fieldPosition))

		conns = append(conns, connection.Connection{
			ID:                    generateConnectionID(name, company, title, now),
			UserID:                userID,
			ConnectionName:        name,
			CompanyNameRaw:        company,
			CompanyNameNormalized: normalize.CompanyName(company),
			JobTitleRaw:           title,
			JobTitleNormalized:    normalize.JobTitle(title),
			ConnectionDate:        field(values, fieldConnectedOn),
			LinkedInURL:           strings.TrimSpace(field(values, fieldURL)),
			Source:                connection.SourceLinkedInCSV,
			LastUpdatedAt:         now,
		})
	}

	conns = deduplicate(conns)
	if len(conns) == 0 {
		return nil, &ParseError{Message: "no valid connections found in CSV"}
	}
	return conns, nil
}

// splitLine splits one CSV line on commas, honoring double-quoted fields.
// A doubled quote inside a quoted field is a literal quote.
func splitLine(line string) []string {
	var result []string
	var current strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			result = append(result, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	result = append(result, strings.TrimSpace(current.String()))

	return result
}

// generateConnectionID derives a best-effort unique ID from the record
// contents plus the import time. Uniqueness across re-imports is not
// guaranteed and not needed: every import replaces the whole set.
func generateConnectionID(name, company, title string, now time.Time) string {
	data := strings.ToLower(name + "-" + company + "-" + title)
	var h int32
	for _, ch := range data {
		h = (h << 5) - h + int32(ch)
	}
	if h < 0 {
		h = -h
	}
	return fmt.Sprintf("conn_%d_%d", h, now.UnixMilli())
}

// deduplicate keeps the first occurrence per lowercase(name) + normalized
// company. Distinct titles for the same person at the same company collapse
// into the first row seen.
func deduplicate(conns []connection.Connection) []connection.Connection {
	seen := make(map[string]bool, len(conns))
	var unique []connection.Connection
	for _, c := range conns {
		key := strings.ToLower(c.ConnectionName) + "-" + c.CompanyNameNormalized
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, c)
	}
	return unique
}
