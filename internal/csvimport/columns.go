package csvimport

import "strings"

// Professional-network exports are not stable about header naming, so each
// logical field resolves against an ordered candidate list, case-insensitively.
type logicalField struct {
	display    string
	candidates []string
	required   bool
}

var logicalFields = [...]logicalField{
	{display: "First Name", candidates: []string{"first name", "firstname"}, required: true},
	{display: "Last Name", candidates: []string{"last name", "lastname"}, required: true},
	{display: "Company", candidates: []string{"company", "organization"}, required: true},
	{display: "Position", candidates: []string{"position", "title", "job title"}, required: true},
	{display: "Connected On", candidates: []string{"connected on", "date"}, required: false},
	{display: "URL", candidates: []string{"url", "profile url", "linkedin url"}, required: false},
}

// Indexes into logicalFields, kept in one place so columnMap stays ordered.
const (
	fieldFirstName = iota
	fieldLastName
	fieldCompany
	fieldPosition
	fieldConnectedOn
	fieldURL
)

// columnMap holds the resolved header index per logical field, -1 when the
// column is absent.
type columnMap [len(logicalFields)]int

// resolveColumns maps header cells to logical fields. It returns the mapping
// or the list of unresolved required fields.
func resolveColumns(headers []string) (columnMap, []string) {
	var cm columnMap
	for i := range cm {
		cm[i] = -1
	}

	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(strings.TrimSpace(h))
	}

	for fi, f := range logicalFields {
		for _, cand := range f.candidates {
			for hi, h := range lowered {
				if h == cand {
					cm[fi] = hi
					break
				}
			}
			if cm[fi] >= 0 {
				break
			}
		}
	}

	var missing []string
	for fi, f := range logicalFields {
		if f.required && cm[fi] < 0 {
			missing = append(missing, f.display)
		}
	}
	return cm, missing
}
