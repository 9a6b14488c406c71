package csvimport

import (
	"fmt"
	"strings"
)

// ValidationError rejects an upload before parsing: wrong extension,
// oversize, or empty content.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// ParseError aborts the whole import: the header is missing required columns
// or no usable rows survived parsing. Individual malformed rows are skipped,
// never reported through this type.
type ParseError struct {
	Message        string
	MissingColumns []string
	FoundHeaders   []string
}

func (e *ParseError) Error() string {
	if len(e.MissingColumns) > 0 {
		return fmt.Sprintf("missing required columns: %s. Found columns: %s",
			strings.Join(e.MissingColumns, ", "),
			strings.Join(e.FoundHeaders, ", "))
	}
	return e.Message
}
