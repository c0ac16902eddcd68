package core

// validation.go holds request-level validation: header checks for CSV
// imports and the error types rejected input is reported with.

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports one field whose value was rejected.
type ValidationError struct {
	Field   string // Field/parameter name
	Value   string // The invalid value
	Message string // What is wrong, without the field name
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("'%s' %s", e.Field, e.Message)
	}
	return e.Message
}

// MissingHeadersError rejects a CSV whose header lacks required columns.
// Missing is sorted.
type MissingHeadersError struct {
	Missing []string
}

func (e *MissingHeadersError) Error() string {
	return "CSV missing required headers: " + strings.Join(e.Missing, ", ")
}

// ValidateHeaders checks that every required field appears in header after
// normalization and returns the header index.
func ValidateHeaders(header []string) (HeaderIndex, error) {
	idx := MakeHeaderIndex(header)
	if len(idx) == 0 {
		return nil, ErrNoHeader
	}

	var missing []string
	for _, name := range RequiredHeaders() {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingHeadersError{Missing: missing}
	}

	return idx, nil
}
