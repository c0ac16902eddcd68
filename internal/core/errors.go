package core

import (
	"encoding/csv"
	"errors"
)

var (
	// ErrNotFound is returned when no record has the requested serial number.
	ErrNotFound = errors.New("item not found")

	// ErrNoHeader is returned for an import whose input has no header row.
	ErrNoHeader = errors.New("CSV file has no header row")

	// ErrMissingKey is returned when an update or delete names no serial number.
	ErrMissingKey = errors.New("serial_no is required")

	// ErrTooManyImports is returned when every import slot stays occupied
	// for the whole wait period.
	ErrTooManyImports = errors.New("too many concurrent imports, please try again later")
)

// IsInvalidInput reports whether err was caused by malformed request input
// and should be answered as a client error.
func IsInvalidInput(err error) bool {
	var ve *ValidationError
	var mh *MissingHeadersError
	var pe *csv.ParseError
	return errors.As(err, &ve) ||
		errors.As(err, &mh) ||
		errors.As(err, &pe) ||
		errors.Is(err, ErrNoHeader) ||
		errors.Is(err, ErrMissingKey)
}
