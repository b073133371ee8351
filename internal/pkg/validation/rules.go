package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Validation rule patterns
var (
	// Aadhaar numbers are exactly 12 digits
	AadharPattern = `^\d{12}$`

	// CAP identifiers are alphanumeric, at least 8 characters
	CapIDPattern = `^[A-Za-z0-9]{8,}$`

	// Application IDs are plain digit strings
	ApplicationIDPattern = `^\d+$`

	// MaxMarksheetBytes is the largest accepted marksheet upload (5 MiB)
	MaxMarksheetBytes int64 = 5 * 1024 * 1024

	// MinYearOfStudy and MaxYearOfStudy bound the year-of-study field
	MinYearOfStudy = 1
	MaxYearOfStudy = 4
)

// ErrApplicationIDOutOfRange marks a well-formed application ID too large for any stored row
var ErrApplicationIDOutOfRange = errors.New("application ID out of range")

// AllowedMarksheetTypes lists the accepted MIME types and their canonical extension.
var AllowedMarksheetTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Aadhar        *regexp.Regexp
	CapID         *regexp.Regexp
	ApplicationID *regexp.Regexp
}{
	Aadhar:        regexp.MustCompile(AadharPattern),
	CapID:         regexp.MustCompile(CapIDPattern),
	ApplicationID: regexp.MustCompile(ApplicationIDPattern),
}

// IsAadharNumber reports whether s is a well-formed Aadhaar number.
func IsAadharNumber(s string) bool {
	return CompiledPatterns.Aadhar.MatchString(s)
}

// IsCapID reports whether s is a well-formed CAP identifier.
func IsCapID(s string) bool {
	return CompiledPatterns.CapID.MatchString(s)
}

// ParseApplicationID validates s against ApplicationIDPattern and converts it.
// A digit string beyond int64 returns ErrApplicationIDOutOfRange.
func ParseApplicationID(s string) (int64, error) {
	if !CompiledPatterns.ApplicationID.MatchString(s) {
		return 0, fmt.Errorf("application ID must be a number")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrApplicationIDOutOfRange
	}
	return id, nil
}

// ParseYearOfStudy converts a form value into a year of study within bounds.
func ParseYearOfStudy(s string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("current_year must be a number between %d and %d", MinYearOfStudy, MaxYearOfStudy)
	}
	if year < MinYearOfStudy || year > MaxYearOfStudy {
		return 0, fmt.Errorf("current_year must be a number between %d and %d", MinYearOfStudy, MaxYearOfStudy)
	}
	return year, nil
}

// FormBool parses a "true"/"false" form literal. ok is false for anything
// else, in which case value is false.
func FormBool(s string) (value bool, ok bool) {
	switch s {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// IsAllowedMarksheetType reports whether mimeType is an accepted marksheet format.
func IsAllowedMarksheetType(mimeType string) bool {
	_, ok := AllowedMarksheetTypes[mimeType]
	return ok
}
