package apperrors

import "errors"

// Validation errors
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrMissingFields    = errors.New("missing required fields")
	ErrInvalidUpload    = errors.New("invalid marksheet upload")
)

// Lookup and resource errors
var (
	ErrResourceNotFound    = errors.New("resource not found")
	ErrAadharNotFound      = errors.New("aadhaar number not found")
	ErrCapNotFound         = errors.New("CAP ID not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrNoApplications      = errors.New("no existing application found")
)

// Infrastructure errors. Repositories wrap driver failures with these so that
// callers can branch without importing the driver.
var (
	ErrConfiguration     = errors.New("server configuration error")
	ErrDatabaseConnect   = errors.New("database connection failed")
	ErrDatabaseAuth      = errors.New("database authentication failed")
	ErrTableMissing      = errors.New("required table does not exist")
	ErrDataIntegrity     = errors.New("application data is incomplete or corrupted")
	ErrNoRowsAffected    = errors.New("no rows affected")
	ErrStorageWriteFail  = errors.New("failed to upload marksheet")
	ErrCookieMissing     = errors.New("no verified data found")
	ErrCookieUnparseable = errors.New("invalid data format")
)

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// NewValidationError creates a validation failure carrying a human-readable message.
func NewValidationError(message string) *CustomError {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// WithDetails adds diagnostic details to the error
func (e *CustomError) WithDetails(details string) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// DetailsOf returns the Details of the first CustomError in err's chain, if any.
func DetailsOf(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Details
	}
	return ""
}
