package dto

// ErrorCode is the machine-readable code attached to error responses.
type ErrorCode string

// Error codes surfaced to clients
const (
	ErrorCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrorCodeConfig     ErrorCode = "CONFIG_ERROR"
	ErrorCodeConnection ErrorCode = "CONNECTION_ERROR"
	ErrorCodeTable      ErrorCode = "TABLE_ERROR"
	ErrorCodeAuth       ErrorCode = "AUTH_ERROR"
	ErrorCodeData       ErrorCode = "DATA_ERROR"
	ErrorCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrorCodeUnknown    ErrorCode = "UNKNOWN_ERROR"
)

// ErrorResponse is the JSON body of every failed request. Code is only set
// where clients branch on it.
type ErrorResponse struct {
	Error   string    `json:"error" example:"Application not found"`
	Code    ErrorCode `json:"code,omitempty" example:"NOT_FOUND"`
	Details string    `json:"details,omitempty" example:"No application found with ID 42"`
}

// NewErrorResponse creates an error response with a message only
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

// WithCode sets the machine-readable code
func (e ErrorResponse) WithCode(code ErrorCode) ErrorResponse {
	e.Code = code
	return e
}

// WithDetails sets the diagnostic details
func (e ErrorResponse) WithDetails(details string) ErrorResponse {
	e.Details = details
	return e
}
