package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarship/internal/app/models/dto"
	"github.com/yigit/scholarship/internal/pkg/apperrors"
)

// errorMapping describes how a sentinel error is reported to clients
type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
	details string
}

// Order matters: the first matching sentinel wins.
var errorMappings = []errorMapping{
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidation, "Validation failed", ""},
	{apperrors.ErrMissingFields, http.StatusBadRequest, dto.ErrorCodeValidation, "Validation failed", ""},
	{apperrors.ErrInvalidUpload, http.StatusBadRequest, dto.ErrorCodeValidation, "Invalid marksheet upload", ""},
	{apperrors.ErrConfiguration, http.StatusInternalServerError, dto.ErrorCodeConfig, "Server configuration error", "Database configuration is incomplete"},
	{apperrors.ErrApplicationNotFound, http.StatusNotFound, dto.ErrorCodeNotFound, "Application not found", ""},
	{apperrors.ErrAadharNotFound, http.StatusNotFound, dto.ErrorCodeNotFound, "Aadhaar number not found", ""},
	{apperrors.ErrCapNotFound, http.StatusNotFound, dto.ErrorCodeNotFound, "CAP ID not found", ""},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeNotFound, "Resource not found", ""},
	{apperrors.ErrDatabaseConnect, http.StatusServiceUnavailable, dto.ErrorCodeConnection, "Database connection failed", "Could not connect to the database server"},
	{apperrors.ErrTableMissing, http.StatusInternalServerError, dto.ErrorCodeTable, "Database error", "Required table does not exist"},
	{apperrors.ErrDatabaseAuth, http.StatusInternalServerError, dto.ErrorCodeAuth, "Database authentication failed", "Invalid database credentials"},
	{apperrors.ErrDataIntegrity, http.StatusInternalServerError, dto.ErrorCodeData, "Invalid application data", "Application data is incomplete or corrupted"},
}

// StatusFor returns the HTTP status and machine-readable code for err.
// Unrecognised errors map to 500 UNKNOWN_ERROR.
func StatusFor(err error) (int, dto.ErrorCode) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, dto.ErrorCodeUnknown
}

// NewCodedError builds the {error, code, details} body for err. A CustomError
// in the chain supplies its own message and details; unrecognised errors
// report fallback as the message and the error text as details.
func NewCodedError(err error, fallback string) (int, dto.ErrorResponse) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		resp := dto.NewErrorResponse(m.message).WithCode(m.code).WithDetails(m.details)
		var ce *apperrors.CustomError
		if errors.As(err, &ce) {
			if ce.Message != "" {
				resp.Error = ce.Message
			}
			if ce.Details != "" {
				resp.Details = ce.Details
			}
		}
		return m.status, resp
	}

	return http.StatusInternalServerError, dto.NewErrorResponse(fallback).
		WithCode(dto.ErrorCodeUnknown).
		WithDetails(err.Error())
}

// HandleAPIError responds with a coded error body derived from err
func HandleAPIError(c *gin.Context, err error, fallback string) {
	status, resp := NewCodedError(err, fallback)
	RespondError(c, status, resp, err)
}

// RespondError aborts the request with body and records err for the request logger
func RespondError(c *gin.Context, status int, body dto.ErrorResponse, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, body)
}
