package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholarship/internal/app/models/dto"
	"github.com/yigit/scholarship/internal/metrics"
	"github.com/yigit/scholarship/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewCodedErrorMapsSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"validation", apperrors.NewValidationError("Invalid Application ID format"), http.StatusBadRequest, dto.ErrorCodeValidation},
		{"config", apperrors.ErrConfiguration, http.StatusInternalServerError, dto.ErrorCodeConfig},
		{"connection", fmt.Errorf("%w: dial tcp", apperrors.ErrDatabaseConnect), http.StatusServiceUnavailable, dto.ErrorCodeConnection},
		{"table", fmt.Errorf("%w: 42P01", apperrors.ErrTableMissing), http.StatusInternalServerError, dto.ErrorCodeTable},
		{"auth", fmt.Errorf("%w: 28P01", apperrors.ErrDatabaseAuth), http.StatusInternalServerError, dto.ErrorCodeAuth},
		{"data", apperrors.ErrDataIntegrity, http.StatusInternalServerError, dto.ErrorCodeData},
		{"not found", apperrors.ErrApplicationNotFound, http.StatusNotFound, dto.ErrorCodeNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := NewCodedError(tt.err, "Failed to fetch application details")
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestNewCodedErrorPrefersCustomMessage(t *testing.T) {
	err := apperrors.NewCustomError(apperrors.ErrApplicationNotFound, "Application not found").
		WithDetails("No application found with ID 8")

	status, resp := NewCodedError(fmt.Errorf("wrapped: %w", err), "unused")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Application not found", resp.Error)
	assert.Equal(t, "No application found with ID 8", resp.Details)
}

func TestNewCodedErrorUnknownCarriesDetails(t *testing.T) {
	_, resp := NewCodedError(errors.New("deadlock detected"), "Failed to fetch application details")
	assert.Equal(t, "Failed to fetch application details", resp.Error)
	assert.Equal(t, "deadlock detected", resp.Details)
}

type sampleRequest struct {
	Name    string `json:"name" validate:"required"`
	Dob     string `json:"dob" validate:"required"`
	Address string `json:"address" validate:"required"`
}

func TestMissingFieldsUsesJSONNamesInOrder(t *testing.T) {
	missing, err := MissingFields(&sampleRequest{Dob: "2003-04-12"})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "address"}, missing)

	missing, err = MissingFields(&sampleRequest{Name: "a", Dob: "b", Address: "c"})
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestBindLooseJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Asha","dob":0,"address":false,"extra":{"a":1}}`))

	var req sampleRequest
	require.NoError(t, BindLooseJSON(c, &req))
	assert.Equal(t, "Asha", req.Name)
	assert.Empty(t, req.Dob)
	assert.Empty(t, req.Address)

	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":250000,"dob":true,"address":null}`))
	req = sampleRequest{}
	require.NoError(t, BindLooseJSON(c, &req))
	assert.Equal(t, "250000", req.Name)
	assert.Equal(t, "true", req.Dob)
	assert.Empty(t, req.Address)

	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`[1,2]`))
	assert.Error(t, BindLooseJSON(c, &req))
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, rec.Header().Get(RequestIDHeader), rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestRequestMetricsUsesRoutePattern(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(RequestMetrics(m))
	r.GET("/api/track", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/track?id=1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/track", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestHandleAPIErrorAborts(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	HandleAPIError(c, apperrors.NewValidationError("Application ID is required").WithDetails("Please provide a valid application ID"), "x")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Application ID is required","code":"VALIDATION_ERROR","details":"Please provide a valid application ID"}`, rec.Body.String())
	assert.Len(t, c.Errors, 1)
}
