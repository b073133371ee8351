package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholarship/internal/app/models"
	"github.com/yigit/scholarship/internal/app/models/dto"
	"github.com/yigit/scholarship/internal/app/services"
	"github.com/yigit/scholarship/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerificationService struct {
	data *models.VerifiedData
	err  error
	req  *dto.VerifyRequest
}

func (s *stubVerificationService) Verify(_ context.Context, req *dto.VerifyRequest) (*models.VerifiedData, error) {
	s.req = req
	return s.data, s.err
}

type stubApplicationService struct {
	id        int64
	err       error
	personal  *dto.PersonalDetailsRequest
	family    *services.FamilyDetailsInput
	callCount int
}

func (s *stubApplicationService) SubmitPersonalDetails(_ context.Context, req *dto.PersonalDetailsRequest) (int64, error) {
	s.callCount++
	s.personal = req
	return s.id, s.err
}

func (s *stubApplicationService) SubmitFamilyDetails(_ context.Context, in *services.FamilyDetailsInput) (int64, error) {
	s.callCount++
	s.family = in
	return s.id, s.err
}

type stubTrackingService struct {
	view *dto.ApplicationView
	err  error
}

func (s *stubTrackingService) Track(context.Context, string) (*dto.ApplicationView, error) {
	return s.view, s.err
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newRouter(v services.VerificationService, a services.ApplicationService, t services.TrackingService) *gin.Engine {
	r := gin.New()
	api := r.Group("/api")
	vc := NewVerificationController(v)
	ac := NewApplicationController(a)
	tc := NewTrackingController(t)
	api.POST("/verify", vc.Verify)
	api.GET("/get-verified-data", vc.GetVerifiedData)
	api.POST("/personal-details", ac.SubmitPersonalDetails)
	api.POST("/family-details", ac.SubmitFamilyDetails)
	api.GET("/track", tc.Track)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func completePersonalBody() map[string]any {
	return map[string]any{
		"name": "Asha Patil", "dob": "2003-04-12", "gender": "female", "address": "Pune",
		"annual_income": 240000, "income_certificate_no": "INC/1", "income_issuing_authority": "Tahsildar",
		"income_issue_date": "2023-05-02", "domicile_certificate_no": "DOM/1", "domicile_issuing_authority": "SDO",
		"domicile_issue_date": "2021-08-19", "category": "OBC", "caste_certificate_no": "CST/1",
		"caste_issuing_district": "Pune", "caste_issuing_authority": "SDO", "ssc_school": "Model School",
		"hsc_college": "Fergusson College", "current_course": "B.Sc", "aadhar_no": "123412341234", "cap_id": "CAP2024A01",
	}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestVerify(t *testing.T) {
	data := &models.VerifiedData{
		Aadhar: &models.AadharRecord{AadharNo: "123412341234", Name: "Asha Patil"},
		Cap:    &models.CapRecord{CapID: "CAP2024A01"},
	}
	r := newRouter(&stubVerificationService{data: data}, &stubApplicationService{}, &stubTrackingService{})

	rec := serve(r, jsonRequest(t, http.MethodPost, "/api/verify", dto.VerifyRequest{AadharNo: "123412341234", CapID: "CAP2024A01"}))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.VerifiedData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Asha Patil", got.Aadhar.Name)
	assert.Equal(t, "CAP2024A01", got.Cap.CapID)
}

func TestVerifyAcceptsNumericIdentifiers(t *testing.T) {
	svc := &stubVerificationService{data: &models.VerifiedData{
		Aadhar: &models.AadharRecord{AadharNo: "123412341234"},
		Cap:    &models.CapRecord{CapID: "CAP12345"},
	}}
	r := newRouter(svc, &stubApplicationService{}, &stubTrackingService{})

	rec := serve(r, jsonRequest(t, http.MethodPost, "/api/verify", map[string]any{"aadhar_no": 123412341234, "cap_id": "CAP12345"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, svc.req)
	assert.Equal(t, "123412341234", svc.req.AadharNo)
	assert.Equal(t, "CAP12345", svc.req.CapID)
}

func TestVerifyRejectsNonObjectBody(t *testing.T) {
	svc := &stubVerificationService{}
	r := newRouter(svc, &stubApplicationService{}, &stubTrackingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/verify", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(r, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, rec.Body.String())
	assert.Nil(t, svc.req)
}

func TestVerifyNotFound(t *testing.T) {
	notFound := apperrors.NewCustomError(apperrors.ErrCapNotFound, "CAP ID not found")
	r := newRouter(&stubVerificationService{err: notFound}, &stubApplicationService{}, &stubTrackingService{})

	rec := serve(r, jsonRequest(t, http.MethodPost, "/api/verify", dto.VerifyRequest{}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"CAP ID not found"}`, rec.Body.String())
}

func TestVerifyInternalError(t *testing.T) {
	r := newRouter(&stubVerificationService{err: errors.New("pool closed")}, &stubApplicationService{}, &stubTrackingService{})

	rec := serve(r, jsonRequest(t, http.MethodPost, "/api/verify", dto.VerifyRequest{}))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestSubmitPersonalDetails(t *testing.T) {
	svc := &stubApplicationService{id: 42}
	r := newRouter(&stubVerificationService{}, svc, &stubTrackingService{})

	rec := serve(r, jsonRequest(t, http.MethodPost, "/api/personal-details", completePersonalBody()))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Personal details saved successfully","id":42}`, rec.Body.String())
	assert.Equal(t, "240000", svc.personal.AnnualIncome)
}

func TestSubmitPersonalDetailsNamesEveryMissingField(t *testing.T) {
	svc := &stubApplicationService{id: 42}
	r := newRouter(&stubVerificationService{}, svc, &stubTrackingService{})

	body := completePersonalBody()
	delete(body, "dob")
	body["category"] = ""
	body["annual_income"] = 0
	body["cap_id"] = nil

	rec := serve(r, jsonRequest(t, http.MethodPost, "/api/personal-details", body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Missing required fields: dob, annual_income, category, cap_id"}`, rec.Body.String())
	assert.Zero(t, svc.callCount)
}

func TestSubmitPersonalDetailsFailure(t *testing.T) {
	svc := &stubApplicationService{err: fmt.Errorf("error saving personal details: %w", errors.New("duplicate key"))}
	r := newRouter(&stubVerificationService{}, svc, &stubTrackingService{})

	rec := serve(r, jsonRequest(t, http.MethodPost, "/api/personal-details", completePersonalBody()))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to save personal details", resp.Error)
	assert.Contains(t, resp.Details, "duplicate key")
}

func multipartRequest(t *testing.T, fields map[string]string, fileName string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("marksheet", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/family-details", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestSubmitFamilyDetails(t *testing.T) {
	svc := &stubApplicationService{id: 17}
	r := newRouter(&stubVerificationService{}, svc, &stubTrackingService{})

	req := multipartRequest(t, map[string]string{
		"student_salaried":  "false",
		"father_alive":      "true",
		"father_working":    "true",
		"father_occupation": "Farmer",
		"current_year":      "2",
	}, "sem2.pdf", []byte("%PDF-1.4 test"))

	rec := serve(r, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Family details saved successfully","applicationId":17}`, rec.Body.String())
	assert.Equal(t, "Farmer", svc.family.Form.FatherOccupation)
	assert.Equal(t, "2", svc.family.Form.CurrentYear)
	require.NotNil(t, svc.family.Marksheet)
	assert.Equal(t, "sem2.pdf", svc.family.Marksheet.Filename)
}

func TestSubmitFamilyDetailsWithoutFile(t *testing.T) {
	svc := &stubApplicationService{id: 17}
	r := newRouter(&stubVerificationService{}, svc, &stubTrackingService{})

	rec := serve(r, multipartRequest(t, map[string]string{"current_year": "1"}, "", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.family.Marksheet)
}

func TestSubmitFamilyDetailsFailure(t *testing.T) {
	svc := &stubApplicationService{err: fmt.Errorf("error saving family details: %w", apperrors.ErrNoApplications)}
	r := newRouter(&stubVerificationService{}, svc, &stubTrackingService{})

	rec := serve(r, multipartRequest(t, map[string]string{"current_year": "1"}, "", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to save family details","details":"error saving family details: no existing application found"}`, rec.Body.String())
}

func TestSubmitFamilyDetailsValidationFailure(t *testing.T) {
	svc := &stubApplicationService{err: apperrors.NewValidationError("Invalid family details").WithDetails("current_year must be a number between 1 and 4")}
	r := newRouter(&stubVerificationService{}, svc, &stubTrackingService{})

	rec := serve(r, multipartRequest(t, map[string]string{"current_year": "9"}, "", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid family details","code":"VALIDATION_ERROR","details":"current_year must be a number between 1 and 4"}`, rec.Body.String())
}

func TestTrack(t *testing.T) {
	view := &dto.ApplicationView{ID: 5, Name: "Asha Patil", FatherAlive: true, AadharNo: "123412341234", CapID: "CAP2024A01"}
	r := newRouter(&stubVerificationService{}, &stubApplicationService{}, &stubTrackingService{view: view})

	first := serve(r, httptest.NewRequest(http.MethodGet, "/api/track?id=5", nil))
	second := serve(r, httptest.NewRequest(http.MethodGet, "/api/track?id=5", nil))

	require.Equal(t, http.StatusOK, first.Code)
	assert.Contains(t, first.Body.String(), `"father_alive":true`)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestTrackErrorCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"validation", apperrors.NewValidationError("Invalid Application ID format").WithDetails("Application ID must be a number"), http.StatusBadRequest, dto.ErrorCodeValidation},
		{"not found", apperrors.NewCustomError(apperrors.ErrApplicationNotFound, "Application not found").WithDetails("No application found with ID 9"), http.StatusNotFound, dto.ErrorCodeNotFound},
		{"config", apperrors.NewCustomError(apperrors.ErrConfiguration, "Server configuration error"), http.StatusInternalServerError, dto.ErrorCodeConfig},
		{"connection", fmt.Errorf("%w: refused", apperrors.ErrDatabaseConnect), http.StatusServiceUnavailable, dto.ErrorCodeConnection},
		{"table", fmt.Errorf("%w: 42P01", apperrors.ErrTableMissing), http.StatusInternalServerError, dto.ErrorCodeTable},
		{"auth", fmt.Errorf("%w: 28P01", apperrors.ErrDatabaseAuth), http.StatusInternalServerError, dto.ErrorCodeAuth},
		{"data", apperrors.NewCustomError(apperrors.ErrDataIntegrity, "Invalid application data"), http.StatusInternalServerError, dto.ErrorCodeData},
		{"unknown", errors.New("unexpected"), http.StatusInternalServerError, dto.ErrorCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&stubVerificationService{}, &stubApplicationService{}, &stubTrackingService{err: tt.err})

			rec := serve(r, httptest.NewRequest(http.MethodGet, "/api/track?id=abc", nil))
			assert.Equal(t, tt.status, rec.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
			assert.NotEmpty(t, resp.Details)
		})
	}
}

func TestGetVerifiedData(t *testing.T) {
	r := newRouter(&stubVerificationService{}, &stubApplicationService{}, &stubTrackingService{})

	payload := `{"aadhar":{"aadhar_no":"123412341234","name":"Asha Patil"},"cap":{"cap_id":"CAP2024A01"}}`
	req := httptest.NewRequest(http.MethodGet, "/api/get-verified-data", nil)
	req.AddCookie(&http.Cookie{Name: VerifiedDataCookie, Value: url.QueryEscape(payload)})

	rec := serve(r, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, payload, rec.Body.String())
}

func TestGetVerifiedDataMissingCookie(t *testing.T) {
	r := newRouter(&stubVerificationService{}, &stubApplicationService{}, &stubTrackingService{})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/api/get-verified-data", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"No verified data found"}`, rec.Body.String())
}

func TestGetVerifiedDataInvalidJSON(t *testing.T) {
	r := newRouter(&stubVerificationService{}, &stubApplicationService{}, &stubTrackingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/get-verified-data", nil)
	req.AddCookie(&http.Cookie{Name: VerifiedDataCookie, Value: url.QueryEscape("{not json")})

	rec := serve(r, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid data format"}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	r := gin.New()
	r.GET("/up", NewHealthController(stubPinger{}).Health)
	r.GET("/down", NewHealthController(stubPinger{err: errors.New("refused")}).Health)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/up", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"database":"up"`))

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/down", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
