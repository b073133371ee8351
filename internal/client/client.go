package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yigit/scholarship/internal/app/models"
	"github.com/yigit/scholarship/internal/app/models/dto"
)

// DefaultTimeout bounds every request made by Client
const DefaultTimeout = 10 * time.Second

// VerifiedDataCookie is the cookie GetVerifiedData reads on the server
const VerifiedDataCookie = "verifiedData"

// APIError is a non-2xx response from the intake API
type APIError struct {
	StatusCode int
	Message    string
	Code       dto.ErrorCode
	Details    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Details != "" {
		return fmt.Sprintf("%s (%d): %s", msg, e.StatusCode, e.Details)
	}
	return fmt.Sprintf("%s (%d)", msg, e.StatusCode)
}

// Client talks to the scholarship intake API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client for the API rooted at baseURL (e.g. http://localhost:8080)
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Marksheet is a file attached to the family details step
type Marksheet struct {
	Filename string
	Data     []byte
}

// FamilyForm is the family details step as sent by the client.
// ApplicationID 0 lets the server pick the latest application.
type FamilyForm struct {
	ApplicationID    int64
	StudentSalaried  bool
	FatherAlive      bool
	FatherWorking    bool
	FatherOccupation string
	MotherAlive      bool
	MotherWorking    bool
	MotherOccupation string
	YearOfStudy      int
	Marksheet        *Marksheet
}

// Verify looks up the Aadhaar and CAP records
func (c *Client) Verify(ctx context.Context, aadharNo, capID string) (*models.VerifiedData, error) {
	var out models.VerifiedData
	err := c.doJSON(ctx, http.MethodPost, "/api/verify", dto.VerifyRequest{AadharNo: aadharNo, CapID: capID}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitPersonalDetails creates an application and returns its ID
func (c *Client) SubmitPersonalDetails(ctx context.Context, req *dto.PersonalDetailsRequest) (int64, error) {
	var out dto.PersonalDetailsResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/personal-details", req, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// SubmitFamilyDetails sends the family details step as multipart form data
func (c *Client) SubmitFamilyDetails(ctx context.Context, form *FamilyForm) (int64, error) {
	body, contentType, err := encodeFamilyForm(form)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/family-details", body)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var out dto.FamilyDetailsResponse
	if err := c.do(req, &out); err != nil {
		return 0, err
	}
	return out.ApplicationID, nil
}

// Track fetches the stored application with the given ID
func (c *Client) Track(ctx context.Context, applicationID string) (*dto.ApplicationView, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/track?id="+url.QueryEscape(applicationID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	var out dto.ApplicationView
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifiedData relays data through the verifiedData cookie and returns what
// the server parsed from it
func (c *Client) VerifiedData(ctx context.Context, data *models.VerifiedData) (*models.VerifiedData, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode verified data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/get-verified-data", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.AddCookie(&http.Cookie{Name: VerifiedDataCookie, Value: url.QueryEscape(string(raw))})

	var out models.VerifiedData
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health reports whether the API and its database are up
func (c *Client) Health(ctx context.Context) (*dto.HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	var out dto.HealthResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody dto.ErrorResponse
		if json.Unmarshal(body, &errBody) == nil {
			apiErr.Message = errBody.Error
			apiErr.Code = errBody.Code
			apiErr.Details = errBody.Details
		}
		return apiErr
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func encodeFamilyForm(form *FamilyForm) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"student_salaried", strconv.FormatBool(form.StudentSalaried)},
		{"father_alive", strconv.FormatBool(form.FatherAlive)},
		{"father_working", strconv.FormatBool(form.FatherWorking)},
		{"father_occupation", form.FatherOccupation},
		{"mother_alive", strconv.FormatBool(form.MotherAlive)},
		{"mother_working", strconv.FormatBool(form.MotherWorking)},
		{"mother_occupation", form.MotherOccupation},
		{"current_year", strconv.Itoa(form.YearOfStudy)},
	}
	if form.ApplicationID > 0 {
		fields = append(fields, [2]string{"application_id", strconv.FormatInt(form.ApplicationID, 10)})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", f[0], err)
		}
	}

	if form.Marksheet != nil && form.YearOfStudy != 1 {
		part, err := w.CreateFormFile("marksheet", form.Marksheet.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to attach marksheet: %w", err)
		}
		if _, err := part.Write(form.Marksheet.Data); err != nil {
			return nil, "", fmt.Errorf("failed to attach marksheet: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
