package client

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/yigit/scholarship/internal/app/models"
	"github.com/yigit/scholarship/internal/app/models/dto"
	"github.com/yigit/scholarship/internal/pkg/apperrors"
)

// Session keys
const (
	KeyVerifiedData  = "verifiedData"
	KeyApplicationID = "applicationId"
)

// ErrNotVerified is returned when a step needs verified data that is not stored
var ErrNotVerified = errors.New("verification data not found, please verify your details first")

// ErrNoApplicationID is returned when tracking without an ID and none is stored
var ErrNoApplicationID = errors.New("no application ID stored for this session")

// Workflow drives the verify, personal, family and track steps for one
// session, carrying state between them in a SessionStore.
type Workflow struct {
	client    *Client
	store     *SessionStore
	sessionID string
}

// NewWorkflow creates a Workflow for sessionID
func NewWorkflow(c *Client, store *SessionStore, sessionID string) *Workflow {
	return &Workflow{client: c, store: store, sessionID: sessionID}
}

// SessionID returns the session this workflow stores state under
func (w *Workflow) SessionID() string {
	return w.sessionID
}

// Verify checks the identifiers locally, looks them up and stores the result
func (w *Workflow) Verify(ctx context.Context, aadharNo, capID string) (*models.VerifiedData, error) {
	if err := CheckVerifyInput(aadharNo, capID); err != nil {
		return nil, err
	}

	data, err := w.client.Verify(ctx, aadharNo, capID)
	if err != nil {
		return nil, err
	}

	if err := w.store.Set(w.sessionID, KeyVerifiedData, data); err != nil {
		return nil, err
	}
	return data, nil
}

// VerifiedData returns the stored verification result
func (w *Workflow) VerifiedData() (*models.VerifiedData, error) {
	var data models.VerifiedData
	ok, err := w.store.Get(w.sessionID, KeyVerifiedData, &data)
	if err != nil {
		return nil, err
	}
	if !ok || data.Aadhar == nil || data.Cap == nil {
		return nil, ErrNotVerified
	}
	return &data, nil
}

// PrefillPersonalDetails builds the personal details form from the stored
// verification result
func (w *Workflow) PrefillPersonalDetails() (*dto.PersonalDetailsRequest, error) {
	data, err := w.VerifiedData()
	if err != nil {
		return nil, err
	}
	return PrefillFromVerified(data), nil
}

// PrefillFromVerified maps the Aadhaar and CAP records onto the personal details form
func PrefillFromVerified(data *models.VerifiedData) *dto.PersonalDetailsRequest {
	a, c := data.Aadhar, data.Cap
	return &dto.PersonalDetailsRequest{
		Name:                     a.Name,
		Dob:                      dateOnly(a.Dob),
		Gender:                   strings.ToLower(a.Gender),
		Address:                  a.Address,
		AnnualIncome:             strconv.FormatInt(c.FamilyAnnualIncome, 10),
		IncomeCertificateNo:      c.IncomeCertificateNo,
		IncomeIssuingAuthority:   c.IncomeIssuingAuthority,
		IncomeIssueDate:          dateOnly(c.IncomeIssueDate),
		DomicileCertificateNo:    c.DomicileCertificateNo,
		DomicileIssuingAuthority: c.DomicileIssuingAuthority,
		DomicileIssueDate:        dateOnly(c.DomicileIssueDate),
		Category:                 c.CasteCategory,
		CasteCertificateNo:       c.CasteCertificateNo,
		CasteIssuingDistrict:     c.CasteIssuingDistrict,
		CasteIssuingAuthority:    c.CasteIssuingAuthority,
		SSCSchool:                c.SSCSchoolName,
		HSCCollege:               c.HSCCollegeName,
		CurrentCourse:            c.CourseName,
		AadharNo:                 a.AadharNo,
		CapID:                    c.CapID,
	}
}

// SubmitPersonalDetails sends req with the verified identifiers and stores the new application ID
func (w *Workflow) SubmitPersonalDetails(ctx context.Context, req *dto.PersonalDetailsRequest) (int64, error) {
	data, err := w.VerifiedData()
	if err != nil {
		return 0, err
	}
	submit := *req
	submit.AadharNo = data.Aadhar.AadharNo
	submit.CapID = data.Cap.CapID

	id, err := w.client.SubmitPersonalDetails(ctx, &submit)
	if err != nil {
		return 0, err
	}

	if err := w.store.Set(w.sessionID, KeyApplicationID, id); err != nil {
		return 0, err
	}
	return id, nil
}

// SubmitFamilyDetails checks and sends the family step for the stored
// application, then clears the session keeping only the application ID
func (w *Workflow) SubmitFamilyDetails(ctx context.Context, form *FamilyForm) (int64, error) {
	if err := CheckFamilyForm(form); err != nil {
		return 0, err
	}

	submit := *form
	if submit.ApplicationID == 0 {
		if id, ok, err := w.ApplicationID(); err != nil {
			return 0, err
		} else if ok {
			submit.ApplicationID = id
		}
	}

	id, err := w.client.SubmitFamilyDetails(ctx, &submit)
	if err != nil {
		return 0, err
	}

	if err := w.store.Clear(w.sessionID); err != nil {
		return 0, err
	}
	if err := w.store.Set(w.sessionID, KeyApplicationID, id); err != nil {
		return 0, err
	}
	return id, nil
}

// ApplicationID returns the stored application ID, if any
func (w *Workflow) ApplicationID() (int64, bool, error) {
	var id int64
	ok, err := w.store.Get(w.sessionID, KeyApplicationID, &id)
	return id, ok, err
}

// Track fetches applicationID, or the stored ID when applicationID is empty
func (w *Workflow) Track(ctx context.Context, applicationID string) (*dto.ApplicationView, error) {
	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		id, ok, err := w.ApplicationID()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNoApplicationID
		}
		applicationID = strconv.FormatInt(id, 10)
	}
	return w.client.Track(ctx, applicationID)
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// IsValidation reports whether err is a local check failure or a 400 from the API
func IsValidation(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 400
	}
	return errors.Is(err, apperrors.ErrValidationFailed)
}

func dateOnly(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}
