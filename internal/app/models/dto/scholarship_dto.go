package dto

import (
	"github.com/yigit/scholarship/internal/app/models"
	"github.com/yigit/scholarship/internal/pkg/helpers"
)

// VerifyRequest is the body of POST /api/verify. Formats are not checked
// server-side.
type VerifyRequest struct {
	AadharNo string `json:"aadhar_no" example:"123412341234"`
	CapID    string `json:"cap_id" example:"CAP2024A01"`
}

// VerifyResponse pairs the two matched reference records
type VerifyResponse = models.VerifiedData

// PersonalDetailsRequest is the body of POST /api/personal-details. Every
// field is required; the order of the fields is the order in which missing
// fields are reported.
type PersonalDetailsRequest struct {
	Name                     string `json:"name" validate:"required"`
	Dob                      string `json:"dob" validate:"required"`
	Gender                   string `json:"gender" validate:"required"`
	Address                  string `json:"address" validate:"required"`
	AnnualIncome             string `json:"annual_income" validate:"required"`
	IncomeCertificateNo      string `json:"income_certificate_no" validate:"required"`
	IncomeIssuingAuthority   string `json:"income_issuing_authority" validate:"required"`
	IncomeIssueDate          string `json:"income_issue_date" validate:"required"`
	DomicileCertificateNo    string `json:"domicile_certificate_no" validate:"required"`
	DomicileIssuingAuthority string `json:"domicile_issuing_authority" validate:"required"`
	DomicileIssueDate        string `json:"domicile_issue_date" validate:"required"`
	Category                 string `json:"category" validate:"required"`
	CasteCertificateNo       string `json:"caste_certificate_no" validate:"required"`
	CasteIssuingDistrict     string `json:"caste_issuing_district" validate:"required"`
	CasteIssuingAuthority    string `json:"caste_issuing_authority" validate:"required"`
	SSCSchool                string `json:"ssc_school" validate:"required"`
	HSCCollege               string `json:"hsc_college" validate:"required"`
	CurrentCourse            string `json:"current_course" validate:"required"`
	AadharNo                 string `json:"aadhar_no" validate:"required"`
	CapID                    string `json:"cap_id" validate:"required"`
}

// ToModel maps the request onto the application columns
func (r *PersonalDetailsRequest) ToModel() *models.PersonalDetails {
	return &models.PersonalDetails{
		AadharNo:                 r.AadharNo,
		CapID:                    r.CapID,
		Name:                     r.Name,
		Dob:                      r.Dob,
		Gender:                   r.Gender,
		Address:                  r.Address,
		FamilyAnnualIncome:       r.AnnualIncome,
		IncomeCertificateNo:      r.IncomeCertificateNo,
		IncomeIssuingAuthority:   r.IncomeIssuingAuthority,
		IncomeIssueDate:          r.IncomeIssueDate,
		DomicileCertificateNo:    r.DomicileCertificateNo,
		DomicileIssuingAuthority: r.DomicileIssuingAuthority,
		DomicileIssueDate:        r.DomicileIssueDate,
		CasteCategory:            r.Category,
		CasteCertificateNo:       r.CasteCertificateNo,
		CasteIssuingDistrict:     r.CasteIssuingDistrict,
		CasteIssuingAuthority:    r.CasteIssuingAuthority,
		SSCSchoolName:            r.SSCSchool,
		HSCCollegeName:           r.HSCCollege,
		CourseName:               r.CurrentCourse,
	}
}

// PersonalDetailsResponse is returned after the application row is created
type PersonalDetailsResponse struct {
	Message string `json:"message" example:"Personal details saved successfully"`
	ID      int64  `json:"id" example:"42"`
}

// FamilyDetailsForm is the multipart form of POST /api/family-details. All
// values arrive as strings and are parsed by the application service.
type FamilyDetailsForm struct {
	ApplicationID    string `form:"application_id"`
	StudentSalaried  string `form:"student_salaried"`
	FatherAlive      string `form:"father_alive"`
	FatherWorking    string `form:"father_working"`
	FatherOccupation string `form:"father_occupation"`
	MotherAlive      string `form:"mother_alive"`
	MotherWorking    string `form:"mother_working"`
	MotherOccupation string `form:"mother_occupation"`
	CurrentYear      string `form:"current_year"`
}

// FamilyDetailsResponse is returned after the family details are stored
type FamilyDetailsResponse struct {
	Message       string `json:"message" example:"Family details saved successfully"`
	ApplicationID int64  `json:"applicationId" example:"42"`
}

// ApplicationView is the tracked form of a stored application
type ApplicationView struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	CourseName       *string `json:"course_name"`
	YearOfStudy      *int32  `json:"year_of_study"`
	CreatedAt        *string `json:"created_at"`
	UpdatedAt        *string `json:"updated_at"`
	StudentSalaried  bool    `json:"student_salaried"`
	FatherAlive      bool    `json:"father_alive"`
	FatherWorking    bool    `json:"father_working"`
	FatherOccupation *string `json:"father_occupation"`
	MotherAlive      bool    `json:"mother_alive"`
	MotherWorking    bool    `json:"mother_working"`
	MotherOccupation *string `json:"mother_occupation"`
	MarksheetUpload  *string `json:"marksheet_upload"`
	AadharNo         string  `json:"aadhar_no"`
	CapID            string  `json:"cap_id"`
}

// NewApplicationView reshapes a stored row: NULL booleans become false and
// timestamps are rendered as ISO-8601 UTC strings (nil when absent).
func NewApplicationView(app *models.ScholarshipApplication) *ApplicationView {
	return &ApplicationView{
		ID:               app.ID,
		Name:             app.Name,
		CourseName:       app.CourseName,
		YearOfStudy:      app.YearOfStudy,
		CreatedAt:        helpers.FormatISOTimestamp(app.CreatedAt),
		UpdatedAt:        helpers.FormatISOTimestamp(app.UpdatedAt),
		StudentSalaried:  helpers.BoolValue(app.StudentSalaried),
		FatherAlive:      helpers.BoolValue(app.FatherAlive),
		FatherWorking:    helpers.BoolValue(app.FatherWorking),
		FatherOccupation: app.FatherOccupation,
		MotherAlive:      helpers.BoolValue(app.MotherAlive),
		MotherWorking:    helpers.BoolValue(app.MotherWorking),
		MotherOccupation: app.MotherOccupation,
		MarksheetUpload:  app.MarksheetUpload,
		AadharNo:         app.AadharNo,
		CapID:            app.CapID,
	}
}

// HealthResponse is returned by GET /api/health
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"up"`
}
