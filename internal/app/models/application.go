package models

import "time"

// PersonalDetails holds the columns written when an application is created.
// Values are stored as submitted.
type PersonalDetails struct {
	AadharNo                 string
	CapID                    string
	Name                     string
	Dob                      string
	Gender                   string
	Address                  string
	FamilyAnnualIncome       string
	IncomeCertificateNo      string
	IncomeIssuingAuthority   string
	IncomeIssueDate          string
	DomicileCertificateNo    string
	DomicileIssuingAuthority string
	DomicileIssueDate        string
	CasteCategory            string
	CasteCertificateNo       string
	CasteIssuingDistrict     string
	CasteIssuingAuthority    string
	SSCSchoolName            string
	HSCCollegeName           string
	CourseName               string
}

// FamilyDetails holds the columns written by the family details step.
type FamilyDetails struct {
	StudentSalaried  bool
	FatherAlive      bool
	FatherWorking    bool
	FatherOccupation *string
	MotherAlive      bool
	MotherWorking    bool
	MotherOccupation *string
	YearOfStudy      int
	MarksheetUpload  *string
}

// ScholarshipApplication is a stored application row as read back for tracking.
// Family columns stay NULL until the family details step completes.
type ScholarshipApplication struct {
	ID               int64
	Name             string
	CourseName       *string
	YearOfStudy      *int32
	CreatedAt        *time.Time
	UpdatedAt        *time.Time
	StudentSalaried  *bool
	FatherAlive      *bool
	FatherWorking    *bool
	FatherOccupation *string
	MotherAlive      *bool
	MotherWorking    *bool
	MotherOccupation *string
	MarksheetUpload  *string
	AadharNo         string
	CapID            string
}
