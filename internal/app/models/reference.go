package models

// AadharRecord is a row of the external Aadhaar registry table (aadhar_db).
type AadharRecord struct {
	AadharNo string `json:"aadhar_no"`
	Name     string `json:"name"`
	Dob      string `json:"dob"`
	Gender   string `json:"gender"`
	Address  string `json:"address"`
}

// CapRecord is a row of the external CAP eligibility table (cap_db).
type CapRecord struct {
	CapID                    string `json:"cap_id"`
	NameAsPerLC              string `json:"name_as_per_lc"`
	IncomeCertificateNo      string `json:"income_certificate_no"`
	IncomeIssuingAuthority   string `json:"income_issuing_authority"`
	IncomeIssueDate          string `json:"income_issue_date"`
	FamilyAnnualIncome       int64  `json:"family_annual_income"`
	DomicileCertificateNo    string `json:"domicile_certificate_no"`
	DomicileIssuingAuthority string `json:"domicile_issuing_authority"`
	DomicileIssueDate        string `json:"domicile_issue_date"`
	CasteCategory            string `json:"caste_category"`
	CasteCertificateNo       string `json:"caste_certificate_no"`
	CasteIssuingDistrict     string `json:"caste_issuing_district"`
	CasteIssuingAuthority    string `json:"caste_issuing_authority"`
	SSCSeatNo                string `json:"ssc_seat_no"`
	SSCYear                  int    `json:"ssc_year"`
	SSCSchoolName            string `json:"ssc_school_name"`
	HSCSeatNo                string `json:"hsc_seat_no"`
	HSCYear                  int    `json:"hsc_year"`
	HSCCollegeName           string `json:"hsc_college_name"`
	CourseName               string `json:"course_name"`
}

// VerifiedData pairs the two reference records returned by a successful
// verification.
type VerifiedData struct {
	Aadhar *AadharRecord `json:"aadhar"`
	Cap    *CapRecord    `json:"cap"`
}
