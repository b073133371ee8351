package seed

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
	"github.com/yigit/scholarship/internal/app/models"
	"github.com/yigit/scholarship/internal/db"
)

// DemoAadhar and DemoCap are the reference rows inserted by CreateReferenceData
var (
	DemoAadhar = []models.AadharRecord{
		{AadharNo: "123456789012", Name: "Asha Patil", Dob: "2004-05-12", Gender: "Female", Address: "12 MG Road, Pune"},
		{AadharNo: "987654321098", Name: "Rohan Deshmukh", Dob: "2003-11-02", Gender: "Male", Address: "44 Station Road, Nagpur"},
	}
	DemoCap = []models.CapRecord{
		{
			CapID: "CAP2024001", NameAsPerLC: "Asha Patil",
			IncomeCertificateNo: "INC-2024-7781", IncomeIssuingAuthority: "Tahsildar Pune", IncomeIssueDate: "2024-03-15",
			FamilyAnnualIncome:    240000,
			DomicileCertificateNo: "DOM-2022-1190", DomicileIssuingAuthority: "SDO Pune", DomicileIssueDate: "2022-07-01",
			CasteCategory: "OBC", CasteCertificateNo: "CST-2021-5521", CasteIssuingDistrict: "Pune", CasteIssuingAuthority: "SDO Pune",
			SSCSeatNo: "S1203344", SSCYear: 2020, SSCSchoolName: "Modern High School",
			HSCSeatNo: "H2204411", HSCYear: 2022, HSCCollegeName: "Fergusson College",
			CourseName: "B.E. Computer Engineering",
		},
		{
			CapID: "CAP2024002", NameAsPerLC: "Rohan Deshmukh",
			IncomeCertificateNo: "INC-2024-1042", IncomeIssuingAuthority: "Tahsildar Nagpur", IncomeIssueDate: "2024-02-20",
			FamilyAnnualIncome:    180000,
			DomicileCertificateNo: "DOM-2021-8812", DomicileIssuingAuthority: "SDO Nagpur", DomicileIssueDate: "2021-06-18",
			CasteCategory: "SC", CasteCertificateNo: "CST-2020-3307", CasteIssuingDistrict: "Nagpur", CasteIssuingAuthority: "SDO Nagpur",
			SSCSeatNo: "S1109921", SSCYear: 2019, SSCSchoolName: "Somalwar High School",
			HSCSeatNo: "H2101877", HSCYear: 2021, HSCCollegeName: "Hislop College",
			CourseName: "B.Tech Electrical Engineering",
		},
	}
)

// CreateReferenceData inserts the demo Aadhaar and CAP rows if they don't exist.
// Existing rows are left untouched, so the call is safe on every startup.
func CreateReferenceData(ctx context.Context, conn db.DBTX, lgr zerolog.Logger) error {
	sb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	lgr.Info().Msg("Checking/Creating reference data (Aadhaar/CAP)...")
	var finalErr error

	aadharInsert := sb.Insert("aadhar_db").
		Columns("aadhar_no", "name", "dob", "gender", "address").
		Suffix("ON CONFLICT (aadhar_no) DO NOTHING")
	for _, a := range DemoAadhar {
		aadharInsert = aadharInsert.Values(a.AadharNo, a.Name, a.Dob, a.Gender, a.Address)
	}
	if err := execInsert(ctx, conn, aadharInsert); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo aadhaar records")
		finalErr = errors.Join(finalErr, err)
	}

	capInsert := sb.Insert("cap_db").
		Columns(
			"cap_id", "name_as_per_lc",
			"income_certificate_no", "income_issuing_authority", "income_issue_date",
			"family_annual_income",
			"domicile_certificate_no", "domicile_issuing_authority", "domicile_issue_date",
			"caste_category", "caste_certificate_no", "caste_issuing_district", "caste_issuing_authority",
			"ssc_seat_no", "ssc_year", "ssc_school_name",
			"hsc_seat_no", "hsc_year", "hsc_college_name",
			"course_name",
		).
		Suffix("ON CONFLICT (cap_id) DO NOTHING")
	for _, c := range DemoCap {
		capInsert = capInsert.Values(
			c.CapID, c.NameAsPerLC,
			c.IncomeCertificateNo, c.IncomeIssuingAuthority, c.IncomeIssueDate,
			c.FamilyAnnualIncome,
			c.DomicileCertificateNo, c.DomicileIssuingAuthority, c.DomicileIssueDate,
			c.CasteCategory, c.CasteCertificateNo, c.CasteIssuingDistrict, c.CasteIssuingAuthority,
			c.SSCSeatNo, c.SSCYear, c.SSCSchoolName,
			c.HSCSeatNo, c.HSCYear, c.HSCCollegeName,
			c.CourseName,
		)
	}
	if err := execInsert(ctx, conn, capInsert); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo CAP records")
		finalErr = errors.Join(finalErr, err)
	}

	if finalErr == nil {
		lgr.Info().Int("aadhar", len(DemoAadhar)).Int("cap", len(DemoCap)).Msg("Reference data check/creation complete.")
	}
	return finalErr
}

func execInsert(ctx context.Context, conn db.DBTX, q squirrel.InsertBuilder) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return err
	}
	_, err = conn.Exec(ctx, sql, args...)
	return err
}
