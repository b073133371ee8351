package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/scholarship/internal/app/models"
	"github.com/yigit/scholarship/internal/db"
	"github.com/yigit/scholarship/internal/pkg/apperrors"
	"github.com/yigit/scholarship/internal/pkg/dberrors"
	"github.com/yigit/scholarship/internal/pkg/logger"
)

// ReferenceRepository reads the external Aadhaar and CAP registry tables.
// Both tables are read-only for this service.
type ReferenceRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewReferenceRepository creates a new reference repository
func NewReferenceRepository(conn db.DBTX) *ReferenceRepository {
	return &ReferenceRepository{
		db: conn,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// FindAadhar returns the Aadhaar record for aadharNo
func (r *ReferenceRepository) FindAadhar(ctx context.Context, aadharNo string) (*models.AadharRecord, error) {
	sql, args, err := r.sb.Select(
		"aadhar_no", "name", "to_char(dob, 'YYYY-MM-DD') AS dob", "gender", "address",
	).From("aadhar_db").
		Where(squirrel.Eq{"aadhar_no": aadharNo}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building find aadhar SQL")
		return nil, err
	}

	var rec models.AadharRecord
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&rec.AadharNo, &rec.Name, &rec.Dob, &rec.Gender, &rec.Address,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrAadharNotFound
		}
		logger.Ctx(ctx).Error().Err(err).Msg("Error executing find aadhar query")
		return nil, dberrors.Classify(err)
	}

	return &rec, nil
}

// FindCap returns the CAP record for capID
func (r *ReferenceRepository) FindCap(ctx context.Context, capID string) (*models.CapRecord, error) {
	sql, args, err := r.sb.Select(
		"cap_id", "name_as_per_lc",
		"income_certificate_no", "income_issuing_authority", "to_char(income_issue_date, 'YYYY-MM-DD') AS income_issue_date",
		"family_annual_income",
		"domicile_certificate_no", "domicile_issuing_authority", "to_char(domicile_issue_date, 'YYYY-MM-DD') AS domicile_issue_date",
		"caste_category", "caste_certificate_no", "caste_issuing_district", "caste_issuing_authority",
		"ssc_seat_no", "ssc_year", "ssc_school_name",
		"hsc_seat_no", "hsc_year", "hsc_college_name",
		"course_name",
	).From("cap_db").
		Where(squirrel.Eq{"cap_id": capID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building find cap SQL")
		return nil, err
	}

	var rec models.CapRecord
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&rec.CapID, &rec.NameAsPerLC,
		&rec.IncomeCertificateNo, &rec.IncomeIssuingAuthority, &rec.IncomeIssueDate,
		&rec.FamilyAnnualIncome,
		&rec.DomicileCertificateNo, &rec.DomicileIssuingAuthority, &rec.DomicileIssueDate,
		&rec.CasteCategory, &rec.CasteCertificateNo, &rec.CasteIssuingDistrict, &rec.CasteIssuingAuthority,
		&rec.SSCSeatNo, &rec.SSCYear, &rec.SSCSchoolName,
		&rec.HSCSeatNo, &rec.HSCYear, &rec.HSCCollegeName,
		&rec.CourseName,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrCapNotFound
		}
		logger.Ctx(ctx).Error().Err(err).Msg("Error executing find cap query")
		return nil, dberrors.Classify(err)
	}

	return &rec, nil
}
