package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/scholarship/internal/app/models"
	"github.com/yigit/scholarship/internal/db"
	"github.com/yigit/scholarship/internal/pkg/apperrors"
	"github.com/yigit/scholarship/internal/pkg/dberrors"
	"github.com/yigit/scholarship/internal/pkg/logger"
)

const applicationsTable = "scholarship_applications"

// ApplicationRepository handles database operations for scholarship applications
type ApplicationRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(conn db.DBTX) *ApplicationRepository {
	return &ApplicationRepository{
		db: conn,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a copy of the repository bound to tx
func (r *ApplicationRepository) WithTx(tx pgx.Tx) *ApplicationRepository {
	return &ApplicationRepository{db: tx, sb: r.sb}
}

// Create inserts a new application with its personal details and returns the generated ID.
// Family columns are left NULL.
func (r *ApplicationRepository) Create(ctx context.Context, p *models.PersonalDetails) (int64, error) {
	sql, args, err := r.sb.Insert(applicationsTable).
		Columns(
			"aadhar_no", "cap_id", "name", "dob", "gender", "address",
			"family_annual_income", "income_certificate_no", "income_issuing_authority", "income_issue_date",
			"domicile_certificate_no", "domicile_issuing_authority", "domicile_issue_date",
			"caste_category", "caste_certificate_no", "caste_issuing_district", "caste_issuing_authority",
			"ssc_school_name", "hsc_college_name", "course_name",
		).
		Values(
			p.AadharNo, p.CapID, p.Name, p.Dob, p.Gender, p.Address,
			p.FamilyAnnualIncome, p.IncomeCertificateNo, p.IncomeIssuingAuthority, p.IncomeIssueDate,
			p.DomicileCertificateNo, p.DomicileIssuingAuthority, p.DomicileIssueDate,
			p.CasteCategory, p.CasteCertificateNo, p.CasteIssuingDistrict, p.CasteIssuingAuthority,
			p.SSCSchoolName, p.HSCCollegeName, p.CourseName,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create application SQL")
		return 0, err
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("Error executing create application query")
		return 0, dberrors.Classify(err)
	}

	return id, nil
}

// LatestID returns the ID of the most recently created application
func (r *ApplicationRepository) LatestID(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("id").
		From(applicationsTable).
		OrderBy("id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building latest application SQL")
		return 0, err
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsNoRows(err) {
			return 0, apperrors.ErrNoApplications
		}
		logger.Ctx(ctx).Error().Err(err).Msg("Error executing latest application query")
		return 0, dberrors.Classify(err)
	}

	return id, nil
}

// LockByID locks the application row for the rest of the transaction
func (r *ApplicationRepository) LockByID(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Select("id").
		From(applicationsTable).
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building lock application SQL")
		return err
	}

	var locked int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&locked); err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.NewCustomError(apperrors.ErrApplicationNotFound, "Application not found").
				WithDetails(fmt.Sprintf("No application found with ID %d", id))
		}
		logger.Ctx(ctx).Error().Err(err).Int64("applicationId", id).Msg("Error executing lock application query")
		return dberrors.Classify(err)
	}

	return nil
}

// UpdateFamilyDetails stores the family and employment columns of an application
func (r *ApplicationRepository) UpdateFamilyDetails(ctx context.Context, id int64, f *models.FamilyDetails) error {
	sql, args, err := r.sb.Update(applicationsTable).
		Set("student_salaried", f.StudentSalaried).
		Set("father_alive", f.FatherAlive).
		Set("father_working", f.FatherWorking).
		Set("father_occupation", f.FatherOccupation).
		Set("mother_alive", f.MotherAlive).
		Set("mother_working", f.MotherWorking).
		Set("mother_occupation", f.MotherOccupation).
		Set("year_of_study", f.YearOfStudy).
		Set("marksheet_upload", f.MarksheetUpload).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update family details SQL")
		return err
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Int64("applicationId", id).Msg("Error executing update family details query")
		return dberrors.Classify(err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: no application found with ID %d", apperrors.ErrNoRowsAffected, id)
	}

	return nil
}

// GetByID retrieves the tracked columns of an application
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.ScholarshipApplication, error) {
	sql, args, err := r.sb.Select(
		"id", "name", "course_name", "year_of_study", "created_at", "updated_at",
		"student_salaried", "father_alive", "father_working", "father_occupation",
		"mother_alive", "mother_working", "mother_occupation",
		"marksheet_upload", "aadhar_no", "cap_id",
	).From(applicationsTable).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get application SQL")
		return nil, err
	}

	var (
		app  models.ScholarshipApplication
		name *string
	)
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&app.ID, &name, &app.CourseName, &app.YearOfStudy, &app.CreatedAt, &app.UpdatedAt,
		&app.StudentSalaried, &app.FatherAlive, &app.FatherWorking, &app.FatherOccupation,
		&app.MotherAlive, &app.MotherWorking, &app.MotherOccupation,
		&app.MarksheetUpload, &app.AadharNo, &app.CapID,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrApplicationNotFound
		}
		logger.Ctx(ctx).Error().Err(err).Int64("applicationId", id).Msg("Error executing get application query")
		return nil, dberrors.Classify(err)
	}
	if name != nil {
		app.Name = *name
	}

	return &app, nil
}
