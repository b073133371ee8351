//go:build integration

package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/yigit/scholarship/internal/app/migrations"
	"github.com/yigit/scholarship/internal/app/models"
	"github.com/yigit/scholarship/internal/app/models/dto"
	"github.com/yigit/scholarship/internal/app/repositories"
	"github.com/yigit/scholarship/internal/app/services"
	"github.com/yigit/scholarship/internal/db"
	"github.com/yigit/scholarship/internal/pkg/apperrors"
	"github.com/yigit/scholarship/internal/pkg/filestorage"
	"github.com/yigit/scholarship/internal/seed"
)

type PostgresSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	database  *db.PostgresDB
	repos     *repositories.Repositories
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration tests in short mode")
	}
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("scholarship_db"),
		tcpostgres.WithUsername("intake"),
		tcpostgres.WithPassword("secret"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	pool, err := pgxpool.New(ctx, dsn)
	s.Require().NoError(err)
	s.database = &db.PostgresDB{Pool: pool}

	s.Require().NoError(migrations.NewMigrator(pool).MigrateFromDirectory(ctx, "../../../migrations"))
	// a second run is a no-op
	s.Require().NoError(migrations.NewMigrator(pool).MigrateFromDirectory(ctx, "../../../migrations"))
	s.Require().NoError(seed.CreateReferenceData(ctx, pool, zerolog.Nop()))
	s.Require().NoError(seed.CreateReferenceData(ctx, pool, zerolog.Nop()))

	s.repos = repositories.NewRepositories(pool)
}

func (s *PostgresSuite) TearDownSuite() {
	if s.database != nil {
		s.database.Close()
	}
	if s.container != nil {
		_ = testcontainers.TerminateContainer(s.container)
	}
}

func (s *PostgresSuite) SetupTest() {
	_, err := s.database.Pool.Exec(context.Background(), "TRUNCATE scholarship_applications RESTART IDENTITY")
	s.Require().NoError(err)
}

func (s *PostgresSuite) personal() *models.PersonalDetails {
	return &models.PersonalDetails{
		AadharNo: seed.DemoAadhar[0].AadharNo, CapID: seed.DemoCap[0].CapID,
		Name: "Asha Patil", Dob: "2004-05-12", Gender: "female", Address: "12 MG Road, Pune",
		FamilyAnnualIncome: "240000", IncomeCertificateNo: "INC-2024-7781", IncomeIssuingAuthority: "Tahsildar Pune",
		IncomeIssueDate: "2024-03-15", DomicileCertificateNo: "DOM-2022-1190", DomicileIssuingAuthority: "SDO Pune",
		DomicileIssueDate: "2022-07-01", CasteCategory: "OBC", CasteCertificateNo: "CST-2021-5521",
		CasteIssuingDistrict: "Pune", CasteIssuingAuthority: "SDO Pune",
		SSCSchoolName: "Modern High School", HSCCollegeName: "Fergusson College", CourseName: "B.E. Computer Engineering",
	}
}

func (s *PostgresSuite) TestReferenceLookups() {
	ctx := context.Background()

	aadhar, err := s.repos.ReferenceRepository.FindAadhar(ctx, seed.DemoAadhar[0].AadharNo)
	s.Require().NoError(err)
	s.Equal(seed.DemoAadhar[0], *aadhar)

	capRec, err := s.repos.ReferenceRepository.FindCap(ctx, seed.DemoCap[0].CapID)
	s.Require().NoError(err)
	s.Equal(seed.DemoCap[0], *capRec)

	_, err = s.repos.ReferenceRepository.FindAadhar(ctx, "000000000000")
	s.ErrorIs(err, apperrors.ErrAadharNotFound)
}

func (s *PostgresSuite) TestCreateUpdateAndRead() {
	ctx := context.Background()
	repo := s.repos.ApplicationRepository

	_, err := repo.LatestID(ctx)
	s.ErrorIs(err, apperrors.ErrNoApplications)

	first, err := repo.Create(ctx, s.personal())
	s.Require().NoError(err)
	second, err := repo.Create(ctx, s.personal())
	s.Require().NoError(err)

	latest, err := repo.LatestID(ctx)
	s.Require().NoError(err)
	s.Equal(second, latest)

	before, err := repo.GetByID(ctx, first)
	s.Require().NoError(err)
	s.Nil(before.YearOfStudy)
	s.Nil(before.FatherAlive)

	occupation := "Farmer"
	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		txRepo := repo.WithTx(tx)
		if err := txRepo.LockByID(ctx, first); err != nil {
			return err
		}
		return txRepo.UpdateFamilyDetails(ctx, first, &models.FamilyDetails{
			FatherAlive: true, FatherWorking: true, FatherOccupation: &occupation,
			MotherAlive: true, YearOfStudy: 2,
		})
	})
	s.Require().NoError(err)

	after, err := repo.GetByID(ctx, first)
	s.Require().NoError(err)
	s.Equal("Asha Patil", after.Name)
	s.Require().NotNil(after.YearOfStudy)
	s.Equal(int32(2), *after.YearOfStudy)
	s.Equal(&occupation, after.FatherOccupation)
	s.Nil(after.MotherOccupation)
	s.Nil(after.MarksheetUpload)
	s.False(after.UpdatedAt.Before(*after.CreatedAt))

	view := dto.NewApplicationView(after)
	s.True(view.FatherWorking)
	s.False(view.StudentSalaried)
}

func (s *PostgresSuite) TestLockMissingApplication() {
	err := s.database.WithTransaction(context.Background(), func(ctx context.Context, tx pgx.Tx) error {
		return s.repos.ApplicationRepository.WithTx(tx).LockByID(ctx, 999)
	})
	s.ErrorIs(err, apperrors.ErrApplicationNotFound)
}

func (s *PostgresSuite) TestMissingTableIsClassified() {
	ctx := context.Background()
	err := s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DROP TABLE cap_db"); err != nil {
			return err
		}
		_, err := repositories.NewReferenceRepository(tx).FindCap(ctx, seed.DemoCap[0].CapID)
		s.ErrorIs(err, apperrors.ErrTableMissing)
		return err
	})
	s.Error(err)

	// the drop was rolled back
	_, err = s.repos.ReferenceRepository.FindCap(ctx, seed.DemoCap[0].CapID)
	s.NoError(err)
}

func (s *PostgresSuite) TestServicesAgainstDatabase() {
	ctx := context.Background()
	storage, err := filestorage.NewLocalStorage(s.T().TempDir(), "/uploads")
	s.Require().NoError(err)

	appSvc := services.NewApplicationService(s.database, s.repos.ApplicationRepository, storage,
		services.FormOptions{MaxUploadBytes: 5 * 1024 * 1024}, nil)

	id, err := appSvc.SubmitPersonalDetails(ctx, &dto.PersonalDetailsRequest{
		Name: "Asha Patil", Dob: "2004-05-12", Gender: "female", Address: "Pune",
		AnnualIncome: "240000", IncomeCertificateNo: "INC", IncomeIssuingAuthority: "T", IncomeIssueDate: "2024-03-15",
		DomicileCertificateNo: "DOM", DomicileIssuingAuthority: "S", DomicileIssueDate: "2022-07-01",
		Category: "OBC", CasteCertificateNo: "CST", CasteIssuingDistrict: "Pune", CasteIssuingAuthority: "S",
		SSCSchool: "Modern", HSCCollege: "Fergusson", CurrentCourse: "B.E.",
		AadharNo: seed.DemoAadhar[0].AadharNo, CapID: seed.DemoCap[0].CapID,
	})
	s.Require().NoError(err)

	updated, err := appSvc.SubmitFamilyDetails(ctx, &services.FamilyDetailsInput{
		Form: dto.FamilyDetailsForm{
			StudentSalaried: "false", FatherAlive: "true", FatherWorking: "false",
			MotherAlive: "true", MotherWorking: "false", CurrentYear: "1",
		},
	})
	s.Require().NoError(err)
	s.Equal(id, updated)

	trackSvc := services.NewTrackingService(s.repos.ApplicationRepository, staticCredentials{}, nil)
	view, err := trackSvc.Track(ctx, "1")
	s.Require().NoError(err)
	s.Equal(id, view.ID)
	s.Require().NotNil(view.YearOfStudy)
	s.Equal(int32(1), *view.YearOfStudy)
	s.Require().NotNil(view.CreatedAt)
	_, err = time.Parse("2006-01-02T15:04:05.000Z", *view.CreatedAt)
	s.NoError(err)
}

type staticCredentials struct{}

func (staticCredentials) HasDatabaseCredentials() bool { return true }
