package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholarship/internal/app/models"
	"github.com/yigit/scholarship/internal/db"
)

type fakeTransactor struct {
	committed  int
	rolledBack int
}

func (f *fakeTransactor) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	if err := fn(ctx, nil); err != nil {
		f.rolledBack++
		return err
	}
	f.committed++
	return nil
}

type fakeApplicationStore struct {
	createID  int64
	createErr error
	created   *models.PersonalDetails

	latestID  int64
	latestErr error
	lockErr   error
	locked    []int64

	updateErr error
	updatedID int64
	updated   *models.FamilyDetails
}

func (f *fakeApplicationStore) Create(_ context.Context, p *models.PersonalDetails) (int64, error) {
	f.created = p
	return f.createID, f.createErr
}

func (f *fakeApplicationStore) LatestID(context.Context) (int64, error) {
	return f.latestID, f.latestErr
}

func (f *fakeApplicationStore) LockByID(_ context.Context, id int64) error {
	f.locked = append(f.locked, id)
	return f.lockErr
}

func (f *fakeApplicationStore) UpdateFamilyDetails(_ context.Context, id int64, d *models.FamilyDetails) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedID = id
	f.updated = d
	return nil
}

type fakeStorage struct {
	saveErr error
	saved   []string
	deleted []string
}

func (f *fakeStorage) SaveWithPrefix(fh *multipart.FileHeader, prefix string) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	p := "/uploads/" + prefix + "-1700000000000-1" + ".pdf"
	f.saved = append(f.saved, p)
	return p, nil
}

func (f *fakeStorage) DeleteFile(publicPath string) error {
	f.deleted = append(f.deleted, publicPath)
	return nil
}

func (f *fakeStorage) GetFullPath(publicPath string) string {
	return publicPath
}

type fakeReferenceStore struct {
	aadhar    *models.AadharRecord
	aadharErr error
	cap       *models.CapRecord
	capErr    error
}

func (f *fakeReferenceStore) FindAadhar(context.Context, string) (*models.AadharRecord, error) {
	return f.aadhar, f.aadharErr
}

func (f *fakeReferenceStore) FindCap(context.Context, string) (*models.CapRecord, error) {
	return f.cap, f.capErr
}

type fakeReader struct {
	app   *models.ScholarshipApplication
	err   error
	calls []int64
}

func (f *fakeReader) GetByID(_ context.Context, id int64) (*models.ScholarshipApplication, error) {
	f.calls = append(f.calls, id)
	return f.app, f.err
}

type staticCredentials bool

func (s staticCredentials) HasDatabaseCredentials() bool { return bool(s) }

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

// newFileHeader builds a multipart file header the way a parsed request would carry it.
func newFileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("marksheet", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["marksheet"][0]
}

func newTestApplicationService(tx *fakeTransactor, store *fakeApplicationStore, storage *fakeStorage, opts FormOptions) *applicationServiceImpl {
	return &applicationServiceImpl{
		transactor: tx,
		withTx:     func(pgx.Tx) ApplicationStore { return store },
		storage:    storage,
		opts:       opts,
	}
}
