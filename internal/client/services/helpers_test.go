package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/chemizer/analytics-cli/internal/client/api"
	"github.com/chemizer/analytics-cli/internal/client/models"
	"github.com/chemizer/analytics-cli/internal/logging"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE client_state (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func testLogger() logging.Logger {
	return logging.NewTextLogger(io.Discard, slog.LevelError)
}

// ---- fake client ----

// fakeClient implements api.Client for service unit tests. Only the fields
// a test sets matter; everything else returns zero values.
type fakeClient struct {
	RegisterRet *api.OTPChallenge
	RegisterErr error

	LoginRet   *api.OTPChallenge
	LoginErr   error
	LoginCalls int

	VerifyRet       *api.AuthResult
	VerifyErr       error
	VerifyCalls     int
	LastVerifyEmail string
	LastVerifyOTP   string

	ResendErr       error
	ResendCalls     int
	LastResendEmail string

	GoogleRet *api.AuthResult
	GoogleErr error

	ProfileRet *models.User
	ProfileErr error

	UpdateProfileRet *models.ProfileUpdate
	UpdateProfileErr error
	LastUpdate       models.ProfileUpdate

	ChangePasswordErr error
	LastPasswords     [2]string

	DeleteAccountErr error

	UploadRet          *models.AnalysisResult
	UploadErr          error
	UploadTicks        []int
	UploadCalls        int
	LastUploadFilename string

	HistoryRet []models.UploadRecord
	HistoryErr error

	DetailRet    *models.AnalysisResult
	DetailErr    error
	LastDetailID string

	DeleteUploadErr error
	LastDeleteID    string

	BulkDeleteErr error
	LastBulkIDs   []string

	ReportRet []byte
	ReportErr error

	AllDataRet []byte
	AllDataErr error

	DeleteAllDataErr error
}

func (f *fakeClient) Register(ctx context.Context, req api.RegisterRequest) (*api.OTPChallenge, error) {
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (*api.OTPChallenge, error) {
	f.LoginCalls++
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) VerifyOTP(ctx context.Context, email, otp string) (*api.AuthResult, error) {
	f.VerifyCalls++
	f.LastVerifyEmail = email
	f.LastVerifyOTP = otp
	return f.VerifyRet, f.VerifyErr
}

func (f *fakeClient) ResendOTP(ctx context.Context, email string) error {
	f.ResendCalls++
	f.LastResendEmail = email
	return f.ResendErr
}

func (f *fakeClient) GoogleLogin(ctx context.Context, idToken string) (*api.AuthResult, error) {
	return f.GoogleRet, f.GoogleErr
}

func (f *fakeClient) Profile(ctx context.Context) (*models.User, error) {
	return f.ProfileRet, f.ProfileErr
}

func (f *fakeClient) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.ProfileUpdate, error) {
	f.LastUpdate = upd
	return f.UpdateProfileRet, f.UpdateProfileErr
}

func (f *fakeClient) ChangePassword(ctx context.Context, current, next string) error {
	f.LastPasswords = [2]string{current, next}
	return f.ChangePasswordErr
}

func (f *fakeClient) DeleteAccount(ctx context.Context) error { return f.DeleteAccountErr }

func (f *fakeClient) UploadFile(ctx context.Context, filename string, r io.Reader, progress func(percent int)) (*models.AnalysisResult, error) {
	f.UploadCalls++
	f.LastUploadFilename = filename
	if progress != nil {
		for _, p := range f.UploadTicks {
			progress(p)
		}
	}
	return f.UploadRet, f.UploadErr
}

func (f *fakeClient) UploadHistory(ctx context.Context) ([]models.UploadRecord, error) {
	return f.HistoryRet, f.HistoryErr
}

func (f *fakeClient) UploadDetail(ctx context.Context, uploadID string) (*models.AnalysisResult, error) {
	f.LastDetailID = uploadID
	return f.DetailRet, f.DetailErr
}

func (f *fakeClient) DeleteUpload(ctx context.Context, uploadID string) error {
	f.LastDeleteID = uploadID
	return f.DeleteUploadErr
}

func (f *fakeClient) BulkDeleteUploads(ctx context.Context, uploadIDs []string) error {
	f.LastBulkIDs = uploadIDs
	return f.BulkDeleteErr
}

func (f *fakeClient) DownloadReport(ctx context.Context, uploadID string) ([]byte, error) {
	return f.ReportRet, f.ReportErr
}

func (f *fakeClient) DownloadAllData(ctx context.Context) ([]byte, error) {
	return f.AllDataRet, f.AllDataErr
}

func (f *fakeClient) DeleteAllData(ctx context.Context) error { return f.DeleteAllDataErr }
