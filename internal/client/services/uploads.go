package services

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chemizer/analytics-cli/internal/client/api"
	"github.com/chemizer/analytics-cli/internal/client/models"
	"github.com/chemizer/analytics-cli/internal/client/repositories/localstate"
	"github.com/chemizer/analytics-cli/internal/common"
	"github.com/chemizer/analytics-cli/internal/filex"
	"github.com/chemizer/analytics-cli/internal/logging"
)

// reportsDirName is where downloaded PDF reports and data exports land,
// relative to the working directory.
const reportsDirName = "reports"

// UploadsService covers the server-owned upload records: history, detail,
// deletion, report downloads and the account-wide data operations.
type UploadsService struct {
	client api.Client
	db     *sql.DB
	log    logging.Logger
}

func NewUploadsService(client api.Client, db *sql.DB, log logging.Logger) *UploadsService {
	return &UploadsService{client: client, db: db, log: log}
}

func (s *UploadsService) repo() localstate.Repository {
	return localstate.NewSQLiteRepository(s.db)
}

// History lists the user's uploads, newest first (server ordering).
func (s *UploadsService) History(ctx context.Context) ([]models.UploadRecord, error) {
	return s.client.UploadHistory(ctx)
}

// Detail fetches the full analysis payload for one upload.
func (s *UploadsService) Detail(ctx context.Context, uploadID string) (*models.AnalysisResult, error) {
	return s.client.UploadDetail(ctx, uploadID)
}

// CurrentUploadID reads the persisted current-upload selector; "" when no
// upload has been selected yet.
func (s *UploadsService) CurrentUploadID(ctx context.Context) (string, error) {
	raw, err := s.repo().Get(ctx, common.CurrentUploadStateKey)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// SetCurrentUploadID points the results view at the given upload.
func (s *UploadsService) SetCurrentUploadID(ctx context.Context, uploadID string) error {
	return s.repo().Set(ctx, common.CurrentUploadStateKey, []byte(uploadID))
}

func (s *UploadsService) Delete(ctx context.Context, uploadID string) error {
	return s.client.DeleteUpload(ctx, uploadID)
}

func (s *UploadsService) BulkDelete(ctx context.Context, uploadIDs []string) error {
	return s.client.BulkDeleteUploads(ctx, uploadIDs)
}

// SaveReport downloads the PDF report for an upload into the reports
// directory and returns the written path.
func (s *UploadsService) SaveReport(ctx context.Context, uploadID string) (string, error) {
	data, err := s.client.DownloadReport(ctx, uploadID)
	if err != nil {
		return "", err
	}

	dir, err := filex.EnsureSubDir(reportsDirName)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, "analysis_report_"+uploadID+".pdf")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	s.log.Info(ctx, "report saved", "upload_id", uploadID, "path", path)
	return path, nil
}

// ExportAllData downloads the full account data archive and returns the
// written path.
func (s *UploadsService) ExportAllData(ctx context.Context) (string, error) {
	data, err := s.client.DownloadAllData(ctx)
	if err != nil {
		return "", err
	}

	dir, err := filex.EnsureSubDir(reportsDirName)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("data_export_%s.zip", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// DeleteAllData wipes every upload the account owns, server-side.
func (s *UploadsService) DeleteAllData(ctx context.Context) error {
	return s.client.DeleteAllData(ctx)
}
