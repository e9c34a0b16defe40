package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/chemizer/analytics-cli/internal/client/api"
	"github.com/chemizer/analytics-cli/internal/client/models"
	"github.com/chemizer/analytics-cli/internal/client/repositories/localstate"
	"github.com/chemizer/analytics-cli/internal/common"
	"github.com/chemizer/analytics-cli/internal/logging"
)

// UploadState enumerates the states of one upload attempt.
type UploadState int

const (
	UploadIdle UploadState = iota
	UploadSelected
	UploadUploading
	UploadSucceeded
	UploadFailed
)

func (s UploadState) String() string {
	switch s {
	case UploadIdle:
		return "idle"
	case UploadSelected:
		return "selected"
	case UploadUploading:
		return "uploading"
	case UploadSucceeded:
		return "succeeded"
	case UploadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// allowedMIMETypes is the file-type allow-set checked at selection time.
var allowedMIMETypes = map[string]struct{}{
	"text/csv":                 {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
}

// MIMETypeForFile maps a filename extension to the MIME type used for
// validation. Returns "" for unknown extensions.
func MIMETypeForFile(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return "text/csv"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return ""
	}
}

// UploadPhases are the labels shown while an upload-and-analyze runs.
var UploadPhases = [...]string{
	"Uploading file...",
	"Parsing CSV data...",
	"Validating data types...",
	"Calculating statistics...",
	"Generating charts...",
	"Creating analysis...",
	"Finalizing results...",
}

// PhaseLabel picks the phase string for a percent in [0,100]:
// index = clamp(floor(percent/100 * 6), 0, 6).
func PhaseLabel(percent int) string {
	idx := percent * (len(UploadPhases) - 1) / 100
	if idx < 0 {
		idx = 0
	}
	if idx > len(UploadPhases)-1 {
		idx = len(UploadPhases) - 1
	}
	return UploadPhases[idx]
}

// successHold keeps the success state visible before the shell moves on.
const successHold = 2 * time.Second

// UploadOrchestrator drives one file through selection, validation,
// upload-with-progress and a terminal success/failure state. A second
// upload cannot start while one is in flight; there is no mid-flight
// cancellation beyond the request context.
type UploadOrchestrator struct {
	client api.Client
	db     *sql.DB
	log    logging.Logger
	sleep  func(time.Duration)

	state      UploadState
	filename   string
	percent    int
	message    string
	result     *models.AnalysisResult
	onProgress func(percent int)
}

func NewUploadOrchestrator(client api.Client, db *sql.DB, log logging.Logger) *UploadOrchestrator {
	return &UploadOrchestrator{client: client, db: db, log: log, sleep: time.Sleep}
}

func (o *UploadOrchestrator) State() UploadState { return o.state }

// Percent is the highest progress value observed for the current upload.
func (o *UploadOrchestrator) Percent() int { return o.percent }

// Message is the validation or failure text for display.
func (o *UploadOrchestrator) Message() string { return o.message }

// Result is the analysis payload of the last successful upload.
func (o *UploadOrchestrator) Result() *models.AnalysisResult { return o.result }

// SetProgressFunc installs a display hook invoked on every progress tick
// with the clamped percent. Called from the uploading goroutine.
func (o *UploadOrchestrator) SetProgressFunc(fn func(percent int)) {
	o.onProgress = fn
}

// Select validates the file type against the allow-set. A rejected file
// keeps the orchestrator Idle and never touches the network.
func (o *UploadOrchestrator) Select(filename, mimeType string) error {
	if o.state == UploadUploading {
		return common.ErrUploadInFlight
	}

	if _, ok := allowedMIMETypes[mimeType]; !ok {
		o.state = UploadIdle
		o.message = "Please select a valid CSV or Excel file"
		return fmt.Errorf("%w: %q", common.ErrInvalidFileType, mimeType)
	}

	o.state = UploadSelected
	o.filename = filename
	o.percent = 0
	o.message = ""
	return nil
}

// Upload submits the selected file. Progress ticks update the displayed
// percent; on success the upload id becomes the persisted current
// selection and the state turns Succeeded. On any failure the state turns
// Failed with a message and the percent resets to 0.
func (o *UploadOrchestrator) Upload(ctx context.Context, r io.Reader) (*models.AnalysisResult, error) {
	if o.state == UploadUploading {
		return nil, common.ErrUploadInFlight
	}
	if o.state != UploadSelected {
		return nil, errors.New("no file selected")
	}

	o.state = UploadUploading
	o.percent = 0
	o.message = ""

	res, err := o.client.UploadFile(ctx, o.filename, r, o.observeProgress)
	if err != nil {
		o.state = UploadFailed
		o.message = err.Error()
		o.percent = 0
		return nil, err
	}

	if res.UploadID != "" {
		repo := localstate.NewSQLiteRepository(o.db)
		if err := repo.Set(ctx, common.CurrentUploadStateKey, []byte(res.UploadID)); err != nil {
			o.log.Warn(ctx, "failed to persist current upload", "upload_id", res.UploadID, "error", err)
		}
	}

	o.result = res
	o.state = UploadSucceeded
	o.log.Info(ctx, "upload analyzed", "upload_id", res.UploadID, "rows", res.Rows)
	return res, nil
}

// observeProgress records a tick. Values outside [0,100] are clamped and
// a tick below the previous maximum is ignored, so an out-of-order report
// can never move the bar backwards.
func (o *UploadOrchestrator) observeProgress(p int) {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	if p > o.percent {
		o.percent = p
	}
	if o.onProgress != nil {
		o.onProgress(o.percent)
	}
}

// Hold blocks for the fixed display hold after a success, giving the user
// time to read the confirmation before the shell moves on.
func (o *UploadOrchestrator) Hold() {
	if o.state == UploadSucceeded {
		o.sleep(successHold)
	}
}

// Reset returns the orchestrator to Idle for the next file.
func (o *UploadOrchestrator) Reset() {
	if o.state == UploadUploading {
		return
	}
	o.state = UploadIdle
	o.filename = ""
	o.percent = 0
	o.message = ""
}
