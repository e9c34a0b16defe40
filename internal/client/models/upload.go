package models

// Upload processing states as reported by the server. The client holds
// read-only copies; only deletion is initiated from this side.
const (
	UploadStatusPending   = "pending"
	UploadStatusCompleted = "completed"
	UploadStatusFailed    = "failed"
)

// UploadRecord is one row of the server-side upload history.
type UploadRecord struct {
	ID                  int64  `json:"id"`
	UploadID            string `json:"upload_id"`
	Filename            string `json:"filename"`
	UploadDate          string `json:"upload_date"`
	UploadDateFormatted string `json:"upload_date_formatted"`
	Rows                int64  `json:"rows"`
	FileSize            int64  `json:"file_size"`
	Status              string `json:"status"`
}
