// Package api is the transport layer of the Chemizer client. Every outbound
// network call goes through the Client interface; nothing else in the client
// touches the wire. Responses come back either as decoded payloads or as one
// of the error types in errors.go.
package api

import (
	"context"
	"io"

	"github.com/chemizer/analytics-cli/internal/client/models"
)

// TokenSource supplies the session token injected into authenticated
// requests. An empty string means "no session" and no header is sent.
type TokenSource interface {
	Token() string
}

// RegisterRequest is the signup form posted to /auth/register/.
type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender,omitempty"`
}

// OTPChallenge is the outcome of the password step: the server has emailed
// a one-time code to Email and expects it on /auth/verify-otp/.
type OTPChallenge struct {
	Message     string `json:"message"`
	Email       string `json:"email"`
	RequiresOTP bool   `json:"requires_otp"`
}

// AuthResult is a completed authentication: a session token plus the user
// snapshot it belongs to.
type AuthResult struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Message  string `json:"message"`
}

// User converts the flat auth payload into the model snapshot.
func (r AuthResult) User() models.User {
	return models.User{
		ID:       r.UserID,
		Username: r.Username,
		Email:    r.Email,
		FullName: r.FullName,
	}
}

// Client is the single point of contact with the Chemizer API.
//
// Contract:
//   - every method returns either a decoded payload or an error from the
//     taxonomy in errors.go (TransportError, ServerError, ParseError);
//   - the session token, when available, is injected automatically;
//   - no method retries on its own.
type Client interface {
	Register(ctx context.Context, req RegisterRequest) (*OTPChallenge, error)
	Login(ctx context.Context, username, password string) (*OTPChallenge, error)
	VerifyOTP(ctx context.Context, email, otp string) (*AuthResult, error)
	ResendOTP(ctx context.Context, email string) error
	GoogleLogin(ctx context.Context, idToken string) (*AuthResult, error)

	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.ProfileUpdate, error)
	ChangePassword(ctx context.Context, current, next string) error
	DeleteAccount(ctx context.Context) error

	UploadFile(ctx context.Context, filename string, r io.Reader, progress func(percent int)) (*models.AnalysisResult, error)
	UploadHistory(ctx context.Context) ([]models.UploadRecord, error)
	UploadDetail(ctx context.Context, uploadID string) (*models.AnalysisResult, error)
	DeleteUpload(ctx context.Context, uploadID string) error
	BulkDeleteUploads(ctx context.Context, uploadIDs []string) error

	DownloadReport(ctx context.Context, uploadID string) ([]byte, error)
	DownloadAllData(ctx context.Context) ([]byte, error)
	DeleteAllData(ctx context.Context) error
}
