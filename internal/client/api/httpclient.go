package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/chemizer/analytics-cli/internal/client/models"
	"github.com/chemizer/analytics-cli/internal/common"
	"github.com/chemizer/analytics-cli/internal/logging"
	"github.com/google/uuid"
)

// HTTPClient implements Client against the JSON-over-HTTP Chemizer API.
// No request timeout is imposed here; request duration is bounded by the
// underlying transport's defaults and the caller's context.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	tokens  TokenSource
	log     logging.Logger
}

// NewHTTPClient builds a client rooted at baseURL (e.g.
// "http://127.0.0.1:8000/api"). tokens may be nil for unauthenticated use.
func NewHTTPClient(baseURL string, tokens TokenSource, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{},
		tokens:  tokens,
		log:     log,
	}
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(common.RequestIDHeader, uuid.NewString())
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", common.TokenScheme+" "+tok)
		}
	}
	return req, nil
}

// doJSON sends an optional JSON body and decodes a JSON response into out
// (skipped when out is nil). Non-2xx responses are flattened into a
// ServerError.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Error(ctx, "request failed", "method", method, "path", path, "error", err)
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.serverError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ParseError{Err: err}
	}
	return nil
}

// serverError converts a non-2xx body into a ServerError via the
// flattening rules. A body that is not JSON at all is reported like a
// transport failure, matching how the UI has always presented it.
func (c *HTTPClient) serverError(status int, body []byte) error {
	msg, ok := flattenErrorBody(body)
	if !ok {
		return &TransportError{Err: fmt.Errorf("http status %d with unparseable body", status)}
	}
	return &ServerError{Status: status, Message: msg}
}

// download issues a GET and returns the raw payload. A non-2xx status or a
// zero-byte 2xx body is a failure distinct from transport failure.
func (c *HTTPClient) download(ctx context.Context, path string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Error(ctx, "download failed", "path", path, "error", err)
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if msg, ok := flattenErrorBody(data); ok {
			return nil, &ServerError{Status: resp.StatusCode, Message: msg}
		}
		return nil, &ServerError{Status: resp.StatusCode, Message: fmt.Sprintf("download failed with status %d", resp.StatusCode)}
	}

	if len(data) == 0 {
		return nil, ErrEmptyDownload
	}
	return data, nil
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*OTPChallenge, error) {
	var out OTPChallenge
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*OTPChallenge, error) {
	in := map[string]string{"username": username, "password": password}
	var out OTPChallenge
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, email, otp string) (*AuthResult, error) {
	in := map[string]string{"email": email, "otp": otp}
	var out AuthResult
	if err := c.doJSON(ctx, http.MethodPost, "/auth/verify-otp/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ResendOTP(ctx context.Context, email string) error {
	in := map[string]string{"email": email}
	return c.doJSON(ctx, http.MethodPost, "/auth/resend-otp/", in, nil)
}

func (c *HTTPClient) GoogleLogin(ctx context.Context, idToken string) (*AuthResult, error) {
	in := map[string]string{"token": idToken}
	var out AuthResult
	if err := c.doJSON(ctx, http.MethodPost, "/auth/google/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/profile/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.ProfileUpdate, error) {
	var out struct {
		Message string               `json:"message"`
		Data    models.ProfileUpdate `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPut, "/auth/profile/update/", upd, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, current, next string) error {
	in := map[string]string{"current_password": current, "new_password": next}
	return c.doJSON(ctx, http.MethodPost, "/auth/change-password/", in, nil)
}

func (c *HTTPClient) DeleteAccount(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/auth/profile/delete/", nil, nil)
}

// UploadFile posts the file as multipart form data. While the body streams
// out, progress (when non-nil) receives floor(sent/total*100) for every
// write. Cancel ctx to abort the transfer.
func (c *HTTPClient) UploadFile(ctx context.Context, filename string, r io.Reader, progress func(percent int)) (*models.AnalysisResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	total := int64(buf.Len())
	body := &progressReader{r: &buf, total: total, report: progress}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/upload/", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.ContentLength = total

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Error(ctx, "upload failed", "filename", filename, "error", err)
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.serverError(resp.StatusCode, data)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &result, nil
}

func (c *HTTPClient) UploadHistory(ctx context.Context) ([]models.UploadRecord, error) {
	var out struct {
		Uploads []models.UploadRecord `json:"uploads"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/auth/uploads/history/", nil, &out); err != nil {
		return nil, err
	}
	return out.Uploads, nil
}

func (c *HTTPClient) UploadDetail(ctx context.Context, uploadID string) (*models.AnalysisResult, error) {
	var out models.AnalysisResult
	if err := c.doJSON(ctx, http.MethodGet, "/auth/uploads/"+uploadID+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteUpload(ctx context.Context, uploadID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/auth/uploads/"+uploadID+"/delete/", nil, nil)
}

func (c *HTTPClient) BulkDeleteUploads(ctx context.Context, uploadIDs []string) error {
	in := map[string][]string{"upload_ids": uploadIDs}
	return c.doJSON(ctx, http.MethodPost, "/auth/uploads/bulk-delete/", in, nil)
}

func (c *HTTPClient) DownloadReport(ctx context.Context, uploadID string) ([]byte, error) {
	return c.download(ctx, "/reports/download/"+uploadID+"/")
}

func (c *HTTPClient) DownloadAllData(ctx context.Context) ([]byte, error) {
	return c.download(ctx, "/auth/data/download-all/")
}

func (c *HTTPClient) DeleteAllData(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/data/delete-all/", nil, nil)
}

// progressReader counts bytes handed to the HTTP transport and reports
// whole-percent progress. With an unknown total it stays silent.
type progressReader struct {
	r      io.Reader
	total  int64
	sent   int64
	report func(percent int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		if p.total > 0 && p.report != nil {
			p.report(int(p.sent * 100 / p.total))
		}
	}
	return n, err
}
