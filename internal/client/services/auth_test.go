package services

import (
	"context"
	"testing"
	"time"

	"github.com/chemizer/analytics-cli/internal/client/api"
	"github.com/chemizer/analytics-cli/internal/client/session"
	"github.com/chemizer/analytics-cli/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, fc *fakeClient) (*AuthGateway, *session.Store) {
	t.Helper()
	db := setupDB(t)
	sess := session.New(db, testLogger())
	return NewAuthGateway(fc, sess, testLogger()), sess
}

func TestNormalizeOTP(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123456", "123456"},
		{"12a3456", "123456"},
		{" 1 2 3 4 5 6 ", "123456"},
		{"1234567890", "123456"},
		{"12-34", "1234"},
		{"abc", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeOTP(tt.in), "input %q", tt.in)
	}
}

func TestLogin_ChallengeMovesToOTPRequired(t *testing.T) {
	fc := &fakeClient{LoginRet: &api.OTPChallenge{Email: "kate@x.io", RequiresOTP: true}}
	g, _ := newGateway(t, fc)

	require.NoError(t, g.Login(context.Background(), "kate", "secret"))
	assert.Equal(t, AuthOTPRequired, g.State())
	assert.Equal(t, "kate@x.io", g.Email())
	assert.False(t, g.CanResend(), "countdown starts at login")
}

func TestLogin_ServerErrorMovesToFailed(t *testing.T) {
	fc := &fakeClient{LoginErr: &api.ServerError{Status: 401, Message: "Invalid credentials"}}
	g, _ := newGateway(t, fc)

	err := g.Login(context.Background(), "kate", "wrong")
	require.Error(t, err)
	assert.Equal(t, AuthFailed, g.State())
	assert.Equal(t, "Invalid credentials", g.LastError())
}

func TestLogin_MissingChallengeIsFailure(t *testing.T) {
	fc := &fakeClient{LoginRet: &api.OTPChallenge{RequiresOTP: false}}
	g, _ := newGateway(t, fc)

	require.Error(t, g.Login(context.Background(), "kate", "secret"))
	assert.Equal(t, AuthFailed, g.State())
}

func TestRegister_FallsBackToRequestEmail(t *testing.T) {
	fc := &fakeClient{RegisterRet: &api.OTPChallenge{Message: "check your inbox"}}
	g, _ := newGateway(t, fc)

	req := api.RegisterRequest{Username: "kate", Email: "kate@x.io", Password: "secret123"}
	require.NoError(t, g.Register(context.Background(), req))
	assert.Equal(t, AuthOTPRequired, g.State())
	assert.Equal(t, "kate@x.io", g.Email())
}

func TestVerifyOTP_RequiresPendingChallenge(t *testing.T) {
	g, _ := newGateway(t, &fakeClient{})
	require.Error(t, g.VerifyOTP(context.Background(), "123456"))
}

func TestVerifyOTP_ShortCodeRejectedLocally(t *testing.T) {
	fc := &fakeClient{LoginRet: &api.OTPChallenge{Email: "kate@x.io", RequiresOTP: true}}
	g, _ := newGateway(t, fc)
	require.NoError(t, g.Login(context.Background(), "kate", "secret"))

	err := g.VerifyOTP(context.Background(), "12345")
	require.ErrorIs(t, err, common.ErrInvalidOTP)
	assert.Equal(t, AuthOTPRequired, g.State())
	assert.Zero(t, fc.VerifyCalls, "a locally rejected code must not reach the server")
}

func TestVerifyOTP_NormalizesBeforeSending(t *testing.T) {
	fc := &fakeClient{
		LoginRet:  &api.OTPChallenge{Email: "kate@x.io", RequiresOTP: true},
		VerifyRet: &api.AuthResult{Token: "tok", Username: "kate", Email: "kate@x.io"},
	}
	g, sess := newGateway(t, fc)
	require.NoError(t, g.Login(context.Background(), "kate", "secret"))

	require.NoError(t, g.VerifyOTP(context.Background(), "12a3456"))
	assert.Equal(t, "123456", fc.LastVerifyOTP)
	assert.Equal(t, "kate@x.io", fc.LastVerifyEmail)
	assert.Equal(t, AuthAuthenticated, g.State())
	assert.Equal(t, "tok", sess.Token())
}

func TestVerifyOTP_ServerRejectionReturnsToOTPRequired(t *testing.T) {
	fc := &fakeClient{
		LoginRet:  &api.OTPChallenge{Email: "kate@x.io", RequiresOTP: true},
		VerifyErr: &api.ServerError{Status: 400, Message: "Invalid OTP"},
	}
	g, sess := newGateway(t, fc)
	require.NoError(t, g.Login(context.Background(), "kate", "secret"))

	require.Error(t, g.VerifyOTP(context.Background(), "123456"))
	assert.Equal(t, AuthOTPRequired, g.State())
	assert.Equal(t, "Invalid OTP", g.LastError())
	assert.False(t, sess.Authenticated())
}

func TestResendOTP_CountdownGating(t *testing.T) {
	fc := &fakeClient{LoginRet: &api.OTPChallenge{Email: "kate@x.io", RequiresOTP: true}}
	g, _ := newGateway(t, fc)

	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }
	require.NoError(t, g.Login(context.Background(), "kate", "secret"))

	// Too early.
	require.ErrorIs(t, g.ResendOTP(context.Background()), common.ErrResendNotReady)
	assert.Zero(t, fc.ResendCalls)
	assert.Equal(t, ResendWait, g.ResendRemaining())

	// One second before the countdown ends.
	now = now.Add(ResendWait - time.Second)
	require.ErrorIs(t, g.ResendOTP(context.Background()), common.ErrResendNotReady)
	assert.Equal(t, time.Second, g.ResendRemaining())

	// Countdown elapsed.
	now = now.Add(time.Second)
	require.NoError(t, g.ResendOTP(context.Background()))
	assert.Equal(t, 1, fc.ResendCalls)
	assert.Equal(t, "kate@x.io", fc.LastResendEmail)

	// A successful resend restarts the countdown.
	assert.False(t, g.CanResend())
}

func TestResendOTP_FailureKeepsCountdownElapsed(t *testing.T) {
	fc := &fakeClient{
		LoginRet:  &api.OTPChallenge{Email: "kate@x.io", RequiresOTP: true},
		ResendErr: &api.ServerError{Status: 500, Message: "mail backend down"},
	}
	g, _ := newGateway(t, fc)

	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }
	require.NoError(t, g.Login(context.Background(), "kate", "secret"))

	now = now.Add(ResendWait)
	require.Error(t, g.ResendOTP(context.Background()))

	// The failed attempt must not restart the timer; retry is allowed
	// immediately.
	assert.True(t, g.CanResend())
}

func TestGoogleLogin_EstablishesSessionDirectly(t *testing.T) {
	fc := &fakeClient{GoogleRet: &api.AuthResult{Token: "gtok", UserID: 3, Username: "kate"}}
	g, sess := newGateway(t, fc)

	require.NoError(t, g.GoogleLogin(context.Background(), "id-token"))
	assert.Equal(t, AuthAuthenticated, g.State())
	assert.Equal(t, "gtok", sess.Token())

	u, ok := sess.User()
	require.True(t, ok)
	assert.Equal(t, "kate", u.Username)
	assert.EqualValues(t, 3, u.ID)
}

func TestReset_ClearsAttemptState(t *testing.T) {
	fc := &fakeClient{LoginErr: &api.ServerError{Status: 401, Message: "nope"}}
	g, _ := newGateway(t, fc)

	require.Error(t, g.Login(context.Background(), "kate", "bad"))
	g.Reset()

	assert.Equal(t, AuthIdle, g.State())
	assert.Empty(t, g.Email())
	assert.Empty(t, g.LastError())
}
