// Package services contains the application services of the Chemizer
// client: the authentication state machine, the upload orchestrator, the
// projection of analysis payloads for display, and the upload/profile
// operations built on top of the transport client.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chemizer/analytics-cli/internal/client/api"
	"github.com/chemizer/analytics-cli/internal/client/session"
	"github.com/chemizer/analytics-cli/internal/common"
	"github.com/chemizer/analytics-cli/internal/logging"
)

// AuthState enumerates the states of the login state machine.
type AuthState int

const (
	AuthIdle AuthState = iota
	AuthCredentialsSubmitted
	AuthOTPRequired
	AuthOTPVerifying
	AuthFederatedSubmitted
	AuthAuthenticated
	AuthFailed
)

func (s AuthState) String() string {
	switch s {
	case AuthIdle:
		return "idle"
	case AuthCredentialsSubmitted:
		return "credentials-submitted"
	case AuthOTPRequired:
		return "otp-required"
	case AuthOTPVerifying:
		return "otp-verifying"
	case AuthFederatedSubmitted:
		return "federated-submitted"
	case AuthAuthenticated:
		return "authenticated"
	case AuthFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// OTPLength is the exact number of digits a one-time code must have.
const OTPLength = 6

// ResendWait is the fixed countdown between one-time-code sends.
const ResendWait = 60 * time.Second

// NormalizeOTP strips non-digit characters and truncates to OTPLength.
// Applied at the input boundary, before any validation.
func NormalizeOTP(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == OTPLength {
			break
		}
	}
	return b.String()
}

// AuthGateway drives the multi-step login protocols (password + one-time
// code, federated Google token) to a single Authenticated outcome, writing
// the resulting session into the session store.
//
// Authenticated is terminal for the gateway; from there on the session
// lifecycle belongs to session.Store. A failed attempt can always be
// retried by calling Login/GoogleLogin again.
type AuthGateway struct {
	client api.Client
	sess   *session.Store
	log    logging.Logger
	now    func() time.Time

	state    AuthState
	email    string
	lastErr  string
	lastSend time.Time
}

func NewAuthGateway(client api.Client, sess *session.Store, log logging.Logger) *AuthGateway {
	return &AuthGateway{client: client, sess: sess, log: log, now: time.Now}
}

func (g *AuthGateway) State() AuthState { return g.state }

// Email is the address the pending one-time code was sent to.
func (g *AuthGateway) Email() string { return g.email }

// LastError is the message of the most recent failure, for display.
func (g *AuthGateway) LastError() string { return g.lastErr }

// Reset returns the gateway to Idle so a fresh attempt can start.
func (g *AuthGateway) Reset() {
	g.state = AuthIdle
	g.email = ""
	g.lastErr = ""
}

func (g *AuthGateway) fail(err error) {
	g.state = AuthFailed
	g.lastErr = err.Error()
}

// Login submits username/password. On success the server has emailed a
// one-time code and the gateway moves to OTPRequired; any error moves it
// to Failed with the flattened message.
func (g *AuthGateway) Login(ctx context.Context, username, password string) error {
	g.state = AuthCredentialsSubmitted
	g.lastErr = ""

	ch, err := g.client.Login(ctx, username, password)
	if err != nil {
		g.fail(err)
		return err
	}

	if !ch.RequiresOTP || ch.Email == "" {
		err := errors.New("unexpected login response: no verification challenge")
		g.fail(err)
		return err
	}

	g.email = ch.Email
	g.lastSend = g.now()
	g.state = AuthOTPRequired
	g.log.Info(ctx, "one-time code sent", "email", ch.Email)
	return nil
}

// Register submits the signup form. A successful registration leads into
// the same one-time-code flow as a password login.
func (g *AuthGateway) Register(ctx context.Context, req api.RegisterRequest) error {
	g.state = AuthCredentialsSubmitted
	g.lastErr = ""

	ch, err := g.client.Register(ctx, req)
	if err != nil {
		g.fail(err)
		return err
	}

	g.email = ch.Email
	if g.email == "" {
		g.email = req.Email
	}
	g.lastSend = g.now()
	g.state = AuthOTPRequired
	return nil
}

// VerifyOTP checks the entered code. Anything other than exactly six
// digits after normalization is rejected locally, without a network call
// and without leaving OTPRequired. A server rejection also returns to
// OTPRequired so the user can retry or resend.
func (g *AuthGateway) VerifyOTP(ctx context.Context, code string) error {
	if g.state != AuthOTPRequired {
		return errors.New("no verification pending")
	}

	code = NormalizeOTP(code)
	if len(code) != OTPLength {
		return common.ErrInvalidOTP
	}

	g.state = AuthOTPVerifying

	res, err := g.client.VerifyOTP(ctx, g.email, code)
	if err != nil {
		g.state = AuthOTPRequired
		g.lastErr = err.Error()
		return err
	}

	if err := g.sess.Login(ctx, res.Token, res.User()); err != nil {
		g.fail(err)
		return err
	}

	g.state = AuthAuthenticated
	g.log.Info(ctx, "authenticated", "username", res.Username)
	return nil
}

// CanResend reports whether the fixed countdown since the last send has
// elapsed.
func (g *AuthGateway) CanResend() bool {
	return g.state == AuthOTPRequired && g.now().Sub(g.lastSend) >= ResendWait
}

// ResendRemaining is the time left on the countdown, zero when resend is
// available.
func (g *AuthGateway) ResendRemaining() time.Duration {
	rem := ResendWait - g.now().Sub(g.lastSend)
	if rem < 0 {
		return 0
	}
	return rem
}

// ResendOTP asks the server to email a fresh code. A successful resend
// restarts the countdown; a failed one does not.
func (g *AuthGateway) ResendOTP(ctx context.Context) error {
	if !g.CanResend() {
		return common.ErrResendNotReady
	}

	if err := g.client.ResendOTP(ctx, g.email); err != nil {
		g.lastErr = err.Error()
		return err
	}

	g.lastSend = g.now()
	return nil
}

// GoogleLogin exchanges an externally obtained Google credential for a
// session, bypassing the one-time-code step entirely.
func (g *AuthGateway) GoogleLogin(ctx context.Context, idToken string) error {
	g.state = AuthFederatedSubmitted
	g.lastErr = ""

	res, err := g.client.GoogleLogin(ctx, idToken)
	if err != nil {
		g.fail(err)
		return err
	}

	if err := g.sess.Login(ctx, res.Token, res.User()); err != nil {
		g.fail(err)
		return err
	}

	g.state = AuthAuthenticated
	g.log.Info(ctx, "authenticated via google", "username", res.Username)
	return nil
}
