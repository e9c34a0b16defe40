package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/chemizer/analytics-cli/internal/client/api"
	"github.com/chemizer/analytics-cli/internal/client/services"
	"github.com/chemizer/analytics-cli/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in
// tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// login runs the password step and, when the server answers with a
// one-time-code challenge, drops into the verification loop.
func (a *App) login(ctx context.Context) {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return
	}
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return
	}

	if err := a.auth.Login(ctx, username, password); err != nil {
		fmt.Println("Login failed:", err.Error())
		return
	}

	fmt.Printf("A verification code was sent to %s\n", a.auth.Email())
	a.otpLoop(ctx)
}

// register collects the signup form; a successful registration continues
// into the same verification loop as a login.
func (a *App) register(ctx context.Context) {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return
	}
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return
	}
	fullName, err := getSimpleText(a.reader, "Enter full name (optional)", os.Stdout)
	if err != nil {
		return
	}

	req := api.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
		FullName: fullName,
	}
	if err := a.auth.Register(ctx, req); err != nil {
		fmt.Println("Registration failed:", err.Error())
		return
	}

	fmt.Printf("A verification code was sent to %s\n", a.auth.Email())
	a.otpLoop(ctx)
}

// otpLoop prompts for the emailed code until authentication succeeds or
// the user types "back". "resend" asks for a fresh code, gated by the
// 60-second countdown.
func (a *App) otpLoop(ctx context.Context) {
	for a.auth.State() == services.AuthOTPRequired {
		input, err := getSimpleText(a.reader, "Enter 6-digit code ('resend' for a new one, 'back' to cancel)", os.Stdout)
		if err != nil {
			return
		}

		switch input {
		case "back":
			a.auth.Reset()
			return
		case "resend":
			if err := a.auth.ResendOTP(ctx); err != nil {
				if errors.Is(err, common.ErrResendNotReady) {
					fmt.Printf("Resend available in %ds\n", int(a.auth.ResendRemaining().Seconds()))
				} else {
					fmt.Println("Resend failed:", err.Error())
				}
				continue
			}
			fmt.Println("A new code is on its way.")
		default:
			if err := a.auth.VerifyOTP(ctx, input); err != nil {
				if errors.Is(err, common.ErrInvalidOTP) {
					fmt.Println(err.Error())
				} else {
					fmt.Println("Verification failed:", err.Error())
				}
				continue
			}
			if u, ok := a.sess.User(); ok {
				fmt.Printf("Welcome, %s!\n", u.Username)
			}
		}
	}
}

// googleLogin exchanges an externally obtained Google id-token.
func (a *App) googleLogin(ctx context.Context, idToken string) {
	if err := a.auth.GoogleLogin(ctx, idToken); err != nil {
		fmt.Println("Google login failed:", err.Error())
		return
	}
	if u, ok := a.sess.User(); ok {
		fmt.Printf("Welcome, %s!\n", u.Username)
	}
}

func (a *App) logout(ctx context.Context) {
	if err := a.sess.Logout(ctx); err != nil {
		fmt.Println("Logout failed:", err.Error())
		return
	}
	a.auth.Reset()
	fmt.Println("Logged out.")
}
