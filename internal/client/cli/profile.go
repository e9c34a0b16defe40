package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/chemizer/analytics-cli/internal/client/models"
)

func (a *App) showProfile(ctx context.Context) {
	u, err := a.profile.Fetch(ctx)
	if err != nil {
		fmt.Println("Failed to load profile:", err.Error())
		return
	}

	fmt.Printf("Username:      %s\n", u.Username)
	fmt.Printf("Email:         %s\n", u.Email)
	fmt.Printf("Full name:     %s\n", orDash(u.FullName))
	fmt.Printf("Date of birth: %s\n", orDash(u.DateOfBirth))
	fmt.Printf("Gender:        %s\n", orDash(u.Gender))
}

// updateProfile collects the editable fields. An empty answer keeps the
// current value; only the fields the user filled in are sent.
func (a *App) updateProfile(ctx context.Context) {
	upd := models.ProfileUpdate{}

	fullName, err := getSimpleText(a.reader, "Full name (blank to keep)", os.Stdout)
	if err != nil {
		return
	}
	if fullName != "" {
		upd.FullName = &fullName
	}

	dob, err := getSimpleText(a.reader, "Date of birth YYYY-MM-DD (blank to keep)", os.Stdout)
	if err != nil {
		return
	}
	if dob != "" {
		upd.DateOfBirth = &dob
	}

	gender, err := getSimpleText(a.reader, "Gender (blank to keep)", os.Stdout)
	if err != nil {
		return
	}
	if gender != "" {
		upd.Gender = &gender
	}

	if upd.FullName == nil && upd.DateOfBirth == nil && upd.Gender == nil {
		fmt.Println("Nothing to update.")
		return
	}

	if err := a.profile.Update(ctx, upd); err != nil {
		fmt.Println("Profile update failed:", err.Error())
		return
	}
	fmt.Println("Profile updated.")
}

func (a *App) changePassword(ctx context.Context) {
	current, err := getPassword("Current password", os.Stdout)
	if err != nil {
		return
	}
	next, err := getPassword("New password", os.Stdout)
	if err != nil {
		return
	}

	if err := a.profile.ChangePassword(ctx, current, next); err != nil {
		fmt.Println("Password change failed:", err.Error())
		return
	}
	fmt.Println("Password changed.")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
