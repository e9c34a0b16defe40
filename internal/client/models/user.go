// Package models defines the client-side data model: the authenticated user,
// upload records owned by the server, and the analysis payload returned for
// an upload.
package models

// User is the profile snapshot held for the authenticated account.
// ID, Username and Email are immutable from the client; the remaining
// fields change only through an explicit profile update.
type User struct {
	ID          int64  `json:"user_id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FullName    string `json:"full_name,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender,omitempty"`
}

// ProfileUpdate carries the mutable profile fields. Nil pointers mean
// "leave unchanged" so a partial update never clobbers existing values.
type ProfileUpdate struct {
	FullName    *string `json:"full_name,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	Gender      *string `json:"gender,omitempty"`
}

// Apply merges the non-nil fields of p into u.
func (p ProfileUpdate) Apply(u *User) {
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.DateOfBirth != nil {
		u.DateOfBirth = *p.DateOfBirth
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
}
