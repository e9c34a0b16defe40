package services

import (
	"context"
	"errors"

	"github.com/chemizer/analytics-cli/internal/client/api"
	"github.com/chemizer/analytics-cli/internal/client/models"
	"github.com/chemizer/analytics-cli/internal/client/session"
	"github.com/chemizer/analytics-cli/internal/logging"
)

// minPasswordLength mirrors the server-side rule so obviously bad input
// never leaves the client.
const minPasswordLength = 8

// ProfileService covers the account profile: fetch, partial update,
// password change and account deletion. Updates keep the session's user
// snapshot in sync.
type ProfileService struct {
	client api.Client
	sess   *session.Store
	log    logging.Logger
}

func NewProfileService(client api.Client, sess *session.Store, log logging.Logger) *ProfileService {
	return &ProfileService{client: client, sess: sess, log: log}
}

// Fetch retrieves the profile from the server and refreshes the mutable
// fields of the stored user snapshot.
func (s *ProfileService) Fetch(ctx context.Context) (*models.User, error) {
	u, err := s.client.Profile(ctx)
	if err != nil {
		return nil, err
	}

	upd := models.ProfileUpdate{
		FullName:    &u.FullName,
		DateOfBirth: &u.DateOfBirth,
		Gender:      &u.Gender,
	}
	if err := s.sess.UpdateUser(ctx, upd); err != nil {
		s.log.Warn(ctx, "failed to refresh stored user snapshot", "error", err)
	}
	return u, nil
}

// Update applies a partial profile update, merging the server's canonical
// values (falling back to the requested ones) into the session snapshot.
func (s *ProfileService) Update(ctx context.Context, upd models.ProfileUpdate) error {
	res, err := s.client.UpdateProfile(ctx, upd)
	if err != nil {
		return err
	}

	if err := s.sess.UpdateUser(ctx, upd); err != nil {
		return err
	}
	if res != nil {
		if err := s.sess.UpdateUser(ctx, *res); err != nil {
			return err
		}
	}
	return nil
}

// ChangePassword validates locally, then submits the change.
func (s *ProfileService) ChangePassword(ctx context.Context, current, next string) error {
	if current == "" || next == "" {
		return errors.New("both current and new password are required")
	}
	if len(next) < minPasswordLength {
		return errors.New("new password must be at least 8 characters")
	}
	return s.client.ChangePassword(ctx, current, next)
}

// DeleteAccount removes the account server-side and tears the local
// session down on success.
func (s *ProfileService) DeleteAccount(ctx context.Context) error {
	if err := s.client.DeleteAccount(ctx); err != nil {
		return err
	}
	return s.sess.Logout(ctx)
}
