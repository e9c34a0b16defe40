// Package session owns the client's authentication state: the token, the
// user snapshot it belongs to, and the fixed 48-hour expiry window. One
// Store is created at the composition root and passed to everything that
// needs it; the transport reads it through the api.TokenSource interface.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/chemizer/analytics-cli/internal/client/models"
	"github.com/chemizer/analytics-cli/internal/client/repositories/localstate"
	"github.com/chemizer/analytics-cli/internal/common"
	"github.com/chemizer/analytics-cli/internal/dbx"
	"github.com/chemizer/analytics-cli/internal/logging"
)

// TTL is the fixed session lifetime from issuance. Expiry is evaluated
// only by Init at startup, never per request; a revoked token keeps being
// sent until the window closes or the user logs out.
const TTL = 48 * time.Hour

// Session is the live authentication state. An empty Token means
// unauthenticated.
type Session struct {
	Token    string      `json:"token"`
	User     models.User `json:"user"`
	IssuedAt time.Time   `json:"issued_at"`
}

// Store holds the current session and its persisted form. All access
// happens on the single REPL goroutine, so there is no locking.
type Store struct {
	db  *sql.DB
	log logging.Logger
	now func() time.Time

	cur *Session
}

func New(db *sql.DB, log logging.Logger) *Store {
	return &Store{db: db, log: log, now: time.Now}
}

func (s *Store) repo() localstate.Repository {
	return localstate.NewSQLiteRepository(s.db)
}

// Init loads the persisted session record and establishes a live session
// iff it is younger than TTL. A stale or unreadable record is deleted and
// the store stays unauthenticated. Run once at process start.
func (s *Store) Init(ctx context.Context) error {
	raw, err := s.repo().Get(ctx, common.SessionStateKey)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.log.Warn(ctx, "discarding unreadable session record", "error", err)
		return s.repo().Delete(ctx, common.SessionStateKey)
	}

	if sess.Token == "" || s.now().Sub(sess.IssuedAt) >= TTL {
		s.log.Info(ctx, "stored session expired", "issued_at", sess.IssuedAt)
		return s.repo().Delete(ctx, common.SessionStateKey)
	}

	s.cur = &sess
	return nil
}

// Login establishes a live session and persists it as a single composite
// record, so an interrupted login can never leave a half-written state.
func (s *Store) Login(ctx context.Context, token string, user models.User) error {
	sess := Session{Token: token, User: user, IssuedAt: s.now()}

	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.repo().Set(ctx, common.SessionStateKey, raw); err != nil {
		return err
	}

	s.cur = &sess
	return nil
}

// Logout clears the live session and removes the persisted record along
// with the current-upload selector in one transaction.
func (s *Store) Logout(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := localstate.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, common.SessionStateKey); err != nil {
			return err
		}
		return repo.Delete(ctx, common.CurrentUploadStateKey)
	})
	if err != nil {
		return err
	}

	s.cur = nil
	return nil
}

// UpdateUser merges the partial update into the current user snapshot and
// re-persists the session record. Without a session it is a silent no-op.
func (s *Store) UpdateUser(ctx context.Context, upd models.ProfileUpdate) error {
	if s.cur == nil {
		return nil
	}

	upd.Apply(&s.cur.User)

	raw, err := json.Marshal(*s.cur)
	if err != nil {
		return err
	}
	return s.repo().Set(ctx, common.SessionStateKey, raw)
}

// Token implements api.TokenSource. Empty when unauthenticated.
func (s *Store) Token() string {
	if s.cur == nil {
		return ""
	}
	return s.cur.Token
}

// User returns the current user snapshot and whether a session exists.
func (s *Store) User() (models.User, bool) {
	if s.cur == nil {
		return models.User{}, false
	}
	return s.cur.User, true
}

func (s *Store) Authenticated() bool {
	return s.cur != nil && s.cur.Token != ""
}
