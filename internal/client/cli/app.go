// Package cli is the interactive shell of the Chemizer client. It is pure
// presentation: every behavior lives in the services, and the shell only
// prompts, dispatches and prints.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/chemizer/analytics-cli/internal/client/api"
	"github.com/chemizer/analytics-cli/internal/client/config"
	"github.com/chemizer/analytics-cli/internal/client/repositories/localstate"
	"github.com/chemizer/analytics-cli/internal/client/services"
	"github.com/chemizer/analytics-cli/internal/client/session"
	"github.com/chemizer/analytics-cli/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	sess     *session.Store
	auth     *services.AuthGateway
	uploader *services.UploadOrchestrator
	uploads  *services.UploadsService
	profile  *services.ProfileService
	reader   *bufio.Reader
}

// NewApp wires the whole client together: local database, session store
// (with its startup expiry check), transport and services.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := localstate.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	sess := session.New(db, log)
	if err := sess.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	client := api.NewHTTPClient(cfg.APIBaseURL, sess, log)

	return &App{
		config:   cfg,
		log:      log,
		db:       db,
		sess:     sess,
		auth:     services.NewAuthGateway(client, sess, log),
		uploader: services.NewUploadOrchestrator(client, db, log),
		uploads:  services.NewUploadsService(client, db, log),
		profile:  services.NewProfileService(client, sess, log),
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.sess.Authenticated()
}
