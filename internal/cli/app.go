package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/lifeos/internal/auth"
	"github.com/dmitrijs2005/lifeos/internal/config"
	"github.com/dmitrijs2005/lifeos/internal/kvstore"
	"github.com/dmitrijs2005/lifeos/internal/logging"
	"github.com/dmitrijs2005/lifeos/internal/persist"
	"github.com/dmitrijs2005/lifeos/internal/session"
)

// App is the interactive CLI application.
type App struct {
	config  *config.Config
	session *session.Session
	data    *persist.Store
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	db      *sql.DB
}

// NewApp opens (and migrates) the local database and wires the credential
// store, persistence layer, and session.
func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	db, err := kvstore.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	app, err := newAppWith(cfg, kvstore.NewSQLiteDevice(db), os.Stdin, os.Stdout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	app.db = db
	return app, nil
}

// newAppWith builds an App over an arbitrary device and I/O streams;
// tests use it with a memory device and scripted input.
func newAppWith(cfg *config.Config, device kvstore.Device, in io.Reader, out io.Writer) (*App, error) {
	hasher, err := auth.NewHasher(cfg.DigestScheme)
	if err != nil {
		return nil, err
	}

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	creds := auth.NewStore(device,
		auth.WithHasher(hasher),
		auth.WithLogger(log),
		auth.WithLockoutPolicy(cfg.LockoutMaxAttempts, cfg.LockoutDuration),
	)
	data := persist.NewStore(device, persist.WithLogger(log))

	return &App{
		config:  cfg,
		session: session.New(creds, data, session.WithLogger(log)),
		data:    data,
		log:     log,
		reader:  bufio.NewReader(in),
		out:     out,
	}, nil
}

// Close releases the underlying database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.CurrentUser() != nil
}

func (a *App) getStatus() string {
	if u := a.session.CurrentUser(); u != nil {
		return "(" + u.Username + ")"
	}
	return ""
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to LifeOS CLI (type 'help' for commands)")

	if first, err := a.session.FirstRun(ctx); err == nil && first {
		printlnFn("No accounts yet — use 'register' to create one.")
	}

	scanner := bufio.NewScanner(a.reader)
	runREPL(ctx, a, a.getStatus, scanner)
}
