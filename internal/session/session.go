// Package session ties the credential store and the namespaced persistence
// layer together: a successful login activates the matching namespace, and
// the very first registration adopts any pre-existing unprefixed data.
// This is the surface the UI feature modules consume.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lifeos/internal/auth"
	"github.com/dmitrijs2005/lifeos/internal/logging"
	"github.com/dmitrijs2005/lifeos/internal/persist"
)

// Session holds the authenticated user in memory only; there is no
// persisted session token, so a restart always returns to the login
// prompt.
type Session struct {
	creds   *auth.Store
	data    *persist.Store
	log     logging.Logger
	current *auth.Account
}

// Option configures a Session.
type Option func(*Session)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log logging.Logger) Option {
	return func(s *Session) { s.log = log.With("component", "session") }
}

// New wires a Session over its two collaborators.
func New(creds *auth.Store, data *persist.Store, opts ...Option) *Session {
	s := &Session{
		creds: creds,
		data:  data,
		log:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FirstRun reports whether no account has ever been registered.
func (s *Session) FirstRun(ctx context.Context) (bool, error) {
	accounts, err := s.creds.ListAccounts(ctx)
	if err != nil {
		return false, err
	}
	return len(accounts) == 0, nil
}

// Register creates an account. When it is the very first account ever, the
// unprefixed legacy keys are copied into the new user's namespace — a
// one-time upgrade of a pre-auth single-user deployment. The account is
// created even if that copy fails; the error is returned alongside it.
func (s *Session) Register(ctx context.Context, username, password string) (*auth.Account, error) {
	first, err := s.FirstRun(ctx)
	if err != nil {
		return nil, err
	}

	account, err := s.creds.Register(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if first {
		if err := s.data.MigrateLegacyData(ctx, account.Username); err != nil {
			return account, fmt.Errorf("migrate legacy data: %w", err)
		}
	}
	return account, nil
}

// Login authenticates and, on success, activates the user's namespace so
// all subsequent persistence calls read and write their data.
func (s *Session) Login(ctx context.Context, username, password string) (*auth.Account, error) {
	account, err := s.creds.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	s.current = account
	s.data.SetActiveUser(account.Username)
	return account, nil
}

// Logout clears the in-memory user and deactivates the namespace.
func (s *Session) Logout() {
	if s.current != nil {
		s.log.Info(context.Background(), "logout", "username", s.current.Username)
	}
	s.current = nil
	s.data.SetActiveUser("")
}

// CurrentUser returns the authenticated account, nil when logged out.
func (s *Session) CurrentUser() *auth.Account { return s.current }

// ChangePassword delegates to the credential store.
func (s *Session) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	return s.creds.ChangePassword(ctx, username, oldPassword, newPassword)
}

// IsLockedOut reports whether login attempts are currently blocked.
func (s *Session) IsLockedOut(ctx context.Context) (bool, error) {
	return s.creds.IsLockedOut(ctx)
}

// LockoutRemaining returns the wait until login attempts are allowed
// again, zero when not locked.
func (s *Session) LockoutRemaining(ctx context.Context) (time.Duration, error) {
	return s.creds.LockoutRemaining(ctx)
}
