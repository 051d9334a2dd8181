package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/lifeos/internal/kvstore"
	"github.com/dmitrijs2005/lifeos/internal/logging"
)

// Storage keys owned by this package. Both are intentionally unprefixed:
// the account list must be readable before any user is known, and lockout
// is a property of the whole client, not of one account.
const (
	usersKey   = "lifeos_users"
	lockoutKey = "lifeos_auth_lockout"
)

// Defaults for the failed-login throttle.
const (
	DefaultMaxAttempts     = 5
	DefaultLockoutDuration = 10 * time.Minute
)

// Store owns the registered-account list and the lockout bookkeeping.
// It re-reads the device on every call and keeps nothing in memory.
type Store struct {
	device      kvstore.Device
	hasher      Hasher
	log         logging.Logger
	now         func() time.Time
	maxAttempts int
	lockoutFor  time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithHasher selects the digest scheme used for new and changed passwords.
// Verification always follows the version of the stored digest.
func WithHasher(h Hasher) Option {
	return func(s *Store) { s.hasher = h }
}

// WithClock injects the time source, mainly so tests can step past the
// lockout window.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log logging.Logger) Option {
	return func(s *Store) { s.log = log.With("component", "auth") }
}

// WithLockoutPolicy overrides the failed-attempt threshold and lockout
// duration.
func WithLockoutPolicy(maxAttempts int, d time.Duration) Option {
	return func(s *Store) {
		s.maxAttempts = maxAttempts
		s.lockoutFor = d
	}
}

// NewStore constructs a credential store over the given device.
func NewStore(device kvstore.Device, opts ...Option) *Store {
	s := &Store{
		device:      device,
		hasher:      LegacyHasher{},
		log:         logging.Nop(),
		now:         time.Now,
		maxAttempts: DefaultMaxAttempts,
		lockoutFor:  DefaultLockoutDuration,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListAccounts returns all registered accounts in registration order.
// An absent account list reads as empty; a corrupt one is an error, since
// guessing here could shadow real accounts.
func (s *Store) ListAccounts(ctx context.Context) ([]Account, error) {
	data, err := s.device.Get(ctx, usersKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var accounts []Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("corrupt account list: %w", err)
	}
	return accounts, nil
}

func (s *Store) saveAccounts(ctx context.Context, accounts []Account) error {
	data, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("marshal account list: %w", err)
	}
	return s.device.Set(ctx, usersKey, data)
}

// Register creates a new account. Usernames are unique under
// case-insensitive comparison; the stored username keeps the case the user
// typed.
func (s *Store) Register(ctx context.Context, username, password string) (*Account, error) {
	if username == "" || password == "" {
		return nil, ErrValidation
	}

	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		if strings.EqualFold(a.Username, username) {
			return nil, ErrDuplicateUser
		}
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := Account{
		ID:          uuid.NewString(),
		Username:    username,
		Digest:      digest,
		HashVersion: s.hasher.Version(),
		CreatedAt:   s.now().UTC(),
	}

	if err := s.saveAccounts(ctx, append(accounts, account)); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "account registered", "username", username)
	return &account, nil
}

// Login authenticates a user. While the client is locked out it fails
// immediately with *LockedOutError. A wrong username or password counts as
// one failed attempt; reaching the threshold starts the lockout window.
// Success clears all lockout state.
func (s *Store) Login(ctx context.Context, username, password string) (*Account, error) {
	locked, remaining, err := s.checkLockout(ctx)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, &LockedOutError{Remaining: remaining}
	}

	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, a := range accounts {
		if strings.EqualFold(a.Username, username) {
			idx = i
			break
		}
	}

	if idx == -1 || !s.verify(password, accounts[idx]) {
		attempts, err := s.recordFailedAttempt(ctx)
		if err != nil {
			return nil, err
		}
		s.log.Warn(ctx, "login failed", "username", username, "attempts", attempts)
		return nil, &InvalidCredentialsError{Attempts: attempts}
	}

	if err := s.device.Delete(ctx, lockoutKey); err != nil {
		return nil, err
	}

	account := accounts[idx]
	if upgraded, err := s.upgradeDigest(ctx, accounts, idx, password); err != nil {
		// The login itself succeeded; a failed digest upgrade just retries
		// on a later login.
		s.log.Warn(ctx, "digest upgrade failed", "username", account.Username, "error", err)
	} else if upgraded != nil {
		account = *upgraded
	}

	s.log.Info(ctx, "login ok", "username", account.Username)
	return &account, nil
}

func (s *Store) verify(password string, account Account) bool {
	version := account.HashVersion
	if version == 0 {
		version = VersionOf(account.Digest)
	}
	return HasherFor(version).Verify(password, account.Digest)
}

// upgradeDigest re-hashes the password with the configured scheme when the
// stored digest is older, enabling staged migration without a forced reset.
func (s *Store) upgradeDigest(ctx context.Context, accounts []Account, idx int, password string) (*Account, error) {
	if VersionOf(accounts[idx].Digest) >= s.hasher.Version() {
		return nil, nil
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	accounts[idx].Digest = digest
	accounts[idx].HashVersion = s.hasher.Version()

	if err := s.saveAccounts(ctx, accounts); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "digest upgraded", "username", accounts[idx].Username, "version", s.hasher.Version())
	return &accounts[idx], nil
}

// ChangePassword replaces the digest after verifying the old password.
func (s *Store) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if newPassword == "" {
		return ErrValidation
	}

	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return err
	}

	for i, a := range accounts {
		if !strings.EqualFold(a.Username, username) {
			continue
		}
		if !s.verify(oldPassword, a) {
			return ErrWrongPassword
		}

		digest, err := s.hasher.Hash(newPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		accounts[i].Digest = digest
		accounts[i].HashVersion = s.hasher.Version()

		if err := s.saveAccounts(ctx, accounts); err != nil {
			return err
		}
		s.log.Info(ctx, "password changed", "username", a.Username)
		return nil
	}

	return ErrNotFound
}

// IsLockedOut reports whether login attempts are currently blocked.
func (s *Store) IsLockedOut(ctx context.Context) (bool, error) {
	locked, _, err := s.checkLockout(ctx)
	return locked, err
}

// LockoutRemaining returns the wait until attempts are allowed again,
// zero when not locked.
func (s *Store) LockoutRemaining(ctx context.Context) (time.Duration, error) {
	_, remaining, err := s.checkLockout(ctx)
	return remaining, err
}

// checkLockout reads the lockout state and lazily expires it: once
// lockUntil is in the past the whole record is deleted, so stale attempt
// counts never survive the window.
func (s *Store) checkLockout(ctx context.Context) (bool, time.Duration, error) {
	state, err := s.loadLockout(ctx)
	if err != nil {
		return false, 0, err
	}
	if state.LockUntil == 0 {
		return false, 0, nil
	}

	until := time.UnixMilli(state.LockUntil)
	now := s.now()
	if now.Before(until) {
		return true, until.Sub(now), nil
	}

	if err := s.device.Delete(ctx, lockoutKey); err != nil {
		return false, 0, err
	}
	return false, 0, nil
}

func (s *Store) loadLockout(ctx context.Context) (lockoutState, error) {
	var state lockoutState

	data, err := s.device.Get(ctx, lockoutKey)
	if err != nil {
		return state, err
	}
	if data == nil {
		return state, nil
	}

	if err := json.Unmarshal(data, &state); err != nil {
		// Corrupt lockout state never blocks a legitimate user; start over.
		s.log.Warn(ctx, "corrupt lockout state, resetting", "error", err)
		return lockoutState{}, nil
	}
	return state, nil
}

func (s *Store) recordFailedAttempt(ctx context.Context) (int, error) {
	state, err := s.loadLockout(ctx)
	if err != nil {
		return 0, err
	}

	state.Attempts++
	if state.Attempts >= s.maxAttempts {
		state.LockUntil = s.now().Add(s.lockoutFor).UnixMilli()
	}

	data, err := json.Marshal(state)
	if err != nil {
		return 0, fmt.Errorf("marshal lockout state: %w", err)
	}
	if err := s.device.Set(ctx, lockoutKey, data); err != nil {
		return 0, err
	}
	return state.Attempts, nil
}

// IsStorageError reports whether err originated in the storage device
// rather than in validation or authentication.
func IsStorageError(err error) bool {
	var se *kvstore.StorageError
	return errors.As(err, &se)
}
