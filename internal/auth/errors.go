package auth

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrValidation is returned when a required field is empty.
	ErrValidation = errors.New("username and password are required")

	// ErrDuplicateUser is returned when the username is already registered
	// (case-insensitive match).
	ErrDuplicateUser = errors.New("username already taken")

	// ErrNotFound is returned by ChangePassword when no account matches.
	ErrNotFound = errors.New("account not found")

	// ErrWrongPassword is returned by ChangePassword when the old password
	// does not match the stored digest.
	ErrWrongPassword = errors.New("old password does not match")
)

// InvalidCredentialsError is returned by Login on a wrong username or
// password. Attempts is the consecutive failure count so far; callers show
// it to the user.
type InvalidCredentialsError struct {
	Attempts int
}

func (e *InvalidCredentialsError) Error() string {
	return fmt.Sprintf("invalid username or password (failed attempts: %d)", e.Attempts)
}

// LockedOutError is returned by Login while the client-wide lockout is in
// effect. Remaining is the wait until attempts are allowed again.
type LockedOutError struct {
	Remaining time.Duration
}

func (e *LockedOutError) Error() string {
	return fmt.Sprintf("too many failed attempts, try again in %s", e.Remaining.Round(time.Second))
}
