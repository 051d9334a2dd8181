// Package auth implements local credential management for the dashboard:
// account registration, login with client-wide lockout throttling, and
// password changes. All state lives in the injected key-value device; every
// operation re-reads it, so independent Store values never share hidden
// state.
package auth

import "time"

// Account is one registered user. The JSON shape is compatible with the
// legacy lifeos_users records: the digest is stored under "password" and
// accounts without a "hashVersion" field are treated as version 1.
type Account struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Digest      string    `json:"password"`
	HashVersion int       `json:"hashVersion,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// lockoutState tracks consecutive failed logins for the whole client.
// LockUntil is unix milliseconds; zero means not locked.
type lockoutState struct {
	Attempts  int   `json:"attempts"`
	LockUntil int64 `json:"lockUntil,omitempty"`
}
