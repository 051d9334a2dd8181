// Package cli provides the interactive LifeOS command-line front end.
//
// It wires configuration, the local key-value database, the credential
// store, the namespaced persistence layer, and an interactive REPL. Typical
// flow: register or log in, then manage the active user's data.
//
// Key features:
//   - Register / Login / Logout with lockout feedback
//   - Change password
//   - Export / Import the active user's data as a JSON backup
//   - Wipe the active user's namespace
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
