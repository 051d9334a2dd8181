// Package config loads runtime settings for the LifeOS CLI.
package config

import (
	"time"

	"github.com/dmitrijs2005/lifeos/internal/auth"
)

// Config holds runtime settings for the CLI.
//
// Fields:
//   - DBPath: path of the local SQLite key-value database.
//   - DigestScheme: password digest scheme for new and changed passwords,
//     "legacy" (compatible with existing stored accounts) or "argon2".
//   - BackupDir: directory (under the working directory) for export files.
//   - LockoutMaxAttempts / LockoutDuration: failed-login throttle policy.
type Config struct {
	DBPath             string
	DigestScheme       string
	BackupDir          string
	LockoutMaxAttempts int
	LockoutDuration    time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DBPath = "lifeos.db"
	c.DigestScheme = "legacy"
	c.BackupDir = "backups"
	c.LockoutMaxAttempts = auth.DefaultMaxAttempts
	c.LockoutDuration = auth.DefaultLockoutDuration
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
