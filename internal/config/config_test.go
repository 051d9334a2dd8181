package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"lifeos"}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func TestLoadConfig_Defaults(t *testing.T) {
	withArgs(t)

	cfg := LoadConfig()
	assert.Equal(t, "lifeos.db", cfg.DBPath)
	assert.Equal(t, "legacy", cfg.DigestScheme)
	assert.Equal(t, "backups", cfg.BackupDir)
	assert.Equal(t, 5, cfg.LockoutMaxAttempts)
	assert.Equal(t, 10*time.Minute, cfg.LockoutDuration)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	withArgs(t, "-d", "/tmp/alt.db", "-s", "argon2", "-b", "exports")

	cfg := LoadConfig()
	assert.Equal(t, "/tmp/alt.db", cfg.DBPath)
	assert.Equal(t, "argon2", cfg.DigestScheme)
	assert.Equal(t, "exports", cfg.BackupDir)
}

func TestLoadConfig_JsonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"db_path": "/data/lifeos.db",
		"digest_scheme": "argon2",
		"lockout_max_attempts": 3,
		"lockout_duration": "5m"
	}`), 0o600))

	withArgs(t, "-c", path)

	cfg := LoadConfig()
	assert.Equal(t, "/data/lifeos.db", cfg.DBPath)
	assert.Equal(t, "argon2", cfg.DigestScheme)
	assert.Equal(t, "backups", cfg.BackupDir, "fields absent from the file keep their defaults")
	assert.Equal(t, 3, cfg.LockoutMaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.LockoutDuration)
}

func TestLoadConfig_FlagsOverrideJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"db_path": "/data/from-json.db"}`), 0o600))

	withArgs(t, "-c", path, "-d", "/data/from-flag.db")

	cfg := LoadConfig()
	assert.Equal(t, "/data/from-flag.db", cfg.DBPath)
}

func TestLoadConfig_MissingJsonFilePanics(t *testing.T) {
	withArgs(t, "-c", "/does/not/exist.json")

	assert.Panics(t, func() { LoadConfig() })
}
