package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/lifeos/internal/flagx"
	"github.com/dmitrijs2005/lifeos/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the lockout window either as a string
// like "10m" or as integer nanoseconds.
type JsonConfig struct {
	DBPath             string         `json:"db_path"`
	DigestScheme       string         `json:"digest_scheme"`
	BackupDir          string         `json:"backup_dir"`
	LockoutMaxAttempts int            `json:"lockout_max_attempts"`
	LockoutDuration    timex.Duration `json:"lockout_duration"`
}

// parseJson overlays cfg with values loaded from a JSON file. The file path
// comes from the -c/-config flags; when absent, nothing is loaded. Only
// fields present in the file override the defaults. Read or unmarshal
// errors panic, as a broken config file should stop startup.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DBPath != "" {
		cfg.DBPath = jc.DBPath
	}
	if jc.DigestScheme != "" {
		cfg.DigestScheme = jc.DigestScheme
	}
	if jc.BackupDir != "" {
		cfg.BackupDir = jc.BackupDir
	}
	if jc.LockoutMaxAttempts > 0 {
		cfg.LockoutMaxAttempts = jc.LockoutMaxAttempts
	}
	if jc.LockoutDuration.Duration > 0 {
		cfg.LockoutDuration = time.Duration(jc.LockoutDuration.Duration)
	}
}
