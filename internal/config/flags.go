package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/lifeos/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path of the local database file
//	-s string   digest scheme for new passwords ("legacy" or "argon2")
//	-b string   directory for export backups
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path of the local database file")
	fs.StringVar(&cfg.DigestScheme, "s", cfg.DigestScheme, "digest scheme for new passwords")
	fs.StringVar(&cfg.BackupDir, "b", cfg.BackupDir, "directory for export backups")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
