// Package models contains the data structures used throughout duplicity-front.
package models

// PassphraseEnv is the environment variable duplicity reads the
// passphrase from.
const PassphraseEnv = "PASSPHRASE"

// Defaults for Settings.
const (
	DefaultConfigFile  = "~/.config/duplicity-front.yml"
	DefaultBinary      = "duplicity"
	DefaultSudoCommand = "sudo --preserve-env=" + PassphraseEnv
)

// Settings holds the program settings gathered from flags and the
// environment. Repositories live in the configuration file itself.
type Settings struct {
	ConfigFile  string
	Binary      string // external tool, "duplicity" unless overridden
	SudoCommand string // privilege wrapper used for repositories with sudo set
	LockFile    string // empty means <ConfigFile>.lock
	NoLock      bool
	DryRun      bool
	Verbosity   int
	Quiet       bool
	JSON        bool
}
