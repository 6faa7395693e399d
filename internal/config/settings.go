package config

import (
	"fmt"
	"strings"

	"github.com/fgeck/duplicity-front/internal/models"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read into Settings,
// e.g. DUPLICITY_FRONT_BINARY.
const EnvPrefix = "DUPLICITY_FRONT"

// Settings keys. Flag names match the keys.
const (
	KeyConfig      = "config"
	KeyBinary      = "binary"
	KeySudoCommand = "sudo-command"
	KeyLockFile    = "lock-file"
	KeyNoLock      = "no-lock"
	KeyDryRun      = "dry-run"
	KeyVerbose     = "verbose"
	KeyQuiet       = "quiet"
	KeyJSON        = "json"
)

// NewSettings creates a viper instance with defaults and environment
// lookup set up.
func NewSettings() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyConfig, models.DefaultConfigFile)
	v.SetDefault(KeyBinary, models.DefaultBinary)
	v.SetDefault(KeySudoCommand, models.DefaultSudoCommand)

	return v
}

// BindFlags binds every settings key that has a flag in flags.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range []string{
		KeyConfig, KeyBinary, KeySudoCommand, KeyLockFile, KeyNoLock,
		KeyDryRun, KeyVerbose, KeyQuiet, KeyJSON,
	} {
		f := flags.Lookup(key)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", key, err)
		}
	}
	return nil
}

// LoadSettings reads Settings from v.
func LoadSettings(v *viper.Viper) models.Settings {
	return models.Settings{
		ConfigFile:  v.GetString(KeyConfig),
		Binary:      v.GetString(KeyBinary),
		SudoCommand: v.GetString(KeySudoCommand),
		LockFile:    v.GetString(KeyLockFile),
		NoLock:      v.GetBool(KeyNoLock),
		DryRun:      v.GetBool(KeyDryRun),
		Verbosity:   v.GetInt(KeyVerbose),
		Quiet:       v.GetBool(KeyQuiet),
		JSON:        v.GetBool(KeyJSON),
	}
}

// Validate checks the settings.
func Validate(s models.Settings) error {
	if s.ConfigFile == "" {
		return fmt.Errorf("config file is required")
	}
	if s.Binary == "" {
		return fmt.Errorf("binary is required")
	}
	if strings.TrimSpace(s.SudoCommand) == "" {
		return fmt.Errorf("sudo command is required")
	}
	if s.Quiet && s.Verbosity > 0 {
		return fmt.Errorf("quiet and verbose cannot be combined")
	}
	return nil
}
