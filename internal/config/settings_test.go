package config

import (
	"testing"

	"github.com/fgeck/duplicity-front/internal/models"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP(KeyConfig, "c", models.DefaultConfigFile, "")
	flags.BoolP(KeyDryRun, "n", false, "")
	flags.CountP(KeyVerbose, "v", "")
	flags.BoolP(KeyQuiet, "q", false, "")
	flags.Bool(KeyNoLock, false, "")
	return flags
}

func TestLoadSettings_Defaults(t *testing.T) {
	v := NewSettings()
	require.NoError(t, BindFlags(v, testFlags()))

	s := LoadSettings(v)

	assert.Equal(t, models.DefaultConfigFile, s.ConfigFile)
	assert.Equal(t, "duplicity", s.Binary)
	assert.Equal(t, "sudo --preserve-env=PASSPHRASE", s.SudoCommand)
	assert.False(t, s.DryRun)
	assert.Equal(t, 0, s.Verbosity)
}

func TestLoadSettings_Flags(t *testing.T) {
	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"-c", "/etc/df.yml", "-n", "-vv", "--no-lock"}))

	v := NewSettings()
	require.NoError(t, BindFlags(v, flags))

	s := LoadSettings(v)

	assert.Equal(t, "/etc/df.yml", s.ConfigFile)
	assert.True(t, s.DryRun)
	assert.True(t, s.NoLock)
	assert.Equal(t, 2, s.Verbosity)
}

func TestLoadSettings_Environment(t *testing.T) {
	t.Setenv("DUPLICITY_FRONT_BINARY", "/opt/duplicity/bin/duplicity")
	t.Setenv("DUPLICITY_FRONT_SUDO_COMMAND", "doas")
	t.Setenv("DUPLICITY_FRONT_LOCK_FILE", "/run/df.lock")

	v := NewSettings()
	require.NoError(t, BindFlags(v, testFlags()))

	s := LoadSettings(v)

	assert.Equal(t, "/opt/duplicity/bin/duplicity", s.Binary)
	assert.Equal(t, "doas", s.SudoCommand)
	assert.Equal(t, "/run/df.lock", s.LockFile)
}

func TestValidate(t *testing.T) {
	valid := models.Settings{ConfigFile: "x.yml", Binary: "duplicity", SudoCommand: models.DefaultSudoCommand}
	assert.NoError(t, Validate(valid))

	noConfig := valid
	noConfig.ConfigFile = ""
	assert.Error(t, Validate(noConfig))

	noBinary := valid
	noBinary.Binary = ""
	assert.Error(t, Validate(noBinary))

	noSudo := valid
	noSudo.SudoCommand = " "
	assert.Error(t, Validate(noSudo))

	loudQuiet := valid
	loudQuiet.Quiet = true
	loudQuiet.Verbosity = 1
	assert.Error(t, Validate(loudQuiet))
}
