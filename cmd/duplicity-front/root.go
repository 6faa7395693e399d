package main

import (
	"os"
	"strings"

	"github.com/fgeck/duplicity-front/internal/config"
	"github.com/fgeck/duplicity-front/internal/models"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"

	settings models.Settings
	logger   = zerolog.New(os.Stderr)
)

var rootCmd = &cobra.Command{
	Use:   "duplicity-front",
	Short: "A front end to the duplicity backup utility",
	Long: `duplicity-front is a front end to the duplicity backup utility, providing
support for pre-configured repositories and making routine tasks easier.

Repositories are defined in a YAML file. Each one either backs up a source
to a remote with the duplicity options given for it, or lists other
repositories to run in order. The file is checked before anything runs, but
it is always advisable to first use --dry-run to make sure nothing
unexpected happens.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	Version:           Version,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringP(config.KeyConfig, "c", models.DefaultConfigFile, "configuration file")
	f.CountP(config.KeyVerbose, "v", "increase verbosity (repeatable)")
	f.BoolP(config.KeyQuiet, "q", false, "only report errors")
	f.Bool(config.KeyJSON, false, "output logs in JSON format")
	f.BoolP(config.KeyDryRun, "n", false, "pass --dry-run to every duplicity command")
	f.String(config.KeyBinary, models.DefaultBinary, "duplicity executable")
	f.String(config.KeySudoCommand, models.DefaultSudoCommand, "privilege wrapper for repositories with sudo set")
	f.String(config.KeyLockFile, "", "lock file (default <config>.lock)")
	f.Bool(config.KeyNoLock, false, "do not take the run lock")

	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(collectionStatusCmd)
	rootCmd.AddCommand(listCurrentFilesCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	v := config.NewSettings()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	settings = config.LoadSettings(v)

	logger = newLogger(settings)

	if err := config.Validate(settings); err != nil {
		logger.Error().Err(err).Msg("invalid settings")
		return err
	}
	return nil
}

func newLogger(s models.Settings) zerolog.Logger {
	var l zerolog.Logger
	if s.JSON {
		l = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
		output.FormatLevel = func(i interface{}) string {
			if s, ok := i.(string); ok {
				return strings.ToUpper(s)
			}
			return ""
		}
		l = zerolog.New(output).With().Timestamp().Logger()
	}

	return l.Level(logLevel(s))
}

func logLevel(s models.Settings) zerolog.Level {
	switch {
	case s.Quiet:
		return zerolog.ErrorLevel
	case s.Verbosity >= 2:
		return zerolog.DebugLevel
	case s.Verbosity == 1:
		return zerolog.InfoLevel
	default:
		return zerolog.WarnLevel
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
