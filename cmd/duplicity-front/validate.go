package main

import (
	"fmt"

	"github.com/fgeck/duplicity-front/internal/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long:  `Validate the configuration file without running duplicity.`,
	Args:  cobra.NoArgs,
	RunE:  validateConfig,
}

func validateConfig(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid!")
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), repositoryTable(store))
	return nil
}

func loadStore() (*config.Store, error) {
	store, err := config.NewParser(logger).LoadFile(settings.ConfigFile)
	if err != nil {
		logger.Error().Err(err).Str("file", settings.ConfigFile).Msg("failed to load config")
		return nil, err
	}
	return store, nil
}
