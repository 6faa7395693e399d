package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fgeck/duplicity-front/internal/config"
	"github.com/fgeck/duplicity-front/internal/models"
	"github.com/fgeck/duplicity-front/internal/services/duplicity"
	"github.com/fgeck/duplicity-front/internal/services/lock"
	"github.com/fgeck/duplicity-front/internal/services/orchestrator"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup REPOSITORY",
	Short: "Back up a repository and its sub-repositories",
	Long: `Back up a repository. Repositories listing sub-repositories back up each
of them in order. After a successful backup the configured retention
actions run in this order: remove_older_than, remove-all-inc-of-but-n-full,
remove-all-but-n-full.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(models.OpBackup, args[0], func(ctx context.Context, svc orchestrator.Service) error {
			return svc.Backup(ctx, args[0], models.BackupOptions{GlobalOptions: globalOptions()})
		})
	},
}

var verifyOpts models.VerifyOptions

var verifyCmd = &cobra.Command{
	Use:   "verify REPOSITORY",
	Short: "Verify the backups of a repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(models.OpVerify, args[0], func(ctx context.Context, svc orchestrator.Service) error {
			opts := verifyOpts
			opts.GlobalOptions = globalOptions()
			return svc.Verify(ctx, args[0], opts)
		})
	},
}

var collectionStatusOpts models.CollectionStatusOptions

var collectionStatusCmd = &cobra.Command{
	Use:   "collection-status REPOSITORY",
	Short: "Show the backup chains of a repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(models.OpCollectionStatus, args[0], func(ctx context.Context, svc orchestrator.Service) error {
			opts := collectionStatusOpts
			opts.GlobalOptions = globalOptions()
			return svc.CollectionStatus(ctx, args[0], opts)
		})
	},
}

var listCurrentFilesOpts models.ListCurrentFilesOptions

var listCurrentFilesCmd = &cobra.Command{
	Use:   "list-current-files REPOSITORY",
	Short: "List the files contained in the latest backup of a repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(models.OpListCurrentFiles, args[0], func(ctx context.Context, svc orchestrator.Service) error {
			opts := listCurrentFilesOpts
			opts.GlobalOptions = globalOptions()
			return svc.ListCurrentFiles(ctx, args[0], opts)
		})
	},
}

var cleanupOpts models.CleanupOptions

var cleanupCmd = &cobra.Command{
	Use:   "cleanup REPOSITORY",
	Short: "Delete extraneous files from the remote of a repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(models.OpCleanup, args[0], func(ctx context.Context, svc orchestrator.Service) error {
			opts := cleanupOpts
			opts.GlobalOptions = globalOptions()
			return svc.Cleanup(ctx, args[0], opts)
		})
	},
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyOpts.CompareData, "compare-data", false, "compare file data as well as metadata")
	verifyCmd.Flags().StringVarP(&verifyOpts.Time, "time", "t", "", "verify the backup as of this time")
	verifyCmd.Flags().StringVar(&verifyOpts.FileToRestore, "file-to-restore", "", "only verify this path")

	collectionStatusCmd.Flags().StringVar(&collectionStatusOpts.FileChanged, "file-changed", "", "list the backups in which this file changed")

	listCurrentFilesCmd.Flags().StringVarP(&listCurrentFilesOpts.Time, "time", "t", "", "list the files as of this time")

	cleanupCmd.Flags().BoolVar(&cleanupOpts.Force, "force", false, "actually delete the files")
	cleanupCmd.Flags().BoolVar(&cleanupOpts.ExtraClean, "extra-clean", false, "also delete old signature files")
}

func globalOptions() models.GlobalOptions {
	return models.GlobalOptions{DryRun: settings.DryRun}
}

// runOperation loads the configuration, takes the run lock and runs fn
// with a context cancelled on SIGINT or SIGTERM.
func runOperation(op models.Operation, name string, fn func(ctx context.Context, svc orchestrator.Service) error) error {
	configPath, err := config.ExpandPath(settings.ConfigFile)
	if err != nil {
		logger.Error().Err(err).Str("file", settings.ConfigFile).Msg("failed to resolve config path")
		return err
	}

	store, err := config.NewParser(logger).LoadFile(configPath)
	if err != nil {
		logger.Error().Err(err).Str("file", configPath).Msg("failed to load config")
		return err
	}

	logger.Info().
		Str("config", configPath).
		Int("repositories", store.Len()).
		Msg("configuration loaded")

	duplicitySvc, err := duplicity.New(settings.Binary, settings.SudoCommand)
	if err != nil {
		logger.Error().Err(err).Msg("invalid sudo command")
		return err
	}

	if !settings.NoLock {
		lockFile := settings.LockFile
		if lockFile == "" {
			lockFile = lock.PathFor(configPath)
		} else if lockFile, err = config.ExpandPath(lockFile); err != nil {
			return err
		}

		release, err := lock.New(logger).Acquire(lockFile)
		if err != nil {
			logger.Error().Err(err).Msg("failed to acquire lock")
			return err
		}
		defer release()
	}

	// Set up context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Warn().Str("signal", sig.String()).Msg("received signal, stopping after the current step")
			cancel()
		case <-ctx.Done():
		}
	}()

	svc := orchestrator.New(logger, store, duplicitySvc)
	if err := fn(ctx, svc); err != nil {
		logger.Error().Err(err).Str("operation", string(op)).Str("repository", name).Msg("operation failed")
		return err
	}

	return nil
}
