// Package orchestrator runs duplicity operations over repository trees.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fgeck/duplicity-front/internal/models"
	"github.com/fgeck/duplicity-front/internal/services/duplicity"
	"github.com/fgeck/duplicity-front/internal/services/process"
	"github.com/rs/zerolog"
)

// Service defines the interface for the operations that can be run
// against a repository and, through its sub-repositories, all of its
// descendants.
type Service interface {
	Backup(ctx context.Context, name string, opts models.BackupOptions) error
	Verify(ctx context.Context, name string, opts models.VerifyOptions) error
	CollectionStatus(ctx context.Context, name string, opts models.CollectionStatusOptions) error
	ListCurrentFiles(ctx context.Context, name string, opts models.ListCurrentFilesOptions) error
	Cleanup(ctx context.Context, name string, opts models.CleanupOptions) error
}

// Store resolves repository names.
type Store interface {
	Lookup(name string) (*models.Repository, error)
}

// Impl implements the orchestrator Service interface.
type Impl struct {
	store        Store
	duplicitySvc duplicity.Service
	processSvc   process.Service
	logger       zerolog.Logger
}

// New creates a new orchestrator running commands as real subprocesses.
func New(logger zerolog.Logger, store Store, duplicitySvc duplicity.Service) *Impl {
	return &Impl{
		store:        store,
		duplicitySvc: duplicitySvc,
		processSvc:   process.New(logger),
		logger:       logger,
	}
}

// NewWithServices creates a new orchestrator with custom services (for testing).
func NewWithServices(
	logger zerolog.Logger,
	store Store,
	duplicitySvc duplicity.Service,
	processSvc process.Service,
) *Impl {
	return &Impl{
		store:        store,
		duplicitySvc: duplicitySvc,
		processSvc:   processSvc,
		logger:       logger,
	}
}

// leafFunc builds the commands of one operation for a leaf repository.
type leafFunc func(repo *models.Repository) ([]models.Command, error)

func single(cmd models.Command, err error) ([]models.Command, error) {
	if err != nil {
		return nil, err
	}
	return []models.Command{cmd}, nil
}

// Backup backs up the named repository tree. Retention commands of a leaf
// run only after its backup succeeded.
func (s *Impl) Backup(ctx context.Context, name string, opts models.BackupOptions) error {
	return s.run(ctx, models.OpBackup, name, opts.DryRun, func(repo *models.Repository) ([]models.Command, error) {
		return s.duplicitySvc.Backup(repo, opts)
	})
}

// Verify verifies the named repository tree.
func (s *Impl) Verify(ctx context.Context, name string, opts models.VerifyOptions) error {
	return s.run(ctx, models.OpVerify, name, opts.DryRun, func(repo *models.Repository) ([]models.Command, error) {
		return single(s.duplicitySvc.Verify(repo, opts))
	})
}

// CollectionStatus prints the collection status of the named repository tree.
func (s *Impl) CollectionStatus(ctx context.Context, name string, opts models.CollectionStatusOptions) error {
	return s.run(ctx, models.OpCollectionStatus, name, opts.DryRun, func(repo *models.Repository) ([]models.Command, error) {
		return single(s.duplicitySvc.CollectionStatus(repo, opts))
	})
}

// ListCurrentFiles lists the backed up files of the named repository tree.
func (s *Impl) ListCurrentFiles(ctx context.Context, name string, opts models.ListCurrentFilesOptions) error {
	return s.run(ctx, models.OpListCurrentFiles, name, opts.DryRun, func(repo *models.Repository) ([]models.Command, error) {
		return single(s.duplicitySvc.ListCurrentFiles(repo, opts))
	})
}

// Cleanup cleans up the named repository tree.
func (s *Impl) Cleanup(ctx context.Context, name string, opts models.CleanupOptions) error {
	return s.run(ctx, models.OpCleanup, name, opts.DryRun, func(repo *models.Repository) ([]models.Command, error) {
		return single(s.duplicitySvc.Cleanup(repo, opts))
	})
}

func (s *Impl) run(ctx context.Context, op models.Operation, name string, dryRun bool, leaf leafFunc) error {
	startTime := time.Now()

	s.logger.Info().
		Str("operation", string(op)).
		Str("repository", name).
		Bool("dry_run", dryRun).
		Msg("starting operation")

	if err := s.walk(ctx, op, name, nil, leaf); err != nil {
		return err
	}

	s.logger.Info().
		Str("operation", string(op)).
		Str("repository", name).
		Dur("duration", time.Since(startTime)).
		Msg("operation completed successfully")

	return nil
}

// walk visits name and its sub-repositories depth first, in declared
// order, and stops at the first error. parents holds the names on the
// path from the top-level repository.
func (s *Impl) walk(ctx context.Context, op models.Operation, name string, parents []string, leaf leafFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, parent := range parents {
		if parent == name {
			return fmt.Errorf("%w: sub-repository cycle detected: %s -> %s",
				models.ErrConfigInvariant, strings.Join(parents, " -> "), name)
		}
	}

	repo, err := s.store.Lookup(name)
	if err != nil {
		return err
	}

	path := append(parents[:len(parents):len(parents)], name)
	for _, child := range repo.SubRepositories {
		if err := s.walk(ctx, op, child, path, leaf); err != nil {
			return err
		}
	}

	if !repo.IsLeaf() {
		return nil
	}

	cmds, err := leaf(repo)
	if err != nil {
		return fmt.Errorf("%s of repository %s failed: %w", op, name, err)
	}

	for i, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.logger.Debug().
			Str("operation", string(op)).
			Str("repository", name).
			Int("step", i+1).
			Int("steps", len(cmds)).
			Msg("running step")

		if err := s.processSvc.Run(ctx, cmd); err != nil {
			return fmt.Errorf("%s of repository %s failed: %w", op, name, err)
		}
	}

	s.logger.Info().
		Str("operation", string(op)).
		Str("repository", name).
		Msg("repository done")

	return nil
}
