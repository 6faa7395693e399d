// Package duplicity builds duplicity command lines from repository
// definitions.
package duplicity

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fgeck/duplicity-front/internal/models"
	"github.com/mattn/go-shellwords"
)

// Service defines the interface for building duplicity commands. All
// methods expect a leaf repository.
type Service interface {
	Backup(repo *models.Repository, opts models.BackupOptions) ([]models.Command, error)
	Verify(repo *models.Repository, opts models.VerifyOptions) (models.Command, error)
	CollectionStatus(repo *models.Repository, opts models.CollectionStatusOptions) (models.Command, error)
	ListCurrentFiles(repo *models.Repository, opts models.ListCurrentFilesOptions) (models.Command, error)
	Cleanup(repo *models.Repository, opts models.CleanupOptions) (models.Command, error)
}

// Impl implements the Service interface.
type Impl struct {
	binary string
	sudo   []string
}

// New creates a duplicity command builder. sudoCommand is split like a
// shell would split it and prefixed to the binary for repositories with
// sudo set.
func New(binary, sudoCommand string) (*Impl, error) {
	parser := shellwords.NewParser()
	sudo, err := parser.Parse(sudoCommand)
	if err != nil {
		return nil, fmt.Errorf("parsing sudo command %q: %w", sudoCommand, err)
	}
	if len(sudo) == 0 {
		return nil, errors.New("sudo command must not be empty")
	}
	return &Impl{binary: binary, sudo: sudo}, nil
}

// base returns the executable, the privilege wrapper arguments and the
// environment shared by every command of a repository.
func (s *Impl) base(repo *models.Repository, opts models.GlobalOptions) models.Command {
	cmd := models.Command{Name: s.binary}

	if repo.Sudo {
		cmd.Name = s.sudo[0]
		cmd.Args = append(cmd.Args, s.sudo[1:]...)
		cmd.Args = append(cmd.Args, s.binary)
	}

	if repo.Passphrase != nil {
		cmd.Env = []string{models.PassphraseEnv + "=" + *repo.Passphrase}
	}

	if opts.DryRun {
		cmd.Args = append(cmd.Args, "--dry-run")
	}

	return cmd
}

func requireLeaf(repo *models.Repository) error {
	if !repo.IsLeaf() {
		return fmt.Errorf("%w: repository has no source and remote", models.ErrConfigInvariant)
	}
	return nil
}

// Backup returns the backup command followed by the configured retention
// commands, in the order they must run.
func (s *Impl) Backup(repo *models.Repository, opts models.BackupOptions) ([]models.Command, error) {
	if err := requireLeaf(repo); err != nil {
		return nil, err
	}
	remote := *repo.Remote

	backup := s.base(repo, opts.GlobalOptions)
	backup.Args = append(backup.Args, repo.ConstructFlags()...)
	backup.Args = append(backup.Args, *repo.Source, remote)

	cmds := []models.Command{backup}

	maintenance := func(action, value string) models.Command {
		cmd := s.base(repo, opts.GlobalOptions)
		cmd.Args = append(cmd.Args, action, value, "--force", remote)
		return cmd
	}

	if repo.RemoveOlderThan != nil {
		cmds = append(cmds, maintenance(models.ActionRemoveOlderThan, *repo.RemoveOlderThan))
	}
	if repo.RemoveAllIncOfButNFull != nil {
		cmds = append(cmds, maintenance(models.ActionRemoveAllIncOfButNFull,
			strconv.FormatUint(*repo.RemoveAllIncOfButNFull, 10)))
	}
	if repo.RemoveAllButNFull != nil {
		cmds = append(cmds, maintenance(models.ActionRemoveAllButNFull,
			strconv.FormatUint(*repo.RemoveAllButNFull, 10)))
	}

	return cmds, nil
}

// Verify returns the verify command.
func (s *Impl) Verify(repo *models.Repository, opts models.VerifyOptions) (models.Command, error) {
	if err := requireLeaf(repo); err != nil {
		return models.Command{}, err
	}

	cmd := s.base(repo, opts.GlobalOptions)
	cmd.Args = append(cmd.Args, string(models.OpVerify))
	if opts.CompareData {
		cmd.Args = append(cmd.Args, "--compare-data")
	}
	if opts.Time != "" {
		cmd.Args = append(cmd.Args, "--time", opts.Time)
	}
	if opts.FileToRestore != "" {
		cmd.Args = append(cmd.Args, "--file-to-restore", opts.FileToRestore)
	}
	cmd.Args = append(cmd.Args, *repo.Remote)

	return cmd, nil
}

// CollectionStatus returns the collection-status command.
func (s *Impl) CollectionStatus(repo *models.Repository, opts models.CollectionStatusOptions) (models.Command, error) {
	if err := requireLeaf(repo); err != nil {
		return models.Command{}, err
	}

	cmd := s.base(repo, opts.GlobalOptions)
	cmd.Args = append(cmd.Args, string(models.OpCollectionStatus))
	if opts.FileChanged != "" {
		cmd.Args = append(cmd.Args, "--file-changed", opts.FileChanged)
	}
	cmd.Args = append(cmd.Args, *repo.Remote)

	return cmd, nil
}

// ListCurrentFiles returns the list-current-files command.
func (s *Impl) ListCurrentFiles(repo *models.Repository, opts models.ListCurrentFilesOptions) (models.Command, error) {
	if err := requireLeaf(repo); err != nil {
		return models.Command{}, err
	}

	cmd := s.base(repo, opts.GlobalOptions)
	cmd.Args = append(cmd.Args, string(models.OpListCurrentFiles))
	if opts.Time != "" {
		cmd.Args = append(cmd.Args, "--time", opts.Time)
	}
	cmd.Args = append(cmd.Args, *repo.Remote)

	return cmd, nil
}

// Cleanup returns the cleanup command.
func (s *Impl) Cleanup(repo *models.Repository, opts models.CleanupOptions) (models.Command, error) {
	if err := requireLeaf(repo); err != nil {
		return models.Command{}, err
	}

	cmd := s.base(repo, opts.GlobalOptions)
	cmd.Args = append(cmd.Args, string(models.OpCleanup))
	if opts.Force {
		cmd.Args = append(cmd.Args, "--force")
	}
	if opts.ExtraClean {
		cmd.Args = append(cmd.Args, "--extra-clean")
	}
	cmd.Args = append(cmd.Args, *repo.Remote)

	return cmd, nil
}
