// Package process runs external commands to completion.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/fgeck/duplicity-front/internal/models"
	"github.com/rs/zerolog"
)

// Service defines the interface for running one external command.
type Service interface {
	Run(ctx context.Context, cmd models.Command) error
}

// Error reports a command that could not be started or did not exit
// cleanly.
type Error struct {
	Command  string
	ExitCode int // -1 when the process did not exit normally
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("running %q: %v", e.Command, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Impl implements the Service interface. Standard streams are passed
// through so that duplicity and sudo can interact with the user.
type Impl struct {
	logger zerolog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// New creates a new process runner attached to the standard streams.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		logger: logger,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// NewWithStreams creates a process runner with custom streams (for testing).
func NewWithStreams(logger zerolog.Logger, stdin io.Reader, stdout, stderr io.Writer) *Impl {
	return &Impl{
		logger: logger,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
}

// Run starts cmd and waits for it to exit. The context is only consulted
// before the process starts; a started process always runs to completion.
func (s *Impl) Run(ctx context.Context, cmd models.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.Info().Str("command", cmd.String()).Msg("running command")

	c := exec.Command(cmd.Name, cmd.Args...) //nolint:gosec // command is built from the user's configuration
	c.Env = append(os.Environ(), cmd.Env...)
	c.Stdin = s.stdin
	c.Stdout = s.stdout
	c.Stderr = s.stderr

	start := time.Now()
	if err := c.Start(); err != nil {
		return &Error{
			Command:  cmd.String(),
			ExitCode: -1,
			Err:      fmt.Errorf("%w: %w", models.ErrSubprocessSpawn, err),
		}
	}

	if err := c.Wait(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return &Error{
			Command:  cmd.String(),
			ExitCode: exitCode,
			Err:      fmt.Errorf("%w: %w", models.ErrSubprocessFailure, err),
		}
	}

	s.logger.Debug().
		Str("command", cmd.String()).
		Dur("duration", time.Since(start)).
		Msg("command completed")

	return nil
}
