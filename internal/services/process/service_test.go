package process

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fgeck/duplicity-front/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestRun_Success(t *testing.T) {
	var stdout bytes.Buffer
	svc := NewWithStreams(testLogger(), strings.NewReader(""), &stdout, io.Discard)

	err := svc.Run(context.Background(), models.Command{Name: "sh", Args: []string{"-c", "echo hello"}})

	require.NoError(t, err)
	assert.Equal(t, "hello\n", stdout.String())
}

func TestRun_NonZeroExit(t *testing.T) {
	svc := NewWithStreams(testLogger(), strings.NewReader(""), io.Discard, io.Discard)

	err := svc.Run(context.Background(), models.Command{Name: "sh", Args: []string{"-c", "exit 3"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrSubprocessFailure)
	var procErr *Error
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, 3, procErr.ExitCode)
	assert.Equal(t, "sh -c exit 3", procErr.Command)
	assert.Contains(t, err.Error(), "sh -c exit 3")
}

func TestRun_SpawnFailure(t *testing.T) {
	svc := NewWithStreams(testLogger(), strings.NewReader(""), io.Discard, io.Discard)

	err := svc.Run(context.Background(), models.Command{Name: "duplicity-front-does-not-exist", Args: []string{"--version"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrSubprocessSpawn)
	assert.NotErrorIs(t, err, models.ErrSubprocessFailure)
	assert.Contains(t, err.Error(), "duplicity-front-does-not-exist --version")
}

func TestRun_EnvironmentInjected(t *testing.T) {
	var stdout bytes.Buffer
	svc := NewWithStreams(testLogger(), strings.NewReader(""), &stdout, io.Discard)

	err := svc.Run(context.Background(), models.Command{
		Name: "sh",
		Args: []string{"-c", `printf %s "$PASSPHRASE"`},
		Env:  []string{"PASSPHRASE=hunter2"},
	})

	require.NoError(t, err)
	assert.Equal(t, "hunter2", stdout.String())
}

func TestRun_PassphraseNotLogged(t *testing.T) {
	var logs bytes.Buffer
	svc := NewWithStreams(zerolog.New(&logs), strings.NewReader(""), io.Discard, io.Discard)

	err := svc.Run(context.Background(), models.Command{
		Name: "sh",
		Args: []string{"-c", "exit 1"},
		Env:  []string{"PASSPHRASE=hunter2"},
	})

	require.Error(t, err)
	assert.NotContains(t, logs.String(), "hunter2")
	assert.NotContains(t, err.Error(), "hunter2")
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout bytes.Buffer
	svc := NewWithStreams(testLogger(), strings.NewReader(""), &stdout, io.Discard)

	err := svc.Run(ctx, models.Command{Name: "sh", Args: []string{"-c", "echo ran"}})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, stdout.String())
}
