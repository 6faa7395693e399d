//go:build e2e

package e2e

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/fgeck/duplicity-front/internal/config"
	"github.com/fgeck/duplicity-front/internal/models"
	"github.com/fgeck/duplicity-front/internal/services/duplicity"
	"github.com/fgeck/duplicity-front/internal/services/orchestrator"
	"github.com/fgeck/duplicity-front/internal/services/process"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// fakeDuplicity writes a script that appends its arguments and the
// PASSPHRASE variable to a record file, one invocation per line. It exits
// with the status in FAKE_DUPLICITY_EXIT when the arguments contain
// FAKE_DUPLICITY_FAIL_ON.
func fakeDuplicity(t *testing.T) (binary, record string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script binary not supported on windows")
	}

	t.Setenv("PASSPHRASE", "")

	dir := t.TempDir()
	record = filepath.Join(dir, "record")
	binary = filepath.Join(dir, "duplicity")

	script := `#!/bin/sh
echo "PASSPHRASE=${PASSPHRASE} $*" >> "` + record + `"
case " $* " in
  *" ${FAKE_DUPLICITY_FAIL_ON:-__never__} "*) exit 23 ;;
esac
exit 0
`
	require.NoError(t, os.WriteFile(binary, []byte(script), 0o700))
	return binary, record
}

func readRecord(t *testing.T, record string) []string {
	t.Helper()
	data, err := os.ReadFile(record)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

const configYAML = `home:
  source: /home
  remote: file:///srv/backup/home
  passphrase: hunter2
  exclude:
    - /home/*/.cache
  remove_older_than: 6M
  remove_all_but_n_full: 3
etc:
  source: /etc
  remote: file:///srv/backup/etc
  no_encryption: true
everything:
  sub_repositories:
    - etc
    - home
`

func newOrchestrator(t *testing.T, binary string) *orchestrator.Impl {
	t.Helper()

	store, err := config.NewParser(testLogger()).LoadReader(strings.NewReader(configYAML))
	require.NoError(t, err)

	duplicitySvc, err := duplicity.New(binary, models.DefaultSudoCommand)
	require.NoError(t, err)

	processSvc := process.NewWithStreams(testLogger(), nil, io.Discard, io.Discard)
	return orchestrator.NewWithServices(testLogger(), store, duplicitySvc, processSvc)
}

func TestBackupGroup_E2E(t *testing.T) {
	binary, record := fakeDuplicity(t)
	svc := newOrchestrator(t, binary)

	err := svc.Backup(context.Background(), "everything", models.BackupOptions{})

	require.NoError(t, err)
	assert.Equal(t, []string{
		"PASSPHRASE= --no-encryption /etc file:///srv/backup/etc",
		"PASSPHRASE=hunter2 --exclude /home/*/.cache /home file:///srv/backup/home",
		"PASSPHRASE=hunter2 remove_older_than 6M --force file:///srv/backup/home",
		"PASSPHRASE=hunter2 remove-all-but-n-full 3 --force file:///srv/backup/home",
	}, readRecord(t, record))
}

func TestBackupDryRun_E2E(t *testing.T) {
	binary, record := fakeDuplicity(t)
	svc := newOrchestrator(t, binary)

	err := svc.Backup(context.Background(), "etc", models.BackupOptions{
		GlobalOptions: models.GlobalOptions{DryRun: true},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{
		"PASSPHRASE= --dry-run --no-encryption /etc file:///srv/backup/etc",
	}, readRecord(t, record))
}

func TestBackupFailureStopsGroup_E2E(t *testing.T) {
	binary, record := fakeDuplicity(t)
	t.Setenv("FAKE_DUPLICITY_FAIL_ON", "/etc")
	svc := newOrchestrator(t, binary)

	err := svc.Backup(context.Background(), "everything", models.BackupOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrSubprocessFailure)

	var procErr *process.Error
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, 23, procErr.ExitCode)

	assert.Len(t, readRecord(t, record), 1)
}

func TestCollectionStatus_E2E(t *testing.T) {
	binary, record := fakeDuplicity(t)
	svc := newOrchestrator(t, binary)

	err := svc.CollectionStatus(context.Background(), "everything", models.CollectionStatusOptions{})

	require.NoError(t, err)
	assert.Equal(t, []string{
		"PASSPHRASE= collection-status file:///srv/backup/etc",
		"PASSPHRASE=hunter2 collection-status file:///srv/backup/home",
	}, readRecord(t, record))
}

func TestUnknownRepository_E2E(t *testing.T) {
	binary, record := fakeDuplicity(t)
	svc := newOrchestrator(t, binary)

	err := svc.Verify(context.Background(), "nope", models.VerifyOptions{})

	assert.ErrorIs(t, err, models.ErrRepositoryNotFound)
	assert.Empty(t, readRecord(t, record))
}
