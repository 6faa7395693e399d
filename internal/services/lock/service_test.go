package lock

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestAcquire(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "duplicity-front.lock")
	svc := New(testLogger())

	release, err := svc.Acquire(path)
	require.NoError(t, err)

	_, err = svc.Acquire(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "another duplicity-front instance")

	release()

	release, err = svc.Acquire(path)
	require.NoError(t, err)
	release()
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, "/etc/duplicity-front.yml.lock", PathFor("/etc/duplicity-front.yml"))
}
