package filelock

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRunsUnderLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json.lock")

	ran := false
	err := With(path, func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.FileExists(t, path)

	// The lock is released, so it can be taken again.
	unlock, err := Lock(path)
	require.NoError(t, err)
	require.NoError(t, unlock())
}

func TestWithReturnsCallbackError(t *testing.T) {
	boom := errors.New("boom")
	err := With(filepath.Join(t.TempDir(), "x.lock"), func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestWithMissingParent(t *testing.T) {
	err := With(filepath.Join(t.TempDir(), "missing", "x.lock"), func() error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquiring lock")
}

func TestIsContendedNil(t *testing.T) {
	assert.False(t, IsContended(nil))
	assert.False(t, IsContended(errors.New("plain")))
}
