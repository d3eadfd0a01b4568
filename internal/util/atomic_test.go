package util

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicCopy(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.txt")

	n, err := AtomicCopy(dst, strings.NewReader("first"), 0o600)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	n, err = AtomicCopy(dst, strings.NewReader("2nd"), 0o644)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "2nd", string(b))

	fi, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm())

	ents, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, ents, 1)
}

func TestAtomicCopy_ReadError(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(dst, []byte("keep"), 0o644))

	boom := errors.New("boom")
	_, err := AtomicCopy(dst, iotest.ErrReader(boom), 0o644)
	assert.ErrorIs(t, err, boom)

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(b))

	ents, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, ents, 1)
}

func TestAtomicCopy_MissingDir(t *testing.T) {
	_, err := AtomicCopy(filepath.Join(t.TempDir(), "nope", "out.txt"), strings.NewReader("x"), 0o644)
	assert.Error(t, err)
}

func TestIsTemp(t *testing.T) {
	assert.True(t, IsTemp(".depot-4711.tmp"))
	assert.False(t, IsTemp("depot-4711.tmp"))
	assert.False(t, IsTemp(".depot-4711"))
	assert.False(t, IsTemp("report.tmp"))
}
