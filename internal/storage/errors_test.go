package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageError_Message(t *testing.T) {
	err := &StorageError{Kind: KindWrite, Filename: "a.txt", Err: fs.ErrPermission}
	assert.Equal(t, "failed to store file a.txt: permission denied", err.Error())

	err = &StorageError{Kind: KindRead}
	assert.Equal(t, "failed to read stored files", err.Error())
}

func TestStorageError_Matching(t *testing.T) {
	err := fmt.Errorf("upload: %w", &StorageError{Kind: KindPathTraversal, Filename: "../x"})

	assert.ErrorIs(t, err, ErrPathTraversal)
	assert.NotErrorIs(t, err, ErrEmpty)
	assert.NotErrorIs(t, err, ErrFileNotFound)

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindPathTraversal, kind)
	assert.Equal(t, "path_traversal", kind.String())

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestFileNotFoundError(t *testing.T) {
	err := &FileNotFoundError{Filename: "gone.txt", Err: fs.ErrNotExist}
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, "could not read file: gone.txt: file does not exist", err.Error())

	_, ok := KindOf(err)
	assert.False(t, ok)
}
