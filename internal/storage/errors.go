package storage

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInit Kind = iota + 1
	KindEmpty
	KindPathTraversal
	KindWrite
	KindRead
	KindDelete
)

var (
	ErrInit          = errors.New("could not initialize storage")
	ErrEmpty         = errors.New("cannot store empty file")
	ErrPathTraversal = errors.New("cannot store file with relative path outside current directory")
	ErrWrite         = errors.New("failed to store file")
	ErrRead          = errors.New("failed to read stored files")
	ErrDelete        = errors.New("failed to delete stored files")
	ErrFileNotFound  = errors.New("could not read file")
)

func (k Kind) sentinel() error {
	switch k {
	case KindInit:
		return ErrInit
	case KindEmpty:
		return ErrEmpty
	case KindPathTraversal:
		return ErrPathTraversal
	case KindWrite:
		return ErrWrite
	case KindRead:
		return ErrRead
	case KindDelete:
		return ErrDelete
	}
	return nil
}

func (k Kind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindEmpty:
		return "empty"
	case KindPathTraversal:
		return "path_traversal"
	case KindWrite:
		return "write"
	case KindRead:
		return "read"
	case KindDelete:
		return "delete"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// StorageError is returned by every Service operation except LoadAsResource.
// Filename is empty for operations that act on the whole root.
type StorageError struct {
	Kind     Kind
	Filename string
	Err      error
}

func (e *StorageError) Error() string {
	msg := "storage error"
	if s := e.Kind.sentinel(); s != nil {
		msg = s.Error()
	}
	if e.Filename != "" {
		msg += " " + e.Filename
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// FileNotFoundError is returned by LoadAsResource when a name does not
// resolve to a readable regular file under the root.
type FileNotFoundError struct {
	Filename string
	Err      error
}

func (e *FileNotFoundError) Error() string {
	msg := ErrFileNotFound.Error() + ": " + e.Filename
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FileNotFoundError) Unwrap() error { return e.Err }

func (e *FileNotFoundError) Is(target error) bool { return target == ErrFileNotFound }

// KindOf reports the Kind of the first StorageError in err's chain.
func KindOf(err error) (Kind, bool) {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}
