package filetree

import (
	"errors"

	"github.com/brettbedarf/filetree/fpath"
)

// Status sentinels. Every fallible tree operation returns one of these,
// usually wrapped in a [PathError]; test with errors.Is.
var (
	// ErrInitialization means the operation requires an init state the tree is not in.
	ErrInitialization = errors.New("initialization error")
	// ErrBadPath means the path string is malformed.
	ErrBadPath = fpath.ErrBadPath
	// ErrConflictingPath means the path is not rooted under the tree's root,
	// or a parent/child placement is inconsistent.
	ErrConflictingPath = errors.New("conflicting path")
	// ErrNoSuchPath means the lookup missed or a node was placed at the wrong depth.
	ErrNoSuchPath = errors.New("no such path")
	// ErrAlreadyInTree means the exact path is already present.
	ErrAlreadyInTree = errors.New("already in tree")
	ErrNotADirectory = errors.New("not a directory")
	ErrNotAFile      = errors.New("not a file")
	// ErrMemory means a node could not be allocated.
	ErrMemory = errors.New("memory error")
)

// PathError records the operation and path that failed.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e.Path == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// NewPathError wraps err with the failing operation and path.
// Returns nil if err is nil.
func NewPathError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &PathError{Op: op, Path: path, Err: err}
}
