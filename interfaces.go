package filetree

// TreeOperator is the public operation surface of a file tree.
// Implementations are not required to be safe for concurrent use.
type TreeOperator interface {
	Init() error
	Destroy() error

	InsertDir(path string) error
	// InsertFile creates path and any missing ancestor directories.
	// Ownership of content transfers to the tree.
	InsertFile(path string, content []byte) error
	RemoveDir(path string) error
	RemoveFile(path string) error

	ContainsDir(path string) bool
	ContainsFile(path string) bool
	Stat(path string) (isFile bool, size uint64, err error)
	GetFileContents(path string) ([]byte, error)
	// ReplaceFileContents installs content and hands the previous buffer back to the caller.
	ReplaceFileContents(path string, content []byte) ([]byte, error)

	// Serialize lists every path, one per line, in pre-order with each
	// directory's files before its subdirectories.
	Serialize() (string, error)
}
