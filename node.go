package filetree

import "time"

// NodeType is the kind of a tree entry. Valid types are DirNodeType and FileNodeType.
type NodeType string

const (
	DirNodeType  NodeType = "dir"
	FileNodeType NodeType = "file"
)

func (t NodeType) String() string {
	switch t {
	case DirNodeType, FileNodeType:
		return string(t)
	}
	return "unknown"
}

// NodeInfo is a read-only snapshot of one node for external consumers.
// It stays valid after the node is removed.
type NodeInfo struct {
	ID          uint64
	Path        string
	Type        NodeType
	Size        uint64 // content length; 0 for directories
	NumChildren int    // 0 for files
	Ctime       time.Time
	Mtime       time.Time
}

// IsDir reports whether the node is a directory.
func (i NodeInfo) IsDir() bool {
	return i.Type == DirNodeType
}
