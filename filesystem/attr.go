package filesystem

import (
	"os"

	"github.com/hanwen/go-fuse/v2/fuse"
)

const (
	dirMode  = 0o755 | fuse.S_IFDIR
	fileMode = 0o644 | fuse.S_IFREG
	blksize  = 4096
)

// Attr returns stat-style attributes for the node at path, suitable for
// serving the tree over FUSE. Ino is the node's NodeID, so it may be reused
// after the node is removed.
func (t *Tree) Attr(path string) (fuse.Attr, error) {
	n, err := t.findNode(OpAttr, path)
	if err != nil {
		return fuse.Attr{}, err
	}
	return n.attr(), nil
}

func (n *Node) attr() fuse.Attr {
	size := n.Size()
	attr := fuse.Attr{
		Ino:   uint64(n.id),
		Size:  size,
		Nlink: 1,
		Mode:  fileMode,
		Owner: fuse.Owner{
			Uid: uint32(os.Getuid()),
			Gid: uint32(os.Getgid()),
		},
		Atime:     uint64(n.mtime.Unix()),
		Mtime:     uint64(n.mtime.Unix()),
		Ctime:     uint64(n.ctime.Unix()),
		Atimensec: uint32(n.mtime.Nanosecond()),
		Mtimensec: uint32(n.mtime.Nanosecond()),
		Ctimensec: uint32(n.ctime.Nanosecond()),
		Blksize:   blksize,
		// 512-byte units
		Blocks: (size + 511) / 512,
	}
	if n.IsDir() {
		attr.Mode = dirMode
		// "." and the parent's entry
		attr.Nlink = 2
	}
	return attr
}
