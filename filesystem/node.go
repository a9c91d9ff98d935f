package filesystem

import (
	"time"

	"github.com/brettbedarf/filetree"
	"github.com/brettbedarf/filetree/fpath"
	"github.com/brettbedarf/filetree/internal/dynarray"
)

// entry is the closed set of node payloads: *dirEntry or *fileEntry.
type entry interface {
	nodeType() filetree.NodeType
}

type dirEntry struct {
	children *dynarray.Array[NodeID] // sorted by child path, no duplicates
}

func (*dirEntry) nodeType() filetree.NodeType { return filetree.DirNodeType }

type fileEntry struct {
	content []byte
}

func (*fileEntry) nodeType() filetree.NodeType { return filetree.FileNodeType }

// Node is one directory or file. Nodes are created and destroyed only through
// their [Arena].
type Node struct {
	id     NodeID
	path   fpath.Path // immutable after creation
	parent NodeID     // NoNode for the root
	entry  entry
	ctime  time.Time
	mtime  time.Time
}

func (n *Node) ID() NodeID {
	return n.id
}

// Path returns the node's canonical absolute path.
func (n *Node) Path() fpath.Path {
	return n.path
}

// Parent returns the id of the enclosing directory, or NoNode for the root.
func (n *Node) Parent() NodeID {
	return n.parent
}

func (n *Node) Type() filetree.NodeType {
	return n.entry.nodeType()
}

func (n *Node) IsDir() bool {
	_, ok := n.entry.(*dirEntry)
	return ok
}

// NumChildren returns 0 for files.
func (n *Node) NumChildren() int {
	if dir, ok := n.entry.(*dirEntry); ok {
		return dir.children.Len()
	}
	return 0
}

// Size returns the content length; 0 for directories.
func (n *Node) Size() uint64 {
	if f, ok := n.entry.(*fileEntry); ok {
		return uint64(len(f.content))
	}
	return 0
}

// Contents returns the file's content buffer.
// Calling it on a directory is a programming error and panics.
func (n *Node) Contents() []byte {
	return n.file().content
}

// SetContents installs content and returns the previous buffer.
// Calling it on a directory is a programming error and panics.
func (n *Node) SetContents(content []byte) []byte {
	f := n.file()
	old := f.content
	f.content = content
	return old
}

func (n *Node) file() *fileEntry {
	f, ok := n.entry.(*fileEntry)
	if !ok {
		panic("filesystem: content access on directory " + n.path.String())
	}
	return f
}

// Info returns a detached snapshot of the node.
func (n *Node) Info() filetree.NodeInfo {
	return filetree.NodeInfo{
		ID:          uint64(n.id),
		Path:        n.path.String(),
		Type:        n.Type(),
		Size:        n.Size(),
		NumChildren: n.NumChildren(),
		Ctime:       n.ctime,
		Mtime:       n.mtime,
	}
}

// NewDir creates a directory node at p and links it under parent, which may be
// nil only when p has depth 1. Fails with:
//   - ErrMemory if the arena is full
//   - ErrConflictingPath if parent's path is not an ancestor of p
//   - ErrNoSuchPath if p is not exactly one level below parent, or parent is nil
//     and p is not of depth 1
//   - ErrNotADirectory if parent is a file
//   - ErrAlreadyInTree if parent already has a child at p
func (a *Arena) NewDir(p fpath.Path, parent *Node) (*Node, error) {
	return a.newNode(p, parent, &dirEntry{children: dynarray.New[NodeID](a.childCap)})
}

// NewFile is NewDir for a file holding content. Ownership of content transfers
// to the node.
func (a *Arena) NewFile(p fpath.Path, parent *Node, content []byte) (*Node, error) {
	return a.newNode(p, parent, &fileEntry{content: content})
}

func (a *Arena) newNode(p fpath.Path, parent *Node, e entry) (*Node, error) {
	if a.maxNodes > 0 && a.live >= a.maxNodes {
		return nil, filetree.ErrMemory
	}
	if p.IsZero() {
		return nil, filetree.ErrNoSuchPath
	}

	var (
		dir *dirEntry
		idx int
	)
	parentID := NoNode
	if parent != nil {
		parentDepth := parent.path.Depth()
		// parent must be an ancestor of the new path
		if p.SharedPrefixDepth(parent.path) < parentDepth {
			return nil, filetree.ErrConflictingPath
		}
		// and exactly one level up
		if p.Depth() != parentDepth+1 {
			return nil, filetree.ErrNoSuchPath
		}
		var ok bool
		if dir, ok = parent.entry.(*dirEntry); !ok {
			return nil, filetree.ErrNotADirectory
		}
		var found bool
		if idx, found = a.search(dir, p); found {
			return nil, filetree.ErrAlreadyInTree
		}
		parentID = parent.id
	} else if p.Depth() != 1 {
		// only the root may be parentless
		return nil, filetree.ErrNoSuchPath
	}

	now := a.now()
	n := &Node{path: p.Dup(), parent: parentID, entry: e, ctime: now, mtime: now}
	if err := a.alloc(n); err != nil {
		return nil, err
	}
	if dir != nil {
		if err := dir.children.InsertAt(idx, n.id); err != nil {
			a.release(n)
			return nil, filetree.ErrMemory
		}
	}
	return n, nil
}

// search binary searches dir's children for p.
func (a *Arena) search(dir *dirEntry, p fpath.Path) (int, bool) {
	return dir.children.Search(func(id NodeID) int {
		return a.slots[id].path.Compare(p)
	})
}

// HasChild reports whether dir has a child at p. When it does not, the index is
// where such a child would be inserted. Files have no children.
func (a *Arena) HasChild(dir *Node, p fpath.Path) (bool, int) {
	d, ok := dir.entry.(*dirEntry)
	if !ok {
		return false, 0
	}
	idx, found := a.search(d, p)
	return found, idx
}

// Child returns the i-th child of dir in path order.
func (a *Arena) Child(dir *Node, i int) (*Node, error) {
	d, ok := dir.entry.(*dirEntry)
	if !ok {
		return nil, filetree.ErrNotADirectory
	}
	if i < 0 || i >= d.children.Len() {
		return nil, filetree.ErrNoSuchPath
	}
	return a.Get(d.children.Get(i)), nil
}

// Parent returns n's enclosing directory, or nil for the root.
func (a *Arena) Parent(n *Node) *Node {
	return a.Get(n.parent)
}

// Free destroys the subtree rooted at n: it unlinks n from its parent, then
// releases every descendant before its ancestors. Returns the number of nodes
// destroyed. n and every node below it must not be used afterwards.
func (a *Arena) Free(n *Node) int {
	if parent := a.Parent(n); parent != nil {
		if d, ok := parent.entry.(*dirEntry); ok {
			if idx, found := a.search(d, n.path); found {
				_, _ = d.children.RemoveAt(idx)
			}
		}
		n.parent = NoNode
	}

	// pre-order collection; releasing it backwards frees children first
	var order []*Node
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, cur)
		if d, ok := cur.entry.(*dirEntry); ok {
			d.children.Map(func(_ int, id NodeID) {
				stack = append(stack, a.slots[id])
			})
		}
	}
	for i := len(order) - 1; i >= 0; i-- {
		a.release(order[i])
	}
	return len(order)
}
