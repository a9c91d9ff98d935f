package filesystem

import (
	"fmt"

	"github.com/brettbedarf/filetree"
	"github.com/brettbedarf/filetree/config"
	"github.com/brettbedarf/filetree/fpath"
	"github.com/brettbedarf/filetree/internal/util"
)

// Operation names used in errors and audit diagnostics
const (
	OpInit        = "init"
	OpDestroy     = "destroy"
	OpInsertDir   = "insert_dir"
	OpInsertFile  = "insert_file"
	OpRemoveDir   = "remove_dir"
	OpRemoveFile  = "remove_file"
	OpStat        = "stat"
	OpGetContents = "get_contents"
	OpReplace     = "replace_contents"
	OpSerialize   = "serialize"
	OpAttr        = "attr"
)

// Tree is a file tree: a single depth-1 root directory and everything below it.
// A Tree starts uninitialized; see [Tree.Init].
//
// NOTE: Tree is not safe for concurrent use. Callers sharing one must
// serialize access themselves (see server.Namespace).
type Tree struct {
	cfg         *config.Config
	arena       *Arena
	auditor     Auditor
	initialized bool
	root        NodeID // NoNode when empty
	count       int    // nodes reachable from root
}

// Option customizes a Tree at construction
type Option func(t *Tree)

// WithAuditor replaces the default [Checker].
func WithAuditor(a Auditor) Option {
	return func(t *Tree) {
		t.auditor = a
	}
}

// NewTree returns an uninitialized Tree. cfg may be nil for defaults.
func NewTree(cfg *config.Config, opts ...Option) *Tree {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	arena := NewArena(cfg.MaxNodes, cfg.ChildCapacity)
	t := &Tree{
		cfg:     cfg,
		arena:   arena,
		auditor: NewChecker(arena),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var _ filetree.TreeOperator = (*Tree)(nil)

// Init moves the tree into the initialized, empty state.
// Fails with ErrInitialization if it already is initialized.
func (t *Tree) Init() error {
	t.audit(OpInit)
	defer t.audit(OpInit)

	if t.initialized {
		return filetree.NewPathError(OpInit, "", filetree.ErrInitialization)
	}
	t.initialized = true
	t.root = NoNode
	t.count = 0
	return nil
}

// Destroy frees every node and returns the tree to the uninitialized state.
// Fails with ErrInitialization if the tree is not initialized.
func (t *Tree) Destroy() error {
	logger := util.GetLogger("Tree.Destroy")
	t.audit(OpDestroy)
	defer t.audit(OpDestroy)

	if !t.initialized {
		return filetree.NewPathError(OpDestroy, "", filetree.ErrInitialization)
	}
	if root := t.arena.Get(t.root); root != nil {
		freed := t.arena.Free(root)
		t.count -= freed
		logger.Debug().Int("freed", freed).Msg("Destroyed tree")
	}
	t.root = NoNode
	t.initialized = false
	return nil
}

// IsInitialized reports the lifecycle state.
func (t *Tree) IsInitialized() bool {
	return t.initialized
}

// Count returns the number of nodes in the tree.
func (t *Tree) Count() int {
	return t.count
}

// Root returns a snapshot of the root directory, if any.
func (t *Tree) Root() (filetree.NodeInfo, bool) {
	if root := t.arena.Get(t.root); root != nil {
		return root.Info(), true
	}
	return filetree.NodeInfo{}, false
}

// InsertDir creates the directory at path along with any missing ancestors.
// Fails with:
//   - ErrInitialization if the tree is not initialized
//   - ErrBadPath if path is malformed
//   - ErrConflictingPath if path is not under the existing root
//   - ErrNotADirectory if an existing ancestor is a file
//   - ErrAlreadyInTree if path already exists
//   - ErrMemory if a node could not be allocated
//
// On failure no node created by the call is left in the tree.
func (t *Tree) InsertDir(path string) error {
	t.audit(OpInsertDir)
	defer t.audit(OpInsertDir)
	return t.insert(OpInsertDir, path, false, nil)
}

// InsertFile creates a file holding content at path along with any missing
// ancestor directories. Fails like InsertDir, and additionally with
// ErrConflictingPath if path has depth 1 since a file cannot be the root.
// Ownership of content transfers to the tree.
func (t *Tree) InsertFile(path string, content []byte) error {
	t.audit(OpInsertFile)
	defer t.audit(OpInsertFile)
	return t.insert(OpInsertFile, path, true, content)
}

func (t *Tree) insert(op, path string, isFile bool, content []byte) error {
	logger := util.GetLogger("Tree.Insert")

	if !t.initialized {
		return filetree.NewPathError(op, path, filetree.ErrInitialization)
	}
	p, err := fpath.Parse(path)
	if err != nil {
		return filetree.NewPathError(op, path, err)
	}

	// find the closest ancestor of p already in the tree
	cur, err := t.traverse(p)
	if err != nil {
		return filetree.NewPathError(op, path, err)
	}
	if cur == nil && t.root != NoNode {
		return filetree.NewPathError(op, path, filetree.ErrConflictingPath)
	}
	if isFile && p.Depth() == 1 {
		return filetree.NewPathError(op, path, filetree.ErrConflictingPath)
	}

	level := 1
	if cur != nil {
		if cur.path.Equal(p) {
			return filetree.NewPathError(op, path, filetree.ErrAlreadyInTree)
		}
		level = cur.path.Depth() + 1
	}

	// build the rest of the path one level at a time
	var firstNew *Node
	created := 0
	for ; level <= p.Depth(); level++ {
		prefix, err := p.Prefix(level)
		if err == nil {
			var n *Node
			if isFile && level == p.Depth() {
				n, err = t.arena.NewFile(prefix, cur, content)
			} else {
				n, err = t.arena.NewDir(prefix, cur)
			}
			if err == nil {
				t.auditNode(op, n)
				if firstNew == nil {
					firstNew = n
				}
				created++
				cur = n
				continue
			}
		}

		if firstNew != nil {
			rolledBack := t.arena.Free(firstNew)
			logger.Debug().Str("path", path).Int("rolledBack", rolledBack).Msg("Rolled back partial insert")
		}
		logger.Debug().Err(err).Str("path", path).Int("level", level).Msg("Insert failed")
		return filetree.NewPathError(op, path, err)
	}

	if t.root == NoNode {
		t.root = firstNew.id
	}
	t.count += created
	logger.Debug().Str("op", op).Str("path", path).Int("created", created).Int("count", t.count).Msg("Inserted")
	return nil
}

// RemoveDir removes the directory at path and everything below it.
// Fails with ErrInitialization, ErrBadPath, ErrConflictingPath, ErrNoSuchPath,
// or ErrNotADirectory if path is a file.
func (t *Tree) RemoveDir(path string) error {
	t.audit(OpRemoveDir)
	defer t.audit(OpRemoveDir)
	return t.remove(OpRemoveDir, path, true)
}

// RemoveFile removes the file at path. Fails like RemoveDir, with ErrNotAFile
// if path is a directory.
func (t *Tree) RemoveFile(path string) error {
	t.audit(OpRemoveFile)
	defer t.audit(OpRemoveFile)
	return t.remove(OpRemoveFile, path, false)
}

func (t *Tree) remove(op, path string, wantDir bool) error {
	logger := util.GetLogger("Tree.Remove")

	n, err := t.findNode(op, path)
	if err != nil {
		return err
	}
	if isDir := n.IsDir(); isDir != wantDir {
		if wantDir {
			return filetree.NewPathError(op, path, filetree.ErrNotADirectory)
		}
		return filetree.NewPathError(op, path, filetree.ErrNotAFile)
	}

	freed := t.arena.Free(n)
	t.count -= freed
	if t.count == 0 {
		t.root = NoNode
	}
	logger.Debug().Str("op", op).Str("path", path).Int("freed", freed).Int("count", t.count).Msg("Removed")
	return nil
}

// ContainsDir reports whether path is a directory in the tree. Any lookup
// failure, including a malformed path or an uninitialized tree, yields false.
func (t *Tree) ContainsDir(path string) bool {
	n, err := t.findNode(OpStat, path)
	return err == nil && n.IsDir()
}

// ContainsFile reports whether path is a file in the tree. Any lookup
// failure yields false.
func (t *Tree) ContainsFile(path string) bool {
	n, err := t.findNode(OpStat, path)
	return err == nil && !n.IsDir()
}

// Stat reports whether path is a file and, if so, its content length.
func (t *Tree) Stat(path string) (isFile bool, size uint64, err error) {
	n, err := t.findNode(OpStat, path)
	if err != nil {
		return false, 0, err
	}
	return !n.IsDir(), n.Size(), nil
}

// Info returns a snapshot of the node at path.
func (t *Tree) Info(path string) (filetree.NodeInfo, error) {
	n, err := t.findNode(OpStat, path)
	if err != nil {
		return filetree.NodeInfo{}, err
	}
	return n.Info(), nil
}

// GetFileContents returns the content buffer of the file at path. The buffer
// is still owned by the tree. Fails with ErrNotAFile for directories.
func (t *Tree) GetFileContents(path string) ([]byte, error) {
	n, err := t.findNode(OpGetContents, path)
	if err != nil {
		return nil, err
	}
	if n.IsDir() {
		return nil, filetree.NewPathError(OpGetContents, path, filetree.ErrNotAFile)
	}
	return n.Contents(), nil
}

// ReplaceFileContents installs content in the file at path and returns the
// previous buffer, whose ownership passes to the caller.
// Fails with ErrNotAFile for directories.
func (t *Tree) ReplaceFileContents(path string, content []byte) ([]byte, error) {
	t.audit(OpReplace)
	defer t.audit(OpReplace)

	n, err := t.findNode(OpReplace, path)
	if err != nil {
		return nil, err
	}
	if n.IsDir() {
		return nil, filetree.NewPathError(OpReplace, path, filetree.ErrNotAFile)
	}
	old := n.SetContents(content)
	n.mtime = t.arena.now()
	return old, nil
}

// traverse walks from the root as far as possible towards p and returns the
// deepest node reached: p itself, one of its ancestors, or nil if the tree is
// empty. Returns ErrConflictingPath if the root is not p's first component.
func (t *Tree) traverse(p fpath.Path) (*Node, error) {
	root := t.arena.Get(t.root)
	if root == nil {
		return nil, nil
	}
	prefix, err := p.Prefix(1)
	if err != nil {
		return nil, err
	}
	if !root.path.Equal(prefix) {
		return nil, filetree.ErrConflictingPath
	}

	cur := root
	for depth := 2; depth <= p.Depth(); depth++ {
		prefix, err := p.Prefix(depth)
		if err != nil {
			return nil, err
		}
		found, idx := t.arena.HasChild(cur, prefix)
		if !found {
			// as far as we can go
			break
		}
		child, err := t.arena.Child(cur, idx)
		if err != nil {
			return nil, err
		}
		cur = child
	}
	return cur, nil
}

// findNode resolves path to the node with exactly that path.
func (t *Tree) findNode(op, path string) (*Node, error) {
	if !t.initialized {
		return nil, filetree.NewPathError(op, path, filetree.ErrInitialization)
	}
	p, err := fpath.Parse(path)
	if err != nil {
		return nil, filetree.NewPathError(op, path, err)
	}
	n, err := t.traverse(p)
	if err != nil {
		return nil, filetree.NewPathError(op, path, err)
	}
	if n == nil || !n.path.Equal(p) {
		return nil, filetree.NewPathError(op, path, filetree.ErrNoSuchPath)
	}
	return n, nil
}

// Check runs the auditor over the whole tree regardless of the audit mode and
// reports whether every invariant holds.
func (t *Tree) Check() bool {
	return t.auditor.TreeIsValid(t.initialized, t.root, t.count)
}

// audit runs the tree-wide check according to the configured [config.AuditMode].
func (t *Tree) audit(op string) {
	if t.cfg.Audit == config.AuditOff {
		return
	}
	if !t.auditor.TreeIsValid(t.initialized, t.root, t.count) {
		t.auditFailed(op, "")
	}
}

func (t *Tree) auditNode(op string, n *Node) {
	if t.cfg.Audit == config.AuditOff {
		return
	}
	if !t.auditor.NodeIsValid(n) {
		t.auditFailed(op, n.path.String())
	}
}

func (t *Tree) auditFailed(op, path string) {
	logger := util.GetLogger("Tree.Audit")
	logger.Error().Str("op", op).Str("path", path).Int("count", t.count).Msg("Tree invariant violated")
	if t.cfg.Audit == config.AuditPanic {
		panic(fmt.Sprintf("filesystem: tree invariant violated during %s", op))
	}
}
