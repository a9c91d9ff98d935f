// Package server hosts file trees for concurrent callers. A Namespace wraps one
// tree behind a mutex and loads manifests into it; a Registry tracks many.
package server

import (
	"sync"

	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/brettbedarf/filetree"
	"github.com/brettbedarf/filetree/config"
	"github.com/brettbedarf/filetree/filesystem"
)

// Namespace is a single file tree that is safe for concurrent use. Every
// call holds the namespace lock for its whole duration.
type Namespace struct {
	id   string
	mu   sync.Mutex
	tree *filesystem.Tree
}

// NewNamespace returns an initialized, empty namespace.
func NewNamespace(id string, cfg *config.Config, opts ...filesystem.Option) (*Namespace, error) {
	tree := filesystem.NewTree(cfg, opts...)
	if err := tree.Init(); err != nil {
		return nil, err
	}
	return &Namespace{id: id, tree: tree}, nil
}

var _ filetree.TreeOperator = (*Namespace)(nil)

func (ns *Namespace) ID() string {
	return ns.id
}

func (ns *Namespace) Init() error {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.tree.Init()
}

func (ns *Namespace) Destroy() error {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.tree.Destroy()
}

func (ns *Namespace) InsertDir(path string) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.tree.InsertDir(path)
}

func (ns *Namespace) InsertFile(path string, content []byte) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.tree.InsertFile(path, content)
}

func (ns *Namespace) RemoveDir(path string) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.tree.RemoveDir(path)
}

func (ns *Namespace) RemoveFile(path string) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.tree.RemoveFile(path)
}

func (ns *Namespace) ContainsDir(path string) bool {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.tree.ContainsDir(path)
}

func (ns *Namespace) ContainsFile(path string) bool {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.tree.ContainsFile(path)
}

func (ns *Namespace) Stat(path string) (bool, uint64, error) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.tree.Stat(path)
}

// GetFileContents returns a copy of the file's content, since the tree's own
// buffer must not escape the lock.
func (ns *Namespace) GetFileContents(path string) ([]byte, error) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	content, err := ns.tree.GetFileContents(path)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), content...), nil
}

func (ns *Namespace) ReplaceFileContents(path string, content []byte) ([]byte, error) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.tree.ReplaceFileContents(path, content)
}

func (ns *Namespace) Serialize() (string, error) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.tree.Serialize()
}

func (ns *Namespace) Count() int {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.tree.Count()
}

func (ns *Namespace) Info(path string) (filetree.NodeInfo, error) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.tree.Info(path)
}

func (ns *Namespace) List() ([]filetree.NodeInfo, error) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.tree.List()
}

func (ns *Namespace) Attr(path string) (fuse.Attr, error) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.tree.Attr(path)
}

// Check validates the whole tree; see [filesystem.Tree.Check].
func (ns *Namespace) Check() bool {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.tree.Check()
}
