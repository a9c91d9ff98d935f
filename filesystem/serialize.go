package filesystem

import (
	"strings"

	"github.com/brettbedarf/filetree"
)

// walk visits every node in pre-order, listing each directory's files before
// its subdirectories. Within each group children keep their path order.
// Returning false from fn stops the walk.
func (t *Tree) walk(fn func(n *Node) bool) {
	root := t.arena.Get(t.root)
	if root == nil {
		return
	}
	var dirs, files []*Node
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			return
		}
		d, ok := n.entry.(*dirEntry)
		if !ok {
			continue
		}

		dirs, files = dirs[:0], files[:0]
		d.children.Map(func(_ int, id NodeID) {
			child := t.arena.Get(id)
			if child.IsDir() {
				dirs = append(dirs, child)
			} else {
				files = append(files, child)
			}
		})
		// pushed in reverse so they pop files first, each group in order
		for i := len(dirs) - 1; i >= 0; i-- {
			stack = append(stack, dirs[i])
		}
		for i := len(files) - 1; i >= 0; i-- {
			stack = append(stack, files[i])
		}
	}
}

// Serialize renders every path in the tree, each followed by a newline, in
// the order described on [Tree.walk]. An initialized empty tree serializes to
// the empty string.
func (t *Tree) Serialize() (string, error) {
	if !t.initialized {
		return "", filetree.NewPathError(OpSerialize, "", filetree.ErrInitialization)
	}
	var sb strings.Builder
	t.walk(func(n *Node) bool {
		sb.WriteString(n.path.String())
		sb.WriteByte('\n')
		return true
	})
	return sb.String(), nil
}

// List returns a snapshot of every node in serialization order.
func (t *Tree) List() ([]filetree.NodeInfo, error) {
	if !t.initialized {
		return nil, filetree.NewPathError(OpSerialize, "", filetree.ErrInitialization)
	}
	infos := make([]filetree.NodeInfo, 0, t.count)
	t.walk(func(n *Node) bool {
		infos = append(infos, n.Info())
		return true
	})
	return infos, nil
}
