package filesystem

import (
	"github.com/brettbedarf/filetree/internal/util"
)

// Auditor validates tree invariants. A Tree runs it before and after every
// mutation; a false result means the implementation is broken, not that the
// caller did something wrong.
type Auditor interface {
	NodeIsValid(n *Node) bool
	TreeIsValid(initialized bool, root NodeID, count int) bool
}

// Checker is the read-only Auditor for trees stored in an Arena. Each violation
// is reported as an error log naming the offending path(s).
type Checker struct {
	arena  *Arena
	logger util.Logger
}

func NewChecker(arena *Arena) *Checker {
	return &Checker{arena: arena, logger: util.GetLogger("Checker")}
}

// NodeIsValid checks one node's placement: it is live, and its parent (if any)
// is a directory exactly one level up that lists it as a child. Only depth-1
// nodes may be parentless.
func (c *Checker) NodeIsValid(n *Node) bool {
	if n == nil {
		c.logger.Error().Msg("A node is a nil pointer")
		return false
	}
	if n.id == NoNode || c.arena.Get(n.id) != n {
		c.logger.Error().Str("path", n.path.String()).Msg("Node is not live in the arena")
		return false
	}
	if n.entry == nil {
		c.logger.Error().Str("path", n.path.String()).Msg("Node has no payload")
		return false
	}
	depth := n.path.Depth()
	if depth == 0 {
		c.logger.Error().Uint64("id", uint64(n.id)).Msg("Node has an empty path")
		return false
	}

	if n.parent == NoNode {
		if depth != 1 {
			c.logger.Error().Str("path", n.path.String()).Msg("Parentless node is not at depth 1")
			return false
		}
		return true
	}

	parent := c.arena.Get(n.parent)
	if parent == nil {
		c.logger.Error().Str("path", n.path.String()).Uint64("parent", uint64(n.parent)).
			Msg("Parent is not live in the arena")
		return false
	}
	// parent's path must be the longest proper prefix of the node's path
	if n.path.SharedPrefixDepth(parent.path) != depth-1 || parent.path.Depth() != depth-1 {
		c.logger.Error().Str("parent", parent.path.String()).Str("child", n.path.String()).
			Msg("P-C nodes don't have P-C paths")
		return false
	}
	dir, ok := parent.entry.(*dirEntry)
	if !ok {
		c.logger.Error().Str("parent", parent.path.String()).Str("child", n.path.String()).
			Msg("Parent is a file")
		return false
	}
	idx, found := dir.children.Search(func(id NodeID) int {
		if sibling := c.arena.Get(id); sibling != nil {
			return sibling.path.Compare(n.path)
		}
		return -1
	})
	if !found || dir.children.Get(idx) != n.id {
		c.logger.Error().Str("parent", parent.path.String()).Str("child", n.path.String()).
			Msg("Parent does not list node as a child")
		return false
	}
	return true
}

// TreeIsValid checks the global invariants: lifecycle state, root placement,
// strictly sorted duplicate-free children with matching back-references, and
// that count equals both the reachable node count and the arena's live count.
func (c *Checker) TreeIsValid(initialized bool, root NodeID, count int) bool {
	if !initialized {
		if count != 0 {
			c.logger.Error().Int("count", count).Msg("Not initialized, but count is not 0")
			return false
		}
		if root != NoNode {
			c.logger.Error().Msg("Not initialized, but root is set")
			return false
		}
	}
	if root == NoNode {
		if count != 0 {
			c.logger.Error().Int("count", count).Msg("No root, but count is not 0")
			return false
		}
		return c.arenaMatches(count)
	}

	r := c.arena.Get(root)
	if r == nil {
		c.logger.Error().Uint64("root", uint64(root)).Msg("Root is not live in the arena")
		return false
	}
	if r.parent != NoNode {
		c.logger.Error().Str("root", r.path.String()).Msg("Root has a parent")
		return false
	}
	if r.path.Depth() != 1 {
		c.logger.Error().Str("root", r.path.String()).Msg("Root is not at depth 1")
		return false
	}
	if !r.IsDir() {
		c.logger.Error().Str("root", r.path.String()).Msg("Root is a file")
		return false
	}

	visited := 0
	stack := []*Node{r}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !c.NodeIsValid(n) {
			return false
		}
		visited++
		if visited > c.arena.Len() {
			c.logger.Error().Str("path", n.path.String()).Msg("Walk visited more nodes than are live; cycle in tree")
			return false
		}

		dir, ok := n.entry.(*dirEntry)
		if !ok {
			continue
		}
		var prev *Node
		for i := range dir.children.Len() {
			child := c.arena.Get(dir.children.Get(i))
			if child == nil {
				c.logger.Error().Str("parent", n.path.String()).Int("index", i).Msg("Dangling child reference")
				return false
			}
			if child.parent != n.id {
				c.logger.Error().Str("parent", n.path.String()).Str("child", child.path.String()).
					Msg("Child's parent reference does not point back")
				return false
			}
			if prev != nil {
				cmp := child.path.Compare(prev.path)
				if cmp == 0 {
					c.logger.Error().Str("path", child.path.String()).Msg("Duplicate path detected in tree")
					return false
				}
				if cmp < 0 {
					c.logger.Error().Str("prev", prev.path.String()).Str("next", child.path.String()).
						Msg("Children not in lexicographic order")
					return false
				}
			}
			prev = child
			stack = append(stack, child)
		}
	}

	if visited != count {
		c.logger.Error().Int("visited", visited).Int("count", count).Msg("Total number of nodes do not match")
		return false
	}
	return c.arenaMatches(count)
}

func (c *Checker) arenaMatches(count int) bool {
	if live := c.arena.Len(); live != count {
		c.logger.Error().Int("live", live).Int("count", count).Msg("Arena live nodes do not match count")
		return false
	}
	return true
}
