package filesystem

import (
	"time"

	"github.com/brettbedarf/filetree"
)

// NodeID addresses a Node slot in an [Arena]. Zero is never a live node.
type NodeID uint64

// NoNode is the absent parent/root reference
const NoNode NodeID = 0

// Arena is the slab that owns every Node of one tree. Nodes refer to each other
// by NodeID only, so a parent reference can never keep a freed subtree alive.
//
// Freed slots are recycled; a NodeID held across a mutating call may therefore
// name a different node afterwards.
type Arena struct {
	slots    []*Node  // index is the NodeID; slot 0 is reserved
	free     []NodeID // recycled slots, reused LIFO
	live     int
	maxNodes int // 0 = unlimited
	childCap int
	now      func() time.Time
}

// NewArena returns an empty arena. Allocation fails with [filetree.ErrMemory]
// once maxNodes nodes are live, unless maxNodes is 0.
func NewArena(maxNodes, childCap int) *Arena {
	return &Arena{
		slots:    make([]*Node, 1, 16),
		maxNodes: maxNodes,
		childCap: childCap,
		now:      time.Now,
	}
}

// Len returns the number of live nodes.
func (a *Arena) Len() int {
	return a.live
}

// Get returns the live node with the given id, or nil.
func (a *Arena) Get(id NodeID) *Node {
	if id == NoNode || uint64(id) >= uint64(len(a.slots)) {
		return nil
	}
	return a.slots[id]
}

func (a *Arena) alloc(n *Node) error {
	if a.maxNodes > 0 && a.live >= a.maxNodes {
		return filetree.ErrMemory
	}
	if last := len(a.free) - 1; last >= 0 {
		n.id = a.free[last]
		a.free = a.free[:last]
		a.slots[n.id] = n
	} else {
		n.id = NodeID(len(a.slots))
		a.slots = append(a.slots, n)
	}
	a.live++
	return nil
}

func (a *Arena) release(n *Node) {
	a.slots[n.id] = nil
	a.free = append(a.free, n.id)
	a.live--
	// poison the handle so stale holders fail loudly
	n.entry = nil
	n.parent = NoNode
	n.id = NoNode
}
