package ring

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"hashring/internal/hashing"
)

var (
	// ErrInvalidConfiguration is returned by New for a non-positive
	// virtual-node count.
	ErrInvalidConfiguration = errors.New("invalid ring configuration")
	// ErrDuplicateNode is returned by AddNode when the identifier is
	// already a member.
	ErrDuplicateNode = errors.New("node already in ring")
	// ErrNodeNotFound is returned by RemoveNode for an unknown identifier.
	ErrNodeNotFound = errors.New("node not in ring")
	// ErrEmptyRing is returned by Lookup when no virtual nodes exist.
	ErrEmptyRing = errors.New("ring is empty")
)

// Node represents a physical node in the cluster. In real systems the ID
// could be a host:port or a node UUID.
type Node struct {
	ID string
}

// vnode is one ring placement of a physical node.
type vnode struct {
	node    Node
	replica int
}

// ringKey is the string hashed to place this virtual node.
func (v vnode) ringKey() string {
	return fmt.Sprintf("%s#vn%d", v.node.ID, v.replica)
}

// Ring implements consistent hashing with virtual nodes. Writers hold the
// lock exclusively for the whole mutation so the three internal indices
// always appear consistent to readers.
type Ring struct {
	mu            sync.RWMutex
	vnodesPerNode int
	index         *positionIndex
	ownedByNode   map[string][]uint32 // nodeID -> positions of its vnodes
}

// New creates a ring that expands every physical node into vnodesPerNode
// virtual nodes.
func New(vnodesPerNode int) (*Ring, error) {
	if vnodesPerNode <= 0 {
		return nil, fmt.Errorf("%w: vnodes per node must be > 0, got %d",
			ErrInvalidConfiguration, vnodesPerNode)
	}
	return &Ring{
		vnodesPerNode: vnodesPerNode,
		index:         newPositionIndex(),
		ownedByNode:   make(map[string][]uint32),
	}, nil
}

// AddNode places the node's virtual nodes on the ring.
func (r *Ring) AddNode(node Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ownedByNode[node.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, node.ID)
	}

	owned := make([]uint32, 0, r.vnodesPerNode)
	for i := 0; i < r.vnodesPerNode; i++ {
		v := vnode{node: node, replica: i}
		pos := r.place(v)
		r.index.insert(pos, v)
		owned = append(owned, pos)
	}
	r.ownedByNode[node.ID] = owned
	return nil
}

// place hashes the vnode's ring key to an unoccupied position. On the rare
// collision it re-hashes the key with an increasing attempt suffix, so the
// resolved position depends only on which positions are already occupied.
func (r *Ring) place(v vnode) uint32 {
	key := v.ringKey()
	pos := hashing.Hash32(key)
	for attempt := 1; r.index.occupied(pos); attempt++ {
		pos = hashing.Hash32(fmt.Sprintf("%s@%d", key, attempt))
	}
	return pos
}

// RemoveNode removes all of the node's virtual nodes from the ring.
func (r *Ring) RemoveNode(nodeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owned, exists := r.ownedByNode[nodeID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	for _, pos := range owned {
		r.index.removeExact(pos)
	}
	delete(r.ownedByNode, nodeID)
	return nil
}

// Lookup returns the physical node responsible for key: the owner of the
// first virtual node at or clockwise after the key's hash, wrapping past
// the top of the ring.
func (r *Ring) Lookup(key string) (Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.index.successor(hashing.Hash32(key))
	if !ok {
		return Node{}, ErrEmptyRing
	}
	return v.node, nil
}

// ListNodes returns the physical node identifiers in lexicographic order.
func (r *Ring) ListNodes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.ownedByNode))
	for id := range r.ownedByNode {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TotalVirtualNodes returns the number of occupied ring positions.
func (r *Ring) TotalVirtualNodes() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index.size()
}

// NodeCount returns the number of physical nodes.
func (r *Ring) NodeCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ownedByNode)
}

// VNodesPerNode returns the configured virtual nodes per physical node.
func (r *Ring) VNodesPerNode() int {
	return r.vnodesPerNode
}
