package ring

import (
	"fmt"
	"sort"
)

// positionIndex is the ordered view of the occupied ring positions together
// with the virtual node at each position. The sorted slice and the map key
// set always hold exactly the same positions.
type positionIndex struct {
	positions []uint32
	vnodeAt   map[uint32]vnode
}

func newPositionIndex() *positionIndex {
	return &positionIndex{vnodeAt: make(map[uint32]vnode)}
}

func (ix *positionIndex) occupied(pos uint32) bool {
	_, ok := ix.vnodeAt[pos]
	return ok
}

// insert places v at pos, keeping the position slice ascending.
// The caller must have verified pos is unoccupied.
func (ix *positionIndex) insert(pos uint32, v vnode) {
	i := sort.Search(len(ix.positions), func(i int) bool {
		return ix.positions[i] >= pos
	})
	ix.positions = append(ix.positions, 0)
	copy(ix.positions[i+1:], ix.positions[i:])
	ix.positions[i] = pos
	ix.vnodeAt[pos] = v
}

// removeExact deletes pos from the slice and the map. The position comes
// from the per-node reverse index, so it must be present; a miss means the
// ring invariants are broken and there is nothing sensible to return.
func (ix *positionIndex) removeExact(pos uint32) {
	i := sort.Search(len(ix.positions), func(i int) bool {
		return ix.positions[i] >= pos
	})
	if i >= len(ix.positions) || ix.positions[i] != pos {
		panic(fmt.Sprintf("ring: position %d missing from sorted index", pos))
	}
	ix.positions = append(ix.positions[:i], ix.positions[i+1:]...)
	delete(ix.vnodeAt, pos)
}

// successor returns the virtual node at the first occupied position >= h,
// wrapping to the smallest position when h is past the last one.
// ok is false only when the index is empty.
func (ix *positionIndex) successor(h uint32) (vnode, bool) {
	if len(ix.positions) == 0 {
		return vnode{}, false
	}
	i := sort.Search(len(ix.positions), func(i int) bool {
		return ix.positions[i] >= h
	})
	if i == len(ix.positions) {
		i = 0
	}
	return ix.vnodeAt[ix.positions[i]], true
}

func (ix *positionIndex) size() int {
	return len(ix.positions)
}
