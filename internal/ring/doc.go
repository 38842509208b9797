// Package ring implements a consistent hashing ring with virtual nodes.
// It maps string keys to physical nodes so that adding or removing a node
// only remaps a small, bounded fraction of keys.
package ring
