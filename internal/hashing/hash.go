package hashing

import (
	"crypto/sha1"
	"encoding/binary"
)

// Hash32 maps a string to a ring position in [0, 2^32).
// It is pure and unseeded: the same input yields the same position
// across processes and restarts.
func Hash32(s string) uint32 {
	sum := sha1.Sum([]byte(s))
	return binary.BigEndian.Uint32(sum[:4])
}
