// Package hashing provides the stable placement hash for the ring.
// Positions are 32-bit: the first four bytes of a SHA-1 digest, big-endian.
package hashing
