package keygen

import (
	"fmt"
	"math/rand"
)

// Generate returns n keys of the form "user:<16 hex digits>" drawn from a
// PRNG seeded with seed. The same (n, seed) pair always yields the same
// keys, so before/after mappings in an experiment compare like for like.
func Generate(n int, seed int64) []string {
	rng := rand.New(rand.NewSource(seed))
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("user:%016x", rng.Uint64())
	}
	return keys
}
