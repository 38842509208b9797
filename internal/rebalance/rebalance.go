package rebalance

import (
	"errors"
	"fmt"
	"math"

	"hashring/internal/ring"
)

// ErrKeySetMismatch is returned by MovedKeyStats when the two mappings do
// not cover the same keys.
var ErrKeySetMismatch = errors.New("key sets differ")

// MovedStats summarizes key movement between two topologies.
type MovedStats struct {
	Moved   int
	Total   int
	Percent float64
}

// Stats summarizes per-node key counts for one mapping.
type Stats struct {
	Nodes    int
	Keys     int
	Mean     float64
	Variance float64
	Stdev    float64
	Min      int
	Max      int
}

// MapKeys resolves every key against the ring and returns key -> node ID.
// Duplicate input keys collapse into one entry. Fails without a partial
// result if the ring is empty.
func MapKeys(r *ring.Ring, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		node, err := r.Lookup(key)
		if err != nil {
			return nil, fmt.Errorf("map key %q: %w", key, err)
		}
		out[key] = node.ID
	}
	return out, nil
}

// MovedKeyStats counts the keys whose owner differs between two mappings
// over the same key set.
func MovedKeyStats(before, after map[string]string) (MovedStats, error) {
	if len(before) != len(after) {
		return MovedStats{}, fmt.Errorf("%w: %d keys before, %d after",
			ErrKeySetMismatch, len(before), len(after))
	}

	moved := 0
	for key, owner := range before {
		afterOwner, ok := after[key]
		if !ok {
			return MovedStats{}, fmt.Errorf("%w: key %q absent from after mapping",
				ErrKeySetMismatch, key)
		}
		if owner != afterOwner {
			moved++
		}
	}

	stats := MovedStats{Moved: moved, Total: len(before)}
	if stats.Total > 0 {
		stats.Percent = float64(moved) / float64(stats.Total) * 100
	}
	return stats, nil
}

// DistributionStats computes load statistics over the per-node key counts
// of a key -> node mapping. An empty mapping yields the zero Stats.
func DistributionStats(mapping map[string]string) Stats {
	counts := make(map[string]int)
	for _, nodeID := range mapping {
		counts[nodeID]++
	}
	if len(counts) == 0 {
		return Stats{}
	}

	stats := Stats{Nodes: len(counts)}
	first := true
	for _, count := range counts {
		stats.Keys += count
		if first || count < stats.Min {
			stats.Min = count
		}
		if count > stats.Max {
			stats.Max = count
		}
		first = false
	}

	n := float64(stats.Nodes)
	stats.Mean = float64(stats.Keys) / n
	var sumSq float64
	for _, count := range counts {
		d := float64(count) - stats.Mean
		sumSq += d * d
	}
	// Population variance: the per-node counts are the whole population,
	// not a sample.
	stats.Variance = sumSq / n
	stats.Stdev = math.Sqrt(stats.Variance)
	return stats
}

// ExpectedMoveFractionOnAdd returns the theoretical fraction of keys moved
// when the ring grows to totalNodesAfterAdd nodes: 1/n, or 0 for n <= 0.
func ExpectedMoveFractionOnAdd(totalNodesAfterAdd int) float64 {
	if totalNodesAfterAdd <= 0 {
		return 0
	}
	return 1 / float64(totalNodesAfterAdd)
}
