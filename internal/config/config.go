package config

import (
	"fmt"
	"strings"

	"hashring/internal/ring"
)

// Experiment holds the parameters of one rebalancing experiment.
type Experiment struct {
	Keys          int
	InitialNodes  int
	VNodesPerNode int
	AddNodeID     string
	RemoveNodeID  string
	Seed          int64
}

// Validate checks the experiment parameters.
func (e *Experiment) Validate() error {
	if e.Keys <= 0 {
		return fmt.Errorf("keys must be > 0, got %d", e.Keys)
	}
	if e.InitialNodes <= 0 {
		return fmt.Errorf("initial nodes must be > 0, got %d", e.InitialNodes)
	}
	if e.VNodesPerNode <= 0 {
		return fmt.Errorf("vnodes per node must be > 0, got %d", e.VNodesPerNode)
	}
	if strings.TrimSpace(e.AddNodeID) == "" {
		return fmt.Errorf("node ID to add cannot be empty")
	}
	return nil
}

// InitialNodeIDs returns the generated identifiers node_0 .. node_{n-1}.
func (e *Experiment) InitialNodeIDs() []string {
	ids := make([]string, e.InitialNodes)
	for i := range ids {
		ids[i] = fmt.Sprintf("node_%d", i)
	}
	return ids
}

// ParseNodeIDs parses a comma-separated list of node identifiers, e.g.
// "cache-a,cache-b,cache-c". Blank entries are skipped; duplicates are an
// error since the ring rejects them anyway.
func ParseNodeIDs(idsStr string) ([]string, error) {
	if idsStr == "" {
		return []string{}, nil
	}

	parts := strings.Split(idsStr, ",")
	ids := make([]string, 0, len(parts))
	seen := make(map[string]bool)

	for _, part := range parts {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate node ID: %s", id)
		}
		seen[id] = true
		ids = append(ids, id)
	}

	return ids, nil
}

// BuildRingNodes converts node identifiers into ring.Node values.
func BuildRingNodes(ids []string) []ring.Node {
	nodes := make([]ring.Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, ring.Node{ID: id})
	}
	return nodes
}
