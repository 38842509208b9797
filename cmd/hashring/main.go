// Command hashring runs a rebalancing experiment: it builds a ring, maps a
// generated key sample, changes the topology, and reports how many keys
// moved against the theoretical expectation.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"hashring/internal/config"
	"hashring/internal/keygen"
	"hashring/internal/rebalance"
	"hashring/internal/ring"
)

func main() {
	var (
		numKeys  = flag.Int("keys", 200000, "number of generated keys")
		initial  = flag.Int("nodes", 5, "number of initial physical nodes (node_0..node_{n-1})")
		vnodes   = flag.Int("vnodes", 1, "virtual nodes per physical node")
		nodeList = flag.String("node-ids", "", "comma-separated initial node IDs (overrides -nodes)")
		addID    = flag.String("add", "node_new", "node ID to add during the experiment")
		removeID = flag.String("remove", "", "node ID to remove after the add (optional)")
		seed     = flag.Int64("seed", 42, "key generation seed")
		compare  = flag.Bool("compare", false, "compare distribution across vnode counts instead of add/remove")
	)
	flag.Parse()

	cfg := config.Experiment{
		Keys:          *numKeys,
		InitialNodes:  *initial,
		VNodesPerNode: *vnodes,
		AddNodeID:     *addID,
		RemoveNodeID:  *removeID,
		Seed:          *seed,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	initialIDs := cfg.InitialNodeIDs()
	if *nodeList != "" {
		ids, err := config.ParseNodeIDs(*nodeList)
		if err != nil {
			log.Fatalf("invalid -node-ids: %v", err)
		}
		if len(ids) == 0 {
			log.Fatal("-node-ids parsed to an empty list")
		}
		initialIDs = ids
	}

	keys := keygen.Generate(cfg.Keys, cfg.Seed)

	if *compare {
		if err := compareVNodesEffect(keys, initialIDs); err != nil {
			log.Fatalf("comparison failed: %v", err)
		}
		return
	}
	if err := runExperiment(cfg, keys, initialIDs); err != nil {
		log.Fatalf("experiment failed: %v", err)
	}
}

func runExperiment(cfg config.Experiment, keys, initialIDs []string) error {
	r, err := buildRing(cfg.VNodesPerNode, initialIDs)
	if err != nil {
		return err
	}

	printTopology("Initial Ring", r)
	before, err := rebalance.MapKeys(r, keys)
	if err != nil {
		return err
	}
	printDistribution("Key distribution BEFORE change", before)

	if err := r.AddNode(ring.Node{ID: cfg.AddNodeID}); err != nil {
		return err
	}
	printTopology("After ADD", r)
	afterAdd, err := rebalance.MapKeys(r, keys)
	if err != nil {
		return err
	}
	printDistribution("Key distribution AFTER add", afterAdd)

	moved, err := rebalance.MovedKeyStats(before, afterAdd)
	if err != nil {
		return err
	}
	expectedPct := 100 * rebalance.ExpectedMoveFractionOnAdd(len(initialIDs)+1)
	fmt.Printf("\nRebalance (ADD): moved=%d/%d (%.2f%%). Expected ~ %.2f%%\n",
		moved.Moved, moved.Total, moved.Percent, expectedPct)

	if cfg.RemoveNodeID == "" {
		return nil
	}

	if err := r.RemoveNode(cfg.RemoveNodeID); err != nil {
		return err
	}
	printTopology(fmt.Sprintf("After REMOVE %s", cfg.RemoveNodeID), r)
	afterRemove, err := rebalance.MapKeys(r, keys)
	if err != nil {
		return err
	}
	printDistribution("Key distribution AFTER remove", afterRemove)

	moved, err = rebalance.MovedKeyStats(afterAdd, afterRemove)
	if err != nil {
		return err
	}
	fmt.Printf("\nRebalance (REMOVE): moved=%d/%d (%.2f%%).\n",
		moved.Moved, moved.Total, moved.Percent)
	return nil
}

// compareVNodesEffect shows how the per-node load spread flattens as the
// virtual-node count grows, on the same nodes and key sample.
func compareVNodesEffect(keys, initialIDs []string) error {
	for _, k := range []int{1, 50, 200} {
		r, err := buildRing(k, initialIDs)
		if err != nil {
			return err
		}
		mapping, err := rebalance.MapKeys(r, keys)
		if err != nil {
			return err
		}
		printDistribution(fmt.Sprintf("Distribution with K=%d", k), mapping)
	}
	return nil
}

func buildRing(vnodesPerNode int, nodeIDs []string) (*ring.Ring, error) {
	r, err := ring.New(vnodesPerNode)
	if err != nil {
		return nil, err
	}
	for _, node := range config.BuildRingNodes(nodeIDs) {
		if err := r.AddNode(node); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func printTopology(title string, r *ring.Ring) {
	fmt.Printf("\n=== %s ===\n", title)
	fmt.Printf("Physical nodes: %d | Total vnodes: %d | K=%d\n",
		r.NodeCount(), r.TotalVirtualNodes(), r.VNodesPerNode())
	fmt.Printf("Nodes: %s\n", strings.Join(r.ListNodes(), ", "))
}

func printDistribution(title string, mapping map[string]string) {
	stats := rebalance.DistributionStats(mapping)
	fmt.Printf("\n--- %s ---\n", title)
	fmt.Printf("keys=%d nodes=%d mean=%.2f min=%d max=%d variance=%.2f stdev=%.2f\n",
		stats.Keys, stats.Nodes, stats.Mean, stats.Min, stats.Max, stats.Variance, stats.Stdev)
}
