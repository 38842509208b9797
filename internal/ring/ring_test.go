package ring

import (
	"errors"
	"fmt"
	"testing"

	"hashring/internal/hashing"
)

func mustRing(t *testing.T, vnodesPerNode int, nodeIDs ...string) *Ring {
	t.Helper()
	r, err := New(vnodesPerNode)
	if err != nil {
		t.Fatalf("New(%d) failed: %v", vnodesPerNode, err)
	}
	for _, id := range nodeIDs {
		if err := r.AddNode(Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s) failed: %v", id, err)
		}
	}
	return r
}

func TestNew_InvalidConfiguration(t *testing.T) {
	for _, k := range []int{0, -1, -128} {
		_, err := New(k)
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("New(%d): expected ErrInvalidConfiguration, got %v", k, err)
		}
	}
}

func TestRing_Lookup(t *testing.T) {
	r := mustRing(t, 64, "node1", "node2", "node3")

	key := "test-key-123"
	node1, err := r.Lookup(key)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	node2, err := r.Lookup(key)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if node1.ID != node2.ID {
		t.Errorf("Determinism failed: same key mapped to %s then %s", node1.ID, node2.ID)
	}
}

func TestRing_EmptyRing(t *testing.T) {
	r := mustRing(t, 64)
	_, err := r.Lookup("any-key")
	if !errors.Is(err, ErrEmptyRing) {
		t.Errorf("Expected ErrEmptyRing, got %v", err)
	}
}

func TestRing_DuplicateNode(t *testing.T) {
	r := mustRing(t, 8, "node1")

	err := r.AddNode(Node{ID: "node1"})
	if !errors.Is(err, ErrDuplicateNode) {
		t.Fatalf("Expected ErrDuplicateNode, got %v", err)
	}
	// Failed add must leave the ring untouched.
	if got := r.TotalVirtualNodes(); got != 8 {
		t.Errorf("Expected 8 vnodes after rejected add, got %d", got)
	}
	if got := r.NodeCount(); got != 1 {
		t.Errorf("Expected 1 node after rejected add, got %d", got)
	}
}

func TestRing_RemoveUnknownNode(t *testing.T) {
	r := mustRing(t, 8, "node1")

	err := r.RemoveNode("never-added")
	if !errors.Is(err, ErrNodeNotFound) {
		t.Fatalf("Expected ErrNodeNotFound, got %v", err)
	}
	if got := r.NodeCount(); got != 1 {
		t.Errorf("Expected 1 node after rejected removal, got %d", got)
	}
}

func TestRing_CleanRemoval(t *testing.T) {
	r := mustRing(t, 64, "node1", "node2", "node3")

	if got := r.TotalVirtualNodes(); got != 3*64 {
		t.Fatalf("Expected %d vnodes, got %d", 3*64, got)
	}

	if err := r.RemoveNode("node2"); err != nil {
		t.Fatalf("RemoveNode failed: %v", err)
	}

	if got := r.TotalVirtualNodes(); got != 2*64 {
		t.Errorf("Expected %d vnodes after removal, got %d", 2*64, got)
	}
	for _, id := range r.ListNodes() {
		if id == "node2" {
			t.Error("node2 still listed after removal")
		}
	}
	for i := 0; i < 1000; i++ {
		node, err := r.Lookup(fmt.Sprintf("key-%d", i))
		if err != nil {
			t.Fatalf("Lookup failed after removal: %v", err)
		}
		if node.ID == "node2" {
			t.Fatalf("key-%d still resolves to removed node2", i)
		}
	}
}

func TestRing_ListNodesSorted(t *testing.T) {
	r := mustRing(t, 4, "zebra", "alpha", "mango")

	got := r.ListNodes()
	want := []string{"alpha", "mango", "zebra"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d nodes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListNodes()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRing_Counters(t *testing.T) {
	r := mustRing(t, 100, "node_0", "node_1")

	if got := r.NodeCount(); got != 2 {
		t.Errorf("NodeCount() = %d, want 2", got)
	}
	if got := r.TotalVirtualNodes(); got != 200 {
		t.Errorf("TotalVirtualNodes() = %d, want 200", got)
	}
	if got := r.VNodesPerNode(); got != 100 {
		t.Errorf("VNodesPerNode() = %d, want 100", got)
	}
}

func TestRing_CollisionRetryIsDeterministic(t *testing.T) {
	r := mustRing(t, 1)

	// Occupy the position node2's first vnode would hash to, forcing
	// the attempt-suffix re-hash.
	v2 := vnode{node: Node{ID: "node2"}, replica: 0}
	natural := hashing.Hash32(v2.ringKey())
	r.index.insert(natural, vnode{node: Node{ID: "squatter"}})

	got := r.place(v2)
	want := hashing.Hash32(v2.ringKey() + "@1")
	if got != want {
		t.Errorf("place() after collision = %d, want re-hash of %q = %d",
			got, v2.ringKey()+"@1", want)
	}

	// Occupy the first retry position too; placement must move to @2.
	r.index.insert(want, vnode{node: Node{ID: "squatter2"}})
	got = r.place(v2)
	want = hashing.Hash32(v2.ringKey() + "@2")
	if got != want {
		t.Errorf("place() after double collision = %d, want %d", got, want)
	}
}

func TestRing_AddAfterRemoveRestoresPlacement(t *testing.T) {
	// Removing a node and adding it back must reproduce the original
	// layout when no collisions are involved.
	r := mustRing(t, 32, "node1", "node2", "node3")

	keys := make([]string, 500)
	owners := make(map[string]string, len(keys))
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
		node, err := r.Lookup(keys[i])
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		owners[keys[i]] = node.ID
	}

	if err := r.RemoveNode("node2"); err != nil {
		t.Fatalf("RemoveNode failed: %v", err)
	}
	if err := r.AddNode(Node{ID: "node2"}); err != nil {
		t.Fatalf("Re-add failed: %v", err)
	}

	for _, key := range keys {
		node, err := r.Lookup(key)
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if node.ID != owners[key] {
			t.Errorf("Owner of %s changed after remove+re-add: %s -> %s",
				key, owners[key], node.ID)
		}
	}
}
