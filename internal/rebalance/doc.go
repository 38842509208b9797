// Package rebalance provides read-only measurement utilities over a ring:
// bulk key-to-node mapping, churn between two topologies, and per-node
// load statistics. It never mutates the ring it observes.
package rebalance
