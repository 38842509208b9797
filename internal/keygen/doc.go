// Package keygen generates reproducible key samples for rebalancing
// experiments.
package keygen
