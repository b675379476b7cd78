// Package rewrite provides the transactional mutation layer for
// program-graph passes: speculative attempts with all-or-nothing
// commit, region inlining, and the structured match-failure value
// rules return when they decline an operation.
package rewrite
