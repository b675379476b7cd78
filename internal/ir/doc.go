// Package ir defines the program graph for device programs: functions
// of blocks of operations over typed values, with explicit chain,
// queue, event and token types for ordering and synchronization.
//
// The graph is arena-backed: operations, blocks and values live in
// per-function slices and reference each other by stable int32 IDs.
// Rewrites mutate in place; rollback is a matter of restoring a cloned
// snapshot rather than untangling pointers.
package ir
