// Package streamify converts sequential device programs into a form
// that executes concurrently across hardware queues.
//
// The conversion preserves every program-order and data dependency: a
// chain value threads a total order over side effects within a scope,
// queues order the operations dispatched onto them, and events carry
// happens-before edges between queues. Operations eligible for
// concurrent scheduling are chosen by a pluggable legality classifier;
// everything else stays on the function's ambient queue.
//
// Each function is rewritten inside a transaction: either the whole
// attempt lands, or the function is left untouched and the reasons are
// reported as diagnostics. Converted functions are fixed points, so
// the pass is idempotent.
package streamify
