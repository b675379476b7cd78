// Package driver orchestrates whole-module conversion: functions are
// converted in parallel (each attempt is self-contained and only
// mutates its own graph), diagnostics are merged deterministically,
// and finished conversions can be cached on disk keyed by the input
// module and legality vocabulary.
package driver
