// Package diag collects structured diagnostics produced while
// converting program graphs. Rewrite rules that decline to match
// record an informational diagnostic with the operation reference and
// the reason; structural violations record errors. Diagnostics are
// plain values so a rolled-back attempt still leaves an explanation
// behind.
package diag
