// Package trace records what the conversion did to a module: rule
// applications, declines, and attempt commits/rollbacks. It exists to
// answer "why did this function not convert" without re-running the
// pass under a debugger.
package trace

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindRuleApplied marks a rewrite rule that matched and mutated
	// the graph.
	KindRuleApplied Kind = iota + 1
	// KindRuleDeclined marks a rule whose precondition was unmet.
	KindRuleDeclined
	// KindAttemptCommit marks a whole-function attempt that landed.
	KindAttemptCommit
	// KindAttemptRollback marks an attempt that was rolled back.
	KindAttemptRollback
	// KindPhase marks a driver phase boundary.
	KindPhase
)

func (k Kind) String() string {
	switch k {
	case KindRuleApplied:
		return "applied"
	case KindRuleDeclined:
		return "declined"
	case KindAttemptCommit:
		return "commit"
	case KindAttemptRollback:
		return "rollback"
	case KindPhase:
		return "phase"
	default:
		return "unknown"
	}
}

// Event is a single trace record.
type Event struct {
	Time   time.Time
	Kind   Kind
	Func   string // function being converted, empty for driver events
	Name   string // rule or phase name
	Detail string
}

// Tracer consumes trace events. Implementations must be
// goroutine-safe; the driver converts functions concurrently.
type Tracer interface {
	Emit(ev Event)
	Close() error
	Enabled() bool
}

type nopTracer struct{}

func (nopTracer) Emit(Event)   {}
func (nopTracer) Close() error { return nil }
func (nopTracer) Enabled() bool {
	return false
}

// Nop is the package-level no-op tracer.
var Nop Tracer = nopTracer{}

// Writer emits one text line per event to an io.Writer. Write errors
// are swallowed: tracing never fails a conversion.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a line-oriented tracer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (t *Writer) Emit(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	line := fmt.Sprintf("%s %-8s", ev.Time.Format("15:04:05.000"), ev.Kind)
	if ev.Func != "" {
		line += " fn=" + ev.Func
	}
	if ev.Name != "" {
		line += " " + ev.Name
	}
	if ev.Detail != "" {
		line += ": " + ev.Detail
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.w, line+"\n")
}

func (t *Writer) Close() error {
	if closer, ok := t.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (t *Writer) Enabled() bool { return true }
