package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"sluice/internal/diag"
	"sluice/internal/ir"
	"sluice/internal/observ"
	"sluice/internal/streamify"
	"sluice/internal/trace"
)

// Options configures a whole-module conversion.
type Options struct {
	// Jobs bounds the number of functions converted concurrently.
	// Zero means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps the per-function diagnostic count.
	MaxDiagnostics int
	// Progress receives per-function stage events. Nil disables.
	Progress Sink
	// Tracer receives rule-level events. Nil disables.
	Tracer trace.Tracer
}

// Result aggregates a whole-module conversion.
type Result struct {
	// Changed lists functions whose graphs were rewritten, in module
	// order.
	Changed []string
	// Failed maps function names to their attempt failures. Failed
	// functions were rolled back, not corrupted.
	Failed map[string]error
	// Bag holds every diagnostic, sorted and deduplicated.
	Bag *diag.Bag
	// Timing reports phase durations.
	Timing observ.Report
}

// ConvertModule converts every function of m. Each function is a
// self-contained attempt mutating only its own graph, so independent
// functions run in parallel. Per-function failures do not abort the
// module; they are reported in Result.Failed.
func ConvertModule(ctx context.Context, m *ir.Module, target streamify.Target, opts Options) (*Result, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 100
	}
	sink := opts.Progress
	if sink == nil {
		sink = nopSink{}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}

	timer := observ.NewTimer()
	phase := timer.Begin("convert")

	type slot struct {
		changed bool
		err     error
		bag     *diag.Bag
	}
	slots := make([]slot, len(m.Funcs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, f := range m.Funcs {
		if f == nil {
			continue
		}
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sink.Send(Event{Func: f.Name, Stage: StageConverting})
			bag := diag.NewBag(maxDiag)
			changed, err := streamify.Convert(f, target, bag)
			slots[i] = slot{changed: changed, err: err, bag: bag}
			switch {
			case err != nil:
				tracer.Emit(trace.Event{Kind: trace.KindAttemptRollback, Func: f.Name, Detail: err.Error()})
				sink.Send(Event{Func: f.Name, Stage: StageFailed, Err: err})
			case changed:
				tracer.Emit(trace.Event{Kind: trace.KindAttemptCommit, Func: f.Name})
				sink.Send(Event{Func: f.Name, Stage: StageConverted})
			default:
				sink.Send(Event{Func: f.Name, Stage: StageSkipped})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("convert module: %w", err)
	}
	timer.End(phase, fmt.Sprintf("%d funcs", len(m.Funcs)))

	res := &Result{
		Failed: make(map[string]error),
		Bag:    diag.NewBag(maxDiag * max(1, len(m.Funcs))),
	}
	for i, f := range m.Funcs {
		if f == nil {
			continue
		}
		s := slots[i]
		if s.changed {
			res.Changed = append(res.Changed, f.Name)
		}
		if s.err != nil {
			res.Failed[f.Name] = s.err
		}
		res.Bag.Merge(s.bag)
	}
	res.Bag.Sort()
	res.Bag.Dedup()
	res.Timing = timer.Report()
	return res, nil
}
