package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"sluice/internal/driver"
	"sluice/internal/ir"
	"sluice/internal/streamify"
	"sluice/internal/ui"
)

type convertOutcome struct {
	result *driver.Result
	err    error
}

// runConvertWithUI drives the conversion behind a terminal progress
// view. The driver runs on its own goroutine feeding stage events to
// the model through a channel.
func runConvertWithUI(ctx context.Context, title string, m *ir.Module, target streamify.Target, opts driver.Options) (*driver.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan convertOutcome, 1)

	funcs := make([]string, 0, len(m.Funcs))
	for _, f := range m.Funcs {
		if f != nil {
			funcs = append(funcs, f.Name)
		}
	}

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.ConvertModule(ctx, m, target, optsCopy)
		outcomeCh <- convertOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, funcs, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := awaitOutcome(cancel, events, outcomeCh)
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

// awaitOutcome stops the driver and collects its result. The view can
// exit before the driver is done (quit is a key press away), so the
// event stream is drained until the driver closes it; otherwise the
// driver would block on a full channel with no receiver.
func awaitOutcome(cancel context.CancelFunc, events <-chan driver.Event, outcomeCh <-chan convertOutcome) convertOutcome {
	cancel()
	go func() {
		for range events {
		}
	}()
	return <-outcomeCh
}
