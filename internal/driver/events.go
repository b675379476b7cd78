package driver

// Stage tracks where a function is in the conversion pipeline.
type Stage uint8

const (
	StageQueued Stage = iota
	StageConverting
	StageConverted
	StageSkipped
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageQueued:
		return "queued"
	case StageConverting:
		return "converting"
	case StageConverted:
		return "converted"
	case StageSkipped:
		return "skipped"
	case StageFailed:
		return "failed"
	}
	return "unknown"
}

// Event reports per-function progress to an observer.
type Event struct {
	Func  string
	Stage Stage
	Err   error
}

// Sink consumes progress events. Send must be safe for concurrent
// use; the driver converts functions in parallel.
type Sink interface {
	Send(ev Event)
}

// ChannelSink forwards events to a channel, typically feeding a
// terminal UI.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) Send(ev Event) {
	s.Ch <- ev
}

type nopSink struct{}

func (nopSink) Send(Event) {}
