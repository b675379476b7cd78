package ir

// Type classifies the values flowing through a program graph.
type Type uint8

const (
	// TypeNone is the zero type, used for sentinel values.
	TypeNone Type = iota
	// TypeChain is the program-order token. Side-effecting operations
	// consume the current chain and produce a new one.
	TypeChain
	// TypeQueue is an ordered hardware execution context.
	TypeQueue
	// TypeEvent is a one-shot cross-queue synchronization marker.
	TypeEvent
	// TypeToken packages a (chain, queue) pair across a boundary.
	TypeToken
	// TypeBuffer is an opaque region of device memory.
	TypeBuffer
	// TypeContext is the execution context a queue belongs to. New queues
	// are derived from it.
	TypeContext
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeChain:
		return "chain"
	case TypeQueue:
		return "queue"
	case TypeEvent:
		return "event"
	case TypeToken:
		return "token"
	case TypeBuffer:
		return "buffer"
	case TypeContext:
		return "context"
	}
	return "unknown"
}
