package ir

// OpKind enumerates operation kinds in the program graph.
type OpKind uint8

const (
	// OpReturn terminates a block and yields its operands to the
	// enclosing function or async region.
	OpReturn OpKind = iota
	// OpYield terminates an async region body and makes its operands
	// (after operand 0, the chain) observable outside the region.
	OpYield
	// OpAsyncExecute wraps a nested region scheduled as one unit. The
	// body takes (chain, queue) block parameters and returns a chain.
	OpAsyncExecute
	// OpCast packages a (chain, queue) operand pair into a token, or a
	// token back into its parts.
	OpCast
	// OpWait blocks until its event operands have been reached,
	// optionally producing a fresh token result.
	OpWait
	// OpNewChain produces a fresh ready chain.
	OpNewChain
	// OpQueueCreate derives a new queue from a context.
	OpQueueCreate
	// OpQueueContext returns the context a queue belongs to.
	OpQueueContext
	// OpQueueWait makes a queue wait for an event, threading the chain.
	OpQueueWait
	// OpEventCreate creates an unrecorded event in a context.
	OpEventCreate
	// OpEventRecord records an event on a queue, threading the chain.
	OpEventRecord

	// Device operations. Before conversion they carry only data
	// operands; conversion appends (queue, chain) operands and a chain
	// result to bind them to an execution queue.

	// OpAlloc allocates a device buffer.
	OpAlloc
	// OpFree releases a device buffer.
	OpFree
	// OpMemcpy copies between device buffers.
	OpMemcpy
	// OpMemset fills a device buffer.
	OpMemset
	// OpLaunch launches a kernel, named by the op label.
	OpLaunch

	opKindCount
)

var opKindNames = [...]string{
	OpReturn:       "return",
	OpYield:        "yield",
	OpAsyncExecute: "async.execute",
	OpCast:         "cast",
	OpWait:         "wait",
	OpNewChain:     "new_chain",
	OpQueueCreate:  "queue.create",
	OpQueueContext: "queue.context",
	OpQueueWait:    "queue.wait",
	OpEventCreate:  "event.create",
	OpEventRecord:  "event.record",
	OpAlloc:        "alloc",
	OpFree:         "free",
	OpMemcpy:       "memcpy",
	OpMemset:       "memset",
	OpLaunch:       "launch",
}

func (k OpKind) String() string {
	if int(k) < len(opKindNames) {
		return opKindNames[k]
	}
	return "unknown"
}

// ParseOpKind resolves an op kind by its printed name.
func ParseOpKind(name string) (OpKind, bool) {
	for k, n := range opKindNames {
		if n == name {
			return OpKind(k), true
		}
	}
	return opKindCount, false
}

// IsDeviceOp reports whether the kind dispatches work onto a queue.
func (k OpKind) IsDeviceOp() bool {
	switch k {
	case OpAlloc, OpFree, OpMemcpy, OpMemset, OpLaunch:
		return true
	}
	return false
}

// IsTerminator reports whether the kind may only appear as the last
// operation of a block.
func (k OpKind) IsTerminator() bool {
	return k == OpReturn || k == OpYield
}

// Op is a node in the program graph. Operands and results reference
// values by ID; Body is the nested region entry for OpAsyncExecute and
// NoBlockID otherwise.
type Op struct {
	ID       OpID
	Kind     OpKind
	Label    string // kernel name for OpLaunch, empty otherwise
	Operands []ValueID
	Results  []ValueID
	Body     BlockID
	Block    BlockID // owning block, NoBlockID once detached
}
