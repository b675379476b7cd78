package ir

// Block is an ordered sequence of operations ending in a terminator.
// Parent is the op owning this block as a region body, or NoOpID for a
// function entry block.
type Block struct {
	ID     BlockID
	Params []ValueID
	Ops    []OpID
	Parent OpID
}

// Value is a result or block parameter. Producer is the defining op,
// or NoOpID when the value is a parameter of DefBlock. Uses holds one
// entry per consuming operand occurrence.
type Value struct {
	ID       ValueID
	Type     Type
	Producer OpID
	DefBlock BlockID
	Uses     []OpID
}
