package node

import "context"

// ProcessFunc is the body of a Func node. It receives the node itself so it
// can reach its buffers.
type ProcessFunc func(ctx context.Context, n Node) error

// Func adapts a closure into a Node.
type Func struct {
	*Base
	fn ProcessFunc
}

// NewFunc builds a node whose Process calls fn. A nil fn does nothing.
func NewFunc(name string, unit ComputeUnit, fn ProcessFunc) *Func {
	return &Func{Base: NewBase(name, unit), fn: fn}
}

// Process implements Processor.
func (f *Func) Process(ctx context.Context) error {
	if f.fn == nil {
		return nil
	}
	return f.fn(ctx, f)
}
