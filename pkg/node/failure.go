package node

import (
	"context"
	"fmt"
)

// Failure reports that a node's Process returned an error or panicked. The
// worker that ran it stays alive.
type Failure struct {
	NodeName string
	Unit     ComputeUnit
	Cause    error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("node '%s' (%s) failed: %v", f.NodeName, f.Unit, f.Cause)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (f *Failure) Unwrap() error {
	return f.Cause
}

// PanicError wraps a value recovered from a panicking Process.
type PanicError struct {
	Value any
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", p.Value)
}

// Run calls n.Process, converting both a returned error and a panic into a
// *Failure. It returns nil when Process succeeds.
func Run(ctx context.Context, n Node) (failure *Failure) {
	defer func() {
		if r := recover(); r != nil {
			failure = &Failure{NodeName: n.Name(), Unit: n.ComputeUnit(), Cause: &PanicError{Value: r}}
		}
	}()
	if err := n.Process(ctx); err != nil {
		return &Failure{NodeName: n.Name(), Unit: n.ComputeUnit(), Cause: err}
	}
	return nil
}
