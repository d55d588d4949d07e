// Package node defines the unit of work executed by a graph.
//
// A Node is anything that has a name, a declared compute unit, one input
// buffer slot, one output buffer slot and a blocking Process method. Concrete
// behaviors embed Base for the bookkeeping and supply Process themselves, or
// wrap a closure with NewFunc.
package node

import (
	"context"
	"sync"

	"github.com/specialistvlad/gridflow/pkg/buffer"
)

// Processor is the single capability a node body must provide. Process runs
// to completion; the context carries the logger and may be honored by bodies
// that want to stop early, but the engine never aborts a running call.
type Processor interface {
	Process(ctx context.Context) error
}

// Node is a vertex of the graph.
type Node interface {
	Processor

	Name() string
	ComputeUnit() ComputeUnit

	// SetInput and SetOutput overwrite the slot. A node participating in more
	// than one edge on the same side keeps only the most recent buffer.
	SetInput(b *buffer.Buffer)
	SetOutput(b *buffer.Buffer)
	Input() *buffer.Buffer
	Output() *buffer.Buffer
}

// Base holds the name, unit and buffer slots shared by every node variant.
// It implements all of Node except Process.
type Base struct {
	name string
	unit ComputeUnit

	mu     sync.RWMutex
	input  *buffer.Buffer
	output *buffer.Buffer
}

// NewBase creates the bookkeeping part of a node.
func NewBase(name string, unit ComputeUnit) *Base {
	return &Base{name: name, unit: unit}
}

// Name returns the node name fixed at construction.
func (b *Base) Name() string { return b.name }

// ComputeUnit returns the unit fixed at construction.
func (b *Base) ComputeUnit() ComputeUnit { return b.unit }

// SetInput points the input slot at buf.
func (b *Base) SetInput(buf *buffer.Buffer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.input = buf
}

// SetOutput points the output slot at buf.
func (b *Base) SetOutput(buf *buffer.Buffer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.output = buf
}

// Input returns the current input buffer, or nil.
func (b *Base) Input() *buffer.Buffer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.input
}

// Output returns the current output buffer, or nil.
func (b *Base) Output() *buffer.Buffer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.output
}
