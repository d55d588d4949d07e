package graph

import (
	"github.com/specialistvlad/gridflow/pkg/buffer"
	"github.com/specialistvlad/gridflow/pkg/node"
)

// DefaultBufferSize is the size of the buffer allocated for every edge. Nodes
// that need more resize the buffer themselves.
const DefaultBufferSize = 1024

// Edge is a directed connection from a producer to a consumer. It owns the
// buffer shared between the producer's output slot and the consumer's input
// slot. Src, Dst and the buffer never change after construction.
type Edge struct {
	src    node.Node
	dst    node.Node
	buffer *buffer.Buffer
}

// Src returns the producing node.
func (e *Edge) Src() node.Node { return e.src }

// Dst returns the consuming node.
func (e *Edge) Dst() node.Node { return e.dst }

// Buffer returns the buffer carried by the edge.
func (e *Edge) Buffer() *buffer.Buffer { return e.buffer }
