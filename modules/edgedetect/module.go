// Package edgedetect provides the "edgedetect" node: a first-difference
// filter over the bytes of its input buffer.
package edgedetect

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/gridflow/internal/ctxlog"
	"github.com/specialistvlad/gridflow/pkg/node"
	"github.com/specialistvlad/gridflow/pkg/registry"
)

// Kind is the name used in graph definitions.
const Kind = "edgedetect"

// DefaultDelay is how long Process pretends to work when no delay is given.
const DefaultDelay = 100 * time.Millisecond

// Module implements the registry.Module interface for this package.
type Module struct{}

// Node writes the absolute difference between neighbouring input bytes.
type Node struct {
	*node.Base
	delay time.Duration
}

// New creates an edge detection node.
func New(name string, unit node.ComputeUnit, delay time.Duration) *Node {
	return &Node{Base: node.NewBase(name, unit), delay: delay}
}

// Process implements node.Processor.
func (n *Node) Process(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("node", n.Name())
	logger.Info(fmt.Sprintf("%s running on %s", n.Name(), n.ComputeUnit()))
	time.Sleep(n.delay)

	in, out := n.Input(), n.Output()
	if in == nil || out == nil {
		return nil
	}
	out.Write(Apply(in.Bytes()))
	return nil
}

// Apply returns |src[i+1]-src[i]| for every position; the last byte is zero.
func Apply(src []byte) []byte {
	dst := make([]byte, len(src))
	for i := 0; i+1 < len(src); i++ {
		d := int(src[i+1]) - int(src[i])
		if d < 0 {
			d = -d
		}
		dst[i] = byte(d)
	}
	return dst
}

// Register registers the edgedetect kind.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Kind, &registry.Definition{
		DefaultUnit: node.NPU,
		Description: "Absolute first difference of the input bytes.",
		New: func(spec registry.Spec) (node.Node, error) {
			if unknown := spec.UnknownArgs("delay"); len(unknown) > 0 {
				return nil, fmt.Errorf("unsupported arguments %v", unknown)
			}
			delay, err := spec.DurationArg("delay", DefaultDelay)
			if err != nil {
				return nil, err
			}
			return New(spec.Name, spec.Unit, delay), nil
		},
	})
}
