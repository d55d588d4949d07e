// Package blur provides the "blur" node: a box blur over the bytes of its
// input buffer.
package blur

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/gridflow/internal/ctxlog"
	"github.com/specialistvlad/gridflow/pkg/node"
	"github.com/specialistvlad/gridflow/pkg/registry"
)

// Kind is the name used in graph definitions.
const Kind = "blur"

// DefaultDelay is how long Process pretends to work when no delay is given.
const DefaultDelay = 100 * time.Millisecond

// Module implements the registry.Module interface for this package.
type Module struct{}

// Node blurs its input into its output.
type Node struct {
	*node.Base
	delay  time.Duration
	radius int
}

// New creates a blur node.
func New(name string, unit node.ComputeUnit, delay time.Duration, radius int) *Node {
	if radius < 1 {
		radius = 1
	}
	return &Node{Base: node.NewBase(name, unit), delay: delay, radius: radius}
}

// Process implements node.Processor.
func (n *Node) Process(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("node", n.Name())
	logger.Info(fmt.Sprintf("%s running on %s", n.Name(), n.ComputeUnit()))
	time.Sleep(n.delay)

	in, out := n.Input(), n.Output()
	if in == nil || out == nil {
		logger.Debug("Blur has no input/output pair, nothing to transform.")
		return nil
	}
	out.Write(Apply(in.Bytes(), n.radius))
	return nil
}

// Apply returns a copy of src where each byte is the mean of its neighbours
// within radius.
func Apply(src []byte, radius int) []byte {
	dst := make([]byte, len(src))
	for i := range src {
		lo, hi := i-radius, i+radius
		if lo < 0 {
			lo = 0
		}
		if hi > len(src)-1 {
			hi = len(src) - 1
		}
		sum := 0
		for j := lo; j <= hi; j++ {
			sum += int(src[j])
		}
		dst[i] = byte(sum / (hi - lo + 1))
	}
	return dst
}

// Register registers the blur kind.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Kind, &registry.Definition{
		DefaultUnit: node.CPU,
		Description: "Box blur over the input bytes.",
		New: func(spec registry.Spec) (node.Node, error) {
			if unknown := spec.UnknownArgs("delay", "radius"); len(unknown) > 0 {
				return nil, fmt.Errorf("unsupported arguments %v", unknown)
			}
			delay, err := spec.DurationArg("delay", DefaultDelay)
			if err != nil {
				return nil, err
			}
			radius, err := spec.IntArg("radius", 1)
			if err != nil {
				return nil, err
			}
			return New(spec.Name, spec.Unit, delay, radius), nil
		},
	})
}
