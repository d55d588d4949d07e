// Package classify provides the "classify" node. It buckets the mean
// intensity of its input into one of a fixed number of classes and writes
// the class index as the first output byte.
package classify

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/gridflow/internal/ctxlog"
	"github.com/specialistvlad/gridflow/pkg/node"
	"github.com/specialistvlad/gridflow/pkg/registry"
)

// Kind is the name used in graph definitions.
const Kind = "classify"

// DefaultDelay is how long Process pretends to work when no delay is given.
const DefaultDelay = 100 * time.Millisecond

// Module implements the registry.Module interface for this package.
type Module struct{}

// Node classifies its input.
type Node struct {
	*node.Base
	delay   time.Duration
	classes int
}

// New creates a classify node. classes below 1 are treated as 1.
func New(name string, unit node.ComputeUnit, delay time.Duration, classes int) *Node {
	if classes < 1 {
		classes = 1
	}
	return &Node{Base: node.NewBase(name, unit), delay: delay, classes: classes}
}

// Process implements node.Processor.
func (n *Node) Process(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("node", n.Name())
	logger.Info(fmt.Sprintf("%s running on %s", n.Name(), n.ComputeUnit()))
	time.Sleep(n.delay)

	in := n.Input()
	if in == nil {
		return nil
	}
	class := Classify(in.Bytes(), n.classes)
	logger.Debug("Input classified.", "class", class)
	if out := n.Output(); out != nil {
		out.Write([]byte{byte(class)})
	}
	return nil
}

// Classify maps the mean byte value of src onto [0, classes).
func Classify(src []byte, classes int) int {
	if len(src) == 0 || classes < 1 {
		return 0
	}
	sum := 0
	for _, b := range src {
		sum += int(b)
	}
	mean := sum / len(src)
	return mean * classes / 256
}

// Register registers the classify kind.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Kind, &registry.Definition{
		DefaultUnit: node.GPU,
		Description: "Buckets the mean input intensity into classes.",
		New: func(spec registry.Spec) (node.Node, error) {
			if unknown := spec.UnknownArgs("delay", "classes"); len(unknown) > 0 {
				return nil, fmt.Errorf("unsupported arguments %v", unknown)
			}
			delay, err := spec.DurationArg("delay", DefaultDelay)
			if err != nil {
				return nil, err
			}
			classes, err := spec.IntArg("classes", 10)
			if err != nil {
				return nil, err
			}
			return New(spec.Name, spec.Unit, delay, classes), nil
		},
	})
}
