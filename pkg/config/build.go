package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/gridflow/internal/ctxlog"
	"github.com/specialistvlad/gridflow/pkg/graph"
	"github.com/specialistvlad/gridflow/pkg/node"
	"github.com/specialistvlad/gridflow/pkg/registry"
	"github.com/specialistvlad/gridflow/pkg/scheduler"
)

var (
	// ErrDuplicateNode is returned when two declarations share a name.
	ErrDuplicateNode = errors.New("duplicate node name")
	// ErrUnknownNode is returned when an edge names an undeclared node.
	ErrUnknownNode = errors.New("edge references unknown node")
	// ErrNegativeWorkers is returned when the settings ask for fewer than
	// zero workers.
	ErrNegativeWorkers = errors.New("worker count cannot be negative")
)

// Build creates a graph from model. Settings from the model are applied
// first, so opts given by the caller take precedence.
func Build(ctx context.Context, model *Model, reg *registry.Registry, opts ...graph.Option) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building graph from model.", "nodes", len(model.Nodes), "edges", len(model.Edges))

	if model.Settings.Workers < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeWorkers, model.Settings.Workers)
	}

	var graphOpts []graph.Option
	if model.Settings.Workers > 0 {
		graphOpts = append(graphOpts, graph.WithWorkers(model.Settings.Workers))
	}
	if model.Settings.Scheduler != "" {
		factory, err := scheduler.Lookup(model.Settings.Scheduler)
		if err != nil {
			return nil, err
		}
		graphOpts = append(graphOpts, graph.WithScheduler(factory))
	}
	g := graph.New(append(graphOpts, opts...)...)

	byName := make(map[string]node.Node, len(model.Nodes))
	for _, decl := range model.Nodes {
		if _, exists := byName[decl.Name]; exists {
			return nil, fmt.Errorf("%w '%s' in %s", ErrDuplicateNode, decl.Name, decl.Source)
		}
		spec := registry.Spec{Kind: decl.Kind, Name: decl.Name, Arguments: decl.Arguments}
		if decl.Unit != "" {
			unit, err := node.ParseComputeUnit(decl.Unit)
			if err != nil {
				return nil, fmt.Errorf("node '%s' in %s: %w", decl.Name, decl.Source, err)
			}
			spec.Unit, spec.UnitIsSet = unit, true
		}
		n, err := reg.New(spec)
		if err != nil {
			return nil, err
		}
		logger.Debug("Declared node built.", "node", n.Name(), "kind", decl.Kind, "unit", n.ComputeUnit().String())
		byName[decl.Name] = n
		g.AddNode(n)
	}

	for _, decl := range model.Edges {
		src, ok := byName[decl.From]
		if !ok {
			return nil, fmt.Errorf("%w '%s' in %s", ErrUnknownNode, decl.From, decl.Source)
		}
		dst, ok := byName[decl.To]
		if !ok {
			return nil, fmt.Errorf("%w '%s' in %s", ErrUnknownNode, decl.To, decl.Source)
		}
		g.AddEdge(src, dst)
	}

	logger.Debug("Graph built.", "nodes", len(g.Nodes()), "edges", len(g.Edges()), "workers", g.Workers())
	return g, nil
}
