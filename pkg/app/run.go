package app

import (
	"context"
	"fmt"
	"runtime"

	"github.com/specialistvlad/gridflow/pkg/config"
	"github.com/specialistvlad/gridflow/pkg/graph"
	"github.com/specialistvlad/gridflow/pkg/scheduler"
	"golang.org/x/sync/errgroup"
)

// Graph loads the definition files and builds a graph from them without
// running it.
func (a *App) Graph(ctx context.Context) (*graph.Graph, error) {
	ctx = a.withLogger(ctx)

	model, err := a.loader.Load(ctx, a.config.GraphPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	a.logger.Debug("Configuration loaded and translated into unified model.")

	opts, err := a.graphOptions(model)
	if err != nil {
		return nil, err
	}
	g, err := config.Build(ctx, model, a.registry, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	return g, nil
}

// graphOptions turns the explicit Config values into graph options. They are
// applied after the file settings, so they win. A zero WorkerCount falls
// back to the machine's CPU count only if the files did not set one.
func (a *App) graphOptions(model *config.Model) ([]graph.Option, error) {
	var opts []graph.Option
	switch {
	case a.config.WorkerCount > 0:
		opts = append(opts, graph.WithWorkers(a.config.WorkerCount))
	case model.Settings.Workers == 0:
		opts = append(opts, graph.WithWorkers(runtime.NumCPU()))
	}
	if a.config.Scheduler != "" {
		factory, err := scheduler.Lookup(a.config.Scheduler)
		if err != nil {
			return nil, err
		}
		opts = append(opts, graph.WithScheduler(factory))
	}
	return opts, nil
}

// Run executes the main application logic: it loads the definitions, builds
// the graph and runs it once.
func (a *App) Run(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	a.logger.Debug("App.Run method started.")

	g, err := a.Graph(ctx)
	if err != nil {
		return err
	}

	if len(g.Nodes()) == 0 {
		a.logger.Warn("No nodes found in graph, execution not required.")
		return nil
	}

	if err := g.Run(ctx); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// RunGraphs runs independent graphs concurrently and waits for all of them.
// Every graph runs to completion; the first error is returned.
func (a *App) RunGraphs(ctx context.Context, graphs ...*graph.Graph) error {
	ctx = a.withLogger(ctx)
	a.logger.Info("🚀 Starting concurrent graph runs.", "graphs", len(graphs))

	var eg errgroup.Group
	for _, g := range graphs {
		eg.Go(func() error {
			return g.Run(ctx)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	a.logger.Info("🏁 All graph runs finished.")
	return nil
}
