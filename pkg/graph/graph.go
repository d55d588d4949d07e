// Package graph accumulates nodes and edges and executes them.
//
// A Graph only grows: there is no removal. AddEdge does not check that its
// endpoints were added with AddNode. Run builds a fresh scheduler and worker
// pool for every call and returns only once every node has finished, so a
// graph can be run again and each run is independent.
package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/specialistvlad/gridflow/internal/ctxlog"
	"github.com/specialistvlad/gridflow/pkg/buffer"
	"github.com/specialistvlad/gridflow/pkg/node"
	"github.com/specialistvlad/gridflow/pkg/scheduler"
)

// Option configures a Graph.
type Option func(*Graph)

// WithWorkers sets the worker count of the pool created by each Run. The
// value is taken as given; callers wanting hardware parallelism compute it
// once and pass it here.
func WithWorkers(n int) Option {
	return func(g *Graph) { g.workers = n }
}

// WithScheduler selects the scheduler built by each Run. The default is the
// dependency-blind scheduler.New.
func WithScheduler(f scheduler.Factory) Option {
	return func(g *Graph) {
		if f != nil {
			g.newScheduler = f
		}
	}
}

// Graph is an ordered collection of nodes and edges.
type Graph struct {
	workers      int
	newScheduler scheduler.Factory

	mu    sync.RWMutex
	nodes []node.Node
	edges []*Edge
}

// New creates an empty graph. Without WithWorkers each run uses one worker.
func New(opts ...Option) *Graph {
	g := &Graph{workers: 1, newScheduler: scheduler.New}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddNode appends n to the node list.
func (g *Graph) AddNode(n node.Node) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes = append(g.nodes, n)
}

// AddEdge connects src to dst through a new DefaultBufferSize buffer. The
// buffer becomes src's output and dst's input, replacing whatever those slots
// held before.
func (g *Graph) AddEdge(src, dst node.Node) *Edge {
	e := &Edge{src: src, dst: dst, buffer: buffer.New(DefaultBufferSize)}
	src.SetOutput(e.buffer)
	dst.SetInput(e.buffer)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.edges = append(g.edges, e)
	return e
}

// Nodes returns a copy of the node list in insertion order.
func (g *Graph) Nodes() []node.Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]node.Node(nil), g.nodes...)
}

// Edges returns a copy of the edge list in insertion order.
func (g *Graph) Edges() []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]*Edge(nil), g.edges...)
}

// Workers returns the worker count used by Run.
func (g *Graph) Workers() int {
	return g.workers
}

// Run executes every node once and blocks until all of them have finished.
// Node failures are returned joined; a nil error means every Process call
// succeeded.
func (g *Graph) Run(ctx context.Context) error {
	nodes := g.Nodes()
	edges := g.Edges()
	links := make([]scheduler.Link, len(edges))
	for i, e := range edges {
		links[i] = scheduler.Link{Src: e.src, Dst: e.dst}
	}

	ctx = ctxlog.With(ctx, "run_id", uuid.NewString())
	logger := ctxlog.FromContext(ctx)
	logger.Info("🚀 Starting graph run.", "nodes", len(nodes), "edges", len(edges), "workers", g.workers)

	sch := g.newScheduler(ctx, g.workers)
	scheduleErr := sch.Schedule(ctx, nodes, links)
	// Close always runs so the pool is joined even when scheduling failed.
	runErr := sch.Close()
	if scheduleErr != nil {
		return fmt.Errorf("failed to schedule graph: %w", scheduleErr)
	}
	if runErr != nil {
		logger.Error("Graph run finished with failures.", "error", runErr)
		return fmt.Errorf("graph run failed: %w", runErr)
	}

	logger.Info("🏁 Graph run finished.")
	return nil
}
