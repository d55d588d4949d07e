package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/specialistvlad/gridflow/internal/ctxlog"
	"github.com/specialistvlad/gridflow/pkg/node"
	"github.com/specialistvlad/gridflow/pkg/pool"
)

// State is the execution state of one scheduled node inside Ordered.
type State int32

const (
	// Pending indicates the node is waiting for its producers.
	Pending State = iota
	// Running indicates the node has been handed to the pool.
	Running
	// Done indicates the node finished successfully.
	Done
	// Failed indicates the node failed or was skipped.
	Failed
)

// entry is one scheduled occurrence of a node. A node listed twice gets two
// entries and runs twice.
type entry struct {
	node       node.Node
	deps       int
	dependents []*entry
	state      State
}

// Ordered dispatches nodes in topological order over the links passed to
// Schedule. Links whose endpoints are not among the scheduled nodes are
// ignored. Ties are broken by list order.
type Ordered struct {
	pool     *pool.Pool
	failures failures

	mu sync.Mutex
	wg sync.WaitGroup
}

// NewOrdered creates an Ordered scheduler with its own pool of the given size.
func NewOrdered(ctx context.Context, workers int) Scheduler {
	return &Ordered{pool: pool.New(ctx, workers)}
}

// Schedule validates the dependency structure and submits the root nodes.
// The remaining nodes are submitted as their producers finish.
func (s *Ordered) Schedule(ctx context.Context, nodes []node.Node, links []Link) error {
	logger := ctxlog.FromContext(ctx)
	entries := plan(nodes, links)
	if err := checkAcyclic(entries); err != nil {
		return err
	}

	var roots []*entry
	for _, e := range entries {
		if e.deps == 0 {
			roots = append(roots, e)
		}
	}
	logger.Debug("Scheduling nodes in dependency order.", "count", len(entries), "roots", len(roots))

	s.wg.Add(len(entries))
	for _, e := range roots {
		if err := s.submit(ctx, e); err != nil {
			s.abandon(entries)
			return err
		}
	}
	return nil
}

// abandon resolves every still pending entry so Close does not wait for
// nodes that will never be submitted.
func (s *Ordered) abandon(entries []*entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if e.state == Pending {
			e.state = Failed
			s.wg.Done()
		}
	}
}

// Close waits until every scheduled node has been resolved, then drains the
// pool and reports failures.
func (s *Ordered) Close() error {
	s.wg.Wait()
	s.pool.Close()
	return s.failures.join()
}

func (s *Ordered) submit(ctx context.Context, e *entry) error {
	s.mu.Lock()
	e.state = Running
	s.mu.Unlock()

	err := s.pool.Submit(func(context.Context) {
		s.complete(ctx, e, execute(ctx, e.node))
	})
	if err != nil {
		s.mu.Lock()
		e.state = Failed
		s.mu.Unlock()
		s.wg.Done()
		return fmt.Errorf("scheduling node '%s': %w", e.node.Name(), err)
	}
	return nil
}

// complete records the outcome of e and releases or skips its dependents.
func (s *Ordered) complete(ctx context.Context, e *entry, failure *node.Failure) {
	logger := ctxlog.FromContext(ctx)
	defer s.wg.Done()

	if failure != nil {
		s.failures.add(failure)
		s.mu.Lock()
		e.state = Failed
		s.mu.Unlock()
		s.skipDependents(ctx, e)
		return
	}

	for _, d := range s.release(e) {
		logger.Debug("Unlocking dependent node.", "node", e.node.Name(), "dependent", d.node.Name())
		if err := s.submit(ctx, d); err != nil {
			logger.Error("Failed to submit dependent node.", "dependent", d.node.Name(), "error", err)
			s.failures.add(&node.Failure{NodeName: d.node.Name(), Unit: d.node.ComputeUnit(), Cause: err})
			s.skipDependents(ctx, d)
		}
	}
}

// release marks e done and returns the dependents it unblocked. They leave
// Pending under the same lock so abandon cannot resolve them a second time.
func (s *Ordered) release(e *entry) []*entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.state = Done
	var ready []*entry
	for _, d := range e.dependents {
		if d.state != Pending {
			continue
		}
		d.deps--
		if d.deps == 0 {
			d.state = Running
			ready = append(ready, d)
		}
	}
	return ready
}

// skipDependents marks every pending node downstream of e as failed.
func (s *Ordered) skipDependents(ctx context.Context, e *entry) {
	logger := ctxlog.FromContext(ctx)
	s.mu.Lock()
	var skipped []*entry
	for _, d := range e.dependents {
		if d.state != Pending {
			continue
		}
		d.state = Failed
		skipped = append(skipped, d)
	}
	s.mu.Unlock()

	for _, d := range skipped {
		logger.Warn("Skipping dependent node due to upstream failure.", "node", d.node.Name(), "dependency", e.node.Name())
		s.failures.add(&node.Failure{
			NodeName: d.node.Name(),
			Unit:     d.node.ComputeUnit(),
			Cause:    fmt.Errorf("%w of '%s'", ErrUpstreamFailed, e.node.Name()),
		})
		s.wg.Done()
		s.skipDependents(ctx, d)
	}
}

// plan builds one entry per listed node and wires the links between them.
func plan(nodes []node.Node, links []Link) []*entry {
	entries := make([]*entry, 0, len(nodes))
	byNode := make(map[node.Node][]*entry, len(nodes))
	for _, n := range nodes {
		e := &entry{node: n}
		entries = append(entries, e)
		byNode[n] = append(byNode[n], e)
	}
	for _, l := range links {
		for _, src := range byNode[l.Src] {
			for _, dst := range byNode[l.Dst] {
				src.dependents = append(src.dependents, dst)
				dst.deps++
			}
		}
	}
	return entries
}

// checkAcyclic runs Kahn's algorithm on a copy of the in-degrees.
func checkAcyclic(entries []*entry) error {
	indeg := make(map[*entry]int, len(entries))
	var queue []*entry
	for _, e := range entries {
		indeg[e] = e.deps
		if e.deps == 0 {
			queue = append(queue, e)
		}
	}
	visited := 0
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		visited++
		for _, d := range e.dependents {
			indeg[d]--
			if indeg[d] == 0 {
				queue = append(queue, d)
			}
		}
	}
	if visited == len(entries) {
		return nil
	}

	var names []string
	for _, e := range entries {
		if indeg[e] > 0 {
			names = append(names, e.node.Name())
		}
	}
	return fmt.Errorf("%w among nodes: %s", ErrCycle, strings.Join(names, ", "))
}
