package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/specialistvlad/gridflow/internal/ctxlog"
	"github.com/specialistvlad/gridflow/pkg/node"
	"github.com/specialistvlad/gridflow/pkg/pool"
)

// failures collects node failures from concurrent workers.
type failures struct {
	mu   sync.Mutex
	list []error
}

func (f *failures) add(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list = append(f.list, err)
}

func (f *failures) join() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return errors.Join(f.list...)
}

// execute runs a single node and logs the outcome.
func execute(ctx context.Context, n node.Node) *node.Failure {
	logger := ctxlog.FromContext(ctx).With("node", n.Name(), "unit", n.ComputeUnit().String())
	logger.Info("▶️ Running node")

	if failure := node.Run(ctx, n); failure != nil {
		logger.Error("Node execution failed.", "error", failure.Cause)
		return failure
	}
	logger.Info("✅ Finished node")
	return nil
}

// Default is the dependency-blind scheduler: every node becomes one task and
// goes to whichever worker is free first.
type Default struct {
	pool     *pool.Pool
	failures failures
}

// New creates a Default scheduler with its own pool of the given size.
func New(ctx context.Context, workers int) Scheduler {
	return NewDefault(ctx, workers)
}

// NewDefault is New with a concrete return type.
func NewDefault(ctx context.Context, workers int) *Default {
	return &Default{pool: pool.New(ctx, workers)}
}

// Schedule submits one task per node. Links are ignored.
func (s *Default) Schedule(ctx context.Context, nodes []node.Node, _ []Link) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Scheduling nodes without dependency ordering.", "count", len(nodes))
	for _, n := range nodes {
		err := s.pool.Submit(func(context.Context) {
			if failure := execute(ctx, n); failure != nil {
				s.failures.add(failure)
			}
		})
		if err != nil {
			return fmt.Errorf("scheduling node '%s': %w", n.Name(), err)
		}
	}
	return nil
}

// Close drains and joins the pool, then reports failures.
func (s *Default) Close() error {
	s.pool.Close()
	return s.failures.join()
}
