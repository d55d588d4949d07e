// Package pool provides a fixed-size set of workers draining a shared,
// unbounded task queue.
//
// Each worker loops: wait until the queue is non-empty or the pool is
// stopping; if stopping and the queue is empty, exit; otherwise take one task
// and run it to completion. Close is drain, not cancel: tasks already queued
// when Close is called still run before Close returns.
package pool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/specialistvlad/gridflow/internal/ctxlog"
)

// ErrClosed is returned by Submit once Close has been called.
var ErrClosed = errors.New("pool: submit on closed pool")

// Task is one unit of work. It receives the context the pool was created
// with.
type Task func(ctx context.Context)

// Option configures a Pool.
type Option func(*Pool)

// WithPanicHandler installs a hook that receives the value recovered from a
// panicking task. The worker survives either way.
func WithPanicHandler(fn func(recovered any)) Option {
	return func(p *Pool) { p.onPanic = fn }
}

// Pool is a fixed set of workers sharing one FIFO queue guarded by a mutex
// and a condition variable.
type Pool struct {
	ctx     context.Context
	size    int
	onPanic func(recovered any)

	mu    sync.Mutex
	cond  *sync.Cond
	tasks []Task
	stop  bool

	wg sync.WaitGroup
}

// New starts size workers. Sizes below one are clamped to one. The worker
// count is an explicit argument; callers that want hardware parallelism
// resolve it themselves and pass it in.
func New(ctx context.Context, size int, opts ...Option) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{ctx: ctx, size: size}
	p.cond = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting worker pool.", "workers", size)
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker(i)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Pending returns the number of queued tasks not yet picked up.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks)
}

// Submit appends a task to the queue and wakes one waiting worker.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return errors.New("pool: nil task")
	}
	p.mu.Lock()
	if p.stop {
		p.mu.Unlock()
		return ErrClosed
	}
	p.tasks = append(p.tasks, task)
	p.mu.Unlock()
	p.cond.Signal()
	return nil
}

// Close stops accepting tasks, wakes every worker and waits for all of them
// to exit. Workers keep draining the queue until it is empty. Calling Close
// more than once is safe.
func (p *Pool) Close() {
	p.mu.Lock()
	p.stop = true
	p.mu.Unlock()
	p.cond.Broadcast()
	p.wg.Wait()
}

// worker is the processing loop for a single worker.
func (p *Pool) worker(workerID int) {
	defer p.wg.Done()
	logger := ctxlog.FromContext(p.ctx).With("workerID", workerID)
	logger.Debug("Worker started.")

	for {
		p.mu.Lock()
		for !p.stop && len(p.tasks) == 0 {
			p.cond.Wait()
		}
		if p.stop && len(p.tasks) == 0 {
			p.mu.Unlock()
			logger.Debug("Worker finished.")
			return
		}
		task := p.tasks[0]
		p.tasks[0] = nil
		p.tasks = p.tasks[1:]
		p.mu.Unlock()

		p.run(logger, task)
	}
}

// run executes one task, recovering a panic so the worker keeps serving.
func (p *Pool) run(logger *slog.Logger, task Task) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Task panicked.", "error", fmt.Sprint(r))
			if p.onPanic != nil {
				p.onPanic(r)
			}
		}
	}()
	task(p.ctx)
}
