package testutil

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/gridflow/pkg/node"
)

// ExecutionRecord holds the start and end times of a single Process call.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// Recorder counts Process calls across a set of nodes and keeps the last
// execution window of each node.
type Recorder struct {
	calls atomic.Int64

	mu      sync.Mutex
	records map[string]ExecutionRecord
	order   []string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{records: make(map[string]ExecutionRecord)}
}

// Calls returns the total number of completed Process calls.
func (r *Recorder) Calls() int64 {
	return r.calls.Load()
}

// Record returns the last execution window of the named node.
func (r *Recorder) Record(name string) (ExecutionRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[name]
	return rec, ok
}

// Order returns node names in completion order.
func (r *Recorder) Order() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

// Node builds a node that sleeps for the given duration and reports to the
// recorder when it finishes.
func (r *Recorder) Node(name string, unit node.ComputeUnit, sleep time.Duration) *node.Func {
	return node.NewFunc(name, unit, func(ctx context.Context, _ node.Node) error {
		start := time.Now()
		time.Sleep(sleep)
		end := time.Now()

		r.mu.Lock()
		r.records[name] = ExecutionRecord{Start: start, End: end}
		r.order = append(r.order, name)
		r.mu.Unlock()
		r.calls.Add(1)
		return nil
	})
}
