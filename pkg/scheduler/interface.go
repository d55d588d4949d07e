package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/gridflow/pkg/node"
)

var (
	// ErrCycle is returned by Ordered when the links among the scheduled
	// nodes form a cycle.
	ErrCycle = errors.New("scheduler: dependency cycle")
	// ErrUpstreamFailed is the cause recorded for nodes skipped because a
	// producer failed.
	ErrUpstreamFailed = errors.New("skipped due to upstream failure")
)

// Link is a producer to consumer relation between two nodes.
type Link struct {
	Src node.Node
	Dst node.Node
}

// Scheduler dispatches nodes onto a worker pool.
type Scheduler interface {
	// Schedule submits the given nodes. Implementations may ignore links.
	Schedule(ctx context.Context, nodes []node.Node, links []Link) error
	// Close blocks until every submitted node has finished, tears the pool
	// down and returns the node failures joined with errors.Join.
	Close() error
}

// Factory builds a scheduler backed by a pool of the given size.
type Factory func(ctx context.Context, workers int) Scheduler

// Names accepted by Lookup.
const (
	NameDefault = "default"
	NameOrdered = "ordered"
)

// Lookup returns the factory registered under name. An empty name selects
// the default scheduler.
func Lookup(name string) (Factory, error) {
	switch name {
	case "", NameDefault:
		return New, nil
	case NameOrdered:
		return NewOrdered, nil
	}
	return nil, fmt.Errorf("unknown scheduler %q: must be '%s' or '%s'", name, NameDefault, NameOrdered)
}
