// Package scheduler turns a list of nodes into tasks on a worker pool.
//
// Two implementations are provided:
//
//   - Default submits one task per node and ignores edges and compute units.
//     A consumer may run before, or at the same time as, its producer.
//   - Ordered dispatches nodes in topological order: a node is submitted only
//     after every producer feeding it has finished. A failing producer skips
//     all of its dependents.
//
// Both own a single pool for their whole lifetime. Close waits for the pool to
// drain and returns the collected node failures, so the scheduler is meant to
// be created, used for one execution and closed.
package scheduler
