package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/specialistvlad/gridflow/internal/testutil"
	"github.com/specialistvlad/gridflow/pkg/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdered_ChainRunsInOrder(t *testing.T) {
	ctx, _ := testutil.LoggedContext()
	rec := testutil.NewRecorder()
	a := rec.Node("A", node.CPU, 30*time.Millisecond)
	b := rec.Node("B", node.GPU, 10*time.Millisecond)
	c := rec.Node("C", node.NPU, 0)

	s := NewOrdered(ctx, 4)
	// Listed in reverse to make sure order comes from links, not the list.
	require.NoError(t, s.Schedule(ctx, []node.Node{c, b, a}, []Link{{Src: a, Dst: b}, {Src: b, Dst: c}}))
	require.NoError(t, s.Close())

	assert.Equal(t, []string{"A", "B", "C"}, rec.Order())
}

func TestOrdered_FanOutRunsInParallel(t *testing.T) {
	ctx, _ := testutil.LoggedContext()
	rec := testutil.NewRecorder()
	a := rec.Node("A", node.CPU, 0)
	b := rec.Node("B", node.CPU, 100*time.Millisecond)
	c := rec.Node("C", node.CPU, 100*time.Millisecond)

	s := NewOrdered(ctx, 3)
	require.NoError(t, s.Schedule(ctx, []node.Node{a, b, c}, []Link{{Src: a, Dst: b}, {Src: a, Dst: c}}))
	require.NoError(t, s.Close())

	recA, _ := rec.Record("A")
	recB, _ := rec.Record("B")
	recC, _ := rec.Record("C")
	assert.False(t, recB.Start.Before(recA.End), "B started before A finished")
	assert.False(t, recC.Start.Before(recA.End), "C started before A finished")
	if recB.Start.After(recC.End) || recC.Start.After(recB.End) {
		t.Errorf("steps B and C did not run in parallel")
	}
}

func TestOrdered_FanInWaitsForAllProducers(t *testing.T) {
	ctx, _ := testutil.LoggedContext()
	rec := testutil.NewRecorder()
	a := rec.Node("A", node.CPU, 20*time.Millisecond)
	b := rec.Node("B", node.CPU, 60*time.Millisecond)
	c := rec.Node("C", node.CPU, 0)

	s := NewOrdered(ctx, 3)
	require.NoError(t, s.Schedule(ctx, []node.Node{a, b, c}, []Link{{Src: a, Dst: c}, {Src: b, Dst: c}}))
	require.NoError(t, s.Close())

	recB, _ := rec.Record("B")
	recC, _ := rec.Record("C")
	assert.False(t, recC.Start.Before(recB.End))
	assert.Equal(t, int64(3), rec.Calls())
}

func TestOrdered_FailureSkipsDependents(t *testing.T) {
	ctx, logs := testutil.LoggedContext()
	rec := testutil.NewRecorder()
	cause := errors.New("decode failed")
	a := node.NewFunc("A", node.CPU, func(context.Context, node.Node) error { return cause })
	b := rec.Node("B", node.GPU, 0)
	c := rec.Node("C", node.NPU, 0)
	independent := rec.Node("D", node.CPU, 0)

	s := NewOrdered(ctx, 2)
	require.NoError(t, s.Schedule(ctx, []node.Node{a, b, c, independent}, []Link{{Src: a, Dst: b}, {Src: b, Dst: c}}))
	err := s.Close()

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrUpstreamFailed)
	assert.Equal(t, []string{"D"}, rec.Order())
	assert.Contains(t, logs.String(), "Skipping dependent node due to upstream failure.")
}

func TestOrdered_RejectsCycle(t *testing.T) {
	ctx, _ := testutil.LoggedContext()
	rec := testutil.NewRecorder()
	a := rec.Node("A", node.CPU, 0)
	b := rec.Node("B", node.CPU, 0)
	root := rec.Node("root", node.CPU, 0)

	s := NewOrdered(ctx, 2)
	err := s.Schedule(ctx, []node.Node{root, a, b}, []Link{{Src: a, Dst: b}, {Src: b, Dst: a}})
	require.ErrorIs(t, err, ErrCycle)
	assert.Contains(t, err.Error(), "A, B")
	require.NoError(t, s.Close())

	assert.Zero(t, rec.Calls(), "nothing runs when the plan is rejected")
}

func TestOrdered_SelfLoopIsCycle(t *testing.T) {
	ctx, _ := testutil.LoggedContext()
	a := node.NewFunc("A", node.CPU, nil)

	s := NewOrdered(ctx, 1)
	err := s.Schedule(ctx, []node.Node{a}, []Link{{Src: a, Dst: a}})
	assert.ErrorIs(t, err, ErrCycle)
	require.NoError(t, s.Close())
}

func TestOrdered_IgnoresLinksToUnscheduledNodes(t *testing.T) {
	ctx, _ := testutil.LoggedContext()
	rec := testutil.NewRecorder()
	a := rec.Node("A", node.CPU, 0)
	outside := rec.Node("outside", node.CPU, 0)

	s := NewOrdered(ctx, 1)
	require.NoError(t, s.Schedule(ctx, []node.Node{a}, []Link{{Src: outside, Dst: a}}))
	require.NoError(t, s.Close())

	assert.Equal(t, []string{"A"}, rec.Order())
}

func TestOrdered_ScheduleAfterCloseDoesNotHang(t *testing.T) {
	ctx, _ := testutil.LoggedContext()
	a := node.NewFunc("A", node.CPU, nil)
	b := node.NewFunc("B", node.CPU, nil)

	s := NewOrdered(ctx, 1)
	require.NoError(t, s.Close())
	err := s.Schedule(ctx, []node.Node{a, b}, []Link{{Src: a, Dst: b}})
	require.Error(t, err)

	done := make(chan struct{})
	go func() {
		_ = s.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close hung after a failed Schedule")
	}
}

func TestOrdered_ReleasedDependentsAreNotAbandoned(t *testing.T) {
	a := node.NewFunc("A", node.CPU, nil)
	b := node.NewFunc("B", node.CPU, nil)
	c := node.NewFunc("C", node.CPU, nil)
	entries := plan([]node.Node{a, b, c}, []Link{{Src: a, Dst: b}, {Src: a, Dst: c}, {Src: b, Dst: c}})

	s := &Ordered{}
	s.wg.Add(1)
	entries[0].state = Running

	ready := s.release(entries[0])
	require.Len(t, ready, 1)
	assert.Same(t, entries[1], ready[0])
	assert.Equal(t, Running, entries[1].state)
	assert.Equal(t, Pending, entries[2].state)

	// Only C is still pending, so abandon resolves exactly one entry.
	s.abandon(entries)
	assert.Equal(t, Done, entries[0].state)
	assert.Equal(t, Running, entries[1].state)
	assert.Equal(t, Failed, entries[2].state)
	s.wg.Wait()
}
