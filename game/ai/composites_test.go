package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubNode returns a fixed result and counts invocations.
type stubNode struct {
	base
	ret  Result
	runs int
}

func (s *stubNode) Run(e *Entity, ctx *Context, dt float64) Result {
	s.runs++
	return s.ret
}

func (s *stubNode) Reset(e *Entity) { s.clear() }

func succeedNode() *stubNode { return &stubNode{ret: Success} }
func failNode() *stubNode    { return &stubNode{ret: Failed} }
func runningNode() *stubNode { return &stubNode{ret: Running} }

func testEntity() *Entity {
	return NewEntity(EntityConfig{
		Name:        "grunt",
		UnitType:    "soldier",
		Team:        TeamEnemy,
		Health:      100,
		AttackPower: 10,
		AttackRange: 2,
		Speed:       5,
	})
}

func emptyCtx() *Context { return &Context{} }

func TestSequence_ShortCircuitsOnFailure(t *testing.T) {
	first, second, third := succeedNode(), failNode(), succeedNode()
	seq := NewSequence(first, second, third)

	r := Execute(seq, testEntity(), emptyCtx(), 0.1)

	assert.Equal(t, Failed, r)
	assert.Equal(t, Failed, seq.Result())
	assert.Equal(t, 1, first.runs)
	assert.Equal(t, 1, second.runs)
	assert.Equal(t, 0, third.runs, "third child must not run after a failure")
}

func TestSequence_AllSucceed(t *testing.T) {
	seq := NewSequence(succeedNode(), succeedNode())
	assert.Equal(t, Success, Execute(seq, testEntity(), emptyCtx(), 0.1))
}

func TestSequence_HoldsCursorAcrossRunning(t *testing.T) {
	e := testEntity()
	first := succeedNode()
	second := runningNode()
	seq := NewSequence(first, second)

	require.Equal(t, Running, Execute(seq, e, emptyCtx(), 0.1))
	require.Equal(t, Running, Execute(seq, e, emptyCtx(), 0.1))
	// The first child ran once; the cursor stayed on the second.
	assert.Equal(t, 1, first.runs)
	assert.Equal(t, 2, second.runs)

	second.ret = Success
	assert.Equal(t, Success, Execute(seq, e, emptyCtx(), 0.1))
	assert.Equal(t, 1, first.runs)
}

func TestSelector_ShortCircuitsOnSuccess(t *testing.T) {
	first, second, third := failNode(), succeedNode(), succeedNode()
	sel := NewSelector(first, second, third)

	r := Execute(sel, testEntity(), emptyCtx(), 0.1)

	assert.Equal(t, Success, r)
	assert.Equal(t, 1, first.runs)
	assert.Equal(t, 1, second.runs)
	assert.Equal(t, 0, third.runs, "third child must not run after a success")
}

func TestSelector_AllFail(t *testing.T) {
	sel := NewSelector(failNode(), failNode())
	assert.Equal(t, Failed, Execute(sel, testEntity(), emptyCtx(), 0.1))
}

func TestSelector_HoldsCursorAcrossRunning(t *testing.T) {
	e := testEntity()
	first := failNode()
	second := runningNode()
	sel := NewSelector(first, second)

	require.Equal(t, Running, Execute(sel, e, emptyCtx(), 0.1))
	require.Equal(t, Running, Execute(sel, e, emptyCtx(), 0.1))
	assert.Equal(t, 1, first.runs)
	assert.Equal(t, 2, second.runs)
}

func TestParallel_SucceedsAtRequiredCount(t *testing.T) {
	p := NewParallel(2, succeedNode(), succeedNode(), failNode())
	assert.Equal(t, Success, Execute(p, testEntity(), emptyCtx(), 0.1))
}

func TestParallel_RunningWhileChildrenRun(t *testing.T) {
	p := NewParallel(2, succeedNode(), runningNode(), failNode())
	assert.Equal(t, Running, Execute(p, testEntity(), emptyCtx(), 0.1))
}

func TestParallel_FailureThresholdFormula(t *testing.T) {
	// With 3 children and required=1, failure needs
	// failures > 3-1, i.e. all three children failing.
	e := testEntity()

	p := NewParallel(1, failNode(), failNode(), runningNode())
	assert.Equal(t, Running, Execute(p, e, emptyCtx(), 0.1),
		"two failures out of three must not fail required=1 yet")

	p = NewParallel(1, failNode(), failNode(), failNode())
	assert.Equal(t, Failed, Execute(p, e, emptyCtx(), 0.1))
}

func TestParallel_MixedResultsStillReachRequired(t *testing.T) {
	p := NewParallel(2, succeedNode(), failNode(), succeedNode())
	assert.Equal(t, Success, Execute(p, testEntity(), emptyCtx(), 0.1))
}

func TestReset_RestoresFirstTickResult(t *testing.T) {
	// A reused tree must reproduce the first-tick result of a freshly
	// built equivalent tree after Reset.
	build := func() Node {
		return NewSequence(
			NewWait(0.5),
		)
	}
	e := testEntity()

	fresh := build()
	firstTick := Execute(fresh, e, emptyCtx(), 0.1)

	reused := build()
	// Drive the reused tree to completion, then reset.
	for i := 0; i < 10; i++ {
		if Execute(reused, e, emptyCtx(), 0.1).Terminal() {
			break
		}
	}
	require.True(t, reused.Result().Terminal())
	reused.Reset(e)
	require.Equal(t, NotStarted, reused.Result())

	assert.Equal(t, firstTick, Execute(reused, e, emptyCtx(), 0.1))
}

func TestReset_Recursive(t *testing.T) {
	e := testEntity()
	inner := runningNode()
	seq := NewSequence(succeedNode(), inner)
	require.Equal(t, Running, Execute(seq, e, emptyCtx(), 0.1))
	require.Equal(t, Running, inner.Result())

	seq.Reset(e)
	assert.Equal(t, NotStarted, seq.Result())
	assert.Equal(t, NotStarted, inner.Result())
}
