package ai

// Node is a single node in a behavior tree.
//
// Run performs one tick of node logic. Reset restores the node (and,
// recursively, its children) to NotStarted with all internal cursors
// zeroed, so a tree can be reused across activations. Result returns
// the outcome stored by the last Execute call without re-running logic.
//
// Failure is control flow, never an error: a leaf returns Failed when
// its blackboard preconditions are unmet and composites branch on it.
type Node interface {
	Run(e *Entity, ctx *Context, dt float64) Result
	Reset(e *Entity)
	Result() Result

	store(Result)
}

// base carries the stored result shared by every node variant.
type base struct {
	result Result
}

func (b *base) Result() Result  { return b.result }
func (b *base) store(r Result)  { b.result = r }
func (b *base) clear()          { b.result = NotStarted }

// Execute runs one tick of n and stores the outcome so callers can
// inspect n.Result() afterwards without re-invoking logic. All parents
// tick their children through Execute for the same reason.
func Execute(n Node, e *Entity, ctx *Context, dt float64) Result {
	r := n.Run(e, ctx, dt)
	n.store(r)
	return r
}
