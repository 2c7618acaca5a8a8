package ai

// Predicate is a pure check over an entity and the current tick's
// context. Predicates are re-evaluated on every call, never cached.
type Predicate func(e *Entity, ctx *Context) bool

// Conditional evaluates its predicate each tick and delegates to the
// true branch or the optional false branch. A false predicate with no
// false branch fails the node.
type Conditional struct {
	base
	Pred    Predicate
	OnTrue  Node
	OnFalse Node
}

func NewConditional(pred Predicate, onTrue, onFalse Node) *Conditional {
	return &Conditional{Pred: pred, OnTrue: onTrue, OnFalse: onFalse}
}

func (c *Conditional) Run(e *Entity, ctx *Context, dt float64) Result {
	if c.Pred(e, ctx) {
		if c.OnTrue == nil {
			return Success
		}
		return Execute(c.OnTrue, e, ctx, dt)
	}
	if c.OnFalse == nil {
		return Failed
	}
	return Execute(c.OnFalse, e, ctx, dt)
}

func (c *Conditional) Reset(e *Entity) {
	c.clear()
	if c.OnTrue != nil {
		c.OnTrue.Reset(e)
	}
	if c.OnFalse != nil {
		c.OnFalse.Reset(e)
	}
}

// Repeat re-invokes its child up to Count times, resetting the child
// between iterations. Count <= 0 repeats forever. The node is Running
// while iterating and succeeds once the count is exhausted; a failed
// iteration still counts.
type Repeat struct {
	base
	Child Node
	Count int

	done int
}

func NewRepeat(count int, child Node) *Repeat {
	return &Repeat{Child: child, Count: count}
}

func (r *Repeat) Run(e *Entity, ctx *Context, dt float64) Result {
	if Execute(r.Child, e, ctx, dt) == Running {
		return Running
	}
	r.Child.Reset(e)
	if r.Count > 0 {
		r.done++
		if r.done >= r.Count {
			r.done = 0
			return Success
		}
	}
	return Running
}

func (r *Repeat) Reset(e *Entity) {
	r.clear()
	r.done = 0
	r.Child.Reset(e)
}

// Inverter flips Success and Failed; Running passes through unchanged.
type Inverter struct {
	base
	Child Node
}

func NewInverter(child Node) *Inverter {
	return &Inverter{Child: child}
}

func (i *Inverter) Run(e *Entity, ctx *Context, dt float64) Result {
	switch Execute(i.Child, e, ctx, dt) {
	case Success:
		return Failed
	case Failed:
		return Success
	default:
		return Running
	}
}

func (i *Inverter) Reset(e *Entity) {
	i.clear()
	i.Child.Reset(e)
}

// Succeeder forces any non-Running child result to Success, so an
// optional sub-tree never blocks a parent Sequence.
type Succeeder struct {
	base
	Child Node
}

func NewSucceeder(child Node) *Succeeder {
	return &Succeeder{Child: child}
}

func (s *Succeeder) Run(e *Entity, ctx *Context, dt float64) Result {
	if Execute(s.Child, e, ctx, dt) == Running {
		return Running
	}
	return Success
}

func (s *Succeeder) Reset(e *Entity) {
	s.clear()
	s.Child.Reset(e)
}
