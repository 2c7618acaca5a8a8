package ai

// Sequence ticks children in order: logical AND with short-circuit on
// failure. A Running child stops the tick and keeps the cursor; a
// Failed child resets the whole sequence and fails it; exhausting all
// children resets and succeeds.
type Sequence struct {
	base
	Children []Node

	cur int
}

func NewSequence(children ...Node) *Sequence {
	return &Sequence{Children: children}
}

func (s *Sequence) Run(e *Entity, ctx *Context, dt float64) Result {
	for s.cur < len(s.Children) {
		switch Execute(s.Children[s.cur], e, ctx, dt) {
		case Running:
			return Running
		case Failed:
			s.Reset(e)
			return Failed
		default:
			s.cur++
		}
	}
	s.Reset(e)
	return Success
}

func (s *Sequence) Reset(e *Entity) {
	s.clear()
	s.cur = 0
	for _, c := range s.Children {
		c.Reset(e)
	}
}

// Selector ticks children in order: logical OR with short-circuit on
// success. A Running child stops the tick and keeps the cursor; a
// successful child resets the selector and succeeds it; exhausting all
// children resets and fails.
type Selector struct {
	base
	Children []Node

	cur int
}

func NewSelector(children ...Node) *Selector {
	return &Selector{Children: children}
}

func (s *Selector) Run(e *Entity, ctx *Context, dt float64) Result {
	for s.cur < len(s.Children) {
		switch Execute(s.Children[s.cur], e, ctx, dt) {
		case Running:
			return Running
		case Success:
			s.Reset(e)
			return Success
		default:
			s.cur++
		}
	}
	s.Reset(e)
	return Failed
}

func (s *Selector) Reset(e *Entity) {
	s.clear()
	s.cur = 0
	for _, c := range s.Children {
		c.Reset(e)
	}
}

// Parallel ticks every child each call and succeeds once at least
// Required children succeed in one evaluation. It fails once enough
// children have failed that the required count is unreachable
// (failures > len(children)-Required); the threshold is deliberately
// loose for some Required values and failure detection may wait until
// every child has reported. Otherwise the node is Running while any
// child runs, and Failed when none do.
type Parallel struct {
	base
	Children []Node
	Required int
}

func NewParallel(required int, children ...Node) *Parallel {
	return &Parallel{Children: children, Required: required}
}

func (p *Parallel) Run(e *Entity, ctx *Context, dt float64) Result {
	successes, failures, running := 0, 0, 0
	for _, c := range p.Children {
		switch Execute(c, e, ctx, dt) {
		case Success:
			successes++
		case Failed:
			failures++
		case Running:
			running++
		}
	}
	if successes >= p.Required {
		p.Reset(e)
		return Success
	}
	if failures > len(p.Children)-p.Required {
		p.Reset(e)
		return Failed
	}
	if running > 0 {
		return Running
	}
	p.Reset(e)
	return Failed
}

func (p *Parallel) Reset(e *Entity) {
	p.clear()
	for _, c := range p.Children {
		c.Reset(e)
	}
}
