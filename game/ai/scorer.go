package ai

// Scorer rates one candidate behavior for an entity and builds a fresh
// tree for it when picked. Score returns the desirability of the
// behavior this tick; zero or negative means inapplicable. Build must
// return a brand-new tree instance every call — trees are never shared
// between entities or activations.
type Scorer interface {
	ID() string
	Label() string
	Score(e *Entity, ctx *Context) float64
	Build() Node
}

// BehaviorScore is the ephemeral result of a pick: the winning
// behavior's identity and a freshly built tree for it.
type BehaviorScore struct {
	ID    string
	Label string
	Score float64
	Tree  Node
}

// Picker holds an ordered list of scorers and selects the highest
// scoring applicable behavior. Ties go to the earlier registration.
type Picker struct {
	scorers []Scorer
}

func NewPicker(scorers ...Scorer) *Picker {
	return &Picker{scorers: scorers}
}

// Register appends a scorer. Order matters for tie-breaking.
func (p *Picker) Register(s Scorer) {
	p.scorers = append(p.scorers, s)
}

// PickBehavior scores every registered scorer against the current
// context, discards scores <= 0, and builds a tree for the maximum.
// Returns nil when no behavior applies.
func (p *Picker) PickBehavior(e *Entity, ctx *Context) *BehaviorScore {
	var best Scorer
	bestScore := 0.0
	for _, s := range p.scorers {
		score := s.Score(e, ctx)
		if score <= 0 {
			continue
		}
		if best == nil || score > bestScore {
			best = s
			bestScore = score
		}
	}
	if best == nil {
		return nil
	}
	return &BehaviorScore{
		ID:    best.ID(),
		Label: best.Label(),
		Score: bestScore,
		Tree:  best.Build(),
	}
}
