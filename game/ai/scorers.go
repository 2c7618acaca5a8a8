package ai

// Proximity radii and score constants for the default behavior set.
// The numbers are deliberate tuning values, kept as literals per
// behavior rather than derived from a shared formula.
const (
	wanderEnemyRadius     = 20.0
	aggroEnemyRadius      = 25.0
	aggroMinHealthRatio   = 0.2
	defensiveEnemyRadius  = 15.0
	defensiveHomeRadius   = 20.0
	fleeMaxHealthRatio    = 0.3
	fleeEnemyRadius       = 10.0
	patrolEnemyRadius     = 15.0
	gatherResourceRadius  = 30.0
	gatherCautionRadius   = 10.0
	returnHomeNearRadius  = 5.0
	returnHomeFarRadius   = 50.0
)

// IdleScorer is the constant low-score fallback so a unit always has
// something to do.
type IdleScorer struct{}

func (IdleScorer) ID() string    { return "idle" }
func (IdleScorer) Label() string { return "Idle" }

func (IdleScorer) Score(e *Entity, ctx *Context) float64 { return 0.1 }

func (IdleScorer) Build() Node { return NewWait(2.0) }

// WanderScorer applies only when no enemy is close enough to matter.
type WanderScorer struct{}

func (WanderScorer) ID() string    { return "wander" }
func (WanderScorer) Label() string { return "Wandering" }

func (WanderScorer) Score(e *Entity, ctx *Context) float64 {
	if ctx.EnemyWithin(e.Position, wanderEnemyRadius) {
		return 0
	}
	return 0.3
}

func (WanderScorer) Build() Node {
	return NewRepeat(2, NewSequence(
		NewPickRandomSpot(8),
		NewMoveTo(0.5),
		NewWait(1.0),
	))
}

// AggressiveScorer scales with health: a healthy unit with an enemy in
// aggro range wants to fight, a badly hurt one does not (the flee
// scorer takes over below the health cutoff).
type AggressiveScorer struct{}

func (AggressiveScorer) ID() string    { return "aggressive" }
func (AggressiveScorer) Label() string { return "Attacking" }

func (AggressiveScorer) Score(e *Entity, ctx *Context) float64 {
	if !ctx.EnemyWithin(e.Position, aggroEnemyRadius) {
		return 0
	}
	hr := e.HealthRatio()
	if hr < aggroMinHealthRatio {
		return 0
	}
	return 0.8 * hr
}

func (AggressiveScorer) Build() Node {
	return NewSequence(
		NewFindNearestEnemy(aggroEnemyRadius),
		NewChaseTarget(1.2),
		NewAttackMelee(1.0),
	)
}

// DefensiveScorer applies when an enemy presses a unit that is still
// near its home: fight by the doorstep, fall back home otherwise.
type DefensiveScorer struct{}

func (DefensiveScorer) ID() string    { return "defensive" }
func (DefensiveScorer) Label() string { return "Defending" }

func (DefensiveScorer) Score(e *Entity, ctx *Context) float64 {
	home := e.Blackboard.HomePosition
	if home == nil {
		return 0
	}
	if !ctx.EnemyWithin(e.Position, defensiveEnemyRadius) {
		return 0
	}
	if e.Position.DistanceTo(*home) > defensiveHomeRadius {
		return 0
	}
	return 0.7
}

func (DefensiveScorer) Build() Node {
	enemyClose := func(e *Entity, ctx *Context) bool {
		return ctx.EnemyWithin(e.Position, defensiveEnemyRadius)
	}
	return NewConditional(enemyClose,
		NewSequence(
			NewFindNearestEnemy(defensiveEnemyRadius),
			NewChaseTarget(1.0),
			NewAttackMelee(1.2),
		),
		NewReturnHome(),
	)
}

// FleeScorer fires for badly hurt units with an enemy breathing down
// their neck, scoring higher the closer to death they are.
type FleeScorer struct{}

func (FleeScorer) ID() string    { return "flee" }
func (FleeScorer) Label() string { return "Fleeing" }

func (FleeScorer) Score(e *Entity, ctx *Context) float64 {
	hr := e.HealthRatio()
	if hr > fleeMaxHealthRatio {
		return 0
	}
	if !ctx.EnemyWithin(e.Position, fleeEnemyRadius) {
		return 0
	}
	return 0.95 * (1 - hr)
}

func (FleeScorer) Build() Node { return NewFlee(1.5) }

// PatrolScorer applies to units with a patrol route and no enemies
// close enough to interrupt it.
type PatrolScorer struct{}

func (PatrolScorer) ID() string    { return "patrol" }
func (PatrolScorer) Label() string { return "Patrolling" }

func (PatrolScorer) Score(e *Entity, ctx *Context) float64 {
	if len(e.Blackboard.PatrolPoints) < 2 {
		return 0
	}
	if ctx.EnemyWithin(e.Position, patrolEnemyRadius) {
		return 0
	}
	return 0.5
}

func (PatrolScorer) Build() Node { return NewPatrol(1.0) }

// GatherScorer applies only to worker unit types with a live resource
// node in range. A nearby enemy lowers the score instead of zeroing
// it: workers keep gathering, cautiously.
type GatherScorer struct{}

func (GatherScorer) ID() string    { return "gather" }
func (GatherScorer) Label() string { return "Gathering" }

func (GatherScorer) Score(e *Entity, ctx *Context) float64 {
	if e.UnitType != "worker" && e.UnitType != "peasant" {
		return 0
	}
	if _, ok := ctx.NearestResource(e.Position, gatherResourceRadius); !ok {
		return 0
	}
	if ctx.EnemyWithin(e.Position, gatherCautionRadius) {
		return 0.2
	}
	return 0.6
}

func (GatherScorer) Build() Node {
	return NewSequence(
		NewFindNearestResource(gatherResourceRadius),
		NewMoveTo(1.0),
		NewGatherResource(2.0),
		NewSucceeder(NewReturnHome()),
	)
}

// ReturnHomeScorer pulls strays back: far from home scores high, close
// to home scores zero.
type ReturnHomeScorer struct{}

func (ReturnHomeScorer) ID() string    { return "return-home" }
func (ReturnHomeScorer) Label() string { return "Returning Home" }

func (ReturnHomeScorer) Score(e *Entity, ctx *Context) float64 {
	home := e.Blackboard.HomePosition
	if home == nil {
		return 0
	}
	d := e.Position.DistanceTo(*home)
	switch {
	case d < returnHomeNearRadius:
		return 0
	case d > returnHomeFarRadius:
		return 0.7
	default:
		return 0.2
	}
}

func (ReturnHomeScorer) Build() Node { return NewReturnHome() }

// NewDefaultPicker returns a fresh picker with the stock behavior set
// registered in priority order. Each call builds a new instance so
// tests and arenas never share picker state.
func NewDefaultPicker() *Picker {
	return NewPicker(
		IdleScorer{},
		WanderScorer{},
		AggressiveScorer{},
		DefensiveScorer{},
		FleeScorer{},
		PatrolScorer{},
		GatherScorer{},
		ReturnHomeScorer{},
	)
}
