package ai

// TaskAttackMelee fires a melee attack at blackboard.TargetID whenever
// its internal cooldown reaches zero, then rearms the cooldown.
// Success means "attack fired"; the manager applies the damage.
type TaskAttackMelee struct {
	base
	Interval float64

	cooldown float64
}

func NewAttackMelee(interval float64) *TaskAttackMelee {
	return &TaskAttackMelee{Interval: interval}
}

func (t *TaskAttackMelee) Run(e *Entity, ctx *Context, dt float64) Result {
	if e.Blackboard.TargetID == "" {
		return Failed
	}
	t.cooldown -= dt
	if t.cooldown > 0 {
		return Running
	}
	t.cooldown = t.Interval
	e.State = StateAttacking
	e.pendingAttack = &AttackIntent{TargetID: e.Blackboard.TargetID}
	return Success
}

func (t *TaskAttackMelee) Reset(e *Entity) {
	t.clear()
	t.cooldown = 0
}

// TaskAttackRanged is TaskAttackMelee with a range gate: it fails when
// the target position is unknown or outside the entity's attack range.
type TaskAttackRanged struct {
	base
	Interval float64

	cooldown float64
}

func NewAttackRanged(interval float64) *TaskAttackRanged {
	return &TaskAttackRanged{Interval: interval}
}

func (t *TaskAttackRanged) Run(e *Entity, ctx *Context, dt float64) Result {
	bb := e.Blackboard
	if bb.TargetID == "" {
		return Failed
	}
	if bb.TargetPosition == nil || e.Position.DistanceTo(*bb.TargetPosition) > e.AttackRange {
		return Failed
	}
	t.cooldown -= dt
	if t.cooldown > 0 {
		return Running
	}
	t.cooldown = t.Interval
	e.State = StateAttacking
	e.pendingAttack = &AttackIntent{TargetID: bb.TargetID, Ranged: true}
	return Success
}

func (t *TaskAttackRanged) Reset(e *Entity) {
	t.clear()
	t.cooldown = 0
}

// TaskFindNearestEnemy scans the context's enemy list for the closest
// living unit within Radius. On success it records target id, target
// position and a last-seen-enemy sighting on the blackboard.
type TaskFindNearestEnemy struct {
	base
	Radius float64
}

func NewFindNearestEnemy(radius float64) *TaskFindNearestEnemy {
	return &TaskFindNearestEnemy{Radius: radius}
}

func (t *TaskFindNearestEnemy) Run(e *Entity, ctx *Context, dt float64) Result {
	enemy, ok := ctx.NearestEnemy(e.Position, t.Radius)
	if !ok {
		return Failed
	}
	bb := e.Blackboard
	bb.TargetID = enemy.ID
	pos := enemy.Position
	bb.TargetPosition = &pos
	bb.LastSeenEnemy = &EnemySighting{ID: enemy.ID, Position: enemy.Position, SeenAt: ctx.Now}
	return Success
}

func (t *TaskFindNearestEnemy) Reset(e *Entity) { t.clear() }

// TaskGatherResource accumulates gather progress on the resource type
// noted on the blackboard, succeeding at the blackboard's gather
// amount. Fails when no resource type is assigned.
type TaskGatherResource struct {
	base
	Rate float64

	progress float64
}

func NewGatherResource(rate float64) *TaskGatherResource {
	return &TaskGatherResource{Rate: rate}
}

func (t *TaskGatherResource) Run(e *Entity, ctx *Context, dt float64) Result {
	if e.Blackboard.ResourceType == "" {
		return Failed
	}
	e.State = StateGathering
	t.progress += t.Rate * dt
	if t.progress >= e.Blackboard.gatherAmount() {
		t.progress = 0
		return Success
	}
	return Running
}

func (t *TaskGatherResource) Reset(e *Entity) {
	t.clear()
	t.progress = 0
}

// TaskFindNearestResource scans the context's resource nodes for the
// closest one within Radius that still has something left. On success
// it records the node's type and position on the blackboard so the
// gather pipeline can walk over and work it.
type TaskFindNearestResource struct {
	base
	Radius float64
}

func NewFindNearestResource(radius float64) *TaskFindNearestResource {
	return &TaskFindNearestResource{Radius: radius}
}

func (t *TaskFindNearestResource) Run(e *Entity, ctx *Context, dt float64) Result {
	node, ok := ctx.NearestResource(e.Position, t.Radius)
	if !ok {
		return Failed
	}
	bb := e.Blackboard
	bb.ResourceType = node.Type
	pos := node.Position
	bb.TargetPosition = &pos
	return Success
}

func (t *TaskFindNearestResource) Reset(e *Entity) { t.clear() }

// TaskBuild accumulates construction progress on the building type
// noted on the blackboard, succeeding once Work units are done. Fails
// when no building type is assigned.
type TaskBuild struct {
	base
	Rate float64
	Work float64

	progress float64
}

func NewBuild(rate, work float64) *TaskBuild {
	return &TaskBuild{Rate: rate, Work: work}
}

func (t *TaskBuild) Run(e *Entity, ctx *Context, dt float64) Result {
	if e.Blackboard.BuildingType == "" {
		return Failed
	}
	e.State = StateBuilding
	t.progress += t.Rate * dt
	if t.progress >= t.Work {
		t.progress = 0
		return Success
	}
	return Running
}

func (t *TaskBuild) Reset(e *Entity) {
	t.clear()
	t.progress = 0
}
