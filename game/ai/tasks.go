package ai

import (
	"math"
	"math/rand"
)

// moveToward advances e straight toward dest at the given speed for
// one tick, updating velocity and yaw, and returns the remaining
// distance. No obstacle avoidance happens here.
func moveToward(e *Entity, dest Vec3, speed, dt float64) float64 {
	delta := dest.Sub(e.Position)
	dist := delta.Length()
	if dist < 1e-9 {
		e.Velocity = Vec3{}
		return 0
	}
	dir := delta.Scale(1 / dist)
	step := speed * dt
	if step > dist {
		step = dist
	}
	e.Position = e.Position.Add(dir.Scale(step))
	e.Velocity = dir.Scale(speed)
	e.Yaw = dir.Yaw()
	return dist - step
}

// TaskWait accumulates delta time and succeeds once the duration has
// elapsed.
type TaskWait struct {
	base
	Duration float64

	elapsed float64
}

func NewWait(duration float64) *TaskWait {
	return &TaskWait{Duration: duration}
}

func (t *TaskWait) Run(e *Entity, ctx *Context, dt float64) Result {
	t.elapsed += dt
	if t.elapsed >= t.Duration {
		return Success
	}
	return Running
}

func (t *TaskWait) Reset(e *Entity) {
	t.clear()
	t.elapsed = 0
}

// TaskMoveTo walks straight toward blackboard.TargetPosition at the
// entity's speed, succeeding within the arrival threshold. Fails when
// no target position is set. The target is re-read every tick, so a
// caller mutating the blackboard redirects an in-flight move.
type TaskMoveTo struct {
	base
	ArrivalThreshold float64
}

func NewMoveTo(arrivalThreshold float64) *TaskMoveTo {
	return &TaskMoveTo{ArrivalThreshold: arrivalThreshold}
}

func (t *TaskMoveTo) Run(e *Entity, ctx *Context, dt float64) Result {
	target := e.Blackboard.TargetPosition
	if target == nil {
		return Failed
	}
	if e.Position.DistanceTo(*target) <= t.ArrivalThreshold {
		e.Velocity = Vec3{}
		return Success
	}
	e.State = StateMoving
	if moveToward(e, *target, e.Speed, dt) <= t.ArrivalThreshold {
		e.Velocity = Vec3{}
		return Success
	}
	return Running
}

func (t *TaskMoveTo) Reset(e *Entity) { t.clear() }

// TaskPickRandomSpot writes a uniformly sampled ground-plane point
// within Radius of home (or of the current position when no home is
// set) into blackboard.TargetPosition. Always succeeds.
type TaskPickRandomSpot struct {
	base
	Radius float64
}

func NewPickRandomSpot(radius float64) *TaskPickRandomSpot {
	return &TaskPickRandomSpot{Radius: radius}
}

func (t *TaskPickRandomSpot) Run(e *Entity, ctx *Context, dt float64) Result {
	center := e.Position
	if e.Blackboard.HomePosition != nil {
		center = *e.Blackboard.HomePosition
	}
	// sqrt keeps the sample uniform over the disc area.
	r := t.Radius * math.Sqrt(rand.Float64())
	a := rand.Float64() * 2 * math.Pi
	spot := Vec3{
		X: center.X + r*math.Cos(a),
		Y: center.Y,
		Z: center.Z + r*math.Sin(a),
	}
	e.Blackboard.TargetPosition = &spot
	return Success
}

func (t *TaskPickRandomSpot) Reset(e *Entity) { t.clear() }

// TaskFlee runs directly away from blackboard.LastSeenEnemy at a
// boosted speed until the flee distance is reached. Fails when no
// threat is remembered.
type TaskFlee struct {
	base
	SpeedMultiplier float64
}

func NewFlee(speedMultiplier float64) *TaskFlee {
	return &TaskFlee{SpeedMultiplier: speedMultiplier}
}

func (t *TaskFlee) Run(e *Entity, ctx *Context, dt float64) Result {
	threat := e.Blackboard.LastSeenEnemy
	if threat == nil {
		return Failed
	}
	if e.Position.DistanceTo(threat.Position) >= e.Blackboard.fleeDistance() {
		e.Velocity = Vec3{}
		return Success
	}
	e.State = StateFleeing
	away := e.Position.Sub(threat.Position).Normalized()
	if away.Length() < 1e-9 {
		// Standing exactly on the threat; pick an arbitrary direction.
		away = Vec3{X: 1}
	}
	speed := e.Speed * t.SpeedMultiplier
	e.Position = e.Position.Add(away.Scale(speed * dt))
	e.Velocity = away.Scale(speed)
	e.Yaw = away.Yaw()
	if e.Position.DistanceTo(threat.Position) >= e.Blackboard.fleeDistance() {
		e.Velocity = Vec3{}
		return Success
	}
	return Running
}

func (t *TaskFlee) Reset(e *Entity) { t.clear() }

// TaskPatrol cycles through blackboard.PatrolPoints in order, wrapping
// around and pausing WaitTime at each waypoint. The task never
// succeeds on its own; it is meant to run standalone or under a
// Repeat. Fails when no patrol points are set.
type TaskPatrol struct {
	base
	WaitTime float64

	waiting float64
}

func NewPatrol(waitTime float64) *TaskPatrol {
	return &TaskPatrol{WaitTime: waitTime}
}

const patrolArrival = 0.5

func (t *TaskPatrol) Run(e *Entity, ctx *Context, dt float64) Result {
	bb := e.Blackboard
	if len(bb.PatrolPoints) == 0 {
		return Failed
	}
	if bb.PatrolIndex >= len(bb.PatrolPoints) {
		bb.PatrolIndex = 0
	}
	dest := bb.PatrolPoints[bb.PatrolIndex]

	if e.Position.DistanceTo(dest) <= patrolArrival {
		e.Velocity = Vec3{}
		t.waiting += dt
		if t.waiting >= t.WaitTime {
			t.waiting = 0
			bb.PatrolIndex = (bb.PatrolIndex + 1) % len(bb.PatrolPoints)
		}
		return Running
	}

	t.waiting = 0
	e.State = StateMoving
	moveToward(e, dest, e.Speed, dt)
	return Running
}

func (t *TaskPatrol) Reset(e *Entity) {
	t.clear()
	t.waiting = 0
}

// TaskChaseTarget moves toward blackboard.TargetPosition at a boosted
// speed and succeeds once the target is inside the entity's attack
// range, meaning "ready to attack" rather than literal arrival.
type TaskChaseTarget struct {
	base
	SpeedMultiplier float64
}

func NewChaseTarget(speedMultiplier float64) *TaskChaseTarget {
	return &TaskChaseTarget{SpeedMultiplier: speedMultiplier}
}

func (t *TaskChaseTarget) Run(e *Entity, ctx *Context, dt float64) Result {
	target := e.Blackboard.TargetPosition
	if target == nil {
		return Failed
	}
	if e.Position.DistanceTo(*target) <= e.AttackRange {
		e.Velocity = Vec3{}
		return Success
	}
	e.State = StateMoving
	if moveToward(e, *target, e.Speed*t.SpeedMultiplier, dt) <= e.AttackRange {
		e.Velocity = Vec3{}
		return Success
	}
	return Running
}

func (t *TaskChaseTarget) Reset(e *Entity) { t.clear() }

// TaskReturnHome walks back to blackboard.HomePosition, succeeding
// within one unit. Fails when no home is set.
type TaskReturnHome struct {
	base
}

func NewReturnHome() *TaskReturnHome {
	return &TaskReturnHome{}
}

const homeArrival = 1.0

func (t *TaskReturnHome) Run(e *Entity, ctx *Context, dt float64) Result {
	home := e.Blackboard.HomePosition
	if home == nil {
		return Failed
	}
	if e.Position.DistanceTo(*home) <= homeArrival {
		e.Velocity = Vec3{}
		return Success
	}
	e.State = StateMoving
	if moveToward(e, *home, e.Speed, dt) <= homeArrival {
		e.Velocity = Vec3{}
		return Success
	}
	return Running
}

func (t *TaskReturnHome) Reset(e *Entity) { t.clear() }
