package ai

import "github.com/google/uuid"

// Team is a unit's affiliation. Neutral units fight nobody.
type Team int

const (
	TeamPlayer Team = iota
	TeamEnemy
	TeamNeutral
)

func (t Team) String() string {
	switch t {
	case TeamPlayer:
		return "player"
	case TeamEnemy:
		return "enemy"
	default:
		return "neutral"
	}
}

// State is a unit's discrete activity state.
type State int

const (
	StateIdle State = iota
	StateMoving
	StateAttacking
	StateGathering
	StateBuilding
	StateFleeing
	StateDead
)

func (s State) String() string {
	switch s {
	case StateMoving:
		return "moving"
	case StateAttacking:
		return "attacking"
	case StateGathering:
		return "gathering"
	case StateBuilding:
		return "building"
	case StateFleeing:
		return "fleeing"
	case StateDead:
		return "dead"
	default:
		return "idle"
	}
}

// RenderHandle is an opaque mesh/object handle owned by the rendering
// layer. The AI core never touches it; the world glue mirrors the
// entity pose onto it once per tick.
type RenderHandle interface {
	SyncPose(pos Vec3, yaw float64)
}

// AttackIntent is recorded by attack tasks when an attack fires. The
// manager drains it after the tree tick and applies damage.
type AttackIntent struct {
	TargetID string
	Ranged   bool
}

// Entity is a simulated autonomous unit. Tasks are the sole writers of
// its kinematics (Position, Velocity, Yaw); everything else mutates it
// only through the manager.
type Entity struct {
	ID       string
	Name     string
	UnitType string
	Team     Team
	State    State

	Position Vec3
	Velocity Vec3
	Yaw      float64

	Health      float64
	MaxHealth   float64
	AttackPower float64
	AttackRange float64
	Speed       float64

	Blackboard *Blackboard

	// Render is optional and owned externally; the AI core only flips
	// State to dead, removal from the world is the caller's job.
	Render RenderHandle

	DiedAt float64 // sim time of death, 0 while alive

	pendingAttack *AttackIntent
}

// EntityConfig is the spawn-time description of a unit.
type EntityConfig struct {
	Name         string
	UnitType     string
	Team         Team
	Position     Vec3
	Home         *Vec3
	Health       float64
	AttackPower  float64
	AttackRange  float64
	Speed        float64
	FleeDistance float64
	PatrolPoints []Vec3
	Render       RenderHandle
}

// NewEntity builds a unit from a config, assigning a fresh instance ID
// and a private blackboard seeded with the home position.
func NewEntity(cfg EntityConfig) *Entity {
	bb := NewBlackboard()
	if cfg.Home != nil {
		home := *cfg.Home
		bb.HomePosition = &home
	}
	if cfg.FleeDistance > 0 {
		bb.FleeDistance = cfg.FleeDistance
	}
	if len(cfg.PatrolPoints) > 0 {
		bb.PatrolPoints = append([]Vec3(nil), cfg.PatrolPoints...)
	}

	health := cfg.Health
	if health <= 0 {
		health = 100
	}
	speed := cfg.Speed
	if speed <= 0 {
		speed = 5
	}

	return &Entity{
		ID:          uuid.NewString(),
		Name:        cfg.Name,
		UnitType:    cfg.UnitType,
		Team:        cfg.Team,
		State:       StateIdle,
		Position:    cfg.Position,
		Health:      health,
		MaxHealth:   health,
		AttackPower: cfg.AttackPower,
		AttackRange: cfg.AttackRange,
		Speed:       speed,
		Blackboard:  bb,
		Render:      cfg.Render,
	}
}

func (e *Entity) Alive() bool { return e.State != StateDead }

// HealthRatio is health over max health, clamped to [0, 1].
func (e *Entity) HealthRatio() float64 {
	if e.MaxHealth <= 0 {
		return 0
	}
	r := e.Health / e.MaxHealth
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
