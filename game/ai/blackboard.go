package ai

const (
	// DefaultFleeDistance is how far a unit runs from a threat before
	// the flee task reports success.
	DefaultFleeDistance = 15.0
	// DefaultGatherAmount is the progress a gather task accumulates
	// before reporting success.
	DefaultGatherAmount = 10.0
)

// EnemySighting is the last-seen-enemy snapshot a unit remembers.
type EnemySighting struct {
	ID       string
	Position Vec3
	SeenAt   float64 // sim time in seconds
}

// Blackboard is per-entity scratch memory. It is owned exclusively by
// its entity: tasks read and write it, scorers only read it, and a
// reference must never leak to another entity.
type Blackboard struct {
	TargetID       string
	TargetPosition *Vec3
	HomePosition   *Vec3

	PatrolPoints []Vec3
	PatrolIndex  int

	LastSeenEnemy *EnemySighting

	FleeDistance float64
	ResourceType string
	GatherAmount float64
	BuildingType string
}

// NewBlackboard returns a blackboard with the default flee distance
// and gather amount filled in.
func NewBlackboard() *Blackboard {
	return &Blackboard{
		FleeDistance: DefaultFleeDistance,
		GatherAmount: DefaultGatherAmount,
	}
}

func (b *Blackboard) fleeDistance() float64 {
	if b.FleeDistance > 0 {
		return b.FleeDistance
	}
	return DefaultFleeDistance
}

func (b *Blackboard) gatherAmount() float64 {
	if b.GatherAmount > 0 {
		return b.GatherAmount
	}
	return DefaultGatherAmount
}
