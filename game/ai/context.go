package ai

// UnitSnapshot is a same-tick value copy of another unit. Snapshots
// are taken once per manager tick, so every entity evaluated in that
// tick sees the same world even after earlier entities have moved.
type UnitSnapshot struct {
	ID          string
	Name        string
	UnitType    string
	Team        Team
	State       State
	Position    Vec3
	Health      float64
	MaxHealth   float64
	AttackRange float64
}

// ResourceNode is a harvestable world object.
type ResourceNode struct {
	ID        string
	Type      string
	Position  Vec3
	Remaining float64
}

// Building is a static world structure.
type Building struct {
	ID       string
	Type     string
	Team     Team
	Position Vec3
	Health   float64
}

// Bounds is the playable map extent.
type Bounds struct {
	Min Vec3
	Max Vec3
}

// Context is the read-only world snapshot handed to scorers and tasks
// for one tick. It is rebuilt every evaluation cycle and must not be
// mutated or retained.
type Context struct {
	Enemies   []UnitSnapshot
	Allies    []UnitSnapshot
	Resources []ResourceNode
	Buildings []Building
	Now       float64
	Bounds    Bounds
}

// NearestEnemy returns the closest living enemy to pos within radius.
// Radius <= 0 means unbounded.
func (c *Context) NearestEnemy(pos Vec3, radius float64) (UnitSnapshot, bool) {
	best := UnitSnapshot{}
	bestDist := radius
	found := false
	for _, u := range c.Enemies {
		if u.State == StateDead {
			continue
		}
		d := u.Position.DistanceTo(pos)
		if radius > 0 && d > radius {
			continue
		}
		if !found || d < bestDist {
			best = u
			bestDist = d
			found = true
		}
	}
	return best, found
}

// EnemyWithin reports whether any living enemy is within radius of pos.
func (c *Context) EnemyWithin(pos Vec3, radius float64) bool {
	_, ok := c.NearestEnemy(pos, radius)
	return ok
}

// NearestResource returns the closest resource node within radius that
// still has something left to gather.
func (c *Context) NearestResource(pos Vec3, radius float64) (ResourceNode, bool) {
	best := ResourceNode{}
	bestDist := radius
	found := false
	for _, r := range c.Resources {
		if r.Remaining <= 0 {
			continue
		}
		d := r.Position.DistanceTo(pos)
		if radius > 0 && d > radius {
			continue
		}
		if !found || d < bestDist {
			best = r
			bestDist = d
			found = true
		}
	}
	return best, found
}
