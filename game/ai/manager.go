package ai

import "go.uber.org/zap"

// ManagerConfig tunes a Manager.
//
// UpdateInterval > 0 enables throttled re-scoring: once the interval
// elapses, at most MaxEntitiesPerUpdate entities get a fresh behavior
// pick in that call, while the rest keep executing their active tree.
// This bounds per-tick CPU at the cost of re-scoring latency for
// entities beyond the cap.
type ManagerConfig struct {
	UpdateInterval       float64
	MaxEntitiesPerUpdate int
	Bounds               Bounds
	Logger               *zap.Logger
}

type activeBehavior struct {
	id    string
	label string
	tree  Node
}

// Manager owns all autonomous entities of one arena: it snapshots the
// world each tick, picks behaviors, executes trees and applies the
// damage and death side effects of fired attacks.
//
// The Manager is not goroutine safe. It is designed to be driven by a
// single loop (the arena's), which serializes all access.
type Manager struct {
	cfg    ManagerConfig
	picker *Picker
	logger *zap.Logger

	entities map[string]*Entity
	order    []string // registration order, also iteration order
	active   map[string]*activeBehavior

	resources []ResourceNode
	buildings []Building

	now          float64
	sinceRescore float64
}

// NewManager creates a Manager using the given picker for behavior
// selection. A nil picker leaves every entity without behaviors, which
// is occasionally useful in tests that drive trees by hand.
func NewManager(picker *Picker, cfg ManagerConfig) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		cfg:      cfg,
		picker:   picker,
		logger:   logger,
		entities: make(map[string]*Entity),
		active:   make(map[string]*activeBehavior),
	}
}

// Now returns the accumulated simulation time in seconds.
func (m *Manager) Now() float64 { return m.now }

// Count returns the number of registered entities, dead ones included.
func (m *Manager) Count() int { return len(m.order) }

// SetResources replaces the world's resource node list.
func (m *Manager) SetResources(nodes []ResourceNode) { m.resources = nodes }

// SetBuildings replaces the world's building list.
func (m *Manager) SetBuildings(b []Building) { m.buildings = b }

// CreateEntity spawns a unit and registers it for updates.
func (m *Manager) CreateEntity(cfg EntityConfig) *Entity {
	e := NewEntity(cfg)
	m.entities[e.ID] = e
	m.order = append(m.order, e.ID)
	m.logger.Debug("entity created",
		zap.String("id", e.ID),
		zap.String("unit_type", e.UnitType),
		zap.String("team", e.Team.String()))
	return e
}

// Entity returns a registered entity, or nil for an unknown id.
func (m *Manager) Entity(id string) *Entity { return m.entities[id] }

// RemoveEntity unregisters a unit. Returns false for an unknown id.
func (m *Manager) RemoveEntity(id string) bool {
	if _, ok := m.entities[id]; !ok {
		return false
	}
	delete(m.entities, id)
	delete(m.active, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// DamageEntity applies damage and reports whether the unit died from
// it. Unknown or already dead ids are a no-op returning false. When
// the attacker is known, the victim's last-seen-enemy sighting is
// refreshed so flee and defensive behaviors can react.
func (m *Manager) DamageEntity(id string, amount float64, attackerID string) bool {
	e := m.entities[id]
	if e == nil || !e.Alive() {
		return false
	}
	e.Health -= amount
	if attacker := m.entities[attackerID]; attacker != nil {
		e.Blackboard.LastSeenEnemy = &EnemySighting{
			ID:       attacker.ID,
			Position: attacker.Position,
			SeenAt:   m.now,
		}
	}
	if e.Health > 0 {
		return false
	}
	e.Health = 0
	e.State = StateDead
	e.Velocity = Vec3{}
	e.DiedAt = m.now
	delete(m.active, id)
	m.logger.Info("entity died",
		zap.String("id", id),
		zap.String("killer", attackerID))
	return true
}

// HealEntity restores health up to the maximum. Unknown or dead ids
// are a no-op returning false.
func (m *Manager) HealEntity(id string, amount float64) bool {
	e := m.entities[id]
	if e == nil || !e.Alive() {
		return false
	}
	e.Health += amount
	if e.Health > e.MaxHealth {
		e.Health = e.MaxHealth
	}
	return true
}

// SetEntityPatrolPoints installs a patrol route. The change takes
// effect for behavior scoring immediately but an active tree keeps
// running until it terminates.
func (m *Manager) SetEntityPatrolPoints(id string, points []Vec3) bool {
	e := m.entities[id]
	if e == nil {
		return false
	}
	e.Blackboard.PatrolPoints = append([]Vec3(nil), points...)
	e.Blackboard.PatrolIndex = 0
	return true
}

// SetEntityTarget points a unit at another entity. In-flight tasks see
// the new target id and position on their next tick.
func (m *Manager) SetEntityTarget(id, targetID string) bool {
	e := m.entities[id]
	target := m.entities[targetID]
	if e == nil || target == nil {
		return false
	}
	e.Blackboard.TargetID = targetID
	pos := target.Position
	e.Blackboard.TargetPosition = &pos
	return true
}

// MoveEntityTo sets a movement destination on the blackboard. An
// in-flight MoveTo re-reads the destination each tick and redirects.
func (m *Manager) MoveEntityTo(id string, dest Vec3) bool {
	e := m.entities[id]
	if e == nil {
		return false
	}
	d := dest
	e.Blackboard.TargetPosition = &d
	return true
}

// Update advances the simulation by dt seconds: one synchronous pass
// over all entities in registration order. The world is snapshotted
// once up front, so every entity sees the same pre-tick view; moves by
// earlier entities become visible next tick.
func (m *Manager) Update(dt float64) {
	m.now += dt

	snapshot := m.snapshotUnits()

	// rescoreBudget < 0 means unthrottled.
	rescoreBudget := -1
	if m.cfg.UpdateInterval > 0 {
		m.sinceRescore += dt
		if m.sinceRescore >= m.cfg.UpdateInterval {
			m.sinceRescore = 0
			rescoreBudget = m.cfg.MaxEntitiesPerUpdate
		} else {
			rescoreBudget = 0
		}
	}

	order := append([]string(nil), m.order...)
	for _, id := range order {
		e := m.entities[id]
		if e == nil || !e.Alive() {
			continue
		}
		ctx := m.contextFor(e, snapshot)

		ab := m.active[id]
		if (ab == nil || ab.tree.Result().Terminal()) && rescoreBudget != 0 && m.picker != nil {
			if pick := m.picker.PickBehavior(e, ctx); pick != nil {
				if ab == nil || ab.id != pick.ID {
					m.logger.Debug("behavior selected",
						zap.String("id", id),
						zap.String("behavior", pick.ID),
						zap.Float64("score", pick.Score))
				}
				ab = &activeBehavior{id: pick.ID, label: pick.Label, tree: pick.Tree}
				m.active[id] = ab
			} else {
				// No applicable behavior this tick: stay idle, no crash.
				delete(m.active, id)
				ab = nil
				e.State = StateIdle
			}
			if rescoreBudget > 0 {
				rescoreBudget--
			}
		}

		if ab != nil {
			Execute(ab.tree, e, ctx, dt)
			m.applyAttack(e)
		}
	}
}

// ForEach calls fn for every registered entity in registration order.
// Callers must not add or remove entities from within fn.
func (m *Manager) ForEach(fn func(*Entity)) {
	for _, id := range m.order {
		if e := m.entities[id]; e != nil {
			fn(e)
		}
	}
}

// applyAttack drains a fired attack intent and applies its damage.
func (m *Manager) applyAttack(e *Entity) {
	intent := e.pendingAttack
	if intent == nil {
		return
	}
	e.pendingAttack = nil
	target := m.entities[intent.TargetID]
	if target == nil || !target.Alive() {
		return
	}
	m.DamageEntity(intent.TargetID, e.AttackPower, e.ID)
}

// snapshotUnits copies every entity into value snapshots for this
// tick's contexts.
func (m *Manager) snapshotUnits() []UnitSnapshot {
	units := make([]UnitSnapshot, 0, len(m.order))
	for _, id := range m.order {
		e := m.entities[id]
		if e == nil {
			continue
		}
		units = append(units, UnitSnapshot{
			ID:          e.ID,
			Name:        e.Name,
			UnitType:    e.UnitType,
			Team:        e.Team,
			State:       e.State,
			Position:    e.Position,
			Health:      e.Health,
			MaxHealth:   e.MaxHealth,
			AttackRange: e.AttackRange,
		})
	}
	return units
}

// contextFor assembles the per-entity view over the shared snapshot.
// Neutral units have no enemies and nobody counts them as one.
func (m *Manager) contextFor(e *Entity, snapshot []UnitSnapshot) *Context {
	ctx := &Context{
		Resources: m.resources,
		Buildings: m.buildings,
		Now:       m.now,
		Bounds:    m.cfg.Bounds,
	}
	for _, u := range snapshot {
		if u.ID == e.ID {
			continue
		}
		switch {
		case u.Team == e.Team:
			ctx.Allies = append(ctx.Allies, u)
		case u.Team != TeamNeutral && e.Team != TeamNeutral:
			ctx.Enemies = append(ctx.Enemies, u)
		}
	}
	return ctx
}

// EntityDebug is one row of observability output.
type EntityDebug struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitType  string  `json:"unit_type"`
	Team      string  `json:"team"`
	Behavior  string  `json:"behavior"`
	State     string  `json:"state"`
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"max_health"`
	Position  Vec3    `json:"position"`
}

// DebugInfo reports every entity's id, active behavior label, state
// and health, in registration order. Observability only.
func (m *Manager) DebugInfo() []EntityDebug {
	out := make([]EntityDebug, 0, len(m.order))
	for _, id := range m.order {
		e := m.entities[id]
		if e == nil {
			continue
		}
		behavior := ""
		if ab := m.active[id]; ab != nil {
			behavior = ab.label
		}
		out = append(out, EntityDebug{
			ID:        e.ID,
			Name:      e.Name,
			UnitType:  e.UnitType,
			Team:      e.Team.String(),
			Behavior:  behavior,
			State:     e.State.String(),
			Health:    e.Health,
			MaxHealth: e.MaxHealth,
			Position:  e.Position,
		})
	}
	return out
}
