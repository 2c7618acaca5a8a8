package world

import (
	"context"
	"encoding/json"
	"time"

	"github.com/soratane/unitmind/game/ai"
	"github.com/soratane/unitmind/pubsub"
	"github.com/soratane/unitmind/resource"
	"go.uber.org/zap"
)

const defaultTickInterval = 50 * time.Millisecond // 20 TPS

// SnapshotTopic is the pub/sub topic arena snapshots are published on.
const SnapshotTopic = "arena.snapshot"

// ArenaConfig tunes an Arena.
type ArenaConfig struct {
	TickInterval         time.Duration
	UpdateInterval       float64 // seconds between behavior re-scoring passes, 0 = every tick
	MaxEntitiesPerUpdate int
}

// Arena hosts one simulation instance: an ai.Manager driven by a
// fixed-step game loop. The manager takes no locks, so every mutation
// and read goes through Do, which serializes command functions onto
// the loop goroutine between ticks.
type Arena struct {
	name      string
	manager   *ai.Manager
	colliders []ai.TerrainCollider
	mapW      float64
	mapH      float64
	gridSize  float64
	unitTypes map[string]resource.UnitType

	bus    *pubsub.Bus
	logger *zap.Logger

	tick   time.Duration
	cmdQ   chan func(*ai.Manager)
	stopCh chan struct{}
}

// NewArena builds an arena from a loaded scenario but does not start
// the game loop.
func NewArena(sc *resource.Scenario, bus *pubsub.Bus, cfg ArenaConfig, logger *zap.Logger) *Arena {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bounds := ai.Bounds{
		Max: ai.Vec3{X: sc.Map.Width, Z: sc.Map.Height},
	}
	mgr := ai.NewManager(ai.NewDefaultPicker(), ai.ManagerConfig{
		UpdateInterval:       cfg.UpdateInterval,
		MaxEntitiesPerUpdate: cfg.MaxEntitiesPerUpdate,
		Bounds:               bounds,
		Logger:               logger,
	})

	colliders := make([]ai.TerrainCollider, 0, len(sc.Map.Colliders))
	for _, c := range sc.Map.Colliders {
		colliders = append(colliders, ai.TerrainCollider{
			X:        c.X,
			Y:        c.Z,
			Radius:   c.Radius,
			Collides: !c.Passable,
		})
	}

	nodes := make([]ai.ResourceNode, 0, len(sc.Resources))
	for _, r := range sc.Resources {
		nodes = append(nodes, ai.ResourceNode{
			ID:        r.ID,
			Type:      r.Type,
			Position:  ai.Vec3{X: r.X, Z: r.Z},
			Remaining: r.Amount,
		})
	}
	mgr.SetResources(nodes)

	buildings := make([]ai.Building, 0, len(sc.Buildings))
	for _, b := range sc.Buildings {
		buildings = append(buildings, ai.Building{
			ID:       b.ID,
			Type:     b.Type,
			Team:     TeamFromString(b.Team),
			Position: ai.Vec3{X: b.X, Z: b.Z},
			Health:   b.Health,
		})
	}
	mgr.SetBuildings(buildings)

	return &Arena{
		name:      sc.Name,
		manager:   mgr,
		colliders: colliders,
		mapW:      sc.Map.Width,
		mapH:      sc.Map.Height,
		gridSize:  sc.Map.GridSize,
		unitTypes: sc.UnitTypes,
		bus:       bus,
		logger:    logger,
		tick:      cfg.TickInterval,
		cmdQ:      make(chan func(*ai.Manager), 256),
		stopCh:    make(chan struct{}),
	}
}

// Name returns the scenario name this arena was built from.
func (a *Arena) Name() string { return a.name }

// UnitType looks up a unit template from the scenario.
func (a *Arena) UnitType(name string) (resource.UnitType, bool) {
	t, ok := a.unitTypes[name]
	return t, ok
}

// Run starts the game loop. Call in a goroutine.
func (a *Arena) Run() {
	ticker := time.NewTicker(a.tick)
	defer ticker.Stop()
	dt := a.tick.Seconds()
	for {
		select {
		case <-ticker.C:
			a.step(dt)
		case cmd := <-a.cmdQ:
			cmd(a.manager)
		case <-a.stopCh:
			return
		}
	}
}

// Stop signals the game loop to exit.
func (a *Arena) Stop() {
	select {
	case <-a.stopCh:
	default:
		close(a.stopCh)
	}
}

// StopChan returns a channel that is closed when this arena stops.
// Use it to cancel goroutines that must not outlive the arena.
func (a *Arena) StopChan() <-chan struct{} {
	return a.stopCh
}

// Do runs fn on the loop goroutine between ticks and waits for it to
// finish. Returns false without running fn when the arena is stopped.
// Must not be called from within the loop itself.
func (a *Arena) Do(fn func(m *ai.Manager)) bool {
	done := make(chan struct{})
	select {
	case a.cmdQ <- func(m *ai.Manager) {
		fn(m)
		close(done)
	}:
	case <-a.stopCh:
		return false
	}
	select {
	case <-done:
		return true
	case <-a.stopCh:
		return false
	}
}

// step advances the simulation one tick and mirrors entity poses onto
// their render handles.
func (a *Arena) step(dt float64) {
	a.manager.Update(dt)
	a.manager.ForEach(func(e *ai.Entity) {
		if e.Render != nil {
			e.Render.SyncPose(e.Position, e.Yaw)
		}
	})
}

// Snapshot is the wire form of one arena state publication.
type Snapshot struct {
	Arena    string           `json:"arena"`
	Time     float64          `json:"time"`
	Entities []ai.EntityDebug `json:"entities"`
}

// PublishSnapshot serializes the current arena state and publishes it
// on the snapshot topic. Driven periodically by the scheduler.
func (a *Arena) PublishSnapshot(ctx context.Context) {
	var snap Snapshot
	if !a.Do(func(m *ai.Manager) {
		snap = Snapshot{Arena: a.name, Time: m.Now(), Entities: m.DebugInfo()}
	}) {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		a.logger.Error("snapshot marshal failed", zap.Error(err))
		return
	}
	if err := a.bus.Publish(ctx, SnapshotTopic, string(data)); err != nil {
		a.logger.Warn("snapshot publish failed", zap.Error(err))
	}
}

// Path plans a route across the arena's terrain. Safe to call from any
// goroutine: the collider set is immutable after construction.
func (a *Arena) Path(fromX, fromZ, toX, toZ, unitRadius float64) []ai.Waypoint {
	return ai.FindPath(fromX, fromZ, toX, toZ, unitRadius, a.colliders, a.mapW, a.mapH, a.gridSize)
}

// TeamFromString maps a scenario team name to an ai.Team. Unknown
// names are neutral.
func TeamFromString(s string) ai.Team {
	switch s {
	case "player":
		return ai.TeamPlayer
	case "enemy":
		return ai.TeamEnemy
	default:
		return ai.TeamNeutral
	}
}
