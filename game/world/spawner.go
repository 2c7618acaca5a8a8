package world

import (
	"time"

	"github.com/soratane/unitmind/game/ai"
	"github.com/soratane/unitmind/resource"
	"go.uber.org/zap"
)

// Spawner keeps an arena's spawn groups populated. It spawns every
// group on arena start and replaces dead units once their group's
// respawn delay has elapsed. All manager access goes through the
// arena loop, so group bookkeeping needs no lock of its own.
type Spawner struct {
	arena  *Arena
	groups []*spawnGroup
	logger *zap.Logger
}

type spawnGroup struct {
	cfg    resource.SpawnGroup
	patrol []ai.Vec3
	ids    []string // entity ids ever spawned for this group, corpses included
}

// NewSpawner creates a Spawner for an arena from its scenario's spawn
// groups.
func NewSpawner(arena *Arena, sc *resource.Scenario, logger *zap.Logger) *Spawner {
	if logger == nil {
		logger = zap.NewNop()
	}
	groups := make([]*spawnGroup, 0, len(sc.Spawns))
	for _, cfg := range sc.Spawns {
		g := &spawnGroup{cfg: cfg}
		for _, p := range sc.PatrolRoutes[cfg.PatrolRoute] {
			g.patrol = append(g.patrol, ai.Vec3{X: p.X, Z: p.Z})
		}
		groups = append(groups, g)
	}
	return &Spawner{arena: arena, groups: groups, logger: logger}
}

// SpawnAll fills every group to its configured count. Called once on
// arena start.
func (sp *Spawner) SpawnAll() {
	sp.arena.Do(func(m *ai.Manager) {
		for _, g := range sp.groups {
			sp.fillGroup(m, g, false)
		}
	})
}

// CheckRespawns replaces dead group members whose respawn delay has
// elapsed. Driven periodically by the scheduler.
func (sp *Spawner) CheckRespawns() {
	sp.arena.Do(func(m *ai.Manager) {
		for _, g := range sp.groups {
			sp.fillGroup(m, g, true)
		}
	})
}

// RespawnAfter refills one named group after a delay, regardless of
// its configured respawn seconds.
func (sp *Spawner) RespawnAfter(name string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		sp.arena.Do(func(m *ai.Manager) {
			for _, g := range sp.groups {
				if g.cfg.Name == name {
					sp.fillGroup(m, g, false)
				}
			}
		})
	})
}

// fillGroup tops a group back up to its count. With respectDelay set,
// a corpse only frees its slot once the respawn delay has passed; a
// freed corpse is removed from the world when its slot refills.
func (sp *Spawner) fillGroup(m *ai.Manager, g *spawnGroup, respectDelay bool) {
	alive := 0
	var expired []string
	for _, id := range g.ids {
		e := m.Entity(id)
		if e == nil {
			continue
		}
		if e.Alive() {
			alive++
			continue
		}
		if respectDelay && m.Now() < e.DiedAt+g.cfg.RespawnSeconds {
			alive++ // slot still held by the cooling-down corpse
			continue
		}
		expired = append(expired, id)
	}
	for _, id := range expired {
		m.RemoveEntity(id)
	}

	for i := alive; i < g.cfg.Count; i++ {
		e := m.CreateEntity(sp.entityConfig(g, i))
		g.ids = append(g.ids, e.ID)
		sp.logger.Info("unit spawned",
			zap.String("id", e.ID),
			zap.String("group", g.cfg.Name),
			zap.String("unit_type", g.cfg.UnitType))
	}

	// Drop ids that no longer resolve to anything.
	kept := g.ids[:0]
	for _, id := range g.ids {
		if m.Entity(id) != nil {
			kept = append(kept, id)
		}
	}
	g.ids = kept
}

func (sp *Spawner) entityConfig(g *spawnGroup, slot int) ai.EntityConfig {
	tpl := sp.arena.unitTypes[g.cfg.UnitType]
	pos := ai.Vec3{X: g.cfg.X + float64(slot)*2, Z: g.cfg.Z}
	cfg := ai.EntityConfig{
		Name:         g.cfg.Name,
		UnitType:     g.cfg.UnitType,
		Team:         TeamFromString(g.cfg.Team),
		Position:     pos,
		Health:       tpl.Health,
		AttackPower:  tpl.AttackPower,
		AttackRange:  tpl.AttackRange,
		Speed:        tpl.Speed,
		FleeDistance: tpl.FleeDistance,
		PatrolPoints: g.patrol,
	}
	if g.cfg.Home {
		home := ai.Vec3{X: g.cfg.X, Z: g.cfg.Z}
		cfg.Home = &home
	}
	return cfg
}
