package world

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soratane/unitmind/game/ai"
	"github.com/soratane/unitmind/pubsub"
	"github.com/soratane/unitmind/resource"
)

func testScenario() *resource.Scenario {
	sc := &resource.Scenario{
		Name: "testmap",
		Map: resource.MapDef{
			Width:  1000,
			Height: 1000,
			Colliders: []resource.Collider{
				{X: 500, Z: 500, Radius: 120},
				{X: 100, Z: 100, Radius: 50, Passable: true},
			},
		},
		UnitTypes: map[string]resource.UnitType{
			"soldier": {Health: 100, Speed: 5, AttackPower: 10, AttackRange: 2},
			"worker":  {Health: 60, Speed: 4},
		},
		PatrolRoutes: map[string][]resource.Point{
			"wall": {{X: 200, Z: 200}, {X: 200, Z: 600}},
		},
		Spawns: []resource.SpawnGroup{
			{
				Name: "guards", UnitType: "soldier", Team: "enemy",
				X: 200, Z: 400, Count: 3, RespawnSeconds: 30,
				PatrolRoute: "wall", Home: true,
			},
		},
		Resources: []resource.ResourceNode{
			{ID: "gold-1", Type: "gold", X: 700, Z: 150, Amount: 500},
		},
		Buildings: []resource.Building{
			{ID: "hq", Type: "barracks", Team: "player", X: 850, Z: 120, Health: 500},
		},
	}
	if err := sc.Validate(); err != nil {
		panic(err)
	}
	return sc
}

// startArena runs an arena whose ticker never fires, so simulation
// time only advances when a test pushes Update through Do.
func startArena(t *testing.T, bus *pubsub.Bus) *Arena {
	t.Helper()
	a := NewArena(testScenario(), bus, ArenaConfig{TickInterval: time.Hour}, nil)
	go a.Run()
	t.Cleanup(a.Stop)
	return a
}

type poseRecorder struct {
	mu    sync.Mutex
	calls int
	last  ai.Vec3
}

func (p *poseRecorder) SyncPose(pos ai.Vec3, _ float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.last = pos
}

func (p *poseRecorder) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func TestArena_TickLoopAdvancesAndSyncsPoses(t *testing.T) {
	a := NewArena(testScenario(), pubsub.New(4), ArenaConfig{TickInterval: time.Millisecond}, nil)
	go a.Run()
	t.Cleanup(a.Stop)

	rec := &poseRecorder{}
	require.True(t, a.Do(func(m *ai.Manager) {
		m.CreateEntity(ai.EntityConfig{Team: ai.TeamPlayer, Render: rec})
	}))

	assert.Eventually(t, func() bool { return rec.count() > 0 },
		time.Second, 5*time.Millisecond, "render handle never saw a pose")

	var now float64
	require.True(t, a.Do(func(m *ai.Manager) { now = m.Now() }))
	assert.Positive(t, now)
}

func TestArena_DoAfterStop(t *testing.T) {
	a := startArena(t, pubsub.New(4))
	a.Stop()
	assert.False(t, a.Do(func(*ai.Manager) { t.Fatal("must not run after stop") }))
}

func TestArena_ScenarioWiring(t *testing.T) {
	a := startArena(t, pubsub.New(4))

	assert.Equal(t, "testmap", a.Name())
	require.Len(t, a.colliders, 2)
	assert.True(t, a.colliders[0].Collides)
	assert.False(t, a.colliders[1].Collides, "passable colliders never block")

	// The scorer context must carry the scenario's resources.
	require.True(t, a.Do(func(m *ai.Manager) {
		e := m.CreateEntity(ai.EntityConfig{UnitType: "worker", Team: ai.TeamPlayer, Position: ai.Vec3{X: 700, Z: 150.5}})
		m.Update(0.05)
		assert.Equal(t, ai.StateGathering, e.State, "worker standing on gold should gather")
	}))
}

func TestArena_PathAvoidsBlockingColliders(t *testing.T) {
	a := startArena(t, pubsub.New(4))

	path := a.Path(200, 500, 800, 500, 10)
	require.GreaterOrEqual(t, len(path), 2)
	assert.Equal(t, ai.Waypoint{X: 200, Y: 500}, path[0])
	assert.Equal(t, ai.Waypoint{X: 800, Y: 500}, path[len(path)-1])
	assert.Greater(t, len(path), 2, "straight line crosses the wall, so a detour is needed")
}

func TestArena_PublishSnapshot(t *testing.T) {
	bus := pubsub.New(16)
	a := startArena(t, bus)

	ctx := context.Background()
	ch, cancel, err := bus.Subscribe(ctx, SnapshotTopic)
	require.NoError(t, err)
	defer cancel()

	require.True(t, a.Do(func(m *ai.Manager) {
		m.CreateEntity(ai.EntityConfig{Name: "scout", Team: ai.TeamPlayer})
	}))
	a.PublishSnapshot(ctx)

	select {
	case msg := <-ch:
		var snap Snapshot
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &snap))
		assert.Equal(t, "testmap", snap.Arena)
		require.Len(t, snap.Entities, 1)
		assert.Equal(t, "scout", snap.Entities[0].Name)
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}
}

func TestTeamFromString(t *testing.T) {
	assert.Equal(t, ai.TeamPlayer, TeamFromString("player"))
	assert.Equal(t, ai.TeamEnemy, TeamFromString("enemy"))
	assert.Equal(t, ai.TeamNeutral, TeamFromString("neutral"))
	assert.Equal(t, ai.TeamNeutral, TeamFromString(""))
}
