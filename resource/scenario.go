package resource

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ---- Scenario data structures ----

// Point is a ground-plane position in map units.
type Point struct {
	X float64 `yaml:"x"`
	Z float64 `yaml:"z"`
}

// Collider is a circular terrain obstacle. Passable colliders are
// decoration only and never block movement or pathfinding.
type Collider struct {
	X        float64 `yaml:"x"`
	Z        float64 `yaml:"z"`
	Radius   float64 `yaml:"radius"`
	Passable bool    `yaml:"passable"`
}

// MapDef is the playable extent and terrain of one arena.
type MapDef struct {
	Width     float64    `yaml:"width"`
	Height    float64    `yaml:"height"`
	GridSize  float64    `yaml:"grid_size"`
	Colliders []Collider `yaml:"colliders"`
}

// UnitType holds the static stats for one kind of unit.
type UnitType struct {
	Health       float64 `yaml:"health"`
	Speed        float64 `yaml:"speed"`
	AttackPower  float64 `yaml:"attack_power"`
	AttackRange  float64 `yaml:"attack_range"`
	FleeDistance float64 `yaml:"flee_distance"`
}

// SpawnGroup describes one spawn point: which unit type spawns there,
// how many stay alive at once, and how it respawns.
type SpawnGroup struct {
	Name           string  `yaml:"name"`
	UnitType       string  `yaml:"unit_type"`
	Team           string  `yaml:"team"`
	X              float64 `yaml:"x"`
	Z              float64 `yaml:"z"`
	Count          int     `yaml:"count"`
	RespawnSeconds float64 `yaml:"respawn_seconds"`
	PatrolRoute    string  `yaml:"patrol_route"`
	Home           bool    `yaml:"home"` // anchor spawned units to the spawn point
}

// ResourceNode is a harvestable world object.
type ResourceNode struct {
	ID     string  `yaml:"id"`
	Type   string  `yaml:"type"`
	X      float64 `yaml:"x"`
	Z      float64 `yaml:"z"`
	Amount float64 `yaml:"amount"`
}

// Building is a static world structure.
type Building struct {
	ID     string  `yaml:"id"`
	Type   string  `yaml:"type"`
	Team   string  `yaml:"team"`
	X      float64 `yaml:"x"`
	Z      float64 `yaml:"z"`
	Health float64 `yaml:"health"`
}

// Scenario is the full YAML description of one arena.
type Scenario struct {
	Name         string               `yaml:"name"`
	Map          MapDef               `yaml:"map"`
	UnitTypes    map[string]UnitType  `yaml:"unit_types"`
	Spawns       []SpawnGroup         `yaml:"spawns"`
	PatrolRoutes map[string][]Point   `yaml:"patrol_routes"`
	Resources    []ResourceNode       `yaml:"resources"`
	Buildings    []Building           `yaml:"buildings"`
}

const defaultGridSize = 50.0

var validTeams = map[string]bool{"player": true, "enemy": true, "neutral": true}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", path, err)
	}
	return &sc, nil
}

// Validate checks cross-references and fills defaults in place.
func (sc *Scenario) Validate() error {
	if sc.Map.Width <= 0 || sc.Map.Height <= 0 {
		return fmt.Errorf("map extent %gx%g is not positive", sc.Map.Width, sc.Map.Height)
	}
	if sc.Map.GridSize <= 0 {
		sc.Map.GridSize = defaultGridSize
	}
	for name, route := range sc.PatrolRoutes {
		if len(route) < 2 {
			return fmt.Errorf("patrol route %q needs at least 2 points", name)
		}
	}
	for i := range sc.Spawns {
		sp := &sc.Spawns[i]
		if sp.Name == "" {
			sp.Name = fmt.Sprintf("spawn-%d", i)
		}
		if _, ok := sc.UnitTypes[sp.UnitType]; !ok {
			return fmt.Errorf("spawn %q references unknown unit type %q", sp.Name, sp.UnitType)
		}
		if !validTeams[sp.Team] {
			return fmt.Errorf("spawn %q has invalid team %q", sp.Name, sp.Team)
		}
		if sp.PatrolRoute != "" {
			if _, ok := sc.PatrolRoutes[sp.PatrolRoute]; !ok {
				return fmt.Errorf("spawn %q references unknown patrol route %q", sp.Name, sp.PatrolRoute)
			}
		}
		if sp.Count <= 0 {
			sp.Count = 1
		}
	}
	return nil
}
