package ai

import "math"

// Steering heuristics for the simpler game modes that drive units
// without the behavior tree stack. Everything here is a pure function
// over value snapshots: callers own persistence of target assignment
// between calls.

// UnitView is the caller-supplied snapshot of one unit on the field.
type UnitView struct {
	ID       string
	X, Y     float64
	HP       float64
	MaxHP    float64
	Team     int
	TargetID string
	Dead     bool
}

// UnitStats are the static numbers for a unit's type.
type UnitStats struct {
	AttackRange float64
	Speed       float64
	AttackPower float64
}

// Intent is the movement/attack decision for one update.
type Intent struct {
	ShouldMove   bool
	DestX, DestY float64
	ShouldAttack bool
	TargetID     string
}

const (
	retreatHealthRatio = 0.25
	retreatOutnumber   = 3
	kiteRangeFraction  = 0.6
	approachFraction   = 0.9
	supportAnchorDist  = 6.0
)

func viewDist(a, b UnitView) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func hpRatio(u UnitView) float64 {
	if u.MaxHP <= 0 {
		return 0
	}
	return u.HP / u.MaxHP
}

// SelectTarget keeps the unit's current target while it lives,
// otherwise picks the nearest living enemy. The second return is
// false when no enemy remains.
func SelectTarget(u UnitView, units []UnitView) (UnitView, bool) {
	if u.TargetID != "" {
		for _, o := range units {
			if o.ID == u.TargetID && !o.Dead {
				return o, true
			}
		}
	}
	best := UnitView{}
	bestDist := 0.0
	found := false
	for _, o := range units {
		if o.Dead || o.ID == u.ID || o.Team == u.Team {
			continue
		}
		d := viewDist(u, o)
		if !found || d < bestDist {
			best, bestDist, found = o, d, true
		}
	}
	return best, found
}

// ShouldRetreat reports whether a unit is too hurt or too outnumbered
// to keep fighting: health under a quarter, or at least three more
// enemies than allies inside extended attack range.
func ShouldRetreat(u UnitView, stats UnitStats, units []UnitView) bool {
	if hpRatio(u) < retreatHealthRatio {
		return true
	}
	radius := stats.AttackRange * 1.5
	enemies, allies := 0, 0
	for _, o := range units {
		if o.Dead || o.ID == u.ID {
			continue
		}
		if viewDist(u, o) > radius {
			continue
		}
		if o.Team == u.Team {
			allies++
		} else {
			enemies++
		}
	}
	return enemies >= allies+retreatOutnumber
}

// RangedBehavior kites: back off when the target gets inside the
// comfort fraction of attack range, hold and fire when comfortably in
// range, and close to just inside range otherwise.
func RangedBehavior(u UnitView, stats UnitStats, units []UnitView) Intent {
	target, ok := SelectTarget(u, units)
	if !ok {
		return Intent{}
	}
	intent := Intent{TargetID: target.ID}
	d := viewDist(u, target)

	if ShouldRetreat(u, stats, units) {
		ax, ay := awayFrom(u, target, stats.AttackRange)
		intent.ShouldMove = true
		intent.DestX, intent.DestY = ax, ay
		intent.ShouldAttack = d <= stats.AttackRange
		return intent
	}

	switch {
	case d < stats.AttackRange*kiteRangeFraction:
		ax, ay := awayFrom(u, target, stats.AttackRange*kiteRangeFraction)
		intent.ShouldMove = true
		intent.DestX, intent.DestY = ax, ay
		intent.ShouldAttack = true
	case d <= stats.AttackRange:
		intent.ShouldAttack = true
	default:
		t := 1 - stats.AttackRange*approachFraction/d
		intent.ShouldMove = true
		intent.DestX = u.X + (target.X-u.X)*t
		intent.DestY = u.Y + (target.Y-u.Y)*t
	}
	return intent
}

// MeleeBehavior charges the target and swings whenever in range.
func MeleeBehavior(u UnitView, stats UnitStats, units []UnitView) Intent {
	target, ok := SelectTarget(u, units)
	if !ok {
		return Intent{}
	}
	intent := Intent{TargetID: target.ID}
	if ShouldRetreat(u, stats, units) {
		ax, ay := awayFrom(u, target, stats.AttackRange*2)
		return Intent{ShouldMove: true, DestX: ax, DestY: ay, TargetID: target.ID}
	}
	if viewDist(u, target) <= stats.AttackRange {
		intent.ShouldAttack = true
		return intent
	}
	intent.ShouldMove = true
	intent.DestX, intent.DestY = target.X, target.Y
	return intent
}

// SupportBehavior holds formation near the most injured living ally
// and fires on enemies that come into range while anchored.
func SupportBehavior(u UnitView, stats UnitStats, units []UnitView) Intent {
	var anchor UnitView
	worst := 1.0
	found := false
	for _, o := range units {
		if o.Dead || o.ID == u.ID || o.Team != u.Team {
			continue
		}
		if r := hpRatio(o); !found || r < worst {
			anchor, worst, found = o, r, true
		}
	}
	if !found {
		// Nobody left to support; fall back to ranged behavior.
		return RangedBehavior(u, stats, units)
	}

	intent := Intent{}
	if enemy, ok := SelectTarget(u, units); ok && viewDist(u, enemy) <= stats.AttackRange {
		intent.ShouldAttack = true
		intent.TargetID = enemy.ID
	}
	if viewDist(u, anchor) > supportAnchorDist {
		intent.ShouldMove = true
		intent.DestX, intent.DestY = anchor.X, anchor.Y
	}
	return intent
}

// awayFrom returns a destination dist units from threat, on the ray
// through u.
func awayFrom(u, threat UnitView, dist float64) (float64, float64) {
	dx, dy := u.X-threat.X, u.Y-threat.Y
	l := math.Hypot(dx, dy)
	if l < 1e-9 {
		return u.X + dist, u.Y
	}
	return threat.X + dx/l*dist, threat.Y + dy/l*dist
}
