package world

import (
	"math"

	"warcamp/server/internal/state"
)

// Hostile movement constants. Step is world units per tick at the loop's
// native 50ms period.
const (
	hostileStep       = 2.4
	waypointArrive    = 12.0
	hostileCloseRange = 40.0
)

// HostileTickResult reports one AI sweep. Moved means at least one hostile
// changed position or facing and the object table should be rebroadcast;
// persistence is batched by the caller, not per tick.
type HostileTickResult struct {
	Moved bool
}

// HostileTick advances every hostile one step. Each spider patrols its
// wrapping waypoint route until a living unit enters the aggro radius, then
// chases that unit's live position until it leaves the larger disengage
// radius. The gap between the two radii is deliberate hysteresis so a unit
// hovering at the boundary does not flip the spider's state every tick.
func (w *World) HostileTick() HostileTickResult {
	var res HostileTickResult

	w.objectsMu.Lock()
	defer w.objectsMu.Unlock()

	// Unit positions are sampled once per sweep under playersMu and used
	// lock-free afterwards; a stale position for one tick is fine.
	w.playersMu.Lock()
	units := w.livingUnitsLocked()
	positions := make([]state.Vec2, len(units))
	for i, u := range units {
		positions[i] = state.Vec2{X: u.X, Y: u.Y}
	}
	w.playersMu.Unlock()

	for _, o := range w.objects {
		if o == nil || o.Kind != state.KindSpider || o.Spider == nil {
			continue
		}
		if w.stepHostileLocked(o, positions) {
			res.Moved = true
		}
	}
	return res
}

// stepHostileLocked advances one spider. Callers hold objectsMu.
func (w *World) stepHostileLocked(o *state.MapObject, units []state.Vec2) bool {
	sp := o.Spider

	targetIdx, dist := nearest(o.X, o.Y, units)

	if sp.Chasing {
		if targetIdx == -1 || dist > w.tuning.DisengageRadius {
			sp.Chasing = false
		}
	} else {
		if targetIdx != -1 && dist <= w.tuning.AggroRadius {
			sp.Chasing = true
		}
	}

	var goal state.Vec2
	if sp.Chasing {
		goal = units[targetIdx]
		if dist <= hostileCloseRange {
			// In melee range: hold position, keep facing the target.
			return w.faceToward(o, goal)
		}
	} else {
		if len(sp.Waypoints) == 0 {
			return false
		}
		if sp.WaypointIndex >= len(sp.Waypoints) {
			sp.WaypointIndex = 0
		}
		goal = sp.Waypoints[sp.WaypointIndex]
		if math.Hypot(goal.X-o.X, goal.Y-o.Y) <= waypointArrive {
			sp.WaypointIndex = (sp.WaypointIndex + 1) % len(sp.Waypoints)
			goal = sp.Waypoints[sp.WaypointIndex]
		}
	}

	return w.moveToward(o, goal)
}

// moveToward steps o a fixed distance toward goal, sliding along one axis
// when the direct step lands inside a colliding footprint.
func (w *World) moveToward(o *state.MapObject, goal state.Vec2) bool {
	dx := goal.X - o.X
	dy := goal.Y - o.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return false
	}
	step := hostileStep
	if dist < step {
		step = dist
	}
	sx := dx / dist * step
	sy := dy / dist * step

	nx, ny := o.X+sx, o.Y+sy
	switch {
	case !w.blockedLocked(o, nx, ny):
		// direct
	case !w.blockedLocked(o, o.X+sx, o.Y):
		nx, ny = o.X+sx, o.Y
	case !w.blockedLocked(o, o.X, o.Y+sy):
		nx, ny = o.X, o.Y+sy
	default:
		return false
	}

	moved := nx != o.X || ny != o.Y
	if moved {
		o.X, o.Y = nx, ny
	}
	if f := state.FacingFromVector(sx, sy); f != "" && f != o.Facing {
		o.Facing = f
		moved = true
	}
	return moved
}

// faceToward updates facing only, used while holding at close range.
func (w *World) faceToward(o *state.MapObject, goal state.Vec2) bool {
	f := state.FacingFromVector(goal.X-o.X, goal.Y-o.Y)
	if f == "" || f == o.Facing {
		return false
	}
	o.Facing = f
	return true
}

// nearest returns the index and distance of the closest point, -1 when the
// slice is empty.
func nearest(x, y float64, points []state.Vec2) (int, float64) {
	best := -1
	bestDist := math.MaxFloat64
	for i, p := range points {
		d := math.Hypot(p.X-x, p.Y-y)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, bestDist
}
