package state

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMineIntervalMs is the production interval assigned to mines whose
// persisted metadata is missing or partial.
const DefaultMineIntervalMs = 30_000

// NormalizeMapObject backfills legacy or partial records in place so the
// rest of the server never has to special-case them. It is idempotent and
// reports whether anything changed.
//
// A persisted production deadline is necessarily stale after downtime, so a
// mine missing (or carrying a zeroed) schedule gets a fresh deadline of
// now+interval rather than an immediate burst of catch-up credits.
func NormalizeMapObject(o *MapObject, now time.Time) bool {
	if o == nil {
		return false
	}
	changed := false
	if o.ID == "" {
		o.ID = uuid.NewString()
		changed = true
	}
	if o.Type == "" {
		o.Type = ObjectTypeEntity
		changed = true
	}

	if o.IsEntity() && DefaultMaxHP(o.Kind) > 0 {
		if o.MaxHP <= 0 {
			o.MaxHP = DefaultMaxHP(o.Kind)
			changed = true
		}
		if o.HP <= 0 || o.HP > o.MaxHP {
			o.HP = o.MaxHP
			changed = true
		}
	}
	if o.Collision == nil && DefaultFootprint(o.Kind) != nil {
		o.Collision = DefaultFootprint(o.Kind)
		changed = true
	}

	switch o.Kind {
	case KindMine:
		if o.Mine == nil {
			o.Mine = &MineMeta{}
			changed = true
		}
		if !ValidResource(o.Mine.Resource) {
			o.Mine.Resource = ResourceBlue
			changed = true
		}
		if o.Mine.IntervalMs <= 0 {
			o.Mine.IntervalMs = DefaultMineIntervalMs
			changed = true
		}
		if o.Mine.NextTickMs <= 0 {
			o.Mine.NextTickMs = now.UnixMilli() + o.Mine.IntervalMs
			changed = true
		}
	case KindSpider:
		if o.Spider == nil {
			o.Spider = &SpiderMeta{}
			changed = true
		}
		if len(o.Spider.Waypoints) == 0 {
			o.Spider.Waypoints = DefaultPatrol(o.X, o.Y)
			changed = true
		}
		if o.Spider.WaypointIndex < 0 || o.Spider.WaypointIndex >= len(o.Spider.Waypoints) {
			o.Spider.WaypointIndex = 0
			changed = true
		}
		if o.Facing == "" {
			o.Facing = DefaultFacing
			changed = true
		}
	}
	return changed
}

// DefaultPatrol is the square route assigned to a spider persisted without
// waypoints.
func DefaultPatrol(x, y float64) []Vec2 {
	const span = 220.0
	return []Vec2{
		{X: x - span, Y: y - span},
		{X: x + span, Y: y - span},
		{X: x + span, Y: y + span},
		{X: x - span, Y: y + span},
	}
}

// NormalizeGroundItem backfills a legacy ground record.
func NormalizeGroundItem(g *GroundItem) {
	if g == nil {
		return
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Bonus < 0 {
		g.Bonus = 0
	}
}

// NormalizeResourceNode backfills a legacy node record.
func NormalizeResourceNode(n *ResourceNode) {
	if n == nil {
		return
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if !ValidResource(n.Type) {
		n.Type = ResourceRed
	}
}
