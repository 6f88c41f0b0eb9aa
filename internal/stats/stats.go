// Package stats derives unit combat stats from equipped items. Derived
// values are never stored independently of recomputation: every equip,
// unequip and unit spawn runs through Recompute.
package stats

import "warcamp/server/internal/state"

const (
	// BaseMaxHP is a unit's hp pool with no shields equipped.
	BaseMaxHP = 100.0
	// BaseDPS is a unit's damage per second with no swords equipped.
	BaseDPS = 30.0
	// HPPerDefensePoint is the max-hp bonus per shield point.
	HPPerDefensePoint = 15.0
	// DPSPerAttackPoint is the dps bonus per sword point.
	DPSPerAttackPoint = 5.0
	// ClientTicksPerSecond is the cadence the client resolves melee swings
	// at; a single swing deals dps/ClientTicksPerSecond.
	ClientTicksPerSecond = 60.0
)

// Loadout sums the attack and defense points contributed by a slot array.
// A sword contributes 1+bonus attack points, a shield 1+bonus defense
// points; everything else contributes nothing.
func Loadout(slots []*state.Item) (attack, defense int) {
	for _, it := range slots {
		attack += it.AttackPoints()
		defense += it.DefensePoints()
	}
	return attack, defense
}

// MaxHPFor returns the hp ceiling for a defense score.
func MaxHPFor(defense int) float64 {
	return BaseMaxHP + float64(defense)*HPPerDefensePoint
}

// DPSFor returns the damage per second for an attack score.
func DPSFor(attack int) float64 {
	return BaseDPS + float64(attack)*DPSPerAttackPoint
}

// Recompute rederives a unit's MaxHP and DPS from its current slots and
// adjusts HP to match. A raised ceiling lifts current hp by exactly the
// delta, preserving damage already taken rather than healing to full; a
// lowered ceiling clamps hp down to the new maximum. Running it twice with
// unchanged equipment is a no-op.
func Recompute(u *state.Unit) {
	if u == nil {
		return
	}
	attack, defense := Loadout(u.ItemSlots)

	maxHP := MaxHPFor(defense)
	if u.MaxHP <= 0 {
		// Fresh unit: start at full health.
		u.HP = maxHP
	} else if delta := maxHP - u.MaxHP; delta > 0 {
		u.HP += delta
	}
	u.MaxHP = maxHP
	if u.HP > u.MaxHP {
		u.HP = u.MaxHP
	}
	if u.HP < 0 {
		u.HP = 0
	}

	u.DPS = DPSFor(attack)
}

// DamagePerSwing converts a dps value into the damage dealt by one resolved
// swing.
func DamagePerSwing(dps float64) float64 {
	return dps / ClientTicksPerSecond
}
