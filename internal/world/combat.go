package world

import (
	"warcamp/server/internal/state"
	"warcamp/server/internal/stats"
)

// AttackUnitResult describes a resolved unit-vs-unit swing. HP is the
// target's clamped health after the hit; callers broadcast the hp update
// before any removal so clients can render the killing blow.
type AttackUnitResult struct {
	Result
	TargetOwner string
	UnitID      string
	HP          float64
	Removed     bool
	// LastUnitKilled is set when the removed unit was the target's final
	// living one; the caller follows up with a full-state broadcast.
	LastUnitKilled bool
}

// AttackUnit resolves one swing from an attacker's unit against another
// player's unit. Damage is always recomputed from the attacker's current
// equipment; the client's claimed damage is ignored. A missing attacker or
// target is a stale-reference no-op.
func (w *World) AttackUnit(attackerName, attackerUnitID, targetName, targetUnitID string) AttackUnitResult {
	w.playersMu.Lock()
	defer w.playersMu.Unlock()

	attacker, ok := w.players[attackerName]
	if !ok {
		return AttackUnitResult{Result: noop()}
	}
	attackerUnit := attacker.FindUnit(attackerUnitID)
	if attackerUnit == nil || attackerUnit.HP <= 0 {
		return AttackUnitResult{Result: noop()}
	}

	target, ok := w.players[targetName]
	if !ok {
		return AttackUnitResult{Result: noop()}
	}
	unit := target.FindUnit(targetUnitID)
	if unit == nil {
		return AttackUnitResult{Result: noop()}
	}

	stats.Recompute(attackerUnit)
	damage := stats.DamagePerSwing(attackerUnit.DPS)

	unit.HP -= damage
	if unit.HP < 0 {
		unit.HP = 0
	}

	res := AttackUnitResult{
		Result:      Result{OK: true},
		TargetOwner: targetName,
		UnitID:      targetUnitID,
		HP:          unit.HP,
	}
	if unit.HP == 0 {
		target.RemoveUnit(targetUnitID)
		res.Removed = true
		res.LastUnitKilled = target.LivingUnits() == 0
	}
	return res
}

// AttackEntityResult describes a resolved unit-vs-structure swing.
type AttackEntityResult struct {
	Result
	EntityID string
	HP       float64
	Removed  bool
}

// AttackEntity resolves one swing against a damageable map object. Killing
// the object removes it from the table; the caller broadcasts the hp update
// first, then the removal.
func (w *World) AttackEntity(attackerName, attackerUnitID, entityID string) AttackEntityResult {
	w.objectsMu.Lock()
	defer w.objectsMu.Unlock()

	target := w.findObjectLocked(entityID)
	if target == nil || !target.Damageable() {
		return AttackEntityResult{Result: noop()}
	}

	var damage float64
	w.playersMu.Lock()
	if attacker, ok := w.players[attackerName]; ok {
		if unit := attacker.FindUnit(attackerUnitID); unit != nil && unit.HP > 0 {
			stats.Recompute(unit)
			damage = stats.DamagePerSwing(unit.DPS)
		}
	}
	w.playersMu.Unlock()
	if damage <= 0 {
		return AttackEntityResult{Result: noop()}
	}

	target.HP -= damage
	if target.HP < 0 {
		target.HP = 0
	}

	res := AttackEntityResult{
		Result:   changed(TableObjects),
		EntityID: entityID,
		HP:       target.HP,
	}
	if target.HP == 0 {
		w.removeObjectLocked(entityID)
		res.Removed = true
	}
	return res
}

// livingUnitsLocked collects living units across all owners for the hostile
// loop. Callers hold playersMu.
func (w *World) livingUnitsLocked() []*state.Unit {
	units := make([]*state.Unit, 0, 16)
	for _, p := range w.players {
		for _, u := range p.Units {
			if u != nil && u.HP > 0 {
				units = append(units, u)
			}
		}
	}
	return units
}
