package world

import (
	"math"

	"warcamp/server/internal/state"
	"warcamp/server/internal/stats"
)

// Item transfers between the four locations an item can occupy — unit slot,
// structure slot, ground, destruction — share one rule set: moving into a
// slot requires it empty, moving out requires it occupied, and every unit
// equip/unequip reruns stat recomputation.

// TransferResult reports an item move that may have changed a unit's
// derived stats. Unit carries the post-recompute snapshot when HPChanged.
type TransferResult struct {
	Result
	HPChanged bool
	Unit      *state.Unit
}

// DropItem moves an item from a unit slot to the ground at (x, y).
func (w *World) DropItem(name, unitID string, slotIndex int, x, y float64) TransferResult {
	w.groundMu.Lock()
	defer w.groundMu.Unlock()
	w.playersMu.Lock()
	defer w.playersMu.Unlock()

	p, ok := w.players[name]
	if !ok {
		return TransferResult{Result: reject(RejectUnknownPlayer)}
	}
	u := p.FindUnit(unitID)
	if u == nil {
		return TransferResult{Result: noop()}
	}
	it := u.Slot(slotIndex)
	if it == nil {
		return TransferResult{Result: reject(RejectSlotEmpty)}
	}

	u.SetSlot(slotIndex, nil)
	oldMax := u.MaxHP
	stats.Recompute(u)

	w.ground = append(w.ground, state.NewGroundItem(*it, x, y))

	return TransferResult{
		Result:    changed(TableGround),
		HPChanged: u.MaxHP != oldMax,
		Unit:      u.Clone(),
	}
}

// PickupItem moves a ground item into an empty unit slot. Reach is checked
// server-side against the acting unit's position; the boundary is
// inclusive, matching the strict greater-than rejection in the original.
func (w *World) PickupItem(name, unitID string, slotIndex int, groundItemID string) TransferResult {
	w.groundMu.Lock()
	defer w.groundMu.Unlock()
	w.playersMu.Lock()
	defer w.playersMu.Unlock()

	p, ok := w.players[name]
	if !ok {
		return TransferResult{Result: reject(RejectUnknownPlayer)}
	}
	u := p.FindUnit(unitID)
	if u == nil {
		return TransferResult{Result: noop()}
	}
	if u.Slot(slotIndex) != nil {
		return TransferResult{Result: reject(RejectSlotOccupied)}
	}
	if slotIndex < 0 || slotIndex >= state.UnitSlotCount {
		return TransferResult{Result: reject(RejectMissingField)}
	}

	g := w.findGroundLocked(groundItemID)
	if g == nil {
		return TransferResult{Result: noop()}
	}
	if math.Hypot(g.X-u.X, g.Y-u.Y) > w.tuning.PickupRange {
		return TransferResult{Result: reject(RejectOutOfRange)}
	}

	it := g.Item()
	w.removeGroundLocked(groundItemID)
	u.SetSlot(slotIndex, &it)
	oldMax := u.MaxHP
	stats.Recompute(u)

	return TransferResult{
		Result:    changed(TableGround),
		HPChanged: u.MaxHP != oldMax,
		Unit:      u.Clone(),
	}
}

// DeleteGroundItem removes a ground item outright (editor path). Missing id
// is a stale no-op.
func (w *World) DeleteGroundItem(id string) Result {
	w.groundMu.Lock()
	defer w.groundMu.Unlock()

	if !w.removeGroundLocked(id) {
		return noop()
	}
	return changed(TableGround)
}

// UnitGiveToEntity moves an item from a unit slot into an empty structure
// slot. Structure slot arrays grow on demand because slot count varies by
// kind.
func (w *World) UnitGiveToEntity(name, unitID string, slotIndex int, entityID string, entitySlot int) TransferResult {
	w.objectsMu.Lock()
	defer w.objectsMu.Unlock()

	o := w.findObjectLocked(entityID)
	if o == nil {
		return TransferResult{Result: noop()}
	}
	if o.Owner != "" && o.Owner != name {
		return TransferResult{Result: reject(RejectNotOwner)}
	}
	if entitySlot < 0 {
		return TransferResult{Result: reject(RejectMissingField)}
	}
	if o.Slot(entitySlot) != nil {
		return TransferResult{Result: reject(RejectSlotOccupied)}
	}

	w.playersMu.Lock()
	defer w.playersMu.Unlock()

	p, ok := w.players[name]
	if !ok {
		return TransferResult{Result: reject(RejectUnknownPlayer)}
	}
	u := p.FindUnit(unitID)
	if u == nil {
		return TransferResult{Result: noop()}
	}
	it := u.Slot(slotIndex)
	if it == nil {
		return TransferResult{Result: reject(RejectSlotEmpty)}
	}

	u.SetSlot(slotIndex, nil)
	oldMax := u.MaxHP
	stats.Recompute(u)
	o.SetSlot(entitySlot, it)

	return TransferResult{
		Result:    changed(TableObjects),
		HPChanged: u.MaxHP != oldMax,
		Unit:      u.Clone(),
	}
}

// GroundGiveToEntity moves a ground item into an empty structure slot.
func (w *World) GroundGiveToEntity(name, groundItemID, entityID string, entitySlot int) Result {
	w.objectsMu.Lock()
	defer w.objectsMu.Unlock()

	o := w.findObjectLocked(entityID)
	if o == nil {
		return noop()
	}
	if o.Owner != "" && o.Owner != name {
		return reject(RejectNotOwner)
	}
	if entitySlot < 0 {
		return reject(RejectMissingField)
	}
	if o.Slot(entitySlot) != nil {
		return reject(RejectSlotOccupied)
	}

	w.groundMu.Lock()
	defer w.groundMu.Unlock()

	g := w.findGroundLocked(groundItemID)
	if g == nil {
		return noop()
	}
	it := g.Item()
	w.removeGroundLocked(groundItemID)
	o.SetSlot(entitySlot, &it)

	return changed(TableObjects | TableGround)
}

// EntityGiveToUnit moves an item from a structure slot into an empty unit
// slot.
func (w *World) EntityGiveToUnit(name, entityID string, entitySlot int, unitID string, slotIndex int) TransferResult {
	w.objectsMu.Lock()
	defer w.objectsMu.Unlock()

	o := w.findObjectLocked(entityID)
	if o == nil {
		return TransferResult{Result: noop()}
	}
	if o.Owner != "" && o.Owner != name {
		return TransferResult{Result: reject(RejectNotOwner)}
	}
	it := o.Slot(entitySlot)
	if it == nil {
		return TransferResult{Result: reject(RejectSlotEmpty)}
	}

	w.playersMu.Lock()
	defer w.playersMu.Unlock()

	p, ok := w.players[name]
	if !ok {
		return TransferResult{Result: reject(RejectUnknownPlayer)}
	}
	u := p.FindUnit(unitID)
	if u == nil {
		return TransferResult{Result: noop()}
	}
	if slotIndex < 0 || slotIndex >= state.UnitSlotCount {
		return TransferResult{Result: reject(RejectMissingField)}
	}
	if u.Slot(slotIndex) != nil {
		return TransferResult{Result: reject(RejectSlotOccupied)}
	}

	o.SetSlot(entitySlot, nil)
	u.SetSlot(slotIndex, it)
	oldMax := u.MaxHP
	stats.Recompute(u)

	return TransferResult{
		Result:    changed(TableObjects),
		HPChanged: u.MaxHP != oldMax,
		Unit:      u.Clone(),
	}
}

// EntityGiveToGround moves an item from a structure slot to the ground.
func (w *World) EntityGiveToGround(name, entityID string, entitySlot int, x, y float64) Result {
	w.objectsMu.Lock()
	defer w.objectsMu.Unlock()

	o := w.findObjectLocked(entityID)
	if o == nil {
		return noop()
	}
	if o.Owner != "" && o.Owner != name {
		return reject(RejectNotOwner)
	}
	it := o.Slot(entitySlot)
	if it == nil {
		return reject(RejectSlotEmpty)
	}

	o.SetSlot(entitySlot, nil)

	w.groundMu.Lock()
	defer w.groundMu.Unlock()
	w.ground = append(w.ground, state.NewGroundItem(*it, x, y))

	return changed(TableObjects | TableGround)
}

// smithUpgradeCost is the per-upgrade price paid at a blacksmith.
const (
	smithUpgradeResource = state.ResourceBlue
	smithUpgradeCost     = 1
)

// SmithUpgradeItem increments the bonus of an item sitting in an owned
// blacksmith's slot. The item keeps its identity; only the bonus changes.
func (w *World) SmithUpgradeItem(name, entityID string, slotIndex int) Result {
	w.objectsMu.Lock()
	defer w.objectsMu.Unlock()

	o := w.findObjectLocked(entityID)
	if o == nil {
		return noop()
	}
	if o.Kind != state.KindBlacksmith {
		return reject(RejectUnknownKind)
	}
	if o.Owner != name {
		return reject(RejectNotOwner)
	}
	it := o.Slot(slotIndex)
	if it == nil {
		return reject(RejectSlotEmpty)
	}

	w.playersMu.Lock()
	defer w.playersMu.Unlock()

	p, ok := w.players[name]
	if !ok {
		return reject(RejectUnknownPlayer)
	}
	if !p.Ledger.Spend(smithUpgradeResource, smithUpgradeCost) {
		return reject(RejectUnaffordable)
	}

	it.Bonus++
	return changed(TableObjects)
}
