package world

import "warcamp/server/internal/state"

// Seeding and poke helpers for tests and operational tooling. None of these
// are reachable from the wire protocol.

// SeedGroundItem drops an item on the ground directly, returning its id.
func (w *World) SeedGroundItem(it state.Item, x, y float64) string {
	w.groundMu.Lock()
	defer w.groundMu.Unlock()
	g := state.NewGroundItem(it, x, y)
	w.ground = append(w.ground, g)
	return g.ID
}

// SeedResourceNode places a resource node directly, returning its id.
func (w *World) SeedResourceNode(x, y float64, typ state.ResourceType) string {
	w.nodesMu.Lock()
	defer w.nodesMu.Unlock()
	n := state.NewResourceNode(x, y, typ)
	w.nodes = append(w.nodes, n)
	return n.ID
}

// SetUnitHP forces one unit's current hp, clamped to [0, maxHp].
func (w *World) SetUnitHP(owner, unitID string, hp float64) bool {
	w.playersMu.Lock()
	defer w.playersMu.Unlock()

	p, ok := w.players[owner]
	if !ok {
		return false
	}
	u := p.FindUnit(unitID)
	if u == nil {
		return false
	}
	if hp < 0 {
		hp = 0
	}
	if hp > u.MaxHP {
		hp = u.MaxHP
	}
	u.HP = hp
	return true
}
