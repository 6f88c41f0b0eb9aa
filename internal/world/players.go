package world

import (
	"warcamp/server/internal/state"
	"warcamp/server/internal/stats"
)

// Login binds a username to a player record, creating it on first login.
// A fresh player is seeded with one free unit at the avatar position so a
// new account can act immediately. Reconnecting under an existing name
// reuses the record and never duplicates units.
func (w *World) Login(name string) (created bool) {
	w.playersMu.Lock()
	defer w.playersMu.Unlock()

	if _, ok := w.players[name]; ok {
		return false
	}
	p := state.NewPlayer(name, w.rng)
	u := state.NewUnit(p.X, p.Y)
	stats.Recompute(u)
	p.Units = append(p.Units, u)
	w.players[name] = p
	return true
}

// Logout removes the player record and every map object they own. This is
// the only path that destroys a player: a dropped socket keeps the record
// alive so economy progress survives reconnects.
func (w *World) Logout(name string) Result {
	w.objectsMu.Lock()
	removedObjects := false
	kept := w.objects[:0]
	for _, o := range w.objects {
		if o != nil && o.Owner == name {
			removedObjects = true
			continue
		}
		kept = append(kept, o)
	}
	w.objects = kept
	w.objectsMu.Unlock()

	w.playersMu.Lock()
	_, existed := w.players[name]
	delete(w.players, name)
	w.playersMu.Unlock()

	if !existed && !removedObjects {
		return noop()
	}
	res := Result{OK: true}
	if removedObjects {
		res.Dirty = TableObjects
	}
	return res
}

// UpdateAvatar moves a player's camera avatar. Single-field, last write
// wins.
func (w *World) UpdateAvatar(name string, x, y float64) bool {
	w.playersMu.Lock()
	defer w.playersMu.Unlock()

	p, ok := w.players[name]
	if !ok {
		return false
	}
	p.X = x
	p.Y = y
	return true
}

// UnitSpawn is the sanitized subset of a client-supplied unit accepted by
// SpawnUnit. HP and derived stats are never taken from the client.
type UnitSpawn struct {
	X, Y   float64
	TX, TY float64
	Dir    string
}

// SpawnUnit creates a unit for the player from a client-supplied template.
func (w *World) SpawnUnit(name string, spawn UnitSpawn) (*state.Unit, Result) {
	w.playersMu.Lock()
	defer w.playersMu.Unlock()

	p, ok := w.players[name]
	if !ok {
		return nil, reject(RejectUnknownPlayer)
	}

	u := state.NewUnit(spawn.X, spawn.Y)
	u.TX = spawn.TX
	u.TY = spawn.TY
	if state.ValidFacing(spawn.Dir) {
		u.Dir = spawn.Dir
	}
	stats.Recompute(u)
	p.Units = append(p.Units, u)
	return u.Clone(), Result{OK: true}
}

const (
	spawnCostGreen    = 1
	populationPerBase = 10
)

// PopulationCap returns the unit ceiling for a player owning the given
// number of town centers.
func PopulationCap(townCenters int) int {
	cap := populationPerBase * townCenters
	if cap < populationPerBase {
		cap = populationPerBase
	}
	return cap
}

// SpawnUnitFromEntity spawns a unit at an owned town center, deducting one
// green resource and enforcing the population cap. Only living units count
// toward the cap.
func (w *World) SpawnUnitFromEntity(name, entityID string) (*state.Unit, Result) {
	w.objectsMu.Lock()
	defer w.objectsMu.Unlock()

	source := w.findObjectLocked(entityID)
	if source == nil {
		return nil, noop()
	}
	if source.Kind != state.KindTownCenter || !source.IsEntity() {
		return nil, reject(RejectUnknownKind)
	}
	if source.Owner != name {
		return nil, reject(RejectNotOwner)
	}

	centers := 0
	for _, o := range w.objects {
		if o != nil && o.Kind == state.KindTownCenter && o.IsEntity() && o.Owner == name {
			centers++
		}
	}

	w.playersMu.Lock()
	defer w.playersMu.Unlock()

	p, ok := w.players[name]
	if !ok {
		return nil, reject(RejectUnknownPlayer)
	}
	if p.LivingUnits() >= PopulationCap(centers) {
		return nil, reject(RejectPopulationCap)
	}
	if !p.Ledger.Spend(state.ResourceGreen, spawnCostGreen) {
		return nil, reject(RejectUnaffordable)
	}

	spawnX := source.X + 80
	spawnY := source.Y + 40
	u := state.NewUnit(spawnX, spawnY)
	stats.Recompute(u)
	p.Units = append(p.Units, u)
	return u.Clone(), Result{OK: true}
}

// UnitUpdate is one entry of a bulk position/animation sync.
type UnitUpdate struct {
	ID     string
	X, Y   float64
	TX, TY float64
	Anim   string
	Dir    string
}

// UpdateUnits applies a bulk movement sync from the owning client. Unknown
// unit ids are silently ignored so a concurrently killed unit is never
// resurrected; hp is never accepted from this path.
func (w *World) UpdateUnits(name string, updates []UnitUpdate) bool {
	w.playersMu.Lock()
	defer w.playersMu.Unlock()

	p, ok := w.players[name]
	if !ok {
		return false
	}

	for _, upd := range updates {
		u := p.FindUnit(upd.ID)
		if u == nil {
			continue
		}
		u.X = upd.X
		u.Y = upd.Y
		u.TX = upd.TX
		u.TY = upd.TY
		switch upd.Anim {
		case state.AnimIdle, state.AnimWalk, state.AnimAttack:
			u.Anim = upd.Anim
		}
		if state.ValidFacing(upd.Dir) {
			u.Dir = upd.Dir
		}
	}
	return true
}
