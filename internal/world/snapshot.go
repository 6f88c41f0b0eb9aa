package world

import "warcamp/server/internal/state"

// PlayersSnapshot deep-copies the players table for broadcasting.
func (w *World) PlayersSnapshot() []*state.Player {
	w.playersMu.Lock()
	defer w.playersMu.Unlock()
	return w.playersSnapshotLocked()
}

func (w *World) playersSnapshotLocked() []*state.Player {
	players := make([]*state.Player, 0, len(w.players))
	for _, p := range w.players {
		players = append(players, p.Clone())
	}
	return players
}

// PlayerUnits returns a deep copy of one player's unit list, nil when the
// player does not exist.
func (w *World) PlayerUnits(name string) []*state.Unit {
	w.playersMu.Lock()
	defer w.playersMu.Unlock()

	p, ok := w.players[name]
	if !ok {
		return nil
	}
	units := make([]*state.Unit, len(p.Units))
	for i, u := range p.Units {
		units[i] = u.Clone()
	}
	return units
}

// Ledger returns a copy of a player's resource balances.
func (w *World) Ledger(name string) (state.Ledger, bool) {
	w.playersMu.Lock()
	defer w.playersMu.Unlock()

	p, ok := w.players[name]
	if !ok {
		return state.Ledger{}, false
	}
	return p.Ledger, true
}

// ObjectsSnapshot deep-copies the map-object table.
func (w *World) ObjectsSnapshot() []*state.MapObject {
	w.objectsMu.Lock()
	defer w.objectsMu.Unlock()
	return w.objectsSnapshotLocked()
}

func (w *World) objectsSnapshotLocked() []*state.MapObject {
	objects := make([]*state.MapObject, len(w.objects))
	for i, o := range w.objects {
		objects[i] = o.Clone()
	}
	return objects
}

// GroundSnapshot deep-copies the ground-item table.
func (w *World) GroundSnapshot() []*state.GroundItem {
	w.groundMu.Lock()
	defer w.groundMu.Unlock()
	return w.groundSnapshotLocked()
}

func (w *World) groundSnapshotLocked() []*state.GroundItem {
	ground := make([]*state.GroundItem, len(w.ground))
	for i, g := range w.ground {
		ground[i] = g.Clone()
	}
	return ground
}

// NodesSnapshot deep-copies the resource-node table.
func (w *World) NodesSnapshot() []*state.ResourceNode {
	w.nodesMu.Lock()
	defer w.nodesMu.Unlock()
	return w.nodesSnapshotLocked()
}

func (w *World) nodesSnapshotLocked() []*state.ResourceNode {
	nodes := make([]*state.ResourceNode, len(w.nodes))
	for i, n := range w.nodes {
		nodes[i] = n.Clone()
	}
	return nodes
}

// Snapshot copies all four tables in lock order for a full-state broadcast.
func (w *World) Snapshot() (players []*state.Player, objects []*state.MapObject, ground []*state.GroundItem, nodes []*state.ResourceNode) {
	w.objectsMu.Lock()
	objects = w.objectsSnapshotLocked()
	w.objectsMu.Unlock()

	w.groundMu.Lock()
	ground = w.groundSnapshotLocked()
	w.groundMu.Unlock()

	w.nodesMu.Lock()
	nodes = w.nodesSnapshotLocked()
	w.nodesMu.Unlock()

	w.playersMu.Lock()
	players = w.playersSnapshotLocked()
	w.playersMu.Unlock()

	return players, objects, ground, nodes
}
