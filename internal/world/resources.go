package world

import (
	"math"

	"warcamp/server/internal/state"
)

// CollectResource removes a resource node and credits the collecting
// player's ledger. A node that another collector already claimed is a
// stale-reference no-op, which makes the operation safe to double-send.
func (w *World) CollectResource(name, nodeID string, typ state.ResourceType, amount int) Result {
	if !state.ValidResource(typ) {
		return reject(RejectMissingField)
	}
	// A node yields exactly one unit; the claimed amount is never trusted.
	if amount != 1 {
		amount = 1
	}

	w.nodesMu.Lock()
	defer w.nodesMu.Unlock()

	idx := -1
	for i, n := range w.nodes {
		if n != nil && n.ID == nodeID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return noop()
	}
	// The node's own type wins over the client's claim.
	if w.nodes[idx].Type != "" {
		typ = w.nodes[idx].Type
	}
	w.nodes = append(w.nodes[:idx], w.nodes[idx+1:]...)

	w.playersMu.Lock()
	p, ok := w.players[name]
	if !ok {
		p = state.NewPlayer(name, w.rng)
		w.players[name] = p
	}
	p.Ledger.Add(typ, amount)
	w.playersMu.Unlock()

	return changed(TableNodes)
}

// Worldgen constants: nodes sit on a jittered grid around the origin,
// hostiles patrol squares on a ring offset from it.
const (
	genExtent   = 6000.0
	genGridStep = 600.0
	genJitter   = 180.0
	hostileRing = 1400.0
)

// EnsureResourceNodes tops the node table up to the configured count. Each
// node lands on a random grid cell nudged by a jitter smaller than half the
// step, so nodes spread evenly without reading as a lattice. Idempotent
// across restarts: a full table is left alone.
func (w *World) EnsureResourceNodes() Result {
	w.nodesMu.Lock()
	defer w.nodesMu.Unlock()

	want := w.tuning.ResourceNodeCount
	if len(w.nodes) >= want {
		return noop()
	}

	cells := int(genExtent / genGridStep)
	types := []state.ResourceType{state.ResourceRed, state.ResourceGreen, state.ResourceBlue}
	added := 0
	for len(w.nodes) < want {
		gx := float64(w.rng.Intn(2*cells+1)-cells) * genGridStep
		gy := float64(w.rng.Intn(2*cells+1)-cells) * genGridStep
		nx := gx + (w.rng.Float64()*2-1)*genJitter
		ny := gy + (w.rng.Float64()*2-1)*genJitter
		typ := types[w.rng.Intn(len(types))]
		w.nodes = append(w.nodes, state.NewResourceNode(nx, ny, typ))
		added++
	}
	w.logger.Printf("worldgen: placed %d resource nodes", added)
	return changed(TableNodes)
}

// EnsureHostiles tops the object table up to the configured hostile count.
// Existing hostiles count toward the total so restarts do not multiply
// spiders.
func (w *World) EnsureHostiles() Result {
	w.objectsMu.Lock()
	defer w.objectsMu.Unlock()

	have := 0
	for _, o := range w.objects {
		if o != nil && o.Kind == state.KindSpider {
			have++
		}
	}
	want := w.tuning.HostileCount
	if have >= want {
		return noop()
	}

	for i := have; i < want; i++ {
		angle := float64(i) / float64(want) * 2 * math.Pi
		x := hostileRing * math.Cos(angle)
		y := hostileRing * math.Sin(angle)
		o := state.NewMapObject(state.KindSpider, x, y, "")
		state.NormalizeMapObject(o, w.now())
		w.objects = append(w.objects, o)
	}
	w.logger.Printf("worldgen: spawned %d hostiles", want-have)
	return changed(TableObjects)
}
