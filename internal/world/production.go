package world

import (
	"warcamp/server/internal/state"
)

// ProductionResult reports one production sweep. Credited names payouts by
// owner so the caller can push fresh balances to just those sessions.
type ProductionResult struct {
	Dirty    Table
	Credited map[string]state.Ledger
}

// ProductionTick advances every mine whose schedule is due. Each due mine
// credits exactly one unit of its resource to its owner and pushes its next
// tick forward one interval; a mine that fell far behind (server downtime)
// is rescheduled from now rather than replayed, so downtime never mints
// back-pay.
func (w *World) ProductionTick() ProductionResult {
	now := w.now().UnixMilli()
	res := ProductionResult{Credited: make(map[string]state.Ledger)}

	type payout struct {
		owner    string
		resource state.ResourceType
	}
	var due []payout

	w.objectsMu.Lock()
	for _, o := range w.objects {
		if o == nil || o.Kind != state.KindMine || !o.IsEntity() {
			continue
		}
		// Legacy rows may predate the schedule fields.
		if state.NormalizeMapObject(o, w.now()) {
			res.Dirty |= TableObjects
		}
		if o.Mine == nil || o.Mine.NextTickMs > now {
			continue
		}
		if o.Owner != "" {
			due = append(due, payout{owner: o.Owner, resource: o.Mine.Resource})
		}
		o.Mine.NextTickMs += o.Mine.IntervalMs
		if o.Mine.NextTickMs <= now {
			o.Mine.NextTickMs = now + o.Mine.IntervalMs
		}
		res.Dirty |= TableObjects
	}
	w.objectsMu.Unlock()

	if len(due) == 0 {
		return res
	}

	w.playersMu.Lock()
	for _, d := range due {
		p, ok := w.players[d.owner]
		if !ok {
			// Owner has never connected since the wipe; create the record
			// so the yield is waiting when they do.
			p = state.NewPlayer(d.owner, w.rng)
			w.players[d.owner] = p
		}
		p.Ledger.Add(d.resource, 1)
		res.Credited[d.owner] = p.Ledger
	}
	w.playersMu.Unlock()

	return res
}
