package world

import (
	"warcamp/server/internal/state"
)

type buildCost struct {
	resource state.ResourceType
	amount   int
}

// Construction costs per placeable entity kind. Generic buildings and
// decorative tiles are free.
var buildCosts = map[state.MapObjectKind]buildCost{
	state.KindTownCenter: {state.ResourceRed, 5},
	state.KindMine:       {state.ResourceBlue, 3},
	state.KindBlacksmith: {state.ResourceRed, 3},
}

// BuildCost exposes the cost table for diagnostics.
func BuildCost(kind state.MapObjectKind) (state.ResourceType, int, bool) {
	c, ok := buildCosts[kind]
	return c.resource, c.amount, ok
}

// PlaceSpec carries the client-controlled fields of a placement request.
type PlaceSpec struct {
	Type      string
	Kind      state.MapObjectKind
	X, Y      float64
	Collision *state.Footprint
	Mine      *state.MineMeta
	ItemSlots []*state.Item
}

// PlaceMapObject validates and charges a structure placement. Decorative
// tiles are free and never carry hp; entity kinds deduct their kind cost
// from the placer's ledger and are rejected with a diagnostic when
// unaffordable.
func (w *World) PlaceMapObject(name string, spec PlaceSpec) (*state.MapObject, Result) {
	if spec.Kind == "" {
		return nil, reject(RejectMissingField)
	}
	switch spec.Kind {
	case state.KindTownCenter, state.KindMine, state.KindBlacksmith, state.KindBuilding:
		// Entity kinds carry hp and production schedules; a free tile
		// wearing one would skip both the cost gate and normalization.
		if spec.Type == state.ObjectTypeTile {
			return nil, reject(RejectUnknownKind)
		}
	case state.KindSpider:
		return nil, reject(RejectUnknownKind)
	default:
		if spec.Type != state.ObjectTypeTile {
			// Unknown entity kinds cannot be placed by clients.
			return nil, reject(RejectUnknownKind)
		}
	}

	w.objectsMu.Lock()
	defer w.objectsMu.Unlock()

	if spec.Type == state.ObjectTypeTile {
		o := &state.MapObject{
			ID:        newID(),
			Type:      state.ObjectTypeTile,
			Kind:      spec.Kind,
			X:         spec.X,
			Y:         spec.Y,
			Owner:     name,
			Collision: spec.Collision,
		}
		w.objects = append(w.objects, o)
		return o.Clone(), changed(TableObjects)
	}

	if cost, ok := buildCosts[spec.Kind]; ok {
		w.playersMu.Lock()
		p, exists := w.players[name]
		if !exists {
			w.playersMu.Unlock()
			return nil, reject(RejectUnknownPlayer)
		}
		if !p.Ledger.Spend(cost.resource, cost.amount) {
			w.playersMu.Unlock()
			return nil, reject(RejectUnaffordable)
		}
		w.playersMu.Unlock()
	}

	o := state.NewMapObject(spec.Kind, spec.X, spec.Y, name)
	if spec.Kind == state.KindMine {
		o.Mine = &state.MineMeta{IntervalMs: w.tuning.MineIntervalMs}
		if spec.Mine != nil && state.ValidResource(spec.Mine.Resource) {
			o.Mine.Resource = spec.Mine.Resource
		}
	}
	if spec.Collision != nil {
		o.Collision = spec.Collision
	}
	if len(spec.ItemSlots) > 0 {
		o.ItemSlots = state.CloneSlots(spec.ItemSlots)
	}
	state.NormalizeMapObject(o, w.now())
	w.objects = append(w.objects, o)
	return o.Clone(), changed(TableObjects)
}

// PlaceBuilding is the legacy free placement of a generic building.
func (w *World) PlaceBuilding(name string, x, y float64) (*state.MapObject, Result) {
	return w.PlaceMapObject(name, PlaceSpec{
		Type: state.ObjectTypeEntity,
		Kind: state.KindBuilding,
		X:    x,
		Y:    y,
	})
}

// ObjectPatch carries the optional fields of an update_map_object request.
// Nil pointers leave the field untouched.
type ObjectPatch struct {
	X, Y      *float64
	HP        *float64
	Mine      *state.MineMeta
	ItemSlots []*state.Item
}

// UpdateMapObject applies a client patch to a structure. Changing a mine's
// resource type is owner-gated; hp is accepted only for damageable kinds,
// clamped to [0, maxHp], and reaching zero deletes the object.
func (w *World) UpdateMapObject(name, id string, patch ObjectPatch) Result {
	w.objectsMu.Lock()
	defer w.objectsMu.Unlock()

	o := w.findObjectLocked(id)
	if o == nil {
		return noop()
	}

	if patch.Mine != nil && o.Kind == state.KindMine && o.Mine != nil {
		if o.Owner != name {
			return reject(RejectNotOwner)
		}
		if state.ValidResource(patch.Mine.Resource) {
			o.Mine.Resource = patch.Mine.Resource
		}
		if patch.Mine.IntervalMs > 0 {
			o.Mine.IntervalMs = patch.Mine.IntervalMs
		}
	}

	if patch.X != nil {
		o.X = *patch.X
	}
	if patch.Y != nil {
		o.Y = *patch.Y
	}
	if patch.ItemSlots != nil {
		if o.Owner != "" && o.Owner != name {
			return reject(RejectNotOwner)
		}
		o.ItemSlots = state.CloneSlots(patch.ItemSlots)
	}

	if patch.HP != nil && o.Damageable() {
		hp := *patch.HP
		if hp > o.MaxHP {
			hp = o.MaxHP
		}
		if hp <= 0 {
			w.removeObjectLocked(id)
			return changed(TableObjects)
		}
		o.HP = hp
	}

	return changed(TableObjects)
}

// DeleteMapObject removes a structure. Owned objects can only be deleted by
// their owner; unowned decorative tiles are deletable by anyone (the map
// editor path). A missing id is a stale-reference no-op.
func (w *World) DeleteMapObject(name, id string) Result {
	w.objectsMu.Lock()
	defer w.objectsMu.Unlock()

	o := w.findObjectLocked(id)
	if o == nil {
		return noop()
	}
	if o.Owner != "" && o.Owner != name {
		return reject(RejectNotOwner)
	}
	w.removeObjectLocked(id)
	return changed(TableObjects)
}
