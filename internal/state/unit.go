package state

import "github.com/google/uuid"

// Animation states mirrored by the client sprite sheets.
const (
	AnimIdle   = "idle"
	AnimWalk   = "walk"
	AnimAttack = "attack"
)

// UnitSlotCount is the fixed number of equipment slots on a unit.
const UnitSlotCount = 5

// Unit is a mobile combatant owned by a player. HP, MaxHP and DPS are
// server-authoritative: MaxHP and DPS are always recomputed from the
// equipped items and client-reported HP is never accepted.
type Unit struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	TX        float64 `json:"tx"`
	TY        float64 `json:"ty"`
	HP        float64 `json:"hp"`
	MaxHP     float64 `json:"maxHp"`
	DPS       float64 `json:"dps"`
	Anim      string  `json:"anim"`
	Dir       string  `json:"dir"`
	ItemSlots []*Item `json:"itemSlots"`
}

// NewUnit creates an idle unit at the given position with empty slots.
// Derived stats are filled in by the stats package before use.
func NewUnit(x, y float64) *Unit {
	return &Unit{
		ID:        uuid.NewString(),
		X:         x,
		Y:         y,
		TX:        x,
		TY:        y,
		Anim:      AnimIdle,
		Dir:       DefaultFacing,
		ItemSlots: make([]*Item, UnitSlotCount),
	}
}

// Slot returns the item at idx, nil when the index is out of range or empty.
func (u *Unit) Slot(idx int) *Item {
	if u == nil || idx < 0 || idx >= len(u.ItemSlots) {
		return nil
	}
	return u.ItemSlots[idx]
}

// SetSlot stores an item at idx. Out-of-range indexes are ignored; the slot
// array on units never grows.
func (u *Unit) SetSlot(idx int, it *Item) {
	if u == nil || idx < 0 || idx >= len(u.ItemSlots) {
		return
	}
	u.ItemSlots[idx] = it
}

// Clone deep-copies the unit.
func (u *Unit) Clone() *Unit {
	if u == nil {
		return nil
	}
	c := *u
	c.ItemSlots = CloneSlots(u.ItemSlots)
	return &c
}
