package state

// Item is a value carried in a unit or structure slot, or lying on the
// ground. Identity never changes; upgrades only increment Bonus.
type Item struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Bonus int    `json:"bonus"`
}

const (
	ItemSword  = "sword"
	ItemShield = "shield"
)

// AttackPoints returns the attack contribution of the item, zero for
// anything that is not a sword.
func (it *Item) AttackPoints() int {
	if it == nil || it.Name != ItemSword {
		return 0
	}
	return 1 + it.Bonus
}

// DefensePoints returns the defense contribution of the item, zero for
// anything that is not a shield.
func (it *Item) DefensePoints() int {
	if it == nil || it.Name != ItemShield {
		return 0
	}
	return 1 + it.Bonus
}

// Clone copies the item so callers cannot mutate stored slots through a
// snapshot.
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	c := *it
	return &c
}

// CloneSlots deep-copies a slot array, preserving nil entries.
func CloneSlots(slots []*Item) []*Item {
	if slots == nil {
		return nil
	}
	cloned := make([]*Item, len(slots))
	for i, it := range slots {
		cloned[i] = it.Clone()
	}
	return cloned
}
