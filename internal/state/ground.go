package state

import "github.com/google/uuid"

// GroundItem is an item lying in the world, created whenever an item leaves
// a slot without an immediate destination and destroyed on pickup.
type GroundItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Bonus int     `json:"bonus"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// NewGroundItem drops an item value at a position.
func NewGroundItem(it Item, x, y float64) *GroundItem {
	return &GroundItem{
		ID:    uuid.NewString(),
		Name:  it.Name,
		Bonus: it.Bonus,
		X:     x,
		Y:     y,
	}
}

// Item converts the ground record back into a slot value. The original item
// id is not preserved across a drop; a fresh identity is minted on pickup.
func (g *GroundItem) Item() Item {
	return Item{ID: uuid.NewString(), Name: g.Name, Bonus: g.Bonus}
}

// Clone copies the ground item.
func (g *GroundItem) Clone() *GroundItem {
	if g == nil {
		return nil
	}
	c := *g
	return &c
}

// ResourceNode is a harvestable world-generated node. Harvesting destroys it
// permanently; nodes never respawn.
type ResourceNode struct {
	ID   string       `json:"id"`
	X    float64      `json:"x"`
	Y    float64      `json:"y"`
	Type ResourceType `json:"type"`
}

// NewResourceNode creates a node of the given type.
func NewResourceNode(x, y float64, t ResourceType) *ResourceNode {
	return &ResourceNode{ID: uuid.NewString(), X: x, Y: y, Type: t}
}

// Clone copies the node.
func (n *ResourceNode) Clone() *ResourceNode {
	if n == nil {
		return nil
	}
	c := *n
	return &c
}
