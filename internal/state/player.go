package state

import (
	"fmt"
	"math/rand"
)

// ResourceType identifies one of the three harvestable resources.
type ResourceType string

const (
	ResourceRed   ResourceType = "red"
	ResourceGreen ResourceType = "green"
	ResourceBlue  ResourceType = "blue"
)

// ValidResource reports whether t names a known resource type.
func ValidResource(t ResourceType) bool {
	switch t {
	case ResourceRed, ResourceGreen, ResourceBlue:
		return true
	}
	return false
}

// Ledger is a player's per-resource balance. Balances never go negative.
type Ledger struct {
	Red   int `json:"red"`
	Green int `json:"green"`
	Blue  int `json:"blue"`
}

// Amount returns the balance for one resource type.
func (l Ledger) Amount(t ResourceType) int {
	switch t {
	case ResourceRed:
		return l.Red
	case ResourceGreen:
		return l.Green
	case ResourceBlue:
		return l.Blue
	}
	return 0
}

// Add credits the ledger. Non-positive amounts are ignored.
func (l *Ledger) Add(t ResourceType, amount int) {
	if l == nil || amount <= 0 {
		return
	}
	switch t {
	case ResourceRed:
		l.Red += amount
	case ResourceGreen:
		l.Green += amount
	case ResourceBlue:
		l.Blue += amount
	}
}

// Spend debits the ledger, refusing to go below zero. It reports whether the
// debit was applied; a refused debit leaves the balance untouched.
func (l *Ledger) Spend(t ResourceType, amount int) bool {
	if l == nil || amount < 0 || l.Amount(t) < amount {
		return false
	}
	switch t {
	case ResourceRed:
		l.Red -= amount
	case ResourceGreen:
		l.Green -= amount
	case ResourceBlue:
		l.Blue -= amount
	}
	return true
}

// Player is a connected (or previously connected) account. The record stays
// in memory for the process lifetime; a dropped socket must not destroy
// economy progress, so removal happens only on explicit logout.
type Player struct {
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Color  string  `json:"color"`
	Units  []*Unit `json:"units"`
	Ledger Ledger  `json:"resources"`
}

// NewPlayer creates a player with a random display color and no units.
func NewPlayer(name string, rng *rand.Rand) *Player {
	return &Player{
		Name:  name,
		Color: randomColor(rng),
		Units: make([]*Unit, 0, 4),
	}
}

// FindUnit returns the first unit with the given id, scanning in insertion
// order.
func (p *Player) FindUnit(id string) *Unit {
	if p == nil {
		return nil
	}
	for _, u := range p.Units {
		if u != nil && u.ID == id {
			return u
		}
	}
	return nil
}

// RemoveUnit deletes the first unit with the given id and reports whether
// anything was removed.
func (p *Player) RemoveUnit(id string) bool {
	if p == nil {
		return false
	}
	for i, u := range p.Units {
		if u != nil && u.ID == id {
			p.Units = append(p.Units[:i], p.Units[i+1:]...)
			return true
		}
	}
	return false
}

// LivingUnits counts units with hp above zero.
func (p *Player) LivingUnits() int {
	if p == nil {
		return 0
	}
	count := 0
	for _, u := range p.Units {
		if u != nil && u.HP > 0 {
			count++
		}
	}
	return count
}

// Clone deep-copies the player for snapshotting.
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	c := *p
	c.Units = make([]*Unit, len(p.Units))
	for i, u := range p.Units {
		c.Units[i] = u.Clone()
	}
	return &c
}

func randomColor(rng *rand.Rand) string {
	if rng == nil {
		return "#888888"
	}
	return fmt.Sprintf("#%06X", rng.Intn(0x1000000))
}
