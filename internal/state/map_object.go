package state

import "github.com/google/uuid"

// MapObjectKind tags the closed set of map-object variants.
type MapObjectKind string

const (
	KindTownCenter MapObjectKind = "town_center"
	KindMine       MapObjectKind = "mine"
	KindBlacksmith MapObjectKind = "blacksmith"
	KindBuilding   MapObjectKind = "building"
	KindSpider     MapObjectKind = "spider"
)

// Object type tags. Entities participate in combat, production and AI;
// tiles are decoration and never carry hp.
const (
	ObjectTypeEntity = "entity"
	ObjectTypeTile   = "tile"
)

// Footprint is an axis-aligned collision box centered on (CX, CY) relative
// to the object's position.
type Footprint struct {
	CX float64 `json:"cx"`
	CY float64 `json:"cy"`
	CW float64 `json:"cw"`
	CH float64 `json:"ch"`
}

// MineMeta is the production metadata carried by mines. NextTickMs is a unix
// millisecond deadline; any persisted deadline is stale after downtime and
// gets reset to now+interval at load.
type MineMeta struct {
	Resource   ResourceType `json:"resource"`
	IntervalMs int64        `json:"interval"`
	NextTickMs int64        `json:"nextTick"`
}

// Vec2 is a world coordinate.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SpiderMeta is the patrol/aggro state carried by hostile spiders.
type SpiderMeta struct {
	Waypoints     []Vec2 `json:"waypoints"`
	WaypointIndex int    `json:"waypointIndex"`
	Chasing       bool   `json:"chasing"`
}

// MapObject is a placed structure, decorative tile or hostile NPC. Owner is
// a player name, never a pointer: "objects owned by X" is a scan. Exactly
// one of the kind metadata pointers is set for kinds that need one.
type MapObject struct {
	ID        string        `json:"id"`
	Type      string        `json:"type"`
	Kind      MapObjectKind `json:"kind"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Owner     string        `json:"owner,omitempty"`
	Facing    string        `json:"dir,omitempty"`
	HP        float64       `json:"hp,omitempty"`
	MaxHP     float64       `json:"maxHp,omitempty"`
	Mine      *MineMeta     `json:"mine,omitempty"`
	Spider    *SpiderMeta   `json:"spider,omitempty"`
	Collision *Footprint    `json:"collision,omitempty"`
	ItemSlots []*Item       `json:"itemSlots,omitempty"`
}

// NewMapObject creates an entity object of the given kind with kind-default
// hp and collision footprint.
func NewMapObject(kind MapObjectKind, x, y float64, owner string) *MapObject {
	o := &MapObject{
		ID:    uuid.NewString(),
		Type:  ObjectTypeEntity,
		Kind:  kind,
		X:     x,
		Y:     y,
		Owner: owner,
	}
	if maxHP := DefaultMaxHP(kind); maxHP > 0 {
		o.HP = maxHP
		o.MaxHP = maxHP
	}
	if fp := DefaultFootprint(kind); fp != nil {
		o.Collision = fp
	}
	return o
}

// DefaultMaxHP returns the kind's hp pool, zero for kinds that cannot be
// damaged.
func DefaultMaxHP(kind MapObjectKind) float64 {
	switch kind {
	case KindTownCenter:
		return 500
	case KindBuilding:
		return 300
	case KindMine:
		return 200
	case KindBlacksmith:
		return 250
	case KindSpider:
		return 120
	}
	return 0
}

// DefaultFootprint returns the kind's collision box, nil for kinds that do
// not block movement.
func DefaultFootprint(kind MapObjectKind) *Footprint {
	switch kind {
	case KindTownCenter:
		return &Footprint{CW: 128, CH: 96}
	case KindBuilding:
		return &Footprint{CW: 96, CH: 96}
	case KindMine:
		return &Footprint{CW: 80, CH: 64}
	case KindBlacksmith:
		return &Footprint{CW: 96, CH: 72}
	}
	return nil
}

// IsEntity reports whether the object participates in combat, production
// and AI.
func (o *MapObject) IsEntity() bool {
	return o != nil && o.Type == ObjectTypeEntity
}

// Damageable reports whether the object carries an hp pool.
func (o *MapObject) Damageable() bool {
	return o.IsEntity() && o.MaxHP > 0
}

// Slot returns the item at idx, nil when out of range or empty.
func (o *MapObject) Slot(idx int) *Item {
	if o == nil || idx < 0 || idx >= len(o.ItemSlots) {
		return nil
	}
	return o.ItemSlots[idx]
}

// SetSlot stores an item at idx, growing the slot array on demand: slot
// count varies by structure kind, so structure slots are not pre-sized.
func (o *MapObject) SetSlot(idx int, it *Item) {
	if o == nil || idx < 0 {
		return
	}
	for len(o.ItemSlots) <= idx {
		o.ItemSlots = append(o.ItemSlots, nil)
	}
	o.ItemSlots[idx] = it
}

// Clone deep-copies the object for snapshotting.
func (o *MapObject) Clone() *MapObject {
	if o == nil {
		return nil
	}
	c := *o
	if o.Mine != nil {
		m := *o.Mine
		c.Mine = &m
	}
	if o.Spider != nil {
		s := *o.Spider
		s.Waypoints = append([]Vec2(nil), o.Spider.Waypoints...)
		c.Spider = &s
	}
	if o.Collision != nil {
		fp := *o.Collision
		c.Collision = &fp
	}
	c.ItemSlots = CloneSlots(o.ItemSlots)
	return &c
}
