package proto

import "warcamp/server/internal/state"

// Client request payloads.

type LoginRequest struct {
	Username string `json:"username"`
}

type UpdateAvatarRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UnitPayload is the client's view of a unit. HP rides along for display
// but is never written back to the world from a client frame.
type UnitPayload struct {
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	TX   float64 `json:"tx"`
	TY   float64 `json:"ty"`
	HP   float64 `json:"hp,omitempty"`
	Anim string  `json:"anim,omitempty"`
	Dir  string  `json:"dir,omitempty"`
}

type SpawnUnitRequest struct {
	Unit UnitPayload `json:"unit"`
}

type SpawnUnitFromEntityRequest struct {
	EntityID string `json:"entityId"`
}

type UpdateUnitsRequest struct {
	Units []UnitPayload `json:"units"`
}

type PlaceMapObjectRequest struct {
	Type      string              `json:"type"`
	Kind      state.MapObjectKind `json:"kind"`
	X         float64             `json:"x"`
	Y         float64             `json:"y"`
	Meta      *state.MineMeta     `json:"meta,omitempty"`
	Collision *state.Footprint    `json:"collision,omitempty"`
	ItemSlots []*state.Item       `json:"itemSlots,omitempty"`
}

type UpdateMapObjectRequest struct {
	ID        string          `json:"id"`
	X         *float64        `json:"x,omitempty"`
	Y         *float64        `json:"y,omitempty"`
	HP        *float64        `json:"hp,omitempty"`
	Meta      *state.MineMeta `json:"meta,omitempty"`
	ItemSlots []*state.Item   `json:"itemSlots,omitempty"`
}

type DeleteMapObjectRequest struct {
	ID string `json:"id"`
}

type PlaceBuildingRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type DropItemRequest struct {
	UnitID    string  `json:"unitId"`
	SlotIndex int     `json:"slotIndex"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

type PickupItemRequest struct {
	UnitID       string `json:"unitId"`
	SlotIndex    int    `json:"slotIndex"`
	GroundItemID string `json:"groundItemId"`
}

type DeleteGroundItemRequest struct {
	ID string `json:"id"`
}

type CollectResourceRequest struct {
	ResourceID string             `json:"resourceId"`
	Type       state.ResourceType `json:"type"`
	Amount     int                `json:"amount"`
}

type AttackUnitRequest struct {
	TargetSid  string `json:"targetSid"`
	UnitID     string `json:"unitId"`
	AttackerID string `json:"attackerId"`
}

type AttackEntityRequest struct {
	EntityID   string `json:"entityId"`
	AttackerID string `json:"attackerId"`
}

type UnitGiveToEntityRequest struct {
	UnitID     string `json:"unitId"`
	SlotIndex  int    `json:"slotIndex"`
	EntityID   string `json:"entityId"`
	EntitySlot int    `json:"entitySlot"`
}

type GroundGiveToEntityRequest struct {
	GroundItemID string `json:"groundItemId"`
	EntityID     string `json:"entityId"`
	EntitySlot   int    `json:"entitySlot"`
}

type EntityGiveToUnitRequest struct {
	EntityID   string `json:"entityId"`
	EntitySlot int    `json:"entitySlot"`
	UnitID     string `json:"unitId"`
	SlotIndex  int    `json:"slotIndex"`
}

type EntityGiveToGroundRequest struct {
	EntityID   string  `json:"entityId"`
	EntitySlot int     `json:"entitySlot"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

type SmithUpgradeItemRequest struct {
	EntityID  string `json:"entityId"`
	SlotIndex int    `json:"slotIndex"`
}

// Server message payloads.

// StatePayload is the full world snapshot.
type StatePayload struct {
	Players       []*state.Player       `json:"players"`
	MapObjects    []*state.MapObject    `json:"mapObjects"`
	GroundItems   []*state.GroundItem   `json:"groundItems"`
	ResourceNodes []*state.ResourceNode `json:"resourceNodes"`
}

type MapObjectsPayload struct {
	MapObjects []*state.MapObject `json:"mapObjects"`
}

type GroundItemsPayload struct {
	GroundItems []*state.GroundItem `json:"groundItems"`
}

// UnitsUpdatedPayload relays one player's unit list to the other sessions.
type UnitsUpdatedPayload struct {
	Player string        `json:"player"`
	Units  []*state.Unit `json:"units"`
}

type UnitHPUpdatePayload struct {
	Player  string  `json:"player"`
	UnitID  string  `json:"unitId"`
	HP      float64 `json:"hp"`
	Removed bool    `json:"removed,omitempty"`
}

type EntityHPUpdatePayload struct {
	EntityID string  `json:"entityId"`
	HP       float64 `json:"hp"`
	Removed  bool    `json:"removed,omitempty"`
}

// ResourcesPayload carries one player's fresh ledger, scoped to that
// player's session.
type ResourcesPayload struct {
	Player    string       `json:"player"`
	Resources state.Ledger `json:"resources"`
}

// ServerDebugPayload is a human-readable diagnostic for the caller only,
// not a structured error code.
type ServerDebugPayload struct {
	Message string `json:"message"`
}

type LoginSuccessPayload struct {
	Username string `json:"username"`
}

type LoginErrorPayload struct {
	Message string `json:"message"`
}
