// Package proto defines the websocket wire protocol: one JSON envelope per
// frame carrying a named event and its payload. Field names are pinned by
// the deployed client; treat every json tag here as frozen.
package proto

import "encoding/json"

// Client->server event names.
const (
	EvtLogin               = "login"
	EvtLogout              = "logout"
	EvtUpdate              = "update"
	EvtSpawnUnit           = "spawn_unit"
	EvtSpawnUnitFromEntity = "spawn_unit_from_entity"
	EvtUpdateUnits         = "update_units"
	EvtPlaceMapObject      = "place_map_object"
	EvtUpdateMapObject     = "update_map_object"
	EvtDeleteMapObject     = "delete_map_object"
	EvtPlaceBuilding       = "place_building"
	EvtDropItem            = "drop_item"
	EvtPickupItem          = "pickup_item"
	EvtDeleteGroundItem    = "delete_ground_item"
	EvtCollectResource     = "collect_resource"
	EvtAttackUnit          = "attack_unit"
	EvtAttackEntity        = "attack_entity"
	EvtUnitGiveToEntity    = "unit_give_to_entity"
	EvtGroundGiveToEntity  = "ground_give_to_entity"
	EvtEntityGiveToUnit    = "entity_give_to_unit"
	EvtEntityGiveToGround  = "entity_give_to_ground"
	EvtSmithUpgradeItem    = "smith_upgrade_item"
	EvtRequestMap          = "request_map"
	EvtRequestState        = "request_state"
)

// Server->client event names. EvtUnitsUpdated shares its wire name with the
// client's update_units request; direction disambiguates.
const (
	EvtState          = "state"
	EvtMapObjects     = "map_objects"
	EvtUnitsUpdated   = "update_units"
	EvtUnitHPUpdate   = "unit_hp_update"
	EvtEntityHPUpdate = "entity_hp_update"
	EvtGroundItems    = "ground_items"
	EvtResources      = "resources"
	EvtServerDebug    = "server_debug"
	EvtLoginRequired  = "login_required"
	EvtLoginSuccess   = "login_success"
	EvtLoginError     = "login_error"
)

// Envelope is the wire frame. Data stays raw until the event name selects a
// payload type.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Encode wraps a payload into a marshaled frame.
func Encode(event string, payload any) ([]byte, error) {
	env := Envelope{Type: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Data = data
	}
	return json.Marshal(env)
}
