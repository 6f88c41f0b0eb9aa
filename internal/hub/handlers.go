package hub

import (
	"encoding/json"
	"strings"

	"warcamp/server/internal/net/proto"
	"warcamp/server/internal/world"
)

// HandleMessage dispatches one decoded frame from a session. Handlers run
// on the session's read goroutine; the world's table locks make that safe.
func (h *Hub) HandleMessage(s *Session, data []byte) {
	var env proto.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		h.logger.Printf("discarding malformed frame from %q: %v", s.Name(), err)
		return
	}

	if env.Type == proto.EvtLogin {
		h.handleLogin(s, env.Data)
		return
	}
	name := s.Name()
	if name == "" {
		h.sendTo(s, proto.EvtLoginRequired, nil)
		return
	}

	switch env.Type {
	case proto.EvtLogout:
		h.handleLogout(s, name)
	case proto.EvtUpdate:
		h.handleUpdateAvatar(s, name, env.Data)
	case proto.EvtSpawnUnit:
		h.handleSpawnUnit(s, name, env.Data)
	case proto.EvtSpawnUnitFromEntity:
		h.handleSpawnUnitFromEntity(s, name, env.Data)
	case proto.EvtUpdateUnits:
		h.handleUpdateUnits(s, name, env.Data)
	case proto.EvtPlaceMapObject:
		h.handlePlaceMapObject(s, name, env.Data)
	case proto.EvtUpdateMapObject:
		h.handleUpdateMapObject(s, name, env.Data)
	case proto.EvtDeleteMapObject:
		h.handleDeleteMapObject(s, name, env.Data)
	case proto.EvtPlaceBuilding:
		h.handlePlaceBuilding(s, name, env.Data)
	case proto.EvtDropItem:
		h.handleDropItem(s, name, env.Data)
	case proto.EvtPickupItem:
		h.handlePickupItem(s, name, env.Data)
	case proto.EvtDeleteGroundItem:
		h.handleDeleteGroundItem(s, name, env.Data)
	case proto.EvtCollectResource:
		h.handleCollectResource(s, name, env.Data)
	case proto.EvtAttackUnit:
		h.handleAttackUnit(s, name, env.Data)
	case proto.EvtAttackEntity:
		h.handleAttackEntity(s, name, env.Data)
	case proto.EvtUnitGiveToEntity:
		h.handleUnitGiveToEntity(s, name, env.Data)
	case proto.EvtGroundGiveToEntity:
		h.handleGroundGiveToEntity(s, name, env.Data)
	case proto.EvtEntityGiveToUnit:
		h.handleEntityGiveToUnit(s, name, env.Data)
	case proto.EvtEntityGiveToGround:
		h.handleEntityGiveToGround(s, name, env.Data)
	case proto.EvtSmithUpgradeItem:
		h.handleSmithUpgradeItem(s, name, env.Data)
	case proto.EvtRequestMap:
		h.broadcastTo(s)
	case proto.EvtRequestState:
		h.sendState(s)
	default:
		h.logger.Printf("unknown event %q from %q", env.Type, name)
	}
}

// broadcastTo answers request_map with the caller-scoped object list.
func (h *Hub) broadcastTo(s *Session) {
	h.sendTo(s, proto.EvtMapObjects, proto.MapObjectsPayload{MapObjects: h.world.ObjectsSnapshot()})
}

// decode unmarshals a payload, reporting a malformed-request diagnostic on
// failure.
func (h *Hub) decode(s *Session, data json.RawMessage, out any) bool {
	if len(data) == 0 {
		h.debug(s, reasonText(world.RejectMissingField))
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		h.debug(s, "malformed request: "+err.Error())
		return false
	}
	return true
}

// finish applies the shared tail of every mutation: silent no-op for stale
// references, diagnostic for rejections, persistence for accepted changes.
func (h *Hub) finish(s *Session, res world.Result) bool {
	if !res.OK {
		if !res.Silent() {
			h.debug(s, reasonText(res.Reason))
		}
		return false
	}
	h.persistDirty(res.Dirty)
	return true
}

func (h *Hub) handleLogin(s *Session, data json.RawMessage) {
	var req proto.LoginRequest
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			h.sendTo(s, proto.EvtLoginError, proto.LoginErrorPayload{Message: "malformed login"})
			return
		}
	}
	name := strings.TrimSpace(req.Username)
	if name == "" {
		h.sendTo(s, proto.EvtLoginError, proto.LoginErrorPayload{Message: "username required"})
		return
	}

	created := h.world.Login(name)
	s.bind(name)
	h.sendTo(s, proto.EvtLoginSuccess, proto.LoginSuccessPayload{Username: name})
	h.sendState(s)
	if created {
		// Everyone else learns about the new player.
		h.broadcastExcept(s, proto.EvtState, h.statePayload())
	}
	h.logger.Printf("player %q logged in (created=%v)", name, created)
}

func (h *Hub) handleLogout(s *Session, name string) {
	res := h.world.Logout(name)
	s.bind("")
	if res.OK {
		h.persistDirty(res.Dirty)
	}
	h.broadcastState()
	h.logger.Printf("player %q logged out", name)
}

func (h *Hub) handleUpdateAvatar(s *Session, name string, data json.RawMessage) {
	var req proto.UpdateAvatarRequest
	if !h.decode(s, data, &req) {
		return
	}
	if h.world.UpdateAvatar(name, req.X, req.Y) {
		h.broadcastExcept(s, proto.EvtState, h.statePayload())
	}
}

func (h *Hub) handleSpawnUnit(s *Session, name string, data json.RawMessage) {
	var req proto.SpawnUnitRequest
	if !h.decode(s, data, &req) {
		return
	}
	_, res := h.world.SpawnUnit(name, world.UnitSpawn{
		X:   req.Unit.X,
		Y:   req.Unit.Y,
		TX:  req.Unit.TX,
		TY:  req.Unit.TY,
		Dir: req.Unit.Dir,
	})
	if !h.finish(s, res) {
		return
	}
	h.broadcastUnits(name)
}

func (h *Hub) handleSpawnUnitFromEntity(s *Session, name string, data json.RawMessage) {
	var req proto.SpawnUnitFromEntityRequest
	if !h.decode(s, data, &req) {
		return
	}
	_, res := h.world.SpawnUnitFromEntity(name, req.EntityID)
	if !h.finish(s, res) {
		return
	}
	h.broadcastUnits(name)
	h.sendResources(name)
}

func (h *Hub) handleUpdateUnits(s *Session, name string, data json.RawMessage) {
	var req proto.UpdateUnitsRequest
	if !h.decode(s, data, &req) {
		return
	}
	updates := make([]world.UnitUpdate, 0, len(req.Units))
	for _, u := range req.Units {
		updates = append(updates, world.UnitUpdate{
			ID:   u.ID,
			X:    u.X,
			Y:    u.Y,
			TX:   u.TX,
			TY:   u.TY,
			Anim: u.Anim,
			Dir:  u.Dir,
		})
	}
	if !h.world.UpdateUnits(name, updates) {
		return
	}
	units := h.world.PlayerUnits(name)
	h.broadcastExcept(s, proto.EvtUnitsUpdated, proto.UnitsUpdatedPayload{Player: name, Units: units})
}

func (h *Hub) handlePlaceMapObject(s *Session, name string, data json.RawMessage) {
	var req proto.PlaceMapObjectRequest
	if !h.decode(s, data, &req) {
		return
	}
	_, res := h.world.PlaceMapObject(name, world.PlaceSpec{
		Type:      req.Type,
		Kind:      req.Kind,
		X:         req.X,
		Y:         req.Y,
		Collision: req.Collision,
		Mine:      req.Meta,
		ItemSlots: req.ItemSlots,
	})
	if !h.finish(s, res) {
		return
	}
	h.broadcastMapObjects()
	h.sendResources(name)
}

func (h *Hub) handleUpdateMapObject(s *Session, name string, data json.RawMessage) {
	var req proto.UpdateMapObjectRequest
	if !h.decode(s, data, &req) {
		return
	}
	res := h.world.UpdateMapObject(name, req.ID, world.ObjectPatch{
		X:         req.X,
		Y:         req.Y,
		HP:        req.HP,
		Mine:      req.Meta,
		ItemSlots: req.ItemSlots,
	})
	if !h.finish(s, res) {
		return
	}
	h.broadcastMapObjects()
}

func (h *Hub) handleDeleteMapObject(s *Session, name string, data json.RawMessage) {
	var req proto.DeleteMapObjectRequest
	if !h.decode(s, data, &req) {
		return
	}
	if !h.finish(s, h.world.DeleteMapObject(name, req.ID)) {
		return
	}
	h.broadcastMapObjects()
}

func (h *Hub) handlePlaceBuilding(s *Session, name string, data json.RawMessage) {
	var req proto.PlaceBuildingRequest
	if !h.decode(s, data, &req) {
		return
	}
	_, res := h.world.PlaceBuilding(name, req.X, req.Y)
	if !h.finish(s, res) {
		return
	}
	h.broadcastMapObjects()
}

// finishTransfer handles the shared tail of unit-touching item moves:
// table broadcasts per dirty set, roster broadcast, and an hp update scoped
// to the owning session when equipment shifted the hp ceiling.
func (h *Hub) finishTransfer(s *Session, name string, res world.TransferResult) {
	if res.Dirty.Has(world.TableGround) {
		h.broadcastGroundItems()
	}
	if res.Dirty.Has(world.TableObjects) {
		h.broadcastMapObjects()
	}
	h.broadcastUnits(name)
	if res.HPChanged && res.Unit != nil {
		h.sendTo(s, proto.EvtUnitHPUpdate, proto.UnitHPUpdatePayload{
			Player: name,
			UnitID: res.Unit.ID,
			HP:     res.Unit.HP,
		})
	}
}

func (h *Hub) handleDropItem(s *Session, name string, data json.RawMessage) {
	var req proto.DropItemRequest
	if !h.decode(s, data, &req) {
		return
	}
	res := h.world.DropItem(name, req.UnitID, req.SlotIndex, req.X, req.Y)
	if !h.finish(s, res.Result) {
		return
	}
	h.finishTransfer(s, name, res)
}

func (h *Hub) handlePickupItem(s *Session, name string, data json.RawMessage) {
	var req proto.PickupItemRequest
	if !h.decode(s, data, &req) {
		return
	}
	res := h.world.PickupItem(name, req.UnitID, req.SlotIndex, req.GroundItemID)
	if !h.finish(s, res.Result) {
		return
	}
	h.finishTransfer(s, name, res)
}

func (h *Hub) handleDeleteGroundItem(s *Session, name string, data json.RawMessage) {
	var req proto.DeleteGroundItemRequest
	if !h.decode(s, data, &req) {
		return
	}
	if !h.finish(s, h.world.DeleteGroundItem(req.ID)) {
		return
	}
	h.broadcastGroundItems()
}

func (h *Hub) handleCollectResource(s *Session, name string, data json.RawMessage) {
	var req proto.CollectResourceRequest
	if !h.decode(s, data, &req) {
		return
	}
	if !h.finish(s, h.world.CollectResource(name, req.ResourceID, req.Type, req.Amount)) {
		return
	}
	// Node removal is world-wide state.
	h.broadcastState()
	h.sendResources(name)
}

func (h *Hub) handleAttackUnit(s *Session, name string, data json.RawMessage) {
	var req proto.AttackUnitRequest
	if !h.decode(s, data, &req) {
		return
	}
	res := h.world.AttackUnit(name, req.AttackerID, req.TargetSid, req.UnitID)
	if !h.finish(s, res.Result) {
		return
	}
	// HP update goes out before any removal so the killing blow renders.
	h.broadcast(proto.EvtUnitHPUpdate, proto.UnitHPUpdatePayload{
		Player:  res.TargetOwner,
		UnitID:  res.UnitID,
		HP:      res.HP,
		Removed: res.Removed,
	})
	if res.Removed {
		h.broadcastUnits(res.TargetOwner)
	}
	if res.LastUnitKilled {
		h.broadcastState()
	}
}

func (h *Hub) handleAttackEntity(s *Session, name string, data json.RawMessage) {
	var req proto.AttackEntityRequest
	if !h.decode(s, data, &req) {
		return
	}
	res := h.world.AttackEntity(name, req.AttackerID, req.EntityID)
	if !h.finish(s, res.Result) {
		return
	}
	h.broadcast(proto.EvtEntityHPUpdate, proto.EntityHPUpdatePayload{
		EntityID: res.EntityID,
		HP:       res.HP,
		Removed:  res.Removed,
	})
	if res.Removed {
		// A destroyed structure affects population caps and ownership.
		h.broadcastState()
	}
}

func (h *Hub) handleUnitGiveToEntity(s *Session, name string, data json.RawMessage) {
	var req proto.UnitGiveToEntityRequest
	if !h.decode(s, data, &req) {
		return
	}
	res := h.world.UnitGiveToEntity(name, req.UnitID, req.SlotIndex, req.EntityID, req.EntitySlot)
	if !h.finish(s, res.Result) {
		return
	}
	h.finishTransfer(s, name, res)
}

func (h *Hub) handleGroundGiveToEntity(s *Session, name string, data json.RawMessage) {
	var req proto.GroundGiveToEntityRequest
	if !h.decode(s, data, &req) {
		return
	}
	res := h.world.GroundGiveToEntity(name, req.GroundItemID, req.EntityID, req.EntitySlot)
	if !h.finish(s, res) {
		return
	}
	h.broadcastGroundItems()
	h.broadcastMapObjects()
}

func (h *Hub) handleEntityGiveToUnit(s *Session, name string, data json.RawMessage) {
	var req proto.EntityGiveToUnitRequest
	if !h.decode(s, data, &req) {
		return
	}
	res := h.world.EntityGiveToUnit(name, req.EntityID, req.EntitySlot, req.UnitID, req.SlotIndex)
	if !h.finish(s, res.Result) {
		return
	}
	h.finishTransfer(s, name, res)
}

func (h *Hub) handleEntityGiveToGround(s *Session, name string, data json.RawMessage) {
	var req proto.EntityGiveToGroundRequest
	if !h.decode(s, data, &req) {
		return
	}
	res := h.world.EntityGiveToGround(name, req.EntityID, req.EntitySlot, req.X, req.Y)
	if !h.finish(s, res) {
		return
	}
	h.broadcastGroundItems()
	h.broadcastMapObjects()
}

func (h *Hub) handleSmithUpgradeItem(s *Session, name string, data json.RawMessage) {
	var req proto.SmithUpgradeItemRequest
	if !h.decode(s, data, &req) {
		return
	}
	if !h.finish(s, h.world.SmithUpgradeItem(name, req.EntityID, req.SlotIndex)) {
		return
	}
	h.broadcastMapObjects()
	h.sendResources(name)
}
