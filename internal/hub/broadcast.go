package hub

import (
	"warcamp/server/internal/net/proto"
	"warcamp/server/internal/world"
)

// sendTo encodes one frame for a single session, disconnecting it on a
// failed write.
func (h *Hub) sendTo(s *Session, event string, payload any) {
	data, err := proto.Encode(event, payload)
	if err != nil {
		h.logger.Printf("encode %s: %v", event, err)
		return
	}
	if err := s.send(data); err != nil {
		h.Disconnect(s)
	}
}

// broadcast encodes one frame and fans it out to every session. Sessions
// whose write fails are disconnected.
func (h *Hub) broadcast(event string, payload any) {
	data, err := proto.Encode(event, payload)
	if err != nil {
		h.logger.Printf("encode %s: %v", event, err)
		return
	}
	for _, s := range h.snapshotSessions() {
		if err := s.send(data); err != nil {
			h.Disconnect(s)
		}
	}
}

// broadcastExcept fans a frame out to every session but one: bulk unit
// syncs echo to everyone except the client that produced them.
func (h *Hub) broadcastExcept(skip *Session, event string, payload any) {
	data, err := proto.Encode(event, payload)
	if err != nil {
		h.logger.Printf("encode %s: %v", event, err)
		return
	}
	for _, s := range h.snapshotSessions() {
		if s == skip {
			continue
		}
		if err := s.send(data); err != nil {
			h.Disconnect(s)
		}
	}
}

// statePayload assembles a full snapshot of all four tables.
func (h *Hub) statePayload() proto.StatePayload {
	players, objects, ground, nodes := h.world.Snapshot()
	return proto.StatePayload{
		Players:       players,
		MapObjects:    objects,
		GroundItems:   ground,
		ResourceNodes: nodes,
	}
}

// broadcastState pushes the full snapshot to every session. Reserved for
// world-wide changes: a new or departed player, a destroyed structure, a
// harvested node.
func (h *Hub) broadcastState() {
	h.broadcast(proto.EvtState, h.statePayload())
}

func (h *Hub) sendState(s *Session) {
	h.sendTo(s, proto.EvtState, h.statePayload())
}

func (h *Hub) broadcastMapObjects() {
	h.broadcast(proto.EvtMapObjects, proto.MapObjectsPayload{MapObjects: h.world.ObjectsSnapshot()})
}

func (h *Hub) broadcastGroundItems() {
	h.broadcast(proto.EvtGroundItems, proto.GroundItemsPayload{GroundItems: h.world.GroundSnapshot()})
}

// broadcastUnits pushes one player's current unit list to every session, so
// equipment and roster changes render everywhere.
func (h *Hub) broadcastUnits(name string) {
	units := h.world.PlayerUnits(name)
	if units == nil {
		return
	}
	h.broadcast(proto.EvtUnitsUpdated, proto.UnitsUpdatedPayload{Player: name, Units: units})
}

// sendResources pushes a player's fresh ledger to their own session, if one
// is connected.
func (h *Hub) sendResources(name string) {
	ledger, ok := h.world.Ledger(name)
	if !ok {
		return
	}
	payload := proto.ResourcesPayload{Player: name, Resources: ledger}
	for _, s := range h.snapshotSessions() {
		if s.Name() == name {
			h.sendTo(s, proto.EvtResources, payload)
		}
	}
}

// debug emits a human-readable diagnostic to one caller.
func (h *Hub) debug(s *Session, message string) {
	h.sendTo(s, proto.EvtServerDebug, proto.ServerDebugPayload{Message: message})
}

// reasonText maps a rejection code to the caller-facing diagnostic.
func reasonText(reason string) string {
	switch reason {
	case world.RejectMissingField:
		return "request is missing a required field"
	case world.RejectNotOwner:
		return "you do not own that"
	case world.RejectUnaffordable:
		return "not enough resources"
	case world.RejectPopulationCap:
		return "population limit reached"
	case world.RejectOutOfRange:
		return "too far away"
	case world.RejectSlotOccupied:
		return "that slot is already occupied"
	case world.RejectSlotEmpty:
		return "that slot is empty"
	case world.RejectUnknownKind:
		return "unknown object kind"
	case world.RejectUnknownPlayer:
		return "log in first"
	}
	return reason
}
