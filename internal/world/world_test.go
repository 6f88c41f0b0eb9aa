package world

import (
	"io"
	"log"
	"math"
	"testing"
	"time"

	"warcamp/server/internal/state"
)

func newTestWorld() *World {
	return New(DefaultTuning(), log.New(io.Discard, "", 0))
}

// firstUnit returns the seeded unit of a logged-in test player.
func firstUnit(t *testing.T, w *World, name string) *state.Unit {
	t.Helper()
	w.playersMu.Lock()
	defer w.playersMu.Unlock()
	p, ok := w.players[name]
	if !ok || len(p.Units) == 0 {
		t.Fatalf("player %q has no units", name)
	}
	return p.Units[0]
}

func grant(w *World, name string, typ state.ResourceType, amount int) {
	w.playersMu.Lock()
	defer w.playersMu.Unlock()
	w.players[name].Ledger.Add(typ, amount)
}

func balance(w *World, name string, typ state.ResourceType) int {
	w.playersMu.Lock()
	defer w.playersMu.Unlock()
	return w.players[name].Ledger.Amount(typ)
}

func TestLoginSeedsOneUnit(t *testing.T) {
	w := newTestWorld()
	if !w.Login("ada") {
		t.Fatalf("first login should create the player")
	}
	if w.Login("ada") {
		t.Fatalf("second login must reuse the record")
	}
	units := w.PlayerUnits("ada")
	if len(units) != 1 {
		t.Fatalf("expected 1 seeded unit, got %d", len(units))
	}
	u := units[0]
	if u.HP != u.MaxHP || u.MaxHP <= 0 {
		t.Fatalf("seeded unit should spawn at full hp, got hp=%v maxHp=%v", u.HP, u.MaxHP)
	}
}

func TestPickupRangeBoundaryInclusive(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")
	u := firstUnit(t, w, "ada")
	u.X, u.Y = 0, 0

	exact := state.NewGroundItem(state.Item{Name: state.ItemSword}, 120, 0)
	w.ground = append(w.ground, exact)

	res := w.PickupItem("ada", u.ID, 0, exact.ID)
	if !res.OK {
		t.Fatalf("pickup at exactly 120 units must succeed, got reason %q", res.Reason)
	}
	if got := u.Slot(0); got == nil || got.Name != state.ItemSword {
		t.Fatalf("sword not equipped after pickup")
	}

	far := state.NewGroundItem(state.Item{Name: state.ItemShield}, 120.5, 0)
	w.ground = append(w.ground, far)

	res = w.PickupItem("ada", u.ID, 1, far.ID)
	if res.OK || res.Reason != RejectOutOfRange {
		t.Fatalf("pickup beyond range must be rejected, got ok=%v reason=%q", res.OK, res.Reason)
	}
	if len(w.GroundSnapshot()) != 1 {
		t.Fatalf("rejected pickup must leave the item on the ground")
	}
}

func TestPickupIntoOccupiedSlot(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")
	u := firstUnit(t, w, "ada")
	u.X, u.Y = 0, 0
	u.SetSlot(0, &state.Item{ID: "held", Name: state.ItemSword})

	g := state.NewGroundItem(state.Item{Name: state.ItemShield}, 10, 0)
	w.ground = append(w.ground, g)

	res := w.PickupItem("ada", u.ID, 0, g.ID)
	if res.OK || res.Reason != RejectSlotOccupied {
		t.Fatalf("expected slot_occupied, got ok=%v reason=%q", res.OK, res.Reason)
	}
}

func TestDropThenPickupConservesItem(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")
	u := firstUnit(t, w, "ada")
	u.X, u.Y = 0, 0
	u.SetSlot(2, &state.Item{ID: "it-1", Name: state.ItemShield, Bonus: 3})

	drop := w.DropItem("ada", u.ID, 2, 5, 5)
	if !drop.OK {
		t.Fatalf("drop failed: %q", drop.Reason)
	}
	if u.Slot(2) != nil {
		t.Fatalf("slot must be empty after drop")
	}
	ground := w.GroundSnapshot()
	if len(ground) != 1 {
		t.Fatalf("expected 1 ground item, got %d", len(ground))
	}

	pick := w.PickupItem("ada", u.ID, 2, ground[0].ID)
	if !pick.OK {
		t.Fatalf("pickup failed: %q", pick.Reason)
	}
	if len(w.GroundSnapshot()) != 0 {
		t.Fatalf("ground item must vanish on pickup")
	}
	got := u.Slot(2)
	if got == nil || got.Name != state.ItemShield || got.Bonus != 3 {
		t.Fatalf("item identity lost across drop/pickup: %+v", got)
	}
}

func TestShieldEquipRaisesHPByDelta(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")
	u := firstUnit(t, w, "ada")
	u.X, u.Y = 0, 0
	u.HP = 40 // damaged

	g := state.NewGroundItem(state.Item{Name: state.ItemShield}, 0, 0)
	w.ground = append(w.ground, g)

	res := w.PickupItem("ada", u.ID, 0, g.ID)
	if !res.OK || !res.HPChanged {
		t.Fatalf("shield pickup should report an hp change")
	}
	// Defense 1 raises maxHp 100 -> 115; current hp rises by the delta.
	if u.MaxHP != 115 || u.HP != 55 {
		t.Fatalf("expected hp=55 maxHp=115, got hp=%v maxHp=%v", u.HP, u.MaxHP)
	}
}

func TestPlaceMineAffordability(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")

	grant(w, "ada", state.ResourceBlue, 3)
	o, res := w.PlaceMapObject("ada", PlaceSpec{Type: state.ObjectTypeEntity, Kind: state.KindMine, X: 10, Y: 20})
	if !res.OK {
		t.Fatalf("mine with exactly 3 blue must place, got %q", res.Reason)
	}
	if o.Mine == nil || o.Mine.IntervalMs <= 0 {
		t.Fatalf("placed mine missing production metadata: %+v", o.Mine)
	}
	if got := balance(w, "ada", state.ResourceBlue); got != 0 {
		t.Fatalf("ledger should be drained to 0, got %d", got)
	}

	grant(w, "ada", state.ResourceBlue, 2)
	_, res = w.PlaceMapObject("ada", PlaceSpec{Type: state.ObjectTypeEntity, Kind: state.KindMine, X: 30, Y: 40})
	if res.OK || res.Reason != RejectUnaffordable {
		t.Fatalf("mine with 2 blue must be rejected, got ok=%v reason=%q", res.OK, res.Reason)
	}
	if got := balance(w, "ada", state.ResourceBlue); got != 2 {
		t.Fatalf("rejected placement must leave the ledger untouched, got %d", got)
	}
	if len(w.ObjectsSnapshot()) != 1 {
		t.Fatalf("rejected placement must not add an object")
	}
}

func TestTilePlacementIsFree(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")
	_, res := w.PlaceMapObject("ada", PlaceSpec{Type: state.ObjectTypeTile, Kind: "grass", X: 0, Y: 0})
	if !res.OK {
		t.Fatalf("tile placement must be free, got %q", res.Reason)
	}
}

func TestTilePlacementRejectsEntityKinds(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")

	for _, kind := range []state.MapObjectKind{state.KindTownCenter, state.KindMine, state.KindBlacksmith, state.KindBuilding, state.KindSpider} {
		_, res := w.PlaceMapObject("ada", PlaceSpec{Type: state.ObjectTypeTile, Kind: kind, X: 0, Y: 0})
		if res.OK || res.Reason != RejectUnknownKind {
			t.Fatalf("tile with kind %q must be rejected, got ok=%v reason=%q", kind, res.OK, res.Reason)
		}
	}
	if len(w.ObjectsSnapshot()) != 0 {
		t.Fatalf("rejected tiles must not reach the object table")
	}
}

func TestUpdateLegacyTileMineIsSafe(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")

	// A legacy snapshot row: tile-typed, mine-kinded, no production meta.
	o := &state.MapObject{ID: "legacy-1", Type: state.ObjectTypeTile, Kind: state.KindMine, Owner: "ada"}
	w.objects = append(w.objects, o)

	res := w.UpdateMapObject("ada", "legacy-1", ObjectPatch{
		Mine: &state.MineMeta{Resource: state.ResourceRed, IntervalMs: 1000},
	})
	if !res.OK {
		t.Fatalf("patching a legacy tile must not fail hard, got %+v", res)
	}
	if o.Mine != nil {
		t.Fatalf("tile must never grow production metadata, got %+v", o.Mine)
	}
}

func TestSpawnUnitFromEntity(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")
	w.Login("bob")

	grant(w, "ada", state.ResourceRed, 5)
	tc, res := w.PlaceMapObject("ada", PlaceSpec{Type: state.ObjectTypeEntity, Kind: state.KindTownCenter, X: 100, Y: 100})
	if !res.OK {
		t.Fatalf("town center placement failed: %q", res.Reason)
	}

	_, res = w.SpawnUnitFromEntity("bob", tc.ID)
	if res.OK || res.Reason != RejectNotOwner {
		t.Fatalf("spawning from another player's center must be rejected, got %q", res.Reason)
	}

	_, res = w.SpawnUnitFromEntity("ada", tc.ID)
	if res.OK || res.Reason != RejectUnaffordable {
		t.Fatalf("spawn without green must be rejected, got %q", res.Reason)
	}

	grant(w, "ada", state.ResourceGreen, 1)
	u, res := w.SpawnUnitFromEntity("ada", tc.ID)
	if !res.OK {
		t.Fatalf("spawn with 1 green failed: %q", res.Reason)
	}
	if u.X != 180 || u.Y != 140 {
		t.Fatalf("unit should spawn offset from the center, got (%v, %v)", u.X, u.Y)
	}
	if got := balance(w, "ada", state.ResourceGreen); got != 0 {
		t.Fatalf("spawn must cost 1 green, balance is %d", got)
	}
}

func TestPopulationCapBoundary(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")

	grant(w, "ada", state.ResourceRed, 5)
	tc, res := w.PlaceMapObject("ada", PlaceSpec{Type: state.ObjectTypeEntity, Kind: state.KindTownCenter, X: 0, Y: 0})
	if !res.OK {
		t.Fatalf("town center placement failed: %q", res.Reason)
	}

	grant(w, "ada", state.ResourceGreen, 20)
	// One seeded unit already exists; fill up to one below the cap of 10.
	for i := 1; i < PopulationCap(1)-1; i++ {
		if _, res := w.SpawnUnitFromEntity("ada", tc.ID); !res.OK {
			t.Fatalf("spawn %d below cap failed: %q", i, res.Reason)
		}
	}
	if _, res := w.SpawnUnitFromEntity("ada", tc.ID); !res.OK {
		t.Fatalf("spawn at one below cap must succeed, got %q", res.Reason)
	}
	if _, res := w.SpawnUnitFromEntity("ada", tc.ID); res.OK || res.Reason != RejectPopulationCap {
		t.Fatalf("spawn at the cap must be rejected, got ok=%v reason=%q", res.OK, res.Reason)
	}
}

func TestAttackUnitKillOrdering(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")
	w.Login("bob")

	attacker := firstUnit(t, w, "ada")
	target := firstUnit(t, w, "bob")
	target.HP = 0.25 // below one swing of base damage (30/60 = 0.5)

	res := w.AttackUnit("ada", attacker.ID, "bob", target.ID)
	if !res.OK {
		t.Fatalf("attack resolved as no-op")
	}
	if res.HP != 0 {
		t.Fatalf("hp must clamp to 0, got %v", res.HP)
	}
	if !res.Removed || !res.LastUnitKilled {
		t.Fatalf("killing the last unit must set Removed and LastUnitKilled, got %+v", res)
	}
	if units := w.PlayerUnits("bob"); len(units) != 0 {
		t.Fatalf("dead unit must leave the owner's list, %d remain", len(units))
	}
}

func TestAttackUnitStaleTarget(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")
	attacker := firstUnit(t, w, "ada")

	res := w.AttackUnit("ada", attacker.ID, "bob", "gone")
	if res.OK || !res.Silent() {
		t.Fatalf("stale target must be a silent no-op, got %+v", res.Result)
	}
}

func TestAttackEntityDestroysStructure(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")
	w.Login("bob")
	attacker := firstUnit(t, w, "ada")

	grant(w, "bob", state.ResourceRed, 3)
	smith, res := w.PlaceMapObject("bob", PlaceSpec{Type: state.ObjectTypeEntity, Kind: state.KindBlacksmith, X: 0, Y: 0})
	if !res.OK {
		t.Fatalf("blacksmith placement failed: %q", res.Reason)
	}

	w.objectsMu.Lock()
	w.findObjectLocked(smith.ID).HP = 0.25
	w.objectsMu.Unlock()

	hit := w.AttackEntity("ada", attacker.ID, smith.ID)
	if !hit.OK || !hit.Removed || hit.HP != 0 {
		t.Fatalf("killing blow should remove the structure: %+v", hit)
	}
	if len(w.ObjectsSnapshot()) != 0 {
		t.Fatalf("destroyed structure must leave the table")
	}
}

func TestSmithUpgrade(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")

	grant(w, "ada", state.ResourceRed, 3)
	smith, res := w.PlaceMapObject("ada", PlaceSpec{Type: state.ObjectTypeEntity, Kind: state.KindBlacksmith, X: 0, Y: 0})
	if !res.OK {
		t.Fatalf("blacksmith placement failed: %q", res.Reason)
	}

	u := firstUnit(t, w, "ada")
	u.SetSlot(0, &state.Item{ID: "sw", Name: state.ItemSword})
	if tr := w.UnitGiveToEntity("ada", u.ID, 0, smith.ID, 0); !tr.OK {
		t.Fatalf("give to smith failed: %q", tr.Reason)
	}

	if res := w.SmithUpgradeItem("ada", smith.ID, 0); res.OK || res.Reason != RejectUnaffordable {
		t.Fatalf("upgrade without blue must be rejected, got %q", res.Reason)
	}

	grant(w, "ada", state.ResourceBlue, 1)
	if res := w.SmithUpgradeItem("ada", smith.ID, 0); !res.OK {
		t.Fatalf("upgrade failed: %q", res.Reason)
	}
	w.objectsMu.Lock()
	it := w.findObjectLocked(smith.ID).Slot(0)
	w.objectsMu.Unlock()
	if it.ID != "sw" || it.Bonus != 1 {
		t.Fatalf("upgrade must bump bonus in place, got %+v", it)
	}
	if got := balance(w, "ada", state.ResourceBlue); got != 0 {
		t.Fatalf("upgrade must cost 1 blue, balance is %d", got)
	}
}

func TestEntityRoundTripConservesItem(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")
	grant(w, "ada", state.ResourceRed, 3)
	smith, _ := w.PlaceMapObject("ada", PlaceSpec{Type: state.ObjectTypeEntity, Kind: state.KindBlacksmith, X: 0, Y: 0})

	u := firstUnit(t, w, "ada")
	u.SetSlot(1, &state.Item{ID: "sh", Name: state.ItemShield, Bonus: 2})

	if tr := w.UnitGiveToEntity("ada", u.ID, 1, smith.ID, 4); !tr.OK {
		t.Fatalf("unit_give_to_entity failed: %q", tr.Reason)
	}
	if u.Slot(1) != nil {
		t.Fatalf("source slot must empty")
	}
	if tr := w.EntityGiveToUnit("ada", smith.ID, 4, u.ID, 1); !tr.OK {
		t.Fatalf("entity_give_to_unit failed: %q", tr.Reason)
	}
	got := u.Slot(1)
	if got == nil || got.ID != "sh" || got.Bonus != 2 {
		t.Fatalf("item identity lost across round trip: %+v", got)
	}
	w.objectsMu.Lock()
	stillHeld := w.findObjectLocked(smith.ID).Slot(4)
	w.objectsMu.Unlock()
	if stillHeld != nil {
		t.Fatalf("item duplicated: structure still holds %+v", stillHeld)
	}
}

func TestCollectResourceIdempotent(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")

	n := state.NewResourceNode(50, 50, state.ResourceGreen)
	w.nodes = append(w.nodes, n)

	res := w.CollectResource("ada", n.ID, state.ResourceGreen, 1)
	if !res.OK || !res.Dirty.Has(TableNodes) {
		t.Fatalf("collect failed: %+v", res)
	}
	if got := balance(w, "ada", state.ResourceGreen); got != 1 {
		t.Fatalf("expected 1 green, got %d", got)
	}

	res = w.CollectResource("ada", n.ID, state.ResourceGreen, 1)
	if res.OK || !res.Silent() {
		t.Fatalf("double collect must be a silent no-op, got %+v", res)
	}
	if got := balance(w, "ada", state.ResourceGreen); got != 1 {
		t.Fatalf("double collect must not credit twice, got %d", got)
	}
}

func TestCollectResourceClampsClaimedAmount(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")

	n := state.NewResourceNode(50, 50, state.ResourceGreen)
	w.nodes = append(w.nodes, n)

	if res := w.CollectResource("ada", n.ID, state.ResourceGreen, 500); !res.OK {
		t.Fatalf("collect failed: %+v", res)
	}
	if got := balance(w, "ada", state.ResourceGreen); got != 1 {
		t.Fatalf("one node must credit exactly 1, got %d", got)
	}
}

func TestCollectResourceTrustsNodeType(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")

	n := state.NewResourceNode(0, 0, state.ResourceRed)
	w.nodes = append(w.nodes, n)

	// Client claims blue; the node says red.
	if res := w.CollectResource("ada", n.ID, state.ResourceBlue, 1); !res.OK {
		t.Fatalf("collect failed: %+v", res)
	}
	if got := balance(w, "ada", state.ResourceRed); got != 1 {
		t.Fatalf("node type must win over the client claim, red=%d", got)
	}
}

func TestLogoutRemovesOwnedObjects(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")
	w.Login("bob")
	grant(w, "ada", state.ResourceRed, 5)
	grant(w, "bob", state.ResourceRed, 5)
	w.PlaceMapObject("ada", PlaceSpec{Type: state.ObjectTypeEntity, Kind: state.KindTownCenter, X: 0, Y: 0})
	w.PlaceMapObject("bob", PlaceSpec{Type: state.ObjectTypeEntity, Kind: state.KindTownCenter, X: 500, Y: 0})

	res := w.Logout("ada")
	if !res.OK || !res.Dirty.Has(TableObjects) {
		t.Fatalf("logout should dirty the object table: %+v", res)
	}
	objects := w.ObjectsSnapshot()
	if len(objects) != 1 || objects[0].Owner != "bob" {
		t.Fatalf("only ada's objects should vanish, got %d objects", len(objects))
	}
	if units := w.PlayerUnits("ada"); units != nil {
		t.Fatalf("player record must be gone after logout")
	}
}

func TestProductionTickCadence(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")
	grant(w, "ada", state.ResourceBlue, 3)

	now := time.UnixMilli(1_000_000)
	w.SetClock(func() time.Time { return now })

	mine, res := w.PlaceMapObject("ada", PlaceSpec{Type: state.ObjectTypeEntity, Kind: state.KindMine, X: 0, Y: 0})
	if !res.OK {
		t.Fatalf("mine placement failed: %q", res.Reason)
	}
	interval := mine.Mine.IntervalMs

	if out := w.ProductionTick(); len(out.Credited) != 0 {
		t.Fatalf("mine must not produce before its first deadline")
	}

	now = now.Add(time.Duration(interval) * time.Millisecond)
	out := w.ProductionTick()
	if got := balance(w, "ada", state.ResourceBlue); got != 1 {
		t.Fatalf("due mine must credit exactly once, got %d", got)
	}
	if _, ok := out.Credited["ada"]; !ok {
		t.Fatalf("production result must name the credited owner")
	}

	// Same instant again: the deadline moved forward, no double credit.
	if out := w.ProductionTick(); len(out.Credited) != 0 {
		t.Fatalf("repeated sweep at the same instant must not credit again")
	}

	now = now.Add(time.Duration(interval) * time.Millisecond)
	w.ProductionTick()
	if got := balance(w, "ada", state.ResourceBlue); got != 2 {
		t.Fatalf("second interval must credit once more, got %d", got)
	}
}

func TestProductionSkipsBackPayAfterDowntime(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")
	grant(w, "ada", state.ResourceBlue, 3)

	now := time.UnixMilli(1_000_000)
	w.SetClock(func() time.Time { return now })
	mine, _ := w.PlaceMapObject("ada", PlaceSpec{Type: state.ObjectTypeEntity, Kind: state.KindMine, X: 0, Y: 0})
	interval := mine.Mine.IntervalMs

	// Simulate a long outage: ten intervals pass without a sweep.
	now = now.Add(time.Duration(10*interval) * time.Millisecond)
	w.ProductionTick()
	if got := balance(w, "ada", state.ResourceBlue); got != 1 {
		t.Fatalf("downtime must not mint back-pay, got %d credits", got)
	}

	// The schedule is anchored to now, not replayed.
	w.objectsMu.Lock()
	next := w.findObjectLocked(mine.ID).Mine.NextTickMs
	w.objectsMu.Unlock()
	if next != now.UnixMilli()+interval {
		t.Fatalf("stalled mine must reschedule from now, got next=%d want %d", next, now.UnixMilli()+interval)
	}
}

func TestProductionIgnoresTileMines(t *testing.T) {
	w := newTestWorld()

	now := time.UnixMilli(1_000_000)
	w.SetClock(func() time.Time { return now })

	o := &state.MapObject{ID: "tile-1", Type: state.ObjectTypeTile, Kind: state.KindMine, Owner: "ada"}
	w.objects = append(w.objects, o)

	out := w.ProductionTick()
	if len(out.Credited) != 0 {
		t.Fatalf("tile mine must never produce, credited=%v", out.Credited)
	}
	if o.Mine != nil {
		t.Fatalf("production sweep must not grow metadata on a tile, got %+v", o.Mine)
	}
}

func TestProductionCreditsAbsentOwner(t *testing.T) {
	w := newTestWorld()

	now := time.UnixMilli(1_000_000)
	w.SetClock(func() time.Time { return now })

	o := state.NewMapObject(state.KindMine, 0, 0, "ghost")
	o.Mine = &state.MineMeta{Resource: state.ResourceBlue, IntervalMs: 1000, NextTickMs: now.UnixMilli() - 1}
	w.objects = append(w.objects, o)

	w.ProductionTick()
	if got := balance(w, "ghost", state.ResourceBlue); got != 1 {
		t.Fatalf("credit for an absent owner must create the record, got %d", got)
	}
}

func TestHostileAggroHysteresis(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")
	u := firstUnit(t, w, "ada")

	spider := state.NewMapObject(state.KindSpider, 0, 0, "")
	state.NormalizeMapObject(spider, w.now())
	w.objects = append(w.objects, spider)

	// Between aggro (200) and disengage (260): patrolling spider ignores it.
	u.X, u.Y = 230, 0
	w.HostileTick()
	if spider.Spider.Chasing {
		t.Fatalf("unit outside aggro radius must not trigger a chase")
	}

	u.X, u.Y = 150, 0
	w.HostileTick()
	if !spider.Spider.Chasing {
		t.Fatalf("unit inside aggro radius must trigger a chase")
	}

	// Back out to the hysteresis band: still chasing.
	u.X, u.Y = 230, 0
	w.HostileTick()
	if !spider.Spider.Chasing {
		t.Fatalf("chase must persist inside the disengage radius")
	}

	u.X, u.Y = 400, 0
	w.HostileTick()
	if spider.Spider.Chasing {
		t.Fatalf("chase must break beyond the disengage radius")
	}
}

func TestHostileHaltsAtCloseRange(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")
	u := firstUnit(t, w, "ada")
	u.X, u.Y = 20, 0 // inside close-combat range

	spider := state.NewMapObject(state.KindSpider, 0, 0, "")
	state.NormalizeMapObject(spider, w.now())
	w.objects = append(w.objects, spider)

	w.HostileTick()
	if !spider.Spider.Chasing {
		t.Fatalf("adjacent unit must trigger a chase")
	}
	if spider.X != 0 || spider.Y != 0 {
		t.Fatalf("spider must hold position at close range, moved to (%v, %v)", spider.X, spider.Y)
	}
	if spider.Facing != "090" {
		t.Fatalf("spider must face its target, got %q", spider.Facing)
	}
}

func TestHostileWaypointWrap(t *testing.T) {
	w := newTestWorld()

	spider := state.NewMapObject(state.KindSpider, 0, 0, "")
	spider.Spider = &state.SpiderMeta{
		Waypoints:     []state.Vec2{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		WaypointIndex: 2,
	}
	w.objects = append(w.objects, spider)

	// Already within arrive distance of waypoint 2: index wraps to 0.
	w.HostileTick()
	if spider.Spider.WaypointIndex != 0 {
		t.Fatalf("waypoint index must wrap, got %d", spider.Spider.WaypointIndex)
	}
}

func TestHostileBlockedByFootprintHoldsPosition(t *testing.T) {
	w := newTestWorld()

	// Wall directly east of the spider.
	wall := state.NewMapObject(state.KindBuilding, 10, 0, "ada")
	w.objects = append(w.objects, wall)

	spider := state.NewMapObject(state.KindSpider, 0, 0, "")
	spider.Spider = &state.SpiderMeta{
		Waypoints: []state.Vec2{{X: 400, Y: 0}},
	}
	w.objects = append(w.objects, spider)

	w.HostileTick()
	if spider.X != 0 || spider.Y != 0 {
		// Direct and both axis slides are blocked toward a dead-east goal
		// inside a footprint spanning the y axis; position must hold.
		t.Fatalf("blocked spider must hold position, moved to (%v, %v)", spider.X, spider.Y)
	}
}

func TestUpdateUnitsIgnoresUnknownAndInvalid(t *testing.T) {
	w := newTestWorld()
	w.Login("ada")
	u := firstUnit(t, w, "ada")
	u.HP = 77

	ok := w.UpdateUnits("ada", []UnitUpdate{
		{ID: "ghost", X: 1, Y: 1},
		{ID: u.ID, X: 10, Y: 20, Anim: "explode", Dir: "999"},
	})
	if !ok {
		t.Fatalf("update for a known player must succeed")
	}
	if u.X != 10 || u.Y != 20 {
		t.Fatalf("position not applied: (%v, %v)", u.X, u.Y)
	}
	if u.Anim == "explode" || u.Dir == "999" {
		t.Fatalf("invalid anim/dir must be dropped, got anim=%q dir=%q", u.Anim, u.Dir)
	}
	if u.HP != 77 {
		t.Fatalf("update_units must never touch hp, got %v", u.HP)
	}
	if units := w.PlayerUnits("ada"); len(units) != 1 {
		t.Fatalf("unknown unit id must not resurrect a unit, have %d", len(units))
	}
}

func TestEnsureWorldgenIdempotent(t *testing.T) {
	tuning := DefaultTuning()
	tuning.ResourceNodeCount = 20
	tuning.HostileCount = 4
	w := New(tuning, log.New(io.Discard, "", 0))

	w.EnsureResourceNodes()
	w.EnsureHostiles()
	nodes := len(w.NodesSnapshot())
	hostiles := 0
	for _, o := range w.ObjectsSnapshot() {
		if o.Kind == state.KindSpider {
			hostiles++
		}
	}
	if hostiles != 4 {
		t.Fatalf("expected 4 hostiles, got %d", hostiles)
	}

	// Second pass is a restart: counts must not grow.
	w.EnsureResourceNodes()
	w.EnsureHostiles()
	if got := len(w.NodesSnapshot()); got != nodes {
		t.Fatalf("node count grew across restart: %d -> %d", nodes, got)
	}
	hostiles = 0
	for _, o := range w.ObjectsSnapshot() {
		if o.Kind == state.KindSpider {
			hostiles++
		}
	}
	if hostiles != 4 {
		t.Fatalf("hostile count grew across restart: %d", hostiles)
	}
}

func TestResourceNodesSitOnJitteredGrid(t *testing.T) {
	tuning := DefaultTuning()
	tuning.ResourceNodeCount = 50
	w := New(tuning, log.New(io.Discard, "", 0))

	w.EnsureResourceNodes()
	for _, n := range w.NodesSnapshot() {
		for _, coord := range []float64{n.X, n.Y} {
			cell := math.Round(coord/genGridStep) * genGridStep
			if off := math.Abs(coord - cell); off > genJitter {
				t.Fatalf("node %q at (%v,%v): %v is %v off the grid, jitter cap is %v", n.ID, n.X, n.Y, coord, off, genJitter)
			}
			if math.Abs(cell) > genExtent {
				t.Fatalf("node %q outside the world extent: %v", n.ID, coord)
			}
		}
	}
}
