package hub

import (
	"time"

	"warcamp/server/internal/net/proto"
	"warcamp/server/internal/persist"
	"warcamp/server/internal/world"
)

// RunProduction drives the coarse production scheduler until stop closes.
// Each sweep advances due mines, persists the rescheduled object table,
// rebroadcasts the world and pushes fresh ledgers to the credited owners.
func (h *Hub) RunProduction(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			out := h.world.ProductionTick()
			if out.Dirty != 0 {
				h.persistDirty(out.Dirty)
			}
			if len(out.Credited) == 0 {
				continue
			}
			h.broadcastState()
			for name, ledger := range out.Credited {
				payload := proto.ResourcesPayload{Player: name, Resources: ledger}
				for _, s := range h.snapshotSessions() {
					if s.Name() == name {
						h.sendTo(s, proto.EvtResources, payload)
					}
				}
			}
		}
	}
}

// RunHostiles drives the AI loop until stop closes. Movement broadcasts go
// out every tick a hostile moved; the object table is persisted on a
// batched cadence so the high-frequency loop does not hammer the disk.
func (h *Hub) RunHostiles(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dirty := false
	lastPersist := time.Now()

	for {
		select {
		case <-stop:
			if dirty {
				h.persistDirty(world.TableObjects)
			}
			return
		case <-ticker.C:
			res := h.world.HostileTick()
			if res.Moved {
				dirty = true
				h.broadcastMapObjects()
			}
			if dirty && time.Since(lastPersist) >= h.opts.HostilePersistEvery {
				h.persistDirty(world.TableObjects)
				dirty = false
				lastPersist = time.Now()
			}
		}
	}
}

// RunBackups writes a compressed recovery snapshot on a slow cadence.
func (h *Hub) RunBackups(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			h.writeBackup()
		}
	}
}

func (h *Hub) writeBackup() {
	_, objects, ground, nodes := h.world.Snapshot()
	tables := &persist.Tables{Objects: objects, Ground: ground, Nodes: nodes}
	if err := h.store.WriteBackup(tables, time.Now(), h.opts.BackupKeep); err != nil {
		h.logger.Printf("ERROR writing backup: %v", err)
	}
}
