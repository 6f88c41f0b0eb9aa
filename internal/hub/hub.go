// Package hub connects live websocket sessions to the world: it dispatches
// client events to mutation handlers, persists whatever tables a mutation
// dirtied, and fans results out to the right sessions.
package hub

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"warcamp/server/internal/persist"
	"warcamp/server/internal/world"
)

const writeWait = 10 * time.Second

// Conn is the slice of *websocket.Conn the hub needs; tests substitute a
// recording fake.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Session is one connected client. Writes are serialized by a per-session
// mutex with a deadline so one stalled client cannot wedge a broadcast.
type Session struct {
	conn Conn

	writeMu sync.Mutex

	mu   sync.Mutex
	name string
}

// Name returns the player bound to this session, empty before login.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *Session) bind(name string) {
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()
}

func (s *Session) send(data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Options carries the hub's runtime knobs.
type Options struct {
	// HostilePersistEvery bounds how often the high-frequency AI loop
	// rewrites the object table.
	HostilePersistEvery time.Duration
	BackupKeep          int
}

// Hub owns the session registry and mediates between transport, world and
// persistence.
type Hub struct {
	world  *world.World
	store  *persist.Store
	logger *log.Logger
	opts   Options

	mu       sync.Mutex
	sessions map[*Session]struct{}
}

// New creates a hub over the given world and store.
func New(w *world.World, store *persist.Store, logger *log.Logger, opts Options) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	if opts.HostilePersistEvery <= 0 {
		opts.HostilePersistEvery = 2 * time.Second
	}
	if opts.BackupKeep <= 0 {
		opts.BackupKeep = 8
	}
	return &Hub{
		world:    w,
		store:    store,
		logger:   logger,
		opts:     opts,
		sessions: make(map[*Session]struct{}),
	}
}

// Connect registers a new session for a freshly upgraded connection.
func (h *Hub) Connect(conn Conn) *Session {
	s := &Session{conn: conn}
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	count := len(h.sessions)
	h.mu.Unlock()
	h.logger.Printf("session connected (%d online)", count)
	return s
}

// Disconnect drops a session. The player record survives so economy
// progress is waiting on reconnect; only an explicit logout destroys it.
func (h *Hub) Disconnect(s *Session) {
	h.mu.Lock()
	_, ok := h.sessions[s]
	delete(h.sessions, s)
	count := len(h.sessions)
	h.mu.Unlock()
	if !ok {
		return
	}
	s.conn.Close()
	h.logger.Printf("session disconnected (%d online)", count)
}

// CloseAll tears down every live session, used at shutdown after the
// listener stops accepting new connections.
func (h *Hub) CloseAll() {
	for _, s := range h.snapshotSessions() {
		h.Disconnect(s)
	}
}

// snapshotSessions copies the registry so no write happens under h.mu.
func (h *Hub) snapshotSessions() []*Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		out = append(out, s)
	}
	return out
}

// persistDirty rewrites the persisted tables a mutation touched. A failed
// write is logged loudly rather than dropped silently; the world stays
// authoritative in memory.
func (h *Hub) persistDirty(dirty world.Table) {
	if dirty.Has(world.TableObjects) {
		if err := h.store.SaveObjects(h.world.ObjectsSnapshot()); err != nil {
			h.logger.Printf("ERROR persisting map objects: %v", err)
		}
	}
	if dirty.Has(world.TableGround) {
		if err := h.store.SaveGround(h.world.GroundSnapshot()); err != nil {
			h.logger.Printf("ERROR persisting ground items: %v", err)
		}
	}
	if dirty.Has(world.TableNodes) {
		if err := h.store.SaveNodes(h.world.NodesSnapshot()); err != nil {
			h.logger.Printf("ERROR persisting resource nodes: %v", err)
		}
	}
}

// PersistAll rewrites every table, used at shutdown. The first error wins.
func (h *Hub) PersistAll() error {
	if err := h.store.SaveObjects(h.world.ObjectsSnapshot()); err != nil {
		return err
	}
	if err := h.store.SaveGround(h.world.GroundSnapshot()); err != nil {
		return err
	}
	return h.store.SaveNodes(h.world.NodesSnapshot())
}
