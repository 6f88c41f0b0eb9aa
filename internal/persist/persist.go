// Package persist owns the on-disk snapshot of the three world tables. Each
// table lives in its own JSON array file and is rewritten atomically (temp
// file + rename) on every structural change, so a crash mid-write never
// leaves a torn file behind.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"warcamp/server/internal/state"
)

const (
	objectsFile = "map_objects.json"
	groundFile  = "ground_items.json"
	nodesFile   = "resource_nodes.json"
)

// Tables bundles the three persisted world tables.
type Tables struct {
	Objects []*state.MapObject    `json:"mapObjects"`
	Ground  []*state.GroundItem   `json:"groundItems"`
	Nodes   []*state.ResourceNode `json:"resourceNodes"`
}

// Store reads and writes the world snapshot under a single data directory.
type Store struct {
	dir    string
	logger *log.Logger
}

// NewStore creates the data directory if needed.
func NewStore(dir string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Load reads all three tables. A missing file yields an empty table, not an
// error; every loaded record is normalized in place so legacy rows never
// reach the world half-formed.
func (s *Store) Load(now time.Time) (*Tables, error) {
	t := &Tables{}

	if err := s.loadFile(objectsFile, &t.Objects); err != nil {
		return nil, err
	}
	for _, o := range t.Objects {
		state.NormalizeMapObject(o, now)
	}

	if err := s.loadFile(groundFile, &t.Ground); err != nil {
		return nil, err
	}
	for _, g := range t.Ground {
		state.NormalizeGroundItem(g)
	}

	if err := s.loadFile(nodesFile, &t.Nodes); err != nil {
		return nil, err
	}
	for _, n := range t.Nodes {
		state.NormalizeResourceNode(n)
	}

	s.logger.Printf("persist: loaded %d objects, %d ground items, %d nodes",
		len(t.Objects), len(t.Ground), len(t.Nodes))
	return t, nil
}

func (s *Store) loadFile(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// SaveObjects rewrites the map-object table.
func (s *Store) SaveObjects(objects []*state.MapObject) error {
	return s.saveFile(objectsFile, objects)
}

// SaveGround rewrites the ground-item table.
func (s *Store) SaveGround(ground []*state.GroundItem) error {
	return s.saveFile(groundFile, ground)
}

// SaveNodes rewrites the resource-node table.
func (s *Store) SaveNodes(nodes []*state.ResourceNode) error {
	return s.saveFile(nodesFile, nodes)
}

func (s *Store) saveFile(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := atomicWrite(filepath.Join(s.dir, name), data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// atomicWrite writes to a temp file in the target directory and renames it
// over the destination, so readers only ever see a complete file.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
