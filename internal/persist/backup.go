package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

const backupDir = "backups"

// WriteBackup writes a zstd-compressed combined snapshot of all three
// tables, then prunes old backups beyond keep. Backups are belt-and-braces
// recovery points on top of the per-table atomic writes; a failed prune is
// logged but never fails the backup.
func (s *Store) WriteBackup(t *Tables, now time.Time, keep int) error {
	dir := filepath.Join(s.dir, backupDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("backup-%d.json.zst", now.Unix()))
	if err := writeZstd(path, data); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	s.logger.Printf("persist: wrote backup %s (%d bytes raw)", filepath.Base(path), len(data))

	if err := s.pruneBackups(dir, keep); err != nil {
		s.logger.Printf("persist: backup prune failed: %v", err)
	}
	return nil
}

// ReadBackup decompresses and decodes one backup file.
func (s *Store) ReadBackup(name string) (*Tables, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, backupDir, name))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	data, err := dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", name, err)
	}
	t := &Tables{}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return t, nil
}

func writeZstd(path string, data []byte) error {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	compressed := enc.EncodeAll(data, nil)
	enc.Close()
	return atomicWrite(path, compressed)
}

// pruneBackups deletes the oldest backups beyond keep. Timestamped names
// sort chronologically only within equal digit counts, so prune sorts by
// modification time instead.
func (s *Store) pruneBackups(dir string, keep int) error {
	if keep <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	type backup struct {
		name string
		mod  time.Time
	}
	var backups []backup
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "backup-") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, backup{name: e.Name(), mod: info.ModTime()})
	}
	if len(backups) <= keep {
		return nil
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].mod.After(backups[j].mod) })
	for _, b := range backups[keep:] {
		if err := os.Remove(filepath.Join(dir, b.name)); err != nil {
			return err
		}
	}
	return nil
}
