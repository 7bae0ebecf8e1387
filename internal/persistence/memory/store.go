// Package memory is the key-value persistence backend: an in-process map,
// optionally snapshotted to a JSON file after every mutation. Several
// processes may share one snapshot; each reloads it when the file changes.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is a mutex-guarded key-value map. With a snapshot path the whole map
// is rewritten to disk after each Put and Delete, and reread before reads and
// writes whenever another writer has replaced the file.
type Store struct {
	mu    sync.RWMutex
	data  map[string][]byte
	path  string
	seen  os.FileInfo
}

// sameSnapshot reports whether a and b describe the same version of the
// snapshot file. Every flush renames a fresh file into place.
func sameSnapshot(a, b os.FileInfo) bool {
	if a == nil || b == nil {
		return false
	}
	return os.SameFile(a, b) && a.Size() == b.Size() && a.ModTime().Equal(b.ModTime())
}

type snapshot struct {
	Version int               `json:"version"`
	Values  map[string]string `json:"values"`
}

// New returns a store that lives only in memory.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Open loads the snapshot at path, creating it when missing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	s := &Store{data: make(map[string][]byte), path: path}
	s.mu.Lock()
	defer s.mu.Unlock()

	fi, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return s, s.flushLocked()
	case err != nil:
		return nil, fmt.Errorf("stat snapshot: %w", err)
	case fi.Size() == 0:
		return s, s.flushLocked()
	}
	if err := s.loadLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadLocked replaces the map with the snapshot on disk.
func (s *Store) loadLocked() error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat snapshot: %w", err)
	}

	var snap snapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	data := make(map[string][]byte, len(snap.Values))
	for k, v := range snap.Values {
		data[k] = []byte(v)
	}
	s.data = data
	s.seen = fi
	return nil
}

// changed reports whether the snapshot on disk differs from the one last
// loaded or written. A missing file counts as unchanged.
func (s *Store) changed() (bool, error) {
	fi, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat snapshot: %w", err)
	}
	return !sameSnapshot(fi, s.seen), nil
}

// refreshLocked reloads the snapshot when another writer replaced it.
func (s *Store) refreshLocked() error {
	if s.path == "" {
		return nil
	}
	changed, err := s.changed()
	if err != nil || !changed {
		return err
	}
	return s.loadLocked()
}

func (s *Store) refresh() error {
	if s.path == "" {
		return nil
	}
	s.mu.RLock()
	changed, err := s.changed()
	s.mu.RUnlock()
	if err != nil || !changed {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if err := s.refresh(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	return s.withWrite(ctx, func() {
		v := make([]byte, len(value))
		copy(v, value)
		s.data[key] = v
	})
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.withWrite(ctx, func() { delete(s.data, key) })
}

// Keys returns the number of stored keys.
func (s *Store) Keys() int {
	_ = s.refresh()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *Store) Close() error { return nil }

func (s *Store) withWrite(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refreshLocked(); err != nil {
		return err
	}
	fn()
	return s.flushLocked()
}

// flushLocked writes the snapshot to a temp file and renames it over the old
// one.
func (s *Store) flushLocked() error {
	if s.path == "" {
		return nil
	}
	snap := snapshot{Version: 1, Values: make(map[string]string, len(s.data))}
	for k, v := range s.data {
		snap.Values[k] = string(v)
	}
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	fi, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("stat snapshot: %w", err)
	}
	s.seen = fi
	return nil
}
