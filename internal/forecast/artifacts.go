package forecast

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrModelNotFound reports that no artifact exists for the requested pair.
var ErrModelNotFound = errors.New("model not found")

// ArtifactStore persists trained models keyed by (region, item).
type ArtifactStore interface {
	Put(m *Model) error
	Get(typeID, regionID int64) (*Model, error)
}

// FileStore keeps one msgpack file per pair under a flat directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the artifact directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(typeID, regionID int64) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d_%d.model", regionID, typeID))
}

// Put writes the artifact atomically: a temp file in the same directory is
// renamed over the destination, so a crashed write never leaves a truncated
// model behind.
func (s *FileStore) Put(m *Model) error {
	data, err := msgpack.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode model %d/%d: %w", m.TypeID, m.RegionID, err)
	}

	dst := s.path(m.TypeID, m.RegionID)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(dst)+".tmp-*")
	if err != nil {
		return fmt.Errorf("stage model %d/%d: %w", m.TypeID, m.RegionID, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write model %d/%d: %w", m.TypeID, m.RegionID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write model %d/%d: %w", m.TypeID, m.RegionID, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publish model %d/%d: %w", m.TypeID, m.RegionID, err)
	}
	return nil
}

// Get loads one artifact, returning ErrModelNotFound when none exists.
func (s *FileStore) Get(typeID, regionID int64) (*Model, error) {
	data, err := os.ReadFile(s.path(typeID, regionID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrModelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read model %d/%d: %w", typeID, regionID, err)
	}

	var m Model
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model %d/%d: %w", typeID, regionID, err)
	}
	return &m, nil
}
