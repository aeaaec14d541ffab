package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/lineage/internal/model"
)

// Store reads and writes the JSON checkpoint files. Files are rewritten
// wholesale on each flush: the in-memory set is the source of truth and
// the files are plain pretty-printed JSON arrays, editable by hand.
type Store struct {
	rosterPath    string
	relationsPath string
}

// NewStore creates a store from the checkpoint configuration
func NewStore(cfg model.CheckpointConfig) *Store {
	return &Store{
		rosterPath:    filepath.Join(cfg.Dir, cfg.RosterFile),
		relationsPath: filepath.Join(cfg.Dir, cfg.RelationsFile),
	}
}

// RosterPath returns the roster checkpoint path
func (s *Store) RosterPath() string { return s.rosterPath }

// RelationsPath returns the relations checkpoint path
func (s *Store) RelationsPath() string { return s.relationsPath }

// LoadRoster reads the roster checkpoint. found is false when the file
// does not exist; any other read or decode failure is an error.
func (s *Store) LoadRoster() (mps []model.MP, found bool, err error) {
	data, err := os.ReadFile(s.rosterPath)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read roster checkpoint: %w", err)
	}

	if err := json.Unmarshal(data, &mps); err != nil {
		return nil, false, fmt.Errorf("decode roster checkpoint %s: %w", s.rosterPath, err)
	}
	return mps, true, nil
}

// SaveRoster writes the roster checkpoint
func (s *Store) SaveRoster(mps []model.MP) error {
	return s.write(s.rosterPath, mps)
}

// LoadResults reads the relations checkpoint into a ResultSet. A missing
// file yields an empty set.
func (s *Store) LoadResults() (*ResultSet, error) {
	data, err := os.ReadFile(s.relationsPath)
	if os.IsNotExist(err) {
		return NewResultSet(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read relations checkpoint: %w", err)
	}

	var records []model.MPRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode relations checkpoint %s: %w", s.relationsPath, err)
	}
	return NewResultSet(records), nil
}

// SaveResults writes the relations checkpoint
func (s *Store) SaveResults(records []model.MPRecord) error {
	return s.write(s.relationsPath, records)
}

func (s *Store) write(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create checkpoint dir: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write checkpoint %s: %w", path, err)
	}
	return nil
}
