// Package checkpoint holds completed work and persists it as the on-disk
// resume snapshot.
package checkpoint

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ppiankov/lineage/internal/model"
)

// ResultSet is the shared set of completed MP records, keyed by id.
// It is safe for concurrent use; the id uniqueness invariant is enforced
// on Add.
type ResultSet struct {
	mu      sync.Mutex
	records map[int]model.MPRecord
}

// NewResultSet creates a ResultSet pre-loaded with existing records.
// Duplicate ids in the input keep the first occurrence.
func NewResultSet(records []model.MPRecord) *ResultSet {
	rs := &ResultSet{records: make(map[int]model.MPRecord, len(records))}
	for _, rec := range records {
		if _, exists := rs.records[rec.ID]; !exists {
			rs.records[rec.ID] = rec
		}
	}
	return rs
}

// Has reports whether a record with the given id is already present
func (rs *ResultSet) Has(id int) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	_, exists := rs.records[id]
	return exists
}

// Add appends a record. Adding a second record for an id already present
// is a programming error and is rejected.
func (rs *ResultSet) Add(rec model.MPRecord) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if _, exists := rs.records[rec.ID]; exists {
		return fmt.Errorf("duplicate record for id %d", rec.ID)
	}
	rs.records[rec.ID] = rec
	return nil
}

// Len returns the number of records
func (rs *ResultSet) Len() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.records)
}

// Records returns all records sorted by id, for deterministic output
func (rs *ResultSet) Records() []model.MPRecord {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	records := make([]model.MPRecord, 0, len(rs.records))
	for _, rec := range rs.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})
	return records
}
