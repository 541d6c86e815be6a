package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/cid/internal/models"
	"github.com/your-org/cid/internal/observability"
)

// ErrNotFound is returned when a record id is not present in the store.
var ErrNotFound = errors.New("record not found")

// RecordStore holds the in-process list of person records. Records are
// kept in insertion order. All methods are safe for concurrent use;
// reads return copies so callers always see a consistent snapshot.
type RecordStore struct {
	mu      sync.RWMutex
	records []models.PersonRecord
}

func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

// Fields carries the mutable attributes of a record. Nil pointers in an
// update leave the corresponding field untouched.
type Fields struct {
	Name        *string
	Offense     *string
	Severity    *models.Severity
	Status      *models.Status
	PortraitURL *string
	LastSeen    *string
	Age         *string
	Height      *string
	Description *string
}

// Add creates a record with a fresh id and appends it to the list.
func (s *RecordStore) Add(f Fields) models.PersonRecord {
	now := time.Now().UTC()
	rec := models.PersonRecord{
		ID:        uuid.New(),
		Severity:  models.SeverityMedium,
		Status:    models.StatusWanted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyFields(&rec, f)

	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()

	observability.RecordCount.Inc()
	return rec
}

// Get returns the record with the given id.
func (s *RecordStore) Get(id uuid.UUID) (models.PersonRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.records {
		if s.records[i].ID == id {
			return s.records[i], nil
		}
	}
	return models.PersonRecord{}, ErrNotFound
}

// Update applies the non-nil fields to the record with the given id.
func (s *RecordStore) Update(id uuid.UUID, f Fields) (models.PersonRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			applyFields(&s.records[i], f)
			s.records[i].UpdatedAt = time.Now().UTC()
			return s.records[i], nil
		}
	}
	return models.PersonRecord{}, ErrNotFound
}

// Remove deletes the record with the given id. Removing an absent id is
// a no-op.
func (s *RecordStore) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			observability.RecordCount.Dec()
			return
		}
	}
}

// List returns a snapshot of all records in insertion order.
func (s *RecordStore) List() []models.PersonRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PersonRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Search returns the records whose name or offense contains the query,
// case-insensitively. An empty query matches everything.
func (s *RecordStore) Search(query string) []models.PersonRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.List()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PersonRecord, 0, len(s.records))
	for _, rec := range s.records {
		if strings.Contains(strings.ToLower(rec.Name), q) ||
			strings.Contains(strings.ToLower(rec.Offense), q) {
			out = append(out, rec)
		}
	}
	return out
}

// Count returns the number of records.
func (s *RecordStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func applyFields(rec *models.PersonRecord, f Fields) {
	if f.Name != nil {
		rec.Name = *f.Name
	}
	if f.Offense != nil {
		rec.Offense = *f.Offense
	}
	if f.Severity != nil {
		rec.Severity = *f.Severity
	}
	if f.Status != nil {
		rec.Status = *f.Status
	}
	if f.PortraitURL != nil {
		rec.PortraitURL = *f.PortraitURL
	}
	if f.LastSeen != nil {
		rec.LastSeen = *f.LastSeen
	}
	if f.Age != nil {
		rec.Age = *f.Age
	}
	if f.Height != nil {
		rec.Height = *f.Height
	}
	if f.Description != nil {
		rec.Description = *f.Description
	}
}
