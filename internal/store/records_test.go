package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/cid/internal/models"
)

func TestRecordStore_AddAssignsUniqueIDs(t *testing.T) {
	s := NewRecordStore()

	first := s.Add(Fields{Name: ptr("X"), Offense: ptr("Y")})
	second := s.Add(Fields{Name: ptr("X"), Offense: ptr("Y")})

	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "X", list[0].Name)
	assert.Equal(t, "Y", list[0].Offense)
}

func TestRecordStore_ListPreservesInsertionOrder(t *testing.T) {
	s := NewRecordStore()

	names := []string{"Alpha", "Bravo", "Charlie", "Delta"}
	for _, n := range names {
		s.Add(Fields{Name: ptr(n), Offense: ptr("Theft")})
	}

	list := s.List()
	require.Len(t, list, len(names))
	for i, n := range names {
		assert.Equal(t, n, list[i].Name)
	}
}

func TestRecordStore_Update(t *testing.T) {
	s := NewRecordStore()
	rec := s.Add(Fields{Name: ptr("John Smith"), Offense: ptr("Armed Robbery")})

	updated, err := s.Update(rec.ID, Fields{
		Status:   ptr(models.StatusArrested),
		LastSeen: ptr("2024-02-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusArrested, updated.Status)
	assert.Equal(t, "2024-02-01", updated.LastSeen)
	// Untouched fields survive a partial update.
	assert.Equal(t, "John Smith", updated.Name)
	assert.Equal(t, rec.ID, updated.ID)

	got, err := s.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusArrested, got.Status)
}

func TestRecordStore_UpdateAbsentID(t *testing.T) {
	s := NewRecordStore()
	s.Add(Fields{Name: ptr("A"), Offense: ptr("B")})

	_, err := s.Update(uuid.New(), Fields{Name: ptr("C")})
	assert.ErrorIs(t, err, ErrNotFound)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].Name)
}

func TestRecordStore_Remove(t *testing.T) {
	s := NewRecordStore()
	keep := s.Add(Fields{Name: ptr("Keep"), Offense: ptr("Fraud")})
	gone := s.Add(Fields{Name: ptr("Gone"), Offense: ptr("Fraud")})

	s.Remove(gone.ID)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)

	// Removing an absent id is a no-op.
	s.Remove(gone.ID)
	s.Remove(uuid.New())
	assert.Len(t, s.List(), 1)
}

func TestRecordStore_Search(t *testing.T) {
	s := NewRecordStore()
	s.SeedDemo()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"by name", "maria", []string{"Maria Garcia"}},
		{"by offense", "robbery", []string{"John Smith"}},
		{"case insensitive", "BURGLARY", []string{"Robert Johnson"}},
		{"empty matches all", "", []string{"John Smith", "Maria Garcia", "Robert Johnson"}},
		{"no match", "zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Search(tt.query)
			names := make([]string, 0, len(got))
			for _, r := range got {
				names = append(names, r.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestRecordStore_SearchDoesNotMutate(t *testing.T) {
	s := NewRecordStore()
	s.SeedDemo()

	before := s.List()
	_ = s.Search("john")
	assert.Equal(t, before, s.List())
}
