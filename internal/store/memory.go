package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/garrettds11/bond-tool/internal/bond"
	"github.com/garrettds11/bond-tool/internal/model"
)

// MemoryStore implements Store with in-memory maps. Used for testing
// and development. Not suitable for production (no persistence).
type MemoryStore struct {
	mu      sync.RWMutex
	bonds   map[string]*model.SavedBond
	history []model.QuoteRecord
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bonds: make(map[string]*model.SavedBond),
	}
}

func (s *MemoryStore) CreateBond(_ context.Context, b *model.SavedBond) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.bonds {
		if existing.Name == b.Name {
			return fmt.Errorf("bond named %q already exists", b.Name)
		}
	}

	// Store a copy to avoid external mutation.
	copy := *b
	s.bonds[b.ID] = &copy
	return nil
}

func (s *MemoryStore) GetBond(_ context.Context, id string) (*model.SavedBond, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bonds[id]
	if !ok {
		return nil, fmt.Errorf("bond %s not found", id)
	}
	copy := *b
	return &copy, nil
}

func (s *MemoryStore) ListBonds(_ context.Context) ([]model.SavedBond, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bonds := make([]model.SavedBond, 0, len(s.bonds))
	for _, b := range s.bonds {
		bonds = append(bonds, *b)
	}
	return bonds, nil
}

func (s *MemoryStore) UpdateBondTerms(_ context.Context, id string, terms bond.Terms, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bonds[id]
	if !ok {
		return fmt.Errorf("bond %s not found", id)
	}
	b.Terms = terms
	b.UpdatedAt = updatedAt
	return nil
}

func (s *MemoryStore) InsertQuoteRecord(_ context.Context, rec *model.QuoteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, *rec)
	return nil
}

func (s *MemoryStore) GetQuoteHistory(_ context.Context, bondID string) ([]model.QuoteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []model.QuoteRecord
	for _, rec := range s.history {
		if rec.BondID == bondID {
			result = append(result, rec)
		}
	}
	return result, nil
}
