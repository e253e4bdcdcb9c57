package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/garrettds11/bond-tool/internal/bond"
	"github.com/garrettds11/bond-tool/internal/model"
)

// CachedStore wraps a primary Store (PostgreSQL) with a Redis read-through
// cache. Writes go to the primary store and invalidate the cache; reads
// check Redis first then fall back to the primary.
type CachedStore struct {
	primary Store
	rdb     *redis.Client
	ttl     time.Duration
}

// NewCachedStore creates a cached wrapper around a primary store.
func NewCachedStore(primary Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		primary: primary,
		rdb:     rdb,
		ttl:     ttl,
	}
}

func bondKey(id string) string {
	return fmt.Sprintf("bondtool:bond:%s", id)
}

func historyKey(bondID string) string {
	return fmt.Sprintf("bondtool:history:%s", bondID)
}

func (s *CachedStore) cacheBond(ctx context.Context, b *model.SavedBond) {
	if data, err := json.Marshal(b); err == nil {
		s.rdb.Set(ctx, bondKey(b.ID), data, s.ttl)
	}
}

// --- Write-through (write to primary, invalidate cache) ---

func (s *CachedStore) CreateBond(ctx context.Context, b *model.SavedBond) error {
	if err := s.primary.CreateBond(ctx, b); err != nil {
		return err
	}
	s.cacheBond(ctx, b)
	return nil
}

func (s *CachedStore) UpdateBondTerms(ctx context.Context, id string, terms bond.Terms, updatedAt time.Time) error {
	if err := s.primary.UpdateBondTerms(ctx, id, terms, updatedAt); err != nil {
		return err
	}
	// Invalidate cache; next read will re-populate.
	s.rdb.Del(ctx, bondKey(id))
	return nil
}

func (s *CachedStore) InsertQuoteRecord(ctx context.Context, rec *model.QuoteRecord) error {
	if err := s.primary.InsertQuoteRecord(ctx, rec); err != nil {
		return err
	}
	s.rdb.Del(ctx, historyKey(rec.BondID))
	return nil
}

// --- Read-through (check cache first) ---

func (s *CachedStore) GetBond(ctx context.Context, id string) (*model.SavedBond, error) {
	data, err := s.rdb.Get(ctx, bondKey(id)).Bytes()
	if err == nil {
		var b model.SavedBond
		if json.Unmarshal(data, &b) == nil {
			return &b, nil
		}
	}

	// Cache miss: read from primary.
	b, err := s.primary.GetBond(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheBond(ctx, b)
	return b, nil
}

// ListBonds always hits the primary; the listing is cheap and caching it
// would complicate invalidation on create.
func (s *CachedStore) ListBonds(ctx context.Context) ([]model.SavedBond, error) {
	return s.primary.ListBonds(ctx)
}

func (s *CachedStore) GetQuoteHistory(ctx context.Context, bondID string) ([]model.QuoteRecord, error) {
	data, err := s.rdb.Get(ctx, historyKey(bondID)).Bytes()
	if err == nil {
		var records []model.QuoteRecord
		if json.Unmarshal(data, &records) == nil {
			return records, nil
		}
	}

	records, err := s.primary.GetQuoteHistory(ctx, bondID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(records); err == nil {
		s.rdb.Set(ctx, historyKey(bondID), data, s.ttl)
	}
	return records, nil
}
