// Package store defines the persistence interface for saved bonds and
// their quote history. Implementations include PostgreSQL (source of
// truth), Redis (read-through cache), and in-memory (for testing).
package store

import (
	"context"
	"time"

	"github.com/garrettds11/bond-tool/internal/bond"
	"github.com/garrettds11/bond-tool/internal/model"
)

// Store is the persistence interface. PostgreSQL is the source of truth;
// Redis provides a read-through cache layer.
type Store interface {
	// --- Saved bonds ---

	// CreateBond persists a new saved bond. Names are unique.
	CreateBond(ctx context.Context, b *model.SavedBond) error

	// GetBond retrieves a saved bond by its ID.
	GetBond(ctx context.Context, id string) (*model.SavedBond, error)

	// ListBonds returns all saved bonds.
	ListBonds(ctx context.Context) ([]model.SavedBond, error)

	// UpdateBondTerms replaces a saved bond's terms.
	UpdateBondTerms(ctx context.Context, id string, terms bond.Terms, updatedAt time.Time) error

	// --- Immutable quote history ---

	// InsertQuoteRecord appends an immutable quote snapshot.
	InsertQuoteRecord(ctx context.Context, rec *model.QuoteRecord) error

	// GetQuoteHistory returns all quote snapshots for a bond, oldest first.
	GetQuoteHistory(ctx context.Context, bondID string) ([]model.QuoteRecord, error)
}
