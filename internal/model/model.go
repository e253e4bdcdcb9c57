// Package model defines the persistence records shared across bond-tool.
// Persisted money uses shopspring/decimal; live engine math stays in
// float64 (see internal/bondmath).
package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/garrettds11/bond-tool/internal/bond"
)

// SavedBond is a named set of bond terms a user keeps between sessions.
// Holding is the number of units held, used only for portfolio roll-ups.
type SavedBond struct {
	ID        string     `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Holding   float64    `json:"holding" db:"holding"`
	Terms     bond.Terms `json:"terms"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// QuoteRecord is an immutable snapshot of one engine run against a saved
// bond. Once written these are never modified or deleted.
type QuoteRecord struct {
	ID               string          `json:"id" db:"id"`
	BondID           string          `json:"bond_id" db:"bond_id"`
	Price            decimal.Decimal `json:"price" db:"price"`
	CurrentYield     decimal.Decimal `json:"current_yield" db:"current_yield"`
	MacaulayDuration decimal.Decimal `json:"macaulay_duration" db:"macaulay_duration"`
	ModifiedDuration decimal.Decimal `json:"modified_duration" db:"modified_duration"`
	YieldToWorst     decimal.Decimal `json:"yield_to_worst" db:"yield_to_worst"`
	ComputedAt       time.Time       `json:"computed_at" db:"computed_at"`
}

// PortfolioSummary aggregates all saved bonds: total market value and
// value-weighted duration measures.
type PortfolioSummary struct {
	Bonds               int             `json:"bonds"`
	MarketValue         decimal.Decimal `json:"market_value"`
	AvgMacaulayDuration decimal.Decimal `json:"avg_macaulay_duration"`
	AvgModifiedDuration decimal.Decimal `json:"avg_modified_duration"`
}
