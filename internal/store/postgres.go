package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/garrettds11/bond-tool/internal/bond"
	"github.com/garrettds11/bond-tool/internal/model"
)

// PostgresStore implements Store using PostgreSQL as the source of truth.
// Quote snapshot values are stored as NUMERIC for exact decimal precision;
// bond terms are plain floats, matching the engine's working type.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) CreateBond(ctx context.Context, b *model.SavedBond) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO bonds (id, name, holding,
		                    face, coupon_rate, ytm, years, frequency,
		                    callable, call_years, call_price,
		                    putable, sinking_fund, convertible,
		                    created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		b.ID, b.Name, b.Holding,
		b.Terms.Face, b.Terms.CouponRate, b.Terms.YTM, b.Terms.Years, b.Terms.Frequency,
		b.Terms.Callable, b.Terms.CallYears, b.Terms.CallPrice,
		b.Terms.Putable, b.Terms.SinkingFund, b.Terms.Convertible,
		b.CreatedAt, b.UpdatedAt,
	)
	return err
}

const bondColumns = `id, name, holding,
       face, coupon_rate, ytm, years, frequency,
       callable, call_years, call_price,
       putable, sinking_fund, convertible,
       created_at, updated_at`

func scanBond(row interface{ Scan(dest ...any) error }) (*model.SavedBond, error) {
	var b model.SavedBond
	err := row.Scan(&b.ID, &b.Name, &b.Holding,
		&b.Terms.Face, &b.Terms.CouponRate, &b.Terms.YTM, &b.Terms.Years, &b.Terms.Frequency,
		&b.Terms.Callable, &b.Terms.CallYears, &b.Terms.CallPrice,
		&b.Terms.Putable, &b.Terms.SinkingFund, &b.Terms.Convertible,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *PostgresStore) GetBond(ctx context.Context, id string) (*model.SavedBond, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+bondColumns+` FROM bonds WHERE id = $1`, id)
	b, err := scanBond(row)
	if err != nil {
		return nil, fmt.Errorf("get bond %s: %w", id, err)
	}
	return b, nil
}

func (s *PostgresStore) ListBonds(ctx context.Context) ([]model.SavedBond, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+bondColumns+` FROM bonds ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list bonds: %w", err)
	}
	defer rows.Close()

	var bonds []model.SavedBond
	for rows.Next() {
		b, err := scanBond(rows)
		if err != nil {
			return nil, fmt.Errorf("list bonds: %w", err)
		}
		bonds = append(bonds, *b)
	}
	return bonds, rows.Err()
}

func (s *PostgresStore) UpdateBondTerms(ctx context.Context, id string, terms bond.Terms, updatedAt time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE bonds
		 SET face = $2, coupon_rate = $3, ytm = $4, years = $5, frequency = $6,
		     callable = $7, call_years = $8, call_price = $9,
		     putable = $10, sinking_fund = $11, convertible = $12,
		     updated_at = $13
		 WHERE id = $1`,
		id,
		terms.Face, terms.CouponRate, terms.YTM, terms.Years, terms.Frequency,
		terms.Callable, terms.CallYears, terms.CallPrice,
		terms.Putable, terms.SinkingFund, terms.Convertible,
		updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update bond %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bond %s not found", id)
	}
	return nil
}

func (s *PostgresStore) InsertQuoteRecord(ctx context.Context, rec *model.QuoteRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO quote_history (id, bond_id, price, current_yield,
		                            macaulay_duration, modified_duration,
		                            yield_to_worst, computed_at)
		 VALUES ($1, $2, $3::NUMERIC, $4::NUMERIC, $5::NUMERIC, $6::NUMERIC, $7::NUMERIC, $8)`,
		rec.ID, rec.BondID,
		rec.Price.String(), rec.CurrentYield.String(),
		rec.MacaulayDuration.String(), rec.ModifiedDuration.String(),
		rec.YieldToWorst.String(),
		rec.ComputedAt,
	)
	return err
}

func (s *PostgresStore) GetQuoteHistory(ctx context.Context, bondID string) ([]model.QuoteRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, bond_id,
		        price::TEXT, current_yield::TEXT,
		        macaulay_duration::TEXT, modified_duration::TEXT,
		        yield_to_worst::TEXT,
		        computed_at
		 FROM quote_history WHERE bond_id = $1 ORDER BY computed_at`, bondID)
	if err != nil {
		return nil, fmt.Errorf("quote history %s: %w", bondID, err)
	}
	defer rows.Close()

	var records []model.QuoteRecord
	for rows.Next() {
		var rec model.QuoteRecord
		var price, cy, mac, mod, ytw string
		if err := rows.Scan(&rec.ID, &rec.BondID, &price, &cy, &mac, &mod, &ytw, &rec.ComputedAt); err != nil {
			return nil, fmt.Errorf("quote history %s: %w", bondID, err)
		}
		rec.Price, _ = decimal.NewFromString(price)
		rec.CurrentYield, _ = decimal.NewFromString(cy)
		rec.MacaulayDuration, _ = decimal.NewFromString(mac)
		rec.ModifiedDuration, _ = decimal.NewFromString(mod)
		rec.YieldToWorst, _ = decimal.NewFromString(ytw)
		records = append(records, rec)
	}
	return records, rows.Err()
}
