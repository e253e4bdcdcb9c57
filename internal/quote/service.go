// Package quote provides the HTTP handlers wiring bond terms to the
// pricing engine: ad-hoc quotes and price/yield curves, saved bonds that
// recompute on every terms change, immutable quote history, and
// portfolio roll-ups.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/garrettds11/bond-tool/internal/bond"
	"github.com/garrettds11/bond-tool/internal/bondmath"
	"github.com/garrettds11/bond-tool/internal/metrics"
	"github.com/garrettds11/bond-tool/internal/model"
	"github.com/garrettds11/bond-tool/internal/store"
)

// quoteScale is the number of decimal places kept on persisted and
// returned quote values.
const quoteScale int32 = 6

// ErrNonFinite is returned when the engine produces ±Inf or NaN. The
// engine itself never rejects inputs; this is the service-layer guard
// that keeps non-finite values out of responses and the history table.
var ErrNonFinite = errors.New("quote: computation produced a non-finite result")

// Service handles quote operations. Uses a mutex to serialize saved-bond
// writes (single-instance). For horizontal scaling, replace with
// database-level optimistic concurrency.
type Service struct {
	store store.Store
	mu    sync.Mutex
	wsHub *WSHub // optional WebSocket hub for quote broadcasts
}

// NewService creates a new quote service.
// Pass nil for hub if WebSocket broadcasting is not needed.
func NewService(st store.Store, hub *WSHub) *Service {
	return &Service{
		store: st,
		wsHub: hub,
	}
}

// --- Request/Response types ---

// SaveBondRequest is the JSON body for POST /bonds.
type SaveBondRequest struct {
	Name    string     `json:"name"`
	Holding float64    `json:"holding"` // units held; 0 → 1
	Terms   bond.Terms `json:"terms"`
}

// UpdateBondRequest is the JSON body for PUT /bonds/{bondID}.
type UpdateBondRequest struct {
	Terms bond.Terms `json:"terms"`
}

// Quote carries the five computed pricing metrics.
type Quote struct {
	Price            decimal.Decimal `json:"price"`
	CurrentYield     decimal.Decimal `json:"current_yield"`
	MacaulayDuration decimal.Decimal `json:"macaulay_duration"`
	ModifiedDuration decimal.Decimal `json:"modified_duration"`
	YieldToWorst     decimal.Decimal `json:"yield_to_worst"`
}

// QuoteResponse echoes the (normalized) terms alongside the quote.
type QuoteResponse struct {
	Terms bond.Terms `json:"terms"`
	Quote Quote      `json:"quote"`
}

// CurveResponse is the chart series for one bond.
type CurveResponse struct {
	Points []bondmath.CurvePoint `json:"points"`
}

// computeQuote runs the full engine pass over one set of terms.
func computeQuote(t bond.Terms) (Quote, error) {
	values := []float64{
		bondmath.Price(t),
		bondmath.CurrentYield(t),
		bondmath.MacaulayDuration(t),
		bondmath.ModifiedDuration(t),
		bondmath.YieldToWorst(t),
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			metrics.NonFiniteResults.Inc()
			return Quote{}, ErrNonFinite
		}
	}
	return Quote{
		Price:            decimal.NewFromFloat(values[0]).Round(quoteScale),
		CurrentYield:     decimal.NewFromFloat(values[1]).Round(quoteScale),
		MacaulayDuration: decimal.NewFromFloat(values[2]).Round(quoteScale),
		ModifiedDuration: decimal.NewFromFloat(values[3]).Round(quoteScale),
		YieldToWorst:     decimal.NewFromFloat(values[4]).Round(quoteScale),
	}, nil
}

// decodeTerms decodes, normalizes, and validates a terms payload.
func decodeTerms(r *http.Request, dst any, terms *bond.Terms) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	terms.Normalize()
	return terms.Validate()
}

// --- Ad-hoc handlers ---

// ComputeQuote handles POST /api/v1/quote
func (s *Service) ComputeQuote(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var terms bond.Terms
	if err := decodeTerms(r, &terms, &terms); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	q, err := computeQuote(terms)
	if err != nil {
		writeError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	metrics.QuotesTotal.WithLabelValues("adhoc").Inc()
	metrics.QuoteLatency.WithLabelValues("adhoc").Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, QuoteResponse{Terms: terms, Quote: q})
}

// ComputeCurve handles POST /api/v1/curve
func (s *Service) ComputeCurve(w http.ResponseWriter, r *http.Request) {
	var terms bond.Terms
	if err := decodeTerms(r, &terms, &terms); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	metrics.CurvesTotal.Inc()
	writeJSON(w, http.StatusOK, CurveResponse{Points: bondmath.PriceYieldCurve(terms)})
}

// --- Saved bond handlers ---

// CreateBond handles POST /api/v1/bonds
func (s *Service) CreateBond(w http.ResponseWriter, r *http.Request) {
	var req SaveBondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeError(w, "name is required", http.StatusBadRequest)
		return
	}

	req.Terms.Normalize()
	if err := req.Terms.Validate(); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Holding <= 0 {
		req.Holding = 1
	}

	now := time.Now().UTC()
	saved := &model.SavedBond{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Holding:   req.Holding,
		Terms:     req.Terms,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateBond(r.Context(), saved); err != nil {
		writeError(w, err.Error(), http.StatusConflict)
		return
	}

	metrics.SavedBonds.Inc()
	slog.Info("bond saved",
		"id", saved.ID,
		"name", saved.Name,
		"face", saved.Terms.Face,
		"coupon", saved.Terms.CouponRate,
		"years", saved.Terms.Years,
	)

	writeJSON(w, http.StatusCreated, saved)
}

// ListBonds handles GET /api/v1/bonds
func (s *Service) ListBonds(w http.ResponseWriter, r *http.Request) {
	bonds, err := s.store.ListBonds(r.Context())
	if err != nil {
		writeError(w, "failed to list bonds", http.StatusInternalServerError)
		return
	}
	if bonds == nil {
		bonds = []model.SavedBond{}
	}
	writeJSON(w, http.StatusOK, bonds)
}

// GetBond handles GET /api/v1/bonds/{bondID}
func (s *Service) GetBond(w http.ResponseWriter, r *http.Request) {
	bondID := chi.URLParam(r, "bondID")

	saved, err := s.store.GetBond(r.Context(), bondID)
	if err != nil {
		writeError(w, "bond not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// UpdateBond handles PUT /api/v1/bonds/{bondID}
// Replaces the terms, recomputes the quote, appends a history record,
// and broadcasts the new quote to WebSocket subscribers. This is the
// service-side form of the calculator's recompute-on-change loop.
func (s *Service) UpdateBond(w http.ResponseWriter, r *http.Request) {
	bondID := chi.URLParam(r, "bondID")

	var req UpdateBondRequest
	if err := decodeTerms(r, &req, &req.Terms); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// Serialize saved-bond writes.
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.store.GetBond(ctx, bondID)
	if err != nil {
		writeError(w, "bond not found", http.StatusNotFound)
		return
	}

	q, err := computeQuote(req.Terms)
	if err != nil {
		writeError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	now := time.Now().UTC()
	if err := s.store.UpdateBondTerms(ctx, bondID, req.Terms, now); err != nil {
		writeError(w, "failed to update bond", http.StatusInternalServerError)
		return
	}
	saved.Terms = req.Terms
	saved.UpdatedAt = now

	if err := s.recordQuote(ctx, bondID, q, now); err != nil {
		writeError(w, "failed to record quote", http.StatusInternalServerError)
		return
	}

	metrics.QuotesTotal.WithLabelValues("saved").Inc()
	slog.Info("bond updated",
		"id", bondID,
		"name", saved.Name,
		"ytm", req.Terms.YTM,
		"price", q.Price.String(),
	)

	if s.wsHub != nil {
		s.wsHub.Broadcast(WSMessage{
			Type:         "quote_updated",
			BondID:       bondID,
			Name:         saved.Name,
			Price:        q.Price.String(),
			YieldToWorst: q.YieldToWorst.String(),
		})
	}

	writeJSON(w, http.StatusOK, QuoteResponse{Terms: saved.Terms, Quote: q})
}

// QuoteBond handles GET /api/v1/bonds/{bondID}/quote
// Recomputes from the stored terms and appends a history record.
func (s *Service) QuoteBond(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	bondID := chi.URLParam(r, "bondID")
	ctx := r.Context()

	saved, err := s.store.GetBond(ctx, bondID)
	if err != nil {
		writeError(w, "bond not found", http.StatusNotFound)
		return
	}

	q, err := computeQuote(saved.Terms)
	if err != nil {
		writeError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if err := s.recordQuote(ctx, bondID, q, time.Now().UTC()); err != nil {
		writeError(w, "failed to record quote", http.StatusInternalServerError)
		return
	}

	metrics.QuotesTotal.WithLabelValues("saved").Inc()
	metrics.QuoteLatency.WithLabelValues("saved").Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, QuoteResponse{Terms: saved.Terms, Quote: q})
}

// CurveBond handles GET /api/v1/bonds/{bondID}/curve
func (s *Service) CurveBond(w http.ResponseWriter, r *http.Request) {
	saved, err := s.store.GetBond(r.Context(), chi.URLParam(r, "bondID"))
	if err != nil {
		writeError(w, "bond not found", http.StatusNotFound)
		return
	}

	metrics.CurvesTotal.Inc()
	writeJSON(w, http.StatusOK, CurveResponse{Points: bondmath.PriceYieldCurve(saved.Terms)})
}

// GetHistory handles GET /api/v1/bonds/{bondID}/history
func (s *Service) GetHistory(w http.ResponseWriter, r *http.Request) {
	bondID := chi.URLParam(r, "bondID")

	records, err := s.store.GetQuoteHistory(r.Context(), bondID)
	if err != nil {
		writeError(w, "failed to get quote history", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []model.QuoteRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// GetPortfolio handles GET /api/v1/portfolio
// Rolls saved bonds up into total market value and value-weighted
// duration measures. Bonds whose terms produce non-finite output are
// skipped rather than poisoning the aggregate.
func (s *Service) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	bonds, err := s.store.ListBonds(r.Context())
	if err != nil {
		writeError(w, "failed to list bonds", http.StatusInternalServerError)
		return
	}

	var totalValue, weightedMac, weightedMod float64
	counted := 0

	for _, b := range bonds {
		price := bondmath.Price(b.Terms)
		mac := bondmath.MacaulayDuration(b.Terms)
		mod := bondmath.ModifiedDuration(b.Terms)
		if math.IsNaN(price+mac+mod) || math.IsInf(price+mac+mod, 0) {
			metrics.NonFiniteResults.Inc()
			continue
		}

		value := b.Holding * price
		totalValue += value
		weightedMac += value * mac
		weightedMod += value * mod
		counted++
	}

	summary := model.PortfolioSummary{
		Bonds:       counted,
		MarketValue: decimal.NewFromFloat(totalValue).Round(2),
	}
	if totalValue > 0 {
		summary.AvgMacaulayDuration = decimal.NewFromFloat(weightedMac / totalValue).Round(quoteScale)
		summary.AvgModifiedDuration = decimal.NewFromFloat(weightedMod / totalValue).Round(quoteScale)
	}

	writeJSON(w, http.StatusOK, summary)
}

// recordQuote appends an immutable history record for a saved bond.
func (s *Service) recordQuote(ctx context.Context, bondID string, q Quote, at time.Time) error {
	rec := &model.QuoteRecord{
		ID:               uuid.New().String(),
		BondID:           bondID,
		Price:            q.Price,
		CurrentYield:     q.CurrentYield,
		MacaulayDuration: q.MacaulayDuration,
		ModifiedDuration: q.ModifiedDuration,
		YieldToWorst:     q.YieldToWorst,
		ComputedAt:       at,
	}
	return s.store.InsertQuoteRecord(ctx, rec)
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
