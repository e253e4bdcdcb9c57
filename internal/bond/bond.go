// Package bond defines the terms of a fixed-coupon bond and their
// validation rules.
//
// Validation lives here, upstream of the pricing engine: the engine in
// internal/bondmath evaluates whatever terms it is handed and lets
// degenerate inputs propagate as non-finite results, so callers are
// expected to run Validate before pricing.
package bond

import "errors"

// Supported coupon frequencies (payments per year).
const (
	FreqAnnual     = 1
	FreqSemiAnnual = 2
	FreqQuarterly  = 4
	FreqMonthly    = 12
)

// MaxCouponRate is the highest accepted annual coupon rate (15%).
const MaxCouponRate = 0.15

var validFrequencies = map[int]bool{
	FreqAnnual:     true,
	FreqSemiAnnual: true,
	FreqQuarterly:  true,
	FreqMonthly:    true,
}

var (
	// ErrInvalidFace is returned when face value is not positive.
	ErrInvalidFace = errors.New("bond: face value must be positive")

	// ErrInvalidCoupon is returned when the coupon rate is outside [0, 0.15].
	ErrInvalidCoupon = errors.New("bond: coupon rate must be within [0, 0.15]")

	// ErrInvalidYield is returned when the per-period yield is at or
	// below -100%, which makes the discount factor undefined.
	ErrInvalidYield = errors.New("bond: per-period yield must exceed -100%")

	// ErrInvalidMaturity is returned when years to maturity is not positive.
	ErrInvalidMaturity = errors.New("bond: years to maturity must be positive")

	// ErrInvalidFrequency is returned when the coupon frequency is not
	// one of 1, 2, 4, or 12 payments per year.
	ErrInvalidFrequency = errors.New("bond: frequency must be 1, 2, 4, or 12")

	// ErrCallAfterMaturity is returned when the call date falls after maturity.
	ErrCallAfterMaturity = errors.New("bond: call date cannot be after maturity")
)

// Terms describes one bond for a single calculation. Rates are decimal
// fractions (0.05 = 5%), not percentages.
//
// Putable, SinkingFund, and Convertible are accepted and stored but have
// no effect on any computed value; pricing these provisions is
// unimplemented.
type Terms struct {
	Face       float64 `json:"face"`
	CouponRate float64 `json:"coupon_rate"`
	YTM        float64 `json:"ytm"`
	Years      float64 `json:"years"`
	Frequency  int     `json:"frequency"`

	Callable  bool    `json:"callable"`
	CallYears float64 `json:"call_years,omitempty"`
	CallPrice float64 `json:"call_price,omitempty"`

	Putable     bool `json:"putable,omitempty"`
	SinkingFund bool `json:"sinking_fund,omitempty"`
	Convertible bool `json:"convertible,omitempty"`
}

// Normalize fills defaults: a callable bond with no call price is
// redeemable at par.
func (t *Terms) Normalize() {
	if t.Callable && t.CallPrice == 0 {
		t.CallPrice = t.Face
	}
}

// Validate checks the terms against the ranges the calculator accepts.
// It returns the first violation found.
func (t Terms) Validate() error {
	if t.Face <= 0 {
		return ErrInvalidFace
	}
	if t.CouponRate < 0 || t.CouponRate > MaxCouponRate {
		return ErrInvalidCoupon
	}
	if !validFrequencies[t.Frequency] {
		return ErrInvalidFrequency
	}
	if t.YTM/float64(t.Frequency) <= -1 {
		return ErrInvalidYield
	}
	if t.Years <= 0 {
		return ErrInvalidMaturity
	}
	if t.Callable && t.CallYears > t.Years {
		return ErrCallAfterMaturity
	}
	return nil
}
