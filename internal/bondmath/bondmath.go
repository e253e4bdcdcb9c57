// Package bondmath implements closed-form pricing for fixed-coupon bonds:
// present-value price, Macaulay and modified duration, current yield, an
// approximate yield-to-worst, and a price/yield grid for charting.
//
// Every function here is pure and stateless; calling twice with the same
// terms returns bit-identical results. Degenerate inputs (zero face, a
// zero price in a denominator) propagate as ±Inf or NaN rather than
// errors — callers constrain inputs upstream via bond.Terms.Validate.
//
// Yields and prices are float64 throughout. The engine output feeds
// charts and display formatting, not a money ledger; persisted snapshots
// are converted to decimal at the model layer.
package bondmath

import (
	"math"

	"github.com/garrettds11/bond-tool/internal/bond"
)

const (
	// ytwIterations is the fixed bisection depth for the yield-to-call
	// search. The loop always runs to full depth; it is deliberately not
	// tolerance-terminated, so results are reproducible bit-for-bit.
	ytwIterations = 60

	// ytwRateFloor and ytwRateCeil bracket the per-period rate for the
	// bisection. The floor also caps how negative an annualized
	// yield-to-call can go.
	ytwRateFloor = -0.99
	ytwRateCeil  = 1.0

	// curveSpanBps and curveStepBps define the charting grid: yields from
	// -200 to +200 basis points around the stated yield, every 10 bps,
	// 41 points in total.
	curveSpanBps = 200
	curveStepBps = 10
)

// MinCurveYield floors sampled yields on the charting grid so that
// discount rates stay strictly positive.
const MinCurveYield = 0.0001

// periods converts a year count to a whole number of coupon periods.
// Sub-period maturities still produce one terminal cash flow.
func periods(years float64, freq int) int {
	n := int(math.Round(years * float64(freq)))
	if n < 1 {
		n = 1
	}
	return n
}

// coupon returns the per-period coupon payment.
func coupon(t bond.Terms) float64 {
	return t.CouponRate * t.Face / float64(t.Frequency)
}

// Price returns the present value of the bond's remaining cash flows,
// discounted at the per-period yield:
//
//	P = Σ_{k=1..n} c / (1+r)^k + F / (1+r)^n
//
// with n = round(years·freq) floored at 1, c = couponRate·face/freq,
// and r = ytm/freq.
func Price(t bond.Terms) float64 {
	n := periods(t.Years, t.Frequency)
	c := coupon(t)
	r := t.YTM / float64(t.Frequency)

	var price float64
	for k := 1; k <= n; k++ {
		price += c / math.Pow(1+r, float64(k))
	}
	price += t.Face / math.Pow(1+r, float64(n))
	return price
}

// MacaulayDuration returns the present-value-weighted average time, in
// years, to receipt of the bond's cash flows, divided by its price.
// If the price is zero or negative the result is non-finite.
func MacaulayDuration(t bond.Terms) float64 {
	n := periods(t.Years, t.Frequency)
	c := coupon(t)
	r := t.YTM / float64(t.Frequency)

	var weighted float64
	for k := 1; k <= n; k++ {
		cf := c
		if k == n {
			cf += t.Face
		}
		pv := cf / math.Pow(1+r, float64(k))
		weighted += pv * float64(k) / float64(t.Frequency)
	}
	return weighted / Price(t)
}

// ModifiedDuration returns the Macaulay duration scaled to a first-order
// price sensitivity: D_mac / (1 + ytm/freq).
func ModifiedDuration(t bond.Terms) float64 {
	return MacaulayDuration(t) / (1 + t.YTM/float64(t.Frequency))
}

// CurrentYield returns the annual coupon amount over the current price.
func CurrentYield(t bond.Terms) float64 {
	return t.CouponRate * t.Face / Price(t)
}

// pvToCall discounts n per-period coupons plus the call redemption at
// the per-period rate r.
func pvToCall(c, callPrice float64, n int, r float64) float64 {
	var pv float64
	for k := 1; k <= n; k++ {
		pv += c / math.Pow(1+r, float64(k))
	}
	pv += callPrice / math.Pow(1+r, float64(n))
	return pv
}

// YieldToWorst returns the lesser of the stated yield and an approximate
// yield-to-call. For non-callable terms it returns the stated yield
// unchanged.
//
// The yield-to-call is found by bisecting the per-period rate in
// (ytwRateFloor, ytwRateCeil) until the present value of coupons to the
// call date plus the call price matches the bond's market price at the
// stated yield. PV is monotonically decreasing in the rate, so a PV
// above the target means the rate is still too low. The per-period root
// is then annualized as (1+r)^freq - 1, floored at ytwRateFloor.
//
// This is an approximation: one assumed call date rather than a call
// schedule, and a fixed iteration count rather than a tolerance.
func YieldToWorst(t bond.Terms) float64 {
	if !t.Callable {
		return t.YTM
	}

	callPrice := t.CallPrice
	if callPrice == 0 {
		callPrice = t.Face
	}

	marketPrice := Price(t)
	n := periods(t.CallYears, t.Frequency)
	c := coupon(t)

	lo, hi := ytwRateFloor, ytwRateCeil
	var r float64
	for i := 0; i < ytwIterations; i++ {
		r = (lo + hi) / 2
		if pvToCall(c, callPrice, n, r) > marketPrice {
			lo = r
		} else {
			hi = r
		}
	}

	ytc := math.Pow(1+r, float64(t.Frequency)) - 1
	if ytc < ytwRateFloor {
		ytc = ytwRateFloor
	}
	return math.Min(t.YTM, ytc)
}

// CurvePoint is one sample on the price/yield chart. Yield is the
// sampled yield in percent. CallablePrice is populated only for callable
// bonds: the price at the yield-to-worst implied by the sampled yield.
type CurvePoint struct {
	Yield         float64 `json:"yield"`
	Price         float64 `json:"price"`
	CallablePrice float64 `json:"callable_price,omitempty"`
}

// chartCallYears fixes the assumed call date used for charting: half the
// maturity, at least two years, never past maturity.
func chartCallYears(years float64) float64 {
	cy := math.Round(years / 2)
	if cy < 2 {
		cy = 2
	}
	if cy > years {
		cy = years
	}
	return cy
}

// PriceYieldCurve samples the bond's price across yields from -200 to
// +200 basis points around the stated yield in 10 bps steps, 41 points.
// Sampled yields are floored at MinCurveYield. The sequence is fully
// recomputed on every call; nothing is cached between invocations.
func PriceYieldCurve(t bond.Terms) []CurvePoint {
	points := make([]CurvePoint, 0, 2*curveSpanBps/curveStepBps+1)

	for bps := -curveSpanBps; bps <= curveSpanBps; bps += curveStepBps {
		y := t.YTM + float64(bps)/10000
		if y < MinCurveYield {
			y = MinCurveYield
		}

		shifted := t
		shifted.YTM = y

		p := CurvePoint{
			Yield: y * 100,
			Price: Price(shifted),
		}

		if t.Callable {
			called := shifted
			called.CallYears = chartCallYears(t.Years)
			worst := shifted
			worst.YTM = YieldToWorst(called)
			p.CallablePrice = Price(worst)
		}

		points = append(points, p)
	}
	return points
}
