package bondmath

import (
	"math"
	"testing"

	"github.com/garrettds11/bond-tool/internal/bond"
)

// parBond is the reference case: coupon equals yield, so the bond prices
// at its face value.
func parBond() bond.Terms {
	return bond.Terms{
		Face:       1000,
		CouponRate: 0.05,
		YTM:        0.05,
		Years:      10,
		Frequency:  2,
	}
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// --- Price tests ---

func TestPrice_ParBond(t *testing.T) {
	price := Price(parBond())
	if !approxEqual(price, 1000, 1e-9) {
		t.Errorf("par bond should price at face, got %f", price)
	}
}

func TestPrice_InverseYieldRelationship(t *testing.T) {
	terms := parBond()

	terms.YTM = 0.06
	above := Price(terms)
	if above >= 1000 {
		t.Errorf("raising yield above coupon should price below par, got %f", above)
	}

	terms.YTM = 0.04
	below := Price(terms)
	if below <= 1000 {
		t.Errorf("lowering yield below coupon should price above par, got %f", below)
	}
}

func TestPrice_Idempotent(t *testing.T) {
	terms := bond.Terms{Face: 1000, CouponRate: 0.0375, YTM: 0.0441, Years: 7.3, Frequency: 4}
	first := Price(terms)
	second := Price(terms)
	if first != second {
		t.Errorf("identical inputs should give bit-identical output: %v vs %v", first, second)
	}
}

func TestPrice_SubPeriodMaturityStillOnePeriod(t *testing.T) {
	// years*freq rounds to zero; the bond still pays one terminal cash flow.
	terms := bond.Terms{Face: 1000, CouponRate: 0.05, YTM: 0.05, Years: 0.1, Frequency: 1}
	price := Price(terms)

	// One period of coupon+face discounted one period.
	want := (0.05*1000 + 1000) / 1.05
	if !approxEqual(price, want, 1e-9) {
		t.Errorf("expected single-period price %f, got %f", want, price)
	}
}

func TestPrice_ZeroCoupon(t *testing.T) {
	terms := bond.Terms{Face: 1000, CouponRate: 0, YTM: 0.05, Years: 10, Frequency: 2}
	price := Price(terms)

	want := 1000 / math.Pow(1.025, 20)
	if !approxEqual(price, want, 1e-9) {
		t.Errorf("zero-coupon price should be discounted face %f, got %f", want, price)
	}
}

func TestPeriods_Boundary(t *testing.T) {
	tests := []struct {
		years float64
		freq  int
		want  int
	}{
		{0.5, 12, 6},
		{10, 2, 20},
		{0.1, 1, 1},  // rounds to 0, floored at 1
		{0.01, 2, 1}, // rounds to 0, floored at 1
		{1.24, 4, 5}, // 4.96 rounds to 5
	}
	for _, tt := range tests {
		if got := periods(tt.years, tt.freq); got != tt.want {
			t.Errorf("periods(%v, %d) = %d, want %d", tt.years, tt.freq, got, tt.want)
		}
	}
}

// --- Duration tests ---

func TestMacaulayDuration_LevelCouponRange(t *testing.T) {
	terms := parBond()
	dur := MacaulayDuration(terms)

	// A semiannual level-coupon bond's duration sits between half the
	// maturity and the maturity itself.
	if dur >= terms.Years {
		t.Errorf("duration should be below maturity %v, got %f", terms.Years, dur)
	}
	if dur <= terms.Years/2 {
		t.Errorf("duration should exceed half the maturity, got %f", dur)
	}
}

func TestMacaulayDuration_ZeroCouponEqualsMaturity(t *testing.T) {
	terms := bond.Terms{Face: 1000, CouponRate: 0, YTM: 0.05, Years: 10, Frequency: 2}
	dur := MacaulayDuration(terms)
	if !approxEqual(dur, 10, 1e-9) {
		t.Errorf("zero-coupon duration should equal maturity, got %f", dur)
	}
}

func TestModifiedDuration_AtMostMacaulay(t *testing.T) {
	tests := []struct {
		name string
		ytm  float64
	}{
		{"par yield", 0.05},
		{"high yield", 0.12},
		{"near-zero yield", 0.0001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := parBond()
			terms.YTM = tt.ytm
			mac := MacaulayDuration(terms)
			mod := ModifiedDuration(terms)
			if mod > mac {
				t.Errorf("modified %f should not exceed Macaulay %f for ytm >= 0", mod, mac)
			}
		})
	}
}

// --- Current yield tests ---

func TestCurrentYield_ParBondEqualsCoupon(t *testing.T) {
	terms := parBond()
	cy := CurrentYield(terms)
	if !approxEqual(cy, terms.CouponRate, 1e-12) {
		t.Errorf("current yield at par should equal coupon rate, got %f", cy)
	}
}

func TestCurrentYield_DiscountBondAboveCoupon(t *testing.T) {
	terms := parBond()
	terms.YTM = 0.07
	cy := CurrentYield(terms)
	if cy <= terms.CouponRate {
		t.Errorf("current yield on a discount bond should exceed the coupon rate, got %f", cy)
	}
}

// --- Yield-to-worst tests ---

func TestYieldToWorst_NonCallablePassthrough(t *testing.T) {
	tests := []struct {
		name string
		ytm  float64
	}{
		{"par", 0.05},
		{"premium", 0.03},
		{"discount", 0.08},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := parBond()
			terms.YTM = tt.ytm
			if ytw := YieldToWorst(terms); ytw != tt.ytm {
				t.Errorf("non-callable YTW should equal stated yield %v, got %v", tt.ytm, ytw)
			}
		})
	}
}

func TestYieldToWorst_PremiumCallableTruncated(t *testing.T) {
	// Priced above par with a par call: the call truncates upside, so the
	// worst yield is strictly below the stated yield.
	terms := parBond()
	terms.YTM = 0.03
	terms.Callable = true
	terms.CallYears = 5
	terms.CallPrice = 1000

	ytw := YieldToWorst(terms)
	if ytw >= terms.YTM {
		t.Errorf("callable premium bond YTW %f should be below stated yield %f", ytw, terms.YTM)
	}
}

func TestYieldToWorst_ParCallableNearStatedYield(t *testing.T) {
	// At par with a par call, the yield-to-call converges to roughly the
	// stated yield, so min() changes nothing material.
	terms := parBond()
	terms.Callable = true
	terms.CallYears = 5
	terms.CallPrice = 1000

	ytw := YieldToWorst(terms)
	if !approxEqual(ytw, terms.YTM, 1e-3) {
		t.Errorf("par callable YTW should be close to stated yield, got %f", ytw)
	}
	if ytw > terms.YTM {
		t.Errorf("YTW must never exceed the stated yield, got %f", ytw)
	}
}

func TestYieldToWorst_CallPriceDefaultsToFace(t *testing.T) {
	explicit := parBond()
	explicit.YTM = 0.03
	explicit.Callable = true
	explicit.CallYears = 5
	explicit.CallPrice = 1000

	defaulted := explicit
	defaulted.CallPrice = 0

	if YieldToWorst(explicit) != YieldToWorst(defaulted) {
		t.Error("zero call price should default to face value")
	}
}

func TestYieldToWorst_Idempotent(t *testing.T) {
	terms := parBond()
	terms.YTM = 0.035
	terms.Callable = true
	terms.CallYears = 4

	if YieldToWorst(terms) != YieldToWorst(terms) {
		t.Error("fixed-depth bisection should be fully deterministic")
	}
}

// --- Price/yield curve tests ---

func TestPriceYieldCurve_FortyOnePoints(t *testing.T) {
	points := PriceYieldCurve(parBond())
	if len(points) != 41 {
		t.Fatalf("expected 41 samples, got %d", len(points))
	}
}

func TestPriceYieldCurve_MonotonicSymmetricYields(t *testing.T) {
	terms := parBond()
	points := PriceYieldCurve(terms)

	for i := 1; i < len(points); i++ {
		if points[i].Yield <= points[i-1].Yield {
			t.Fatalf("yields should be strictly increasing at %d: %f then %f",
				i, points[i-1].Yield, points[i].Yield)
		}
	}

	// Center sample is the stated yield; endpoints sit ±200 bps around it.
	center := points[20].Yield
	if !approxEqual(center, terms.YTM*100, 1e-9) {
		t.Errorf("center sample should be the stated yield, got %f%%", center)
	}
	if !approxEqual(points[0].Yield, (terms.YTM-0.02)*100, 1e-9) {
		t.Errorf("first sample should be -200 bps, got %f%%", points[0].Yield)
	}
	if !approxEqual(points[40].Yield, (terms.YTM+0.02)*100, 1e-9) {
		t.Errorf("last sample should be +200 bps, got %f%%", points[40].Yield)
	}
}

func TestPriceYieldCurve_PricesDecreaseInYield(t *testing.T) {
	points := PriceYieldCurve(parBond())
	for i := 1; i < len(points); i++ {
		if points[i].Price >= points[i-1].Price {
			t.Fatalf("prices should fall as yields rise at %d: %f then %f",
				i, points[i-1].Price, points[i].Price)
		}
	}
}

func TestPriceYieldCurve_YieldFloorNearZero(t *testing.T) {
	terms := parBond()
	terms.YTM = 0.001 // -200 bps would go negative

	points := PriceYieldCurve(terms)
	for i, p := range points {
		if p.Yield < MinCurveYield*100 {
			t.Errorf("sample %d yield %f%% below the floor", i, p.Yield)
		}
		if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			t.Errorf("sample %d price is non-finite: %f", i, p.Price)
		}
	}
}

func TestPriceYieldCurve_CallableLeg(t *testing.T) {
	terms := parBond()
	terms.Callable = true
	terms.CallYears = 5
	terms.CallPrice = 1000

	points := PriceYieldCurve(terms)
	for i, p := range points {
		if p.CallablePrice <= 0 {
			t.Fatalf("callable sample %d should carry a positive callable price", i)
		}
		// The worst yield never exceeds the sampled yield, and price falls
		// in yield, so the second leg prices at or above the straight bond.
		if p.CallablePrice < p.Price-1e-9 {
			t.Errorf("sample %d callable-leg price %f below straight price %f",
				i, p.CallablePrice, p.Price)
		}
	}
}

func TestPriceYieldCurve_NonCallableOmitsSecondLeg(t *testing.T) {
	points := PriceYieldCurve(parBond())
	for i, p := range points {
		if p.CallablePrice != 0 {
			t.Errorf("non-callable sample %d should have no callable price, got %f",
				i, p.CallablePrice)
		}
	}
}

func TestChartCallYears(t *testing.T) {
	tests := []struct {
		years float64
		want  float64
	}{
		{10, 5},
		{30, 15},
		{3, 2},   // half rounds to 2, floor holds
		{2, 2},   // floor of 2 capped at maturity
		{1.5, 1.5}, // floor exceeds maturity, capped back
	}
	for _, tt := range tests {
		if got := chartCallYears(tt.years); got != tt.want {
			t.Errorf("chartCallYears(%v) = %v, want %v", tt.years, got, tt.want)
		}
	}
}
