// Command bondcalc prices a single bond from the command line and prints
// the computed metrics with locale-aware formatting.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"github.com/garrettds11/bond-tool/internal/bond"
	"github.com/garrettds11/bond-tool/internal/bondmath"
	"github.com/garrettds11/bond-tool/internal/format"
)

func main() {
	face := flag.Float64("face", 1000, "Face (par) value of the bond")
	coupon := flag.Float64("coupon", 0.05, "Annual coupon rate as a decimal fraction")
	ytm := flag.Float64("ytm", 0.05, "Yield to maturity as a decimal fraction")
	years := flag.Float64("years", 10, "Years to maturity")
	freq := flag.Int("freq", 2, "Coupon payments per year (1, 2, 4, or 12)")
	callable := flag.Bool("callable", false, "Bond is callable")
	callYears := flag.Float64("callyears", 0, "Years to the call date")
	callPrice := flag.Float64("callprice", 0, "Call redemption price (defaults to face)")
	curve := flag.Bool("curve", false, "Also print the price/yield grid")

	flag.Parse()

	terms := bond.Terms{
		Face:       *face,
		CouponRate: *coupon,
		YTM:        *ytm,
		Years:      *years,
		Frequency:  *freq,
		Callable:   *callable,
		CallYears:  *callYears,
		CallPrice:  *callPrice,
	}
	terms.Normalize()

	if err := terms.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	lang := language.AmericanEnglish
	unit := currency.USD

	fmt.Printf("Bond Metrics:\n")
	fmt.Printf("\tFace Value: %s\n", format.Currency(lang, unit, terms.Face))
	fmt.Printf("\tCoupon Rate: %s\n", format.Percent(lang, terms.CouponRate))
	fmt.Printf("\tYield to Maturity: %s\n", format.Percent(lang, terms.YTM))
	fmt.Printf("\tPrice: %s\n", format.Currency(lang, unit, bondmath.Price(terms)))
	fmt.Printf("\tCurrent Yield: %s\n", format.Percent(lang, bondmath.CurrentYield(terms)))
	fmt.Printf("\tMacaulay Duration: %.4f years\n", bondmath.MacaulayDuration(terms))
	fmt.Printf("\tModified Duration: %.4f\n", bondmath.ModifiedDuration(terms))
	fmt.Printf("\tYield to Worst: %s\n", format.Percent(lang, bondmath.YieldToWorst(terms)))

	if *curve {
		fmt.Printf("\nPrice/Yield Grid:\n")
		for _, p := range bondmath.PriceYieldCurve(terms) {
			if terms.Callable {
				fmt.Printf("\t%6.2f%%  %s  (to worst: %s)\n",
					p.Yield,
					format.Currency(lang, unit, p.Price),
					format.Currency(lang, unit, p.CallablePrice))
				continue
			}
			fmt.Printf("\t%6.2f%%  %s\n", p.Yield, format.Currency(lang, unit, p.Price))
		}
	}
}
