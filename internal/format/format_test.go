package format

import (
	"strings"
	"testing"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

func TestPercent_TwoFractionDigits(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.05, "5.00%"},
		{0.0525, "5.25%"},
		{0.1234, "12.34%"},
		{0, "0.00%"},
	}
	for _, tt := range tests {
		if got := Percent(language.AmericanEnglish, tt.in); got != tt.want {
			t.Errorf("Percent(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCurrency_USD(t *testing.T) {
	got := Currency(language.AmericanEnglish, currency.USD, 1000)
	if !strings.Contains(got, "$") {
		t.Errorf("expected a dollar symbol in %q", got)
	}
	if !strings.Contains(got, "1,000") {
		t.Errorf("expected grouped thousands in %q", got)
	}
}

func TestCurrency_LocaleAware(t *testing.T) {
	us := Currency(language.AmericanEnglish, currency.EUR, 1234.5)
	de := Currency(language.German, currency.EUR, 1234.5)
	if us == de {
		t.Errorf("expected locale-dependent rendering, both %q", us)
	}
}
