package format

import "testing"

func TestWholeCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "$0"},
		{2_499_000, "$2,499,000"},
		{-1_000, "-$1,000"},
		{999.6, "$1,000"},
		{-0.4, "$0"},
		{-0.6, "-$1"},
	}
	for _, tt := range tests {
		if got := WholeCurrency(tt.amount); got != tt.expected {
			t.Errorf("WholeCurrency(%v) = %q, expected %q", tt.amount, got, tt.expected)
		}
	}
}

func TestPercentAndMultiple(t *testing.T) {
	if got := Percent(0.255); got != "25.5%" {
		t.Errorf("Percent() = %q", got)
	}
	if got := Multiple(1.534); got != "1.53x" {
		t.Errorf("Multiple() = %q", got)
	}
}

func TestYear(t *testing.T) {
	year := 2031
	if got := Year(&year); got != "2031" {
		t.Errorf("Year() = %q", got)
	}
	if got := Year(nil); got != "never" {
		t.Errorf("Year(nil) = %q", got)
	}
}
