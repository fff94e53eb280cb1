// Package format renders plan figures for people: currency with thousands
// separators, percentages and multiples.
package format

import (
	"math"
	"strconv"

	"github.com/iwvelando/commitment-planner/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// WholeCurrency returns whole currency units with a dollar sign and thousands
// separators (e.g., "-$2,500,000").
func WholeCurrency(amount float64) string {
	// Values that round to zero carry no sign.
	sign := ""
	if math.Round(amount) < 0 {
		sign = "-"
	}
	return sign + "$" + printer.Sprintf("%.0f", math.Abs(amount))
}

// Percent renders a fraction as a percentage with one decimal (0.255 -> "25.5%").
func Percent(fraction float64) string {
	return printer.Sprintf("%.1f%%", fraction*constants.PercentageMultiplier)
}

// Multiple renders a MOIC-style multiple (1.534 -> "1.53x").
func Multiple(value float64) string {
	return printer.Sprintf("%.2fx", value)
}

// Year renders an optional calendar year, "never" when absent.
func Year(year *int) string {
	if year == nil {
		return "never"
	}
	return strconv.Itoa(*year)
}
