package optimizer

import (
	"github.com/iwvelando/commitment-planner/pkg/constants"
	"github.com/iwvelando/commitment-planner/pkg/mathutil"
	"github.com/iwvelando/commitment-planner/pkg/portfolio"
)

// PhaseFor returns the allocation phase of a 1-based planning year.
func PhaseFor(yearNumber int) portfolio.Phase {
	switch {
	case yearNumber <= constants.Phase1EndYear:
		return portfolio.Phase1
	case yearNumber <= constants.Phase2EndYear:
		return portfolio.Phase2
	default:
		return portfolio.Phase3
	}
}

// ForcedBreakdown collects the override amounts of selected categories.
// Overrides on unselected categories are ignored.
func ForcedBreakdown(override portfolio.Override, selection portfolio.Selection) (portfolio.Breakdown, []portfolio.Category) {
	var forced portfolio.Breakdown
	var pinned []portfolio.Category
	for _, category := range portfolio.Categories {
		amount, ok := override[category]
		if !ok || !selection.Has(category) {
			continue
		}
		forced.Add(category, amount)
		pinned = append(pinned, category)
	}
	return forced, pinned
}

// ActiveRatios zeroes the rule's ratios for unselected and pinned categories
// and renormalizes the rest to sum to 1. When the remaining categories all
// carry a zero ratio they share equally. It returns the categories left to
// the optimizer; none means ratio application is skipped.
func ActiveRatios(rule portfolio.Ratios, selection portfolio.Selection, pinned []portfolio.Category) (portfolio.Ratios, []portfolio.Category) {
	isPinned := make(map[portfolio.Category]bool, len(pinned))
	for _, category := range pinned {
		isPinned[category] = true
	}

	var active []portfolio.Category
	var ratios portfolio.Ratios
	for _, category := range portfolio.Categories {
		if !selection.Has(category) || isPinned[category] {
			continue
		}
		active = append(active, category)
		if ratio := rule.Get(category); ratio > 0 {
			ratios.Set(category, ratio)
		}
	}
	if len(active) == 0 {
		return portfolio.Ratios{}, nil
	}

	sum := ratios.Sum()
	if sum <= 0 {
		share := 1 / float64(len(active))
		for _, category := range active {
			ratios.Set(category, share)
		}
		return ratios, active
	}
	for _, category := range active {
		ratios.Set(category, ratios.Get(category)/sum)
	}
	return ratios, active
}

// Bound returns the largest total commitment the search may consider for a
// planning year. With smoothing the first year is capped at firstYearCap of
// capital and later years may grow by maxYearlyChange over the previous year,
// with a restart floor of 5% of capital. Without smoothing the bound is twice
// the capital. Both are limited by the hard cap of five times capital.
func Bound(in portfolio.Input, yearIndex int, lastCommitment float64, smoothing bool) float64 {
	capital := in.AvailableCapital
	var bound float64
	switch {
	case !smoothing:
		bound = capital * constants.UnsmoothedCapMultiple
	case yearIndex == 0:
		bound = capital * in.FirstYearCap
	default:
		bound = max(lastCommitment*(1+in.MaxYearlyChange), capital*constants.RestartFloorFraction)
	}
	return mathutil.Clamp(bound, 0, capital*constants.HardCapMultiple)
}
