// Package testutil provides common utility functions for testing.
package testutil

import (
	"fmt"

	"github.com/iwvelando/commitment-planner/internal/config"
	"github.com/iwvelando/commitment-planner/internal/plan"
	"github.com/iwvelando/commitment-planner/pkg/constants"
	"github.com/iwvelando/commitment-planner/pkg/mathutil"
	"github.com/iwvelando/commitment-planner/pkg/portfolio"
)

// FindResult finds a scenario result by name in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindResult(results []plan.Result, name string) *plan.Result {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// DefaultInput returns the reference input: 10,000,000 of capital from 2026,
// 15 planning years over a 50 year projection with the built-in profiles and
// rules and every category selected.
func DefaultInput() portfolio.Input {
	return portfolio.Input{
		AvailableCapital:   10_000_000,
		StartYear:          2026,
		PlanningHorizon:    constants.DefaultPlanningHorizon,
		ProjectionHorizon:  constants.DefaultProjectionHorizon,
		Profiles:           config.DefaultProfiles(),
		NAVProfiles:        config.DefaultNAVProfiles(),
		AllocationRules:    config.DefaultAllocationRules(),
		SelectedCategories: portfolio.AllSelected(),
		MaxYearlyChange:    constants.DefaultMaxYearlyChange,
		FirstYearCap:       constants.DefaultFirstYearCap,
	}
}

// CheckLiquidity returns an error naming the first report year whose end
// balance is negative beyond one currency unit.
func CheckLiquidity(p *portfolio.Plan) error {
	for _, row := range p.AnnualReport {
		if row.EndBalance < -constants.ToleranceForComparison {
			return fmt.Errorf("end balance %.2f is negative in %d", row.EndBalance, row.Year)
		}
	}
	return nil
}

// CheckRounding returns an error for the first commitment that is not a
// multiple of the rounding unit.
func CheckRounding(p *portfolio.Plan) error {
	for _, commitment := range p.Commitments {
		if commitment.Amount != mathutil.FloorToUnit(commitment.Amount, constants.RoundingUnit) {
			return fmt.Errorf("commitment %.2f in %d is not a multiple of %.0f",
				commitment.Amount, commitment.Year, constants.RoundingUnit)
		}
	}
	return nil
}

// CheckRatioConservation returns an error for the first commitment without
// overrides whose breakdown does not add up to its amount.
func CheckRatioConservation(p *portfolio.Plan, in portfolio.Input) error {
	for _, commitment := range p.Commitments {
		if commitment.Amount <= 0 || len(in.ManualOverrides[commitment.YearIndex]) > 0 {
			continue
		}
		share := 0.0
		for _, category := range portfolio.Categories {
			if in.SelectedCategories.Has(category) {
				share += commitment.Breakdown.Get(category) / commitment.Amount
			}
		}
		if !mathutil.WithinTolerance(share, 1, constants.RatioTolerance) {
			return fmt.Errorf("breakdown of %d covers %.6f of the amount", commitment.Year, share)
		}
	}
	return nil
}
