// Package plan runs the multi-year planning loop: it allocates every planning
// year with smoothing, retries once without smoothing when capital sits idle,
// and assembles the resulting plan with its report and metrics.
package plan

import (
	"fmt"
	"math"

	"github.com/iwvelando/commitment-planner/internal/forecast"
	"github.com/iwvelando/commitment-planner/internal/optimizer"
	"github.com/iwvelando/commitment-planner/pkg/constants"
	"github.com/iwvelando/commitment-planner/pkg/mathutil"
	"github.com/iwvelando/commitment-planner/pkg/optimization"
	"github.com/iwvelando/commitment-planner/pkg/portfolio"
	"go.uber.org/zap"
)

// run is the outcome of one full pass over the planning horizon.
type run struct {
	commitments []portfolio.Commitment
	diagnostics []optimization.Summary
	forecast    forecast.Forecast
}

func (r run) totalCommitted() float64 {
	return r.forecast.Metrics.TotalCommitted
}

// Solve computes the commitment plan for a single input. Structurally invalid
// input is reported as an error wrapping portfolio.ErrInvalidInput.
func Solve(logger *zap.Logger, in portfolio.Input) (*portfolio.Plan, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := Validate(in); err != nil {
		return nil, err
	}

	capital := in.AvailableCapital
	smoothed := execute(logger, in, true)
	result := smoothed
	relaxed := false
	var relaxedTotal *float64

	if ShouldRelax(capital, smoothed.forecast.Metrics.PlanningEndBalance, smoothed.totalCommitted()) {
		unsmoothed := execute(logger, in, false)
		total := unsmoothed.totalCommitted()
		relaxedTotal = &total
		relaxed = AdoptRelaxed(smoothed.totalCommitted(), total)

		logger.Info("evaluated relaxed plan",
			zap.String("op", "plan.Solve"),
			zap.Float64("smoothedTotal", smoothed.totalCommitted()),
			zap.Float64("relaxedTotal", total),
			zap.Bool("adopted", relaxed),
		)
		if relaxed {
			result = unsmoothed
		}
	}

	metrics := result.forecast.Metrics
	metrics.IsSmoothed = !relaxed
	metrics.RelaxedConstraint = relaxed
	metrics.SmoothedTotalCommitted = smoothed.totalCommitted()
	metrics.RelaxedTotalCommitted = relaxedTotal

	logger.Info("solved commitment plan",
		zap.String("op", "plan.Solve"),
		zap.Int("startYear", in.StartYear),
		zap.Int("planningHorizon", in.EffectivePlanningHorizon()),
		zap.Float64("totalCommitted", metrics.TotalCommitted),
		zap.Float64("minCash", metrics.MinCash),
		zap.Bool("relaxedConstraint", relaxed),
	)

	return &portfolio.Plan{
		Commitments:  result.commitments,
		AnnualReport: result.forecast.Report,
		Metrics:      metrics,
		Diagnostics:  result.diagnostics,
	}, nil
}

// ShouldRelax reports whether a smoothed result leaves enough capital idle to
// be worth an unsmoothed retry.
func ShouldRelax(capital, planningEndBalance, totalCommitted float64) bool {
	return planningEndBalance > constants.IdleCashFraction*capital &&
		totalCommitted < constants.UnderDeployedFraction*capital
}

// AdoptRelaxed reports whether the unsmoothed total improves on the smoothed
// total by more than the required margin.
func AdoptRelaxed(smoothedTotal, relaxedTotal float64) bool {
	return relaxedTotal > smoothedTotal*(1+constants.RelaxedImprovementFraction)
}

func execute(logger *zap.Logger, in portfolio.Input, smoothing bool) run {
	allocator := optimizer.NewAllocator(logger, in, smoothing)
	planning := in.EffectivePlanningHorizon()
	state := optimizer.NewState(in.EffectiveHorizon())

	r := run{
		commitments: make([]portfolio.Commitment, 0, planning),
		diagnostics: make([]optimization.Summary, 0, planning),
	}
	for yearIndex := 0; yearIndex < planning; yearIndex++ {
		commitment, summary, next := allocator.Allocate(yearIndex, state)
		r.commitments = append(r.commitments, commitment)
		r.diagnostics = append(r.diagnostics, summary)
		state = next
	}
	r.forecast = forecast.GetForecast(logger, in, r.commitments)
	return r
}

// Validate checks the structural preconditions of a solve.
func Validate(in portfolio.Input) error {
	capital := in.AvailableCapital
	if !mathutil.IsFinite(capital) {
		return fmt.Errorf("%w: available capital must be finite, got %v", portfolio.ErrInvalidInput, capital)
	}
	if capital < 0 {
		return fmt.Errorf("%w: available capital must not be negative, got %v", portfolio.ErrInvalidInput, capital)
	}
	if err := validateFraction("maxYearlyChange", in.MaxYearlyChange); err != nil {
		return err
	}
	if err := validateFraction("firstYearCap", in.FirstYearCap); err != nil {
		return err
	}

	for _, category := range portfolio.Categories {
		if !in.SelectedCategories.Has(category) {
			continue
		}
		if _, ok := in.Profiles[category]; !ok {
			return fmt.Errorf("%w: selected category %s has no cashflow profile", portfolio.ErrInvalidInput, category)
		}
	}

	planning := in.EffectivePlanningHorizon()
	for yearIndex, override := range in.ManualOverrides {
		if yearIndex < 0 || yearIndex >= planning {
			return fmt.Errorf("%w: manual override for year index %d is outside the planning horizon of %d years",
				portfolio.ErrInvalidInput, yearIndex, planning)
		}
		for category, amount := range override {
			if !mathutil.IsFinite(amount) || amount < 0 {
				return fmt.Errorf("%w: manual override for %s in year index %d must be a non-negative amount, got %v",
					portfolio.ErrInvalidInput, category, yearIndex, amount)
			}
		}
	}
	return nil
}

func validateFraction(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return fmt.Errorf("%w: %s must be a non-negative number, got %v", portfolio.ErrInvalidInput, name, value)
	}
	return nil
}
