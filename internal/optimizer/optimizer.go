// Package optimizer decides how much to commit in each planning year: it
// picks the phase ratios, applies manual overrides, bounds the search for
// smoothing, and bisects the liquidity oracle for the largest feasible amount.
package optimizer

import (
	"fmt"

	"github.com/iwvelando/commitment-planner/pkg/constants"
	"github.com/iwvelando/commitment-planner/pkg/finance"
	"github.com/iwvelando/commitment-planner/pkg/mathutil"
	"github.com/iwvelando/commitment-planner/pkg/optimization"
	"github.com/iwvelando/commitment-planner/pkg/portfolio"
	"go.uber.org/zap"
)

// State is the running result of the planning years allocated so far.
type State struct {
	Locked         finance.Projection
	LastCommitment float64
}

// NewState returns the state before the first planning year.
func NewState(horizon int) State {
	return State{Locked: finance.NewProjection(horizon)}
}

// Allocator allocates one planning year at a time against a fixed input.
type Allocator struct {
	logger    *zap.Logger
	input     portfolio.Input
	smoothing bool
}

// NewAllocator constructs an Allocator. The input is expected to be validated.
func NewAllocator(logger *zap.Logger, input portfolio.Input, smoothing bool) *Allocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Allocator{logger: logger, input: input, smoothing: smoothing}
}

// Allocate computes the commitment for planning year yearIndex. It returns the
// commitment, a summary of the search, and the state to use for the next
// year; the given state is not modified.
func (a *Allocator) Allocate(yearIndex int, state State) (portfolio.Commitment, optimization.Summary, State) {
	yearNumber := yearIndex + 1
	phase := PhaseFor(yearNumber)
	selection := a.input.SelectedCategories

	forced, pinned := ForcedBreakdown(a.input.ManualOverrides[yearIndex], selection)
	forcedTotal := forced.Total()
	ratios, active := ActiveRatios(a.input.AllocationRules[phase], selection, pinned)

	bound := Bound(a.input, yearIndex, state.LastCommitment, a.smoothing)
	searchBound := 0.0
	if len(active) > 0 {
		searchBound = max(0, bound-forcedTotal)
	}

	oracle := Oracle{
		AvailableCapital: a.input.AvailableCapital,
		Profiles:         a.input.Profiles,
		Locked:           state.Locked,
	}

	summary := optimization.Summary{
		Year:        a.input.StartYear + yearIndex,
		YearIndex:   yearIndex,
		Phase:       string(phase),
		Smoothed:    a.smoothing,
		Bound:       bound,
		ForcedTotal: forcedTotal,
		Constraint:  optimization.ConstraintNone,
	}
	if forcedTotal > bound {
		summary.Notes = append(summary.Notes, fmt.Sprintf("manual overrides of %.0f exceed the bound of %.0f", forcedTotal, bound))
	}
	if forcedTotal > 0 && !oracle.IsFeasible(0, yearIndex, ratios, forced) {
		summary.Notes = append(summary.Notes, "manual overrides breach the liquidity constraint")
		a.logger.Warn("manual overrides breach the liquidity constraint",
			zap.String("op", "optimizer.Allocate"),
			zap.Int("year", summary.Year),
			zap.Float64("forcedTotal", forcedTotal),
		)
	}

	searched := 0.0
	if searchBound > 0 {
		lower, upper := 0.0, searchBound
		bindingLiquidity := false
		for i := 0; i < constants.SearchPrecisionIterations; i++ {
			mid := lower + (upper-lower)/2
			if oracle.IsFeasible(mid, yearIndex, ratios, forced) {
				lower = mid
			} else {
				upper = mid
				bindingLiquidity = true
			}
			summary.Iterations++
		}
		searched = mathutil.FloorCommitment(lower)
		if bindingLiquidity {
			summary.Constraint = optimization.ConstraintLiquidity
		} else {
			summary.Constraint = optimization.ConstraintBound
		}
	}

	breakdown := Candidate(searched, ratios, forced)
	commitment := portfolio.Commitment{
		Year:      summary.Year,
		YearIndex: yearIndex,
		Amount:    forcedTotal + searched,
		Breakdown: breakdown,
		Ratios:    ratios,
		Phase:     phase,
		IsManual:  len(pinned) > 0 && len(active) == 0,
	}
	summary.Searched = searched
	summary.Committed = commitment.Amount

	next := State{
		Locked:         state.Locked.Clone(),
		LastCommitment: commitment.Amount,
	}
	next.Locked.AddBreakdown(breakdown, a.input.Profiles, yearIndex)

	a.logger.Debug("allocated planning year",
		zap.String("op", "optimizer.Allocate"),
		zap.Int("year", commitment.Year),
		zap.String("phase", string(phase)),
		zap.Bool("smoothed", a.smoothing),
		zap.Float64("bound", bound),
		zap.Float64("forcedTotal", forcedTotal),
		zap.Float64("searched", searched),
		zap.String("constraint", summary.Constraint),
	)

	return commitment, summary, next
}
