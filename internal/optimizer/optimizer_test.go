package optimizer

import (
	"math"
	"testing"

	"github.com/iwvelando/commitment-planner/pkg/finance"
	"github.com/iwvelando/commitment-planner/pkg/optimization"
	"github.com/iwvelando/commitment-planner/pkg/portfolio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testInput() portfolio.Input {
	profile := portfolio.Profile{-0.5, -0.5, 0.6, 0.6}
	return portfolio.Input{
		AvailableCapital:  10_000_000,
		StartYear:         2026,
		PlanningHorizon:   5,
		ProjectionHorizon: 10,
		Profiles: map[portfolio.Category]portfolio.Profile{
			portfolio.Secondaries: profile,
			portfolio.PE:          profile,
			portfolio.VC:          profile,
		},
		AllocationRules: map[portfolio.Phase]portfolio.Ratios{
			portfolio.Phase1: {Secondaries: 0.5, PE: 0.3, VC: 0.2},
			portfolio.Phase2: {Secondaries: 0.3, PE: 0.4, VC: 0.3},
			portfolio.Phase3: {Secondaries: 0.2, PE: 0.5, VC: 0.3},
		},
		SelectedCategories: portfolio.AllSelected(),
		MaxYearlyChange:    0.20,
		FirstYearCap:       0.25,
	}
}

func TestPhaseFor(t *testing.T) {
	tests := []struct {
		year     int
		expected portfolio.Phase
	}{
		{1, portfolio.Phase1},
		{5, portfolio.Phase1},
		{6, portfolio.Phase2},
		{10, portfolio.Phase2},
		{11, portfolio.Phase3},
		{30, portfolio.Phase3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, PhaseFor(tt.year), "year %d", tt.year)
	}
}

func TestActiveRatios(t *testing.T) {
	rule := portfolio.Ratios{Secondaries: 0.5, PE: 0.3, VC: 0.2}

	tests := []struct {
		name           string
		rule           portfolio.Ratios
		selection      portfolio.Selection
		pinned         []portfolio.Category
		expected       portfolio.Ratios
		expectedActive int
	}{
		{
			name:           "All selected keeps rule",
			rule:           rule,
			selection:      portfolio.AllSelected(),
			expected:       rule,
			expectedActive: 3,
		},
		{
			name:           "Unselected category is renormalized away",
			rule:           rule,
			selection:      portfolio.Selection{Secondaries: true, PE: true},
			expected:       portfolio.Ratios{Secondaries: 0.625, PE: 0.375},
			expectedActive: 2,
		},
		{
			name:           "Pinned category is excluded",
			rule:           rule,
			selection:      portfolio.AllSelected(),
			pinned:         []portfolio.Category{portfolio.PE},
			expected:       portfolio.Ratios{Secondaries: 0.5 / 0.7, VC: 0.2 / 0.7},
			expectedActive: 2,
		},
		{
			name:           "Rule below one is scaled up",
			rule:           portfolio.Ratios{Secondaries: 0.2, PE: 0.2},
			selection:      portfolio.AllSelected(),
			expected:       portfolio.Ratios{Secondaries: 0.5, PE: 0.5},
			expectedActive: 3,
		},
		{
			name:           "Zero rule splits evenly",
			rule:           portfolio.Ratios{},
			selection:      portfolio.Selection{PE: true, VC: true},
			expected:       portfolio.Ratios{PE: 0.5, VC: 0.5},
			expectedActive: 2,
		},
		{
			name:           "Nothing selected",
			rule:           rule,
			selection:      portfolio.Selection{},
			expected:       portfolio.Ratios{},
			expectedActive: 0,
		},
		{
			name:           "Everything pinned",
			rule:           rule,
			selection:      portfolio.Selection{VC: true},
			pinned:         []portfolio.Category{portfolio.VC},
			expected:       portfolio.Ratios{},
			expectedActive: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratios, active := ActiveRatios(tt.rule, tt.selection, tt.pinned)
			assert.Len(t, active, tt.expectedActive)
			assert.InDelta(t, tt.expected.Secondaries, ratios.Secondaries, 1e-12)
			assert.InDelta(t, tt.expected.PE, ratios.PE, 1e-12)
			assert.InDelta(t, tt.expected.VC, ratios.VC, 1e-12)
			if tt.expectedActive > 0 {
				assert.InDelta(t, 1.0, ratios.Sum(), 1e-12)
			}
		})
	}
}

func TestForcedBreakdownIgnoresUnselected(t *testing.T) {
	override := portfolio.Override{portfolio.PE: 500_000, portfolio.VC: 250_000}
	forced, pinned := ForcedBreakdown(override, portfolio.Selection{Secondaries: true, PE: true})

	assert.Equal(t, portfolio.Breakdown{PE: 500_000}, forced)
	assert.Equal(t, []portfolio.Category{portfolio.PE}, pinned)
}

func TestBound(t *testing.T) {
	in := testInput()

	tests := []struct {
		name      string
		yearIndex int
		last      float64
		smoothing bool
		expected  float64
	}{
		{"First year capped", 0, 0, true, 2_500_000},
		{"Growth limited", 1, 2_000_000, true, 2_400_000},
		{"Restart floor after zero year", 3, 0, true, 500_000},
		{"Hard cap applies to growth", 2, 60_000_000, true, 50_000_000},
		{"Unsmoothed bound", 0, 0, false, 20_000_000},
		{"Unsmoothed ignores history", 4, 1_000, false, 20_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Bound(in, tt.yearIndex, tt.last, tt.smoothing), 1e-6)
		})
	}
}

func TestOracleLiquidity(t *testing.T) {
	profiles := map[portfolio.Category]portfolio.Profile{
		portfolio.PE: {-0.5, -0.5},
	}
	oracle := Oracle{
		AvailableCapital: 1000,
		Profiles:         profiles,
		Locked:           finance.NewProjection(4),
	}
	ratios := portfolio.Ratios{PE: 1}

	assert.True(t, oracle.IsFeasible(0, 0, ratios, portfolio.Breakdown{}))
	assert.True(t, oracle.IsFeasible(1000, 0, ratios, portfolio.Breakdown{}))
	assert.False(t, oracle.IsFeasible(1001, 0, ratios, portfolio.Breakdown{}))
	assert.False(t, oracle.IsFeasible(0, 0, ratios, portfolio.Breakdown{PE: 1200}))
}

func TestOracleSkipsYearsBeforeCommitment(t *testing.T) {
	locked := finance.NewProjection(3)
	locked.Cashflow[0] = -1500
	locked.Cashflow[1] = 1000

	oracle := Oracle{AvailableCapital: 1000, Locked: locked}

	assert.True(t, oracle.IsFeasible(0, 1, portfolio.Ratios{}, portfolio.Breakdown{}),
		"the year-0 deficit predates the candidate and is not checked")
	assert.False(t, oracle.IsFeasible(0, 0, portfolio.Ratios{}, portfolio.Breakdown{}))
}

func TestOracleChecksUnfundedLiability(t *testing.T) {
	// Calls only 40% in the first year; the rest stays a liability.
	profiles := map[portfolio.Category]portfolio.Profile{
		portfolio.VC: {-0.4, -0.6},
	}
	oracle := Oracle{AvailableCapital: 1000, Profiles: profiles, Locked: finance.NewProjection(3)}
	ratios := portfolio.Ratios{VC: 1}

	// Year 0: balance 1000-0.4a must cover unfunded 0.6a, so a <= 1000.
	assert.True(t, oracle.IsFeasible(1000, 0, ratios, portfolio.Breakdown{}))
	assert.False(t, oracle.IsFeasible(1000.5, 0, ratios, portfolio.Breakdown{}))
}

func TestAllocateFirstYearRespectsCap(t *testing.T) {
	in := testInput()
	allocator := NewAllocator(zap.NewNop(), in, true)

	commitment, summary, next := allocator.Allocate(0, NewState(in.EffectiveHorizon()))

	assert.Equal(t, 2026, commitment.Year)
	assert.Equal(t, portfolio.Phase1, commitment.Phase)
	assert.Equal(t, 2_499_000.0, commitment.Amount)
	assert.LessOrEqual(t, commitment.Amount, 2_500_000.0)
	assert.Zero(t, math.Mod(commitment.Amount, 1000))
	assert.InDelta(t, commitment.Amount, commitment.Breakdown.Total(), 1e-6)
	assert.InDelta(t, 0.5*commitment.Amount, commitment.Breakdown.Secondaries, 1e-6)
	assert.False(t, commitment.IsManual)

	assert.Equal(t, optimization.ConstraintBound, summary.Constraint)
	assert.Equal(t, 20, summary.Iterations)
	assert.Equal(t, commitment.Amount, next.LastCommitment)
	assert.InDelta(t, -0.5*commitment.Amount, next.Locked.Cashflow[0], 1e-6)
}

func TestAllocateDoesNotMutateState(t *testing.T) {
	in := testInput()
	allocator := NewAllocator(zap.NewNop(), in, true)
	state := NewState(in.EffectiveHorizon())

	_, _, _ = allocator.Allocate(0, state)

	for year, flow := range state.Locked.Cashflow {
		require.Zero(t, flow, "year %d", year)
	}
	assert.Zero(t, state.LastCommitment)
}

func TestAllocateLiquidityBinding(t *testing.T) {
	in := testInput()
	in.AvailableCapital = 1_000_000
	allocator := NewAllocator(zap.NewNop(), in, false)

	commitment, summary, _ := allocator.Allocate(0, NewState(in.EffectiveHorizon()))

	// The full commitment must be covered by cash up front.
	assert.LessOrEqual(t, commitment.Amount, 1_000_000.0)
	assert.GreaterOrEqual(t, commitment.Amount, 999_000.0)
	assert.Equal(t, optimization.ConstraintLiquidity, summary.Constraint)
}

func TestAllocateManualOverridePins(t *testing.T) {
	in := testInput()
	in.FirstYearCap = 0.01
	in.ManualOverrides = map[int]portfolio.Override{0: {portfolio.PE: 500_000}}
	allocator := NewAllocator(zap.NewNop(), in, true)

	commitment, summary, _ := allocator.Allocate(0, NewState(in.EffectiveHorizon()))

	assert.Equal(t, 500_000.0, commitment.Breakdown.PE)
	assert.Equal(t, 500_000.0, commitment.Amount, "forced total exceeds the bound so nothing is searched")
	assert.Zero(t, commitment.Ratios.PE)
	assert.False(t, commitment.IsManual)
	assert.NotEmpty(t, summary.Notes)
}

func TestAllocateFillsRemainderAroundOverride(t *testing.T) {
	in := testInput()
	in.ManualOverrides = map[int]portfolio.Override{0: {portfolio.PE: 500_000}}
	allocator := NewAllocator(zap.NewNop(), in, true)

	commitment, _, _ := allocator.Allocate(0, NewState(in.EffectiveHorizon()))

	assert.Equal(t, 500_000.0, commitment.Breakdown.PE)
	assert.Equal(t, 1_999_000.0, commitment.Amount-commitment.Breakdown.PE)
	assert.InDelta(t, 1.0, commitment.Ratios.Secondaries+commitment.Ratios.VC, 1e-12)
}

func TestAllocateFullyManualYear(t *testing.T) {
	in := testInput()
	in.SelectedCategories = portfolio.Selection{PE: true}
	in.ManualOverrides = map[int]portfolio.Override{0: {portfolio.PE: 300_000, portfolio.VC: 100_000}}
	allocator := NewAllocator(zap.NewNop(), in, true)

	commitment, summary, _ := allocator.Allocate(0, NewState(in.EffectiveHorizon()))

	assert.True(t, commitment.IsManual)
	assert.Equal(t, portfolio.Breakdown{PE: 300_000}, commitment.Breakdown)
	assert.Equal(t, 300_000.0, commitment.Amount)
	assert.Zero(t, summary.Iterations)
}

func TestAllocateNothingSelected(t *testing.T) {
	in := testInput()
	in.SelectedCategories = portfolio.Selection{}
	allocator := NewAllocator(zap.NewNop(), in, true)

	commitment, summary, _ := allocator.Allocate(0, NewState(in.EffectiveHorizon()))

	assert.Zero(t, commitment.Amount)
	assert.Equal(t, portfolio.Breakdown{}, commitment.Breakdown)
	assert.Equal(t, optimization.ConstraintNone, summary.Constraint)
}
