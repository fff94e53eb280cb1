package portfolio

import (
	"github.com/iwvelando/commitment-planner/pkg/constants"
	"github.com/iwvelando/commitment-planner/pkg/optimization"
)

// Input holds everything a single solve needs. It is treated as read-only.
type Input struct {
	AvailableCapital float64
	StartYear        int
	PlanningHorizon  int
	// Horizon is the legacy name for PlanningHorizon, used when the latter is unset.
	Horizon            int
	ProjectionHorizon  int
	Profiles           map[Category]Profile
	NAVProfiles        map[Category]Profile
	AllocationRules    map[Phase]Ratios
	SelectedCategories Selection
	MaxYearlyChange    float64
	FirstYearCap       float64
	// ManualOverrides is keyed by 0-based planning year index.
	ManualOverrides map[int]Override
}

// EffectivePlanningHorizon resolves the planning horizon, falling back to the
// legacy Horizon field and then to the default.
func (in Input) EffectivePlanningHorizon() int {
	if in.PlanningHorizon > 0 {
		return in.PlanningHorizon
	}
	if in.Horizon > 0 {
		return in.Horizon
	}
	return constants.DefaultPlanningHorizon
}

// EffectiveHorizon is the number of simulated years.
func (in Input) EffectiveHorizon() int {
	projection := in.ProjectionHorizon
	if projection <= 0 {
		projection = constants.DefaultProjectionHorizon
	}
	return max(in.EffectivePlanningHorizon(), projection)
}

// Commitment is the capital pledged in one planning year.
type Commitment struct {
	Year      int       `json:"year" yaml:"year"`
	YearIndex int       `json:"yearIndex" yaml:"yearIndex"`
	Amount    float64   `json:"amount" yaml:"amount"`
	Breakdown Breakdown `json:"breakdown" yaml:"breakdown"`
	Ratios    Ratios    `json:"ratios" yaml:"ratios"`
	Phase     Phase     `json:"phase" yaml:"phase"`
	IsManual  bool      `json:"isManual" yaml:"isManual"`
}

// AnnualReportRow summarizes one simulated year of a plan.
type AnnualReportRow struct {
	Year                    int     `json:"year" yaml:"year"`
	YearIndex               int     `json:"yearIndex" yaml:"yearIndex"`
	NetCashflow             float64 `json:"netCashflow" yaml:"netCashflow"`
	Calls                   float64 `json:"calls" yaml:"calls"`
	Distributions           float64 `json:"distributions" yaml:"distributions"`
	EndBalance              float64 `json:"endBalance" yaml:"endBalance"`
	Committed               float64 `json:"committed" yaml:"committed"`
	Unfunded                float64 `json:"unfunded" yaml:"unfunded"`
	NAV                     float64 `json:"nav" yaml:"nav"`
	CumulativeCalls         float64 `json:"cumulativeCalls" yaml:"cumulativeCalls"`
	CumulativeDistributions float64 `json:"cumulativeDistributions" yaml:"cumulativeDistributions"`
	CumulativeCommitments   float64 `json:"cumulativeCommitments" yaml:"cumulativeCommitments"`
	AvailableCash           float64 `json:"availableCash" yaml:"availableCash"`
	// TotalValue is availableCash + cumulativeCommitments and hides the J-curve dip.
	TotalValue float64 `json:"totalValue" yaml:"totalValue"`
	// MarketValue is endBalance + nav.
	MarketValue float64 `json:"marketValue" yaml:"marketValue"`
}

// Metrics are the summary figures derived from a finished plan.
type Metrics struct {
	TotalCommitted         float64              `json:"totalCommitted" yaml:"totalCommitted"`
	MinCash                float64              `json:"minCash" yaml:"minCash"`
	MaxCash                float64              `json:"maxCash" yaml:"maxCash"`
	IsSmoothed             bool                 `json:"isSmoothed" yaml:"isSmoothed"`
	RelaxedConstraint      bool                 `json:"relaxedConstraint" yaml:"relaxedConstraint"`
	CategoryMOIC           map[Category]float64 `json:"categoryMOIC" yaml:"categoryMOIC"`
	PortfolioMOIC          float64              `json:"portfolioMOIC" yaml:"portfolioMOIC"`
	FullyCommittedYear     *int                 `json:"fullyCommittedYear" yaml:"fullyCommittedYear"`
	FinalNAV               float64              `json:"finalNAV" yaml:"finalNAV"`
	FinalCash              float64              `json:"finalCash" yaml:"finalCash"`
	FinalTotalValue        float64              `json:"finalTotalValue" yaml:"finalTotalValue"`
	FinalMarketValue       float64              `json:"finalMarketValue" yaml:"finalMarketValue"`
	TotalCalls             float64              `json:"totalCalls" yaml:"totalCalls"`
	TotalDistributions     float64              `json:"totalDistributions" yaml:"totalDistributions"`
	PlanningEndBalance     float64              `json:"planningEndBalance" yaml:"planningEndBalance"`
	SmoothedTotalCommitted float64              `json:"smoothedTotalCommitted" yaml:"smoothedTotalCommitted"`
	RelaxedTotalCommitted  *float64             `json:"relaxedTotalCommitted,omitempty" yaml:"relaxedTotalCommitted,omitempty"`
}

// Plan is the result of one solve.
type Plan struct {
	Commitments  []Commitment           `json:"commitments" yaml:"commitments"`
	AnnualReport []AnnualReportRow      `json:"annualReport" yaml:"annualReport"`
	Metrics      Metrics                `json:"metrics" yaml:"metrics"`
	Diagnostics  []optimization.Summary `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}
