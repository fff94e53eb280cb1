// Package forecast turns a list of commitments into the annual report and the
// summary metrics of a plan.
package forecast

import (
	"math"

	"github.com/iwvelando/commitment-planner/pkg/finance"
	"github.com/iwvelando/commitment-planner/pkg/mathutil"
	"github.com/iwvelando/commitment-planner/pkg/portfolio"
	"go.uber.org/zap"
)

// Forecast holds the report and metrics derived from one commitment list.
type Forecast struct {
	Report  []portfolio.AnnualReportRow
	Metrics portfolio.Metrics
}

// GetForecast builds the annual report over the effective horizon and the
// metrics derived from it.
func GetForecast(logger *zap.Logger, in portfolio.Input, commitments []portfolio.Commitment) Forecast {
	if logger == nil {
		logger = zap.NewNop()
	}

	report := BuildReport(in, commitments)
	metrics := BuildMetrics(in, commitments, report)

	logger.Debug("built annual report",
		zap.String("op", "forecast.GetForecast"),
		zap.Int("years", len(report)),
		zap.Float64("totalCommitted", metrics.TotalCommitted),
		zap.Float64("minCash", metrics.MinCash),
		zap.Float64("portfolioMOIC", metrics.PortfolioMOIC),
	)

	return Forecast{Report: report, Metrics: metrics}
}

// BuildReport simulates every year of the effective horizon. The end balance
// is the available capital plus all net cashflows to date; available cash is
// the capital still free to commit.
func BuildReport(in portfolio.Input, commitments []portfolio.Commitment) []portfolio.AnnualReportRow {
	horizon := in.EffectiveHorizon()
	projection := finance.NewProjection(horizon)
	committed := make([]float64, horizon)
	for _, commitment := range commitments {
		if commitment.YearIndex < 0 || commitment.YearIndex >= horizon {
			continue
		}
		committed[commitment.YearIndex] += commitment.Amount
		projection.AddBreakdown(commitment.Breakdown, in.Profiles, commitment.YearIndex)
	}
	nav := NAVSeries(in, commitments, horizon)

	report := make([]portfolio.AnnualReportRow, horizon)
	balance := in.AvailableCapital
	cumulativeCalls, cumulativeDistributions, cumulativeCommitments := 0.0, 0.0, 0.0
	for t := 0; t < horizon; t++ {
		balance += projection.Cashflow[t]
		cumulativeCalls += projection.Calls[t]
		cumulativeDistributions += projection.Distributions[t]
		cumulativeCommitments += committed[t]

		availableCash := in.AvailableCapital - cumulativeCommitments + cumulativeDistributions
		report[t] = portfolio.AnnualReportRow{
			Year:                    in.StartYear + t,
			YearIndex:               t,
			NetCashflow:             projection.Cashflow[t],
			Calls:                   projection.Calls[t],
			Distributions:           projection.Distributions[t],
			EndBalance:              balance,
			Committed:               committed[t],
			Unfunded:                projection.Unfunded[t],
			NAV:                     nav[t],
			CumulativeCalls:         cumulativeCalls,
			CumulativeDistributions: cumulativeDistributions,
			CumulativeCommitments:   cumulativeCommitments,
			AvailableCash:           availableCash,
			TotalValue:              availableCash + cumulativeCommitments,
			MarketValue:             balance + nav[t],
		}
	}
	return report
}

// NAVSeries sums the NAV exposure of every commitment per year. A commitment
// contributes only while its age is within the category's NAV profile.
func NAVSeries(in portfolio.Input, commitments []portfolio.Commitment, horizon int) []float64 {
	nav := make([]float64, horizon)
	for _, commitment := range commitments {
		for _, category := range portfolio.Categories {
			amount := commitment.Breakdown.Get(category)
			if amount == 0 {
				continue
			}
			profile := in.NAVProfiles[category]
			for t := max(commitment.YearIndex, 0); t < horizon; t++ {
				age := t - commitment.YearIndex
				if age >= len(profile) {
					break
				}
				nav[t] += amount * profile[age]
			}
		}
	}
	return nav
}

// CategoryMOIC is the profile's distributions over its calls, or 0 when the
// profile never calls capital.
func CategoryMOIC(profile portfolio.Profile) float64 {
	return mathutil.SafeDivide(profile.Distributions(), profile.Calls())
}

// BuildMetrics derives the summary metrics of a plan. Smoothing flags are left
// for the caller that knows which pass produced the commitments.
func BuildMetrics(in portfolio.Input, commitments []portfolio.Commitment, report []portfolio.AnnualReportRow) portfolio.Metrics {
	metrics := portfolio.Metrics{
		CategoryMOIC: make(map[portfolio.Category]float64, len(portfolio.Categories)),
	}
	for _, commitment := range commitments {
		metrics.TotalCommitted += commitment.Amount
	}
	for _, category := range portfolio.Categories {
		metrics.CategoryMOIC[category] = CategoryMOIC(in.Profiles[category])
	}
	if len(report) == 0 {
		return metrics
	}

	metrics.MinCash = math.Inf(1)
	metrics.MaxCash = math.Inf(-1)
	for _, row := range report {
		metrics.MinCash = min(metrics.MinCash, row.EndBalance)
		metrics.MaxCash = max(metrics.MaxCash, row.EndBalance)
		if metrics.FullyCommittedYear == nil && in.AvailableCapital > 0 && row.CumulativeCommitments >= in.AvailableCapital {
			year := row.Year
			metrics.FullyCommittedYear = &year
		}
	}

	final := report[len(report)-1]
	metrics.FinalNAV = final.NAV
	metrics.FinalCash = final.EndBalance
	metrics.FinalTotalValue = final.TotalValue
	metrics.FinalMarketValue = final.MarketValue
	metrics.TotalCalls = final.CumulativeCalls
	metrics.TotalDistributions = final.CumulativeDistributions
	metrics.PortfolioMOIC = mathutil.SafeDivide(final.CumulativeDistributions+final.NAV, final.CumulativeCalls)

	planningEnd := min(in.EffectivePlanningHorizon(), len(report)) - 1
	metrics.PlanningEndBalance = report[planningEnd].EndBalance
	return metrics
}
