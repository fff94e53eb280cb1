package optimizer

import (
	"github.com/iwvelando/commitment-planner/pkg/finance"
	"github.com/iwvelando/commitment-planner/pkg/portfolio"
)

// Oracle answers whether a candidate commitment keeps the portfolio liquid
// given everything already committed in earlier planning years.
type Oracle struct {
	AvailableCapital float64
	Profiles         map[portfolio.Category]portfolio.Profile
	Locked           finance.Projection
}

// Candidate splits additional over ratios and adds the forced amounts.
func Candidate(additional float64, ratios portfolio.Ratios, forced portfolio.Breakdown) portfolio.Breakdown {
	breakdown := forced
	if additional <= 0 {
		return breakdown
	}
	for _, category := range portfolio.Categories {
		if ratio := ratios.Get(category); ratio > 0 {
			breakdown.Add(category, additional*ratio)
		}
	}
	return breakdown
}

// IsFeasible reports whether committing additional (split by ratios) plus the
// forced breakdown in yearIndex keeps, for every year from yearIndex onward,
// the running cash balance non-negative and at least the total unfunded
// liability. Earlier years still accumulate cashflow but are not checked.
func (o Oracle) IsFeasible(additional float64, yearIndex int, ratios portfolio.Ratios, forced portfolio.Breakdown) bool {
	horizon := o.Locked.Len()
	if horizon == 0 {
		return true
	}

	candidateCash := make([]float64, horizon)
	candidateUnfunded := make([]float64, horizon)
	breakdown := Candidate(additional, ratios, forced)
	for _, category := range portfolio.Categories {
		amount := breakdown.Get(category)
		if amount == 0 {
			continue
		}
		cash, unfunded := finance.Project(amount, o.Profiles[category], yearIndex, horizon)
		for t := 0; t < horizon; t++ {
			candidateCash[t] += cash[t]
			candidateUnfunded[t] += unfunded[t]
		}
	}

	balance := o.AvailableCapital
	for t := 0; t < horizon; t++ {
		balance += o.Locked.Cashflow[t] + candidateCash[t]
		if t < yearIndex {
			continue
		}
		if balance < 0 {
			return false
		}
		if balance < o.Locked.Unfunded[t]+candidateUnfunded[t] {
			return false
		}
	}
	return true
}
