// Package finance provides the cashflow projection used by the planner: how a
// single commitment is drawn down and returned over the simulation horizon.
package finance

import (
	"github.com/iwvelando/commitment-planner/pkg/portfolio"
)

// Project spreads amount over the horizon according to profile, starting at
// startIndex. It returns the cashflow stream and the unfunded balance per year.
//
// Unfunded is amount minus the calls applied so far. Once the profile is
// exhausted unfunded stays at its last value for the rest of the horizon, so
// a profile whose calls do not sum to 1 leaves capital unfunded permanently.
// Years before startIndex are zero in both streams.
func Project(amount float64, profile portfolio.Profile, startIndex, horizon int) ([]float64, []float64) {
	if horizon <= 0 {
		return nil, nil
	}
	cashflows := make([]float64, horizon)
	unfunded := make([]float64, horizon)
	if startIndex < 0 || startIndex >= horizon {
		return cashflows, unfunded
	}

	called := 0.0
	for i := 0; startIndex+i < horizon; i++ {
		ratio := profile.At(i)
		flow := amount * ratio
		cashflows[startIndex+i] += flow
		if flow < 0 {
			called -= flow
		}
		unfunded[startIndex+i] = max(0, amount-called)
	}
	return cashflows, unfunded
}

// Projection accumulates the cashflows of many commitments over a fixed
// horizon. Calls and distributions are kept gross so a year with both is not
// netted away.
type Projection struct {
	Cashflow      []float64
	Calls         []float64
	Distributions []float64
	Unfunded      []float64
}

// NewProjection returns an empty projection over horizon years.
func NewProjection(horizon int) Projection {
	if horizon < 0 {
		horizon = 0
	}
	return Projection{
		Cashflow:      make([]float64, horizon),
		Calls:         make([]float64, horizon),
		Distributions: make([]float64, horizon),
		Unfunded:      make([]float64, horizon),
	}
}

// Len returns the projection horizon.
func (p Projection) Len() int {
	return len(p.Cashflow)
}

// Clone returns a deep copy.
func (p Projection) Clone() Projection {
	return Projection{
		Cashflow:      append([]float64(nil), p.Cashflow...),
		Calls:         append([]float64(nil), p.Calls...),
		Distributions: append([]float64(nil), p.Distributions...),
		Unfunded:      append([]float64(nil), p.Unfunded...),
	}
}

// AddCommitment projects amount with profile from startIndex and adds the
// result into p.
func (p *Projection) AddCommitment(amount float64, profile portfolio.Profile, startIndex int) {
	if amount == 0 {
		return
	}
	horizon := p.Len()
	cashflows, unfunded := Project(amount, profile, startIndex, horizon)
	for t := 0; t < horizon; t++ {
		flow := cashflows[t]
		p.Cashflow[t] += flow
		if flow < 0 {
			p.Calls[t] -= flow
		} else {
			p.Distributions[t] += flow
		}
		p.Unfunded[t] += unfunded[t]
	}
}

// AddBreakdown adds every category of breakdown committed at startIndex.
// Categories without a profile contribute nothing.
func (p *Projection) AddBreakdown(breakdown portfolio.Breakdown, profiles map[portfolio.Category]portfolio.Profile, startIndex int) {
	for _, category := range portfolio.Categories {
		amount := breakdown.Get(category)
		if amount == 0 {
			continue
		}
		p.AddCommitment(amount, profiles[category], startIndex)
	}
}
