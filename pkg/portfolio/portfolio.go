// Package portfolio defines the data model shared by the commitment planner:
// investment categories, their cashflow and NAV profiles, allocation rules,
// solver inputs, and the plan produced by a solve.
package portfolio

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput is wrapped by every structural input failure reported by
// the solver.
var ErrInvalidInput = errors.New("invalid planner input")

// Category identifies an investment category.
type Category string

const (
	Secondaries Category = "secondaries"
	PE          Category = "pe"
	VC          Category = "vc"
)

// Categories lists every category in report order.
var Categories = []Category{Secondaries, PE, VC}

// ParseCategory returns the canonical category for a configured name.
func ParseCategory(value string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "secondaries", "secondary", "sec":
		return Secondaries, nil
	case "pe", "private_equity", "privateequity", "private-equity":
		return PE, nil
	case "vc", "venture", "venture_capital", "venturecapital", "venture-capital":
		return VC, nil
	default:
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, value)
	}
}

// Phase names a contiguous range of planning years sharing target ratios.
type Phase string

const (
	Phase1 Phase = "phase1"
	Phase2 Phase = "phase2"
	Phase3 Phase = "phase3"
)

// Phases lists the fixed three-phase schedule in order.
var Phases = []Phase{Phase1, Phase2, Phase3}

// Profile is an ordered sequence of ratios of the committed amount, indexed
// by years since commitment. For cashflow profiles negative entries are
// capital calls and positive entries are distributions.
type Profile []float64

// Calls returns the sum of the absolute values of the negative entries.
func (p Profile) Calls() float64 {
	total := 0.0
	for _, ratio := range p {
		if ratio < 0 {
			total -= ratio
		}
	}
	return total
}

// Distributions returns the sum of the positive entries.
func (p Profile) Distributions() float64 {
	total := 0.0
	for _, ratio := range p {
		if ratio > 0 {
			total += ratio
		}
	}
	return total
}

// At returns the ratio for the given age, or 0 outside the profile.
func (p Profile) At(age int) float64 {
	if age < 0 || age >= len(p) {
		return 0
	}
	return p[age]
}

// Ratios is a per-category target split.
type Ratios struct {
	Secondaries float64 `json:"secondaries" yaml:"secondaries"`
	PE          float64 `json:"pe" yaml:"pe"`
	VC          float64 `json:"vc" yaml:"vc"`
}

// Get returns the ratio for a category.
func (r Ratios) Get(c Category) float64 {
	switch c {
	case Secondaries:
		return r.Secondaries
	case PE:
		return r.PE
	case VC:
		return r.VC
	}
	return 0
}

// Set assigns the ratio for a category.
func (r *Ratios) Set(c Category, value float64) {
	switch c {
	case Secondaries:
		r.Secondaries = value
	case PE:
		r.PE = value
	case VC:
		r.VC = value
	}
}

// Sum returns the total of all ratios.
func (r Ratios) Sum() float64 {
	return r.Secondaries + r.PE + r.VC
}

// Selection gates which categories take part in a plan.
type Selection struct {
	Secondaries bool `json:"secondaries" yaml:"secondaries"`
	PE          bool `json:"pe" yaml:"pe"`
	VC          bool `json:"vc" yaml:"vc"`
}

// AllSelected returns a selection with every category enabled.
func AllSelected() Selection {
	return Selection{Secondaries: true, PE: true, VC: true}
}

// Has reports whether a category is selected.
func (s Selection) Has(c Category) bool {
	switch c {
	case Secondaries:
		return s.Secondaries
	case PE:
		return s.PE
	case VC:
		return s.VC
	}
	return false
}

// Selected returns the selected categories in report order.
func (s Selection) Selected() []Category {
	var selected []Category
	for _, c := range Categories {
		if s.Has(c) {
			selected = append(selected, c)
		}
	}
	return selected
}

// Override pins categories to forced commitment amounts for one planning year.
type Override map[Category]float64

// Breakdown is a per-category commitment amount.
type Breakdown struct {
	Secondaries float64 `json:"secondaries" yaml:"secondaries"`
	PE          float64 `json:"pe" yaml:"pe"`
	VC          float64 `json:"vc" yaml:"vc"`
}

// Get returns the amount for a category.
func (b Breakdown) Get(c Category) float64 {
	switch c {
	case Secondaries:
		return b.Secondaries
	case PE:
		return b.PE
	case VC:
		return b.VC
	}
	return 0
}

// Add increases the amount for a category.
func (b *Breakdown) Add(c Category, amount float64) {
	switch c {
	case Secondaries:
		b.Secondaries += amount
	case PE:
		b.PE += amount
	case VC:
		b.VC += amount
	}
}

// Total returns the sum over all categories.
func (b Breakdown) Total() float64 {
	return b.Secondaries + b.PE + b.VC
}
