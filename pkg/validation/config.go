// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"math"

	"github.com/iwvelando/commitment-planner/pkg/constants"
)

// ConfigValidator collects the parts of a configuration that can produce
// warnings. It is decoupled from the configuration types so callers convert
// into it.
type ConfigValidator struct {
	Profiles        []ProfileConfig
	AllocationRules []RuleConfig
	Scenarios       []ScenarioConfig
}

// ProfileConfig summarizes one cashflow profile.
type ProfileConfig struct {
	Category string
	Calls    float64
}

// RuleConfig summarizes one phase rule.
type RuleConfig struct {
	Phase   string
	Present bool
	Sum     float64
}

// ScenarioConfig summarizes one active scenario.
type ScenarioConfig struct {
	Name               string
	PlanningHorizon    int
	ProjectionHorizon  int
	Selected           map[string]bool
	OverrideCategories []string
}

// ValidateProfileCalls warns when a profile does not call exactly the full
// commitment. Unfunded liability stays pinned once such a profile ends.
func ValidateProfileCalls(category string, calls float64) string {
	if calls == 0 {
		return fmt.Sprintf("Cashflow profile '%s' never calls capital - its MOIC is reported as 0", category)
	}
	if math.Abs(calls-1) > constants.ProfileCallTolerance {
		return fmt.Sprintf("Cashflow profile '%s' calls %.2f of the commitment instead of 1.00 - unfunded stays pinned after the profile ends",
			category, calls)
	}
	return ""
}

// ValidateRule warns about a missing phase rule or ratios summing above 1.
func ValidateRule(rule RuleConfig) string {
	if !rule.Present {
		return fmt.Sprintf("Allocation rule for %s is missing - selected categories share equally", rule.Phase)
	}
	if rule.Sum > 1+constants.ProfileCallTolerance {
		return fmt.Sprintf("Allocation rule for %s sums to %.2f - ratios are renormalized", rule.Phase, rule.Sum)
	}
	return ""
}

// ValidateScenario returns the warnings of a single scenario.
func ValidateScenario(scenario ScenarioConfig) []string {
	var warnings []string

	selectedAny := false
	for _, selected := range scenario.Selected {
		selectedAny = selectedAny || selected
	}
	if !selectedAny {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' selects no category - every commitment will be 0", scenario.Name))
	}

	reported := make(map[string]bool)
	for _, category := range scenario.OverrideCategories {
		if scenario.Selected[category] || reported[category] {
			continue
		}
		reported[category] = true
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' overrides unselected category '%s' - the override is ignored",
			scenario.Name, category))
	}

	if scenario.PlanningHorizon > scenario.ProjectionHorizon {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' plans %d years but projects only %d - the projection is extended",
			scenario.Name, scenario.PlanningHorizon, scenario.ProjectionHorizon))
	}
	return warnings
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	for _, profile := range cv.Profiles {
		if warning := ValidateProfileCalls(profile.Category, profile.Calls); warning != "" {
			warnings = append(warnings, warning)
		}
	}
	for _, rule := range cv.AllocationRules {
		if warning := ValidateRule(rule); warning != "" {
			warnings = append(warnings, warning)
		}
	}
	for _, scenario := range cv.Scenarios {
		warnings = append(warnings, ValidateScenario(scenario)...)
	}

	return warnings
}
