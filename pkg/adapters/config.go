// Package adapters provides adapter implementations between different package interfaces.
package adapters

import (
	"github.com/iwvelando/commitment-planner/internal/config"
	"github.com/iwvelando/commitment-planner/internal/plan"
	"github.com/iwvelando/commitment-planner/pkg/portfolio"
)

// ScenarioToInput resolves a scenario against the common parameters and the
// shared profiles and rules of the configuration.
func ScenarioToInput(conf *config.Configuration, scenario config.Scenario) portfolio.Input {
	common := conf.Common
	in := portfolio.Input{
		AvailableCapital:   common.AvailableCapital,
		StartYear:          common.StartYear,
		PlanningHorizon:    common.PlanningHorizon,
		Horizon:            common.Horizon,
		ProjectionHorizon:  common.ProjectionHorizon,
		Profiles:           conf.Profiles.Map(),
		NAVProfiles:        conf.NAVProfiles.Map(),
		AllocationRules:    conf.AllocationRules.Map(),
		SelectedCategories: common.Selected.Selection(),
		MaxYearlyChange:    common.MaxYearlyChange,
		FirstYearCap:       common.FirstYearCap,
	}

	if scenario.AvailableCapital != nil {
		in.AvailableCapital = *scenario.AvailableCapital
	}
	if scenario.StartYear != nil {
		in.StartYear = *scenario.StartYear
	}
	if scenario.PlanningHorizon != nil {
		in.PlanningHorizon = *scenario.PlanningHorizon
	}
	if scenario.ProjectionHorizon != nil {
		in.ProjectionHorizon = *scenario.ProjectionHorizon
	}
	if scenario.MaxYearlyChange != nil {
		in.MaxYearlyChange = *scenario.MaxYearlyChange
	}
	if scenario.FirstYearCap != nil {
		in.FirstYearCap = *scenario.FirstYearCap
	}
	if scenario.Selected != nil {
		in.SelectedCategories = scenario.Selected.Selection()
	}

	in.ManualOverrides = MergeOverrides(in.StartYear, common.ManualOverrides, scenario.ManualOverrides)
	return in
}

// MergeOverrides keys the configured overrides by planning year index. Later
// lists win per year and category, so scenario entries replace common ones.
func MergeOverrides(startYear int, lists ...[]config.ManualOverride) map[int]portfolio.Override {
	var merged map[int]portfolio.Override
	for _, list := range lists {
		for _, entry := range list {
			if merged == nil {
				merged = make(map[int]portfolio.Override)
			}
			yearIndex := entry.ResolveYearIndex(startYear)
			if merged[yearIndex] == nil {
				merged[yearIndex] = portfolio.Override{}
			}
			for category, amount := range entry.Override() {
				merged[yearIndex][category] = amount
			}
		}
	}
	return merged
}

// ConfigToScenarios converts every active scenario of the configuration.
func ConfigToScenarios(conf *config.Configuration) []plan.Scenario {
	active := conf.ActiveScenarios()
	scenarios := make([]plan.Scenario, 0, len(active))
	for _, scenario := range active {
		scenarios = append(scenarios, plan.Scenario{
			Name:  scenario.Name,
			Input: ScenarioToInput(conf, scenario),
		})
	}
	return scenarios
}
