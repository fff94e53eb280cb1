package config

import (
	"strings"
	"testing"

	"github.com/iwvelando/commitment-planner/pkg/portfolio"
)

func TestValidateConfigurationTestConfig(t *testing.T) {
	conf, err := LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	warnings := conf.ValidateConfiguration()
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	expected := "Scenario 'no venture' overrides unselected category 'vc' - the override is ignored"
	if warnings[0] != expected {
		t.Errorf("warning = %q, expected %q", warnings[0], expected)
	}
}

func TestValidateConfigurationEdgeCases(t *testing.T) {
	off := false
	pe := 100.0
	conf := Configuration{
		Common: Common{
			AvailableCapital:  1_000_000,
			StartYear:         2026,
			PlanningHorizon:   20,
			ProjectionHorizon: 10,
			ManualOverrides:   []ManualOverride{{Year: 2027, PE: &pe}},
		},
		Scenarios: []Scenario{
			{
				Name:     "Nothing selected",
				Active:   true,
				Selected: &SelectionConfig{Secondaries: &off, PE: &off, VC: &off},
			},
			{
				Name:   "Skipped",
				Active: false,
			},
		},
		Profiles: ProfileSet{
			PE: []float64{-0.5, 0.8},
			VC: []float64{0.2, 0.3},
		},
		AllocationRules: AllocationRules{
			Phase1: &portfolio.Ratios{Secondaries: 0.6, PE: 0.6, VC: 0.2},
		},
	}
	conf.Normalize()
	conf.AllocationRules.Phase3 = nil

	warnings := conf.ValidateConfiguration()
	t.Logf("Found %d warnings:", len(warnings))
	for i, warning := range warnings {
		t.Logf("%d. %s", i+1, warning)
	}

	expected := []string{
		"Cashflow profile 'pe' calls 0.50",
		"Cashflow profile 'vc' never calls capital",
		"Allocation rule for phase1 sums to 1.40",
		"Allocation rule for phase3 is missing",
		"Scenario 'Nothing selected' selects no category",
		"Scenario 'Nothing selected' overrides unselected category 'pe'",
		"Scenario 'Nothing selected' plans 20 years but projects only 10",
	}
	if len(warnings) != len(expected) {
		t.Fatalf("expected %d warnings, got %d", len(expected), len(warnings))
	}
	for i, prefix := range expected {
		if !strings.HasPrefix(warnings[i], prefix) {
			t.Errorf("warning %d = %q, expected prefix %q", i, warnings[i], prefix)
		}
	}
	for _, warning := range warnings {
		if strings.Contains(warning, "Skipped") {
			t.Errorf("inactive scenario produced a warning: %q", warning)
		}
	}
}

func TestValidateConfigurationDefaultsAreClean(t *testing.T) {
	conf := Configuration{Common: Common{AvailableCapital: 1_000_000, StartYear: 2026}}
	conf.Normalize()

	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected no warnings for the defaults, got %v", warnings)
	}
}
