package config

import "github.com/iwvelando/commitment-planner/pkg/portfolio"

// DefaultProfiles returns the built-in cashflow profiles. Each entry is the
// net flow of a unit commitment at that age; calls sum to the full commitment.
func DefaultProfiles() map[portfolio.Category]portfolio.Profile {
	return map[portfolio.Category]portfolio.Profile{
		portfolio.Secondaries: {-0.45, -0.35, -0.20, 0.15, 0.25, 0.30, 0.30, 0.25, 0.15, 0.10, 0.05},
		portfolio.PE:          {-0.25, -0.25, -0.20, -0.15, -0.10, -0.05, 0.10, 0.20, 0.30, 0.35, 0.35, 0.30, 0.20, 0.10},
		portfolio.VC:          {-0.20, -0.20, -0.20, -0.15, -0.15, -0.10, 0, 0.05, 0.15, 0.25, 0.35, 0.45, 0.40, 0.30, 0.20, 0.10},
	}
}

// DefaultNAVProfiles returns the built-in NAV exposure of a unit commitment by age.
func DefaultNAVProfiles() map[portfolio.Category]portfolio.Profile {
	return map[portfolio.Category]portfolio.Profile{
		portfolio.Secondaries: {0.45, 0.80, 0.95, 0.90, 0.80, 0.65, 0.45, 0.30, 0.15, 0.05},
		portfolio.PE:          {0.25, 0.50, 0.70, 0.85, 0.95, 1.00, 1.00, 0.90, 0.75, 0.55, 0.35, 0.20, 0.10},
		portfolio.VC:          {0.20, 0.40, 0.60, 0.75, 0.90, 1.00, 1.10, 1.20, 1.20, 1.10, 0.90, 0.65, 0.40, 0.20, 0.10},
	}
}

// DefaultAllocationRules returns the built-in phase ratios: secondaries lead
// early, buyouts and venture take over later.
func DefaultAllocationRules() map[portfolio.Phase]portfolio.Ratios {
	return map[portfolio.Phase]portfolio.Ratios{
		portfolio.Phase1: {Secondaries: 0.50, PE: 0.30, VC: 0.20},
		portfolio.Phase2: {Secondaries: 0.30, PE: 0.45, VC: 0.25},
		portfolio.Phase3: {Secondaries: 0.20, PE: 0.50, VC: 0.30},
	}
}
