// Package config defines the data structures related to configuration and
// includes functions for loading, normalizing and validating the config.
package config

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/iwvelando/commitment-planner/pkg/constants"
	"github.com/iwvelando/commitment-planner/pkg/portfolio"
	"github.com/iwvelando/commitment-planner/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for commitment-planner.
type Configuration struct {
	Common          Common
	Scenarios       []Scenario
	Profiles        ProfileSet      `yaml:"profiles,omitempty" mapstructure:"profiles"`
	NAVProfiles     ProfileSet      `yaml:"navProfiles,omitempty" mapstructure:"navProfiles"`
	AllocationRules AllocationRules `yaml:"allocationRules,omitempty" mapstructure:"allocationRules"`
	Logging         LoggingConfig   `yaml:"logging,omitempty"`
	Output          OutputConfig    `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format      string `yaml:"format,omitempty"` // pretty, csv, json, yaml
	Diagnostics bool   `yaml:"diagnostics,omitempty"`
}

// ProfileSet holds one yearly profile per category.
type ProfileSet struct {
	Secondaries []float64 `yaml:"secondaries,omitempty" mapstructure:"secondaries"`
	PE          []float64 `yaml:"pe,omitempty" mapstructure:"pe"`
	VC          []float64 `yaml:"vc,omitempty" mapstructure:"vc"`
}

// AllocationRules holds the target ratios of each phase.
type AllocationRules struct {
	Phase1 *portfolio.Ratios `yaml:"phase1,omitempty" mapstructure:"phase1"`
	Phase2 *portfolio.Ratios `yaml:"phase2,omitempty" mapstructure:"phase2"`
	Phase3 *portfolio.Ratios `yaml:"phase3,omitempty" mapstructure:"phase3"`
}

// SelectionConfig marks which categories take part in a plan. Unset
// categories are selected.
type SelectionConfig struct {
	Secondaries *bool `yaml:"secondaries,omitempty" mapstructure:"secondaries"`
	PE          *bool `yaml:"pe,omitempty" mapstructure:"pe"`
	VC          *bool `yaml:"vc,omitempty" mapstructure:"vc"`
}

// ManualOverride pins category amounts for one planning year. The year is
// given either as a calendar Year or as a 0-based YearIndex.
type ManualOverride struct {
	Year        int      `yaml:"year,omitempty" mapstructure:"year"`
	YearIndex   *int     `yaml:"yearIndex,omitempty" mapstructure:"yearIndex"`
	Secondaries *float64 `yaml:"secondaries,omitempty" mapstructure:"secondaries"`
	PE          *float64 `yaml:"pe,omitempty" mapstructure:"pe"`
	VC          *float64 `yaml:"vc,omitempty" mapstructure:"vc"`
}

// Common holds the planning parameters shared by all scenarios.
type Common struct {
	AvailableCapital  float64          `yaml:"availableCapital" mapstructure:"availableCapital"`
	StartYear         int              `yaml:"startYear" mapstructure:"startYear"`
	PlanningHorizon   int              `yaml:"planningHorizon,omitempty" mapstructure:"planningHorizon"`
	Horizon           int              `yaml:"horizon,omitempty" mapstructure:"horizon"`
	ProjectionHorizon int              `yaml:"projectionHorizon,omitempty" mapstructure:"projectionHorizon"`
	MaxYearlyChange   float64          `yaml:"maxYearlyChange" mapstructure:"maxYearlyChange"`
	FirstYearCap      float64          `yaml:"firstYearCap" mapstructure:"firstYearCap"`
	Selected          SelectionConfig  `yaml:"selectedCategories,omitempty" mapstructure:"selectedCategories"`
	ManualOverrides   []ManualOverride `yaml:"manualOverrides,omitempty" mapstructure:"manualOverrides"`
}

// Scenario holds the parameters a scenario changes relative to Common.
// Unset fields inherit the common value.
type Scenario struct {
	Name              string           `yaml:"name"`
	Active            bool             `yaml:"active"`
	AvailableCapital  *float64         `yaml:"availableCapital,omitempty" mapstructure:"availableCapital"`
	StartYear         *int             `yaml:"startYear,omitempty" mapstructure:"startYear"`
	PlanningHorizon   *int             `yaml:"planningHorizon,omitempty" mapstructure:"planningHorizon"`
	ProjectionHorizon *int             `yaml:"projectionHorizon,omitempty" mapstructure:"projectionHorizon"`
	MaxYearlyChange   *float64         `yaml:"maxYearlyChange,omitempty" mapstructure:"maxYearlyChange"`
	FirstYearCap      *float64         `yaml:"firstYearCap,omitempty" mapstructure:"firstYearCap"`
	Selected          *SelectionConfig `yaml:"selectedCategories,omitempty" mapstructure:"selectedCategories"`
	ManualOverrides   []ManualOverride `yaml:"manualOverrides,omitempty" mapstructure:"manualOverrides"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetDefault("common.projectionHorizon", constants.DefaultProjectionHorizon)
	v.SetDefault("common.maxYearlyChange", constants.DefaultMaxYearlyChange)
	v.SetDefault("common.firstYearCap", constants.DefaultFirstYearCap)
	for _, category := range portfolio.Categories {
		v.SetDefault("common.selectedCategories."+string(category), true)
	}
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
// JSON documents are accepted as well.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	configuration.Normalize()
	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Normalize fills absent profiles and rules with the built-in defaults and
// names unnamed scenarios.
func (c *Configuration) Normalize() {
	if c == nil {
		return
	}
	c.Profiles = c.Profiles.withDefaults(DefaultProfiles())
	c.NAVProfiles = c.NAVProfiles.withDefaults(DefaultNAVProfiles())

	rules := DefaultAllocationRules()
	if c.AllocationRules.Phase1 == nil {
		r := rules[portfolio.Phase1]
		c.AllocationRules.Phase1 = &r
	}
	if c.AllocationRules.Phase2 == nil {
		r := rules[portfolio.Phase2]
		c.AllocationRules.Phase2 = &r
	}
	if c.AllocationRules.Phase3 == nil {
		r := rules[portfolio.Phase3]
		c.AllocationRules.Phase3 = &r
	}

	if c.Common.PlanningHorizon <= 0 {
		c.Common.PlanningHorizon = c.Common.Horizon
	}
	if c.Common.PlanningHorizon <= 0 {
		c.Common.PlanningHorizon = constants.DefaultPlanningHorizon
	}
	if c.Common.ProjectionHorizon <= 0 {
		c.Common.ProjectionHorizon = constants.DefaultProjectionHorizon
	}
	for i := range c.Scenarios {
		c.Scenarios[i].Name = strings.TrimSpace(c.Scenarios[i].Name)
		if c.Scenarios[i].Name == "" {
			c.Scenarios[i].Name = fmt.Sprintf("Scenario %d", i+1)
		}
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
}

func (p ProfileSet) withDefaults(defaults map[portfolio.Category]portfolio.Profile) ProfileSet {
	if len(p.Secondaries) == 0 {
		p.Secondaries = defaults[portfolio.Secondaries]
	}
	if len(p.PE) == 0 {
		p.PE = defaults[portfolio.PE]
	}
	if len(p.VC) == 0 {
		p.VC = defaults[portfolio.VC]
	}
	return p
}

// Map returns the profiles keyed by category.
func (p ProfileSet) Map() map[portfolio.Category]portfolio.Profile {
	profiles := make(map[portfolio.Category]portfolio.Profile, len(portfolio.Categories))
	if p.Secondaries != nil {
		profiles[portfolio.Secondaries] = portfolio.Profile(p.Secondaries)
	}
	if p.PE != nil {
		profiles[portfolio.PE] = portfolio.Profile(p.PE)
	}
	if p.VC != nil {
		profiles[portfolio.VC] = portfolio.Profile(p.VC)
	}
	return profiles
}

// Map returns the rules keyed by phase. Phases without a rule are omitted.
func (r AllocationRules) Map() map[portfolio.Phase]portfolio.Ratios {
	rules := make(map[portfolio.Phase]portfolio.Ratios, len(portfolio.Phases))
	if r.Phase1 != nil {
		rules[portfolio.Phase1] = *r.Phase1
	}
	if r.Phase2 != nil {
		rules[portfolio.Phase2] = *r.Phase2
	}
	if r.Phase3 != nil {
		rules[portfolio.Phase3] = *r.Phase3
	}
	return rules
}

// Selection resolves the configured flags; unset categories are selected.
func (s SelectionConfig) Selection() portfolio.Selection {
	resolve := func(flag *bool) bool {
		return flag == nil || *flag
	}
	return portfolio.Selection{
		Secondaries: resolve(s.Secondaries),
		PE:          resolve(s.PE),
		VC:          resolve(s.VC),
	}
}

// Override returns the pinned amounts of the entry.
func (m ManualOverride) Override() portfolio.Override {
	override := portfolio.Override{}
	if m.Secondaries != nil {
		override[portfolio.Secondaries] = *m.Secondaries
	}
	if m.PE != nil {
		override[portfolio.PE] = *m.PE
	}
	if m.VC != nil {
		override[portfolio.VC] = *m.VC
	}
	return override
}

// ResolveYearIndex returns the 0-based planning year of the entry.
func (m ManualOverride) ResolveYearIndex(startYear int) int {
	if m.YearIndex != nil {
		return *m.YearIndex
	}
	return m.Year - startYear
}

// Validate returns an error when the configuration cannot produce a plan.
func (c *Configuration) Validate() error {
	if c == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if err := validateCapital("common", c.Common.AvailableCapital); err != nil {
		return err
	}
	if err := validateOverrides("common", c.Common.ManualOverrides); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Scenarios))
	for _, scenario := range c.Scenarios {
		if seen[scenario.Name] {
			return fmt.Errorf("duplicate scenario name %q", scenario.Name)
		}
		seen[scenario.Name] = true

		label := fmt.Sprintf("scenario %q", scenario.Name)
		if scenario.AvailableCapital != nil {
			if err := validateCapital(label, *scenario.AvailableCapital); err != nil {
				return err
			}
		}
		if scenario.PlanningHorizon != nil && *scenario.PlanningHorizon <= 0 {
			return fmt.Errorf("%s planning horizon must be positive, got %d", label, *scenario.PlanningHorizon)
		}
		if scenario.ProjectionHorizon != nil && *scenario.ProjectionHorizon <= 0 {
			return fmt.Errorf("%s projection horizon must be positive, got %d", label, *scenario.ProjectionHorizon)
		}
		if err := validateOverrides(label, scenario.ManualOverrides); err != nil {
			return err
		}
	}

	if c.Common.PlanningHorizon <= 0 {
		return fmt.Errorf("common planning horizon must be positive, got %d", c.Common.PlanningHorizon)
	}
	if c.Common.ProjectionHorizon <= 0 {
		return fmt.Errorf("common projection horizon must be positive, got %d", c.Common.ProjectionHorizon)
	}

	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			return err
		}
	}
	return nil
}

func validateCapital(label string, capital float64) error {
	if math.IsNaN(capital) || math.IsInf(capital, 0) || capital < 0 {
		return fmt.Errorf("%s available capital must be a non-negative number, got %v", label, capital)
	}
	return nil
}

func validateOverrides(label string, overrides []ManualOverride) error {
	for i, override := range overrides {
		if override.YearIndex == nil && override.Year == 0 {
			return fmt.Errorf("%s manual override %d needs a year or yearIndex", label, i+1)
		}
		for category, amount := range override.Override() {
			if amount < 0 {
				return fmt.Errorf("%s manual override %d has a negative %s amount %v", label, i+1, category, amount)
			}
		}
	}
	return nil
}

// ActiveScenarios returns the scenarios to solve. A configuration without
// scenarios solves the common parameters as a single baseline scenario.
func (c *Configuration) ActiveScenarios() []Scenario {
	if len(c.Scenarios) == 0 {
		return []Scenario{{Name: constants.BaselineScenarioName, Active: true}}
	}
	var active []Scenario
	for _, scenario := range c.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	validator := validation.ConfigValidator{
		Profiles:        validationProfiles(c.Profiles),
		AllocationRules: validationRules(c.AllocationRules),
	}

	for _, scenario := range c.ActiveScenarios() {
		selection := c.Common.Selected.Selection()
		if scenario.Selected != nil {
			selection = scenario.Selected.Selection()
		}
		planning := c.Common.PlanningHorizon
		if scenario.PlanningHorizon != nil {
			planning = *scenario.PlanningHorizon
		}
		projection := c.Common.ProjectionHorizon
		if scenario.ProjectionHorizon != nil {
			projection = *scenario.ProjectionHorizon
		}

		info := validation.ScenarioConfig{
			Name:              scenario.Name,
			PlanningHorizon:   planning,
			ProjectionHorizon: projection,
			Selected:          map[string]bool{},
		}
		for _, category := range portfolio.Categories {
			info.Selected[string(category)] = selection.Has(category)
		}
		for _, override := range append(append([]ManualOverride{}, c.Common.ManualOverrides...), scenario.ManualOverrides...) {
			for category := range override.Override() {
				info.OverrideCategories = append(info.OverrideCategories, string(category))
			}
		}
		validator.Scenarios = append(validator.Scenarios, info)
	}

	return validator.ValidateAll()
}

func validationProfiles(set ProfileSet) []validation.ProfileConfig {
	var profiles []validation.ProfileConfig
	for _, category := range portfolio.Categories {
		profile := set.Map()[category]
		profiles = append(profiles, validation.ProfileConfig{
			Category: string(category),
			Calls:    profile.Calls(),
		})
	}
	return profiles
}

func validationRules(rules AllocationRules) []validation.RuleConfig {
	var result []validation.RuleConfig
	mapped := rules.Map()
	for _, phase := range portfolio.Phases {
		ratios, ok := mapped[phase]
		result = append(result, validation.RuleConfig{
			Phase:   string(phase),
			Present: ok,
			Sum:     ratios.Sum(),
		})
	}
	return result
}
