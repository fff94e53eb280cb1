// Package constants provides shared constants for the commitment-planner application.
package constants

// Solver constants
const (
	// SearchPrecisionIterations is the fixed number of bisection steps used to
	// find the largest feasible commitment for a planning year.
	SearchPrecisionIterations = 20

	// RoundingUnit is the currency unit commitments are floored to.
	RoundingUnit = 1000.0

	// HardCapMultiple caps any single year's commitment at this multiple of
	// the available capital, smoothed or not.
	HardCapMultiple = 5.0

	// UnsmoothedCapMultiple is the search bound when smoothing is disabled.
	UnsmoothedCapMultiple = 2.0

	// RestartFloorFraction lets commitments restart after a zero year.
	RestartFloorFraction = 0.05
)

// Retry thresholds for the smoothing relaxation pass.
const (
	// IdleCashFraction is the end-of-planning cash share above which capital
	// is considered idle.
	IdleCashFraction = 0.10

	// UnderDeployedFraction is the committed share below which capital is
	// considered under-deployed.
	UnderDeployedFraction = 0.80

	// RelaxedImprovementFraction is the minimum improvement in total
	// commitment required to adopt the unsmoothed plan.
	RelaxedImprovementFraction = 0.20
)

// Phase schedule
const (
	// Phase1EndYear is the last planning year (1-based) of phase 1.
	Phase1EndYear = 5

	// Phase2EndYear is the last planning year (1-based) of phase 2.
	Phase2EndYear = 10
)

// Parameter defaults
const (
	// DefaultPlanningHorizon is the number of years with new commitments.
	DefaultPlanningHorizon = 15

	// DefaultProjectionHorizon is the number of simulated years.
	DefaultProjectionHorizon = 50

	// DefaultMaxYearlyChange bounds year-over-year commitment growth.
	DefaultMaxYearlyChange = 0.20

	// DefaultFirstYearCap bounds the first year's commitment as a share of capital.
	DefaultFirstYearCap = 0.25
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// ServerEnvPrefix prefixes environment overrides of the server configuration.
	ServerEnvPrefix = "COMMITMENT_PLANNER"

	// DefaultScenarioConcurrency limits how many scenarios are solved at once.
	DefaultScenarioConcurrency = 4

	// BaselineScenarioName names the scenario solved when none are configured.
	BaselineScenarioName = "baseline"
)

// Validation constants
const (
	// ToleranceForComparison is the tolerance for currency comparisons in
	// liquidity checks (one currency unit).
	ToleranceForComparison = 1.0

	// RatioTolerance is the tolerance for ratio sums.
	RatioTolerance = 1e-6

	// ProfileCallTolerance is the tolerance for profile call and rule sums in
	// configuration warnings.
	ProfileCallTolerance = 1e-6

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
