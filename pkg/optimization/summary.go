// Package optimization provides shared data structures for optimization results.
package optimization

// Constraint names what limited a planning year's search.
const (
	ConstraintNone      = "none"
	ConstraintBound     = "bound"
	ConstraintLiquidity = "liquidity"
)

// Summary captures the commitment search of a single planning year.
type Summary struct {
	Year        int      `json:"year" yaml:"year"`
	YearIndex   int      `json:"yearIndex" yaml:"yearIndex"`
	Phase       string   `json:"phase" yaml:"phase"`
	Smoothed    bool     `json:"smoothed" yaml:"smoothed"`
	Bound       float64  `json:"bound" yaml:"bound"`
	ForcedTotal float64  `json:"forcedTotal" yaml:"forcedTotal"`
	Searched    float64  `json:"searched" yaml:"searched"`
	Committed   float64  `json:"committed" yaml:"committed"`
	Iterations  int      `json:"iterations" yaml:"iterations"`
	Constraint  string   `json:"constraint" yaml:"constraint"`
	Notes       []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}
