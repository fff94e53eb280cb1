package plan

import (
	"context"
	"fmt"

	"github.com/iwvelando/commitment-planner/pkg/constants"
	"github.com/iwvelando/commitment-planner/pkg/portfolio"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Scenario is a named input to solve.
type Scenario struct {
	Name  string
	Input portfolio.Input
}

// Result pairs a scenario name with its plan.
type Result struct {
	Name string          `json:"name" yaml:"name"`
	Plan *portfolio.Plan `json:"plan" yaml:"plan"`
}

// SolveScenarios solves every scenario with at most limit solves in flight.
// Results keep the order of scenarios. The first failure cancels the
// remaining work and is returned.
func SolveScenarios(ctx context.Context, logger *zap.Logger, scenarios []Scenario, limit int) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit <= 0 {
		limit = constants.DefaultScenarioConcurrency
	}

	results := make([]Result, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, scenario := range scenarios {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			plan, err := Solve(logger.With(zap.String("scenario", scenario.Name)), scenario.Input)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", scenario.Name, err)
			}
			results[i] = Result{Name: scenario.Name, Plan: plan}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("failed to solve scenarios",
			zap.String("op", "plan.SolveScenarios"),
			zap.Error(err),
		)
		return nil, err
	}
	return results, nil
}
