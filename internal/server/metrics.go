package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SolveDuration tracks how long a plan request takes, including parsing.
	// Labels: endpoint (upload, editor)
	SolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "commitment_planner",
			Subsystem: "server",
			Name:      "solve_duration_seconds",
			Help:      "Duration of plan requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// PlansTotal counts plan requests.
	// Labels: result (success, invalid, error)
	PlansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "commitment_planner",
			Subsystem: "server",
			Name:      "plans_total",
			Help:      "Total number of plan requests by result",
		},
		[]string{"result"},
	)

	// ScenariosSolved counts solved scenarios.
	// Labels: mode (smoothed, relaxed)
	ScenariosSolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "commitment_planner",
			Subsystem: "server",
			Name:      "scenarios_solved_total",
			Help:      "Total number of solved scenarios by allocation mode",
		},
		[]string{"mode"},
	)
)

const (
	resultSuccess = "success"
	resultInvalid = "invalid"
	resultError   = "error"
)
