/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: metrics.go
Description: Prometheus metrics for learning sessions.
*/

package lstar

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// membershipQueries counts membership queries by how they were answered
	membershipQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "automator_membership_queries_total",
		Help: "Membership queries by source (oracle, cache, shared)",
	}, []string{"source"})

	// membershipLatency tracks how long the external oracle takes to answer
	membershipLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "automator_membership_query_duration_seconds",
		Help:    "Time spent waiting for the membership oracle",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12), // 0.1ms to ~7min, humans are slow
	})

	// equivalenceQueries counts equivalence verdicts by outcome
	equivalenceQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "automator_equivalence_queries_total",
		Help: "Equivalence queries by outcome (confirmed, counterexample, rejected, error)",
	}, []string{"outcome"})

	// roundsTotal counts refinement rounds by the phase they ended in
	roundsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "automator_rounds_total",
		Help: "Refinement rounds by resulting phase",
	}, []string{"phase"})

	// hypothesisStates tracks the size of emitted hypotheses
	hypothesisStates = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "automator_hypothesis_states",
		Help:    "Number of states of each emitted hypothesis",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 50, 100},
	})
)
