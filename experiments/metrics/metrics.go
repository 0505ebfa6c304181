// Package metrics holds the record shapes experiments produce and the
// CSV writer that stores them, one timestamped directory per run.
package metrics

import "time"

// Config describes one engine configuration under measurement. Zero
// fields fall back to the engine defaults.
type Config struct {
	ID          int
	Simulations int
	Exploration float64
	MaxDepth    int
	Trees       int
	Seed        uint64
}

// DecisionRecord is one decision made while walking an agent forward.
type DecisionRecord struct {
	Config    int // Config.ID
	Agent     string
	Step      int
	Action    string
	Value     float64
	Visits    int
	Children  int
	Truncated int
	Elapsed   time.Duration
}

// Summary aggregates every decision one config produced during a run.
type Summary struct {
	Config         int
	Decisions      int
	MeanValue      float64
	StdDevValue    float64
	MeanElapsedMs  float64
	TruncationRate float64 // truncated rollouts per simulation
}

// ThroughputRecord measures one search at a given tree count.
type ThroughputRecord struct {
	Trees       int
	Simulations int
	Elapsed     time.Duration
	PerSecond   float64
}
