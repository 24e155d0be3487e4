// Package synth generates synthetic athlete snapshots and probes a running
// recommender with them.
package synth

import "time"

// Config holds configuration for snapshot generation.
type Config struct {
	Roles       []string // roles to generate
	PerRole     int      // athletes per role
	MissingRate float64  // probability that a statistic or market value is blank
	Output      string   // CSV destination; empty writes to stdout
}

// ProbeConfig holds configuration for probing a running service.
type ProbeConfig struct {
	BaseURL   string        // Base URL of the service
	Workers   int           // Number of concurrent workers
	Timeout   time.Duration // HTTP request timeout
	Tolerance float64       // Similar bucket tolerance the server runs with
	Priority  string        // Priority statistic sent with every request
	Verbose   bool          // Enable verbose logging
}

// Stats holds probe statistics.
type Stats struct {
	Athletes   int
	Requested  int
	Successful int
	Failed     int
	Violations int
	Candidates int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}

// Athlete mirrors an entry of GET /athletes.
type Athlete struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	MarketValue string `json:"marketValue"`
	Selectable  bool   `json:"selectable"`
}

// Recommendation mirrors the parts of GET /athletes/{name}/recommendations
// the probe checks.
type Recommendation struct {
	ID        string `json:"id"`
	Reference struct {
		Name        string `json:"name"`
		Role        string `json:"role"`
		MarketValue string `json:"marketValue"`
	} `json:"reference"`
	Candidates []struct {
		Name        string  `json:"name"`
		Role        string  `json:"role"`
		MarketValue string  `json:"marketValue"`
		Bucket      string  `json:"bucket"`
		Distance    float64 `json:"distance"`
	} `json:"candidates"`
	Profiles []struct {
		Name        string `json:"name"`
		Percentiles []int  `json:"percentiles"`
	} `json:"profiles"`
}
