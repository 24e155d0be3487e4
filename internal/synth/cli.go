package synth

import (
	"context"
	"fmt"
	"os"

	"github.com/okian/scout/pkg/logger"
)

// SetupLogging sends log output to stderr so generated CSV can go to stdout.
func SetupLogging(verbose bool) error {
	if err := logger.InitWithWriter(os.Stderr); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		if err := logger.SetLevelString("debug"); err != nil {
			return err
		}
	}
	logger.Get().Debug(context.Background(), "verbose logging enabled")
	return nil
}

// ShowHelp prints usage information for the snapshot tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Scout Snapshot Tool
===================

Generates synthetic athlete snapshots and probes a running recommender.

Usage:
  go run ./cmd/gen-snapshot [options]

Options:
  -out string
        CSV destination (default: stdout)
  -per-role int
        Athletes generated per role (default 40)
  -roles string
        Comma separated roles (default: Winger,Playmaker,Striker,Anchor,Fullback,CentreBack)
  -missing float
        Probability that a statistic or market value is blank (default 0.05)
  -probe string
        Base URL of a running service to probe instead of generating
  -workers int
        Number of concurrent probe workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -tolerance float
        Similar bucket tolerance the service runs with (default 0.25)
  -priority string
        Priority statistic sent with every probe request
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Write a snapshot for the service
  go run ./cmd/gen-snapshot -out data/recommender_snapshot.csv

  # Probe a running service
  go run ./cmd/gen-snapshot -probe http://localhost:9080 -workers 16
`)
}
