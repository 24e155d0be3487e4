package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/okian/scout/internal/synth"
)

// Default configuration constants.
const (
	defaultPerRole     = 40
	defaultMissingRate = 0.05
	defaultTolerance   = 0.25
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultRunTimeout  = 10 * time.Minute
)

func main() {
	var (
		output    = flag.String("out", "", "CSV destination (default: stdout)")
		perRole   = flag.Int("per-role", defaultPerRole, "Athletes generated per role")
		roles     = flag.String("roles", "", "Comma separated roles (default: all built-in roles)")
		missing   = flag.Float64("missing", defaultMissingRate, "Probability that a statistic or market value is blank")
		probeURL  = flag.String("probe", "", "Base URL of a running service to probe")
		workers   = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent probe workers")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		tolerance = flag.Float64("tolerance", defaultTolerance, "Similar bucket tolerance the service runs with")
		priority  = flag.String("priority", "", "Priority statistic sent with every probe request")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		synth.ShowHelp()
		return
	}

	if err := synth.SetupLogging(*verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	if *probeURL != "" {
		_, err := synth.Probe(ctx, &synth.ProbeConfig{
			BaseURL:   strings.TrimRight(*probeURL, "/"),
			Workers:   *workers,
			Timeout:   *timeout,
			Tolerance: *tolerance,
			Priority:  *priority,
			Verbose:   *verbose,
		})
		if err != nil {
			_, _ = os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
			cancel()
			os.Exit(1)
		}
		return
	}

	cfg := &synth.Config{
		PerRole:     *perRole,
		MissingRate: *missing,
		Output:      *output,
	}
	if *roles != "" {
		for _, r := range strings.Split(*roles, ",") {
			if r = strings.TrimSpace(r); r != "" {
				cfg.Roles = append(cfg.Roles, r)
			}
		}
	}
	if err := synth.GenerateFile(ctx, cfg); err != nil {
		_, _ = os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
