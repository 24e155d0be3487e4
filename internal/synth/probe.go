package synth

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okian/scout/pkg/logger"
)

// Probe requests recommendations for every selectable athlete of a running
// service and checks each response for bucket violations.
func Probe(ctx context.Context, cfg *ProbeConfig) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Float64("tolerance", cfg.Tolerance),
		logger.String("priority", cfg.Priority))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := client.health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	athletes, err := client.athletes(ctx)
	if err != nil {
		return nil, fmt.Errorf("athlete listing failed: %w", err)
	}
	stats.Athletes = len(athletes)

	runProbe(ctx, cfg, client, athletes, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	if stats.Violations > 0 {
		return stats, fmt.Errorf("%d bucket violations", stats.Violations)
	}
	return stats, nil
}

// runProbe fans the athletes out over a worker pool.
func runProbe(ctx context.Context, cfg *ProbeConfig, client *HTTPClient, athletes []Athlete, stats *Stats) {
	var (
		requested  int64
		successful int64
		failed     int64
		violations int64
		candidates int64
	)
	tolerance := decimal.NewFromFloat(cfg.Tolerance)

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	athleteChan := make(chan Athlete, workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for a := range athleteChan {
				if ctx.Err() != nil {
					return
				}
				atomic.AddInt64(&requested, 1)
				rec, err := client.recommend(ctx, a.Name, cfg.Priority)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					logger.Get().Warn(ctx, "recommendation failed", logger.String("athlete", a.Name), logger.Error(err))
					continue
				}
				atomic.AddInt64(&successful, 1)
				atomic.AddInt64(&candidates, int64(len(rec.Candidates)))

				problems := Verify(rec, tolerance)
				atomic.AddInt64(&violations, int64(len(problems)))
				for _, p := range problems {
					logger.Get().Error(ctx, "bucket violation", logger.String("athlete", a.Name), logger.String("problem", p))
				}
				if cfg.Verbose {
					logger.Get().Debug(ctx, "recommendation checked",
						logger.String("athlete", a.Name),
						logger.Int("candidates", len(rec.Candidates)))
				}
			}
		}()
	}

	go func() {
		defer close(athleteChan)
		for _, a := range athletes {
			select {
			case <-ctx.Done():
				return
			case athleteChan <- a:
			}
		}
	}()

	wg.Wait()

	stats.Requested = int(atomic.LoadInt64(&requested))
	stats.Successful = int(atomic.LoadInt64(&successful))
	stats.Failed = int(atomic.LoadInt64(&failed))
	stats.Violations = int(atomic.LoadInt64(&violations))
	stats.Candidates = int(atomic.LoadInt64(&candidates))
}

// Verify checks one recommendation and returns a description of every
// violation found.
func Verify(rec Recommendation, tolerance decimal.Decimal) []string {
	var problems []string
	ref, err := decimal.NewFromString(rec.Reference.MarketValue)
	if err != nil {
		return []string{fmt.Sprintf("reference %q has no market value", rec.Reference.Name)}
	}
	band := ref.Abs().Mul(tolerance)

	for _, c := range rec.Candidates {
		if c.Name == rec.Reference.Name {
			problems = append(problems, fmt.Sprintf("reference recommended as its own replacement in %s", c.Bucket))
		}
		if c.Role != rec.Reference.Role {
			problems = append(problems, fmt.Sprintf("%s has role %q, want %q", c.Name, c.Role, rec.Reference.Role))
		}
		v, err := decimal.NewFromString(c.MarketValue)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s has no market value", c.Name))
			continue
		}
		switch c.Bucket {
		case "cheaper":
			if !v.LessThan(ref) {
				problems = append(problems, fmt.Sprintf("cheaper %s costs %s, reference %s", c.Name, v, ref))
			}
		case "similar":
			if v.Sub(ref).Abs().GreaterThan(band) {
				problems = append(problems, fmt.Sprintf("similar %s costs %s, outside %s of %s", c.Name, v, band, ref))
			}
		case "pricier":
			if !v.GreaterThan(ref) {
				problems = append(problems, fmt.Sprintf("pricier %s costs %s, reference %s", c.Name, v, ref))
			}
		default:
			problems = append(problems, fmt.Sprintf("%s has unknown bucket %q", c.Name, c.Bucket))
		}
	}

	for _, p := range rec.Profiles {
		for _, pct := range p.Percentiles {
			if pct < 0 || pct > 100 {
				problems = append(problems, fmt.Sprintf("%s percentile %d out of range", p.Name, pct))
				break
			}
		}
	}
	return problems
}

// displayFinalStats logs the final probe statistics.
func displayFinalStats(stats *Stats) {
	var successRate, requestsPerSecond float64
	if stats.Requested > 0 {
		successRate = float64(stats.Successful) / float64(stats.Requested) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.Requested) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("athletes", stats.Athletes),
		logger.Int("requested", stats.Requested),
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
		logger.Int("candidates", stats.Candidates),
		logger.Int("violations", stats.Violations),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond),
		logger.Duration("duration", stats.Duration))
}
