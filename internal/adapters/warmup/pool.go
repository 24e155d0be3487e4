package warmup

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/pkg/logger"
)

// Recommender runs one recommendation computation.
type Recommender interface {
	Recommend(ctx context.Context, name, priority string) service.Outcome
}

// Stats summarizes one warm-up run.
type Stats struct {
	Jobs     int
	Computed int
	Failed   int
	Duration time.Duration
}

// Pool fans recommendation jobs out over a fixed set of workers.
type Pool struct {
	deps       Recommender
	workers    int
	priorities []string
	logger     logger.Logger
}

// NewPool creates a new warm-up pool.
func NewPool(deps Recommender, opts ...Option) *Pool {
	p := &Pool{
		deps:       deps,
		workers:    runtime.NumCPU(),
		priorities: []string{""},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Named("warmup")
	}
	return p
}

// Warm computes every (athlete, priority) pair and blocks until all jobs are
// done or ctx is cancelled.
func (p *Pool) Warm(ctx context.Context, athletes []string) Stats {
	start := time.Now()
	q := NewInMemoryQueue(p.workers * 2)

	var computed, failed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.run(ctx, q, &computed, &failed)
		}()
	}

	jobs := 0
enqueue:
	for _, name := range athletes {
		for _, priority := range p.priorities {
			j := Job{Athlete: name, Priority: priority}
			for !q.Enqueue(ctx, j) {
				select {
				case <-ctx.Done():
					break enqueue
				case <-time.After(time.Millisecond):
				}
			}
			jobs++
		}
	}
	_ = q.Close()
	wg.Wait()

	stats := Stats{
		Jobs:     jobs,
		Computed: int(computed.Load()),
		Failed:   int(failed.Load()),
		Duration: time.Since(start),
	}
	p.logger.Info(ctx, "warm-up finished",
		logger.Int("jobs", stats.Jobs),
		logger.Int("computed", stats.Computed),
		logger.Int("failed", stats.Failed),
		logger.Int("workers", p.workers),
		logger.Duration("duration", stats.Duration))
	return stats
}

// run is one worker loop.
func (p *Pool) run(ctx context.Context, q Queue, computed, failed *atomic.Int64) {
	for j := range q.Dequeue() {
		if ctx.Err() != nil {
			continue
		}
		out := p.deps.Recommend(ctx, j.Athlete, j.Priority)
		if !out.OK() {
			failed.Add(1)
			p.logger.Warn(ctx, "warm-up job failed",
				logger.String("player", j.Athlete),
				logger.String("priority", j.Priority),
				logger.Error(out.Err))
			continue
		}
		computed.Add(1)
	}
}
