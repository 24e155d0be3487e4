package warmup

import "github.com/okian/scout/pkg/logger"

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithWorkers sets the number of concurrent workers.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithPriorities sets the priority statistics precomputed per athlete.
// The empty priority is always included.
func WithPriorities(priorities ...string) Option {
	return func(p *Pool) {
		p.priorities = append([]string{""}, priorities...)
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}
