package cache

const defaultMaxSize = 1024

type options struct {
	maxSize int
}

// Option applies a configuration option to the in-memory cache.
type Option func(*options)

// WithMaxSize sets the maximum number of entries to keep in memory.
// If maxSize > 0: bounded mode, oldest insertion evicted first.
// If maxSize <= 0: unbounded mode (no eviction, no size limit).
func WithMaxSize(maxSize int) Option {
	return func(o *options) {
		o.maxSize = maxSize
	}
}
