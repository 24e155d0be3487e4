// Package service provides the core business service that implements
// the dependencies required by the HTTP API, the MCP tools and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/scout/internal/adapters/cache"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/percentile"
	"github.com/okian/scout/internal/domain/ranking"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// PriorityNone is the selector value for "no priority statistic".
const PriorityNone = "none"

// Recommender ranks and buckets replacement candidates.
type Recommender interface {
	Recommend(ds *model.Dataset, ref model.AthleteRecord, priorityStat string) (model.RecommendationResult, error)
}

// Profiler computes radar percentiles within a role.
type Profiler interface {
	Profile(ds *model.Dataset, role string, subjects []percentile.Subject) []percentile.Profile
}

// Status discriminates an Outcome.
type Status string

// Outcome statuses.
const (
	StatusOK             Status = "ok"
	StatusUnknownAthlete Status = "unknown_athlete"
	StatusUnknownStat    Status = "unknown_stat"
	StatusFailed         Status = "failed"
)

// Outcome is the result of one recommendation request. Exactly one of
// Result (StatusOK) or Err (any other status) is meaningful.
type Outcome struct {
	ID       string
	Status   Status
	Result   model.RecommendationResult
	Profiles []percentile.Profile
	Axes     []string
	// Warning is set when the reference cannot be profiled and the buckets
	// degraded to empty.
	Warning string
	Err     error
}

// OK reports whether the computation succeeded.
func (o Outcome) OK() bool { return o.Status == StatusOK }

// AthleteSummary is one entry of the athlete selector.
type AthleteSummary struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	MarketValue string `json:"marketValue,omitempty"`
	Selectable  bool   `json:"selectable"`
}

// Service answers recommendation requests against a loaded dataset.
type Service struct {
	dataset  *model.Dataset
	ranker   Recommender
	profiler Profiler
	logger   logger.Logger
	results  cache.Cache[computed]

	served atomic.Int64
	failed atomic.Int64
}

// computed is the cacheable part of a successful Outcome.
type computed struct {
	result   model.RecommendationResult
	profiles []percentile.Profile
	axes     []string
	warning  string
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRanker sets the candidate ranker.
func WithRanker(r Recommender) Option {
	return func(s *Service) {
		if r != nil {
			s.ranker = r
		}
	}
}

// WithProfiler sets the percentile profiler.
func WithProfiler(p Profiler) Option {
	return func(s *Service) {
		if p != nil {
			s.profiler = p
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithResultCache memoizes up to size successful results. The dataset is
// immutable, so a result never goes stale. size <= 0 disables the cache.
func WithResultCache(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.results = cache.NewInMemoryCache[computed](cache.WithMaxSize(size))
		} else {
			s.results = nil
		}
	}
}

// New constructs a Service over ds.
func New(ds *model.Dataset, opts ...Option) (*Service, error) {
	if ds == nil {
		return nil, ErrNoDataset
	}
	s := &Service{
		dataset:  ds,
		ranker:   ranking.NewRanker(),
		profiler: percentile.NewProfiler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	return s, nil
}

// Recommend computes replacement candidates and radar profiles for the named
// athlete. priority may be empty or PriorityNone. Any fault inside the
// computation is recovered here and reported as StatusFailed.
func (s *Service) Recommend(ctx context.Context, name, priority string) (out Outcome) {
	start := time.Now()
	out.ID = uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "recommendation panicked",
				logger.String("id", out.ID),
				logger.String("player", name),
				logger.Any("panic", r),
				logger.String("stack", string(debug.Stack())),
			)
			out = Outcome{ID: out.ID, Status: StatusFailed, Err: fmt.Errorf("%w: %v", ErrComputation, r)}
		}
		s.finish(ctx, out, time.Since(start))
	}()

	name = strings.TrimSpace(name)
	priority = strings.TrimSpace(priority)
	if priority == PriorityNone {
		priority = ""
	}

	key := name + "\x00" + priority
	if s.results != nil {
		c, hit := s.results.Get(ctx, key)
		metrics.RecordResultCacheLookup(hit)
		if hit {
			out.Status = StatusOK
			out.Result, out.Profiles, out.Axes, out.Warning = c.result, c.profiles, c.axes, c.warning
			return out
		}
	}

	ref, ok := s.dataset.Lookup(name)
	if !ok {
		out.Status = StatusUnknownAthlete
		out.Err = fmt.Errorf("%w: %q", ErrUnknownAthlete, name)
		return out
	}

	res, err := s.ranker.Recommend(s.dataset, ref, priority)
	switch {
	case err == nil:
	case errors.Is(err, ranking.ErrUnknownStat):
		out.Status = StatusUnknownStat
		out.Err = fmt.Errorf("%w: %q", ErrUnknownStat, priority)
		return out
	case errors.Is(err, ranking.ErrInvalidReference):
		out.Warning = err.Error()
	default:
		out.Status = StatusFailed
		out.Err = fmt.Errorf("%w: %w", ErrComputation, err)
		return out
	}

	subjects := make([]percentile.Subject, 0, len(res.Candidates)+1)
	subjects = append(subjects, percentile.Subject{Athlete: res.Reference, Label: "Base"})
	for _, c := range res.Candidates {
		subjects = append(subjects, percentile.Subject{Athlete: c.Athlete, Label: c.Bucket.Label()})
	}

	out.Status = StatusOK
	out.Result = res
	out.Profiles = s.profiler.Profile(s.dataset, ref.Role, subjects)
	out.Axes = s.dataset.Radar().AxisLabels()
	if s.results != nil {
		s.results.Put(ctx, key, computed{result: res, profiles: out.Profiles, axes: out.Axes, warning: out.Warning})
		metrics.UpdateResultCacheEntries(s.results.Size())
	}
	return out
}

func (s *Service) finish(ctx context.Context, out Outcome, elapsed time.Duration) {
	metrics.RecordRecommendation(string(out.Status))
	metrics.RecordRecommendationLatency(float64(elapsed.Microseconds()) / 1000)

	if out.Status == StatusFailed {
		s.failed.Add(1)
		s.logger.Error(ctx, "recommendation failed",
			logger.String("id", out.ID),
			logger.Error(out.Err),
		)
		return
	}
	if !out.OK() {
		s.logger.Debug(ctx, "recommendation rejected",
			logger.String("id", out.ID),
			logger.String("status", string(out.Status)),
			logger.Error(out.Err),
		)
		return
	}

	s.served.Add(1)
	found := make(map[model.Bucket]bool, len(out.Result.Candidates))
	for _, c := range out.Result.Candidates {
		found[c.Bucket] = true
	}
	if out.Warning == "" {
		for _, b := range model.Buckets {
			metrics.RecordBucketSelection(string(b), found[b])
		}
	}
	metrics.RecordCohortSize(out.Result.CohortSize)
	metrics.RecordProfiledAthletes(len(out.Profiles))

	fields := []logger.Field{
		logger.String("id", out.ID),
		logger.String("player", out.Result.Reference.Name),
		logger.String("role", out.Result.Reference.Role),
		logger.Int("cohort", out.Result.CohortSize),
		logger.Int("candidates", len(out.Result.Candidates)),
		logger.Duration("elapsed", elapsed),
	}
	if out.Warning != "" {
		s.logger.Warn(ctx, "reference cannot be profiled", append(fields, logger.String("reason", out.Warning))...)
		return
	}
	s.logger.Info(ctx, "recommendation computed", fields...)
}

// Athletes lists the athlete selector entries in snapshot order. With
// selectableOnly, athletes that cannot anchor a recommendation are left out.
func (s *Service) Athletes(_ context.Context, selectableOnly bool) []AthleteSummary {
	names := s.dataset.Names()
	out := make([]AthleteSummary, 0, len(names))
	for _, name := range names {
		a, _ := s.dataset.Lookup(name)
		selectable := ranking.CheckReference(s.dataset, a) == nil
		if selectableOnly && !selectable {
			continue
		}
		sum := AthleteSummary{Name: a.Name, Role: a.Role, Selectable: selectable}
		if a.HasMarketValue() {
			sum.MarketValue = a.MarketValue.Decimal.String()
		}
		out = append(out, sum)
	}
	return out
}

// Features returns the priority selector options: PriorityNone followed by
// the feature set.
func (s *Service) Features(_ context.Context) []string {
	features := s.dataset.Features()
	out := make([]string, 0, len(features)+1)
	out = append(out, PriorityNone)
	return append(out, features...)
}

// Dataset returns the loaded dataset.
func (s *Service) Dataset() *model.Dataset { return s.dataset }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	var cached int64
	if s.results != nil {
		cached = s.results.Size()
	}
	return map[string]interface{}{
		"athletes":        s.dataset.Len(),
		"features":        len(s.dataset.Features()),
		"roles":           s.dataset.Roles(),
		"radar":           s.dataset.Radar(),
		"recommendations": s.served.Load(),
		"failures":        s.failed.Load(),
		"cached":          cached,
	}
}
