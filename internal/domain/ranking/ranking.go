// Package ranking selects replacement candidates for a reference athlete by
// feature-space distance within its role, bucketed by market value.
package ranking

import (
	"math"
	"sort"

	"github.com/okian/scout/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Default ranking configuration constants.
const (
	defaultPriorityWeight   = 2.0
	defaultSimilarTolerance = 0.25
)

// PriorityMode controls how the priority-stat delta adjusts a distance.
type PriorityMode string

// Priority modes.
const (
	// PrioritySubtract subtracts weight*|delta| from the distance. Adjusted
	// distances may go negative; only relative order matters.
	PrioritySubtract PriorityMode = "subtract"
	// PriorityAdd adds weight*|delta|, so closer matches on the priority
	// stat rank no worse than farther ones.
	PriorityAdd PriorityMode = "add"
)

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithPriorityMode selects how the priority delta is applied.
func WithPriorityMode(mode PriorityMode) Option {
	return func(r *Ranker) {
		switch mode {
		case PrioritySubtract, PriorityAdd:
			r.priorityMode = mode
		}
	}
}

// WithPriorityWeight sets the multiplier applied to the priority-stat delta.
func WithPriorityWeight(weight float64) Option {
	return func(r *Ranker) {
		if weight >= 0 && !math.IsNaN(weight) && !math.IsInf(weight, 0) {
			r.priorityWeight = weight
		}
	}
}

// WithSimilarTolerance sets the relative tolerance of the similar bucket.
func WithSimilarTolerance(tol float64) Option {
	return func(r *Ranker) {
		if tol >= 0 && !math.IsNaN(tol) && !math.IsInf(tol, 0) {
			r.similarTolerance = decimal.NewFromFloat(tol)
		}
	}
}

// Ranker ranks role cohorts against a reference athlete. It holds no state
// between calls and is safe for concurrent use.
type Ranker struct {
	priorityMode     PriorityMode
	priorityWeight   float64
	similarTolerance decimal.Decimal
}

// NewRanker creates a ranker with configuration options.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{
		priorityMode:     PrioritySubtract,
		priorityWeight:   defaultPriorityWeight,
		similarTolerance: decimal.NewFromFloat(defaultSimilarTolerance),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Distance returns the Euclidean distance between two equal-length vectors.
func Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// CheckReference returns an *InvalidReferenceError when ref cannot anchor a
// ranking: its market value is unknown or a feature is missing.
func CheckReference(ds *model.Dataset, ref model.AthleteRecord) error {
	if !ref.HasMarketValue() {
		return &InvalidReferenceError{Name: ref.Name, Reason: ReasonNoMarketValue}
	}
	if !ref.Complete(ds.Features()) {
		return &InvalidReferenceError{Name: ref.Name, Reason: ReasonIncompleteFeatures}
	}
	return nil
}

// Cohort returns the athletes eligible to replace ref: same role, not ref,
// known market value and a complete feature vector. Snapshot order is kept.
func (r *Ranker) Cohort(ds *model.Dataset, ref model.AthleteRecord) []model.AthleteRecord {
	features := ds.Features()
	var out []model.AthleteRecord
	for _, a := range ds.Athletes() {
		if a.Role != ref.Role || a.Name == ref.Name {
			continue
		}
		if !a.HasMarketValue() || !a.Complete(features) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Rank orders the cohort by adjusted distance to ref, ascending. Ties keep
// snapshot order. Adjusted distances may be negative when priorityStat is set.
func (r *Ranker) Rank(ds *model.Dataset, ref model.AthleteRecord, priorityStat string) ([]model.Candidate, error) {
	if err := CheckReference(ds, ref); err != nil {
		return nil, err
	}
	if priorityStat != "" && !ds.Features().Contains(priorityStat) {
		return nil, &UnknownStatError{Stat: priorityStat}
	}

	features := ds.Features()
	v0, _ := ref.Vector(features)
	refPriority, _ := ref.Stat(priorityStat)

	cohort := r.Cohort(ds, ref)
	ranked := make([]model.Candidate, 0, len(cohort))
	for _, a := range cohort {
		v, _ := a.Vector(features)
		d := Distance(v, v0)
		if priorityStat != "" {
			p, _ := a.Stat(priorityStat)
			d = r.adjust(d, math.Abs(p-refPriority))
		}
		ranked = append(ranked, model.Candidate{Athlete: a, Distance: d})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})
	return ranked, nil
}

func (r *Ranker) adjust(d, delta float64) float64 {
	if r.priorityMode == PriorityAdd {
		return d + r.priorityWeight*delta
	}
	return d - r.priorityWeight*delta
}

// InBucket reports whether value falls into bucket relative to the reference
// value. The similar bucket uses an inclusive relative tolerance, so a zero
// reference only matches an exact zero.
func (r *Ranker) InBucket(b model.Bucket, value, reference decimal.Decimal) bool {
	switch b {
	case model.BucketCheaper:
		return value.LessThan(reference)
	case model.BucketSimilar:
		return value.Sub(reference).Abs().LessThanOrEqual(reference.Abs().Mul(r.similarTolerance))
	case model.BucketPricier:
		return value.GreaterThan(reference)
	default:
		return false
	}
}

// Select picks the closest candidate of each bucket from a ranked list. The
// same athlete may be chosen for more than one bucket.
func (r *Ranker) Select(ranked []model.Candidate, reference decimal.Decimal) []model.Candidate {
	out := make([]model.Candidate, 0, len(model.Buckets))
	for _, b := range model.Buckets {
		for _, c := range ranked {
			if r.InBucket(b, c.Athlete.MarketValue.Decimal, reference) {
				c.Bucket = b
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Recommend ranks ref's cohort and selects one candidate per bucket.
// An invalid reference yields an empty result together with the
// *InvalidReferenceError so callers can degrade instead of failing.
func (r *Ranker) Recommend(ds *model.Dataset, ref model.AthleteRecord, priorityStat string) (model.RecommendationResult, error) {
	res := model.RecommendationResult{
		Reference:    ref,
		Candidates:   []model.Candidate{},
		Metric:       model.MetricEuclidean,
		PriorityStat: priorityStat,
	}
	ranked, err := r.Rank(ds, ref, priorityStat)
	if err != nil {
		return res, err
	}
	res.CohortSize = len(ranked)
	res.Candidates = r.Select(ranked, ref.MarketValue.Decimal)
	return res, nil
}
