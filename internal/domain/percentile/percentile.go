// Package percentile normalizes athlete statistics into within-role
// percentile ranks for radar visualization.
package percentile

import (
	"math"
	"sort"

	"github.com/okian/scout/internal/domain/model"
)

const (
	minPercentile = 0
	maxPercentile = 100
)

// PercentileOfScore returns the weak percentile of x in values: the share of
// values less than or equal to x, as a rounded integer in [0, 100].
// An empty distribution yields 0.
func PercentileOfScore(values []float64, x float64) int {
	if len(values) == 0 {
		return minPercentile
	}
	var le int
	for _, v := range values {
		if v <= x {
			le++
		}
	}
	return clamp(float64(le*maxPercentile) / float64(len(values)))
}

func clamp(p float64) int {
	r := int(math.Round(p))
	if r < minPercentile {
		return minPercentile
	}
	if r > maxPercentile {
		return maxPercentile
	}
	return r
}

// Subject is an athlete to profile together with its display label.
type Subject struct {
	Athlete model.AthleteRecord
	Label   string
}

// Profile is one radar polygon: percentiles aligned to the radar feature set.
type Profile struct {
	Name        string
	Label       string
	Percentiles []int
}

// Closed returns the percentiles with the first value repeated at the end,
// closing the polygon.
func (p Profile) Closed() []int {
	if len(p.Percentiles) == 0 {
		return nil
	}
	out := make([]int, 0, len(p.Percentiles)+1)
	out = append(out, p.Percentiles...)
	return append(out, p.Percentiles[0])
}

// Distribution holds the sorted cohort values of each radar statistic.
type Distribution struct {
	sorted [][]float64
}

// Size returns the number of cohort members.
func (d *Distribution) Size() int {
	if len(d.sorted) == 0 {
		return 0
	}
	return len(d.sorted[0])
}

// Rank returns the weak percentile of x for the i-th statistic.
func (d *Distribution) Rank(i int, x float64) int {
	vals := d.sorted[i]
	if len(vals) == 0 {
		return minPercentile
	}
	le := sort.Search(len(vals), func(k int) bool { return vals[k] > x })
	return clamp(float64(le*maxPercentile) / float64(len(vals)))
}

// Profiler computes radar percentiles within a role cohort.
type Profiler struct{}

// NewProfiler creates a profiler.
func NewProfiler() *Profiler { return &Profiler{} }

// Cohort returns the role members with every radar statistic present,
// including the reference athlete itself.
func (p *Profiler) Cohort(ds *model.Dataset, role string) []model.AthleteRecord {
	radar := ds.Radar()
	var out []model.AthleteRecord
	for _, a := range ds.Role(role) {
		if a.Complete(radar) {
			out = append(out, a)
		}
	}
	return out
}

// Distribution builds the sorted per-statistic cohort values for role.
func (p *Profiler) Distribution(ds *model.Dataset, role string) *Distribution {
	radar := ds.Radar()
	cohort := p.Cohort(ds, role)
	d := &Distribution{sorted: make([][]float64, len(radar))}
	for i, stat := range radar {
		vals := make([]float64, 0, len(cohort))
		for _, a := range cohort {
			v, _ := a.Stat(stat)
			vals = append(vals, v)
		}
		sort.Float64s(vals)
		d.sorted[i] = vals
	}
	return d
}

// Profile computes one polygon per subject. Subjects missing any radar
// statistic are skipped.
func (p *Profiler) Profile(ds *model.Dataset, role string, subjects []Subject) []Profile {
	dist := p.Distribution(ds, role)
	radar := ds.Radar()
	out := make([]Profile, 0, len(subjects))
	for _, s := range subjects {
		vec, ok := s.Athlete.Vector(radar)
		if !ok {
			continue
		}
		pcts := make([]int, len(radar))
		for i, v := range vec {
			pcts[i] = dist.Rank(i, v)
		}
		out = append(out, Profile{Name: s.Athlete.Name, Label: s.Label, Percentiles: pcts})
	}
	return out
}
