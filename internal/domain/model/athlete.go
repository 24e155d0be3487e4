// Package model contains domain models passed between layers.
package model

import (
	"math"

	"github.com/shopspring/decimal"
)

// AthleteRecord is one row of the statistics snapshot.
type AthleteRecord struct {
	Name        string              // unique within a dataset
	Role        string              // predicted positional role
	MarketValue decimal.NullDecimal // EUR; Valid=false when unknown
	Stats       map[string]float64  // per-90 and percentage statistics
	Index       int                 // row position in the snapshot, used as the stable tie-breaker
}

// Stat returns the value of a statistic and whether it is present.
// NaN and infinite values count as missing.
func (a AthleteRecord) Stat(name string) (float64, bool) {
	v, ok := a.Stats[name]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// HasMarketValue reports whether the market value is known.
func (a AthleteRecord) HasMarketValue() bool {
	return a.MarketValue.Valid
}

// Complete reports whether every statistic in names is present.
func (a AthleteRecord) Complete(names []string) bool {
	for _, n := range names {
		if _, ok := a.Stat(n); !ok {
			return false
		}
	}
	return true
}

// Vector builds the feature vector for names. ok is false if any value is missing.
func (a AthleteRecord) Vector(names []string) (vec []float64, ok bool) {
	vec = make([]float64, len(names))
	for i, n := range names {
		v, present := a.Stat(n)
		if !present {
			return nil, false
		}
		vec[i] = v
	}
	return vec, true
}
