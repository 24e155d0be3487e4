package model

import (
	"fmt"
	"strings"
)

// Column describes one snapshot column as seen by a loader.
type Column struct {
	Name    string
	Numeric bool
}

// FeatureSet is the ordered list of statistic names used for distances.
type FeatureSet []string

// DefaultRadarFeatures is the fixed statistic subset drawn on the radar chart.
var DefaultRadarFeatures = FeatureSet{
	"npxG/90",
	"xA/90",
	"KeyPass/90",
	"Touches/90",
	"PassCmp%",
	"DribPast/90",
	"TklW/90",
}

// RadarAxisLabels are the display names of DefaultRadarFeatures, in order.
var RadarAxisLabels = []string{
	"npxG",
	"xA",
	"Key Passes",
	"Touches",
	"Pass%",
	"Dribbled Past",
	"Tackles Won",
}

// IsFeatureColumn reports whether a column name follows the statistic naming
// convention: a per-90 rate or a percentage.
func IsFeatureColumn(name string) bool {
	return strings.Contains(name, "/90") || strings.Contains(name, "%")
}

// DeriveFeatureSet selects the numeric statistic columns in snapshot order.
func DeriveFeatureSet(columns []Column) FeatureSet {
	fs := make(FeatureSet, 0, len(columns))
	for _, c := range columns {
		if c.Numeric && IsFeatureColumn(c.Name) {
			fs = append(fs, c.Name)
		}
	}
	return fs
}

// Contains reports whether name is part of the set.
func (fs FeatureSet) Contains(name string) bool {
	for _, f := range fs {
		if f == name {
			return true
		}
	}
	return false
}

// Validate checks the set is non-empty and has no duplicates.
func (fs FeatureSet) Validate() error {
	if len(fs) == 0 {
		return fmt.Errorf("%w: no numeric /90 or %% columns", ErrEmptyFeatureSet)
	}
	seen := make(map[string]struct{}, len(fs))
	for _, f := range fs {
		if _, dup := seen[f]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateFeature, f)
		}
		seen[f] = struct{}{}
	}
	return nil
}

// AxisLabels returns the radar display name of each statistic. Statistics
// outside DefaultRadarFeatures keep their column name.
func (fs FeatureSet) AxisLabels() []string {
	labels := make([]string, len(fs))
	for i, f := range fs {
		labels[i] = f
		for j, d := range DefaultRadarFeatures {
			if d == f {
				labels[i] = RadarAxisLabels[j]
				break
			}
		}
	}
	return labels
}
