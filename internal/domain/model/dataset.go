package model

import (
	"fmt"
	"sort"
	"strings"
)

// RadarSize is the number of axes on the radar chart.
const RadarSize = 7

// Dataset is the read-only athlete collection for a session. It is built once
// at load time and shared without locking.
type Dataset struct {
	athletes []AthleteRecord
	byName   map[string]int
	features FeatureSet
	radar    FeatureSet
}

// NewDataset validates the feature configuration and indexes athletes by name.
// When a name occurs more than once the first row wins for lookups.
func NewDataset(athletes []AthleteRecord, columns []Column, radar FeatureSet) (*Dataset, error) {
	features := DeriveFeatureSet(columns)
	if err := features.Validate(); err != nil {
		return nil, err
	}
	if len(radar) != RadarSize {
		return nil, fmt.Errorf("%w: got %d", ErrRadarFeatureCount, len(radar))
	}
	if err := radar.Validate(); err != nil {
		return nil, err
	}
	numeric := make(map[string]bool, len(columns))
	for _, c := range columns {
		numeric[c.Name] = c.Numeric
	}
	for _, r := range radar {
		if !numeric[r] {
			return nil, fmt.Errorf("%w: %q", ErrRadarNotNumeric, r)
		}
	}

	ds := &Dataset{
		athletes: make([]AthleteRecord, len(athletes)),
		byName:   make(map[string]int, len(athletes)),
		features: append(FeatureSet(nil), features...),
		radar:    append(FeatureSet(nil), radar...),
	}
	for i, a := range athletes {
		a.Name = strings.TrimSpace(a.Name)
		if a.Name == "" {
			return nil, fmt.Errorf("%w: row %d", ErrMissingName, i)
		}
		a.Index = i
		ds.athletes[i] = a
		if _, dup := ds.byName[a.Name]; !dup {
			ds.byName[a.Name] = i
		}
	}
	return ds, nil
}

// Athletes returns all records in snapshot order. Callers must not mutate them.
func (d *Dataset) Athletes() []AthleteRecord { return d.athletes }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.athletes) }

// Features returns the distance feature set.
func (d *Dataset) Features() FeatureSet { return d.features }

// Radar returns the radar feature set.
func (d *Dataset) Radar() FeatureSet { return d.radar }

// Lookup finds an athlete by name.
func (d *Dataset) Lookup(name string) (AthleteRecord, bool) {
	i, ok := d.byName[strings.TrimSpace(name)]
	if !ok {
		return AthleteRecord{}, false
	}
	return d.athletes[i], true
}

// Names returns the distinct athlete names in snapshot order.
func (d *Dataset) Names() []string {
	names := make([]string, 0, len(d.byName))
	for i, a := range d.athletes {
		if d.byName[a.Name] == i {
			names = append(names, a.Name)
		}
	}
	return names
}

// Roles returns the distinct roles, sorted.
func (d *Dataset) Roles() []string {
	set := make(map[string]struct{})
	for _, a := range d.athletes {
		set[a.Role] = struct{}{}
	}
	roles := make([]string, 0, len(set))
	for r := range set {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	return roles
}

// Role returns every record with the given role, in snapshot order.
func (d *Dataset) Role(role string) []AthleteRecord {
	var out []AthleteRecord
	for _, a := range d.athletes {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out
}
