// Package snapshot loads the athlete statistics snapshot produced upstream
// (feature engineering plus role classification) into a read-only dataset.
package snapshot

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Snapshot column names.
const (
	ColumnPlayer      = "Player"
	ColumnRole        = "PredictedRole"
	ColumnMarketValue = "MarketValueEUR"
)

// Loader reads a snapshot into a dataset.
type Loader interface {
	Load(ctx context.Context) (*model.Dataset, error)
}

// Source locates a snapshot.
type Source struct {
	Format string // csv, json or postgres
	Path   string
	DSN    string
	Table  string
}

// New returns the loader for src.
func New(src Source, radar model.FeatureSet) (Loader, error) {
	switch src.Format {
	case "csv":
		return NewCSVLoader(src.Path, radar), nil
	case "json":
		return NewJSONLoader(src.Path, radar), nil
	case "postgres":
		return NewPostgresLoader(src.DSN, src.Table, radar), nil
	default:
		return nil, &DataLoadError{Source: src.Format, Err: fmt.Errorf("%w: %q", ErrUnknownFormat, src.Format)}
	}
}

// Load runs l and records load metrics. Every failure is a *DataLoadError.
func Load(ctx context.Context, l Loader, format string) (*model.Dataset, error) {
	start := time.Now()
	ds, err := l.Load(ctx)
	metrics.RecordSnapshotLoad(format, err == nil, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		return nil, err
	}
	metrics.UpdateDatasetSize(ds.Len(), len(ds.Features()))
	return ds, nil
}

// cell is one raw snapshot value.
type cell struct {
	raw  string
	null bool
}

// table is the format-independent shape every loader produces.
type table struct {
	columns []string
	// numeric overrides value sniffing when a source knows its column types.
	numeric map[string]bool
	rows    [][]cell
}

var nullTokens = map[string]struct{}{
	"": {}, "nan": {}, "na": {}, "n/a": {}, "null": {}, "none": {}, "<na>": {},
}

func isNull(raw string) bool {
	_, ok := nullTokens[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

func newCell(raw string) cell {
	if isNull(raw) {
		return cell{null: true}
	}
	return cell{raw: strings.TrimSpace(raw)}
}

// build converts a table into a dataset. Rows without a player name are dropped.
func (t *table) build(radar model.FeatureSet) (*model.Dataset, error) {
	idx := make(map[string]int, len(t.columns))
	for i, c := range t.columns {
		if _, dup := idx[c]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		idx[c] = i
	}
	for _, required := range []string{ColumnPlayer, ColumnRole, ColumnMarketValue} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, required)
		}
	}

	columns := make([]model.Column, len(t.columns))
	for i, name := range t.columns {
		numeric := name != ColumnPlayer && name != ColumnRole && t.isNumeric(i)
		columns[i] = model.Column{Name: name, Numeric: numeric}
	}

	athletes := make([]model.AthleteRecord, 0, len(t.rows))
	for r, row := range t.rows {
		if len(row) != len(t.columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedRow, r+1, len(row), len(t.columns))
		}
		name := row[idx[ColumnPlayer]]
		if name.null {
			continue
		}
		a := model.AthleteRecord{
			Name:  name.raw,
			Role:  row[idx[ColumnRole]].raw,
			Stats: make(map[string]float64, len(columns)),
		}
		if mv := row[idx[ColumnMarketValue]]; !mv.null {
			v, err := decimal.NewFromString(mv.raw)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d market value %q: %w", ErrMalformedRow, r+1, mv.raw, err)
			}
			a.MarketValue = decimal.NewNullDecimal(v)
		}
		for i, c := range columns {
			if !c.Numeric || c.Name == ColumnMarketValue {
				continue
			}
			v, ok := parseFloat(row[i])
			if !ok {
				continue
			}
			a.Stats[c.Name] = v
		}
		athletes = append(athletes, a)
	}
	return model.NewDataset(athletes, columns, radar)
}

// isNumeric reports whether every non-null cell in column i is a number.
func (t *table) isNumeric(i int) bool {
	if hint, ok := t.numeric[t.columns[i]]; ok {
		return hint
	}
	for _, row := range t.rows {
		if i >= len(row) || row[i].null {
			continue
		}
		if _, err := strconv.ParseFloat(row[i].raw, 64); err != nil {
			return false
		}
	}
	return true
}

// parseFloat parses a statistic cell. Non-finite values are missing.
func parseFloat(c cell) (float64, bool) {
	if c.null {
		return 0, false
	}
	v, err := strconv.ParseFloat(c.raw, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
