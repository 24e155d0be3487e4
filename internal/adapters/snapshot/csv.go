package snapshot

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/scout/internal/domain/model"
)

// CSVLoader reads a snapshot from a CSV file with a header row.
type CSVLoader struct {
	path  string
	radar model.FeatureSet
}

// NewCSVLoader creates a loader for path.
func NewCSVLoader(path string, radar model.FeatureSet) *CSVLoader {
	return &CSVLoader{path: path, radar: radar}
}

// Load implements Loader.
func (l *CSVLoader) Load(_ context.Context) (*model.Dataset, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, &DataLoadError{Source: l.path, Err: err}
	}
	defer func() { _ = f.Close() }()

	ds, err := ReadCSV(f, l.radar)
	if err != nil {
		return nil, &DataLoadError{Source: l.path, Err: err}
	}
	return ds, nil
}

// ReadCSV parses a CSV snapshot from r.
func ReadCSV(r io.Reader, radar model.FeatureSet) (*model.Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptySnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &table{columns: header}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
		}
		row := make([]cell, len(rec))
		for i, raw := range rec {
			row[i] = newCell(raw)
		}
		t.rows = append(t.rows, row)
	}
	return t.build(radar)
}
