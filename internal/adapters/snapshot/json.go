package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/okian/scout/internal/domain/model"
)

// JSONLoader reads a snapshot stored in the "split" layout:
//
//	{"columns": ["Player", ...], "data": [["Pedri", ...], ...]}
//
// Column order is preserved, which a plain array of objects cannot do.
type JSONLoader struct {
	path  string
	radar model.FeatureSet
}

// NewJSONLoader creates a loader for path.
func NewJSONLoader(path string, radar model.FeatureSet) *JSONLoader {
	return &JSONLoader{path: path, radar: radar}
}

// Load implements Loader.
func (l *JSONLoader) Load(_ context.Context) (*model.Dataset, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, &DataLoadError{Source: l.path, Err: err}
	}
	defer func() { _ = f.Close() }()

	ds, err := ReadJSON(f, l.radar)
	if err != nil {
		return nil, &DataLoadError{Source: l.path, Err: err}
	}
	return ds, nil
}

type splitSnapshot struct {
	Columns []string        `json:"columns"`
	Data    [][]interface{} `json:"data"`
}

// ReadJSON parses a split-layout JSON snapshot from r.
func ReadJSON(r io.Reader, radar model.FeatureSet) (*model.Dataset, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var snap splitSnapshot
	if err := dec.Decode(&snap); err != nil {
		if err == io.EOF {
			return nil, ErrEmptySnapshot
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(snap.Columns) == 0 {
		return nil, ErrEmptySnapshot
	}

	t := &table{columns: snap.Columns, numeric: make(map[string]bool, len(snap.Columns))}
	for i, c := range snap.Columns {
		t.numeric[c] = true
		for _, row := range snap.Data {
			if i >= len(row) || row[i] == nil {
				continue
			}
			if _, ok := row[i].(json.Number); !ok {
				t.numeric[c] = false
				break
			}
		}
	}
	for r, row := range snap.Data {
		cells := make([]cell, len(row))
		for i, v := range row {
			switch x := v.(type) {
			case nil:
				cells[i] = cell{null: true}
			case json.Number:
				cells[i] = cell{raw: x.String()}
			case string:
				cells[i] = newCell(x)
			case bool:
				cells[i] = cell{raw: fmt.Sprint(x)}
			default:
				return nil, fmt.Errorf("%w: row %d column %d has nested value", ErrMalformedRow, r+1, i)
			}
		}
		t.rows = append(t.rows, cells)
	}
	return t.build(radar)
}
