package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/okian/scout/internal/domain/model"
)

// numericTypes are the column types read as statistics.
var numericTypes = map[string]bool{
	"INT2": true, "INT4": true, "INT8": true,
	"FLOAT4": true, "FLOAT8": true, "NUMERIC": true,
}

// PostgresLoader reads a snapshot table. Column names are taken verbatim, so
// statistics such as "npxG/90" must be quoted identifiers in the table.
type PostgresLoader struct {
	dsn   string
	table string
	radar model.FeatureSet
}

// NewPostgresLoader creates a loader for table reachable at dsn.
func NewPostgresLoader(dsn, table string, radar model.FeatureSet) *PostgresLoader {
	return &PostgresLoader{dsn: dsn, table: table, radar: radar}
}

// Load implements Loader.
func (l *PostgresLoader) Load(ctx context.Context) (*model.Dataset, error) {
	ds, err := l.load(ctx)
	if err != nil {
		return nil, &DataLoadError{Source: "postgres:" + l.table, Err: err}
	}
	return ds, nil
}

func (l *PostgresLoader) load(ctx context.Context) (*model.Dataset, error) {
	db, err := sql.Open("postgres", l.dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+pq.QuoteIdentifier(l.table))
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return readRows(rows, l.radar)
}

func readRows(rows *sql.Rows, radar model.FeatureSet) (*model.Dataset, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("column types: %w", err)
	}

	t := &table{columns: columns, numeric: make(map[string]bool, len(columns))}
	for i, ct := range types {
		t.numeric[columns[i]] = numericTypes[strings.ToUpper(ct.DatabaseTypeName())]
	}

	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
		}
		row := make([]cell, len(columns))
		for i, v := range values {
			if !v.Valid {
				row[i] = cell{null: true}
				continue
			}
			row[i] = newCell(v.String)
		}
		t.rows = append(t.rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return t.build(radar)
}
