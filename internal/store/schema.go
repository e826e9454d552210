package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownTable is returned when a table has no visible columns. It points at
// a catalog/schema mismatch, not at bad client input.
var ErrUnknownTable = errors.New("unknown table")

const columnsSQL = `SELECT column_name
FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1
ORDER BY ordinal_position`

// Reflector discovers the live column set of a table.
type Reflector struct {
	q Querier
}

func NewReflector(q Querier) *Reflector {
	return &Reflector{q: q}
}

// Columns returns the table's column names in ordinal order. Each call is one
// metadata read; callers cache per request.
func (r *Reflector) Columns(ctx context.Context, table string) ([]string, error) {
	rows, err := r.q.Query(ctx, columnsSQL, table)
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column of %s: %w", table, err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return cols, nil
}
