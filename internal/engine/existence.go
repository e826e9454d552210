package engine

import (
	"context"
	"errors"
	"fmt"

	"nc-news/internal/apperr"
	"nc-news/internal/query"
	"nc-news/internal/store"
)

// EnsureExists looks up the row of table keyed by its "<entity>_id" column and
// fails with "No <entity> matching requested id" when there is none. It runs
// before every read or write scoped to a parent id.
func EnsureExists(ctx context.Context, q store.Querier, table string, id any) (map[string]any, error) {
	return EnsureExistsBy(ctx, q, table, apperr.Singular(table)+"_id", id, "id")
}

// EnsureExistsBy is EnsureExists for an arbitrary unique column. key names the
// column in the not-found message.
func EnsureExistsBy(ctx context.Context, q store.Querier, table, column string, value any, key string) (map[string]any, error) {
	st := query.Lookup(table, column, value)
	row, err := store.QueryRow(ctx, q, st.SQL, st.Args...)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NewNotFound(apperr.Singular(table), key)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", apperr.Singular(table), err)
	}
	return row, nil
}
