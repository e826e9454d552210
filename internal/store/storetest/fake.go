// Package storetest provides an in-memory store.Querier for unit tests.
//
// Responses are matched by SQL substring in registration order:
//
//	q := storetest.New()
//	q.On("FROM articles", []string{"article_id"}, []any{int32(1)})
//	q.OnExec("DELETE FROM comments", "DELETE 1")
package storetest

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Call records one statement sent to the fake.
type Call struct {
	SQL  string
	Args []any
}

type response struct {
	match   string
	columns []string
	rows    [][]any
	tag     string
	err     error
}

// Querier answers Query, QueryRow and Exec from registered responses. It is
// safe for concurrent use.
type Querier struct {
	mu        sync.Mutex
	responses []response
	calls     []Call
}

func New() *Querier {
	return &Querier{}
}

// On registers rows for queries whose SQL contains match.
func (q *Querier) On(match string, columns []string, rows ...[]any) *Querier {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.responses = append(q.responses, response{match: match, columns: columns, rows: rows})
	return q
}

// OnExec registers a command tag such as "DELETE 1" for Exec calls.
func (q *Querier) OnExec(match, tag string) *Querier {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.responses = append(q.responses, response{match: match, tag: tag})
	return q
}

// Fail makes any statement containing match return err.
func (q *Querier) Fail(match string, err error) *Querier {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.responses = append(q.responses, response{match: match, err: err})
	return q
}

// Calls returns a copy of every statement received so far.
func (q *Querier) Calls() []Call {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Call, len(q.calls))
	copy(out, q.calls)
	return out
}

// Called reports whether any statement contained fragment.
func (q *Querier) Called(fragment string) bool {
	for _, c := range q.Calls() {
		if strings.Contains(c.SQL, fragment) {
			return true
		}
	}
	return false
}

func (q *Querier) lookup(sql string, args []any) (response, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls = append(q.calls, Call{SQL: sql, Args: args})
	for _, r := range q.responses {
		if strings.Contains(sql, r.match) {
			return r, nil
		}
	}
	return response{}, fmt.Errorf("storetest: unexpected statement: %s", sql)
}

func (q *Querier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	r, err := q.lookup(sql, args)
	if err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, r.err
	}
	return &Rows{columns: r.columns, data: r.rows}, nil
}

func (q *Querier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	rows, err := q.Query(ctx, sql, args...)
	return &row{rows: rows, err: err}
}

func (q *Querier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r, err := q.lookup(sql, args)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	if r.err != nil {
		return pgconn.CommandTag{}, r.err
	}
	return pgconn.NewCommandTag(r.tag), nil
}

// Rows is a pgx.Rows over fixed values.
type Rows struct {
	columns []string
	data    [][]any
	pos     int
}

func (r *Rows) Close()     {}
func (r *Rows) Err() error { return nil }

func (r *Rows) CommandTag() pgconn.CommandTag {
	return pgconn.NewCommandTag(fmt.Sprintf("SELECT %d", len(r.data)))
}

func (r *Rows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.columns))
	for i, c := range r.columns {
		fds[i] = pgconn.FieldDescription{Name: c}
	}
	return fds
}

func (r *Rows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	current := r.data[r.pos-1]
	if len(dest) != len(current) {
		return fmt.Errorf("storetest: scan %d values into %d targets", len(current), len(dest))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d)
		if target.Kind() != reflect.Pointer || target.IsNil() {
			return fmt.Errorf("storetest: scan target %d is not a pointer", i)
		}
		if current[i] == nil {
			target.Elem().Set(reflect.Zero(target.Elem().Type()))
			continue
		}
		v := reflect.ValueOf(current[i])
		if !v.Type().AssignableTo(target.Elem().Type()) {
			if !v.Type().ConvertibleTo(target.Elem().Type()) {
				return fmt.Errorf("storetest: cannot scan %T into %T", current[i], d)
			}
			v = v.Convert(target.Elem().Type())
		}
		target.Elem().Set(v)
	}
	return nil
}

func (r *Rows) Values() ([]any, error) {
	return r.data[r.pos-1], nil
}

func (r *Rows) RawValues() [][]byte { return nil }
func (r *Rows) Conn() *pgx.Conn     { return nil }

type row struct {
	rows pgx.Rows
	err  error
}

func (r *row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	defer r.rows.Close()
	if !r.rows.Next() {
		return pgx.ErrNoRows
	}
	return r.rows.Scan(dest...)
}
