package query

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"nc-news/internal/apperr"
)

// Statement is SQL text plus its bound arguments.
type Statement struct {
	SQL  string
	Args []any
}

type paramBuilder struct {
	params []any
	n      int
}

func (p *paramBuilder) Add(v any) string {
	p.n++
	p.params = append(p.params, v)
	return fmt.Sprintf("$%d", p.n)
}

func ident(parts ...string) string {
	return pgx.Identifier(parts).Sanitize()
}

// Aggregate counts child rows per parent through an outer join.
type Aggregate struct {
	Table      string // child table, e.g. comments
	ForeignKey string // child column referencing the parent key
	Counted    string // child column counted, usually its primary key
	Alias      string // output column, e.g. comment_count
}

// Scope restricts a listing to the children of one parent row.
type Scope struct {
	Column string
	Value  any
}

// ListSpec describes a paginated listing of one table.
type ListSpec struct {
	Table   string
	Key     string   // primary key, grouped on when Count is set
	Columns []string // selected columns; empty selects all
	Count   *Aggregate
	Scope   *Scope

	// Used when the endpoint declares no sort field.
	DefaultSort  string
	DefaultOrder Direction
}

func (s ListSpec) where(p *Params, pb *paramBuilder) []string {
	var clauses []string
	if s.Scope != nil {
		clauses = append(clauses, fmt.Sprintf("%s = %s", ident(s.Table, s.Scope.Column), pb.Add(s.Scope.Value)))
	}
	for _, f := range p.Filters {
		clauses = append(clauses, fmt.Sprintf("%s LIKE %s", ident(s.Table, f.Column), pb.Add(f.Pattern)))
	}
	return clauses
}

func (s ListSpec) selectList() string {
	var cols []string
	if len(s.Columns) == 0 {
		cols = append(cols, ident(s.Table)+".*")
	}
	for _, c := range s.Columns {
		cols = append(cols, ident(s.Table, c))
	}
	if s.Count != nil {
		cols = append(cols, fmt.Sprintf("COUNT(%s)::INT AS %s",
			ident(s.Count.Table, s.Count.Counted), ident(s.Count.Alias)))
	}
	return strings.Join(cols, ", ")
}

func (s ListSpec) from() string {
	from := ident(s.Table)
	if s.Count != nil {
		from += fmt.Sprintf(" LEFT JOIN %s ON %s = %s",
			ident(s.Count.Table), ident(s.Count.Table, s.Count.ForeignKey), ident(s.Table, s.Key))
	}
	return from
}

func (s ListSpec) orderBy(p *Params) string {
	sort, dir := s.DefaultSort, s.DefaultOrder
	derived := false
	if !p.Sort.IsZero() {
		sort, dir, derived = p.Sort.Name(), p.Order, p.Sort.Derived()
	}
	if sort == "" {
		return ""
	}
	// Aggregates are ordered by their output alias, not a table column.
	col := ident(s.Table, sort)
	if derived {
		col = ident(sort)
	}
	return fmt.Sprintf(" ORDER BY %s %s", col, dir.SQL())
}

// List builds the page query: filters and scope bound as parameters, the
// validated sort interpolated as a quoted identifier, LIMIT and OFFSET from
// validated integers.
func List(spec ListSpec, p *Params) Statement {
	pb := &paramBuilder{}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", spec.selectList(), spec.from())
	if where := spec.where(p, pb); len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	if spec.Count != nil {
		fmt.Fprintf(&b, " GROUP BY %s", ident(spec.Table, spec.Key))
	}
	b.WriteString(spec.orderBy(p))
	if p.Paginated() {
		fmt.Fprintf(&b, " LIMIT %d OFFSET %d", p.Limit, p.Offset())
	}
	return Statement{SQL: b.String(), Args: pb.params}
}

// Count builds the total-matches query for the same filters as List. It
// never joins, so child rows cannot inflate the total.
func Count(spec ListSpec, p *Params) Statement {
	pb := &paramBuilder{}
	sql := fmt.Sprintf("SELECT COUNT(*)::INT AS total_count FROM %s", ident(spec.Table))
	if where := spec.where(p, pb); len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	return Statement{SQL: sql, Args: pb.params}
}

// Detail selects one row by key, with the aggregate when the listing declares one.
func Detail(spec ListSpec, id any) Statement {
	pb := &paramBuilder{}
	sql := fmt.Sprintf("SELECT %s.*", ident(spec.Table))
	if spec.Count != nil {
		sql += fmt.Sprintf(", COUNT(%s)::INT AS %s",
			ident(spec.Count.Table, spec.Count.Counted), ident(spec.Count.Alias))
	}
	sql += fmt.Sprintf(" FROM %s WHERE %s = %s", spec.from(), ident(spec.Table, spec.Key), pb.Add(id))
	if spec.Count != nil {
		sql += fmt.Sprintf(" GROUP BY %s", ident(spec.Table, spec.Key))
	}
	return Statement{SQL: sql, Args: pb.params}
}

// Lookup selects the rows of table whose column equals value.
func Lookup(table, column string, value any) Statement {
	pb := &paramBuilder{}
	sql := fmt.Sprintf("SELECT * FROM %s WHERE %s = %s", ident(table), ident(column), pb.Add(value))
	return Statement{SQL: sql, Args: pb.params}
}

// BodyField maps a request body property onto a text column.
type BodyField struct {
	Property string
	Column   string
}

// InsertSpec lists the writable properties of a table.
type InsertSpec struct {
	Table  string
	Fields []BodyField
}

// Assignment is a column value supplied by the route rather than the body.
type Assignment struct {
	Column string
	Value  any
}

// Insert builds an INSERT ... RETURNING * from the declared properties present
// in body. Undeclared properties are ignored. Omitted ones are left to the
// store so that NOT NULL columns surface as constraint violations.
func Insert(spec InsertSpec, body map[string]any, fixed ...Assignment) (Statement, error) {
	pb := &paramBuilder{}
	var cols, vals []string

	for _, a := range fixed {
		cols = append(cols, ident(a.Column))
		vals = append(vals, pb.Add(a.Value))
	}
	for _, f := range spec.Fields {
		raw, ok := body[f.Property]
		if !ok {
			continue
		}
		s, isText := raw.(string)
		if !isText {
			return Statement{}, apperr.NewInvalidBodyValue(f.Property, "string")
		}
		cols = append(cols, ident(f.Column))
		vals = append(vals, pb.Add(s))
	}

	if len(cols) == 0 {
		return Statement{SQL: fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING *", ident(spec.Table))}, nil
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		ident(spec.Table), strings.Join(cols, ", "), strings.Join(vals, ", "))
	return Statement{SQL: sql, Args: pb.params}, nil
}

// IncrementVotes adds delta to the row's votes in the store. A nil delta is
// bound as NULL and rejected by the NOT NULL constraint.
func IncrementVotes(table, key string, id any, delta *int) Statement {
	pb := &paramBuilder{}
	var d any
	if delta != nil {
		d = *delta
	}
	sql := fmt.Sprintf("UPDATE %s SET votes = votes + %s WHERE %s = %s RETURNING *",
		ident(table), pb.Add(d), ident(key), pb.Add(id))
	return Statement{SQL: sql, Args: pb.params}
}

// Delete removes the row of table keyed by id.
func Delete(table, key string, id any) Statement {
	pb := &paramBuilder{}
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", ident(table), ident(key), pb.Add(id))
	return Statement{SQL: sql, Args: pb.params}
}
