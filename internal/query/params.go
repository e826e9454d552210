// Package query validates request query parameters against the endpoint
// catalog and builds the parameterized SQL that consumes them.
package query

// Direction is a validated sort direction.
type Direction int

const (
	Desc Direction = iota
	Asc
)

// SQL returns the keyword for the ORDER BY clause.
func (d Direction) SQL() string {
	if d == Asc {
		return "ASC"
	}
	return "DESC"
}

func (d Direction) String() string {
	if d == Asc {
		return "asc"
	}
	return "desc"
}

func parseDirection(s string) (Direction, bool) {
	switch s {
	case "asc":
		return Asc, true
	case "desc":
		return Desc, true
	}
	return Desc, false
}

// SortField is a sort target that passed the guard's allow-list. Its fields
// are unexported so a raw string cannot be turned into one outside this
// package.
type SortField struct {
	name    string
	derived bool
}

// Name is the column or aggregate alias.
func (s SortField) Name() string { return s.name }

// Derived reports whether the field is an aggregate rather than a stored column.
func (s SortField) Derived() bool { return s.derived }

// IsZero reports whether no sort was declared for the endpoint.
func (s SortField) IsZero() bool { return s.name == "" }

// Filter is a pattern match of a catalog-declared column against a bound value.
type Filter struct {
	Column  string
	Pattern string
}

// Params is the fully defaulted, type-checked result of guard validation.
type Params struct {
	Sort    SortField
	Order   Direction
	Filters []Filter
	Limit   int
	Page    int

	hasLimit bool
	values   map[string]string
}

// Paginated reports whether the endpoint declares a limit.
func (p *Params) Paginated() bool { return p.hasLimit }

// Offset is the row offset of the requested zero-based page.
func (p *Params) Offset() int { return p.Page * p.Limit }

// Value returns the effective (supplied or default) raw value of a field.
func (p *Params) Value(field string) (string, bool) {
	v, ok := p.values[field]
	return v, ok
}
