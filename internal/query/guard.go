package query

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"

	"nc-news/internal/apperr"
	"nc-news/internal/metadata"
)

// ColumnSource reports the live columns of a table. *store.Reflector
// implements it.
type ColumnSource interface {
	Columns(ctx context.Context, table string) ([]string, error)
}

// Guard validates raw query parameters against the endpoint catalog.
type Guard struct {
	catalog *metadata.Catalog
	columns ColumnSource
}

func NewGuard(catalog *metadata.Catalog, columns ColumnSource) *Guard {
	return &Guard{catalog: catalog, columns: columns}
}

// ValidateRequest reflects every table the endpoint's allow-lists refer to,
// once each, then validates raw against the endpoint declaration.
func (g *Guard) ValidateRequest(ctx context.Context, key string, raw map[string]string) (*Params, error) {
	endpoint, ok := g.catalog.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("no endpoint declared for %q", key)
	}
	// Unknown names are rejected before touching the store.
	if err := rejectUnknown(endpoint, raw); err != nil {
		return nil, err
	}

	tables := make(map[string][]string)
	for _, f := range endpoint.Queries {
		if f.ColumnsOf == "" {
			continue
		}
		if _, done := tables[f.ColumnsOf]; done {
			continue
		}
		cols, err := g.columns.Columns(ctx, f.ColumnsOf)
		if err != nil {
			return nil, fmt.Errorf("validate %s: %w", key, err)
		}
		tables[f.ColumnsOf] = cols
	}
	return validate(endpoint, raw, tables)
}

// Validate checks raw against the endpoint declared under key using an
// already-reflected column catalog (table name to columns).
func (g *Guard) Validate(key string, raw map[string]string, columns map[string][]string) (*Params, error) {
	endpoint, ok := g.catalog.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("no endpoint declared for %q", key)
	}
	return validate(endpoint, raw, columns)
}

func rejectUnknown(e *metadata.Endpoint, raw map[string]string) error {
	for name := range raw {
		if e.Field(name) == nil {
			return apperr.NewUnknownQueryField()
		}
	}
	return nil
}

func validate(e *metadata.Endpoint, raw map[string]string, columns map[string][]string) (*Params, error) {
	if err := rejectUnknown(e, raw); err != nil {
		return nil, err
	}

	p := &Params{Order: Desc, values: make(map[string]string, len(e.Queries))}
	pageField := ""
	for i := range e.Queries {
		f := &e.Queries[i]
		value, supplied := raw[f.Field]
		if !supplied {
			value = f.Default
		}

		if f.HasAllowList() && !allowed(f, value, columns) {
			return nil, apperr.NewInvalidQueryValue(f.Field)
		}

		n := 0
		if f.Numeric && (supplied || value != "") {
			var err error
			if n, err = strconv.Atoi(value); err != nil {
				return nil, apperr.NewNotANumber(f.Field)
			}
			ok, err := f.Passes(n)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, apperr.NewInvalidQueryValue(f.Field)
			}
		}

		p.values[f.Field] = value
		switch f.Role {
		case metadata.RoleSort:
			p.Sort = SortField{name: value, derived: f.IsDerived(value)}
		case metadata.RoleOrder:
			p.Order, _ = parseDirection(value)
		case metadata.RoleFilter:
			p.Filters = append(p.Filters, Filter{Column: f.FilterColumn(), Pattern: value})
		case metadata.RoleLimit:
			p.Limit = n
			p.hasLimit = true
		case metadata.RolePage:
			p.Page = n
			pageField = f.Field
		}
	}
	// OFFSET is page * limit and must stay representable.
	if p.Limit > 0 && p.Page > math.MaxInt/p.Limit {
		return nil, apperr.NewInvalidQueryValue(pageField)
	}
	return p, nil
}

func allowed(f *metadata.QueryField, value string, columns map[string][]string) bool {
	if slices.Contains(f.Greenlist, value) || f.IsDerived(value) {
		return true
	}
	if f.ColumnsOf == "" {
		return false
	}
	return slices.Contains(columns[f.ColumnsOf], value)
}
