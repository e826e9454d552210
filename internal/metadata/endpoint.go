package metadata

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Role says where a validated query value ends up in the built query.
type Role string

const (
	RoleSort   Role = "sort"   // ORDER BY column
	RoleOrder  Role = "order"  // ORDER BY direction
	RoleFilter Role = "filter" // pattern-matched WHERE predicate
	RoleLimit  Role = "limit"  // LIMIT
	RolePage   Role = "page"   // zero-based page index, OFFSET = page * limit
)

func (r Role) valid() bool {
	switch r {
	case RoleSort, RoleOrder, RoleFilter, RoleLimit, RolePage:
		return true
	}
	return false
}

// QueryField declares one accepted query parameter of an endpoint.
type QueryField struct {
	Field     string   `yaml:"field" json:"field"`
	Role      Role     `yaml:"role" json:"role"`
	Default   string   `yaml:"default,omitempty" json:"default,omitempty"`
	Greenlist []string `yaml:"greenlist,omitempty" json:"greenlist,omitempty"`
	ColumnsOf string   `yaml:"columns_of,omitempty" json:"columns_of,omitempty"`
	Derived   []string `yaml:"derived,omitempty" json:"derived,omitempty"`
	Column    string   `yaml:"column,omitempty" json:"column,omitempty"`
	Numeric   bool     `yaml:"numeric,omitempty" json:"numeric,omitempty"`
	Check     string   `yaml:"check,omitempty" json:"check,omitempty"`

	program *vm.Program
}

// HasAllowList reports whether the value is restricted to a closed set.
func (f *QueryField) HasAllowList() bool {
	return len(f.Greenlist) > 0 || f.ColumnsOf != ""
}

// FilterColumn is the column a filter value is matched against.
func (f *QueryField) FilterColumn() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Field
}

// IsDerived reports whether name is an aggregate accepted in place of a column.
func (f *QueryField) IsDerived(name string) bool {
	for _, d := range f.Derived {
		if d == name {
			return true
		}
	}
	return false
}

// Passes runs the field's check expression against an integer value. Fields
// without a check always pass.
func (f *QueryField) Passes(value int) (bool, error) {
	if f.program == nil {
		return true, nil
	}
	out, err := expr.Run(f.program, map[string]any{"value": value})
	if err != nil {
		return false, fmt.Errorf("check %s: %w", f.Field, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

func (f *QueryField) compile() error {
	if f.Check == "" {
		return nil
	}
	prog, err := expr.Compile(f.Check, expr.Env(map[string]any{"value": 0}), expr.AsBool())
	if err != nil {
		return fmt.Errorf("compile check for %s: %w", f.Field, err)
	}
	f.program = prog
	return nil
}

// Endpoint is the declared query surface of one route.
type Endpoint struct {
	Key             string       `yaml:"key" json:"-"`
	Description     string       `yaml:"description" json:"description"`
	Queries         []QueryField `yaml:"queries,omitempty" json:"-"`
	ExampleBody     any          `yaml:"example_body,omitempty" json:"exampleBody,omitempty"`
	ExampleResponse any          `yaml:"example_response,omitempty" json:"exampleResponse,omitempty"`
}

// Field returns the declared field with the given name, or nil.
func (e *Endpoint) Field(name string) *QueryField {
	for i := range e.Queries {
		if e.Queries[i].Field == name {
			return &e.Queries[i]
		}
	}
	return nil
}

// FieldNames returns declared field names in declaration order.
func (e *Endpoint) FieldNames() []string {
	names := make([]string, len(e.Queries))
	for i, q := range e.Queries {
		names[i] = q.Field
	}
	return names
}
