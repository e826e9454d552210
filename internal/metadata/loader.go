package metadata

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed endpoints.yaml
var defaultEndpoints []byte

type catalogFile struct {
	Endpoints []*Endpoint `yaml:"endpoints"`
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultEndpoints)
}

// LoadFile parses the catalog at path.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read endpoint catalog: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates a YAML endpoint catalog and compiles its
// check expressions.
func Parse(raw []byte) (*Catalog, error) {
	var doc catalogFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode endpoint catalog: %w", err)
	}
	if len(doc.Endpoints) == 0 {
		return nil, errors.New("endpoint catalog declares no endpoints")
	}

	seen := make(map[string]bool, len(doc.Endpoints))
	for _, e := range doc.Endpoints {
		if e.Key == "" {
			return nil, errors.New("endpoint without key")
		}
		if seen[e.Key] {
			return nil, fmt.Errorf("duplicate endpoint %q", e.Key)
		}
		seen[e.Key] = true
		if err := validateEndpoint(e); err != nil {
			return nil, fmt.Errorf("endpoint %q: %w", e.Key, err)
		}
	}
	return newCatalog(doc.Endpoints), nil
}

func validateEndpoint(e *Endpoint) error {
	fields := make(map[string]bool, len(e.Queries))
	roles := make(map[Role]bool, len(e.Queries))

	for i := range e.Queries {
		f := &e.Queries[i]
		if f.Field == "" {
			return errors.New("query field without name")
		}
		if fields[f.Field] {
			return fmt.Errorf("duplicate query field %q", f.Field)
		}
		fields[f.Field] = true

		if !f.Role.valid() {
			return fmt.Errorf("field %q: unknown role %q", f.Field, f.Role)
		}
		if f.Role != RoleFilter && roles[f.Role] {
			return fmt.Errorf("field %q: role %q declared twice", f.Field, f.Role)
		}
		roles[f.Role] = true

		if err := validateField(f); err != nil {
			return fmt.Errorf("field %q: %w", f.Field, err)
		}
		if err := f.compile(); err != nil {
			return err
		}
	}
	if roles[RolePage] && !roles[RoleLimit] {
		return errors.New("page field declared without a limit field")
	}
	return nil
}

func validateField(f *QueryField) error {
	switch f.Role {
	case RoleSort:
		if f.ColumnsOf == "" && len(f.Greenlist) == 0 {
			return errors.New("sort field needs columns_of or greenlist")
		}
	case RoleOrder:
		for _, v := range f.Greenlist {
			if v != "asc" && v != "desc" {
				return fmt.Errorf("order value %q is not asc or desc", v)
			}
		}
		if len(f.Greenlist) == 0 {
			return errors.New("order field needs a greenlist")
		}
	case RoleLimit, RolePage:
		if !f.Numeric {
			return errors.New("limit and page fields must be numeric")
		}
	}

	if f.Check != "" && !f.Numeric {
		return errors.New("check expressions apply to numeric fields only")
	}
	if f.Numeric && f.Default != "" {
		if _, err := strconv.Atoi(f.Default); err != nil {
			return fmt.Errorf("default %q is not an integer", f.Default)
		}
	}
	if len(f.Greenlist) > 0 && f.Default != "" && !slices.Contains(f.Greenlist, f.Default) {
		return fmt.Errorf("default %q is outside the greenlist", f.Default)
	}
	return nil
}
