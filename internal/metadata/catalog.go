package metadata

// Catalog holds every endpoint's query declaration. It is built once at
// startup and never mutated, so it is safe to share between requests.
type Catalog struct {
	endpoints []*Endpoint
	byKey     map[string]*Endpoint
	document  map[string]DocEntry
}

// DocEntry is the public description of one endpoint served on GET /api.
type DocEntry struct {
	Description     string   `json:"description" yaml:"description"`
	Queries         []string `json:"queries" yaml:"queries"`
	ExampleBody     any      `json:"exampleBody,omitempty" yaml:"example_body,omitempty"`
	ExampleResponse any      `json:"exampleResponse,omitempty" yaml:"example_response,omitempty"`
}

func newCatalog(endpoints []*Endpoint) *Catalog {
	c := &Catalog{
		endpoints: endpoints,
		byKey:     make(map[string]*Endpoint, len(endpoints)),
		document:  make(map[string]DocEntry, len(endpoints)),
	}
	for _, e := range endpoints {
		c.byKey[e.Key] = e
		c.document[e.Key] = DocEntry{
			Description:     e.Description,
			Queries:         e.FieldNames(),
			ExampleBody:     e.ExampleBody,
			ExampleResponse: e.ExampleResponse,
		}
	}
	return c
}

// Lookup returns the endpoint declared under key, e.g. "GET /api/articles".
func (c *Catalog) Lookup(key string) (*Endpoint, bool) {
	e, ok := c.byKey[key]
	return e, ok
}

// Keys returns endpoint keys in declaration order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.endpoints))
	for i, e := range c.endpoints {
		keys[i] = e.Key
	}
	return keys
}

// Document returns a copy of the public endpoint description.
func (c *Catalog) Document() map[string]DocEntry {
	out := make(map[string]DocEntry, len(c.document))
	for k, v := range c.document {
		out[k] = v
	}
	return out
}
