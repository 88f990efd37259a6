package openapi

import "sort"

// ComponentRegistry deduplicates schema components within one assembly
// pass. A fresh registry is created per GenerateDocument call; it is never
// shared between requests.
type ComponentRegistry struct {
	schemas map[string]*Schema
	order   []string
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{schemas: make(map[string]*Schema)}
}

// Register stores a schema under name and returns a $ref to it. A component
// registered twice keeps its first definition.
func (r *ComponentRegistry) Register(name string, schema *Schema) *Schema {
	if _, ok := r.schemas[name]; !ok {
		r.schemas[name] = schema
		r.order = append(r.order, name)
	}
	return &Schema{Ref: "#/components/schemas/" + name}
}

// Has reports whether a component is already registered.
func (r *ComponentRegistry) Has(name string) bool {
	_, ok := r.schemas[name]
	return ok
}

// Build returns the accumulated components.
func (r *ComponentRegistry) Build() Components {
	if len(r.schemas) == 0 {
		return Components{}
	}
	out := make(map[string]*Schema, len(r.schemas))
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	for _, name := range names {
		out[name] = r.schemas[name]
	}
	return Components{Schemas: out}
}
