package openapi

import "testing"

func TestComponentRegistry_Register(t *testing.T) {
	reg := NewComponentRegistry()

	ref := reg.Register("Repository", &Schema{Type: "object"})
	if ref.Ref != "#/components/schemas/Repository" {
		t.Errorf("ref = %q", ref.Ref)
	}
	if !reg.Has("Repository") {
		t.Error("component should be registered")
	}
}

func TestComponentRegistry_DeduplicatesWithinPass(t *testing.T) {
	reg := NewComponentRegistry()

	first := &Schema{Type: "object", Properties: map[string]*Schema{"name": {Type: "string"}}}
	reg.Register("Repository", first)
	// A second registration under the same name must not replace the first.
	reg.Register("Repository", &Schema{Type: "string"})

	built := reg.Build()
	if len(built.Schemas) != 1 {
		t.Fatalf("expected 1 schema, got %d", len(built.Schemas))
	}
	if built.Schemas["Repository"] != first {
		t.Error("second registration replaced the first definition")
	}
}

func TestComponentRegistry_EmptyBuild(t *testing.T) {
	built := NewComponentRegistry().Build()
	if built.Schemas != nil {
		t.Errorf("empty registry should build no schemas, got %v", built.Schemas)
	}
}
