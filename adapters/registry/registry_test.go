package registry

import (
	"context"
	"testing"

	"github.com/artpar/docgate/config"
	"github.com/artpar/docgate/domain/route"
)

func TestFromConfig_ExpandsMethods(t *testing.T) {
	eps, err := FromConfig([]config.EndpointConfig{
		{
			Path:    "api/v3/repositories/",
			Methods: []string{"GET", "post"},
			Module:  "repositories",
			Name:    "repositories",
		},
	})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if len(eps) != 2 {
		t.Fatalf("len = %d, want one endpoint per method", len(eps))
	}
	if eps[0].Method != "get" || eps[1].Method != "post" {
		t.Errorf("methods = %q, %q, want lowercased get/post", eps[0].Method, eps[1].Method)
	}
}

func TestFromConfig_ResolvesParent(t *testing.T) {
	eps, err := FromConfig([]config.EndpointConfig{
		{
			// Child declared before parent; resolution must not
			// depend on order.
			Path:    "api/v3/repositories/{pulp_id}/versions/",
			Methods: []string{"get"},
			Module:  "repositories",
			Parent:  "repositories",
			Pieces:  []string{"versions"},
		},
		{
			Path:    "api/v3/repositories/",
			Methods: []string{"get"},
			Module:  "repositories",
			Name:    "repositories",
			Resource: &config.ResourceDecl{
				Model:    "Repository",
				App:      "core",
				Singular: "repository",
				Plural:   "repositories",
			},
		},
	})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}

	child := eps[0]
	if child.Parent == nil {
		t.Fatal("child parent not resolved")
	}
	if child.Parent.Name != "repositories" {
		t.Errorf("parent name = %q", child.Parent.Name)
	}
	if child.Parent.Resource == nil || child.Parent.Resource.Model != "Repository" {
		t.Errorf("parent resource = %+v", child.Parent.Resource)
	}
}

func TestFromConfig_UnknownParent(t *testing.T) {
	_, err := FromConfig([]config.EndpointConfig{
		{
			Path:    "api/v3/repositories/{pulp_id}/versions/",
			Methods: []string{"get"},
			Parent:  "missing",
		},
	})
	if err == nil {
		t.Fatal("expected error for unresolved parent")
	}
}

func TestFromConfig_EmptyMethods(t *testing.T) {
	_, err := FromConfig([]config.EndpointConfig{
		{
			Path: "api/v3/repositories/",
			Name: "repositories",
		},
	})
	if err == nil {
		t.Fatal("expected error for declaration without methods")
	}
}

func TestFromConfig_FieldMapping(t *testing.T) {
	eps, err := FromConfig([]config.EndpointConfig{
		{
			Path:    "api/v3/packages/",
			Methods: []string{"get"},
			Resource: &config.ResourceDecl{
				Model: "Package",
				App:   "core",
				Fields: []config.FieldDecl{
					{Name: "pulp_id", Type: "string", Format: "uuid", PrimaryKey: true},
					{Name: "filename", Type: "file", WriteOnly: true},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}

	fields := eps[0].Resource.Fields
	if len(fields) != 2 {
		t.Fatalf("len(fields) = %d", len(fields))
	}
	if fields[0].Type != route.FieldString || !fields[0].PrimaryKey {
		t.Errorf("fields[0] = %+v", fields[0])
	}
	if fields[1].Type != route.FieldFile || !fields[1].WriteOnly {
		t.Errorf("fields[1] = %+v", fields[1])
	}
}

func TestStatic_Replace(t *testing.T) {
	reg := NewStatic([]*route.Endpoint{{Path: "a/", Method: "get"}})

	got, err := reg.List(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("List = %v, %v", got, err)
	}

	reg.Replace([]*route.Endpoint{
		{Path: "a/", Method: "get"},
		{Path: "b/", Method: "get"},
	})
	got, err = reg.List(context.Background())
	if err != nil || len(got) != 2 {
		t.Fatalf("List after Replace = %v, %v", got, err)
	}
}
