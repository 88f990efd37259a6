// Package registry provides the route registry backing document assembly.
package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/artpar/docgate/config"
	"github.com/artpar/docgate/domain/route"
	"github.com/artpar/docgate/ports"
)

// Static is an in-memory route registry. Endpoint declarations come from
// configuration and can be swapped wholesale on config reload.
type Static struct {
	mu        sync.RWMutex
	endpoints []*route.Endpoint
}

// NewStatic creates a registry over a fixed endpoint set.
func NewStatic(endpoints []*route.Endpoint) *Static {
	return &Static{endpoints: endpoints}
}

// List returns the registered endpoints.
func (s *Static) List(ctx context.Context) ([]*route.Endpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*route.Endpoint, len(s.endpoints))
	copy(out, s.endpoints)
	return out, nil
}

// Replace swaps the endpoint set, typically after a config reload.
func (s *Static) Replace(endpoints []*route.Endpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endpoints = endpoints
}

var _ ports.RouteRegistry = (*Static)(nil)

// FromConfig converts endpoint declarations into domain endpoints, expanding
// one declaration per method and resolving parent references by name.
func FromConfig(decls []config.EndpointConfig) ([]*route.Endpoint, error) {
	byName := make(map[string]*route.Endpoint)

	// First pass: build endpoints without parents so references resolve
	// regardless of declaration order.
	built := make([][]*route.Endpoint, len(decls))
	for i, decl := range decls {
		if len(decl.Methods) == 0 {
			return nil, fmt.Errorf("endpoint %s: at least one method required", decl.Path)
		}

		res, err := buildResource(decl.Resource)
		if err != nil {
			return nil, fmt.Errorf("endpoint %s: %w", decl.Path, err)
		}

		group := make([]*route.Endpoint, 0, len(decl.Methods))
		for _, method := range decl.Methods {
			ep := &route.Endpoint{
				Path:           decl.Path,
				Method:         strings.ToLower(method),
				Module:         decl.Module,
				Name:           decl.Name,
				Action:         decl.Action,
				Description:    decl.Description,
				TagName:        decl.Tag,
				Pieces:         decl.Pieces,
				Resource:       res,
				RequestFields:  buildFields(decl.Request),
				ResponseFields: buildFields(decl.Response),
				Exclude:        decl.Exclude,
				Protected:      decl.Protected,
			}
			group = append(group, ep)
		}
		built[i] = group

		if decl.Name != "" {
			// Any method's endpoint works as a parent; they share
			// path, name, and resource.
			byName[decl.Name] = group[0]
		}
	}

	var out []*route.Endpoint
	for i, decl := range decls {
		if decl.Parent != "" {
			parent, ok := byName[decl.Parent]
			if !ok {
				return nil, fmt.Errorf("endpoint %s: unknown parent %q", decl.Path, decl.Parent)
			}
			if parent.Path == decl.Path {
				return nil, fmt.Errorf("endpoint %s: parent cycle via %q", decl.Path, decl.Parent)
			}
			for _, ep := range built[i] {
				ep.Parent = parent
			}
		}
		out = append(out, built[i]...)
	}
	return out, nil
}

func buildResource(decl *config.ResourceDecl) (*route.Resource, error) {
	if decl == nil {
		return nil, nil
	}
	if decl.Model == "" {
		return nil, fmt.Errorf("resource model required")
	}
	return &route.Resource{
		Model:    decl.Model,
		App:      decl.App,
		Singular: decl.Singular,
		Plural:   decl.Plural,
		Fields:   buildFields(decl.Fields),
	}, nil
}

func buildFields(decls []config.FieldDecl) []route.Field {
	if len(decls) == 0 {
		return nil
	}
	out := make([]route.Field, 0, len(decls))
	for _, d := range decls {
		out = append(out, route.Field{
			Name:        d.Name,
			Type:        route.FieldType(d.Type),
			Format:      d.Format,
			Description: d.Description,
			PrimaryKey:  d.PrimaryKey,
			ReadOnly:    d.ReadOnly,
			WriteOnly:   d.WriteOnly,
			Nullable:    d.Nullable,
			Required:    d.Required,
			Default:     d.Default,
		})
	}
	return out
}
