package openapi

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/artpar/docgate/domain/route"
	"github.com/artpar/docgate/ports"
)

// defaultServerURL is published when the document is generated without an
// inbound request context, e.g. from the CLI.
const defaultServerURL = "http://localhost:8080"

// DocRequest carries the per-request knobs of a documentation request.
type DocRequest struct {
	// Plugin restricts the document to one plugin's endpoints.
	Plugin string
	// Bindings shortens operation ids to the bare action where the id
	// matches the {path}_{action} convention, for generated client use.
	Bindings bool
	// IncludeHTML keeps HTML markup in descriptions instead of stripping.
	IncludeHTML bool
	// BaseURL is the inbound request's scheme://host, used for the servers
	// entry. Empty means no request context.
	BaseURL string
	// Identity is the authenticated principal used for permission checks.
	Identity string
}

// Generator assembles OpenAPI documents from the route registry.
type Generator struct {
	routes   ports.RouteRegistry
	perms    ports.PermissionChecker
	settings ports.SettingsStore
	mountURL string
	logger   zerolog.Logger
}

// GeneratorConfig configures a Generator.
type GeneratorConfig struct {
	Routes   ports.RouteRegistry
	Perms    ports.PermissionChecker
	Settings ports.SettingsStore
	// MountURL is the URL prefix paths are normalized against. Defaults
	// to "/".
	MountURL string
	Logger   zerolog.Logger
}

// NewGenerator creates a generator.
func NewGenerator(cfg GeneratorConfig) *Generator {
	mount := cfg.MountURL
	if mount == "" {
		mount = "/"
	}
	return &Generator{
		routes:   cfg.Routes,
		perms:    cfg.Perms,
		settings: cfg.Settings,
		mountURL: mount,
		logger:   cfg.Logger,
	}
}

// GenerateDocument walks every registered endpoint and assembles the final
// document. When public is true, permission checks are bypassed and the
// document describes everything.
func (g *Generator) GenerateDocument(ctx context.Context, req *DocRequest, public bool) (*Spec, error) {
	if req == nil {
		req = &DocRequest{}
	}

	endpoints, err := g.routes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list endpoints: %w", err)
	}

	reg := NewComponentRegistry()
	paths := make(map[string]*PathItem)
	emitted := 0

	for _, ep := range endpoints {
		if req.Plugin != "" && ep.Module != req.Plugin {
			continue
		}
		if !public && g.perms != nil && !g.perms.Allowed(ctx, req.Identity, ep) {
			continue
		}

		schema := NewAutoSchema(ep)

		// Emit the endpoint under its original path and under the
		// abstract alias with the nested parameter renamed, deduplicating
		// when the two coincide.
		endpointPaths := []string{ep.Path}
		if alias := RenamePathParams(ep.Path, ep); alias != ep.Path {
			endpointPaths = append(endpointPaths, alias)
		}

		for _, p := range endpointPaths {
			op := schema.Operation(p, reg)
			if op == nil {
				continue
			}

			if !req.IncludeHTML {
				op.Description = StripTags(op.Description)
			}

			if req.Bindings {
				tokens := schema.TokenizePath()
				slugs := make([]string, len(tokens))
				for i, t := range tokens {
					slugs[i] = slugify(t)
				}
				action := schema.Action()
				if strings.Join(slugs, "_")+"_"+action == op.OperationID {
					op.OperationID = action
				}
			}

			if schema.method == "get" {
				op.Parameters = append(op.Parameters,
					Parameter{
						Name:        "fields",
						In:          "query",
						Description: "A list of fields to include in the response.",
						Schema:      &Schema{Type: "string"},
					},
					Parameter{
						Name:        "exclude_fields",
						In:          "query",
						Description: "A list of fields to exclude from the response.",
						Schema:      &Schema{Type: "string"},
					},
				)
			}

			// Normalize against the mount URL unless the path begins with
			// an unresolved placeholder.
			p = strings.TrimPrefix(p, "/")
			if !strings.HasPrefix(p, "{") {
				p = joinURL(g.mountURL, p)
			}

			item := paths[p]
			if item == nil {
				item = &PathItem{}
				paths[p] = item
			}
			item.SetOperation(schema.method, op)
			emitted++
		}
	}

	spec := &Spec{
		OpenAPI:    "3.0.3",
		Info:       g.buildInfo(ctx),
		Paths:      paths,
		Components: reg.Build(),
		Tags:       collectTags(paths),
	}

	serverURL := req.BaseURL
	if serverURL == "" {
		serverURL = defaultServerURL
	}
	spec.Servers = []Server{{URL: serverURL}}

	g.logger.Debug().
		Int("endpoints", len(endpoints)).
		Int("operations", emitted).
		Str("plugin", req.Plugin).
		Bool("public", public).
		Msg("generated document")

	return spec, nil
}

// buildInfo assembles document metadata from the settings store.
func (g *Generator) buildInfo(ctx context.Context) Info {
	info := Info{Title: "DocGate API", Version: "v3"}
	if g.settings == nil {
		return info
	}
	s, err := g.settings.Get(ctx)
	if err != nil {
		g.logger.Warn().Err(err).Msg("settings unavailable, using defaults")
		return info
	}
	if s.Title != "" {
		info.Title = s.Title
	}
	info.Description = s.Description
	if s.LogoURL != "" {
		info.Logo = &Logo{URL: s.LogoURL}
	}
	if len(s.Versions) > 0 {
		info.ComponentVersions = s.Versions
	}
	return info
}

// collectTags gathers the distinct operation tags, sorted.
func collectTags(paths map[string]*PathItem) []Tag {
	seen := make(map[string]bool)
	var names []string
	for _, item := range paths {
		for _, op := range item.Operations() {
			for _, t := range op.Tags {
				if !seen[t] {
					seen[t] = true
					names = append(names, t)
				}
			}
		}
	}
	sort.Strings(names)
	tags := make([]Tag, 0, len(names))
	for _, n := range names {
		tags = append(tags, Tag{Name: n})
	}
	return tags
}

// ParameterSlug returns the path parameter name for a resource: the model
// name in snake case, suffixed "href", with the owning app prepended when
// it is not the core app.
//
//	Resource{Model: "FileRepository", App: "file"} => "file_file_repository_href"
func ParameterSlug(res *route.Resource, prefix string) string {
	parts := camelParts(res.Model)
	if prefix != "" {
		parts = append([]string{prefix}, parts...)
	}
	if res.App != "" && res.App != "core" {
		parts = append([]string{res.App}, parts...)
	}
	parts = append(parts, "href")
	return strings.Join(parts, "_")
}

// RenamePathParams replaces the generic id placeholder with a name derived
// from the resource, so that sibling endpoints under one parent share an
// identical parameter name and generated clients sort consistently.
// Everything through the final path variable collapses to one slug.
//
// A list-style route nested under a parent is addressed by the parent's
// identifier only, so the slug derives from the parent's model. Deeply
// nested non-list routes prefix the slug with the parent's app and name.
func RenamePathParams(path string, ep *route.Endpoint) string {
	if !strings.Contains(path, "{") {
		return path
	}
	res := ep.Resource
	if res == nil {
		return path
	}

	prefix := ""
	if parent := ep.Parent; parent != nil && parent.Resource != nil {
		if ep.IsListView() {
			res = parent.Resource
		} else {
			prefix = slugify(parent.Resource.App + "_" + parent.Name)
		}
	}

	slug := ParameterSlug(res, prefix)
	end := strings.LastIndex(path, "}")
	resourcePath := path[:end+1] + "/"
	return strings.Replace(path, resourcePath, "{"+slug+"}", 1)
}

// joinURL resolves a relative path against the mount URL. Plain string
// concatenation: URL parsing would percent-encode the brace placeholders.
func joinURL(base, p string) string {
	if base == "" {
		base = "/"
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + strings.TrimPrefix(p, "/")
}

// camelParts splits a CamelCase name into lowercase parts:
// "RepositoryVersion" => ["repository", "version"].
func camelParts(name string) []string {
	var parts []string
	start := 0
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			parts = append(parts, strings.ToLower(name[start:i]))
			start = i
		}
	}
	if start < len(name) {
		parts = append(parts, strings.ToLower(name[start:]))
	}
	return parts
}
