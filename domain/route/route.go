// Package route defines the routing metadata consumed by the documentation
// generator. Endpoints describe what the server exposes; the generator never
// touches the server's handler machinery directly.
package route

import "strings"

// FieldType enumerates the wire types a resource field can carry.
type FieldType string

// Supported field types.
const (
	FieldString   FieldType = "string"
	FieldInteger  FieldType = "integer"
	FieldNumber   FieldType = "number"
	FieldBoolean  FieldType = "boolean"
	FieldUUID     FieldType = "uuid"
	FieldDateTime FieldType = "datetime"
	FieldFile     FieldType = "file"
)

// Field describes one field of a resource model.
type Field struct {
	Name        string
	Type        FieldType
	Format      string
	Description string
	PrimaryKey  bool
	ReadOnly    bool
	WriteOnly   bool
	Nullable    bool
	Default     any
	Required    bool
}

// Resource describes the model an endpoint operates on.
type Resource struct {
	// Model is the CamelCase model name, e.g. "RepositoryVersion".
	Model string
	// App is the owning application label. "core" marks built-in resources.
	App string
	// Singular and Plural are display names used for summaries.
	Singular string
	Plural   string
	Fields   []Field
}

// Field returns the named field, if the resource declares it.
func (r *Resource) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Endpoint is one routable operation: a path pattern plus a single HTTP
// method and the metadata needed to document it.
type Endpoint struct {
	// Path is the raw pattern, e.g. "api/v3/repositories/{id}/".
	Path string
	// Method is the HTTP method, stored lower-case ("get", "post").
	Method string
	// Module names the plugin that owns the handler.
	Module string
	// Name is the endpoint's registered name, e.g. "repositories".
	Name string
	// Action is the handler action. Empty means the CRUD default for the
	// method; anything outside the default set is a custom action such as
	// "sync" and is preserved verbatim in operation ids.
	Action      string
	Description string
	// TagName overrides tag derivation when set.
	TagName string
	// Pieces overrides path tokenization when set.
	Pieces []string
	// Parent is the viewset this endpoint nests under, if any.
	Parent *Endpoint
	// Resource is the model this endpoint serves. May be nil for routes
	// with no associated resource type.
	Resource *Resource
	// RequestFields and ResponseFields describe the request and response
	// body shapes.
	RequestFields  []Field
	ResponseFields []Field
	// Exclude drops the operation from generated documents.
	Exclude bool
	// Protected hides the endpoint from unauthenticated document requests.
	Protected bool
}

// Variables returns the path variable names in order of appearance.
func Variables(path string) []string {
	var vars []string
	rest := path
	for {
		open := strings.Index(rest, "{")
		if open < 0 {
			return vars
		}
		rest = rest[open+1:]
		end := strings.Index(rest, "}")
		if end < 0 {
			return vars
		}
		vars = append(vars, rest[:end])
		rest = rest[end+1:]
	}
}

// IsItemPath reports whether the final path segment is a variable, i.e. the
// path addresses a single resource rather than a collection.
func IsItemPath(path string) bool {
	trimmed := strings.TrimSuffix(path, "/")
	idx := strings.LastIndex(trimmed, "/")
	last := trimmed[idx+1:]
	return strings.HasPrefix(last, "{") && strings.HasSuffix(last, "}")
}

// IsListView reports whether this endpoint behaves as a collection-style
// route. An explicit "list" action forces it; a custom action never lists.
func (e *Endpoint) IsListView() bool {
	switch e.Action {
	case "list":
		return true
	case "":
		return !IsItemPath(e.Path)
	default:
		return false
	}
}

// EndpointPieces returns the tokens this endpoint contributes to nested
// paths: the explicit override when present, otherwise the registered name.
func (e *Endpoint) EndpointPieces() []string {
	if len(e.Pieces) > 0 {
		return e.Pieces
	}
	if e.Name != "" {
		return []string{e.Name}
	}
	return PathTokens(e.Path)
}

// PathTokens splits a path pattern into its static segments, dropping
// variable placeholders.
func PathTokens(path string) []string {
	var tokens []string
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || strings.HasPrefix(seg, "{") {
			continue
		}
		tokens = append(tokens, seg)
	}
	return tokens
}
