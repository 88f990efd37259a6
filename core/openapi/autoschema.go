package openapi

import (
	"strings"
	"unicode"

	"github.com/artpar/docgate/domain/route"
)

// apiPrefix is the server's internal API mount. It never appears in tags or
// operation ids.
const apiPrefix = "api/v3/"

// methodActions maps HTTP methods to their canonical CRUD action names.
var methodActions = map[string]string{
	"get":    "read",
	"post":   "create",
	"put":    "update",
	"patch":  "partial_update",
	"delete": "delete",
}

// defaultActions are the handler actions that resolve through methodActions
// rather than being preserved verbatim.
var defaultActions = map[string]bool{
	"":               true,
	"retrieve":       true,
	"list":           true,
	"destroy":        true,
	"create":         true,
	"update":         true,
	"partial_update": true,
}

// AutoSchema derives one operation descriptor from an endpoint. A schema is
// bound to a single endpoint and method; the path may be either the
// endpoint's original pattern or its renamed alias.
type AutoSchema struct {
	endpoint *route.Endpoint
	method   string // lowercase
}

// NewAutoSchema binds a schema to an endpoint.
func NewAutoSchema(ep *route.Endpoint) *AutoSchema {
	return &AutoSchema{endpoint: ep, method: strings.ToLower(ep.Method)}
}

// TokenizePath derives the canonical token sequence for the endpoint:
// parent pieces for nested routes, then the endpoint's own pieces, with the
// API mount prefix stripped. Endpoints with neither pieces nor a name fall
// back to the static path segments.
func (s *AutoSchema) TokenizePath() []string {
	var tokens []string
	if p := s.endpoint.Parent; p != nil {
		tokens = append(tokens, p.EndpointPieces()...)
	}
	if len(s.endpoint.Pieces) > 0 {
		tokens = append(tokens, s.endpoint.Pieces...)
	} else if s.endpoint.Parent != nil && s.endpoint.Name != "" {
		tokens = append(tokens, s.endpoint.Name)
	}
	if len(tokens) == 0 {
		tokens = route.PathTokens(s.endpoint.Path)
		if len(tokens) == 0 && s.endpoint.Name != "" {
			tokens = strings.Fields(s.endpoint.Name)
		}
	}

	joined := strings.ReplaceAll(strings.Join(tokens, "/"), apiPrefix, "")
	if joined == "" {
		return nil
	}
	return strings.Split(joined, "/")
}

// Tags derives the single tag grouping this operation. Tokens are
// title-cased; paths deeper than two tokens collapse by dropping the
// second-to-last token; multi-token tags gain a colon after the first.
//
//	"repositories"            => "Repositories"
//	"content/file/files"      => "Content: Files"
func (s *AutoSchema) Tags() []string {
	if s.endpoint.TagName != "" {
		return []string{s.endpoint.TagName}
	}

	keys := s.TokenizePath()
	titled := make([]string, len(keys))
	for i, k := range keys {
		titled[i] = titleCase(k)
	}
	if len(titled) > 2 {
		titled = append(titled[:len(titled)-2], titled[len(titled)-1])
	}
	if len(titled) > 1 {
		titled[0] += ":"
	}
	return []string{strings.Join(titled, " ")}
}

// Action resolves the operation's action name. Custom actions declared by
// the endpoint pass through verbatim; a GET against a collection-style
// route lists instead of reading.
func (s *AutoSchema) Action() string {
	if !defaultActions[s.endpoint.Action] {
		return s.endpoint.Action
	}
	if s.method == "get" && s.endpoint.IsListView() {
		return "list"
	}
	return methodActions[s.method]
}

// OperationID combines the tokenized path with the resolved action:
// "api/v3/content/file/files/{id}/" + PATCH =>
// "content_file_files_partial_update".
func (s *AutoSchema) OperationID() string {
	tokens := s.TokenizePath()
	parts := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		parts = append(parts, slugify(t))
	}
	return strings.Join(append(parts, s.Action()), "_")
}

// Summary derives the short human sentence shown for the operation. It is
// empty for endpoints with no associated resource and for custom actions.
func (s *AutoSchema) Summary() string {
	res := s.endpoint.Resource
	if res == nil {
		return ""
	}

	article := "a"
	if name := res.Singular; name != "" && strings.ContainsRune("aeiou", unicode.ToLower(rune(name[0]))) {
		article = "an"
	}

	switch s.Action() {
	case "read":
		return "Inspect " + article + " " + res.Singular
	case "list":
		return "List " + res.Plural
	case "create":
		return "Create " + article + " " + res.Singular
	case "update":
		return "Update " + article + " " + res.Singular
	case "delete":
		return "Delete " + article + " " + res.Singular
	case "partial_update":
		return "Partially update " + article + " " + res.Singular
	}
	return ""
}

// PathParameters resolves every path variable in path to a parameter
// descriptor. Variables matching a resource field copy that field's schema
// minus the metadata irrelevant to a path parameter; unresolvable variables
// fall back to a generic string parameter.
func (s *AutoSchema) PathParameters(path string) []Parameter {
	var params []Parameter
	res := s.endpoint.Resource
	for _, v := range route.Variables(path) {
		schema := &Schema{Type: "string"}
		description := ""
		if res != nil {
			if f, ok := res.Field(v); ok {
				schema = fieldSchema(f)
				schema.ReadOnly = false
				schema.WriteOnly = false
				schema.Nullable = false
				schema.Default = nil
				if schema.Description == "" && f.PrimaryKey {
					description = "A unique value identifying this " + res.Singular + "."
				}
			}
		}
		params = append(params, Parameter{
			Name:        v,
			In:          "path",
			Description: description,
			Required:    true,
			Schema:      schema,
		})
	}
	return params
}

// RequestBody builds the request body descriptor, or nil when the method or
// endpoint carries none. Bodies are always required. Endpoints accepting a
// file field switch to form media types for uploads.
func (s *AutoSchema) RequestBody(reg *ComponentRegistry) *RequestBody {
	switch s.method {
	case "post", "put", "patch":
	default:
		return nil
	}
	fields := s.endpoint.RequestFields
	if len(fields) == 0 {
		return nil
	}

	ref := reg.Register(s.componentName("request"), objectSchema(fields, "request"))

	mediaTypes := []string{"application/json"}
	for _, f := range fields {
		if f.Type == route.FieldFile {
			mediaTypes = []string{"multipart/form-data", "application/x-www-form-urlencoded"}
			break
		}
	}

	content := make(map[string]MediaType, len(mediaTypes))
	for _, mt := range mediaTypes {
		content[mt] = MediaType{Schema: ref}
	}
	return &RequestBody{Required: true, Content: content}
}

// Responses builds the status-code map. A POST resolving to the create
// action reports 201 instead of 200; DELETE reports 204 with no body.
func (s *AutoSchema) Responses(reg *ComponentRegistry) map[string]Response {
	if s.method == "delete" {
		return map[string]Response{"204": {Description: "No response body"}}
	}

	resp := Response{Description: "OK"}
	if fields := s.endpoint.ResponseFields; len(fields) > 0 {
		ref := reg.Register(s.componentName("response"), objectSchema(fields, "response"))
		resp.Content = map[string]MediaType{"application/json": {Schema: ref}}
	}

	responses := map[string]Response{"200": resp}
	if s.method == "post" && s.Action() == "create" {
		created := responses["200"]
		created.Description = "Created"
		delete(responses, "200")
		responses["201"] = created
	}
	return responses
}

// Operation assembles the full descriptor for one emitted path. Returns nil
// when the endpoint is excluded from documents.
func (s *AutoSchema) Operation(path string, reg *ComponentRegistry) *Operation {
	if s.endpoint.Exclude {
		return nil
	}
	return &Operation{
		Tags:        s.Tags(),
		Summary:     s.Summary(),
		Description: s.endpoint.Description,
		OperationID: s.OperationID(),
		Parameters:  s.PathParameters(path),
		RequestBody: s.RequestBody(reg),
		Responses:   s.Responses(reg),
	}
}

// componentName names the schema component for one body direction. Request
// components drop a trailing "Request"; response components always carry a
// "Response" suffix.
func (s *AutoSchema) componentName(direction string) string {
	base := ""
	if s.endpoint.Resource != nil {
		base = s.endpoint.Resource.Model
	}
	if base == "" {
		base = titleCase(s.endpoint.Name)
	}
	if direction == "request" {
		return strings.TrimSuffix(base, "Request")
	}
	if !strings.HasSuffix(base, "Response") {
		base += "Response"
	}
	return base
}

// objectSchema builds an object schema from resource fields. Read-only
// fields are omitted from request bodies, write-only fields from responses.
func objectSchema(fields []route.Field, direction string) *Schema {
	schema := &Schema{Type: "object", Properties: make(map[string]*Schema)}
	for _, f := range fields {
		if direction == "request" && f.ReadOnly {
			continue
		}
		if direction == "response" && f.WriteOnly {
			continue
		}
		schema.Properties[f.Name] = fieldSchema(f)
		if direction == "request" && f.Required {
			schema.Required = append(schema.Required, f.Name)
		}
	}
	return schema
}

// fieldSchema maps a resource field to its schema.
func fieldSchema(f route.Field) *Schema {
	s := &Schema{
		Format:      f.Format,
		Description: f.Description,
		Nullable:    f.Nullable,
		ReadOnly:    f.ReadOnly,
		WriteOnly:   f.WriteOnly,
		Default:     f.Default,
	}
	switch f.Type {
	case route.FieldInteger:
		s.Type = "integer"
	case route.FieldNumber:
		s.Type = "number"
	case route.FieldBoolean:
		s.Type = "boolean"
	case route.FieldUUID:
		s.Type = "string"
		if s.Format == "" {
			s.Format = "uuid"
		}
	case route.FieldDateTime:
		s.Type = "string"
		if s.Format == "" {
			s.Format = "date-time"
		}
	case route.FieldFile:
		s.Type = "string"
		if s.Format == "" {
			s.Format = "binary"
		}
	default:
		s.Type = "string"
	}
	return s
}

// slugify lowercases a token and folds separators to underscores, matching
// the operation id convention.
func slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, "/", "_")
}

// titleCase capitalizes the first letter of every alphabetic run, the way
// path tokens are rendered in tags: "file-repos" => "File-Repos".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
